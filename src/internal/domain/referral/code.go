package referral

import (
	"strings"

	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
)

// ===========================
// Code 值對象
// ===========================

// MaxCodeLength 推薦碼最大長度
const MaxCodeLength = 32

// Code 推薦碼（去除空白並轉為大寫）
type Code struct {
	value string
}

// NewCode 正規化並驗證推薦碼
//
// 空字串返回 ErrMissingCode；含非英數字元或過長返回 ErrInvalidOrUsedCode，
// 對呼叫者而言與不存在的推薦碼無法區分。
func NewCode(raw string) (Code, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return Code{}, ErrMissingCode
	}
	if len(value) > MaxCodeLength {
		return Code{}, ErrInvalidOrUsedCode.WithContext("code", value, "reason", "too long")
	}
	for _, r := range value {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return Code{}, ErrInvalidOrUsedCode.WithContext("code", value, "reason", "invalid character")
		}
	}
	return Code{value: value}, nil
}

// String 推薦碼字串
func (c Code) String() string { return c.value }

// IsEmpty 是否為零值
func (c Code) IsEmpty() bool { return c.value == "" }

// Equals 比較
func (c Code) Equals(other Code) bool { return c.value == other.value }

// ===========================
// CodeGenerator 領域服務
// ===========================

// 預設推薦碼組成
const (
	DefaultCodePrefix = "MAHI"
	userSuffixLength  = 6
	randomSuffixLen   = 4

	// MaxPrefixLength 前綴上限，產生的代碼不超過 MaxCodeLength
	MaxPrefixLength = MaxCodeLength - userSuffixLength - randomSuffixLen
)

// CodeGenerator 產生候選推薦碼：前綴 + 使用者 ID 後 6 碼 + 4 碼隨機 base36
//
// 只負責產生候選值，唯一性由 Use Case 查詢倉儲並有上限地重試。
type CodeGenerator struct {
	prefix string
	random shared.RandomSource
}

// NewCodeGenerator 建構函數（prefix 為空時使用 DefaultCodePrefix）
func NewCodeGenerator(prefix string, random shared.RandomSource) *CodeGenerator {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = DefaultCodePrefix
	}
	if random == nil {
		random = shared.DefaultRandom()
	}
	return &CodeGenerator{prefix: prefix, random: random}
}

// Generate 產生一個候選推薦碼
func (g *CodeGenerator) Generate(userID shared.UserID) Code {
	value := g.prefix +
		strings.ToUpper(userID.Suffix(userSuffixLength)) +
		shared.RandomCode(g.random, randomSuffixLen)
	return Code{value: value}
}
