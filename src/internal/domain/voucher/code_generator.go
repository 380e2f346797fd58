package voucher

import (
	"strings"

	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
)

// DefaultCodePrefix 折價券代碼預設前綴
const DefaultCodePrefix = "CQ"

const randomCodeLength = 8

// MaxCodeLength 折價券代碼最大長度（與 vouchers.code 欄位一致）
const MaxCodeLength = 32

// MaxPrefixLength 前綴上限
const MaxPrefixLength = MaxCodeLength - randomCodeLength

// CodeGenerator 產生候選折價券代碼（前綴 + 8 碼 base36）
type CodeGenerator struct {
	prefix string
	random shared.RandomSource
}

// NewCodeGenerator 建構函數
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

// Generate 產生一個候選代碼（唯一性由呼叫者確認）
func (g *CodeGenerator) Generate() string {
	return g.prefix + shared.RandomCode(g.random, randomCodeLength)
}
