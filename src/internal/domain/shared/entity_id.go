package shared

import (
	"strings"

	"github.com/google/uuid"
)

// ===========================
// EntityID[T] 泛型實體 ID
// ===========================

// EntityID 泛型實體 ID 值對象
//
// 設計原則：
// 1. 類型安全：UserID、EntryID、ReferralID、VoucherID 不能混用
// 2. 不可變（unexported field）
// 3. 自我驗證（由建構函數保證格式）
//
// 泛型參數 T 僅作為標記類型（marker type），不需要任何方法或字段：
//
//	type UserMarker struct{}
//	type UserID = shared.EntityID[UserMarker]
type EntityID[T any] struct {
	value uuid.UUID
}

// NewEntityID 生成新的實體 ID（UUID v4）
func NewEntityID[T any]() EntityID[T] {
	return EntityID[T]{value: uuid.New()}
}

// EntityIDFromString 從字串解析實體 ID
//
// 參數：
//
//	s - UUID 字串（會先去除前後空白）
//	errTemplate - 解析失敗時返回的錯誤模板（由各 bounded context 提供）
//
// 若 errTemplate 是 *DomainError，會附帶 input 與 parse_error 上下文。
func EntityIDFromString[T any](s string, errTemplate error) (EntityID[T], error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil || id == uuid.Nil {
		reason := "nil uuid"
		if err != nil {
			reason = err.Error()
		}
		if domainErr, ok := errTemplate.(interface {
			WithContext(keyValues ...interface{}) error
		}); ok {
			return EntityID[T]{}, domainErr.WithContext(
				"input", s,
				"parse_error", reason,
			)
		}
		return EntityID[T]{}, errTemplate
	}
	return EntityID[T]{value: id}, nil
}

// String 小寫 UUID 字串
func (e EntityID[T]) String() string {
	return e.value.String()
}

// Equals 比較兩個同類型 ID
func (e EntityID[T]) Equals(other EntityID[T]) bool {
	return e.value == other.value
}

// IsEmpty 是否為零值
func (e EntityID[T]) IsEmpty() bool {
	return e.value == uuid.Nil
}

// Suffix 返回 UUID 十六進位字元（去除連字號）的最後 n 碼，用於產生人類可讀代碼
//
// n 超過長度時返回全部字元。
func (e EntityID[T]) Suffix(n int) string {
	hex := strings.ReplaceAll(e.value.String(), "-", "")
	if n >= len(hex) {
		return hex
	}
	return hex[len(hex)-n:]
}
