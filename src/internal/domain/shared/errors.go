package shared

import (
	"fmt"
	"sort"
	"strings"
)

// ===========================
// DomainError 結構
// ===========================

// ErrorCode 錯誤代碼類型（用於 HTTP 狀態碼映射與指標標籤）
type ErrorCode string

// DomainError 領域錯誤
//
// 設計原則：
// 1. 結構化錯誤代碼（Code）
// 2. 面向使用者的訊息（Message，可直接回傳給前端）
// 3. 上下文信息（Context，只寫入日誌，不回傳給呼叫者）
// 4. 不可變：WithContext 返回新實例
type DomainError struct {
	Code    ErrorCode
	Message string
	Context map[string]interface{}
}

// NewDomainError 建立預定義錯誤
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Error 實現 error 接口
func (e *DomainError) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s (context: %s)", e.Code, e.Message, formatContext(e.Context))
}

// WithContext 添加上下文信息（返回新的錯誤實例）
func (e *DomainError) WithContext(keyValues ...interface{}) error {
	if len(keyValues)%2 != 0 {
		panic("WithContext requires even number of arguments (key-value pairs)")
	}

	ctx := make(map[string]interface{}, len(e.Context)+len(keyValues)/2)
	for k, v := range e.Context {
		ctx[k] = v
	}
	for i := 0; i < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			panic(fmt.Sprintf("context key must be string, got %T", keyValues[i]))
		}
		ctx[key] = keyValues[i+1]
	}

	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Context: ctx,
	}
}

// WithMessage 以新的使用者訊息複製錯誤（例如帶入動態數值）
func (e *DomainError) WithMessage(message string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: message,
		Context: e.Context,
	}
}

// Is 實現 errors.Is 接口（以錯誤代碼比較）
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// formatContext 以固定鍵順序輸出上下文，便於日誌比對
func formatContext(ctx map[string]interface{}) string {
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, ctx[k]))
	}
	return strings.Join(parts, ", ")
}

// ===========================
// 共用錯誤
// ===========================

const (
	ErrCodeRepositoryError ErrorCode = "REPOSITORY_ERROR"
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidRequest  ErrorCode = "INVALID_REQUEST"
)

var (
	// ErrRepositoryError 倉儲操作失敗（非預期錯誤，對外只回傳通用訊息）
	ErrRepositoryError = NewDomainError(ErrCodeRepositoryError, "repository operation failed")

	// ErrUnauthorized 未通過身分驗證
	ErrUnauthorized = NewDomainError(ErrCodeUnauthorized, "authentication required")

	// ErrInvalidRequest 請求格式錯誤
	ErrInvalidRequest = NewDomainError(ErrCodeInvalidRequest, "invalid request")
)
