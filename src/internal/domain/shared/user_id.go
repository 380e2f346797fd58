package shared

// ===========================
// UserID - 使用者 ID（跨 bounded context 共用）
// ===========================
//
// 使用者本身由外部身分系統管理（HTTP 層從 JWT 取得 user_id），
// 帳本、推薦碼、折價券都只以 UserID 弱引用使用者。

// UserMarker 是 UserID 的標記類型
type UserMarker struct{}

// UserID 使用者唯一標識符
type UserID = EntityID[UserMarker]

// ErrCodeInvalidUserID 使用者 ID 格式錯誤
const ErrCodeInvalidUserID ErrorCode = "USER_ID_INVALID"

// ErrInvalidUserID 無效的使用者 ID
var ErrInvalidUserID = NewDomainError(ErrCodeInvalidUserID, "invalid user id")

// NewUserID 生成新的使用者 ID（測試與種子資料使用）
func NewUserID() UserID {
	return NewEntityID[UserMarker]()
}

// UserIDFromString 從字串解析使用者 ID
func UserIDFromString(s string) (UserID, error) {
	return EntityIDFromString[UserMarker](s, ErrInvalidUserID)
}
