package coins

import "github.com/jackyeh168/cartquest/src/internal/domain/shared"

// EntryMarker 是 EntryID 的標記類型
type EntryMarker struct{}

// EntryID 帳本分錄的唯一標識符
type EntryID = shared.EntityID[EntryMarker]

// NewEntryID 生成新的分錄 ID
func NewEntryID() EntryID {
	return shared.NewEntityID[EntryMarker]()
}

// EntryIDFromString 從字串解析分錄 ID（僅供 Repository 重建使用）
func EntryIDFromString(s string) (EntryID, error) {
	return shared.EntityIDFromString[EntryMarker](s, ErrInvalidEntryID)
}
