package referral

import "github.com/jackyeh168/cartquest/src/internal/domain/shared"

// ReferralMarker 是 ReferralID 的標記類型
type ReferralMarker struct{}

// ReferralID 推薦記錄唯一標識符
type ReferralID = shared.EntityID[ReferralMarker]

// NewReferralID 生成新的推薦記錄 ID
func NewReferralID() ReferralID {
	return shared.NewEntityID[ReferralMarker]()
}

// ReferralIDFromString 從字串解析推薦記錄 ID
func ReferralIDFromString(s string) (ReferralID, error) {
	return shared.EntityIDFromString[ReferralMarker](s, ErrInvalidReferralID)
}
