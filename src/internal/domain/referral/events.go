package referral

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
)

const (
	EventTypeReferralCodeIssued = "referral.code_issued"
	EventTypeReferralCompleted  = "referral.completed"
	EventTypeReferralExpired    = "referral.expired"
)

// ReferralEvent 推薦記錄狀態事件
type ReferralEvent struct {
	shared.BaseEvent

	ReferrerID     string
	ReferredUserID string
	Code           string
	CoinsAwarded   int
}

func newReferralEvent(eventType string, r *Referral, at time.Time) *ReferralEvent {
	event := &ReferralEvent{
		BaseEvent: shared.BaseEvent{
			ID:          uuid.New().String(),
			Type:        eventType,
			Aggregate:   r.id.String(),
			OccurredAtT: at,
		},
		ReferrerID:   r.referrerID.String(),
		Code:         r.code.String(),
		CoinsAwarded: r.coinsAwarded,
	}
	if !r.referredUserID.IsEmpty() {
		event.ReferredUserID = r.referredUserID.String()
	}
	return event
}

// NewReferralCodeIssuedEvent 推薦碼已發放
func NewReferralCodeIssuedEvent(r *Referral) *ReferralEvent {
	return newReferralEvent(EventTypeReferralCodeIssued, r, r.createdAt)
}

// NewReferralCompletedEvent 推薦已完成
func NewReferralCompletedEvent(r *Referral) *ReferralEvent {
	return newReferralEvent(EventTypeReferralCompleted, r, *r.completedAt)
}

// NewReferralExpiredEvent 推薦碼已作廢
func NewReferralExpiredEvent(r *Referral, at time.Time) *ReferralEvent {
	return newReferralEvent(EventTypeReferralExpired, r, at)
}
