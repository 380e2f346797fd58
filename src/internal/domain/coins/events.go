package coins

import (
	"github.com/google/uuid"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
)

// ===========================
// 帳本領域事件
// ===========================

const (
	EventTypeCoinsCredited = "coins.credited"
	EventTypeCoinsDebited  = "coins.debited"
)

// CoinsChangedEvent 金幣入帳 / 扣帳事件（共用結構，以 EventType 區分）
type CoinsChangedEvent struct {
	shared.BaseEvent

	UserID       string
	EntryID      string
	Amount       int
	Kind         EntryKind
	BalanceAfter int
	OrderID      string
	ReferralID   string
}

func newCoinsChangedEvent(eventType string, entry *LedgerEntry) *CoinsChangedEvent {
	return &CoinsChangedEvent{
		BaseEvent: shared.BaseEvent{
			ID:          uuid.New().String(),
			Type:        eventType,
			Aggregate:   entry.userID.String(),
			OccurredAtT: entry.createdAt,
		},
		UserID:       entry.userID.String(),
		EntryID:      entry.id.String(),
		Amount:       entry.amount,
		Kind:         entry.kind,
		BalanceAfter: entry.balanceAfter,
		OrderID:      entry.relatedOrderID,
		ReferralID:   entry.relatedReferralID,
	}
}

// NewCoinsCreditedEvent 入帳事件
func NewCoinsCreditedEvent(entry *LedgerEntry) *CoinsChangedEvent {
	return newCoinsChangedEvent(EventTypeCoinsCredited, entry)
}

// NewCoinsDebitedEvent 扣帳事件
func NewCoinsDebitedEvent(entry *LedgerEntry) *CoinsChangedEvent {
	return newCoinsChangedEvent(EventTypeCoinsDebited, entry)
}
