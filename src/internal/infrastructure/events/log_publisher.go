package events

import (
	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/referral"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/jackyeh168/cartquest/src/internal/domain/voucher"
	"github.com/sirupsen/logrus"
)

// ===========================
// LogPublisher 事件發布器
// ===========================

// Counter 事件計數（由 metrics.Metrics 實作，可為 nil）
type Counter interface {
	EventPublished(eventType string)
}

// LogPublisher 把領域事件寫成結構化日誌
//
// 事件只在事務提交後發布，發布失敗不影響已提交的業務結果。
type LogPublisher struct {
	log     *logrus.Entry
	counter Counter
}

var _ shared.EventPublisher = (*LogPublisher)(nil)

// NewLogPublisher 建構函數
func NewLogPublisher(log *logrus.Entry, counter Counter) *LogPublisher {
	return &LogPublisher{log: log.WithField("component", "events"), counter: counter}
}

// Publish 發布單一事件
func (p *LogPublisher) Publish(event shared.DomainEvent) error {
	fields := logrus.Fields{
		"event_id":     event.EventID(),
		"event_type":   event.EventType(),
		"aggregate_id": event.AggregateID(),
		"occurred_at":  event.OccurredAt(),
	}

	switch e := event.(type) {
	case *coins.CoinsChangedEvent:
		fields["user_id"] = e.UserID
		fields["amount"] = e.Amount
		fields["kind"] = e.Kind.String()
		fields["balance_after"] = e.BalanceAfter
		if e.OrderID != "" {
			fields["order_id"] = e.OrderID
		}
		if e.ReferralID != "" {
			fields["referral_id"] = e.ReferralID
		}
	case *referral.ReferralEvent:
		fields["referrer_id"] = e.ReferrerID
		fields["code"] = e.Code
		if e.ReferredUserID != "" {
			fields["referred_user_id"] = e.ReferredUserID
			fields["coins_awarded"] = e.CoinsAwarded
		}
	case *voucher.VoucherEvent:
		fields["user_id"] = e.UserID
		fields["code"] = e.Code
		fields["voucher_kind"] = string(e.Kind)
		fields["value"] = e.Value
		fields["source"] = string(e.Source)
	}

	p.log.WithFields(fields).Info("domain event")
	if p.counter != nil {
		p.counter.EventPublished(event.EventType())
	}
	return nil
}

// PublishBatch 依序發布
func (p *LogPublisher) PublishBatch(events []shared.DomainEvent) error {
	for _, event := range events {
		if err := p.Publish(event); err != nil {
			return err
		}
	}
	return nil
}
