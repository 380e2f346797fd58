package voucher

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ===========================
// DiscountVoucher 聚合根
// ===========================

// DefaultTTL 折價券預設有效期（30 天）
const DefaultTTL = 30 * 24 * time.Hour

var maxPercent = decimal.NewFromInt(100)

// DiscountVoucher 折價券
//
// 與金幣帳本無關：兌換金幣時會同時發放一張 amount 券，但券本身不影響餘額。
//
// 不變條件：
// - percent: 0 < value <= 100
// - amount: value > 0
// - used 只能從 false 變為 true，且只發生一次
type DiscountVoucher struct {
	id        VoucherID
	userID    shared.UserID
	code      string
	kind      Kind
	value     decimal.Decimal
	source    Source
	used      bool
	usedAt    *time.Time
	expiresAt time.Time
	createdAt time.Time

	events []shared.DomainEvent
}

// IssueParams 發放參數
type IssueParams struct {
	UserID shared.UserID
	Code   string
	Kind   Kind
	Value  decimal.Decimal
	Source Source
	TTL    time.Duration
}

// Issue 發放新折價券
func Issue(p IssueParams, now time.Time) (*DiscountVoucher, error) {
	if p.UserID.IsEmpty() {
		return nil, shared.ErrInvalidUserID.WithContext("reason", "voucher owner cannot be empty")
	}
	code, err := NormalizeCode(p.Code)
	if err != nil {
		return nil, err
	}
	if _, err := ParseKind(string(p.Kind)); err != nil {
		return nil, err
	}
	if _, err := ParseSource(string(p.Source)); err != nil {
		return nil, err
	}
	if err := validateValue(p.Kind, p.Value); err != nil {
		return nil, err
	}
	ttl := p.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	issuedAt := now.UTC()
	v := &DiscountVoucher{
		id:        NewVoucherID(),
		userID:    p.UserID,
		code:      code,
		kind:      p.Kind,
		value:     p.Value,
		source:    p.Source,
		expiresAt: issuedAt.Add(ttl),
		createdAt: issuedAt,
		events:    make([]shared.DomainEvent, 0),
	}
	v.addEvent(newVoucherEvent(EventTypeVoucherIssued, v, issuedAt))
	return v, nil
}

// ReconstructVoucher 從持久化存儲重建（僅供 Repository 使用）
func ReconstructVoucher(
	id VoucherID,
	userID shared.UserID,
	code string,
	kind Kind,
	value decimal.Decimal,
	source Source,
	used bool,
	usedAt *time.Time,
	expiresAt time.Time,
	createdAt time.Time,
) (*DiscountVoucher, error) {
	if id.IsEmpty() {
		return nil, ErrInvalidVoucherID.WithContext("reason", "empty voucher id in database")
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	if err := validateValue(kind, value); err != nil {
		return nil, err
	}
	return &DiscountVoucher{
		id:        id,
		userID:    userID,
		code:      code,
		kind:      kind,
		value:     value,
		source:    source,
		used:      used,
		usedAt:    usedAt,
		expiresAt: expiresAt,
		createdAt: createdAt,
		events:    make([]shared.DomainEvent, 0),
	}, nil
}

// NormalizeCode 去除空白並轉為大寫
func NormalizeCode(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return "", ErrMissingCode
	}
	return code, nil
}

func validateValue(kind Kind, value decimal.Decimal) error {
	if !value.IsPositive() {
		return ErrInvalidValue.WithContext("kind", string(kind), "value", value.String())
	}
	if kind == KindPercent && value.GreaterThan(maxPercent) {
		return ErrInvalidValue.WithContext("kind", string(kind), "value", value.String())
	}
	return nil
}

// ===========================
// 查詢方法
// ===========================

func (v *DiscountVoucher) ID() VoucherID          { return v.id }
func (v *DiscountVoucher) UserID() shared.UserID  { return v.userID }
func (v *DiscountVoucher) Code() string           { return v.code }
func (v *DiscountVoucher) Kind() Kind             { return v.kind }
func (v *DiscountVoucher) Value() decimal.Decimal { return v.value }
func (v *DiscountVoucher) Source() Source         { return v.source }
func (v *DiscountVoucher) IsUsed() bool           { return v.used }
func (v *DiscountVoucher) UsedAt() *time.Time     { return v.usedAt }
func (v *DiscountVoucher) ExpiresAt() time.Time   { return v.expiresAt }
func (v *DiscountVoucher) CreatedAt() time.Time   { return v.createdAt }

// IsExpired 以時間比較判斷是否過期（expiresAt 當下即視為過期）
func (v *DiscountVoucher) IsExpired(now time.Time) bool {
	return !now.Before(v.expiresAt)
}

// CheckUsable 檢查呼叫者是否可以使用此券（唯讀）
//
// 不屬於呼叫者時返回 ErrVoucherNotFound，不洩漏券的存在。
func (v *DiscountVoucher) CheckUsable(userID shared.UserID, now time.Time) error {
	if !v.userID.Equals(userID) {
		return ErrVoucherNotFound.WithContext("code", v.code)
	}
	if v.used {
		return ErrVoucherUsed.WithContext("code", v.code)
	}
	if v.IsExpired(now) {
		return ErrVoucherExpired.WithContext("code", v.code, "expires_at", v.expiresAt)
	}
	return nil
}

// ===========================
// 命令方法
// ===========================

// MarkUsed 標記為已使用
//
// 持久化時必須搭配條件更新（used = false AND expires_at > now），
// 並發下只會有一個請求成功。
func (v *DiscountVoucher) MarkUsed(userID shared.UserID, now time.Time) error {
	if err := v.CheckUsable(userID, now); err != nil {
		return err
	}
	usedAt := now.UTC()
	v.used = true
	v.usedAt = &usedAt
	v.addEvent(newVoucherEvent(EventTypeVoucherRedeemed, v, usedAt))
	return nil
}

// ===========================
// 事件
// ===========================

const (
	EventTypeVoucherIssued   = "voucher.issued"
	EventTypeVoucherRedeemed = "voucher.redeemed"
)

// VoucherEvent 折價券事件
type VoucherEvent struct {
	shared.BaseEvent

	UserID string
	Code   string
	Kind   Kind
	Value  string
	Source Source
}

func newVoucherEvent(eventType string, v *DiscountVoucher, at time.Time) *VoucherEvent {
	return &VoucherEvent{
		BaseEvent: shared.BaseEvent{
			ID:          uuid.New().String(),
			Type:        eventType,
			Aggregate:   v.id.String(),
			OccurredAtT: at,
		},
		UserID: v.userID.String(),
		Code:   v.code,
		Kind:   v.kind,
		Value:  v.value.String(),
		Source: v.source,
	}
}

func (v *DiscountVoucher) addEvent(event shared.DomainEvent) {
	v.events = append(v.events, event)
}

// PullEvents 取出並清空待發布事件
func (v *DiscountVoucher) PullEvents() []shared.DomainEvent {
	events := v.events
	v.events = make([]shared.DomainEvent, 0)
	return events
}
