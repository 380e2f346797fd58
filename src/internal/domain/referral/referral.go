package referral

import (
	"time"

	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
)

// ===========================
// Referral 聚合根
// ===========================

// Referral 推薦記錄聚合根
//
// 生命週期：
//
//	pending ──Complete──▶ completed（終態）
//	   └─────Expire────▶ expired（終態）
//
// 不變條件：
// - completed 時 referredUserID、coinsAwarded、completedAt 同時設定
// - referredUserID 永遠不等於 referrerID
// - 狀態只能從 pending 轉出，且只轉換一次
type Referral struct {
	id             ReferralID
	referrerID     shared.UserID
	referredUserID shared.UserID // completed 之前為零值
	code           Code
	status         Status
	coinsAwarded   int
	completedAt    *time.Time
	createdAt      time.Time

	events []shared.DomainEvent
}

// NewReferral 建立 pending 推薦記錄
func NewReferral(referrerID shared.UserID, code Code, now time.Time) (*Referral, error) {
	if referrerID.IsEmpty() {
		return nil, shared.ErrInvalidUserID.WithContext("reason", "referrerID cannot be empty")
	}
	if code.IsEmpty() {
		return nil, ErrMissingCode
	}

	r := &Referral{
		id:         NewReferralID(),
		referrerID: referrerID,
		code:       code,
		status:     StatusPending,
		createdAt:  now.UTC(),
		events:     make([]shared.DomainEvent, 0),
	}
	r.addEvent(NewReferralCodeIssuedEvent(r))
	return r, nil
}

// ReconstructReferral 從持久化存儲重建（僅供 Repository 使用）
func ReconstructReferral(
	id ReferralID,
	referrerID shared.UserID,
	referredUserID shared.UserID,
	code Code,
	status Status,
	coinsAwarded int,
	completedAt *time.Time,
	createdAt time.Time,
) (*Referral, error) {
	if id.IsEmpty() {
		return nil, ErrInvalidReferralID.WithContext("reason", "empty referral id in database")
	}
	if referrerID.IsEmpty() {
		return nil, shared.ErrInvalidUserID.WithContext("referral_id", id.String(), "reason", "empty referrer")
	}
	if code.IsEmpty() {
		return nil, ErrMissingCode.WithContext("referral_id", id.String())
	}
	if status == StatusCompleted && (referredUserID.IsEmpty() || completedAt == nil) {
		return nil, ErrInvalidStatus.WithContext(
			"referral_id", id.String(),
			"reason", "completed referral without referred user or completion time",
		)
	}

	return &Referral{
		id:             id,
		referrerID:     referrerID,
		referredUserID: referredUserID,
		code:           code,
		status:         status,
		coinsAwarded:   coinsAwarded,
		completedAt:    completedAt,
		createdAt:      createdAt,
		events:         make([]shared.DomainEvent, 0),
	}, nil
}

// ===========================
// 查詢方法
// ===========================

func (r *Referral) ID() ReferralID                { return r.id }
func (r *Referral) ReferrerID() shared.UserID     { return r.referrerID }
func (r *Referral) ReferredUserID() shared.UserID { return r.referredUserID }
func (r *Referral) Code() Code                    { return r.code }
func (r *Referral) Status() Status                { return r.status }
func (r *Referral) CoinsAwarded() int             { return r.coinsAwarded }
func (r *Referral) CompletedAt() *time.Time       { return r.completedAt }
func (r *Referral) CreatedAt() time.Time          { return r.createdAt }

// IsOwnedBy 是否為該使用者的推薦碼
func (r *Referral) IsOwnedBy(userID shared.UserID) bool {
	return r.referrerID.Equals(userID)
}

// IsPending 是否仍可被套用
func (r *Referral) IsPending() bool {
	return r.status == StatusPending
}

// ===========================
// 命令方法
// ===========================

// Complete 由另一位使用者套用推薦碼
//
// 業務規則：
// - 推薦人不可套用自己的推薦碼 → ErrOwnCodeForbidden
// - 只有 pending 可完成 → ErrInvalidOrUsedCode
//
// referredUserID、coinsAwarded、completedAt 與狀態一同設定。
func (r *Referral) Complete(applyingUserID shared.UserID, coinsAwarded int, now time.Time) error {
	if r.IsOwnedBy(applyingUserID) {
		return ErrOwnCodeForbidden.WithContext("referral_id", r.id.String())
	}
	if !r.IsPending() {
		return ErrInvalidOrUsedCode.WithContext("referral_id", r.id.String(), "status", r.status.String())
	}
	if applyingUserID.IsEmpty() {
		return shared.ErrInvalidUserID.WithContext("reason", "applying user cannot be empty")
	}

	completedAt := now.UTC()
	r.status = StatusCompleted
	r.referredUserID = applyingUserID
	r.coinsAwarded = coinsAwarded
	r.completedAt = &completedAt

	r.addEvent(NewReferralCompletedEvent(r))
	return nil
}

// Expire 作廢 pending 推薦碼，讓推薦人可以申請新的推薦碼
func (r *Referral) Expire(now time.Time) error {
	if !r.IsPending() {
		return ErrNotPending.WithContext("referral_id", r.id.String(), "status", r.status.String())
	}
	r.status = StatusExpired
	r.addEvent(NewReferralExpiredEvent(r, now.UTC()))
	return nil
}

// ===========================
// 事件管理
// ===========================

func (r *Referral) addEvent(event shared.DomainEvent) {
	r.events = append(r.events, event)
}

// PullEvents 取出並清空待發布事件
func (r *Referral) PullEvents() []shared.DomainEvent {
	events := r.events
	r.events = make([]shared.DomainEvent, 0)
	return events
}
