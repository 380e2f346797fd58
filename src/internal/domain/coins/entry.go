package coins

import (
	"strings"
	"time"

	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
)

// ===========================
// LedgerEntry 實體（不可變）
// ===========================

// LedgerEntry 一筆金幣餘額變動記錄
//
// 不變條件：
// - amount != 0（正數為入帳，負數為扣帳）
// - balanceAfter >= 0，且 = 前一筆 balanceAfter + amount
// - sequence 從 1 開始，同一使用者內連續且唯一
//
// 只能由 Ledger.Append 產生（新分錄）或 ReconstructLedgerEntry 重建（讀取），
// 沒有任何修改方法。
type LedgerEntry struct {
	id                EntryID
	userID            shared.UserID
	amount            int
	kind              EntryKind
	description       string
	relatedOrderID    string
	relatedReferralID string
	balanceAfter      int
	sequence          int64
	createdAt         time.Time
}

// ID 分錄 ID
func (e *LedgerEntry) ID() EntryID { return e.id }

// UserID 擁有者
func (e *LedgerEntry) UserID() shared.UserID { return e.userID }

// Amount 變動金幣數（有號）
func (e *LedgerEntry) Amount() int { return e.amount }

// Kind 分錄類型
func (e *LedgerEntry) Kind() EntryKind { return e.kind }

// Description 描述
func (e *LedgerEntry) Description() string { return e.description }

// RelatedOrderID 觸發 purchase_reward 的訂單（弱引用，可為空）
func (e *LedgerEntry) RelatedOrderID() string { return e.relatedOrderID }

// RelatedReferralID 觸發 referral_bonus 的推薦記錄（弱引用，可為空）
func (e *LedgerEntry) RelatedReferralID() string { return e.relatedReferralID }

// BalanceAfter 套用此分錄後的餘額（餘額的唯一權威來源）
func (e *LedgerEntry) BalanceAfter() int { return e.balanceAfter }

// Sequence 使用者內序號
func (e *LedgerEntry) Sequence() int64 { return e.sequence }

// CreatedAt 建立時間
func (e *LedgerEntry) CreatedAt() time.Time { return e.createdAt }

// IsCredit 是否為入帳
func (e *LedgerEntry) IsCredit() bool { return e.amount > 0 }

// ReconstructLedgerEntry 從持久化存儲重建分錄（僅供 Infrastructure Layer 使用）
//
// 即使資料來自資料庫也必須驗證，避免損壞資料進入領域層。
func ReconstructLedgerEntry(
	id EntryID,
	userID shared.UserID,
	amount int,
	kind EntryKind,
	description string,
	relatedOrderID string,
	relatedReferralID string,
	balanceAfter int,
	sequence int64,
	createdAt time.Time,
) (*LedgerEntry, error) {
	if id.IsEmpty() {
		return nil, ErrInvalidEntryID.WithContext("reason", "empty entry id in database")
	}
	if userID.IsEmpty() {
		return nil, shared.ErrInvalidUserID.WithContext("reason", "empty user id in database")
	}
	if amount == 0 || balanceAfter < 0 || sequence < 1 {
		return nil, ErrCorruptedEntry.WithContext(
			"entry_id", id.String(),
			"amount", amount,
			"balance_after", balanceAfter,
			"sequence", sequence,
		)
	}
	if !kind.IsValid() {
		return nil, ErrInvalidEntryKind.WithContext("entry_id", id.String(), "kind", string(kind))
	}

	return &LedgerEntry{
		id:                id,
		userID:            userID,
		amount:            amount,
		kind:              kind,
		description:       description,
		relatedOrderID:    relatedOrderID,
		relatedReferralID: relatedReferralID,
		balanceAfter:      balanceAfter,
		sequence:          sequence,
		createdAt:         createdAt,
	}, nil
}

// ===========================
// EntrySpec 追加請求
// ===========================

// EntrySpec 追加分錄所需的輸入
type EntrySpec struct {
	Amount            int
	Kind              EntryKind
	Description       string
	RelatedOrderID    string
	RelatedReferralID string
}

// validate 檢查追加請求本身（不含餘額）
func (s EntrySpec) validate() error {
	if s.Amount == 0 {
		return ErrInvalidAmount.WithContext("amount", s.Amount, "reason", "zero amount carries no information")
	}
	if !s.Kind.IsValid() {
		return ErrInvalidEntryKind.WithContext("kind", string(s.Kind))
	}
	if strings.TrimSpace(s.Description) == "" {
		return ErrMissingDescription
	}
	if s.Kind == KindPurchaseReward && strings.TrimSpace(s.RelatedOrderID) == "" {
		return ErrMissingOrderID
	}
	return nil
}
