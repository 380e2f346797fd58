package coins

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
)

// ===========================
// Ledger 聚合根
// ===========================

// Ledger 使用者金幣帳本聚合根（帳本頭）
//
// 設計原則：
// 1. 事件溯源式：帳本只追加，不保存可變的「餘額」欄位
// 2. 輕量級聚合：只持有最新分錄的摘要（balance、sequence），
//    歷史分錄儲存在獨立表，不載入記憶體
// 3. 不變條件在 Append 中檢查：
//    - amount != 0
//    - 追加後 balance >= 0
//    - sequence 連續遞增
//
// 並發：
// - Ledger 實例只在單一事務內使用（LoadLedger → Append → 儲存）
// - 跨事務的衝突由 (user_id, sequence) 唯一索引偵測（ErrConcurrentAppend）
type Ledger struct {
	userID        shared.UserID
	balance       int
	sequence      int64
	lastCreatedAt time.Time

	events []shared.DomainEvent
}

// NewLedger 建立空帳本（使用者尚無任何分錄，餘額為 0）
func NewLedger(userID shared.UserID) (*Ledger, error) {
	if userID.IsEmpty() {
		return nil, shared.ErrInvalidUserID.WithContext("reason", "userID cannot be empty")
	}
	return &Ledger{
		userID: userID,
		events: make([]shared.DomainEvent, 0),
	}, nil
}

// ReconstructLedger 從最新分錄重建帳本頭（僅供 Repository 使用）
//
// latest 為 nil 表示尚無分錄。
// 重建時不發布事件。
func ReconstructLedger(userID shared.UserID, latest *LedgerEntry) (*Ledger, error) {
	ledger, err := NewLedger(userID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return ledger, nil
	}
	if !latest.userID.Equals(userID) {
		return nil, ErrLedgerOwnershipMismatch.WithContext(
			"ledger_user_id", userID.String(),
			"entry_user_id", latest.userID.String(),
		)
	}

	ledger.balance = latest.balanceAfter
	ledger.sequence = latest.sequence
	ledger.lastCreatedAt = latest.createdAt
	return ledger, nil
}

// ===========================
// 查詢方法
// ===========================

// UserID 擁有者
func (l *Ledger) UserID() shared.UserID { return l.userID }

// Balance 派生餘額（最新分錄的 balanceAfter，無分錄時為 0）
func (l *Ledger) Balance() int { return l.balance }

// Sequence 最新分錄序號（無分錄時為 0）
func (l *Ledger) Sequence() int64 { return l.sequence }

// CanAfford 餘額是否足以扣除 coins
func (l *Ledger) CanAfford(coins int) bool {
	return coins <= l.balance
}

// ===========================
// 命令方法
// ===========================

// Append 追加一筆分錄（帳本唯一的寫入路徑）
//
// 參數：
//
//	spec - 追加請求（金額、類型、描述、弱引用）
//	now  - 建立時間（由呼叫者提供，便於測試）
//
// 返回：
//
//	*LedgerEntry - 新分錄（balanceAfter = 舊餘額 + amount）
//	error - ErrInvalidAmount、ErrInsufficientBalance、ErrBalanceOverflow 等
//
// 失敗時帳本狀態不變。
// createdAt 不早於上一筆分錄，確保依 createdAt 排序與依 sequence 排序一致。
func (l *Ledger) Append(spec EntrySpec, now time.Time) (*LedgerEntry, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	newBalance := int64(l.balance) + int64(spec.Amount)
	if newBalance < 0 {
		return nil, ErrInsufficientBalance.WithContext(
			"user_id", l.userID.String(),
			"balance", l.balance,
			"amount", spec.Amount,
		)
	}
	if newBalance > math.MaxInt32 {
		return nil, ErrBalanceOverflow.WithContext(
			"user_id", l.userID.String(),
			"balance", l.balance,
			"amount", spec.Amount,
		)
	}

	createdAt := now.UTC()
	if createdAt.Before(l.lastCreatedAt) {
		createdAt = l.lastCreatedAt
	}

	entry := &LedgerEntry{
		id:                NewEntryID(),
		userID:            l.userID,
		amount:            spec.Amount,
		kind:              spec.Kind,
		description:       strings.TrimSpace(spec.Description),
		relatedOrderID:    strings.TrimSpace(spec.RelatedOrderID),
		relatedReferralID: strings.TrimSpace(spec.RelatedReferralID),
		balanceAfter:      int(newBalance),
		sequence:          l.sequence + 1,
		createdAt:         createdAt,
	}

	l.balance = entry.balanceAfter
	l.sequence = entry.sequence
	l.lastCreatedAt = entry.createdAt

	if entry.IsCredit() {
		l.addEvent(NewCoinsCreditedEvent(entry))
	} else {
		l.addEvent(NewCoinsDebitedEvent(entry))
	}

	l.assertInvariants()
	return entry, nil
}

// ===========================
// 事件管理
// ===========================

func (l *Ledger) addEvent(event shared.DomainEvent) {
	l.events = append(l.events, event)
}

// PullEvents 取出並清空待發布事件（事務提交後由 Use Case 發布）
func (l *Ledger) PullEvents() []shared.DomainEvent {
	events := l.events
	l.events = make([]shared.DomainEvent, 0)
	return events
}

// assertInvariants 斷言不變條件（命令方法有 bug 時才會觸發）
func (l *Ledger) assertInvariants() {
	if l.balance < 0 {
		panic(fmt.Sprintf(
			"INVARIANT VIOLATION: negative balance %d for user %s",
			l.balance,
			l.userID.String(),
		))
	}
}
