package coins

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// ===========================
// LedgerService（帳本唯一寫入邊界）
// ===========================

// Locker 依鍵序列化（由 infrastructure/lock.KeyedMutex 實作）
type Locker interface {
	Lock(key string) (unlock func())
}

// AppendObserver 帳本指標（由 infrastructure/metrics.Metrics 實作）
type AppendObserver interface {
	AppendCommitted(kind coins.EntryKind)
	AppendRejected(code shared.ErrorCode)
	AppendRetried()
}

// DefaultMaxAppendRetries 並發衝突時整個事務的重試次數
const DefaultMaxAppendRetries = 3

// LedgerService 帳本的讀寫入口
//
// 所有分錄都經由 LedgerTx.Append 寫入：
// 1. 在事務內讀取帳本頭（最新分錄）
// 2. 由 Ledger 聚合檢查金額與餘額
// 3. 以 sequence+1 寫入，(user_id, sequence) 唯一索引偵測並發寫入
// 4. 衝突（ErrConcurrentAppend）時重跑整個事務，重新讀取餘額並重新檢查規則
//
// 事件與指標只在提交成功後處理。
type LedgerService struct {
	ledgerRepo coins.LedgerRepository
	txManager  shared.TransactionManager
	publisher  shared.EventPublisher
	locker     Locker
	observer   AppendObserver
	log        *logrus.Entry
	maxRetries int
	now        func() time.Time

	balances singleflight.Group
}

// LedgerOption 可選設定
type LedgerOption func(*LedgerService)

// WithLocker 程序內每位使用者單一寫入者
func WithLocker(locker Locker) LedgerOption {
	return func(s *LedgerService) { s.locker = locker }
}

// WithObserver 記錄追加、拒絕與重試
func WithObserver(observer AppendObserver) LedgerOption {
	return func(s *LedgerService) { s.observer = observer }
}

// WithLogger 設定 logger
func WithLogger(log *logrus.Entry) LedgerOption {
	return func(s *LedgerService) { s.log = log }
}

// WithClock 設定時間來源（測試用）
func WithClock(now func() time.Time) LedgerOption {
	return func(s *LedgerService) { s.now = now }
}

// WithMaxRetries 設定重試次數（小於 0 視為 0）
func WithMaxRetries(n int) LedgerOption {
	return func(s *LedgerService) {
		if n < 0 {
			n = 0
		}
		s.maxRetries = n
	}
}

// NewLedgerService 建構函數
func NewLedgerService(
	repo coins.LedgerRepository,
	txManager shared.TransactionManager,
	publisher shared.EventPublisher,
	opts ...LedgerOption,
) *LedgerService {
	s := &LedgerService{
		ledgerRepo: repo,
		txManager:  txManager,
		publisher:  publisher,
		maxRetries: DefaultMaxAppendRetries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		s.log = logrus.NewEntry(discard)
	}
	return s
}

// Repository 帳本倉儲（查詢型 Use Case 共用）
func (s *LedgerService) Repository() coins.LedgerRepository {
	return s.ledgerRepo
}

// Balance 派生餘額（事務外讀取，同一使用者的並發讀取合併為一次查詢）
//
// 未知使用者返回 0，不是錯誤。
func (s *LedgerService) Balance(userID shared.UserID) (int, error) {
	v, err, _ := s.balances.Do(userID.String(), func() (interface{}, error) {
		ledger, err := s.ledgerRepo.LoadLedger(nil, userID)
		if err != nil {
			return 0, err
		}
		return ledger.Balance(), nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to load balance: %w", err)
	}
	return v.(int), nil
}

// Append 在獨立事務中追加一筆分錄
func (s *LedgerService) Append(userID shared.UserID, spec coins.EntrySpec) (*coins.LedgerEntry, error) {
	var entry *coins.LedgerEntry
	err := s.Transact(userID, func(tx *LedgerTx) error {
		var err error
		entry, err = tx.Append(userID, spec)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Transact 在單一資料庫事務中執行 fn
//
// 參數：
//
//	lockUser - 需要程序內序列化的使用者；零值表示不加鎖（多使用者操作）
//	fn       - 事務內容；可能因並發衝突被重複呼叫，不能有事務外的副作用
//
// 鎖在事務開啟前取得、提交後釋放，持有連線時不會等待鎖。
// 多使用者操作不加鎖，只依賴唯一索引與重試，避免鎖順序死結。
func (s *LedgerService) Transact(lockUser shared.UserID, fn func(tx *LedgerTx) error) error {
	if s.locker != nil && !lockUser.IsEmpty() {
		unlock := s.locker.Lock(lockUser.String())
		defer unlock()
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			s.observe(func(o AppendObserver) { o.AppendRetried() })
			s.log.WithFields(logrus.Fields{
				"attempt": attempt + 1,
				"user_id": lockUser.String(),
				"error":   lastErr.Error(),
			}).Warn("concurrent ledger append, retrying transaction")
		}

		tx := &LedgerTx{service: s, now: s.now().UTC()}
		err := s.txManager.InTransaction(func(ctx shared.TransactionContext) error {
			tx.ctx = ctx
			return fn(tx)
		})
		if err == nil {
			s.afterCommit(tx)
			return nil
		}
		if !errors.Is(err, coins.ErrConcurrentAppend) {
			s.recordRejection(err)
			return err
		}
		lastErr = err
	}

	s.recordRejection(lastErr)
	return fmt.Errorf("ledger append failed after %d attempts: %w", s.maxRetries+1, lastErr)
}

func (s *LedgerService) afterCommit(tx *LedgerTx) {
	for _, entry := range tx.entries {
		kind := entry.Kind()
		s.observe(func(o AppendObserver) { o.AppendCommitted(kind) })
	}
	if s.publisher == nil || len(tx.events) == 0 {
		return
	}
	if err := s.publisher.PublishBatch(tx.events); err != nil {
		s.log.WithError(err).Warn("failed to publish ledger events")
	}
}

// recordRejection 只記錄業務錯誤（倉儲錯誤由 HTTP 層記錄）
func (s *LedgerService) recordRejection(err error) {
	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code == shared.ErrCodeRepositoryError {
		return
	}
	s.observe(func(o AppendObserver) { o.AppendRejected(domainErr.Code) })
}

func (s *LedgerService) observe(fn func(o AppendObserver)) {
	if s.observer != nil {
		fn(s.observer)
	}
}

// ===========================
// LedgerTx 事務內的帳本操作
// ===========================

// LedgerTx 一次事務嘗試的範圍（重試時重新建立）
type LedgerTx struct {
	ctx     shared.TransactionContext
	service *LedgerService
	now     time.Time
	entries []*coins.LedgerEntry
	events  []shared.DomainEvent
}

// Context 事務上下文（傳給同一事務中的其他 Repository）
func (tx *LedgerTx) Context() shared.TransactionContext { return tx.ctx }

// Now 本次事務使用的時間（UTC）
func (tx *LedgerTx) Now() time.Time { return tx.now }

// Balance 在事務內讀取餘額
func (tx *LedgerTx) Balance(userID shared.UserID) (int, error) {
	ledger, err := tx.service.ledgerRepo.LoadLedger(tx.ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load ledger: %w", err)
	}
	return ledger.Balance(), nil
}

// Append 讀取帳本頭、檢查規則、寫入新分錄
func (tx *LedgerTx) Append(userID shared.UserID, spec coins.EntrySpec) (*coins.LedgerEntry, error) {
	ledger, err := tx.service.ledgerRepo.LoadLedger(tx.ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	entry, err := ledger.Append(spec, tx.now)
	if err != nil {
		return nil, err
	}

	if err := tx.service.ledgerRepo.Append(tx.ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	tx.entries = append(tx.entries, entry)
	tx.events = append(tx.events, ledger.PullEvents()...)
	return entry, nil
}

// AddEvents 加入其他聚合的事件（與帳本事件一同在提交後發布）
func (tx *LedgerTx) AddEvents(events ...shared.DomainEvent) {
	tx.events = append(tx.events, events...)
}
