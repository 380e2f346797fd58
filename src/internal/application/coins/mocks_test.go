package coins

import (
	"sync"

	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
)

// ===========================
// Mock TransactionManager
// ===========================

type MockTransactionManager struct {
	InTransactionCallCount int
	ShouldFail             bool
	FailError              error
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) InTransaction(fn func(ctx shared.TransactionContext) error) error {
	m.InTransactionCallCount++
	if m.ShouldFail {
		return m.FailError
	}
	// Mock 不開真正的事務，傳入 nil
	return fn(nil)
}

// ===========================
// Mock LedgerRepository
// ===========================

// MockLedgerRepository 記憶體帳本（sequence 不連續時返回 ErrConcurrentAppend）
type MockLedgerRepository struct {
	mu      sync.Mutex
	entries map[string][]*coins.LedgerEntry

	// ConflictsBeforeSuccess 前 N 次 Append 模擬並發衝突
	ConflictsBeforeSuccess int

	LoadCallCount   int
	AppendCallCount int
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{entries: make(map[string][]*coins.LedgerEntry)}
}

func (m *MockLedgerRepository) LoadLedger(ctx shared.TransactionContext, userID shared.UserID) (*coins.Ledger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCallCount++

	list := m.entries[userID.String()]
	if len(list) == 0 {
		return coins.ReconstructLedger(userID, nil)
	}
	return coins.ReconstructLedger(userID, list[len(list)-1])
}

func (m *MockLedgerRepository) Append(ctx shared.TransactionContext, entry *coins.LedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AppendCallCount++

	if m.ConflictsBeforeSuccess > 0 {
		m.ConflictsBeforeSuccess--
		return coins.ErrConcurrentAppend.WithContext("user_id", entry.UserID().String())
	}

	key := entry.UserID().String()
	if entry.Sequence() != int64(len(m.entries[key])+1) {
		return coins.ErrConcurrentAppend.WithContext("user_id", key)
	}
	m.entries[key] = append(m.entries[key], entry)
	return nil
}

func (m *MockLedgerRepository) FindByUser(ctx shared.TransactionContext, userID shared.UserID, page coins.Page) ([]*coins.LedgerEntry, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.entries[userID.String()]
	total := int64(len(list))
	result := make([]*coins.LedgerEntry, 0, page.Size())
	for i := len(list) - 1 - page.Offset(); i >= 0 && len(result) < page.Size(); i-- {
		result = append(result, list[i])
	}
	return result, total, nil
}

func (m *MockLedgerRepository) ExistsForOrder(ctx shared.TransactionContext, userID shared.UserID, orderID string, kind coins.EntryKind) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries[userID.String()] {
		if e.RelatedOrderID() == orderID && e.Kind() == kind {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockLedgerRepository) Summarize(ctx shared.TransactionContext, userID shared.UserID) (coins.LedgerSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var s coins.LedgerSummary
	for _, e := range m.entries[userID.String()] {
		s.TotalTransactions++
		if e.Amount() > 0 {
			s.TotalEarned += e.Amount()
		} else {
			s.TotalSpent += -e.Amount()
		}
		switch e.Kind() {
		case coins.KindPurchaseReward:
			s.PurchaseRewards += e.Amount()
		case coins.KindReferralBonus:
			s.ReferralRewards += e.Amount()
		case coins.KindGameReward:
			s.GameRewards += e.Amount()
		}
	}
	return s, nil
}

func (m *MockLedgerRepository) TopBalances(ctx shared.TransactionContext, limit int) ([]coins.BalanceStanding, error) {
	return nil, nil
}

// ===========================
// 觀察者與事件
// ===========================

type recordingObserver struct {
	committed []coins.EntryKind
	rejected  []shared.ErrorCode
	retries   int
}

func (o *recordingObserver) AppendCommitted(kind coins.EntryKind) { o.committed = append(o.committed, kind) }
func (o *recordingObserver) AppendRejected(code shared.ErrorCode) { o.rejected = append(o.rejected, code) }
func (o *recordingObserver) AppendRetried()                       { o.retries++ }

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(event shared.DomainEvent) error {
	return p.PublishBatch([]shared.DomainEvent{event})
}

func (p *recordingPublisher) PublishBatch(events []shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}
