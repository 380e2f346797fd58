package coins

import (
	"errors"
	"testing"

	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockLedgerService(repo *MockLedgerRepository, tx *MockTransactionManager, opts ...LedgerOption) (*LedgerService, *recordingObserver, *recordingPublisher) {
	observer := &recordingObserver{}
	publisher := &recordingPublisher{}
	opts = append([]LedgerOption{WithObserver(observer)}, opts...)
	return NewLedgerService(repo, tx, publisher, opts...), observer, publisher
}

func earnedSpec(amount int) coins.EntrySpec {
	return coins.EntrySpec{Amount: amount, Kind: coins.KindEarned, Description: "test credit"}
}

func TestLedgerService_Balance_UnknownUserIsZero(t *testing.T) {
	service, _, _ := newMockLedgerService(NewMockLedgerRepository(), NewMockTransactionManager())

	balance, err := service.Balance(shared.NewUserID())

	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestLedgerService_Append_PublishesAfterCommit(t *testing.T) {
	// Arrange
	repo := NewMockLedgerRepository()
	tx := NewMockTransactionManager()
	service, observer, publisher := newMockLedgerService(repo, tx)
	userID := shared.NewUserID()

	// Act
	entry, err := service.Append(userID, earnedSpec(40))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 40, entry.BalanceAfter())
	assert.Equal(t, int64(1), entry.Sequence())
	assert.Equal(t, 1, tx.InTransactionCallCount)
	assert.Equal(t, []coins.EntryKind{coins.KindEarned}, observer.committed)
	assert.Equal(t, []string{coins.EventTypeCoinsCredited}, publisher.Types())
}

// 並發衝突時整個事務重跑，第二次讀到新的帳本頭
func TestLedgerService_Append_RetriesOnConcurrentAppend(t *testing.T) {
	// Arrange
	repo := NewMockLedgerRepository()
	repo.ConflictsBeforeSuccess = 2
	tx := NewMockTransactionManager()
	service, observer, publisher := newMockLedgerService(repo, tx, WithMaxRetries(3))

	// Act
	entry, err := service.Append(shared.NewUserID(), earnedSpec(10))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 10, entry.BalanceAfter())
	assert.Equal(t, 3, tx.InTransactionCallCount)
	assert.Equal(t, 2, observer.retries)
	// 失敗的嘗試不發布事件
	assert.Len(t, publisher.Types(), 1)
}

func TestLedgerService_Append_GivesUpAfterMaxRetries(t *testing.T) {
	repo := NewMockLedgerRepository()
	repo.ConflictsBeforeSuccess = 100
	tx := NewMockTransactionManager()
	service, observer, publisher := newMockLedgerService(repo, tx, WithMaxRetries(2))

	entry, err := service.Append(shared.NewUserID(), earnedSpec(10))

	assert.Nil(t, entry)
	assert.True(t, errors.Is(err, coins.ErrConcurrentAppend), "error should wrap ErrConcurrentAppend")
	assert.Equal(t, 3, tx.InTransactionCallCount)
	assert.Equal(t, []shared.ErrorCode{coins.ErrCodeConcurrentAppend}, observer.rejected)
	assert.Empty(t, publisher.Types())
}

// 業務錯誤不重試
func TestLedgerService_Append_BusinessErrorIsNotRetried(t *testing.T) {
	repo := NewMockLedgerRepository()
	tx := NewMockTransactionManager()
	service, observer, _ := newMockLedgerService(repo, tx)

	entry, err := service.Append(shared.NewUserID(), coins.EntrySpec{
		Amount:      -1,
		Kind:        coins.KindSpent,
		Description: "overdraw",
	})

	assert.Nil(t, entry)
	assert.True(t, errors.Is(err, coins.ErrInsufficientBalance))
	assert.Equal(t, 1, tx.InTransactionCallCount)
	assert.Equal(t, 0, repo.AppendCallCount)
	assert.Equal(t, []shared.ErrorCode{coins.ErrCodeInsufficientBalance}, observer.rejected)
}

func TestLedgerService_Transact_RepositoryFailureNotCountedAsRejection(t *testing.T) {
	repo := NewMockLedgerRepository()
	tx := NewMockTransactionManager()
	tx.ShouldFail = true
	tx.FailError = shared.ErrRepositoryError.WithContext("database_error", "connection refused")
	service, observer, _ := newMockLedgerService(repo, tx)

	err := service.Transact(shared.NewUserID(), func(*LedgerTx) error { return nil })

	assert.True(t, errors.Is(err, shared.ErrRepositoryError))
	assert.Empty(t, observer.rejected)
}

type countingLocker struct {
	keys []string
	held int
}

func (l *countingLocker) Lock(key string) func() {
	l.keys = append(l.keys, key)
	l.held++
	return func() { l.held-- }
}

func TestLedgerService_Transact_LocksOnlyWhenUserGiven(t *testing.T) {
	locker := &countingLocker{}
	service, _, _ := newMockLedgerService(NewMockLedgerRepository(), NewMockTransactionManager(), WithLocker(locker))
	userID := shared.NewUserID()

	require.NoError(t, service.Transact(userID, func(*LedgerTx) error { return nil }))
	require.NoError(t, service.Transact(shared.UserID{}, func(*LedgerTx) error { return nil }))

	assert.Equal(t, []string{userID.String()}, locker.keys)
	assert.Equal(t, 0, locker.held)
}

// 同一事務內多筆追加：每筆都以前一筆為基礎
func TestLedgerTx_MultipleAppends_ChainBalances(t *testing.T) {
	repo := NewMockLedgerRepository()
	service, observer, publisher := newMockLedgerService(repo, NewMockTransactionManager())
	a := shared.NewUserID()
	b := shared.NewUserID()

	err := service.Transact(shared.UserID{}, func(tx *LedgerTx) error {
		if _, err := tx.Append(a, earnedSpec(100)); err != nil {
			return err
		}
		if _, err := tx.Append(b, earnedSpec(50)); err != nil {
			return err
		}
		second, err := tx.Append(a, earnedSpec(5))
		if err != nil {
			return err
		}
		assert.Equal(t, 105, second.BalanceAfter())
		return nil
	})

	require.NoError(t, err)
	assert.Len(t, observer.committed, 3)
	assert.Len(t, publisher.Types(), 3)
	balanceA, _ := service.Balance(a)
	balanceB, _ := service.Balance(b)
	assert.Equal(t, 105, balanceA)
	assert.Equal(t, 50, balanceB)
}
