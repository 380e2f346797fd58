package referral_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	coinsapp "github.com/jackyeh168/cartquest/src/internal/application/coins"
	referralapp "github.com/jackyeh168/cartquest/src/internal/application/referral"
	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/referral"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/jackyeh168/cartquest/src/internal/infrastructure/database"
	"github.com/jackyeh168/cartquest/src/internal/infrastructure/lock"
	"github.com/jackyeh168/cartquest/src/internal/infrastructure/persistence"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===========================
// 測試環境
// ===========================

// fixedRandom 永遠返回同一個值，讓同一使用者每次產生相同的候選代碼
type fixedRandom struct{}

func (fixedRandom) IntN(int) int { return 0 }

type referralFixture struct {
	ledger       *coinsapp.LedgerService
	ledgerRepo   coins.LedgerRepository
	referralRepo referral.ReferralRepository
	txManager    shared.TransactionManager
	generate     *referralapp.GenerateReferralCodeUseCase
	apply        *referralapp.ApplyReferralCodeUseCase
	validate     *referralapp.ValidateReferralCodeUseCase
	list         *referralapp.ListMyReferralsUseCase
	stats        *referralapp.GetReferralStatsUseCase
	expire       *referralapp.ExpireReferralCodeUseCase
}

func newReferralFixture(t *testing.T, random shared.RandomSource) *referralFixture {
	t.Helper()

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	require.NoError(t, persistence.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	referralRepo := persistence.NewReferralRepository(db)
	txManager := persistence.NewGORMTransactionManager(db)
	config := coins.DefaultRewardConfig()
	locker := lock.NewKeyedMutex()
	ledgerRepo := persistence.NewLedgerRepository(db)
	ledger := coinsapp.NewLedgerService(ledgerRepo, txManager, nil, coinsapp.WithLocker(locker))

	generate := referralapp.NewGenerateReferralCodeUseCase(
		referralRepo, txManager, referral.NewCodeGenerator("MAHI", random), config, nil, locker, nil, 3,
	)

	return &referralFixture{
		ledger:       ledger,
		ledgerRepo:   ledgerRepo,
		referralRepo: referralRepo,
		txManager:    txManager,
		generate:     generate,
		apply:        referralapp.NewApplyReferralCodeUseCase(referralRepo, ledger, config),
		validate:     referralapp.NewValidateReferralCodeUseCase(referralRepo, config),
		list:         referralapp.NewListMyReferralsUseCase(referralRepo, config),
		stats:        referralapp.NewGetReferralStatsUseCase(referralRepo, config),
		expire:       referralapp.NewExpireReferralCodeUseCase(referralRepo, txManager, nil, nil),
	}
}

func (f *referralFixture) codeFor(t *testing.T, userID shared.UserID) string {
	t.Helper()
	result, err := f.generate.Execute(referralapp.GenerateReferralCodeCommand{UserID: userID.String()})
	require.NoError(t, err)
	return result.ReferralCode
}

func (f *referralFixture) entryCount(t *testing.T, userID shared.UserID) int64 {
	t.Helper()
	page, err := coins.NewPage(1, 10)
	require.NoError(t, err)
	_, total, err := f.ledgerRepo.FindByUser(nil, userID, page)
	require.NoError(t, err)
	return total
}

func (f *referralFixture) balance(t *testing.T, userID shared.UserID) int {
	t.Helper()
	balance, err := f.ledger.Balance(userID)
	require.NoError(t, err)
	return balance
}

// ===========================
// GenerateReferralCode
// ===========================

func TestGenerateReferralCode_FormatAndIdempotency(t *testing.T) {
	f := newReferralFixture(t, nil)
	userID := shared.NewUserID()

	first, err := f.generate.Execute(referralapp.GenerateReferralCodeCommand{UserID: userID.String()})
	require.NoError(t, err)
	second, err := f.generate.Execute(referralapp.GenerateReferralCodeCommand{UserID: userID.String()})
	require.NoError(t, err)

	assert.True(t, first.Created)
	assert.False(t, second.Created)
	assert.Equal(t, first.ReferralCode, second.ReferralCode)
	assert.Equal(t, 100, first.ReferralBonus)
	assert.Equal(t, 50, first.NewUserBonus)

	// MAHI + 使用者 ID 後 6 碼 + 4 碼隨機
	assert.Len(t, first.ReferralCode, 14)
	assert.True(t, strings.HasPrefix(first.ReferralCode, "MAHI"+strings.ToUpper(userID.Suffix(6))))
}

func TestGenerateReferralCode_ConcurrentRequestsCreateOneCode(t *testing.T) {
	f := newReferralFixture(t, nil)
	userID := shared.NewUserID()

	const workers = 5
	codes := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := f.generate.Execute(referralapp.GenerateReferralCodeCommand{UserID: userID.String()})
			if err == nil {
				codes[i] = result.ReferralCode
			}
		}(i)
	}
	wg.Wait()

	for _, code := range codes {
		assert.Equal(t, codes[0], code)
	}
	stats, err := f.stats.Execute(referralapp.GetReferralStatsQuery{UserID: userID.String()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.PendingReferrals)
}

// 候選代碼全部碰撞時有上限地放棄
func TestGenerateReferralCode_ExhaustedWhenEveryCandidateCollides(t *testing.T) {
	f := newReferralFixture(t, fixedRandom{})
	userID := shared.NewUserID()
	f.codeFor(t, userID)

	_, err := f.expire.Execute(referralapp.ExpireReferralCodeCommand{UserID: userID.String()})
	require.NoError(t, err)

	// 作廢的代碼仍佔用唯一索引，固定隨機來源只會再產生同一個候選
	_, err = f.generate.Execute(referralapp.GenerateReferralCodeCommand{UserID: userID.String()})
	assert.True(t, errors.Is(err, referral.ErrGenerationExhausted))
}

// ===========================
// ApplyReferralCode
// ===========================

func TestApplyReferralCode_CreditsBothParties(t *testing.T) {
	f := newReferralFixture(t, nil)
	referrer := shared.NewUserID()
	newUser := shared.NewUserID()
	code := f.codeFor(t, referrer)

	// 大小寫與空白不影響
	result, err := f.apply.Execute(referralapp.ApplyReferralCodeCommand{
		UserID: newUser.String(),
		Code:   "  " + strings.ToLower(code) + " ",
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 50, result.CoinsEarned)
	assert.Equal(t, "You received 50 coins!", result.Message)
	assert.Equal(t, 100, f.balance(t, referrer))
	assert.Equal(t, 50, f.balance(t, newUser))

	list, err := f.list.Execute(referralapp.ListMyReferralsQuery{UserID: referrer.String()})
	require.NoError(t, err)
	require.Len(t, list.Referrals, 1)
	assert.Equal(t, result.ReferralID, list.Referrals[0].ID)
	assert.Equal(t, newUser.String(), list.Referrals[0].ReferredUserID)
	assert.Equal(t, 150, list.Referrals[0].CoinsAwarded)
	assert.False(t, list.Referrals[0].CompletedAt.IsZero())
	assert.Equal(t, 100, list.TotalCoinsEarned)
}

func TestApplyReferralCode_Rejections(t *testing.T) {
	f := newReferralFixture(t, nil)
	referrer := shared.NewUserID()
	friend := shared.NewUserID()
	code := f.codeFor(t, referrer)

	t.Run("own code", func(t *testing.T) {
		_, err := f.apply.Execute(referralapp.ApplyReferralCodeCommand{UserID: referrer.String(), Code: code})
		assert.True(t, errors.Is(err, referral.ErrOwnCodeForbidden))
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := f.apply.Execute(referralapp.ApplyReferralCodeCommand{UserID: friend.String(), Code: "MAHI000000ZZZZ"})
		assert.True(t, errors.Is(err, referral.ErrInvalidOrUsedCode))
	})

	t.Run("malformed code", func(t *testing.T) {
		_, err := f.apply.Execute(referralapp.ApplyReferralCodeCommand{UserID: friend.String(), Code: "MAHI-???"})
		assert.True(t, errors.Is(err, referral.ErrInvalidOrUsedCode))
	})

	t.Run("empty code", func(t *testing.T) {
		_, err := f.apply.Execute(referralapp.ApplyReferralCodeCommand{UserID: friend.String(), Code: " "})
		assert.True(t, errors.Is(err, referral.ErrMissingCode))
	})

	// 被拒絕的套用不發放任何金幣
	assert.Equal(t, 0, f.balance(t, referrer))
	assert.Equal(t, 0, f.balance(t, friend))
}

func TestApplyReferralCode_CodeUsableOnlyOnce(t *testing.T) {
	f := newReferralFixture(t, nil)
	referrer := shared.NewUserID()
	first := shared.NewUserID()
	second := shared.NewUserID()
	code := f.codeFor(t, referrer)

	_, err := f.apply.Execute(referralapp.ApplyReferralCodeCommand{UserID: first.String(), Code: code})
	require.NoError(t, err)
	_, err = f.apply.Execute(referralapp.ApplyReferralCodeCommand{UserID: second.String(), Code: code})

	assert.True(t, errors.Is(err, referral.ErrInvalidOrUsedCode))
	assert.Equal(t, 100, f.balance(t, referrer))
	assert.Equal(t, 0, f.balance(t, second))
}

func TestApplyReferralCode_UserReferredOnlyOnce(t *testing.T) {
	f := newReferralFixture(t, nil)
	alice := shared.NewUserID()
	bob := shared.NewUserID()
	newUser := shared.NewUserID()

	_, err := f.apply.Execute(referralapp.ApplyReferralCodeCommand{UserID: newUser.String(), Code: f.codeFor(t, alice)})
	require.NoError(t, err)
	_, err = f.apply.Execute(referralapp.ApplyReferralCodeCommand{UserID: newUser.String(), Code: f.codeFor(t, bob)})

	assert.True(t, errors.Is(err, referral.ErrAlreadyReferred))
	assert.Equal(t, 50, f.balance(t, newUser))
	assert.Equal(t, 0, f.balance(t, bob))

	// 已被推薦過的使用者先得到 ErrAlreadyReferred，即使代碼不存在
	_, err = f.apply.Execute(referralapp.ApplyReferralCodeCommand{UserID: newUser.String(), Code: "MAHI000000ZZZZ"})
	assert.True(t, errors.Is(err, referral.ErrAlreadyReferred))

	// bob 的代碼仍可被其他人使用
	valid, err := f.validate.Execute(referralapp.ValidateReferralCodeCommand{Code: f.codeFor(t, bob)})
	require.NoError(t, err)
	assert.True(t, valid.Valid)
}

// 同一代碼並發套用只有一位成功，推薦人只入帳一次
func TestApplyReferralCode_ConcurrentApplicationsCompleteOnce(t *testing.T) {
	f := newReferralFixture(t, nil)
	referrer := shared.NewUserID()
	code := f.codeFor(t, referrer)

	const workers = 6
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.apply.Execute(referralapp.ApplyReferralCodeCommand{UserID: shared.NewUserID().String(), Code: code})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 100, f.balance(t, referrer))
}

// ===========================
// 查詢與作廢
// ===========================

func TestValidateReferralCode(t *testing.T) {
	f := newReferralFixture(t, nil)
	referrer := shared.NewUserID()
	code := f.codeFor(t, referrer)

	valid, err := f.validate.Execute(referralapp.ValidateReferralCodeCommand{Code: code})
	require.NoError(t, err)
	assert.True(t, valid.Valid)
	assert.Equal(t, 50, valid.Bonus)
	assert.Equal(t, "You'll receive 50 coins!", valid.Message)

	unknown, err := f.validate.Execute(referralapp.ValidateReferralCodeCommand{Code: "NOPE"})
	require.NoError(t, err)
	assert.False(t, unknown.Valid)
	assert.Equal(t, referral.ErrInvalidOrUsedCode.Message, unknown.Message)

	_, err = f.apply.Execute(referralapp.ApplyReferralCodeCommand{UserID: shared.NewUserID().String(), Code: code})
	require.NoError(t, err)
	used, err := f.validate.Execute(referralapp.ValidateReferralCodeCommand{Code: code})
	require.NoError(t, err)
	assert.False(t, used.Valid)

	_, err = f.validate.Execute(referralapp.ValidateReferralCodeCommand{Code: ""})
	assert.True(t, errors.Is(err, referral.ErrMissingCode))
}

func TestGetReferralStats(t *testing.T) {
	f := newReferralFixture(t, nil)
	referrer := shared.NewUserID()

	_, err := f.apply.Execute(referralapp.ApplyReferralCodeCommand{UserID: shared.NewUserID().String(), Code: f.codeFor(t, referrer)})
	require.NoError(t, err)

	stats, err := f.stats.Execute(referralapp.GetReferralStatsQuery{UserID: referrer.String()})

	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.CompletedReferrals)
	assert.Equal(t, int64(0), stats.PendingReferrals)
	assert.Equal(t, int64(100), stats.TotalCoinsEarned)
	assert.Equal(t, 100, stats.CoinsPerReferral)
}

func TestExpireReferralCode(t *testing.T) {
	f := newReferralFixture(t, nil)
	referrer := shared.NewUserID()
	oldCode := f.codeFor(t, referrer)

	result, err := f.expire.Execute(referralapp.ExpireReferralCodeCommand{UserID: referrer.String()})
	require.NoError(t, err)
	assert.Equal(t, oldCode, result.ExpiredCode)

	_, err = f.apply.Execute(referralapp.ApplyReferralCodeCommand{UserID: shared.NewUserID().String(), Code: oldCode})
	assert.True(t, errors.Is(err, referral.ErrInvalidOrUsedCode))

	newCode := f.codeFor(t, referrer)
	assert.NotEqual(t, oldCode, newCode)

	t.Run("nothing to expire", func(t *testing.T) {
		_, err := f.expire.Execute(referralapp.ExpireReferralCodeCommand{UserID: shared.NewUserID().String()})
		assert.True(t, errors.Is(err, referral.ErrReferralNotFound))
	})

	t.Run("completed code cannot be expired", func(t *testing.T) {
		_, err := f.apply.Execute(referralapp.ApplyReferralCodeCommand{UserID: shared.NewUserID().String(), Code: newCode})
		require.NoError(t, err)
		_, err = f.expire.Execute(referralapp.ExpireReferralCodeCommand{UserID: referrer.String()})
		assert.True(t, errors.Is(err, referral.ErrNotPending))
	})
}

// ===========================
// 事務回滾與事件發布
// ===========================

// failingCompletionRepo 兩筆分錄追加後才讓推薦記錄更新失敗
type failingCompletionRepo struct {
	referral.ReferralRepository
}

func (failingCompletionRepo) UpdateFromPending(shared.TransactionContext, *referral.Referral) error {
	return shared.ErrRepositoryError.WithContext("error", "disk full")
}

func TestApplyReferralCode_RollsBackCreditsWhenCompletionFails(t *testing.T) {
	f := newReferralFixture(t, nil)
	referrer := shared.NewUserID()
	newUser := shared.NewUserID()
	code := f.codeFor(t, referrer)

	apply := referralapp.NewApplyReferralCodeUseCase(
		failingCompletionRepo{ReferralRepository: f.referralRepo}, f.ledger, coins.DefaultRewardConfig(),
	)
	_, err := apply.Execute(referralapp.ApplyReferralCodeCommand{UserID: newUser.String(), Code: code})

	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrRepositoryError))
	assert.Equal(t, 0, f.balance(t, referrer))
	assert.Equal(t, 0, f.balance(t, newUser))
	assert.Equal(t, int64(0), f.entryCount(t, referrer))
	assert.Equal(t, int64(0), f.entryCount(t, newUser))

	// 推薦碼仍為 pending，可以正常套用
	valid, err := f.validate.Execute(referralapp.ValidateReferralCodeCommand{Code: code})
	require.NoError(t, err)
	assert.True(t, valid.Valid)
}

// failingPublisher 發布永遠失敗
type failingPublisher struct{}

func (failingPublisher) Publish(shared.DomainEvent) error { return errors.New("broker unavailable") }

func (failingPublisher) PublishBatch([]shared.DomainEvent) error { return errors.New("broker unavailable") }

func TestReferralUseCases_LogPublishFailures(t *testing.T) {
	f := newReferralFixture(t, nil)
	logger, hook := test.NewNullLogger()
	log := logrus.NewEntry(logger)
	userID := shared.NewUserID()

	generate := referralapp.NewGenerateReferralCodeUseCase(
		f.referralRepo, f.txManager, referral.NewCodeGenerator("MAHI", nil), coins.DefaultRewardConfig(),
		failingPublisher{}, lock.NewKeyedMutex(), log, 3,
	)
	generated, err := generate.Execute(referralapp.GenerateReferralCodeCommand{UserID: userID.String()})
	require.NoError(t, err)
	assert.True(t, generated.Created)

	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "failed to publish referral events", hook.LastEntry().Message)
	assert.EqualError(t, hook.LastEntry().Data[logrus.ErrorKey].(error), "broker unavailable")

	expire := referralapp.NewExpireReferralCodeUseCase(f.referralRepo, f.txManager, failingPublisher{}, log)
	expired, err := expire.Execute(referralapp.ExpireReferralCodeCommand{UserID: userID.String()})
	require.NoError(t, err)
	assert.Equal(t, generated.ReferralCode, expired.ExpiredCode)

	require.Len(t, hook.AllEntries(), 2)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

// staleReferrerRepo 第一次查詢看不到其他程序剛建立的推薦碼
type staleReferrerRepo struct {
	referral.ReferralRepository
	stale bool
}

func (r *staleReferrerRepo) FindActiveByReferrer(ctx shared.TransactionContext, userID shared.UserID) (*referral.Referral, error) {
	if r.stale {
		r.stale = false
		return nil, referral.ErrReferralNotFound
	}
	return r.ReferralRepository.FindActiveByReferrer(ctx, userID)
}

// 另一個程序已建立推薦碼時，部分唯一索引擋下第二筆，重跑後返回既有代碼
func TestGenerateReferralCode_OtherProcessCreatedCodeFirst(t *testing.T) {
	f := newReferralFixture(t, nil)
	userID := shared.NewUserID()
	existing := f.codeFor(t, userID)

	repo := &staleReferrerRepo{ReferralRepository: f.referralRepo, stale: true}
	generate := referralapp.NewGenerateReferralCodeUseCase(
		repo, f.txManager, referral.NewCodeGenerator("MAHI", nil), coins.DefaultRewardConfig(),
		nil, lock.NewKeyedMutex(), nil, 3,
	)

	result, err := generate.Execute(referralapp.GenerateReferralCodeCommand{UserID: userID.String()})

	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, existing, result.ReferralCode)

	pending, err := f.referralRepo.CountByReferrer(nil, userID, referral.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)
}
