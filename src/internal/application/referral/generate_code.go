package referral

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/referral"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/sirupsen/logrus"
)

// ===========================
// GenerateReferralCode Use Case
// ===========================

// DefaultMaxCodeAttempts 推薦碼碰撞時的最大嘗試次數
const DefaultMaxCodeAttempts = 10

// Locker 依鍵序列化（由 infrastructure/lock.KeyedMutex 實作）
type Locker interface {
	Lock(key string) (unlock func())
}

// GenerateReferralCodeCommand 取得（或建立）推薦碼
type GenerateReferralCodeCommand struct {
	UserID string
}

// GenerateReferralCodeResult 推薦碼與雙方獎勵
type GenerateReferralCodeResult struct {
	ReferralCode  string
	ReferralBonus int
	NewUserBonus  int
	Created       bool
}

// GenerateReferralCodeUseCase 推薦碼 Use Case
//
// 冪等：已有未作廢（pending 或 completed）的推薦記錄時原樣返回其代碼。
// 程序內以 Locker 序列化；跨程序由 referrer_id 的部分唯一索引保證最多一筆未作廢記錄。
// 新代碼 = 前綴 + 使用者 ID 後 6 碼 + 4 碼隨機，碰撞時重試 maxAttempts 次。
type GenerateReferralCodeUseCase struct {
	referralRepo referral.ReferralRepository
	txManager    shared.TransactionManager
	generator    *referral.CodeGenerator
	config       coins.RewardConfig
	publisher    shared.EventPublisher
	locker       Locker
	log          *logrus.Entry
	maxAttempts  int
	now          func() time.Time
}

// NewGenerateReferralCodeUseCase 創建 Use Case 實例
func NewGenerateReferralCodeUseCase(
	repo referral.ReferralRepository,
	txManager shared.TransactionManager,
	generator *referral.CodeGenerator,
	config coins.RewardConfig,
	publisher shared.EventPublisher,
	locker Locker,
	log *logrus.Entry,
	maxAttempts int,
) *GenerateReferralCodeUseCase {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxCodeAttempts
	}
	return &GenerateReferralCodeUseCase{
		referralRepo: repo,
		txManager:    txManager,
		generator:    generator,
		config:       config,
		publisher:    publisher,
		locker:       locker,
		log:          loggerOrDiscard(log),
		maxAttempts:  maxAttempts,
		now:          time.Now,
	}
}

// Execute 執行
//
// 錯誤處理：
// - ErrInvalidUserID: 使用者 ID 無效
// - ErrGenerationExhausted: 連續碰撞超過上限
func (uc *GenerateReferralCodeUseCase) Execute(cmd GenerateReferralCodeCommand) (*GenerateReferralCodeResult, error) {
	userID, err := shared.UserIDFromString(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}

	// 同一使用者的並發請求只建立一筆
	if uc.locker != nil {
		unlock := uc.locker.Lock("referral:" + userID.String())
		defer unlock()
	}

	var (
		code    referral.Code
		created *referral.Referral
	)
	// 其他程序同時建立時違反 idx_referrals_active_referrer，重跑事務即讀到對方的代碼
	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		created = nil
		err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
			existing, err := uc.referralRepo.FindActiveByReferrer(ctx, userID)
			if err == nil {
				code = existing.Code()
				return nil
			}
			if !errors.Is(err, referral.ErrReferralNotFound) {
				return fmt.Errorf("failed to find referral: %w", err)
			}

			ref, err := uc.issue(ctx, userID)
			if err != nil {
				return err
			}
			code = ref.Code()
			created = ref
			return nil
		})
		if !errors.Is(err, referral.ErrDuplicateCode) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	if created != nil && uc.publisher != nil {
		if err := uc.publisher.PublishBatch(created.PullEvents()); err != nil {
			uc.log.WithError(err).Warn("failed to publish referral events")
		}
	}

	return &GenerateReferralCodeResult{
		ReferralCode:  code.String(),
		ReferralBonus: uc.config.ReferralBonusReferrer(),
		NewUserBonus:  uc.config.ReferralBonusReferred(),
		Created:       created != nil,
	}, nil
}

func (uc *GenerateReferralCodeUseCase) issue(ctx shared.TransactionContext, userID shared.UserID) (*referral.Referral, error) {
	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		candidate := uc.generator.Generate(userID)

		taken, err := uc.referralRepo.ExistsByCode(ctx, candidate)
		if err != nil {
			return nil, fmt.Errorf("failed to check referral code: %w", err)
		}
		if taken {
			continue
		}

		ref, err := referral.NewReferral(userID, candidate, uc.now())
		if err != nil {
			return nil, err
		}
		if err := uc.referralRepo.Save(ctx, ref); err != nil {
			return nil, fmt.Errorf("failed to save referral: %w", err)
		}
		return ref, nil
	}
	return nil, referral.ErrGenerationExhausted.WithContext(
		"user_id", userID.String(),
		"attempts", uc.maxAttempts,
	)
}

// loggerOrDiscard nil 時返回丟棄輸出的 logger
func loggerOrDiscard(log *logrus.Entry) *logrus.Entry {
	if log != nil {
		return log
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return logrus.NewEntry(discard)
}
