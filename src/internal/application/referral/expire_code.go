package referral

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackyeh168/cartquest/src/internal/domain/referral"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/sirupsen/logrus"
)

// ExpireReferralCodeCommand 作廢自己的 pending 推薦碼
type ExpireReferralCodeCommand struct {
	UserID string
}

// ExpireReferralCodeResult 作廢結果
type ExpireReferralCodeResult struct {
	ExpiredCode string
}

// ExpireReferralCodeUseCase 推薦碼作廢 Use Case
//
// 作廢後可再呼叫 GenerateReferralCode 取得新代碼。
// 已完成的推薦記錄不可作廢（ErrNotPending）。
type ExpireReferralCodeUseCase struct {
	referralRepo referral.ReferralRepository
	txManager    shared.TransactionManager
	publisher    shared.EventPublisher
	log          *logrus.Entry
	now          func() time.Time
}

// NewExpireReferralCodeUseCase 創建 Use Case 實例
func NewExpireReferralCodeUseCase(
	repo referral.ReferralRepository,
	txManager shared.TransactionManager,
	publisher shared.EventPublisher,
	log *logrus.Entry,
) *ExpireReferralCodeUseCase {
	return &ExpireReferralCodeUseCase{
		referralRepo: repo,
		txManager:    txManager,
		publisher:    publisher,
		log:          loggerOrDiscard(log),
		now:          time.Now,
	}
}

// Execute 執行作廢
//
// 錯誤處理：
// - ErrReferralNotFound: 沒有未作廢的推薦碼
// - ErrNotPending: 推薦碼已被使用
// - ErrInvalidOrUsedCode: 作廢期間推薦碼剛好被套用（條件更新失敗）
func (uc *ExpireReferralCodeUseCase) Execute(cmd ExpireReferralCodeCommand) (*ExpireReferralCodeResult, error) {
	userID, err := shared.UserIDFromString(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}

	var expired *referral.Referral
	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		ref, err := uc.referralRepo.FindActiveByReferrer(ctx, userID)
		if err != nil {
			if errors.Is(err, referral.ErrReferralNotFound) {
				return err
			}
			return fmt.Errorf("failed to find referral: %w", err)
		}
		if err := ref.Expire(uc.now()); err != nil {
			return err
		}
		if err := uc.referralRepo.UpdateFromPending(ctx, ref); err != nil {
			return fmt.Errorf("failed to expire referral: %w", err)
		}
		expired = ref
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishBatch(expired.PullEvents()); err != nil {
			uc.log.WithError(err).Warn("failed to publish referral events")
		}
	}
	return &ExpireReferralCodeResult{ExpiredCode: expired.Code().String()}, nil
}
