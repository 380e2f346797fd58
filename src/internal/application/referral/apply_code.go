package referral

import (
	"errors"
	"fmt"

	coinsapp "github.com/jackyeh168/cartquest/src/internal/application/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/referral"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
)

// ===========================
// ApplyReferralCode Use Case
// ===========================

// ApplyReferralCodeCommand 套用推薦碼
type ApplyReferralCodeCommand struct {
	UserID string
	Code   string
}

// ApplyReferralCodeResult 套用結果
type ApplyReferralCodeResult struct {
	Success     bool
	Message     string
	CoinsEarned int
	ReferralID  string
}

// ApplyReferralCodeUseCase 推薦碼套用 Use Case
//
// 兩筆 referral_bonus 分錄與推薦記錄更新在同一事務中：
// 任一步驟失敗時全部回滾，不會出現推薦人已入帳但記錄未完成的狀態。
//
// 並發安全：
// - 推薦記錄以條件更新（status = 'pending'）完成，同一代碼只會成功一次
// - referred_user_id 唯一索引，同一使用者只會被推薦一次
// - 帳本衝突由 LedgerService 重試整個事務
type ApplyReferralCodeUseCase struct {
	referralRepo referral.ReferralRepository
	ledger       *coinsapp.LedgerService
	config       coins.RewardConfig
}

// NewApplyReferralCodeUseCase 創建 Use Case 實例
func NewApplyReferralCodeUseCase(
	repo referral.ReferralRepository,
	ledger *coinsapp.LedgerService,
	config coins.RewardConfig,
) *ApplyReferralCodeUseCase {
	return &ApplyReferralCodeUseCase{
		referralRepo: repo,
		ledger:       ledger,
		config:       config,
	}
}

// Execute 執行套用
//
// 檢查順序：
// 1. 自己的推薦碼 → ErrOwnCodeForbidden（不論狀態）
// 2. 已經被推薦過 → ErrAlreadyReferred（即使代碼不存在）
// 3. 代碼不存在或不是 pending → ErrInvalidOrUsedCode
func (uc *ApplyReferralCodeUseCase) Execute(cmd ApplyReferralCodeCommand) (*ApplyReferralCodeResult, error) {
	userID, err := shared.UserIDFromString(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}
	code, err := referral.NewCode(cmd.Code)
	if err != nil {
		return nil, err
	}

	var result *ApplyReferralCodeResult
	// 涉及兩位使用者，不取程序內鎖
	err = uc.ledger.Transact(shared.UserID{}, func(tx *coinsapp.LedgerTx) error {
		var err error
		result, err = uc.apply(tx, userID, code)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *ApplyReferralCodeUseCase) apply(
	tx *coinsapp.LedgerTx,
	userID shared.UserID,
	code referral.Code,
) (*ApplyReferralCodeResult, error) {
	ctx := tx.Context()

	ref, err := uc.referralRepo.FindByCode(ctx, code)
	if err != nil && !errors.Is(err, referral.ErrReferralNotFound) {
		return nil, fmt.Errorf("failed to find referral: %w", err)
	}
	if ref != nil && ref.IsOwnedBy(userID) {
		return nil, referral.ErrOwnCodeForbidden.WithContext("code", code.String())
	}

	referred, err := uc.referralRepo.HasCompletedAsReferred(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check referral history: %w", err)
	}
	if referred {
		return nil, referral.ErrAlreadyReferred.WithContext("user_id", userID.String())
	}
	if ref == nil {
		return nil, referral.ErrInvalidOrUsedCode.WithContext("code", code.String())
	}

	if err := ref.Complete(userID, uc.config.TotalReferralBonus(), tx.Now()); err != nil {
		return nil, err
	}

	if bonus := uc.config.ReferralBonusReferrer(); bonus > 0 {
		if _, err := tx.Append(ref.ReferrerID(), coins.EntrySpec{
			Amount:            bonus,
			Kind:              coins.KindReferralBonus,
			Description:       "Referral bonus for inviting a friend",
			RelatedReferralID: ref.ID().String(),
		}); err != nil {
			return nil, err
		}
	}
	if bonus := uc.config.ReferralBonusReferred(); bonus > 0 {
		if _, err := tx.Append(userID, coins.EntrySpec{
			Amount:            bonus,
			Kind:              coins.KindReferralBonus,
			Description:       "Welcome bonus for using referral code",
			RelatedReferralID: ref.ID().String(),
		}); err != nil {
			return nil, err
		}
	}

	if err := uc.referralRepo.UpdateFromPending(ctx, ref); err != nil {
		return nil, fmt.Errorf("failed to complete referral: %w", err)
	}
	tx.AddEvents(ref.PullEvents()...)

	return &ApplyReferralCodeResult{
		Success:     true,
		Message:     fmt.Sprintf("You received %d coins!", uc.config.ReferralBonusReferred()),
		CoinsEarned: uc.config.ReferralBonusReferred(),
		ReferralID:  ref.ID().String(),
	}, nil
}
