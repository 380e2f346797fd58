package referral

import (
	"errors"
	"fmt"

	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/referral"
)

// ValidateReferralCodeCommand 註冊前檢查推薦碼（不需登入）
type ValidateReferralCodeCommand struct {
	Code string
}

// ValidateReferralCodeResult 檢查結果
type ValidateReferralCodeResult struct {
	Valid   bool
	Bonus   int
	Message string
}

// ValidateReferralCodeUseCase 推薦碼檢查 Use Case（唯讀）
type ValidateReferralCodeUseCase struct {
	referralRepo referral.ReferralRepository
	config       coins.RewardConfig
}

// NewValidateReferralCodeUseCase 創建 Use Case 實例
func NewValidateReferralCodeUseCase(repo referral.ReferralRepository, config coins.RewardConfig) *ValidateReferralCodeUseCase {
	return &ValidateReferralCodeUseCase{referralRepo: repo, config: config}
}

// Execute 執行檢查
//
// 代碼為空返回 ErrMissingCode；代碼無效或已使用不是錯誤，Valid 為 false。
func (uc *ValidateReferralCodeUseCase) Execute(cmd ValidateReferralCodeCommand) (*ValidateReferralCodeResult, error) {
	code, err := referral.NewCode(cmd.Code)
	if errors.Is(err, referral.ErrInvalidOrUsedCode) {
		return invalidCodeResult(), nil
	}
	if err != nil {
		return nil, err
	}

	ref, err := uc.referralRepo.FindByCode(nil, code)
	if errors.Is(err, referral.ErrReferralNotFound) {
		return invalidCodeResult(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find referral: %w", err)
	}
	if !ref.IsPending() {
		return invalidCodeResult(), nil
	}

	bonus := uc.config.ReferralBonusReferred()
	return &ValidateReferralCodeResult{
		Valid:   true,
		Bonus:   bonus,
		Message: fmt.Sprintf("You'll receive %d coins!", bonus),
	}, nil
}

func invalidCodeResult() *ValidateReferralCodeResult {
	return &ValidateReferralCodeResult{
		Valid:   false,
		Message: referral.ErrInvalidOrUsedCode.Message,
	}
}
