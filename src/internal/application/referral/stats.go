package referral

import (
	"fmt"

	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/referral"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
)

// GetReferralStatsQuery 推薦統計
type GetReferralStatsQuery struct {
	UserID string
}

// GetReferralStatsResult 統計結果
type GetReferralStatsResult struct {
	CompletedReferrals int64
	PendingReferrals   int64
	TotalCoinsEarned   int64
	CoinsPerReferral   int
}

// GetReferralStatsUseCase 推薦統計 Use Case
type GetReferralStatsUseCase struct {
	referralRepo referral.ReferralRepository
	config       coins.RewardConfig
}

// NewGetReferralStatsUseCase 創建 Use Case 實例
func NewGetReferralStatsUseCase(repo referral.ReferralRepository, config coins.RewardConfig) *GetReferralStatsUseCase {
	return &GetReferralStatsUseCase{referralRepo: repo, config: config}
}

// Execute 執行統計
func (uc *GetReferralStatsUseCase) Execute(query GetReferralStatsQuery) (*GetReferralStatsResult, error) {
	userID, err := shared.UserIDFromString(query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}

	completed, err := uc.referralRepo.CountByReferrer(nil, userID, referral.StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed referrals: %w", err)
	}
	pending, err := uc.referralRepo.CountByReferrer(nil, userID, referral.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending referrals: %w", err)
	}

	perReferral := uc.config.ReferralBonusReferrer()
	return &GetReferralStatsResult{
		CompletedReferrals: completed,
		PendingReferrals:   pending,
		TotalCoinsEarned:   completed * int64(perReferral),
		CoinsPerReferral:   perReferral,
	}, nil
}
