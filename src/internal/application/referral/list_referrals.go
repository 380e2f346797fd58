package referral

import (
	"fmt"
	"time"

	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/referral"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
)

// ListMyReferralsQuery 我推薦成功的記錄
type ListMyReferralsQuery struct {
	UserID string
}

// ReferralView 單筆已完成推薦
type ReferralView struct {
	ID             string
	Code           string
	ReferredUserID string
	CoinsAwarded   int
	CompletedAt    time.Time
}

// ListMyReferralsResult 推薦記錄列表
//
// TotalCoinsEarned 只計推薦人自己獲得的部分（筆數 × referralBonusReferrer）。
type ListMyReferralsResult struct {
	Referrals        []ReferralView
	TotalReferrals   int
	TotalCoinsEarned int
}

// ListMyReferralsUseCase 推薦記錄 Use Case
type ListMyReferralsUseCase struct {
	referralRepo referral.ReferralRepository
	config       coins.RewardConfig
}

// NewListMyReferralsUseCase 創建 Use Case 實例
func NewListMyReferralsUseCase(repo referral.ReferralRepository, config coins.RewardConfig) *ListMyReferralsUseCase {
	return &ListMyReferralsUseCase{referralRepo: repo, config: config}
}

// Execute 依完成時間新到舊
func (uc *ListMyReferralsUseCase) Execute(query ListMyReferralsQuery) (*ListMyReferralsResult, error) {
	userID, err := shared.UserIDFromString(query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}

	referrals, err := uc.referralRepo.ListCompletedByReferrer(nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list referrals: %w", err)
	}

	views := make([]ReferralView, 0, len(referrals))
	for _, r := range referrals {
		view := ReferralView{
			ID:             r.ID().String(),
			Code:           r.Code().String(),
			ReferredUserID: r.ReferredUserID().String(),
			CoinsAwarded:   r.CoinsAwarded(),
		}
		if r.CompletedAt() != nil {
			view.CompletedAt = *r.CompletedAt()
		}
		views = append(views, view)
	}

	return &ListMyReferralsResult{
		Referrals:        views,
		TotalReferrals:   len(views),
		TotalCoinsEarned: len(views) * uc.config.ReferralBonusReferrer(),
	}, nil
}
