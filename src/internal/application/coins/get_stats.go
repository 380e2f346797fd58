package coins

import (
	"fmt"

	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
)

// GetCoinStatsQuery 金幣統計
type GetCoinStatsQuery struct {
	UserID string
}

// GetCoinStatsResult 統計結果（TotalSpent 為扣帳絕對值總和）
type GetCoinStatsResult struct {
	CurrentBalance    int
	TotalEarned       int
	TotalSpent        int
	PurchaseRewards   int
	ReferralRewards   int
	GameRewards       int
	TotalTransactions int64
}

// GetCoinStatsUseCase 金幣統計 Use Case
type GetCoinStatsUseCase struct {
	ledger *LedgerService
}

// NewGetCoinStatsUseCase 創建 Use Case 實例
func NewGetCoinStatsUseCase(ledger *LedgerService) *GetCoinStatsUseCase {
	return &GetCoinStatsUseCase{ledger: ledger}
}

// Execute 執行統計
func (uc *GetCoinStatsUseCase) Execute(query GetCoinStatsQuery) (*GetCoinStatsResult, error) {
	userID, err := shared.UserIDFromString(query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}

	balance, err := uc.ledger.Balance(userID)
	if err != nil {
		return nil, err
	}

	summary, err := uc.ledger.Repository().Summarize(nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize ledger: %w", err)
	}

	return &GetCoinStatsResult{
		CurrentBalance:    balance,
		TotalEarned:       summary.TotalEarned,
		TotalSpent:        summary.TotalSpent,
		PurchaseRewards:   summary.PurchaseRewards,
		ReferralRewards:   summary.ReferralRewards,
		GameRewards:       summary.GameRewards,
		TotalTransactions: summary.TotalTransactions,
	}, nil
}
