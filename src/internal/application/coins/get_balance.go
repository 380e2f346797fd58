package coins

import (
	"fmt"

	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// GetBalanceQuery 查詢金幣餘額
type GetBalanceQuery struct {
	UserID string
}

// RewardConfigView 前端顯示用的兌換規則
type RewardConfigView struct {
	CoinsPerCurrencyUnit  decimal.Decimal
	CoinToCurrencyRatio   int
	MinCoinsForRedemption int
}

// GetBalanceResult 餘額與規則
type GetBalanceResult struct {
	Balance int
	Config  RewardConfigView
}

// GetBalanceUseCase 查詢金幣餘額 Use Case
type GetBalanceUseCase struct {
	ledger *LedgerService
	config coins.RewardConfig
}

// NewGetBalanceUseCase 創建 Use Case 實例
func NewGetBalanceUseCase(ledger *LedgerService, config coins.RewardConfig) *GetBalanceUseCase {
	return &GetBalanceUseCase{ledger: ledger, config: config}
}

// Execute 執行查詢（未知使用者餘額為 0）
func (uc *GetBalanceUseCase) Execute(query GetBalanceQuery) (*GetBalanceResult, error) {
	userID, err := shared.UserIDFromString(query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}

	balance, err := uc.ledger.Balance(userID)
	if err != nil {
		return nil, err
	}

	return &GetBalanceResult{
		Balance: balance,
		Config: RewardConfigView{
			CoinsPerCurrencyUnit:  uc.config.CoinsPerCurrencyUnit(),
			CoinToCurrencyRatio:   uc.config.CoinToCurrencyRatio(),
			MinCoinsForRedemption: uc.config.MinCoinsForRedemption(),
		},
	}, nil
}
