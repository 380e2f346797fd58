package coins

import (
	"fmt"

	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CalculateDiscountCommand 試算折抵（不扣帳）
type CalculateDiscountCommand struct {
	UserID string
	Coins  int
}

// CalculateDiscountResult 試算結果
type CalculateDiscountResult struct {
	Coins            int
	Discount         decimal.Decimal
	RemainingBalance int
	CanRedeem        bool
}

// CalculateDiscountUseCase 折抵試算 Use Case（唯讀，不追加分錄）
type CalculateDiscountUseCase struct {
	ledger     *LedgerService
	calculator *coins.RewardCalculator
}

// NewCalculateDiscountUseCase 創建 Use Case 實例
func NewCalculateDiscountUseCase(ledger *LedgerService, calculator *coins.RewardCalculator) *CalculateDiscountUseCase {
	return &CalculateDiscountUseCase{ledger: ledger, calculator: calculator}
}

// Execute 執行試算
//
// 錯誤處理：
// - ErrInvalidAmount: coins <= 0
// - ErrInsufficientBalance: coins 超過目前餘額
//
// 低於兌換門檻不是錯誤：Discount 為 0、CanRedeem 為 false。
func (uc *CalculateDiscountUseCase) Execute(cmd CalculateDiscountCommand) (*CalculateDiscountResult, error) {
	userID, err := shared.UserIDFromString(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}
	if cmd.Coins <= 0 {
		return nil, coins.ErrInvalidAmount.WithContext("coins", cmd.Coins)
	}

	balance, err := uc.ledger.Balance(userID)
	if err != nil {
		return nil, err
	}
	if cmd.Coins > balance {
		return nil, coins.ErrInsufficientBalance.WithContext(
			"user_id", userID.String(),
			"balance", balance,
			"coins", cmd.Coins,
		)
	}

	return &CalculateDiscountResult{
		Coins:            cmd.Coins,
		Discount:         uc.calculator.ComputeDiscount(cmd.Coins),
		RemainingBalance: balance - cmd.Coins,
		CanRedeem:        uc.calculator.CanRedeem(cmd.Coins),
	}, nil
}
