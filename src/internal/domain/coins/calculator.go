package coins

import (
	"math"

	"github.com/shopspring/decimal"
)

// ===========================
// RewardCalculator 領域服務
// ===========================

// RewardCalculator 金幣與金額的換算（純函數，無 I/O）
//
// 為什麼需要 Domain Service：
// - 換算需要協調 RewardConfig 與金額（decimal）兩個值對象
// - 無狀態，可安全地在多個 goroutine 中共享
type RewardCalculator struct {
	config RewardConfig
}

// NewRewardCalculator 建構函數
func NewRewardCalculator(config RewardConfig) *RewardCalculator {
	return &RewardCalculator{config: config}
}

// Config 返回使用中的規則
func (c *RewardCalculator) Config() RewardConfig {
	return c.config
}

// ComputeEarnedCoins 訂單金額換算可得金幣
//
// 業務規則：
// - 金幣 = floor(訂單金額 × coinsPerCurrencyUnit)
// - 訂單金額 0 → 0 金幣（不是錯誤）
// - 負數金額 → ErrInvalidOrderTotal
//
// 範例：12.30 × 10 = 123
func (c *RewardCalculator) ComputeEarnedCoins(orderTotal decimal.Decimal) (int, error) {
	if orderTotal.IsNegative() {
		return 0, ErrInvalidOrderTotal.WithContext("order_total", orderTotal.String())
	}

	coins := orderTotal.Mul(c.config.coinsPerCurrencyUnit).Floor()
	if coins.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, ErrBalanceOverflow.WithContext("order_total", orderTotal.String())
	}

	return int(coins.IntPart()), nil
}

// ComputeDiscount 金幣換算折抵金額
//
// 業務規則：
// - coins < minCoinsForRedemption → 0
// - 否則 coins / coinToCurrencyRatio（不取整，123 金幣 → 1.23）
//
// 此函數對 coins 單調不減。
func (c *RewardCalculator) ComputeDiscount(coins int) decimal.Decimal {
	if !c.CanRedeem(coins) {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(coins)).
		Div(decimal.NewFromInt(int64(c.config.coinToCurrencyRatio)))
}

// CanRedeem 是否達到兌換門檻
func (c *RewardCalculator) CanRedeem(coins int) bool {
	return coins > 0 && coins >= c.config.minCoinsForRedemption
}
