package promotion

import (
	"github.com/shopspring/decimal"
)

// ===========================
// 猜價格
// ===========================

// Product 目錄商品（外部協作者提供）
type Product struct {
	ID          string
	Name        string
	Description string
	Images      []string
	Price       decimal.Decimal
}

// ProductCatalog 商品目錄（外部協作者）
type ProductCatalog interface {
	// Random 隨機取一個上架商品
	// 錯誤：ErrNoProducts
	Random() (Product, error)

	// FindByID 依 ID 查找
	// 錯誤：ErrProductNotFound
	FindByID(id string) (Product, error)
}

// GuessRules 猜價格規則
type GuessRules struct {
	tolerance   decimal.Decimal // 百分比 (0, 100]
	rewardCoins int
}

// NewGuessRules 建立規則
func NewGuessRules(tolerancePercent decimal.Decimal, rewardCoins int) (GuessRules, error) {
	if !tolerancePercent.IsPositive() || tolerancePercent.GreaterThan(decimal.NewFromInt(100)) || rewardCoins <= 0 {
		return GuessRules{}, ErrInvalidGuessSettings.WithContext(
			"tolerance_percent", tolerancePercent.String(),
			"reward_coins", rewardCoins,
		)
	}
	return GuessRules{tolerance: tolerancePercent, rewardCoins: rewardCoins}, nil
}

// DefaultGuessRules 誤差 10% 以內獲得 10 金幣
func DefaultGuessRules() GuessRules {
	return GuessRules{tolerance: decimal.NewFromInt(10), rewardCoins: 10}
}

// RewardCoins 猜中獎勵
func (r GuessRules) RewardCoins() int { return r.rewardCoins }

// TolerancePercent 允許誤差百分比
func (r GuessRules) TolerancePercent() decimal.Decimal { return r.tolerance }

// GuessResult 猜價格結果
type GuessResult struct {
	Won         bool
	ActualPrice decimal.Decimal
	Guess       decimal.Decimal
	Difference  decimal.Decimal
	CoinsWon    int
}

// Evaluate 判斷猜測是否在誤差範圍內：|actual - guess| <= actual × tolerance / 100
func (r GuessRules) Evaluate(product Product, guess decimal.Decimal) (GuessResult, error) {
	if guess.IsNegative() {
		return GuessResult{}, ErrInvalidGuess.WithContext("guess", guess.String())
	}

	difference := product.Price.Sub(guess).Abs()
	threshold := product.Price.Mul(r.tolerance).Div(decimal.NewFromInt(100))

	result := GuessResult{
		ActualPrice: product.Price,
		Guess:       guess,
		Difference:  difference,
	}
	if difference.LessThanOrEqual(threshold) {
		result.Won = true
		result.CoinsWon = r.rewardCoins
	}
	return result, nil
}
