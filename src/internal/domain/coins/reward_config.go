package coins

import "github.com/shopspring/decimal"

// ===========================
// RewardConfig 值對象
// ===========================

// RewardConfig 金幣獎勵規則（程序啟動時建立一次，之後唯讀）
//
// 欄位：
//   - coinsPerCurrencyUnit: 每 1 單位訂單金額獲得的金幣數
//   - coinToCurrencyRatio: 折抵 1 單位金額所需的金幣數
//   - minCoinsForRedemption: 兌換門檻，低於此數拒絕兌換
//   - referralBonusReferrer: 推薦人獎勵
//   - referralBonusReferred: 被推薦人獎勵
//
// 值對象不可變，以值傳遞即可安全共享。
type RewardConfig struct {
	coinsPerCurrencyUnit  decimal.Decimal
	coinToCurrencyRatio   int
	minCoinsForRedemption int
	referralBonusReferrer int
	referralBonusReferred int
}

// NewRewardConfig 建立並驗證獎勵規則
//
// 約束：
//   - coinsPerCurrencyUnit >= 0
//   - coinToCurrencyRatio > 0（作為除數）
//   - 其餘欄位 >= 0
func NewRewardConfig(
	coinsPerCurrencyUnit decimal.Decimal,
	coinToCurrencyRatio int,
	minCoinsForRedemption int,
	referralBonusReferrer int,
	referralBonusReferred int,
) (RewardConfig, error) {
	if coinsPerCurrencyUnit.IsNegative() {
		return RewardConfig{}, ErrInvalidRewardConfig.WithContext(
			"coins_per_currency_unit", coinsPerCurrencyUnit.String(),
		)
	}
	if coinToCurrencyRatio <= 0 {
		return RewardConfig{}, ErrInvalidRewardConfig.WithContext(
			"coin_to_currency_ratio", coinToCurrencyRatio,
		)
	}
	if minCoinsForRedemption < 0 || referralBonusReferrer < 0 || referralBonusReferred < 0 {
		return RewardConfig{}, ErrInvalidRewardConfig.WithContext(
			"min_coins_for_redemption", minCoinsForRedemption,
			"referral_bonus_referrer", referralBonusReferrer,
			"referral_bonus_referred", referralBonusReferred,
		)
	}

	return RewardConfig{
		coinsPerCurrencyUnit:  coinsPerCurrencyUnit,
		coinToCurrencyRatio:   coinToCurrencyRatio,
		minCoinsForRedemption: minCoinsForRedemption,
		referralBonusReferrer: referralBonusReferrer,
		referralBonusReferred: referralBonusReferred,
	}, nil
}

// DefaultRewardConfig 商店預設規則：每 1 元 10 金幣、100 金幣折 1 元、最低兌換 50、推薦 100 / 50
func DefaultRewardConfig() RewardConfig {
	return RewardConfig{
		coinsPerCurrencyUnit:  decimal.NewFromInt(10),
		coinToCurrencyRatio:   100,
		minCoinsForRedemption: 50,
		referralBonusReferrer: 100,
		referralBonusReferred: 50,
	}
}

// CoinsPerCurrencyUnit 每單位金額獲得金幣數
func (c RewardConfig) CoinsPerCurrencyUnit() decimal.Decimal {
	return c.coinsPerCurrencyUnit
}

// CoinToCurrencyRatio 折抵 1 單位金額所需金幣數
func (c RewardConfig) CoinToCurrencyRatio() int {
	return c.coinToCurrencyRatio
}

// MinCoinsForRedemption 兌換門檻
func (c RewardConfig) MinCoinsForRedemption() int {
	return c.minCoinsForRedemption
}

// ReferralBonusReferrer 推薦人獎勵
func (c RewardConfig) ReferralBonusReferrer() int {
	return c.referralBonusReferrer
}

// ReferralBonusReferred 被推薦人獎勵
func (c RewardConfig) ReferralBonusReferred() int {
	return c.referralBonusReferred
}

// TotalReferralBonus 單次推薦完成發出的金幣總數
func (c RewardConfig) TotalReferralBonus() int {
	return c.referralBonusReferrer + c.referralBonusReferred
}
