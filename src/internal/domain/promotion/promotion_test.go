package promotion_test

import (
	"testing"

	"github.com/jackyeh168/cartquest/src/internal/domain/promotion"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedIndex struct{ index int }

func (f fixedIndex) IntN(n int) int { return f.index % n }

// ===== Wheel 測試 =====

func TestDefaultSectors(t *testing.T) {
	sectors := promotion.DefaultSectors()

	require.Len(t, sectors, 10)
	assert.Equal(t, promotion.OutcomeDiscount, sectors[0].Type)
	assert.Equal(t, 5, sectors[0].Value)
	assert.Equal(t, "5% off", sectors[0].Label)
	assert.Equal(t, 50, sectors[6].Value)
	assert.Equal(t, promotion.OutcomeVirtualHug, sectors[7].Type)
	assert.Equal(t, promotion.OutcomeTryAgain, sectors[8].Type)
	assert.Equal(t, promotion.OutcomeNothing, sectors[9].Type)
}

func TestWheel_Spin_UsesRandomIndex(t *testing.T) {
	tests := []struct {
		index    int
		expected promotion.OutcomeType
		value    int
	}{
		{index: 0, expected: promotion.OutcomeDiscount, value: 5},
		{index: 6, expected: promotion.OutcomeDiscount, value: 50},
		{index: 7, expected: promotion.OutcomeVirtualHug},
		{index: 9, expected: promotion.OutcomeNothing},
	}

	for _, tt := range tests {
		wheel, err := promotion.NewWheel(promotion.DefaultSectors(), fixedIndex{index: tt.index})
		require.NoError(t, err)

		got := wheel.Spin()

		assert.Equal(t, tt.expected, got.Type)
		assert.Equal(t, tt.value, got.Value)
	}
}

func TestNewWheel_Invalid(t *testing.T) {
	_, err := promotion.NewWheel(nil, nil)
	assert.ErrorIs(t, err, promotion.ErrInvalidWheel)

	_, err = promotion.NewWheel([]promotion.Sector{{Type: promotion.OutcomeDiscount, Value: 120}}, nil)
	assert.ErrorIs(t, err, promotion.ErrInvalidWheel)
}

func TestWheel_Sectors_ReturnsCopy(t *testing.T) {
	wheel, _ := promotion.NewWheel(promotion.DefaultSectors(), nil)

	sectors := wheel.Sectors()
	sectors[0].Value = 99

	assert.Equal(t, 5, wheel.Sectors()[0].Value)
}

// ===== Guess 測試 =====

func TestGuessRules_Evaluate(t *testing.T) {
	rules := promotion.DefaultGuessRules()
	product := promotion.Product{ID: "p1", Name: "Desk Lamp", Price: decimal.RequireFromString("40.00")}

	tests := []struct {
		name  string
		guess string
		won   bool
	}{
		{name: "完全正確", guess: "40", won: true},
		{name: "剛好下界", guess: "36", won: true},
		{name: "剛好上界", guess: "44", won: true},
		{name: "低於範圍", guess: "35.99", won: false},
		{name: "高於範圍", guess: "44.01", won: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := rules.Evaluate(product, decimal.RequireFromString(tt.guess))

			require.NoError(t, err)
			assert.Equal(t, tt.won, result.Won)
			if tt.won {
				assert.Equal(t, 10, result.CoinsWon)
			} else {
				assert.Equal(t, 0, result.CoinsWon)
			}
			assert.True(t, result.ActualPrice.Equal(product.Price))
		})
	}
}

func TestGuessRules_Evaluate_NegativeGuess(t *testing.T) {
	product := promotion.Product{ID: "p1", Price: decimal.NewFromInt(10)}

	_, err := promotion.DefaultGuessRules().Evaluate(product, decimal.NewFromInt(-1))

	assert.ErrorIs(t, err, promotion.ErrInvalidGuess)
}

func TestNewGuessRules_Validation(t *testing.T) {
	_, err := promotion.NewGuessRules(decimal.Zero, 10)
	assert.ErrorIs(t, err, promotion.ErrInvalidGuessSettings)

	_, err = promotion.NewGuessRules(decimal.NewFromInt(10), 0)
	assert.ErrorIs(t, err, promotion.ErrInvalidGuessSettings)

	rules, err := promotion.NewGuessRules(decimal.NewFromInt(5), 20)
	require.NoError(t, err)
	assert.Equal(t, 20, rules.RewardCoins())
}
