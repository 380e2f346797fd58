package promotion

import (
	"fmt"

	coinsapp "github.com/jackyeh168/cartquest/src/internal/application/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/promotion"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ===========================
// GuessPrice Use Case
// ===========================

// ProductView 猜價格題目（不含價格）
type ProductView struct {
	ID          string
	Name        string
	Description string
	Images      []string
}

// SubmitGuessCommand 提交猜測
type SubmitGuessCommand struct {
	UserID    string
	ProductID string
	Guess     decimal.Decimal
}

// SubmitGuessResult 猜價格結果
type SubmitGuessResult struct {
	Won         bool
	ActualPrice decimal.Decimal
	Guess       decimal.Decimal
	CoinsWon    int
	NewBalance  int
	Message     string
}

// GuessPriceUseCase 猜價格 Use Case
//
// 猜中時以 game_reward 分錄發放金幣，與其他金幣來源走相同的帳本寫入路徑。
type GuessPriceUseCase struct {
	catalog promotion.ProductCatalog
	rules   promotion.GuessRules
	ledger  *coinsapp.LedgerService
}

// NewGuessPriceUseCase 創建 Use Case 實例
func NewGuessPriceUseCase(
	catalog promotion.ProductCatalog,
	rules promotion.GuessRules,
	ledger *coinsapp.LedgerService,
) *GuessPriceUseCase {
	return &GuessPriceUseCase{catalog: catalog, rules: rules, ledger: ledger}
}

// RandomProduct 隨機出題
func (uc *GuessPriceUseCase) RandomProduct() (*ProductView, error) {
	p, err := uc.catalog.Random()
	if err != nil {
		return nil, err
	}
	return &ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Images:      p.Images,
	}, nil
}

// Submit 判定並發放獎勵
//
// 錯誤處理：
// - ErrProductNotFound: 商品不存在
// - ErrInvalidGuess: 猜測為負數
func (uc *GuessPriceUseCase) Submit(cmd SubmitGuessCommand) (*SubmitGuessResult, error) {
	userID, err := shared.UserIDFromString(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}

	product, err := uc.catalog.FindByID(cmd.ProductID)
	if err != nil {
		return nil, err
	}

	outcome, err := uc.rules.Evaluate(product, cmd.Guess)
	if err != nil {
		return nil, err
	}

	result := &SubmitGuessResult{
		Won:         outcome.Won,
		ActualPrice: outcome.ActualPrice,
		Guess:       outcome.Guess,
		CoinsWon:    outcome.CoinsWon,
	}

	if !outcome.Won {
		balance, err := uc.ledger.Balance(userID)
		if err != nil {
			return nil, err
		}
		result.NewBalance = balance
		result.Message = fmt.Sprintf("Close! The price was $%s.", outcome.ActualPrice.StringFixed(2))
		return result, nil
	}

	entry, err := uc.ledger.Append(userID, coins.EntrySpec{
		Amount:      outcome.CoinsWon,
		Kind:        coins.KindGameReward,
		Description: fmt.Sprintf("Won Guess the Price: %s", product.Name),
	})
	if err != nil {
		return nil, err
	}
	result.NewBalance = entry.BalanceAfter()
	result.Message = fmt.Sprintf("Great guess! You won %d coins.", outcome.CoinsWon)
	return result, nil
}
