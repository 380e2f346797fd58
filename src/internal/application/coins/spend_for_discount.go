package coins

import (
	"fmt"
	"time"

	voucherapp "github.com/jackyeh168/cartquest/src/internal/application/voucher"
	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/jackyeh168/cartquest/src/internal/domain/voucher"
	"github.com/shopspring/decimal"
)

// ===========================
// SpendForDiscount Use Case
// ===========================

// VoucherIssuer 在既有事務中發放折價券（由 application/voucher.Issuer 實作）
type VoucherIssuer interface {
	IssueWithContext(ctx shared.TransactionContext, req voucherapp.IssueRequest, now time.Time) (*voucher.DiscountVoucher, error)
}

// SpendForDiscountCommand 以金幣兌換折抵
type SpendForDiscountCommand struct {
	UserID string
	Coins  int
}

// SpendForDiscountResult 兌換結果
//
// VoucherCode 為與扣帳同一事務發放的固定金額折價券，結帳時使用。
type SpendForDiscountResult struct {
	CoinsSpent       int
	DiscountAmount   decimal.Decimal
	NewBalance       int
	VoucherCode      string
	VoucherExpiresAt time.Time
}

// SpendForDiscountUseCase 金幣兌換 Use Case
//
// 檢查順序：金額 > 0 → 餘額足夠 → 達到兌換門檻。
// 餘額檢查與扣帳在同一事務中，並發兌換不會使餘額變為負數。
// 折抵金額不會被截到訂單金額，由結帳流程負責限制可用金幣。
type SpendForDiscountUseCase struct {
	ledger     *LedgerService
	calculator *coins.RewardCalculator
	issuer     VoucherIssuer
}

// NewSpendForDiscountUseCase 創建 Use Case 實例（issuer 為 nil 時不發放折價券）
func NewSpendForDiscountUseCase(
	ledger *LedgerService,
	calculator *coins.RewardCalculator,
	issuer VoucherIssuer,
) *SpendForDiscountUseCase {
	return &SpendForDiscountUseCase{
		ledger:     ledger,
		calculator: calculator,
		issuer:     issuer,
	}
}

// Execute 執行兌換
//
// 錯誤處理：
// - ErrInvalidAmount: coins <= 0
// - ErrInsufficientBalance: coins 超過餘額
// - ErrBelowRedemptionFloor: coins 低於兌換門檻（即使餘額足夠）
// - ErrGenerationExhausted: 折價券代碼產生失敗（扣帳一併回滾）
func (uc *SpendForDiscountUseCase) Execute(cmd SpendForDiscountCommand) (*SpendForDiscountResult, error) {
	userID, err := shared.UserIDFromString(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}
	if cmd.Coins <= 0 {
		return nil, coins.ErrInvalidAmount.WithContext("coins", cmd.Coins)
	}

	var result *SpendForDiscountResult
	err = uc.ledger.Transact(userID, func(tx *LedgerTx) error {
		var err error
		result, err = uc.spend(tx, userID, cmd.Coins)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *SpendForDiscountUseCase) spend(tx *LedgerTx, userID shared.UserID, requested int) (*SpendForDiscountResult, error) {
	balance, err := tx.Balance(userID)
	if err != nil {
		return nil, err
	}
	if requested > balance {
		return nil, coins.ErrInsufficientBalance.WithContext(
			"user_id", userID.String(),
			"balance", balance,
			"coins", requested,
		)
	}

	floor := uc.calculator.Config().MinCoinsForRedemption()
	if requested < floor {
		return nil, coins.ErrBelowRedemptionFloor.
			WithMessage(fmt.Sprintf("Minimum %d coins required for redemption", floor)).
			WithContext("coins", requested, "min_coins_for_redemption", floor)
	}

	discount := uc.calculator.ComputeDiscount(requested)

	entry, err := tx.Append(userID, coins.EntrySpec{
		Amount:      -requested,
		Kind:        coins.KindSpent,
		Description: fmt.Sprintf("Redeemed %d coins for $%s discount", requested, discount.StringFixed(2)),
	})
	if err != nil {
		return nil, err
	}

	result := &SpendForDiscountResult{
		CoinsSpent:     requested,
		DiscountAmount: discount,
		NewBalance:     entry.BalanceAfter(),
	}

	if uc.issuer != nil && discount.IsPositive() {
		v, err := uc.issuer.IssueWithContext(tx.Context(), voucherapp.IssueRequest{
			UserID: userID,
			Kind:   voucher.KindAmount,
			Value:  discount,
			Source: voucher.SourceCoinRedemption,
		}, tx.Now())
		if err != nil {
			return nil, fmt.Errorf("failed to issue redemption voucher: %w", err)
		}
		tx.AddEvents(v.PullEvents()...)
		result.VoucherCode = v.Code()
		result.VoucherExpiresAt = v.ExpiresAt()
	}

	return result, nil
}
