package coins

import (
	"fmt"
	"strings"

	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ===========================
// EarnFromPurchase Use Case
// ===========================

// EarnFromPurchaseCommand 訂單完成後發放購物金幣
//
// OrderID 為訂單系統的弱引用（必填，作為去重鍵）。
type EarnFromPurchaseCommand struct {
	UserID     string
	OrderID    string
	OrderTotal decimal.Decimal
}

// EarnFromPurchaseResult 發放結果
//
// - CoinsEarned = 0 且 AlreadyRewarded = false：金額換算不到 1 金幣，沒有追加分錄
// - AlreadyRewarded = true：此訂單先前已發放，本次不重複發放
type EarnFromPurchaseResult struct {
	CoinsEarned     int
	NewBalance      int
	EntryID         string
	AlreadyRewarded bool
}

// EarnFromPurchaseUseCase 購物金幣 Use Case
//
// 去重：同一 (userID, orderID) 只會有一筆 purchase_reward，
// 檢查與追加在同一事務中，並發衝突時整個重試（重試時會看到對方已寫入的分錄）。
type EarnFromPurchaseUseCase struct {
	ledger     *LedgerService
	calculator *coins.RewardCalculator
}

// NewEarnFromPurchaseUseCase 創建 Use Case 實例
func NewEarnFromPurchaseUseCase(ledger *LedgerService, calculator *coins.RewardCalculator) *EarnFromPurchaseUseCase {
	return &EarnFromPurchaseUseCase{ledger: ledger, calculator: calculator}
}

// Execute 在獨立事務中執行
//
// 錯誤處理：
// - ErrInvalidUserID / ErrMissingOrderID: 輸入無效
// - ErrInvalidOrderTotal: 訂單金額為負
// - ErrBalanceOverflow: 金幣超過上限
func (uc *EarnFromPurchaseUseCase) Execute(cmd EarnFromPurchaseCommand) (*EarnFromPurchaseResult, error) {
	userID, orderID, earned, err := uc.prepare(cmd)
	if err != nil {
		return nil, err
	}

	if earned <= 0 {
		balance, err := uc.ledger.Balance(userID)
		if err != nil {
			return nil, err
		}
		return &EarnFromPurchaseResult{NewBalance: balance}, nil
	}

	var result *EarnFromPurchaseResult
	err = uc.ledger.Transact(userID, func(tx *LedgerTx) error {
		var err error
		result, err = uc.earn(tx, userID, orderID, earned)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ExecuteInLedgerTx 在呼叫者的帳本事務中執行（例如與訂單狀態更新組合）
func (uc *EarnFromPurchaseUseCase) ExecuteInLedgerTx(tx *LedgerTx, cmd EarnFromPurchaseCommand) (*EarnFromPurchaseResult, error) {
	userID, orderID, earned, err := uc.prepare(cmd)
	if err != nil {
		return nil, err
	}
	if earned <= 0 {
		balance, err := tx.Balance(userID)
		if err != nil {
			return nil, err
		}
		return &EarnFromPurchaseResult{NewBalance: balance}, nil
	}
	return uc.earn(tx, userID, orderID, earned)
}

func (uc *EarnFromPurchaseUseCase) prepare(cmd EarnFromPurchaseCommand) (shared.UserID, string, int, error) {
	userID, err := shared.UserIDFromString(cmd.UserID)
	if err != nil {
		return shared.UserID{}, "", 0, fmt.Errorf("failed to parse user ID: %w", err)
	}

	orderID := strings.TrimSpace(cmd.OrderID)
	if orderID == "" {
		return shared.UserID{}, "", 0, coins.ErrMissingOrderID
	}

	earned, err := uc.calculator.ComputeEarnedCoins(cmd.OrderTotal)
	if err != nil {
		return shared.UserID{}, "", 0, err
	}
	return userID, orderID, earned, nil
}

func (uc *EarnFromPurchaseUseCase) earn(tx *LedgerTx, userID shared.UserID, orderID string, earned int) (*EarnFromPurchaseResult, error) {
	rewarded, err := uc.ledger.Repository().ExistsForOrder(tx.Context(), userID, orderID, coins.KindPurchaseReward)
	if err != nil {
		return nil, fmt.Errorf("failed to check order reward: %w", err)
	}
	if rewarded {
		balance, err := tx.Balance(userID)
		if err != nil {
			return nil, err
		}
		return &EarnFromPurchaseResult{NewBalance: balance, AlreadyRewarded: true}, nil
	}

	entry, err := tx.Append(userID, coins.EntrySpec{
		Amount:         earned,
		Kind:           coins.KindPurchaseReward,
		Description:    fmt.Sprintf("Earned %d coins from purchase", earned),
		RelatedOrderID: orderID,
	})
	if err != nil {
		return nil, err
	}

	return &EarnFromPurchaseResult{
		CoinsEarned: entry.Amount(),
		NewBalance:  entry.BalanceAfter(),
		EntryID:     entry.ID().String(),
	}, nil
}
