package coins

import (
	"fmt"
	"time"

	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
)

// ListTransactionsQuery 分頁查詢交易記錄（0 表示使用預設值）
type ListTransactionsQuery struct {
	UserID   string
	Page     int
	PageSize int
}

// TransactionView 單筆分錄
type TransactionView struct {
	ID                string
	Amount            int
	Kind              string
	Description       string
	RelatedOrderID    string
	RelatedReferralID string
	BalanceAfter      int
	CreatedAt         time.Time
}

// ListTransactionsResult 分頁結果
type ListTransactionsResult struct {
	Transactions      []TransactionView
	TotalPages        int
	CurrentPage       int
	PageSize          int
	TotalTransactions int64
}

// ListTransactionsUseCase 交易記錄 Use Case（純讀取）
type ListTransactionsUseCase struct {
	ledgerRepo coins.LedgerRepository
}

// NewListTransactionsUseCase 創建 Use Case 實例
func NewListTransactionsUseCase(repo coins.LedgerRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{ledgerRepo: repo}
}

// Execute 依建立時間新到舊返回
func (uc *ListTransactionsUseCase) Execute(query ListTransactionsQuery) (*ListTransactionsResult, error) {
	userID, err := shared.UserIDFromString(query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}

	page, err := coins.NewPage(query.Page, query.PageSize)
	if err != nil {
		return nil, err
	}

	entries, total, err := uc.ledgerRepo.FindByUser(nil, userID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	views := make([]TransactionView, 0, len(entries))
	for _, e := range entries {
		views = append(views, toTransactionView(e))
	}

	return &ListTransactionsResult{
		Transactions:      views,
		TotalPages:        page.TotalPages(total),
		CurrentPage:       page.Number(),
		PageSize:          page.Size(),
		TotalTransactions: total,
	}, nil
}

func toTransactionView(e *coins.LedgerEntry) TransactionView {
	return TransactionView{
		ID:                e.ID().String(),
		Amount:            e.Amount(),
		Kind:              e.Kind().String(),
		Description:       e.Description(),
		RelatedOrderID:    e.RelatedOrderID(),
		RelatedReferralID: e.RelatedReferralID(),
		BalanceAfter:      e.BalanceAfter(),
		CreatedAt:         e.CreatedAt(),
	}
}
