package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	coinsapp "github.com/jackyeh168/cartquest/src/internal/application/coins"
	"github.com/shopspring/decimal"
)

// ===========================
// 金幣端點
// ===========================

type rewardConfigResponse struct {
	CoinsPerDollar        float64 `json:"coinsPerDollar"`
	CoinToDollarRatio     int     `json:"coinToDollarRatio"`
	MinCoinsForRedemption int     `json:"minCoinsForRedemption"`
}

type balanceResponse struct {
	Balance int                  `json:"balance"`
	Config  rewardConfigResponse `json:"config"`
}

type transactionResponse struct {
	ID                string    `json:"id"`
	Amount            int       `json:"amount"`
	Type              string    `json:"type"`
	Description       string    `json:"description"`
	RelatedOrderID    string    `json:"relatedOrderId,omitempty"`
	RelatedReferralID string    `json:"relatedReferralId,omitempty"`
	BalanceAfter      int       `json:"balanceAfter"`
	CreatedAt         time.Time `json:"createdAt"`
}

type transactionsResponse struct {
	Transactions      []transactionResponse `json:"transactions"`
	TotalPages        int                   `json:"totalPages"`
	CurrentPage       int                   `json:"currentPage"`
	TotalTransactions int64                 `json:"totalTransactions"`
}

type coinsRequest struct {
	Coins int `json:"coins"`
}

type calculateDiscountResponse struct {
	Coins            int     `json:"coins"`
	Discount         float64 `json:"discount"`
	RemainingBalance int     `json:"remainingBalance"`
	CanRedeem        bool    `json:"canRedeem"`
}

type spendResponse struct {
	Success          bool       `json:"success"`
	CoinsSpent       int        `json:"coinsSpent"`
	DiscountAmount   float64    `json:"discountAmount"`
	NewBalance       int        `json:"newBalance"`
	VoucherCode      string     `json:"voucherCode,omitempty"`
	VoucherExpiresAt *time.Time `json:"voucherExpiresAt,omitempty"`
}

type coinStatsResponse struct {
	CurrentBalance    int   `json:"currentBalance"`
	TotalEarned       int   `json:"totalEarned"`
	TotalSpent        int   `json:"totalSpent"`
	PurchaseRewards   int   `json:"purchaseRewards"`
	ReferralRewards   int   `json:"referralRewards"`
	GameRewards       int   `json:"gameRewards"`
	TotalTransactions int64 `json:"totalTransactions"`
}

type purchaseRewardRequest struct {
	UserID     string          `json:"userId"`
	OrderID    string          `json:"orderId"`
	OrderTotal decimal.Decimal `json:"orderTotal"`
}

type purchaseRewardResponse struct {
	Success         bool   `json:"success"`
	CoinsEarned     int    `json:"coinsEarned"`
	NewBalance      int    `json:"newBalance"`
	AlreadyRewarded bool   `json:"alreadyRewarded"`
	EntryID         string `json:"entryId,omitempty"`
}

// GetBalance GET /api/coins/balance
func (h *Handler) GetBalance(c *gin.Context) {
	result, err := h.services.GetBalance.Execute(coinsapp.GetBalanceQuery{UserID: currentUserID(c)})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, balanceResponse{
		Balance: result.Balance,
		Config: rewardConfigResponse{
			CoinsPerDollar:        result.Config.CoinsPerCurrencyUnit.InexactFloat64(),
			CoinToDollarRatio:     result.Config.CoinToCurrencyRatio,
			MinCoinsForRedemption: result.Config.MinCoinsForRedemption,
		},
	})
}

// ListTransactions GET /api/coins/transactions?page=&limit=
func (h *Handler) ListTransactions(c *gin.Context) {
	page, ok := queryInt(c, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	result, err := h.services.ListTransactions.Execute(coinsapp.ListTransactionsQuery{
		UserID:   currentUserID(c),
		Page:     page,
		PageSize: limit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	items := make([]transactionResponse, 0, len(result.Transactions))
	for _, t := range result.Transactions {
		items = append(items, transactionResponse{
			ID:                t.ID,
			Amount:            t.Amount,
			Type:              t.Kind,
			Description:       t.Description,
			RelatedOrderID:    t.RelatedOrderID,
			RelatedReferralID: t.RelatedReferralID,
			BalanceAfter:      t.BalanceAfter,
			CreatedAt:         t.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, transactionsResponse{
		Transactions:      items,
		TotalPages:        result.TotalPages,
		CurrentPage:       result.CurrentPage,
		TotalTransactions: result.TotalTransactions,
	})
}

// CalculateDiscount POST /api/coins/calculate-discount
func (h *Handler) CalculateDiscount(c *gin.Context) {
	var req coinsRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.services.CalculateDiscount.Execute(coinsapp.CalculateDiscountCommand{
		UserID: currentUserID(c),
		Coins:  req.Coins,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, calculateDiscountResponse{
		Coins:            result.Coins,
		Discount:         result.Discount.InexactFloat64(),
		RemainingBalance: result.RemainingBalance,
		CanRedeem:        result.CanRedeem,
	})
}

// SpendCoins POST /api/coins/spend
func (h *Handler) SpendCoins(c *gin.Context) {
	var req coinsRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.services.SpendForDiscount.Execute(coinsapp.SpendForDiscountCommand{
		UserID: currentUserID(c),
		Coins:  req.Coins,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, spendResponse{
		Success:          true,
		CoinsSpent:       result.CoinsSpent,
		DiscountAmount:   result.DiscountAmount.InexactFloat64(),
		NewBalance:       result.NewBalance,
		VoucherCode:      result.VoucherCode,
		VoucherExpiresAt: optionalTime(result.VoucherExpiresAt),
	})
}

// GetCoinStats GET /api/coins/stats
func (h *Handler) GetCoinStats(c *gin.Context) {
	result, err := h.services.GetCoinStats.Execute(coinsapp.GetCoinStatsQuery{UserID: currentUserID(c)})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, coinStatsResponse{
		CurrentBalance:    result.CurrentBalance,
		TotalEarned:       result.TotalEarned,
		TotalSpent:        result.TotalSpent,
		PurchaseRewards:   result.PurchaseRewards,
		ReferralRewards:   result.ReferralRewards,
		GameRewards:       result.GameRewards,
		TotalTransactions: result.TotalTransactions,
	})
}

// PurchaseReward POST /api/internal/coins/purchase-reward（訂單系統付款完成後回呼）
func (h *Handler) PurchaseReward(c *gin.Context) {
	var req purchaseRewardRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.services.EarnFromPurchase.Execute(coinsapp.EarnFromPurchaseCommand{
		UserID:     req.UserID,
		OrderID:    req.OrderID,
		OrderTotal: req.OrderTotal,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, purchaseRewardResponse{
		Success:         true,
		CoinsEarned:     result.CoinsEarned,
		NewBalance:      result.NewBalance,
		AlreadyRewarded: result.AlreadyRewarded,
		EntryID:         result.EntryID,
	})
}
