package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	promotionapp "github.com/jackyeh168/cartquest/src/internal/application/promotion"
	"github.com/jackyeh168/cartquest/src/internal/domain/promotion"
	"github.com/shopspring/decimal"
)

// ===========================
// 轉盤與猜價格端點
// ===========================

type sectorResponse struct {
	Type    string `json:"type"`
	Label   string `json:"label"`
	Value   *int   `json:"value"`
	Message string `json:"message,omitempty"`
}

type sectorsResponse struct {
	Sectors []sectorResponse `json:"sectors"`
}

type spinResponse struct {
	Outcome          sectorResponse `json:"outcome"`
	VoucherCode      string         `json:"voucherCode,omitempty"`
	VoucherExpiresAt *time.Time     `json:"voucherExpiresAt,omitempty"`
}

type productResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

type guessRequest struct {
	ProductID string          `json:"productId"`
	Guess     decimal.Decimal `json:"guess"`
}

type guessResponse struct {
	Won          bool    `json:"won"`
	ActualPrice  float64 `json:"actualPrice"`
	GuessedPrice float64 `json:"guessedPrice"`
	CoinsWon     int     `json:"coinsWon"`
	NewBalance   int     `json:"newBalance"`
	Message      string  `json:"message"`
}

type leaderboardResponse struct {
	Rank   int    `json:"rank"`
	UserID string `json:"userId"`
	Coins  int    `json:"coins"`
}

// toSectorResponse 非折扣扇區的 value 輸出 null
func toSectorResponse(s promotion.Sector, withMessage bool) sectorResponse {
	resp := sectorResponse{Type: string(s.Type), Label: s.Label}
	if s.IsDiscount() {
		value := s.Value
		resp.Value = &value
	}
	if withMessage {
		resp.Message = s.Message
	}
	return resp
}

// ListWheelSectors GET /api/wheel
func (h *Handler) ListWheelSectors(c *gin.Context) {
	sectors := h.services.SpinWheel.Sectors()
	items := make([]sectorResponse, 0, len(sectors))
	for _, s := range sectors {
		items = append(items, toSectorResponse(s, false))
	}
	c.JSON(http.StatusOK, sectorsResponse{Sectors: items})
}

// SpinWheel POST /api/wheel/spin
func (h *Handler) SpinWheel(c *gin.Context) {
	result, err := h.services.SpinWheel.Execute(promotionapp.SpinWheelCommand{UserID: currentUserID(c)})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, spinResponse{
		Outcome:          toSectorResponse(result.Outcome, true),
		VoucherCode:      result.VoucherCode,
		VoucherExpiresAt: optionalTime(result.VoucherExpiresAt),
	})
}

// GuessPriceProduct GET /api/game/guess-price/product
func (h *Handler) GuessPriceProduct(c *gin.Context) {
	product, err := h.services.GuessPrice.RandomProduct()
	if err != nil {
		h.fail(c, err)
		return
	}

	images := product.Images
	if images == nil {
		images = []string{}
	}
	c.JSON(http.StatusOK, productResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Images:      images,
	})
}

// SubmitGuess POST /api/game/guess-price/submit
func (h *Handler) SubmitGuess(c *gin.Context) {
	var req guessRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.services.GuessPrice.Submit(promotionapp.SubmitGuessCommand{
		UserID:    currentUserID(c),
		ProductID: req.ProductID,
		Guess:     req.Guess,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, guessResponse{
		Won:          result.Won,
		ActualPrice:  result.ActualPrice.InexactFloat64(),
		GuessedPrice: result.Guess.InexactFloat64(),
		CoinsWon:     result.CoinsWon,
		NewBalance:   result.NewBalance,
		Message:      result.Message,
	})
}

// GuessPriceLeaderboard GET /api/game/guess-price/leaderboard
func (h *Handler) GuessPriceLeaderboard(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	entries, err := h.services.Leaderboard.Execute(limit)
	if err != nil {
		h.fail(c, err)
		return
	}

	items := make([]leaderboardResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, leaderboardResponse{Rank: e.Rank, UserID: e.UserID, Coins: e.Balance})
	}
	c.JSON(http.StatusOK, items)
}
