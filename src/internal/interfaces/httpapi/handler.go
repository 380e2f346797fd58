package httpapi

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	coinsapp "github.com/jackyeh168/cartquest/src/internal/application/coins"
	promotionapp "github.com/jackyeh168/cartquest/src/internal/application/promotion"
	referralapp "github.com/jackyeh168/cartquest/src/internal/application/referral"
	voucherapp "github.com/jackyeh168/cartquest/src/internal/application/voucher"
	"github.com/sirupsen/logrus"
)

// ===========================
// Handler
// ===========================

// Services handler 依賴的所有 Use Case（由 bootstrap 組裝）
type Services struct {
	GetBalance        *coinsapp.GetBalanceUseCase
	ListTransactions  *coinsapp.ListTransactionsUseCase
	CalculateDiscount *coinsapp.CalculateDiscountUseCase
	SpendForDiscount  *coinsapp.SpendForDiscountUseCase
	GetCoinStats      *coinsapp.GetCoinStatsUseCase
	EarnFromPurchase  *coinsapp.EarnFromPurchaseUseCase

	GenerateReferralCode *referralapp.GenerateReferralCodeUseCase
	ApplyReferralCode    *referralapp.ApplyReferralCodeUseCase
	ExpireReferralCode   *referralapp.ExpireReferralCodeUseCase
	ListMyReferrals      *referralapp.ListMyReferralsUseCase
	GetReferralStats     *referralapp.GetReferralStatsUseCase
	ValidateReferralCode *referralapp.ValidateReferralCodeUseCase

	ListVouchers    *voucherapp.ListVouchersUseCase
	ValidateVoucher *voucherapp.ValidateVoucherUseCase
	RedeemVoucher   *voucherapp.RedeemVoucherUseCase

	SpinWheel   *promotionapp.SpinWheelUseCase
	GuessPrice  *promotionapp.GuessPriceUseCase
	Leaderboard *promotionapp.LeaderboardUseCase
}

// HealthCheck 檢查下游（資料庫）是否可用
type HealthCheck func(ctx context.Context) error

// Handler 所有 HTTP 端點
type Handler struct {
	services Services
	health   HealthCheck
	log      *logrus.Entry
}

// NewHandler 創建 Handler（health 為 nil 時只回報程序存活）
func NewHandler(services Services, health HealthCheck, log *logrus.Entry) *Handler {
	return &Handler{services: services, health: health, log: log}
}

// fail 寫出失敗回應
func (h *Handler) fail(c *gin.Context, err error) {
	respondError(c, h.log, err)
}

// bindJSON 解析請求內容，失敗時已寫出 400
func bindJSON(c *gin.Context, body interface{}) bool {
	if err := c.ShouldBindJSON(body); err != nil {
		respondBadRequest(c, "Invalid request body")
		return false
	}
	return true
}

// queryInt 查詢參數轉整數（未提供時為 0），失敗時已寫出 400
func queryInt(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		respondBadRequest(c, "Query parameter "+key+" must be an integer")
		return 0, false
	}
	return n, true
}

// optionalTime 零值時間不輸出
func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
