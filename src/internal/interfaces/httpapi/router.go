package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ===========================
// 路由
// ===========================

// RouterOptions 建立路由所需的設定與依賴
type RouterOptions struct {
	JWTSecret      string
	InternalAPIKey string

	Services Services
	Health   HealthCheck
	Log      *logrus.Entry

	// Observer / MetricsHandler 為 nil 時不掛指標
	Observer       HTTPObserver
	MetricsHandler http.Handler
}

// NewRouter 註冊所有端點
//
// 中介層順序：RequestID → Logging → Recovery → CORS → Metrics。
func NewRouter(opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), Logging(opts.Log), Recovery(opts.Log), CORS())
	if opts.Observer != nil {
		router.Use(Metrics(opts.Observer))
	}

	h := NewHandler(opts.Services, opts.Health, opts.Log)
	auth := JWTAuth([]byte(opts.JWTSecret))

	router.GET("/health", h.Health)
	if opts.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(opts.MetricsHandler))
	}

	api := router.Group("/api")

	coinsGroup := api.Group("/coins", auth)
	{
		coinsGroup.GET("/balance", h.GetBalance)
		coinsGroup.GET("/transactions", h.ListTransactions)
		coinsGroup.POST("/calculate-discount", h.CalculateDiscount)
		coinsGroup.POST("/spend", h.SpendCoins)
		coinsGroup.GET("/stats", h.GetCoinStats)
	}

	referrals := api.Group("/referrals")
	{
		referrals.POST("/validate", h.ValidateReferralCode)
		referrals.GET("/my-code", auth, h.GetMyReferralCode)
		referrals.POST("/apply", auth, h.ApplyReferralCode)
		referrals.POST("/expire", auth, h.ExpireReferralCode)
		referrals.GET("/my-referrals", auth, h.ListMyReferrals)
		referrals.GET("/stats", auth, h.GetReferralStats)
	}

	vouchers := api.Group("/vouchers", auth)
	{
		vouchers.GET("", h.ListVouchers)
		vouchers.POST("/validate", h.ValidateVoucher)
		vouchers.POST("/redeem", h.RedeemVoucher)
	}

	wheel := api.Group("/wheel")
	{
		wheel.GET("", h.ListWheelSectors)
		wheel.POST("/spin", auth, h.SpinWheel)
	}

	game := api.Group("/game/guess-price")
	{
		game.GET("/product", h.GuessPriceProduct)
		game.POST("/submit", auth, h.SubmitGuess)
		game.GET("/leaderboard", h.GuessPriceLeaderboard)
	}

	internal := api.Group("/internal", InternalAPIKey(opts.InternalAPIKey))
	{
		internal.POST("/coins/purchase-reward", h.PurchaseReward)
	}

	return router
}
