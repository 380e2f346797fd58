package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	referralapp "github.com/jackyeh168/cartquest/src/internal/application/referral"
)

// ===========================
// 推薦端點
// ===========================

type referralCodeRequest struct {
	ReferralCode string `json:"referralCode"`
}

type myCodeResponse struct {
	ReferralCode  string `json:"referralCode"`
	ReferralBonus int    `json:"referralBonus"`
	NewUserBonus  int    `json:"newUserBonus"`
}

type applyReferralResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	CoinsEarned int    `json:"coinsEarned"`
}

type expireReferralResponse struct {
	Success     bool   `json:"success"`
	ExpiredCode string `json:"expiredCode"`
}

type referralResponse struct {
	ID           string    `json:"id"`
	ReferralCode string    `json:"referralCode"`
	ReferredUser string    `json:"referredUser"`
	CoinsAwarded int       `json:"coinsAwarded"`
	CompletedAt  time.Time `json:"completedAt"`
}

type myReferralsResponse struct {
	Referrals        []referralResponse `json:"referrals"`
	TotalReferrals   int                `json:"totalReferrals"`
	TotalCoinsEarned int                `json:"totalCoinsEarned"`
}

type referralStatsResponse struct {
	CompletedReferrals int64 `json:"completedReferrals"`
	PendingReferrals   int64 `json:"pendingReferrals"`
	TotalCoinsEarned   int64 `json:"totalCoinsEarned"`
	CoinsPerReferral   int   `json:"coinsPerReferral"`
}

type validateReferralResponse struct {
	Valid   bool   `json:"valid"`
	Bonus   int    `json:"bonus"`
	Message string `json:"message"`
}

// GetMyReferralCode GET /api/referrals/my-code（沒有待使用代碼時產生一個）
func (h *Handler) GetMyReferralCode(c *gin.Context) {
	result, err := h.services.GenerateReferralCode.Execute(referralapp.GenerateReferralCodeCommand{
		UserID: currentUserID(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, myCodeResponse{
		ReferralCode:  result.ReferralCode,
		ReferralBonus: result.ReferralBonus,
		NewUserBonus:  result.NewUserBonus,
	})
}

// ApplyReferralCode POST /api/referrals/apply
func (h *Handler) ApplyReferralCode(c *gin.Context) {
	var req referralCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.services.ApplyReferralCode.Execute(referralapp.ApplyReferralCodeCommand{
		UserID: currentUserID(c),
		Code:   req.ReferralCode,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, applyReferralResponse{
		Success:     result.Success,
		Message:     result.Message,
		CoinsEarned: result.CoinsEarned,
	})
}

// ExpireReferralCode POST /api/referrals/expire
func (h *Handler) ExpireReferralCode(c *gin.Context) {
	result, err := h.services.ExpireReferralCode.Execute(referralapp.ExpireReferralCodeCommand{
		UserID: currentUserID(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, expireReferralResponse{Success: true, ExpiredCode: result.ExpiredCode})
}

// ListMyReferrals GET /api/referrals/my-referrals
func (h *Handler) ListMyReferrals(c *gin.Context) {
	result, err := h.services.ListMyReferrals.Execute(referralapp.ListMyReferralsQuery{
		UserID: currentUserID(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	items := make([]referralResponse, 0, len(result.Referrals))
	for _, r := range result.Referrals {
		items = append(items, referralResponse{
			ID:           r.ID,
			ReferralCode: r.Code,
			ReferredUser: r.ReferredUserID,
			CoinsAwarded: r.CoinsAwarded,
			CompletedAt:  r.CompletedAt,
		})
	}

	c.JSON(http.StatusOK, myReferralsResponse{
		Referrals:        items,
		TotalReferrals:   result.TotalReferrals,
		TotalCoinsEarned: result.TotalCoinsEarned,
	})
}

// GetReferralStats GET /api/referrals/stats
func (h *Handler) GetReferralStats(c *gin.Context) {
	result, err := h.services.GetReferralStats.Execute(referralapp.GetReferralStatsQuery{
		UserID: currentUserID(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, referralStatsResponse{
		CompletedReferrals: result.CompletedReferrals,
		PendingReferrals:   result.PendingReferrals,
		TotalCoinsEarned:   result.TotalCoinsEarned,
		CoinsPerReferral:   result.CoinsPerReferral,
	})
}

// ValidateReferralCode POST /api/referrals/validate（公開，註冊前檢查）
func (h *Handler) ValidateReferralCode(c *gin.Context) {
	var req referralCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.services.ValidateReferralCode.Execute(referralapp.ValidateReferralCodeCommand{
		Code: req.ReferralCode,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, validateReferralResponse{
		Valid:   result.Valid,
		Bonus:   result.Bonus,
		Message: result.Message,
	})
}
