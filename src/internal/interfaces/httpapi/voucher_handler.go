package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	voucherapp "github.com/jackyeh168/cartquest/src/internal/application/voucher"
)

// ===========================
// 折價券端點
// ===========================

type voucherCodeRequest struct {
	Code string `json:"code"`
}

type voucherResponse struct {
	Code      string     `json:"code"`
	Kind      string     `json:"kind"`
	Value     float64    `json:"value"`
	Source    string     `json:"source"`
	Status    string     `json:"status"`
	ExpiresAt time.Time  `json:"expiresAt"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type vouchersResponse struct {
	Vouchers []voucherResponse `json:"vouchers"`
}

type validateVoucherResponse struct {
	Valid   bool            `json:"valid"`
	Voucher voucherResponse `json:"voucher"`
}

type redeemVoucherResponse struct {
	Success bool            `json:"success"`
	Voucher voucherResponse `json:"voucher"`
}

func toVoucherResponse(v voucherapp.VoucherView) voucherResponse {
	return voucherResponse{
		Code:      v.Code,
		Kind:      v.Kind,
		Value:     v.Value.InexactFloat64(),
		Source:    v.Source,
		Status:    v.Status,
		ExpiresAt: v.ExpiresAt,
		UsedAt:    v.UsedAt,
		CreatedAt: v.CreatedAt,
	}
}

// ListVouchers GET /api/vouchers
func (h *Handler) ListVouchers(c *gin.Context) {
	views, err := h.services.ListVouchers.Execute(voucherapp.ListVouchersQuery{UserID: currentUserID(c)})
	if err != nil {
		h.fail(c, err)
		return
	}

	items := make([]voucherResponse, 0, len(views))
	for _, v := range views {
		items = append(items, toVoucherResponse(v))
	}
	c.JSON(http.StatusOK, vouchersResponse{Vouchers: items})
}

// ValidateVoucher POST /api/vouchers/validate（只檢查，不標記使用）
func (h *Handler) ValidateVoucher(c *gin.Context) {
	var req voucherCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.services.ValidateVoucher.Execute(voucherapp.ValidateVoucherCommand{
		UserID: currentUserID(c),
		Code:   req.Code,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, validateVoucherResponse{Valid: true, Voucher: toVoucherResponse(*view)})
}

// RedeemVoucher POST /api/vouchers/redeem
func (h *Handler) RedeemVoucher(c *gin.Context) {
	var req voucherCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.services.RedeemVoucher.Execute(voucherapp.RedeemVoucherCommand{
		UserID: currentUserID(c),
		Code:   req.Code,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, redeemVoucherResponse{Success: true, Voucher: toVoucherResponse(*view)})
}
