package voucher

import (
	"time"

	"github.com/jackyeh168/cartquest/src/internal/domain/voucher"
	"github.com/shopspring/decimal"
)

// 折價券對外狀態
const (
	StatusActive  = "active"
	StatusUsed    = "used"
	StatusExpired = "expired"
)

// VoucherView 折價券
type VoucherView struct {
	Code      string
	Kind      string
	Value     decimal.Decimal
	Source    string
	Status    string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

func toVoucherView(v *voucher.DiscountVoucher, now time.Time) VoucherView {
	status := StatusActive
	switch {
	case v.IsUsed():
		status = StatusUsed
	case v.IsExpired(now):
		status = StatusExpired
	}
	return VoucherView{
		Code:      v.Code(),
		Kind:      string(v.Kind()),
		Value:     v.Value(),
		Source:    string(v.Source()),
		Status:    status,
		ExpiresAt: v.ExpiresAt(),
		UsedAt:    v.UsedAt(),
		CreatedAt: v.CreatedAt(),
	}
}
