package voucher

import "github.com/jackyeh168/cartquest/src/internal/domain/shared"

// VoucherMarker 是 VoucherID 的標記類型
type VoucherMarker struct{}

// VoucherID 折價券唯一標識符
type VoucherID = shared.EntityID[VoucherMarker]

// NewVoucherID 生成新的折價券 ID
func NewVoucherID() VoucherID {
	return shared.NewEntityID[VoucherMarker]()
}

// VoucherIDFromString 從字串解析折價券 ID
func VoucherIDFromString(s string) (VoucherID, error) {
	return shared.EntityIDFromString[VoucherMarker](s, ErrInvalidVoucherID)
}
