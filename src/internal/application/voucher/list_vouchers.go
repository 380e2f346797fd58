package voucher

import (
	"fmt"
	"time"

	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/jackyeh168/cartquest/src/internal/domain/voucher"
)

// ListVouchersQuery 列出使用者的折價券
type ListVouchersQuery struct {
	UserID string
}

// ListVouchersUseCase 折價券列表 Use Case
type ListVouchersUseCase struct {
	voucherRepo voucher.VoucherRepository
	now         func() time.Time
}

// NewListVouchersUseCase 創建 Use Case 實例
func NewListVouchersUseCase(repo voucher.VoucherRepository) *ListVouchersUseCase {
	return &ListVouchersUseCase{voucherRepo: repo, now: time.Now}
}

// Execute 依建立時間新到舊
func (uc *ListVouchersUseCase) Execute(query ListVouchersQuery) ([]VoucherView, error) {
	userID, err := shared.UserIDFromString(query.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}

	vouchers, err := uc.voucherRepo.FindByUser(nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vouchers: %w", err)
	}

	now := uc.now()
	views := make([]VoucherView, 0, len(vouchers))
	for _, v := range vouchers {
		views = append(views, toVoucherView(v, now))
	}
	return views, nil
}
