package voucher

import (
	"time"

	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
)

// VoucherRepository 折價券倉儲介面
type VoucherRepository interface {
	// Save 保存新折價券
	// 錯誤：ErrDuplicateCode
	Save(ctx shared.TransactionContext, voucher *DiscountVoucher) error

	// FindByCode 依代碼查找
	// 錯誤：ErrVoucherNotFound
	FindByCode(ctx shared.TransactionContext, code string) (*DiscountVoucher, error)

	// ExistsByCode 代碼是否已存在
	ExistsByCode(ctx shared.TransactionContext, code string) (bool, error)

	// MarkUsed 條件更新：僅在 used = false 且 expires_at > now 時標記
	// 錯誤：ErrVoucherUsed（條件不成立，例如並發下另一請求已使用）
	MarkUsed(ctx shared.TransactionContext, voucher *DiscountVoucher, now time.Time) error

	// FindByUser 使用者的所有折價券（依建立時間由新到舊）
	FindByUser(ctx shared.TransactionContext, userID shared.UserID) ([]*DiscountVoucher, error)
}
