package voucher

import (
	"fmt"
	"time"

	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/jackyeh168/cartquest/src/internal/domain/voucher"
)

// ValidateVoucherCommand 檢查折價券是否可用
type ValidateVoucherCommand struct {
	UserID string
	Code   string
}

// ValidateVoucherUseCase 折價券檢查 Use Case
//
// 只讀取不修改，結帳時仍須呼叫 RedeemVoucher 以條件更新真正使用。
type ValidateVoucherUseCase struct {
	voucherRepo voucher.VoucherRepository
	now         func() time.Time
}

// NewValidateVoucherUseCase 創建 Use Case 實例
func NewValidateVoucherUseCase(repo voucher.VoucherRepository) *ValidateVoucherUseCase {
	return &ValidateVoucherUseCase{voucherRepo: repo, now: time.Now}
}

// Execute 執行檢查
//
// 錯誤處理：
// - ErrMissingCode: 代碼為空
// - ErrVoucherNotFound: 不存在或不屬於呼叫者
// - ErrVoucherUsed / ErrVoucherExpired
func (uc *ValidateVoucherUseCase) Execute(cmd ValidateVoucherCommand) (*VoucherView, error) {
	userID, err := shared.UserIDFromString(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}
	code, err := voucher.NormalizeCode(cmd.Code)
	if err != nil {
		return nil, err
	}

	v, err := uc.voucherRepo.FindByCode(nil, code)
	if err != nil {
		return nil, fmt.Errorf("failed to find voucher: %w", err)
	}

	now := uc.now()
	if err := v.CheckUsable(userID, now); err != nil {
		return nil, err
	}

	view := toVoucherView(v, now)
	return &view, nil
}
