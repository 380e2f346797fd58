package voucher

import (
	"fmt"
	"io"
	"time"

	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/jackyeh168/cartquest/src/internal/domain/voucher"
	"github.com/sirupsen/logrus"
)

// RedeemVoucherCommand 使用折價券
type RedeemVoucherCommand struct {
	UserID string
	Code   string
}

// RedeemVoucherUseCase 使用折價券 Use Case
//
// 並發安全：
// - 領域層先檢查（擁有者、未使用、未過期）
// - 持久化使用條件更新（used = false AND expires_at > now），
//   兩個請求同時使用同一張券時只有一個成功，另一個得到 ErrVoucherUsed
type RedeemVoucherUseCase struct {
	voucherRepo voucher.VoucherRepository
	txManager   shared.TransactionManager
	publisher   shared.EventPublisher
	log         *logrus.Entry
	now         func() time.Time
}

// NewRedeemVoucherUseCase 創建 Use Case 實例
func NewRedeemVoucherUseCase(
	repo voucher.VoucherRepository,
	txManager shared.TransactionManager,
	publisher shared.EventPublisher,
	log *logrus.Entry,
) *RedeemVoucherUseCase {
	return &RedeemVoucherUseCase{
		voucherRepo: repo,
		txManager:   txManager,
		publisher:   publisher,
		log:         loggerOrDiscard(log),
		now:         time.Now,
	}
}

// Execute 執行使用
func (uc *RedeemVoucherUseCase) Execute(cmd RedeemVoucherCommand) (*VoucherView, error) {
	userID, err := shared.UserIDFromString(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}
	code, err := voucher.NormalizeCode(cmd.Code)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	var redeemed *voucher.DiscountVoucher
	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		v, err := uc.voucherRepo.FindByCode(ctx, code)
		if err != nil {
			return fmt.Errorf("failed to find voucher: %w", err)
		}
		if err := v.MarkUsed(userID, now); err != nil {
			return err
		}
		if err := uc.voucherRepo.MarkUsed(ctx, v, now); err != nil {
			return fmt.Errorf("failed to mark voucher used: %w", err)
		}
		redeemed = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishBatch(redeemed.PullEvents()); err != nil {
			uc.log.WithError(err).Warn("failed to publish voucher events")
		}
	}

	view := toVoucherView(redeemed, now)
	return &view, nil
}

// loggerOrDiscard nil 時返回丟棄輸出的 logger
func loggerOrDiscard(log *logrus.Entry) *logrus.Entry {
	if log != nil {
		return log
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return logrus.NewEntry(discard)
}
