package promotion

import (
	"fmt"
	"io"
	"time"

	voucherapp "github.com/jackyeh168/cartquest/src/internal/application/voucher"
	"github.com/jackyeh168/cartquest/src/internal/domain/promotion"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/jackyeh168/cartquest/src/internal/domain/voucher"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ===========================
// SpinWheel Use Case
// ===========================

// VoucherIssuer 在既有事務中發放折價券
type VoucherIssuer interface {
	IssueWithContext(ctx shared.TransactionContext, req voucherapp.IssueRequest, now time.Time) (*voucher.DiscountVoucher, error)
}

// SpinWheelCommand 轉一次轉盤
type SpinWheelCommand struct {
	UserID string
}

// SpinWheelResult 轉盤結果（折扣時附上折價券）
type SpinWheelResult struct {
	Outcome          promotion.Sector
	VoucherCode      string
	VoucherExpiresAt time.Time
}

// SpinWheelUseCase 轉盤 Use Case
type SpinWheelUseCase struct {
	wheel     *promotion.Wheel
	issuer    VoucherIssuer
	txManager shared.TransactionManager
	publisher shared.EventPublisher
	log       *logrus.Entry
	now       func() time.Time
}

// NewSpinWheelUseCase 創建 Use Case 實例
func NewSpinWheelUseCase(
	wheel *promotion.Wheel,
	issuer VoucherIssuer,
	txManager shared.TransactionManager,
	publisher shared.EventPublisher,
	log *logrus.Entry,
) *SpinWheelUseCase {
	return &SpinWheelUseCase{
		wheel:     wheel,
		issuer:    issuer,
		txManager: txManager,
		publisher: publisher,
		log:       loggerOrDiscard(log),
		now:       time.Now,
	}
}

// Sectors 轉盤扇區（前端繪製用）
func (uc *SpinWheelUseCase) Sectors() []promotion.Sector {
	return uc.wheel.Sectors()
}

// Execute 轉盤並在抽中折扣時發放百分比折價券
func (uc *SpinWheelUseCase) Execute(cmd SpinWheelCommand) (*SpinWheelResult, error) {
	userID, err := shared.UserIDFromString(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user ID: %w", err)
	}

	sector := uc.wheel.Spin()
	result := &SpinWheelResult{Outcome: sector}
	if !sector.IsDiscount() {
		return result, nil
	}

	var issued *voucher.DiscountVoucher
	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		v, err := uc.issuer.IssueWithContext(ctx, voucherapp.IssueRequest{
			UserID: userID,
			Kind:   voucher.KindPercent,
			Value:  decimal.NewFromInt(int64(sector.Value)),
			Source: voucher.SourceWheel,
		}, uc.now())
		if err != nil {
			return fmt.Errorf("failed to issue wheel voucher: %w", err)
		}
		issued = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishBatch(issued.PullEvents()); err != nil {
			uc.log.WithError(err).Warn("failed to publish voucher events")
		}
	}
	result.VoucherCode = issued.Code()
	result.VoucherExpiresAt = issued.ExpiresAt()
	return result, nil
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
