package voucher

import (
	"fmt"
	"time"

	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/jackyeh168/cartquest/src/internal/domain/voucher"
	"github.com/shopspring/decimal"
)

// ===========================
// Issuer 折價券發放
// ===========================

// DefaultMaxCodeAttempts 代碼碰撞時的最大嘗試次數
const DefaultMaxCodeAttempts = 10

// IssueRequest 發放請求
type IssueRequest struct {
	UserID shared.UserID
	Kind   voucher.Kind
	Value  decimal.Decimal
	Source voucher.Source
}

// Issuer 產生唯一代碼並儲存折價券
//
// 只在呼叫者的事務中運作（IssueWithContext），
// 讓發放與觸發它的操作（金幣扣帳、轉盤）一起提交或回滾。
type Issuer struct {
	voucherRepo voucher.VoucherRepository
	generator   *voucher.CodeGenerator
	ttl         time.Duration
	maxAttempts int
}

// NewIssuer 建構函數（maxAttempts < 1 時使用預設值）
func NewIssuer(
	repo voucher.VoucherRepository,
	generator *voucher.CodeGenerator,
	ttl time.Duration,
	maxAttempts int,
) *Issuer {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxCodeAttempts
	}
	return &Issuer{
		voucherRepo: repo,
		generator:   generator,
		ttl:         ttl,
		maxAttempts: maxAttempts,
	}
}

// IssueWithContext 在既有事務中發放
//
// 錯誤處理：
// - ErrGenerationExhausted: 連續 maxAttempts 次都碰撞
// - ErrInvalidValue / ErrInvalidKind: 請求無效
//
// 返回的折價券仍帶有 voucher.issued 事件，由呼叫者在提交後發布。
func (i *Issuer) IssueWithContext(
	ctx shared.TransactionContext,
	req IssueRequest,
	now time.Time,
) (*voucher.DiscountVoucher, error) {
	for attempt := 1; attempt <= i.maxAttempts; attempt++ {
		code := i.generator.Generate()

		taken, err := i.voucherRepo.ExistsByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to check voucher code: %w", err)
		}
		if taken {
			continue
		}

		v, err := voucher.Issue(voucher.IssueParams{
			UserID: req.UserID,
			Code:   code,
			Kind:   req.Kind,
			Value:  req.Value,
			Source: req.Source,
			TTL:    i.ttl,
		}, now)
		if err != nil {
			return nil, err
		}

		if err := i.voucherRepo.Save(ctx, v); err != nil {
			return nil, fmt.Errorf("failed to save voucher: %w", err)
		}
		return v, nil
	}

	return nil, voucher.ErrGenerationExhausted.WithContext("attempts", i.maxAttempts)
}
