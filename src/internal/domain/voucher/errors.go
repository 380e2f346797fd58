package voucher

import "github.com/jackyeh168/cartquest/src/internal/domain/shared"

const (
	ErrCodeVoucherNotFound      shared.ErrorCode = "VOUCHER_NOT_FOUND"
	ErrCodeVoucherUsed          shared.ErrorCode = "VOUCHER_ALREADY_USED"
	ErrCodeVoucherExpired       shared.ErrorCode = "VOUCHER_EXPIRED"
	ErrCodeMissingVoucherCode   shared.ErrorCode = "VOUCHER_CODE_REQUIRED"
	ErrCodeInvalidVoucherValue  shared.ErrorCode = "VOUCHER_INVALID_VALUE"
	ErrCodeInvalidVoucherKind   shared.ErrorCode = "VOUCHER_INVALID_KIND"
	ErrCodeInvalidVoucherSource shared.ErrorCode = "VOUCHER_INVALID_SOURCE"
	ErrCodeInvalidVoucherID     shared.ErrorCode = "VOUCHER_INVALID_ID"
	ErrCodeDuplicateVoucherCode shared.ErrorCode = "VOUCHER_CODE_TAKEN"
	ErrCodeGenerationExhausted  shared.ErrorCode = "VOUCHER_CODE_GENERATION_EXHAUSTED"
)

var (
	// ErrVoucherNotFound 不存在或不屬於呼叫者（兩者對外不區分）
	ErrVoucherNotFound = shared.NewDomainError(
		ErrCodeVoucherNotFound, "Voucher not found",
	)

	ErrVoucherUsed = shared.NewDomainError(
		ErrCodeVoucherUsed, "Voucher has already been used",
	)

	ErrVoucherExpired = shared.NewDomainError(
		ErrCodeVoucherExpired, "Voucher has expired",
	)

	ErrMissingCode = shared.NewDomainError(
		ErrCodeMissingVoucherCode, "Voucher code is required",
	)
)

var (
	ErrInvalidValue = shared.NewDomainError(
		ErrCodeInvalidVoucherValue, "invalid voucher value",
	)

	ErrInvalidKind = shared.NewDomainError(
		ErrCodeInvalidVoucherKind, "invalid voucher kind",
	)

	ErrInvalidSource = shared.NewDomainError(
		ErrCodeInvalidVoucherSource, "invalid voucher source",
	)

	ErrInvalidVoucherID = shared.NewDomainError(
		ErrCodeInvalidVoucherID, "invalid voucher id",
	)

	ErrDuplicateCode = shared.NewDomainError(
		ErrCodeDuplicateVoucherCode, "voucher code already exists",
	)

	ErrGenerationExhausted = shared.NewDomainError(
		ErrCodeGenerationExhausted, "could not generate a unique voucher code",
	)
)
