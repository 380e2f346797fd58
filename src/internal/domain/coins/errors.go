package coins

import "github.com/jackyeh168/cartquest/src/internal/domain/shared"

// ===========================
// 錯誤代碼定義
// ===========================

const (
	// 金額相關
	ErrCodeInvalidAmount        shared.ErrorCode = "COINS_INVALID_AMOUNT"
	ErrCodeInsufficientBalance  shared.ErrorCode = "COINS_INSUFFICIENT_BALANCE"
	ErrCodeBelowRedemptionFloor shared.ErrorCode = "COINS_BELOW_REDEMPTION_FLOOR"
	ErrCodeInvalidOrderTotal    shared.ErrorCode = "COINS_INVALID_ORDER_TOTAL"
	ErrCodeBalanceOverflow      shared.ErrorCode = "COINS_BALANCE_OVERFLOW"
	ErrCodeInvalidRewardConfig  shared.ErrorCode = "COINS_INVALID_REWARD_CONFIG"
	ErrCodeInvalidEntryKind     shared.ErrorCode = "COINS_INVALID_ENTRY_KIND"
	ErrCodeMissingDescription   shared.ErrorCode = "COINS_MISSING_DESCRIPTION"
	ErrCodeMissingOrderID       shared.ErrorCode = "COINS_MISSING_ORDER_ID"
	ErrCodeInvalidEntryID       shared.ErrorCode = "COINS_INVALID_ENTRY_ID"
	ErrCodeCorruptedEntry       shared.ErrorCode = "COINS_CORRUPTED_ENTRY"
	ErrCodeConcurrentAppend     shared.ErrorCode = "COINS_CONCURRENT_APPEND"
	ErrCodeInvalidPage          shared.ErrorCode = "COINS_INVALID_PAGE"

	// 帳本重建
	ErrCodeLedgerOwnershipMismatch shared.ErrorCode = "COINS_LEDGER_OWNERSHIP_MISMATCH"
)

// ===========================
// 預定義錯誤
// ===========================

// 使用者可見的拒絕（HTTP 400）
var (
	ErrInvalidAmount = shared.NewDomainError(
		ErrCodeInvalidAmount, "Invalid coin amount",
	)

	ErrInsufficientBalance = shared.NewDomainError(
		ErrCodeInsufficientBalance, "Insufficient coin balance",
	)

	// ErrBelowRedemptionFloor 訊息會在 Use Case 中帶入實際門檻（WithMessage）
	ErrBelowRedemptionFloor = shared.NewDomainError(
		ErrCodeBelowRedemptionFloor, "Requested coins are below the redemption minimum",
	)

	ErrInvalidOrderTotal = shared.NewDomainError(
		ErrCodeInvalidOrderTotal, "Order total must be a non-negative amount",
	)

	ErrMissingOrderID = shared.NewDomainError(
		ErrCodeMissingOrderID, "Order id is required",
	)

	ErrInvalidPage = shared.NewDomainError(
		ErrCodeInvalidPage, "Invalid page or page size",
	)
)

// 資料或程式錯誤（HTTP 500）
var (
	ErrBalanceOverflow = shared.NewDomainError(
		ErrCodeBalanceOverflow, "coin balance overflow",
	)

	ErrInvalidRewardConfig = shared.NewDomainError(
		ErrCodeInvalidRewardConfig, "invalid reward configuration",
	)

	ErrInvalidEntryKind = shared.NewDomainError(
		ErrCodeInvalidEntryKind, "invalid ledger entry kind",
	)

	ErrMissingDescription = shared.NewDomainError(
		ErrCodeMissingDescription, "ledger entry description is required",
	)

	ErrInvalidEntryID = shared.NewDomainError(
		ErrCodeInvalidEntryID, "invalid ledger entry id",
	)

	ErrCorruptedEntry = shared.NewDomainError(
		ErrCodeCorruptedEntry, "corrupted ledger entry",
	)

	// ErrConcurrentAppend 另一個寫入者搶先追加了同一序號（唯一索引衝突）
	ErrConcurrentAppend = shared.NewDomainError(
		ErrCodeConcurrentAppend, "concurrent ledger append detected",
	)

	ErrLedgerOwnershipMismatch = shared.NewDomainError(
		ErrCodeLedgerOwnershipMismatch, "ledger entry belongs to another user",
	)
)
