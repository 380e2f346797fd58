package referral

import "github.com/jackyeh168/cartquest/src/internal/domain/shared"

// ===========================
// 錯誤代碼定義
// ===========================

const (
	ErrCodeCodeRequired            shared.ErrorCode = "REFERRAL_CODE_REQUIRED"
	ErrCodeInvalidOrUsedCode       shared.ErrorCode = "REFERRAL_INVALID_OR_USED_CODE"
	ErrCodeOwnCodeForbidden        shared.ErrorCode = "REFERRAL_OWN_CODE_FORBIDDEN"
	ErrCodeAlreadyReferred         shared.ErrorCode = "REFERRAL_ALREADY_REFERRED"
	ErrCodeReferralNotFound        shared.ErrorCode = "REFERRAL_NOT_FOUND"
	ErrCodeNotPending              shared.ErrorCode = "REFERRAL_NOT_PENDING"
	ErrCodeCodeTaken               shared.ErrorCode = "REFERRAL_CODE_TAKEN"
	ErrCodeCodeGenerationExhausted shared.ErrorCode = "REFERRAL_CODE_GENERATION_EXHAUSTED"
	ErrCodeInvalidReferralID       shared.ErrorCode = "REFERRAL_INVALID_ID"
	ErrCodeInvalidStatus           shared.ErrorCode = "REFERRAL_INVALID_STATUS"
)

// ===========================
// 預定義錯誤
// ===========================

var (
	ErrMissingCode = shared.NewDomainError(
		ErrCodeCodeRequired, "Referral code is required",
	)

	ErrInvalidOrUsedCode = shared.NewDomainError(
		ErrCodeInvalidOrUsedCode, "Invalid or already used referral code",
	)

	ErrOwnCodeForbidden = shared.NewDomainError(
		ErrCodeOwnCodeForbidden, "You cannot use your own referral code",
	)

	ErrAlreadyReferred = shared.NewDomainError(
		ErrCodeAlreadyReferred, "You have already used a referral code",
	)

	ErrReferralNotFound = shared.NewDomainError(
		ErrCodeReferralNotFound, "Referral not found",
	)

	ErrNotPending = shared.NewDomainError(
		ErrCodeNotPending, "Only a pending referral code can be expired",
	)
)

var (
	// ErrDuplicateCode 唯一索引衝突：推薦碼重複，或推薦人已有未作廢記錄（產生器重試用）
	ErrDuplicateCode = shared.NewDomainError(
		ErrCodeCodeTaken, "referral code already exists",
	)

	ErrGenerationExhausted = shared.NewDomainError(
		ErrCodeCodeGenerationExhausted, "could not generate a unique referral code",
	)

	ErrInvalidReferralID = shared.NewDomainError(
		ErrCodeInvalidReferralID, "invalid referral id",
	)

	ErrInvalidStatus = shared.NewDomainError(
		ErrCodeInvalidStatus, "invalid referral status",
	)
)
