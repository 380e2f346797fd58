package promotion

import "github.com/jackyeh168/cartquest/src/internal/domain/shared"

const (
	ErrCodeProductNotFound     shared.ErrorCode = "PROMOTION_PRODUCT_NOT_FOUND"
	ErrCodeNoProducts          shared.ErrorCode = "PROMOTION_NO_PRODUCTS_AVAILABLE"
	ErrCodeInvalidGuess        shared.ErrorCode = "PROMOTION_INVALID_GUESS"
	ErrCodeInvalidWheel        shared.ErrorCode = "PROMOTION_INVALID_WHEEL"
	ErrCodeInvalidGuessSetting shared.ErrorCode = "PROMOTION_INVALID_GUESS_SETTINGS"
)

var (
	ErrProductNotFound = shared.NewDomainError(
		ErrCodeProductNotFound, "Product not found",
	)

	// ErrNoProducts 目錄中沒有可用商品（對外視為 404）
	ErrNoProducts = shared.NewDomainError(
		ErrCodeNoProducts, "No products available",
	)

	ErrInvalidGuess = shared.NewDomainError(
		ErrCodeInvalidGuess, "Guess must be a non-negative price",
	)
)

var (
	ErrInvalidWheel = shared.NewDomainError(
		ErrCodeInvalidWheel, "wheel must have at least one sector",
	)

	ErrInvalidGuessSettings = shared.NewDomainError(
		ErrCodeInvalidGuessSetting, "invalid guess-the-price settings",
	)
)
