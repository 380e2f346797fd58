package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackyeh168/cartquest/src/internal/domain/coins"
	"github.com/jackyeh168/cartquest/src/internal/domain/promotion"
	"github.com/jackyeh168/cartquest/src/internal/domain/referral"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/jackyeh168/cartquest/src/internal/domain/voucher"
	"github.com/sirupsen/logrus"
)

// ===========================
// 錯誤 → HTTP 狀態碼
// ===========================

// ErrCodeInternal 非領域錯誤對外的代碼
const ErrCodeInternal shared.ErrorCode = "INTERNAL_ERROR"

// serverErrorMessage 內部錯誤對外只回傳通用訊息
const serverErrorMessage = "Server error"

// ErrorResponse 失敗回應
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// conflictCodes 並發或唯一鍵衝突（409）
var conflictCodes = map[shared.ErrorCode]bool{
	coins.ErrCodeConcurrentAppend:       true,
	referral.ErrCodeCodeTaken:           true,
	voucher.ErrCodeDuplicateVoucherCode: true,
}

// internalCodes 代表資料損壞或組態錯誤，不是呼叫者造成的（500）
var internalCodes = map[shared.ErrorCode]bool{
	shared.ErrCodeRepositoryError:           true,
	coins.ErrCodeCorruptedEntry:             true,
	coins.ErrCodeInvalidEntryID:             true,
	coins.ErrCodeLedgerOwnershipMismatch:    true,
	coins.ErrCodeInvalidRewardConfig:        true,
	coins.ErrCodeInvalidEntryKind:           true,
	coins.ErrCodeMissingDescription:         true,
	referral.ErrCodeInvalidReferralID:       true,
	referral.ErrCodeInvalidStatus:           true,
	referral.ErrCodeCodeGenerationExhausted: true,
	voucher.ErrCodeInvalidVoucherID:         true,
	voucher.ErrCodeInvalidVoucherKind:       true,
	voucher.ErrCodeInvalidVoucherSource:     true,
	voucher.ErrCodeGenerationExhausted:      true,
	promotion.ErrCodeInvalidWheel:           true,
	promotion.ErrCodeInvalidGuessSetting:    true,
}

// StatusForCode 錯誤代碼對應的 HTTP 狀態碼
func StatusForCode(code shared.ErrorCode) int {
	switch {
	case code == shared.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case internalCodes[code]:
		return http.StatusInternalServerError
	case conflictCodes[code]:
		return http.StatusConflict
	case code == promotion.ErrCodeNoProducts, strings.HasSuffix(string(code), "_NOT_FOUND"):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// respondError 寫出失敗回應
//
// 5xx 只回傳通用訊息，完整錯誤（含 Context）寫入日誌。
func respondError(c *gin.Context, log *logrus.Entry, err error) {
	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		log.WithFields(requestFields(c)).WithError(err).Error("Unhandled request error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Code:    string(ErrCodeInternal),
			Message: serverErrorMessage,
		})
		return
	}

	status := StatusForCode(domainErr.Code)
	if status >= http.StatusInternalServerError {
		log.WithFields(requestFields(c)).WithError(err).Error("Request failed")
		c.AbortWithStatusJSON(status, ErrorResponse{
			Code:    string(domainErr.Code),
			Message: serverErrorMessage,
		})
		return
	}

	log.WithFields(requestFields(c)).WithField("code", domainErr.Code).Debug("Request rejected")
	c.AbortWithStatusJSON(status, ErrorResponse{
		Code:    string(domainErr.Code),
		Message: domainErr.Message,
	})
}

// respondBadRequest 請求格式錯誤（JSON 無法解析、查詢參數不是數字）
func respondBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Code:    string(shared.ErrCodeInvalidRequest),
		Message: message,
	})
}

func requestFields(c *gin.Context) logrus.Fields {
	return logrus.Fields{
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"request_id": c.GetString(ContextKeyRequestID),
		"user_id":    c.GetString(ContextKeyUserID),
	}
}
