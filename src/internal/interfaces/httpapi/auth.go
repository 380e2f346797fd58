package httpapi

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
)

// ===========================
// 身分驗證
// ===========================

const (
	// ContextKeyUserID gin context 中的使用者 ID
	ContextKeyUserID = "user_id"

	// HeaderAPIKey 內部端點（訂單系統回呼）使用的標頭
	HeaderAPIKey = "X-API-Key"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims JWT 內容（只需要 user_id）
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateToken 簽發 HS256 token（本地開發與測試用，正式環境由登入服務簽發）
func GenerateToken(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ValidateToken 驗證簽章與有效期限
func ValidateToken(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// JWTAuth 要求 Authorization: Bearer <token>，通過後把 user_id 放進 context
//
// secret 為空時拒絕所有請求。
func JWTAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(secret) == 0 {
			abortUnauthorized(c, "Authentication is not configured")
			return
		}

		parts := strings.Split(c.GetHeader("Authorization"), " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			abortUnauthorized(c, "No token provided")
			return
		}

		claims, err := ValidateToken(parts[1], secret)
		if errors.Is(err, ErrExpiredToken) {
			abortUnauthorized(c, "Token expired")
			return
		}
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		userID, err := shared.UserIDFromString(claims.UserID)
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Set(ContextKeyUserID, userID.String())
		c.Next()
	}
}

// InternalAPIKey 以固定金鑰保護內部端點（比較時間固定）
//
// expected 為空時拒絕所有請求。
func InternalAPIKey(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(HeaderAPIKey)
		if expected == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			abortUnauthorized(c, "Invalid API key")
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
		Code:    string(shared.ErrCodeUnauthorized),
		Message: message,
	})
}

// currentUserID JWTAuth 之後的路由才會有值
func currentUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}
