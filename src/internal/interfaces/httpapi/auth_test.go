package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestValidateToken_RoundTrip(t *testing.T) {
	userID := uuid.NewString()
	token, err := GenerateToken(userID, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)

	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestValidateToken_Rejections(t *testing.T) {
	userID := uuid.NewString()

	expired, err := GenerateToken(userID, testSecret, -time.Minute)
	require.NoError(t, err)

	otherSecret, err := GenerateToken(userID, []byte("other-secret"), time.Hour)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: userID}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"expired", expired, ErrExpiredToken},
		{"wrong secret", otherSecret, ErrInvalidToken},
		{"unsigned", unsigned, ErrInvalidToken},
		{"garbage", "not-a-token", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, testSecret)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, claims)
		})
	}
}

func newAuthRouter(middleware gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", middleware, func(c *gin.Context) {
		c.String(http.StatusOK, currentUserID(c))
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	userID := uuid.NewString()
	valid, err := GenerateToken(userID, testSecret, time.Hour)
	require.NoError(t, err)
	notUUID, err := GenerateToken("user-1", testSecret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid bearer token", "Bearer " + valid, http.StatusOK, userID},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, ""},
		{"user id is not a uuid", "Bearer " + notUUID, http.StatusUnauthorized, ""},
	}

	r := newAuthRouter(JWTAuth(testSecret))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantBody, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"code":"UNAUTHORIZED"`)
			}
		})
	}
}

func TestJWTAuth_EmptySecretRejectsEverything(t *testing.T) {
	token, err := GenerateToken(uuid.NewString(), testSecret, time.Hour)
	require.NoError(t, err)

	r := newAuthRouter(JWTAuth(nil))
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInternalAPIKey(t *testing.T) {
	tests := []struct {
		name       string
		expected   string
		provided   string
		wantStatus int
	}{
		{"matching key", "secret-key", "secret-key", http.StatusOK},
		{"wrong key", "secret-key", "guess", http.StatusUnauthorized},
		{"missing key", "secret-key", "", http.StatusUnauthorized},
		{"unconfigured key rejects all", "", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthRouter(InternalAPIKey(tt.expected))
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.provided != "" {
				req.Header.Set(HeaderAPIKey, tt.provided)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
