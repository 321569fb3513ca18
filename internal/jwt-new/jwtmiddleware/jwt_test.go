package jwtmiddleware_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/linemk/maizy-store/internal/domain/models"
	security "github.com/linemk/maizy-store/internal/jwt-new"
	"github.com/linemk/maizy-store/internal/jwt-new/jwtmiddleware"
	"github.com/stretchr/testify/assert"
)

const testSecret = "testsecret"

// createTestToken создаёт JWT-токен с заданным userID и секретом, без роли.
func createTestToken(userID int64, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sub": fmt.Sprintf("%d", userID),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) (bool, string) {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body.Success, body.Message
}

func TestJWTMiddleware_MissingAuthorization(t *testing.T) {
	handler := jwtmiddleware.NewJWTMiddleware(testSecret)(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code, "Expected unauthorized status when no token provided")
	success, message := decodeError(t, rr)
	assert.False(t, success)
	assert.Equal(t, "missing token", message)
}

func TestJWTMiddleware_InvalidAuthorizationFormat(t *testing.T) {
	handler := jwtmiddleware.NewJWTMiddleware(testSecret)(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "InvalidFormat")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code, "Expected unauthorized status for invalid token format")
	success, message := decodeError(t, rr)
	assert.False(t, success)
	assert.Equal(t, "invalid token format", message)
}

func TestJWTMiddleware_InvalidToken(t *testing.T) {
	handler := jwtmiddleware.NewJWTMiddleware(testSecret)(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer invalid.token.value")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code, "Expected unauthorized status for invalid token")
	success, message := decodeError(t, rr)
	assert.False(t, success)
	assert.Equal(t, "invalid token", message)
}

func TestJWTMiddleware_WrongSecret(t *testing.T) {
	tokenStr, err := createTestToken(123, "another-secret")
	assert.NoError(t, err)

	handler := jwtmiddleware.NewJWTMiddleware(testSecret)(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	// Токен без роли: пользователь считается покупателем.
	tokenStr, err := createTestToken(123, testSecret)
	assert.NoError(t, err)

	handler := jwtmiddleware.NewJWTMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			http.Error(w, "userID not found", http.StatusInternalServerError)
			return
		}
		role, _ := jwtmiddleware.RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(strconv.FormatInt(userID, 10) + ":" + role))
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "Expected OK status for valid token")
	assert.Equal(t, "123:customer", rr.Body.String())
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	tokenStr, err := security.NewToken(&models.User{ID: 5}, testSecret, -time.Minute)
	assert.NoError(t, err)

	handler := jwtmiddleware.NewJWTMiddleware(testSecret)(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireRole_Admin(t *testing.T) {
	adminToken, err := security.NewToken(&models.User{ID: 1, Role: models.RoleAdmin}, testSecret, time.Hour)
	assert.NoError(t, err)
	customerToken, err := security.NewToken(&models.User{ID: 2}, testSecret, time.Hour)
	assert.NoError(t, err)

	handler := jwtmiddleware.NewJWTMiddleware(testSecret)(
		jwtmiddleware.RequireRole(models.RoleAdmin)(okHandler()),
	)

	req := httptest.NewRequest("GET", "/api/orders/admin/all", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code, "admin should pass")

	req = httptest.NewRequest("GET", "/api/orders/admin/all", nil)
	req.Header.Set("Authorization", "Bearer "+customerToken)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code, "customer should be rejected")
	success, message := decodeError(t, rr)
	assert.False(t, success)
	assert.Equal(t, "access denied", message)
}

func TestRequireRole_NoRoleInContext(t *testing.T) {
	handler := jwtmiddleware.RequireRole(models.RoleAdmin)(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestNewJWTMiddleware_EmptySecretPanics(t *testing.T) {
	assert.Panics(t, func() {
		jwtmiddleware.NewJWTMiddleware("")
	})
}

func TestFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), jwtmiddleware.UserIDKey, int64(456))
	userID, ok := jwtmiddleware.FromContext(ctx)
	assert.True(t, ok, "Expected to retrieve userID from context")
	assert.Equal(t, int64(456), userID, "Expected userID to match")
}
