package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidation(t *testing.T) {
	h, _ := setupServer(t)

	rec := doRequest(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "short@test.com", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, _ := setupServer(t)
	registerAndLogin(t, h, "dup@test.com")

	rec := doRequest(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "dup@test.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h, _ := setupServer(t)
	registerAndLogin(t, h, "login@test.com")

	rec := doRequest(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "login@test.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@test.com", "password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeReturnsCurrentUser(t *testing.T) {
	h, _ := setupServer(t)
	token := registerAndLogin(t, h, "me@test.com")

	rec := doRequest(t, h, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var user struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	decodeBody(t, rec, &user)
	assert.Equal(t, "me@test.com", user.Email)
	assert.Equal(t, "Test Trader", user.Name)
}

func TestAuthMiddlewareRejections(t *testing.T) {
	h, _ := setupServer(t)

	// no token
	rec := doRequest(t, h, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// garbage token
	rec = doRequest(t, h, http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// expired token, correctly signed
	claims := jwt.MapClaims{
		"sub": 1,
		"exp": time.Now().Add(-time.Hour).Unix(),
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	rec = doRequest(t, h, http.MethodGet, "/api/auth/me", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// valid shape, wrong key
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 1,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("wrong-secret"))
	require.NoError(t, err)
	rec = doRequest(t, h, http.MethodGet, "/api/auth/me", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
