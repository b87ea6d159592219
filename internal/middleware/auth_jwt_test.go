package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/middleware"
	"app/internal/token"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// =====================
// レスポンス確認用
// =====================

type mwErrorResponse struct {
	Message string `json:"message"`
}

type mwOKResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// =====================
// helper
// =====================

// AuthJWTの後ろでcontextの中身をそのまま返すhandler
func echoClaimsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, mwOKResponse{
		UserID: c.Get(middleware.CtxUserIDKey).(string),
		Email:  c.Get(middleware.CtxEmailKey).(string),
	})
}

func doRequest(t *testing.T, iss token.Issuer, authz string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := middleware.AuthJWT(iss)(echoClaimsHandler)
	return rec, h(c)
}

func TestAuthJWT_ValidToken(t *testing.T) {
	iss := token.NewJWTIssuer("test_secret")
	access, _, err := iss.IssueAccess("u-1", "alice@example.com", time.Now())
	assert.NoError(t, err)

	rec, err := doRequest(t, iss, "Bearer "+access)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body mwOKResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "u-1", body.UserID)
	assert.Equal(t, "alice@example.com", body.Email)
}

func TestAuthJWT_MissingHeader(t *testing.T) {
	iss := token.NewJWTIssuer("test_secret")

	rec, err := doRequest(t, iss, "")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body mwErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "missing or invalid authorization header", body.Message)
}

func TestAuthJWT_NotBearer(t *testing.T) {
	iss := token.NewJWTIssuer("test_secret")

	rec, err := doRequest(t, iss, "Basic dXNlcjpwYXNz")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthJWT_InvalidToken(t *testing.T) {
	iss := token.NewJWTIssuer("test_secret")

	//別シークレットで署名されたtoken
	other := token.NewJWTIssuer("another_secret")
	forged, _, err := other.IssueAccess("u-1", "alice@example.com", time.Now())
	assert.NoError(t, err)

	for _, authz := range []string{"Bearer not-a-jwt", "Bearer " + forged} {
		rec, err := doRequest(t, iss, authz)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var body mwErrorResponse
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "invalid or expired token", body.Message)
	}
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	iss := token.NewJWTIssuer("test_secret")

	expired, _, err := iss.IssueAccess("u-1", "alice@example.com", time.Now().Add(-1*time.Hour))
	assert.NoError(t, err)

	rec, reqErr := doRequest(t, iss, "Bearer "+expired)
	assert.NoError(t, reqErr)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
