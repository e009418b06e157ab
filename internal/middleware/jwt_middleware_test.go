package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"BootcampAPI/internal/apperror"
	"BootcampAPI/internal/config"
	"BootcampAPI/internal/middleware"
	"BootcampAPI/internal/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type fakeAccountLoader struct {
	accounts map[bson.ObjectID]*model.Account
}

func (f *fakeAccountLoader) GetByID(_ context.Context, id bson.ObjectID) (*model.Account, error) {
	if a, ok := f.accounts[id]; ok {
		return a, nil
	}
	return nil, apperror.NewNotFound("account not found")
}

func newTestManager(t *testing.T, expire time.Duration, accounts ...*model.Account) *middleware.JWTManager {
	t.Helper()
	loader := &fakeAccountLoader{accounts: map[bson.ObjectID]*model.Account{}}
	for _, a := range accounts {
		loader.accounts[a.ID] = a
	}
	return middleware.NewJWTManager(config.AuthConfig{
		JWTSecret: "test-secret",
		JWTExpire: expire,
	}, loader)
}

func protectedEcho(m *middleware.JWTManager, mws ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	handler := func(c echo.Context) error {
		account := middleware.GetAccount(c)
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": account.Email})
	}
	all := append([]echo.MiddlewareFunc{m.Protect()}, mws...)
	e.GET("/protected", handler, all...)
	return e
}

func TestProtect_ValidBearerToken(t *testing.T) {
	account := &model.Account{ID: bson.NewObjectID(), Email: "owner@example.com", Role: model.RolePublisher}
	m := newTestManager(t, time.Hour, account)

	token, err := m.GenerateToken(account.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protectedEcho(m).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "owner@example.com")
}

func TestProtect_TokenCookieFallback(t *testing.T) {
	account := &model.Account{ID: bson.NewObjectID(), Email: "cookie@example.com", Role: model.RoleUser}
	m := newTestManager(t, time.Hour, account)

	token, err := m.GenerateToken(account.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	rec := httptest.NewRecorder()
	protectedEcho(m).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtect_Failures(t *testing.T) {
	account := &model.Account{ID: bson.NewObjectID(), Email: "owner@example.com"}
	m := newTestManager(t, time.Hour, account)

	expired := newTestManager(t, -time.Hour, account)
	expiredToken, err := expired.GenerateToken(account.ID)
	require.NoError(t, err)

	otherSecret := middleware.NewJWTManager(config.AuthConfig{
		JWTSecret: "different-secret",
		JWTExpire: time.Hour,
	}, &fakeAccountLoader{})
	foreignToken, err := otherSecret.GenerateToken(account.ID)
	require.NoError(t, err)

	goneToken, err := m.GenerateToken(bson.NewObjectID())
	require.NoError(t, err)

	tests := []struct {
		name    string
		request func(req *http.Request)
	}{
		{name: "no credential", request: func(*http.Request) {}},
		{
			name: "malformed header",
			request: func(req *http.Request) {
				req.Header.Set("Authorization", "Token abc")
			},
		},
		{
			name: "expired token",
			request: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+expiredToken)
			},
		},
		{
			name: "bad signature",
			request: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+foreignToken)
			},
		},
		{
			name: "subject account no longer exists",
			request: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+goneToken)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			tt.request(req)
			rec := httptest.NewRecorder()

			e := protectedEcho(m)
			e.HTTPErrorHandler = func(err error, c echo.Context) {
				_ = c.JSON(apperror.SafeCode(err), echo.Map{"success": false, "error": apperror.SafeMessage(err)})
			}
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthorize_RoleCheck(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		allowed  []string
		wantCode int
	}{
		{name: "listed role passes", role: model.RolePublisher, allowed: []string{model.RolePublisher, model.RoleAdmin}, wantCode: http.StatusOK},
		{name: "admin passes where listed", role: model.RoleAdmin, allowed: []string{model.RolePublisher, model.RoleAdmin}, wantCode: http.StatusOK},
		{name: "unlisted role is forbidden", role: model.RoleUser, allowed: []string{model.RolePublisher, model.RoleAdmin}, wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := &model.Account{ID: bson.NewObjectID(), Email: "x@example.com", Role: tt.role}
			m := newTestManager(t, time.Hour, account)
			token, err := m.GenerateToken(account.ID)
			require.NoError(t, err)

			e := protectedEcho(m, middleware.Authorize(tt.allowed...))
			e.HTTPErrorHandler = func(err error, c echo.Context) {
				_ = c.JSON(apperror.SafeCode(err), echo.Map{"success": false, "error": apperror.SafeMessage(err)})
			}

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
