// Package middleware holds the session-token issuer and the route guards:
// Protect establishes identity from a bearer token, Authorize checks role
// membership on top of it.
package middleware

import (
	"context"
	"strings"
	"time"

	"BootcampAPI/internal/apperror"
	"BootcampAPI/internal/config"
	"BootcampAPI/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// TokenCookie is the cookie the token artifact travels in.
const TokenCookie = "token"

const accountContextKey = "account"

// Claims is the JWT payload: the subject account id plus the registered
// time bounds.
type Claims struct {
	AccountID string `json:"id"`
	jwt.RegisteredClaims
}

// AccountLoader resolves the token subject to a live account.
type AccountLoader interface {
	GetByID(ctx context.Context, id bson.ObjectID) (*model.Account, error)
}

// JWTManager signs and verifies session tokens. The secret and lifetime
// come from configuration; nothing here reads the environment.
type JWTManager struct {
	secret   []byte
	expire   time.Duration
	accounts AccountLoader
}

func NewJWTManager(cfg config.AuthConfig, accounts AccountLoader) *JWTManager {
	return &JWTManager{
		secret:   []byte(cfg.JWTSecret),
		expire:   cfg.JWTExpire,
		accounts: accounts,
	}
}

// GenerateToken signs a token for the given account.
func (m *JWTManager) GenerateToken(accountID bson.ObjectID) (string, error) {
	now := time.Now()
	claims := &Claims{
		AccountID: accountID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expire)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "bootcamp-api",
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// ParseToken verifies the signature and time bounds and returns the claims.
func (m *JWTManager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, apperror.NewAuthentication("invalid or expired token")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, apperror.NewAuthentication("invalid token claims")
	}
	return claims, nil
}

// Protect requires a valid bearer credential, taken from the Authorization
// header or the token cookie, and attaches the resolved account to the
// request context.
func (m *JWTManager) Protect() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := bearerToken(c)
			if tokenString == "" {
				return apperror.NewAuthentication("not authorized to access this route")
			}

			claims, err := m.ParseToken(tokenString)
			if err != nil {
				return apperror.NewAuthentication("not authorized to access this route")
			}

			id, err := bson.ObjectIDFromHex(claims.AccountID)
			if err != nil {
				return apperror.NewAuthentication("not authorized to access this route")
			}

			account, err := m.accounts.GetByID(c.Request().Context(), id)
			if err != nil {
				return apperror.NewAuthentication("not authorized to access this route")
			}

			c.Set(accountContextKey, account)
			return next(c)
		}
	}
}

// Authorize allows only the listed roles through. Must run after Protect.
func Authorize(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account := GetAccount(c)
			if account == nil {
				return apperror.NewAuthentication("not authorized to access this route")
			}
			for _, role := range roles {
				if account.Role == role {
					return next(c)
				}
			}
			return apperror.NewAuthorization("role '" + account.Role + "' is not authorized to access this route")
		}
	}
}

// GetAccount returns the authenticated account set by Protect, or nil.
func GetAccount(c echo.Context) *model.Account {
	if account, ok := c.Get(accountContextKey).(*model.Account); ok {
		return account
	}
	return nil
}

// bearerToken extracts the credential from the Authorization header,
// falling back to the token cookie.
func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get("Authorization")
	if auth != "" {
		parts := strings.Fields(auth)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}
