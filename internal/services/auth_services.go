package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"BootcampAPI/internal/apperror"
	"BootcampAPI/internal/middleware"
	"BootcampAPI/internal/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLen = 6

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// AccountStore is the persistence surface the auth service needs.
type AccountStore interface {
	Create(ctx context.Context, a *model.Account) error
	GetByID(ctx context.Context, id bson.ObjectID) (*model.Account, error)
	GetByIDWithPassword(ctx context.Context, id bson.ObjectID) (*model.Account, error)
	GetByEmailWithPassword(ctx context.Context, email string) (*model.Account, error)
	GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*model.Account, error)
	UpdateDetails(ctx context.Context, id bson.ObjectID, name, email string) error
	SetPassword(ctx context.Context, id bson.ObjectID, passwordHash string) error
	SetResetToken(ctx context.Context, id bson.ObjectID, tokenHash string, expire time.Time) error
	ClearResetToken(ctx context.Context, id bson.ObjectID) error
}

// Mailer dispatches the password-reset email.
type Mailer interface {
	SendPasswordResetEmail(ctx context.Context, to, resetURL string) error
}

// TokenIssuer signs session tokens for an account.
type TokenIssuer interface {
	GenerateToken(accountID bson.ObjectID) (string, error)
}

// Compile-time check that the JWT manager satisfies the issuer contract.
var _ TokenIssuer = (*middleware.JWTManager)(nil)

type AuthService struct {
	accounts AccountStore
	mailer   Mailer
	tokens   TokenIssuer

	baseURL          string
	resetTokenExpire time.Duration
}

func NewAuthService(accounts AccountStore, mailer Mailer, tokens TokenIssuer, baseURL string, resetTokenExpire time.Duration) *AuthService {
	return &AuthService{
		accounts:         accounts,
		mailer:           mailer,
		tokens:           tokens,
		baseURL:          strings.TrimRight(baseURL, "/"),
		resetTokenExpire: resetTokenExpire,
	}
}

// Register creates an account with a hashed secret and issues a session
// token. Public registration may pick "user" or "publisher"; admin accounts
// are only created through the admin user endpoints.
func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*model.Account, string, error) {
	if name == "" {
		return nil, "", apperror.NewValidation("name is required")
	}
	if err := validateEmail(email); err != nil {
		return nil, "", err
	}
	if err := validatePassword(password); err != nil {
		return nil, "", err
	}
	if role == "" {
		role = model.RoleUser
	}
	if role == model.RoleAdmin || !model.ValidRole(role) {
		return nil, "", apperror.NewValidation("invalid role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperror.NewInternal(err)
	}

	account := &model.Account{
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.GenerateToken(account.ID)
	if err != nil {
		return nil, "", apperror.NewInternal(err)
	}
	return account, token, nil
}

// Login verifies the credentials and issues a fresh token. Unknown email
// and wrong password are deliberately indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.Account, string, error) {
	if email == "" || password == "" {
		return nil, "", apperror.NewValidation("please provide an email and password")
	}

	account, err := s.accounts.GetByEmailWithPassword(ctx, strings.ToLower(email))
	if err != nil {
		return nil, "", apperror.NewAuthentication("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperror.NewAuthentication("invalid credentials")
	}
	account.PasswordHash = ""

	token, err := s.tokens.GenerateToken(account.ID)
	if err != nil {
		return nil, "", apperror.NewInternal(err)
	}
	return account, token, nil
}

// GetMe fetches the account behind the current session.
func (s *AuthService) GetMe(ctx context.Context, id bson.ObjectID) (*model.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// UpdateDetails changes the display name and email of the authenticated
// account.
func (s *AuthService) UpdateDetails(ctx context.Context, id bson.ObjectID, name, email string) (*model.Account, error) {
	if name == "" {
		return nil, apperror.NewValidation("name is required")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := s.accounts.UpdateDetails(ctx, id, name, strings.ToLower(email)); err != nil {
		return nil, err
	}
	return s.accounts.GetByID(ctx, id)
}

// UpdatePassword re-verifies the current secret before accepting the new
// one, then issues a fresh token.
func (s *AuthService) UpdatePassword(ctx context.Context, id bson.ObjectID, currentPassword, newPassword string) (string, error) {
	account, err := s.accounts.GetByIDWithPassword(ctx, id)
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(currentPassword)); err != nil {
		return "", apperror.NewAuthentication("password is incorrect")
	}
	if err := validatePassword(newPassword); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", apperror.NewInternal(err)
	}
	if err := s.accounts.SetPassword(ctx, id, string(hash)); err != nil {
		return "", err
	}

	token, err := s.tokens.GenerateToken(id)
	if err != nil {
		return "", apperror.NewInternal(err)
	}
	return token, nil
}

// ForgotPassword stores a hashed single-use reset token and emails the
// plaintext one. If the email cannot be delivered the stored token is
// rolled back so the account never carries a token nobody received.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	account, err := s.accounts.GetByEmailWithPassword(ctx, strings.ToLower(email))
	if err != nil {
		return apperror.NewNotFound("there is no account with that email")
	}

	plaintext, tokenHash, err := newResetToken()
	if err != nil {
		return apperror.NewInternal(err)
	}
	expire := time.Now().Add(s.resetTokenExpire)
	if err := s.accounts.SetResetToken(ctx, account.ID, tokenHash, expire); err != nil {
		return err
	}

	resetURL := s.baseURL + "/api/v1/auth/resetpassword/" + plaintext
	if err := s.mailer.SendPasswordResetEmail(ctx, account.Email, resetURL); err != nil {
		// Never leave a token behind that was never communicated.
		_ = s.accounts.ClearResetToken(ctx, account.ID)
		return apperror.NewDelivery("email could not be sent", err)
	}
	return nil
}

// ResetPassword consumes a reset token: the stored hash must match and the
// expiry must not have elapsed. Success clears the token, so a second
// attempt with the same one fails.
func (s *AuthService) ResetPassword(ctx context.Context, plaintext, newPassword string) (*model.Account, string, error) {
	sum := sha256.Sum256([]byte(plaintext))
	tokenHash := hex.EncodeToString(sum[:])

	account, err := s.accounts.GetByResetToken(ctx, tokenHash, time.Now())
	if err != nil {
		return nil, "", apperror.NewAuthentication("invalid token")
	}
	if err := validatePassword(newPassword); err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperror.NewInternal(err)
	}
	if err := s.accounts.SetPassword(ctx, account.ID, string(hash)); err != nil {
		return nil, "", err
	}
	account.PasswordHash = ""
	account.ResetPasswordToken = ""
	account.ResetPasswordExpire = nil

	token, err := s.tokens.GenerateToken(account.ID)
	if err != nil {
		return nil, "", apperror.NewInternal(err)
	}
	return account, token, nil
}

// newResetToken returns 20 random bytes hex-encoded plus the sha256 hex of
// that encoding; only the hash is persisted.
func newResetToken() (plaintext, tokenHash string, err error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	plaintext = hex.EncodeToString(buf)
	sum := sha256.Sum256([]byte(plaintext))
	return plaintext, hex.EncodeToString(sum[:]), nil
}

func validateEmail(email string) error {
	if email == "" {
		return apperror.NewValidation("email is required")
	}
	if !emailRegex.MatchString(email) {
		return apperror.NewValidation("invalid email format")
	}
	return nil
}

func validatePassword(pw string) error {
	if len(pw) < MinPasswordLen {
		return apperror.NewValidation("password must be at least 6 characters")
	}
	return nil
}
