package services

import (
	"context"
	"net/url"
	"strings"

	"BootcampAPI/internal/apperror"
	"BootcampAPI/internal/model"
	"BootcampAPI/internal/query"
	"BootcampAPI/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
)

// UserService is the admin-only account management surface. Routes guard it
// with Protect + Authorize(admin).
type UserService struct {
	accounts *repository.AccountRepository
}

func NewUserService(accounts *repository.AccountRepository) *UserService {
	return &UserService{accounts: accounts}
}

func (s *UserService) List(ctx context.Context, params url.Values) (*repository.ListResult[model.Account], error) {
	return s.accounts.List(ctx, query.Parse(params))
}

func (s *UserService) Get(ctx context.Context, id bson.ObjectID) (*model.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// Create lets an admin create an account with any valid role, including
// another admin.
func (s *UserService) Create(ctx context.Context, name, email, password, role string) (*model.Account, error) {
	if name == "" {
		return nil, apperror.NewValidation("name is required")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if role == "" {
		role = model.RoleUser
	}
	if !model.ValidRole(role) {
		return nil, apperror.NewValidation("invalid role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	account := &model.Account{
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Update edits name, email, or role. Password changes go through the auth
// endpoints so they are always hashed and re-verified.
func (s *UserService) Update(ctx context.Context, id bson.ObjectID, name, email, role string) (*model.Account, error) {
	fields := bson.M{}
	if name != "" {
		fields["name"] = name
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		fields["email"] = strings.ToLower(email)
	}
	if role != "" {
		if !model.ValidRole(role) {
			return nil, apperror.NewValidation("invalid role")
		}
		fields["role"] = role
	}
	if err := s.accounts.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.accounts.GetByID(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id bson.ObjectID) error {
	return s.accounts.Delete(ctx, id)
}
