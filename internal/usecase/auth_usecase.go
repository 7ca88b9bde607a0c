package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dubey-IITB/resume-tracker/internal/dto"
	"github.com/Dubey-IITB/resume-tracker/internal/model"
	"github.com/Dubey-IITB/resume-tracker/internal/repository"
	"github.com/Dubey-IITB/resume-tracker/internal/service"
	"github.com/Dubey-IITB/resume-tracker/internal/util"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type AuthUsecase struct {
	users  UserStore
	tokens *service.TokenService
}

func NewAuthUsecase(users UserStore, tokens *service.TokenService) *AuthUsecase {
	return &AuthUsecase{users: users, tokens: tokens}
}

// Login checks the password and issues an access token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (*dto.LoginDTO, error) {
	user, err := u.users.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	token, exp, err := u.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &dto.LoginDTO{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   exp,
		User:        toUserDTO(user),
	}, nil
}

func (u *AuthUsecase) CreateUser(ctx context.Context, email, fullName, password string) (*dto.UserDTO, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	errs := map[string]string{}
	if !service.IsEmailShaped(email) {
		errs["email"] = "a valid email is required"
	}
	if len(password) < minPasswordLength {
		errs["password"] = fmt.Sprintf("password must be at least %d characters", minPasswordLength)
	}
	if len(errs) > 0 {
		return nil, util.NewFormError("invalid user", errs)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{
		Email:          email,
		FullName:       strings.TrimSpace(fullName),
		HashedPassword: string(hash),
		IsActive:       true,
	}
	if err := u.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	out := toUserDTO(user)
	return &out, nil
}

func toUserDTO(u *model.User) dto.UserDTO {
	return dto.UserDTO{ID: u.ID, Email: u.Email, FullName: u.FullName, IsActive: u.IsActive}
}
