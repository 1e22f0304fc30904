package service

import (
	"context"
	"strings"

	"github.com/leadform/leadform/internal/apperr"
	"github.com/leadform/leadform/internal/auth"
	"github.com/leadform/leadform/internal/models"
	"github.com/leadform/leadform/internal/repository"
)

type AuthService struct {
	users     *repository.UserRepo
	jwtSecret string
}

func NewAuthService(users *repository.UserRepo, jwtSecret string) *AuthService {
	return &AuthService{users: users, jwtSecret: jwtSecret}
}

type AuthResult struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperr.Validation("Email and password are required")
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if user == nil || !auth.CheckPassword(password, user.PasswordHash) {
		return nil, apperr.ErrInvalidCredentials
	}
	token, err := auth.GenerateToken(s.jwtSecret, user.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &AuthResult{Token: token, User: user.ToResponse()}, nil
}

// Verify implements auth.Verifier.
func (s *AuthService) Verify(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperr.ErrUnauthorized
	}
	claims, err := auth.ValidateToken(s.jwtSecret, token)
	if err != nil {
		return nil, apperr.Forbidden(err)
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if user == nil {
		return nil, &apperr.Error{Kind: apperr.KindUnauthorized, Message: "Invalid token"}
	}
	return user, nil
}

func (s *AuthService) Me(ctx context.Context, userID int64) (*models.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	resp := user.ToResponse()
	return &resp, nil
}

// SeedAdmin creates the bootstrap account unless the email is already taken.
// It reports whether a user was created.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return false, apperr.Validation("admin email and password are required")
	}
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	if err := s.users.Create(ctx, &models.User{Email: email, PasswordHash: hash}); err != nil {
		return false, err
	}
	return true, nil
}
