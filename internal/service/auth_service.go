package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catering_store/internal/model"
	"catering_store/internal/repository"
	"catering_store/internal/utils"

	"github.com/sirupsen/logrus"
)

// AuthService provides account registration, login and token checks
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	// Authenticate resolves a bearer token to a live account
	Authenticate(ctx context.Context, token string) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User, req model.UpdateProfileRequest) (*model.User, error)
	PromoteToAdmin(ctx context.Context, email string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
	log      logrus.FieldLogger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, log logrus.FieldLogger) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
		log:      log,
	}
}

// RequireAdmin fails with ErrForbidden unless the account is an admin
func RequireAdmin(user *model.User) error {
	if !user.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// Register creates a new account. The role is always "user".
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Phone == "" || req.Address == "" {
		return nil, "", validationError("Please provide name, email, password, phone and address")
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, "", ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         model.RoleUser,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// a concurrent registration won the unique index
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, "", ErrUserAlreadyExists
		}
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}

	token, err := s.jwtUtil.GenerateToken(user.ID)
	if err != nil {
		s.log.WithField("user_id", user.ID).WithError(err).Error("account created but token generation failed")
		return nil, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	return user, token, nil
}

// Login checks the credentials and issues a token. Unknown email and wrong
// password produce the same error.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := s.jwtUtil.ValidateToken(token)
	if err != nil {
		s.log.WithError(err).Debug("rejected bearer token")
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load authenticated user: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// UpdateProfile applies the supplied non-empty fields. Email and role never change here.
func (s *authService) UpdateProfile(ctx context.Context, user *model.User, req model.UpdateProfileRequest) (*model.User, error) {
	updated := *user
	if req.Name != nil && *req.Name != "" {
		updated.Name = *req.Name
	}
	if req.Phone != nil && *req.Phone != "" {
		updated.Phone = *req.Phone
	}
	if req.Address != nil && *req.Address != "" {
		updated.Address = *req.Address
	}

	if err := s.userRepo.UpdateProfile(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &updated, nil
}

// PromoteToAdmin grants the admin role. Only reachable from the operator CLI.
func (s *authService) PromoteToAdmin(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.IsAdmin() {
		return user, nil
	}

	if err := s.userRepo.SetRole(ctx, user.ID, model.RoleAdmin); err != nil {
		return nil, fmt.Errorf("failed to set admin role: %w", err)
	}
	user.Role = model.RoleAdmin
	s.log.WithField("user_id", user.ID).Info("account promoted to admin")
	return user, nil
}
