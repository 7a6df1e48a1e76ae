package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"recipe-share/config"
	"recipe-share/logging"
	"recipe-share/models"
	"recipe-share/repositories"
	"recipe-share/validation"
)

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest, info *models.RequestInfo) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest, info *models.RequestInfo) (*models.AuthResponse, error)
	Logout(ctx context.Context, user *models.User, info *models.RequestInfo)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User, req models.UpdateProfileRequest, info *models.RequestInfo) (*models.User, error)
	ChangePassword(ctx context.Context, user *models.User, req models.ChangePasswordRequest) error
	EnsureAdmin(ctx context.Context, admin config.AdminConfig) error
}

type authService struct {
	userRepo repositories.UserRepository
	audit    AuditService
}

func NewAuthService(userRepo repositories.UserRepository, audit AuditService) AuthService {
	return &authService{userRepo: userRepo, audit: audit}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest, info *models.RequestInfo) (*models.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	// Check if user already exists
	taken, err := s.userRepo.Taken(ctx, req.Email, req.Username, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  req.Username,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     req.Email,
		Password:  string(hashedPassword),
		Role:      models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, models.AuditEntry{
		Actor:       user,
		ActionType:  models.ActionUserCreated,
		Description: fmt.Sprintf("New user registered: %s", user.Username),
		TargetType:  models.TargetUser,
		TargetID:    &user.ID,
		Metadata: map[string]interface{}{
			"username": user.Username,
			"email":    user.Email,
			"role":     string(user.Role),
		},
		Request: info,
	})

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest, info *models.RequestInfo) (*models.AuthResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	// Check password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	s.audit.Log(ctx, models.AuditEntry{
		Actor:       user,
		ActionType:  models.ActionUserLogin,
		Description: fmt.Sprintf("User logged in: %s", user.Username),
		TargetType:  models.TargetUser,
		TargetID:    &user.ID,
		Request:     info,
	})

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

// Logout only records the event; tokens are stateless and expire on their own.
func (s *authService) Logout(ctx context.Context, user *models.User, info *models.RequestInfo) {
	s.audit.Log(ctx, models.AuditEntry{
		Actor:       user,
		ActionType:  models.ActionUserLogout,
		Description: fmt.Sprintf("User logged out: %s", user.Username),
		TargetType:  models.TargetUser,
		TargetID:    &user.ID,
		Request:     info,
	})
}

func (s *authService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *authService) UpdateProfile(ctx context.Context, user *models.User, req models.UpdateProfileRequest, info *models.RequestInfo) (*models.User, error) {
	req.Email = normalizeEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	taken, err := s.userRepo.Taken(ctx, req.Email, req.Username, user.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.ErrUserExists
	}

	updated := *user
	updated.Username = req.Username
	updated.FirstName = strings.TrimSpace(req.FirstName)
	updated.LastName = strings.TrimSpace(req.LastName)
	updated.Email = req.Email
	if err := s.userRepo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, models.AuditEntry{
		Actor:       &updated,
		ActionType:  models.ActionUserUpdated,
		Description: fmt.Sprintf("Profile updated: %s", updated.Username),
		TargetType:  models.TargetUser,
		TargetID:    &updated.ID,
		Metadata: map[string]interface{}{
			"previous_username": user.Username,
			"previous_email":    user.Email,
		},
		Request: info,
	})

	return &updated, nil
}

func (s *authService) ChangePassword(ctx context.Context, user *models.User, req models.ChangePasswordRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return models.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	updated := *user
	updated.Password = string(hashed)
	return s.userRepo.Update(ctx, &updated)
}

// EnsureAdmin creates the configured admin account unless a user with the
// same email already exists.
func (s *authService) EnsureAdmin(ctx context.Context, admin config.AdminConfig) error {
	if !admin.Enabled() {
		return nil
	}
	_, err := s.userRepo.GetByEmail(ctx, admin.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrUserNotFound) {
		return err
	}
	if !validation.IsHandle(admin.Username) {
		return fmt.Errorf("admin username %q is not a valid handle", admin.Username)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := &models.User{
		Username:  admin.Username,
		FirstName: "Site",
		LastName:  "Admin",
		Email:     normalizeEmail(admin.Email),
		Password:  string(hashed),
		Role:      models.RoleAdmin,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	s.audit.Log(ctx, models.AuditEntry{
		ActionType:  models.ActionUserCreated,
		Description: fmt.Sprintf("Bootstrap admin created: %s", user.Username),
		TargetType:  models.TargetUser,
		TargetID:    &user.ID,
		Metadata: map[string]interface{}{
			"username": user.Username,
			"email":    user.Email,
			"role":     string(user.Role),
		},
	})
	logging.Info().Str("username", user.Username).Msg("bootstrap admin created")
	return nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      now.Add(config.JWTExpiration).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(config.JWTSecret)
	if err != nil {
		return "", err
	}

	return signedToken, nil
}
