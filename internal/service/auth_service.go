package service

import (
	"context"
	"errors"
	"great_awareness_backend/internal/config"
	"great_awareness_backend/internal/model"
	"great_awareness_backend/internal/util"
	"great_awareness_backend/pkg/logger"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService struct {
	UserRepo    UserStore
	ResetTokens ResetTokenStore
	Cfg         *config.Config
}

func NewAuthService(userRepo UserStore, resetTokens ResetTokenStore, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:    userRepo,
		ResetTokens: resetTokens,
		Cfg:         cfg,
	}
}

type RegisterRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Username     string `json:"username" binding:"required"`
	Password     string `json:"password" binding:"required"`
	FirstName    string `json:"first_name" binding:"max=100"`
	LastName     string `json:"last_name" binding:"max=100"`
	PhoneNumber  string `json:"phone_number" binding:"max=20"`
	County       string `json:"county" binding:"max=100"`
	VerifiedOTP  string `json:"verified_otp" binding:"max=6"`
	DeviceIDHash string `json:"device_id_hash" binding:"max=255"`
}

type LoginRequest struct {
	// email, or username
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type VerifyResponse struct {
	Email string `json:"email"`
	Valid bool   `json:"valid"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type UserResponse struct {
	ID           uint             `json:"id"`
	Email        string           `json:"email"`
	Username     string           `json:"username"`
	Role         model.UserRole   `json:"role"`
	Status       model.UserStatus `json:"status"`
	IsVerified   bool             `json:"is_verified"`
	ProfileImage string           `json:"profile_image"`
	FirstName    string           `json:"first_name"`
	LastName     string           `json:"last_name"`
	PhoneNumber  string           `json:"phone_number"`
	County       string           `json:"county"`
	LastLogin    *time.Time       `json:"last_login"`
	CreatedAt    time.Time        `json:"created_at"`
}

func ToUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		Role:         u.Role,
		Status:       u.Status,
		IsVerified:   u.IsVerified,
		ProfileImage: u.ProfileImage,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PhoneNumber:  u.PhoneNumber,
		County:       u.County,
		LastLogin:    u.LastLogin,
		CreatedAt:    u.CreatedAt,
	}
}

const tokenTypeBearer = "bearer"

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username, err := util.NormalizeUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if err := util.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	checks := []struct {
		skip  bool
		query string
		args  []interface{}
		err   error
	}{
		{false, "email = ?", []interface{}{email}, util.ErrEmailRegistered},
		{false, "username = ?", []interface{}{username}, util.ErrUsernameTaken},
		{req.PhoneNumber == "", "phone_number = ? AND is_verified = ?", []interface{}{req.PhoneNumber, true}, util.ErrPhoneRegistered},
		{req.DeviceIDHash == "", "device_id_hash = ?", []interface{}{req.DeviceIDHash}, util.ErrDeviceRegistered},
		{req.VerifiedOTP == "", "verified_otp = ? AND is_verified = ?", []interface{}{req.VerifiedOTP, true}, util.ErrOTPUsed},
	}
	for _, c := range checks {
		if c.skip {
			continue
		}
		exists, err := s.UserRepo.Exists(ctx, c.query, c.args...)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, c.err
		}
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         model.RoleUser,
		Status:       model.UserActive,
		IsVerified:   req.VerifiedOTP != "",
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		County:       req.County,
		VerifiedOTP:  req.VerifiedOTP,
		DeviceIDHash: req.DeviceIDHash,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Log.Info("user registered", zap.Uint("user_id", user.ID))
	resp := ToUserResponse(user)
	return &resp, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	identifier := strings.ToLower(strings.TrimSpace(req.Email))

	var user *model.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.UserRepo.FindByEmail(ctx, identifier)
	} else {
		user, err = s.UserRepo.FindByUsername(ctx, identifier)
	}
	if errors.Is(err, util.ErrNotFound) {
		return nil, util.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !util.CheckPassword(user.PasswordHash, req.Password) {
		return nil, util.ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, util.ErrAccountInactive
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	if err := s.UserRepo.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		logger.Log.Warn("failed to update last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int64(s.Cfg.JWT.ExpireTime.Seconds()),
	}, nil
}

func (s *AuthService) Verify(token string) (*VerifyResponse, error) {
	claims, err := util.ParseJWT(token, s.Cfg.JWT.Secret)
	if err != nil {
		return nil, err
	}
	return &VerifyResponse{Email: claims.Subject, Valid: true}, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*UserResponse, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ForgotPassword issues a reset token when the email is known. Unknown
// emails succeed silently so callers cannot probe for accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.UserRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, util.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	token := uuid.NewString()
	if err := s.ResetTokens.Save(ctx, token, user.ID, s.Cfg.PasswordReset.TTL); err != nil {
		return err
	}

	logger.Log.Info("password reset requested", zap.Uint("user_id", user.ID))
	if s.Cfg.Server.Mode == config.ModeDebug {
		logger.Log.Debug("password reset token issued", zap.Uint("user_id", user.ID), zap.String("token", token))
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := util.ValidatePassword(req.NewPassword); err != nil {
		return err
	}
	userID, err := s.ResetTokens.Consume(ctx, req.Token)
	if err != nil {
		return err
	}

	hash, err := util.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.UserRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	logger.Log.Info("password reset", zap.Uint("user_id", userID))
	return nil
}
