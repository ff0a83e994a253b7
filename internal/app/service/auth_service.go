package service

import (
	"context"
	"errors"
	"fmt"

	"codecoach/internal/common"
	"codecoach/internal/common/security"
	"codecoach/internal/domain/model"
	"codecoach/internal/domain/repository"

	"go.uber.org/zap"
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *security.TokenIssuer
	limiter  *LoginLimiter // nil when redis is unavailable
	logger   *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *security.TokenIssuer, limiter *LoginLimiter, logger *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens, limiter: limiter, logger: logger}
}

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, common.ErrInvalidInput
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: hashedPassword,
	}

	// Uniqueness is enforced by the insert itself, not a prior read.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user created", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return &AuthResponse{Message: "User created successfully", Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest, clientIP string) (*AuthResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, common.ErrInvalidCredentials
	}

	if s.limiter != nil && s.limiter.TooManyFailures(ctx, req.Username, clientIP) {
		return nil, common.ErrTooManyAttempts
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.recordFailure(ctx, req.Username, clientIP)
			return nil, common.ErrInvalidCredentials // Generic message for security
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.recordFailure(ctx, req.Username, clientIP)
		return nil, common.ErrInvalidCredentials
	}

	if s.limiter != nil {
		s.limiter.Clear(ctx, req.Username, clientIP)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{Message: "Login successful", Token: token}, nil
}

// Me returns the user a verified token belongs to.
func (s *AuthService) Me(ctx context.Context, userID int64) (*model.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// VerifyToken resolves a bearer token to a user id.
func (s *AuthService) VerifyToken(token string) (int64, error) {
	return s.tokens.Verify(token)
}

func (s *AuthService) recordFailure(ctx context.Context, username, clientIP string) {
	if s.limiter != nil {
		s.limiter.RecordFailure(ctx, username, clientIP)
	}
}
