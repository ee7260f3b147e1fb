// Package identity registers accounts and issues tokens.
package identity

import (
	"context"
	"errors"
	"time"

	shoppingapp "github.com/bizgrow/backend/internal/application/shopping"
	"github.com/bizgrow/backend/internal/domain/identity"
	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/bizgrow/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrAccountLocked      = shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Try again later")
	ErrAccountInactive    = shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	ErrEmailTaken         = shared.NewDomainError(shared.ErrAlreadyExists.Code, "Email is already registered")
	ErrInvalidToken       = shared.NewDomainError(shared.ErrUnauthorized.Code, "Invalid or expired token")
)

// ShoppingMerger folds a device's anonymous cart and wishlist into the account
type ShoppingMerger interface {
	Merge(ctx context.Context, userID uuid.UUID, local shoppingapp.LocalState) (*shoppingapp.MergeResponse, error)
}

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService handles authentication operations
type AuthService struct {
	users     identity.UserRepository
	tokens    *auth.JWTService
	blacklist auth.TokenBlacklist
	merger    ShoppingMerger
	config    AuthServiceConfig
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service. merger may be nil.
func NewAuthService(
	users identity.UserRepository,
	tokens *auth.JWTService,
	blacklist auth.TokenBlacklist,
	merger ShoppingMerger,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		blacklist: blacklist,
		merger:    merger,
		config:    config,
		logger:    logger,
	}
}

// Register creates an account and signs it in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	role := identity.RoleShopper
	if req.Role != "" {
		role = identity.Role(req.Role)
	}
	user, err := identity.NewUser(req.Email, req.Password, req.Name, role)
	if err != nil {
		return nil, err
	}
	if req.Phone != "" {
		if err := user.UpdateProfile(user.Name, req.Phone); err != nil {
			return nil, err
		}
	}

	exists, err := s.users.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	user.RecordLoginSuccess()
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))

	return s.issue(user)
}

// Login checks credentials, locks the account after repeated failures and
// merges the device's local shopping state when one is sent.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.IsLocked() {
		s.logger.Warn("login attempt for locked account", zap.String("user_id", user.ID.String()))
		return nil, ErrAccountLocked
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if !user.VerifyPassword(req.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.users.Save(ctx, user); err != nil {
			s.logger.Error("failed to record login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("account locked after too many failed attempts",
				zap.String("user_id", user.ID.String()),
				zap.Int("attempts", s.config.MaxLoginAttempts))
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	user.RecordLoginSuccess()
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	resp, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	if req.Local != nil && s.merger != nil {
		merged, err := s.merger.Merge(ctx, user.ID, *req.Local)
		if err != nil {
			// the login stands; the client keeps its local state and can retry the merge
			s.logger.Warn("failed to merge local shopping state",
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
		} else {
			resp.Merged = merged
		}
	}
	return resp, nil
}

// Refresh rotates a refresh token. The old one is revoked so it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	claims, err := s.tokens.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidToken
	}

	userID, err := claims.UserUUID()
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.CanLogin() {
		return nil, ErrAccountInactive
	}

	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Logout revokes the access token and, when given, the refresh token
func (s *AuthService) Logout(ctx context.Context, access *auth.Claims, req LogoutRequest) error {
	if err := s.blacklist.Revoke(ctx, access.ID, access.RemainingTTL()); err != nil {
		return err
	}
	if req.RefreshToken == "" {
		return nil
	}
	refresh, err := s.tokens.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		// an expired refresh token needs no revoking
		return nil
	}
	if refresh.UserID != access.UserID {
		return shared.ErrForbidden
	}
	return s.blacklist.Revoke(ctx, refresh.ID, refresh.RemainingTTL())
}

// Authenticate validates an access token for the HTTP middleware
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		// Redis being down should not sign everyone out
		s.logger.Warn("failed to check revoked token", zap.Error(err))
		return claims, nil
	}
	if revoked {
		return nil, auth.ErrTokenRevoked
	}
	return claims, nil
}

// Me returns the caller's account
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// UpdateProfile changes the caller's name and phone
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(req.Name, req.Phone); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangePassword replaces the caller's password
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return s.users.Save(ctx, user)
}

func (s *AuthService) issue(user *identity.User) (*AuthResponse, error) {
	pair, err := s.tokens.GenerateTokenPair(auth.Subject{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		return nil, shared.WrapDomainError("TOKEN_ERROR", "Failed to issue token", err)
	}
	return &AuthResponse{Token: pair, User: ToUserResponse(user)}, nil
}
