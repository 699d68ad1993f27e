package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"directory-service/internal/model"
	"directory-service/internal/repository"
	"directory-service/pkg/jwtutil"
	"directory-service/pkg/logger"
	"directory-service/pkg/revocation"
	"directory-service/prometheus"

	"go.uber.org/zap"
)

const minPasswordLength = 6

// TokenIssuer signs and verifies bearer tokens
type TokenIssuer interface {
	IssuePair(userID, userType string) (*jwtutil.TokenPair, error)
	Verify(token string, expected jwtutil.TokenType) (*jwtutil.UserClaims, error)
}

// AuthService handles registration, login and the refresh token lifecycle
type AuthService struct {
	users   repository.UserRepository
	tokens  TokenIssuer
	revoked revocation.Store
	log     *zap.Logger

	comparePassword func(hash, plain string) bool
}

// NewAuthService creates a new authentication service.
// A nil revocation store disables refresh token revocation.
func NewAuthService(users repository.UserRepository, tokens TokenIssuer, revoked revocation.Store, log *zap.Logger) *AuthService {
	if revoked == nil {
		revoked = revocation.Noop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:           users,
		tokens:          tokens,
		revoked:         revoked,
		log:             log,
		comparePassword: model.ComparePassword,
	}
}

// RegisterInput is a candidate user. Email and Phone are optional but not both.
type RegisterInput struct {
	FirstName         string
	LastName          string
	PartnershipNumber string
	UserType          string
	Email             string
	Phone             string
	Password          string
}

// LoginResult carries the token pair and the authenticated user
type LoginResult struct {
	Tokens *jwtutil.TokenPair
	User   *model.User
}

// Register validates and stores a new user with a hashed password
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	log := logger.FromContext(ctx, s.log)

	log.Info("register request", logger.Payload(map[string]any{
		"first_name":         in.FirstName,
		"last_name":          in.LastName,
		"partnership_number": in.PartnershipNumber,
		"user_type":          in.UserType,
		"email":              in.Email,
		"phone":              in.Phone,
		"password":           in.Password,
	}))

	user, err := s.newUser(in)
	if err != nil {
		return nil, err
	}

	if user.Email != nil {
		exists, err := s.users.ExistsByEmail(ctx, *user.Email, "")
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if exists {
			return nil, ErrDuplicateEmail
		}
	}

	if user.Phone != nil {
		exists, err := s.users.ExistsByPhone(ctx, *user.Phone, "")
		if err != nil {
			return nil, fmt.Errorf("check phone: %w", err)
		}
		if exists {
			return nil, ErrDuplicatePhone
		}
	}

	if err := user.SetPassword(in.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// the unique constraints are authoritative; the checks above only give early answers
	if err := s.users.Create(ctx, user); err != nil {
		if mapped, ok := userDuplicate(err); ok {
			return nil, mapped
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	prometheus.RegisterCounter.Inc()
	log.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("user_type", string(user.UserType)),
	)

	return user, nil
}

func (s *AuthService) newUser(in RegisterInput) (*model.User, error) {
	userType := model.UserType(strings.ToLower(strings.TrimSpace(in.UserType)))
	switch userType {
	case "":
		userType = model.UserTypeCommunity
	case model.UserTypeBusiness, model.UserTypeCommunity:
	default:
		return nil, ErrInvalidUserType
	}

	if len(in.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	user := &model.User{
		FirstName:         strings.TrimSpace(in.FirstName),
		LastName:          strings.TrimSpace(in.LastName),
		PartnershipNumber: strings.TrimSpace(in.PartnershipNumber),
		UserType:          userType,
		Email:             optional(strings.ToLower(in.Email)),
		Phone:             optional(in.Phone),
		IsActive:          true,
	}

	if !user.HasContact() {
		return nil, ErrMissingContact
	}

	return user, nil
}

// Login authenticates a partnership number and password and issues a token pair.
// Unknown users, wrong passwords and inactive accounts fail identically.
func (s *AuthService) Login(ctx context.Context, partnershipNumber, password string) (*LoginResult, error) {
	log := logger.FromContext(ctx, s.log)

	user, err := s.users.GetByPartnershipNumber(ctx, strings.TrimSpace(partnershipNumber))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	// unknown users still pay one bcrypt comparison
	hash := model.DummyPasswordHash()
	if user != nil {
		hash = user.Password
	}
	matched := s.comparePassword(hash, password)

	if user == nil || !matched || !user.IsActive {
		prometheus.RecordAuthError("login_failure")
		log.Warn("login failed", zap.String("partnership_number", partnershipNumber))
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user.ID, string(user.UserType))
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	prometheus.LoginCounter.Inc()
	log.Info("login successful", zap.String("user_id", user.ID))

	return &LoginResult{Tokens: pair, User: user}, nil
}

// Refresh exchanges a valid refresh token for a new pair. The used token is revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*jwtutil.TokenPair, error) {
	log := logger.FromContext(ctx, s.log)

	claims, err := s.verifyRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		prometheus.RecordAuthError("invalid_token")
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive {
		prometheus.RecordAuthError("invalid_token")
		return nil, ErrInvalidToken
	}

	pair, err := s.tokens.IssuePair(user.ID, string(user.UserType))
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	if err := s.revoke(ctx, claims); err != nil {
		return nil, err
	}

	prometheus.RecordAccountOperation("refresh")
	log.Info("tokens refreshed", zap.String("user_id", user.ID))

	return pair, nil
}

// Logout revokes the caller's refresh token
func (s *AuthService) Logout(ctx context.Context, identity *Identity, refreshToken string) error {
	if err := RequireAuthenticated(identity, nil); err != nil {
		return err
	}

	claims, err := s.verifyRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	if claims.UserID != identity.UserID {
		prometheus.RecordAuthError("invalid_token")
		return ErrInvalidToken
	}

	if err := s.revoke(ctx, claims); err != nil {
		return err
	}

	prometheus.RecordAccountOperation("logout")
	logger.FromContext(ctx, s.log).Info("logged out", zap.String("user_id", identity.UserID))
	return nil
}

func (s *AuthService) verifyRefresh(ctx context.Context, token string) (*jwtutil.UserClaims, error) {
	claims, err := s.tokens.Verify(token, jwtutil.RefreshToken)
	if err != nil {
		prometheus.RecordAuthError("invalid_token")
		return nil, ErrInvalidToken
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		prometheus.RecordAuthError("revoked_token")
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *AuthService) revoke(ctx context.Context, claims *jwtutil.UserClaims) error {
	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// optional trims s and returns nil when nothing is left
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
