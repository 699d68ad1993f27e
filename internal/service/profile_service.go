package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"directory-service/internal/model"
	"directory-service/internal/repository"
	"directory-service/pkg/logger"
	"directory-service/prometheus"

	"go.uber.org/zap"
)

// ProfileService lets users read and maintain their own account
type ProfileService struct {
	users repository.UserRepository
	log   *zap.Logger
}

func NewProfileService(users repository.UserRepository, log *zap.Logger) *ProfileService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileService{users: users, log: log}
}

// ProfileInput holds editable profile fields. An empty Email or Phone clears it.
type ProfileInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
}

func (s *ProfileService) Get(ctx context.Context, identity *Identity) (*model.User, error) {
	if err := RequireAuthenticated(identity, nil); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, identity.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Update applies in to the caller's profile keeping contact details unique and present
func (s *ProfileService) Update(ctx context.Context, identity *Identity, in ProfileInput) (*model.User, error) {
	user, err := s.Get(ctx, identity)
	if err != nil {
		return nil, err
	}

	setString(&user.FirstName, in.FirstName)
	setString(&user.LastName, in.LastName)
	if in.Email != nil {
		user.Email = optional(strings.ToLower(*in.Email))
	}
	if in.Phone != nil {
		user.Phone = optional(*in.Phone)
	}

	if !user.HasContact() {
		return nil, ErrMissingContact
	}

	if in.Email != nil && user.Email != nil {
		exists, err := s.users.ExistsByEmail(ctx, *user.Email, user.ID)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if exists {
			return nil, ErrDuplicateEmail
		}
	}
	if in.Phone != nil && user.Phone != nil {
		exists, err := s.users.ExistsByPhone(ctx, *user.Phone, user.ID)
		if err != nil {
			return nil, fmt.Errorf("check phone: %w", err)
		}
		if exists {
			return nil, ErrDuplicatePhone
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		if mapped, ok := userDuplicate(err); ok {
			return nil, mapped
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	prometheus.RecordAccountOperation("profile_update")
	logger.FromContext(ctx, s.log).Info("profile updated", zap.String("user_id", user.ID))
	return user, nil
}

// ChangePassword is the only way to re-set a password
func (s *ProfileService) ChangePassword(ctx context.Context, identity *Identity, current, next string) error {
	user, err := s.Get(ctx, identity)
	if err != nil {
		return err
	}

	if !user.CheckPassword(current) {
		prometheus.RecordAuthError("wrong_password")
		return ErrWrongPassword
	}
	if len(next) < minPasswordLength {
		return ErrWeakPassword
	}

	if err := user.SetPassword(next); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	prometheus.RecordAccountOperation("password_change")
	logger.FromContext(ctx, s.log).Info("password changed", zap.String("user_id", user.ID))
	return nil
}
