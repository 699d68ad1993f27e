package service

import (
	"context"
	"errors"
	"fmt"

	"directory-service/internal/model"
	"directory-service/internal/repository"
	"directory-service/pkg/logger"
	"directory-service/prometheus"

	"go.uber.org/zap"
)

// FavoriteService toggles (user, business) bookmarks.
// Adding twice or removing a missing favorite is rejected rather than ignored.
type FavoriteService struct {
	favorites  repository.FavoriteRepository
	businesses repository.BusinessRepository
	log        *zap.Logger
}

func NewFavoriteService(favorites repository.FavoriteRepository, businesses repository.BusinessRepository, log *zap.Logger) *FavoriteService {
	if log == nil {
		log = zap.NewNop()
	}
	return &FavoriteService{favorites: favorites, businesses: businesses, log: log}
}

// Add favorites the business for the caller
func (s *FavoriteService) Add(ctx context.Context, identity *Identity, businessID string) (*model.Favorite, error) {
	if err := RequireAuthenticated(identity, nil); err != nil {
		return nil, err
	}
	if !isID(businessID) {
		return nil, ErrBusinessNotFound
	}

	if _, err := s.businesses.GetByID(ctx, businessID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("get business: %w", err)
	}

	exists, err := s.favorites.Exists(ctx, identity.UserID, businessID)
	if err != nil {
		return nil, fmt.Errorf("check favorite: %w", err)
	}
	if exists {
		return nil, ErrAlreadyFavorited
	}

	fav := &model.Favorite{UserID: identity.UserID, BusinessID: businessID}
	if err := s.favorites.Create(ctx, fav); err != nil {
		switch {
		case repository.IsDuplicate(err, "favorite"):
			return nil, ErrAlreadyFavorited
		case errors.Is(err, repository.ErrInvalidReference):
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("create favorite: %w", err)
	}

	prometheus.RecordFavorite("add")
	logger.FromContext(ctx, s.log).Info("business favorited",
		zap.String("user_id", identity.UserID),
		zap.String("business_id", businessID),
	)
	return fav, nil
}

// Remove deletes the caller's favorite on the business
func (s *FavoriteService) Remove(ctx context.Context, identity *Identity, businessID string) error {
	if err := RequireAuthenticated(identity, nil); err != nil {
		return err
	}
	if !isID(businessID) {
		return ErrFavoriteNotFound
	}

	if err := s.favorites.Delete(ctx, identity.UserID, businessID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFavoriteNotFound
		}
		return fmt.Errorf("delete favorite: %w", err)
	}

	prometheus.RecordFavorite("remove")
	logger.FromContext(ctx, s.log).Info("favorite removed",
		zap.String("user_id", identity.UserID),
		zap.String("business_id", businessID),
	)
	return nil
}

// List returns the caller's favorites newest first
func (s *FavoriteService) List(ctx context.Context, identity *Identity) ([]model.Favorite, error) {
	if err := RequireAuthenticated(identity, nil); err != nil {
		return nil, err
	}
	favorites, err := s.favorites.ListByUser(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	if favorites == nil {
		favorites = []model.Favorite{}
	}
	return favorites, nil
}
