package service

import (
	"context"
	"fmt"

	"directory-service/internal/model"
	"directory-service/internal/repository"
	"directory-service/pkg/logger"

	"go.uber.org/zap"
)

// DefaultCategories is the fixed category list loaded by the seed command
var DefaultCategories = []string{
	"Salon",
	"Barbershop",
	"Automotive",
	"Gym",
	"Pharmacy",
	"Electronics",
	"Restaurant",
	"Clothing",
	"Groceries",
	"Bakery",
	"Books & Stationery",
	"Mobile Money",
	"Laundromat",
	"Internet Cafe",
	"Hardware",
	"Spa",
}

type CategoryService struct {
	categories repository.CategoryRepository
	log        *zap.Logger
}

func NewCategoryService(categories repository.CategoryRepository, log *zap.Logger) *CategoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CategoryService{categories: categories, log: log}
}

// List returns every category ordered by name
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

// Seed creates the named categories that do not exist yet
func (s *CategoryService) Seed(ctx context.Context, names []string) (added, existing int, err error) {
	log := logger.FromContext(ctx, s.log)

	for _, name := range names {
		c, created, err := s.categories.FirstOrCreate(ctx, name)
		if err != nil {
			return added, existing, fmt.Errorf("seed category %q: %w", name, err)
		}
		if created {
			added++
			log.Info("category added", zap.String("name", c.Name), zap.String("slug", c.Slug))
		} else {
			existing++
		}
	}

	return added, existing, nil
}
