// Package repotest provides in-memory repositories that enforce the same
// unique constraints as the database schema.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"directory-service/internal/model"
	"directory-service/internal/repository"

	"github.com/google/uuid"
)

var (
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.BusinessRepository = (*BusinessRepo)(nil)
	_ repository.FavoriteRepository = (*FavoriteRepo)(nil)
)

type UserRepo struct {
	mu   sync.Mutex
	byID map[string]*model.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{byID: map[string]*model.User{}}
}

// conflict mimics the unique constraints on the users table
func (m *UserRepo) conflict(u *model.User) error {
	for _, other := range m.byID {
		if other.ID == u.ID {
			continue
		}
		if other.PartnershipNumber == u.PartnershipNumber {
			return &repository.DuplicateKeyError{Constraint: "users_partnership_number_key", Field: "partnership_number"}
		}
		if u.Email != nil && other.Email != nil && *u.Email == *other.Email {
			return &repository.DuplicateKeyError{Constraint: "users_email_key", Field: "email"}
		}
		if u.Phone != nil && other.Phone != nil && *u.Phone == *other.Phone {
			return &repository.DuplicateKeyError{Constraint: "users_phone_key", Field: "phone"}
		}
	}
	return nil
}

func (m *UserRepo) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if err := m.conflict(u); err != nil {
		return err
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *UserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *UserRepo) GetByPartnershipNumber(_ context.Context, pn string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.PartnershipNumber == pn {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *UserRepo) ExistsByEmail(_ context.Context, email, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.ID != excludeID && u.Email != nil && *u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *UserRepo) ExistsByPhone(_ context.Context, phone, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.ID != excludeID && u.Phone != nil && *u.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (m *UserRepo) Update(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[u.ID]; !ok {
		return repository.ErrNotFound
	}
	if err := m.conflict(u); err != nil {
		return err
	}
	u.UpdatedAt = time.Now()
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *UserRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type CategoryRepo struct {
	mu   sync.Mutex
	byID map[string]*model.Category
}

func NewCategoryRepo() *CategoryRepo {
	return &CategoryRepo{byID: map[string]*model.Category{}}
}

func (m *CategoryRepo) List(context.Context) ([]model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Category, 0, len(m.byID))
	for _, c := range m.byID {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *CategoryRepo) GetByID(_ context.Context, id string) (*model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *CategoryRepo) GetBySlug(_ context.Context, slug string) (*model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byID {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *CategoryRepo) FirstOrCreate(_ context.Context, name string) (*model.Category, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byID {
		if c.Name == name {
			cp := *c
			return &cp, false, nil
		}
	}
	c := &model.Category{Name: name}
	_ = c.BeforeCreate(nil)
	c.CreatedAt = time.Now()
	m.byID[c.ID] = c
	cp := *c
	return &cp, true, nil
}

type BusinessRepo struct {
	mu   sync.Mutex
	byID map[string]*model.Business
	seq  time.Time
}

func NewBusinessRepo() *BusinessRepo {
	return &BusinessRepo{byID: map[string]*model.Business{}, seq: time.Now()}
}

func (m *BusinessRepo) Create(_ context.Context, b *model.Business) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	// strictly increasing timestamps keep ordering deterministic
	m.seq = m.seq.Add(time.Second)
	b.CreatedAt = m.seq
	b.UpdatedAt = m.seq
	cp := *b
	cp.Category = nil
	m.byID[b.ID] = &cp
	return nil
}

func (m *BusinessRepo) GetByID(_ context.Context, id string) (*model.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.byID[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *BusinessRepo) GetActiveByID(ctx context.Context, id string) (*model.Business, error) {
	b, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.IsActive {
		return nil, repository.ErrNotFound
	}
	return b, nil
}

func (m *BusinessRepo) List(_ context.Context, f repository.BusinessFilter) ([]model.Business, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	search := strings.ToLower(f.Search)
	var matched []model.Business
	for _, b := range m.byID {
		if !b.IsActive {
			continue
		}
		if f.CategoryID != "" && b.CategoryID != f.CategoryID {
			continue
		}
		if f.City != "" && b.City != f.City {
			continue
		}
		if f.County != "" && b.County != f.County {
			continue
		}
		if f.IsFeatured != nil && b.IsFeatured != *f.IsFeatured {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(b.Name), search) &&
			!strings.Contains(strings.ToLower(b.Description), search) &&
			!strings.Contains(strings.ToLower(b.City), search) {
			continue
		}
		matched = append(matched, *b)
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch f.Ordering {
		case repository.OrderCreatedAsc:
			return a.CreatedAt.Before(b.CreatedAt)
		case repository.OrderRatingAsc:
			return a.Rating < b.Rating
		case repository.OrderRatingDesc:
			return a.Rating > b.Rating
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})

	total := int64(len(matched))
	if f.Offset >= len(matched) {
		return []model.Business{}, total, nil
	}
	end := f.Offset + f.Limit
	if f.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[f.Offset:end], total, nil
}

func (m *BusinessRepo) Update(_ context.Context, b *model.Business) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[b.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *b
	cp.Category = nil
	m.byID[b.ID] = &cp
	return nil
}

func (m *BusinessRepo) Deactivate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok || !b.IsActive {
		return repository.ErrNotFound
	}
	b.IsActive = false
	return nil
}

type FavoriteRepo struct {
	mu    sync.Mutex
	items []*model.Favorite
	seq   time.Time
	// businesses backs the embedded business on ListByUser
	businesses *BusinessRepo
}

func NewFavoriteRepo(businesses *BusinessRepo) *FavoriteRepo {
	return &FavoriteRepo{businesses: businesses, seq: time.Now()}
}

func (m *FavoriteRepo) Create(_ context.Context, f *model.Favorite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.UserID == f.UserID && existing.BusinessID == f.BusinessID {
			return &repository.DuplicateKeyError{Constraint: "favorites_user_business_key", Field: "favorite"}
		}
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	m.seq = m.seq.Add(time.Second)
	f.CreatedAt = m.seq
	cp := *f
	m.items = append(m.items, &cp)
	return nil
}

func (m *FavoriteRepo) Exists(_ context.Context, userID, businessID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.items {
		if f.UserID == userID && f.BusinessID == businessID {
			return true, nil
		}
	}
	return false, nil
}

func (m *FavoriteRepo) Delete(_ context.Context, userID, businessID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, f := range m.items {
		if f.UserID == userID && f.BusinessID == businessID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *FavoriteRepo) ListByUser(ctx context.Context, userID string) ([]model.Favorite, error) {
	m.mu.Lock()
	var out []model.Favorite
	for _, f := range m.items {
		if f.UserID == userID {
			out = append(out, *f)
		}
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	for i := range out {
		if b, err := m.businesses.GetByID(ctx, out[i].BusinessID); err == nil {
			out[i].Business = b
		}
	}
	return out, nil
}

func (m *FavoriteRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

type RevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func NewRevocationStore() *RevocationStore {
	return &RevocationStore{revoked: map[string]time.Duration{}}
}

func (m *RevocationStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = ttl
	return nil
}

func (m *RevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[jti]
	return ok, nil
}

func (m *RevocationStore) Ping(context.Context) error { return nil }
func (m *RevocationStore) Close() error               { return nil }
