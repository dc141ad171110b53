package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"expensewise/internal/core"
	"expensewise/internal/kvstore"
	"expensewise/internal/schema"
)

// CategoryService is the accessor for the categories collection.
type CategoryService struct {
	store    kvstore.Store
	userID   string
	notifier BackupNotifier
}

func NewCategoryService(store kvstore.Store, userID string, notifier BackupNotifier) *CategoryService {
	return &CategoryService{store: store, userID: userID, notifier: notifier}
}

func (s *CategoryService) GetAll(ctx context.Context) ([]core.Category, error) {
	return readSlice[core.Category](ctx, s.store, schema.KeyCategories)
}

// GetByID returns the category with the given id, or ErrNotFound.
func (s *CategoryService) GetByID(ctx context.Context, id string) (core.Category, error) {
	cats, err := s.GetAll(ctx)
	if err != nil {
		return core.Category{}, err
	}
	for _, c := range cats {
		if c.CategoryID == id {
			return c, nil
		}
	}
	return core.Category{}, fmt.Errorf("category %s: %w", id, core.ErrNotFound)
}

// NameExists reports whether a category with the given name exists,
// compared case-insensitively. Uniqueness is a UI-boundary contract; Add
// itself stays permissive.
func (s *CategoryService) NameExists(ctx context.Context, name string) (bool, error) {
	cats, err := s.GetAll(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range cats {
		if strings.EqualFold(strings.TrimSpace(c.Name), strings.TrimSpace(name)) {
			return true, nil
		}
	}
	return false, nil
}

// Add assigns a generated id and the device user id, then appends.
func (s *CategoryService) Add(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	cats, err := s.GetAll(ctx)
	if err != nil {
		return core.Category{}, err
	}

	c.CategoryID = uuid.NewString()
	c.UserID = s.userID
	if c.IsActive == "" {
		c.IsActive = "1"
	}

	cats = append(cats, c)
	if err := writeSlice(ctx, s.store, schema.KeyCategories, cats); err != nil {
		return core.Category{}, err
	}
	notify(ctx, s.notifier, "category_added")
	return c, nil
}

// CategoryPatch carries the updatable category fields; nil means unchanged.
type CategoryPatch struct {
	Name     *string
	Icon     *string
	Color    *string
	IsActive *string
}

func (s *CategoryService) Update(ctx context.Context, id string, patch CategoryPatch) (core.Category, error) {
	cats, err := s.GetAll(ctx)
	if err != nil {
		return core.Category{}, err
	}

	for i := range cats {
		if cats[i].CategoryID != id {
			continue
		}
		if patch.Name != nil {
			cats[i].Name = *patch.Name
		}
		if patch.Icon != nil {
			cats[i].Icon = *patch.Icon
		}
		if patch.Color != nil {
			cats[i].Color = *patch.Color
		}
		if patch.IsActive != nil {
			cats[i].IsActive = *patch.IsActive
		}
		if err := cats[i].Validate(); err != nil {
			return core.Category{}, err
		}
		if err := writeSlice(ctx, s.store, schema.KeyCategories, cats); err != nil {
			return core.Category{}, err
		}
		notify(ctx, s.notifier, "category_updated")
		return cats[i], nil
	}
	return core.Category{}, fmt.Errorf("category %s: %w", id, core.ErrNotFound)
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	cats, err := s.GetAll(ctx)
	if err != nil {
		return err
	}

	kept := cats[:0]
	found := false
	for _, c := range cats {
		if c.CategoryID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return fmt.Errorf("category %s: %w", id, core.ErrNotFound)
	}

	if err := writeSlice(ctx, s.store, schema.KeyCategories, kept); err != nil {
		return err
	}
	notify(ctx, s.notifier, "category_deleted")
	return nil
}
