package records

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"expensewise/internal/core"
	"expensewise/internal/kvstore"
	"expensewise/internal/schema"
)

// BudgetService is the accessor for the budget collection.
type BudgetService struct {
	store    kvstore.Store
	userID   string
	notifier BackupNotifier
}

func NewBudgetService(store kvstore.Store, userID string, notifier BackupNotifier) *BudgetService {
	return &BudgetService{store: store, userID: userID, notifier: notifier}
}

func (s *BudgetService) GetAll(ctx context.Context) ([]core.Budget, error) {
	return readSlice[core.Budget](ctx, s.store, schema.KeyBudget)
}

// Active returns the budget currently governing spend limits: the one with
// the greatest FromDate, ties broken by stored position (later wins). The
// boolean is false when no budget exists.
func (s *BudgetService) Active(ctx context.Context) (core.Budget, bool, error) {
	budgets, err := s.GetAll(ctx)
	if err != nil {
		return core.Budget{}, false, err
	}
	if len(budgets) == 0 {
		return core.Budget{}, false, nil
	}

	active := budgets[0]
	activeFrom, _ := core.ParseDate(active.FromDate)
	for _, b := range budgets[1:] {
		from, err := core.ParseDate(b.FromDate)
		if err != nil {
			continue
		}
		if !from.Before(activeFrom) {
			active = b
			activeFrom = from
		}
	}
	return active, true, nil
}

// Add rejects budgets whose range intersects an existing one. The overlap
// check intentionally applies only here, not on Update.
func (s *BudgetService) Add(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	budgets, err := s.GetAll(ctx)
	if err != nil {
		return core.Budget{}, err
	}
	for _, existing := range budgets {
		if b.Overlaps(existing) {
			return core.Budget{}, fmt.Errorf("range %s..%s: %w", b.FromDate, b.ToDate, core.ErrBudgetOverlap)
		}
	}

	b.BudgetID = uuid.NewString()
	b.UserID = s.userID

	budgets = append(budgets, b)
	if err := writeSlice(ctx, s.store, schema.KeyBudget, budgets); err != nil {
		return core.Budget{}, err
	}
	notify(ctx, s.notifier, "budget_added")
	return b, nil
}

// BudgetPatch carries the updatable budget fields; nil means unchanged.
type BudgetPatch struct {
	Amount   *float64
	FromDate *string
	ToDate   *string
}

func (s *BudgetService) Update(ctx context.Context, id string, patch BudgetPatch) (core.Budget, error) {
	budgets, err := s.GetAll(ctx)
	if err != nil {
		return core.Budget{}, err
	}

	for i := range budgets {
		if budgets[i].BudgetID != id {
			continue
		}
		if patch.Amount != nil {
			budgets[i].Amount = *patch.Amount
		}
		if patch.FromDate != nil {
			budgets[i].FromDate = *patch.FromDate
		}
		if patch.ToDate != nil {
			budgets[i].ToDate = *patch.ToDate
		}
		if err := budgets[i].Validate(); err != nil {
			return core.Budget{}, err
		}
		if err := writeSlice(ctx, s.store, schema.KeyBudget, budgets); err != nil {
			return core.Budget{}, err
		}
		notify(ctx, s.notifier, "budget_updated")
		return budgets[i], nil
	}
	return core.Budget{}, fmt.Errorf("budget %s: %w", id, core.ErrNotFound)
}

func (s *BudgetService) Delete(ctx context.Context, id string) error {
	budgets, err := s.GetAll(ctx)
	if err != nil {
		return err
	}

	kept := budgets[:0]
	found := false
	for _, b := range budgets {
		if b.BudgetID == id {
			found = true
			continue
		}
		kept = append(kept, b)
	}
	if !found {
		return fmt.Errorf("budget %s: %w", id, core.ErrNotFound)
	}

	if err := writeSlice(ctx, s.store, schema.KeyBudget, kept); err != nil {
		return err
	}
	notify(ctx, s.notifier, "budget_deleted")
	return nil
}
