package records

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"expensewise/internal/core"
	"expensewise/internal/kvstore"
	"expensewise/internal/schema"
)

// ExpenseService is the accessor for the expenses collection. Reads join
// each expense with its category for display; the joined fields are never
// written back.
type ExpenseService struct {
	store      kvstore.Store
	categories *CategoryService
	userID     string
	notifier   BackupNotifier
	now        func() time.Time
}

func NewExpenseService(store kvstore.Store, categories *CategoryService, userID string, notifier BackupNotifier) *ExpenseService {
	return &ExpenseService{
		store:      store,
		categories: categories,
		userID:     userID,
		notifier:   notifier,
		now:        time.Now,
	}
}

// GetAll returns all expenses joined with their categories, most recent
// first (by date then time; the sort is stable so ties keep stored order).
func (s *ExpenseService) GetAll(ctx context.Context) ([]core.ExpenseView, error) {
	expenses, err := readSlice[core.Expense](ctx, s.store, schema.KeyExpenses)
	if err != nil {
		return nil, err
	}
	views, err := s.join(ctx, expenses)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Date+" "+views[i].Time > views[j].Date+" "+views[j].Time
	})
	return views, nil
}

// GetByID returns a single joined expense, or ErrNotFound.
func (s *ExpenseService) GetByID(ctx context.Context, id string) (core.ExpenseView, error) {
	views, err := s.GetAll(ctx)
	if err != nil {
		return core.ExpenseView{}, err
	}
	for _, v := range views {
		if v.ExpenseID == id {
			return v, nil
		}
	}
	return core.ExpenseView{}, fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
}

// Add assigns id, owner and creation timestamp, then appends.
func (s *ExpenseService) Add(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.Time == "" {
		e.Time = core.FormatClock(s.now())
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	expenses, err := readSlice[core.Expense](ctx, s.store, schema.KeyExpenses)
	if err != nil {
		return core.Expense{}, err
	}

	e.ExpenseID = uuid.NewString()
	e.UserID = s.userID
	e.CreatedAt = s.now().UTC().Format(time.RFC3339)

	expenses = append(expenses, e)
	if err := writeSlice(ctx, s.store, schema.KeyExpenses, expenses); err != nil {
		return core.Expense{}, err
	}
	notify(ctx, s.notifier, "expense_added")
	return e, nil
}

// ExpensePatch carries the updatable expense fields; nil means unchanged.
type ExpensePatch struct {
	Amount      *float64
	CategoryID  *string
	Date        *string
	Time        *string
	Note        *string
	PaymentMode *string
	Location    *string
}

func (s *ExpenseService) Update(ctx context.Context, id string, patch ExpensePatch) (core.Expense, error) {
	expenses, err := readSlice[core.Expense](ctx, s.store, schema.KeyExpenses)
	if err != nil {
		return core.Expense{}, err
	}

	for i := range expenses {
		if expenses[i].ExpenseID != id {
			continue
		}
		if patch.Amount != nil {
			expenses[i].Amount = *patch.Amount
		}
		if patch.CategoryID != nil {
			expenses[i].CategoryID = *patch.CategoryID
		}
		if patch.Date != nil {
			expenses[i].Date = *patch.Date
		}
		if patch.Time != nil {
			expenses[i].Time = *patch.Time
		}
		if patch.Note != nil {
			expenses[i].Note = *patch.Note
		}
		if patch.PaymentMode != nil {
			expenses[i].PaymentMode = *patch.PaymentMode
		}
		if patch.Location != nil {
			expenses[i].Location = *patch.Location
		}
		if err := expenses[i].Validate(); err != nil {
			return core.Expense{}, err
		}
		if err := writeSlice(ctx, s.store, schema.KeyExpenses, expenses); err != nil {
			return core.Expense{}, err
		}
		notify(ctx, s.notifier, "expense_updated")
		return expenses[i], nil
	}
	return core.Expense{}, fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
}

func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	expenses, err := readSlice[core.Expense](ctx, s.store, schema.KeyExpenses)
	if err != nil {
		return err
	}

	kept := expenses[:0]
	found := false
	for _, e := range expenses {
		if e.ExpenseID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return fmt.Errorf("expense %s: %w", id, core.ErrNotFound)
	}

	if err := writeSlice(ctx, s.store, schema.KeyExpenses, kept); err != nil {
		return err
	}
	notify(ctx, s.notifier, "expense_deleted")
	return nil
}

// SearchByDateRange returns joined expenses whose date falls within
// [from, to] inclusive. An inverted range yields an empty result.
func (s *ExpenseService) SearchByDateRange(ctx context.Context, from, to string) ([]core.ExpenseView, error) {
	views, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]core.ExpenseView, 0, len(views))
	for _, v := range views {
		if core.DateInRange(v.Date, from, to) {
			matched = append(matched, v)
		}
	}
	return matched, nil
}

// LastNDays returns joined expenses from the last n calendar days, today
// inclusive. Used for the assistant snapshot and the 7-day chart.
func (s *ExpenseService) LastNDays(ctx context.Context, n int) ([]core.ExpenseView, error) {
	today := s.now()
	from := core.FormatDate(today.AddDate(0, 0, -(n - 1)))
	return s.SearchByDateRange(ctx, from, core.FormatDate(today))
}

func (s *ExpenseService) join(ctx context.Context, expenses []core.Expense) ([]core.ExpenseView, error) {
	cats, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]core.Category, len(cats))
	for _, c := range cats {
		byID[c.CategoryID] = c
	}

	views := make([]core.ExpenseView, len(expenses))
	for i, e := range expenses {
		v := core.ExpenseView{Expense: e}
		if c, ok := byID[e.CategoryID]; ok {
			v.CategoryName = c.Name
			v.Icon = c.Icon
			v.Color = c.Color
		} else {
			// Referential gap: the category was deleted after the fact.
			v.CategoryName = core.UnknownCategoryName
			v.Icon = "help_outline"
			v.Color = "#95a5a6"
		}
		views[i] = v
	}
	return views, nil
}
