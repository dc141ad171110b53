// Package http exposes the record accessors and reports as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"expensewise/internal/assistant"
	"expensewise/internal/cache"
	"expensewise/internal/core"
	"expensewise/internal/records"
)

// Asker is the assistant surface the API needs; nil disables the endpoint.
type Asker interface {
	Ask(ctx context.Context, question string, recent []core.ExpenseView) (string, error)
}

var _ Asker = (*assistant.Client)(nil)

type Server struct {
	http.Server

	categories *records.CategoryService
	expenses   *records.ExpenseService
	budgets    *records.BudgetService
	settings   *records.SettingsService
	asker      Asker

	validate    *validator.Validate
	rateLimiter *rateLimiter

	// reportCache holds rendered report payloads; any write purges it.
	reportCache *cache.LRU[[]byte]

	shutdownOnce sync.Once
	now          func() time.Time
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(
	addr string,
	categories *records.CategoryService,
	expenses *records.ExpenseService,
	budgets *records.BudgetService,
	settings *records.SettingsService,
	asker Asker,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		categories:  categories,
		expenses:    expenses,
		budgets:     budgets,
		settings:    settings,
		asker:       asker,
		validate:    validator.New(),
		rateLimiter: newRateLimiter(120, time.Minute),
		reportCache: cache.NewLRU[[]byte](100, 5*time.Minute),
		now:         time.Now,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/categories", s.with(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.with(s.handleCreateCategory))
	mux.HandleFunc("PUT /api/categories/{id}", s.with(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.with(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/expenses", s.with(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.with(s.handleCreateExpense))
	mux.HandleFunc("GET /api/expenses/search", s.with(s.handleSearchExpenses))
	mux.HandleFunc("GET /api/expenses/{id}", s.with(s.handleGetExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.with(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.with(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/budgets", s.with(s.handleListBudgets))
	mux.HandleFunc("POST /api/budgets", s.with(s.handleCreateBudget))
	mux.HandleFunc("GET /api/budgets/active", s.with(s.handleActiveBudget))
	mux.HandleFunc("PUT /api/budgets/{id}", s.with(s.handleUpdateBudget))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.with(s.handleDeleteBudget))

	mux.HandleFunc("GET /api/settings", s.with(s.handleGetSettings))
	mux.HandleFunc("PATCH /api/settings", s.with(s.handlePatchSettings))

	mux.HandleFunc("GET /api/reports/budget-progress", s.with(s.handleBudgetProgress))
	mux.HandleFunc("GET /api/reports/heatmap", s.with(s.handleHeatmap))
	mux.HandleFunc("GET /api/reports/series", s.with(s.handleSeries))
	mux.HandleFunc("GET /api/reports/series.png", s.with(s.handleSeriesPNG))

	mux.HandleFunc("POST /api/assistant", s.with(s.handleAssistant))

	return s
}

// Shutdown stops the rate limiter cleanup along with the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
