package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"expensewise/internal/core"
	"expensewise/internal/kvstore"
	"expensewise/internal/records"
	"expensewise/internal/schema"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store := kvstore.NewMemory()
	if err := schema.NewSyncer(store, "test").Run(context.Background()); err != nil {
		t.Fatalf("schema sync: %v", err)
	}

	categories := records.NewCategoryService(store, "dev", nil)
	expenses := records.NewExpenseService(store, categories, "dev", nil)
	budgets := records.NewBudgetService(store, "dev", nil)
	settings := records.NewSettingsService(store)

	s := NewServer(":0", categories, expenses, budgets, settings, nil)
	t.Cleanup(func() { s.rateLimiter.stop() })
	return s
}

func doJSON(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, s, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: got %d, want 200", path, rec.Code)
		}
	}
}

func TestListCategoriesIncludesBuiltins(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/categories", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rec.Code)
	}
	var cats []core.Category
	if err := json.Unmarshal(rec.Body.Bytes(), &cats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cats) != len(core.BuiltinCategories()) {
		t.Fatalf("got %d categories, want %d", len(cats), len(core.BuiltinCategories()))
	}
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/categories", map[string]any{"name": "Coffee"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d, want 201: %s", rec.Code, rec.Body.String())
	}

	// Same name with different case must be rejected.
	rec = doJSON(t, s, http.MethodPost, "/api/categories", map[string]any{"name": "coffee"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate: got %d, want 409", rec.Code)
	}

	// Duplicating a builtin name is a conflict too.
	rec = doJSON(t, s, http.MethodPost, "/api/categories", map[string]any{"name": "Groceries"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("builtin duplicate: got %d, want 409", rec.Code)
	}
}

func TestUpdateCategoryKeepsOwnName(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/categories", map[string]any{"name": "Pets"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created core.Category
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// A full-object update resending the unchanged name must not conflict
	// with the record itself.
	rec = doJSON(t, s, http.MethodPut, "/api/categories/"+created.CategoryID, map[string]any{
		"name": "Pets",
		"icon": "paw",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var updated core.Category
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.Icon != "paw" || updated.Name != "Pets" {
		t.Fatalf("update not applied: %+v", updated)
	}

	// Case-only variant of the own name is still the same name.
	rec = doJSON(t, s, http.MethodPut, "/api/categories/"+created.CategoryID, map[string]any{"name": "PETS"})
	if rec.Code != http.StatusOK {
		t.Fatalf("case variant: got %d, want 200: %s", rec.Code, rec.Body.String())
	}

	// Renaming onto another record's name still conflicts.
	rec = doJSON(t, s, http.MethodPut, "/api/categories/"+created.CategoryID, map[string]any{"name": "Groceries"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("rename to taken name: got %d, want 409", rec.Code)
	}
}

func TestCreateCategoryValidation(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/categories", map[string]any{"name": ""})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty name: got %d, want 422", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/categories", map[string]any{
		"name":  strings.Repeat("x", 61),
		"color": "#ffffff",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("long name: got %d, want 422", rec.Code)
	}
}

func TestExpenseRoundTrip(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/expenses", map[string]any{
		"amount":       12.50,
		"category_id":  "1",
		"date":         "2025-06-01",
		"payment_mode": "card",
		"note":         "lunch",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created core.Expense
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ExpenseID == "" {
		t.Fatal("expense id not assigned")
	}

	rec = doJSON(t, s, http.MethodGet, "/api/expenses/"+created.ExpenseID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: got %d, want 200", rec.Code)
	}
	var view core.ExpenseView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.CategoryName != "Food & Dining" {
		t.Fatalf("category name = %q, want Food & Dining", view.CategoryName)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/expenses/"+created.ExpenseID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: got %d, want 204", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/expenses/"+created.ExpenseID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted: got %d, want 404", rec.Code)
	}
}

func TestExpenseValidation(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"zero amount", map[string]any{"amount": 0, "category_id": "1", "date": "2025-06-01", "payment_mode": "cash"}},
		{"bad date", map[string]any{"amount": 5, "category_id": "1", "date": "06/01/2025", "payment_mode": "cash"}},
		{"bad payment mode", map[string]any{"amount": 5, "category_id": "1", "date": "2025-06-01", "payment_mode": "cheque"}},
	}
	for _, tc := range cases {
		rec := doJSON(t, s, http.MethodPost, "/api/expenses", tc.body)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: got %d, want 422", tc.name, rec.Code)
		}
	}
}

func TestSearchExpensesRequiresRange(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/expenses/search?from=2025-06-01", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rec.Code)
	}
}

func TestBudgetOverlapConflict(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/budgets", map[string]any{
		"amount": 1000.0, "fromDate": "2025-06-01", "toDate": "2025-06-30",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: got %d, want 201: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodPost, "/api/budgets", map[string]any{
		"amount": 500.0, "fromDate": "2025-06-15", "toDate": "2025-07-15",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("overlap: got %d, want 409", rec.Code)
	}
}

func TestActiveBudgetNotFound(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/budgets/active", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got %d, want 404", rec.Code)
	}
}

func TestPatchSettings(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPatch, "/api/settings", map[string]any{
		"theme_mode": "dark",
		"currency":   "EUR",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var settings core.Settings
	if err := json.Unmarshal(rec.Body.Bytes(), &settings); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if settings.ThemeMode != "dark" || settings.Currency != "EUR" {
		t.Fatalf("patch not applied: %+v", settings)
	}
	if settings.AppVersion != "test" {
		t.Fatalf("app version = %q, want test", settings.AppVersion)
	}
}

func TestPatchSettingsRejectsBadTheme(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPatch, "/api/settings", map[string]any{"theme_mode": "neon"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("got %d, want 422", rec.Code)
	}
}

func TestAssistantUnconfigured(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/assistant", map[string]any{"question": "how much did I spend?"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("got %d, want 503", rec.Code)
	}
}

func TestMalformedBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rec.Code)
	}
}
