package records

import (
	"context"
	"errors"
	"testing"

	"expensewise/internal/core"
	"expensewise/internal/kvstore"
)

func TestCategoryAddAndNameExists(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(kvstore.NewMemory(), "device-1", nil)

	added, err := svc.Add(ctx, core.Category{Name: "Coffee", Icon: "coffee", Color: "#6f4e37"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if added.CategoryID == "" || added.UserID != "device-1" || added.IsActive != "1" {
		t.Fatalf("generated fields missing: %+v", added)
	}

	cases := []struct {
		name string
		want bool
	}{
		{"Coffee", true},
		{"coffee", true},
		{"  COFFEE  ", true}, // case-insensitive, whitespace-trimmed
		{"Tea", false},
	}
	for _, tc := range cases {
		got, err := svc.NameExists(ctx, tc.name)
		if err != nil {
			t.Fatalf("NameExists(%q): %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("NameExists(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}

	// The accessor itself stays permissive: a duplicate add succeeds.
	if _, err := svc.Add(ctx, core.Category{Name: "coffee"}); err != nil {
		t.Fatalf("duplicate add must not fail at the accessor: %v", err)
	}
}

func TestCategoryUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(kvstore.NewMemory(), "device-1", nil)

	c, err := svc.Add(ctx, core.Category{Name: "Books"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	name := "Books & Magazines"
	updated, err := svc.Update(ctx, c.CategoryID, CategoryPatch{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != name {
		t.Fatalf("name = %q after update", updated.Name)
	}

	if _, err := svc.Update(ctx, "missing", CategoryPatch{Name: &name}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("update missing: err = %v, want ErrNotFound", err)
	}

	if err := svc.Delete(ctx, c.CategoryID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, c.CategoryID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete: err = %v, want ErrNotFound", err)
	}
}
