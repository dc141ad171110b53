// Package schema holds the per-kind field/default definitions and the sync
// engine that reconciles persisted records against them on every bootstrap.
package schema

// Storage keys for the four record kinds. The sync engine and the accessors
// in internal/records must agree on these.
const (
	KeyCategories = "categories"
	KeyExpenses   = "expenses"
	KeyBudget     = "budget"
	KeySettings   = "settings"
)

// Field is one schema entry: a field name and the default used when a stored
// record lacks the field.
type Field struct {
	Name    string
	Default any
}

// Schema is an ordered field list for one record kind. Reconciling a record
// against it yields exactly these fields, no more, no fewer.
type Schema []Field

// Keys returns the field names in schema order.
func (s Schema) Keys() []string {
	keys := make([]string, len(s))
	for i, f := range s {
		keys[i] = f.Name
	}
	return keys
}

// Defaults for absent fields mirror the zero values the stored JSON layout
// uses: empty strings for ids and dates, float64 zero for amounts, and the
// historical string flags ("1"/"0") for category state.
var (
	Category = Schema{
		{Name: "category_id", Default: ""},
		{Name: "name", Default: ""},
		{Name: "icon", Default: "category"},
		{Name: "color", Default: "#7f8c8d"},
		{Name: "is_active", Default: "1"},
		{Name: "user_id", Default: ""},
	}

	Expense = Schema{
		{Name: "expense_id", Default: ""},
		{Name: "amount", Default: float64(0)},
		{Name: "category_id", Default: ""},
		{Name: "date", Default: ""},
		{Name: "time", Default: ""},
		{Name: "note", Default: ""},
		{Name: "payment_mode", Default: "cash"},
		{Name: "location", Default: ""},
		{Name: "user_id", Default: ""},
		{Name: "created_at", Default: ""},
	}

	Budget = Schema{
		{Name: "budget_id", Default: ""},
		{Name: "amount", Default: float64(0)},
		{Name: "fromDate", Default: ""},
		{Name: "toDate", Default: ""},
		{Name: "user_id", Default: ""},
	}

	Settings = Schema{
		{Name: "id", Default: "1"},
		{Name: "theme_mode", Default: "light"},
		{Name: "currency", Default: "USD"},
		{Name: "notifications", Default: true},
		{Name: "backup_frequency", Default: "daily"},
		{Name: "is_backup", Default: false},
		{Name: "last_backup", Default: ""},
		{Name: "app_version", Default: ""},
		{Name: "is_app_updated", Default: false},
		{Name: "emerald_threshold", Default: float64(500)},
		{Name: "rose_threshold", Default: float64(1000)},
		{Name: "auto_thresholds", Default: false},
	}
)

// Reconcile returns a new record holding exactly the schema's fields: the
// stored value when the key is present (even if falsy), else the default.
// Fields absent from the schema are dropped.
func Reconcile(record map[string]any, s Schema) map[string]any {
	out := make(map[string]any, len(s))
	for _, f := range s {
		if v, ok := record[f.Name]; ok {
			out[f.Name] = v
		} else {
			out[f.Name] = f.Default
		}
	}
	return out
}

// ReconcileAll reconciles every record, preserving input order.
func ReconcileAll(records []map[string]any, s Schema) []map[string]any {
	out := make([]map[string]any, len(records))
	for i, r := range records {
		out[i] = Reconcile(r, s)
	}
	return out
}
