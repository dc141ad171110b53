package core

import (
	"strings"
)

const (
	// BuiltinUserID marks records shipped with the application.
	BuiltinUserID = "0"

	// UnknownCategoryName is the display fallback when an expense
	// references a category that no longer exists.
	UnknownCategoryName = "Uncategorized"
)

// Payment modes accepted for an expense.
const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentUPI    = "upi"
	PaymentOnline = "online"
)

type (
	// Category is a spending category, either built-in (UserID == "0")
	// or created by the user on this device.
	Category struct {
		CategoryID string `json:"category_id"`
		Name       string `json:"name"`
		Icon       string `json:"icon"`
		Color      string `json:"color"`
		IsActive   string `json:"is_active"`
		UserID     string `json:"user_id"`
	}

	// Expense is a single recorded expense. Category display fields are
	// derived at read time and never stored, see ExpenseView.
	Expense struct {
		ExpenseID   string  `json:"expense_id"`
		Amount      float64 `json:"amount"`
		CategoryID  string  `json:"category_id"`
		Date        string  `json:"date"` // YYYY-MM-DD
		Time        string  `json:"time"` // HH:MM:SS
		Note        string  `json:"note"`
		PaymentMode string  `json:"payment_mode"`
		Location    string  `json:"location"`
		UserID      string  `json:"user_id"`
		CreatedAt   string  `json:"created_at"`
	}

	// ExpenseView is an Expense joined with its category for display.
	ExpenseView struct {
		Expense
		CategoryName string `json:"category_name"`
		Icon         string `json:"icon"`
		Color        string `json:"color"`
	}

	// Budget is a spending limit over an inclusive date range.
	Budget struct {
		BudgetID string  `json:"budget_id"`
		Amount   float64 `json:"amount"`
		FromDate string  `json:"fromDate"` // YYYY-MM-DD
		ToDate   string  `json:"toDate"`   // YYYY-MM-DD
		UserID   string  `json:"user_id"`
	}

	// Settings is the single per-device settings object.
	Settings struct {
		ID               string  `json:"id"`
		ThemeMode        string  `json:"theme_mode"`
		Currency         string  `json:"currency"`
		Notifications    bool    `json:"notifications"`
		BackupFrequency  string  `json:"backup_frequency"`
		IsBackup         bool    `json:"is_backup"`
		LastBackup       string  `json:"last_backup"` // RFC3339, empty when never backed up
		AppVersion       string  `json:"app_version"`
		IsAppUpdated     bool    `json:"is_app_updated"`
		EmeraldThreshold float64 `json:"emerald_threshold"`
		RoseThreshold    float64 `json:"rose_threshold"`
		AutoThresholds   bool    `json:"auto_thresholds"`
	}
)

// IsBuiltin reports whether the category ships with the application.
func (c Category) IsBuiltin() bool {
	return c.UserID == BuiltinUserID
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 60 {
		return ErrNameTooLong
	}
	return nil
}

func (e Expense) Validate() error {
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if _, err := ParseDate(e.Date); err != nil {
		return err
	}
	if e.Time != "" {
		if err := ValidateClock(e.Time); err != nil {
			return err
		}
	}
	switch e.PaymentMode {
	case PaymentCash, PaymentCard, PaymentUPI, PaymentOnline:
	default:
		return ErrInvalidPaymentMode
	}
	if len(e.Note) > 200 {
		return ErrNoteTooLong
	}
	return nil
}

func (b Budget) Validate() error {
	if b.Amount <= 0 {
		return ErrInvalidAmount
	}
	from, err := ParseDate(b.FromDate)
	if err != nil {
		return err
	}
	to, err := ParseDate(b.ToDate)
	if err != nil {
		return err
	}
	if to.Before(from) {
		return ErrInvertedRange
	}
	return nil
}

// Overlaps reports whether two budgets cover intersecting date ranges.
// Malformed dates never overlap.
func (b Budget) Overlaps(other Budget) bool {
	f1, err := ParseDate(b.FromDate)
	if err != nil {
		return false
	}
	t1, err := ParseDate(b.ToDate)
	if err != nil {
		return false
	}
	f2, err := ParseDate(other.FromDate)
	if err != nil {
		return false
	}
	t2, err := ParseDate(other.ToDate)
	if err != nil {
		return false
	}
	return !f1.After(t2) && !f2.After(t1)
}
