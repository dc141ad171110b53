package core

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrBudgetOverlap      = errors.New("budget overlaps an existing budget")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidClock       = errors.New("invalid time")
	ErrInvertedRange      = errors.New("from date after to date")
	ErrEmptyName          = errors.New("empty name")
	ErrNameTooLong        = errors.New("name too long (max 60 characters)")
	ErrNoteTooLong        = errors.New("note too long (max 200 characters)")
	ErrEmptyCategory      = errors.New("empty category")
	ErrInvalidPaymentMode = errors.New("invalid payment mode")
)
