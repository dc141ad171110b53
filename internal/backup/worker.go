package backup

import (
	"context"
	"fmt"
	"time"

	"expensewise/internal/core"
	"expensewise/internal/log"
	"expensewise/internal/records"
)

// Target receives snapshots. The remote backend client is the primary
// implementation; the spreadsheet exporter is an alternative sink.
type Target interface {
	SetData(ctx context.Context, snapshot Snapshot) error
}

// Gate decides whether a backup is currently due, based on the last backup
// timestamp in settings and the configured debounce window.
type Gate struct {
	Debounce time.Duration
}

// Due reports whether a backup should run now. An empty or unparseable
// last-backup value means a backup has never happened, so one is due.
func (g Gate) Due(lastBackup string, now time.Time) bool {
	if lastBackup == "" {
		return true
	}
	last, err := time.Parse(time.RFC3339, lastBackup)
	if err != nil {
		return true
	}
	return now.Sub(last) >= g.Debounce
}

// Worker takes snapshots from the live services and pushes them to a target.
type Worker struct {
	categories *records.CategoryService
	expenses   *records.ExpenseService
	budgets    *records.BudgetService
	settings   *records.SettingsService
	target     Target
	gate       Gate
	logger     *log.Logger
	now        func() time.Time
}

func NewWorker(
	categories *records.CategoryService,
	expenses *records.ExpenseService,
	budgets *records.BudgetService,
	settings *records.SettingsService,
	target Target,
	gate Gate,
	logger *log.Logger,
) *Worker {
	return &Worker{
		categories: categories,
		expenses:   expenses,
		budgets:    budgets,
		settings:   settings,
		target:     target,
		gate:       gate,
		logger:     logger,
		now:        time.Now,
	}
}

// HandleJob processes one queued backup request. The debounce gate keeps a
// burst of CRUD activity from re-uploading the same data.
func (w *Worker) HandleJob(ctx context.Context, job *Job) error {
	settings, err := w.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	if !settings.IsBackup {
		w.logger.DebugContext(ctx, "Backup disabled in settings, dropping job", "reason", job.Reason)
		return nil
	}
	if !w.gate.Due(settings.LastBackup, w.now()) {
		w.logger.DebugContext(ctx, "Backup not due yet", "reason", job.Reason, "last_backup", settings.LastBackup)
		return nil
	}
	return w.Backup(ctx, job.Reason)
}

// Backup uploads a fresh snapshot unconditionally and records success in
// settings.last_backup. Local data is never touched on failure.
func (w *Worker) Backup(ctx context.Context, reason string) error {
	snapshot, err := w.snapshot(ctx)
	if err != nil {
		return fmt.Errorf("take snapshot: %w", err)
	}

	if err := w.target.SetData(ctx, snapshot); err != nil {
		return fmt.Errorf("push snapshot: %w", err)
	}

	stamp := w.now().UTC().Format(time.RFC3339)
	if _, err := w.settings.Patch(ctx, records.SettingsPatch{LastBackup: &stamp}); err != nil {
		return fmt.Errorf("record backup timestamp: %w", err)
	}

	w.logger.InfoContext(ctx, "Backup completed",
		"reason", reason,
		"expenses", len(snapshot.Expenses),
		"categories", len(snapshot.Categories),
		"budgets", len(snapshot.Budgets))
	return nil
}

func (w *Worker) snapshot(ctx context.Context) (Snapshot, error) {
	categories, err := w.categories.GetAll(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read categories: %w", err)
	}
	views, err := w.expenses.GetAll(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read expenses: %w", err)
	}
	expenses := make([]core.Expense, len(views))
	for i, v := range views {
		expenses[i] = v.Expense
	}
	budgets, err := w.budgets.GetAll(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read budgets: %w", err)
	}
	settings, err := w.settings.Get(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read settings: %w", err)
	}

	return Snapshot{
		Categories: categories,
		Expenses:   expenses,
		Budgets:    budgets,
		Settings:   settings,
		TakenAt:    w.now().UTC(),
	}, nil
}

// RunScheduler periodically re-checks the debounce gate so a backup happens
// even when no CRUD activity produces queue jobs. Used by the API process
// when no AMQP queue is configured.
func (w *Worker) RunScheduler(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.HandleJob(ctx, NewJob("scheduled")); err != nil {
				w.logger.WarnContext(ctx, "Scheduled backup failed", "error", err)
			}
		}
	}
}
