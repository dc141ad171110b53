package backup

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// SheetsTarget appends snapshot expenses to a spreadsheet, as an alternative
// backup sink to the remote backend.
type SheetsTarget struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

func NewSheetsTarget(ctx context.Context, serviceAccountFile, spreadsheetID, sheetName string) (*SheetsTarget, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("missing spreadsheet id")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsFile(serviceAccountFile),
		goption.WithScopes(gsheet.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &SheetsTarget{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// SetData implements Target by rewriting the expense sheet with the snapshot.
func (t *SheetsTarget) SetData(ctx context.Context, snapshot Snapshot) error {
	rows := make([][]any, 0, len(snapshot.Expenses)+1)
	rows = append(rows, []any{"expense_id", "date", "time", "amount", "category_id", "note", "payment_mode", "location"})
	for _, e := range snapshot.Expenses {
		rows = append(rows, []any{
			e.ExpenseID,
			e.Date,
			e.Time,
			strconv.FormatFloat(e.Amount, 'f', 2, 64),
			e.CategoryID,
			e.Note,
			e.PaymentMode,
			e.Location,
		})
	}

	clearCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rangeRef := t.sheetName + "!A:H"
	if _, err := t.svc.Spreadsheets.Values.Clear(t.spreadsheetID, rangeRef, &gsheet.ClearValuesRequest{}).
		Context(clearCtx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", t.sheetName, err)
	}

	_, err := t.svc.Spreadsheets.Values.Update(t.spreadsheetID, t.sheetName+"!A1", &gsheet.ValueRange{
		Values: rows,
	}).ValueInputOption("RAW").Context(clearCtx).Do()
	if err != nil {
		return fmt.Errorf("write sheet %s: %w", t.sheetName, err)
	}
	return nil
}
