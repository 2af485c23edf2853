package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/honeycarbs/job-portal/internal/mcp/tools"
	sheetsclient "github.com/honeycarbs/job-portal/pkg/sheets"
)

// sheetsWriter is the subset of the Sheets client the exporter uses
type sheetsWriter interface {
	AppendValues(ctx context.Context, spreadsheetID, a1Range string, values [][]any) error
	UpdateValues(ctx context.Context, spreadsheetID, a1Range string, values [][]any) error
	ClearValues(ctx context.Context, spreadsheetID, a1Range string) error
}

// SheetsExporter writes job rows through the Google Sheets client
type SheetsExporter struct {
	client sheetsWriter
	now    func() time.Time
}

var _ tools.SheetsExporter = (*SheetsExporter)(nil)

// NewSheetsExporter wraps a configured Sheets client
func NewSheetsExporter(client *sheetsclient.Client) *SheetsExporter {
	return &SheetsExporter{client: client, now: time.Now}
}

// Export clears the tab when asked, then appends or overwrites the rows
func (e *SheetsExporter) Export(ctx context.Context, params tools.SheetsExportParams) (tools.SheetsExportResult, error) {
	result := tools.SheetsExportResult{
		SpreadsheetID: params.Sheet.SpreadsheetID,
		Tab:           params.Sheet.Tab,
	}

	if len(params.Rows) == 0 {
		result.Message = "no rows to export"
		return result, nil
	}

	a1Range := buildRange(params)
	values := convertRowsToValues(params.Rows)

	if params.ClearTab {
		if err := e.client.ClearValues(ctx, params.Sheet.SpreadsheetID, buildClearRange(params.Sheet.Tab)); err != nil {
			return result, fmt.Errorf("sheets: failed to clear sheet: %w", err)
		}
	}

	if params.Upsert {
		if err := e.client.UpdateValues(ctx, params.Sheet.SpreadsheetID, a1Range, values); err != nil {
			return result, fmt.Errorf("sheets: failed to upsert rows: %w", err)
		}
	} else {
		if err := e.client.AppendValues(ctx, params.Sheet.SpreadsheetID, a1Range, values); err != nil {
			return result, fmt.Errorf("sheets: failed to append rows: %w", err)
		}
	}

	result.WrittenRows = len(params.Rows)
	result.CompletedAt = e.now().UTC().Format(time.RFC3339)
	result.Message = fmt.Sprintf("successfully exported %d row(s)", result.WrittenRows)

	return result, nil
}

func buildRange(params tools.SheetsExportParams) string {
	if params.Sheet.Range != "" {
		return params.Sheet.Range
	}

	tab := params.Sheet.Tab
	if tab == "" {
		tab = "Sheet1"
	}

	if params.Upsert {
		return fmt.Sprintf("%s!A2", tab)
	}
	return fmt.Sprintf("%s!A1", tab)
}

func buildClearRange(tab string) string {
	if tab == "" {
		tab = "Sheet1"
	}
	return fmt.Sprintf("%s!A2:Z", tab)
}

func convertRowsToValues(rows []tools.SheetRow) [][]any {
	values := make([][]any, len(rows))
	for i, row := range rows {
		values[i] = []any{
			row.JobID,
			row.Title,
			row.Company,
			row.Location,
			row.URL,
			row.Status,
			row.Notes,
			row.UpdatedAt,
		}
	}
	return values
}
