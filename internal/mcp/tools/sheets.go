package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-portal/internal/domain"
)

// SheetRow defines a row to write into Sheets
type SheetRow struct {
	JobID     string `json:"job_id,omitempty" jsonschema:"External job id"`
	Title     string `json:"title,omitempty" jsonschema:"Job title text"`
	Company   string `json:"company,omitempty" jsonschema:"Company name"`
	Location  string `json:"location,omitempty" jsonschema:"Location text"`
	URL       string `json:"url,omitempty" jsonschema:"Application URL"`
	Status    string `json:"status,omitempty" jsonschema:"Pipeline status e.g. applied/interviewing"`
	Notes     string `json:"notes,omitempty" jsonschema:"Free-form notes"`
	UpdatedAt string `json:"updated_at,omitempty" jsonschema:"ISO timestamp of the row"`
}

// SheetTarget names the destination of an export
type SheetTarget struct {
	SpreadsheetID string `json:"spreadsheet_id" jsonschema:"Google Sheets document ID"`
	Tab           string `json:"tab,omitempty" jsonschema:"Tab name, Sheet1 when empty"`
	Range         string `json:"range,omitempty" jsonschema:"Optional A1 range override"`
}

// SheetsExportParams defines the arguments for the sheets_export tool
type SheetsExportParams struct {
	JobIDs   []string    `json:"job_ids,omitempty" jsonschema:"Jobs to rehydrate into rows"`
	Rows     []SheetRow  `json:"rows,omitempty" jsonschema:"Explicit rows written after rehydrated jobs"`
	Upsert   bool        `json:"upsert,omitempty" jsonschema:"Overwrite from row 2 (true) or append (false)"`
	ClearTab bool        `json:"clear_tab,omitempty" jsonschema:"If true, clears the tab below the header before writing"`
	Sheet    SheetTarget `json:"sheet" jsonschema:"Destination sheet information"`
}

// SheetsExportResult describes the summary returned after export
type SheetsExportResult struct {
	SpreadsheetID string   `json:"spreadsheet_id"`
	Tab           string   `json:"tab,omitempty"`
	WrittenRows   int      `json:"written_rows"`
	Mode          string   `json:"mode"`
	MissingJobIDs []string `json:"missing_job_ids,omitempty"`
	CompletedAt   string   `json:"completed_at,omitempty"`
	Message       string   `json:"message,omitempty"`
}

// SheetsExporter writes prepared rows to a spreadsheet
type SheetsExporter interface {
	Export(ctx context.Context, params SheetsExportParams) (SheetsExportResult, error)
}

// WithSheetsExport registers the sheets_export tool. A nil exporter keeps the
// tool listed but every call reports that export is not configured.
func WithSheetsExport(exporter SheetsExporter, jobs JobResolver) Option {
	return func(reg *registry) {
		h := &sheetsHandler{exporter: exporter, jobs: jobs, reg: reg, now: time.Now}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "sheets_export",
			Description: "Export job postings or explicit rows to a Google Sheets tab",
		}, h.export)
	}
}

type sheetsHandler struct {
	exporter SheetsExporter
	jobs     JobResolver
	reg      *registry
	now      func() time.Time
}

func (h *sheetsHandler) export(ctx context.Context, _ *sdkmcp.CallToolRequest, params SheetsExportParams) (*sdkmcp.CallToolResult, any, error) {
	if h.exporter == nil {
		return errorResult("Google Sheets export not configured (GOOGLE_SHEETS_CREDENTIALS_PATH not set)"), nil, nil
	}
	if strings.TrimSpace(params.Sheet.SpreadsheetID) == "" {
		return errorResult("sheet.spreadsheet_id is required"), nil, nil
	}

	rows, missing, err := h.hydrate(ctx, params.JobIDs)
	if err != nil {
		return errorResult(err.Error()), nil, nil
	}
	params.Rows = append(rows, params.Rows...)
	params.JobIDs = nil

	result, err := h.exporter.Export(ctx, params)
	if err != nil {
		h.reg.logger.Error("sheets_export failed", "spreadsheet_id", params.Sheet.SpreadsheetID, "err", err)
		return errorResult(fmt.Sprintf("sheets export failed: %v", err)), nil, nil
	}

	result.Mode = exportMode(params)
	result.MissingJobIDs = missing

	h.reg.logger.Info("sheets_export completed",
		"spreadsheet_id", result.SpreadsheetID, "rows", result.WrittenRows, "missing", len(missing))
	return textResult(result.Message), result, nil
}

// hydrate turns job ids into rows, collecting ids no tier could resolve
func (h *sheetsHandler) hydrate(ctx context.Context, ids []string) ([]SheetRow, []string, error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}
	if h.jobs == nil {
		return nil, nil, errors.New("job lookup unavailable")
	}

	stamp := h.now().UTC().Format(time.RFC3339)
	rows := make([]SheetRow, 0, len(ids))
	var missing []string
	for _, id := range ids {
		res, err := h.jobs.Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			missing = append(missing, id)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("load job %q: %w", id, err)
		}
		rows = append(rows, rowFromJob(res.Job, stamp))
	}
	return rows, missing, nil
}

func rowFromJob(j domain.Job, stamp string) SheetRow {
	return SheetRow{
		JobID:     j.ID,
		Title:     j.Title,
		Company:   j.CompanyName(),
		Location:  j.Location,
		URL:       j.ApplicationURL,
		UpdatedAt: stamp,
	}
}

func exportMode(params SheetsExportParams) string {
	if params.Upsert {
		return "upsert"
	}
	return "append"
}
