package mcp

import (
	"github.com/honeycarbs/job-portal/internal/mcp/tools"
	"github.com/honeycarbs/job-portal/pkg/logging"
)

// Deps holds what the registered tools need. Sheets may be nil when no
// credentials are configured; sheets_export then reports it is unavailable.
type Deps struct {
	Jobs    tools.JobResolver
	Sheets  tools.SheetsExporter
	Logger  *logging.Logger
	Version string
}
