package mcp

import (
	"net/http"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-portal/internal/mcp/tools"
	"github.com/honeycarbs/job-portal/pkg/logging"
)

const defaultVersion = "0.1.0"

// NewServer builds the MCP server and registers the job tools on it
func NewServer(deps Deps) *sdkmcp.Server {
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}
	if deps.Version == "" {
		deps.Version = defaultVersion
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "job-portal",
		Version: deps.Version,
	}, nil)

	tools.Register(server,
		tools.WithLogger(deps.Logger),
		tools.WithJobSearch(deps.Jobs),
		tools.WithJobGet(deps.Jobs),
		tools.WithSheetsExport(deps.Sheets, deps.Jobs),
	)

	deps.Logger.Info("MCP tools registered", "version", deps.Version, "sheets", deps.Sheets != nil)
	return server
}

// NewHandler serves server over the streamable HTTP transport
func NewHandler(server *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return server
	}, nil)
}
