package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-portal/pkg/logging"
)

// Option configures which tools are registered
type Option func(*registry)

type registry struct {
	server *sdkmcp.Server
	logger *logging.Logger
}

// Register applies the provided tool options
func Register(server *sdkmcp.Server, opts ...Option) {
	reg := &registry{server: server, logger: logging.Nop()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(reg)
	}
}

// WithLogger sets the logger used by tools registered after it
func WithLogger(l *logging.Logger) Option {
	return func(reg *registry) {
		if l != nil {
			reg.logger = l.Named("mcp")
		}
	}
}
