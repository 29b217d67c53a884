package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// New assembles the MCP server advertising the browser tool catalog. Both
// transports share this one server.
func New(e *Executor, version string) *server.MCPServer {
	srv := server.NewMCPServer(
		"skimmer",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	srv.AddTools(Tools(e)...)
	return srv
}

// ServeStdio binds the server to the process's standard input/output and
// blocks until stdin closes.
func ServeStdio(srv *server.MCPServer) error {
	return server.ServeStdio(srv)
}
