package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tagwm/internal/ipc"
)

const ServerName = "tagwm"

// Backend is the running window manager. *ipc.Client satisfies it.
type Backend interface {
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	GetClients() (*ipc.ClientsData, error)
	RunAction(action, arg string) error
	Check() (*ipc.CheckData, error)
}

// Server exposes the window manager's control socket as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	wm        Backend
	logger    *slog.Logger
}

// NewServer creates an MCP server that forwards to backend.
func NewServer(backend Backend, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		wm:     backend,
		logger: logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: version,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "wm_status",
		Description: "Summarize the running window manager: process, monitor and client counts, plus the selected monitor's tag mask and layout symbol.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List every monitor with its screen and work area, tag sets, layout, master factor and selected client.",
	}, s.handleListMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_clients",
		Description: "List managed client windows with their tags, geometry and state. Filter by monitor number, visibility or WM_CLASS.",
	}, s.handleListClients)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_action",
		Description: "Run a bindable window manager action such as view, tag, toggleview, focusstack, setmfact, setlayout, zoom or killclient. Tag arguments are bit masks (\"4\" is the third tag, \"~0\" is every tag). Pointer-driven actions (movemouse, resizemouse) are rejected.",
	}, s.handleRunAction)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "check_invariants",
		Description: "Check the window manager's internal consistency and report each violated invariant.",
	}, s.handleCheck)
}
