package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/tagwm/internal/runtimepath"
)

// requestTimeout bounds how long a request may wait for the event loop.
const requestTimeout = 5 * time.Second

// ServerOptions configure a control socket server.
type ServerOptions struct {
	// SocketPath defaults to runtimepath.SocketPath().
	SocketPath string
	Logger     *slog.Logger
	Version    string
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	ctrl         Controller
	logger       *slog.Logger
	version      string
	instanceID   string
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
	conns        sync.WaitGroup
}

// NewServer creates a new IPC server. The caller must hold the instance
// lock, since a stale socket at the path is removed.
func NewServer(ctrl Controller, opts ServerOptions) (*Server, error) {
	socketPath := opts.SocketPath
	if socketPath == "" {
		p, err := runtimepath.SocketPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
		}
		socketPath = p
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		ctrl:       ctrl,
		logger:     logger,
		version:    opts.Version,
		instanceID: uuid.NewString(),
		startTime:  time.Now(),
	}, nil
}

// InstanceID identifies this process in GET_STATUS replies.
func (s *Server) InstanceID() string { return s.instanceID }

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath, "instance", s.instanceID)

	go s.acceptLoop()
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.handleConnection(conn)
		}()
	}
}

// handleConnection serves one request line and closes the connection.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(2 * requestTimeout))

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Debug("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	resp := s.handleCommand(ctx, req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal IPC response", "error", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Debug("failed to send IPC response", "error", err)
	}
}

func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus(ctx)
	case CommandGetMonitors:
		return s.handleGetMonitors(ctx)
	case CommandGetClients:
		return s.handleGetClients(ctx)
	case CommandRunAction:
		return s.handleRunAction(ctx, req.Payload)
	case CommandCheck:
		return s.handleCheck(ctx)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus(ctx context.Context) *Response {
	snap, err := s.ctrl.Snapshot(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to read state: %v", err))
	}

	status := StatusData{
		InstanceID:    s.instanceID,
		PID:           os.Getpid(),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Monitors:      len(snap.Monitors),
		Clients:       len(snap.Clients),
		Gap:           snap.Gap,
	}
	for _, m := range snap.Monitors {
		if m.Selected {
			status.SelectedMonitor = m.Num
			status.Tags = m.Tags
			status.Layout = m.Symbol
		}
	}

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleGetMonitors(ctx context.Context) *Response {
	snap, err := s.ctrl.Snapshot(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get monitors: %v", err))
	}
	resp, _ := NewOKResponse(MonitorsData{Monitors: snap.Monitors})
	return resp
}

func (s *Server) handleGetClients(ctx context.Context) *Response {
	snap, err := s.ctrl.Snapshot(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get clients: %v", err))
	}
	resp, _ := NewOKResponse(ClientsData{Clients: snap.Clients})
	return resp
}

func (s *Server) handleRunAction(ctx context.Context, payload json.RawMessage) *Response {
	var req RunActionPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid action payload: %v", err))
	}
	if req.Action == "" {
		return NewErrorResponse("action is required")
	}

	s.logger.Debug("IPC action", "action", req.Action, "arg", req.Arg)
	if err := s.ctrl.Exec(ctx, req.Action, req.Arg); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to run %s: %v", req.Action, err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleCheck(ctx context.Context) *Response {
	violations, err := s.ctrl.Check(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to check invariants: %v", err))
	}
	if len(violations) > 0 {
		s.logger.Warn("invariant check failed", "violations", len(violations))
	}
	resp, _ := NewOKResponse(CheckData{OK: len(violations) == 0, Violations: violations})
	return resp
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop closes the listener, waits for in-flight requests and removes the
// socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.conns.Wait()
	os.Remove(s.socketPath)
}
