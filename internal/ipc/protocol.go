package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/tagwm/internal/wm"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandGetMonitors CommandType = "GET_MONITORS"
	CommandGetClients  CommandType = "GET_CLIENTS"
	CommandRunAction   CommandType = "RUN_ACTION"
	CommandCheck       CommandType = "CHECK"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	// InstanceID changes every time the window manager process starts.
	InstanceID      string `json:"instance_id"`
	PID             int    `json:"pid"`
	Version         string `json:"version"`
	UptimeSeconds   int64  `json:"uptime_seconds"`
	Monitors        int    `json:"monitors"`
	Clients         int    `json:"clients"`
	SelectedMonitor int    `json:"selected_monitor"`
	Tags            uint32 `json:"tags"`
	Layout          string `json:"layout"`
	Gap             int    `json:"gap"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []wm.MonitorState `json:"monitors"`
}

// ClientsData represents the data returned by GET_CLIENTS
type ClientsData struct {
	Clients []wm.ClientState `json:"clients"`
}

// RunActionPayload names an action and its argument, e.g. {"action":"view","arg":"4"}.
type RunActionPayload struct {
	Action string `json:"action"`
	Arg    string `json:"arg,omitempty"`
}

// CheckData is the invariant checker's verdict.
type CheckData struct {
	OK         bool     `json:"ok"`
	Violations []string `json:"violations,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
