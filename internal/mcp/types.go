package mcp

import "github.com/1broseidon/tagwm/internal/wm"

// EmptyInput is the argument type of tools that take no parameters.
type EmptyInput struct{}

// ListClientsInput filters list_clients.
type ListClientsInput struct {
	Monitor     *int   `json:"monitor,omitempty" jsonschema:"Only clients on this monitor number"`
	VisibleOnly bool   `json:"visible_only,omitempty" jsonschema:"Only clients shown on their monitor's current tags"`
	Class       string `json:"class,omitempty" jsonschema:"Only clients whose WM_CLASS class or instance contains this text (case-insensitive)"`
}

// ListClientsOutput is the result of list_clients.
type ListClientsOutput struct {
	Clients []wm.ClientState `json:"clients"`
	Total   int              `json:"total"`
}

// RunActionInput names the action for run_action.
type RunActionInput struct {
	Action string `json:"action" jsonschema:"Action name, e.g. view, tag, focusstack, setlayout"`
	Arg    string `json:"arg,omitempty" jsonschema:"Action argument, e.g. a tag mask for view or +0.05 for setmfact"`
}

// RunActionOutput is the result of run_action.
type RunActionOutput struct {
	Action string `json:"action"`
	Arg    string `json:"arg,omitempty"`
}
