package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tagwm/internal/ipc"
	"github.com/1broseidon/tagwm/internal/wm"
)

func textResult(format string, args ...any) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ipc.StatusData, error) {
	st, err := s.wm.GetStatus()
	if err != nil {
		return nil, ipc.StatusData{}, err
	}
	return textResult("tagwm %s (pid %d): %d monitors, %d clients; monitor %d shows tags %#x in %s",
		st.Version, st.PID, st.Monitors, st.Clients, st.SelectedMonitor, st.Tags, st.Layout), *st, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ipc.MonitorsData, error) {
	mons, err := s.wm.GetMonitors()
	if err != nil {
		return nil, ipc.MonitorsData{}, err
	}
	var b strings.Builder
	for _, m := range mons.Monitors {
		mark := " "
		if m.Selected {
			mark = "*"
		}
		fmt.Fprintf(&b, "%s%d %dx%d+%d+%d tags=%#x %s clients=%d\n",
			mark, m.Num, m.Screen.Width, m.Screen.Height, m.Screen.X, m.Screen.Y, m.Tags, m.Symbol, m.Clients)
	}
	return textResult("%s", b.String()), *mons, nil
}

func (s *Server) handleListClients(_ context.Context, _ *mcpsdk.CallToolRequest, args ListClientsInput) (*mcpsdk.CallToolResult, ListClientsOutput, error) {
	all, err := s.wm.GetClients()
	if err != nil {
		return nil, ListClientsOutput{}, err
	}

	out := ListClientsOutput{Total: len(all.Clients), Clients: []wm.ClientState{}}
	class := strings.ToLower(strings.TrimSpace(args.Class))
	for _, c := range all.Clients {
		if args.Monitor != nil && c.Monitor != *args.Monitor {
			continue
		}
		if args.VisibleOnly && !c.Visible {
			continue
		}
		if class != "" &&
			!strings.Contains(strings.ToLower(c.Class), class) &&
			!strings.Contains(strings.ToLower(c.Instance), class) {
			continue
		}
		out.Clients = append(out.Clients, c)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d clients\n", len(out.Clients), out.Total)
	for _, c := range out.Clients {
		fmt.Fprintf(&b, "%#x mon=%d tags=%#x %q (%s)\n", uint32(c.Window), c.Monitor, c.Tags, c.Title, c.Class)
	}
	return textResult("%s", b.String()), out, nil
}

func (s *Server) handleRunAction(_ context.Context, _ *mcpsdk.CallToolRequest, args RunActionInput) (*mcpsdk.CallToolResult, RunActionOutput, error) {
	name := strings.TrimSpace(args.Action)
	a, err := wm.ParseAction(name)
	if err != nil {
		return nil, RunActionOutput{}, err
	}
	if a == wm.ActionMoveMouse || a == wm.ActionResizeMouse {
		return nil, RunActionOutput{}, fmt.Errorf("%s: %w", a, wm.ErrPointerOnly)
	}

	if err := s.wm.RunAction(name, args.Arg); err != nil {
		return nil, RunActionOutput{}, err
	}
	s.logger.Info("mcp action", "action", name, "arg", args.Arg)

	out := RunActionOutput{Action: name, Arg: args.Arg}
	if args.Arg == "" {
		return textResult("ran %s", name), out, nil
	}
	return textResult("ran %s %s", name, args.Arg), out, nil
}

func (s *Server) handleCheck(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ipc.CheckData, error) {
	res, err := s.wm.Check()
	if err != nil {
		return nil, ipc.CheckData{}, err
	}
	if res.OK {
		return textResult("all invariants hold"), *res, nil
	}
	return textResult("%d violations:\n%s", len(res.Violations), strings.Join(res.Violations, "\n")), *res, nil
}
