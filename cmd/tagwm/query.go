package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/bits"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/1broseidon/tagwm/internal/config"
	"github.com/1broseidon/tagwm/internal/ipc"
	"github.com/1broseidon/tagwm/internal/wm"
)

// queryFlags parses the flags shared by the read-only commands and reports
// whether output should be JSON.
func queryFlags(name, desc string, args []string) (jsonOut bool, code int, ok bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tagwm %s [--json]\n", name)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, desc)
		fmt.Fprintln(os.Stderr, "JSON is also used when stdout is not a terminal.")
	}
	asJSON := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return false, 0, false
		}
		return false, 2, false
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", name)
		fs.Usage()
		return false, 2, false
	}
	return *asJSON || !term.IsTerminal(int(os.Stdout.Fd())), 0, true
}

func writeJSON(w io.Writer, v any) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, "failed to encode JSON:", err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	asJSON, code, ok := queryFlags("status", "Show window manager status via IPC.", args)
	if !ok {
		return code
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if asJSON {
		return writeJSON(os.Stdout, status)
	}
	printStatus(os.Stdout, status)
	return 0
}

func runMonitors(args []string) int {
	asJSON, code, ok := queryFlags("monitors", "List monitors with their tags and layout.", args)
	if !ok {
		return code
	}

	data, err := ipc.NewClient().GetMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if asJSON {
		return writeJSON(os.Stdout, data)
	}
	printMonitors(os.Stdout, data.Monitors)
	return 0
}

func runClients(args []string) int {
	asJSON, code, ok := queryFlags("clients", "List managed windows.", args)
	if !ok {
		return code
	}

	data, err := ipc.NewClient().GetClients()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if asJSON {
		return writeJSON(os.Stdout, data)
	}
	printClients(os.Stdout, data.Clients)
	return 0
}

func runAction(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage: tagwm action <name> [arg]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Actions:")
		for _, name := range config.ActionNames() {
			fmt.Fprintln(os.Stderr, "  "+name)
		}
		if len(args) == 0 {
			return 2
		}
		return 0
	}
	if len(args) > 2 {
		fmt.Fprintln(os.Stderr, "action takes a name and at most one argument")
		return 2
	}
	if _, err := wm.ParseAction(args[0]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	arg := ""
	if len(args) == 2 {
		arg = args[1]
	}
	if err := ipc.NewClient().RunAction(args[0], arg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runCheck(args []string) int {
	asJSON, code, ok := queryFlags("check", "Check the window manager's internal consistency.", args)
	if !ok {
		return code
	}

	res, err := ipc.NewClient().Check()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if asJSON {
		if rc := writeJSON(os.Stdout, res); rc != 0 {
			return rc
		}
	} else {
		printCheck(os.Stdout, res)
	}
	if !res.OK {
		return 1
	}
	return 0
}

func printStatus(w io.Writer, st *ipc.StatusData) {
	fmt.Fprintf(w, "instance:  %s (pid %d)\n", st.InstanceID, st.PID)
	fmt.Fprintf(w, "version:   %s\n", st.Version)
	fmt.Fprintf(w, "uptime:    %ds\n", st.UptimeSeconds)
	fmt.Fprintf(w, "monitors:  %d (selected %d)\n", st.Monitors, st.SelectedMonitor)
	fmt.Fprintf(w, "clients:   %d\n", st.Clients)
	fmt.Fprintf(w, "tags:      %s\n", tagList(st.Tags))
	fmt.Fprintf(w, "layout:    %s\n", st.Layout)
	fmt.Fprintf(w, "gap:       %d\n", st.Gap)
}

func printMonitors(w io.Writer, mons []wm.MonitorState) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MON\tGEOMETRY\tTAGS\tLAYOUT\tMFACT\tNMASTER\tCLIENTS")
	for _, m := range mons {
		num := strconv.Itoa(m.Num)
		if m.Selected {
			num += "*"
		}
		fmt.Fprintf(tw, "%s\t%dx%d+%d+%d\t%s\t%s\t%.2f\t%d\t%d\n",
			num, m.Screen.Width, m.Screen.Height, m.Screen.X, m.Screen.Y,
			tagList(m.Tags), m.Symbol, m.MFact, m.NMaster, m.Clients)
	}
	tw.Flush()
}

func printClients(w io.Writer, clients []wm.ClientState) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WINDOW\tMON\tTAGS\tGEOMETRY\tFLAGS\tCLASS\tTITLE")
	for _, c := range clients {
		fmt.Fprintf(tw, "%#x\t%d\t%s\t%dx%d+%d+%d\t%s\t%s\t%s\n",
			uint32(c.Window), c.Monitor, tagList(c.Tags),
			c.Geometry.Width, c.Geometry.Height, c.Geometry.X, c.Geometry.Y,
			clientFlags(c), c.Class, c.Title)
	}
	tw.Flush()
}

func printCheck(w io.Writer, res *ipc.CheckData) {
	if res.OK {
		fmt.Fprintln(w, "ok")
		return
	}
	for _, v := range res.Violations {
		fmt.Fprintln(w, v)
	}
}

// tagList renders a mask as 1-based tag numbers, e.g. 0b101 as "1,3".
func tagList(mask uint32) string {
	switch mask {
	case 0:
		return "-"
	case ^uint32(0):
		return "all"
	}
	var parts []string
	for mask != 0 {
		i := bits.TrailingZeros32(mask)
		parts = append(parts, strconv.Itoa(i+1))
		mask &^= 1 << i
	}
	return strings.Join(parts, ",")
}

// clientFlags abbreviates a client's state: focused, visible, floating,
// fullscreen, urgent, fixed.
func clientFlags(c wm.ClientState) string {
	var b strings.Builder
	for _, f := range []struct {
		on bool
		ch byte
	}{
		{c.Focused, '*'},
		{c.Visible, 'v'},
		{c.Floating, 'f'},
		{c.Fullscreen, 'F'},
		{c.Urgent, 'u'},
		{c.Fixed, 'x'},
	} {
		if f.on {
			b.WriteByte(f.ch)
		}
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}
