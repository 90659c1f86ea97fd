package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tagwm/internal/ipc"
)

// Tab identifies a dashboard tab.
type Tab int

const (
	TabMonitors Tab = iota
	TabClients
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabMonitors:
		return "Monitors"
	case TabClients:
		return "Clients"
	default:
		return "?"
	}
}

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	tabBarStyle = lipgloss.NewStyle().
			MarginBottom(1)

	tabGap = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		SetString(" ")

	selectedMonStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

func renderTabBar(active Tab, width int) string {
	var tabs []string
	for i := Tab(0); i < tabCount; i++ {
		label := fmt.Sprintf("%d:%s", i+1, i)
		if i == active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(tabs, tabGap.Render())...)
	return tabBarStyle.Width(width).Render(row)
}

// intersperse inserts sep between each element of items.
func intersperse(items []string, sep string) []string {
	if len(items) <= 1 {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}

func renderStatusBar(status *ipc.StatusData, err error, width int) string {
	var text string
	if err != nil || status == nil {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		text = dot + " window manager not reachable"
	} else {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		parts := []string{
			dot + " tagwm " + status.Version,
			fmt.Sprintf("pid %d", status.PID),
			fmt.Sprintf("%d monitors", status.Monitors),
			fmt.Sprintf("%d clients", status.Clients),
			"tags " + tagList(status.Tags),
			status.Layout,
		}
		text = strings.Join(parts, "  ")
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(text)
}

func renderHelpBar(active Tab, width int) string {
	help := "tab: switch  r: refresh  q: quit"
	if active == TabClients {
		help = "↑/↓: select  enter: focus  tab: switch  r: refresh  q: quit"
	}
	style := lipgloss.NewStyle().
		Width(width).
		Foreground(lipgloss.Color("241")).
		Padding(0, 1)
	return style.Render(help)
}

// tagList renders a tag mask as one-based tag numbers, e.g. "1,3".
func tagList(mask uint32) string {
	switch mask {
	case 0:
		return "-"
	case ^uint32(0):
		return "all"
	}
	var parts []string
	for i := 0; i < 32; i++ {
		if mask&(1<<i) != 0 {
			parts = append(parts, fmt.Sprint(i+1))
		}
	}
	return strings.Join(parts, ",")
}
