package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tagwm/internal/ipc"
	"github.com/1broseidon/tagwm/internal/wm"
)

// Source supplies window manager state. *ipc.Client satisfies it.
type Source interface {
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	GetClients() (*ipc.ClientsData, error)
	RunAction(action, arg string) error
}

type snapshotMsg struct {
	status  *ipc.StatusData
	mons    []wm.MonitorState
	clients []wm.ClientState
	err     error
}

type tickMsg time.Time

type actionDoneMsg struct {
	action string
	err    error
}

// model is the root bubbletea model for the dashboard.
type model struct {
	src      Source
	interval time.Duration

	activeTab Tab

	status  *ipc.StatusData
	mons    []wm.MonitorState
	clients []wm.ClientState
	err     error
	notice  string

	clientTable table.Model

	width  int
	height int
}

func newModel(src Source, interval time.Duration) model {
	if interval <= 0 {
		interval = time.Second
	}
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Window", Width: 10},
			{Title: "Mon", Width: 3},
			{Title: "Tags", Width: 9},
			{Title: "State", Width: 5},
			{Title: "Class", Width: 14},
			{Title: "Title", Width: 32},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Bold(false)
	t.SetStyles(styles)

	return model{src: src, interval: interval, activeTab: TabMonitors, clientTable: t}
}

// fetch polls the window manager once.
func (m model) fetch() tea.Cmd {
	src := m.src
	return func() tea.Msg {
		status, err := src.GetStatus()
		if err != nil {
			return snapshotMsg{err: err}
		}
		mons, err := src.GetMonitors()
		if err != nil {
			return snapshotMsg{err: err}
		}
		clients, err := src.GetClients()
		if err != nil {
			return snapshotMsg{err: err}
		}
		return snapshotMsg{status: status, mons: mons.Monitors, clients: clients.Clients}
	}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) runAction(action, arg string) tea.Cmd {
	src := m.src
	return func() tea.Msg {
		label := action
		if arg != "" {
			label += " " + arg
		}
		return actionDoneMsg{action: label, err: src.RunAction(action, arg)}
	}
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1) + notice (1)
	h := m.height - 5
	if h < 1 {
		h = 1
	}
	return h
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tea.Batch(m.fetch(), m.tick())

	case snapshotMsg:
		m.err = msg.err
		if msg.err != nil {
			m.status = nil
			return m, nil
		}
		m.status, m.mons, m.clients = msg.status, msg.mons, msg.clients
		m.clientTable.SetRows(clientRows(m.clients))
		if c := m.clientTable.Cursor(); c >= len(m.clients) && len(m.clients) > 0 {
			m.clientTable.SetCursor(len(m.clients) - 1)
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("%s: %v", msg.action, msg.err)
		} else {
			m.notice = "ran " + msg.action
		}
		return m, m.fetch()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Header row and its border take two lines.
		m.clientTable.SetHeight(max(m.contentHeight()-2, 1))
		m.clientTable.SetWidth(m.width)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabMonitors
			return m, nil
		case "2":
			m.activeTab = TabClients
			return m, nil
		case "r":
			return m, m.fetch()
		case "enter":
			if m.activeTab != TabClients {
				return m, nil
			}
			c, ok := m.selectedClient()
			if !ok {
				return m, nil
			}
			return m, m.runAction("activate", fmt.Sprintf("%#x", uint32(c.Window)))
		}
		if m.activeTab == TabClients {
			var cmd tea.Cmd
			m.clientTable, cmd = m.clientTable.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m model) selectedClient() (wm.ClientState, bool) {
	i := m.clientTable.Cursor()
	if i < 0 || i >= len(m.clients) {
		return wm.ClientState{}, false
	}
	return m.clients[i], true
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.status, m.err, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.activeTab, m.width)

	var content string
	switch {
	case m.err != nil:
		content = errorStyle.Render(m.err.Error())
	case m.activeTab == TabMonitors:
		content = renderMonitors(m.mons)
	default:
		content = m.clientTable.View()
	}
	content = lipgloss.NewStyle().Height(m.contentHeight()).MaxHeight(m.contentHeight()).Render(content)

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		dimStyle.Padding(0, 1).Render(m.notice),
		helpBar,
	)
}

func renderMonitors(mons []wm.MonitorState) string {
	if len(mons) == 0 {
		return dimStyle.Render("no monitors")
	}
	var b strings.Builder
	for i, mon := range mons {
		if i > 0 {
			b.WriteString("\n")
		}
		bar := "hidden"
		if mon.ShowBar {
			bar = "shown"
		}
		line := fmt.Sprintf("%d  %dx%d+%d+%d  tags %-9s %-4s mfact %.2f  nmaster %d  clients %d  bar %s",
			mon.Num, mon.Screen.Width, mon.Screen.Height, mon.Screen.X, mon.Screen.Y,
			tagList(mon.Tags), mon.Symbol, mon.MFact, mon.NMaster, mon.Clients, bar)
		if mon.Selected {
			b.WriteString(selectedMonStyle.Render("* " + line))
		} else {
			b.WriteString("  " + line)
		}
	}
	return b.String()
}

func clientRows(clients []wm.ClientState) []table.Row {
	rows := make([]table.Row, 0, len(clients))
	for _, c := range clients {
		title := c.Title
		if title == "" {
			title = c.Instance
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%#x", uint32(c.Window)),
			fmt.Sprint(c.Monitor),
			tagList(c.Tags),
			clientState(c),
			c.Class,
			title,
		})
	}
	return rows
}

// clientState abbreviates a client's flags: * focused, v visible,
// f floating, F fullscreen, u urgent.
func clientState(c wm.ClientState) string {
	var b strings.Builder
	for _, f := range []struct {
		on bool
		r  byte
	}{
		{c.Focused, '*'},
		{c.Visible, 'v'},
		{c.Floating, 'f'},
		{c.Fullscreen, 'F'},
		{c.Urgent, 'u'},
	} {
		if f.on {
			b.WriteByte(f.r)
		}
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}
