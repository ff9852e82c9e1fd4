package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cablegraph/cablegraph/pkg/descriptor"
	"github.com/cablegraph/cablegraph/pkg/inventory"
	"github.com/cablegraph/cablegraph/pkg/modes"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#0087FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	modeBadgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#FFFF00")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	dashboardView view = iota
	shelvesView
	templatesView
	connectionsView
)

const viewCount = 4

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab},
		{k.Up, k.Down},
		{k.Quit},
	}
}

type model struct {
	store       *inventory.Store
	mode        modes.Mode
	currentView view
	shelfTable  table.Model
	connTable   table.Model
	help        help.Model
	keys        keyMap
	width       int
	height      int
	startTime   time.Time
	stats       inventory.Stats
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#0087FF")).
		Bold(false)
	t.SetStyles(s)
	return t
}

func initialModel(store *inventory.Store, mode modes.Mode) model {
	shelfTable := newTable([]table.Column{
		{Title: "ID", Width: 6},
		{Title: "Label", Width: 20},
		{Title: "Hostname", Width: 20},
		{Title: "Location", Width: 18},
		{Title: "Template", Width: 14},
	})

	connTable := newTable([]table.Column{
		{Title: "ID", Width: 6},
		{Title: "Source", Width: 10},
		{Title: "Target", Width: 10},
		{Title: "Cable", Width: 14},
		{Title: "Scope", Width: 16},
	})

	m := model{
		store:       store,
		mode:        mode,
		currentView: dashboardView,
		shelfTable:  shelfTable,
		connTable:   connTable,
		help:        help.New(),
		keys:        keys,
		startTime:   time.Now(),
		stats:       store.Statistics(),
	}
	m.refreshTables()
	return m
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		m.stats = m.store.Statistics()
		m.refreshTables()
		return m, tickCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.currentView = (m.currentView + 1) % viewCount

		case key.Matches(msg, m.keys.ShiftTab):
			if m.currentView == 0 {
				m.currentView = viewCount - 1
			} else {
				m.currentView--
			}
		}
	}

	switch m.currentView {
	case shelvesView:
		m.shelfTable, cmd = m.shelfTable.Update(msg)
		cmds = append(cmds, cmd)
	case connectionsView:
		m.connTable, cmd = m.connTable.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) refreshTables() {
	shelfRows := make([]table.Row, 0)
	for _, id := range m.store.Shelves() {
		n, err := m.store.GetNode(id)
		if err != nil {
			continue
		}

		loc := "unplaced"
		if n.Shelf.Loc != nil {
			loc = fmt.Sprintf("%s/%s/%d/u%d", n.Shelf.Loc.Hall, n.Shelf.Loc.Aisle, n.Shelf.Loc.RackNum, n.Shelf.Loc.ShelfU)
		}

		shelfRows = append(shelfRows, table.Row{
			fmt.Sprintf("%d", n.ID),
			n.Label,
			n.Shelf.Hostname,
			loc,
			n.Shelf.TemplateName,
		})
	}
	m.shelfTable.SetRows(shelfRows)

	connRows := make([]table.Row, 0)
	for _, conn := range m.store.Connections() {
		scope := "concrete"
		if conn.TemplateName != "" {
			scope = "template " + conn.TemplateName
		}
		connRows = append(connRows, table.Row{
			fmt.Sprintf("%d", conn.ID),
			fmt.Sprintf("%d", conn.SourcePortID),
			fmt.Sprintf("%d", conn.TargetPortID),
			conn.CableType,
			scope,
		})
	}
	m.connTable.SetRows(connRows)
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	title := titleStyle.Render("🔌 CableGraph Topology Browser")
	badge := modeBadgeStyle.Render(strings.ToUpper(m.mode.String()) + " MODE")
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", badge))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case dashboardView:
		s.WriteString(m.renderDashboard())
	case shelvesView:
		s.WriteString(m.renderShelves())
	case templatesView:
		s.WriteString(m.renderTemplates())
	case connectionsView:
		s.WriteString(m.renderConnections())
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	tabs := []string{"Dashboard", "Shelves", "Templates", "Connections"}
	var renderedTabs []string

	for i, tab := range tabs {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m model) renderDashboard() string {
	uptime := time.Since(m.startTime).Round(time.Second)

	placed := 0
	for _, id := range m.store.Shelves() {
		n, err := m.store.GetNode(id)
		if err == nil && n.Shelf.Loc != nil {
			placed++
		}
	}

	statsContent := fmt.Sprintf(`📊 Topology
━━━━━━━━━━━━━━━
Nodes:       %d
Shelves:     %d
Placed:      %d
Connections: %d
Templates:   %d
Uptime:      %s`,
		m.stats.Nodes,
		m.stats.Shelves,
		placed,
		m.stats.Connections,
		m.stats.Templates,
		uptime,
	)

	quickActions := `⚡ Navigation
━━━━━━━━━━━━━━━
[Tab]       Next view
[Shift+Tab] Prev view
[↑/↓]       Scroll tables
[q]         Quit

💡 Views
━━━━━━━━━━━━━━━
• Shelves with rack slots
• Template catalog
• Cable list with scope`

	statsBox := statsBoxStyle.Render(statsContent)
	actionsBox := statsBoxStyle.Render(quickActions)

	return contentStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Top, statsBox, actionsBox),
	)
}

func (m model) renderShelves() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Shelf Browser"))
	s.WriteString("\n\n")
	s.WriteString(m.shelfTable.View())

	return contentStyle.Render(s.String())
}

func (m model) renderTemplates() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Template Catalog"))
	s.WriteString("\n\n")

	templates := m.store.Templates()
	if len(templates) == 0 {
		s.WriteString(helpStyle.Render("No templates registered"))
		return contentStyle.Render(s.String())
	}

	for _, t := range templates {
		instances := m.store.GraphsByTemplate(t.Name)
		s.WriteString(fmt.Sprintf("📦 %s — %d live instances\n", t.Name, len(instances)))
		for _, c := range t.Children {
			if c.Kind == inventory.ChildGraph {
				s.WriteString(fmt.Sprintf("   └─ %s: nested %s\n", c.Name, c.RefTemplate))
			} else {
				s.WriteString(fmt.Sprintf("   └─ %s: %d×%d ports\n", c.Name, c.Trays, c.PortsPerTray))
			}
		}
		if len(t.Connections) > 0 {
			s.WriteString(fmt.Sprintf("   %d internal cables\n", len(t.Connections)))
		}
		s.WriteString("\n")
	}

	return contentStyle.Render(s.String())
}

func (m model) renderConnections() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Cable List"))
	s.WriteString("\n\n")
	s.WriteString(m.connTable.View())

	return contentStyle.Render(s.String())
}

func main() {
	store := inventory.NewStore(nil)
	mode := modes.Hierarchy

	if len(os.Args) > 1 {
		f, err := os.Open(os.Args[1])
		if err != nil {
			log.Fatalf("Failed to open descriptor: %v", err)
		}
		doc, err := descriptor.Load(f)
		f.Close()
		if err != nil {
			log.Fatalf("Failed to parse descriptor: %v", err)
		}
		mode, err = descriptor.Apply(doc, store)
		if err != nil {
			log.Fatalf("Failed to apply descriptor: %v", err)
		}
	}

	p := tea.NewProgram(initialModel(store, mode), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
