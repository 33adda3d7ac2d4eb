// Package tui is a terminal dashboard for leads, built with Bubble Tea over
// the same listing controller the web pages use.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"leadportal/internal/leads/domain"
	"leadportal/internal/leads/listing"
	"leadportal/internal/notification"
	"leadportal/platform/phone"
)

// Controller is the part of listing.Controller the dashboard drives.
type Controller interface {
	Open(ctx context.Context, page int, query string) (listing.ViewState, error)
	Refresh(ctx context.Context, page, limit int, query string) (listing.ViewState, error)
	SetPage(ctx context.Context, n int) (listing.ViewState, error)
	SetSearchQuery(ctx context.Context, query string) (listing.ViewState, error)
	MarkContacted(ctx context.Context, id string) error
	DeleteLead(ctx context.Context, id string) error
	State() listing.ViewState
	Limit() int
}

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeConfirmDelete
)

// doneMsg reports that a controller call finished. The model re-reads the
// controller state on receipt, so the payload is only the error.
type doneMsg struct {
	err error
}

// Styles
var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("241"))
	selectedStyle  = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230"))
	contactedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	newStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failureStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimmedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	promptStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
)

// column widths
const (
	colName    = 20
	colEmail   = 28
	colPhone   = 16
	colStatus  = 10
	colCreated = 12
)

// Options configures display details.
type Options struct {
	// PhoneRegion is used to format phone numbers for display.
	PhoneRegion string
	// DateLayout formats the created date.
	DateLayout string
}

// Model is the Bubble Tea model of the dashboard.
type Model struct {
	ctx    context.Context
	ctl    Controller
	status *notification.Latest
	opts   Options

	state    listing.ViewState
	selected int
	mode     mode
	search   textinput.Model
	pending  domain.Lead
	notice   notification.Notice
	hasNote  bool
	busy     int
	width    int
}

// New creates the dashboard model. status must be the sink the controller
// notifies; the model shows its latest notice.
func New(ctx context.Context, ctl Controller, status *notification.Latest, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "name, email or phone"
	ti.Prompt = "/ "
	ti.CharLimit = 100
	ti.Width = 40

	if opts.DateLayout == "" {
		opts.DateLayout = "2006-01-02"
	}

	m := Model{
		ctx:    ctx,
		ctl:    ctl,
		status: status,
		opts:   opts,
		state:  ctl.State(),
		search: ti,
	}
	// first page is fetched by Init
	m.state.IsLoading = true
	return m
}

// Init loads the first page.
func (m Model) Init() tea.Cmd {
	return m.run(func(ctx context.Context) error {
		_, err := m.ctl.Open(ctx, 1, "")
		return err
	})
}

// run wraps a controller call in a tea.Cmd.
func (m *Model) run(call func(ctx context.Context) error) tea.Cmd {
	m.busy++
	ctx := m.ctx
	return func() tea.Msg {
		return doneMsg{err: call(ctx)}
	}
}

// Update handles key presses and finished controller calls.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case doneMsg:
		if m.busy > 0 {
			m.busy--
		}
		m.sync()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

// sync pulls the controller state and the latest notice into the model.
func (m *Model) sync() {
	m.state = m.ctl.State()
	if n, ok := m.status.Take(); ok {
		m.notice = n
		m.hasNote = true
	}
	if m.selected >= len(m.state.Items) {
		m.selected = len(m.state.Items) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		if m.selected < len(m.state.Items)-1 {
			m.selected++
		}

	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}

	case "n", "right":
		if m.state.HasNext() {
			target := m.state.Page + 1
			return m, m.run(func(ctx context.Context) error {
				_, err := m.ctl.SetPage(ctx, target)
				return err
			})
		}

	case "p", "left":
		if m.state.HasPrev() {
			target := m.state.Page - 1
			return m, m.run(func(ctx context.Context) error {
				_, err := m.ctl.SetPage(ctx, target)
				return err
			})
		}

	case "r":
		page, query := m.state.Page, m.state.SearchQuery
		return m, m.run(func(ctx context.Context) error {
			_, err := m.ctl.Refresh(ctx, page, m.ctl.Limit(), query)
			return err
		})

	case "/":
		m.mode = modeSearch
		m.search.SetValue(m.state.SearchQuery)
		m.search.CursorEnd()
		m.search.Focus()
		return m, nil

	case "c":
		lead, ok := m.current()
		if !ok || lead.IsContacted() {
			return m, nil
		}
		return m, m.run(func(ctx context.Context) error {
			return m.ctl.MarkContacted(ctx, lead.ID)
		})

	case "d":
		if lead, ok := m.current(); ok {
			m.pending = lead
			m.mode = modeConfirmDelete
		}
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		query := m.search.Value()
		m.mode = modeBrowse
		m.search.Blur()
		m.selected = 0
		return m, m.run(func(ctx context.Context) error {
			_, err := m.ctl.SetSearchQuery(ctx, query)
			return err
		})

	case "esc":
		m.mode = modeBrowse
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := m.pending.ID
		m.mode = modeBrowse
		m.pending = domain.Lead{}
		return m, m.run(func(ctx context.Context) error {
			return m.ctl.DeleteLead(ctx, id)
		})

	case "n", "N", "esc":
		m.mode = modeBrowse
		m.pending = domain.Lead{}
	}
	return m, nil
}

func (m Model) current() (domain.Lead, bool) {
	if m.selected < 0 || m.selected >= len(m.state.Items) {
		return domain.Lead{}, false
	}
	return m.state.Items[m.selected], true
}

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Leads"))
	b.WriteString("  ")
	b.WriteString(fmt.Sprintf("Page %d of %d", m.state.Page, m.state.TotalPages))
	if m.busy > 0 || m.state.IsLoading {
		b.WriteString(dimmedStyle.Render("  Loading..."))
	}
	b.WriteString("\n")

	switch {
	case m.mode == modeSearch:
		b.WriteString(m.search.View())
		b.WriteString("\n")
	case m.state.SearchQuery != "":
		b.WriteString(dimmedStyle.Render("search: " + m.state.SearchQuery))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.state.Items) == 0 {
		b.WriteString(dimmedStyle.Render("No leads found."))
		b.WriteString("\n")
	} else {
		b.WriteString(headerStyle.Render(row("  ", "Name", "Email", "Phone", "Status", "Created")))
		b.WriteString("\n")
		for i, l := range m.state.Items {
			b.WriteString(m.renderLead(i, l))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.mode == modeConfirmDelete {
		b.WriteString(promptStyle.Render(listing.PromptDelete + " (y/n)"))
		b.WriteString("\n")
	}
	if m.hasNote {
		b.WriteString(renderNotice(m.notice))
		b.WriteString("\n")
	}
	help := "n/p page  j/k move  / search  c contacted  d delete  r refresh  q quit"
	if m.width > 0 && m.width < len(help) {
		help = "n/p / c d r q"
	}
	b.WriteString(dimmedStyle.Render(help))
	return b.String()
}

func (m Model) renderLead(i int, l domain.Lead) string {
	cursor := "  "
	if i == m.selected {
		cursor = "> "
	}

	status := newStyle.Render(pad(string(l.Status), colStatus))
	if l.IsContacted() {
		status = contactedStyle.Render(pad(string(l.Status), colStatus))
	}

	line := cursor +
		pad(l.Name, colName) + " " +
		pad(l.Email, colEmail) + " " +
		pad(phone.FormatDisplay(l.Phone, m.opts.PhoneRegion), colPhone) + " " +
		status + " " +
		pad(l.CreatedAt.Display(m.opts.DateLayout), colCreated)

	if i == m.selected {
		return selectedStyle.Render(line)
	}
	return line
}

func renderNotice(n notification.Notice) string {
	if n.Kind == notification.KindSuccess {
		return successStyle.Render(n.Message)
	}
	return failureStyle.Render(n.Message)
}

func row(cursor, name, email, phoneCol, status, created string) string {
	return cursor +
		pad(name, colName) + " " +
		pad(email, colEmail) + " " +
		pad(phoneCol, colPhone) + " " +
		pad(status, colStatus) + " " +
		pad(created, colCreated)
}

// pad truncates or right-pads s to exactly width cells.
func pad(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		if width <= 1 {
			return string(r[:width])
		}
		return string(r[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(r))
}
