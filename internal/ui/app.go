// Package ui provides an interactive terminal browser over a completed
// link-check run. It uses the Bubble Tea framework with a small state
// machine: run the pipeline, then show results, since this checker never
// waits on the network and has no long streaming phase to narrate.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/golink-dev/golink/internal/classify"
	"github.com/golink-dev/golink/internal/runstats"
	"github.com/golink-dev/golink/internal/uitext"
)

// =============================================================================
// KEY BINDINGS
// =============================================================================

// keyMap defines the keys app.go branches on directly; list.Model supplies
// its own bindings for paging and cursor movement.
type keyMap struct {
	Filter key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle broken-link/anchor filter"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Filter, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Filter, k.Help, k.Quit}}
}

// =============================================================================
// STATE MACHINE
// =============================================================================

// appState represents the current phase of the application lifecycle.
type appState int

const (
	stateRunning appState = iota // Enumerating, extracting, reducing, classifying
	stateResults                 // Showing results (list view)
)

// =============================================================================
// FILTER TYPES
// =============================================================================

// filterType represents the active result filter in the UI.
type filterType int

const (
	filterAll     filterType = iota // Broken links + broken anchors
	filterLinks                     // Broken links only
	filterAnchors                   // Broken anchors only
)

const filterCount = 3

// String returns the human-readable label for the filter type.
func (f filterType) String() string {
	switch f {
	case filterAll:
		return "All Findings"
	case filterLinks:
		return "Broken Links"
	case filterAnchors:
		return "Broken Anchors"
	default:
		return "Unknown"
	}
}

// Next returns the next filter type in the cycle.
func (f filterType) Next() filterType {
	return (f + 1) % filterCount
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the main application model.
type Model struct {
	list list.Model
	help help.Model
	err  error

	root         string
	jobs         int
	checkAnchors bool
	keys         keyMap

	findings []classify.Finding
	stats    *runstats.Stats

	spinner spinner.Model
	state   appState
	filter  filterType

	width    int
	height   int
	quitting bool
	showHelp bool
}

// New creates and returns a new Model that will check root when run.
func New(root string, jobs int, checkAnchors bool) Model {
	if root == "" {
		root = "."
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle()

	h := help.New()
	k := defaultKeyMap()

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.Styles.SelectedTitle = SelectedStyle
	delegate.Styles.SelectedDesc = StatusStyle

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Link Check Results"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.Styles.Title = TitleStyle

	return Model{
		state:        stateRunning,
		spinner:      s,
		list:         l,
		help:         h,
		keys:         k,
		filter:       filterAll,
		root:         root,
		jobs:         jobs,
		checkAnchors: checkAnchors,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, RunCheckCmd(m.root, m.jobs, m.checkAnchors))
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		listHeight := max(msg.Height-10, 5)
		m.list.SetSize(msg.Width, listHeight)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ResultsMsg:
		return m.handleResults(msg)
	}

	if m.state == stateResults {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input and dispatches to appropriate handlers.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return m, nil
	}

	if m.state == stateResults {
		if key.Matches(msg, m.keys.Filter) {
			m.filter = m.filter.Next()
			m.updateListItems()
			return m, nil
		}

		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleResults processes the completed pipeline run and enters the results view.
func (m *Model) handleResults(msg ResultsMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.err = msg.Err
		m.state = stateResults
		return m, nil
	}
	m.findings = msg.Findings
	m.stats = msg.Stats
	m.state = stateResults
	m.updateListItems()
	return m, nil
}

// updateListItems updates the list with filtered findings.
func (m *Model) updateListItems() {
	filtered := m.getFilteredFindings()
	findingItems := FindingsToItems(filtered)
	items := make([]list.Item, len(findingItems))
	for i, fi := range findingItems {
		items[i] = fi
	}
	m.list.SetItems(items)
}

// getFilteredFindings returns findings based on the current filter.
func (m *Model) getFilteredFindings() []classify.Finding {
	switch m.filter {
	case filterLinks:
		return classify.Errors(m.findings)
	case filterAnchors:
		return classify.Warnings(m.findings)
	default:
		return m.findings
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var s string

	s += TitleStyle.Render("golink - Offline Link Checker")
	s += "\n\n"

	if m.err != nil {
		s += ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err))
		s += "\n"
		s += HelpStyle.Render("Press q to quit")
		return s
	}

	switch m.state {
	case stateRunning:
		s += m.spinner.View() + fmt.Sprintf(" Checking %s...", m.root)
	case stateResults:
		s += m.renderResults()
	}

	if m.showHelp {
		s += "\n\n" + m.help.View(m.keys)
	} else {
		s += "\n\n" + m.renderShortHelp()
	}

	return s
}

// renderResults renders the final results view with filtering options.
func (m Model) renderResults() string {
	var s string

	errors := classify.Errors(m.findings)
	warnings := classify.Warnings(m.findings)

	if m.stats != nil {
		s += fmt.Sprintf("Enumerated %d file(s), %d document(s) seen", m.stats.FilesEnumerated, m.stats.DocumentsSeen)
		s += fmt.Sprintf(" in %s\n\n", runstats.FormatDuration(m.stats.TotalDuration()))
	}

	s += fmt.Sprintf("%s  %s\n\n",
		ErrorStyle.Render(fmt.Sprintf("✗ %d broken links", len(errors))),
		WarningStyle.Render(fmt.Sprintf("⚠ %d broken anchors", len(warnings))))

	if distinct := uitext.CountUnique(targets(m.findings)); distinct > 0 {
		s += MutedStyle.Render(fmt.Sprintf("%d distinct target(s) affected\n\n", distinct))
	}

	if len(m.findings) == 0 {
		s += SuccessStyle.Render("No broken links or anchors found!")
		return s
	}

	filteredCount := len(m.getFilteredFindings())
	s += fmt.Sprintf("Filter: %s (%d/%d)\n\n",
		SelectedStyle.Render(m.filter.String()),
		filteredCount,
		len(m.findings))

	s += m.list.View()

	if selected := m.list.SelectedItem(); selected != nil {
		if item, ok := selected.(FindingItem); ok {
			s += "\n" + item.DetailView()
		}
	}

	return s
}

// renderShortHelp renders a compact help line at the bottom of the screen.
func (Model) renderShortHelp() string {
	return HelpStyle.Render("↑/↓ navigate • f filter • ? help • q quit")
}

// targets extracts each finding's target for uniqueness counting.
func targets(findings []classify.Finding) []string {
	out := make([]string, len(findings))
	for i, f := range findings {
		out[i] = f.Target
	}
	return out
}
