package notifications

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kevinramil/streetsell-tui/internal/keys"
	"github.com/kevinramil/streetsell-tui/internal/notify"
	"github.com/kevinramil/streetsell-tui/internal/store"
	"github.com/kevinramil/streetsell-tui/internal/theme"
)

// DismissedMsg asks the app to persist the given dismissals. It is only
// emitted once the stored dismissal set has been loaded.
type DismissedMsg struct {
	Entries []store.HiddenEntry
}

// NavigateMsg asks the app to open the listing behind a notification.
type NavigateMsg struct {
	ProductID string
}

// Model is the notification dropdown panel: the newest visible records,
// with dismiss, clear-all, and navigation.
type Model struct {
	agg        *notify.Aggregator
	keys       *keys.KeyMap
	maxVisible int
	cursor     int
	width      int
	height     int
}

// New creates the panel over the shared aggregator. A non-positive
// maxVisible falls back to the default panel size.
func New(agg *notify.Aggregator, k *keys.KeyMap, maxVisible, width, height int) Model {
	if maxVisible <= 0 {
		maxVisible = notify.DefaultMaxVisible
	}
	return Model{
		agg:        agg,
		keys:       k,
		maxVisible: maxVisible,
		width:      width,
		height:     height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	top := m.agg.Top(m.maxVisible)
	m.clampCursor(len(top))

	switch {
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(top)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Dismiss):
		if len(top) == 0 {
			return m, nil
		}
		entry, persist := m.agg.Hide(top[m.cursor].ID)
		m.clampCursor(m.agg.TotalVisible())
		if !persist {
			return m, nil
		}
		return m, func() tea.Msg {
			return DismissedMsg{Entries: []store.HiddenEntry{entry}}
		}

	case key.Matches(keyMsg, m.keys.ClearAll):
		entries := m.agg.ClearAll()
		m.cursor = 0
		if len(entries) == 0 {
			return m, nil
		}
		return m, func() tea.Msg { return DismissedMsg{Entries: entries} }

	case key.Matches(keyMsg, m.keys.Select):
		if len(top) == 0 {
			return m, nil
		}
		rec := top[m.cursor]
		// Cancelled-order notices have no listing to open.
		if !rec.Navigable || rec.ProductID == "" {
			return m, nil
		}
		return m, func() tea.Msg { return NavigateMsg{ProductID: rec.ProductID} }
	}

	return m, nil
}

func (m *Model) clampCursor(n int) {
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the panel.
func (m Model) View() string {
	top := m.agg.Top(m.maxVisible)
	total := m.agg.TotalVisible()

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).
		Render(fmt.Sprintf("Notifications (%d)", total))

	lines := []string{title}

	if len(top) == 0 {
		lines = append(lines, theme.HelpStyle.Render("all caught up"))
	}

	for i, rec := range top {
		line := rec.Message
		if !rec.Date.IsZero() {
			line += theme.HelpStyle.Render("  " + rec.Date.Format("Jan 02 15:04"))
		}
		if !rec.Navigable {
			line += lipgloss.NewStyle().Foreground(theme.ColorGray).Render(" (info)")
		}
		if i == m.cursor {
			line = theme.SelectedItemStyle.Render(line)
		} else {
			line = theme.ListItemStyle.Render(line)
		}
		lines = append(lines, line)
	}

	if total > len(top) {
		lines = append(lines, theme.HelpStyle.Render(
			fmt.Sprintf("+%d more (dismiss to see them)", total-len(top))))
	}

	lines = append(lines, theme.HelpStyle.Render("x dismiss  C clear all  enter open  esc close"))

	return theme.BorderStyle.
		Width(min(m.width-4, 70)).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
