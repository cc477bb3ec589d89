package productlist

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kevinramil/streetsell-tui/internal/api"
	"github.com/kevinramil/streetsell-tui/internal/keys"
	"github.com/kevinramil/streetsell-tui/internal/model"
	"github.com/kevinramil/streetsell-tui/internal/theme"
)

// ProductsLoadedMsg is sent when the listing catalog has been fetched.
type ProductsLoadedMsg struct {
	Products []model.Product
	Query    string
	Err      error
}

// SelectedProductMsg is sent when the user opens a listing.
type SelectedProductMsg struct {
	ProductID string
}

// Model is the marketplace home view: the browsable listing catalog with
// server-side search.
type Model struct {
	list        list.Model
	client      *api.Client
	keys        *keys.KeyMap
	query       string
	searchMode  bool
	searchInput textinput.Model
	loadErr     error
	width       int
	height      int
}

// New creates the catalog view.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Listings"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search listings..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		client:      client,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns a command that loads the catalog.
func (m Model) Init() tea.Cmd {
	return m.LoadProducts()
}

// Update handles messages for the catalog view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProductsLoadedMsg:
		// Ignore results for a query the user has since changed.
		if msg.Query != m.query {
			return m, nil
		}
		m.loadErr = msg.Err
		items := make([]list.Item, len(msg.Products))
		for i, p := range msg.Products {
			items[i] = ProductItem{Product: p}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.query = m.searchInput.Value()
		return m, m.LoadProducts()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.query = ""
		return m, m.LoadProducts()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(ProductItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedProductMsg{ProductID: item.Product.ID}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.LoadProducts()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the catalog view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when no listings are available.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.loadErr != nil {
		return style.Render("Could not load listings.\nPress r to retry.")
	}
	if m.query != "" {
		return style.Render("No listings match \"" + m.query + "\".\nPress / to search again, esc to clear.")
	}
	return style.Render("No listings yet.\nPress + to sell something.")
}

// LoadProducts returns a tea.Cmd that fetches the catalog, using the
// search endpoint when a query is active.
func (m Model) LoadProducts() tea.Cmd {
	client := m.client
	query := m.query
	return func() tea.Msg {
		ctx := context.Background()

		var (
			products []model.Product
			err      error
		)
		if query != "" {
			products, err = client.SearchProducts(ctx, query)
		} else {
			products, err = client.Products(ctx)
		}
		if err != nil {
			return ProductsLoadedMsg{Query: query, Err: err}
		}
		return ProductsLoadedMsg{Products: products, Query: query}
	}
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
