package admin

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kevinramil/streetsell-tui/internal/api"
	"github.com/kevinramil/streetsell-tui/internal/keys"
	"github.com/kevinramil/streetsell-tui/internal/model"
	"github.com/kevinramil/streetsell-tui/internal/theme"
)

// pageSize is how many listings the products tab fetches per page.
const pageSize = 20

// Tab selects which moderation table is focused.
type Tab int

const (
	TabUsers Tab = iota
	TabProducts
)

// UsersLoadedMsg is sent when the account list has been fetched.
type UsersLoadedMsg struct {
	Users []model.AdminUser
	Err   error
}

// ProductsLoadedMsg is sent when a page of listings has been fetched.
type ProductsLoadedMsg struct {
	Products *model.Page[model.Product]
	Err      error
}

// SearchLoadedMsg is sent when a server-side user search has completed.
type SearchLoadedMsg struct {
	Users []model.User
	Query string
	Err   error
}

// actionDoneMsg carries the outcome of a moderation action.
type actionDoneMsg struct {
	err error
}

// Model is the ADMIN-only moderation panel: every account and every
// listing, with deactivate/reactivate and suspend actions.
type Model struct {
	client *api.Client
	keys   *keys.KeyMap

	tab        Tab
	usersTable table.Model
	prodTable  table.Model

	users    []model.AdminUser
	products *model.Page[model.Product]
	page     int

	searchMode  bool
	searchInput textinput.Model
	searchQuery string
	searched    []model.User

	errMsg string
	width  int
	height int
}

// New creates the admin panel.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Bold(true).
		Foreground(theme.ColorWhite).
		BorderForeground(theme.ColorBorder)
	styles.Selected = styles.Selected.
		Bold(true).
		Foreground(theme.ColorBlue)

	ut := table.New(
		table.WithColumns(userColumns(width)),
		table.WithFocused(true),
		table.WithHeight(height-6),
	)
	ut.SetStyles(styles)

	pt := table.New(
		table.WithColumns(productColumns(width)),
		table.WithFocused(true),
		table.WithHeight(height-6),
	)
	pt.SetStyles(styles)

	si := textinput.New()
	si.Placeholder = "search users..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		client:      client,
		keys:        k,
		usersTable:  ut,
		prodTable:   pt,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

func userColumns(width int) []table.Column {
	return []table.Column{
		{Title: "Username", Width: 16},
		{Title: "Email", Width: max(20, width-60)},
		{Title: "Role", Width: 6},
		{Title: "Active", Width: 6},
		{Title: "Listings", Width: 8},
	}
}

func productColumns(width int) []table.Column {
	return []table.Column{
		{Title: "Title", Width: max(20, width-50)},
		{Title: "Seller", Width: 16},
		{Title: "Price", Width: 10},
		{Title: "Status", Width: 12},
	}
}

// Init returns commands that load both tabs.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadUsers(), m.loadProducts(0))
}

// Update handles messages for the admin panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case UsersLoadedMsg:
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			return m, nil
		}
		m.users = msg.Users
		m.searched = nil
		m.searchQuery = ""
		m.setUserRows()
		return m, nil

	case SearchLoadedMsg:
		// Ignore results for a query the user has since changed.
		if msg.Query != m.searchQuery {
			return m, nil
		}
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			return m, nil
		}
		m.searched = msg.Users
		m.setUserRows()
		return m, nil

	case ProductsLoadedMsg:
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			return m, nil
		}
		m.products = msg.Products
		m.page = msg.Products.Number
		rows := make([]table.Row, len(msg.Products.Content))
		for i, p := range msg.Products.Content {
			seller := ""
			if p.Venditore != nil {
				seller = "@" + p.Venditore.Username
			}
			rows[i] = table.Row{
				p.Titolo,
				seller,
				fmt.Sprintf("%.2f", p.Prezzo),
				string(p.StatoProdotto),
			}
		}
		m.prodTable.SetRows(rows)
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		if m.tab == TabUsers {
			return m, m.loadUsers()
		}
		return m, m.loadProducts(m.page)

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleKeys(msg)
	}

	return m, nil
}

// setUserRows rebuilds the users table from the full listing or, while a
// search is active, the search results. Search rows lack the listings
// count; the endpoint returns plain user objects.
func (m *Model) setUserRows() {
	if m.searchQuery != "" {
		rows := make([]table.Row, len(m.searched))
		for i, u := range m.searched {
			active := "yes"
			if !u.Attivo {
				active = "no"
			}
			rows[i] = table.Row{"@" + u.Username, u.Email, string(u.Ruolo), active, "-"}
		}
		m.usersTable.SetRows(rows)
		return
	}

	rows := make([]table.Row, len(m.users))
	for i, u := range m.users {
		active := "yes"
		if !u.Attivo {
			active = "no"
		}
		rows[i] = table.Row{
			"@" + u.Username,
			u.Email,
			u.Ruolo,
			active,
			fmt.Sprintf("%d", u.ProdottiAttiviCount),
		}
	}
	m.usersTable.SetRows(rows)
}

// handleSearchKeys processes key input while the user search has focus.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchQuery = m.searchInput.Value()
		if m.searchQuery == "" {
			m.searched = nil
			m.setUserRows()
			return m, nil
		}
		return m, m.searchUsers(m.searchQuery)

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.searchQuery = ""
		m.searched = nil
		m.setUserRows()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m Model) searchUsers(query string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		users, err := client.SearchUsers(context.Background(), query)
		return SearchLoadedMsg{Users: users, Query: query, Err: err}
	}
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		if m.tab != TabUsers {
			return m, nil
		}
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.ToggleRole):
		if m.tab == TabUsers {
			m.tab = TabProducts
		} else {
			m.tab = TabUsers
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.tab == TabUsers {
			return m, m.loadUsers()
		}
		return m, m.loadProducts(m.page)

	case msg.String() == "]":
		if m.tab == TabProducts && m.products != nil && m.products.HasMore() {
			return m, m.loadProducts(m.page + 1)
		}
		return m, nil

	case msg.String() == "[":
		if m.tab == TabProducts && m.page > 0 {
			return m, m.loadProducts(m.page - 1)
		}
		return m, nil

	case msg.String() == "d":
		return m.moderateSelected()
	}

	var cmd tea.Cmd
	if m.tab == TabUsers {
		m.usersTable, cmd = m.usersTable.Update(msg)
	} else {
		m.prodTable, cmd = m.prodTable.Update(msg)
	}
	return m, cmd
}

// moderateSelected toggles the selected account's active flag, or suspends
// the selected listing.
func (m Model) moderateSelected() (Model, tea.Cmd) {
	client := m.client

	if m.tab == TabUsers {
		idx := m.usersTable.Cursor()

		var id string
		var attivo bool
		if m.searchQuery != "" {
			if idx < 0 || idx >= len(m.searched) {
				return m, nil
			}
			id, attivo = m.searched[idx].ID, m.searched[idx].Attivo
		} else {
			if idx < 0 || idx >= len(m.users) {
				return m, nil
			}
			id, attivo = m.users[idx].ID, m.users[idx].Attivo
		}

		return m, func() tea.Msg {
			ctx := context.Background()
			if attivo {
				return actionDoneMsg{err: client.DeactivateUser(ctx, id)}
			}
			_, err := client.ReactivateUser(ctx, id)
			return actionDoneMsg{err: err}
		}
	}

	if m.products == nil {
		return m, nil
	}
	idx := m.prodTable.Cursor()
	if idx < 0 || idx >= len(m.products.Content) {
		return m, nil
	}
	p := m.products.Content[idx]
	if p.StatoProdotto == model.ProductSuspended {
		return m, nil
	}
	return m, func() tea.Msg {
		_, err := client.SuspendProduct(context.Background(), p.ID)
		return actionDoneMsg{err: err}
	}
}

func (m Model) loadUsers() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		users, err := client.AllUsers(context.Background())
		return UsersLoadedMsg{Users: users, Err: err}
	}
}

func (m Model) loadProducts(page int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		products, err := client.AllProducts(context.Background(), page, pageSize)
		return ProductsLoadedMsg{Products: products, Err: err}
	}
}

// Searching reports whether the user search input has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// View renders the admin panel.
func (m Model) View() string {
	tabLabel := "Users"
	action := "/ search  d deactivate/reactivate"
	body := m.usersTable.View()
	if m.tab == TabUsers {
		if m.searchMode {
			body = lipgloss.JoinVertical(lipgloss.Left,
				m.searchInput.View(), m.usersTable.View())
		} else if m.searchQuery != "" {
			tabLabel = fmt.Sprintf("Users matching %q", m.searchQuery)
		}
	}
	if m.tab == TabProducts {
		tabLabel = "Listings"
		action = "d suspend  [/] page"
		body = m.prodTable.View()
		if m.products != nil {
			tabLabel = fmt.Sprintf("Listings (page %d/%d)", m.page+1, m.products.TotalPages)
		}
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).
		Render("Admin: " + tabLabel)
	hints := theme.HelpStyle.Render("tab switch  " + action + "  r refresh")

	parts := []string{header + "  " + hints}
	if m.errMsg != "" {
		parts = append(parts, theme.ErrorStyle.Render(m.errMsg))
	}
	parts = append(parts, body)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// SetSize updates the table dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.usersTable.SetColumns(userColumns(width))
	m.usersTable.SetHeight(height - 6)
	m.prodTable.SetColumns(productColumns(width))
	m.prodTable.SetHeight(height - 6)
	m.searchInput.Width = width - 4
}
