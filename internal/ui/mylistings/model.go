package mylistings

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kevinramil/streetsell-tui/internal/api"
	"github.com/kevinramil/streetsell-tui/internal/keys"
	"github.com/kevinramil/streetsell-tui/internal/model"
	"github.com/kevinramil/streetsell-tui/internal/theme"
)

// pageSize is how many own listings are fetched per page.
const pageSize = 10

// LoadedMsg is sent when a page of the user's listings has been fetched.
type LoadedMsg struct {
	Products *model.Page[model.Product]
	Err      error
}

// EditRequestMsg asks the app to open the listing form in edit mode.
type EditRequestMsg struct {
	Product model.Product
}

// actionDoneMsg carries the outcome of archive or image removal.
type actionDoneMsg struct {
	err error
}

// Model shows the user's own listings with edit, archive, and image
// cleanup actions.
type Model struct {
	client *api.Client
	keys   *keys.KeyMap

	products *model.Page[model.Product]
	page     int
	cursor   int

	errMsg string
	width  int
	height int
}

// New creates the own-listings view.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	return Model{
		client: client,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init returns a command that loads the first page.
func (m Model) Init() tea.Cmd {
	return m.Load(0)
}

// Load returns a tea.Cmd that fetches one page of own listings.
func (m Model) Load(page int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		products, err := client.MyProducts(context.Background(), page, pageSize)
		return LoadedMsg{Products: products, Err: err}
	}
}

// Update handles messages for the own-listings view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.products = msg.Products
		m.page = msg.Products.Number
		if m.cursor >= len(msg.Products.Content) {
			m.cursor = 0
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		return m, m.Load(m.page)

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	items := m.items()

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Select):
		if m.cursor >= len(items) {
			return m, nil
		}
		p := items[m.cursor]
		return m, func() tea.Msg { return EditRequestMsg{Product: p} }

	case key.Matches(msg, m.keys.Dismiss):
		if m.cursor >= len(items) {
			return m, nil
		}
		client := m.client
		id := items[m.cursor].ID
		return m, func() tea.Msg {
			return actionDoneMsg{err: client.ArchiveProduct(context.Background(), id)}
		}

	case msg.String() == "i":
		// Remove the first image of the selected listing.
		if m.cursor >= len(items) || len(items[m.cursor].Immagini) == 0 {
			return m, nil
		}
		client := m.client
		productID := items[m.cursor].ID
		imageID := items[m.cursor].Immagini[0].ID
		return m, func() tea.Msg {
			return actionDoneMsg{err: client.DeleteProductImage(
				context.Background(), productID, imageID)}
		}

	case msg.String() == "]":
		if m.products != nil && m.products.HasMore() {
			return m, m.Load(m.page + 1)
		}
	case msg.String() == "[":
		if m.page > 0 {
			return m, m.Load(m.page - 1)
		}

	case key.Matches(msg, m.keys.Refresh):
		return m, m.Load(m.page)
	}

	return m, nil
}

func (m Model) items() []model.Product {
	if m.products == nil {
		return nil
	}
	return m.products.Content
}

// View renders the own-listings view.
func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).
		Render("Your listings")
	if m.products != nil && m.products.TotalPages > 1 {
		title += theme.HelpStyle.Render(
			fmt.Sprintf("  page %d/%d", m.page+1, m.products.TotalPages))
	}

	lines := []string{title}
	if m.errMsg != "" {
		lines = append(lines, theme.ErrorStyle.Render(m.errMsg))
	}

	items := m.items()
	if len(items) == 0 {
		lines = append(lines, theme.HelpStyle.Render("No listings yet. Press + to sell something."))
	}

	for i, p := range items {
		line := fmt.Sprintf("%8.2f EUR  %s %s  %s",
			p.Prezzo,
			theme.ProductStatusStyle(p.StatoProdotto).Render(string(p.StatoProdotto)),
			p.Titolo,
			theme.HelpStyle.Render(fmt.Sprintf("%d images", len(p.Immagini))),
		)
		if i == m.cursor {
			line = theme.SelectedItemStyle.Render(line)
		} else {
			line = theme.ListItemStyle.Render(line)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "",
		theme.HelpStyle.Render("enter edit  x archive  i drop first image  [/] page  r refresh"))

	return lipgloss.NewStyle().Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
