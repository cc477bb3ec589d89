package productdetail

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/kevinramil/streetsell-tui/internal/api"
	"github.com/kevinramil/streetsell-tui/internal/keys"
	"github.com/kevinramil/streetsell-tui/internal/model"
	"github.com/kevinramil/streetsell-tui/internal/theme"
)

// reviewPageSize is how many seller reviews are shown per page.
const reviewPageSize = 5

// ProductLoadedMsg is sent when a listing and its seller's reputation have
// been fetched.
type ProductLoadedMsg struct {
	Product *model.Product
	Seller  *model.User
	Rating  *model.RatingSummary
	Err     error
}

// ReviewsLoadedMsg is sent when a page of seller reviews has been fetched.
type ReviewsLoadedMsg struct {
	Reviews *model.Page[model.Review]
	Err     error
}

// addressesLoadedMsg carries the address book for the purchase picker.
type addressesLoadedMsg struct {
	addresses []model.Address
	err       error
}

// OrderPlacedMsg is sent when a purchase succeeded. The app refreshes the
// notification poller on it.
type OrderPlacedMsg struct {
	Order *model.Order
}

// orderResultMsg carries the outcome of the purchase call.
type orderResultMsg struct {
	order *model.Order
	err   error
}

// Model is the listing detail view: product info, seller reputation, and
// the purchase flow.
type Model struct {
	client *api.Client
	keys   *keys.KeyMap

	productID string
	product   *model.Product
	seller    *model.User
	rating    *model.RatingSummary
	reviews   *model.Page[model.Review]
	page      int

	buying    bool
	addresses []model.Address
	form      *huh.Form
	addressID *string

	status string
	errMsg string
	width  int
	height int
}

// New creates the detail view.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	return Model{
		client: client,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Load resets the view onto a listing and returns the fetch command.
func (m *Model) Load(productID string) tea.Cmd {
	m.productID = productID
	m.product = nil
	m.seller = nil
	m.rating = nil
	m.reviews = nil
	m.page = 0
	m.buying = false
	m.form = nil
	m.status = ""
	m.errMsg = ""

	client := m.client
	return func() tea.Msg {
		ctx := context.Background()

		product, err := client.Product(ctx, productID)
		if err != nil {
			return ProductLoadedMsg{Err: err}
		}

		var seller *model.User
		var rating *model.RatingSummary
		if product.Venditore != nil {
			// Reputation is best-effort; the listing still renders without it.
			// The listing payload carries a trimmed seller, so the full
			// profile is fetched separately.
			seller, _ = client.UserByID(ctx, product.Venditore.ID)
			rating, _ = client.UserRating(ctx, product.Venditore.ID)
		}

		return ProductLoadedMsg{Product: product, Seller: seller, Rating: rating}
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProductLoadedMsg:
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			return m, nil
		}
		m.product = msg.Product
		m.seller = msg.Seller
		m.rating = msg.Rating
		return m, m.loadReviews(0)

	case ReviewsLoadedMsg:
		if msg.Err == nil {
			m.reviews = msg.Reviews
			m.page = msg.Reviews.Number
		}
		return m, nil

	case addressesLoadedMsg:
		if msg.err != nil {
			m.errMsg = "could not load addresses: " + msg.err.Error()
			m.buying = false
			return m, nil
		}
		if len(msg.addresses) == 0 {
			m.errMsg = "no shipping addresses yet; press a to add one first"
			m.buying = false
			return m, nil
		}
		m.addresses = msg.addresses
		m.form = m.buildAddressForm()
		return m, m.form.Init()

	case orderResultMsg:
		m.buying = false
		m.form = nil
		if msg.err != nil {
			m.errMsg = errorText(msg.err)
			return m, nil
		}
		m.status = "Order placed. Track it in the orders view (o)."
		order := msg.order
		return m, func() tea.Msg { return OrderPlacedMsg{Order: order} }

	case tea.KeyMsg:
		if m.buying && m.form != nil {
			return m.updateForm(msg)
		}
		return m.handleKeys(msg)
	}

	if m.buying && m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "b":
		if m.product == nil || m.product.StatoProdotto != model.ProductAvailable {
			return m, nil
		}
		m.buying = true
		m.errMsg = ""
		m.status = ""
		return m, m.loadAddresses()

	case "]":
		if m.reviews != nil && m.reviews.HasMore() {
			return m, m.loadReviews(m.page + 1)
		}
	case "[":
		if m.page > 0 {
			return m, m.loadReviews(m.page - 1)
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.placeOrder()
	}
	if m.form.State == huh.StateAborted {
		m.buying = false
		m.form = nil
		return m, nil
	}
	return m, cmd
}

func (m *Model) buildAddressForm() *huh.Form {
	opts := make([]huh.Option[string], len(m.addresses))
	for i, a := range m.addresses {
		opts[i] = huh.NewOption(a.Line(), a.ID)
	}

	m.addressID = new(string)
	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Ship to").
			Options(opts...).
			Value(m.addressID),
	)).WithShowHelp(false)
}

func (m Model) loadAddresses() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		addresses, err := client.Addresses(context.Background())
		return addressesLoadedMsg{addresses: addresses, err: err}
	}
}

func (m Model) placeOrder() tea.Cmd {
	client := m.client
	productID := m.productID
	addressID := *m.addressID
	return func() tea.Msg {
		order, err := client.CreateOrder(context.Background(), api.CreateOrderRequest{
			ProdottoID:  productID,
			IndirizzoID: addressID,
		})
		return orderResultMsg{order: order, err: err}
	}
}

func (m Model) loadReviews(page int) tea.Cmd {
	if m.product == nil || m.product.Venditore == nil {
		return nil
	}
	client := m.client
	sellerID := m.product.Venditore.ID
	return func() tea.Msg {
		reviews, err := client.UserReviews(context.Background(), sellerID, page, reviewPageSize)
		return ReviewsLoadedMsg{Reviews: reviews, Err: err}
	}
}

// View renders the detail view.
func (m Model) View() string {
	if m.errMsg != "" && m.product == nil {
		return theme.DetailPanelStyle.Render(theme.ErrorStyle.Render(m.errMsg))
	}
	if m.product == nil {
		return theme.DetailPanelStyle.Render(theme.HelpStyle.Render("loading listing..."))
	}

	p := m.product
	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render(p.Titolo)
	price := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorGreen).
		Render(fmt.Sprintf("%.2f EUR", p.Prezzo))
	b.WriteString(title + "  " + price + "\n")
	b.WriteString(theme.ConditionStyle(p.Condizione).Render(string(p.Condizione)))
	b.WriteString(" ")
	b.WriteString(theme.ProductStatusStyle(p.StatoProdotto).Render(string(p.StatoProdotto)))
	if p.Categoria != "" {
		b.WriteString("  " + theme.HelpStyle.Render(p.Categoria))
	}
	b.WriteString("\n\n")

	if p.Descrizione != "" {
		b.WriteString(p.Descrizione + "\n\n")
	}

	if p.Venditore != nil {
		b.WriteString("Seller: @" + p.Venditore.Username)
		if m.seller != nil && m.seller.Nome != "" {
			b.WriteString(" (" + m.seller.Nome + " " + m.seller.Cognome + ")")
		}
		if m.rating != nil {
			stars := theme.RatingStyle(m.rating.Media).
				Render(fmt.Sprintf("%.1f/5 (%d reviews)", m.rating.Media, m.rating.NumRecensioni))
			b.WriteString("  " + stars)
		}
		b.WriteString("\n")
	}

	if m.reviews != nil && len(m.reviews.Content) > 0 {
		b.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("Seller reviews") +
			theme.HelpStyle.Render(fmt.Sprintf("  page %d/%d  [/] to page",
				m.reviews.Number+1, m.reviews.TotalPages)) + "\n")
		for _, r := range m.reviews.Content {
			reviewer := "anonymous"
			if r.Recensore != nil {
				reviewer = "@" + r.Recensore.Username
			}
			b.WriteString(fmt.Sprintf("  %s %s: %s\n",
				theme.RatingStyle(float64(r.Valutazione)).Render(strings.Repeat("★", r.Valutazione)),
				reviewer, r.Commento))
		}
	}

	if m.status != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.ColorGreen).Render(m.status))
	}
	if m.errMsg != "" {
		b.WriteString("\n" + theme.ErrorStyle.Render(m.errMsg))
	}

	if m.buying && m.form != nil {
		b.WriteString("\n\n" + m.form.View())
	} else if p.StatoProdotto == model.ProductAvailable {
		b.WriteString("\n" + theme.HelpStyle.Render("b buy  esc back"))
	}

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(b.String())
}

// Buying reports whether the purchase flow has focus.
func (m Model) Buying() bool {
	return m.buying
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func errorText(err error) string {
	if vErr, ok := api.IsValidationError(err); ok {
		return vErr.Error()
	}
	return err.Error()
}
