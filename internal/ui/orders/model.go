package orders

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kevinramil/streetsell-tui/internal/api"
	"github.com/kevinramil/streetsell-tui/internal/keys"
	"github.com/kevinramil/streetsell-tui/internal/model"
	"github.com/kevinramil/streetsell-tui/internal/theme"
)

// Role selects which side of the transactions the table shows.
type Role int

const (
	RoleSales Role = iota
	RolePurchases
)

// Filter narrows the table to one slice of the order lifecycle.
type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
	FilterCancelled
	FilterToReview
)

// OrderChangedMsg is sent after a lifecycle transition succeeded or failed.
// The app triggers a poller refresh on success.
type OrderChangedMsg struct {
	Order *model.Order
	Err   error
}

// StartReviewMsg asks the app to open the review form for an order.
type StartReviewMsg struct {
	Order model.Order
}

// Model is the order management view: sales and purchases with their
// pending task, filters, and lifecycle actions.
type Model struct {
	table  table.Model
	client *api.Client
	keys   *keys.KeyMap

	orders []model.Order
	userID string
	role   Role
	filter Filter
	rows   []model.Order

	errMsg string
	stale  bool
	width  int
	height int
}

// New creates the orders view.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	t := table.New(
		table.WithColumns(columns(width)),
		table.WithFocused(true),
		table.WithHeight(height-6),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Bold(true).
		Foreground(theme.ColorWhite).
		BorderForeground(theme.ColorBorder)
	styles.Selected = styles.Selected.
		Bold(true).
		Foreground(theme.ColorBlue)
	t.SetStyles(styles)

	return Model{
		table:  t,
		client: client,
		keys:   k,
		width:  width,
		height: height,
	}
}

func columns(width int) []table.Column {
	productWidth := width - 56
	if productWidth < 16 {
		productWidth = 16
	}
	return []table.Column{
		{Title: "Product", Width: productWidth},
		{Title: "With", Width: 14},
		{Title: "Date", Width: 10},
		{Title: "Status", Width: 10},
		{Title: "Next step", Width: 20},
	}
}

// SetOrders replaces the order data. The app feeds this from poll results
// or the local cache when the backend is unreachable.
func (m *Model) SetOrders(orders []model.Order, userID string, stale bool) {
	m.orders = orders
	m.userID = userID
	m.stale = stale
	m.rebuildRows()
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the orders view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case OrderChangedMsg:
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
		} else {
			m.errMsg = ""
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.ToggleRole):
			if m.role == RoleSales {
				m.role = RolePurchases
			} else {
				m.role = RoleSales
			}
			m.rebuildRows()
			return m, nil

		case key.Matches(msg, m.keys.FilterAll):
			m.filter = FilterAll
			m.rebuildRows()
			return m, nil
		case key.Matches(msg, m.keys.FilterActive):
			m.filter = FilterActive
			m.rebuildRows()
			return m, nil
		case key.Matches(msg, m.keys.FilterCompleted):
			m.filter = FilterCompleted
			m.rebuildRows()
			return m, nil
		case key.Matches(msg, m.keys.FilterCancelled):
			m.filter = FilterCancelled
			m.rebuildRows()
			return m, nil
		case key.Matches(msg, m.keys.FilterToReview):
			m.filter = FilterToReview
			m.rebuildRows()
			return m, nil

		case key.Matches(msg, m.keys.Confirm):
			return m.transitionSelected(actionConfirm)
		case key.Matches(msg, m.keys.Ship):
			return m.transitionSelected(actionShip)
		case key.Matches(msg, m.keys.CancelOrder):
			return m.transitionSelected(actionCancel)

		case key.Matches(msg, m.keys.Review):
			order, ok := m.selected()
			if !ok || !reviewable(order, m.userID) {
				return m, nil
			}
			return m, func() tea.Msg { return StartReviewMsg{Order: order} }
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

type action int

const (
	actionConfirm action = iota
	actionShip
	actionCancel
)

// transitionSelected validates the requested transition against the
// selected order's role and status, then issues it.
func (m Model) transitionSelected(a action) (Model, tea.Cmd) {
	order, ok := m.selected()
	if !ok {
		return m, nil
	}

	seller := order.SellerID() == m.userID

	var target model.OrderStatus
	switch a {
	case actionConfirm:
		switch {
		case seller && order.StatoOrdine == model.OrderPending:
			target = model.OrderConfirmed
		case !seller && order.StatoOrdine == model.OrderShipped:
			target = model.OrderCompleted
		default:
			return m, nil
		}
	case actionShip:
		if !seller || order.StatoOrdine != model.OrderConfirmed {
			return m, nil
		}
		target = model.OrderShipped
	case actionCancel:
		if order.StatoOrdine != model.OrderPending && order.StatoOrdine != model.OrderConfirmed {
			return m, nil
		}
		target = model.OrderCancelled
	}

	client := m.client
	orderID := order.ID
	return m, func() tea.Msg {
		updated, err := client.UpdateOrderStatus(context.Background(), orderID, target)
		return OrderChangedMsg{Order: updated, Err: err}
	}
}

// selected returns the order behind the highlighted table row.
func (m Model) selected() (model.Order, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return model.Order{}, false
	}
	return m.rows[idx], true
}

// rebuildRows reapplies the role and filter to the order data.
func (m *Model) rebuildRows() {
	m.rows = m.rows[:0]
	for _, o := range m.orders {
		if m.role == RoleSales && o.SellerID() != m.userID {
			continue
		}
		if m.role == RolePurchases && o.BuyerID() != m.userID {
			continue
		}
		if !m.matchesFilter(o) {
			continue
		}
		m.rows = append(m.rows, o)
	}

	tableRows := make([]table.Row, len(m.rows))
	for i, o := range m.rows {
		date := ""
		if !o.DataOrdine.IsZero() {
			date = o.DataOrdine.Format("2006-01-02")
		}
		tableRows[i] = table.Row{
			o.ProductTitle(),
			m.counterparty(o),
			date,
			string(o.StatoOrdine),
			taskLabel(o, m.userID),
		}
	}
	m.table.SetRows(tableRows)
}

func (m Model) matchesFilter(o model.Order) bool {
	switch m.filter {
	case FilterActive:
		return o.StatoOrdine == model.OrderPending ||
			o.StatoOrdine == model.OrderConfirmed ||
			o.StatoOrdine == model.OrderShipped
	case FilterCompleted:
		return o.StatoOrdine == model.OrderCompleted
	case FilterCancelled:
		return o.StatoOrdine == model.OrderCancelled
	case FilterToReview:
		return reviewable(o, m.userID)
	default:
		return true
	}
}

// counterparty names the other side of the transaction.
func (m Model) counterparty(o model.Order) string {
	var u *model.User
	if o.SellerID() == m.userID {
		u = o.Compratore
	} else {
		u = o.Venditore
	}
	if u == nil {
		return ""
	}
	return "@" + u.Username
}

// reviewable reports whether the current user can still review an order:
// completed, user is the buyer, and no review exists yet.
func reviewable(o model.Order, userID string) bool {
	return o.StatoOrdine == model.OrderCompleted &&
		o.BuyerID() == userID &&
		o.Recensione == nil
}

// taskLabel describes the user's next step for an order, derived from
// their role and the order status.
func taskLabel(o model.Order, userID string) string {
	seller := o.SellerID() == userID

	switch o.StatoOrdine {
	case model.OrderPending:
		if seller {
			return "confirm (c) / cancel (u)"
		}
		return "awaiting confirmation"
	case model.OrderConfirmed:
		if seller {
			return "ship it (s)"
		}
		return "awaiting shipment"
	case model.OrderShipped:
		if seller {
			return "in transit"
		}
		return "confirm receipt (c)"
	case model.OrderCompleted:
		if reviewable(o, userID) {
			return "leave a review (v)"
		}
		return "done"
	case model.OrderCancelled:
		return "cancelled"
	default:
		return ""
	}
}

// View renders the orders view.
func (m Model) View() string {
	roleLabel := "Sales"
	if m.role == RolePurchases {
		roleLabel = "Purchases"
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).
		Render(fmt.Sprintf("%s (%d)", roleLabel, len(m.rows)))
	hints := theme.HelpStyle.Render(
		"tab sales/purchases  1 all 2 active 3 completed 4 cancelled 5 to review")

	parts := []string{header + "  " + hints}
	if m.stale {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.ColorYellow).
			Render("offline: showing last known orders"))
	}
	if m.errMsg != "" {
		parts = append(parts, theme.ErrorStyle.Render(m.errMsg))
	}

	if len(m.rows) == 0 {
		empty := lipgloss.NewStyle().Foreground(theme.ColorGray).
			Render("\nNothing here yet.")
		parts = append(parts, empty)
	} else {
		parts = append(parts, m.table.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// SetSize updates the table dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetColumns(columns(width))
	m.table.SetHeight(height - 6)
}
