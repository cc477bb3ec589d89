package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kevinramil/streetsell-tui/internal/api"
	"github.com/kevinramil/streetsell-tui/internal/auth"
	"github.com/kevinramil/streetsell-tui/internal/credential"
	"github.com/kevinramil/streetsell-tui/internal/keys"
	"github.com/kevinramil/streetsell-tui/internal/model"
	"github.com/kevinramil/streetsell-tui/internal/notify"
	"github.com/kevinramil/streetsell-tui/internal/store"
	"github.com/kevinramil/streetsell-tui/internal/ui"
	"github.com/kevinramil/streetsell-tui/internal/ui/addressbook"
	adminview "github.com/kevinramil/streetsell-tui/internal/ui/admin"
	helpview "github.com/kevinramil/streetsell-tui/internal/ui/help"
	"github.com/kevinramil/streetsell-tui/internal/ui/login"
	"github.com/kevinramil/streetsell-tui/internal/ui/mylistings"
	"github.com/kevinramil/streetsell-tui/internal/ui/notifications"
	"github.com/kevinramil/streetsell-tui/internal/ui/orders"
	"github.com/kevinramil/streetsell-tui/internal/ui/productdetail"
	"github.com/kevinramil/streetsell-tui/internal/ui/productform"
	"github.com/kevinramil/streetsell-tui/internal/ui/productlist"
	"github.com/kevinramil/streetsell-tui/internal/ui/profile"
	"github.com/kevinramil/streetsell-tui/internal/ui/reviewform"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewCatalog
	ViewDetail
	ViewOrders
	ViewMyListings
	ViewProductForm
	ViewAddresses
	ViewProfile
	ViewReviewForm
	ViewAdmin
	ViewHelp
)

// hiddenLoadedMsg carries the persisted dismissal set for the session user.
type hiddenLoadedMsg struct {
	userID string
	ids    []string
	err    error
}

// cachedOrdersMsg carries the last-known orders after a failed poll.
type cachedOrdersMsg struct {
	orders []model.Order
}

// Model is the root Bubble Tea model that manages view routing, the auth
// store, the notification aggregator, and the background poller.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout

	client       *api.Client
	auth         *auth.Store
	store        store.Store
	agg          *notify.Aggregator
	poller       *notify.Poller
	pollInterval time.Duration
	keys         *keys.KeyMap

	loginView   login.Model
	catalog     productlist.Model
	detail      productdetail.Model
	ordersView  orders.Model
	myListings  mylistings.Model
	productForm productform.Model
	addressBook addressbook.Model
	profileView profile.Model
	reviewForm  reviewform.Model
	adminView   adminview.Model
	helpView    helpview.Model
	notifPanel  notifications.Model

	showNotifications bool
	offline           bool
	ready             bool
}

// New creates the root application model. The auth store may already hold
// a session restored from the keyring.
func New(
	client *api.Client,
	authStore *auth.Store,
	st store.Store,
	pollInterval time.Duration,
	maxVisible int,
) Model {
	k := keys.DefaultKeyMap()
	agg := notify.NewAggregator()

	m := Model{
		currentView:  ViewLogin,
		client:       client,
		auth:         authStore,
		store:        st,
		agg:          agg,
		pollInterval: pollInterval,
		keys:         k,
		loginView:    login.New(client, 80, 24),
		catalog:      productlist.New(client, k, 80, 24),
		detail:       productdetail.New(client, k, 80, 24),
		ordersView:   orders.New(client, k, 80, 24),
		myListings:   mylistings.New(client, k, 80, 24),
		productForm:  productform.New(client, 80, 24),
		addressBook:  addressbook.New(client, k, 80, 24),
		profileView:  profile.New(client, k, 80, 24),
		reviewForm:   reviewform.New(client, 80, 24),
		adminView:    adminview.New(client, k, 80, 24),
		helpView:     helpview.New(k, 80, 24),
		notifPanel:   notifications.New(agg, k, maxVisible, 80, 24),
	}

	if authStore.State().IsAuthenticated {
		m.currentView = ViewCatalog
		m.beginSession()
	}
	return m
}

// Init starts either the login form or, for a restored session, the
// catalog and the poller.
func (m Model) Init() tea.Cmd {
	if m.currentView == ViewLogin {
		return m.loginView.Init()
	}
	return m.sessionCmds()
}

// beginSession binds the aggregator and profile view to the signed-in
// user and builds a fresh poller.
func (m *Model) beginSession() {
	m.agg.SetUser(m.auth.UserID())
	m.profileView.SetUser(m.auth.State().User)
	m.offline = false
	m.poller = notify.NewPoller(m.client, m.pollInterval)
}

// sessionCmds returns the commands that kick a session off: background
// polling, the persisted dismissal set, and the catalog load.
func (m Model) sessionCmds() tea.Cmd {
	return tea.Batch(
		m.poller.Start(),
		m.loadHidden(m.auth.UserID()),
		m.catalog.Init(),
	)
}

// startSession is the post-login variant of beginSession plus its
// commands.
func (m *Model) startSession() tea.Cmd {
	m.beginSession()
	return m.sessionCmds()
}

// endSession tears the session down: the poller stops, in-memory
// notification state is dropped, and the stored token is discarded.
// Persisted dismissals stay on disk.
func (m *Model) endSession() tea.Cmd {
	if m.poller != nil {
		m.poller.Stop()
		m.poller = nil
	}
	m.auth.Dispatch(auth.Logout{})
	m.agg.SetUser("")
	m.showNotifications = false
	m.currentView = ViewLogin
	m.loginView = login.New(m.client, m.layout.ContentWidth(), m.layout.ContentHeight())

	return tea.Batch(
		m.loginView.Init(),
		func() tea.Msg {
			// Best effort; a missing keyring entry is fine.
			_ = credential.Delete(credential.TokenKey)
			return nil
		},
	)
}

// loadHidden fetches the persisted dismissal set for one user.
func (m Model) loadHidden(userID string) tea.Cmd {
	st := m.store
	return func() tea.Msg {
		ids, err := st.GetHiddenIDs(context.Background(), userID)
		return hiddenLoadedMsg{userID: userID, ids: ids, err: err}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.loginView.SetSize(w, h)
		m.catalog.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.ordersView.SetSize(w, h)
		m.myListings.SetSize(w, h)
		m.productForm.SetSize(w, h)
		m.addressBook.SetSize(w, h)
		m.profileView.SetSize(w, h)
		m.reviewForm.SetSize(w, h)
		m.adminView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.notifPanel.SetSize(w, h)
		return m.updateActiveView(msg)

	case login.LoggedInMsg:
		var user model.User
		if msg.User != nil {
			user = *msg.User
		}
		m.auth.Dispatch(auth.LoginSuccess{User: user, Token: msg.Token})
		m.currentView = ViewCatalog
		token := msg.Token
		saveToken := func() tea.Msg {
			_ = credential.Set(credential.TokenKey, token)
			return nil
		}
		return m, tea.Batch(m.startSession(), saveToken)

	case hiddenLoadedMsg:
		// A failed load keeps the persistence gate closed so the stored
		// set is never clobbered by partial state.
		if msg.err == nil && msg.userID == m.agg.UserID() {
			m.agg.LoadHidden(msg.ids)
		}
		return m, nil

	case notify.OrdersResultMsg:
		if m.poller == nil {
			return m, nil
		}
		waitCmd := m.poller.WaitForNextResult()

		if msg.Err != nil {
			if api.IsAuthError(msg.Err) {
				return m, m.endSession()
			}
			m.offline = true
			m.agg.Clear()
			return m, tea.Batch(waitCmd, m.loadCachedOrders())
		}

		m.offline = false
		m.agg.Apply(msg.Orders)
		m.ordersView.SetOrders(msg.Orders, m.auth.UserID(), false)
		return m, tea.Batch(waitCmd, m.cacheOrders(msg.Orders))

	case cachedOrdersMsg:
		m.ordersView.SetOrders(msg.orders, m.auth.UserID(), true)
		return m, nil

	case notifications.DismissedMsg:
		st := m.store
		userID := m.auth.UserID()
		entries := msg.Entries
		return m, func() tea.Msg {
			_ = st.HideNotifications(context.Background(), userID, entries)
			return nil
		}

	case notifications.NavigateMsg:
		m.showNotifications = false
		m.previousView = m.currentView
		m.currentView = ViewDetail
		return m, m.detail.Load(msg.ProductID)

	case productlist.SelectedProductMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		return m, m.detail.Load(msg.ProductID)

	case productdetail.OrderPlacedMsg:
		if m.poller != nil {
			return m, m.poller.Refresh()
		}
		return m, nil

	case orders.OrderChangedMsg:
		if msg.Err == nil && m.poller != nil {
			var cmd tea.Cmd
			m.ordersView, cmd = m.ordersView.Update(msg)
			return m, tea.Batch(cmd, m.poller.Refresh())
		}
		return m.updateActiveView(msg)

	case orders.StartReviewMsg:
		m.previousView = m.currentView
		m.currentView = ViewReviewForm
		return m, m.reviewForm.Start(msg.Order)

	case reviewform.ReviewSubmittedMsg:
		m.currentView = ViewOrders
		if m.poller != nil {
			return m, m.poller.Refresh()
		}
		return m, nil

	case reviewform.ReviewCancelMsg:
		m.currentView = ViewOrders
		return m, nil

	case mylistings.EditRequestMsg:
		m.previousView = m.currentView
		m.currentView = ViewProductForm
		return m, m.productForm.StartEdit(msg.Product)

	case productform.ProductSavedMsg:
		m.currentView = ViewMyListings
		return m, m.myListings.Load(0)

	case productform.ProductFormCancelMsg:
		m.currentView = m.previousView
		return m, nil

	case profile.ProfileUpdatedMsg:
		if msg.User != nil {
			m.auth.Dispatch(auth.SetUser{User: *msg.User})
			m.profileView.SetUser(msg.User)
		}
		return m, nil

	case profile.DeactivatedMsg:
		return m, m.endSession()

	case tea.KeyMsg:
		if handled, mm, cmd := m.handleGlobalKeys(msg); handled {
			return mm, cmd
		}
	}

	if m.showNotifications {
		if _, ok := msg.(tea.KeyMsg); ok {
			var cmd tea.Cmd
			m.notifPanel, cmd = m.notifPanel.Update(msg)
			return m, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work across views. Returns false
// when the key should fall through to the active view.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if m.poller != nil {
			m.poller.Stop()
		}
		return true, m, tea.Quit
	}

	if m.currentView == ViewLogin {
		return false, m, nil
	}

	// The notification panel owns keys while open, apart from its toggles.
	if m.showNotifications {
		switch msg.String() {
		case "n", "esc":
			m.showNotifications = false
			return true, m, nil
		}
		return false, m, nil
	}

	// Text-entry submodes must see every printable key.
	if m.textFocused() {
		return false, m, nil
	}

	switch msg.String() {
	case "q":
		if m.currentView == ViewCatalog {
			if m.poller != nil {
				m.poller.Stop()
			}
			return true, m, tea.Quit
		}

	case "esc":
		switch m.currentView {
		case ViewDetail, ViewOrders, ViewMyListings, ViewAddresses,
			ViewProfile, ViewAdmin:
			m.currentView = ViewCatalog
			return true, m, nil
		case ViewHelp:
			m.currentView = m.previousView
			return true, m, nil
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
		} else {
			m.previousView = m.currentView
			m.currentView = ViewHelp
		}
		return true, m, nil

	case "n":
		m.showNotifications = true
		return true, m, nil

	case "h":
		m.currentView = ViewCatalog
		return true, m, nil

	case "o":
		m.currentView = ViewOrders
		return true, m, nil

	case "a":
		m.previousView = m.currentView
		m.currentView = ViewAddresses
		return true, m, m.addressBook.Load()

	case "p":
		m.previousView = m.currentView
		m.currentView = ViewProfile
		m.profileView.SetUser(m.auth.State().User)
		return true, m, nil

	case "m":
		m.previousView = m.currentView
		m.currentView = ViewMyListings
		return true, m, m.myListings.Load(0)

	case "+":
		m.previousView = m.currentView
		m.currentView = ViewProductForm
		return true, m, m.productForm.StartCreate()

	case "A":
		user := m.auth.State().User
		if user != nil && user.IsAdmin() {
			m.previousView = m.currentView
			m.currentView = ViewAdmin
			return true, m, m.adminView.Init()
		}

	case "r":
		if m.currentView == ViewOrders && m.poller != nil {
			return true, m, m.poller.Refresh()
		}

	case "L":
		return true, m, m.endSession()
	}

	return false, m, nil
}

// textFocused reports whether the active view is in a text-entry submode
// where global single-letter shortcuts must not fire.
func (m Model) textFocused() bool {
	switch m.currentView {
	case ViewProductForm, ViewReviewForm:
		return true
	case ViewCatalog:
		return m.catalog.Searching()
	case ViewDetail:
		return m.detail.Buying()
	case ViewAddresses:
		return m.addressBook.Editing()
	case ViewProfile:
		return m.profileView.Editing()
	case ViewAdmin:
		return m.adminView.Searching()
	}
	return false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewCatalog:
		m.catalog, cmd = m.catalog.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewOrders:
		m.ordersView, cmd = m.ordersView.Update(msg)
	case ViewMyListings:
		m.myListings, cmd = m.myListings.Update(msg)
	case ViewProductForm:
		m.productForm, cmd = m.productForm.Update(msg)
	case ViewAddresses:
		m.addressBook, cmd = m.addressBook.Update(msg)
	case ViewProfile:
		m.profileView, cmd = m.profileView.Update(msg)
	case ViewReviewForm:
		m.reviewForm, cmd = m.reviewForm.Update(msg)
	case ViewAdmin:
		m.adminView, cmd = m.adminView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// loadCachedOrders reads the last-known orders so the orders view keeps
// rendering while the backend is unreachable.
func (m Model) loadCachedOrders() tea.Cmd {
	st := m.store
	userID := m.auth.UserID()
	return func() tea.Msg {
		orders, err := st.GetOrders(context.Background(), userID)
		if err != nil {
			return cachedOrdersMsg{}
		}
		return cachedOrdersMsg{orders: orders}
	}
}

// cacheOrders persists the latest poll result.
func (m Model) cacheOrders(ordersList []model.Order) tea.Cmd {
	st := m.store
	userID := m.auth.UserID()
	return func() tea.Msg {
		_ = st.UpsertOrders(context.Background(), userID, ordersList)
		return nil
	}
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.currentView == ViewLogin {
		return m.loginView.View()
	}

	header := m.layout.RenderHeader("StreetSell", m.headerStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// headerStatus builds the right-hand header segment: user handle, offline
// marker, and the notification badge.
func (m Model) headerStatus() string {
	status := ""
	if user := m.auth.State().User; user != nil {
		status = "@" + user.Username + " "
	}
	if m.offline {
		status += "offline "
	}
	return status + ui.RenderBadge(m.agg.TotalVisible())
}

// renderContent returns the rendered string for the current active view,
// with the notification panel stacked on top while open.
func (m Model) renderContent() string {
	var content string
	switch m.currentView {
	case ViewCatalog:
		content = m.catalog.View()
	case ViewDetail:
		content = m.detail.View()
	case ViewOrders:
		content = m.ordersView.View()
	case ViewMyListings:
		content = m.myListings.View()
	case ViewProductForm:
		content = m.productForm.View()
	case ViewAddresses:
		content = m.addressBook.View()
	case ViewProfile:
		content = m.profileView.View()
	case ViewReviewForm:
		content = m.reviewForm.View()
	case ViewAdmin:
		content = m.adminView.View()
	case ViewHelp:
		content = m.helpView.View()
	}

	if m.showNotifications {
		return m.notifPanel.View() + "\n" + content
	}
	return content
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.showNotifications {
		return "x dismiss | C clear all | enter open | n close"
	}

	switch m.currentView {
	case ViewCatalog:
		return "enter open | / search | o orders | n notifications | + sell | ? help | q quit"
	case ViewDetail:
		return "b buy | [/] reviews | esc back"
	case ViewOrders:
		return "tab sales/purchases | 1-5 filter | c/s/u/v act | r refresh | esc back"
	case ViewMyListings:
		return "enter edit | x archive | [/] page | esc back"
	case ViewProductForm, ViewReviewForm:
		return "enter submit | esc cancel"
	case ViewAddresses:
		return "n add | x delete | esc back"
	case ViewProfile:
		return "e edit | w password | i avatar | D deactivate | L logout | esc back"
	case ViewAdmin:
		return "tab users/listings | d moderate | esc back"
	case ViewHelp:
		return "? close help | esc back"
	default:
		return "? help"
	}
}
