package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application. Action
// bindings apply in the view that owns them.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Search
	Search key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding

	// View switching
	Home      key.Binding
	Orders    key.Binding
	Addresses key.Binding
	Profile   key.Binding
	Admin     key.Binding
	Sell      key.Binding

	// Notification panel
	Notifications key.Binding
	Dismiss       key.Binding
	ClearAll      key.Binding

	// Order view
	ToggleRole  key.Binding
	Ship        key.Binding
	Confirm     key.Binding
	CancelOrder key.Binding
	Review      key.Binding

	// Order filters
	FilterAll       key.Binding
	FilterActive    key.Binding
	FilterCompleted key.Binding
	FilterCancelled key.Binding
	FilterToReview  key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search listings"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Home: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "home"),
		),
		Orders: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "orders"),
		),
		Addresses: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "addresses"),
		),
		Profile: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "profile"),
		),
		Admin: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "admin panel"),
		),
		Sell: key.NewBinding(
			key.WithKeys("+"),
			key.WithHelp("+", "new listing"),
		),
		Notifications: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "notifications"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear all"),
		),
		ToggleRole: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "sales/purchases"),
		),
		Ship: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "mark shipped"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "confirm receipt"),
		),
		CancelOrder: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "cancel order"),
		),
		Review: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "leave review"),
		),
		FilterAll: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "all"),
		),
		FilterActive: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "active"),
		),
		FilterCompleted: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "completed"),
		),
		FilterCancelled: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "cancelled"),
		),
		FilterToReview: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "to review"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help, k.Notifications,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Home, k.Orders, k.Addresses, k.Profile, k.Admin, k.Sell},
		{k.Search, k.Help, k.Refresh, k.Notifications, k.Dismiss, k.ClearAll},
		{k.ToggleRole, k.Ship, k.Confirm, k.CancelOrder, k.Review},
		{k.FilterAll, k.FilterActive, k.FilterCompleted, k.FilterCancelled, k.FilterToReview},
	}
}
