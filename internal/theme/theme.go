package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kevinramil/streetsell-tui/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// BadgeStyle renders the unread notification count in the header.
var BadgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorRed).
	Padding(0, 1)

// DetailPanelStyle wraps the detail view content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ErrorStyle renders error banners and per-field validation messages.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// OrderStatusStyle returns a color-coded style for an order lifecycle state.
func OrderStatusStyle(status model.OrderStatus) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case model.OrderPending:
		return base.Foreground(ColorYellow)
	case model.OrderConfirmed:
		return base.Foreground(ColorBlue)
	case model.OrderShipped:
		return base.Foreground(ColorMagenta)
	case model.OrderCompleted:
		return base.Foreground(ColorGreen)
	case model.OrderCancelled:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

// ProductStatusStyle returns a color-coded style for a listing state.
func ProductStatusStyle(status model.ProductStatus) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case model.ProductAvailable:
		return base.Foreground(ColorGreen)
	case model.ProductSold:
		return base.Foreground(ColorBlue)
	case model.ProductArchived:
		return base.Foreground(ColorGray)
	case model.ProductSuspended:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

// ConditionStyle returns a color-coded style for a product condition grade.
func ConditionStyle(cond model.Condition) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch cond {
	case model.ConditionNew:
		return base.Foreground(ColorGreen)
	case model.ConditionLikeNew:
		return base.Foreground(ColorBlue)
	case model.ConditionGood:
		return base.Foreground(ColorYellow)
	case model.ConditionAcceptable:
		return base.Foreground(ColorOrange)
	default:
		return base.Foreground(ColorGray)
	}
}

// RatingStyle returns a color-coded style for a seller's average rating.
func RatingStyle(media float64) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch {
	case media >= 4:
		return base.Foreground(ColorGreen)
	case media >= 3:
		return base.Foreground(ColorYellow)
	case media > 0:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}
