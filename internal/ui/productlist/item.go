package productlist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kevinramil/streetsell-tui/internal/model"
	"github.com/kevinramil/streetsell-tui/internal/theme"
)

// ProductItem wraps a model.Product so it can be used in a bubbles/list.
type ProductItem struct {
	Product model.Product
}

// FilterValue returns the string used for fuzzy filtering.
func (i ProductItem) FilterValue() string { return i.Product.Titolo }

// Title returns the listing title for the list.
func (i ProductItem) Title() string { return i.Product.Titolo }

// Description returns a short summary line for the list.
func (i ProductItem) Description() string {
	return fmt.Sprintf("%.2f EUR | %s | %s",
		i.Product.Prezzo, i.Product.Condizione, i.Product.Categoria)
}

// ItemDelegate implements list.ItemDelegate for rendering listing rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single listing line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	pi, ok := item.(ProductItem)
	if !ok {
		return
	}

	p := pi.Product

	price := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorGreen).
		Render(fmt.Sprintf("%8.2f EUR", p.Prezzo))

	condBadge := theme.ConditionStyle(p.Condizione).Render(conditionLabel(p.Condizione))

	seller := ""
	if p.Venditore != nil {
		seller = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render("@" + p.Venditore.Username)
	}

	statusBadge := ""
	if p.StatoProdotto != model.ProductAvailable {
		statusBadge = theme.ProductStatusStyle(p.StatoProdotto).Render(string(p.StatoProdotto))
	}

	line := fmt.Sprintf("%s %s %s %s %s", price, condBadge, p.Titolo, seller, statusBadge)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// conditionLabel returns a short label for a condition grade.
func conditionLabel(c model.Condition) string {
	switch c {
	case model.ConditionNew:
		return "NEW"
	case model.ConditionLikeNew:
		return "LIKE NEW"
	case model.ConditionGood:
		return "GOOD"
	case model.ConditionAcceptable:
		return "FAIR"
	default:
		return string(c)
	}
}
