package reviewform

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/kevinramil/streetsell-tui/internal/api"
	"github.com/kevinramil/streetsell-tui/internal/model"
	"github.com/kevinramil/streetsell-tui/internal/theme"
)

// ReviewSubmittedMsg is sent when the review was accepted by the backend.
type ReviewSubmittedMsg struct {
	Review *model.Review
}

// ReviewCancelMsg is sent when the user backs out of the form.
type ReviewCancelMsg struct{}

// resultMsg carries the outcome of the create call.
type resultMsg struct {
	review *model.Review
	err    error
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	rating  int
	comment string
}

// Model is the review form for a completed purchase.
type Model struct {
	client *api.Client
	form   *huh.Form
	fb     *formBindings

	order  model.Order
	errMsg string
	width  int
	height int
}

// New creates the review form view.
func New(client *api.Client, width, height int) Model {
	return Model{
		client: client,
		fb:     &formBindings{rating: 5},
		width:  width,
		height: height,
	}
}

// Start initializes the form for one order.
func (m *Model) Start(order model.Order) tea.Cmd {
	m.order = order
	m.fb.rating = 5
	m.fb.comment = ""
	m.errMsg = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the review form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		if msg.err != nil {
			m.errMsg = errorText(msg.err)
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		review := msg.review
		return m, func() tea.Msg { return ReviewSubmittedMsg{Review: review} }
	}

	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.submit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return ReviewCancelMsg{} }
	}
	return m, cmd
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().
			Title("Rating").
			Options(
				huh.NewOption("★★★★★", 5),
				huh.NewOption("★★★★", 4),
				huh.NewOption("★★★", 3),
				huh.NewOption("★★", 2),
				huh.NewOption("★", 1),
			).
			Value(&m.fb.rating),
		huh.NewText().
			Title("Comment").
			Placeholder("How was the transaction?").
			Value(&m.fb.comment),
	)).WithShowHelp(false)
}

func (m Model) submit() tea.Cmd {
	client := m.client
	fb := *m.fb
	orderID := m.order.ID
	return func() tea.Msg {
		review, err := client.CreateReview(context.Background(), api.CreateReviewRequest{
			OrdineID:    orderID,
			Valutazione: fb.rating,
			Commento:    fb.comment,
		})
		return resultMsg{review: review, err: err}
	}
}

// View renders the review form.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	lines := []string{titleStyle.Render("Review: " + m.order.ProductTitle())}
	if m.errMsg != "" {
		lines = append(lines, theme.ErrorStyle.Render(m.errMsg))
	}
	if m.form != nil {
		lines = append(lines, m.form.View())
	}

	return lipgloss.NewStyle().Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// SetSize updates the form dimensions.
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
