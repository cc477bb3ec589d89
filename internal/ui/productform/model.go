package productform

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/kevinramil/streetsell-tui/internal/api"
	"github.com/kevinramil/streetsell-tui/internal/model"
	"github.com/kevinramil/streetsell-tui/internal/theme"
)

// ProductSavedMsg is sent when a listing was created or updated.
type ProductSavedMsg struct {
	Product *model.Product
	Created bool
}

// ProductFormCancelMsg is sent when the user backs out of the form.
type ProductFormCancelMsg struct{}

// resultMsg carries the outcome of the save call.
type resultMsg struct {
	product *model.Product
	created bool
	err     error
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	titolo      string
	descrizione string
	prezzo      string
	categoria   string
	condizione  model.Condition
	imagePaths  string
}

// Model is the listing create/edit form.
type Model struct {
	client   *api.Client
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   string
	errMsg   string
	width    int
	height   int
}

// New creates the listing form view.
func New(client *api.Client, width, height int) Model {
	return Model{
		client: client,
		fb:     &formBindings{condizione: model.ConditionGood},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for a new listing.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = ""
	*m.fb = formBindings{condizione: model.ConditionGood}
	m.errMsg = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with an existing listing's fields.
func (m *Model) StartEdit(p model.Product) tea.Cmd {
	m.editMode = true
	m.editID = p.ID
	m.fb.titolo = p.Titolo
	m.fb.descrizione = p.Descrizione
	m.fb.prezzo = strconv.FormatFloat(p.Prezzo, 'f', 2, 64)
	m.fb.categoria = p.Categoria
	m.fb.condizione = p.Condizione
	m.fb.imagePaths = ""
	m.errMsg = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the listing form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		if msg.err != nil {
			m.errMsg = errorText(msg.err)
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		product := msg.product
		created := msg.created
		return m, func() tea.Msg {
			return ProductSavedMsg{Product: product, Created: created}
		}
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
		return m, func() tea.Msg { return ProductFormCancelMsg{} }
	}
	return m, cmd
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Title").
			Placeholder("What are you selling?").
			Value(&m.fb.titolo).
			Validate(required("Title")),
		huh.NewText().
			Title("Description").
			Value(&m.fb.descrizione),
		huh.NewInput().
			Title("Price (EUR)").
			Placeholder("25.00").
			Value(&m.fb.prezzo).
			Validate(validatePrice),
		huh.NewInput().
			Title("Category").
			Value(&m.fb.categoria).
			Validate(required("Category")),
		huh.NewSelect[model.Condition]().
			Title("Condition").
			Options(
				huh.NewOption("New", model.ConditionNew),
				huh.NewOption("Like new", model.ConditionLikeNew),
				huh.NewOption("Good", model.ConditionGood),
				huh.NewOption("Acceptable", model.ConditionAcceptable),
			).
			Value(&m.fb.condizione),
		huh.NewInput().
			Title("Image paths").
			Placeholder("photo1.jpg, photo2.jpg (optional)").
			Value(&m.fb.imagePaths),
	)).WithWidth(m.formWidth()).WithShowHelp(false)
}

func (m Model) submit() tea.Cmd {
	client := m.client
	fb := *m.fb
	editMode := m.editMode
	editID := m.editID

	return func() tea.Msg {
		price, err := strconv.ParseFloat(strings.TrimSpace(fb.prezzo), 64)
		if err != nil {
			return resultMsg{err: fmt.Errorf("invalid price %q", fb.prezzo)}
		}

		draft := model.ProductDraft{
			Titolo:      fb.titolo,
			Descrizione: fb.descrizione,
			Prezzo:      price,
			Categoria:   fb.categoria,
			Condizione:  fb.condizione,
		}

		var paths []string
		for _, p := range strings.Split(fb.imagePaths, ",") {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, p)
			}
		}

		ctx := context.Background()
		if editMode {
			product, err := client.UpdateProduct(ctx, editID, draft, paths)
			return resultMsg{product: product, err: err}
		}
		product, err := client.CreateProduct(ctx, draft, paths)
		return resultMsg{product: product, created: true, err: err}
	}
}

// View renders the listing form.
func (m Model) View() string {
	titleText := "New listing"
	if m.editMode {
		titleText = "Edit listing"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	lines := []string{titleStyle.Render(titleText)}
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

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func errorText(err error) string {
	if vErr, ok := api.IsValidationError(err); ok {
		return vErr.Error()
	}
	return err.Error()
}

func required(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return &fieldError{fieldName}
		}
		return nil
	}
}

func validatePrice(s string) error {
	price, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("price must be a number")
	}
	if price <= 0 {
		return fmt.Errorf("price must be positive")
	}
	return nil
}

type fieldError struct {
	field string
}

func (e *fieldError) Error() string {
	return e.field + " is required"
}
