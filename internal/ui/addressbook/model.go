package addressbook

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/kevinramil/streetsell-tui/internal/api"
	"github.com/kevinramil/streetsell-tui/internal/keys"
	"github.com/kevinramil/streetsell-tui/internal/model"
	"github.com/kevinramil/streetsell-tui/internal/theme"
)

// AddressesLoadedMsg is sent when the address book has been fetched.
type AddressesLoadedMsg struct {
	Addresses []model.Address
	Err       error
}

// savedMsg carries the outcome of a create call.
type savedMsg struct {
	address *model.Address
	err     error
}

// deletedMsg carries the outcome of a delete call.
type deletedMsg struct {
	err error
}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	via       string
	citta     string
	cap       string
	provincia string
	nazione   string
}

// Model is the shipping address book: list, create, delete.
type Model struct {
	client *api.Client
	keys   *keys.KeyMap

	addresses []model.Address
	cursor    int

	creating  bool
	form      *huh.Form
	fb        *formBindings
	fieldErrs []string

	errMsg string
	width  int
	height int
}

// New creates the address book view.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	return Model{
		client: client,
		keys:   k,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Init returns a command that loads the address book.
func (m Model) Init() tea.Cmd {
	return m.Load()
}

// Load returns a tea.Cmd that fetches the address book.
func (m Model) Load() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		addresses, err := client.Addresses(context.Background())
		return AddressesLoadedMsg{Addresses: addresses, Err: err}
	}
}

// Update handles messages for the address book.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case AddressesLoadedMsg:
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.addresses = msg.Addresses
		if m.cursor >= len(m.addresses) {
			m.cursor = 0
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			// Keep the form open and surface per-field messages.
			if vErr, ok := api.IsValidationError(msg.err); ok {
				m.fieldErrs = vErr.Fields
				if len(m.fieldErrs) == 0 {
					m.fieldErrs = []string{vErr.Message}
				}
			} else {
				m.fieldErrs = []string{msg.err.Error()}
			}
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		m.creating = false
		m.form = nil
		m.fieldErrs = nil
		return m, m.Load()

	case deletedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		return m, m.Load()

	case tea.KeyMsg:
		if m.creating && m.form != nil {
			return m.updateForm(msg)
		}
		return m.handleKeys(msg)
	}

	if m.creating && m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.addresses)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Sell), msg.String() == "n":
		m.creating = true
		*m.fb = formBindings{}
		m.fieldErrs = nil
		m.form = m.buildForm()
		return m, m.form.Init()
	case key.Matches(msg, m.keys.Dismiss):
		if m.cursor >= len(m.addresses) {
			return m, nil
		}
		client := m.client
		id := m.addresses[m.cursor].ID
		return m, func() tea.Msg {
			return deletedMsg{err: client.DeleteAddress(context.Background(), id)}
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, m.Load()
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.save()
	}
	if m.form.State == huh.StateAborted {
		m.creating = false
		m.form = nil
		m.fieldErrs = nil
		return m, nil
	}
	return m, cmd
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Street").Value(&m.fb.via).Validate(required("Street")),
		huh.NewInput().Title("City").Value(&m.fb.citta).Validate(required("City")),
		huh.NewInput().Title("Postal code").Value(&m.fb.cap).Validate(required("Postal code")),
		huh.NewInput().Title("Province").Value(&m.fb.provincia).Validate(required("Province")),
		huh.NewInput().Title("Country").Value(&m.fb.nazione).Validate(required("Country")),
	)).WithWidth(m.formWidth()).WithShowHelp(false)
}

func (m Model) save() tea.Cmd {
	client := m.client
	fb := *m.fb
	return func() tea.Msg {
		address, err := client.CreateAddress(context.Background(), api.CreateAddressRequest{
			Via:       fb.via,
			Citta:     fb.citta,
			CAP:       fb.cap,
			Provincia: fb.provincia,
			Nazione:   fb.nazione,
		})
		return savedMsg{address: address, err: err}
	}
}

// View renders the address book.
func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).
		Render("Shipping addresses")

	lines := []string{title}

	if m.creating && m.form != nil {
		for _, fe := range m.fieldErrs {
			lines = append(lines, theme.ErrorStyle.Render(fe))
		}
		lines = append(lines, m.form.View())
		return lipgloss.NewStyle().Padding(1, 2).
			Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	if m.errMsg != "" {
		lines = append(lines, theme.ErrorStyle.Render(m.errMsg))
	}

	if len(m.addresses) == 0 {
		lines = append(lines, theme.HelpStyle.Render("No addresses yet. Press n to add one."))
	}

	for i, a := range m.addresses {
		line := a.Line()
		if i == m.cursor {
			line = theme.SelectedItemStyle.Render(line)
		} else {
			line = theme.ListItemStyle.Render(line)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "", theme.HelpStyle.Render("n add  x delete  r refresh"))

	return lipgloss.NewStyle().Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Editing reports whether the create form has focus.
func (m Model) Editing() bool {
	return m.creating
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

func required(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return &fieldError{fieldName}
		}
		return nil
	}
}

type fieldError struct {
	field string
}

func (e *fieldError) Error() string {
	return e.field + " is required"
}
