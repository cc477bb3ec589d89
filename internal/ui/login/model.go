package login

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/kevinramil/streetsell-tui/internal/api"
	"github.com/kevinramil/streetsell-tui/internal/model"
	"github.com/kevinramil/streetsell-tui/internal/theme"
)

// LoggedInMsg is sent when the backend accepts the credentials.
type LoggedInMsg struct {
	User  *model.User
	Token string
}

// RegisteredMsg is sent when a new account was created. The user still
// signs in afterwards; the backend does not return a token on register.
type RegisteredMsg struct {
	Username string
}

// authResultMsg carries the outcome of a login or register call.
type authResultMsg struct {
	resp     *api.LoginResponse
	username string
	register bool
	err      error
}

type mode int

const (
	modeLogin mode = iota
	modeRegister
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	username string
	password string
	email    string
	nome     string
	cognome  string
}

// Model is the sign-in / registration view.
type Model struct {
	client  *api.Client
	form    *huh.Form
	fb      *formBindings
	mode    mode
	loading bool
	errMsg  string
	notice  string
	width   int
	height  int
}

// New creates a login view bound to the API client.
func New(client *api.Client, width, height int) Model {
	m := Model{
		client: client,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
	m.form = m.buildForm()
	return m
}

// Init starts the sign-in form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the login view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Mode toggle is handled before the form sees the key.
		if msg.String() == "ctrl+t" && !m.loading {
			if m.mode == modeLogin {
				m.mode = modeRegister
			} else {
				m.mode = modeLogin
			}
			m.errMsg = ""
			m.form = m.buildForm()
			return m, m.form.Init()
		}

	case authResultMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = errorText(msg.err)
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		if msg.register {
			m.mode = modeLogin
			m.notice = "Account created. Sign in to continue."
			m.fb.password = ""
			m.form = m.buildForm()
			return m, tea.Batch(
				m.form.Init(),
				func() tea.Msg { return RegisteredMsg{Username: msg.username} },
			)
		}
		user := msg.resp.User
		return m, func() tea.Msg {
			return LoggedInMsg{User: &user, Token: msg.resp.Token}
		}
	}

	if m.form == nil || m.loading {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.loading = true
		m.errMsg = ""
		m.notice = ""
		return m, m.submit()
	}
	if m.form.State == huh.StateAborted {
		m.form = m.buildForm()
		return m, m.form.Init()
	}

	return m, cmd
}

// View renders the login view.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	titleText := "Sign in to StreetSell"
	if m.mode == modeRegister {
		titleText = "Create a StreetSell account"
	}

	parts := []string{titleStyle.Render(titleText)}
	if m.notice != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.ColorGreen).Render(m.notice))
	}
	if m.errMsg != "" {
		parts = append(parts, theme.ErrorStyle.Render(m.errMsg))
	}

	if m.loading {
		parts = append(parts, theme.HelpStyle.Render("contacting server..."))
	} else if m.form != nil {
		parts = append(parts, m.form.View())
	}

	parts = append(parts, theme.HelpStyle.Render("ctrl+t switch sign in / register"))

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	var fields []huh.Field

	if m.mode == modeRegister {
		fields = append(fields,
			huh.NewInput().
				Title("Username").
				Value(&m.fb.username).
				Validate(required("Username")),
		)
	}

	fields = append(fields,
		huh.NewInput().
			Title("Email").
			Value(&m.fb.email).
			Validate(required("Email")),
	)

	if m.mode == modeRegister {
		fields = append(fields,
			huh.NewInput().
				Title("First name").
				Value(&m.fb.nome).
				Validate(required("First name")),
			huh.NewInput().
				Title("Last name").
				Value(&m.fb.cognome).
				Validate(required("Last name")),
		)
	}

	fields = append(fields,
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.password).
			Validate(required("Password")),
	)

	return huh.NewForm(huh.NewGroup(fields...)).
		WithWidth(m.formWidth()).
		WithShowHelp(false)
}

func (m Model) submit() tea.Cmd {
	client := m.client
	fb := *m.fb
	register := m.mode == modeRegister

	return func() tea.Msg {
		ctx := context.Background()
		if register {
			_, err := client.Register(ctx, api.RegisterRequest{
				Username: fb.username,
				Email:    fb.email,
				Nome:     fb.nome,
				Cognome:  fb.cognome,
				Password: fb.password,
			})
			return authResultMsg{register: true, username: fb.username, err: err}
		}

		resp, err := client.Login(ctx, api.LoginRequest{
			Email:    fb.email,
			Password: fb.password,
		})
		return authResultMsg{resp: resp, username: fb.username, err: err}
	}
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

// errorText flattens API errors for the banner, listing per-field
// validation messages when the backend returns them.
func errorText(err error) string {
	if vErr, ok := api.IsValidationError(err); ok {
		if len(vErr.Fields) > 0 {
			return strings.Join(vErr.Fields, "; ")
		}
		return vErr.Message
	}
	if api.IsAuthError(err) {
		return "invalid credentials"
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

type fieldError struct {
	field string
}

func (e *fieldError) Error() string {
	return e.field + " is required"
}
