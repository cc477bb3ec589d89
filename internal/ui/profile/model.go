package profile

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/kevinramil/streetsell-tui/internal/api"
	"github.com/kevinramil/streetsell-tui/internal/keys"
	"github.com/kevinramil/streetsell-tui/internal/model"
	"github.com/kevinramil/streetsell-tui/internal/theme"
)

// ProfileUpdatedMsg carries the replacement user object after an edit or
// avatar upload. The app dispatches it into the auth store.
type ProfileUpdatedMsg struct {
	User *model.User
}

// DeactivatedMsg is sent when the account was disabled. The app logs out.
type DeactivatedMsg struct{}

// resultMsg carries the outcome of any profile mutation.
type resultMsg struct {
	user       *model.User
	deactivate bool
	notice     string
	err        error
}

type submode int

const (
	modeView submode = iota
	modeEdit
	modePassword
	modeAvatar
	modeDeactivate
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	nome        string
	cognome     string
	oldPassword string
	newPassword string
	avatarPath  string
	confirm     bool
}

// Model is the account view: profile details with edit, password change,
// avatar upload, and self-deactivation.
type Model struct {
	client *api.Client
	keys   *keys.KeyMap

	user *model.User
	mode submode
	form *huh.Form
	fb   *formBindings

	notice string
	errMsg string
	width  int
	height int
}

// New creates the profile view.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	return Model{
		client: client,
		keys:   k,
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// SetUser installs the current user object from the auth store.
func (m *Model) SetUser(user *model.User) {
	m.user = user
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the profile view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		if msg.err != nil {
			m.errMsg = errorText(msg.err)
			m.mode = modeView
			m.form = nil
			return m, nil
		}
		m.errMsg = ""
		m.notice = msg.notice
		m.mode = modeView
		m.form = nil
		if msg.deactivate {
			return m, func() tea.Msg { return DeactivatedMsg{} }
		}
		if msg.user != nil {
			m.user = msg.user
			user := msg.user
			return m, func() tea.Msg { return ProfileUpdatedMsg{User: user} }
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode != modeView && m.form != nil {
			return m.updateForm(msg)
		}
		return m.handleKeys(msg)
	}

	if m.mode != modeView && m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.user == nil {
		return m, nil
	}

	switch msg.String() {
	case "e":
		m.mode = modeEdit
		m.fb.nome = m.user.Nome
		m.fb.cognome = m.user.Cognome
		m.form = m.buildEditForm()
		return m, m.form.Init()
	case "w":
		m.mode = modePassword
		m.fb.oldPassword = ""
		m.fb.newPassword = ""
		m.form = m.buildPasswordForm()
		return m, m.form.Init()
	case "i":
		m.mode = modeAvatar
		m.fb.avatarPath = ""
		m.form = m.buildAvatarForm()
		return m, m.form.Init()
	case "D":
		m.mode = modeDeactivate
		m.fb.confirm = false
		m.form = m.buildDeactivateForm()
		return m, m.form.Init()
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.submit()
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeView
		m.form = nil
		return m, nil
	}
	return m, cmd
}

func (m Model) submit() tea.Cmd {
	client := m.client
	fb := *m.fb
	mode := m.mode

	return func() tea.Msg {
		ctx := context.Background()
		switch mode {
		case modeEdit:
			user, err := client.UpdateMe(ctx, api.UpdateProfileRequest{
				Nome:    fb.nome,
				Cognome: fb.cognome,
			})
			return resultMsg{user: user, notice: "Profile updated.", err: err}

		case modePassword:
			err := client.ChangePassword(ctx, api.ChangePasswordRequest{
				VecchiaPassword: fb.oldPassword,
				NuovaPassword:   fb.newPassword,
			})
			return resultMsg{notice: "Password changed.", err: err}

		case modeAvatar:
			user, err := client.UploadAvatar(ctx, strings.TrimSpace(fb.avatarPath))
			return resultMsg{user: user, notice: "Avatar updated.", err: err}

		case modeDeactivate:
			if !fb.confirm {
				return resultMsg{}
			}
			err := client.DeactivateMe(ctx)
			return resultMsg{deactivate: err == nil, err: err}
		}
		return resultMsg{}
	}
}

func (m *Model) buildEditForm() *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("First name").Value(&m.fb.nome).Validate(required("First name")),
		huh.NewInput().Title("Last name").Value(&m.fb.cognome).Validate(required("Last name")),
	)).WithShowHelp(false)
}

func (m *Model) buildPasswordForm() *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Current password").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.oldPassword).
			Validate(required("Current password")),
		huh.NewInput().
			Title("New password").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.newPassword).
			Validate(required("New password")),
	)).WithShowHelp(false)
}

func (m *Model) buildAvatarForm() *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Image path").
			Placeholder("/path/to/avatar.jpg").
			Value(&m.fb.avatarPath).
			Validate(required("Image path")),
	)).WithShowHelp(false)
}

func (m *Model) buildDeactivateForm() *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Deactivate your account?").
			Description("Your listings are hidden and you are signed out.").
			Affirmative("Deactivate").
			Negative("Keep it").
			Value(&m.fb.confirm),
	)).WithShowHelp(false)
}

// Editing reports whether one of the mutation forms has focus.
func (m Model) Editing() bool {
	return m.mode != modeView
}

// View renders the profile view.
func (m Model) View() string {
	if m.user == nil {
		return theme.HelpStyle.Render("not signed in")
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	lines := []string{titleStyle.Render("Your account")}

	if m.notice != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.ColorGreen).Render(m.notice))
	}
	if m.errMsg != "" {
		lines = append(lines, theme.ErrorStyle.Render(m.errMsg))
	}

	if m.mode != modeView && m.form != nil {
		lines = append(lines, m.form.View())
		return lipgloss.NewStyle().Padding(1, 2).
			Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	u := m.user
	lines = append(lines,
		"",
		"Username: @"+u.Username,
		"Name:     "+u.Nome+" "+u.Cognome,
		"Email:    "+u.Email,
	)
	if u.IsAdmin() {
		lines = append(lines, "Role:     "+theme.BadgeStyle.Render("ADMIN"))
	}
	if u.AvatarURL != "" {
		lines = append(lines, "Avatar:   "+u.AvatarURL)
	}

	lines = append(lines, "",
		theme.HelpStyle.Render("e edit  w password  i avatar  D deactivate"))

	return lipgloss.NewStyle().Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
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
