package views

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/tasks/internal/auth"
	"github.com/tgienger/tasks/internal/models"
	"github.com/tgienger/tasks/internal/ui/keys"
	"github.com/tgienger/tasks/internal/ui/styles"
)

// Authenticator signs users in or registers them
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*models.User, error)
	SignUp(ctx context.Context, email, password string) (*models.User, error)
}

// SignedIn signals that a user is authenticated
type SignedIn struct {
	User models.User
}

type authResultMsg struct {
	user *models.User
	err  error
}

// AuthView is the sign-in / sign-up form
type AuthView struct {
	auth     Authenticator
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
	email    textinput.Model
	password textinput.Model
	focusIdx int // 0=email, 1=password, 2=submit, 3=mode toggle
	signUp   bool
	busy     bool
	errMsg   string
}

// NewAuthView creates the sign-in form
func NewAuthView(a Authenticator) *AuthView {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = auth.MaxPasswordLength
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	v := &AuthView{
		auth:     a,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		email:    email,
		password: password,
	}
	v.updateFocus()
	return v
}

func (v *AuthView) Init() tea.Cmd {
	return textinput.Blink
}

func (v *AuthView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case authResultMsg:
		v.busy = false
		if msg.err != nil {
			v.errMsg = authErrorText(msg.err)
			return v, nil
		}
		v.errMsg = ""
		v.password.Reset()
		user := *msg.user
		return v, func() tea.Msg { return SignedIn{User: user} }

	case tea.KeyMsg:
		if v.busy {
			if msg.String() == "ctrl+c" {
				return v, tea.Quit
			}
			return v, nil
		}
		return v.updateForm(msg)
	}
	return v, nil
}

func (v *AuthView) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c", key.Matches(msg, v.keys.Back):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Save):
		return v, v.submit()

	case key.Matches(msg, v.keys.ShiftTab), msg.String() == "up":
		v.focusIdx = (v.focusIdx + 3) % 4
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab), msg.String() == "down":
		v.focusIdx = (v.focusIdx + 1) % 4
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.focusIdx {
		case 0:
			v.focusIdx = 1
			v.updateFocus()
			return v, nil
		case 1, 2:
			return v, v.submit()
		case 3:
			v.signUp = !v.signUp
			v.errMsg = ""
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.email, cmd = v.email.Update(msg)
	case 1:
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

func (v *AuthView) updateFocus() {
	v.email.Blur()
	v.password.Blur()
	switch v.focusIdx {
	case 0:
		v.email.Focus()
	case 1:
		v.password.Focus()
	}
}

func (v *AuthView) submit() tea.Cmd {
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	if email == "" || password == "" {
		v.errMsg = "Email and password are required"
		return nil
	}

	v.busy = true
	v.errMsg = ""
	signUp := v.signUp
	return func() tea.Msg {
		var (
			user *models.User
			err  error
		)
		if signUp {
			user, err = v.auth.SignUp(context.Background(), email, password)
		} else {
			user, err = v.auth.SignIn(context.Background(), email, password)
		}
		return authResultMsg{user: user, err: err}
	}
}

// authErrorText keeps validation messages and hides internal failures
func authErrorText(err error) string {
	for _, known := range []error{
		auth.ErrInvalidCredentials,
		auth.ErrInvalidEmail,
		auth.ErrWeakPassword,
		auth.ErrPasswordTooLong,
		auth.ErrUserExists,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "Something went wrong, please try again"
}

func (v *AuthView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	emailStyle := s.Input
	passStyle := s.Input
	btnStyle := s.Button
	toggleStyle := s.TitleMuted

	switch v.focusIdx {
	case 0:
		emailStyle = s.InputFocused
	case 1:
		passStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	case 3:
		toggleStyle = s.HelpKey
	}

	heading := "Welcome back"
	action := " Sign In "
	toggle := "Don't have an account? Sign up"
	if v.signUp {
		heading = "Create your account"
		action = " Sign Up "
		toggle = "Already have an account? Sign in"
	}
	if v.busy {
		action = " Please wait... "
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	errLine := ""
	if v.errMsg != "" {
		errLine = s.ErrorText.Render(v.errMsg)
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Tasks"),
		s.TitleMuted.Render(heading),
		"",
		"Email:",
		emailStyle.Width(inputWidth).Render(v.email.View()),
		"",
		"Password:",
		passStyle.Width(inputWidth).Render(v.password.View()),
		errLine,
		btnStyle.Render(action),
		"",
		toggleStyle.Render(toggle),
		"",
		s.TitleMuted.Render("Tab: next • ↵: submit • Esc: quit"),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}
