package ui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/tasks/internal/models"
	"github.com/tgienger/tasks/internal/prefs"
	"github.com/tgienger/tasks/internal/tasks"
	"github.com/tgienger/tasks/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewLoading View = iota
	ViewAuth
	ViewTasks
)

// Session is the signed-in identity and the means to change it
type Session interface {
	views.Authenticator
	CurrentUser(ctx context.Context) (*models.User, bool)
	SignOut(ctx context.Context) error
}

type sessionMsg struct {
	user *models.User
}

type signedOutMsg struct {
	err error
}

type App struct {
	session     Session
	repo        *tasks.Repository
	prefs       prefs.Store
	logger      *slog.Logger
	currentView View
	authView    *views.AuthView
	taskList    *views.TaskListView
	width       int
	height      int
}

// Creates a new application
func NewApp(session Session, repo *tasks.Repository, store prefs.Store, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		session:     session,
		repo:        repo,
		prefs:       store,
		logger:      logger,
		currentView: ViewLoading,
		authView:    views.NewAuthView(session),
	}
}

func (a *App) Init() tea.Cmd {
	// Resume the stored session if there is one
	return func() tea.Msg {
		user, ok := a.session.CurrentUser(context.Background())
		if !ok {
			return sessionMsg{}
		}
		return sessionMsg{user: user}
	}
}

func (a *App) resize() tea.Cmd {
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: a.width, Height: a.height}
	}
}

func (a *App) openTasks(user models.User) tea.Cmd {
	a.currentView = ViewTasks
	a.taskList = views.NewTaskListView(a.repo, a.prefs, user)
	a.logger.Info("Opened task list", slog.String("user_id", user.ID))

	// Initialize task list with window size
	return tea.Batch(a.taskList.Init(), a.resize())
}

func (a *App) showAuth() tea.Cmd {
	a.currentView = ViewAuth
	a.taskList = nil
	a.authView = views.NewAuthView(a.session)
	return tea.Batch(a.authView.Init(), a.resize())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Always update the auth view size since it persists
		a.authView.Update(msg)

	case sessionMsg:
		if msg.user == nil {
			return a, a.showAuth()
		}
		return a, a.openTasks(*msg.user)

	case views.SignedIn:
		return a, a.openTasks(msg.User)

	case views.SignOutRequested:
		return a, func() tea.Msg {
			return signedOutMsg{err: a.session.SignOut(context.Background())}
		}

	case signedOutMsg:
		if msg.err != nil {
			a.logger.Warn("Failed to sign out", slog.Any("error", msg.err))
		}
		a.repo.State().Reset("")
		return a, a.showAuth()
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewAuth:
		_, cmd = a.authView.Update(msg)
	case ViewTasks:
		_, cmd = a.taskList.Update(msg)
	case ViewLoading:
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
			return a, tea.Quit
		}
	}

	return a, cmd
}

func (a *App) View() string {
	switch a.currentView {
	case ViewTasks:
		if a.taskList != nil {
			return a.taskList.View()
		}
	case ViewLoading:
		return "Loading..."
	}
	return a.authView.View()
}
