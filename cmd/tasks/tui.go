package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/tasks/internal/tasks"
	"github.com/tgienger/tasks/internal/ui"
	"github.com/tgienger/tasks/internal/ui/views"
)

func runTUI(ctx context.Context, flags *globalFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	e, err := setup(ctx, flags)
	if err != nil {
		return err
	}
	defer e.Close()

	// Commands run after Run starts, so program is set before any notice
	var program *tea.Program
	repo := e.newRepository(tasks.WithNotifier(func(n tasks.Notice) {
		if program != nil {
			program.Send(views.NoticeMsg(n))
		}
	}))

	app := ui.NewApp(e.auth, repo, e.prefs, e.logger)
	program = tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}
