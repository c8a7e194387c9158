// Package tui is the terminal front end: a live task board fed by the
// task sync service, with a directory tab and inline add/edit forms.
// Service state arrives through observers and is forwarded into the
// bubbletea message loop; key handlers issue service commands and wait
// for the next snapshot rather than patching the list locally.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/directory"
	"taskdeck/internal/model"
	"taskdeck/internal/session"
	"taskdeck/internal/task"
	"taskdeck/pkg/log"
)

// Config wires the board to its services.
type Config struct {
	Logger    log.Logger
	Tasks     task.UseCase
	Directory directory.UseCase
	Sessions  session.Provider
	Session   model.Session
}

// Run opens the board and blocks until the user quits or ctx ends.
func Run(ctx context.Context, cfg Config) error {
	p := tea.NewProgram(NewModel(ctx, cfg), tea.WithAltScreen(), tea.WithContext(ctx))

	cfg.Tasks.Observe(func(st task.State) {
		p.Send(taskStateMsg{state: st})
	})
	cfg.Directory.Observe(func(st directory.State) {
		p.Send(directoryStateMsg{state: st})
	})

	sub, err := cfg.Tasks.Subscribe(ctx, cfg.Session.UserID)
	if err != nil {
		return fmt.Errorf("failed to open task subscription: %w", err)
	}
	defer sub.Close()

	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.signOut {
		if err := cfg.Sessions.SignOut(ctx); err != nil {
			return fmt.Errorf("failed to sign out: %w", err)
		}
	}
	return nil
}
