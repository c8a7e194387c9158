// Package command wires the CLI. Each subcommand builds the services
// it needs from the shared config and session client.
package command

import (
	"context"

	"github.com/spf13/cobra"

	"taskdeck/config"
	"taskdeck/internal/session/identity"
	"taskdeck/pkg/log"
)

// Command holds the dependencies shared by all subcommands.
type Command struct {
	l        log.Logger
	cfg      *config.Config
	sessions *identity.Client
}

// New creates the CLI with a session client bound to the configured
// identity backend.
func New(l log.Logger, cfg *config.Config) (*Command, error) {
	cachePath := cfg.App.SessionFile
	if cachePath == "" {
		path, err := identity.DefaultCachePath()
		if err != nil {
			l.Warnf(context.Background(), "command: session cache disabled: %v", err)
		} else {
			cachePath = path
		}
	}

	sessions := identity.New(l, identity.Config{
		BaseURL:   cfg.Identity.URL,
		CachePath: cachePath,
	})

	return &Command{l: l, cfg: cfg, sessions: sessions}, nil
}

// Execute runs the root command.
func (c *Command) Execute(ctx context.Context) error {
	root := &cobra.Command{
		Use:           "taskdeck",
		Short:         "Taskdeck keeps a live task board in your terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(c.loginCmd())
	root.AddCommand(c.signupCmd())
	root.AddCommand(c.logoutCmd())
	root.AddCommand(c.resetPasswordCmd())
	root.AddCommand(c.whoamiCmd())
	root.AddCommand(c.usersCmd())
	root.AddCommand(c.boardCmd())

	return root.ExecuteContext(ctx)
}
