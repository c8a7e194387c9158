package command

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"taskdeck/internal/directory/repository/restapi"
	directoryUC "taskdeck/internal/directory/usecase"
	"taskdeck/internal/task/repository/docstore"
	taskUC "taskdeck/internal/task/usecase"
	"taskdeck/internal/tui"
	"taskdeck/internal/uiloop"
)

func (c *Command) boardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the live task board",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, ok := c.sessions.Current()
			if !ok {
				return errors.New("not signed in: run 'taskdeck login' first")
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			loop := uiloop.New()
			go loop.Run()
			defer loop.Stop()

			store := docstore.New(c.l, docstore.Config{
				BaseURL:      c.cfg.Docstore.URL,
				Collection:   c.cfg.Docstore.Collection,
				TokenSource:  c.sessions.TokenSource(ctx),
				WatchTimeout: c.cfg.Docstore.WatchTimeout,
				PollInterval: c.cfg.Docstore.PollInterval,
			})
			tasks := taskUC.New(c.l, store, loop, taskUC.Config{
				StrictWrites: c.cfg.App.StrictWrites,
			})
			users := directoryUC.New(c.l, restapi.NewClient(c.cfg.Directory.URL), loop)

			return tui.Run(ctx, tui.Config{
				Logger:    c.l,
				Tasks:     tasks,
				Directory: users,
				Sessions:  c.sessions,
				Session:   sess,
			})
		},
	}
}
