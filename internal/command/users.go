package command

import (
	"errors"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"taskdeck/internal/directory"
	"taskdeck/internal/directory/repository/restapi"
	directoryUC "taskdeck/internal/directory/usecase"
	"taskdeck/internal/model"
	"taskdeck/internal/uiloop"
)

func (c *Command) usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List the user directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			loop := uiloop.New()
			go loop.Run()
			defer loop.Stop()

			client := restapi.NewClient(c.cfg.Directory.URL)
			uc := directoryUC.New(c.l, client, loop)

			states := make(chan directory.State, 8)
			uc.Observe(func(st directory.State) {
				states <- st
			})
			uc.FetchUsers(cmd.Context())

			for {
				select {
				case st := <-states:
					if st.ErrorMessage != "" {
						return errors.New(st.ErrorMessage)
					}
					if !st.Loading {
						renderUsers(st.Users)
						return nil
					}
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				}
			}
		},
	}
}

func renderUsers(users []model.User) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"ID", "Name", "Username", "Email", "City", "Company"})
	for _, u := range users {
		tw.AppendRow(table.Row{u.ID, u.Name, u.Username, u.Email, u.Address.City, u.Company.Name})
	}
	tw.Render()
}
