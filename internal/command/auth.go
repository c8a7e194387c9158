package command

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func promptLine(label string) (string, error) {
	fmt.Printf("%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func readCredentials(email, password string) (string, string, error) {
	var err error
	if email == "" {
		if email, err = promptLine("Email"); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		if password, err = promptLine("Password"); err != nil {
			return "", "", err
		}
	}
	return email, password, nil
}

func (c *Command) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and cache the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password, err := readCredentials(email, password)
			if err != nil {
				return err
			}
			sess, err := c.sessions.SignIn(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Printf("Signed in as %s\n", sess.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted if omitted)")
	return cmd
}

func (c *Command) signupCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password, err := readCredentials(email, password)
			if err != nil {
				return err
			}
			sess, err := c.sessions.SignUp(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Printf("Account created, signed in as %s\n", sess.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted if omitted)")
	return cmd
}

func (c *Command) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the cached session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.sessions.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Signed out")
			return nil
		},
	}
}

func (c *Command) resetPasswordCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Send a password reset email",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email == "" {
				if email, err = promptLine("Email"); err != nil {
					return err
				}
			}
			if err := c.sessions.SendPasswordReset(cmd.Context(), email); err != nil {
				return err
			}
			fmt.Printf("Reset email sent to %s\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func (c *Command) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, ok := c.sessions.Current()
			if !ok {
				fmt.Println("Not signed in")
				return nil
			}
			fmt.Printf("%s (%s)\n", sess.Email, sess.UserID)
			return nil
		},
	}
}
