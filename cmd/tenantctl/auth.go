package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *cli) loginCmd() *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store a session token",
		Long: `Prints the sign-in URL, then exchanges the authorization code shown
after signing in for a session token. Pass --code to skip the prompt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if code == "" {
				authURL, err := c.client.AuthorizationURL(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.out, "Open this URL to sign in:\n\n  %s\n\nAuthorization code: ", authURL.URL)

				line, err := bufio.NewReader(c.in).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading authorization code: %w", err)
				}
				code = strings.TrimSpace(line)
			}
			if code == "" {
				return fmt.Errorf("authorization code is required")
			}

			user, err := c.client.Login(ctx, code)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Logged in as %s <%s>\n", user.Name, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "authorization code from the sign-in redirect")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke and forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.client.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Logged out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := c.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			if c.output() == "json" {
				return writeJSON(c.out, user)
			}
			fmt.Fprintf(c.out, "%s <%s> (id %d)\n", user.Name, user.Email, user.ID)
			return nil
		},
	}
}
