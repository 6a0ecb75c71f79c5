package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/bnema/devicepool-cli/internal/application"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	var (
		username string
		password string
	)

	cmd := &cobra.Command{
		Use:         "login",
		Short:       "Log in to the device pool service",
		Long:        "Log in with a username and password. Missing values are read from stdin. The session token is kept in pass, or in the secrets directory when pass is unavailable.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{routeAnnotation: string(application.RouteLogin)},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.route == application.RouteRoot {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Already logged in.")
				return nil
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			var err error
			if strings.TrimSpace(username) == "" {
				username, err = prompt(cmd, reader, "Username: ")
				if err != nil {
					return err
				}
			}
			if password == "" {
				password, err = prompt(cmd, reader, "Password: ")
				if err != nil {
					return err
				}
			}

			if !app.session.Login(cmd.Context(), strings.TrimSpace(username), password) {
				return fmt.Errorf("login failed: %s", sanitizeForTerminal(app.session.LastLoginMessage()))
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", sanitizeForTerminal(strings.TrimSpace(username)))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", envOrDefault("DP_USERNAME", ""), "account username (default from DP_USERNAME)")
	cmd.Flags().StringVar(&password, "password", envOrDefault("DP_PASSWORD", ""), "account password (default from DP_PASSWORD)")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.session.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func prompt(cmd *cobra.Command, reader *bufio.Reader, label string) (string, error) {
	_, _ = fmt.Fprint(cmd.OutOrStdout(), label)

	input, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(strings.TrimSuffix(label, ": ")), err)
	}

	value := strings.TrimRight(input, "\r\n")
	if value == "" {
		return "", fmt.Errorf("%s is required", strings.ToLower(strings.TrimSuffix(label, ": ")))
	}

	return value, nil
}

func sanitizeForTerminal(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
}
