package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/meetsched/meetsched/internal/google"
)

func newAuthCmd() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize a Google account for the agent",
		Long: `Run the OAuth authorization flow for a Google account. The command
prints an authorization URL; open it in a browser, grant access, and paste
the resulting code back. The token is stored locally and picked up by
'meetsched run'.

GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set in the environment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := google.GetOAuthConfig()
			if conf.ClientID == "" || conf.ClientSecret == "" {
				return fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set")
			}

			authURL := conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
			fmt.Printf("Open the following link in your browser:\n\n%s\n\n", authURL)
			fmt.Print("Enter the authorization code: ")

			reader := bufio.NewReader(os.Stdin)
			code, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read authorization code: %w", err)
			}
			code = strings.TrimSpace(code)
			if code == "" {
				return fmt.Errorf("no authorization code provided")
			}

			if err := google.SaveTokenForAccount(context.Background(), account, code); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Printf("Token saved for account %q.\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Name to store the token under")
	return cmd
}
