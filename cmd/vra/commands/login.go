package commands

import (
	"fmt"

	"github.com/fivetwenty-io/vra-client/pkg/vraclient"
	"github.com/spf13/cobra"
)

// NewLoginCommand creates the login command. Tokens are not persisted; the
// command verifies the credentials and can print the token for scripting.
func NewLoginCommand() *cobra.Command {
	var showToken bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify credentials",
		Long:  "Log in to the vRA appliance and confirm the issued token is accepted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := clientConfig(cmd)
			if err != nil {
				return err
			}

			client, err := vraclient.New(cmd.Context(), config)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			err = client.Authorize(cmd.Context())
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			out := cmd.OutOrStdout()

			if showToken {
				_, _ = fmt.Fprintln(out, client.Token())

				return nil
			}

			_, _ = fmt.Fprintf(out, "Authenticated as %s at %s\n", config.Username, config.BaseURL)

			return nil
		},
	}

	cmd.Flags().BoolVar(&showToken, "show-token", false, "print the issued token instead of a summary")

	return cmd
}
