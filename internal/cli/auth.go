package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/orion-ad/guardian/pkg/client"
)

func newLoginCmd() *cobra.Command {
	var apiKey string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the backend API key",
		Long: `Prompts for the backend API key without echo, checks it against the
backend and stores it in the CLI config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if apiKey == "" {
				key, err := promptSecret(cmd.InOrStdin(), out, "API key: ")
				if err != nil {
					return fmt.Errorf("failed to read API key: %w", err)
				}
				apiKey = key
			}
			if apiKey == "" {
				return fmt.Errorf("API key must not be empty")
			}

			apiClient.SetToken(apiKey)
			if _, err := apiClient.Statistics(context.Background()); err != nil {
				var httpErr *client.HTTPError
				if errors.As(err, &httpErr) && httpErr.IsUnauthorized() {
					return fmt.Errorf("backend rejected the API key")
				}
				return fmt.Errorf("failed to verify API key: %w", err)
			}

			viper.Set("api_key", apiKey)
			path, err := writeConfig()
			if err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			fmt.Fprintf(out, "API key verified and stored in %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (prompted when omitted)")

	return cmd
}

// promptSecret reads a secret without echo when in is a terminal and as a
// plain line otherwise.
func promptSecret(in io.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(secret)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
