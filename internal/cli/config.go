package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// secretKeys are masked by config get and config list
var secretKeys = map[string]bool{"api_key": true}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigListCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Interactive first-time setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			url := prompt(reader, out, fmt.Sprintf("Backend URL [%s]: ", defaultServerURL), defaultServerURL)
			format := prompt(reader, out, "Default output format (table/json/yaml) [table]: ", "table")
			interval := prompt(reader, out, "Watch refresh interval [5s]: ", "5s")

			viper.Set("server_url", url)
			viper.Set("output", format)
			viper.Set("refresh_interval", interval)

			path, err := writeConfig()
			if err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			fmt.Fprintf(out, "Configuration saved to %s\n", path)
			fmt.Fprintln(out, "Run 'orionctl login' to store the backend API key.")
			return nil
		},
	}
}

func prompt(r *bufio.Reader, w io.Writer, label, def string) string {
	fmt.Fprint(w, label)
	input, _ := r.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return def
	}
	return input
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			viper.Set(args[0], args[1])
			if _, err := writeConfig(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], displayConfigValue(args[0], args[1]))
			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			val := viper.Get(args[0])
			if val == nil || val == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: (not set)\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", args[0], displayConfigValue(args[0], val))
			}
			return nil
		},
	}
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all configuration values",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := viper.AllSettings()
			keys := make([]string, 0, len(settings))
			for key := range settings {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			for _, key := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", key, displayConfigValue(key, settings[key]))
			}
			return nil
		},
	}
}

func displayConfigValue(key string, val interface{}) interface{} {
	if secretKeys[key] {
		return "(credentials stored)"
	}
	return val
}

func writeConfig() (string, error) {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := viper.WriteConfigAs(path); err != nil {
		return "", err
	}
	return path, nil
}
