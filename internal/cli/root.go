package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/orion-ad/guardian/pkg/client"
)

const (
	defaultServerURL = "http://localhost:8006"
	configDirName    = ".orion"
	envPrefix        = "ORION"
)

var (
	cfgFile      string
	outputFormat string
	serverURL    string
	apiClient    *client.Client
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orionctl",
		Short: "Orion AD Guardian CLI - Active Directory threat monitoring",
		Long: `orionctl gives command-line access to the Orion AD Guardian backend:
list and triage alerts, trigger remediation, inspect statistics and the
backend configuration, export alerts and watch the alert stream live.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
				return nil
			}
			return initClient()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.orion/config.yaml)")
	cmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
	cmd.PersistentFlags().StringVar(&serverURL, "server", "", "backend URL (overrides config)")

	_ = viper.BindPFlag("output", cmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("server_url", cmd.PersistentFlags().Lookup("server"))

	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newAlertsCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newBackendConfigCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newWatchCmd())

	return cmd
}

// Execute runs the CLI
func Execute() error {
	cobra.OnInitialize(initConfig)
	return newRootCmd().Execute()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return
		}
		_ = os.MkdirAll(dir, 0700)
		viper.AddConfigPath(dir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("server_url", defaultServerURL)
	viper.SetDefault("output", "table")
	viper.SetDefault("refresh_interval", "5s")
	viper.SetDefault("timeout", "30s")

	_ = viper.ReadInConfig()
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

func initClient() error {
	url := viper.GetString("server_url")
	if serverURL != "" {
		url = serverURL
	}
	if url == "" {
		url = defaultServerURL
	}

	apiClient = client.NewClient(client.Config{
		BaseURL: url,
		APIKey:  viper.GetString("api_key"),
		Timeout: viper.GetDuration("timeout"),
	})
	return nil
}

func getOutputFormat() string {
	if outputFormat != "" && outputFormat != "table" {
		return outputFormat
	}
	if f := viper.GetString("output"); f != "" {
		return f
	}
	return "table"
}

func refreshInterval() time.Duration {
	if d := viper.GetDuration("refresh_interval"); d > 0 {
		return d
	}
	return 5 * time.Second
}
