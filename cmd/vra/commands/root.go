package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps global flags to their viper keys. The keys match the
// mapstructure tags of vra.Config, so VRA_BASE_URL and base_url in the
// config file feed the same setting.
//
//nolint:gochecknoglobals // static lookup table
var flagKeys = map[string]string{
	"config":              "config",
	"env-file":            "env_file",
	"base-url":            "base_url",
	"username":            "username",
	"password":            "password",
	"tenant":              "tenant",
	"domain":              "domain",
	"skip-ssl-validation": "skip_ssl_validation",
	"page-size":           "page_size",
	"auth-mode":           "auth_mode",
	"pagination":          "pagination",
	"transport":           "transport",
	"output":              "output",
	"verbose":             "verbose",
}

// NewRootCommand creates the vra command with every subcommand attached.
func NewRootCommand(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vra",
		Short: "vRealize Automation CLI",
		Long: `A command-line interface for the vRealize Automation REST API.

It lists and inspects catalog items, catalog sources, deployments, requests
and resources, and submits catalog requests and day-2 actions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return initConfig()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.vra/config.yml)")
	flags.String("env-file", ".env", "dotenv file loaded into the environment if present")
	flags.StringP("base-url", "u", "", "base URL of the vRA appliance")
	flags.String("username", "", "login user name")
	flags.String("password", "", "login password (prompted when empty)")
	flags.String("tenant", "", "tenant for bearer-token logins")
	flags.String("domain", "", "identity domain for access-token logins")
	flags.Bool("skip-ssl-validation", false, "skip SSL certificate validation")
	flags.Int("page-size", 0, "items requested per page (default 20)")
	flags.String("auth-mode", "", "login flow (bearer, access-token)")
	flags.String("pagination", "", "list paging convention (page, skip-top)")
	flags.String("transport", "", "HTTP library (retryable, resty)")
	flags.StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	flags.BoolP("verbose", "v", false, "trace HTTP traffic to stderr")

	bindFlags(flags)

	cmd.AddCommand(NewVersionCommand(version, commit, date))
	cmd.AddCommand(NewConfigCommand())
	cmd.AddCommand(NewLoginCommand())
	cmd.AddCommand(NewCatalogCommand())
	cmd.AddCommand(NewDeploymentsCommand())
	cmd.AddCommand(NewRequestsCommand())
	cmd.AddCommand(NewResourcesCommand())

	return cmd
}

func bindFlags(flags *pflag.FlagSet) {
	for name, key := range flagKeys {
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}
}

// initConfig loads the dotenv file, then the config file, and enables
// VRA_* environment variables. Flags win over the environment, which wins
// over the config file.
func initConfig() error {
	if envFile := viper.GetString("env_file"); envFile != "" {
		err := godotenv.Load(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		configDir, err := defaultConfigDir()
		if err != nil {
			return err
		}

		viper.AddConfigPath(configDir)
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	return nil
}

func defaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: %w", constants.ErrConfigDirAccess, err)
	}

	return filepath.Join(home, ".vra"), nil
}
