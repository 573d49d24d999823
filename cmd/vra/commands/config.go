package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fivetwenty-io/vra-client/internal/constants"
	"github.com/fivetwenty-io/vra-client/internal/logging"
	"github.com/fivetwenty-io/vra-client/pkg/vra"
	"github.com/fivetwenty-io/vra-client/pkg/vraclient"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Settings is the persisted part of the CLI configuration. The password is
// never written.
type Settings struct {
	BaseURL           string `json:"base_url"                     yaml:"base_url"`
	Username          string `json:"username,omitempty"           yaml:"username,omitempty"`
	Tenant            string `json:"tenant,omitempty"             yaml:"tenant,omitempty"`
	Domain            string `json:"domain,omitempty"             yaml:"domain,omitempty"`
	AuthMode          string `json:"auth_mode,omitempty"          yaml:"auth_mode,omitempty"`
	Pagination        string `json:"pagination,omitempty"         yaml:"pagination,omitempty"`
	PageSize          int    `json:"page_size,omitempty"          yaml:"page_size,omitempty"`
	Transport         string `json:"transport,omitempty"          yaml:"transport,omitempty"`
	SkipSSLValidation bool   `json:"skip_ssl_validation"          yaml:"skip_ssl_validation"`
	Password          string `json:"password,omitempty"           yaml:"-"`
}

func currentSettings() Settings {
	return Settings{
		BaseURL:           viper.GetString("base_url"),
		Username:          viper.GetString("username"),
		Tenant:            viper.GetString("tenant"),
		Domain:            viper.GetString("domain"),
		AuthMode:          viper.GetString("auth_mode"),
		Pagination:        viper.GetString("pagination"),
		PageSize:          viper.GetInt("page_size"),
		Transport:         viper.GetString("transport"),
		SkipSSLValidation: viper.GetBool("skip_ssl_validation"),
		Password:          viper.GetString("password"),
	}
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show the effective configuration or save it to the config file",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSaveCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the configuration merged from flags, environment and config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := currentSettings()
			if settings.Password != "" {
				settings.Password = constants.MaskedSecret
			}

			return render(cmd, settings, func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append("Base URL", valueOr(settings.BaseURL, constants.None))
				_ = table.Append("Username", valueOr(settings.Username, constants.None))
				_ = table.Append("Password", valueOr(settings.Password, constants.None))
				_ = table.Append("Tenant", valueOr(settings.Tenant, constants.None))
				_ = table.Append("Domain", valueOr(settings.Domain, constants.None))
				_ = table.Append("Auth Mode", valueOr(settings.AuthMode, string(vra.AuthModeAccessToken)))
				_ = table.Append("Pagination", valueOr(settings.Pagination, string(vra.PaginationSkipTop)))
				_ = table.Append("Transport", valueOr(settings.Transport, string(vra.TransportRetryable)))
				_ = table.Append("Skip SSL Validation", strconv.FormatBool(settings.SkipSSLValidation))
				_ = table.Append("Config File", valueOr(viper.ConfigFileUsed(), constants.None))
			})
		},
	}
}

func newConfigSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Save the current configuration",
		Long:  "Write the effective configuration, without the password, to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := viper.ConfigFileUsed()
			if path == "" {
				dir, err := defaultConfigDir()
				if err != nil {
					return err
				}

				path = filepath.Join(dir, "config.yml")
			}

			err := saveSettings(path, currentSettings())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", path)

			return nil
		},
	}
}

func saveSettings(path string, settings Settings) error {
	err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// clientConfig builds the library configuration from viper. A missing
// password is prompted for when stdin is a terminal.
func clientConfig(cmd *cobra.Command) (*vra.Config, error) {
	var config vra.Config

	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}

	if config.BaseURL == "" {
		return nil, constants.ErrNoBaseURL
	}

	if config.Username == "" {
		return nil, constants.ErrNoUsername
	}

	if config.Password == "" {
		config.Password, err = promptPassword(cmd)
		if err != nil {
			return nil, err
		}
	}

	if viper.GetBool("verbose") {
		config.Debug = true
		config.Logger = logging.NewWithWriter(cmd.ErrOrStderr(), logrus.DebugLevel)
	}

	return &config, nil
}

func promptPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int

	if !term.IsTerminal(fd) {
		return "", constants.ErrPasswordPrompt
	}

	_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Password: ")

	password, err := term.ReadPassword(fd)

	_, _ = fmt.Fprintln(cmd.ErrOrStderr())

	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return string(password), nil
}

// newClient creates a client from the merged configuration.
func newClient(cmd *cobra.Command) (vra.Client, error) {
	config, err := clientConfig(cmd)
	if err != nil {
		return nil, err
	}

	client, err := vraclient.New(cmd.Context(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}
