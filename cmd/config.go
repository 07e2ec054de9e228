package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	yamlv2 "gopkg.in/yaml.v2"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect vuehelper configuration",
	Long: `Inspect vuehelper configuration files and settings.

Examples:
  vuehelper config show                  # Show resolved configuration as YAML
  vuehelper config show --format json    # Show as JSON
  vuehelper config validate              # Validate the configuration`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the configuration after loading the config file, applying
VUEHELPER_* environment overrides and filling defaults.

Examples:
  vuehelper config show
  vuehelper config show --format json`,
	RunE: runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long: `Load and validate the effective configuration, reporting the first
problem found.

Examples:
  vuehelper config validate
  vuehelper --config deploy/vuehelper.yml config validate`,
	RunE: runConfigValidate,
}

var configFormat string

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)

	configShowCmd.Flags().StringVar(&configFormat, "format", "yaml", "Output format (yaml, json)")
	AddFlagValidation(configShowCmd, "format", func(format string) error {
		return ValidateFormatWithSuggestion(format, []string{"yaml", "json"})
	})
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch configFormat {
	case "yaml", "yml":
		return showConfigYAML(w, cfg)
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(cfg)
	default:
		return fmt.Errorf("unsupported format: %s (supported: yaml, json)", configFormat)
	}
}

func showConfigYAML(w io.Writer, v interface{}) error {
	fmt.Fprintln(w, "# Resolved from all sources (file, env vars, defaults)")
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(w, "# Config file: %s\n", used)
	}

	out, err := yamlv2.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	source := viper.ConfigFileUsed()
	if source == "" {
		source = "defaults and environment"
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "Configuration is valid (%s)\n", source)
	return err
}
