// Package cmd provides the command-line interface for vuehelper with
// configuration loaded from multiple sources.
//
// Configuration System:
//
//	Configuration is resolved with the following precedence:
//	1. Command-line flags (--config, --log-level, etc.) - highest priority
//	2. VUEHELPER_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (VUEHELPER_MOUNT_VUE_GLOBAL, etc.)
//	4. Configuration files (.vuehelper.yml) - lowest priority
//
// Environment Variables:
//
//	VUEHELPER_CONFIG_FILE: Path to custom configuration file
//	VUEHELPER_MOUNT_DEFAULT_ELEMENT: Override the mount selector
//	VUEHELPER_ASSETS_USE_MIX: Enable/disable Mix manifest resolution
//	And the rest following the VUEHELPER_<SECTION>_<OPTION> pattern
package cmd

import (
	"context"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/vuehelper/internal/config"
	"github.com/conneroisu/vuehelper/internal/errors"
	"github.com/conneroisu/vuehelper/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vuehelper",
	Short: "Render Vue component markup and bootstrap scripts for server-side templates",
	Long: `vuehelper registers Vue components with their props and emits the markup a
Vue runtime picks up: inline custom elements, root instance mount scripts and
script tags for JavaScript dependencies.

Templates mark where output goes with three directives:
  @vue_component("Name")                Inline <name v-bind="..."></name>
  @vue_mount("Name", "#app", "vm")      <script>new Vue({...}).$mount('#app')</script>
  @vue_dependencies                     <script src="..."></script> per dependency

Quick Start:
  vuehelper inject AComponent --props '{"title":"Hi"}'
  vuehelper mount AComponent --to '#main' --var vm
  vuehelper deps js/app.js --no-mix
  vuehelper render AComponent --template layout
  vuehelper compile views/layout.vue.html`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		errors.NewErrorHandler(newLogger()).Handle(context.Background(), err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .vuehelper.yml, can also use VUEHELPER_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	rootCmd.PersistentFlags().String("log-file", "", "also write JSON logs to this file")
	viper.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. VUEHELPER_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .vuehelper.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("VUEHELPER_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".vuehelper")
	}

	config.RegisterDefaults()
	config.BindEnv()

	// A missing config file is fine, defaults apply
	if err := viper.ReadInConfig(); err == nil {
		newLogger().Debug(context.Background(), "Using config file", "path", viper.ConfigFileUsed())
	}
}

// loadConfig loads and validates the effective configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		he := errors.NewConfigError(errors.ErrCodeConfigInvalid, "failed to load configuration")
		he.Cause = err
		return nil, he
	}
	return cfg, nil
}

// newLogger builds the CLI logger from the log settings. It writes to
// stderr so command output on stdout stays clean, and additionally as JSON
// to log.file when one is set.
func newLogger() logging.Logger {
	level, err := logging.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		level = logging.LevelInfo
	}
	format := viper.GetString("log.format")
	if format == "" {
		format = "text"
	}
	stderr := logging.NewLogger(&logging.LoggerConfig{
		Level:     level,
		Format:    format,
		Output:    os.Stderr,
		Component: "cli",
	})

	path := viper.GetString("log.file")
	if path == "" {
		return stderr
	}
	file, err := openLogFile(path)
	if err != nil {
		stderr.Warn(context.Background(), err, "Logging to stderr only", "path", path)
		return stderr
	}
	return logging.NewMultiLogger(stderr, logging.NewLogger(&logging.LoggerConfig{
		Level:     level,
		Format:    "json",
		Output:    file,
		Component: "cli",
	}))
}

var (
	logFilesMu sync.Mutex
	logFiles   = make(map[string]*os.File)
)

// openLogFile opens path for appending once per process. The files stay
// open until exit.
func openLogFile(path string) (*os.File, error) {
	logFilesMu.Lock()
	defer logFilesMu.Unlock()

	if f, ok := logFiles[path]; ok {
		return f, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	logFiles[path] = f
	return f, nil
}
