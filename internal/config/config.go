// Package config provides configuration management for vuehelper using
// Viper for loading from files, environment variables and command-line
// flags.
//
// The configuration covers the default Blade-style layout template, where
// and how root Vue instances are mounted, and whether JavaScript
// dependencies are resolved through a Laravel Mix manifest. Environment
// variables use the VUEHELPER_ prefix with dots replaced by underscores,
// for example VUEHELPER_MOUNT_VUE_GLOBAL=window.Vue.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Default values, matching the behaviour of the original package.
const (
	DefaultTemplate     = "layout"
	DefaultViewDir      = "views"
	DefaultExtension    = ".vue.html"
	DefaultMountElement = "#app"
	DefaultVueGlobal    = "Vue"
	DefaultMountMethod  = "$mount"
	DefaultPublicPath   = "public"
	DefaultManifest     = "mix-manifest.json"
	DefaultHotFile      = "hot"
)

type Config struct {
	View   ViewConfig   `yaml:"view" json:"view" mapstructure:"view"`
	Mount  MountConfig  `yaml:"mount" json:"mount" mapstructure:"mount"`
	Assets AssetsConfig `yaml:"assets" json:"assets" mapstructure:"assets"`
	Log    LogConfig    `yaml:"log" json:"log" mapstructure:"log"`
}

type ViewConfig struct {
	DefaultTemplate string `yaml:"default_template" json:"default_template" mapstructure:"default_template"`
	Dir             string `yaml:"dir" json:"dir" mapstructure:"dir"`
	Extension       string `yaml:"extension" json:"extension" mapstructure:"extension"`
}

// MountConfig describes how root Vue instances are bootstrapped.
type MountConfig struct {
	// DefaultElement is the selector used when a mount names none.
	DefaultElement string `yaml:"default_element" json:"default_element" mapstructure:"default_element"`
	// DefaultVariable is the global the root instance is assigned to.
	// Empty means no assignment.
	DefaultVariable string `yaml:"default_variable" json:"default_variable" mapstructure:"default_variable"`
	// VueGlobal is the constructor expression, e.g. "Vue" or "window.Vue".
	VueGlobal string `yaml:"vue_global" json:"vue_global" mapstructure:"vue_global"`
	// Method is the mount method invoked on the new instance.
	Method string `yaml:"method" json:"method" mapstructure:"method"`
	// AdditionalConfig entries are merged into the constructor object as
	// raw script expressions. Values are not escaped.
	AdditionalConfig map[string]string `yaml:"additional_config" json:"additional_config" mapstructure:"additional_config"`

	// additionalOrder holds AdditionalConfig keys in declaration order.
	additionalOrder []string
}

type AssetsConfig struct {
	UseMix     bool   `yaml:"use_mix" json:"use_mix" mapstructure:"use_mix"`
	PublicPath string `yaml:"public_path" json:"public_path" mapstructure:"public_path"`
	Manifest   string `yaml:"manifest" json:"manifest" mapstructure:"manifest"`
	HotFile    string `yaml:"hot_file" json:"hot_file" mapstructure:"hot_file"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level" mapstructure:"level"`
	Format string `yaml:"format" json:"format" mapstructure:"format"`
	// File receives JSON logs in addition to stderr when set.
	File string `yaml:"file" json:"file" mapstructure:"file"`
}

// AdditionalKeys returns the additional constructor entry keys in the
// order they were declared in the config file or added through the
// builder. Keys without a declared position follow in sorted order.
func (m MountConfig) AdditionalKeys() []string {
	keys := make([]string, 0, len(m.AdditionalConfig))
	seen := make(map[string]bool, len(m.AdditionalConfig))
	for _, k := range m.additionalOrder {
		if _, ok := m.AdditionalConfig[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}

	var rest []string
	for k := range m.AdditionalConfig {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// SetAdditional adds or replaces a raw constructor entry, keeping the
// position of an existing key.
func (m *MountConfig) SetAdditional(key, expression string) {
	if m.AdditionalConfig == nil {
		m.AdditionalConfig = make(map[string]string)
	}
	if _, ok := m.AdditionalConfig[key]; !ok {
		m.additionalOrder = append(m.additionalOrder, key)
	}
	m.AdditionalConfig[key] = expression
}

// Default returns a configuration holding only default values.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg, func(string) bool { return false })
	return cfg
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// viper drops the map when it only arrives through Set or env
	if config.Mount.AdditionalConfig == nil && viper.IsSet("mount.additional_config") {
		config.Mount.AdditionalConfig = viper.GetStringMapString("mount.additional_config")
	}

	// viper lowercases map keys, so constructor entries are read from the
	// file itself when it declares them
	if err := readAdditionalConfig(viper.ConfigFileUsed(), &config.Mount); err != nil {
		return nil, err
	}

	// viper bool handling workaround, mirrors env overrides
	if viper.IsSet("assets.use_mix") {
		config.Assets.UseMix = viper.GetBool("assets.use_mix")
	}

	applyDefaults(&config, viper.IsSet)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// readAdditionalConfig decodes mount.additional_config from a YAML or JSON
// config file, keeping key case and declaration order. Other file types and
// files without the section leave m untouched.
func readAdditionalConfig(path string, m *MountConfig) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml", ".json":
	default:
		return nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var file struct {
		Mount struct {
			AdditionalConfig yaml.Node `yaml:"additional_config"`
		} `yaml:"mount"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	node := file.Mount.AdditionalConfig
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("mount.additional_config in %s must be a mapping", path)
	}

	m.AdditionalConfig = make(map[string]string, len(node.Content)/2)
	m.additionalOrder = nil
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("mount.additional_config.%s in %s must be a string expression", key.Value, path)
		}
		m.SetAdditional(key.Value, value.Value)
	}
	return nil
}

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "VUEHELPER"

// BindEnv makes the global viper instance read VUEHELPER_* variables, with
// dots in keys mapped to underscores.
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// RegisterDefaults declares every key with its default on the global viper
// instance. Declared keys are the ones AutomaticEnv can override during
// Unmarshal.
func RegisterDefaults() {
	viper.SetDefault("view.default_template", DefaultTemplate)
	viper.SetDefault("view.dir", DefaultViewDir)
	viper.SetDefault("view.extension", DefaultExtension)
	viper.SetDefault("mount.default_element", DefaultMountElement)
	viper.SetDefault("mount.default_variable", "")
	viper.SetDefault("mount.vue_global", DefaultVueGlobal)
	viper.SetDefault("mount.method", DefaultMountMethod)
	viper.SetDefault("assets.use_mix", true)
	viper.SetDefault("assets.public_path", DefaultPublicPath)
	viper.SetDefault("assets.manifest", DefaultManifest)
	viper.SetDefault("assets.hot_file", DefaultHotFile)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("log.file", "")
}

// applyDefaults fills unset values. isSet reports keys explicitly set by
// the caller, so an explicit false or empty value survives.
func applyDefaults(config *Config, isSet func(string) bool) {
	if config.View.DefaultTemplate == "" {
		config.View.DefaultTemplate = DefaultTemplate
	}
	if config.View.Dir == "" {
		config.View.Dir = DefaultViewDir
	}
	if config.View.Extension == "" {
		config.View.Extension = DefaultExtension
	}

	if config.Mount.DefaultElement == "" {
		config.Mount.DefaultElement = DefaultMountElement
	}
	if config.Mount.VueGlobal == "" {
		config.Mount.VueGlobal = DefaultVueGlobal
	}
	if config.Mount.Method == "" {
		config.Mount.Method = DefaultMountMethod
	}
	if config.Mount.AdditionalConfig == nil {
		config.Mount.AdditionalConfig = make(map[string]string)
	}

	if !isSet("assets.use_mix") {
		config.Assets.UseMix = true
	}
	if config.Assets.PublicPath == "" {
		config.Assets.PublicPath = DefaultPublicPath
	}
	if config.Assets.Manifest == "" {
		config.Assets.Manifest = DefaultManifest
	}
	if config.Assets.HotFile == "" {
		config.Assets.HotFile = DefaultHotFile
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
}

var (
	// identifierPattern matches a script identifier or dotted member path.
	identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)
	// keyPattern matches an object literal key usable without quotes.
	keyPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
)

// validateConfig validates configuration values for correctness
func validateConfig(config *Config) error {
	if err := validateViewConfig(&config.View); err != nil {
		return fmt.Errorf("view config: %w", err)
	}

	if err := validateMountConfig(&config.Mount); err != nil {
		return fmt.Errorf("mount config: %w", err)
	}

	if err := validateAssetsConfig(&config.Assets); err != nil {
		return fmt.Errorf("assets config: %w", err)
	}

	switch config.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log config: unsupported format %q (supported: text, json)", config.Log.Format)
	}

	return nil
}

func validateViewConfig(config *ViewConfig) error {
	if err := validatePath(config.Dir); err != nil {
		return fmt.Errorf("invalid dir '%s': %w", config.Dir, err)
	}
	if !strings.HasPrefix(config.Extension, ".") {
		return fmt.Errorf("extension %q must start with a dot", config.Extension)
	}
	if strings.ContainsAny(config.DefaultTemplate, "\x00\n\r") {
		return fmt.Errorf("default_template contains control characters")
	}
	return nil
}

// validateMountConfig checks the parts of the mount script that are written
// verbatim as identifiers. Additional config values are raw expressions and
// are deliberately left unchecked.
func validateMountConfig(config *MountConfig) error {
	if !identifierPattern.MatchString(config.VueGlobal) {
		return fmt.Errorf("vue_global %q is not a valid identifier", config.VueGlobal)
	}
	if !identifierPattern.MatchString(config.Method) {
		return fmt.Errorf("method %q is not a valid identifier", config.Method)
	}
	if config.DefaultVariable != "" && !identifierPattern.MatchString(config.DefaultVariable) {
		return fmt.Errorf("default_variable %q is not a valid identifier", config.DefaultVariable)
	}
	if strings.ContainsAny(config.DefaultElement, "'\\\n\r") {
		return fmt.Errorf("default_element %q contains quote, backslash or newline", config.DefaultElement)
	}
	for key := range config.AdditionalConfig {
		if !keyPattern.MatchString(key) {
			return fmt.Errorf("additional_config key %q is not a valid identifier", key)
		}
	}
	return nil
}

func validateAssetsConfig(config *AssetsConfig) error {
	if err := validatePath(config.PublicPath); err != nil {
		return fmt.Errorf("invalid public_path '%s': %w", config.PublicPath, err)
	}
	for name, file := range map[string]string{"manifest": config.Manifest, "hot_file": config.HotFile} {
		if strings.ContainsAny(file, `/\`) {
			return fmt.Errorf("%s %q must be a file name, not a path", name, file)
		}
	}
	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
