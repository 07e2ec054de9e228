package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/vuehelper/internal/component"
)

// StandardFlags provides consistent flag definitions across commands
type StandardFlags struct {
	// Component flags
	Props     string `flag:"props" desc:"Component props (JSON or @file)" default:""`
	PropsFile string `flag:"props-file,f" desc:"Props file (JSON or YAML)" default:""`

	// Output flags
	OutputFormat string `flag:"output,o" desc:"Output format (text|json|yaml)" default:"text"`
}

var outputFormats = []string{"text", "json", "yaml"}

// AddStandardFlags adds standard flags to a command
func AddStandardFlags(cmd *cobra.Command, flagTypes ...string) *StandardFlags {
	flags := &StandardFlags{OutputFormat: "text"}

	for _, flagType := range flagTypes {
		switch flagType {
		case "component":
			addComponentFlags(cmd, flags)
		case "output":
			addOutputFlags(cmd, flags)
		}
	}

	return flags
}

func addComponentFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().StringVar(&flags.Props, "props", "", "Component props (JSON or @file)")
	cmd.Flags().StringVarP(&flags.PropsFile, "props-file", "f", "", "Props file (JSON or YAML)")
	AddFlagValidation(cmd, "props", ValidateJSON)
	AddFlagValidation(cmd, "props-file", ValidateFileExists)
}

func addOutputFlags(cmd *cobra.Command, flags *StandardFlags) {
	cmd.Flags().StringVarP(&flags.OutputFormat, "output", "o", "text", "Output format (text|json|yaml)")
	AddFlagValidation(cmd, "output", func(format string) error {
		return ValidateFormatWithSuggestion(format, outputFormats)
	})
}

// ParseProps parses component props. Keys keep the order they are written
// in. Files ending in .yaml or .yml are read as YAML, anything else as JSON.
func (f *StandardFlags) ParseProps() (*component.Props, error) {
	if f.PropsFile != "" {
		return readPropsFile(f.PropsFile)
	}

	// If Props starts with @, treat as file reference
	if strings.HasPrefix(f.Props, "@") {
		return readPropsFile(strings.TrimPrefix(f.Props, "@"))
	}

	props := component.NewProps()
	if f.Props != "" {
		if err := json.Unmarshal([]byte(f.Props), props); err != nil {
			return nil, fmt.Errorf("invalid JSON in props: %w", err)
		}
	}
	return props, nil
}

func readPropsFile(filename string) (*component.Props, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read props file %s: %w", filename, err)
	}

	props := component.NewProps()
	if isYAMLFile(filename) {
		if err := yaml.Unmarshal(data, props); err != nil {
			return nil, fmt.Errorf("invalid YAML in props file %s: %w", filename, err)
		}
		return props, nil
	}

	if err := json.Unmarshal(data, props); err != nil {
		return nil, fmt.Errorf("invalid JSON in props file %s: %w", filename, err)
	}
	return props, nil
}

// readDataFile reads template data from a YAML or JSON file.
func readDataFile(filename string) (map[string]interface{}, error) {
	if filename == "" {
		return nil, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file %s: %w", filename, err)
	}

	var out map[string]interface{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("invalid data file %s: %w", filename, err)
	}
	return out, nil
}

func isYAMLFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// ValidateFlags validates flag combinations and values
func (f *StandardFlags) ValidateFlags() error {
	if f.Props != "" && f.PropsFile != "" {
		return fmt.Errorf("cannot specify both --props and --props-file")
	}

	if f.OutputFormat != "" {
		if err := ValidateFormatWithSuggestion(f.OutputFormat, outputFormats); err != nil {
			return err
		}
	}

	return nil
}

// AddFlagValidation adds validation for a specific flag
func AddFlagValidation(cmd *cobra.Command, flagName string, validator func(string) error) {
	flag := cmd.Flags().Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{
		Value:     flag.Value,
		validator: validator,
	}
}

type validatingValue struct {
	pflag.Value
	validator func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.Value.Set(val)
}

// ValidateFileExists checks an optional file argument.
func ValidateFileExists(filename string) error {
	if filename == "" {
		return nil
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filename)
	}

	return nil
}

// ValidateJSON checks that s is valid JSON.
func ValidateJSON(s string) error {
	if s == "" || strings.HasPrefix(s, "@") {
		return nil
	}

	var temp interface{}
	if err := json.Unmarshal([]byte(s), &temp); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

// ValidateFormatWithSuggestion rejects a format outside valid, suggesting
// the format it most likely abbreviates.
func ValidateFormatWithSuggestion(format string, valid []string) error {
	for _, v := range valid {
		if format == v {
			return nil
		}
	}

	lower := strings.ToLower(format)
	for _, v := range valid {
		if lower == v || (lower != "" && strings.HasPrefix(v, lower)) {
			return fmt.Errorf("invalid format %q, did you mean %q?", format, v)
		}
	}

	return fmt.Errorf("invalid format %q, must be one of: %s", format, strings.Join(valid, ", "))
}
