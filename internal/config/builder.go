package config

import "fmt"

// ConfigBuilder provides a fluent interface for building configurations
// in code, for embedding applications and tests that do not go through
// viper.
//
// Usage:
//
//	cfg, err := NewConfigBuilder().
//	    WithVueGlobal("window.Vue").
//	    WithAdditionalConfig("router", "router").
//	    WithoutMix().
//	    Build()
type ConfigBuilder struct {
	config     *Config
	validators []ValidatorFunc
}

// ValidatorFunc represents a configuration validation function
type ValidatorFunc func(*Config) error

// NewConfigBuilder creates a new configuration builder seeded with defaults
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config:     Default(),
		validators: []ValidatorFunc{},
	}
}

// WithTemplate sets the default template rendered by the registry.
func (cb *ConfigBuilder) WithTemplate(name string) *ConfigBuilder {
	cb.config.View.DefaultTemplate = name
	return cb
}

// WithViews sets the directory and extension of directive templates.
func (cb *ConfigBuilder) WithViews(dir, extension string) *ConfigBuilder {
	cb.config.View.Dir = dir
	if extension != "" {
		cb.config.View.Extension = extension
	}
	return cb
}

// WithMountElement sets the default mount selector.
func (cb *ConfigBuilder) WithMountElement(selector string) *ConfigBuilder {
	cb.config.Mount.DefaultElement = selector
	return cb
}

// WithVariable sets the default global variable for root instances.
func (cb *ConfigBuilder) WithVariable(name string) *ConfigBuilder {
	cb.config.Mount.DefaultVariable = name
	return cb
}

// WithVueGlobal sets the constructor expression.
func (cb *ConfigBuilder) WithVueGlobal(global string) *ConfigBuilder {
	cb.config.Mount.VueGlobal = global
	return cb
}

// WithMountMethod sets the method used to mount the root instance.
func (cb *ConfigBuilder) WithMountMethod(method string) *ConfigBuilder {
	cb.config.Mount.Method = method
	return cb
}

// WithAdditionalConfig adds a raw constructor entry.
func (cb *ConfigBuilder) WithAdditionalConfig(key, expression string) *ConfigBuilder {
	cb.config.Mount.SetAdditional(key, expression)
	return cb
}

// WithMix enables manifest resolution rooted at publicPath.
func (cb *ConfigBuilder) WithMix(publicPath string) *ConfigBuilder {
	cb.config.Assets.UseMix = true
	if publicPath != "" {
		cb.config.Assets.PublicPath = publicPath
	}
	return cb
}

// WithoutMix renders dependencies verbatim.
func (cb *ConfigBuilder) WithoutMix() *ConfigBuilder {
	cb.config.Assets.UseMix = false
	return cb
}

// AddValidator adds a custom validation function
func (cb *ConfigBuilder) AddValidator(validator ValidatorFunc) *ConfigBuilder {
	cb.validators = append(cb.validators, validator)
	return cb
}

// Build validates and returns the configuration.
func (cb *ConfigBuilder) Build() (*Config, error) {
	if err := validateConfig(cb.config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	for _, validator := range cb.validators {
		if err := validator(cb.config); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	built := *cb.config
	built.Mount.AdditionalConfig = make(map[string]string, len(cb.config.Mount.AdditionalConfig))
	for k, v := range cb.config.Mount.AdditionalConfig {
		built.Mount.AdditionalConfig[k] = v
	}
	built.Mount.additionalOrder = append([]string(nil), cb.config.Mount.additionalOrder...)
	return &built, nil
}

// MustBuild is Build for static configurations known to be valid.
func (cb *ConfigBuilder) MustBuild() *Config {
	cfg, err := cb.Build()
	if err != nil {
		panic(err)
	}
	return cfg
}
