//go:build property
// +build property

package config

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestConfigurationProperties tests configuration validation properties
func TestConfigurationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: identifier-shaped mount settings always validate
	properties.Property("identifier mount settings are valid", prop.ForAll(
		func(global, variable, key string) bool {
			cfg := Default()
			cfg.Mount.VueGlobal = global
			cfg.Mount.DefaultVariable = variable
			cfg.Mount.AdditionalConfig[key] = "anything(at, all)"
			return validateConfig(cfg) == nil
		},
		gen.RegexMatch(`^[A-Za-z_$][A-Za-z0-9_$]{0,8}(\.[A-Za-z_$][A-Za-z0-9_$]{0,8})?$`),
		gen.RegexMatch(`^[a-z_][a-z0-9_]{0,8}$`),
		gen.RegexMatch(`^[a-z][a-zA-Z0-9]{0,8}$`),
	))

	// Property: selectors that could break out of the quoted mount call are rejected
	properties.Property("breaking selectors are rejected", prop.ForAll(
		func(prefix, breaker string) bool {
			cfg := Default()
			cfg.Mount.DefaultElement = prefix + breaker
			return validateConfig(cfg) != nil
		},
		gen.AlphaString(),
		gen.RegexMatch(`^['\\\n]$`),
	))

	// Property: traversal in the public path is always rejected
	properties.Property("public path traversal rejected", prop.ForAll(
		func(depth int, name string) bool {
			path := ""
			for i := 0; i < depth; i++ {
				path += "../"
			}
			cfg := Default()
			cfg.Assets.PublicPath = path + name
			return validateConfig(cfg) != nil
		},
		gen.IntRange(1, 5),
		gen.Identifier(),
	))

	// Property: builder output always equals its validated input
	properties.Property("builder round trip", prop.ForAll(
		func(element string, useMix bool) bool {
			b := NewConfigBuilder().WithMountElement("#" + element)
			if !useMix {
				b.WithoutMix()
			}
			cfg, err := b.Build()
			if err != nil {
				return false
			}
			return cfg.Mount.DefaultElement == "#"+element && cfg.Assets.UseMix == useMix
		},
		gen.Identifier(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
