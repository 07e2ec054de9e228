package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/vuehelper/internal/assets"
	"github.com/conneroisu/vuehelper/internal/renderer"
)

var depsCmd = &cobra.Command{
	Use:   "deps DEPENDENCY...",
	Short: "Render script tags for JavaScript dependencies",
	Long: `Render one <script src="..."></script> tag per dependency, in the order
given, the output of @vue_dependencies.

With Mix enabled (assets.use_mix) each path is resolved through the Mix
manifest in assets.public_path, or served from the dev server while the hot
file exists.

Examples:
  vuehelper deps js/app.js js/vendor.js
  vuehelper deps https://unpkg.com/vue@2 --no-mix
  vuehelper deps js/app.js -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDeps,
}

var (
	depsFlags *StandardFlags
	depsMix   bool
	depsNoMix bool
)

func init() {
	rootCmd.AddCommand(depsCmd)

	depsFlags = AddStandardFlags(depsCmd, "output")
	depsCmd.Flags().BoolVar(&depsMix, "mix", false, "Resolve dependencies through the Mix manifest")
	depsCmd.Flags().BoolVar(&depsNoMix, "no-mix", false, "Use dependency paths as script sources directly")
	depsCmd.MarkFlagsMutuallyExclusive("mix", "no-mix")
}

type dependencyTag struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Tag        string `json:"tag" yaml:"tag"`
}

func runDeps(cmd *cobra.Command, args []string) error {
	if err := depsFlags.ValidateFlags(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	switch {
	case cmd.Flags().Changed("mix"):
		cfg.Assets.UseMix = depsMix
	case cmd.Flags().Changed("no-mix"):
		cfg.Assets.UseMix = !depsNoMix
	}

	out, err := renderer.NewDependencyRenderer(args, cfg.Assets.UseMix, assets.NewMix(cfg.Assets)).Render()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if depsFlags.OutputFormat == "text" {
		_, err = fmt.Fprint(w, out)
		return err
	}

	lines := strings.SplitAfter(out, "\n")
	tags := make([]dependencyTag, 0, len(args))
	for i, dep := range args {
		tags = append(tags, dependencyTag{
			Identifier: dep,
			Tag:        strings.TrimSuffix(lines[i], "\n"),
		})
	}
	return writeStructured(w, depsFlags.OutputFormat, tags)
}

// writeStructured encodes v as indented JSON or YAML.
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(v)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
