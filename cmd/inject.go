package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/vuehelper/internal/registry"
)

var injectCmd = &cobra.Command{
	Use:   "inject NAME",
	Short: "Render a component as an inline custom element",
	Long: `Render a component as an inline custom element with its props bound
through v-bind, the output of @vue_component.

Examples:
  vuehelper inject AComponent
  vuehelper inject AComponent --props '{"title":"Hello"}'
  vuehelper inject AComponent -f props.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runInject,
}

var injectFlags *StandardFlags

func init() {
	rootCmd.AddCommand(injectCmd)

	injectFlags = AddStandardFlags(injectCmd, "component")
}

func runInject(cmd *cobra.Command, args []string) error {
	if err := injectFlags.ValidateFlags(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	props, err := injectFlags.ParseProps()
	if err != nil {
		return err
	}

	reg := registry.New(cfg, registry.WithLogger(newLogger()))
	out, err := reg.Register(args[0], props).Inject(args[0])
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}
