package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/vuehelper/internal/registry"
	"github.com/conneroisu/vuehelper/internal/renderer"
)

var mountCmd = &cobra.Command{
	Use:   "mount NAME",
	Short: "Render the script that mounts a component as a Vue root",
	Long: `Render a <script> block that creates a root Vue instance rendering the
component and mounts it onto an element, the output of @vue_mount.

The selector and global variable default to mount.default_element and
mount.default_variable.

Examples:
  vuehelper mount AComponent
  vuehelper mount AComponent --to '#main' --var vm
  vuehelper mount AComponent --props '{"items":[1,2,3]}'`,
	Args: cobra.ExactArgs(1),
	RunE: runMount,
}

var (
	mountFlags    *StandardFlags
	mountTo       string
	mountVariable string
)

func init() {
	rootCmd.AddCommand(mountCmd)

	mountFlags = AddStandardFlags(mountCmd, "component")
	mountCmd.Flags().StringVarP(&mountTo, "to", "t", "", "Element selector to mount onto")
	mountCmd.Flags().StringVar(&mountVariable, "var", "", "Global variable to assign the root instance to (empty for none)")
}

func runMount(cmd *cobra.Command, args []string) error {
	if err := mountFlags.ValidateFlags(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	props, err := mountFlags.ParseProps()
	if err != nil {
		return err
	}

	var opts []renderer.MountOption
	if cmd.Flags().Changed("to") {
		opts = append(opts, renderer.WithSelector(mountTo))
	}
	if cmd.Flags().Changed("var") {
		opts = append(opts, renderer.WithVariable(mountVariable))
	}

	reg := registry.New(cfg, registry.WithLogger(newLogger()))
	out, err := reg.Register(args[0], props).Mount(args[0], opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
