package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/vuehelper/internal/version"
)

var (
	versionFormat   string
	versionShort    bool
	versionDetailed bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for vuehelper: version, commit, build time,
Go version and platform.

Examples:
  vuehelper version
  vuehelper version --short
  vuehelper version --detailed
  vuehelper version --format json`,
	Args: cobra.NoArgs,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json, yaml)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
	versionCmd.Flags().BoolVar(&versionDetailed, "detailed", false, "Show detailed version information")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	info := version.Get()
	w := cmd.OutOrStdout()

	switch versionFormat {
	case "json", "yaml":
		return writeStructured(w, versionFormat, info)
	case "text":
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", versionFormat)
	}

	switch {
	case versionShort:
		_, err := fmt.Fprintln(w, info.Short())
		return err
	case versionDetailed:
		_, err := fmt.Fprintln(w, info.Detailed())
		return err
	}

	fmt.Fprintf(w, "vuehelper %s\n", info.Short())
	if !info.BuildTime.IsZero() {
		fmt.Fprintf(w, "Built: %s\n", info.BuildTime.UTC().Format("2006-01-02 15:04:05 UTC"))
	}
	_, err := fmt.Fprintf(w, "Go: %s\nPlatform: %s\n", info.GoVersion, info.Platform)
	return err
}
