package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/conneroisu/vuehelper/internal/view"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List the page templates render can use",
	Long: `List the templates loaded from view.dir, by the name render and
--template refer to them with. The default template is marked.

Examples:
  vuehelper list              # List templates in table format
  vuehelper list -o json      # Output as JSON
  vuehelper list -o yaml      # Output as YAML`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var listFlags *StandardFlags

func init() {
	rootCmd.AddCommand(listCmd)

	listFlags = AddStandardFlags(listCmd, "output")
}

type templateInfo struct {
	Name    string `json:"name" yaml:"name"`
	File    string `json:"file" yaml:"file"`
	Default bool   `json:"default" yaml:"default"`
}

func runList(cmd *cobra.Command, args []string) error {
	if err := listFlags.ValidateFlags(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	engine := view.NewTemplateEngine(cfg.View, newLogger())
	if err := engine.Load(); err != nil {
		return err
	}

	names := engine.Names()
	templates := make([]templateInfo, 0, len(names))
	for _, name := range names {
		templates = append(templates, templateInfo{
			Name:    name,
			File:    filepath.Join(cfg.View.Dir, filepath.FromSlash(name)+cfg.View.Extension),
			Default: name == cfg.View.DefaultTemplate,
		})
	}

	w := cmd.OutOrStdout()
	if listFlags.OutputFormat != "text" {
		return writeStructured(w, listFlags.OutputFormat, templates)
	}

	if len(templates) == 0 {
		_, err := fmt.Fprintf(w, "No templates found in %s.\n", cfg.View.Dir)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFILE\tDEFAULT")
	fmt.Fprintln(tw, strings.Repeat("-", 4)+"\t"+strings.Repeat("-", 4)+"\t"+strings.Repeat("-", 7))
	for _, t := range templates {
		def := ""
		if t.Default {
			def = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name, t.File, def)
	}
	fmt.Fprintf(tw, "\nTotal: %d templates\n", len(templates))
	return tw.Flush()
}
