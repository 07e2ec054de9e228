package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/vuehelper/internal/directive"
	"github.com/conneroisu/vuehelper/internal/errors"
	"github.com/conneroisu/vuehelper/internal/logging"
	"github.com/conneroisu/vuehelper/internal/watcher"
)

var compileCmd = &cobra.Command{
	Use:   "compile [FILE|DIR...]",
	Short: "Compile Vue directives in templates into template actions",
	Long: `Compile @vue_component, @vue_mount and @vue_dependencies directives into
the html/template actions the render command executes. Use it to check
templates for directive errors or to inspect what a directive becomes.

Without arguments every template in view.dir is compiled. Compiled files
are printed to stdout, or written below --out with the view extension
replaced by .tmpl. Errors are reported as file:line:column.

Examples:
  vuehelper compile
  vuehelper compile views/layout.vue.html
  vuehelper compile --out build/views --watch`,
	RunE: runCompile,
}

var (
	compileOut   string
	compileWatch bool
)

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&compileOut, "out", "d", "", "Directory to write compiled templates to")
	compileCmd.Flags().BoolVarP(&compileWatch, "watch", "w", false, "Recompile templates when they change")
}

// compileJob is a template file and the root its output path is relative to.
type compileJob struct {
	path string
	root string
}

type templateCompiler struct {
	extension string
	outDir    string
	out       io.Writer
	logger    logging.Logger
}

func runCompile(cmd *cobra.Command, args []string) error {
	if compileWatch && compileOut == "" {
		return fmt.Errorf("--watch requires --out")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{cfg.View.Dir}
	}

	c := &templateCompiler{
		extension: cfg.View.Extension,
		outDir:    compileOut,
		out:       cmd.OutOrStdout(),
		logger:    newLogger(),
	}

	jobs, err := c.collect(roots)
	if err != nil {
		return err
	}

	collector := errors.NewErrorCollector()
	c.compileAll(jobs, collector)
	failed := reportCompileErrors(cmd.ErrOrStderr(), collector)

	if !compileWatch {
		if failed > 0 {
			return fmt.Errorf("%d of %d templates failed to compile", failed, len(jobs))
		}
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return c.watch(ctx, roots, collector, cmd.ErrOrStderr())
}

// collect expands roots into template files. Files named directly are
// compiled whatever their extension.
func (c *templateCompiler) collect(roots []string) ([]compileJob, error) {
	var jobs []compileJob
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			jobs = append(jobs, compileJob{path: root, root: filepath.Dir(root)})
			continue
		}

		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), c.extension) {
				jobs = append(jobs, compileJob{path: path, root: root})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return jobs, nil
}

func (c *templateCompiler) compileAll(jobs []compileJob, collector *errors.ErrorCollector) {
	for _, job := range jobs {
		if err := c.compile(job); err != nil {
			collectCompileError(collector, job.path, err)
		}
	}
}

func (c *templateCompiler) compile(job compileJob) error {
	src, err := os.ReadFile(job.path)
	if err != nil {
		return err
	}

	compiled, err := directive.CompileTemplate(string(src))
	if err != nil {
		return err
	}

	if c.outDir == "" {
		_, err = fmt.Fprintf(c.out, "{{/* %s */}}\n%s", filepath.ToSlash(job.path), compiled)
		return err
	}

	target, err := c.target(job)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(target, []byte(compiled), 0o644); err != nil {
		return err
	}
	c.logger.Debug(context.Background(), "Compiled template", "source", job.path, "target", target)
	return nil
}

// target maps a template to its output path below outDir, replacing the
// view extension with .tmpl.
func (c *templateCompiler) target(job compileJob) (string, error) {
	rel, err := filepath.Rel(job.root, job.path)
	if err != nil {
		return "", err
	}
	base := strings.TrimSuffix(rel, c.extension)
	if base == rel {
		base = strings.TrimSuffix(rel, filepath.Ext(rel))
	}
	return filepath.Join(c.outDir, base+".tmpl"), nil
}

// collectCompileError records a directive error at its source position and
// anything else as a general error.
func collectCompileError(collector *errors.ErrorCollector, file string, err error) {
	pos, ok := directive.ErrorPosition(err)
	if !ok {
		collector.AddError(fmt.Errorf("%s: %w", file, err))
		return
	}
	collector.Add(errors.CompileError{
		File:     file,
		Line:     pos.Line,
		Column:   pos.Column,
		Message:  err.Error(),
		Severity: errors.ErrorSeverityError,
	})
}

// reportCompileErrors writes every collected error to w and returns how
// many there were.
func reportCompileErrors(w io.Writer, collector *errors.ErrorCollector) int {
	if !collector.HasErrors() {
		return 0
	}
	all := collector.GetAllErrors()
	for _, err := range all {
		fmt.Fprintln(w, err)
	}
	return len(all)
}

// recompile compiles the templates of one watcher batch. The collector is
// reused across batches and only holds the errors of the current one.
func (c *templateCompiler) recompile(events []watcher.ChangeEvent, roots []string, collector *errors.ErrorCollector, errOut io.Writer) int {
	collector.Clear()
	for _, event := range events {
		if event.Type == watcher.EventTypeDeleted || event.Type == watcher.EventTypeRenamed {
			continue
		}
		job := compileJob{path: event.Path, root: rootOf(roots, event.Path)}
		if err := c.compile(job); err != nil {
			collectCompileError(collector, job.path, err)
		}
	}
	return reportCompileErrors(errOut, collector)
}

func (c *templateCompiler) watch(ctx context.Context, roots []string, collector *errors.ErrorCollector, errOut io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fw, err := watcher.NewFileWatcher(300*time.Millisecond, c.logger)
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Stop()

	fw.AddFilter(watcher.NoNodeModulesFilter)
	fw.AddFilter(watcher.ExtensionFilter(c.extension))
	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		if n := c.recompile(events, roots, collector, errOut); n > 0 {
			c.logger.Warn(ctx, nil, "Templates failed to compile", "count", n)
		} else {
			c.logger.Info(ctx, "Recompiled templates", "count", len(events))
		}
		return nil
	})

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return err
		}
		if info.IsDir() {
			err = fw.AddRecursive(root)
		} else {
			err = fw.AddPath(filepath.Dir(root))
		}
		if err != nil {
			return fmt.Errorf("watching %s: %w", root, err)
		}
	}

	if err := fw.Start(ctx); err != nil {
		return err
	}
	c.logger.Info(ctx, "Watching templates", "roots", strings.Join(roots, ","))

	<-ctx.Done()
	return nil
}

// rootOf returns the root path lies below. The watcher reports absolute
// paths, so roots are compared in absolute form.
func rootOf(roots []string, path string) string {
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		if info, err := os.Stat(root); err == nil && !info.IsDir() {
			abs = filepath.Dir(abs)
		}
		if rel, err := filepath.Rel(abs, path); err == nil && !strings.HasPrefix(rel, "..") {
			return abs
		}
	}
	return filepath.Dir(path)
}
