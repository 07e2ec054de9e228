package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/vuehelper/internal/config"
	"github.com/conneroisu/vuehelper/internal/errors"
	"github.com/conneroisu/vuehelper/internal/logging"
	"github.com/conneroisu/vuehelper/internal/testutils"
	"github.com/conneroisu/vuehelper/internal/watcher"
)

// resetState clears the package level flag values and the global viper
// instance between tests.
func resetState(t *testing.T) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	for _, f := range []*StandardFlags{injectFlags, mountFlags, depsFlags, renderFlags, listFlags} {
		f.Props = ""
		f.PropsFile = ""
		f.OutputFormat = "text"
	}
	mountTo, mountVariable = "", ""
	depsMix, depsNoMix = false, false
	renderTemplate, renderData, renderOut, renderWatch = "", "", "", false
	renderDeps = nil
	compileOut, compileWatch = "", false
	configFormat = "yaml"
	versionFormat, versionShort, versionDetailed = "text", false, false
}

func newTestCommand() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	return cmd, &out, &errOut
}

func TestInjectCommand(t *testing.T) {
	resetState(t)
	injectFlags.Props = `{"title":"Hi","count":2}`

	cmd, out, _ := newTestCommand()
	require.NoError(t, runInject(cmd, []string{"AComponent"}))

	assert.Equal(t, `<a-component v-bind="{&quot;title&quot;:&quot;Hi&quot;,&quot;count&quot;:2}"></a-component>`+"\n", out.String())
}

func TestInjectCommandPropsFile(t *testing.T) {
	resetState(t)
	path := filepath.Join(t.TempDir(), "props.yaml")
	testutils.WriteFile(t, path, "zeta: 1\nalpha: two\n")
	injectFlags.PropsFile = path

	cmd, out, _ := newTestCommand()
	require.NoError(t, runInject(cmd, []string{"Foo"}))

	assert.Equal(t, `<foo v-bind="{&quot;zeta&quot;:1,&quot;alpha&quot;:&quot;two&quot;}"></foo>`+"\n", out.String())
}

func TestInjectCommandRejectsBothPropsSources(t *testing.T) {
	resetState(t)
	injectFlags.Props = `{}`
	injectFlags.PropsFile = "props.json"

	cmd, _, _ := newTestCommand()
	assert.Error(t, runInject(cmd, []string{"Foo"}))
}

func TestMountCommand(t *testing.T) {
	resetState(t)

	cmd, out, _ := newTestCommand()
	require.NoError(t, runMount(cmd, []string{"AComponent"}))

	assert.Equal(t, "<script>\nnew Vue({ render: function (h) { return h('AComponent') } }).$mount('#app')\n</script>\n", out.String())
}

func TestMountCommandOverrides(t *testing.T) {
	resetState(t)
	viper.Set("mount.default_variable", "vm")
	mountFlags.Props = `{"id":7}`

	cmd, out, _ := newTestCommand()
	cmd.Flags().StringVar(&mountTo, "to", "", "")
	cmd.Flags().StringVar(&mountVariable, "var", "", "")
	require.NoError(t, cmd.Flags().Set("to", "#main"))
	require.NoError(t, runMount(cmd, []string{"AComponent"}))

	assert.Equal(t, "<script>\nvar vm = new Vue({ render: function (h) { return h('AComponent', { props: {\"id\":7} }) } }).$mount('#main')\n</script>\n", out.String())

	require.NoError(t, cmd.Flags().Set("var", ""))
	out.Reset()
	require.NoError(t, runMount(cmd, []string{"AComponent"}))
	assert.NotContains(t, out.String(), "var vm")
}

func TestDepsCommandWithoutMix(t *testing.T) {
	resetState(t)

	cmd, out, _ := newTestCommand()
	cmd.Flags().BoolVar(&depsNoMix, "no-mix", false, "")
	require.NoError(t, cmd.Flags().Set("no-mix", "true"))
	require.NoError(t, runDeps(cmd, []string{"a.js", "b.js?v=1&x=2"}))

	assert.Equal(t, "<script src=\"a.js\"></script>\n<script src=\"b.js?v=1&amp;x=2\"></script>\n", out.String())
}

func TestDepsCommandJSON(t *testing.T) {
	resetState(t)
	viper.Set("assets.use_mix", false)
	depsFlags.OutputFormat = "json"

	cmd, out, _ := newTestCommand()
	require.NoError(t, runDeps(cmd, []string{"a.js", "a.js"}))

	var tags []dependencyTag
	require.NoError(t, json.Unmarshal(out.Bytes(), &tags))
	assert.Equal(t, []dependencyTag{
		{Identifier: "a.js", Tag: `<script src="a.js"></script>`},
		{Identifier: "a.js", Tag: `<script src="a.js"></script>`},
	}, tags)
}

func TestDepsCommandResolvesThroughMix(t *testing.T) {
	resetState(t)
	public := testutils.PublicDir(testutils.CreateTempProject(t))
	testutils.WriteManifest(t, public, map[string]string{"/js/app.js": "/js/app.js?id=abc"})
	viper.Set("assets.public_path", public)
	depsFlags.OutputFormat = "yaml"

	cmd, out, _ := newTestCommand()
	require.NoError(t, runDeps(cmd, []string{"js/app.js"}))

	var tags []dependencyTag
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &tags))
	require.Len(t, tags, 1)
	assert.Equal(t, `<script src="/js/app.js?id=abc"></script>`, tags[0].Tag)
}

func TestDepsCommandManifestMissing(t *testing.T) {
	resetState(t)
	viper.Set("assets.public_path", t.TempDir())

	cmd, out, _ := newTestCommand()
	err := runDeps(cmd, []string{"js/app.js"})

	require.Error(t, err)
	assert.True(t, errors.IsManifestMissing(err))
	assert.Empty(t, out.String())
}

func setupViews(t *testing.T) string {
	t.Helper()
	dir := testutils.ViewsDir(testutils.CreateTempProject(t))
	testutils.CreateTestTemplate(t, dir, "layout", "<body><h1>{{ .title }}</h1>@vue_component</body>")
	testutils.CreateTestTemplate(t, dir, "pages/show", `<main>@vue_mount(nil, "#main")</main>`)
	viper.Set("view.dir", dir)
	viper.Set("assets.use_mix", false)
	return dir
}

func TestRenderCommand(t *testing.T) {
	resetState(t)
	setupViews(t)
	renderFlags.Props = `{"a":1}`

	dataFile := filepath.Join(t.TempDir(), "data.yaml")
	testutils.WriteFile(t, dataFile, "title: Hello & bye\n")
	renderData = dataFile

	cmd, out, _ := newTestCommand()
	require.NoError(t, runRender(cmd, []string{"AComponent"}))

	assert.Equal(t, `<body><h1>Hello &amp; bye</h1><a-component v-bind="{&quot;a&quot;:1}"></a-component></body>`, out.String())
}

func TestRenderCommandDataWithTemplate(t *testing.T) {
	resetState(t)
	dir := setupViews(t)
	testutils.CreateTestTemplate(t, dir, "pages/greeting", `<p>{{ .greeting }}</p>@vue_component`)
	renderTemplate = "pages/greeting"

	dataFile := filepath.Join(t.TempDir(), "data.json")
	testutils.WriteFile(t, dataFile, `{"greeting":"Hi"}`)
	renderData = dataFile

	cmd, out, _ := newTestCommand()
	require.NoError(t, runRender(cmd, []string{"Page"}))

	assert.Equal(t, `<p>Hi</p><page></page>`, out.String())
}

func TestRenderCommandTemplateAndOut(t *testing.T) {
	resetState(t)
	setupViews(t)
	renderTemplate = "pages/show"
	renderOut = filepath.Join(t.TempDir(), "public", "index.html")

	cmd, out, _ := newTestCommand()
	require.NoError(t, runRender(cmd, []string{"Page"}))

	assert.Empty(t, out.String())
	written, err := os.ReadFile(renderOut)
	require.NoError(t, err)
	assert.Equal(t, "<main><script>\nnew Vue({ render: function (h) { return h('Page') } }).$mount('#main')\n</script>\n</main>", string(written))
}

func TestRenderCommandLogFile(t *testing.T) {
	resetState(t)
	setupViews(t)
	logPath := filepath.Join(t.TempDir(), "vuehelper.log")
	viper.Set("log.file", logPath)
	renderOut = filepath.Join(t.TempDir(), "index.html")

	cmd, _, _ := newTestCommand()
	require.NoError(t, runRender(cmd, []string{"Page"}))

	logged, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logged), `"msg":"Rendered page"`)
	assert.Contains(t, string(logged), `"component":"Page"`)
}

func TestRenderCommandDependencies(t *testing.T) {
	resetState(t)
	dir := setupViews(t)
	testutils.CreateTestTemplate(t, dir, "scripts", "@vue_dependencies")
	renderTemplate = "scripts"
	renderDeps = []string{"js/vendor.js", "js/app.js"}

	cmd, out, _ := newTestCommand()
	require.NoError(t, runRender(cmd, []string{"Page"}))

	assert.Equal(t, "<script src=\"js/vendor.js\"></script>\n<script src=\"js/app.js\"></script>\n", out.String())
}

func TestRenderCommandNotRegistered(t *testing.T) {
	resetState(t)
	dir := setupViews(t)
	testutils.WriteFile(t, filepath.Join(dir, "other.vue.html"), `@vue_component("Missing")`)
	renderTemplate = "other"

	cmd, out, _ := newTestCommand()
	err := runRender(cmd, []string{"Page"})

	require.Error(t, err)
	assert.True(t, errors.IsNotRegistered(err))
	name, _ := errors.ComponentName(err)
	assert.Equal(t, "Missing", name)
	assert.Empty(t, out.String())
}

func TestRenderCommandWatchRequiresOut(t *testing.T) {
	resetState(t)
	renderWatch = true

	cmd, _, _ := newTestCommand()
	assert.Error(t, runRender(cmd, []string{"Page"}))
}

func TestCompileCommandToDirectory(t *testing.T) {
	resetState(t)
	dir := setupViews(t)
	compileOut = t.TempDir()

	cmd, _, _ := newTestCommand()
	require.NoError(t, runCompile(cmd, []string{dir}))

	layout, err := os.ReadFile(filepath.Join(compileOut, "layout.tmpl"))
	require.NoError(t, err)
	assert.Equal(t, "<body><h1>{{ .title }}</h1>{{ vueComponent }}</body>", string(layout))

	show, err := os.ReadFile(filepath.Join(compileOut, "pages", "show.tmpl"))
	require.NoError(t, err)
	assert.Equal(t, `<main>{{ vueMount nil "#main" nil }}</main>`, string(show))
}

func TestCompileCommandStdout(t *testing.T) {
	resetState(t)
	dir := setupViews(t)

	cmd, out, _ := newTestCommand()
	require.NoError(t, runCompile(cmd, []string{filepath.Join(dir, "layout.vue.html")}))

	assert.Contains(t, out.String(), "layout.vue.html */}}\n")
	assert.Contains(t, out.String(), "{{ vueComponent }}")
}

func TestCompileCommandReportsPositions(t *testing.T) {
	resetState(t)
	dir := setupViews(t)
	broken := filepath.Join(dir, "broken.vue.html")
	testutils.WriteFile(t, broken, "<div>\n  @vue_mount(\"A\", \"#app\", \"vm\", \"x\")\n</div>")

	cmd, _, errOut := newTestCommand()
	err := runCompile(cmd, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 templates failed")
	assert.Contains(t, errOut.String(), broken+":2:3: error:")
}

func TestRecompileReportsOnlyCurrentBatch(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "page.vue.html")
	testutils.WriteFile(t, page, `@vue_component("A", "B")`)

	c := &templateCompiler{
		extension: config.DefaultExtension,
		outDir:    t.TempDir(),
		logger:    logging.Nop(),
	}
	collector := errors.NewErrorCollector()
	batch := []watcher.ChangeEvent{{Type: watcher.EventTypeModified, Path: page}}

	var errOut bytes.Buffer
	assert.Equal(t, 1, c.recompile(batch, []string{dir}, collector, &errOut))
	assert.Contains(t, errOut.String(), page+":1:1: error:")

	testutils.WriteFile(t, page, `@vue_component("A")`)
	errOut.Reset()
	assert.Equal(t, 0, c.recompile(batch, []string{dir}, collector, &errOut))
	assert.Empty(t, errOut.String())
	assert.False(t, collector.HasErrors())

	compiled, err := os.ReadFile(filepath.Join(c.outDir, "page.tmpl"))
	require.NoError(t, err)
	assert.Equal(t, `{{ vueComponent "A" }}`, string(compiled))
}

func TestListCommand(t *testing.T) {
	resetState(t)
	dir := setupViews(t)
	listFlags.OutputFormat = "json"

	cmd, out, _ := newTestCommand()
	require.NoError(t, runList(cmd, nil))

	var templates []templateInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &templates))
	assert.Equal(t, []templateInfo{
		{Name: "layout", File: filepath.Join(dir, "layout.vue.html"), Default: true},
		{Name: "pages/show", File: filepath.Join(dir, "pages", "show.vue.html")},
	}, templates)
}

func TestListCommandTable(t *testing.T) {
	resetState(t)
	setupViews(t)

	cmd, out, _ := newTestCommand()
	require.NoError(t, runList(cmd, nil))

	assert.Contains(t, out.String(), "NAME")
	assert.Contains(t, out.String(), "pages/show")
	assert.Contains(t, out.String(), "Total: 2 templates")
}

func TestConfigShow(t *testing.T) {
	resetState(t)
	viper.Set("mount.vue_global", "window.Vue")

	cmd, out, _ := newTestCommand()
	require.NoError(t, runConfigShow(cmd, nil))

	assert.Contains(t, out.String(), "vue_global: window.Vue")
	assert.Contains(t, out.String(), "default_element:")
	assert.Contains(t, out.String(), "#app")

	configFormat = "json"
	out.Reset()
	require.NoError(t, runConfigShow(cmd, nil))

	var shown map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &shown))
	assert.Equal(t, "window.Vue", shown["mount"]["vue_global"])
}

func TestConfigValidate(t *testing.T) {
	resetState(t)

	cmd, out, _ := newTestCommand()
	require.NoError(t, runConfigValidate(cmd, nil))
	assert.Contains(t, out.String(), "Configuration is valid")

	viper.Set("mount.vue_global", "not valid!")
	err := runConfigValidate(cmd, nil)
	require.Error(t, err)

	var he *errors.HelperError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, errors.ErrCodeConfigInvalid, he.Code)
}

func TestVersionCommand(t *testing.T) {
	resetState(t)

	cmd, out, _ := newTestCommand()
	require.NoError(t, runVersionCommand(cmd, nil))
	assert.Contains(t, out.String(), "vuehelper ")
	assert.Contains(t, out.String(), "Go: ")

	versionFormat = "json"
	out.Reset()
	require.NoError(t, runVersionCommand(cmd, nil))

	var info map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "go_version")

	versionFormat = "xml"
	assert.Error(t, runVersionCommand(cmd, nil))
}

func TestValidateFormatWithSuggestion(t *testing.T) {
	assert.NoError(t, ValidateFormatWithSuggestion("json", outputFormats))

	err := ValidateFormatWithSuggestion("JSON", outputFormats)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "json"`)

	err = ValidateFormatWithSuggestion("y", outputFormats)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "yaml"`)

	err = ValidateFormatWithSuggestion("xml", outputFormats)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of: text, json, yaml")
}

func TestValidateJSON(t *testing.T) {
	assert.NoError(t, ValidateJSON(""))
	assert.NoError(t, ValidateJSON("@props.json"))
	assert.NoError(t, ValidateJSON(`{"a":[1,2]}`))
	assert.Error(t, ValidateJSON(`{"a":`))
}

func TestParsePropsFromFileReference(t *testing.T) {
	path := filepath.Join(t.TempDir(), "props.json")
	testutils.WriteFile(t, path, `{"b":1,"a":2}`)

	flags := &StandardFlags{Props: "@" + path}
	props, err := flags.ParseProps()
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, props.Keys())
}

func TestFlagValidationRejectsBadValues(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	flags := AddStandardFlags(cmd, "component", "output")

	assert.Error(t, cmd.Flags().Set("props", `{not json`))
	assert.Error(t, cmd.Flags().Set("output", "xml"))
	require.NoError(t, cmd.Flags().Set("output", "yaml"))
	assert.Equal(t, "yaml", flags.OutputFormat)
}
