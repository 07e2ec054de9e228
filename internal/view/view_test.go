package view

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/vuehelper/internal/component"
	"github.com/conneroisu/vuehelper/internal/config"
	"github.com/conneroisu/vuehelper/internal/errors"
	"github.com/conneroisu/vuehelper/internal/registry"
	"github.com/conneroisu/vuehelper/internal/renderer"
)

const layout = `<html>
<body>
<h1>{{ .title }}</h1>
@vue_component
@vue_mount("Widget", "#widget")
@vue_dependencies
</body>
</html>`

func testConfig(t *testing.T, dir string) *config.Config {
	t.Helper()
	return config.NewConfigBuilder().WithViews(dir, "").WithoutMix().MustBuild()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestTemplateEngineLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "layout.vue.html"), layout)
	writeFile(t, filepath.Join(dir, "partials", "nav.vue.html"), `<nav>@vue_component("Nav")</nav>`)
	writeFile(t, filepath.Join(dir, "README.md"), "not a template")

	engine := NewTemplateEngine(testConfig(t, dir).View, nil)
	require.NoError(t, engine.Load())

	assert.Equal(t, []string{"layout", "partials/nav"}, engine.Names())
}

func TestTemplateEngineLoadKeepsPreviousSetOnError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "layout.vue.html"), layout)

	engine := NewTemplateEngine(testConfig(t, dir).View, nil)
	require.NoError(t, engine.Load())

	writeFile(t, filepath.Join(dir, "broken.vue.html"), `@vue_mount("A"`)
	err := engine.Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.vue.html")
	assert.Equal(t, []string{"layout"}, engine.Names())
}

func TestRegistryRenderThroughTemplateEngine(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "layout.vue.html"), layout)

	cfg := testConfig(t, dir)
	engine := NewTemplateEngine(cfg.View, nil)
	require.NoError(t, engine.Load())

	reg := registry.New(cfg, registry.WithView(engine)).
		Register("Widget", nil, "widget.js").
		PrepareTemplate("", map[string]interface{}{"title": "Hello & welcome"})

	var buf bytes.Buffer
	err := reg.Render(context.Background(), &buf, "AComponent", component.NewProps().Set("a", 1))
	require.NoError(t, err)

	expected := `<html>
<body>
<h1>Hello &amp; welcome</h1>
<a-component v-bind="{&quot;a&quot;:1}"></a-component>
<script>
new Vue({ render: function (h) { return h('Widget') } }).$mount('#widget')
</script>

<script src="widget.js"></script>

</body>
</html>`
	assert.Equal(t, expected, buf.String())
}

func TestTemplateEngineNilArguments(t *testing.T) {
	engine := NewTemplateEngine(config.Default().View, nil)
	require.NoError(t, engine.Parse("page", `@vue_mount(nil, nil, "vm")`))

	reg := registry.New(nil).RegisterDefault("AComponent", nil)

	var buf bytes.Buffer
	require.NoError(t, engine.Render(context.Background(), &buf, "page", nil, reg))
	assert.Equal(t, "<script>\nvar vm = new Vue({ render: function (h) { return h('AComponent') } }).$mount('#app')\n</script>\n", buf.String())
}

func TestTemplateEngineDataArguments(t *testing.T) {
	engine := NewTemplateEngine(config.Default().View, nil)
	require.NoError(t, engine.Parse("page", `@vue_component(.name)`))

	reg := registry.New(nil).Register("Chart", nil)

	var buf bytes.Buffer
	require.NoError(t, engine.Render(context.Background(), &buf, "page", map[string]interface{}{"name": "Chart"}, reg))
	assert.Equal(t, "<chart></chart>", buf.String())
}

func TestTemplateEngineNotRegistered(t *testing.T) {
	engine := NewTemplateEngine(config.Default().View, nil)
	require.NoError(t, engine.Parse("page", `before @vue_component after`))

	var buf bytes.Buffer
	err := engine.Render(context.Background(), &buf, "page", nil, registry.New(nil))

	require.Error(t, err)
	assert.True(t, errors.IsNotRegistered(err))
	name, _ := errors.ComponentName(err)
	assert.Equal(t, errors.DefaultComponent, name)
	assert.Empty(t, buf.String())
}

func TestTemplateEngineManifestMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Assets.PublicPath = t.TempDir()

	engine := NewTemplateEngine(cfg.View, nil)
	require.NoError(t, engine.Parse("page", `@vue_dependencies`))

	reg := registry.New(cfg).Register("A", nil, "app.js")

	err := engine.Render(context.Background(), io.Discard, "page", nil, reg)
	assert.True(t, errors.IsManifestMissing(err))
}

func TestTemplateEngineMissingTemplate(t *testing.T) {
	engine := NewTemplateEngine(config.Default().View, nil)

	err := engine.Render(context.Background(), io.Discard, "missing", nil, registry.New(nil))

	var he *errors.HelperError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, errors.ErrCodeTemplateMissing, he.Code)
}

func TestTemplateEngineBindsPerRegistry(t *testing.T) {
	engine := NewTemplateEngine(config.Default().View, nil)
	require.NoError(t, engine.Parse("page", `@vue_component`))

	first := registry.New(nil).RegisterDefault("First", nil)
	second := registry.New(nil).RegisterDefault("Second", nil)

	var a, b bytes.Buffer
	require.NoError(t, engine.Render(context.Background(), &a, "page", nil, first))
	require.NoError(t, engine.Render(context.Background(), &b, "page", nil, second))

	assert.Equal(t, "<first></first>", a.String())
	assert.Equal(t, "<second></second>", b.String())
}

func TestTemplateEngineParseError(t *testing.T) {
	engine := NewTemplateEngine(config.Default().View, nil)

	assert.Error(t, engine.Parse("bad", `@vue_component("A", "B")`))
	assert.Error(t, engine.Parse("bad", `{{ .unclosed `))
}

func TestTemplEngine(t *testing.T) {
	page := func(reg *registry.Registry, data map[string]interface{}) templ.Component {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			if _, err := io.WriteString(w, "<main>"); err != nil {
				return err
			}
			for _, c := range []templ.Component{
				Inject(reg, ""),
				Mount(reg, "Widget", renderer.WithVariable("vm")),
				Dependencies(reg),
			} {
				if err := c.Render(ctx, w); err != nil {
					return err
				}
			}
			_, err := io.WriteString(w, "</main>")
			return err
		})
	}

	engine := NewTemplEngine().Add("layout", page)
	assert.Equal(t, []string{"layout"}, engine.Names())

	cfg := config.NewConfigBuilder().WithoutMix().MustBuild()
	reg := registry.New(cfg, registry.WithView(engine)).Register("Widget", nil, "w.js")

	var buf bytes.Buffer
	require.NoError(t, reg.Render(context.Background(), &buf, "AComponent", nil))

	expected := "<main><a-component></a-component>" +
		"<script>\nvar vm = new Vue({ render: function (h) { return h('Widget') } }).$mount('#app')\n</script>\n" +
		"<script src=\"w.js\"></script>\n</main>"
	assert.Equal(t, expected, buf.String())
}

func TestTemplEngineErrors(t *testing.T) {
	engine := NewTemplEngine().Add("layout", func(reg *registry.Registry, _ map[string]interface{}) templ.Component {
		return Inject(reg, "Missing")
	})

	err := engine.Render(context.Background(), io.Discard, "layout", nil, registry.New(nil))
	assert.True(t, errors.IsNotRegistered(err))

	err = engine.Render(context.Background(), io.Discard, "other", nil, registry.New(nil))
	assert.Error(t, err)
}
