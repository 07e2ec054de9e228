// Package internal contains the implementation packages of the vuehelper
// CLI and library.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - component: Component records, ordered prop bags and tag naming
//   - config: Configuration management with validation and a builder
//   - registry: Request scoped component registry and page rendering
//   - renderer: Injector, Mounter and DependencyRenderer string output
//   - assets: Laravel Mix manifest and hot file resolution
//   - directive: @vue_* directive scanning and compilation
//   - view: html/template and templ engines with the directive functions
//   - watcher: File system monitoring with debouncing
//   - errors: Typed helper errors, the error handler and compile errors
//   - logging: Structured logging on slog
//
// # Rendering Flow
//
// A controller registers components on a fresh registry, names the page
// template and calls Render or Vue. The view engine compiles directives
// into template actions at load time and binds them to the registry being
// rendered, so one loaded template set serves any number of requests.
// Directives reach the renderers through the registry:
//
//   - @vue_component: Registry.Inject, the inline custom element
//   - @vue_mount: Registry.Mount, the root instance bootstrap script
//   - @vue_dependencies: Registry.RenderDependencies, one script tag each
//
// Output is plain text for a Vue runtime to pick up later; nothing here
// runs JavaScript.
package internal
