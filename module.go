package conf

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/0xalexb/hjarta-conf/logging"

	"go.uber.org/fx"
)

// ModuleOption configures a configuration module created by Module.
type ModuleOption func(*moduleOptions)

type moduleOptions struct {
	registry  *Registry
	overrides Overrider
	logUnused bool
	logger    *slog.Logger
}

// WithModuleRegistry attaches a factory registry to the module's tree,
// enabling "class" key resolution.
func WithModuleRegistry(registry *Registry) ModuleOption {
	return func(o *moduleOptions) {
		o.registry = registry
	}
}

// WithModuleOverrides installs an override hook on the module's tree.
func WithModuleOverrides(overrides Overrider) ModuleOption {
	return func(o *moduleOptions) {
		o.overrides = overrides
	}
}

// WithUnusedKeyReport logs any unused configuration keys through the default
// logger when the application stops. The report is advisory and never fails
// shutdown.
func WithUnusedKeyReport() ModuleOption {
	return func(o *moduleOptions) {
		o.logUnused = true
	}
}

// WithReportLogging enables the unused-key report and routes it through a
// JSON logger built by the logging package, writing to w.
func WithReportLogging(config logging.LoggerConfig, w io.Writer) ModuleOption {
	return func(o *moduleOptions) {
		o.logUnused = true
		o.logger = logging.NewLogger(config, w)
	}
}

// Module returns an Fx module that loads the YAML file at path and supplies
// the resulting root *Node under the given DI name. The name is used as both
// the Fx module name and the named tag, so several trees can coexist in one
// container.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func Module(name, path string, opts ...ModuleOption) fx.Option {
	if name == "" {
		return fx.Error(ErrEmptyName)
	}

	var options moduleOptions

	for _, apply := range opts {
		apply(&options)
	}

	var treeOpts []TreeOption

	if options.registry != nil {
		treeOpts = append(treeOpts, WithRegistry(options.registry))
	}

	if options.overrides != nil {
		treeOpts = append(treeOpts, WithOverrides(options.overrides))
	}

	moduleOpts := []fx.Option{
		fx.Provide(fx.Annotate(
			func() (*Node, error) {
				return FromYAMLFile(path, treeOpts...)
			},
			fx.ResultTags(fmt.Sprintf(`name:"%s"`, name)),
		)),
	}

	if options.logUnused {
		reportLogger := options.logger
		if reportLogger == nil {
			reportLogger = slog.Default()
		}

		moduleOpts = append(moduleOpts, fx.Invoke(fx.Annotate(
			func(lifecycle fx.Lifecycle, node *Node) {
				lifecycle.Append(fx.Hook{
					OnStop: func(context.Context) error {
						node.LogUnused(reportLogger)

						return nil
					},
				})
			},
			fx.ParamTags("", fmt.Sprintf(`name:"%s"`, name)),
		)))
	}

	return fx.Module(name, moduleOpts...)
}
