package chartline

import (
	"github.com/raykavin/chartline/pkg/drawing"
	"github.com/raykavin/chartline/pkg/indicator"
	"github.com/raykavin/chartline/pkg/logger"
	"github.com/raykavin/chartline/pkg/render"
	"github.com/raykavin/chartline/pkg/storage"
	"github.com/raykavin/chartline/pkg/viewport"
)

// Option is a functional option for configuring a Chart instance.
type Option func(*Chart)

// WithLogger sets the logger shared by every component of the chart.
func WithLogger(log logger.Logger) Option {
	return func(chart *Chart) {
		if log != nil {
			chart.log = log
		}
	}
}

// WithEngineConfig overrides the drawing engine configuration.
func WithEngineConfig(cfg drawing.Config) Option {
	return func(chart *Chart) {
		chart.engineCfg = cfg
	}
}

// WithViewportConfig overrides the viewport configuration.
func WithViewportConfig(cfg viewport.Config) Option {
	return func(chart *Chart) {
		chart.viewportCfg = cfg
	}
}

// WithTheme overrides the render theme.
func WithTheme(theme render.Theme) Option {
	return func(chart *Chart) {
		chart.theme = theme
	}
}

// WithIndicators registers indicators computed for every frame.
func WithIndicators(indicators ...indicator.Indicator) Option {
	return func(chart *Chart) {
		chart.indicators = append(chart.indicators, indicators...)
	}
}

// WithLayoutStore attaches a persistence store for named drawing layouts.
func WithLayoutStore(store *storage.LayoutStore) Option {
	return func(chart *Chart) {
		chart.store = store
	}
}

// WithSnapDisabled turns every magnetic snap pass off.
func WithSnapDisabled() Option {
	return func(chart *Chart) {
		chart.engineCfg.SnapPrice = false
		chart.engineCfg.SnapTime = false
		chart.engineCfg.SnapObject = false
	}
}
