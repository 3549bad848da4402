package document

import "github.com/jdeng/goeink/internal/observability"

// Options configures how documents are opened.
type Options struct {
	// Logger receives lifecycle and diagnostic events. Defaults to a no-op
	// logger.
	Logger observability.Logger
	// DPI is the native resolution for formats without intrinsic pixel
	// dimensions, such as PDF and EPUB. Zero selects the engine default.
	DPI int
	// ContextName labels the decoding context.
	ContextName string
}

// Option mutates Options.
type Option func(*Options)

// WithLogger sets the logger.
func WithLogger(l observability.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithDPI sets the native resolution for vector formats.
func WithDPI(dpi int) Option {
	return func(o *Options) { o.DPI = dpi }
}

func defaultOptions() Options {
	return Options{
		Logger:      observability.NopLogger{},
		ContextName: "goeink",
	}
}

func buildOptions(opts []Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = observability.NopLogger{}
	}
	return o
}
