package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// ContextExtractor pulls one attribute out of a context, reporting whether
// it had anything to contribute.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

type options struct {
	level       slog.Leveler
	json        bool
	output      io.Writer
	attrs       []slog.Attr
	handlerOpts *slog.HandlerOptions
	extractors  []ContextExtractor
}

// Option configures a Logger built by New.
type Option func(*options)

// WithLevel sets the minimum level a handler will emit.
func WithLevel(level slog.Leveler) Option {
	return func(o *options) { o.level = level }
}

// WithJSONFormatter selects JSON output instead of the default text handler.
func WithJSONFormatter() Option {
	return func(o *options) { o.json = true }
}

// WithOutput sets the destination writer. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

// WithAttr attaches attributes to every record emitted by the logger.
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) { o.attrs = append(o.attrs, attrs...) }
}

// WithHandlerOptions overrides the slog.HandlerOptions passed to the
// underlying handler, taking precedence over WithLevel for fields it sets.
func WithHandlerOptions(h *slog.HandlerOptions) Option {
	return func(o *options) { o.handlerOpts = h }
}

// WithContextValue registers an extractor that copies ctx.Value(ctxKey)
// into an attribute named attrKey whenever it is a string.
func WithContextValue(ctxKey, attrKey string) Option {
	return func(o *options) {
		o.extractors = append(o.extractors, func(ctx context.Context) (slog.Attr, bool) {
			v, ok := ctx.Value(ctxKey).(string)
			if !ok || v == "" {
				return slog.Attr{}, false
			}
			return slog.String(attrKey, v), true
		})
	}
}

// WithContextExtractors registers custom context-to-attribute extractors,
// each consulted (in order) whenever a record is logged via the *Context
// slog methods.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) { o.extractors = append(o.extractors, extractors...) }
}

// WithDevelopment configures a human-readable, debug-level text logger
// writing to stdout, tagged with the given service name.
func WithDevelopment(service string) Option {
	return func(o *options) {
		o.level = slog.LevelDebug
		o.json = false
		o.attrs = append(o.attrs, slog.String("service", service), slog.String("env", "development"))
	}
}

// WithProduction configures a JSON, info-level logger writing to stdout,
// tagged with the given service name.
func WithProduction(service string) Option {
	return func(o *options) {
		o.level = slog.LevelInfo
		o.json = true
		o.attrs = append(o.attrs, slog.String("service", service), slog.String("env", "production"))
	}
}

// WithStaging configures a JSON, info-level logger writing to stdout,
// tagged with the given service name.
func WithStaging(service string) Option {
	return func(o *options) {
		o.level = slog.LevelInfo
		o.json = true
		o.attrs = append(o.attrs, slog.String("service", service), slog.String("env", "staging"))
	}
}

// New builds a *slog.Logger from the given options. With no options it
// produces a text handler at Info level writing to stdout.
func New(opts ...Option) *slog.Logger {
	o := &options{
		level:  slog.LevelInfo,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	hOpts := o.handlerOpts
	if hOpts == nil {
		hOpts = &slog.HandlerOptions{Level: o.level, ReplaceAttr: RedactAttr}
	}

	var handler slog.Handler
	if o.json {
		handler = slog.NewJSONHandler(o.output, hOpts)
	} else {
		handler = slog.NewTextHandler(o.output, hOpts)
	}
	if len(o.attrs) > 0 {
		handler = handler.WithAttrs(o.attrs)
	}
	if len(o.extractors) > 0 {
		handler = &contextHandler{Handler: handler, extractors: o.extractors}
	}

	return slog.New(handler)
}

// SetAsDefault installs log as the process-wide default logger, mirroring
// slog.SetDefault.
func SetAsDefault(log *slog.Logger) {
	slog.SetDefault(log)
}

// contextHandler decorates a slog.Handler so every record passed through
// *Context logging methods is enriched with attributes pulled from ctx by
// the configured extractors.
type contextHandler struct {
	slog.Handler
	extractors []ContextExtractor
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, extract := range h.extractors {
		if attr, ok := extract(ctx); ok {
			r.AddAttrs(attr)
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), extractors: h.extractors}
}
