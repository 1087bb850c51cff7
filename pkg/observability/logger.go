package observability

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Log attribute keys shared by the CLI and the pipeline.
const (
	AttrFileName = "file.name"

	attrTraceID = "trace_id"
	attrSpanID  = "span_id"
	attrService = "service"
	attrEnv     = "env"
	attrMode    = "mode"
)

type sourceFileKey struct{}

// WithSourceFile returns a context whose log records name the Java source
// file being inspected.
func WithSourceFile(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}

	return context.WithValue(ctx, sourceFileKey{}, name)
}

// SourceFile returns the file set by [WithSourceFile].
func SourceFile(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(sourceFileKey{}).(string)

	return name, ok
}

// ContextHandler is an [slog.Handler] that stamps records with the
// service, the run mode, the source file carried by the context and the
// active span. The service attributes stay at the top level under groups.
type ContextHandler struct {
	inner slog.Handler
	// grouped turns off the file attribute once a group is open, so it is
	// never nested under a caller's group.
	grouped bool
}

// NewContextHandler wraps inner for the given service, environment and mode.
func NewContextHandler(inner slog.Handler, service, env string, appMode AppMode) *ContextHandler {
	attrs := []slog.Attr{
		slog.String(attrService, service),
		slog.String(attrMode, string(appMode)),
	}

	if env != "" {
		attrs = append(attrs, slog.String(attrEnv, env))
	}

	return &ContextHandler{inner: inner.WithAttrs(attrs)}
}

// Enabled delegates to the inner handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle adds the source file and the span identifiers, then delegates.
func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	if name, ok := SourceFile(ctx); ok && !h.grouped && !hasAttr(record, AttrFileName) {
		record.AddAttrs(slog.String(AttrFileName, name))
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		record.AddAttrs(
			slog.String(attrTraceID, sc.TraceID().String()),
			slog.String(attrSpanID, sc.SpanID().String()),
		)
	}

	err := h.inner.Handle(ctx, record)
	if err != nil {
		return fmt.Errorf("log handler: %w", err)
	}

	return nil
}

// WithAttrs returns a handler with attrs on the inner handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs), grouped: h.grouped}
}

// WithGroup returns a handler that nests later attributes under name.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &ContextHandler{inner: h.inner.WithGroup(name), grouped: true}
}

func hasAttr(record slog.Record, key string) bool {
	found := false

	record.Attrs(func(a slog.Attr) bool {
		found = a.Key == key

		return !found
	})

	return found
}
