package logging

import (
	"context"
	"log/slog"
)

// RedactHandler wraps a slog.Handler and redacts sensitive attributes
// before they reach the underlying sink.
type RedactHandler struct {
	inner slog.Handler
}

// NewRedactHandler wraps handler with redaction.
func NewRedactHandler(handler slog.Handler) *RedactHandler {
	return &RedactHandler{inner: handler}
}

// Enabled implements slog.Handler
func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler
func (h *RedactHandler) Handle(ctx context.Context, record slog.Record) error {
	out := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		out.AddAttrs(redactAttr(attr, 0))
		return true
	})
	return h.inner.Handle(ctx, out)
}

// WithAttrs implements slog.Handler
func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		redacted[i] = redactAttr(attr, 0)
	}
	return &RedactHandler{inner: h.inner.WithAttrs(redacted)}
}

// WithGroup implements slog.Handler
func (h *RedactHandler) WithGroup(name string) slog.Handler {
	return &RedactHandler{inner: h.inner.WithGroup(name)}
}

func redactAttr(attr slog.Attr, depth int) slog.Attr {
	if depth > maxDepth {
		return slog.String(attr.Key, MaxDepthSentinel)
	}

	if IsSensitiveKey(attr.Key) {
		return slog.String(attr.Key, RedactedSentinel)
	}

	value := attr.Value.Resolve()
	switch value.Kind() {
	case slog.KindString:
		if IsSensitiveValue(value.String()) {
			return slog.String(attr.Key, RedactedSentinel)
		}
		return attr
	case slog.KindGroup:
		group := value.Group()
		out := make([]any, 0, len(group))
		for _, member := range group {
			out = append(out, redactAttr(member, depth+1))
		}
		return slog.Group(attr.Key, out...)
	case slog.KindAny:
		return slog.Any(attr.Key, redact(value.Any(), depth))
	default:
		return attr
	}
}
