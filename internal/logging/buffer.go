// Package logging provides the daemon's log setup: a standard slog logger
// whose records are additionally retained in a fixed-size in-memory buffer
// served by the admin API's /api/logs endpoint.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultBufferSize is the number of log lines retained for the admin API.
const DefaultBufferSize = 500

// Line is a single buffered log record.
type Line struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
}

// Buffer is a bounded ring of recent log lines.
type Buffer struct {
	mu    sync.Mutex
	lines []Line
	next  int
	full  bool
}

// NewBuffer creates a buffer retaining up to size lines.
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Buffer{lines: make([]Line, size)}
}

// Append adds a line, evicting the oldest when full.
func (b *Buffer) Append(l Line) {
	b.mu.Lock()
	b.lines[b.next] = l
	b.next = (b.next + 1) % len(b.lines)
	if b.next == 0 {
		b.full = true
	}
	b.mu.Unlock()
}

// Lines returns the buffered lines, oldest first.
func (b *Buffer) Lines() []Line {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.full {
		out := make([]Line, b.next)
		copy(out, b.lines[:b.next])
		return out
	}
	out := make([]Line, 0, len(b.lines))
	out = append(out, b.lines[b.next:]...)
	out = append(out, b.lines[:b.next]...)
	return out
}

// BufferHandler is a slog.Handler that appends every record to a Buffer
// while delegating to a wrapped handler for normal output.
type BufferHandler struct {
	inner  slog.Handler
	buffer *Buffer
	attrs  []slog.Attr
}

// NewBufferHandler wraps inner so records are also retained in buffer.
func NewBufferHandler(inner slog.Handler, buffer *Buffer) *BufferHandler {
	return &BufferHandler{inner: inner, buffer: buffer}
}

// Enabled reports whether the wrapped handler handles records at the given level.
func (h *BufferHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle buffers the record and forwards it to the wrapped handler.
func (h *BufferHandler) Handle(ctx context.Context, r slog.Record) error {
	msg := r.Message
	appendAttr := func(a slog.Attr) bool {
		msg += fmt.Sprintf(" %s=%v", a.Key, a.Value)
		return true
	}
	for _, a := range h.attrs {
		appendAttr(a)
	}
	r.Attrs(appendAttr)

	h.buffer.Append(Line{
		Time:    r.Time,
		Level:   r.Level.String(),
		Message: msg,
	})
	return h.inner.Handle(ctx, r)
}

// WithAttrs returns a handler carrying the additional attributes.
func (h *BufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &BufferHandler{inner: h.inner.WithAttrs(attrs), buffer: h.buffer, attrs: merged}
}

// WithGroup returns a handler with the group applied to the wrapped handler.
func (h *BufferHandler) WithGroup(name string) slog.Handler {
	return &BufferHandler{inner: h.inner.WithGroup(name), buffer: h.buffer, attrs: h.attrs}
}
