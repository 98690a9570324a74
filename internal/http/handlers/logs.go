package handlers

import (
	"context"

	"lifxbridge/internal/logging"
)

// --- Logs ---

// LogsInput is the input for the buffered logs endpoint.
type LogsInput struct{}

// LogsOutput is the output for the buffered logs endpoint.
type LogsOutput struct {
	Body struct {
		Logs []logging.Line `json:"logs" doc:"Buffered log lines, oldest first"`
	}
}

// LogsHandler serves the in-memory log buffer.
type LogsHandler struct {
	Buffer *logging.Buffer
}

// Logs returns the buffered log lines.
func (h *LogsHandler) Logs(_ context.Context, _ *LogsInput) (*LogsOutput, error) {
	out := &LogsOutput{}
	out.Body.Logs = h.Buffer.Lines()
	return out, nil
}

// Ensure LogsHandler implements the interface at compile time.
var _ LogsHandlers = (*LogsHandler)(nil)

// LogsHandlers defines the interface for log retrieval operations.
type LogsHandlers interface {
	Logs(ctx context.Context, input *LogsInput) (*LogsOutput, error)
}
