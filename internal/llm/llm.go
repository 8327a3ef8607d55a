package llm

import (
	"context"
	"errors"

	"chatloom/backend/internal/model"
)

// Delta is a single streaming update from the backend. Content is the
// incremental text for this event, not the accumulated message.
type Delta struct {
	Content string
	Done    bool
	Error   string
}

// HistoryMessage is one entry of the prompt history sent to the backend.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateRequest describes one generation run.
type GenerateRequest struct {
	ThreadID string
	Model    string
	Messages []HistoryMessage
}

// ErrNoSession is returned by session operations when the backend has no
// ephemeral session for the thread (e.g. after a restart). Callers treat
// session failures as best-effort: they log and continue.
var ErrNoSession = errors.New("llm: no session for thread")

// Backend is the AI streaming backend together with its ephemeral session
// registry. The durable store remains authoritative for persistence; the
// session registry is only authoritative for which conversation is live and
// may lose state at any time.
type Backend interface {
	// GenerateStream produces deltas on ch until done, error, or ctx
	// cancellation. The channel is closed by the implementation.
	GenerateStream(ctx context.Context, req *GenerateRequest, ch chan<- Delta) error

	// Ephemeral session lifecycle, mirrored best-effort from thread
	// operations.
	OpenSession(ctx context.Context, threadID string) error
	SwitchSession(ctx context.Context, threadID string) error
	RenameSession(ctx context.Context, threadID, title string) error
	CloseSession(ctx context.Context, threadID string) error

	// SessionMessages returns the session's cached messages for the thread.
	// Used as a read fallback when the durable store has none yet.
	SessionMessages(threadID string) []model.Message
	// CacheMessages replaces the session's cached messages for the thread.
	CacheMessages(threadID string, messages []model.Message)
}
