package model

import (
	"time"
)

// Mode selects which conversation state the engine operates on. The two
// modes never share messages, threads or tombstones.
type Mode string

const (
	// ModeLive is backed by the durable store and the real streaming backend.
	ModeLive Mode = "live"
	// ModeDemo is fully local: in-memory store and scripted responses.
	ModeDemo Mode = "demo"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeLive || m == ModeDemo
}

// Role identifies the author of a message.
type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Message is a single entry in a thread. Identity is by ID: two messages
// with the same ID are the same logical message at different points in its
// streaming lifecycle (content changes, identity does not).
//
// IDs are ULIDs, so lexicographic order doubles as creation order when a
// CreatedAt timestamp is missing.
type Message struct {
	ID        string            `json:"id"`
	Role      Role              `json:"role"`
	Content   string            `json:"content"`
	CreatedAt time.Time         `json:"created_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Thread stores metadata about a conversation.
type Thread struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// PendingChunk is a not-yet-merged streaming fragment. Content is the full
// accumulated content for the message so far, not a delta: merging is a
// replace-by-id, never an append.
type PendingChunk struct {
	MessageID string            `json:"message_id"`
	Role      Role              `json:"role"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Tombstone is a time-boxed record of a deleted message that makes the
// deletion reversible until it expires.
type Tombstone struct {
	Message   Message   `json:"message"`
	DeletedAt time.Time `json:"deleted_at"`
}

// View is the UI-facing snapshot of the active conversation.
type View struct {
	Mode            Mode      `json:"mode"`
	CurrentThreadID string    `json:"current_thread_id,omitempty"`
	Streaming       bool      `json:"streaming"`
	Messages        []Message `json:"messages"`
}

// StreamResponse is a single event on a streaming (SSE) response.
type StreamResponse struct {
	ThreadID  string `json:"thread_id,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Content   string `json:"content"`
	Done      bool   `json:"done"`
	Error     string `json:"error,omitempty"`
}
