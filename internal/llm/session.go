package llm

import (
	"context"
	"sync"

	"chatloom/backend/internal/model"
)

// session is the ephemeral per-thread state a backend keeps while the
// process lives. It is never persisted.
type session struct {
	title    string
	messages []model.Message
}

// sessionRegistry implements the ephemeral session half of Backend. It is
// embedded by the concrete backends so both share the same bookkeeping.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*session
	active   string
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*session)}
}

func (r *sessionRegistry) OpenSession(_ context.Context, threadID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[threadID]; !ok {
		r.sessions[threadID] = &session{}
	}
	r.active = threadID
	return nil
}

func (r *sessionRegistry) SwitchSession(_ context.Context, threadID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[threadID]; !ok {
		// The session was lost (typically a restart). The caller degrades:
		// durable state stays correct, the live run re-syncs on next send.
		return ErrNoSession
	}
	r.active = threadID
	return nil
}

func (r *sessionRegistry) RenameSession(_ context.Context, threadID, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[threadID]
	if !ok {
		return ErrNoSession
	}
	sess.title = title
	return nil
}

func (r *sessionRegistry) CloseSession(_ context.Context, threadID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[threadID]; !ok {
		return ErrNoSession
	}
	delete(r.sessions, threadID)
	if r.active == threadID {
		r.active = ""
	}
	return nil
}

func (r *sessionRegistry) SessionMessages(threadID string) []model.Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[threadID]
	if !ok || len(sess.messages) == 0 {
		return nil
	}
	out := make([]model.Message, len(sess.messages))
	copy(out, sess.messages)
	return out
}

func (r *sessionRegistry) CacheMessages(threadID string, messages []model.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[threadID]
	if !ok {
		sess = &session{}
		r.sessions[threadID] = sess
	}
	sess.messages = make([]model.Message, len(messages))
	copy(sess.messages, messages)
}
