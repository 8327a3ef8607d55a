package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"chatloom/backend/internal/engine"
	apperrors "chatloom/backend/internal/errors"
	"chatloom/backend/internal/llm"
	"chatloom/backend/internal/model"
	"chatloom/backend/internal/store"
)

// DefaultThreadTitle is used when a thread is created without a title.
const DefaultThreadTitle = "New Chat"

// SendMessageRequest is a new message from the client. An empty ThreadID
// targets the current thread, creating one if none is selected.
type SendMessageRequest struct {
	ThreadID string `json:"thread_id"`
	Content  string `json:"content"`
}

// BatchDeleteResult reports the outcome of a batch deletion. An invalid
// request (e.g. every requested thread was excluded) is a no-op result, not
// an error.
type BatchDeleteResult struct {
	Deleted []string `json:"deleted"`
	Skipped []string `json:"skipped,omitempty"`
	Failed  []string `json:"failed,omitempty"`
	Noop    bool     `json:"noop"`
	Reason  string   `json:"reason,omitempty"`
}

// Sources bundles the two collaborators one mode operates against: the
// durable store (authoritative for persistence) and the streaming backend's
// ephemeral session (authoritative for the live run).
type Sources struct {
	Store   store.Store
	Backend llm.Backend
}

// Options tunes the reconciliation engine.
type Options struct {
	MainModel     string
	SystemPrompt  string
	QueueSize     int
	ChunkPacing   time.Duration
	UndoRetention time.Duration
}

// conversationState is everything one mode owns. Live and demo each get
// their own state so the two can never cross-contaminate.
type conversationState struct {
	store     store.Store
	backend   llm.Backend
	recon     *engine.Reconciler
	current   string
	streaming bool
	cancelGen context.CancelFunc
}

// ConversationService is the dual-source thread coordinator. Every
// thread-affecting operation runs durable-first: the store must succeed or
// the operation is reported failed; the matching session operation is then
// attempted best-effort, and only degrades to a log line when it fails.
//
// It is also the mode isolation manager: exactly one mode's message list and
// thread pointer are active at a time, and switching modes clears both sides.
type ConversationService struct {
	mu     sync.Mutex
	mode   model.Mode
	states map[model.Mode]*conversationState

	queue *engine.ChunkQueue
	undo  *engine.UndoBuffer

	mainModel    string
	systemPrompt string
}

// NewConversationService wires a coordinator over the live and demo sources.
func NewConversationService(live, demo Sources, opts Options) *ConversationService {
	return &ConversationService{
		mode: model.ModeLive,
		states: map[model.Mode]*conversationState{
			model.ModeLive: {store: live.Store, backend: live.Backend, recon: engine.NewReconciler()},
			model.ModeDemo: {store: demo.Store, backend: demo.Backend, recon: engine.NewReconciler()},
		},
		queue:        engine.NewChunkQueue(opts.QueueSize, opts.ChunkPacing),
		undo:         engine.NewUndoBuffer(opts.UndoRetention),
		mainModel:    opts.MainModel,
		systemPrompt: opts.SystemPrompt,
	}
}

// StartSweeper runs the tombstone sweeper until ctx is cancelled.
func (s *ConversationService) StartSweeper(ctx context.Context, interval time.Duration) {
	s.undo.StartSweeper(ctx, interval)
}

// Mode returns the active mode.
func (s *ConversationService) Mode() model.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// View returns the UI-facing snapshot for the active mode.
func (s *ConversationService) View() model.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.states[s.mode]
	// The message snapshot is taken under the same lock as the thread
	// pointer so a concurrent selection cannot pair one thread's pointer
	// with another thread's messages.
	return model.View{
		Mode:            s.mode,
		CurrentThreadID: st.current,
		Streaming:       st.streaming,
		Messages:        st.recon.Messages(),
	}
}

// SwitchMode atomically switches between live and demo. Both modes'
// conversation state is cleared and any in-flight drain is cancelled;
// nothing is carried over in either direction.
func (s *ConversationService) SwitchMode(mode model.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", apperrors.ErrValidation, mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if mode == s.mode {
		return nil
	}

	s.stopGenerationLocked(s.states[s.mode])
	for _, st := range s.states {
		st.recon.ReplaceAll(nil)
		st.current = ""
	}
	s.undo.Clear()
	s.mode = mode
	slog.Info("Switched conversation mode", "mode", mode)
	return nil
}

// ListThreads returns the active mode's threads, most recently touched first.
func (s *ConversationService) ListThreads(ctx context.Context) ([]*model.Thread, error) {
	st := s.active()
	threads, err := st.store.ListThreads(ctx)
	if err != nil {
		return nil, mapStoreErr(err, "could not list threads")
	}
	return threads, nil
}

// CreateThread creates a thread durably, then best-effort opens a session
// for it, and makes it current with an empty message list.
func (s *ConversationService) CreateThread(ctx context.Context, title string) (*model.Thread, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultThreadTitle
	}

	st := s.active()
	now := time.Now().UTC()
	thread := &model.Thread{ID: uuid.NewString(), Title: title, CreatedAt: now, UpdatedAt: now}

	if err := st.store.CreateThread(ctx, thread); err != nil {
		return nil, mapStoreErr(err, "could not create thread")
	}
	if err := st.backend.OpenSession(ctx, thread.ID); err != nil {
		slog.Warn("Thread created but session open failed; continuing desynced", "thread_id", thread.ID, "error", err)
	}

	s.stopGeneration(st)
	s.commitSelection(st, thread.ID, nil)
	return thread, nil
}

// SelectThread makes threadID current. The view is cleared before loading so
// the previous thread's messages never flash under the new selection; after
// this returns the canonical list contains only the selected thread's
// messages. If the durable store has no messages yet, the session's cached
// messages (first run, not yet persisted) are used as a fallback.
func (s *ConversationService) SelectThread(ctx context.Context, threadID string) error {
	st := s.active()

	// Switching threads cancels any drain in progress for the old stream.
	s.stopGeneration(st)
	s.undo.Clear()
	st.recon.ReplaceAll(nil)

	if _, err := st.store.GetThread(ctx, threadID); err != nil {
		return mapStoreErr(err, "could not load thread")
	}
	messages, err := st.store.GetMessages(ctx, threadID)
	if err != nil {
		return mapStoreErr(err, "could not load messages")
	}
	if len(messages) == 0 {
		if cached := st.backend.SessionMessages(threadID); len(cached) > 0 {
			slog.Debug("Durable store empty, using session cache", "thread_id", threadID, "messages", len(cached))
			messages = cached
		}
	}

	s.commitSelection(st, threadID, messages)

	if err := st.backend.SwitchSession(ctx, threadID); err != nil {
		slog.Warn("Thread selected but session switch failed; continuing desynced", "thread_id", threadID, "error", err)
	}
	return nil
}

// RenameThread updates a thread's title. An empty title after trimming is a
// no-op; the returned bool reports whether the rename was applied.
func (s *ConversationService) RenameThread(ctx context.Context, threadID, newTitle string) (bool, error) {
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" {
		slog.Debug("Ignoring rename to empty title", "thread_id", threadID)
		return false, nil
	}

	st := s.active()
	if err := st.store.RenameThread(ctx, threadID, newTitle); err != nil {
		return false, mapStoreErr(err, "could not rename thread")
	}
	if err := st.backend.RenameSession(ctx, threadID, newTitle); err != nil {
		slog.Warn("Thread renamed but session rename failed; continuing desynced", "thread_id", threadID, "error", err)
	}
	return true, nil
}

// DeleteThread removes a thread and its messages, messages first so the
// durable store is never left with orphans. If the deleted thread is
// current, the view is cleared and the current pointer unset.
func (s *ConversationService) DeleteThread(ctx context.Context, threadID string) error {
	st := s.active()

	if err := st.store.DeleteThreadMessages(ctx, threadID); err != nil {
		return mapStoreErr(err, "could not delete thread messages")
	}
	if err := st.store.DeleteThread(ctx, threadID); err != nil {
		return mapStoreErr(err, "could not delete thread")
	}
	if err := st.backend.CloseSession(ctx, threadID); err != nil {
		slog.Warn("Thread deleted but session close failed; continuing desynced", "thread_id", threadID, "error", err)
	}

	if s.currentOf(st) == threadID {
		s.stopGeneration(st)
		s.undo.Clear()
		s.commitSelection(st, "", nil)
	}
	return nil
}

// BatchDeleteThreads deletes the given threads, always excluding the current
// one even if the caller selected it. If exclusion empties the set the
// result is an explanatory no-op rather than a silent success.
func (s *ConversationService) BatchDeleteThreads(ctx context.Context, threadIDs []string) (*BatchDeleteResult, error) {
	st := s.active()
	current := s.currentOf(st)

	result := &BatchDeleteResult{}
	var targets []string
	for _, id := range threadIDs {
		if id == current {
			result.Skipped = append(result.Skipped, id)
			continue
		}
		targets = append(targets, id)
	}

	if len(targets) == 0 {
		result.Noop = true
		result.Reason = "no threads to delete: the current thread cannot be batch-deleted"
		return result, nil
	}

	for _, id := range targets {
		if err := s.DeleteThread(ctx, id); err != nil {
			slog.Warn("Batch delete: thread failed", "thread_id", id, "error", err)
			result.Failed = append(result.Failed, id)
			continue
		}
		result.Deleted = append(result.Deleted, id)
	}
	return result, nil
}

// DeleteMessage soft-deletes a message from the current thread: it is
// removed durably and from the view, and a tombstone keeps it restorable
// until the retention window expires. The view and the undo buffer are
// mutated together so a message is never both deleted and visible.
func (s *ConversationService) DeleteMessage(ctx context.Context, messageID string) error {
	st := s.active()
	current := s.currentOf(st)
	if current == "" {
		return fmt.Errorf("%w: no thread selected", apperrors.ErrValidation)
	}

	// Membership in the view is checked first so a failed delete never
	// touches the durable store.
	msg, ok := st.recon.Remove(messageID)
	if !ok {
		return fmt.Errorf("%w: message %s", apperrors.ErrNotFound, messageID)
	}

	if err := st.store.DeleteMessage(ctx, current, messageID); err != nil {
		// Not persisted yet (e.g. a streaming placeholder) is fine; the
		// view-side removal stands.
		if !errors.Is(err, store.ErrNotFound) {
			// Put the message back so the store and the view never
			// diverge on a failed delete.
			st.recon.UpsertLocal(msg)
			st.recon.SortChronological()
			return mapStoreErr(err, "could not delete message")
		}
	}

	s.undo.Add(msg, time.Now().UTC())
	return nil
}

// BatchDeleteMessages deletes several messages from the current thread,
// creating one tombstone per message so repeated undos restore them
// most-recent-first.
func (s *ConversationService) BatchDeleteMessages(ctx context.Context, messageIDs []string) (*BatchDeleteResult, error) {
	result := &BatchDeleteResult{}
	for _, id := range messageIDs {
		if err := s.DeleteMessage(ctx, id); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				result.Skipped = append(result.Skipped, id)
				continue
			}
			result.Failed = append(result.Failed, id)
			continue
		}
		result.Deleted = append(result.Deleted, id)
	}
	if len(result.Deleted) == 0 && len(result.Failed) == 0 {
		result.Noop = true
		result.Reason = "no messages to delete"
	}
	return result, nil
}

// UndoDelete restores the most recently deleted message, re-persisting it
// and re-sorting the view chronologically so it lands back in its original
// relative position. Returns nil when there is nothing to undo (including
// when the only tombstones have expired).
func (s *ConversationService) UndoDelete(ctx context.Context) (*model.Message, error) {
	st := s.active()
	current := s.currentOf(st)

	msg, ok := s.undo.PopLast(time.Now().UTC())
	if !ok {
		return nil, nil
	}

	if current != "" {
		if err := st.store.AddMessage(ctx, current, &msg); err != nil {
			// Keep the tombstone so the user can retry.
			s.undo.Add(msg, time.Now().UTC())
			return nil, mapStoreErr(err, "could not restore message")
		}
	}

	st.recon.UpsertLocal(msg)
	st.recon.SortChronological()
	return &msg, nil
}

// StopStreaming cancels the in-flight generation, clears the ingest queue
// and halts its drain loop. Remote requests already dispatched are cancelled
// through their context.
func (s *ConversationService) StopStreaming() {
	s.stopGeneration(s.active())
}

// SendMessage appends a user message to the current (or given, or freshly
// created) thread and streams the assistant's reply. Responses are delivered
// on stream, which is closed when the run finishes; the transport layer is
// expected to call this on its own goroutine.
//
// Errors never escape as panics or stall the caller: they are delivered as
// terminal StreamResponse events.
func (s *ConversationService) SendMessage(ctx context.Context, req *SendMessageRequest, stream chan<- model.StreamResponse) {
	defer close(stream)

	content := strings.TrimSpace(req.Content)
	if content == "" {
		stream <- model.StreamResponse{Error: "message content cannot be empty", Done: true}
		return
	}

	st := s.active()
	threadID, err := s.resolveSendThread(ctx, st, req.ThreadID, content)
	if err != nil {
		slog.Error("Could not resolve thread for send", "error", err)
		stream <- model.StreamResponse{Error: "could not prepare thread", Done: true}
		return
	}

	// Durable-first: the user message must persist before it becomes
	// canonical. A failed write means the operation was not applied.
	userMsg := model.Message{
		ID:        ulid.Make().String(),
		Role:      model.RoleHuman,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := st.store.AddMessage(ctx, threadID, &userMsg); err != nil {
		slog.Error("Could not persist user message", "thread_id", threadID, "error", err)
		stream <- model.StreamResponse{ThreadID: threadID, Error: "could not save message", Done: true}
		return
	}
	st.recon.UpsertLocal(userMsg)
	stream <- model.StreamResponse{ThreadID: threadID, MessageID: userMsg.ID, Content: content}

	genCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if !s.beginStreaming(st, cancel) {
		stream <- model.StreamResponse{ThreadID: threadID, Error: "a generation is already running", Done: true}
		return
	}
	defer s.endStreaming(st)

	assistantID := ulid.Make().String()
	deltas := make(chan llm.Delta)
	go func() {
		if err := st.backend.GenerateStream(genCtx, s.buildRequest(st, threadID), deltas); err != nil && genCtx.Err() == nil {
			slog.Error("Generation stream failed", "thread_id", threadID, "error", err)
		}
	}()

	var full strings.Builder
	for delta := range deltas {
		if delta.Error != "" {
			slog.Warn("Stream error from backend", "thread_id", threadID, "error", delta.Error)
			stream <- model.StreamResponse{ThreadID: threadID, MessageID: assistantID, Error: delta.Error}
			break
		}
		if delta.Content != "" {
			full.WriteString(delta.Content)
			// Chunks carry the full accumulated content: the merge is a
			// keyed replace, so dropped or duplicated deliveries converge.
			s.queue.Enqueue(model.PendingChunk{
				MessageID: assistantID,
				Role:      model.RoleAssistant,
				Content:   full.String(),
			})
			s.queue.Drain(context.Background(), st.recon.MergeChunkHandler())
			stream <- model.StreamResponse{ThreadID: threadID, MessageID: assistantID, Content: delta.Content}
		}
		if delta.Done {
			break
		}
	}

	if full.Len() > 0 {
		assistantMsg := model.Message{
			ID:        assistantID,
			Role:      model.RoleAssistant,
			Content:   full.String(),
			CreatedAt: time.Now().UTC(),
		}
		// Persist even if the client disconnected mid-stream; the durable
		// store must not lose a reply the view already showed.
		if err := st.store.AddMessage(context.WithoutCancel(ctx), threadID, &assistantMsg); err != nil {
			slog.Error("CRITICAL: failed to persist assistant message", "thread_id", threadID, "error", err)
		}
		st.backend.CacheMessages(threadID, st.recon.Messages())
	}

	stream <- model.StreamResponse{ThreadID: threadID, MessageID: assistantID, Done: true}
}

// resolveSendThread decides which thread a send targets: the explicit id,
// the current one, or a new thread titled from the first message.
func (s *ConversationService) resolveSendThread(ctx context.Context, st *conversationState, threadID, content string) (string, error) {
	current := s.currentOf(st)

	switch {
	case threadID == "" && current == "":
		thread, err := s.CreateThread(ctx, truncate(content, 50))
		if err != nil {
			return "", err
		}
		return thread.ID, nil
	case threadID == "" || threadID == current:
		return current, nil
	default:
		if err := s.SelectThread(ctx, threadID); err != nil {
			return "", err
		}
		return threadID, nil
	}
}

// buildRequest assembles the prompt history from the canonical list.
func (s *ConversationService) buildRequest(st *conversationState, threadID string) *llm.GenerateRequest {
	history := []llm.HistoryMessage{{Role: string(model.RoleSystem), Content: s.systemPrompt}}
	for _, msg := range st.recon.Messages() {
		role := string(msg.Role)
		if msg.Role == model.RoleHuman {
			role = "user" // wire convention of the chat API
		}
		history = append(history, llm.HistoryMessage{Role: role, Content: msg.Content})
	}
	return &llm.GenerateRequest{ThreadID: threadID, Model: s.mainModel, Messages: history}
}

func (s *ConversationService) active() *conversationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[s.mode]
}

func (s *ConversationService) currentOf(st *conversationState) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return st.current
}

// commitSelection swaps the canonical message list and the thread pointer
// under one lock, so View never observes one thread's pointer paired with
// another thread's messages.
func (s *ConversationService) commitSelection(st *conversationState, threadID string, messages []model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.recon.ReplaceAll(messages)
	st.current = threadID
}

func (s *ConversationService) beginStreaming(st *conversationState, cancel context.CancelFunc) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.streaming {
		return false
	}
	st.streaming = true
	st.cancelGen = cancel
	return true
}

func (s *ConversationService) endStreaming(st *conversationState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.streaming = false
	st.cancelGen = nil
}

func (s *ConversationService) stopGeneration(st *conversationState) {
	s.mu.Lock()
	s.stopGenerationLocked(st)
	s.mu.Unlock()
}

func (s *ConversationService) stopGenerationLocked(st *conversationState) {
	if st.cancelGen != nil {
		st.cancelGen()
		st.cancelGen = nil
	}
	st.streaming = false
	s.queue.Stop()
}

func mapStoreErr(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, msg)
	}
	return fmt.Errorf("%w: %s: %v", apperrors.ErrUnavailable, msg, err)
}

// truncate shortens a string to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
