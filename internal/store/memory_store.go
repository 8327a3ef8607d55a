package store

import (
	"context"
	"sync"
	"time"

	"chatloom/backend/internal/model"
)

// memoryStore is an in-process Store. It backs the fully local demo mode,
// where conversations must never touch the durable database, and doubles as
// a lightweight fixture in tests.
type memoryStore struct {
	mu       sync.Mutex
	threads  map[string]*model.Thread
	order    []string // thread ids, most recently created first
	messages map[string][]model.Message
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() Store {
	return &memoryStore{
		threads:  make(map[string]*model.Thread),
		messages: make(map[string][]model.Message),
	}
}

func (s *memoryStore) CreateThread(_ context.Context, thread *model.Thread) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *thread
	s.threads[thread.ID] = &cp
	s.order = append([]string{thread.ID}, s.order...)
	return nil
}

func (s *memoryStore) GetThread(_ context.Context, threadID string) (*model.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	thread, ok := s.threads[threadID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *thread
	return &cp, nil
}

func (s *memoryStore) ListThreads(_ context.Context) ([]*model.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	threads := make([]*model.Thread, 0, len(s.order))
	for _, id := range s.order {
		cp := *s.threads[id]
		threads = append(threads, &cp)
	}
	return threads, nil
}

func (s *memoryStore) RenameThread(_ context.Context, threadID, newTitle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	thread, ok := s.threads[threadID]
	if !ok {
		return ErrNotFound
	}
	thread.Title = newTitle
	thread.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *memoryStore) DeleteThread(_ context.Context, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.threads[threadID]; !ok {
		return ErrNotFound
	}
	delete(s.threads, threadID)
	for i, id := range s.order {
		if id == threadID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *memoryStore) AddMessage(_ context.Context, threadID string, message *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.messages[threadID]
	for i := range msgs {
		if msgs[i].ID == message.ID {
			msgs[i] = *message
			return nil
		}
	}
	s.messages[threadID] = append(msgs, *message)
	if thread, ok := s.threads[threadID]; ok {
		thread.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (s *memoryStore) GetMessages(_ context.Context, threadID string) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.messages[threadID]
	out := make([]model.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *memoryStore) DeleteMessage(_ context.Context, threadID, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.messages[threadID]
	for i := range msgs {
		if msgs[i].ID == messageID {
			s.messages[threadID] = append(msgs[:i], msgs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *memoryStore) DeleteThreadMessages(_ context.Context, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, threadID)
	return nil
}
