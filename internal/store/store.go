package store

import (
	"context"

	"chatloom/backend/internal/model"
)

// Store is the durable source of truth for threads and messages. The live
// mode uses the SQLite implementation; demo mode and tests use the in-memory
// one, so the coordinator logic is identical in both modes.
type Store interface {
	CreateThread(ctx context.Context, thread *model.Thread) error
	GetThread(ctx context.Context, threadID string) (*model.Thread, error)
	ListThreads(ctx context.Context) ([]*model.Thread, error)
	RenameThread(ctx context.Context, threadID, newTitle string) error
	DeleteThread(ctx context.Context, threadID string) error

	AddMessage(ctx context.Context, threadID string, message *model.Message) error
	GetMessages(ctx context.Context, threadID string) ([]model.Message, error)
	DeleteMessage(ctx context.Context, threadID, messageID string) error
	DeleteThreadMessages(ctx context.Context, threadID string) error
}
