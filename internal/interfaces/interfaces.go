package interfaces

import (
	"context"

	"chatloom/backend/internal/model"
	"chatloom/backend/internal/service"
)

// ConversationService is the contract the API layer depends on. Depending on
// the interface instead of the concrete coordinator decouples the transport
// from the engine and makes handler tests trivial to mock.
type ConversationService interface {
	Mode() model.Mode
	SwitchMode(mode model.Mode) error
	View() model.View

	ListThreads(ctx context.Context) ([]*model.Thread, error)
	CreateThread(ctx context.Context, title string) (*model.Thread, error)
	SelectThread(ctx context.Context, threadID string) error
	RenameThread(ctx context.Context, threadID, newTitle string) (bool, error)
	DeleteThread(ctx context.Context, threadID string) error
	BatchDeleteThreads(ctx context.Context, threadIDs []string) (*service.BatchDeleteResult, error)

	SendMessage(ctx context.Context, req *service.SendMessageRequest, stream chan<- model.StreamResponse)
	StopStreaming()
	DeleteMessage(ctx context.Context, messageID string) error
	BatchDeleteMessages(ctx context.Context, messageIDs []string) (*service.BatchDeleteResult, error)
	UndoDelete(ctx context.Context) (*model.Message, error)
}
