package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"chatloom/backend/internal/interfaces"
	"chatloom/backend/internal/model"
	"chatloom/backend/internal/service"
)

// ConversationHandler translates HTTP requests into coordinator operations.
type ConversationHandler struct {
	service interfaces.ConversationService
}

func NewConversationHandler(svc interfaces.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: svc}
}

// CreateThreadRequest is the DTO for creating a thread. The title is
// optional; a blank one gets the default placeholder.
type CreateThreadRequest struct {
	Title string `json:"title" validate:"max=100" example:"Trip planning"`
}

// UpdateTitleRequest is the DTO for the thread rename endpoint. An empty
// title is accepted and treated as a no-op, per the rename contract.
type UpdateTitleRequest struct {
	Title string `json:"title" validate:"max=100" example:"My Custom Thread Title"`
}

// BatchDeleteRequest carries the ids for a batch deletion.
type BatchDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

// SwitchModeRequest selects the conversation mode.
type SwitchModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=live demo"`
}

// GetView godoc
// @Summary      Get the conversation view
// @Description  Returns the canonical message list, streaming flag, mode and current thread.
// @Tags         Conversation
// @Produce      json
// @Success      200  {object}  model.View
// @Router       /v1/conversation [get]
func (h *ConversationHandler) GetView(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.service.View())
}

// HandleSendMessage godoc
// @Summary      Send a message
// @Description  Appends a user message and streams the assistant reply as SSE events.
// @Tags         Conversation
// @Accept       json
// @Produce      text/event-stream
// @Param        message  body  service.SendMessageRequest  true  "Message"
// @Success      200  {object}  model.StreamResponse
// @Router       /v1/conversation/messages [post]
func (h *ConversationHandler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var req service.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendStreamError(w, "Invalid request body")
		return
	}

	stream := make(chan model.StreamResponse)
	go h.service.SendMessage(r.Context(), &req, stream)

	for chunk := range stream {
		if r.Context().Err() != nil {
			slog.Debug("Client disconnected during stream")
			break
		}
		if err := writeStreamEvent(w, chunk); err != nil {
			slog.Debug("Stopping stream after write failure", "error", err)
			break
		}
	}
}

// HandleStop godoc
// @Summary      Stop the in-flight generation
// @Tags         Conversation
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /v1/conversation/stop [post]
func (h *ConversationHandler) HandleStop(w http.ResponseWriter, r *http.Request) {
	h.service.StopStreaming()
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// ListThreads godoc
// @Summary      List threads
// @Tags         Threads
// @Produce      json
// @Success      200  {array}   model.Thread
// @Failure      503  {object}  ErrorResponse
// @Router       /v1/threads [get]
func (h *ConversationHandler) ListThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := h.service.ListThreads(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	if threads == nil {
		threads = []*model.Thread{}
	}
	respondWithJSON(w, http.StatusOK, threads)
}

// CreateThread godoc
// @Summary      Create a thread
// @Description  Creates a thread, makes it current and starts with an empty view.
// @Tags         Threads
// @Accept       json
// @Produce      json
// @Param        thread  body  CreateThreadRequest  true  "Thread"
// @Success      201  {object}  model.Thread
// @Failure      400  {object}  ErrorResponse
// @Router       /v1/threads [post]
func (h *ConversationHandler) CreateThread(w http.ResponseWriter, r *http.Request) {
	var req CreateThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}

	thread, err := h.service.CreateThread(r.Context(), req.Title)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, thread)
}

// SelectThread godoc
// @Summary      Select a thread
// @Description  Makes the thread current and loads its messages into the view.
// @Tags         Threads
// @Produce      json
// @Param        threadID  path  string  true  "Thread ID"
// @Success      200  {object}  model.View
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/threads/{threadID}/select [post]
func (h *ConversationHandler) SelectThread(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")
	if err := h.service.SelectThread(r.Context(), threadID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.service.View())
}

// UpdateThreadTitle godoc
// @Summary      Rename a thread
// @Description  Renames a thread. An empty title is a no-op.
// @Tags         Threads
// @Accept       json
// @Produce      json
// @Param        threadID  path  string              true  "Thread ID"
// @Param        title     body  UpdateTitleRequest  true  "New title"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/threads/{threadID}/title [put]
func (h *ConversationHandler) UpdateThreadTitle(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")

	var req UpdateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}

	applied, err := h.service.RenameThread(r.Context(), threadID, req.Title)
	if err != nil {
		respondWithError(w, err)
		return
	}
	status := "ok"
	if !applied {
		status = "noop"
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: status})
}

// DeleteThread godoc
// @Summary      Delete a thread
// @Tags         Threads
// @Produce      json
// @Param        threadID  path  string  true  "Thread ID"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/threads/{threadID} [delete]
func (h *ConversationHandler) DeleteThread(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")
	if err := h.service.DeleteThread(r.Context(), threadID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// BatchDeleteThreads godoc
// @Summary      Batch-delete threads
// @Description  Deletes several threads; the current thread is always excluded.
// @Tags         Threads
// @Accept       json
// @Produce      json
// @Param        ids  body  BatchDeleteRequest  true  "Thread IDs"
// @Success      200  {object}  service.BatchDeleteResult
// @Failure      400  {object}  ErrorResponse
// @Router       /v1/threads/batch-delete [post]
func (h *ConversationHandler) BatchDeleteThreads(w http.ResponseWriter, r *http.Request) {
	var req BatchDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}

	result, err := h.service.BatchDeleteThreads(r.Context(), req.IDs)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// DeleteMessage godoc
// @Summary      Delete a message
// @Description  Soft-deletes a message from the current thread; restorable via undo until it expires.
// @Tags         Messages
// @Produce      json
// @Param        messageID  path  string  true  "Message ID"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/conversation/messages/{messageID} [delete]
func (h *ConversationHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	messageID := chi.URLParam(r, "messageID")
	if err := h.service.DeleteMessage(r.Context(), messageID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// BatchDeleteMessages godoc
// @Summary      Batch-delete messages
// @Tags         Messages
// @Accept       json
// @Produce      json
// @Param        ids  body  BatchDeleteRequest  true  "Message IDs"
// @Success      200  {object}  service.BatchDeleteResult
// @Failure      400  {object}  ErrorResponse
// @Router       /v1/conversation/messages/batch-delete [post]
func (h *ConversationHandler) BatchDeleteMessages(w http.ResponseWriter, r *http.Request) {
	var req BatchDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}

	result, err := h.service.BatchDeleteMessages(r.Context(), req.IDs)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// HandleUndo godoc
// @Summary      Undo the last message deletion
// @Description  Restores the most recently deleted message if its tombstone has not expired.
// @Tags         Messages
// @Produce      json
// @Success      200  {object}  model.Message
// @Success      200  {object}  StatusResponse  "when there is nothing to undo"
// @Router       /v1/conversation/undo [post]
func (h *ConversationHandler) HandleUndo(w http.ResponseWriter, r *http.Request) {
	msg, err := h.service.UndoDelete(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	if msg == nil {
		respondWithJSON(w, http.StatusOK, StatusResponse{Status: "noop"})
		return
	}
	respondWithJSON(w, http.StatusOK, msg)
}

// SwitchMode godoc
// @Summary      Switch conversation mode
// @Description  Switches between live and demo; both modes' views are cleared.
// @Tags         Conversation
// @Accept       json
// @Produce      json
// @Param        mode  body  SwitchModeRequest  true  "Mode"
// @Success      200  {object}  model.View
// @Failure      400  {object}  ErrorResponse
// @Router       /v1/mode [put]
func (h *ConversationHandler) SwitchMode(w http.ResponseWriter, r *http.Request) {
	var req SwitchModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}

	if err := h.service.SwitchMode(model.Mode(req.Mode)); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.service.View())
}
