package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/message-board/internal/apperror"
	"github.com/sakif/message-board/internal/auth"
	"github.com/sakif/message-board/internal/service"
)

// Route-specific wording for "no such message in your scope". Whether the id
// is unused or belongs to someone else, the client sees the same text.
const (
	msgNothingToShow   = "Wrong parameter! Nothing to show here"
	msgNothingToUpdate = "Wrong parameter! Nothing to update here"
	msgNothingToDelete = "Wrong parameter! Nothing to delete here"

	msgDataAdded       = "Data Added!"
	msgDatabaseUpdated = "Database updated!"
	msgDatabaseDeleted = "Database deleted!"
)

// MessageHandler serves the messages resource. Every route sits behind
// auth.RequireAuth, so a verified identity is always in the request context.
type MessageHandler struct {
	messages *service.MessageService
	logger   *slog.Logger
}

func NewMessageHandler(svc *service.MessageService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		messages: svc,
		logger:   logger,
	}
}

// userID pulls the caller out of the context. The middleware guarantees it
// is there; if it isn't, the route was wired without RequireAuth.
func (h *MessageHandler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperror.Unauthenticated())
		return 0, false
	}
	return id.UserID, true
}

// fail writes err, using notFound as the 400 body for a missing message.
func (h *MessageHandler) fail(w http.ResponseWriter, err error, notFound string) {
	if errors.Is(err, apperror.ErrNotFound) {
		writeJSON(w, http.StatusBadRequest, MessageResponse{Message: notFound})
		return
	}
	writeError(w, h.logger, err)
}

// HandleList returns the caller's messages.
//
// HTTP: GET /messages
// 200:  {"messages": [{"id":1,"userId":1,"message":"buy milk","done":false}, ...]}
func (h *MessageHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	messages, err := h.messages.List(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{Messages: messages})
}

// HandleGet returns one message.
//
// HTTP: GET /messages/{id}
func (h *MessageHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		h.fail(w, apperror.NotFound("message", "?"), msgNothingToShow)
		return
	}

	msg, err := h.messages.Get(r.Context(), userID, id)
	if err != nil {
		h.fail(w, err, msgNothingToShow)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// HandleCreate adds a message owned by the caller.
//
// HTTP: POST /add
// BODY: {"message": "buy milk", "done": 0}
// 200:  {"message": "Data Added!"}
func (h *MessageHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req messageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if _, err := h.messages.Create(r.Context(), userID, req.Message, bool(*req.Done)); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: msgDataAdded})
}

// HandleUpdate replaces text and done.
//
// HTTP: PUT /update/{id}
// BODY: {"message": "buy oat milk", "done": 1}
// 200:  {"message": <updated row>}
// 400:  {"message": "Wrong parameter! Nothing to update here"}
func (h *MessageHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req messageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		h.fail(w, apperror.NotFound("message", "?"), msgNothingToUpdate)
		return
	}

	msg, err := h.messages.Update(r.Context(), userID, id, req.Message, bool(*req.Done))
	if err != nil {
		h.fail(w, err, msgNothingToUpdate)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// HandlePatchDone sets only the done flag.
//
// HTTP: PATCH /patchdone/{id}
// BODY: {"done": 1}
// 200:  {"message": "Database updated!"}
func (h *MessageHandler) HandlePatchDone(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req doneRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	id, ok := pathID(r)
	if !ok {
		h.fail(w, apperror.NotFound("message", "?"), msgNothingToUpdate)
		return
	}

	if err := h.messages.PatchDone(r.Context(), userID, id, bool(*req.Done)); err != nil {
		h.fail(w, err, msgNothingToUpdate)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: msgDatabaseUpdated})
}

// HandleDelete removes one message and echoes it back.
//
// HTTP: DELETE /delete/{id}
// 200:  {"message": <deleted row>}
// 400:  {"message": "Wrong parameter! Nothing to delete here"}
func (h *MessageHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		h.fail(w, apperror.NotFound("message", "?"), msgNothingToDelete)
		return
	}

	msg, err := h.messages.Delete(r.Context(), userID, id)
	if err != nil {
		h.fail(w, err, msgNothingToDelete)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// HandleDeleteAll clears the caller's messages.
//
// HTTP: DELETE /delete
// 200:  {"message": "Database deleted!"}
// 404:  {"message": "Database is Empty! Nothing to delete"}
func (h *MessageHandler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if _, err := h.messages.DeleteAll(r.Context(), userID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: msgDatabaseDeleted})
}
