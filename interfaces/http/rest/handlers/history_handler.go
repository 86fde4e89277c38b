package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"railmap/application/services"
	"railmap/pkg/common"
)

// HistoryHandler serves the version history endpoints.
type HistoryHandler struct {
	service *services.RouteService
	logger  *zap.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(service *services.RouteService, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{service: service, logger: logger}
}

// List returns the retained versions, oldest first
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, h.service.History())
}

// Undo restores the previous version
func (h *HistoryHandler) Undo(w http.ResponseWriter, r *http.Request) {
	description, err := h.service.Undo()
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"restored": description})
}

// Redo restores the next version
func (h *HistoryHandler) Redo(w http.ResponseWriter, r *http.Request) {
	description, err := h.service.Redo()
	if err != nil {
		respondError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"restored": description})
}
