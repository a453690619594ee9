package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/decisionlab/simulator-backend/internal/logger"
	"github.com/decisionlab/simulator-backend/internal/services"
	"github.com/decisionlab/simulator-backend/internal/utils"
)

const defaultListLimit = 100

type SessionHandler struct {
	log     *logger.Logger
	service services.SessionService
}

func NewSessionHandler(baseLog *logger.Logger, service services.SessionService) *SessionHandler {
	return &SessionHandler{log: baseLog.With("handler", "SessionHandler"), service: service}
}

// Create ingests a submitted session document.
func (h *SessionHandler) Create(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	sessionID, counts, err := h.service.Ingest(c.Request.Context(), raw)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"ok": true, "session_id": sessionID, "counts": counts})
}

// Normalize re-runs normalization for one stored session.
func (h *SessionHandler) Normalize(c *gin.Context) {
	sessionID := c.Param("id")
	counts, err := h.service.Renormalize(c.Request.Context(), sessionID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"ok": true, "session_id": sessionID, "counts": counts})
}

// NormalizeAll re-runs normalization for every stored session.
func (h *SessionHandler) NormalizeAll(c *gin.Context) {
	results, err := h.service.RenormalizeAll(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"ok": true, "processed": len(results), "results": results})
}

// List returns session summaries, newest first.
func (h *SessionHandler) List(c *gin.Context) {
	limit := defaultListLimit
	if rawLimit := c.Query("limit"); rawLimit != "" {
		parsed, err := utils.ParsePositiveInt(rawLimit)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_limit", fmt.Errorf("limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	summaries, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	RespondOK(c, summaries)
}

// Get returns the retained raw document, byte for byte.
func (h *SessionHandler) Get(c *gin.Context) {
	raw, err := h.service.GetRaw(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// GetNormalized returns the composite relational projection.
func (h *SessionHandler) GetNormalized(c *gin.Context) {
	view, err := h.service.GetNormalized(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	RespondOK(c, view)
}

// Latest returns the most recently created session's summary.
func (h *SessionHandler) Latest(c *gin.Context) {
	summary, err := h.service.Latest(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	RespondOK(c, summary)
}

// LatestNormalized returns the most recent session's relational view.
func (h *SessionHandler) LatestNormalized(c *gin.Context) {
	view, err := h.service.LatestNormalized(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	RespondOK(c, view)
}

func (h *SessionHandler) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingSessionID):
		RespondError(c, http.StatusBadRequest, "missing_session_id", err)
	case errors.Is(err, services.ErrInvalidDocument):
		RespondError(c, http.StatusBadRequest, "invalid_document", err)
	case errors.Is(err, services.ErrSessionNotFound):
		RespondError(c, http.StatusNotFound, "session_not_found", err)
	default:
		h.log.Error("Session request failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
