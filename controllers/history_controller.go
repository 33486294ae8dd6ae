// controllers/history_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"school_library/app"
	"school_library/history"

	"github.com/gin-gonic/gin"
)

type HistoryController struct{ *Srv }

func NewHistoryController(s *Srv) *HistoryController { return &HistoryController{Srv: s} }

// GET /api/history?search=&kind=&page=
func (hc *HistoryController) GetUnifiedHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}

	opts := history.MergeOptions{Search: c.Query("search")}
	opts.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if k := c.Query("kind"); k != "" {
		kind, ok := history.ParseKind(k)
		if !ok {
			c.JSON(http.StatusBadRequest, app.H{"error": "invalid kind"})
			return
		}
		opts.Kind = kind
	}

	page, err := hc.History.UnifiedHistory(c.Request.Context(), userID, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/history/:kind/:id/validation
func (hc *HistoryController) GetValidationTarget(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	kind, ok := history.ParseKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid kind"})
		return
	}

	rec, err := hc.History.ValidationTarget(c.Request.Context(), userID, kind, c.Param("id"))
	if err != nil {
		hc.renderHistoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"record": rec})
}

// POST /api/history/:kind/:id/validation
func (hc *HistoryController) SubmitValidation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	kind, ok := history.ParseKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid kind"})
		return
	}

	var payload history.SubmitPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	rec, err := hc.History.SubmitValidation(c.Request.Context(), userID, kind, c.Param("id"), payload)
	if err != nil {
		hc.renderHistoryError(c, err)
		return
	}

	// Audit trail is best effort; the validation itself already committed.
	username := c.GetString("username")
	_, _ = hc.Repo.LogValidation(c.Request.Context(), userID, username, string(kind), rec.SourceRecordID)

	c.JSON(http.StatusOK, app.H{"record": rec})
}

func (hc *HistoryController) renderHistoryError(c *gin.Context, err error) {
	var payloadErr *history.PayloadError
	switch {
	case errors.Is(err, history.ErrNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "record not found"})
	case errors.Is(err, history.ErrAlreadyValidated):
		c.JSON(http.StatusConflict, app.H{"error": "record already validated"})
	case errors.As(err, &payloadErr):
		c.JSON(http.StatusUnprocessableEntity, app.H{
			"error":      "invalid payload",
			"violations": payloadErr.Violations,
		})
	case errors.Is(err, history.ErrSchemaUnsupported):
		c.JSON(http.StatusServiceUnavailable, app.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	}
}
