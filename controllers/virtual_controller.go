// controllers/virtual_controller.go
package controllers

import (
	"errors"
	"net/http"

	"school_library/app"
	"school_library/history"

	"github.com/gin-gonic/gin"
)

type VirtualReadController struct{ *Srv }

func NewVirtualReadController(s *Srv) *VirtualReadController {
	return &VirtualReadController{Srv: s}
}

// POST /api/virtual-reads
// Records that the user opened an external volume. The volume is resolved
// against Google Books, cached as a book row, then the read is stored.
func (vc *VirtualReadController) RecordRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}

	var in struct {
		VolumeID string `json:"volumeId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	vol, err := vc.Books.GetVolume(c.Request.Context(), in.VolumeID)
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "volume not found"})
		return
	}

	book, err := vc.Repo.FindOrCreateGoogleBook(c.Request.Context(),
		vol.ID, vol.Title, vol.Author, vol.Category, vol.CoverURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	id, err := vc.Repo.VirtualReads().RecordRead(c.Request.Context(), userID, book.ID)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, app.H{"id": id, "book": book})
}

// GET /api/virtual-reads/mine
func (vc *VirtualReadController) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	rows, err := vc.Repo.VirtualReads().ListReads(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"items": rows})
}
