package controllers

import (
	"net/http"

	"school_library/app"
	"school_library/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReviewController struct{ *Srv }

func NewReviewController(s *Srv) *ReviewController { return &ReviewController{Srv: s} }

// POST /api/books/:id/reviews
func (rc *ReviewController) CreateReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	bookID := c.Param("id")
	if _, err := uuid.Parse(bookID); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid uuid"})
		return
	}

	var in struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if _, err := rc.Repo.FindBookByID(c.Request.Context(), bookID); err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "book not found"})
		return
	}

	rv := &models.Review{
		ID:      uuid.NewString(),
		BookID:  bookID,
		UserID:  userID,
		Rating:  in.Rating,
		Comment: in.Comment,
	}
	if err := rc.Repo.CreateReview(c.Request.Context(), rv); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rv)
}

// GET /api/books/:id/reviews
func (rc *ReviewController) ListReviews(c *gin.Context) {
	bookID := c.Param("id")
	if _, err := uuid.Parse(bookID); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid uuid"})
		return
	}
	rvs, err := rc.Repo.ListReviewsForBook(c.Request.Context(), bookID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"items": rvs})
}
