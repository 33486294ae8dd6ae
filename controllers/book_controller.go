// controllers/book_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"school_library/app"
	"school_library/db"
	"school_library/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookController struct{ *Srv }

func NewBookController(s *Srv) *BookController { return &BookController{Srv: s} }

// POST /api/books (librarian)
func (bc *BookController) CreateBook(c *gin.Context) {
	var in struct {
		Title       string  `json:"title" binding:"required"`
		Author      string  `json:"author" binding:"required"`
		Publisher   string  `json:"publisher"`
		Category    string  `json:"category"`
		ISBN        *string `json:"isbn"`
		CoverURL    string  `json:"coverUrl"`
		TotalCopies int     `json:"totalCopies"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.TotalCopies <= 0 {
		in.TotalCopies = 1
	}
	b := &models.Book{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Author:      in.Author,
		Publisher:   in.Publisher,
		Category:    in.Category,
		ISBN:        in.ISBN,
		CoverURL:    in.CoverURL,
		Source:      models.BookSourceCatalog,
		TotalCopies: in.TotalCopies,
	}
	if err := bc.Repo.CreateBook(c.Request.Context(), b); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GET /api/books?q=&category=&source=&page=&size=
func (bc *BookController) ListBooks(c *gin.Context) {
	q := db.BooksQuery{
		Q:        c.Query("q"),
		Category: c.Query("category"),
		Source:   c.Query("source"),
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Size, _ = strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := bc.Repo.ListBooks(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "books": res.Books})
}

// GET /api/books/:id
func (bc *BookController) GetBook(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid uuid"})
		return
	}
	b, err := bc.Repo.FindBookByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "book not found"})
		return
	}
	c.JSON(http.StatusOK, app.H{"book": b})
}

// PUT /api/books/:id (librarian)
func (bc *BookController) UpdateBook(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid uuid"})
		return
	}
	var in struct {
		Title       *string `json:"title"`
		Author      *string `json:"author"`
		Publisher   *string `json:"publisher"`
		Category    *string `json:"category"`
		CoverURL    *string `json:"coverUrl"`
		TotalCopies *int    `json:"totalCopies"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	fields := map[string]any{}
	if in.Title != nil {
		fields["title"] = *in.Title
	}
	if in.Author != nil {
		fields["author"] = *in.Author
	}
	if in.Publisher != nil {
		fields["publisher"] = *in.Publisher
	}
	if in.Category != nil {
		fields["category"] = *in.Category
	}
	if in.CoverURL != nil {
		fields["cover_url"] = *in.CoverURL
	}
	if in.TotalCopies != nil && *in.TotalCopies > 0 {
		fields["total_copies"] = *in.TotalCopies
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "nothing to update"})
		return
	}

	if err := bc.Repo.UpdateBook(c.Request.Context(), id, fields); err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": err.Error()})
		return
	}
	b, err := bc.Repo.FindBookByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"book": b})
}

// GET /api/books/search-external?q=
func (bc *BookController) SearchExternal(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing query"})
		return
	}
	max, _ := strconv.Atoi(c.DefaultQuery("max", "20"))
	vols, err := bc.Books.Search(c.Request.Context(), q, max)
	if err != nil {
		c.JSON(http.StatusBadGateway, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"volumes": vols})
}
