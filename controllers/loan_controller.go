// controllers/loan_controller.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"school_library/app"
	"school_library/db"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LoanController struct{ *Srv }

func NewLoanController(s *Srv) *LoanController { return &LoanController{Srv: s} }

// POST /api/books/:id/borrow
func (lc *LoanController) Borrow(c *gin.Context) {
	bookID := c.Param("id")
	if bookID == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing book id"})
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}

	var in struct {
		DueAt *time.Time `json:"dueAt"`
		Note  string     `json:"note"`
	}
	_ = c.ShouldBindJSON(&in)

	loan, err := lc.Repo.IssueLoan(c.Request.Context(), userID, bookID, in.DueAt, in.Note)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, app.H{"error": "book not found"})
		case errors.Is(err, db.ErrNoCopiesAvailable), errors.Is(err, db.ErrAlreadyBorrowed):
			c.JSON(http.StatusConflict, app.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, loan)
}

// POST /api/loans/:loanId/return
func (lc *LoanController) Return(c *gin.Context) {
	loanID := c.Param("loanId")
	if loanID == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing loan id"})
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}

	loan, err := lc.Repo.ReturnLoan(c.Request.Context(), loanID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "loan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, loan)
}

// GET /api/loans?status=open|returned|overdue&userId=&bookId= (librarian)
func (lc *LoanController) ListLoans(c *gin.Context) {
	ls, err := lc.Repo.ListLoans(c.Request.Context(), c.Query("userId"), c.Query("bookId"), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"items": ls})
}

// GET /api/loans/mine?status=
func (lc *LoanController) ListMyLoans(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	ls, err := lc.Repo.ListLoans(c.Request.Context(), userID, "", c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"items": ls})
}
