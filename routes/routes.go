package routes

import (
	"time"

	"school_library/app"
	"school_library/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	auth := controllers.GetAuthController(s)
	books := controllers.NewBookController(s)
	loans := controllers.NewLoanController(s)
	virtual := controllers.NewVirtualReadController(s)
	reviews := controllers.NewReviewController(s)
	hist := controllers.NewHistoryController(s)
	users := controllers.GetUserController(s)

	authMW := app.AuthRequired(s.AppSess, s.Repo)
	librarianMW := app.LibrarianOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// Sign-in (public + protected)
	// ------------------------------
	ag := r.Group("/api/auth")
	{
		ag.POST("/login", auth.Login)
	}
	agAuth := ag.Group("", authMW, seenMW)
	{
		agAuth.POST("/logout", auth.Logout)
		agAuth.GET("/whoami", auth.WhoAmI)
	}

	// ------------------------------
	// Catalog
	// ------------------------------
	booksAdmin := r.Group("/api/books", authMW, librarianMW)
	{
		booksAdmin.POST("", books.CreateBook)
		booksAdmin.PUT("/:id", books.UpdateBook)
	}
	booksGroup := r.Group("/api/books", authMW, seenMW)
	{
		booksGroup.GET("", books.ListBooks)
		booksGroup.GET("/search-external", books.SearchExternal)
		booksGroup.GET("/:id", books.GetBook)
		booksGroup.GET("/:id/reviews", reviews.ListReviews)
		booksGroup.POST("/:id/reviews", reviews.CreateReview)
		booksGroup.POST("/:id/borrow", loans.Borrow)
	}

	// ------------------------------
	// Loans
	// ------------------------------
	loansGroup := r.Group("/api/loans", authMW, seenMW)
	{
		loansGroup.POST("/:loanId/return", loans.Return)
		loansGroup.GET("/mine", loans.ListMyLoans)
	}
	loansAdmin := r.Group("/api/loans", authMW, librarianMW)
	{
		loansAdmin.GET("", loans.ListLoans) // ?status=open|returned|overdue&userId=&bookId=
	}

	// ------------------------------
	// Virtual reads
	// ------------------------------
	virtualGroup := r.Group("/api/virtual-reads", authMW, seenMW)
	{
		virtualGroup.POST("", virtual.RecordRead)
		virtualGroup.GET("/mine", virtual.ListMine)
	}

	// ------------------------------
	// Unified reading history + validation
	// ------------------------------
	histGroup := r.Group("/api/history", authMW, seenMW)
	{
		histGroup.GET("", hist.GetUnifiedHistory) // ?search=&kind=&page=
		histGroup.GET("/:kind/:id/validation", hist.GetValidationTarget)
		histGroup.POST("/:kind/:id/validation", hist.SubmitValidation)
	}

	// ------------------------------
	// User management (librarian)
	// ------------------------------
	usersGroup := r.Group("/api/users", authMW, librarianMW)
	{
		usersGroup.GET("", users.ListUsers) // ?q=&page=&size=
		usersGroup.POST("", users.CreateUser)
		usersGroup.GET("/:id", users.GetUser)
		usersGroup.DELETE("/:id", users.DeleteUser)
	}
}
