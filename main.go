package main

import (
	"context"
	"log"
	"os"

	"school_library/app"
	"school_library/config"
	"school_library/db"
	"school_library/routes"
)

func main() {
	config.LoadEnv()

	application := app.MustNew()
	defer application.Close()

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	repo := db.NewRepo(application.DB)
	app.BootstrapFirstLibrarian(context.Background(), application.Config, repo)

	routes.RegisterRoutes(r, application)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	log.Printf("listening on :%s", port)
	_ = r.Run(":" + port)
}
