// app/bootstrap.go
package app

import (
	"context"
	"log"

	"school_library/db"
	"school_library/models"

	"github.com/google/uuid"
)

// BootstrapFirstLibrarian creates the initial librarian account from the
// environment when no librarian exists yet. Without one, nobody can manage
// the catalog or other accounts.
func BootstrapFirstLibrarian(ctx context.Context, cfg Config, repo *db.Repo) {
	if cfg.BootstrapUsername == "" || cfg.BootstrapPassword == "" {
		return
	}
	n, err := repo.CountLibrarians(ctx)
	if err != nil {
		log.Printf("bootstrap: count librarians: %v", err)
		return
	}
	if n > 0 {
		return
	}

	hash, err := HashPassword(cfg.BootstrapPassword)
	if err != nil {
		log.Printf("bootstrap: hash password: %v", err)
		return
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Username:     cfg.BootstrapUsername,
		DisplayName:  cfg.BootstrapUsername,
		PasswordHash: hash,
		IsLibrarian:  true,
	}
	if err := repo.CreateUser(ctx, u); err != nil {
		log.Printf("bootstrap: create librarian: %v", err)
		return
	}
	log.Printf("[BOOTSTRAP] Created first librarian account %q", u.Username)
}
