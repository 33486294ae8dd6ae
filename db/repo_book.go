// db/repo_book.go
package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"school_library/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Books

func (r *Repo) CreateBook(ctx context.Context, b *models.Book) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

func (r *Repo) FindBookByID(ctx context.Context, id string) (*models.Book, error) {
	var b models.Book
	if err := r.DB.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

type BooksQuery struct {
	Q        string // matches title/author/isbn
	Category string
	Source   string // "", "catalog", "google"
	Page     int
	Size     int
}

type PagedBooks struct {
	Total int64         `json:"total"`
	Books []models.Book `json:"books"`
}

func (r *Repo) ListBooks(ctx context.Context, q BooksQuery) (*PagedBooks, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 200 {
		q.Size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.Book{})
	if s := strings.TrimSpace(q.Q); s != "" {
		pat := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR isbn LIKE ?", pat, pat, pat)
	}
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.Source != "" {
		tx = tx.Where("source = ?", q.Source)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, err
	}

	var books []models.Book
	if err := tx.
		Order("created_at DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&books).Error; err != nil {
		return nil, err
	}
	return &PagedBooks{Total: total, Books: books}, nil
}

func (r *Repo) UpdateBook(ctx context.Context, id string, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	res := r.DB.WithContext(ctx).Model(&models.Book{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.New("book not found")
	}
	return nil
}

// FindOrCreateGoogleBook caches an externally sourced volume as a book
// row so virtual reads have something to reference. Keyed by volume id.
func (r *Repo) FindOrCreateGoogleBook(ctx context.Context, volumeID, title, author, category, coverURL string) (*models.Book, error) {
	var b models.Book
	err := r.DB.WithContext(ctx).
		Where("source = ? AND source_ref = ?", models.BookSourceGoogle, volumeID).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ref := volumeID
		b = models.Book{
			ID:        uuid.NewString(),
			Title:     title,
			Author:    author,
			Category:  category,
			CoverURL:  coverURL,
			Source:    models.BookSourceGoogle,
			SourceRef: &ref,
		}
		if err := r.DB.WithContext(ctx).Create(&b).Error; err != nil {
			return nil, err
		}
		return &b, nil
	}
	return &b, err
}
