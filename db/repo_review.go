package db

import (
	"context"

	"school_library/models"
)

func (r *Repo) CreateReview(ctx context.Context, rv *models.Review) error {
	return r.DB.WithContext(ctx).Create(rv).Error
}

func (r *Repo) ListReviewsForBook(ctx context.Context, bookID string) ([]models.Review, error) {
	var rvs []models.Review
	err := r.DB.WithContext(ctx).
		Where("book_id = ?", bookID).
		Order("created_at DESC").
		Find(&rvs).Error
	return rvs, err
}
