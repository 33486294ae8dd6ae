// db/repo_virtual.go
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"school_library/history"
	"school_library/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VirtualReadStore adapts the virtual-read table to the history engine
// contract. Base columns are always readable; validation fields come from
// a second id-set lookup that only runs when the schema probe allows, so
// a pre-migration database lists everything as unvalidated instead of
// erroring.
type VirtualReadStore struct {
	db    *gorm.DB
	probe *SchemaProbe
}

const virtualBaseColumns = `
	v.id, v.user_id, v.book_id, v.opened_at,
	b.title, b.author, b.category, b.cover_url`

func (s *VirtualReadStore) baseQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table(models.VirtualReadTable+" v").
		Select(virtualBaseColumns).
		Joins(fmt.Sprintf("JOIN %s b ON b.id = v.book_id", models.BookTable))
}

func (s *VirtualReadStore) ListReads(ctx context.Context, userID string) ([]history.RawVirtualRead, error) {
	var rows []history.RawVirtualRead
	if err := s.baseQuery(ctx).
		Where("v.user_id = ?", userID).
		Order("v.opened_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if err := s.enrich(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *VirtualReadStore) GetRead(ctx context.Context, id string) (*history.RawVirtualRead, error) {
	var rows []history.RawVirtualRead
	if err := s.baseQuery(ctx).
		Where("v.id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, history.ErrNotFound
	}
	if err := s.enrich(ctx, rows); err != nil {
		return nil, err
	}
	return &rows[0], nil
}

type virtualValidationRow struct {
	ID             string
	ValidatedAt    *time.Time
	Opinion        *string
	Summary        *string
	MainCharacters *string
	MainTheme      *string
	LessonsLearned *string
}

// enrich fills validation fields for the given rows, bounded to their id
// set. No-op on a schema without the columns.
func (s *VirtualReadStore) enrich(ctx context.Context, rows []history.RawVirtualRead) error {
	if len(rows) == 0 || !s.probe.SupportsValidation(StoreVirtualReads) {
		return nil
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	var vrows []virtualValidationRow
	if err := s.db.WithContext(ctx).
		Table(models.VirtualReadTable).
		Select("id, validated_at, opinion, summary, main_characters, main_theme, lessons_learned").
		Where("id IN ?", ids).
		Scan(&vrows).Error; err != nil {
		return err
	}
	byID := make(map[string]virtualValidationRow, len(vrows))
	for _, v := range vrows {
		byID[v.ID] = v
	}
	for i := range rows {
		v, ok := byID[rows[i].ID]
		if !ok {
			continue
		}
		rows[i].ValidatedAt = v.ValidatedAt
		rows[i].Opinion = v.Opinion
		rows[i].Summary = v.Summary
		rows[i].MainCharacters = v.MainCharacters
		rows[i].MainTheme = v.MainTheme
		rows[i].LessonsLearned = v.LessonsLearned
	}
	return nil
}

// RecordRead stores that a user opened a book. One row per (user, book);
// reopening returns the existing session id.
func (s *VirtualReadStore) RecordRead(ctx context.Context, userID, bookID string) (string, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Book{}).
		Where("id = ?", bookID).
		Count(&n).Error; err != nil {
		return "", err
	}
	if n == 0 {
		return "", history.ErrNotFound
	}

	var existing models.VirtualRead
	err := s.db.WithContext(ctx).
		Select("id").
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&existing).Error
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	vr := models.VirtualRead{
		ID:       uuid.NewString(),
		UserID:   userID,
		BookID:   bookID,
		OpenedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).
		Select("id", "user_id", "book_id", "opened_at", "created_at", "updated_at").
		Create(&vr).Error; err != nil {
		return "", err
	}
	return vr.ID, nil
}

// Validate mirrors LoanStore.Validate for virtual sessions.
func (s *VirtualReadStore) Validate(ctx context.Context, id string, answers history.ValidationAnswers) error {
	if !s.probe.SupportsValidation(StoreVirtualReads) {
		return history.ErrSchemaUnsupported
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vr models.VirtualRead
		if err := tx.First(&vr, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return history.ErrNotFound
			}
			return err
		}
		if vr.ValidatedAt != nil {
			return history.ErrAlreadyValidated
		}
		res := tx.Model(&models.VirtualRead{}).
			Where("id = ? AND validated_at IS NULL", id).
			Updates(map[string]any{
				"validated_at":    time.Now().UTC(),
				"opinion":         answers.Opinion,
				"summary":         answers.Summary,
				"main_characters": answers.MainCharacters,
				"main_theme":      answers.MainTheme,
				"lessons_learned": answers.LessonsLearned,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return history.ErrAlreadyValidated
		}
		return nil
	})
}
