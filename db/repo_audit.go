package db

import (
	"context"
	"fmt"

	"school_library/models"
)

func (r *Repo) LogValidation(ctx context.Context, actorID, actorUsername, kind, sourceRecordID string) (*models.AuditLog, error) {
	entry := &models.AuditLog{
		ActorID:        actorID,
		ActorUsername:  actorUsername,
		RecordKind:     kind,
		SourceRecordID: sourceRecordID,
	}
	if err := r.DB.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, fmt.Errorf("insert audit log: %w", err)
	}
	return entry, nil
}
