package models

import "time"

// AuditLog keeps a trail of validation submissions. Validations are
// irreversible, so the trail is append-only.
type AuditLog struct {
	ID             string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ActorID        string    `gorm:"type:uuid" json:"actorId"`
	ActorUsername  string    `json:"actorUsername"`
	RecordKind     string    `gorm:"size:20" json:"recordKind"` // physical | virtual
	SourceRecordID string    `gorm:"type:uuid" json:"sourceRecordId"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (AuditLog) TableName() string { return "lib_audit_log" }
