package models

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AuditLog records who did what. Entries are only ever created.
type AuditLog struct {
	DefaultModel
	UserID     *uuid.UUID
	Action     string
	EntityType string
	EntityID   *uuid.UUID
	Details    string
	IPAddress  string
}

// Audit writes an audit log entry. Failures are only logged so that they
// never fail the request being audited.
func Audit(db *gorm.DB, userID *uuid.UUID, action, entityType string, entityID *uuid.UUID, details, ip string) {
	entry := AuditLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		IPAddress:  ip,
	}

	err := db.Create(&entry).Error
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("could not write audit log entry")
	}
}
