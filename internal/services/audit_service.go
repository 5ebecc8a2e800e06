package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"moneyflow/internal/logger"
	"moneyflow/internal/models"
)

// auditService records who changed what. Audit writes are best-effort:
// a failed audit insert is logged but never fails the business operation.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an action against a resource. Changes are stored as JSON.
func (s *auditService) Log(ownerID, action, resourceType, resourceID string, changes map[string]interface{}) {
	entry := &models.AuditLog{
		OwnerID:      ownerID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}

	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit changes",
				"resource_type", resourceType,
				"resource_id", resourceID,
				"error", err)
		} else {
			entry.Changes = string(data)
		}
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to write audit log",
			"resource_type", resourceType,
			"resource_id", resourceID,
			"action", action,
			"error", err)
	}
}
