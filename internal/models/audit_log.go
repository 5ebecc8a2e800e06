package models

// AuditLog records a mutation performed through the service layer.
// Entries are best-effort and never block the operation they describe.
type AuditLog struct {
	Base
	OwnerID      string `gorm:"type:uuid;not null;index" json:"owner_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   string `gorm:"type:uuid" json:"resource_id"`
	Changes      string `gorm:"type:text" json:"changes,omitempty"`
}
