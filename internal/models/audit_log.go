package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditAction classifies a member mutation.
type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

// MemberAuditLog is an immutable record of one mutation to one member.
// ChangedBy is nil for system-generated changes. Writing an entry is
// best-effort: a failed append never fails the mutation it records.
type MemberAuditLog struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	MemberID      uint           `json:"member_id" gorm:"not null;index:idx_audit_member"`
	Action        AuditAction    `json:"action" gorm:"size:10;not null;index:idx_audit_action"`
	ChangedBy     *uint          `json:"changed_by" gorm:"index:idx_audit_changed_by"`
	ChangedFields datatypes.JSON `json:"changed_fields"`
	OldValues     datatypes.JSON `json:"old_values"`
	NewValues     datatypes.JSON `json:"new_values"`
	CreatedAt     time.Time      `json:"created_at" gorm:"index:idx_audit_created"`
}

func (MemberAuditLog) TableName() string {
	return "member_audit_log"
}
