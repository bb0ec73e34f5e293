package domain

import "time"

// AuditAction identifies the sensitive operation an audit entry describes.
type AuditAction string

const (
	AuditActionAssign   AuditAction = "ASSIGN"
	AuditActionUnassign AuditAction = "UNASSIGN"
)

// IsValid checks if the action is one of the allowed values.
func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionAssign, AuditActionUnassign:
		return true
	default:
		return false
	}
}

// AuditStatus is the outcome recorded by an audit entry.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "SUCCESS"
	AuditStatusFail    AuditStatus = "FAIL"
)

// IsValid checks if the status is one of the allowed values.
func (s AuditStatus) IsValid() bool {
	return s == AuditStatusSuccess || s == AuditStatusFail
}

// MaxAuditMessageLength matches the width of audit_logs.message.
const MaxAuditMessageLength = 500

// AuditEntry is an immutable record of the outcome of a sensitive operation.
type AuditEntry struct {
	ID          string
	Action      AuditAction
	Status      AuditStatus
	RequesterID *string
	TargetID    *string // nil when the action failed before anything was created
	Message     string
	Payload     string
	CreatedAt   time.Time // set by the database on insert
}

// AuditFilter narrows audit entry listings.
type AuditFilter struct {
	Action      *AuditAction
	Status      *AuditStatus
	RequesterID *string
}

// AuditSummaryRow is the number of entries per action and status.
type AuditSummaryRow struct {
	Action AuditAction
	Status AuditStatus
	Count  int64
}
