package domain

import "time"

// AuditEvent records a security-relevant action for the audit trail.
// Actor is the acting user's email; it doubles as the ordering key in the
// audit dispatcher so events for one account are persisted in order.
type AuditEvent struct {
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	AuditLoginSucceeded = "login_succeeded"
	AuditLoginFailed    = "login_failed"
	AuditRegistered     = "registered"
	AuditLogout         = "logout"
	AuditEntryCreated   = "entry_created"
	AuditEntryUpdated   = "entry_updated"
	AuditEntryDeleted   = "entry_deleted"
)
