package domain

import "time"

// AuditAction names a state change recorded in the audit trail.
type AuditAction string

const (
	AuditLogin         AuditAction = "login"
	AuditLogout        AuditAction = "logout"
	AuditUserCreate    AuditAction = "user.create"
	AuditUserUpdate    AuditAction = "user.update"
	AuditUserDelete    AuditAction = "user.delete"
	AuditUserPassword  AuditAction = "user.password"
	AuditProfileUpdate AuditAction = "profile.update"
)

// AuditEvent records who did what to which user.
type AuditEvent struct {
	Action   AuditAction `json:"action"`
	UserID   string      `json:"userId,omitempty"`
	Username string      `json:"username,omitempty"`
	// Actor is the username of the session that performed the action, empty when anonymous.
	Actor string    `json:"actor,omitempty"`
	At    time.Time `json:"at"`
}
