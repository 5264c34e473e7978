// Package store implements the console's persisted state on top of a slot
// store: the user collection, the session slots and the credentials.
package store

// Slot names. Existing deployments read and write these exact keys.
const (
	SlotUsers   = "app_users"
	SlotToken   = "auth_token"
	SlotSession = "user_session"
	SlotCreds   = "app_credentials"
)
