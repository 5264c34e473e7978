package ports

import "context"

// CredentialStore maps usernames to plaintext passwords.
type CredentialStore interface {
	Check(ctx context.Context, username, password string) (bool, error)
	Has(ctx context.Context, username string) (bool, error)
	Set(ctx context.Context, username, password string) error
	Remove(ctx context.Context, username string) error
}
