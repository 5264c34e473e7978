package store

import (
	"time"

	"github.com/sirpyerre/admin-console/internal/core/domain"
)

// SeedPasswords are the credentials of the seed accounts.
var SeedPasswords = map[string]string{
	"admin":   "admin123",
	"user":    "user123",
	"gerente": "gerente123",
}

// SeedUsers returns the accounts written to an empty user slot.
func SeedUsers(now time.Time) []domain.User {
	created := now.UTC()
	return []domain.User{
		{
			ID:        "1",
			Username:  "admin",
			Level:     domain.LevelAdmin,
			Name:      "Administrador",
			Email:     "admin@sistema.com",
			Phone:     "(11) 99999-9999",
			CreatedAt: created,
		},
		{
			ID:        "2",
			Username:  "user",
			Level:     domain.LevelRegular,
			Name:      "Usuário Comum",
			Email:     "user@sistema.com",
			Phone:     "(11) 88888-8888",
			CreatedAt: created,
		},
		{
			ID:        "3",
			Username:  "gerente",
			Level:     domain.LevelManager,
			Name:      "Gerente Sistema",
			Email:     "gerente@sistema.com",
			Phone:     "(11) 77777-7777",
			CreatedAt: created,
		},
	}
}
