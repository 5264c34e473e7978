package domain

import "time"

// User models an operator account of the console.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Level     Level     `json:"level"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUser carries the fields a caller supplies when creating a user.
// ID and CreatedAt are assigned by the service.
type NewUser struct {
	Username string
	Level    Level
	Name     string
	Email    string
	Phone    string
}

// UserPatch is a partial update. Nil fields are left unchanged.
type UserPatch struct {
	Username *string `json:"username,omitempty"`
	Level    *Level  `json:"level,omitempty"`
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// Valid reports whether applying p keeps a record storable: a patched
// username must be non-empty and a patched level must be known.
func (p UserPatch) Valid() bool {
	if p.Username != nil && *p.Username == "" {
		return false
	}
	return p.Level == nil || p.Level.Valid()
}

// Apply returns a copy of u with the non-nil patch fields merged in.
func (p UserPatch) Apply(u User) User {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Level != nil {
		u.Level = *p.Level
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	return u
}

// UserFilter narrows ListUsers. Zero value lists everyone.
type UserFilter struct {
	// Search is a case-insensitive substring matched against username, name and email.
	Search string
	Level  Level
}

// SystemStats counts users by level.
type SystemStats struct {
	TotalUsers   int `json:"totalUsers"`
	AdminUsers   int `json:"adminUsers"`
	ManagerUsers int `json:"managerUsers"`
	RegularUsers int `json:"regularUsers"`
}
