package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sirpyerre/admin-console/internal/core/domain"
)

// userRecord is the stored shape of a user. Every read is validated against it.
type userRecord struct {
	ID        string    `json:"id" validate:"required"`
	Username  string    `json:"username" validate:"required"`
	Level     string    `json:"level" validate:"oneof=admin gerente user"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

var validate = validator.New()

func toRecord(u domain.User) userRecord {
	return userRecord{
		ID:        u.ID,
		Username:  u.Username,
		Level:     string(u.Level),
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}

func (r userRecord) toDomain() domain.User {
	return domain.User{
		ID:        r.ID,
		Username:  r.Username,
		Level:     domain.Level(r.Level),
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		CreatedAt: r.CreatedAt,
	}
}

func (r userRecord) check() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.CreatedAt.IsZero() {
		return errors.New("createdAt is missing")
	}
	return nil
}

func encodeUsers(users []domain.User) (string, error) {
	recs := make([]userRecord, len(users))
	for i, u := range users {
		recs[i] = toRecord(u)
	}
	b, err := json.Marshal(recs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeUsers(slot, raw string) ([]domain.User, error) {
	var recs []userRecord
	if err := decodeStrict(raw, &recs); err != nil {
		return nil, corrupt(slot, err)
	}
	if recs == nil {
		return nil, corrupt(slot, errors.New("null collection"))
	}

	users := make([]domain.User, len(recs))
	for i, r := range recs {
		if err := r.check(); err != nil {
			return nil, corrupt(slot, fmt.Errorf("record %d: %w", i, err))
		}
		users[i] = r.toDomain()
	}
	return users, nil
}

func encodeUser(u domain.User) (string, error) {
	b, err := json.Marshal(toRecord(u))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeUser(slot, raw string) (*domain.User, error) {
	var rec *userRecord
	if err := decodeStrict(raw, &rec); err != nil {
		return nil, corrupt(slot, err)
	}
	if rec == nil {
		return nil, corrupt(slot, errors.New("null record"))
	}
	if err := rec.check(); err != nil {
		return nil, corrupt(slot, err)
	}
	u := rec.toDomain()
	return &u, nil
}

// decodeStrict rejects unknown fields and trailing data.
func decodeStrict(raw string, v any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("trailing data after value")
	}
	return nil
}

func corrupt(slot string, err error) error {
	return fmt.Errorf("%w: slot %s: %v", domain.ErrCorruptStorage, slot, err)
}
