package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sirpyerre/admin-console/internal/core/domain"
)

// requestValidator plugs go-playground/validator into echo.Echo.Validator.
// Messages name fields by their JSON key.
type requestValidator struct {
	v *validator.Validate
}

func NewValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	// "level" accepts every spelling domain.ParseLevel understands.
	_ = v.RegisterValidation("level", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseLevel(fl.Field().String())
		return ok
	})
	return &requestValidator{v: v}
}

func (rv *requestValidator) Validate(req any) error {
	err := rv.v.Struct(req)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, len(ve))
	for i, fe := range ve {
		msgs[i] = describe(fe)
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "level":
		return fe.Field() + " must be one of: admin, gerente, user"
	}
	return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
}
