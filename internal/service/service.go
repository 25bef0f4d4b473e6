// Package service implements the marketplace operations on top of the
// repositories: identity, listings, orders, messaging and moderation.
// Ownership checks live here and in the handlers; the repositories apply
// whatever they are given.
package service

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/iliyamo/farm-market/internal/repository"
)

// Clock returns the current time. Tests swap it for a fixed clock.
type Clock func() time.Time

// IDFunc allocates a new record id.
type IDFunc func() string

func systemClock() time.Time { return time.Now().UTC() }

func newUUID() string { return uuid.NewString() }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct runs the validator tags on v and converts failures into a
// *repository.ValidationError naming the offending fields.
func validateStruct(msg string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return repository.NewValidationError(msg, fields...)
}
