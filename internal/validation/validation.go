// Package validation checks submitted contact forms.
//
// Two independent layers apply to the name fields: the go-playground
// "required" rule rejects empty input, while IsNameSafe only whitelists
// characters and accepts the empty string. Neither substitutes for the
// other.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/contacts/internal/types"
)

var safeName = regexp.MustCompile(`^[A-Za-z ]*$`)

// IsNameSafe reports whether every character of s is an ASCII letter or a
// space. The empty string is safe.
func IsNameSafe(s string) bool {
	return safeName.MatchString(s)
}

// FieldErrors maps a form field name (fname, lname, email) to a message.
type FieldErrors map[string]string

// Validator wraps a configured *validator.Validate. It is safe for
// concurrent use; construct one at startup.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator with the safename rule registered and field
// errors reported under their form names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("schema"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// RegisterValidation only fails on an empty tag or a builtin clash.
	if err := v.RegisterValidation("safename", func(fl validator.FieldLevel) bool {
		return IsNameSafe(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("validation: register safename: %v", err))
	}

	return &Validator{validate: v}
}

// Form trims leading and trailing whitespace from every field and then
// validates the trimmed values. It returns the trimmed form and the field
// errors; an empty FieldErrors means the form is valid.
func (v *Validator) Form(form types.PersonForm) (types.PersonForm, FieldErrors) {
	trimmed := types.PersonForm{
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		Email:     strings.TrimSpace(form.Email),
	}

	errs := FieldErrors{}
	err := v.validate.Struct(trimmed)
	if err == nil {
		return trimmed, errs
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// InvalidValidationError only happens for non-struct input.
		panic(fmt.Sprintf("validation: %v", err))
	}

	for _, e := range validationErrs {
		// Report the first failing rule per field, in tag order.
		if _, seen := errs[e.Field()]; seen {
			continue
		}
		errs[e.Field()] = message(e)
	}
	return trimmed, errs
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", e.Param())
	case "safename":
		return "Only letters and spaces are allowed."
	case "email":
		return "Enter a valid email address."
	default:
		return "This value is invalid."
	}
}
