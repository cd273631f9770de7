package application

import (
	"github.com/go-playground/validator/v10"

	"github.com/LeeyaD/phonebook-server/pkg/validation"
)

// ContactInput carries the user-supplied contact fields. Values are checked
// as given; surrounding whitespace counts toward the length rules.
type ContactInput struct {
	Name   string `json:"name" validate:"required,min=3"`
	Number string `json:"number" validate:"required,min=6,phonebook_number"`
}

// ContactValidator checks contact fields without touching storage.
type ContactValidator struct {
	v *validator.Validate
}

func NewContactValidator() *ContactValidator {
	return &ContactValidator{v: validation.New()}
}

// Validate returns nil when in satisfies every contact rule, otherwise an
// ErrValidation carrying one message per offending field.
func (cv *ContactValidator) Validate(in ContactInput) error {
	if err := cv.v.Struct(in); err != nil {
		details := validation.ToDetails(err)
		return ErrValidation.
			WithDetails(details).
			WithMessage("contact validation failed: " + validation.Summary(details))
	}
	return nil
}
