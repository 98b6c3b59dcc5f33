package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldViolation describes one rejected input field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned for malformed, missing or oversized input.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		messages = append(messages, v.Message)
	}
	return strings.Join(messages, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ValidateItemDetails trims every field and checks it against the listing limits.
func ValidateItemDetails(d ItemDetails) (ItemDetails, error) {
	d = ItemDetails{
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		ContactInfo: strings.TrimSpace(d.ContactInfo),
	}
	if err := validate.Struct(d); err != nil {
		return d, translate(err)
	}
	return d, nil
}

// ValidateNewItem validates the details and the uploaded image URL.
func ValidateNewItem(n NewItem) (NewItem, error) {
	details, err := ValidateItemDetails(n.ItemDetails)
	n.ItemDetails = details
	n.ImageURL = strings.TrimSpace(n.ImageURL)
	if err != nil {
		return n, err
	}
	if err := validate.Struct(n); err != nil {
		return n, translate(err)
	}
	return n, nil
}

// ValidateCommentText returns the trimmed text or a ValidationError.
func ValidateCommentText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if err := validate.Var(text, fmt.Sprintf("required,max=%d", MaxCommentLength)); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return text, &ValidationError{Violations: []FieldViolation{{
				Field:   "text",
				Message: message("comment text", ve[0]),
			}}}
		}
		return text, err
	}
	return text, nil
}

// ParseID checks that id is a structurally valid store identifier and
// returns its canonical form.
func ParseID(id string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	return parsed.String(), nil
}

func translate(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range ve {
		out.Violations = append(out.Violations, FieldViolation{
			Field:   fe.Field(),
			Message: message(fe.Field(), fe),
		})
	}
	return out
}

func message(name string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "max":
		return fmt.Sprintf("%s cannot be more than %s characters", name, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", name)
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}
