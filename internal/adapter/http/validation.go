package http

import (
	"regexp"

	"loanflow-backend/internal/domain/application"
	"loanflow-backend/internal/domain/user"

	"github.com/go-playground/validator/v10"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
	Missing []string     `json:"missing,omitempty"`
}

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// public ids = 32-char lowercase hex
	_ = v.RegisterValidation("hex32", func(fl validator.FieldLevel) bool {
		return reHex32.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("doctype", func(fl validator.FieldLevel) bool {
		return user.ValidDocType(user.DocType(fl.Field().String()))
	})
	_ = v.RegisterValidation("docdecision", func(fl validator.FieldLevel) bool {
		s := user.DocStatus(fl.Field().String())
		return s == user.DocVerified || s == user.DocRejected
	})
	_ = v.RegisterValidation("loanintent", func(fl validator.FieldLevel) bool {
		return application.ValidIntent(application.LoanIntent(fl.Field().String()))
	})
	_ = v.RegisterValidation("ownership", func(fl validator.FieldLevel) bool {
		return application.ValidOwnership(application.HomeOwnership(fl.Field().String()))
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "hex32":
			out = append(out, FieldError{Field: field, Message: "must be 32-char lowercase hex"})
		case "doctype":
			out = append(out, FieldError{Field: field, Message: "is not a recognized document type"})
		case "docdecision":
			out = append(out, FieldError{Field: field, Message: "must be verified or rejected"})
		case "loanintent":
			out = append(out, FieldError{Field: field, Message: "is not a recognized loan purpose"})
		case "ownership":
			out = append(out, FieldError{Field: field, Message: "is not a recognized home ownership"})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		case "oneof":
			out = append(out, FieldError{Field: field, Message: "must be one of " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
