package service

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	apperrors "talentbase-backend/internal/errors"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that reports fields by their JSON names
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("public_url", isPublicURL)
	return v
}

// isPublicURL accepts absolute http(s) URLs and host-relative paths such as
// the ones the in-memory blob driver hands out.
func isPublicURL(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.HasPrefix(s, "/") {
		return !strings.HasPrefix(s, "//") && !strings.ContainsAny(s, " \t\n")
	}
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// validationError turns validator output into an apperrors.ValidationError
// describing the first failing field.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.NewValidationError("", err.Error())
	}
	fe := fieldErrs[0]
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return apperrors.NewValidationError(field, "is required")
	case "max":
		return apperrors.NewValidationError(field, fmt.Sprintf("must be at most %s characters", fe.Param()))
	case "min":
		return apperrors.NewValidationError(field, fmt.Sprintf("must be at least %s", fe.Param()))
	case "gte":
		return apperrors.NewValidationError(field, "must not be negative")
	case "url", "public_url":
		return apperrors.NewValidationError(field, "must be a valid URL")
	case "email":
		return apperrors.NewValidationError(field, "must be a valid email address")
	default:
		return apperrors.NewValidationError(field, fmt.Sprintf("failed %s check", fe.Tag()))
	}
}
