package helpers

import (
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const (
	ContextKeyUser   contextKey = "userObject"
	ContextKeyClaims contextKey = "tokenClaims"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate runs struct tag validation and returns field errors keyed by JSON name,
// or nil when the value is valid.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok {
		return FormatValidationErrors(errs)
	}
	log.Printf("Validate: unexpected validation error: %v", err)
	return map[string]string{"non_field_errors": err.Error()}
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := toSnakeCase(err.Field())
		switch err.Tag() {
		case "required":
			errorMessages[field] = "This field is required."
		case "email":
			errorMessages[field] = "Enter a valid email address."
		case "numeric":
			errorMessages[field] = "A valid number is required."
		case "min", "gte":
			errorMessages[field] = fmt.Sprintf("Ensure this value is at least %s.", err.Param())
		case "max", "lte":
			errorMessages[field] = fmt.Sprintf("Ensure this value is at most %s.", err.Param())
		case "oneof":
			errorMessages[field] = fmt.Sprintf("Must be one of: %s.", strings.ReplaceAll(err.Param(), " ", ", "))
		case "gt":
			errorMessages[field] = fmt.Sprintf("Ensure this value is greater than %s.", err.Param())
		default:
			errorMessages[field] = fmt.Sprintf("Failed %s validation.", err.Tag())
		}
	}
	return errorMessages
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func PasswordCompare(hashPass string, password []byte) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashPass), password)
	if err != nil {
		return false
	}
	return true
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}
