package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

const passwordSpecials = "@$!%*?&"

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func IsValidUsername(username string) bool {
	return len(username) >= 3 && len(username) <= 20 && usernameRegex.MatchString(username)
}

// IsValidPassword requires at least 8 characters drawn from letters, digits and @$!%*?&,
// with at least one lowercase, one uppercase, one digit and one special character.
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}

	var (
		hasUpper   = false
		hasLower   = false
		hasNumber  = false
		hasSpecial = false
	)

	for _, char := range password {
		switch {
		case char > unicode.MaxASCII:
			return false
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasNumber = true
		case strings.ContainsRune(passwordSpecials, char):
			hasSpecial = true
		default:
			return false
		}
	}

	return hasUpper && hasLower && hasNumber && hasSpecial
}

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags used by request DTOs:
// "username", "strongpassword" and "emailaddr".
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return IsValidUsername(fl.Field().String())
		})
		_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
			return IsValidPassword(fl.Field().String())
		})
		_ = v.RegisterValidation("emailaddr", func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		})
	})
}

// BindJSON decodes and validates the request body into req. On failure it writes the error
// response and returns false: malformed JSON is a 400, rule violations a 422 field list.
func BindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		SendValidationErrors(c, ValidationErrorsFrom(verrs))
		return false
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		SendValidationError(c, "request body is empty")
	case errors.As(err, &syntaxErr):
		SendValidationError(c, "request body is not valid JSON")
	case errors.As(err, &typeErr):
		SendValidationErrors(c, []ValidationError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("must be a %s", typeErr.Type.String()),
		}})
	default:
		SendValidationError(c, err.Error())
	}
	return false
}

// ValidationErrorsFrom flattens validator errors into the public field list.
func ValidationErrorsFrom(verrs validator.ValidationErrors) []ValidationError {
	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: validationMessage(fe),
		})
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email", "emailaddr":
		return "must be a valid email address"
	case "username":
		return "must be 3-20 characters of letters, digits, underscore or hyphen"
	case "strongpassword":
		return "must be at least 8 characters with upper and lower case letters, a digit and one of @$!%*?&"
	default:
		return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
	}
}
