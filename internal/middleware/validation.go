package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/eldenheights/ehsas/internal/pkg/apperrors"
)

var (
	validatorsOnce sync.Once
	translator     ut.Translator
)

// RegisterValidators makes gin's validator report JSON field names with
// English messages. Safe to call more than once.
func RegisterValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		english := en.New()
		trans, _ := ut.New(english, english).GetTranslator("en")
		if err := en_translations.RegisterDefaultTranslations(v, trans); err == nil {
			translator = trans
		}
	})
}

// BindJSON decodes and validates the request body into obj. On failure it
// writes a 400 response and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		HandleAPIError(c, bindingError(err))
		return false
	}
	return true
}

func bindingError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		messages := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			messages = append(messages, formatValidationError(fe))
		}
		return apperrors.NewValidationError(strings.Join(messages, "; "))
	}

	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return apperrors.NewValidationError("Request body is required")
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return apperrors.NewValidationError(fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type))
	default:
		return apperrors.NewValidationError("Invalid request body")
	}
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	if translator != nil {
		return e.Translate(translator)
	}
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
