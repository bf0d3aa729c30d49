package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/simpro/backend/internal/domain/shared"
	"github.com/simpro/backend/internal/interfaces/http/dto"
)

// DateTag validates YYYY-MM-DD business dates on request fields
const DateTag = "isodate"

var setupOnce sync.Once

// SetupValidator registers the isodate tag and makes field errors use the
// json (or form) name the client sent. Safe to call more than once.
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(wireName)
		_ = v.RegisterValidation(DateTag, func(fl validator.FieldLevel) bool {
			return shared.ValidateDate(fl.Field().String()) == nil
		})
	})
}

func wireName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		switch name {
		case "-":
			return ""
		case "":
			continue
		default:
			return name
		}
	}
	return ""
}

// FormatValidationErrors builds the 400 body for a failed bind. Anything
// other than field errors means the body itself was unreadable.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return dto.NewErrorResponseWithRequestID(dto.ErrCodeInvalidJSON, "Request body could not be parsed", requestID)
	}

	details := make([]dto.ValidationDetail, len(fieldErrs))
	for i, fe := range fieldErrs {
		details[i] = dto.ValidationDetail{Field: fe.Field(), Code: fe.Tag(), Message: fieldMessage(fe)}
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError answers 400 for a failed bind
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, GetRequestID(c)))
}

var fieldMessages = map[string]string{
	"required": "This field is required",
	"email":    "Invalid email format",
	"oneof":    "Must be one of: %s",
	"gt":       "Must be greater than %s",
	"gte":      "Must be greater than or equal to %s",
	DateTag:    "Must be a date in YYYY-MM-DD format",
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min", "max":
		bound := "at least"
		if fe.Tag() == "max" {
			bound = "at most"
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be %s %s characters", bound, fe.Param())
		}
		return fmt.Sprintf("Must be %s %s", bound, fe.Param())
	}
	msg, ok := fieldMessages[fe.Tag()]
	if !ok {
		return "Invalid value"
	}
	if strings.Contains(msg, "%s") {
		return fmt.Sprintf(msg, fe.Param())
	}
	return msg
}
