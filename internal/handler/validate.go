package handler

import (
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// FieldError is one entry of the validation detail list
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// validationDetails converts validator errors into field-level details
func validationDetails(err error) []FieldError {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	details := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		details = append(details, FieldError{Field: e.Field(), Message: fieldMessage(e)})
	}
	return details
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		if e.Kind() == reflect.Slice {
			return "must have at least " + e.Param() + " element(s)"
		}
		return "must be at least " + e.Param() + " characters"
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be at least " + e.Param()
	case "lte":
		return "must be at most " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "email":
		return "must be a valid email address"
	case "datetime":
		return "must match format " + e.Param()
	default:
		return "is invalid"
	}
}

// bindAndValidate decodes the request body and validates it. When ok is
// false the rejection response has already been written and the handler
// must return err.
func bindAndValidate(c echo.Context, req interface{}) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "Invalid request data"})
	}
	if err := validate.Struct(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Validation failed",
			"details": validationDetails(err),
		})
	}
	return true, nil
}

// parseTimePtr converts an optional RFC3339 string into a time pointer.
// The value is validated before this is called.
func parseTimePtr(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	return &t
}
