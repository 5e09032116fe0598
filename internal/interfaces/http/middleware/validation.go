package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/bakery/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupValidator makes validation errors report the json field name, or
// the form name for query structs
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
			switch name {
			case "-":
				return ""
			case "":
				continue
			}
			return name
		}
		return ""
	})
}

// ValidationDetails flattens validator errors into field/message pairs.
// It returns nil when err is not a validation error.
func ValidationDetails(err error) []dto.ValidationDetail {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	details := make([]dto.ValidationDetail, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, dto.ValidationDetail{
			Field:   fieldPath(e),
			Message: validationMessage(e),
		})
	}
	return details
}

// fieldPath drops the top-level struct name: "items[0].quantity"
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

// fixedMessages ignore the tag parameter; boundMessages end with it
var (
	fixedMessages = map[string]string{
		"required": "This field is required",
		"email":    "Invalid email format",
		"uuid":     "Invalid UUID format",
	}
	boundMessages = map[string]string{
		"oneof": "Must be one of: ",
		"gt":    "Must be greater than ",
		"gte":   "Must be greater than or equal to ",
		"lt":    "Must be less than ",
		"lte":   "Must be less than or equal to ",
	}
)

func validationMessage(e validator.FieldError) string {
	tag, param := e.Tag(), e.Param()
	if msg, ok := fixedMessages[tag]; ok {
		return msg
	}
	if prefix, ok := boundMessages[tag]; ok {
		return prefix + param
	}
	switch tag {
	case "min", "max", "len":
		return lengthMessage(tag, param, e.Kind())
	}
	return "Invalid value"
}

// lengthMessage words a size bound by what is being measured
func lengthMessage(tag, param string, kind reflect.Kind) string {
	bound := map[string]string{"min": "at least ", "max": "at most ", "len": "exactly "}[tag]
	switch kind {
	case reflect.String:
		return "Must be " + bound + param + " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return "Must contain " + bound + param + " item(s)"
	}
	if tag == "len" {
		return "Must be exactly " + param
	}
	return "Must be " + bound + param
}
