package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

func FormatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, fieldError := range validationErrors {
			messages = append(messages, getFieldErrorMessage(fieldError))
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}

func getFieldErrorMessage(fe validator.FieldError) string {
	field := getFieldName(fe.Field())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Username":     "username",
		"Email":        "email",
		"Role":         "role",
		"LinkedIn":     "linkedIn",
		"Title":        "title",
		"Description":  "description",
		"Category":     "category",
		"CreatedBy":    "createdBy",
		"Type":         "type",
		"Content":      "content",
		"SenderID":     "senderId",
		"SenderUserID": "senderUserId",
		"Decision":     "decision",
		"UserID":       "userId",
		"Limit":        "limit",
	}

	if name, ok := fieldNames[field]; ok {
		return name
	}
	return field
}
