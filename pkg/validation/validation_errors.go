package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-friendly labels
var FieldLabels = map[string]string{
	// Auth
	"Email":    "Email",
	"Password": "Password",
	"FullName": "Full name",
	"Phone":    "Phone number",
	"UserType": "Account type",

	// Jobs and events
	"EventID":            "Event",
	"Title":              "Title",
	"Location":           "Location",
	"StartDate":          "Start date",
	"EndDate":            "End date",
	"PositionsAvailable": "Positions available",
	"HourlyRate":         "Hourly rate",
	"ShiftStart":         "Shift start",
	"ShiftEnd":           "Shift end",

	// Ratings
	"JobID":   "Job",
	"RaterID": "Rater",
	"RatedID": "Rated user",
	"Rating":  "Rating",
	"Comment": "Comment",

	// Messages
	"RecipientID": "Recipient",
	"Content":     "Message",
	"Subject":     "Subject",

	// Payments
	"PromoterID":  "Promoter",
	"Amount":      "Amount",
	"BankDetails": "Bank details",

	// Company
	"Name":    "Company name",
	"Website": "Website",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, param)
	case "gte":
		return fmt.Sprintf("%s must be %s or more", label, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "email":
		return fmt.Sprintf("%s is not a valid email address", label)
	case "url":
		return fmt.Sprintf("%s is not a valid URL", label)
	case "uuid", "uuid4":
		return fmt.Sprintf("%s is not a valid identifier", label)
	case "valid_name":
		return fmt.Sprintf("%s may only contain letters, spaces and . ' - /", label)
	case "valid_phone":
		return fmt.Sprintf("%s must be 7-15 digits, optionally starting with +", label)
	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji", label)
	case "gtfield", "gtefield":
		return fmt.Sprintf("%s must be after %s", label, getFieldLabel(param))
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
