package services

import (
	"fmt"
	"strings"

	"github.com/yigit/collegerecords/internal/app/models"
	"github.com/yigit/collegerecords/internal/pkg/apperrors"
	"github.com/yigit/collegerecords/internal/pkg/validation"
)

// requireText trims value and checks it is present and at most maxLen runes long
func requireText(field, value string, maxLen int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperrors.NewValidationError(field, field+" is required")
	}
	if !validation.NewStringValidation(value).WithMaxLength(maxLen).Validate() {
		return "", apperrors.NewValidationError(field, fmt.Sprintf("%s must be at most %d characters", field, maxLen))
	}
	return value, nil
}

// requireEmail trims and lower-cases an email address and checks its shape
func requireEmail(field, value string) (string, error) {
	value, err := requireText(field, value, validation.EmailMaxLength)
	if err != nil {
		return "", err
	}
	value = strings.ToLower(value)
	if !validation.IsEmail(value) {
		return "", apperrors.NewValidationError(field, field+" must be a valid email address")
	}
	return value, nil
}

// requireDate parses a YYYY-MM-DD value
func requireDate(field, value string) (models.Date, error) {
	if strings.TrimSpace(value) == "" {
		return models.Date{}, apperrors.NewValidationError(field, field+" is required")
	}
	date, err := models.ParseDate(value)
	if err != nil {
		return models.Date{}, apperrors.NewValidationError(field, field+" must be a date formatted YYYY-MM-DD")
	}
	return date, nil
}

// requireID checks that a referenced id is positive
func requireID(field string, id int64) error {
	if id <= 0 {
		return apperrors.NewValidationError(field, field+" must be a positive id")
	}
	return nil
}

// parseGender accepts the single-letter codes in either case
func parseGender(value string) (models.Gender, error) {
	gender := models.Gender(strings.ToUpper(strings.TrimSpace(value)))
	if !gender.Valid() {
		return "", apperrors.ErrInvalidStudentGender
	}
	return gender, nil
}
