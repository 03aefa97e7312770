package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// Validate is the global validator instance
	Validate *validator.Validate

	// timeOfDayRegex matches zero-padded 24h clock times such as "09:30" or "23:59"
	timeOfDayRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// dayNames holds the canonical lowercase weekday names used by time-based
// pricing rules, Sunday first to match the stored convention.
var dayNames = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

func init() {
	Validate = validator.New()

	// Register custom validators
	_ = Validate.RegisterValidation("time_of_day", validateTimeOfDay)
	_ = Validate.RegisterValidation("day_name", validateDayName)
	_ = Validate.RegisterValidation("discount_type", validateDiscountType)
}

// ValidateStruct validates a struct and returns a readable error if validation fails
func ValidateStruct(s interface{}) error {
	err := Validate.Struct(s)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			messages := make([]string, 0, len(validationErrors))
			for _, fe := range validationErrors {
				messages = append(messages, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
		}
		return err
	}
	return nil
}

// validateTimeOfDay checks if the value is a 24h "HH:MM" clock time
func validateTimeOfDay(fl validator.FieldLevel) bool {
	return ValidateTimeOfDay(fl.Field().String())
}

// validateDayName checks if the value is a lowercase weekday name
func validateDayName(fl validator.FieldLevel) bool {
	return contains(dayNames, fl.Field().String())
}

// validateDiscountType checks if discount type is valid
func validateDiscountType(fl validator.FieldLevel) bool {
	return contains([]string{"percentage", "fixed"}, fl.Field().String())
}

// contains checks if a string slice contains a specific string
func contains(slice []string, item string) bool {
	item = strings.ToLower(strings.TrimSpace(item))
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// ValidateTimeOfDay validates a "HH:MM" 24h clock time
func ValidateTimeOfDay(s string) bool {
	return timeOfDayRegex.MatchString(strings.TrimSpace(s))
}

// ValidateDayNames validates a list of weekday names. An empty list is valid
// and means every day.
func ValidateDayNames(days []string) error {
	for _, d := range days {
		if !contains(dayNames, d) {
			return fmt.Errorf("invalid day name: %q", d)
		}
	}
	return nil
}

// NormalizeDayNames lowercases and trims a list of weekday names
func NormalizeDayNames(days []string) []string {
	if days == nil {
		return nil
	}
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, strings.ToLower(strings.TrimSpace(d)))
	}
	return out
}

// ValidateTimeWindow validates a rule's start and end times. Windows where
// start is later than end are allowed and wrap past midnight.
func ValidateTimeWindow(start, end string) error {
	if !ValidateTimeOfDay(start) {
		return fmt.Errorf("invalid start time: %q", start)
	}
	if !ValidateTimeOfDay(end) {
		return fmt.Errorf("invalid end time: %q", end)
	}
	return nil
}

// ValidateAmount validates a monetary amount
func ValidateAmount(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("amount cannot be negative: %f", amount)
	}
	return nil
}
