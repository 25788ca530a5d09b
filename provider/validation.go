package provider

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidateConfigFields validates configuration against provided field definitions.
// The first failing field is returned as a *ValidationError.
func ValidateConfigFields(gatewayType string, config map[string]string, requiredFields []ConfigField) error {
	for _, field := range requiredFields {
		value, exists := config[field.Key]
		if !field.Required && !exists {
			continue
		}

		if field.Required && (!exists || strings.TrimSpace(value) == "") {
			return missingField(gatewayType, field.Key)
		}

		if err := validateFieldType(gatewayType, field, value); err != nil {
			return err
		}

		if err := validateFieldPattern(gatewayType, field, value); err != nil {
			return err
		}

		if err := validateFieldLength(gatewayType, field, value); err != nil {
			return err
		}
	}

	return nil
}

// MissingConfigFields lists every required field absent from config
func MissingConfigFields(config map[string]string, fields []ConfigField) []string {
	var missing []string
	for _, field := range fields {
		if field.Required && strings.TrimSpace(config[field.Key]) == "" {
			missing = append(missing, field.Key)
		}
	}
	return missing
}

// validateFieldType validates field based on its type
func validateFieldType(gatewayType string, field ConfigField, value string) error {
	switch field.Type {
	case "number":
		if !isDigits(value) {
			return invalidField(gatewayType, field.Key, "must be numeric")
		}
		return nil
	case "url":
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return invalidField(gatewayType, field.Key, "must be an http(s) URL")
		}
		return nil
	case "boolean":
		if value != "true" && value != "false" {
			return invalidField(gatewayType, field.Key, "must be 'true' or 'false'")
		}
		return nil
	default:
		return nil
	}
}

// validateFieldPattern validates field against regex pattern
func validateFieldPattern(gatewayType string, field ConfigField, value string) error {
	if field.Pattern == "" {
		return nil
	}

	matched, err := regexp.MatchString(field.Pattern, value)
	if err != nil {
		return invalidField(gatewayType, field.Key, fmt.Sprintf("has an invalid pattern: %v", err))
	}

	if !matched {
		return invalidField(gatewayType, field.Key, "does not match required pattern")
	}

	return nil
}

// validateFieldLength validates field length constraints
func validateFieldLength(gatewayType string, field ConfigField, value string) error {
	if field.MinLength > 0 && len(value) < field.MinLength {
		return invalidField(gatewayType, field.Key, fmt.Sprintf("must be at least %d characters", field.MinLength))
	}

	if field.MaxLength > 0 && len(value) > field.MaxLength {
		return invalidField(gatewayType, field.Key, fmt.Sprintf("must not exceed %d characters", field.MaxLength))
	}

	return nil
}
