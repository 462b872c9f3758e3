package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks that every setting holds a supported value.
func (c *Config) Validate() error {
	var errs ValidationErrors
	oneOf := func(field, value string, allowed ...string) {
		if !slices.Contains(allowed, value) {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("must be one of %s, got %q", strings.Join(allowed, ", "), value),
			})
		}
	}

	oneOf("format", c.Format, FormatCSV, FormatJSON, FormatTable)
	oneOf("lang", c.Lang, "ja", "en")
	oneOf("log.level", c.Logging.Level, "debug", "info", "warn", "error")
	oneOf("log.format", c.Logging.Format, "text", "json")

	if c.Format == FormatCSV && c.Output == "" {
		errs = append(errs, ValidationError{Field: "output", Message: "required for csv format"})
	}
	if c.KeyPath == "" {
		errs = append(errs, ValidationError{Field: "key_path", Message: "must not be empty"})
	}
	if c.MaxDepth <= 0 {
		errs = append(errs, ValidationError{Field: "max_depth", Message: fmt.Sprintf("must be positive, got %d", c.MaxDepth)})
	}
	if c.UTCOffsetHours < -12 || c.UTCOffsetHours > 14 {
		errs = append(errs, ValidationError{
			Field:   "utc_offset_hours",
			Message: fmt.Sprintf("must be between -12 and 14, got %d", c.UTCOffsetHours),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
