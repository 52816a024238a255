package validators

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Slug: lowercase alphanumeric words joined by single hyphens
var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Mobile: digits only after normalization
var mobileRegex = regexp.MustCompile(`^[0-9]{10,15}$`)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

const (
	MaxSlugLength  = 255
	MaxTitleLength = 255
	MaxNameLength  = 150
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidSlug checks if the string is a URL-safe slug
func IsValidSlug(slug string) bool {
	if slug == "" || len(slug) > MaxSlugLength {
		return false
	}
	return slugRegex.MatchString(slug)
}

// ValidateSlug validates a slug and returns an error if invalid
func ValidateSlug(slug string, fieldName string) error {
	if slug == "" {
		return NewValidationError(fieldName, "slug is required")
	}
	if !IsValidSlug(slug) {
		return NewValidationError(fieldName, "invalid slug (expected lowercase letters, digits and single hyphens)")
	}
	return nil
}

// Slugify derives a slug from free text. Accents are folded, every run of
// other characters becomes one hyphen.
func Slugify(text string) string {
	decomposed := norm.NFD.String(strings.ToLower(text))

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}

	slug := strings.Trim(nonSlugChars.ReplaceAllString(b.String(), "-"), "-")
	if len(slug) > MaxSlugLength {
		slug = strings.TrimRight(slug[:MaxSlugLength], "-")
	}
	return slug
}

// NormalizeMobile strips spaces, hyphens, parentheses and a leading plus sign,
// then requires 10 to 15 digits
// Handles formats: +1 (999) 999-9999, 999-999-9999, 9999999999
func NormalizeMobile(mobile string) (string, error) {
	if strings.TrimSpace(mobile) == "" {
		return "", NewValidationError("mobile", "mobile number is required")
	}

	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "+", "")
	stripped := replacer.Replace(mobile)

	if !mobileRegex.MatchString(stripped) {
		return "", NewValidationError("mobile", "invalid mobile number (expected 10 to 15 digits)")
	}

	return stripped, nil
}

// IsValidMobile reports whether mobile normalizes successfully
func IsValidMobile(mobile string) bool {
	_, err := NormalizeMobile(mobile)
	return err == nil
}

// ValidateOTPCode checks that code is exactly length digits
func ValidateOTPCode(code string, length int) error {
	if code == "" {
		return NewValidationError("otp", "code is required")
	}
	if len(code) != length {
		return NewValidationError("otp", fmt.Sprintf("code must be %d digits", length))
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return NewValidationError("otp", "code must contain digits only")
		}
	}
	return nil
}

// ValidateAdminStatus validates an admin account status value
func ValidateAdminStatus(status string, fieldName string) error {
	switch status {
	case "":
		return NewValidationError(fieldName, "status is required")
	case "pending", "approved", "rejected":
		return nil
	default:
		return NewValidationError(fieldName, "invalid status (allowed: pending, approved, rejected)")
	}
}

// ValidateStringLength validates string length constraints in characters
func ValidateStringLength(value string, fieldName string, minLength, maxLength int) error {
	length := utf8.RuneCountInString(value)
	if minLength > 0 && length < minLength {
		return NewValidationError(fieldName, fmt.Sprintf("must be at least %d characters (got: %d)", minLength, length))
	}
	if maxLength > 0 && length > maxLength {
		return NewValidationError(fieldName, fmt.Sprintf("must be at most %d characters (got: %d)", maxLength, length))
	}
	return nil
}

// ValidateRequired rejects empty or whitespace-only values
func ValidateRequired(value string, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return NewValidationError(fieldName, fieldName+" is required")
	}
	return nil
}

// FormatValidationErrors collects multiple validation errors into one message
func FormatValidationErrors(errors []error) string {
	if len(errors) == 0 {
		return ""
	}

	if len(errors) == 1 {
		return errors[0].Error()
	}

	parts := make([]string, len(errors))
	for i, err := range errors {
		parts[i] = err.Error()
	}
	return "validation errors: " + strings.Join(parts, "; ")
}
