package validation

import (
	"fmt"
	"mime"
	"regexp"
	"strings"
)

var (
	// EmailRegex validates email format.
	EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// EntityIDRegex validates content entity identifiers.
	EntityIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ValidateEmail validates an email address.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > 254 {
		return fmt.Errorf("email is too long (max 254 characters)")
	}
	if !EmailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateEntityID validates a content entity identifier.
func ValidateEntityID(id string) error {
	if id == "" {
		return fmt.Errorf("entity ID is required")
	}
	if len(id) > 100 {
		return fmt.Errorf("entity ID is too long (max 100 characters)")
	}
	if !EntityIDRegex.MatchString(id) {
		return fmt.Errorf("invalid entity ID format")
	}
	return nil
}

// ValidateContentType checks a declared MIME type against an allow-list.
// Parameters (for example codecs) are stripped before matching.
func ValidateContentType(contentType string, allowed []string) error {
	if contentType == "" {
		return fmt.Errorf("content type is required")
	}
	parsed, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf("invalid content type %q", contentType)
	}
	for _, a := range allowed {
		if strings.EqualFold(parsed, a) {
			return nil
		}
	}
	return fmt.Errorf("content type %q is not allowed", parsed)
}
