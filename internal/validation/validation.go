// Package validation provides utility functions for validating various data inputs.
package validation

import (
	"fmt"
	"net"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxVariantContentBytes caps the size of a single content variant. The
// edge store rejects values over 25 MiB; staying an order of magnitude
// below keeps sync batches fast.
const MaxVariantContentBytes = 2 << 20

// Error represents a validation error.
type Error struct {
	Field   string
	Message string
}

// Error returns a formatted string representation of the validation error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewError creates a new validation error.
func NewError(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

// UUID validates a UUID string.
func UUID(uuidStr string) error {
	if uuidStr == "" {
		return NewError("uuid", "UUID is required")
	}

	_, err := uuid.Parse(uuidStr)
	if err != nil {
		return NewError("uuid", "invalid UUID format")
	}

	return nil
}

// CustomerID validates a customer identifier (UUID format).
func CustomerID(id string) error {
	if id == "" {
		return NewError("customer_id", "customer ID is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return NewError("customer_id", "invalid customer ID format")
	}
	return nil
}

// SiteID validates a site identifier slug
// Requirements:
// - 1-63 characters
// - Only lowercase letters, digits, and hyphens
// - Must start with a letter or digit
// - Cannot end with a hyphen.
// The slug is embedded in worker and key-value store names, so it must
// stay within platform resource-name rules.
func SiteID(siteID string) error {
	if siteID == "" {
		return NewError("site_id", "site ID is required")
	}

	if len(siteID) > 63 {
		return NewError("site_id", "site ID must be at most 63 characters")
	}

	pattern := `^[a-z0-9][a-z0-9-]*$`
	matched, _ := regexp.MatchString(pattern, siteID)
	if !matched || strings.HasSuffix(siteID, "-") {
		return NewError("site_id", "invalid site ID format (must contain only lowercase letters, digits, and hyphens, start with a letter or digit, and not end with hyphen)")
	}

	return nil
}

// DomainName validates a fully qualified domain name.
func DomainName(domain string) error {
	if domain == "" {
		return NewError("domain_name", "domain name is required")
	}

	if len(domain) > 253 {
		return NewError("domain_name", "domain name too long (max 253 characters)")
	}

	// Reject URLs and wildcard patterns, only bare hostnames route.
	if strings.ContainsAny(domain, "/:*?#@ ") {
		return NewError("domain_name", "domain name must be a bare hostname")
	}

	// Domain must have at least one dot
	if !strings.Contains(domain, ".") {
		return NewError("domain_name", "invalid domain")
	}

	labelPattern := regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)
	for _, label := range strings.Split(domain, ".") {
		if !labelPattern.MatchString(label) {
			return NewError("domain_name", "invalid domain label")
		}
	}

	return nil
}

// URLPath validates a variant URL path.
func URLPath(path string) error {
	if path == "" {
		return NewError("url_path", "URL path is required")
	}

	if !strings.HasPrefix(path, "/") {
		return NewError("url_path", "URL path must start with /")
	}

	if len(path) > 512 {
		return NewError("url_path", "URL path too long (max 512 characters)")
	}

	if strings.Contains(path, "..") {
		return NewError("url_path", "URL path cannot contain ..")
	}

	if strings.ContainsAny(path, " \t\n") {
		return NewError("url_path", "URL path cannot contain whitespace")
	}

	return nil
}

// VariantContent validates content destined for the edge store.
func VariantContent(content string) error {
	if content == "" {
		return NewError("content", "content is required")
	}

	if len(content) > MaxVariantContentBytes {
		return NewError("content", fmt.Sprintf("content too large (max %d bytes)", MaxVariantContentBytes))
	}

	if !utf8.ValidString(content) {
		return NewError("content", "content must be valid UTF-8")
	}

	return nil
}

// PlatformToken validates the shape of a platform API token before it is
// verified remotely.
func PlatformToken(token string) error {
	if token == "" {
		return NewError("api_token", "API token is required")
	}

	if len(token) < 20 || len(token) > 256 {
		return NewError("api_token", "invalid API token length")
	}

	if strings.TrimSpace(token) != token {
		return NewError("api_token", "API token cannot have leading or trailing whitespace")
	}

	return nil
}

// StringLength validates string length constraints.
func StringLength(fieldName, value string, minLength, maxLength int) error {
	length := utf8.RuneCountInString(value)

	if minLength > 0 && length < minLength {
		return NewError(fieldName, fmt.Sprintf("must be at least %d characters", minLength))
	}

	if maxLength > 0 && length > maxLength {
		return NewError(fieldName, fmt.Sprintf("must be at most %d characters", maxLength))
	}

	return nil
}

// RequiredString validates that a string is not empty.
func RequiredString(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return NewError(fieldName, "is required")
	}
	return nil
}

// IPAddress validates an IP address (IPv4 or IPv6).
func IPAddress(ip string) error {
	if ip == "" {
		return NewError("ip", "IP address is required")
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return NewError("ip", "invalid IP address format")
	}

	return nil
}

// Port validates a network port number.
func Port(port int32) error {
	if port < 1 || port > 65535 {
		return NewError("port", "port must be between 1 and 65535")
	}
	return nil
}
