package validation

import (
	"strings"
	"testing"
)

func TestCustomerID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid UUID", "550e8400-e29b-41d4-a716-446655440000", false},
		{"empty", "", true},
		{"not a UUID", "customer-1", true},
		{"truncated UUID", "550e8400-e29b-41d4", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CustomerID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("CustomerID() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSiteID(t *testing.T) {
	tests := []struct {
		name    string
		siteID  string
		wantErr bool
	}{
		{"valid slug", "docs", false},
		{"with hyphens", "my-docs-site", false},
		{"starts with digit", "1docs", false},
		{"empty", "", true},
		{"uppercase", "Docs", true},
		{"ends with hyphen", "docs-", true},
		{"starts with hyphen", "-docs", true},
		{"underscore", "my_docs", true},
		{"too long", strings.Repeat("a", 64), true},
		{"spaces", "my docs", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SiteID(tt.siteID)
			if (err != nil) != tt.wantErr {
				t.Errorf("SiteID() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDomainName(t *testing.T) {
	tests := []struct {
		name    string
		domain  string
		wantErr bool
	}{
		{"valid domain", "example.com", false},
		{"subdomain", "docs.example.com", false},
		{"deep subdomain", "a.b.c.example.com", false},
		{"digits and hyphens", "my-site2.example.com", false},
		{"empty", "", true},
		{"no TLD", "localhost", true},
		{"with scheme", "https://example.com", true},
		{"with path", "example.com/page", true},
		{"with wildcard", "*.example.com", true},
		{"with port", "example.com:8080", true},
		{"label starts with hyphen", "-bad.example.com", true},
		{"label ends with hyphen", "bad-.example.com", true},
		{"too long", strings.Repeat("a", 250) + ".com", true},
		{"spaces", "exa mple.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DomainName(tt.domain)
			if (err != nil) != tt.wantErr {
				t.Errorf("DomainName() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestURLPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"root", "/", false},
		{"nested", "/docs/getting-started", false},
		{"with extension", "/pricing.html", false},
		{"empty", "", true},
		{"no leading slash", "pricing", true},
		{"parent traversal", "/../etc/passwd", true},
		{"whitespace", "/my page", true},
		{"too long", "/" + strings.Repeat("a", 512), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := URLPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("URLPath() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestVariantContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"valid html", "<html>hello</html>", false},
		{"large but allowed", strings.Repeat("a", MaxVariantContentBytes), false},
		{"empty", "", true},
		{"too large", strings.Repeat("a", MaxVariantContentBytes+1), true},
		{"invalid utf8", string([]byte{0xff, 0xfe, 0xfd}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VariantContent(tt.content)
			if (err != nil) != tt.wantErr {
				t.Errorf("VariantContent() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPlatformToken(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"valid token", "v1.0-abcdef0123456789abcdef0123456789", false},
		{"empty", "", true},
		{"too short", "abc", true},
		{"too long", strings.Repeat("a", 300), true},
		{"leading whitespace", " abcdef0123456789abcdef", true},
		{"trailing newline", "abcdef0123456789abcdef\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PlatformToken(tt.token)
			if (err != nil) != tt.wantErr {
				t.Errorf("PlatformToken() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUUID(t *testing.T) {
	tests := []struct {
		name    string
		uuid    string
		wantErr bool
	}{
		{"valid UUID", "550e8400-e29b-41d4-a716-446655440000", false},
		{"empty", "", true},
		{"invalid", "not-a-uuid", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := UUID(tt.uuid)
			if (err != nil) != tt.wantErr {
				t.Errorf("UUID() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStringLength(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		minLength int
		maxLength int
		wantErr   bool
	}{
		{"within bounds", "hello", 1, 10, false},
		{"too short", "a", 2, 10, true},
		{"too long", "hello world", 1, 5, true},
		{"multibyte counted as runes", "héllo", 1, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := StringLength("field", tt.value, tt.minLength, tt.maxLength)
			if (err != nil) != tt.wantErr {
				t.Errorf("StringLength() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
