// File: backend/internal/urlutil/urlutil_test.go
package urlutil

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"bare domain gets https", "example.com", "https://example.com", false},
		{"host lowercased", "HTTP://Example.COM/Path", "http://example.com/Path", false},
		{"default https port stripped", "https://example.com:443/a", "https://example.com/a", false},
		{"default http port stripped", "http://example.com:80", "http://example.com", false},
		{"custom port kept", "https://example.com:8443", "https://example.com:8443", false},
		{"fragment dropped", "https://example.com/page#section", "https://example.com/page", false},
		{"trailing slash stripped", "https://example.com/", "https://example.com", false},
		{"nested trailing slash stripped", "https://example.com/a/", "https://example.com/a", false},
		{"query kept", "https://example.com/search?q=x", "https://example.com/search?q=x", false},
		{"empty input", "  ", "", true},
		{"ftp rejected", "ftp://example.com", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if !tt.wantErr {
				again, err := Normalize(got)
				if err != nil || again != got {
					t.Errorf("Normalize not idempotent: %q -> %q (err %v)", got, again, err)
				}
			}
		})
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"https://www.acmecoworking.com/locations", "acmecoworking.com", false},
		{"acmecoworking.co.uk", "acmecoworking.co.uk", false},
		{"HTTP://WWW.Example.COM", "example.com", false},
		{"not a url at all %%%", "", true},
	}
	for _, tt := range tests {
		got, err := ExtractDomain(tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ExtractDomain(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ExtractDomain(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRegistrableDomain(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"example.com", "example.com"},
		{"www.example.com", "example.com"},
		{"a.b.example.co.uk", "example.co.uk"},
		{"example.com:8080", "example.com"},
		{"localhost", "localhost"},
	}
	for _, tt := range tests {
		if got := RegistrableDomain(tt.host); got != tt.want {
			t.Errorf("RegistrableDomain(%q) = %q, want %q", tt.host, got, tt.want)
		}
	}
}

func TestIsValidDomain(t *testing.T) {
	valid := []string{"acme.com", "acme-coworking.co.uk", "a1.io"}
	invalid := []string{"", "acme", "-acme.com", "acme-.com", "https://acme.com", "acme..com"}
	for _, d := range valid {
		if !IsValidDomain(d) {
			t.Errorf("IsValidDomain(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if IsValidDomain(d) {
			t.Errorf("IsValidDomain(%q) = true, want false", d)
		}
	}
}
