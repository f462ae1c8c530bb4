// File: backend/internal/urlutil/urlutil.go
package urlutil

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

var domainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?(\.[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?)+$`)

// Normalize parses rawURL, defaulting the scheme to https when absent,
// lowercasing the host, stripping default ports and dropping any fragment.
func Normalize(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", fmt.Errorf("url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("failed to parse url '%s': %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme '%s' in url '%s'", u.Scheme, rawURL)
	}
	if u.Host == "" {
		return "", fmt.Errorf("url '%s' has no host", rawURL)
	}
	u.Host = strings.ToLower(u.Host)
	if (u.Scheme == "http" && strings.HasSuffix(u.Host, ":80")) ||
		(u.Scheme == "https" && strings.HasSuffix(u.Host, ":443")) {
		u.Host = u.Host[:strings.LastIndex(u.Host, ":")]
	}
	u.Fragment = ""
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String(), nil
}

// ExtractDomain returns the bare hostname of rawURL, lowercased and with any
// leading "www." removed.
func ExtractDomain(rawURL string) (string, error) {
	normalized, err := Normalize(rawURL)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return "", err
	}
	host := u.Hostname()
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return "", fmt.Errorf("url '%s' yields an empty domain", rawURL)
	}
	return host, nil
}

// RegistrableDomain returns the eTLD+1 for host (e.g. "a.b.example.co.uk"
// becomes "example.co.uk"). Falls back to the cleaned host when the public
// suffix list cannot resolve it.
func RegistrableDomain(host string) string {
	h := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(host, "www."), "."))
	if i := strings.Index(h, ":"); i >= 0 {
		h = h[:i]
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(h)
	if err != nil {
		return h
	}
	return etld1
}

// IsValidDomain reports whether s looks like a plausible registered domain
// name: lowercase labels, at least one dot, no scheme or path.
func IsValidDomain(s string) bool {
	return domainPattern.MatchString(strings.ToLower(s))
}

// HostURL returns "scheme://host" for a parsed URL, used as a cache key for
// per-site state.
func HostURL(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}
