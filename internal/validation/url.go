package validation

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strings"
)

var (
	ErrEmptyURL      = errors.New("URL cannot be empty")
	ErrHostForbidden = errors.New("host is not permitted")
)

// SourceURLValidator checks article and slideshow URLs before anything is fetched.
type SourceURLValidator struct {
	// AllowLocalhost determines if localhost URLs are permitted
	AllowLocalhost bool
	// AllowPrivateIPs determines if private IP addresses are permitted
	AllowPrivateIPs bool
	// AllowedHosts restricts hostnames when non-empty. Subdomains match.
	AllowedHosts []string
	MaxLength    int
}

// NewSourceURLValidator creates a new validator with secure defaults
func NewSourceURLValidator(allowedHosts ...string) *SourceURLValidator {
	return &SourceURLValidator{
		AllowedHosts: allowedHosts,
		MaxLength:    2048,
	}
}

// NewPermissiveSourceURLValidator allows loopback and private targets, used
// for local development and tests against httptest servers.
func NewPermissiveSourceURLValidator(allowedHosts ...string) *SourceURLValidator {
	return &SourceURLValidator{
		AllowLocalhost:  true,
		AllowPrivateIPs: true,
		AllowedHosts:    allowedHosts,
		MaxLength:       2048,
	}
}

// ValidateAndNormalize validates a source URL and returns the normalized version.
// A missing scheme is filled in as https.
func (v *SourceURLValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", ErrEmptyURL
	}
	if v.MaxLength > 0 && len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'` ") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	if !strings.Contains(input, "://") {
		input = "https://" + input
	}

	u, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		u.Scheme = strings.ToLower(u.Scheme)
	default:
		return "", fmt.Errorf("URL must use http or https protocol")
	}

	if u.Hostname() == "" {
		return "", fmt.Errorf("URL must have a valid hostname")
	}
	u.Host = strings.ToLower(u.Host)

	if err := v.checkHost(u.Hostname()); err != nil {
		return "", err
	}

	if strings.Contains(u.Path, "..") {
		return "", fmt.Errorf("directory traversal patterns not allowed in URL path")
	}
	if strings.Contains(strings.ToLower(u.RawQuery), "javascript:") {
		return "", fmt.Errorf("suspicious query parameters detected")
	}

	u.Fragment = ""
	return u.String(), nil
}

func (v *SourceURLValidator) checkHost(hostname string) error {
	if !v.AllowLocalhost && isLocalhost(hostname) {
		return fmt.Errorf("%w: localhost URLs are not permitted", ErrHostForbidden)
	}

	if addr, err := netip.ParseAddr(hostname); err == nil {
		if addr.IsUnspecified() || addr == netip.AddrFrom4([4]byte{255, 255, 255, 255}) {
			return fmt.Errorf("%w: unroutable address %s", ErrHostForbidden, hostname)
		}
		if !v.AllowPrivateIPs && IsPrivateAddr(addr) {
			return fmt.Errorf("%w: private IP addresses are not permitted", ErrHostForbidden)
		}
	}

	if len(v.AllowedHosts) > 0 && !hostAllowed(hostname, v.AllowedHosts) {
		return fmt.Errorf("%w: %s is not in the allowed host list", ErrHostForbidden, hostname)
	}

	return nil
}

func hostAllowed(hostname string, allowed []string) bool {
	for _, h := range allowed {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		if hostname == h || strings.HasSuffix(hostname, "."+h) {
			return true
		}
	}
	return false
}

func isLocalhost(hostname string) bool {
	return hostname == "localhost" ||
		strings.HasSuffix(hostname, ".localhost") ||
		net.ParseIP(hostname).IsLoopback()
}

// IsPrivateAddr reports loopback, RFC1918, unique-local and link-local addresses.
func IsPrivateAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsPrivate() ||
		addr.IsLoopback() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast()
}
