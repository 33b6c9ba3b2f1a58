package validation

import (
	"errors"
	"net/netip"
	"strings"
	"testing"
)

func TestNewSourceURLValidator(t *testing.T) {
	v := NewSourceURLValidator()
	if v.AllowLocalhost {
		t.Error("Expected AllowLocalhost to be false for security")
	}
	if v.AllowPrivateIPs {
		t.Error("Expected AllowPrivateIPs to be false for security")
	}
	if v.MaxLength != 2048 {
		t.Errorf("Expected MaxLength to be 2048, got %d", v.MaxLength)
	}

	p := NewPermissiveSourceURLValidator()
	if !p.AllowLocalhost || !p.AllowPrivateIPs {
		t.Error("Expected permissive validator to allow localhost and private IPs")
	}
}

func TestValidateAndNormalize(t *testing.T) {
	v := NewSourceURLValidator()

	tests := []struct {
		name     string
		input    string
		expected string
		errorMsg string
	}{
		{name: "empty URL", input: "", errorMsg: "URL cannot be empty"},
		{name: "whitespace-only URL", input: "   ", errorMsg: "URL cannot be empty"},
		{
			name:     "URL without protocol gets HTTPS",
			input:    "www.archdaily.com/1012345/casa-azul",
			expected: "https://www.archdaily.com/1012345/casa-azul",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  https://www.archdaily.com/1012345/casa-azul  ",
			expected: "https://www.archdaily.com/1012345/casa-azul",
		},
		{
			name:     "HTTP URL preserved",
			input:    "http://www.archdaily.com/1012345/casa-azul",
			expected: "http://www.archdaily.com/1012345/casa-azul",
		},
		{
			name:     "scheme and host lowercased",
			input:    "HTTPS://WWW.ArchDaily.com/1012345/Casa",
			expected: "https://www.archdaily.com/1012345/Casa",
		},
		{
			name:     "fragment dropped",
			input:    "https://www.archdaily.com/1012345/0/abc#slide-3",
			expected: "https://www.archdaily.com/1012345/0/abc",
		},
		{
			name:     "URL too long",
			input:    "https://www.archdaily.com/" + strings.Repeat("a", 3000),
			errorMsg: "URL too long",
		},
		{
			name:     "invalid characters",
			input:    "https://www.archdaily.com/<script>",
			errorMsg: "invalid characters",
		},
		{name: "unsupported scheme", input: "ftp://www.archdaily.com/1", errorMsg: "http or https"},
		{name: "no hostname", input: "https:///1012345/slug", errorMsg: "valid hostname"},
		{name: "localhost blocked", input: "https://localhost/1/2", errorMsg: "localhost"},
		{name: "loopback IP blocked", input: "http://127.0.0.1:8080/1/2", errorMsg: "localhost"},
		{name: "IPv6 loopback blocked", input: "http://[::1]/1/2", errorMsg: "localhost"},
		{name: "private IP blocked", input: "https://192.168.1.1/1/2", errorMsg: "private IP"},
		{name: "unspecified IP blocked", input: "https://0.0.0.0/1/2", errorMsg: "unroutable"},
		{name: "traversal blocked", input: "https://www.archdaily.com/../etc/passwd", errorMsg: "traversal"},
		{name: "javascript query blocked", input: "https://www.archdaily.com/1?x=javascript:alert(1)", errorMsg: "suspicious"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidateAndNormalize(tt.input)
			if tt.errorMsg != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got result %q", tt.errorMsg, got)
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("error = %q, want it to contain %q", err.Error(), tt.errorMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ValidateAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValidateAndNormalizePermissive(t *testing.T) {
	v := NewPermissiveSourceURLValidator()

	for _, input := range []string{
		"http://127.0.0.1:8080/1012345/casa",
		"http://localhost:3000/1012345/casa",
		"http://10.0.0.5/1012345/casa",
	} {
		if _, err := v.ValidateAndNormalize(input); err != nil {
			t.Errorf("permissive ValidateAndNormalize(%q) error = %v", input, err)
		}
	}

	if _, err := v.ValidateAndNormalize("http://0.0.0.0/1/2"); err == nil {
		t.Error("unspecified address should be rejected even in permissive mode")
	}
}

func TestAllowedHosts(t *testing.T) {
	v := NewSourceURLValidator("archdaily.com", " ArchDaily.cl ")

	tests := []struct {
		input   string
		allowed bool
	}{
		{"https://archdaily.com/1/2", true},
		{"https://www.archdaily.com/1/2", true},
		{"https://www.archdaily.cl/1/2", true},
		{"https://notarchdaily.com/1/2", false},
		{"https://evil.example.org/1/2", false},
	}

	for _, tt := range tests {
		_, err := v.ValidateAndNormalize(tt.input)
		if tt.allowed && err != nil {
			t.Errorf("%q should be allowed, got %v", tt.input, err)
		}
		if !tt.allowed {
			if err == nil {
				t.Errorf("%q should be rejected", tt.input)
			} else if !errors.Is(err, ErrHostForbidden) {
				t.Errorf("%q error = %v, want ErrHostForbidden", tt.input, err)
			}
		}
	}
}

func TestIsLocalhost(t *testing.T) {
	tests := map[string]bool{
		"localhost":         true,
		"app.localhost":     true,
		"127.0.0.1":         true,
		"127.8.8.8":         true,
		"::1":               true,
		"www.archdaily.com": false,
		"10.0.0.1":          false,
	}

	for host, want := range tests {
		if got := isLocalhost(host); got != want {
			t.Errorf("isLocalhost(%q) = %v, want %v", host, got, want)
		}
	}
}

func TestIsPrivateAddr(t *testing.T) {
	tests := map[string]bool{
		"10.1.2.3":        true,
		"172.16.0.1":      true,
		"172.32.0.1":      false,
		"192.168.0.10":    true,
		"169.254.1.1":     true,
		"8.8.8.8":         false,
		"fd00::1":         true,
		"fe80::1":         true,
		"2001:4860::8888": false,
		"::ffff:10.0.0.1": true,
	}

	for raw, want := range tests {
		addr := netip.MustParseAddr(raw)
		if got := IsPrivateAddr(addr); got != want {
			t.Errorf("IsPrivateAddr(%s) = %v, want %v", raw, got, want)
		}
	}
}
