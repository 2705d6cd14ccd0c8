package utils

import "testing"

func TestGetApexDomain(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"apex stays apex", "example.com", "example.com"},
		{"trailing dot", "example.com.", "example.com"},
		{"subdomain", "www.example.com", "example.com"},
		{"deep subdomain", "api.service.example.com", "example.com"},
		{"co.uk apex", "example.co.uk", "example.co.uk"},
		{"co.uk subdomain", "ads.tracker.example.co.uk", "example.co.uk"},
		{"private suffix", "subdomain.user.github.io", "user.github.io"},
		{"single label fallback", "localhost", "localhost"},
		{"bare public suffix fallback", "com", "com"},
		{"ipv4 literal", "192.168.1.1", "192.168.1.1"},
		{"ipv6 literal", "2001:db8::1", "2001:db8::1"},
		{"empty", "", ""},
		{"uppercase", "Ads.Example.COM", "example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetApexDomain(tt.input)
			if got != tt.expected {
				t.Errorf("GetApexDomain(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
