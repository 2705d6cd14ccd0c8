package utils

import (
	"strings"
	"testing"
)

func TestCanonicalDNSName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple domain", "example.com", "example.com"},
		{"trailing dot", "example.com.", "example.com"},
		{"multiple trailing dots", "example.com..", "example.com"},
		{"uppercase", "EXAMPLE.COM", "example.com"},
		{"surrounding whitespace", "\t example.com \n", "example.com"},
		{"mixed everything", "  WwW.ExAmPlE.CoM.  ", "www.example.com"},
		{"root", ".", ""},
		{"empty", "", ""},
		{"whitespace only", " \t ", ""},
		{"single label", " LOCALHOST ", "localhost"},
		{"punycode", "xn--nxasmq6b.xn--j6w193g", "xn--nxasmq6b.xn--j6w193g"},
		{"underscore and hyphen", "test-123.example_site.com", "test-123.example_site.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanonicalDNSName(tt.input)
			if got != tt.expected {
				t.Errorf("CanonicalDNSName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCanonicalDNSName_Idempotent(t *testing.T) {
	for _, input := range []string{"example.com", "EXAMPLE.COM.", "  www.example.com  ", "localhost", "."} {
		first := CanonicalDNSName(input)
		second := CanonicalDNSName(first)
		if first != second {
			t.Errorf("CanonicalDNSName not idempotent for %q: first=%q, second=%q", input, first, second)
		}
		if first != strings.ToLower(first) {
			t.Errorf("CanonicalDNSName(%q) = %q, expected lowercase output", input, first)
		}
	}
}
