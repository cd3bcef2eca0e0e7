package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"user.name+tag@example.co.uk", true},
		{"admin@localhost", true},

		{"", false},
		{"   ", false},
		{"user", false},
		{"user@", false},
		{"@example.com", false},
		{".user@example.com", false},
		{"user.@example.com", false},
		{"user..name@example.com", false},
		{"user@example..com", false},
		{"Admin <admin@example.com>", false},
		{"user @example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsValidHTTPURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com", true},
		{"http://localhost:3000/path", true},
		{"ftp://example.com", false},
		{"example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidHTTPURL(tt.url); got != tt.want {
			t.Errorf("IsValidHTTPURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
