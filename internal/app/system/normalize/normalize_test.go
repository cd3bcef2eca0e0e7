package normalize

import (
	"reflect"
	"testing"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"  Admin@Example.COM ", "admin@example.com"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Email(tt.input); got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNameKeepsCase(t *testing.T) {
	if got := Name("  Ada LOVELACE "); got != "Ada LOVELACE" {
		t.Errorf("Name = %q", got)
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"all", ""},
		{"  ALL ", ""},
		{"", ""},
		{"published", "published"},
		{" hosting ", "hosting"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Filter(tt.input); got != tt.want {
				t.Errorf("Filter(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestList(t *testing.T) {
	got := List([]string{" web ", "", "db", "web", "  "})
	want := []string{"web", "db"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("List = %v, want %v", got, want)
	}
	if got := List(nil); got == nil || len(got) != 0 {
		t.Errorf("List(nil) = %#v, want empty non-nil", got)
	}
}
