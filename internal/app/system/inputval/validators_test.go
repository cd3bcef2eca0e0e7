package inputval

import (
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	type registerInput struct {
		Email    string `validate:"required,email" label:"Email"`
		Password string `validate:"required,min=6" label:"Password"`
		Name     string `validate:"required,min=2,max=10" label:"Name"`
		Role     string `validate:"role" label:"Role"`
	}

	tests := []struct {
		name      string
		input     registerInput
		wantFirst string
	}{
		{"valid", registerInput{"a@example.com", "secret1", "Ada", ""}, ""},
		{"missing email", registerInput{"", "secret1", "Ada", ""}, "Email is required."},
		{"bad email", registerInput{"nope", "secret1", "Ada", ""}, "A valid email address is required."},
		{"short password", registerInput{"a@example.com", "abc", "Ada", ""}, "Password must be at least 6 characters."},
		{"long name", registerInput{"a@example.com", "secret1", "Adalbertina Q", ""}, "Name must be at most 10 characters."},
		{"unknown role", registerInput{"a@example.com", "secret1", "Ada", "root"}, "Role must be one of: admin, moderator, user."},
		{"blank is required", registerInput{"a@example.com", "secret1", "   ", ""}, "Name is required."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.input)
			if tt.wantFirst == "" {
				if res.HasErrors() {
					t.Fatalf("unexpected errors: %s", res.All())
				}
				return
			}
			if res.First() != tt.wantFirst {
				t.Errorf("First() = %q, want %q", res.First(), tt.wantFirst)
			}
		})
	}
}

func TestValidate_OneRulePerField(t *testing.T) {
	type in struct {
		A string `validate:"required,email" label:"A"`
		B string `validate:"required" label:"B"`
	}
	res := Validate(&in{})
	if len(res.Errors) != 2 {
		t.Fatalf("got %d errors, want 2", len(res.Errors))
	}
	if res.All() != "A is required.; B is required." {
		t.Errorf("All() = %q", res.All())
	}
}

func TestValidate_CustomRules(t *testing.T) {
	type in struct {
		Status    string   `validate:"oneof=draft published archived" label:"Status"`
		ClientID  string   `validate:"objectid" label:"client ID"`
		Worklines []string `validate:"workline" label:"Worklines"`
	}

	tests := []struct {
		name    string
		input   in
		wantSub string
	}{
		{"all valid", in{"draft", "507f1f77bcf86cd799439011", []string{"hosting"}}, ""},
		{"empty skipped", in{}, ""},
		{"bad status", in{Status: "live"}, "Status must be one of: draft, published, archived."},
		{"bad id", in{ClientID: "xyz"}, "Invalid client ID."},
		{"bad workline", in{Worklines: []string{"hosting", "payroll"}}, "unknown workline"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.input)
			if tt.wantSub == "" {
				if res.HasErrors() {
					t.Errorf("unexpected errors: %s", res.All())
				}
				return
			}
			if !strings.Contains(res.First(), tt.wantSub) {
				t.Errorf("First() = %q, want it to contain %q", res.First(), tt.wantSub)
			}
		})
	}
}

func TestIsValidObjectID(t *testing.T) {
	if !IsValidObjectID("507f1f77bcf86cd799439011") {
		t.Error("valid id rejected")
	}
	for _, s := range []string{"", "507f1f77", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		if IsValidObjectID(s) {
			t.Errorf("IsValidObjectID(%q) = true", s)
		}
	}
}

func TestValidate_PointerFields(t *testing.T) {
	type patch struct {
		Name  *string `validate:"min=2" label:"Name"`
		Email *string `validate:"email" label:"Email"`
	}
	short, bad, good := "A", "not-an-email", "a@example.com"

	if res := Validate(patch{}); res.HasErrors() {
		t.Errorf("absent fields should pass, got %q", res.All())
	}
	if res := Validate(patch{Name: &short}); res.First() != "Name must be at least 2 characters." {
		t.Errorf("short name: got %q", res.First())
	}
	if res := Validate(patch{Email: &bad}); res.First() != "A valid email address is required." {
		t.Errorf("bad email: got %q", res.First())
	}
	if res := Validate(patch{Email: &good}); res.HasErrors() {
		t.Errorf("good email: got %q", res.All())
	}
}

func TestValidate_IP(t *testing.T) {
	type in struct {
		Addr string `validate:"ip" label:"IP address"`
	}
	for _, ok := range []string{"10.0.0.1", "2001:db8::1", ""} {
		if res := Validate(in{ok}); res.HasErrors() {
			t.Errorf("%q: unexpected %s", ok, res.All())
		}
	}
	for _, bad := range []string{"10.0.0.256", "host.example"} {
		if res := Validate(in{bad}); res.First() != "IP address must be a valid IP address." {
			t.Errorf("%q: got %q", bad, res.First())
		}
	}
}
