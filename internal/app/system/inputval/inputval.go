// Package inputval validates decoded request bodies using struct tags.
//
//	type createTask struct {
//		Title string `json:"title" validate:"required,max=200" label:"Title"`
//	}
//
// Supported rules: required, min=N, max=N, email, oneof=a b c, objectid,
// httpurl, role, workline. Rules other than required are skipped for
// empty values.
package inputval

import (
	"net/mail"
	"net/url"
	"strings"
)

// IsValidEmail reports whether s is a bare addr-spec (no display name)
// with no leading, trailing or doubled dots in either part.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " <>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	local, domain, ok := strings.Cut(s, "@")
	if !ok {
		return false
	}
	return cleanDots(local) && cleanDots(domain)
}

func cleanDots(s string) bool {
	return s != "" &&
		!strings.HasPrefix(s, ".") &&
		!strings.HasSuffix(s, ".") &&
		!strings.Contains(s, "..")
}

// IsValidHTTPURL reports whether s is an absolute http or https URL.
func IsValidHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
