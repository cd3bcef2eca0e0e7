package inputval

import (
	"fmt"
	"net/netip"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dalemusser/hostpro/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Rule    string
	Message string
}

// Result collects every failure for a value.
type Result struct {
	Errors []FieldError
}

func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// IsValidObjectID reports whether s is a 24-character hex ObjectID.
func IsValidObjectID(s string) bool {
	return primitive.IsValidObjectID(s)
}

// Validate checks every tagged field of v, which must be a struct or a
// pointer to one. Fields are checked in declaration order.
func Validate(v any) *Result {
	res := &Result{}
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return res
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		tag := sf.Tag.Get("validate")
		if tag == "" || !sf.IsExported() {
			continue
		}
		label := sf.Tag.Get("label")
		if label == "" {
			label = sf.Name
		}
		fv := rv.Field(i)
		for _, rule := range strings.Split(tag, ",") {
			name, arg, _ := strings.Cut(rule, "=")
			if msg := check(fv, name, arg, label); msg != "" {
				res.Errors = append(res.Errors, FieldError{Field: sf.Name, Rule: name, Message: msg})
				break
			}
		}
	}
	return res
}

func check(fv reflect.Value, rule, arg, label string) string {
	if rule == "required" {
		if isEmpty(fv) {
			return label + " is required."
		}
		return ""
	}
	if isEmpty(fv) {
		return ""
	}
	if fv.Kind() == reflect.Pointer {
		fv = fv.Elem()
	}

	s := ""
	if fv.Kind() == reflect.String {
		s = strings.TrimSpace(fv.String())
	}

	switch rule {
	case "min", "max":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return ""
		}
		return checkBound(fv, s, rule, n, label)
	case "email":
		if !IsValidEmail(s) {
			return "A valid email address is required."
		}
	case "oneof":
		opts := strings.Fields(arg)
		for _, o := range opts {
			if s == o {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of: %s.", label, strings.Join(opts, ", "))
	case "objectid":
		if !IsValidObjectID(s) {
			return fmt.Sprintf("Invalid %s.", label)
		}
	case "ip":
		if _, err := netip.ParseAddr(s); err != nil {
			return label + " must be a valid IP address."
		}
	case "httpurl":
		if !IsValidHTTPURL(s) {
			return label + " must be a valid http or https URL."
		}
	case "role":
		if _, ok := models.ParseRole(s); !ok {
			return fmt.Sprintf("%s must be one of: admin, moderator, user.", label)
		}
	case "workline":
		if fv.Kind() == reflect.Slice {
			for i := 0; i < fv.Len(); i++ {
				if _, ok := models.ParseWorkline(fmt.Sprint(fv.Index(i).Interface())); !ok {
					return fmt.Sprintf("%s contains an unknown workline.", label)
				}
			}
			return ""
		}
		if _, ok := models.ParseWorkline(s); !ok {
			return fmt.Sprintf("%s must be one of: cybersecurity, hosting.", label)
		}
	}
	return ""
}

func checkBound(fv reflect.Value, s, rule string, n int, label string) string {
	switch fv.Kind() {
	case reflect.String:
		l := utf8.RuneCountInString(s)
		if rule == "min" && l < n {
			return fmt.Sprintf("%s must be at least %d characters.", label, n)
		}
		if rule == "max" && l > n {
			return fmt.Sprintf("%s must be at most %d characters.", label, n)
		}
	case reflect.Int, reflect.Int32, reflect.Int64:
		v := fv.Int()
		if rule == "min" && v < int64(n) {
			return fmt.Sprintf("%s must be at least %d.", label, n)
		}
		if rule == "max" && v > int64(n) {
			return fmt.Sprintf("%s must be at most %d.", label, n)
		}
	case reflect.Float64:
		v := fv.Float()
		if rule == "min" && v < float64(n) {
			return fmt.Sprintf("%s must be at least %d.", label, n)
		}
		if rule == "max" && v > float64(n) {
			return fmt.Sprintf("%s must be at most %d.", label, n)
		}
	}
	return ""
}

func isEmpty(fv reflect.Value) bool {
	switch fv.Kind() {
	case reflect.String:
		return strings.TrimSpace(fv.String()) == ""
	case reflect.Slice, reflect.Map:
		return fv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return fv.IsNil()
	default:
		return fv.IsZero()
	}
}
