// internal/app/system/limits/limits.go
package limits

// DefaultMaxJSONBody caps request bodies on the API when max_body_bytes is
// unset or not positive.
const DefaultMaxJSONBody int64 = 10 << 20

// BodyLimit returns n, or DefaultMaxJSONBody when n is not positive.
func BodyLimit(n int64) int64 {
	if n <= 0 {
		return DefaultMaxJSONBody
	}
	return n
}
