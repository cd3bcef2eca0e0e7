package jsonutil

import "encoding/json"

// Nullable tells an absent field apart from an explicit null. Set is true
// whenever the key was present; Null is true when its value was null.
type Nullable[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Null = true
		return nil
	}
	return json.Unmarshal(b, &n.Value)
}
