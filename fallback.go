package dynjson

import (
	"reflect"

	jsoniter "github.com/json-iterator/go"
)

// FallbackFunc writes a value no table entry or handler matched. It must
// either write exactly one complete JSON value and return its tag, or fail.
// Nothing already written to s is rolled back on failure.
type FallbackFunc func(s *jsoniter.Stream, v any) (string, error)

// unhandled is the default fallback. It writes nothing.
func unhandled(_ *jsoniter.Stream, v any) (string, error) {
	return "", &UnhandledTypeError{Type: reflect.TypeOf(v)}
}

// ReflectFallback returns a FallbackFunc that writes v with jsoniter's
// reflection-based encoder, honoring the stream's configuration. The tag is
// the given one, or the Go type name of v when tag is empty.
func ReflectFallback(tag string) FallbackFunc {
	return func(s *jsoniter.Stream, v any) (string, error) {
		s.WriteVal(v)
		if s.Error != nil {
			return "", s.Error
		}
		if tag == "" {
			return typeName(reflect.TypeOf(v)), nil
		}
		return tag, nil
	}
}
