package dynjson

import jsoniter "github.com/json-iterator/go"

// Handler writes values of a type the dispatch table does not cover.
//
// Handlers are registered with WithHandler and consulted by the engine after
// the table and before the fallback, in registration order. The first
// handler whose Matcher matches writes the value and its Name is returned as
// the tag.
//
// Example:
//
//	type moneyHandler struct{}
//
//	func (moneyHandler) Name() string { return "money" }
//
//	func (moneyHandler) Matcher() dynjson.Matcher {
//	    return dynjson.TypeOf[Money]()
//	}
//
//	func (moneyHandler) Write(s *jsoniter.Stream, v any) error {
//	    m := v.(Money)
//	    s.WriteObjectStart()
//	    s.WriteObjectField("amount")
//	    s.WriteRaw(m.Amount.String())
//	    s.WriteMore()
//	    s.WriteObjectField("currency")
//	    s.WriteString(m.Currency)
//	    s.WriteObjectEnd()
//	    return nil
//	}
type Handler interface {
	// Name returns the canonical tag reported for values this handler writes.
	Name() string

	// Matcher returns the applicability test.
	Matcher() Matcher

	// Write emits exactly one complete JSON value for v.
	Write(s *jsoniter.Stream, v any) error
}

// HandlerFunc creates a Handler from a name, matcher, and write function.
// Use for simple handlers that don't need a struct:
//
//	dynjson.WithHandler(dynjson.HandlerFunc(
//	    "stringer",
//	    dynjson.Implements[fmt.Stringer](),
//	    func(s *jsoniter.Stream, v any) error {
//	        s.WriteString(v.(fmt.Stringer).String())
//	        return nil
//	    },
//	))
func HandlerFunc(name string, m Matcher, write func(s *jsoniter.Stream, v any) error) Handler {
	return &handlerFunc{name: name, matcher: m, write: write}
}

type handlerFunc struct {
	name    string
	matcher Matcher
	write   func(s *jsoniter.Stream, v any) error
}

func (h *handlerFunc) Name() string                          { return h.name }
func (h *handlerFunc) Matcher() Matcher                      { return h.matcher }
func (h *handlerFunc) Write(s *jsoniter.Stream, v any) error { return h.write(s, v) }

// Typed creates a Handler for values whose runtime type is exactly T, with a
// typed write function.
//
// This is a package-level function (not a method) due to Go generics
// limitations: methods cannot have type parameters independent of the
// receiver.
//
// Example:
//
//	dynjson.WithHandler(dynjson.Typed("point", func(s *jsoniter.Stream, p Point) error {
//	    s.WriteArrayStart()
//	    s.WriteFloat64(p.X)
//	    s.WriteMore()
//	    s.WriteFloat64(p.Y)
//	    s.WriteArrayEnd()
//	    return nil
//	}))
func Typed[T any](name string, write func(s *jsoniter.Stream, v T) error) Handler {
	return HandlerFunc(name, TypeOf[T](), func(s *jsoniter.Stream, v any) error {
		return write(s, v.(T))
	})
}
