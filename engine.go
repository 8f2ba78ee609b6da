package dynjson

import (
	"fmt"
	"reflect"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var (
	// ErrNilStream is returned by New when no stream is supplied.
	ErrNilStream = errors.New("dynjson: nil stream")

	// ErrUnhandledType is matched by errors.Is for every *UnhandledTypeError.
	ErrUnhandledType = errors.New("dynjson: unhandled type")

	// ErrTokenType is returned by an Entry's Read routine when the token is
	// missing or of the wrong JSON kind.
	ErrTokenType = errors.New("dynjson: unexpected token type")
)

// UnhandledTypeError is returned by the default fallback when no table entry
// and no handler matches a value.
type UnhandledTypeError struct {
	// Type is the runtime type of the value, nil for a nil interface.
	Type reflect.Type
}

func (e *UnhandledTypeError) Error() string {
	return fmt.Sprintf("dynjson: fallback not implemented to handle type %s", typeName(e.Type))
}

// Is reports whether target is ErrUnhandledType.
func (e *UnhandledTypeError) Is(target error) bool { return target == ErrUnhandledType }

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// Resolution identifies which stage of the resolution order wrote a value.
type Resolution int

const (
	// ViaNull means the value was absent and a null token was written.
	ViaNull Resolution = iota
	// ViaTable means a primitive table entry wrote the value.
	ViaTable
	// ViaHandler means a registered Handler wrote the value.
	ViaHandler
	// ViaFallback means the fallback wrote the value.
	ViaFallback
)

func (r Resolution) String() string {
	switch r {
	case ViaNull:
		return "null"
	case ViaTable:
		return "table"
	case ViaHandler:
		return "handler"
	case ViaFallback:
		return "fallback"
	default:
		return fmt.Sprintf("Resolution(%d)", int(r))
	}
}

// Engine writes values of unknown static type to a single jsoniter stream.
//
// Usage:
//  1. Create an engine around a stream with New
//  2. Optionally register handlers with WithHandler and a fallback with WithFallback
//  3. Write values with WriteDynamic
//
// An Engine is bound to its stream for its whole lifetime. It is not safe
// for concurrent use, because the stream is not.
type Engine struct {
	stream   *jsoniter.Stream
	handlers []Handler
	fallback FallbackFunc
	logger   log.Logger
	hooks    hooks
}

// Option configures an Engine.
type Option func(*Engine)

// New creates an Engine that writes to s.
//
// Example:
//
//	s := jsoniter.NewStream(jsoniter.ConfigDefault, w, 512)
//	e, err := dynjson.New(s,
//	    dynjson.WithHandler(dynjson.Typed("money", writeMoney)),
//	    dynjson.WithFallback(dynjson.ReflectFallback("")),
//	)
func New(s *jsoniter.Stream, opts ...Option) (*Engine, error) {
	if s == nil {
		return nil, ErrNilStream
	}
	e := &Engine{
		stream:   s,
		fallback: unhandled,
		logger:   log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// WithHandler appends handlers to the resolution order. Handlers are tried
// in the order they were added, after the primitive table.
func WithHandler(hs ...Handler) Option {
	return func(e *Engine) {
		e.handlers = append(e.handlers, hs...)
	}
}

// WithFallback sets the function invoked when neither the table nor any
// handler matches. A nil fn restores the default, which fails with
// *UnhandledTypeError.
func WithFallback(fn FallbackFunc) Option {
	return func(e *Engine) {
		if fn == nil {
			fn = unhandled
		}
		e.fallback = fn
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Stream returns the wrapped stream.
func (e *Engine) Stream() *jsoniter.Stream { return e.stream }

// Handlers returns the registered handlers in resolution order.
func (e *Engine) Handlers() []Handler {
	out := make([]Handler, len(e.handlers))
	copy(out, e.handlers)
	return out
}

// WriteDynamic writes v and returns the canonical tag of the type it was
// interpreted as.
//
// Absent values (nil, nil pointers, maps and slices, and nullable wrappers
// that are not valid) are written as a single null token and return an
// empty tag. Everything else goes through WriteNonNull.
func (e *Engine) WriteDynamic(v any) (string, error) {
	if _, ok := unwrap(v); !ok {
		e.stream.WriteNil()
		if err := e.stream.Error; err != nil {
			return "", err
		}
		e.callOnWrite("", ViaNull)
		return "", nil
	}
	return e.WriteNonNull(v)
}

// WriteNonNull is the resolution point. It writes v using, in order:
//  1. the primitive table entry for v's exact runtime type
//  2. the first registered handler whose matcher matches v
//  3. the fallback
//
// and returns the tag of the stage that wrote it. A stream error raised by
// the write is returned unchanged.
func (e *Engine) WriteNonNull(v any) (string, error) {
	if inner, ok := unwrap(v); ok {
		if entry, found := primitives.lookupType(reflect.TypeOf(inner)); found {
			return e.writeEntry(entry, inner)
		}
	}

	for _, h := range e.handlers {
		if !h.Matcher().Match(v) {
			continue
		}
		if err := h.Write(e.stream, v); err != nil {
			return "", err
		}
		if err := e.stream.Error; err != nil {
			return "", err
		}
		name := h.Name()
		e.callOnWrite(name, ViaHandler)
		return name, nil
	}

	return e.writeFallback(v)
}

// Write writes a value whose type is statically one of the table's
// primitives. There is no null check: a nil []byte is written as an empty
// base64 string.
//
// This is a package-level function (not a method) due to Go generics
// limitations.
func Write[T Primitive](e *Engine, v T) (string, error) {
	entry, _ := primitives.lookupType(reflect.TypeOf((*T)(nil)).Elem())
	return e.writeEntry(entry, v)
}

func (e *Engine) writeEntry(entry Entry, v any) (string, error) {
	entry.Write(e.stream, v)
	if err := e.stream.Error; err != nil {
		return "", err
	}
	e.callOnWrite(entry.Name, ViaTable)
	return entry.Name, nil
}

func (e *Engine) writeFallback(v any) (string, error) {
	typ := typeName(reflect.TypeOf(v))
	_ = level.Debug(e.logger).Log("msg", "no entry or handler matched, using fallback", "type", typ)
	e.callOnFallback(v)

	tag, err := e.fallback(e.stream, v)
	if err == nil {
		err = e.stream.Error
	}
	if err != nil {
		_ = level.Warn(e.logger).Log("msg", "fallback failed", "type", typ, "err", err)
		e.callOnUnhandled(v, err)
		return "", err
	}

	e.callOnWrite(tag, ViaFallback)
	return tag, nil
}
