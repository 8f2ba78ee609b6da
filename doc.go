// Package dynjson writes values of unknown static type to a streaming JSON
// writer and reports which type each value was interpreted as.
//
// It is meant for code that serializes loosely typed data, such as database
// rows scanned into []any, without writing a type switch for every column.
// The token writer is a *jsoniter.Stream; dynjson only decides which token to
// write and leaves escaping, buffering and separators to the stream.
//
// # Quick Start
//
// Wrap a stream in an Engine and write values with WriteDynamic:
//
//	s := jsoniter.NewStream(jsoniter.ConfigDefault, w, 512)
//	e, err := dynjson.New(s)
//	if err != nil {
//	    return err
//	}
//
//	s.WriteArrayStart()
//	for i, v := range row {
//	    if i > 0 {
//	        s.WriteMore()
//	    }
//	    tag, err := e.WriteDynamic(v)
//	    if err != nil {
//	        return err
//	    }
//	    columnTypes[i] = tag
//	}
//	s.WriteArrayEnd()
//	return s.Flush()
//
// Opening and closing arrays or objects around the values is the caller's
// job. Each WriteDynamic call writes exactly one JSON value.
//
// # Resolution Order
//
// WriteDynamic first checks for an absent value. nil, nil pointers, nil maps
// and slices, and nullable wrappers without a value are written as null and
// return an empty tag. Anything else goes to WriteNonNull, which tries:
//
//  1. The primitive table: exact runtime type identity, no widening
//  2. Handlers, in the order they were registered
//  3. The fallback
//
// The tag of whichever stage wrote the value is returned.
//
// # Primitive Table
//
// The table is fixed and built at package initialization:
//
//	Go type           tag              token
//	bool              bool             true/false
//	int32             int              number
//	int64             long             number
//	uint32            uint             number
//	uint64            ulong            number
//	float32           float            number
//	float64           double           number
//	decimal.Decimal   decimal          number, exact digits
//	civil.DateTime    DateTime         "2006-01-02T15:04:05.999999999"
//	time.Time         DateTimeOffset   "2006-01-02T15:04:05.999999999-07:00"
//	civil.Date        DateOnly         "2006-01-02"
//	uuid.UUID         Guid             "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx"
//	string            string           string
//	[]byte            byte[]           base64 string
//	DBNull            DBNull           null
//
// Lookup is by exact type. A plain int, or a named type such as
// type Celsius float64, does not match; register a handler for it.
//
// Pointers to table types and the nullable wrappers sql.NullBool,
// sql.NullInt32, sql.NullInt64, sql.NullFloat64, sql.NullString,
// sql.NullTime, decimal.NullDecimal and uuid.NullUUID resolve to the entry of
// the value they hold.
//
// Every Entry also carries a Read routine over a gjson.Result that recovers
// the value from the token Write produced. The engine never calls it.
//
// # Handlers
//
// Handlers extend the engine with types the table does not cover:
//
//	type Handler interface {
//	    Name() string
//	    Matcher() Matcher
//	    Write(s *jsoniter.Stream, v any) error
//	}
//
// Use Typed for the common exact-type case:
//
//	e, err := dynjson.New(s,
//	    dynjson.WithHandler(dynjson.Typed("point", func(s *jsoniter.Stream, p Point) error {
//	        s.WriteArrayStart()
//	        s.WriteFloat64(p.X)
//	        s.WriteMore()
//	        s.WriteFloat64(p.Y)
//	        s.WriteArrayEnd()
//	        return nil
//	    })),
//	)
//
// Composable matchers are provided for HandlerFunc:
//   - TypeOf: exact runtime type
//   - Implements: value implements an interface
//   - KindOf: reflect.Kind
//   - And, Or, Not: composition
//   - MatchFunc: any predicate
//
// The handler list is fixed at construction and can be inspected with
// Engine.Handlers.
//
// # Fallback
//
// When nothing else matches, the fallback runs. The default fails with an
// *UnhandledTypeError naming the runtime type; errors.Is(err,
// ErrUnhandledType) reports true for it. Replace it with WithFallback:
//
//	dynjson.WithFallback(func(s *jsoniter.Stream, v any) (string, error) {
//	    s.WriteString(fmt.Sprint(v))
//	    return "text", nil
//	})
//
// ReflectFallback hands the value to jsoniter's reflection encoder.
//
// A failing fallback may leave a partial value on the stream. There is no
// rollback; buffer the output if that matters.
//
// # Hooks and Logging
//
// Hooks provide observability without coupling to specific metrics systems:
//
//   - WithOnWrite: called after each successful write with the tag and stage
//   - WithOnFallback: called before the fallback runs
//   - WithOnUnhandled: called when the fallback fails
//
// WithLogger takes a go-kit logger. Fallback use is logged at debug level and
// fallback failures at warn level.
//
// # Errors
//
// The engine raises ErrNilStream from New and *UnhandledTypeError from the
// default fallback. Errors from handlers, fallbacks and the stream itself
// (for example a NaN float) are returned unchanged.
//
// # Thread Safety
//
// An Engine is bound to one stream and is not safe for concurrent use. The
// primitive table is read-only and may be used from any goroutine.
package dynjson
