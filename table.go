package dynjson

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// DBNull is the explicit-null sentinel. It is written as a JSON null token
// but, unlike an absent value, resolves to the "DBNull" entry and returns
// that tag.
type DBNull struct{}

// Primitive is the closed set of types held by the dispatch table. It is the
// constraint of Write.
type Primitive interface {
	bool | int32 | int64 | uint32 | uint64 | float32 | float64 | string | []byte |
		decimal.Decimal | uuid.UUID | civil.Date | civil.DateTime | time.Time | DBNull
}

// dateTimeOffsetLayout is ISO-8601 with a numeric offset. A UTC instant is
// written as +00:00 rather than Z.
const dateTimeOffsetLayout = "2006-01-02T15:04:05.999999999-07:00"

// dateTimeLayout trims trailing zeros from the fraction.
const dateTimeLayout = "2006-01-02T15:04:05.999999999"

// minDateTime stands in for the zero civil.DateTime, which has no valid
// calendar form.
var minDateTime = civil.DateTime{Date: civil.Date{Year: 1, Month: time.January, Day: 1}}

func formatDateTime(v civil.DateTime) string {
	if v == (civil.DateTime{}) {
		v = minDateTime
	}
	return v.In(time.UTC).Format(dateTimeLayout)
}

// Entry binds one primitive type to its write routine, canonical name, and
// reciprocal read routine.
type Entry struct {
	// Type is the exact runtime type this entry handles.
	Type reflect.Type

	// Name is the canonical tag returned by the engine, e.g. "int" or "DateOnly".
	Name string

	// Write emits exactly one JSON token for a value of Type.
	Write func(s *jsoniter.Stream, v any)

	// Read recovers a value of Type from the token Write produced. The
	// engine never calls it; it is carried for round-trip tooling.
	Read func(r gjson.Result) (any, error)
}

func entry[T any](name string, write func(s *jsoniter.Stream, v T), read func(r gjson.Result) (T, error)) Entry {
	return Entry{
		Type:  reflect.TypeOf((*T)(nil)).Elem(),
		Name:  name,
		Write: func(s *jsoniter.Stream, v any) { write(s, v.(T)) },
		Read: func(r gjson.Result) (any, error) {
			v, err := read(r)
			if err != nil {
				return nil, errors.Wrapf(err, "read %s", name)
			}
			return v, nil
		},
	}
}

// table is immutable once built.
type table struct {
	entries []Entry
	byType  map[reflect.Type]int
	byName  map[string]int
}

// newTable panics if two entries share a type or a name.
func newTable(entries ...Entry) *table {
	t := &table{
		entries: entries,
		byType:  make(map[reflect.Type]int, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		if _, dup := t.byType[e.Type]; dup {
			panic(fmt.Sprintf("dynjson: duplicate entry for type %s", e.Type))
		}
		if _, dup := t.byName[e.Name]; dup {
			panic(fmt.Sprintf("dynjson: duplicate entry name %q", e.Name))
		}
		t.byType[e.Type] = i
		t.byName[e.Name] = i
	}
	return t
}

func (t *table) lookupType(typ reflect.Type) (Entry, bool) {
	i, ok := t.byType[typ]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

var primitives = newTable(
	entry("bool",
		func(s *jsoniter.Stream, v bool) { s.WriteBool(v) },
		func(r gjson.Result) (bool, error) {
			if err := expect(r, gjson.True, gjson.False); err != nil {
				return false, err
			}
			return r.Type == gjson.True, nil
		}),
	entry("int",
		func(s *jsoniter.Stream, v int32) { s.WriteInt32(v) },
		func(r gjson.Result) (int32, error) {
			if err := expect(r, gjson.Number); err != nil {
				return 0, err
			}
			n, err := strconv.ParseInt(r.Raw, 10, 32)
			return int32(n), err
		}),
	entry("long",
		func(s *jsoniter.Stream, v int64) { s.WriteInt64(v) },
		func(r gjson.Result) (int64, error) {
			if err := expect(r, gjson.Number); err != nil {
				return 0, err
			}
			return strconv.ParseInt(r.Raw, 10, 64)
		}),
	entry("uint",
		func(s *jsoniter.Stream, v uint32) { s.WriteUint32(v) },
		func(r gjson.Result) (uint32, error) {
			if err := expect(r, gjson.Number); err != nil {
				return 0, err
			}
			n, err := strconv.ParseUint(r.Raw, 10, 32)
			return uint32(n), err
		}),
	entry("ulong",
		func(s *jsoniter.Stream, v uint64) { s.WriteUint64(v) },
		func(r gjson.Result) (uint64, error) {
			if err := expect(r, gjson.Number); err != nil {
				return 0, err
			}
			return strconv.ParseUint(r.Raw, 10, 64)
		}),
	entry("float",
		func(s *jsoniter.Stream, v float32) { s.WriteFloat32(v) },
		func(r gjson.Result) (float32, error) {
			if err := expect(r, gjson.Number); err != nil {
				return 0, err
			}
			f, err := strconv.ParseFloat(r.Raw, 32)
			return float32(f), err
		}),
	entry("double",
		func(s *jsoniter.Stream, v float64) { s.WriteFloat64(v) },
		func(r gjson.Result) (float64, error) {
			if err := expect(r, gjson.Number); err != nil {
				return 0, err
			}
			return strconv.ParseFloat(r.Raw, 64)
		}),
	entry("decimal",
		func(s *jsoniter.Stream, v decimal.Decimal) { s.WriteRaw(v.String()) },
		func(r gjson.Result) (decimal.Decimal, error) {
			if err := expect(r, gjson.Number); err != nil {
				return decimal.Decimal{}, err
			}
			return decimal.NewFromString(r.Raw)
		}),
	entry("DateTime",
		func(s *jsoniter.Stream, v civil.DateTime) { s.WriteString(formatDateTime(v)) },
		func(r gjson.Result) (civil.DateTime, error) {
			if err := expect(r, gjson.String); err != nil {
				return civil.DateTime{}, err
			}
			dt, err := civil.ParseDateTime(r.Str)
			if err != nil || dt == minDateTime {
				return civil.DateTime{}, err
			}
			return dt, nil
		}),
	entry("DateTimeOffset",
		func(s *jsoniter.Stream, v time.Time) { s.WriteString(v.Format(dateTimeOffsetLayout)) },
		func(r gjson.Result) (time.Time, error) {
			if err := expect(r, gjson.String); err != nil {
				return time.Time{}, err
			}
			return time.Parse(time.RFC3339Nano, r.Str)
		}),
	entry("DateOnly",
		func(s *jsoniter.Stream, v civil.Date) { s.WriteString(v.String()) },
		func(r gjson.Result) (civil.Date, error) {
			if err := expect(r, gjson.String); err != nil {
				return civil.Date{}, err
			}
			return civil.ParseDate(r.Str)
		}),
	entry("Guid",
		func(s *jsoniter.Stream, v uuid.UUID) { s.WriteString(v.String()) },
		func(r gjson.Result) (uuid.UUID, error) {
			if err := expect(r, gjson.String); err != nil {
				return uuid.Nil, err
			}
			return uuid.Parse(r.Str)
		}),
	entry("string",
		func(s *jsoniter.Stream, v string) { s.WriteString(v) },
		func(r gjson.Result) (string, error) {
			if err := expect(r, gjson.String); err != nil {
				return "", err
			}
			return r.Str, nil
		}),
	entry("byte[]",
		func(s *jsoniter.Stream, v []byte) { s.WriteString(base64.StdEncoding.EncodeToString(v)) },
		func(r gjson.Result) ([]byte, error) {
			if err := expect(r, gjson.String); err != nil {
				return nil, err
			}
			return base64.StdEncoding.DecodeString(r.Str)
		}),
	entry("DBNull",
		func(s *jsoniter.Stream, _ DBNull) { s.WriteNil() },
		func(r gjson.Result) (DBNull, error) {
			return DBNull{}, expect(r, gjson.Null)
		}),
)

func expect(r gjson.Result, kinds ...gjson.Type) error {
	if !r.Exists() {
		return errors.Wrap(ErrTokenType, "missing token")
	}
	for _, k := range kinds {
		if r.Type == k {
			return nil
		}
	}
	return errors.Wrapf(ErrTokenType, "unexpected %s token", r.Type)
}

// Lookup returns the table entry for v's exact runtime type. Nullable
// wrappers holding a value resolve to the entry of the value they hold;
// absent values have no entry.
func Lookup(v any) (Entry, bool) {
	v, ok := unwrap(v)
	if !ok {
		return Entry{}, false
	}
	return primitives.lookupType(reflect.TypeOf(v))
}

// EntryByName returns the table entry with the given canonical name.
func EntryByName(name string) (Entry, bool) {
	i, ok := primitives.byName[name]
	if !ok {
		return Entry{}, false
	}
	return primitives.entries[i], true
}

// Entries returns a copy of the table in declaration order.
func Entries() []Entry {
	out := make([]Entry, len(primitives.entries))
	copy(out, primitives.entries)
	return out
}
