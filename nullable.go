package dynjson

import (
	"database/sql"
	"reflect"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// wrappers are the nullable types unwrap knows how to open.
var wrappers = map[reflect.Type]bool{
	reflect.TypeOf((*sql.NullBool)(nil)).Elem():        true,
	reflect.TypeOf((*sql.NullInt32)(nil)).Elem():       true,
	reflect.TypeOf((*sql.NullInt64)(nil)).Elem():       true,
	reflect.TypeOf((*sql.NullFloat64)(nil)).Elem():     true,
	reflect.TypeOf((*sql.NullString)(nil)).Elem():      true,
	reflect.TypeOf((*sql.NullTime)(nil)).Elem():        true,
	reflect.TypeOf((*decimal.NullDecimal)(nil)).Elem(): true,
	reflect.TypeOf((*uuid.NullUUID)(nil)).Elem():       true,
}

// unwrap reports the value v stands for and whether it is present. Nil
// interfaces, nil maps, slices, funcs and chans, pointer chains with a nil
// link, and invalid nullable wrappers are absent. Pointer chains ending in a
// table type or a known wrapper are followed; pointers to anything else are
// returned untouched so handlers see them.
func unwrap(v any) (any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case []byte:
		return x, x != nil
	case sql.NullBool:
		return x.Bool, x.Valid
	case sql.NullInt32:
		return x.Int32, x.Valid
	case sql.NullInt64:
		return x.Int64, x.Valid
	case sql.NullFloat64:
		return x.Float64, x.Valid
	case sql.NullString:
		return x.String, x.Valid
	case sql.NullTime:
		return x.Time, x.Valid
	case decimal.NullDecimal:
		return x.Decimal, x.Valid
	case uuid.NullUUID:
		return x.UUID, x.Valid
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v, !rv.IsNil()
	case reflect.Pointer:
		for rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return nil, false
			}
			rv = rv.Elem()
		}
		if _, ok := primitives.byType[rv.Type()]; ok || wrappers[rv.Type()] {
			return unwrap(rv.Interface())
		}
	}
	return v, true
}
