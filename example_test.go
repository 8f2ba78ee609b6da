package dynjson_test

import (
	"bytes"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"github.com/bjaus/dynjson"
)

// Point is a type the dispatch table knows nothing about.
type Point struct {
	X, Y float64
}

// writeRow writes values as one JSON array and returns their tags.
func writeRow(e *dynjson.Engine, values ...any) []string {
	s := e.Stream()
	s.WriteArrayStart()
	tags := make([]string, 0, len(values))
	for i, v := range values {
		if i > 0 {
			s.WriteMore()
		}
		tag, err := e.WriteDynamic(v)
		if err != nil {
			log.Fatal(err)
		}
		if tag == "" {
			tag = "(null)"
		}
		tags = append(tags, tag)
	}
	s.WriteArrayEnd()
	return tags
}

func Example() {
	var buf bytes.Buffer
	s := jsoniter.NewStream(jsoniter.ConfigDefault, &buf, 256)

	e, err := dynjson.New(s)
	if err != nil {
		log.Fatal(err)
	}

	// A database row with mixed column types
	tags := writeRow(e,
		int64(42),
		"ada",
		sql.NullString{},
		decimal.RequireFromString("19.99"),
		civil.Date{Year: 2024, Month: time.May, Day: 1},
	)
	if err := s.Flush(); err != nil {
		log.Fatal(err)
	}

	fmt.Println(buf.String())
	fmt.Println(strings.Join(tags, ","))
	// Output:
	// [42,"ada",null,19.99,"2024-05-01"]
	// long,string,(null),decimal,DateOnly
}

func Example_handler() {
	var buf bytes.Buffer
	s := jsoniter.NewStream(jsoniter.ConfigDefault, &buf, 256)

	e, err := dynjson.New(s,
		dynjson.WithHandler(dynjson.Typed("point", func(s *jsoniter.Stream, p Point) error {
			s.WriteArrayStart()
			s.WriteFloat64(p.X)
			s.WriteMore()
			s.WriteFloat64(p.Y)
			s.WriteArrayEnd()
			return nil
		})),
	)
	if err != nil {
		log.Fatal(err)
	}

	tags := writeRow(e, Point{X: 1.5, Y: -2}, true)
	if err := s.Flush(); err != nil {
		log.Fatal(err)
	}

	fmt.Println(buf.String())
	fmt.Println(strings.Join(tags, ","))
	// Output:
	// [[1.5,-2],true]
	// point,bool
}

func Example_fallback() {
	var buf bytes.Buffer
	s := jsoniter.NewStream(jsoniter.ConfigDefault, &buf, 256)

	e, err := dynjson.New(s, dynjson.WithFallback(dynjson.ReflectFallback("")))
	if err != nil {
		log.Fatal(err)
	}

	tags := writeRow(e, []string{"a", "b"}, int32(7))
	if err := s.Flush(); err != nil {
		log.Fatal(err)
	}

	fmt.Println(buf.String())
	fmt.Println(strings.Join(tags, ","))
	// Output:
	// [["a","b"],7]
	// []string,int
}

func Example_unhandled() {
	var buf bytes.Buffer
	s := jsoniter.NewStream(jsoniter.ConfigDefault, &buf, 256)

	e, err := dynjson.New(s)
	if err != nil {
		log.Fatal(err)
	}

	_, err = e.WriteDynamic(Point{})
	fmt.Println(err)
	// Output:
	// dynjson: fallback not implemented to handle type dynjson_test.Point
}
