package dynjson

import "reflect"

// Matcher decides whether a handler applies to a value. Matchers are cheap
// to evaluate compared to writing.
type Matcher interface {
	Match(v any) bool
}

// MatchFunc adapts a predicate to a Matcher.
type MatchFunc func(v any) bool

// Match implements the Matcher interface.
func (f MatchFunc) Match(v any) bool { return f(v) }

// TypeOf returns a Matcher that matches values whose runtime type is exactly T.
func TypeOf[T any]() Matcher {
	return typeOf{typ: reflect.TypeOf((*T)(nil)).Elem()}
}

type typeOf struct {
	typ reflect.Type
}

func (m typeOf) Match(v any) bool {
	return reflect.TypeOf(v) == m.typ
}

// Implements returns a Matcher that matches values implementing the
// interface I, e.g. Implements[fmt.Stringer]().
func Implements[I any]() Matcher {
	return implements[I]{}
}

type implements[I any] struct{}

func (implements[I]) Match(v any) bool {
	_, ok := v.(I)
	return ok
}

// KindOf returns a Matcher that matches values of any of the given kinds.
func KindOf(kinds ...reflect.Kind) Matcher {
	return kindOf{kinds: kinds}
}

type kindOf struct {
	kinds []reflect.Kind
}

func (m kindOf) Match(v any) bool {
	if v == nil {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	for _, want := range m.kinds {
		if k == want {
			return true
		}
	}
	return false
}

// And returns a Matcher that matches when all matchers match.
func And(ms ...Matcher) Matcher {
	return and{ms: ms}
}

type and struct {
	ms []Matcher
}

func (m and) Match(v any) bool {
	for _, inner := range m.ms {
		if !inner.Match(v) {
			return false
		}
	}
	return true
}

// Or returns a Matcher that matches when any matcher matches.
func Or(ms ...Matcher) Matcher {
	return or{ms: ms}
}

type or struct {
	ms []Matcher
}

func (m or) Match(v any) bool {
	for _, inner := range m.ms {
		if inner.Match(v) {
			return true
		}
	}
	return false
}

// Not returns a Matcher that inverts m.
func Not(m Matcher) Matcher {
	return not{m: m}
}

type not struct {
	m Matcher
}

func (m not) Match(v any) bool {
	return !m.m.Match(v)
}
