package dsl

import (
	"context"
	"reflect"
	"strconv"

	"github.com/reoring/docskema"
	js "github.com/reoring/docskema/jsonschema"
)

// ArrayBuilder exposes chaining methods for array schemas while implementing
// Schema[[]any].
type ArrayBuilder interface {
	docskema.Schema[[]any]
	Min(n int) ArrayBuilder
	Max(n int) ArrayBuilder
}

// Array returns an array schema whose elements each satisfy elem.
// A zero AnyAdapter accepts elements of any type.
func Array(elem AnyAdapter) ArrayBuilder {
	return &ArraySchema{elem: elem, minLen: -1, maxLen: -1}
}

// ArrayOf adapts Array(elem) to AnyAdapter for use in object builders.
// Example: Field("tags", d.ArrayOf(d.StringOf()))
func ArrayOf(elem AnyAdapter) AnyAdapter { return SchemaOf[[]any](Array(elem)) }

// ArraySchema validates sequences element by element.
type ArraySchema struct {
	elem   AnyAdapter
	minLen int
	maxLen int
}

// Min sets the minimum length.
func (a *ArraySchema) Min(n int) ArrayBuilder { a.minLen = n; return a }

// Max sets the maximum length.
func (a *ArraySchema) Max(n int) ArrayBuilder { a.maxLen = n; return a }

// asSlice views any slice or array value as []any. []byte is not a sequence.
func asSlice(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case nil, []byte, string:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func (a *ArraySchema) Parse(ctx context.Context, v any) ([]any, error) {
	src, ok := asSlice(v)
	if !ok {
		return nil, invalidType("array")
	}
	var iss docskema.Issues
	if err := a.checkLen(len(src)); err != nil {
		iss = docskema.AppendIssues(iss, err...)
		if docskema.IsFailFast(ctx) {
			return nil, iss
		}
	}
	res := make([]any, 0, len(src))
	for i := range src {
		ev, err := a.elem.Parse(ctx, src[i])
		if err != nil {
			iss = docskema.AppendIssues(iss, docskema.RebaseIssues("/"+strconv.Itoa(i), docskema.ToIssues("/", err))...)
			if docskema.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		res = append(res, ev)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return res, nil
}

func (a *ArraySchema) checkLen(n int) docskema.Issues {
	var iss docskema.Issues
	if a.minLen >= 0 && n < a.minLen {
		iss = docskema.AppendIssues(iss, rootIssue(docskema.CodeTooShort, "array is shorter than min", map[string]any{"min": a.minLen, "got": n}))
	}
	if a.maxLen >= 0 && n > a.maxLen {
		iss = docskema.AppendIssues(iss, rootIssue(docskema.CodeTooLong, "array is longer than max", map[string]any{"max": a.maxLen, "got": n}))
	}
	return iss
}

func (a *ArraySchema) TypeCheck(ctx context.Context, v any) error {
	if _, ok := asSlice(v); !ok {
		return invalidType("array")
	}
	return nil
}

func (a *ArraySchema) RuleCheck(ctx context.Context, v any) error {
	src, ok := asSlice(v)
	if !ok {
		return nil
	}
	if iss := a.checkLen(len(src)); len(iss) > 0 {
		return iss
	}
	return nil
}

func (a *ArraySchema) Validate(ctx context.Context, v any) error {
	if err := a.TypeCheck(ctx, v); err != nil {
		return err
	}
	return a.RuleCheck(ctx, v)
}

func (a *ArraySchema) ValidateValue(ctx context.Context, v []any) error {
	if iss := a.checkLen(len(v)); len(iss) > 0 {
		return iss
	}
	for i := range v {
		if err := a.elem.ValidateValue(ctx, v[i]); err != nil {
			return docskema.RebaseIssues("/"+strconv.Itoa(i), docskema.ToIssues("/", err))
		}
	}
	return nil
}

func (a *ArraySchema) JSONSchema() (*js.Schema, error) {
	es, err := a.elem.JSONSchema()
	if err != nil {
		return nil, err
	}
	s := &js.Schema{Type: "array", Items: es}
	if a.minLen >= 0 {
		n := a.minLen
		s.MinItems = &n
	}
	if a.maxLen >= 0 {
		n := a.maxLen
		s.MaxItems = &n
	}
	return s, nil
}
