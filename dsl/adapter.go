package dsl

import (
	"context"

	"github.com/reoring/docskema"
	"github.com/reoring/docskema/i18n"
	js "github.com/reoring/docskema/jsonschema"
)

// AnyAdapter adapts Schema[T] to an any-typed DSL wrapper so that schemas of
// different element types can be composed into objects and arrays.
// A field default, when set, is parsed through the same schema.
type AnyAdapter struct {
	parse         func(context.Context, any) (any, error)
	validateValue func(context.Context, any) error
	applyDefault  func(context.Context) (any, error)
	jsonSchema    func() (*js.Schema, error)
}

// SchemaOf adapts a strongly typed Schema[T] to AnyAdapter for Field and Array.
func SchemaOf[T any](s docskema.Schema[T]) AnyAdapter {
	return AnyAdapter{
		parse: func(ctx context.Context, v any) (any, error) { return s.Parse(ctx, v) },
		validateValue: func(ctx context.Context, v any) error {
			tv, ok := v.(T)
			if !ok && v == nil {
				// nil only satisfies interface-typed schemas such as Any()
				var zero T
				if any(zero) == nil {
					return s.ValidateValue(ctx, zero)
				}
			}
			if !ok {
				return docskema.Issues{{Path: "/", Code: docskema.CodeInvalidType, Message: i18n.T(docskema.CodeInvalidType, nil), Hint: "invalid field type"}}
			}
			return s.ValidateValue(ctx, tv)
		},
		jsonSchema: s.JSONSchema,
	}
}

// Parse runs the wrapped schema's Parse. A zero adapter returns v unchanged.
func (ad AnyAdapter) Parse(ctx context.Context, v any) (any, error) {
	if ad.parse == nil {
		return v, nil
	}
	return ad.parse(ctx, v)
}

// ValidateValue runs the wrapped schema's ValidateValue.
func (ad AnyAdapter) ValidateValue(ctx context.Context, v any) error {
	if ad.validateValue == nil {
		return nil
	}
	return ad.validateValue(ctx, v)
}

// JSONSchema exports the wrapped schema. A zero adapter exports {}.
func (ad AnyAdapter) JSONSchema() (*js.Schema, error) {
	if ad.jsonSchema == nil {
		return &js.Schema{}, nil
	}
	return ad.jsonSchema()
}
