package dsl

import (
	"context"
	"reflect"

	"github.com/reoring/docskema"
	js "github.com/reoring/docskema/jsonschema"
)

type objectBuilder struct {
	fields        map[string]AnyAdapter
	required      map[string]struct{}
	unknownPolicy docskema.UnknownPolicy
	nullAsMissing bool
}

type fieldStep struct {
	b    *objectBuilder
	name string
}

// Object creates a new object builder with safe defaults (UnknownStrict).
func Object() *objectBuilder {
	return &objectBuilder{
		fields:        map[string]AnyAdapter{},
		required:      map[string]struct{}{},
		unknownPolicy: docskema.UnknownStrict,
	}
}

// Field registers a field with its adapter.
func (b *objectBuilder) Field(name string, ad AnyAdapter) *fieldStep {
	b.fields[name] = ad
	return &fieldStep{b: b, name: name}
}

// Required marks the field as required and returns the builder.
func (f *fieldStep) Required() *objectBuilder {
	f.b.required[f.name] = struct{}{}
	return f.b
}

// Optional marks the field as optional (default) and returns the builder.
func (f *fieldStep) Optional() *objectBuilder {
	delete(f.b.required, f.name)
	return f.b
}

// Default sets a default for the current field and exports it to JSON Schema.
// The default is parsed through the field schema when applied.
func (f *fieldStep) Default(v any) *objectBuilder {
	ad := f.b.fields[f.name]
	ad.applyDefault = func(ctx context.Context) (any, error) { return ad.Parse(ctx, v) }
	prev := ad.jsonSchema
	ad.jsonSchema = func() (*js.Schema, error) {
		if prev == nil {
			return &js.Schema{Default: v}, nil
		}
		s, err := prev()
		if err != nil {
			return nil, err
		}
		if s == nil {
			s = &js.Schema{}
		}
		s.Default = v
		return s, nil
	}
	f.b.fields[f.name] = ad
	return f.b
}

// Annotate records v as the field's default in JSON Schema output only; Parse
// does not fill it in.
func (f *fieldStep) Annotate(v any) *objectBuilder {
	ad := f.b.fields[f.name]
	prev := ad.jsonSchema
	ad.jsonSchema = func() (*js.Schema, error) {
		s, err := AnyAdapter{jsonSchema: prev}.JSONSchema()
		if err != nil {
			return nil, err
		}
		s.Default = v
		return s, nil
	}
	f.b.fields[f.name] = ad
	return f.b
}

func (f *fieldStep) Field(name string, ad AnyAdapter) *fieldStep     { return f.b.Field(name, ad) }
func (f *fieldStep) Require(names ...string) *objectBuilder          { return f.b.Require(names...) }
func (f *fieldStep) UnknownStrict() *objectBuilder                   { return f.b.UnknownStrict() }
func (f *fieldStep) UnknownStrip() *objectBuilder                    { return f.b.UnknownStrip() }
func (f *fieldStep) NullAsMissing() *objectBuilder                   { return f.b.NullAsMissing() }
func (f *fieldStep) Build() (docskema.Schema[map[string]any], error) { return f.b.Build() }
func (f *fieldStep) MustBuild() docskema.Schema[map[string]any]      { return f.b.MustBuild() }

// Require marks one or more fields as required.
func (b *objectBuilder) Require(names ...string) *objectBuilder {
	for _, n := range names {
		b.required[n] = struct{}{}
	}
	return b
}

// UnknownStrict sets unknown policy to Strict.
func (b *objectBuilder) UnknownStrict() *objectBuilder {
	b.unknownPolicy = docskema.UnknownStrict
	return b
}

// UnknownStrip sets unknown policy to Strip.
func (b *objectBuilder) UnknownStrip() *objectBuilder {
	b.unknownPolicy = docskema.UnknownStrip
	return b
}

// NullAsMissing makes a nil field value count as absent: required fields
// reject it, optional fields accept it and it is dropped from the output.
func (b *objectBuilder) NullAsMissing() *objectBuilder {
	b.nullAsMissing = true
	return b
}

// Build validates the builder and returns a Schema.
func (b *objectBuilder) Build() (docskema.Schema[map[string]any], error) {
	var iss docskema.Issues
	for _, k := range sortedKeys(b.required) {
		if _, ok := b.fields[k]; !ok {
			iss = docskema.AppendIssues(iss, docskema.Issue{Path: pointer(k), Code: docskema.CodeParseError, Message: "required field is not declared", Hint: "declare the field before requiring it"})
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	fields := make(map[string]AnyAdapter, len(b.fields))
	for k, ad := range b.fields {
		fields[k] = ad
	}
	required := make(map[string]struct{}, len(b.required))
	for k := range b.required {
		required[k] = struct{}{}
	}
	// cache sorted keys for deterministic order without per-parse sorting
	return &objectSchema{
		fields:        fields,
		required:      required,
		unknownPolicy: b.unknownPolicy,
		nullAsMissing: b.nullAsMissing,
		sortedKeys:    sortedKeys(fields),
	}, nil
}

// MustBuild is like Build but panics on error.
func (b *objectBuilder) MustBuild() docskema.Schema[map[string]any] {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

type objectSchema struct {
	fields        map[string]AnyAdapter
	required      map[string]struct{}
	unknownPolicy docskema.UnknownPolicy
	nullAsMissing bool
	sortedKeys    []string
}

var _ docskema.Schema[map[string]any] = (*objectSchema)(nil)

// ObjectFields reports the declared field names in ascending order. It
// returns nil when s was not built by Object().
func ObjectFields(s any) []string {
	o, ok := s.(*objectSchema)
	if !ok {
		return nil
	}
	return append([]string(nil), o.sortedKeys...)
}

// asObject views a map with string keys as map[string]any.
func asObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	it := rv.MapRange()
	for it.Next() {
		out[it.Key().String()] = it.Value().Interface()
	}
	return out, true
}

// lookup returns the field value and whether it counts as present.
func (o *objectSchema) lookup(src map[string]any, k string) (any, bool) {
	v, ok := src[k]
	if ok && v == nil && o.nullAsMissing {
		return nil, false
	}
	return v, ok
}

func (o *objectSchema) requiredIssue(k string) docskema.Issue {
	it := rootIssue(docskema.CodeRequired, "required property missing", nil)
	it.Path = pointer(k)
	return it
}

func (o *objectSchema) Parse(ctx context.Context, v any) (map[string]any, error) {
	src, ok := asObject(v)
	if !ok {
		return nil, invalidType("object")
	}
	out := make(map[string]any, len(src))
	var iss docskema.Issues
	for _, k := range o.sortedKeys {
		ad := o.fields[k]
		if val, present := o.lookup(src, k); present {
			parsed, err := ad.Parse(ctx, val)
			if err != nil {
				// rebase child issues under "/field"
				iss = docskema.AppendIssues(iss, docskema.RebaseIssues(pointer(k), docskema.ToIssues("/", err))...)
				if docskema.IsFailFast(ctx) {
					return nil, iss
				}
				continue
			}
			out[k] = parsed
			continue
		}
		// missing: apply default if provided; otherwise enforce required
		if ad.applyDefault != nil {
			dv, err := ad.applyDefault(ctx)
			if err != nil {
				iss = docskema.AppendIssues(iss, docskema.RebaseIssues(pointer(k), docskema.ToIssues("/", err))...)
				if docskema.IsFailFast(ctx) {
					return nil, iss
				}
				continue
			}
			out[k] = dv
			continue
		}
		if _, req := o.required[k]; req {
			iss = docskema.AppendIssues(iss, o.requiredIssue(k))
			if docskema.IsFailFast(ctx) {
				return nil, iss
			}
		}
	}
	if o.unknownPolicy == docskema.UnknownStrict {
		for _, k := range sortedKeys(src) {
			if _, known := o.fields[k]; known {
				continue
			}
			it := rootIssue(docskema.CodeUnknownKey, "", map[string]any{"key": k})
			it.Path = pointer(k)
			iss = docskema.AppendIssues(iss, it)
			if docskema.IsFailFast(ctx) {
				return nil, iss
			}
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

func (o *objectSchema) TypeCheck(ctx context.Context, v any) error {
	if _, ok := asObject(v); !ok {
		return invalidType("object")
	}
	return nil
}

// RuleCheck enforces required keys and the unknown-key policy at this level only.
func (o *objectSchema) RuleCheck(ctx context.Context, v any) error {
	m, ok := asObject(v)
	if !ok {
		return nil
	}
	var iss docskema.Issues
	for _, k := range sortedKeys(o.required) {
		if _, present := o.lookup(m, k); !present {
			iss = docskema.AppendIssues(iss, o.requiredIssue(k))
			if docskema.IsFailFast(ctx) {
				return iss
			}
		}
	}
	if o.unknownPolicy == docskema.UnknownStrict {
		for _, k := range sortedKeys(m) {
			if _, known := o.fields[k]; !known {
				it := rootIssue(docskema.CodeUnknownKey, "", map[string]any{"key": k})
				it.Path = pointer(k)
				iss = docskema.AppendIssues(iss, it)
			}
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

func (o *objectSchema) Validate(ctx context.Context, v any) error {
	if err := o.TypeCheck(ctx, v); err != nil {
		return err
	}
	return o.RuleCheck(ctx, v)
}

func (o *objectSchema) ValidateValue(ctx context.Context, v map[string]any) error {
	// validate known fields in key-sorted order for deterministic error selection
	for _, k := range o.sortedKeys {
		if val, present := o.lookup(v, k); present {
			if err := o.fields[k].ValidateValue(ctx, val); err != nil {
				return docskema.RebaseIssues(pointer(k), docskema.ToIssues("/", err))
			}
		} else if _, req := o.required[k]; req {
			return docskema.Issues{o.requiredIssue(k)}
		}
	}
	return nil
}

func (o *objectSchema) JSONSchema() (*js.Schema, error) {
	props := make(map[string]*js.Schema, len(o.fields))
	for _, k := range o.sortedKeys {
		ps, err := o.fields[k].JSONSchema()
		if err != nil {
			return nil, err
		}
		if ps == nil {
			ps = &js.Schema{}
		}
		props[k] = ps
	}
	var additional any
	switch o.unknownPolicy {
	case docskema.UnknownStrict:
		additional = false
	case docskema.UnknownStrip:
		// Runtime accepts then discards unknown keys.
		additional = true
	}
	return &js.Schema{Type: "object", Properties: props, Required: sortedKeys(o.required), AdditionalProperties: additional}, nil
}
