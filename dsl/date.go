package dsl

import (
	"context"
	"time"

	"github.com/reoring/docskema"
	js "github.com/reoring/docskema/jsonschema"
)

// Date returns a schema for instants. It accepts time.Time values, RFC3339
// strings (the JSON wire form) and date-only strings such as "2024-05-01"
// (midnight UTC), converting strings to time.Time. Numbers are rejected.
func Date() docskema.Schema[time.Time] { return dateSchema{} }

// DateOf returns Date() wrapped as an AnyAdapter.
func DateOf() AnyAdapter { return SchemaOf[time.Time](Date()) }

type dateSchema struct{}

func (dateSchema) Parse(ctx context.Context, v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		if t != nil {
			return *t, nil
		}
	case string:
		tm, err := parseRFC3339(t)
		if err != nil {
			iss := rootIssue(docskema.CodeInvalidFormat, "expected RFC3339 date-time or date", map[string]any{"format": "date-time"})
			iss.Cause = err
			return time.Time{}, docskema.Issues{iss}
		}
		return tm, nil
	}
	return time.Time{}, invalidType("date")
}

func (dateSchema) TypeCheck(ctx context.Context, v any) error {
	switch v.(type) {
	case time.Time, *time.Time, string:
		return nil
	}
	return invalidType("date")
}

func (dateSchema) RuleCheck(ctx context.Context, v any) error {
	if s, ok := v.(string); ok {
		if _, err := parseRFC3339(s); err != nil {
			return docskema.Issues{rootIssue(docskema.CodeInvalidFormat, "expected RFC3339 date-time or date", map[string]any{"format": "date-time"})}
		}
	}
	return nil
}

func (dateSchema) Validate(ctx context.Context, v any) error {
	if err := (dateSchema{}).TypeCheck(ctx, v); err != nil {
		return err
	}
	return (dateSchema{}).RuleCheck(ctx, v)
}

func (dateSchema) ValidateValue(ctx context.Context, v time.Time) error { return nil }

func (dateSchema) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Format: "date-time"}, nil
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}
	if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
		return t2, nil
	}
	if t2, err2 := time.Parse(time.DateOnly, s); err2 == nil {
		return t2, nil
	}
	return time.Time{}, err
}
