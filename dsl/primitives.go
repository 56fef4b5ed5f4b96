package dsl

import (
	"context"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/reoring/docskema"
	js "github.com/reoring/docskema/jsonschema"
)

// StringBuilder exposes chaining options for string schemas while
// implementing Schema[string].
type StringBuilder interface {
	docskema.Schema[string]
	// Min sets the minimum length in characters (inclusive).
	Min(n int) StringBuilder
	// Max sets the maximum length in characters (inclusive).
	Max(n int) StringBuilder
	// Pattern requires the value to match expr. It panics when expr does not compile.
	Pattern(expr string) StringBuilder
	// Enum restricts the value to the given set.
	Enum(vals ...string) StringBuilder
}

// String returns a string schema. Empty strings are accepted unless Min is set.
func String() StringBuilder { return &stringSchema{minLen: -1, maxLen: -1} }

// StringOf returns String() wrapped as an AnyAdapter.
func StringOf() AnyAdapter { return SchemaOf[string](String()) }

type stringSchema struct {
	minLen  int
	maxLen  int
	pattern *regexp.Regexp
	enum    []string
}

func (s *stringSchema) Min(n int) StringBuilder { s.minLen = n; return s }
func (s *stringSchema) Max(n int) StringBuilder { s.maxLen = n; return s }

func (s *stringSchema) Pattern(expr string) StringBuilder {
	s.pattern = regexp.MustCompile(expr)
	return s
}

func (s *stringSchema) Enum(vals ...string) StringBuilder {
	s.enum = append([]string(nil), vals...)
	return s
}

func (s *stringSchema) Parse(ctx context.Context, v any) (string, error) {
	str, ok := v.(string)
	if !ok {
		return "", invalidType("string")
	}
	if err := s.ValidateValue(ctx, str); err != nil {
		return "", err
	}
	return str, nil
}

func (s *stringSchema) TypeCheck(ctx context.Context, v any) error {
	if _, ok := v.(string); !ok {
		return invalidType("string")
	}
	return nil
}

func (s *stringSchema) RuleCheck(ctx context.Context, v any) error {
	str, ok := v.(string)
	if !ok {
		return nil
	}
	return s.ValidateValue(ctx, str)
}

func (s *stringSchema) Validate(ctx context.Context, v any) error {
	if err := s.TypeCheck(ctx, v); err != nil {
		return err
	}
	return s.RuleCheck(ctx, v)
}

func (s *stringSchema) ValidateValue(ctx context.Context, v string) error {
	var iss docskema.Issues
	n := utf8.RuneCountInString(v)
	if s.minLen >= 0 && n < s.minLen {
		iss = docskema.AppendIssues(iss, rootIssue(docskema.CodeTooShort, "string is shorter than min", map[string]any{"min": s.minLen, "got": n}))
		if docskema.IsFailFast(ctx) {
			return iss
		}
	}
	if s.maxLen >= 0 && n > s.maxLen {
		iss = docskema.AppendIssues(iss, rootIssue(docskema.CodeTooLong, "string is longer than max", map[string]any{"max": s.maxLen, "got": n}))
		if docskema.IsFailFast(ctx) {
			return iss
		}
	}
	if s.pattern != nil && !s.pattern.MatchString(v) {
		iss = docskema.AppendIssues(iss, rootIssue(docskema.CodePattern, "", map[string]any{"pattern": s.pattern.String()}))
		if docskema.IsFailFast(ctx) {
			return iss
		}
	}
	if len(s.enum) > 0 && !slices.Contains(s.enum, v) {
		iss = docskema.AppendIssues(iss, rootIssue(docskema.CodeInvalidEnum, "", map[string]any{"values": strings.Join(s.enum, ", ")}))
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

func (s *stringSchema) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{Type: "string"}
	if s.minLen >= 0 {
		n := s.minLen
		out.MinLength = &n
	}
	if s.maxLen >= 0 {
		n := s.maxLen
		out.MaxLength = &n
	}
	if s.pattern != nil {
		out.Pattern = s.pattern.String()
	}
	for _, e := range s.enum {
		out.Enum = append(out.Enum, e)
	}
	return out, nil
}

// Bool returns the minimal bool schema implementation.
func Bool() docskema.Schema[bool] { return boolSchema{} }

// BoolOf returns Bool() wrapped as an AnyAdapter.
func BoolOf() AnyAdapter { return SchemaOf[bool](Bool()) }

type boolSchema struct{}

func (boolSchema) Parse(ctx context.Context, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, invalidType("boolean")
	}
	return b, nil
}

func (boolSchema) TypeCheck(ctx context.Context, v any) error {
	if _, ok := v.(bool); !ok {
		return invalidType("boolean")
	}
	return nil
}

func (boolSchema) RuleCheck(ctx context.Context, v any) error { return nil }

func (boolSchema) Validate(ctx context.Context, v any) error {
	return (boolSchema{}).TypeCheck(ctx, v)
}

func (boolSchema) ValidateValue(ctx context.Context, v bool) error { return nil }

func (boolSchema) JSONSchema() (*js.Schema, error) { return &js.Schema{Type: "boolean"}, nil }

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// ObjectID returns a schema for 12-byte document identifiers rendered as 24
// hexadecimal characters.
func ObjectID() docskema.Schema[string] { return objectIDSchema{} }

// ObjectIDOf returns ObjectID() wrapped as an AnyAdapter.
func ObjectIDOf() AnyAdapter { return SchemaOf[string](ObjectID()) }

type objectIDSchema struct{}

func (objectIDSchema) Parse(ctx context.Context, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", invalidType("objectId")
	}
	if err := (objectIDSchema{}).ValidateValue(ctx, s); err != nil {
		return "", err
	}
	return s, nil
}

func (objectIDSchema) TypeCheck(ctx context.Context, v any) error {
	if _, ok := v.(string); !ok {
		return invalidType("objectId")
	}
	return nil
}

func (objectIDSchema) RuleCheck(ctx context.Context, v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return (objectIDSchema{}).ValidateValue(ctx, s)
}

func (objectIDSchema) Validate(ctx context.Context, v any) error {
	if err := (objectIDSchema{}).TypeCheck(ctx, v); err != nil {
		return err
	}
	return (objectIDSchema{}).RuleCheck(ctx, v)
}

func (objectIDSchema) ValidateValue(ctx context.Context, v string) error {
	if !objectIDPattern.MatchString(v) {
		return docskema.Issues{rootIssue(docskema.CodeInvalidFormat, "expected 24 hex characters", map[string]any{"format": "objectId"})}
	}
	return nil
}

func (objectIDSchema) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Pattern: objectIDPattern.String()}, nil
}

// Any returns a schema that accepts every value, including nil. Presence is
// enforced by the enclosing object.
func Any() docskema.Schema[any] { return anySchema{} }

// AnyOf returns Any() wrapped as an AnyAdapter.
func AnyOf() AnyAdapter { return SchemaOf[any](Any()) }

type anySchema struct{}

func (anySchema) Parse(ctx context.Context, v any) (any, error)  { return v, nil }
func (anySchema) TypeCheck(ctx context.Context, v any) error     { return nil }
func (anySchema) RuleCheck(ctx context.Context, v any) error     { return nil }
func (anySchema) Validate(ctx context.Context, v any) error      { return nil }
func (anySchema) ValidateValue(ctx context.Context, v any) error { return nil }
func (anySchema) JSONSchema() (*js.Schema, error)                { return &js.Schema{}, nil }
