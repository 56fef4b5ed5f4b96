package dsl_test

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/reoring/docskema"
	d "github.com/reoring/docskema/dsl"
)

func firstCode(t *testing.T, err error) string {
	t.Helper()
	iss, ok := docskema.AsIssues(err)
	if !ok || len(iss) == 0 {
		t.Fatalf("expected Issues error, got %v", err)
	}
	return iss[0].Code
}

func TestStringSchema_Basic(t *testing.T) {
	s := d.String()
	ctx := context.Background()

	v, err := s.Parse(ctx, "hello")
	if err != nil || v != "hello" {
		t.Fatalf("parse ok expected, got v=%v err=%v", v, err)
	}
	if _, err := s.Parse(ctx, ""); err != nil {
		t.Fatalf("empty string should pass without min: %v", err)
	}

	_, err = s.Parse(ctx, 123)
	if code := firstCode(t, err); code != docskema.CodeInvalidType {
		t.Fatalf("expected invalid_type, got %s", code)
	}
}

func TestStringSchema_MinIsInclusiveAndCountsRunes(t *testing.T) {
	ctx := context.Background()
	s := d.String().Min(2)
	if _, err := s.Parse(ctx, "hello"); err != nil {
		t.Fatalf("hello should pass min 2: %v", err)
	}
	if _, err := s.Parse(ctx, "hi"); err != nil {
		t.Fatalf("length equal to min should pass: %v", err)
	}
	if _, err := s.Parse(ctx, "日本"); err != nil {
		t.Fatalf("two runes should pass min 2: %v", err)
	}
	_, err := s.Parse(ctx, "h")
	if code := firstCode(t, err); code != docskema.CodeTooShort {
		t.Fatalf("expected too_short, got %s", code)
	}
	iss, _ := docskema.AsIssues(err)
	if iss[0].Params["min"] != 2 || iss[0].Params["got"] != 1 {
		t.Fatalf("unexpected params: %v", iss[0].Params)
	}
}

func TestStringSchema_MaxPatternEnum(t *testing.T) {
	ctx := context.Background()
	if code := firstCode(t, d.String().Max(3).Validate(ctx, "abcd")); code != docskema.CodeTooLong {
		t.Fatalf("expected too_long, got %s", code)
	}
	if code := firstCode(t, d.String().Pattern(`^[a-z]+$`).Validate(ctx, "ABC")); code != docskema.CodePattern {
		t.Fatalf("expected pattern, got %s", code)
	}
	e := d.String().Enum("draft", "published")
	if err := e.Validate(ctx, "draft"); err != nil {
		t.Fatalf("enum member should pass: %v", err)
	}
	if code := firstCode(t, e.Validate(ctx, "gone")); code != docskema.CodeInvalidEnum {
		t.Fatalf("expected invalid_enum, got %s", code)
	}
	js, _ := e.JSONSchema()
	if js.Type != "string" || len(js.Enum) != 2 {
		t.Fatalf("unexpected json schema: %+v", js)
	}
}

func TestNumberSchema_Basic(t *testing.T) {
	s := d.Number()
	ctx := context.Background()

	n := json.Number("123.45")
	v, err := s.Parse(ctx, n)
	if err != nil || v != n {
		t.Fatalf("expected roundtrip json.Number, got v=%v err=%v", v, err)
	}
	if v, err := s.Parse(ctx, 123); err != nil || v != "123" {
		t.Fatalf("int should normalize to json.Number, got v=%v err=%v", v, err)
	}
	if v, err := s.Parse(ctx, 1.5); err != nil || v != "1.5" {
		t.Fatalf("float should normalize to json.Number, got v=%v err=%v", v, err)
	}

	// strings are not numbers
	_, err = s.Parse(ctx, "hello")
	if code := firstCode(t, err); code != docskema.CodeInvalidType {
		t.Fatalf("expected invalid_type, got %s", code)
	}
	_, err = s.Parse(ctx, "1.0")
	if code := firstCode(t, err); code != docskema.CodeInvalidType {
		t.Fatalf("numeric strings are not coerced, got %s", code)
	}
	_, err = s.Parse(ctx, math.NaN())
	if code := firstCode(t, err); code != docskema.CodeInvalidFormat {
		t.Fatalf("expected invalid_format for NaN, got %s", code)
	}
	// well-formed but beyond float64
	_, err = s.Parse(ctx, json.Number("1e400"))
	if code := firstCode(t, err); code != docskema.CodeInvalidFormat {
		t.Fatalf("expected invalid_format for 1e400, got %s", code)
	}
	if code := firstCode(t, s.Validate(ctx, json.Number("-1e400"))); code != docskema.CodeInvalidFormat {
		t.Fatalf("expected invalid_format from Validate, got %s", code)
	}
	_, err = s.Parse(ctx, json.Number("abc"))
	if code := firstCode(t, err); code != docskema.CodeInvalidType {
		t.Fatalf("malformed json.Number is not a number, got %s", code)
	}
}

func TestNumberSchema_MinMax(t *testing.T) {
	ctx := context.Background()
	s := d.Number().Min(0).Max(10)
	for _, ok := range []any{0, 10, json.Number("5.5")} {
		if err := s.Validate(ctx, ok); err != nil {
			t.Fatalf("%v should pass: %v", ok, err)
		}
	}
	if code := firstCode(t, s.Validate(ctx, -1)); code != docskema.CodeTooSmall {
		t.Fatalf("expected too_small, got %s", code)
	}
	if code := firstCode(t, s.Validate(ctx, 10.5)); code != docskema.CodeTooBig {
		t.Fatalf("expected too_big, got %s", code)
	}
}

func TestBoolSchema_Basic(t *testing.T) {
	s := d.Bool()
	ctx := context.Background()

	v, err := s.Parse(ctx, true)
	if err != nil || v != true {
		t.Fatalf("parse ok expected, got v=%v err=%v", v, err)
	}
	if _, err = s.Parse(ctx, "nope"); err == nil {
		t.Fatalf("expected error for invalid type")
	}
}

func TestDateSchema(t *testing.T) {
	s := d.Date()
	ctx := context.Background()

	now := time.Now()
	if v, err := s.Parse(ctx, now); err != nil || !v.Equal(now) {
		t.Fatalf("time.Time should pass, got v=%v err=%v", v, err)
	}
	v, err := s.Parse(ctx, "2024-05-01T10:00:00Z")
	if err != nil || v.Year() != 2024 {
		t.Fatalf("RFC3339 string should convert, got v=%v err=%v", v, err)
	}
	v, err = s.Parse(ctx, "2024-05-01")
	if err != nil || !v.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date-only string should convert to midnight UTC, got v=%v err=%v", v, err)
	}
	if err := s.Validate(ctx, "2024-05-01"); err != nil {
		t.Fatalf("date-only string should validate: %v", err)
	}
	_, err = s.Parse(ctx, "2024-13-01")
	if code := firstCode(t, err); code != docskema.CodeInvalidFormat {
		t.Fatalf("expected invalid_format for month 13, got %s", code)
	}
	_, err = s.Parse(ctx, "hi")
	if code := firstCode(t, err); code != docskema.CodeInvalidFormat {
		t.Fatalf("expected invalid_format, got %s", code)
	}
	_, err = s.Parse(ctx, 123)
	if code := firstCode(t, err); code != docskema.CodeInvalidType {
		t.Fatalf("expected invalid_type, got %s", code)
	}
	js, _ := s.JSONSchema()
	if js.Format != "date-time" {
		t.Fatalf("expected date-time format, got %q", js.Format)
	}
}

func TestObjectIDSchema(t *testing.T) {
	s := d.ObjectID()
	ctx := context.Background()
	if _, err := s.Parse(ctx, "507f1f77bcf86cd799439011"); err != nil {
		t.Fatalf("valid id should pass: %v", err)
	}
	_, err := s.Parse(ctx, "507f1f77")
	if code := firstCode(t, err); code != docskema.CodeInvalidFormat {
		t.Fatalf("expected invalid_format, got %s", code)
	}
	_, err = s.Parse(ctx, 42)
	if code := firstCode(t, err); code != docskema.CodeInvalidType {
		t.Fatalf("expected invalid_type, got %s", code)
	}
}

func TestAnySchema(t *testing.T) {
	ctx := context.Background()
	for _, v := range []any{"hello", 123, nil, []any{1}, map[string]any{}} {
		if _, err := d.Any().Parse(ctx, v); err != nil {
			t.Fatalf("%v should pass: %v", v, err)
		}
	}
	if err := d.AnyOf().ValidateValue(ctx, nil); err != nil {
		t.Fatalf("nil should validate against Any: %v", err)
	}
}
