package dsl

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"

	"github.com/reoring/docskema"
	js "github.com/reoring/docskema/jsonschema"
)

// NumberBuilder exposes chaining options for number schemas while
// implementing Schema[json.Number].
type NumberBuilder interface {
	docskema.Schema[json.Number]
	// Min sets the inclusive lower bound.
	Min(x float64) NumberBuilder
	// Max sets the inclusive upper bound.
	Max(x float64) NumberBuilder
}

// Number returns a numeric schema. It accepts json.Number and Go numeric
// kinds and normalizes them to json.Number; strings are rejected.
func Number() NumberBuilder { return &numberSchema{} }

// NumberOf returns Number() wrapped as an AnyAdapter.
func NumberOf() AnyAdapter { return SchemaOf[json.Number](Number()) }

type numberSchema struct {
	min *float64
	max *float64
}

func (n *numberSchema) Min(x float64) NumberBuilder { n.min = &x; return n }
func (n *numberSchema) Max(x float64) NumberBuilder { n.max = &x; return n }

// toNumber converts a decoded value to json.Number. ok is false for non-numeric
// kinds; finite is false for NaN, ±Inf and numbers outside float64 range.
func toNumber(v any) (num json.Number, ok bool, finite bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if errors.Is(err, strconv.ErrRange) {
			// well-formed but beyond float64
			return t, true, false
		}
		if err != nil {
			return "", false, false
		}
		return t, true, !math.IsInf(f, 0) && !math.IsNaN(f)
	case float64:
		if math.IsInf(t, 0) || math.IsNaN(t) {
			return "", true, false
		}
		return json.Number(strconv.FormatFloat(t, 'g', -1, 64)), true, true
	case float32:
		f := float64(t)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return "", true, false
		}
		return json.Number(strconv.FormatFloat(f, 'g', -1, 32)), true, true
	case int:
		return json.Number(strconv.FormatInt(int64(t), 10)), true, true
	case int8:
		return json.Number(strconv.FormatInt(int64(t), 10)), true, true
	case int16:
		return json.Number(strconv.FormatInt(int64(t), 10)), true, true
	case int32:
		return json.Number(strconv.FormatInt(int64(t), 10)), true, true
	case int64:
		return json.Number(strconv.FormatInt(t, 10)), true, true
	case uint:
		return json.Number(strconv.FormatUint(uint64(t), 10)), true, true
	case uint8:
		return json.Number(strconv.FormatUint(uint64(t), 10)), true, true
	case uint16:
		return json.Number(strconv.FormatUint(uint64(t), 10)), true, true
	case uint32:
		return json.Number(strconv.FormatUint(uint64(t), 10)), true, true
	case uint64:
		return json.Number(strconv.FormatUint(t, 10)), true, true
	default:
		return "", false, false
	}
}

func notFinite() docskema.Issues {
	return docskema.Issues{rootIssue(docskema.CodeInvalidFormat, "number must be finite and within float64 range", map[string]any{"format": "number"})}
}

func (n *numberSchema) Parse(ctx context.Context, v any) (json.Number, error) {
	num, ok, finite := toNumber(v)
	if !ok {
		return "", invalidType("number")
	}
	if !finite {
		return "", notFinite()
	}
	if err := n.ValidateValue(ctx, num); err != nil {
		return "", err
	}
	return num, nil
}

func (n *numberSchema) TypeCheck(ctx context.Context, v any) error {
	if _, ok, _ := toNumber(v); !ok {
		return invalidType("number")
	}
	return nil
}

func (n *numberSchema) RuleCheck(ctx context.Context, v any) error {
	num, ok, finite := toNumber(v)
	if !ok {
		return nil
	}
	if !finite {
		return notFinite()
	}
	return n.ValidateValue(ctx, num)
}

func (n *numberSchema) Validate(ctx context.Context, v any) error {
	if err := n.TypeCheck(ctx, v); err != nil {
		return err
	}
	return n.RuleCheck(ctx, v)
}

func (n *numberSchema) ValidateValue(ctx context.Context, v json.Number) error {
	f, err := v.Float64()
	if errors.Is(err, strconv.ErrRange) {
		return notFinite()
	}
	if err != nil {
		return docskema.Issues{{Path: "/", Code: docskema.CodeParseError, Message: err.Error(), Cause: err}}
	}
	var iss docskema.Issues
	if n.min != nil && f < *n.min {
		iss = docskema.AppendIssues(iss, rootIssue(docskema.CodeTooSmall, "number is below min", map[string]any{"min": *n.min, "got": f}))
		if docskema.IsFailFast(ctx) {
			return iss
		}
	}
	if n.max != nil && f > *n.max {
		iss = docskema.AppendIssues(iss, rootIssue(docskema.CodeTooBig, "number is above max", map[string]any{"max": *n.max, "got": f}))
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

func (n *numberSchema) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{Type: "number"}
	if n.min != nil {
		x := *n.min
		out.Minimum = &x
	}
	if n.max != nil {
		x := *n.max
		out.Maximum = &x
	}
	return out, nil
}
