package docskema

import (
	"context"
	"errors"
)

// ParseFrom is the primary entry point. It decodes the Source into an any
// value and delegates validation to the Schema.
func ParseFrom[T any](ctx context.Context, s Schema[T], src Source, opts ...ParseOpt) (T, error) {
	var zero T
	if s == nil {
		return zero, singleIssue(CodeParseError, "nil schema")
	}
	if src == nil {
		return zero, singleIssue(CodeParseError, "nil source")
	}
	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	// propagate fail-fast intent via context for schema implementations
	if opt.FailFast {
		ctx = WithFailFast(ctx, true)
	}
	v, err := src.Decode(opt)
	if err != nil {
		if errors.Is(err, ErrMaxBytes) {
			return zero, Issues{{Path: "/", Code: CodeTruncated, Message: err.Error(), Cause: err}}
		}
		return zero, Issues{{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}}
	}
	return s.Parse(ctx, v)
}

// ValidateFrom is ParseFrom without the parsed value.
func ValidateFrom[T any](ctx context.Context, s Schema[T], src Source, opts ...ParseOpt) error {
	_, err := ParseFrom(ctx, s, src, opts...)
	return err
}

func singleIssue(code, msg string) Issues { return Issues{{Path: "/", Code: code, Message: msg}} }
