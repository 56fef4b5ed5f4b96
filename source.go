package docskema

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ErrMaxBytes is returned by sources whose input exceeds ParseOpt.MaxBytes.
var ErrMaxBytes = errors.New("docskema: max bytes exceeded")

// Source abstracts over the input documents a schema can be applied to.
// Decode must produce JSON-like values: map[string]any, []any, string, bool,
// nil, json.Number (or Go numeric kinds), and time.Time.
type Source interface {
	Decode(opt ParseOpt) (any, error)
	// Format names the wire format ("json", "yaml", "value").
	Format() string
}

// JSONBytes returns a Source over a JSON document. Numbers decode as
// json.Number so precision is preserved.
func JSONBytes(b []byte) Source { return jsonSource{data: b} }

// JSONReader returns a Source reading a JSON document from r.
func JSONReader(r io.Reader) Source { return readerSource{r: r, format: "json"} }

// YAMLBytes returns a Source over a single YAML document.
func YAMLBytes(b []byte) Source { return yamlSource{data: b} }

// YAMLReader returns a Source reading a single YAML document from r.
func YAMLReader(r io.Reader) Source { return readerSource{r: r, format: "yaml"} }

// Value wraps an already decoded Go value.
func Value(v any) Source { return valueSource{v: v} }

type jsonSource struct{ data []byte }

func (s jsonSource) Format() string { return "json" }

func (s jsonSource) Decode(opt ParseOpt) (any, error) {
	if opt.MaxBytes > 0 && int64(len(s.data)) > opt.MaxBytes {
		return nil, ErrMaxBytes
	}
	dec := j.NewDecoder(bytes.NewReader(s.data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("docskema: invalid JSON: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("docskema: invalid JSON: trailing data after document")
	}
	return v, nil
}

type yamlSource struct{ data []byte }

func (s yamlSource) Format() string { return "yaml" }

func (s yamlSource) Decode(opt ParseOpt) (any, error) {
	if opt.MaxBytes > 0 && int64(len(s.data)) > opt.MaxBytes {
		return nil, ErrMaxBytes
	}
	var v any
	if err := yaml.Unmarshal(s.data, &v); err != nil {
		return nil, fmt.Errorf("docskema: invalid YAML: %w", err)
	}
	return normalizeYAML(v), nil
}

type readerSource struct {
	r      io.Reader
	format string
}

func (s readerSource) Format() string { return s.format }

func (s readerSource) Decode(opt ParseOpt) (any, error) {
	r := s.r
	if opt.MaxBytes > 0 {
		r = io.LimitReader(r, opt.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("docskema: read input: %w", err)
	}
	if s.format == "yaml" {
		return yamlSource{data: data}.Decode(opt)
	}
	return jsonSource{data: data}.Decode(opt)
}

type valueSource struct{ v any }

func (s valueSource) Format() string               { return "value" }
func (s valueSource) Decode(ParseOpt) (any, error) { return s.v, nil }

// normalizeYAML converts YAML-decoded values (which may contain map[any]any)
// into JSON-like values recursively. Non-string keys are formatted with %v.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = normalizeYAML(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[fmt.Sprint(k)] = normalizeYAML(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = normalizeYAML(t[i])
		}
		return arr
	default:
		return v
	}
}
