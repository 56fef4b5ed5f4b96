package docimport

import (
	"encoding/json"
	"math"
	"regexp"
	"sort"

	"github.com/reoring/docskema"
	"github.com/reoring/docskema/docschema"
	"github.com/reoring/docskema/dsl"
)

// Translate converts a persistence schema into a validator for documents of
// that shape. It is pure and total: the input is not modified, and constraints
// that have no meaning for a declared kind are ignored (see TranslateWith for
// the warnings).
func Translate(s docschema.Schema) docskema.Schema[map[string]any] {
	out, _ := TranslateWith(s, Options{})
	return out
}

// TranslateWith is Translate with options and diagnostics.
func TranslateWith(s docschema.Schema, opts Options) (docskema.Schema[map[string]any], Diag) {
	d := &simpleDiag{}
	if s.Kind != docschema.KindNested {
		d.warnf("root declared as %s treated as a schema", s.Kind)
	}
	t := translator{opts: opts, d: d}
	return t.object("", s), d
}

type translator struct {
	opts Options
	d    *simpleDiag
}

// node maps one declaration to a rule. Presence (required/default) is applied
// by the enclosing object, so it is not handled here.
func (t translator) node(path string, n docschema.Node) dsl.AnyAdapter {
	t.warnExtra(path, n)
	c := n.Constraints
	switch n.Kind {
	case docschema.KindString:
		sb := dsl.String()
		if lo, ok := t.lowerLength(path, c); ok {
			sb.Min(lo)
		}
		if hi, ok := t.upperLength(path, c); ok {
			sb.Max(hi)
		}
		if c.Match != "" {
			if _, err := regexp.Compile(c.Match); err != nil {
				t.d.warnf("%s: match %q does not compile; ignored: %v", displayPath(path), c.Match, err)
			} else {
				sb.Pattern(c.Match)
			}
		}
		if len(c.Enum) > 0 {
			sb.Enum(c.Enum...)
		}
		return dsl.SchemaOf[string](sb)
	case docschema.KindNumber:
		t.ignore(path, n, c.MinLength != nil, "minlength")
		t.ignore(path, n, c.MaxLength != nil, "maxlength")
		t.ignore(path, n, len(c.Enum) > 0, "enum")
		t.ignore(path, n, c.Match != "", "match")
		nb := dsl.Number()
		if c.Min != nil {
			nb.Min(*c.Min)
		}
		if c.Max != nil {
			nb.Max(*c.Max)
		}
		return dsl.SchemaOf[json.Number](nb)
	case docschema.KindDate:
		t.ignoreRules(path, n)
		return dsl.DateOf()
	case docschema.KindBoolean:
		t.ignoreRules(path, n)
		return dsl.BoolOf()
	case docschema.KindObjectID:
		t.ignoreRules(path, n)
		return dsl.ObjectIDOf()
	case docschema.KindArray:
		t.ignoreRules(path, n)
		var elem dsl.AnyAdapter // zero adapter: any element
		if n.Elem != nil {
			elem = t.node(path+"/*", *n.Elem)
		}
		return dsl.ArrayOf(elem)
	case docschema.KindNested:
		t.ignoreRules(path, n)
		return dsl.SchemaOf(t.object(path, n))
	default:
		t.ignoreRules(path, n)
		return dsl.AnyOf()
	}
}

func (t translator) object(path string, n docschema.Node) docskema.Schema[map[string]any] {
	b := dsl.Object().NullAsMissing()
	switch t.opts.Unknown {
	case UnknownStrict:
		b.UnknownStrict()
	default:
		b.UnknownStrip()
	}
	for _, f := range n.Fields {
		p := path + "/" + docskema.EscapePointerToken(f.Name)
		step := b.Field(f.Name, t.node(p, f.Node))
		c := f.Node.Constraints
		if c.Required {
			step.Required()
		}
		if c.HasDefault {
			if t.opts.ApplyDefaults {
				step.Default(c.Default)
			} else {
				step.Annotate(c.Default)
			}
		}
	}
	// every required name was declared just above, so Build cannot fail
	return b.MustBuild()
}

func (t translator) ignore(path string, n docschema.Node, set bool, name string) {
	if set {
		t.d.warnf("%s: %s does not apply to %s; ignored", displayPath(path), name, n.Kind)
	}
}

func (t translator) ignoreRules(path string, n docschema.Node) {
	c := n.Constraints
	t.ignore(path, n, c.Min != nil, "min")
	t.ignore(path, n, c.Max != nil, "max")
	t.ignore(path, n, c.MinLength != nil, "minlength")
	t.ignore(path, n, c.MaxLength != nil, "maxlength")
	t.ignore(path, n, len(c.Enum) > 0, "enum")
	t.ignore(path, n, c.Match != "", "match")
}

func (t translator) warnExtra(path string, n docschema.Node) {
	if len(n.Extra) == 0 {
		return
	}
	keys := make([]string, 0, len(n.Extra))
	for k := range n.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		t.d.warnf("%s: option %q has no validation rule; ignored", displayPath(path), k)
	}
}

func displayPath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

// lowerLength merges min and minlength; both bound string length and the
// tighter one wins.
func (t translator) lowerLength(path string, c docschema.Constraints) (int, bool) {
	lo, ok := 0, false
	if c.Min != nil {
		lo, ok = t.lengthBound(path, "min", math.Ceil(*c.Min))
	}
	if c.MinLength != nil {
		if v, vok := t.lengthBound(path, "minlength", float64(*c.MinLength)); vok && (!ok || v > lo) {
			lo, ok = v, true
		}
	}
	return lo, ok
}

func (t translator) upperLength(path string, c docschema.Constraints) (int, bool) {
	hi, ok := 0, false
	if c.Max != nil {
		hi, ok = t.lengthBound(path, "max", math.Floor(*c.Max))
	}
	if c.MaxLength != nil {
		if v, vok := t.lengthBound(path, "maxlength", float64(*c.MaxLength)); vok && (!ok || v < hi) {
			hi, ok = v, true
		}
	}
	return hi, ok
}

// lengthBound converts a declared length bound to an int in [0, MaxInt].
// NaN is dropped; negative and infinite bounds are clamped with a warning.
func (t translator) lengthBound(path, name string, f float64) (int, bool) {
	switch {
	case math.IsNaN(f):
		t.d.warnf("%s: %s is not a number; ignored", displayPath(path), name)
		return 0, false
	case f < 0:
		t.d.warnf("%s: %s %v is negative; using 0", displayPath(path), name, f)
		return 0, true
	case math.IsInf(f, 1):
		t.d.warnf("%s: %s is infinite; using %d", displayPath(path), name, math.MaxInt)
		return math.MaxInt, true
	case f >= float64(math.MaxInt):
		return math.MaxInt, true
	}
	return int(f), true
}
