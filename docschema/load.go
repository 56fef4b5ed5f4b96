package docschema

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultTypeKey is the declaration key naming a field's type.
const DefaultTypeKey = "type"

// LoadOptions controls how definition documents are read.
type LoadOptions struct {
	// TypeKey names the key that marks a mapping as a field declaration
	// (default "type"). Change it when documents use "type" as a field name.
	TypeKey string
}

// LoadError reports a malformed definition with its location.
type LoadError struct {
	Path string // JSON Pointer-like path of the offending declaration ("" = root)
	Line int    // 1-based line in the document (0 when unknown)
	Msg  string
	Err  error
}

func (e *LoadError) Error() string {
	p := e.Path
	if p == "" {
		p = "/"
	}
	var b strings.Builder
	b.WriteString("docschema: ")
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	fmt.Fprintf(&b, "%s: %s", p, e.Msg)
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Err }

// ErrEmptyDefinition is returned for documents without any content.
var ErrEmptyDefinition = errors.New("docschema: empty definition")

// LoadFile reads and loads a YAML or JSON definition file.
func LoadFile(path string, opts LoadOptions) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("docschema: read %s: %w", path, err)
	}
	return Load(data, opts)
}

// Load parses a mongoose-style definition document (YAML or JSON) into a
// Schema. Field order follows the document.
//
// Accepted declaration shapes:
//
//	word: String                          # bare type name
//	tags: []                              # array of anything
//	words: [String]                       # array of a declaration
//	age: {type: Number, min: 0}           # declaration with constraints
//	location: {lat: String, lng: String}  # nested schema
//	meta: {type: {a: String}, required: true}
func Load(data []byte, opts LoadOptions) (Schema, error) {
	if opts.TypeKey == "" {
		opts.TypeKey = DefaultTypeKey
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Schema{}, &LoadError{Msg: "invalid document", Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return Schema{}, ErrEmptyDefinition
	}
	root := resolveAlias(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return Schema{}, &LoadError{Line: root.Line, Msg: "root must be a mapping of field names to declarations"}
	}
	l := loader{typeKey: opts.TypeKey}
	fields, err := l.fields("", root)
	if err != nil {
		return Schema{}, err
	}
	return Node{Kind: KindNested, Fields: fields}, nil
}

type loader struct{ typeKey string }

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// isMergeKey reports whether k is a YAML merge key (<<).
func isMergeKey(k *yaml.Node) bool {
	return k.Kind == yaml.ScalarNode && k.Value == "<<" && (k.Tag == "" || k.Tag == "!" || k.ShortTag() == "!!merge")
}

// expandMerge returns m with merge keys replaced by the pairs of the merged
// mappings, placed where the merge key stood. Keys written in m itself win
// over merged ones; among several merged mappings the first one wins.
func expandMerge(path string, m *yaml.Node) (*yaml.Node, error) {
	own := make(map[string]struct{}, len(m.Content)/2)
	merges := 0
	for i := 0; i+1 < len(m.Content); i += 2 {
		if isMergeKey(m.Content[i]) {
			merges++
			continue
		}
		own[m.Content[i].Value] = struct{}{}
	}
	if merges == 0 {
		return m, nil
	}
	out := *m
	out.Content = make([]*yaml.Node, 0, len(m.Content))
	merged := make(map[string]struct{})
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		if !isMergeKey(k) {
			out.Content = append(out.Content, k, v)
			continue
		}
		srcs := []*yaml.Node{v}
		if rv := resolveAlias(v); rv.Kind == yaml.SequenceNode {
			srcs = rv.Content
		}
		for _, src := range srcs {
			sm := resolveAlias(src)
			if sm.Kind != yaml.MappingNode {
				return nil, &LoadError{Path: path, Line: k.Line, Msg: "merge key must reference a mapping"}
			}
			sm, err := expandMerge(path, sm)
			if err != nil {
				return nil, err
			}
			for j := 0; j+1 < len(sm.Content); j += 2 {
				name := sm.Content[j].Value
				if _, ok := own[name]; ok {
					continue
				}
				if _, ok := merged[name]; ok {
					continue
				}
				merged[name] = struct{}{}
				out.Content = append(out.Content, sm.Content[j], sm.Content[j+1])
			}
		}
	}
	return &out, nil
}

func (l loader) fields(base string, m *yaml.Node) ([]Field, error) {
	m, err := expandMerge(base, m)
	if err != nil {
		return nil, err
	}
	out := make([]Field, 0, len(m.Content)/2)
	seen := make(map[string]struct{}, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		name := k.Value
		p := base + "/" + escapeToken(name)
		if _, dup := seen[name]; dup {
			return nil, &LoadError{Path: p, Line: k.Line, Msg: "duplicate field"}
		}
		seen[name] = struct{}{}
		n, err := l.decl(p, v)
		if err != nil {
			return nil, err
		}
		out = append(out, Field{Name: name, Node: n})
	}
	return out, nil
}

// decl resolves one declaration. Precedence: sequence, then empty mapping
// (Mixed), then declaration mapping (type key holding a type name, sequence or
// mapping), then nested mapping, then bare type name.
func (l loader) decl(path string, v *yaml.Node) (Node, error) {
	v = resolveAlias(v)
	switch v.Kind {
	case yaml.SequenceNode:
		switch len(v.Content) {
		case 0:
			return AnyArray(), nil
		case 1:
			elem, err := l.decl(path+"/*", v.Content[0])
			if err != nil {
				return Node{}, err
			}
			return Node{Kind: KindArray, Elem: &elem}, nil
		default:
			return Node{}, &LoadError{Path: path, Line: v.Line, Msg: fmt.Sprintf("array declaration must have at most one element, got %d", len(v.Content))}
		}
	case yaml.MappingNode:
		if len(v.Content) == 0 {
			// {} declares a free-form value
			return Mixed(), nil
		}
		var err error
		if v, err = expandMerge(path, v); err != nil {
			return Node{}, err
		}
		if tv, idx := l.typeValue(v); tv != nil {
			return l.declaration(path, v, tv, idx)
		}
		fields, err := l.fields(path, v)
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: KindNested, Fields: fields}, nil
	case yaml.ScalarNode:
		if v.Tag == "!!null" {
			return Mixed(), nil
		}
		k, ok := ParseKind(v.Value)
		if !ok {
			return Node{}, &LoadError{Path: path, Line: v.Line, Msg: fmt.Sprintf("unknown type %q", v.Value)}
		}
		if k == KindArray {
			return AnyArray(), nil
		}
		return Node{Kind: k}, nil
	default:
		return Node{}, &LoadError{Path: path, Line: v.Line, Msg: "unsupported declaration"}
	}
}

// typeValue returns the value under the type key when it marks m as a
// declaration, together with its key index in m.Content.
func (l loader) typeValue(m *yaml.Node) (*yaml.Node, int) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value != l.typeKey {
			continue
		}
		tv := resolveAlias(m.Content[i+1])
		switch tv.Kind {
		case yaml.SequenceNode, yaml.MappingNode:
			return tv, i
		case yaml.ScalarNode:
			if _, ok := ParseKind(tv.Value); ok && tv.Tag != "!!null" {
				return tv, i
			}
		}
		return nil, -1
	}
	return nil, -1
}

// rawConstraints is the mapstructure target for declaration options.
// Field names match case-insensitively (minlength / minLength).
type rawConstraints struct {
	Required  bool     `mapstructure:"required"`
	Min       *float64 `mapstructure:"min"`
	Max       *float64 `mapstructure:"max"`
	MinLength *int     `mapstructure:"minlength"`
	MaxLength *int     `mapstructure:"maxlength"`
	Enum      []any    `mapstructure:"enum"`
	Match     string   `mapstructure:"match"`
	Default   any      `mapstructure:"default"`
}

func (l loader) declaration(path string, m, tv *yaml.Node, typeIdx int) (Node, error) {
	var n Node
	if tv.Kind == yaml.MappingNode && len(tv.Content) > 0 {
		fields, err := l.fields(path, tv)
		if err != nil {
			return Node{}, err
		}
		n = Node{Kind: KindNested, Fields: fields}
	} else {
		var err error
		if n, err = l.decl(path, tv); err != nil {
			return Node{}, err
		}
	}

	opts := make(map[string]any, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		if i == typeIdx {
			continue
		}
		var val any
		if err := m.Content[i+1].Decode(&val); err != nil {
			return Node{}, &LoadError{Path: path, Line: m.Content[i+1].Line, Msg: fmt.Sprintf("option %q", m.Content[i].Value), Err: err}
		}
		opts[m.Content[i].Value] = val
	}
	if len(opts) == 0 {
		return n, nil
	}

	var raw rawConstraints
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &raw, Metadata: &md})
	if err != nil {
		return Node{}, err
	}
	if err := dec.Decode(opts); err != nil {
		return Node{}, &LoadError{Path: path, Line: m.Line, Msg: "invalid constraint", Err: err}
	}
	if raw.Match != "" {
		if _, err := regexp.Compile(raw.Match); err != nil {
			return Node{}, &LoadError{Path: path, Line: m.Line, Msg: "invalid match pattern", Err: err}
		}
	}
	enum, extraEnum := stringEnum(raw.Enum)
	_, hasDefault := lookupFold(opts, "default")
	n.Constraints = Constraints{
		Required:   raw.Required,
		Min:        raw.Min,
		Max:        raw.Max,
		MinLength:  raw.MinLength,
		MaxLength:  raw.MaxLength,
		Enum:       enum,
		Match:      raw.Match,
		Default:    raw.Default,
		HasDefault: hasDefault,
	}
	if extraEnum {
		// only string enums have a rule; others are carried as written
		md.Unused = append(md.Unused, keyFold(opts, "enum"))
	}
	if len(md.Unused) > 0 {
		n.Extra = make(map[string]any, len(md.Unused))
		for _, k := range md.Unused {
			n.Extra[k] = opts[k]
		}
	}
	return n, nil
}

// stringEnum returns vals as strings. extra is true when some value is not a
// string.
func stringEnum(vals []any) (out []string, extra bool) {
	if len(vals) == 0 {
		return nil, false
	}
	out = make([]string, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			return nil, true
		}
		out = append(out, s)
	}
	return out, false
}

func keyFold(m map[string]any, key string) string {
	for k := range m {
		if strings.EqualFold(k, key) {
			return k
		}
	}
	return key
}

func lookupFold(m map[string]any, key string) (any, bool) {
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// ParseKind resolves a type name. Names are case-insensitive and may carry a
// "Schema.Types." or "mongoose.Schema.Types." prefix.
func ParseKind(name string) (Kind, bool) {
	s := strings.TrimSpace(name)
	for _, prefix := range []string{"mongoose.Schema.Types.", "Schema.Types.", "Types."} {
		if len(s) > len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
			s = s[len(prefix):]
			break
		}
	}
	switch strings.ToLower(s) {
	case "string":
		return KindString, true
	case "number", "decimal128", "double", "int32", "long":
		return KindNumber, true
	case "date":
		return KindDate, true
	case "boolean", "bool":
		return KindBoolean, true
	case "objectid", "oid":
		return KindObjectID, true
	case "mixed", "any", "object":
		return KindMixed, true
	case "array":
		return KindArray, true
	}
	return 0, false
}
