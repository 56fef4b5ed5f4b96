package docschema

import "strings"

// Kind discriminates the variants of a Node.
type Kind int

const (
	KindMixed Kind = iota // opaque-any; also the kind of untyped declarations
	KindString
	KindNumber
	KindDate
	KindBoolean
	KindObjectID
	KindArray
	KindNested
)

var kindNames = [...]string{
	KindMixed:    "Mixed",
	KindString:   "String",
	KindNumber:   "Number",
	KindDate:     "Date",
	KindBoolean:  "Boolean",
	KindObjectID: "ObjectId",
	KindArray:    "Array",
	KindNested:   "Schema",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Constraints are the validation modifiers attached to a field declaration.
// Nil pointers mean "not set".
type Constraints struct {
	Required bool
	// Min bounds the length of strings and the value of numbers.
	Min *float64
	// Max bounds the length of strings and the value of numbers.
	Max       *float64
	MinLength *int
	MaxLength *int
	Enum      []string
	Match     string
	Default   any
	// HasDefault distinguishes an explicit nil default from no default.
	HasDefault bool
}

func (c Constraints) clone() Constraints {
	out := c
	if c.Min != nil {
		v := *c.Min
		out.Min = &v
	}
	if c.Max != nil {
		v := *c.Max
		out.Max = &v
	}
	if c.MinLength != nil {
		v := *c.MinLength
		out.MinLength = &v
	}
	if c.MaxLength != nil {
		v := *c.MaxLength
		out.MaxLength = &v
	}
	out.Enum = append([]string(nil), c.Enum...)
	return out
}

// Node is one field or sub-document definition. Exactly one variant is
// meaningful per Kind:
//
//   - KindArray: Elem is the element declaration, or nil for "any element".
//   - KindNested: Fields is the ordered child mapping.
//   - other kinds: leaf; Elem and Fields are unused.
type Node struct {
	Kind        Kind
	Elem        *Node
	Fields      []Field
	Constraints Constraints
	// Extra holds declaration options with no validation meaning (index,
	// unique, trim, ...), keyed as written.
	Extra map[string]any
}

// Field is a named child of a nested node.
type Field struct {
	Name string
	Node Node
}

// Schema is the root of a persistence schema: a nested node.
type Schema = Node

// Leaf constructors.

func String() Node   { return Node{Kind: KindString} }
func Number() Node   { return Node{Kind: KindNumber} }
func Date() Node     { return Node{Kind: KindDate} }
func Boolean() Node  { return Node{Kind: KindBoolean} }
func ObjectID() Node { return Node{Kind: KindObjectID} }
func Mixed() Node    { return Node{Kind: KindMixed} }

// ArrayOf declares a sequence whose elements are declared by elem.
func ArrayOf(elem Node) Node {
	e := elem.Clone()
	return Node{Kind: KindArray, Elem: &e}
}

// AnyArray declares a sequence of elements of any type (the empty list marker).
func AnyArray() Node { return Node{Kind: KindArray} }

// Nested declares a sub-document with the given fields.
func Nested(fields ...Field) Node {
	n := Node{Kind: KindNested, Fields: make([]Field, 0, len(fields))}
	for _, f := range fields {
		n.Fields = append(n.Fields, Field{Name: f.Name, Node: f.Node.Clone()})
	}
	return n
}

// New declares a root schema; it is Nested under another name.
func New(fields ...Field) Schema { return Nested(fields...) }

// F pairs a name with a declaration.
func F(name string, n Node) Field { return Field{Name: name, Node: n} }

// Modifiers return a modified copy.

func (n Node) Required() Node {
	n.Constraints = n.Constraints.clone()
	n.Constraints.Required = true
	return n
}

func (n Node) Min(x float64) Node {
	n.Constraints = n.Constraints.clone()
	n.Constraints.Min = &x
	return n
}

func (n Node) Max(x float64) Node {
	n.Constraints = n.Constraints.clone()
	n.Constraints.Max = &x
	return n
}

func (n Node) MinLength(l int) Node {
	n.Constraints = n.Constraints.clone()
	n.Constraints.MinLength = &l
	return n
}

func (n Node) MaxLength(l int) Node {
	n.Constraints = n.Constraints.clone()
	n.Constraints.MaxLength = &l
	return n
}

func (n Node) Enum(vals ...string) Node {
	n.Constraints = n.Constraints.clone()
	n.Constraints.Enum = append([]string(nil), vals...)
	return n
}

func (n Node) Match(expr string) Node {
	n.Constraints = n.Constraints.clone()
	n.Constraints.Match = expr
	return n
}

func (n Node) Default(v any) Node {
	n.Constraints = n.Constraints.clone()
	n.Constraints.Default = v
	n.Constraints.HasDefault = true
	return n
}

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	out := Node{Kind: n.Kind, Constraints: n.Constraints.clone()}
	if n.Extra != nil {
		out.Extra = make(map[string]any, len(n.Extra))
		for k, v := range n.Extra {
			out.Extra[k] = v
		}
	}
	if n.Elem != nil {
		e := n.Elem.Clone()
		out.Elem = &e
	}
	if n.Fields != nil {
		out.Fields = make([]Field, len(n.Fields))
		for i, f := range n.Fields {
			out.Fields[i] = Field{Name: f.Name, Node: f.Node.Clone()}
		}
	}
	return out
}

// Lookup returns the child field with the given name.
func (n Node) Lookup(name string) (Node, bool) {
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Node, true
		}
	}
	return Node{}, false
}

// Describe renders a short declaration such as "[String]" or "Number(min=0,required)".
func (n Node) Describe() string {
	var b strings.Builder
	switch n.Kind {
	case KindArray:
		b.WriteString("[")
		if n.Elem != nil {
			b.WriteString(n.Elem.Describe())
		}
		b.WriteString("]")
	default:
		b.WriteString(n.Kind.String())
	}
	if mods := n.Constraints.describe(); mods != "" {
		b.WriteString("(" + mods + ")")
	}
	return b.String()
}
