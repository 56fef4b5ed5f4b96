package docschema

import (
	"fmt"
	"strconv"
	"strings"
)

// WalkFunc is called for every node below the root. path is a JSON
// Pointer-like location where array elements appear as "/*".
type WalkFunc func(path string, n Node) error

// Walk visits the fields of s depth-first in declaration order. Returning a
// non-nil error from fn stops the walk and returns that error.
func Walk(s Schema, fn WalkFunc) error { return walk("", s, fn) }

func walk(base string, n Node, fn WalkFunc) error {
	switch n.Kind {
	case KindNested:
		for _, f := range n.Fields {
			p := base + "/" + escapeToken(f.Name)
			if err := fn(p, f.Node); err != nil {
				return err
			}
			if err := walk(p, f.Node, fn); err != nil {
				return err
			}
		}
	case KindArray:
		if n.Elem != nil {
			p := base + "/*"
			if err := fn(p, *n.Elem); err != nil {
				return err
			}
			return walk(p, *n.Elem, fn)
		}
	}
	return nil
}

func escapeToken(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

func (c Constraints) describe() string {
	var parts []string
	if c.Required {
		parts = append(parts, "required")
	}
	if c.Min != nil {
		parts = append(parts, "min="+strconv.FormatFloat(*c.Min, 'g', -1, 64))
	}
	if c.Max != nil {
		parts = append(parts, "max="+strconv.FormatFloat(*c.Max, 'g', -1, 64))
	}
	if c.MinLength != nil {
		parts = append(parts, "minlength="+strconv.Itoa(*c.MinLength))
	}
	if c.MaxLength != nil {
		parts = append(parts, "maxlength="+strconv.Itoa(*c.MaxLength))
	}
	if len(c.Enum) > 0 {
		parts = append(parts, "enum="+strings.Join(c.Enum, "|"))
	}
	if c.Match != "" {
		parts = append(parts, "match="+c.Match)
	}
	if c.HasDefault {
		parts = append(parts, fmt.Sprintf("default=%v", c.Default))
	}
	return strings.Join(parts, ",")
}
