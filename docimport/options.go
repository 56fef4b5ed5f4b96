package docimport

import "fmt"

// UnknownBehavior configures how keys that the persistence schema does not
// declare are treated by the translated validator.
type UnknownBehavior int

const (
	// UnknownStrip accepts and drops undeclared keys, like a strict-mode
	// document model does on save.
	UnknownStrip UnknownBehavior = iota
	// UnknownStrict rejects undeclared keys with unknown_key.
	UnknownStrict
)

// Options controls translation.
type Options struct {
	Unknown UnknownBehavior
	// TypeKey is forwarded to docschema.Load when Import receives a document.
	TypeKey string
	// ApplyDefaults fills absent fields from declared defaults during Parse.
	// Defaults are always exported to JSON Schema.
	ApplyDefaults bool
}

// Diag carries non-fatal warnings produced during translation.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool        { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }
