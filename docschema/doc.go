// Package docschema models document-database (mongoose-style) persistence
// schemas as an explicit tree of declarations.
//
// Each Node carries one Kind: a primitive (String, Number, Date, Boolean,
// ObjectId, Mixed), an Array with an optional element declaration, or a Nested
// sub-document with ordered Fields. Constraints (required, min, max, ...)
// decorate any node.
//
// Load reads the shapes found in mongoose definitions (bare type names, [] and
// [T] lists, {type: ..., required: ...} declarations, nested mappings) from
// YAML or JSON and resolves them into this tree once, so later stages never
// inspect shapes again.
package docschema
