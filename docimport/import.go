package docimport

import (
	"fmt"

	"github.com/reoring/docskema"
	"github.com/reoring/docskema/docschema"
)

// Import builds a validator from a persistence schema given either as a
// declaration document ([]byte or string, YAML or JSON) or as an already
// loaded docschema.Node.
func Import(data any, opts Options) (docskema.Schema[map[string]any], Diag, error) {
	var s docschema.Schema
	switch t := data.(type) {
	case []byte:
		loaded, err := docschema.Load(t, docschema.LoadOptions{TypeKey: opts.TypeKey})
		if err != nil {
			return nil, nil, err
		}
		s = loaded
	case string:
		loaded, err := docschema.Load([]byte(t), docschema.LoadOptions{TypeKey: opts.TypeKey})
		if err != nil {
			return nil, nil, err
		}
		s = loaded
	case docschema.Node:
		s = t
	case *docschema.Node:
		if t == nil {
			return nil, nil, fmt.Errorf("docimport: nil schema")
		}
		s = *t
	default:
		return nil, nil, fmt.Errorf("docimport: unsupported input type %T", data)
	}
	out, d := TranslateWith(s, opts)
	return out, d, nil
}

// ImportFile loads a declaration document from path and imports it.
func ImportFile(path string, opts Options) (docskema.Schema[map[string]any], Diag, error) {
	s, err := docschema.LoadFile(path, docschema.LoadOptions{TypeKey: opts.TypeKey})
	if err != nil {
		return nil, nil, err
	}
	out, d := TranslateWith(s, opts)
	return out, d, nil
}
