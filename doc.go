// Package docskema validates JSON-like documents against schemas translated
// from document-database (mongoose-style) persistence schema definitions.
//
// It provides:
//
//   - A small validation core: Schema[T] (Parse/TypeCheck/RuleCheck/Validate)
//   - A stable error model via Issues (JSON Pointer, code, message)
//   - Sources for JSON (go-json, json.Number preserved), YAML and Go values
//
// Design policy:
//   - Keep only public APIs in the root package.
//   - Place rule builders under dsl/, the persistence schema model under
//     docschema/, the translator under docimport/, and the CLI under
//     internal/cli (entry point cmd/docskema).
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	def, _ := docschema.Load(yamlDefinition, docschema.LoadOptions{})
//	s := docimport.Translate(def)
//	_, err := docskema.ParseFrom(ctx, s, docskema.JSONBytes(data))
//	if iss, ok := docskema.AsIssues(err); ok {
//	    for _, it := range iss {
//	        fmt.Println(it.Path, it.Code)
//	    }
//	}
package docskema
