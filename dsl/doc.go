// Package dsl provides composable validation rules for docskema.
//
// Overview
//   - Builder API: declare JSON object semantics (unknown/required/default) with
//     Object()/Field()/Required()/UnknownStrict()/UnknownStrip()/NullAsMissing()/MustBuild().
//   - Primitives: String() with Min/Max/Pattern/Enum, Number() with Min/Max,
//     Bool(), Date(), ObjectID(), Any().
//   - Array(elem): sequences whose every element satisfies elem (Min/Max length).
//   - AnyAdapter: SchemaOf[T](s) and the *Of() helpers adapt a Schema[T] for
//     use as an object field or array element.
//
// File layout (roles)
//   - adapter.go: AnyAdapter, SchemaOf.
//   - primitives.go / number.go / date.go: leaf schemas.
//   - array.go: ArraySchema.
//   - object.go: objectBuilder/fieldStep and objectSchema.
//
// Error model
//
// Every failure is reported as docskema.Issues. Paths are JSON Pointers
// rebased as issues bubble up: a bad latitude inside location is reported at
// /location/latitude, the second element of words at /words/1. Keys are
// visited in ascending order so issue order is stable.
//
// Example
//
//	loc := d.Object().
//	    Field("latitude", d.StringOf()).
//	    Field("longitude", d.StringOf()).
//	    UnknownStrip().
//	    MustBuild()
//	s := d.Object().
//	    Field("word", d.SchemaOf[string](d.String().Min(2))).Required().
//	    Field("words", d.ArrayOf(d.StringOf())).
//	    Field("location", d.SchemaOf(loc)).
//	    NullAsMissing().
//	    MustBuild()
//	_, err := s.Parse(ctx, map[string]any{"word": "hi", "words": []any{"a", 1}})
//	// err: invalid_type at /words/1
package dsl
