package docimport_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/reoring/docskema"
	"github.com/reoring/docskema/docimport"
	"github.com/reoring/docskema/docschema"
)

const blogPost = `
title: {type: String, required: true, minlength: 3}
status: {type: String, enum: [draft, published], default: draft}
tags: [String]
meta: {}
author:
  name: {type: String, required: true}
  email: {type: String, match: '^[^@]+@[^@]+$'}
published: Date
`

func TestImport_YAMLDefinition(t *testing.T) {
	ctx := context.Background()
	s, d, err := docimport.Import([]byte(blogPost), docimport.Options{ApplyDefaults: true})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if d.HasWarnings() {
		t.Fatalf("unexpected warnings: %v", d.Warnings())
	}
	out, err := s.Parse(ctx, map[string]any{
		"title":     "Hello",
		"tags":      []any{"go"},
		"meta":      map[string]any{"anything": 1},
		"author":    map[string]any{"name": "Kim", "email": "kim@example.com"},
		"published": "2024-01-02T03:04:05Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["status"] != "draft" {
		t.Fatalf("default not applied: %v", out)
	}

	_, err = s.Parse(ctx, map[string]any{
		"title":  "Hi",
		"status": "archived",
		"author": map[string]any{"email": "nope"},
	})
	expectIssue(t, err, "/title", docskema.CodeTooShort)
	expectIssue(t, err, "/status", docskema.CodeInvalidEnum)
	expectIssue(t, err, "/author/name", docskema.CodeRequired)
	expectIssue(t, err, "/author/email", docskema.CodePattern)
}

func TestImport_String(t *testing.T) {
	s, _, err := docimport.Import(`{"word": {"type": "String", "required": true}}`, docimport.Options{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	_, err = s.Parse(context.Background(), map[string]any{})
	expectIssue(t, err, "/word", docskema.CodeRequired)
}

func TestImport_TypeKeyIsForwarded(t *testing.T) {
	def := `
asset:
  type: String
  size: Number
`
	// with the default key, "type: String" turns asset into a String declaration
	s, d, err := docimport.Import(def, docimport.Options{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !d.HasWarnings() {
		t.Fatal("expected a warning for the unknown size option")
	}
	if _, err := s.Parse(context.Background(), map[string]any{"asset": "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s, _, err = docimport.Import(def, docimport.Options{TypeKey: "$type"})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	_, err = s.Parse(context.Background(), map[string]any{"asset": map[string]any{"type": "png", "size": "big"}})
	expectIssue(t, err, "/asset/size", docskema.CodeInvalidType)
}

func TestImport_Node(t *testing.T) {
	def := docschema.New(docschema.F("word", docschema.String()))
	for _, in := range []any{def, &def} {
		s, _, err := docimport.Import(in, docimport.Options{})
		if err != nil {
			t.Fatalf("import %T: %v", in, err)
		}
		if _, err := s.Parse(context.Background(), map[string]any{"word": "ok"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestImport_MergeKeys(t *testing.T) {
	ctx := context.Background()
	s, _, err := docimport.Import(`
point: &point
  lat: String
  lng: String
loc:
  <<: *point
  label: String
`, docimport.Options{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	_, err = s.Parse(ctx, map[string]any{"loc": map[string]any{"lat": 1, "lng": "x"}})
	expectIssue(t, err, "/loc/lat", docskema.CodeInvalidType)
}

func TestImport_NumberEnumIsWarned(t *testing.T) {
	s, d, err := docimport.Import("level: {type: Number, enum: [1, 2]}\n", docimport.Options{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	found := false
	for _, w := range d.Warnings() {
		if w == `/level: option "enum" has no validation rule; ignored` {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an enum warning, got %v", d.Warnings())
	}
	if _, err := s.Parse(context.Background(), map[string]any{"level": 3}); err != nil {
		t.Fatalf("ignored enum must not constrain values: %v", err)
	}
}

func TestImport_Errors(t *testing.T) {
	var nilNode *docschema.Node
	for name, in := range map[string]any{
		"unsupported": 42,
		"nil node":    nilNode,
		"bad shape":   []byte("- String"),
		"bad type":    []byte("word: {type: Bogus}"),
	} {
		if _, _, err := docimport.Import(in, docimport.Options{}); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}

	_, _, err := docimport.Import([]byte("word: {type: Bogus}"), docimport.Options{})
	var le *docschema.LoadError
	if !errors.As(err, &le) || le.Path != "/word/type" {
		t.Fatalf("expected a LoadError at /word/type, got %v", err)
	}
}

func TestImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.yaml")
	if err := os.WriteFile(path, []byte(blogPost), 0o600); err != nil {
		t.Fatal(err)
	}
	s, _, err := docimport.ImportFile(path, docimport.Options{Unknown: docimport.UnknownStrict})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	_, err = s.Parse(context.Background(), map[string]any{
		"title":  "Hello",
		"author": map[string]any{"name": "Kim"},
		"extra":  true,
	})
	expectIssue(t, err, "/extra", docskema.CodeUnknownKey)

	if _, _, err := docimport.ImportFile(filepath.Join(t.TempDir(), "missing.yaml"), docimport.Options{}); err == nil {
		t.Fatal("expected error for a missing file")
	}
}
