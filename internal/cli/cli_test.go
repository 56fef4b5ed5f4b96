package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/docskema/i18n"
	"github.com/reoring/docskema/internal/cli"
)

const postSchema = `
title: {type: String, required: true, minlength: 3}
status: {type: String, enum: [draft, published], default: draft, index: true}
tags: [String]
author:
  name: {type: String, required: true}
`

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	code := cli.Run(args, strings.NewReader(stdin), &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestValidate_PassAndFail(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "post.yaml", postSchema)
	good := writeFile(t, dir, "good.json", `{"title":"Hello","author":{"name":"Kim"},"tags":["go"]}`)
	bad := writeFile(t, dir, "bad.json", `{"title":"Hi","tags":[1],"author":{}}`)

	res := run(t, "", "validate", "--schema", schema, good)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "ok   "+good)

	res = run(t, "", "validate", "--schema", schema, good, bad)
	require.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "FAIL "+bad)
	assert.Contains(t, res.stdout, "/title")
	assert.Contains(t, res.stdout, "too_short")
	assert.Contains(t, res.stdout, "/tags/0")
	assert.Contains(t, res.stdout, "/author/name")
	// ignored declaration options are logged, not printed
	assert.Contains(t, res.stderr, "schema declaration ignored")
	assert.NotContains(t, res.stdout, "index")
}

func TestValidate_JSONReport(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "post.yaml", postSchema)
	bad := writeFile(t, dir, "bad.yaml", "title: Hi\nauthor: {name: Kim}\n")

	res := run(t, "", "validate", "-s", schema, "-o", "json", bad)
	require.Equal(t, 1, res.code)

	var reports []struct {
		File   string `json:"file"`
		Valid  bool   `json:"valid"`
		Issues []struct {
			Path string `json:"path"`
			Code string `json:"code"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &reports))
	require.Len(t, reports, 1)
	assert.False(t, reports[0].Valid)
	require.Len(t, reports[0].Issues, 1)
	assert.Equal(t, "/title", reports[0].Issues[0].Path)
	assert.Equal(t, "too_short", reports[0].Issues[0].Code)
}

func TestValidate_Stdin(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "post.yaml", postSchema)

	res := run(t, `{"title":"Hello","author":{"name":"Kim"}}`, "validate", "-s", schema, "-")
	assert.Equal(t, 0, res.code, res.stderr)

	res = run(t, "title: Hello\nauthor: {name: Kim}\n", "validate", "-s", schema, "-f", "yaml", "-")
	assert.Equal(t, 0, res.code, res.stderr)

	res = run(t, `{"title":`, "validate", "-s", schema, "-")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "parse_error")
}

func TestValidate_StrictFromEnvAndFlag(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "post.yaml", postSchema)
	doc := writeFile(t, dir, "doc.json", `{"title":"Hello","author":{"name":"Kim"},"extra":1}`)

	res := run(t, "", "validate", "-s", schema, doc)
	assert.Equal(t, 0, res.code, "unknown keys are stripped by default")

	res = run(t, "", "validate", "--strict", "-s", schema, doc)
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "unknown_key")

	t.Setenv("DOCSKEMA_STRICT", "true")
	res = run(t, "", "validate", "-s", schema, doc)
	assert.Equal(t, 1, res.code)
}

func TestValidate_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "post.yaml", postSchema)
	doc := writeFile(t, dir, "doc.json", `{"title":"Hi","author":{}}`)
	cfg := writeFile(t, dir, "docskema.yaml", "fail_fast: true\nstrict: true\n")

	res := run(t, "", "--config", cfg, "validate", "-s", schema, "-o", "json", doc)
	require.Equal(t, 1, res.code)
	var reports []struct {
		Issues []json.RawMessage `json:"issues"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &reports))
	assert.Len(t, reports[0].Issues, 1, "fail_fast from the config file stops at the first issue")

	res = run(t, "", "--config", filepath.Join(dir, "missing.yaml"), "validate", "-s", schema, doc)
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "read config")
}

func TestValidate_Errors(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "post.yaml", postSchema)
	broken := writeFile(t, dir, "broken.yaml", "title: {type: Bogus}\n")

	res := run(t, "", "validate", "doc.json")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "schema")

	res = run(t, "", "validate", "-s", broken, "doc.json")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "unknown type")

	res = run(t, "", "validate", "-s", schema, filepath.Join(dir, "nope.json"))
	assert.Equal(t, 2, res.code)

	res = run(t, "", "validate", "-s", schema, "-f", "xml", "-")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "unknown format")
}

func TestValidate_Japanese(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "post.yaml", postSchema)
	t.Cleanup(func() { i18n.SetLanguage("en") })

	res := run(t, `{}`, "--lang", "ja", "validate", "-s", schema, "-")
	require.Equal(t, 1, res.code)
	assert.Contains(t, res.stdout, "必須プロパティが不足しています")
	assert.NotContains(t, res.stdout, "required property missing")
}

func TestUnknownLanguage(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "post.yaml", postSchema)

	res := run(t, `{}`, "--lang", "fr", "validate", "-s", schema, "-")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, `unknown language "fr" (want en, ja)`)

	t.Setenv("DOCSKEMA_LANG", "xx")
	res = run(t, "", "inspect", "-s", schema)
	assert.Equal(t, 2, res.code)
}

func TestJSONSchema(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "post.yaml", postSchema)

	res := run(t, "", "jsonschema", "-s", schema)
	require.Equal(t, 0, res.code, res.stderr)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &doc))
	assert.Equal(t, "https://json-schema.org/draft/2020-12/schema", doc["$schema"])
	assert.Equal(t, "post", doc["title"])
	assert.Equal(t, "object", doc["type"])
	assert.ElementsMatch(t, []any{"author", "title"}, doc["required"])
	props := doc["properties"].(map[string]any)
	assert.Equal(t, "draft", props["status"].(map[string]any)["default"])
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "post.yaml", postSchema)

	res := run(t, "", "inspect", "-s", schema)
	require.Equal(t, 0, res.code, res.stderr)
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.GreaterOrEqual(t, len(lines), 6)
	assert.True(t, strings.HasPrefix(lines[0], "/title"))
	assert.Contains(t, lines[0], "String(required,minlength=3)")
	assert.Contains(t, lines[2], "[String]")
	assert.Contains(t, res.stdout, "/author/name")
	assert.Contains(t, res.stdout, `warning: /status: option "index" has no validation rule; ignored`)
}
