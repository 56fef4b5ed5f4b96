package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("invalid_type", nil); msg == "invalid_type" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("invalid_type", nil); msg == "invalid type" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_Placeholders(t *testing.T) {
	if got := T("too_short", map[string]string{"min": "2"}); got != "must be at least 2 long" {
		t.Fatalf("unexpected message: %q", got)
	}
	// missing placeholder is dropped without leaving a double space
	if got := T("too_small", nil); got != "must be at least" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestTranslator_UnknownCodeAndLanguage(t *testing.T) {
	if got := T("no_such_code", nil); got != "no_such_code" {
		t.Fatalf("expected code echo, got %q", got)
	}
	SetLanguage("xx")
	if got := T("required", nil); got != "required property missing" {
		t.Fatalf("unknown language should fall back to en, got %q", got)
	}
}

type constTranslator string

func (c constTranslator) Message(string, map[string]string) string { return string(c) }

func TestSetTranslator(t *testing.T) {
	SetTranslator(constTranslator("x"))
	if got := T("required", nil); got != "x" {
		t.Fatalf("custom translator not used: %q", got)
	}
	SetTranslator(nil)
	if got := T("required", nil); got != "required property missing" {
		t.Fatalf("nil translator should restore default, got %q", got)
	}
}

func TestLanguages(t *testing.T) {
	got := Languages()
	if len(got) != 2 || got[0] != "en" || got[1] != "ja" {
		t.Fatalf("unexpected languages: %v", got)
	}
}
