package dsl

import (
	"fmt"
	"sort"

	"github.com/reoring/docskema"
	"github.com/reoring/docskema/i18n"
)

// rootIssue builds a root-level ("/") issue with a localized message.
// Params are stringified for message interpolation.
func rootIssue(code, hint string, params map[string]any) docskema.Issue {
	var data map[string]string
	if len(params) > 0 {
		data = make(map[string]string, len(params))
		for k, v := range params {
			data[k] = fmt.Sprint(v)
		}
	}
	return docskema.Issue{Path: "/", Code: code, Message: i18n.T(code, data), Hint: hint, Params: params}
}

func invalidType(expected string) docskema.Issues {
	return docskema.Issues{rootIssue(docskema.CodeInvalidType, "expected "+expected, map[string]any{"expected": expected})}
}

func pointer(key string) string { return "/" + docskema.EscapePointerToken(key) }

func sortedKeys[V any](m map[string]V) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}
