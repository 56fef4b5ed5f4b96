package i18n

import (
	"sort"
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional values to embed in the message (for example,
// "min", "max" or "expected").
type Translator interface {
	Message(code string, data map[string]string) string
}

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":   "invalid type",
		"required":       "required property missing",
		"unknown_key":    "unknown key",
		"too_small":      "must be at least {min}",
		"too_big":        "must be at most {max}",
		"too_short":      "must be at least {min} long",
		"too_long":       "must be at most {max} long",
		"pattern":        "does not match pattern {pattern}",
		"invalid_enum":   "must be one of {values}",
		"invalid_format": "invalid {format} format",
		"parse_error":    "parse error",
		"truncated":      "truncated",
	},
	"ja": {
		"invalid_type":   "型が不正です",
		"required":       "必須プロパティが不足しています",
		"unknown_key":    "未知のキーです",
		"too_small":      "{min} 以上である必要があります",
		"too_big":        "{max} 以下である必要があります",
		"too_short":      "{min} 以上の長さが必要です",
		"too_long":       "{max} 以下の長さである必要があります",
		"pattern":        "パターン {pattern} に一致しません",
		"invalid_enum":   "{values} のいずれかである必要があります",
		"invalid_format": "{format} 形式が不正です",
		"parse_error":    "解析エラー",
		"truncated":      "打ち切られました",
	},
}

// dictTranslator is the built-in dictionary-based Translator. Placeholders of
// the form {key} are replaced from data; unknown placeholders are dropped
// together with their surrounding space.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if !strings.Contains(msg, "{") {
		return msg
	}
	var b strings.Builder
	for {
		i := strings.IndexByte(msg, '{')
		if i < 0 {
			b.WriteString(msg)
			break
		}
		k := strings.IndexByte(msg[i:], '}')
		if k < 0 {
			b.WriteString(msg)
			break
		}
		b.WriteString(msg[:i])
		if v, ok := data[msg[i+1:i+k]]; ok {
			b.WriteString(v)
		}
		msg = msg[i+k+1:]
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// Languages lists the built-in dictionary languages in sorted order.
func Languages() []string {
	out := make([]string, 0, len(dictionaries))
	for lang := range dictionaries {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
