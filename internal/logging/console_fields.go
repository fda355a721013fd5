package logging

import (
	"strings"
)

type field struct {
	label string
	value string
}

// highlightKeys are printed first, in this order.
var highlightKeys = []string{
	FieldEventType,
	"deck",
	"language",
	"target",
	"error",
	FieldErrorKind,
	FieldImpact,
	FieldErrorHint,
}

func selectFields(attrs []kv) []field {
	if len(attrs) == 0 {
		return nil
	}
	used := make([]bool, len(attrs))
	out := make([]field, 0, len(attrs))
	for _, key := range highlightKeys {
		for idx, attr := range attrs {
			if used[idx] || attr.key != key {
				continue
			}
			used[idx] = true
			out = append(out, field{label: displayLabel(attr.key), value: consoleValue(attr)})
			break
		}
	}
	for idx, attr := range attrs {
		if used[idx] || attr.key == "" {
			continue
		}
		out = append(out, field{label: displayLabel(attr.key), value: consoleValue(attr)})
	}
	return out
}

func consoleValue(attr kv) string {
	v := attr.value.Resolve()
	if b, ok := v.Any().(bool); ok {
		if b {
			return "yes"
		}
		return "no"
	}
	return formatValue(v)
}

func displayLabel(key string) string {
	switch key {
	case FieldEventType:
		return "Event"
	case FieldErrorHint:
		return "Hint"
	case FieldErrorKind:
		return "Kind"
	}
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '.' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
