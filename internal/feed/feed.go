// Package feed normalizes heterogeneous insight sources into one
// render-agnostic shape.
package feed

import "encoding/json"

// Insight kinds.
const (
	KindWarning = "warning"
	KindTip     = "tip"
	KindSuccess = "success"
	KindInfo    = "info"
)

// Item is one normalized insight. The source's shape (structured record or
// plain string) is resolved here exactly once, so consumers never inspect
// source typing.
type Item struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type rawInsight struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Normalize converts an insight payload into items. The payload is a JSON
// list whose entries are either structured {type, message} records or plain
// strings; strings become tips, records keep their type (unknown types map to
// info). Order is preserved and nothing is deduplicated, ranked, or filtered.
// A malformed payload yields an empty list and a malformed entry skips only
// itself. Insights are advisory and must never block the caller.
func Normalize(raw json.RawMessage) []Item {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}

	var items []Item
	for _, entry := range entries {
		var rec rawInsight
		if err := json.Unmarshal(entry, &rec); err == nil && rec.Message != "" {
			items = append(items, Item{Kind: normalizeKind(rec.Type), Message: rec.Message})
			continue
		}

		var text string
		if err := json.Unmarshal(entry, &text); err == nil && text != "" {
			items = append(items, Item{Kind: KindTip, Message: text})
		}
	}
	return items
}

// FromStrings maps free-text advisory lines to tip items, preserving order.
func FromStrings(lines []string) []Item {
	var items []Item
	for _, line := range lines {
		if line == "" {
			continue
		}
		items = append(items, Item{Kind: KindTip, Message: line})
	}
	return items
}

func normalizeKind(t string) string {
	switch t {
	case KindWarning, KindTip, KindSuccess, KindInfo:
		return t
	default:
		return KindInfo
	}
}
