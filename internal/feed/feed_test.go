package feed

import (
	"encoding/json"
	"testing"
)

func TestNormalizeStructuredRecords(t *testing.T) {
	raw := json.RawMessage(`[
		{"type": "warning", "message": "over budget"},
		{"type": "success", "message": "under budget"},
		{"type": "exotic", "message": "unclassified"}
	]`)

	items := Normalize(raw)
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	if items[0].Kind != KindWarning || items[0].Message != "over budget" {
		t.Fatalf("items[0] = %+v, want warning/over budget", items[0])
	}
	if items[1].Kind != KindSuccess {
		t.Fatalf("items[1].Kind = %q, want success", items[1].Kind)
	}
	if items[2].Kind != KindInfo {
		t.Fatalf("unknown type mapped to %q, want info", items[2].Kind)
	}
}

func TestNormalizePlainStrings(t *testing.T) {
	raw := json.RawMessage(`["try the annual plan", "cancel one streaming service"]`)

	items := Normalize(raw)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	for i, it := range items {
		if it.Kind != KindTip {
			t.Fatalf("items[%d].Kind = %q, want tip", i, it.Kind)
		}
	}
	if items[0].Message != "try the annual plan" {
		t.Fatalf("items[0].Message = %q, want first source line", items[0].Message)
	}
}

func TestNormalizeMixedPreservesOrder(t *testing.T) {
	raw := json.RawMessage(`[
		"first",
		{"type": "warning", "message": "second"},
		"third"
	]`)

	items := Normalize(raw)
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if items[i].Message != w {
			t.Fatalf("items[%d].Message = %q, want %q", i, items[i].Message, w)
		}
	}
}

func TestNormalizeDoesNotDeduplicate(t *testing.T) {
	raw := json.RawMessage(`["same tip", "same tip"]`)
	if items := Normalize(raw); len(items) != 2 {
		t.Fatalf("items = %d, want duplicates kept (2)", len(items))
	}
}

func TestNormalizeMalformedYieldsEmpty(t *testing.T) {
	cases := []string{
		`{"type": "warning", "message": "not a list"}`,
		`42`,
		`not json at all`,
		``,
	}
	for _, c := range cases {
		if items := Normalize(json.RawMessage(c)); len(items) != 0 {
			t.Fatalf("Normalize(%q) = %d items, want 0", c, len(items))
		}
	}
}

func TestNormalizeSkipsBadEntriesOnly(t *testing.T) {
	raw := json.RawMessage(`[
		"keep me",
		42,
		{"type": "tip"},
		{"type": "tip", "message": "also kept"}
	]`)

	items := Normalize(raw)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].Message != "keep me" || items[1].Message != "also kept" {
		t.Fatalf("surviving items = %+v, want the two well-formed entries", items)
	}
}

func TestFromStrings(t *testing.T) {
	items := FromStrings([]string{"one", "", "two"})
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].Kind != KindTip || items[1].Message != "two" {
		t.Fatalf("items = %+v, want ordered tips", items)
	}
}
