package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/subwatchdev/subwatch/internal/model"
	"github.com/subwatchdev/subwatch/internal/source"
	"github.com/subwatchdev/subwatch/internal/store"
)

func writeExportFile(t *testing.T, dataDir, name, content string) string {
	t.Helper()
	exportsDir := source.ExportsDir(dataDir)
	if err := os.MkdirAll(exportsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(exportsDir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMergesAcrossFiles(t *testing.T) {
	dataDir := t.TempDir()
	writeExportFile(t, dataDir, "a.jsonl",
		`{"id":"dup","name":"Old Name","cost":10,"billing_cycle":"monthly","anchor_date":"2024-01-01","updated_at":"2024-01-01T00:00:00Z"}`+"\n"+
			`{"id":"only-a","name":"Keep A","cost":5,"billing_cycle":"monthly","anchor_date":"2024-01-02"}`)
	writeExportFile(t, dataDir, "b.json",
		`[{"id":"dup","name":"New Name","cost":12,"billing_cycle":"monthly","anchor_date":"2024-01-01","updated_at":"2024-03-01T00:00:00Z"}]`)

	result, err := Load(dataDir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalFiles != 2 || result.ParsedFiles != 2 {
		t.Fatalf("TotalFiles/ParsedFiles = %d/%d, want 2/2", result.TotalFiles, result.ParsedFiles)
	}
	if len(result.Subscriptions) != 2 {
		t.Fatalf("Subscriptions = %d, want 2 after merge", len(result.Subscriptions))
	}

	var dup *model.Subscription
	for i := range result.Subscriptions {
		if result.Subscriptions[i].ID == "dup" {
			dup = &result.Subscriptions[i]
		}
	}
	if dup == nil {
		t.Fatal("merged record missing")
	}
	if dup.Name != "New Name" || dup.Cost != 12 {
		t.Errorf("dup = %+v, want the newer record to win", dup)
	}
}

func TestLoadCountsUnparseableFiles(t *testing.T) {
	dataDir := t.TempDir()
	writeExportFile(t, dataDir, "good.json",
		`[{"id":"g","name":"Box","cost":7,"billing_cycle":"monthly","anchor_date":"2024-03-01"}]`)
	writeExportFile(t, dataDir, "settings.json", `{"theme":"dark"}`)

	result, err := Load(dataDir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.FileErrors != 1 {
		t.Errorf("FileErrors = %d, want 1", result.FileErrors)
	}
	if result.ParsedFiles != 1 || len(result.Subscriptions) != 1 {
		t.Errorf("ParsedFiles = %d, Subscriptions = %d, want 1/1",
			result.ParsedFiles, len(result.Subscriptions))
	}
}

func TestLoadEmptyDataDir(t *testing.T) {
	result, err := Load(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalFiles != 0 || len(result.Subscriptions) != 0 {
		t.Errorf("want empty result, got %+v", result)
	}
}

func TestMergeByID(t *testing.T) {
	older := model.Subscription{ID: "x", Name: "Older", UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := model.Subscription{ID: "x", Name: "Newer", UpdatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	other := model.Subscription{ID: "y", Name: "Other"}

	// Newer record first: the older one must not clobber it.
	out := mergeByID([][]model.Subscription{{newer, other}, {older}})
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].Name != "Newer" {
		t.Errorf("out[0].Name = %q, want Newer", out[0].Name)
	}

	// Equal timestamps: the later occurrence wins.
	copy1 := model.Subscription{ID: "x", Name: "First"}
	copy2 := model.Subscription{ID: "x", Name: "Second"}
	out = mergeByID([][]model.Subscription{{copy1}, {copy2}})
	if len(out) != 1 || out[0].Name != "Second" {
		t.Errorf("out = %+v, want single Second", out)
	}

	// Position is fixed by first appearance even when content is replaced.
	out = mergeByID([][]model.Subscription{{older, other}, {newer}})
	if out[0].Name != "Newer" || out[1].Name != "Other" {
		t.Errorf("order = [%s, %s], want [Newer, Other]", out[0].Name, out[1].Name)
	}
}

func TestSyncIncremental(t *testing.T) {
	dataDir := t.TempDir()
	path := writeExportFile(t, dataDir, "subs.jsonl",
		`{"id":"s1","name":"Box","cost":7,"billing_cycle":"monthly","anchor_date":"2024-03-01"}`)

	st, err := store.Open(filepath.Join(dataDir, "subwatch.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = st.Close() }()

	result, err := Sync(dataDir, st, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Reparsed != 1 || result.Unchanged != 0 {
		t.Fatalf("first sync Reparsed/Unchanged = %d/%d, want 1/0", result.Reparsed, result.Unchanged)
	}
	if len(result.Subscriptions) != 1 || result.Subscriptions[0].ID != "s1" {
		t.Fatalf("Subscriptions = %+v", result.Subscriptions)
	}

	// Nothing changed: the tracker short-circuits the reparse.
	result, err = Sync(dataDir, st, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Unchanged != 1 || result.Reparsed != 0 {
		t.Fatalf("second sync Unchanged/Reparsed = %d/%d, want 1/0", result.Unchanged, result.Reparsed)
	}

	// Growing the file changes its size, which forces a reparse.
	grown := `{"id":"s1","name":"Box","cost":7,"billing_cycle":"monthly","anchor_date":"2024-03-01"}` + "\n" +
		`{"id":"s2","name":"Gym","cost":30,"billing_cycle":"monthly","anchor_date":"2024-03-05"}`
	if err := os.WriteFile(path, []byte(grown), 0o600); err != nil {
		t.Fatal(err)
	}
	result, err = Sync(dataDir, st, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Reparsed != 1 {
		t.Fatalf("third sync Reparsed = %d, want 1", result.Reparsed)
	}
	if len(result.Subscriptions) != 2 {
		t.Fatalf("Subscriptions = %d, want 2", len(result.Subscriptions))
	}

	// Deleting the file prunes its rows; directly created rows survive.
	manual := model.Subscription{
		ID: "manual", Name: "Manual", Cost: 3,
		Cycle: model.CycleMonthly, Category: model.CategoryOther,
		AnchorDate: "2024-01-01", Active: true,
	}
	if err := st.UpsertSubscription(manual); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	result, err = Sync(dataDir, st, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Pruned != 1 {
		t.Fatalf("Pruned = %d, want 1", result.Pruned)
	}
	if len(result.Subscriptions) != 1 || result.Subscriptions[0].ID != "manual" {
		t.Fatalf("Subscriptions = %+v, want only the manual record", result.Subscriptions)
	}
}

func TestSyncFileOwnsItsIDs(t *testing.T) {
	dataDir := t.TempDir()
	writeExportFile(t, dataDir, "subs.json",
		`[{"id":"s1","name":"From File","cost":9,"billing_cycle":"monthly","anchor_date":"2024-03-01"}]`)

	st, err := store.Open(filepath.Join(dataDir, "subwatch.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = st.Close() }()

	if _, err := Sync(dataDir, st, nil); err != nil {
		t.Fatal(err)
	}

	// A direct edit detaches the row from its file.
	edited, err := st.GetSubscription("s1")
	if err != nil {
		t.Fatal(err)
	}
	edited.Cost = 1
	if err := st.UpsertSubscription(edited); err != nil {
		t.Fatal(err)
	}

	// The file still tracks as unchanged, so the edit stands.
	result, err := Sync(dataDir, st, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Subscriptions[0].Cost != 1 {
		t.Fatalf("Cost = %v, want edit to persist while file is unchanged", result.Subscriptions[0].Cost)
	}
}
