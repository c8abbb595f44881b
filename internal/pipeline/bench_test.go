package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/subwatchdev/subwatch/internal/model"
	"github.com/subwatchdev/subwatch/internal/source"
)

// benchCorpus writes a synthetic export corpus and returns its data dir.
func benchCorpus(b *testing.B, files, recordsPerFile int) string {
	b.Helper()
	dataDir := b.TempDir()
	exportsDir := source.ExportsDir(dataDir)
	if err := os.MkdirAll(exportsDir, 0o755); err != nil {
		b.Fatal(err)
	}

	cycles := []string{model.CycleMonthly, model.CycleWeekly, model.CycleAnnual}
	for f := 0; f < files; f++ {
		path := filepath.Join(exportsDir, fmt.Sprintf("export-%03d.jsonl", f))
		out, err := os.Create(path)
		if err != nil {
			b.Fatal(err)
		}
		for r := 0; r < recordsPerFile; r++ {
			id := f*recordsPerFile + r
			fmt.Fprintf(out,
				`{"id":"sub-%06d","name":"Service %d","cost":%d.99,"billing_cycle":"%s","category":"Other","anchor_date":"2024-%02d-%02d","active":true,"updated_at":"2024-06-01T00:00:00Z"}`+"\n",
				id, id, 5+r%40, cycles[r%len(cycles)], 1+r%12, 1+r%28)
		}
		if err := out.Close(); err != nil {
			b.Fatal(err)
		}
	}
	return dataDir
}

func BenchmarkLoad(b *testing.B) {
	dataDir := benchCorpus(b, 8, 250)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result, err := Load(dataDir, nil)
		if err != nil {
			b.Fatal(err)
		}
		_ = result
	}
}

func BenchmarkParseFile(b *testing.B) {
	dataDir := benchCorpus(b, 1, 2000)
	files, err := source.ScanDir(dataDir)
	if err != nil {
		b.Fatal(err)
	}
	if len(files) != 1 {
		b.Fatalf("discovered %d files, want 1", len(files))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result := source.ParseFile(files[0])
		if result.Err != nil {
			b.Fatal(result.Err)
		}
	}
}

func BenchmarkProject(b *testing.B) {
	dataDir := benchCorpus(b, 4, 500)
	loaded, err := Load(dataDir, nil)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		proj := Project(loaded.Subscriptions, 2024, time.July)
		_ = proj
	}
}

func BenchmarkDetectSavings(b *testing.B) {
	dataDir := benchCorpus(b, 4, 500)
	loaded, err := Load(dataDir, nil)
	if err != nil {
		b.Fatal(err)
	}
	opts := DefaultSavingsOptions()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ops := DetectSavings(loaded.Subscriptions, nil, opts)
		_ = ops
	}
}
