package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/subwatchdev/subwatch/internal/model"
	"github.com/subwatchdev/subwatch/internal/source"
)

// LoadResult holds the output of a full export scan and parse.
type LoadResult struct {
	Subscriptions []model.Subscription
	TotalFiles    int
	ParsedFiles   int
	ParseErrors   int
	FileErrors    int
	SourceCount   int
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load discovers and parses all export files under the data directory,
// without touching the store. Records sharing an id are merged, newest
// updated_at winning.
func Load(dataDir string, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dataDir, err)
	}

	result := &LoadResult{
		TotalFiles:  len(files),
		SourceCount: source.CountSources(files),
	}
	if len(files) == 0 {
		return result, nil
	}

	lists := make([][]model.Subscription, 0, len(files))
	for _, pr := range parseAll(files, 0, result.TotalFiles, progressFn) {
		if pr.Err != nil {
			result.FileErrors++
			continue
		}
		result.ParsedFiles++
		result.ParseErrors += pr.ParseErrors
		lists = append(lists, pr.Records)
	}
	result.Subscriptions = mergeByID(lists)

	return result, nil
}

// parseAll runs ParseFile over files with a bounded worker pool, preserving
// input order in the returned slice. done and total seed the progress
// callback so a partial reparse can report against the full file count.
func parseAll(files []source.DiscoveredFile, done, total int, progressFn ProgressFunc) []source.ParseResult {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]source.ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(files[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n)+done, total)
				}
			}
		}()
	}

	wg.Wait()
	return results
}

// mergeByID folds parsed files together. The first appearance of an id fixes
// the record's position; a later duplicate replaces it in place unless its
// updated_at is older.
func mergeByID(lists [][]model.Subscription) []model.Subscription {
	var out []model.Subscription
	idx := make(map[string]int)

	for _, list := range lists {
		for _, sub := range list {
			i, ok := idx[sub.ID]
			if !ok {
				idx[sub.ID] = len(out)
				out = append(out, sub)
				continue
			}
			if !sub.UpdatedAt.Before(out[i].UpdatedAt) {
				out[i] = sub
			}
		}
	}
	return out
}
