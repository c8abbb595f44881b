package pipeline

import (
	"fmt"
	"os"

	"github.com/subwatchdev/subwatch/internal/logger"
	"github.com/subwatchdev/subwatch/internal/source"
	"github.com/subwatchdev/subwatch/internal/store"
)

// SyncResult extends LoadResult with store bookkeeping.
type SyncResult struct {
	LoadResult
	Unchanged int
	Reparsed  int
	Pruned    int
}

// Sync brings the store in line with the export files on disk: unchanged
// files are left alone, new or changed files are reparsed and their rows
// replaced, and rows from files that disappeared are pruned. The returned
// subscription set is the store's full contents, so records created directly
// sit alongside imported ones.
func Sync(dataDir string, st store.Store, progressFn ProgressFunc) (*SyncResult, error) {
	files, err := source.ScanDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dataDir, err)
	}

	result := &SyncResult{
		LoadResult: LoadResult{
			TotalFiles:  len(files),
			SourceCount: source.CountSources(files),
		},
	}

	tracked, err := st.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading file tracker: %w", err)
	}

	present := make(map[string]struct{}, len(files))
	var toReparse []source.DiscoveredFile

	for _, f := range files {
		present[f.Path] = struct{}{}

		info, err := os.Stat(f.Path)
		if err != nil {
			continue
		}
		cached, ok := tracked[f.Path]
		if ok && cached.MtimeNs == info.ModTime().UnixNano() && cached.SizeBytes == info.Size() {
			result.Unchanged++
		} else {
			toReparse = append(toReparse, f)
		}
	}
	result.Reparsed = len(toReparse)

	pruned, err := st.PruneMissingFiles(present)
	if err != nil {
		return nil, fmt.Errorf("pruning removed files: %w", err)
	}
	result.Pruned = pruned

	if len(toReparse) > 0 {
		for i, pr := range parseAll(toReparse, result.Unchanged, result.TotalFiles, progressFn) {
			if pr.Err != nil {
				result.FileErrors++
				logger.Log.WithField("file", toReparse[i].Path).Warnf("skipping export: %v", pr.Err)
				continue
			}
			result.ParsedFiles++
			result.ParseErrors += pr.ParseErrors

			info, err := os.Stat(toReparse[i].Path)
			if err != nil {
				continue
			}
			if err := st.ReplaceFileSubscriptions(toReparse[i].Path, pr.Records, info.ModTime().UnixNano(), info.Size()); err != nil {
				return nil, fmt.Errorf("saving %s: %w", toReparse[i].Path, err)
			}
		}
	}
	result.ParsedFiles += result.Unchanged

	subs, err := st.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("loading subscriptions: %w", err)
	}
	result.Subscriptions = subs

	return result, nil
}
