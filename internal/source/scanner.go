package source

import (
	"os"
	"path/filepath"
	"strings"
)

// ExportsDir returns the directory inside the data dir where export files are
// picked up from.
func ExportsDir(dataDir string) string {
	return filepath.Join(dataDir, "exports")
}

// ScanDir walks the exports directory under dataDir and discovers all
// subscription export files. A missing exports directory is not an error;
// it just means nothing has been imported yet.
func ScanDir(dataDir string) ([]DiscoveredFile, error) {
	exportsDir := ExportsDir(dataDir)

	info, err := os.Stat(exportsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(exportsDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}

		name := d.Name()
		if strings.HasPrefix(name, ".") {
			return nil
		}

		var format string
		switch strings.ToLower(filepath.Ext(name)) {
		case ".json":
			format = FormatJSON
		case ".jsonl":
			format = FormatJSONL
		default:
			return nil
		}

		files = append(files, DiscoveredFile{
			Path:   path,
			Label:  labelFor(name),
			Format: format,
		})
		return nil
	})

	return files, err
}

// labelFor derives a short source label from an export filename. Exported
// files commonly carry app-name prefixes and date stamps, so:
//
//	"subwatch-export-2024-03-01.json" -> "subwatch"
//	"subscriptions_20240301.jsonl"    -> "subscriptions"
//	"netflix_family.json"             -> "netflix_family"
func labelFor(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	trimmed := trimDateStamp(stem)
	for _, suffix := range []string{"-export", "_export", "-subscriptions", "_subscriptions"} {
		trimmed = strings.TrimSuffix(trimmed, suffix)
	}
	trimmed = trimDateStamp(trimmed)

	if trimmed == "" {
		return stem
	}
	return trimmed
}

// trimDateStamp removes a trailing "-YYYY-MM-DD" or "_YYYYMMDD" style stamp.
func trimDateStamp(s string) string {
	for _, n := range []int{len("-2006-01-02"), len("_20060102")} {
		if len(s) <= n {
			continue
		}
		tail := s[len(s)-n:]
		if tail[0] != '-' && tail[0] != '_' {
			continue
		}

		digits := 0
		rest := true
		for i := 1; i < len(tail); i++ {
			switch {
			case tail[i] >= '0' && tail[i] <= '9':
				digits++
			case tail[i] == '-':
			default:
				rest = false
			}
			if !rest {
				break
			}
		}
		if rest && digits == 8 {
			return s[:len(s)-n]
		}
	}
	return s
}

// CountSources returns the number of unique source labels in a set of
// discovered files.
func CountSources(files []DiscoveredFile) int {
	seen := make(map[string]struct{})
	for _, f := range files {
		seen[f.Label] = struct{}{}
	}
	return len(seen)
}
