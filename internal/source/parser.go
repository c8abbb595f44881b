// Package source discovers and parses subscription export files.
//
// An export is either a JSON document carrying a subscription list (a bare
// array, or an envelope object with a "subscriptions" field) or a JSONL file
// with one record per line. Malformed records are counted and skipped;
// ParseResult.Err is reserved for files that cannot be read or whose top
// level is not a subscription list at all.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/subwatchdev/subwatch/internal/logger"
	"github.com/subwatchdev/subwatch/internal/model"
)

// ParseResult holds the outcome of parsing a single export file.
type ParseResult struct {
	Records     []model.Subscription
	ParseErrors int
	Err         error
}

// exportEnvelope is the wrapper document written by the web app's export
// endpoint.
type exportEnvelope struct {
	Subscriptions []json.RawMessage `json:"subscriptions"`
	ExportedAt    string            `json:"exported_at"`
}

// ParseFile reads one export file and returns its subscription records.
func ParseFile(df DiscoveredFile) ParseResult {
	if df.Format == FormatJSONL {
		return parseLines(df)
	}
	return parseDocument(df)
}

// parseDocument handles whole-document JSON exports: a bare array of records
// or the envelope form.
func parseDocument(df DiscoveredFile) ParseResult {
	var result ParseResult

	data, err := os.ReadFile(df.Path)
	if err != nil {
		result.Err = fmt.Errorf("reading %s: %w", df.Path, err)
		return result
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return result
	}

	var items []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			result.Err = fmt.Errorf("parsing %s: %w", df.Path, err)
			return result
		}
	case '{':
		var env exportEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			result.Err = fmt.Errorf("parsing %s: %w", df.Path, err)
			return result
		}
		if env.Subscriptions == nil {
			result.Err = fmt.Errorf("%s: %w: no subscriptions list", df.Path, model.ErrInvalidInput)
			return result
		}
		items = env.Subscriptions
	default:
		result.Err = fmt.Errorf("%s: %w: not a subscription list", df.Path, model.ErrInvalidInput)
		return result
	}

	for i, item := range items {
		sub, err := decodeRecord(item)
		if err != nil {
			result.ParseErrors++
			logger.Log.WithField("file", df.Path).WithField("record", i).
				Debugf("skipping record: %v", err)
			continue
		}
		result.Records = append(result.Records, sub)
	}

	return result
}

// parseLines handles JSONL exports, one record per line. Blank lines are
// allowed anywhere.
func parseLines(df DiscoveredFile) ParseResult {
	var result ParseResult

	f, err := os.Open(df.Path)
	if err != nil {
		result.Err = fmt.Errorf("opening %s: %w", df.Path, err)
		return result
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), 2*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		sub, err := decodeRecord(line)
		if err != nil {
			result.ParseErrors++
			logger.Log.WithField("file", df.Path).WithField("line", lineNo).
				Debugf("skipping record: %v", err)
			continue
		}
		result.Records = append(result.Records, sub)
	}

	if err := scanner.Err(); err != nil {
		result.Err = fmt.Errorf("reading %s: %w", df.Path, err)
	}

	return result
}

// decodeRecord turns one raw export record into a normalized subscription.
func decodeRecord(data []byte) (model.Subscription, error) {
	var raw RawSubscription
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Subscription{}, fmt.Errorf("decoding record: %w", err)
	}
	return normalizeRecord(raw)
}

// normalizeRecord validates a raw record and fills export-version defaults.
// Name and cost are required; everything else has a usable fallback.
func normalizeRecord(raw RawSubscription) (model.Subscription, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return model.Subscription{}, errors.New("missing name")
	}
	if raw.Cost == nil {
		return model.Subscription{}, errors.New("missing cost")
	}
	if *raw.Cost < 0 {
		return model.Subscription{}, fmt.Errorf("negative cost %.2f", *raw.Cost)
	}

	sub := model.Subscription{
		ID:    strings.TrimSpace(raw.ID),
		Name:  name,
		Cost:  *raw.Cost,
		Cycle: normalizeCycle(raw.Cycle),
		Notes: strings.TrimSpace(raw.Notes),
	}
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}

	if cat := strings.TrimSpace(raw.Category); cat != "" {
		sub.Category = model.NormalizeCategory(cat)
	} else {
		sub.Category = model.GuessCategory(name)
	}

	sub.Active = true
	if raw.Active != nil {
		sub.Active = *raw.Active
	} else if raw.IsActive != nil {
		sub.Active = *raw.IsActive
	}

	sub.CreatedAt = parseExportTime(raw.CreatedAt)
	sub.UpdatedAt = parseExportTime(raw.UpdatedAt)
	if sub.UpdatedAt.IsZero() {
		sub.UpdatedAt = sub.CreatedAt
	}

	sub.AnchorDate = strings.TrimSpace(raw.AnchorDate)
	if sub.AnchorDate == "" {
		sub.AnchorDate = strings.TrimSpace(raw.StartDate)
	}
	if sub.AnchorDate == "" {
		// The oldest exports omitted the anchor entirely; anchor at the
		// record's creation date, or at today for records without one.
		if !sub.CreatedAt.IsZero() {
			sub.AnchorDate = sub.CreatedAt.Format("2006-01-02")
		} else {
			sub.AnchorDate = time.Now().UTC().Format("2006-01-02")
		}
	}

	return sub, nil
}

// normalizeCycle lowercases the cycle and maps older spellings onto the
// canonical set. Cycles outside the known set pass through unchanged and
// project as one-off charges.
func normalizeCycle(s string) string {
	c := strings.ToLower(strings.TrimSpace(s))
	switch c {
	case "":
		return model.CycleMonthly
	case "yearly", "annually":
		return model.CycleAnnual
	default:
		return c
	}
}

// parseExportTime accepts the timestamp shapes seen across export versions.
// Anything unrecognized becomes the zero time.
func parseExportTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
