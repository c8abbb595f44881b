package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/subwatchdev/subwatch/internal/model"
)

// sqliteStore is the default file-backed Store.
type sqliteStore struct {
	db *sql.DB
}

// openSQLite opens or creates the database at the given path.
func openSQLite(dbPath string) (*sqliteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if _, err := db.Exec(sqliteSchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// timeToText flattens a timestamp for storage; the zero time becomes "".
func timeToText(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func textToTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// UpsertSubscription saves a directly created or edited subscription. The
// row's source_file is cleared, detaching it from any export file until the
// next sync.
func (s *sqliteStore) UpsertSubscription(sub model.Subscription) error {
	active := 0
	if sub.Active {
		active = 1
	}

	_, err := s.db.Exec(`INSERT OR REPLACE INTO subscriptions
		(id, name, cost, billing_cycle, category, anchor_date, active, notes, source_file, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, '', ?, ?)`,
		sub.ID, sub.Name, sub.Cost, sub.Cycle, sub.Category, sub.AnchorDate,
		active, sub.Notes, timeToText(sub.CreatedAt), timeToText(sub.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving subscription: %w", err)
	}
	return nil
}

// DeleteSubscription removes a subscription by id.
func (s *sqliteStore) DeleteSubscription(id string) error {
	res, err := s.db.Exec("DELETE FROM subscriptions WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// GetSubscription looks up a single subscription by id.
func (s *sqliteStore) GetSubscription(id string) (model.Subscription, error) {
	row := s.db.QueryRow(`SELECT id, name, cost, billing_cycle, category, anchor_date, active, notes, created_at, updated_at
		FROM subscriptions WHERE id = ?`, id)

	var sub model.Subscription
	var active int
	var createdStr, updatedStr string

	err := row.Scan(&sub.ID, &sub.Name, &sub.Cost, &sub.Cycle, &sub.Category,
		&sub.AnchorDate, &active, &sub.Notes, &createdStr, &updatedStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Subscription{}, model.ErrNotFound
		}
		return model.Subscription{}, err
	}

	sub.Active = active != 0
	sub.CreatedAt = textToTime(createdStr)
	sub.UpdatedAt = textToTime(updatedStr)
	return sub, nil
}

// LoadAll reads every subscription in creation order.
func (s *sqliteStore) LoadAll() ([]model.Subscription, error) {
	rows, err := s.db.Query(`SELECT id, name, cost, billing_cycle, category, anchor_date, active, notes, created_at, updated_at
		FROM subscriptions ORDER BY created_at, name, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var subs []model.Subscription
	for rows.Next() {
		var sub model.Subscription
		var active int
		var createdStr, updatedStr string

		err := rows.Scan(&sub.ID, &sub.Name, &sub.Cost, &sub.Cycle, &sub.Category,
			&sub.AnchorDate, &active, &sub.Notes, &createdStr, &updatedStr)
		if err != nil {
			return nil, err
		}

		sub.Active = active != 0
		sub.CreatedAt = textToTime(createdStr)
		sub.UpdatedAt = textToTime(updatedStr)
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// SubscriptionCount returns the number of stored subscriptions.
func (s *sqliteStore) SubscriptionCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM subscriptions").Scan(&count)
	return count, err
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all tracked
// export files.
func (s *sqliteStore) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := s.db.Query("SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// ReplaceFileSubscriptions swaps all rows owned by an export file for the
// file's current records and updates its tracker entry, atomically. An id
// collision with a row from elsewhere resolves in the file's favor.
func (s *sqliteStore) ReplaceFileSubscriptions(filePath string, subs []model.Subscription, mtimeNs, sizeBytes int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM subscriptions WHERE source_file = ?", filePath); err != nil {
		return err
	}

	for _, sub := range subs {
		active := 0
		if sub.Active {
			active = 1
		}
		_, err := tx.Exec(`INSERT OR REPLACE INTO subscriptions
			(id, name, cost, billing_cycle, category, anchor_date, active, notes, source_file, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sub.ID, sub.Name, sub.Cost, sub.Cycle, sub.Category, sub.AnchorDate,
			active, sub.Notes, filePath, timeToText(sub.CreatedAt), timeToText(sub.UpdatedAt),
		)
		if err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`INSERT OR REPLACE INTO file_tracker (file_path, mtime_ns, size_bytes)
		VALUES (?, ?, ?)`, filePath, mtimeNs, sizeBytes); err != nil {
		return err
	}

	return tx.Commit()
}

// PruneMissingFiles drops rows owned by export files that are no longer
// present, along with their tracker entries. Directly created rows are never
// touched. Returns the number of files pruned.
func (s *sqliteStore) PruneMissingFiles(present map[string]struct{}) (int, error) {
	tracked, err := s.GetTrackedFiles()
	if err != nil {
		return 0, err
	}

	var stale []string
	for path := range tracked {
		if _, ok := present[path]; !ok {
			stale = append(stale, path)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, path := range stale {
		if _, err := tx.Exec("DELETE FROM subscriptions WHERE source_file = ?", path); err != nil {
			return 0, err
		}
		if _, err := tx.Exec("DELETE FROM file_tracker WHERE file_path = ?", path); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(stale), nil
}
