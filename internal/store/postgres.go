package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // register postgres driver

	"github.com/subwatchdev/subwatch/internal/model"
)

const (
	pgMaxOpenConns    = 25
	pgMaxIdleConns    = 25
	pgConnMaxLifetime = 5 * time.Minute
	pgConnMaxIdleTime = 1 * time.Minute
)

const pgUpsertSQL = `INSERT INTO subscriptions
	(id, name, cost, billing_cycle, category, anchor_date, active, notes, source_file, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		cost = EXCLUDED.cost,
		billing_cycle = EXCLUDED.billing_cycle,
		category = EXCLUDED.category,
		anchor_date = EXCLUDED.anchor_date,
		active = EXCLUDED.active,
		notes = EXCLUDED.notes,
		source_file = EXCLUDED.source_file,
		created_at = EXCLUDED.created_at,
		updated_at = EXCLUDED.updated_at`

// postgresStore backs the Store interface with PostgreSQL, for setups where
// the daemon and several clients share one database.
type postgresStore struct {
	db *sql.DB
}

// openPostgres connects, applies pool limits, verifies connectivity, and
// bootstraps the schema.
func openPostgres(dsn string) (*postgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	db.SetMaxOpenConns(pgMaxOpenConns)
	db.SetMaxIdleConns(pgMaxIdleConns)
	db.SetConnMaxLifetime(pgConnMaxLifetime)
	db.SetConnMaxIdleTime(pgConnMaxIdleTime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if _, err := db.Exec(pgSchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &postgresStore{db: db}, nil
}

// Close closes the connection pool.
func (s *postgresStore) Close() error {
	return s.db.Close()
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t.UTC(), Valid: !t.IsZero()}
}

// UpsertSubscription saves a directly created or edited subscription,
// clearing its source_file.
func (s *postgresStore) UpsertSubscription(sub model.Subscription) error {
	_, err := s.db.Exec(pgUpsertSQL,
		sub.ID, sub.Name, sub.Cost, sub.Cycle, sub.Category, sub.AnchorDate,
		sub.Active, sub.Notes, "", nullTime(sub.CreatedAt), nullTime(sub.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving subscription: %w", err)
	}
	return nil
}

// DeleteSubscription removes a subscription by id.
func (s *postgresStore) DeleteSubscription(id string) error {
	res, err := s.db.Exec("DELETE FROM subscriptions WHERE id = $1", id)
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
func (s *postgresStore) GetSubscription(id string) (model.Subscription, error) {
	row := s.db.QueryRow(`SELECT id, name, cost, billing_cycle, category, anchor_date, active, notes, created_at, updated_at
		FROM subscriptions WHERE id = $1`, id)

	sub, err := scanPgSubscription(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Subscription{}, model.ErrNotFound
		}
		return model.Subscription{}, err
	}
	return sub, nil
}

// LoadAll reads every subscription in creation order.
func (s *postgresStore) LoadAll() ([]model.Subscription, error) {
	rows, err := s.db.Query(`SELECT id, name, cost, billing_cycle, category, anchor_date, active, notes, created_at, updated_at
		FROM subscriptions ORDER BY created_at NULLS FIRST, name, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var subs []model.Subscription
	for rows.Next() {
		sub, err := scanPgSubscription(rows.Scan)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// scanPgSubscription maps one row onto a subscription; both QueryRow and
// Query hand in the same Scan shape.
func scanPgSubscription(scan func(dest ...any) error) (model.Subscription, error) {
	var sub model.Subscription
	var created, updated sql.NullTime

	err := scan(&sub.ID, &sub.Name, &sub.Cost, &sub.Cycle, &sub.Category,
		&sub.AnchorDate, &sub.Active, &sub.Notes, &created, &updated)
	if err != nil {
		return model.Subscription{}, err
	}

	if created.Valid {
		sub.CreatedAt = created.Time.UTC()
	}
	if updated.Valid {
		sub.UpdatedAt = updated.Time.UTC()
	}
	return sub, nil
}

// SubscriptionCount returns the number of stored subscriptions.
func (s *postgresStore) SubscriptionCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM subscriptions").Scan(&count)
	return count, err
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all tracked
// export files.
func (s *postgresStore) GetTrackedFiles() (map[string]FileInfo, error) {
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
// file's current records and updates its tracker entry, atomically.
func (s *postgresStore) ReplaceFileSubscriptions(filePath string, subs []model.Subscription, mtimeNs, sizeBytes int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM subscriptions WHERE source_file = $1", filePath); err != nil {
		return err
	}

	for _, sub := range subs {
		_, err := tx.Exec(pgUpsertSQL,
			sub.ID, sub.Name, sub.Cost, sub.Cycle, sub.Category, sub.AnchorDate,
			sub.Active, sub.Notes, filePath, nullTime(sub.CreatedAt), nullTime(sub.UpdatedAt),
		)
		if err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`INSERT INTO file_tracker (file_path, mtime_ns, size_bytes)
		VALUES ($1, $2, $3)
		ON CONFLICT (file_path) DO UPDATE SET
			mtime_ns = EXCLUDED.mtime_ns,
			size_bytes = EXCLUDED.size_bytes`, filePath, mtimeNs, sizeBytes); err != nil {
		return err
	}

	return tx.Commit()
}

// PruneMissingFiles drops rows owned by export files that are no longer
// present, along with their tracker entries. Returns the number of files
// pruned.
func (s *postgresStore) PruneMissingFiles(present map[string]struct{}) (int, error) {
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
		if _, err := tx.Exec("DELETE FROM subscriptions WHERE source_file = $1", path); err != nil {
			return 0, err
		}
		if _, err := tx.Exec("DELETE FROM file_tracker WHERE file_path = $1", path); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(stale), nil
}
