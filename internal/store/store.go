// Package store persists subscriptions, in SQLite by default or PostgreSQL
// when pointed at a postgres DSN.
package store

import (
	"strings"

	"github.com/subwatchdev/subwatch/internal/model"
)

// FileInfo holds the tracked mtime and size for an export file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// Store is the system of record for subscriptions. Rows imported from an
// export file remember which file owns them; ReplaceFileSubscriptions swaps
// a file's rows wholesale when the file changes, and a direct edit detaches
// a row from its file until the next sync.
type Store interface {
	UpsertSubscription(sub model.Subscription) error
	DeleteSubscription(id string) error
	GetSubscription(id string) (model.Subscription, error)
	LoadAll() ([]model.Subscription, error)
	SubscriptionCount() (int, error)

	GetTrackedFiles() (map[string]FileInfo, error)
	ReplaceFileSubscriptions(filePath string, subs []model.Subscription, mtimeNs, sizeBytes int64) error
	PruneMissingFiles(present map[string]struct{}) (int, error)

	Close() error
}

// Open selects a backend from the DSN: postgres:// and postgresql:// URLs get
// PostgreSQL, anything else is treated as a SQLite database path.
func Open(dsn string) (Store, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return openPostgres(dsn)
	}
	return openSQLite(dsn)
}
