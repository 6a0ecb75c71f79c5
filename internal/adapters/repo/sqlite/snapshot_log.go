package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bnema/devicepool-cli/internal/domain"
	"github.com/bnema/devicepool-cli/internal/ports"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	_ "modernc.org/sqlite"
)

const (
	SnapshotsPathKey = "snapshots.path"

	defaultDirName  = ".config/devicepool"
	defaultFileName = "snapshots.sqlite"
	snapshotTable   = "pool_snapshots"
)

// SnapshotLog appends every observed pool status to a local sqlite file.
type SnapshotLog struct {
	db   *sql.DB
	path string
}

var _ ports.SnapshotLog = (*SnapshotLog)(nil)

func Open(cfg *viper.Viper) (*SnapshotLog, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := cfg.GetString(SnapshotsPathKey)
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "snapshots: resolve home directory")
		}
		path = filepath.Join(homeDir, defaultDirName, defaultFileName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "snapshots: create directory")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "snapshots: open sqlite database failed")
	}
	if err := configure(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := prepareSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SnapshotLog{db: db, path: path}, nil
}

func (l *SnapshotLog) Path() string {
	return l.path
}

func (l *SnapshotLog) Close() error {
	return l.db.Close()
}

func (l *SnapshotLog) Record(ctx context.Context, snapshot domain.PoolSnapshot) error {
	observedAt := snapshot.ObservedAt
	if observedAt.IsZero() {
		observedAt = time.Now()
	}

	_, err := l.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (observed_at, available_phones, busy_phones, average_processing_ms) VALUES (?, ?, ?, ?)`, snapshotTable),
		observedAt.UTC().UnixMilli(),
		snapshot.Status.AvailablePhones,
		snapshot.Status.BusyPhones,
		snapshot.Status.AverageProcessingTime,
	)
	if err != nil {
		return errors.Wrap(err, "snapshots: insert failed")
	}

	return nil
}

// Recent returns up to limit snapshots, newest first.
func (l *SnapshotLog) Recent(ctx context.Context, limit int) ([]domain.PoolSnapshot, error) {
	if limit <= 0 {
		return []domain.PoolSnapshot{}, nil
	}

	rows, err := l.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT observed_at, available_phones, busy_phones, average_processing_ms FROM %s ORDER BY observed_at DESC, id DESC LIMIT ?`, snapshotTable),
		limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "snapshots: query failed")
	}
	defer rows.Close()

	snapshots := make([]domain.PoolSnapshot, 0, limit)
	for rows.Next() {
		var (
			observedAt int64
			snapshot   domain.PoolSnapshot
		)
		if err := rows.Scan(&observedAt, &snapshot.Status.AvailablePhones, &snapshot.Status.BusyPhones, &snapshot.Status.AverageProcessingTime); err != nil {
			return nil, errors.Wrap(err, "snapshots: scan row failed")
		}
		snapshot.ObservedAt = time.UnixMilli(observedAt).UTC()
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "snapshots: iterate rows failed")
	}

	return snapshots, nil
}

func configure(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return errors.Wrapf(err, "snapshots: execute %s failed", pragma)
		}
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return nil
}

func prepareSchema(db *sql.DB) error {
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			observed_at INTEGER NOT NULL,
			available_phones INTEGER NOT NULL,
			busy_phones INTEGER NOT NULL,
			average_processing_ms INTEGER NOT NULL DEFAULT 0
		);`, snapshotTable),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_observed_at ON %s (observed_at);`, snapshotTable, snapshotTable),
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return errors.Wrap(err, "snapshots: prepare schema failed")
		}
	}
	return nil
}
