package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var (
	_ FeedStore      = (*Store)(nil)
	_ ImageDataStore = (*Store)(nil)
)

// Store is a SQLite-backed FeedStore and ImageDataStore. Every operation runs
// on one serial queue, so reads and writes of the single cache snapshot never
// interleave.
type Store struct {
	db    *sql.DB
	queue *serialQueue
	ctx   context.Context
	stop  context.CancelFunc
}

// Open opens the SQLite database at path, applies migrations and starts the
// store's serial queue. The caller should call Close when done.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	version, dirty, err := RunMigrations(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	slog.Debug("Database migrations applied", "path", path, "version", version, "dirty", dirty)

	ctx, stop := context.WithCancel(context.Background())
	return &Store{
		db:    db,
		queue: newSerialQueue(),
		ctx:   ctx,
		stop:  stop,
	}, nil
}

// Close waits for queued operations to finish and closes the database.
// Operations submitted afterwards complete with ErrStoreClosed.
func (s *Store) Close() error {
	s.queue.close()
	s.stop()
	return s.db.Close()
}

func (s *Store) perform(op string, job func(ctx context.Context) error, completion func(error)) {
	queued := s.queue.enqueue(func() {
		if err := job(s.ctx); err != nil {
			completion(&StoreError{Op: op, Err: err})
			return
		}
		completion(nil)
	})
	if !queued {
		go completion(&StoreError{Op: op, Err: ErrStoreClosed})
	}
}

func (s *Store) DeleteCachedFeed(completion func(error)) {
	s.perform("delete", s.deleteCachedFeed, completion)
}

func (s *Store) InsertFeed(items []FeedItem, timestamp time.Time, completion func(error)) {
	s.perform("insert", func(ctx context.Context) error {
		return s.insertFeed(ctx, items, timestamp)
	}, completion)
}

func (s *Store) RetrieveFeed(completion func(*CachedFeed, error)) {
	var cached *CachedFeed
	s.perform("retrieve", func(ctx context.Context) error {
		var err error
		cached, err = s.retrieveFeed(ctx)
		return err
	}, func(err error) {
		if err != nil {
			completion(nil, err)
			return
		}
		completion(cached, nil)
	})
}

func (s *Store) InsertImageData(data []byte, u *url.URL, completion func(error)) {
	s.perform("insert image data", func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO image_cache (url, data, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT (url) DO UPDATE SET
				data = excluded.data,
				updated_at = excluded.updated_at
		`, u.String(), data, time.Now().UTC().UnixNano())
		if err != nil {
			return fmt.Errorf("failed to upsert image data: %w", err)
		}
		return nil
	}, completion)
}

func (s *Store) RetrieveImageData(u *url.URL, completion func([]byte, error)) {
	var data []byte
	s.perform("retrieve image data", func(ctx context.Context) error {
		err := s.db.QueryRowContext(ctx, `SELECT data FROM image_cache WHERE url = ?`, u.String()).Scan(&data)
		if errors.Is(err, sql.ErrNoRows) {
			data = nil
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get image data: %w", err)
		}
		if data == nil {
			data = []byte{}
		}
		return nil
	}, func(err error) {
		if err != nil {
			completion(nil, err)
			return
		}
		completion(data, nil)
	})
}

func (s *Store) deleteCachedFeed(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := clearSnapshot(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

func (s *Store) insertFeed(ctx context.Context, items []FeedItem, timestamp time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := clearSnapshot(ctx, tx); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO feed_cache (id, timestamp) VALUES (1, ?)`,
		timestamp.UnixNano(),
	); err != nil {
		return fmt.Errorf("failed to insert cache snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO feed_cache_items (position, id, description, location, url)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare item insert: %w", err)
	}
	defer stmt.Close()

	for position, item := range items {
		if item.URL == nil {
			return fmt.Errorf("item %s has no url", item.ID)
		}
		if _, err := stmt.ExecContext(ctx,
			position, item.ID.String(), item.Description, item.Location, item.URL.String(),
		); err != nil {
			return fmt.Errorf("failed to insert cached item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit insert: %w", err)
	}
	return nil
}

func (s *Store) retrieveFeed(ctx context.Context) (*CachedFeed, error) {
	var timestamp int64
	err := s.db.QueryRowContext(ctx, `SELECT timestamp FROM feed_cache WHERE id = 1`).Scan(&timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache snapshot: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, location, url
		FROM feed_cache_items
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get cached items: %w", err)
	}
	defer rows.Close()

	items := []FeedItem{}
	for rows.Next() {
		var (
			rawID       string
			rawURL      string
			description sql.NullString
			location    sql.NullString
		)
		if err := rows.Scan(&rawID, &description, &location, &rawURL); err != nil {
			return nil, fmt.Errorf("failed to scan cached item row: %w", err)
		}

		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("invalid cached item id %q: %w", rawID, err)
		}
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid cached item url %q: %w", rawURL, err)
		}

		items = append(items, FeedItem{
			ID:          id,
			Description: nullableString(description),
			Location:    nullableString(location),
			URL:         u,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cached item rows: %w", err)
	}

	return &CachedFeed{
		Items:     items,
		Timestamp: time.Unix(0, timestamp),
	}, nil
}

func clearSnapshot(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM feed_cache_items`); err != nil {
		return fmt.Errorf("failed to delete cached items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM feed_cache`); err != nil {
		return fmt.Errorf("failed to delete cache snapshot: %w", err)
	}
	return nil
}

func nullableString(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	return &value.String
}
