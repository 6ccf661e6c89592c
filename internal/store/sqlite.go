package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/ybazarbay/bizhub/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// UpsertNotifications inserts or replaces a batch of notification
// records. Records without an ID are skipped; the backend assigns IDs
// and a record without one cannot be addressed later.
func (s *SQLiteStore) UpsertNotifications(
	ctx context.Context,
	notifications []model.Notification,
) error {
	if len(notifications) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO notifications (
			id, user_id, type, actor_id, actor_username,
			post_id, comment_id, message, read, created_at, metadata
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, n := range notifications {
		if n.ID == "" {
			continue
		}

		metadata, err := json.Marshal(n.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling metadata for notification %s: %w", n.ID, err)
		}

		_, err = stmt.ExecContext(ctx,
			n.ID, n.UserID, string(n.Type), n.ActorID, n.ActorUsername,
			n.PostID, n.CommentID, n.Message,
			boolToInt(n.IsRead), n.CreatedAt.UTC(), string(metadata),
		)
		if err != nil {
			return fmt.Errorf("upserting notification %s: %w", n.ID, err)
		}
	}

	return tx.Commit()
}

// GetNotifications retrieves notifications matching the filter,
// ordered by creation time descending.
func (s *SQLiteStore) GetNotifications(
	ctx context.Context,
	filter NotificationFilter,
) ([]model.Notification, error) {
	query := "SELECT * FROM notifications"
	if filter.UnreadOnly {
		query += " WHERE read = 0"
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// GetNotificationByID retrieves a single notification by its ID.
// Returns nil without an error when the ID is unknown.
func (s *SQLiteStore) GetNotificationByID(
	ctx context.Context,
	id string,
) (*model.Notification, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM notifications WHERE id = ?", id,
	)
	if err != nil {
		return nil, fmt.Errorf("querying notification %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("getting notification %s: %w", id, err)
		}
		return nil, nil
	}

	n, err := scanNotification(rows)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// CountUnread returns the number of unread notifications.
func (s *SQLiteStore) CountUnread(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx,
		&count, "SELECT COUNT(*) FROM notifications WHERE read = 0",
	)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks a single notification as read.
func (s *SQLiteStore) MarkRead(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("marking notification %s as read: %w", id, err)
	}
	return nil
}

// MarkAllRead marks every cached notification as read.
func (s *SQLiteStore) MarkAllRead(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE read = 0",
	)
	if err != nil {
		return fmt.Errorf("marking all notifications as read: %w", err)
	}
	return nil
}

// Clear removes every cached notification. Called on logout so the
// next account's cache starts empty.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM notifications")
	if err != nil {
		return fmt.Errorf("clearing notifications: %w", err)
	}
	return nil
}

// scanNotification scans a notification row from a sqlx.Rows result set.
func scanNotification(rows *sqlx.Rows) (model.Notification, error) {
	var (
		n            model.Notification
		typ          string
		readInt      int
		createdAt    time.Time
		metadataJSON string
	)

	err := rows.Scan(
		&n.ID, &n.UserID, &typ, &n.ActorID, &n.ActorUsername,
		&n.PostID, &n.CommentID, &n.Message,
		&readInt, &createdAt, &metadataJSON,
	)
	if err != nil {
		return model.Notification{}, fmt.Errorf("scanning notification row: %w", err)
	}

	n.Type = model.NotificationType(typ)
	n.IsRead = readInt != 0
	n.CreatedAt = createdAt

	if metadataJSON != "" && metadataJSON != "{}" && metadataJSON != "null" {
		var metadata map[string]string
		if json.Unmarshal([]byte(metadataJSON), &metadata) == nil {
			n.Metadata = metadata
		}
	}

	return n, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
