package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"chatloom/backend/internal/model"
)

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore returns a Store backed by the given SQLite database.
func NewSQLiteStore(db *sql.DB) Store {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) CreateThread(ctx context.Context, thread *model.Thread) error {
	meta, err := marshalMetadata(thread.Metadata)
	if err != nil {
		return err
	}
	query := "INSERT INTO threads (id, title, created_at, updated_at, metadata) VALUES (?, ?, ?, ?, ?)"
	_, err = s.db.ExecContext(ctx, query, thread.ID, thread.Title, thread.CreatedAt, thread.UpdatedAt, meta)
	return err
}

func (s *sqliteStore) GetThread(ctx context.Context, threadID string) (*model.Thread, error) {
	query := "SELECT id, title, created_at, updated_at, metadata FROM threads WHERE id = ?"
	row := s.db.QueryRowContext(ctx, query, threadID)

	var thread model.Thread
	var meta sql.NullString
	err := row.Scan(&thread.ID, &thread.Title, &thread.CreatedAt, &thread.UpdatedAt, &meta)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := unmarshalMetadata(meta, &thread.Metadata); err != nil {
		return nil, err
	}
	return &thread, nil
}

func (s *sqliteStore) ListThreads(ctx context.Context) ([]*model.Thread, error) {
	query := "SELECT id, title, created_at, updated_at, metadata FROM threads ORDER BY updated_at DESC"
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var threads []*model.Thread
	for rows.Next() {
		var thread model.Thread
		var meta sql.NullString
		if err := rows.Scan(&thread.ID, &thread.Title, &thread.CreatedAt, &thread.UpdatedAt, &meta); err != nil {
			return nil, err
		}
		if err := unmarshalMetadata(meta, &thread.Metadata); err != nil {
			return nil, err
		}
		threads = append(threads, &thread)
	}
	return threads, rows.Err()
}

func (s *sqliteStore) RenameThread(ctx context.Context, threadID, newTitle string) error {
	query := "UPDATE threads SET title = ?, updated_at = ? WHERE id = ?"
	res, err := s.db.ExecContext(ctx, query, newTitle, time.Now().UTC(), threadID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *sqliteStore) DeleteThread(ctx context.Context, threadID string) error {
	query := "DELETE FROM threads WHERE id = ?"
	res, err := s.db.ExecContext(ctx, query, threadID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// AddMessage inserts the message and bumps the thread's updated_at inside a
// single transaction. An existing message with the same id is replaced, so
// undo re-insertion after a durable delete is safe.
func (s *sqliteStore) AddMessage(ctx context.Context, threadID string, message *model.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	// Ensure transaction is rolled back on error
	defer tx.Rollback()

	meta, err := marshalMetadata(message.Metadata)
	if err != nil {
		return err
	}

	insertQuery := `
		INSERT OR REPLACE INTO messages (id, thread_id, role, content, created_at, metadata)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, insertQuery,
		message.ID,
		threadID,
		message.Role,
		message.Content,
		message.CreatedAt,
		meta,
	)
	if err != nil {
		return fmt.Errorf("could not insert message: %w", err)
	}

	updateQuery := "UPDATE threads SET updated_at = ? WHERE id = ?"
	if _, err := tx.ExecContext(ctx, updateQuery, time.Now().UTC(), threadID); err != nil {
		return fmt.Errorf("could not update thread timestamp: %w", err)
	}

	return tx.Commit()
}

func (s *sqliteStore) GetMessages(ctx context.Context, threadID string) ([]model.Message, error) {
	query := `
		SELECT id, role, content, created_at, metadata
		FROM messages
		WHERE thread_id = ?
		ORDER BY created_at ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var msg model.Message
		var meta sql.NullString
		if err := rows.Scan(&msg.ID, &msg.Role, &msg.Content, &msg.CreatedAt, &meta); err != nil {
			return nil, err
		}
		if err := unmarshalMetadata(meta, &msg.Metadata); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (s *sqliteStore) DeleteMessage(ctx context.Context, threadID, messageID string) error {
	query := "DELETE FROM messages WHERE thread_id = ? AND id = ?"
	res, err := s.db.ExecContext(ctx, query, threadID, messageID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *sqliteStore) DeleteThreadMessages(ctx context.Context, threadID string) error {
	query := "DELETE FROM messages WHERE thread_id = ?"
	_, err := s.db.ExecContext(ctx, query, threadID)
	return err
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalMetadata(meta map[string]string) (sql.NullString, error) {
	if len(meta) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("could not marshal metadata: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func unmarshalMetadata(raw sql.NullString, dst *map[string]string) error {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw.String), dst); err != nil {
		return fmt.Errorf("could not unmarshal metadata: %w", err)
	}
	return nil
}
