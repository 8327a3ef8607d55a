package store_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatloom/backend/internal/model"
	"chatloom/backend/internal/store"
)

func setupSQLiteStore(t *testing.T) (store.Store, *sql.DB, sqlmock.Sqlmock) {
	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	return store.NewSQLiteStore(db), db, mockDB
}

func TestSQLiteStore_CreateThread(t *testing.T) {
	ctx := context.Background()
	s, db, mockDB := setupSQLiteStore(t)
	defer func() { _ = db.Close() }()

	now := time.Now().UTC()
	thread := &model.Thread{ID: "thread-1", Title: "New Chat", CreatedAt: now, UpdatedAt: now}

	mockDB.ExpectExec(regexp.QuoteMeta("INSERT INTO threads")).
		WithArgs(thread.ID, thread.Title, thread.CreatedAt, thread.UpdatedAt, sql.NullString{}).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.CreateThread(ctx, thread)
	require.NoError(t, err)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSQLiteStore_GetThread(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		s, db, mockDB := setupSQLiteStore(t)
		defer func() { _ = db.Close() }()

		now := time.Now().UTC()
		rows := sqlmock.NewRows([]string{"id", "title", "created_at", "updated_at", "metadata"}).
			AddRow("thread-1", "A Title", now, now, `{"pinned":"true"}`)
		mockDB.ExpectQuery("SELECT id, title, created_at, updated_at, metadata FROM threads").
			WithArgs("thread-1").
			WillReturnRows(rows)

		thread, err := s.GetThread(ctx, "thread-1")
		require.NoError(t, err)
		assert.Equal(t, "A Title", thread.Title)
		assert.Equal(t, map[string]string{"pinned": "true"}, thread.Metadata)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("Failure - not found", func(t *testing.T) {
		s, db, mockDB := setupSQLiteStore(t)
		defer func() { _ = db.Close() }()

		mockDB.ExpectQuery("SELECT id, title, created_at, updated_at, metadata FROM threads").
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		thread, err := s.GetThread(ctx, "ghost")
		assert.Nil(t, thread)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestSQLiteStore_ListThreads(t *testing.T) {
	ctx := context.Background()
	s, db, mockDB := setupSQLiteStore(t)
	defer func() { _ = db.Close() }()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "title", "created_at", "updated_at", "metadata"}).
		AddRow("thread-2", "Newer", now, now, nil).
		AddRow("thread-1", "Older", now.Add(-time.Hour), now.Add(-time.Hour), nil)
	mockDB.ExpectQuery("SELECT id, title, created_at, updated_at, metadata FROM threads ORDER BY updated_at DESC").
		WillReturnRows(rows)

	threads, err := s.ListThreads(ctx)
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, "thread-2", threads[0].ID)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSQLiteStore_RenameThread(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		s, db, mockDB := setupSQLiteStore(t)
		defer func() { _ = db.Close() }()

		mockDB.ExpectExec(regexp.QuoteMeta("UPDATE threads SET title = ?, updated_at = ? WHERE id = ?")).
			WithArgs("Renamed", sqlmock.AnyArg(), "thread-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := s.RenameThread(ctx, "thread-1", "Renamed")
		require.NoError(t, err)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("Failure - zero rows affected", func(t *testing.T) {
		s, db, mockDB := setupSQLiteStore(t)
		defer func() { _ = db.Close() }()

		mockDB.ExpectExec(regexp.QuoteMeta("UPDATE threads SET title = ?, updated_at = ? WHERE id = ?")).
			WithArgs("Renamed", sqlmock.AnyArg(), "ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.RenameThread(ctx, "ghost", "Renamed")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestSQLiteStore_AddMessage(t *testing.T) {
	ctx := context.Background()
	msg := &model.Message{
		ID:        "01J0000000000000000000000",
		Role:      model.RoleHuman,
		Content:   "hello",
		CreatedAt: time.Now().UTC(),
	}

	t.Run("Success - insert and bump thread inside one transaction", func(t *testing.T) {
		s, db, mockDB := setupSQLiteStore(t)
		defer func() { _ = db.Close() }()

		mockDB.ExpectBegin()
		mockDB.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO messages")).
			WithArgs(msg.ID, "thread-1", msg.Role, msg.Content, msg.CreatedAt, sql.NullString{}).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mockDB.ExpectExec(regexp.QuoteMeta("UPDATE threads SET updated_at = ? WHERE id = ?")).
			WithArgs(sqlmock.AnyArg(), "thread-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mockDB.ExpectCommit()

		err := s.AddMessage(ctx, "thread-1", msg)
		require.NoError(t, err)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("Failure - insert error rolls back", func(t *testing.T) {
		s, db, mockDB := setupSQLiteStore(t)
		defer func() { _ = db.Close() }()

		mockDB.ExpectBegin()
		mockDB.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO messages")).
			WillReturnError(errors.New("constraint violation"))
		mockDB.ExpectRollback()

		err := s.AddMessage(ctx, "thread-1", msg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not insert message")
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("Failure - timestamp bump error rolls back", func(t *testing.T) {
		s, db, mockDB := setupSQLiteStore(t)
		defer func() { _ = db.Close() }()

		mockDB.ExpectBegin()
		mockDB.ExpectExec(regexp.QuoteMeta("INSERT OR REPLACE INTO messages")).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mockDB.ExpectExec(regexp.QuoteMeta("UPDATE threads SET updated_at = ? WHERE id = ?")).
			WillReturnError(errors.New("db error"))
		mockDB.ExpectRollback()

		err := s.AddMessage(ctx, "thread-1", msg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not update thread timestamp")
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestSQLiteStore_GetMessages(t *testing.T) {
	ctx := context.Background()
	s, db, mockDB := setupSQLiteStore(t)
	defer func() { _ = db.Close() }()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "role", "content", "created_at", "metadata"}).
		AddRow("m1", "human", "hi", now, nil).
		AddRow("m2", "assistant", "hello", now.Add(time.Second), `{"model":"test"}`)
	mockDB.ExpectQuery("SELECT id, role, content, created_at, metadata").
		WithArgs("thread-1").
		WillReturnRows(rows)

	messages, err := s.GetMessages(ctx, "thread-1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, model.RoleHuman, messages[0].Role)
	assert.Equal(t, map[string]string{"model": "test"}, messages[1].Metadata)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSQLiteStore_DeleteMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		s, db, mockDB := setupSQLiteStore(t)
		defer func() { _ = db.Close() }()

		mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM messages WHERE thread_id = ? AND id = ?")).
			WithArgs("thread-1", "m1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.DeleteMessage(ctx, "thread-1", "m1"))
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("Failure - not found", func(t *testing.T) {
		s, db, mockDB := setupSQLiteStore(t)
		defer func() { _ = db.Close() }()

		mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM messages WHERE thread_id = ? AND id = ?")).
			WithArgs("thread-1", "ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.DeleteMessage(ctx, "thread-1", "ghost")
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestSQLiteStore_DeleteThreadMessages(t *testing.T) {
	ctx := context.Background()
	s, db, mockDB := setupSQLiteStore(t)
	defer func() { _ = db.Close() }()

	// Zero rows is fine here: an empty thread has nothing to delete.
	mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM messages WHERE thread_id = ?")).
		WithArgs("thread-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.DeleteThreadMessages(ctx, "thread-1"))
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSQLiteStore_DeleteThread(t *testing.T) {
	ctx := context.Background()
	s, db, mockDB := setupSQLiteStore(t)
	defer func() { _ = db.Close() }()

	mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM threads WHERE id = ?")).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeleteThread(ctx, "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}
