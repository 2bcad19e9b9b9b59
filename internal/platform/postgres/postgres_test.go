package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTxCommits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = WithTx(context.Background(), db, nil, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(context.Background(), "UPDATE products SET stock = stock - 1")
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = WithTx(context.Background(), db, nil, func(tx *sql.Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = WithTx(context.Background(), db, nil, func(tx *sql.Tx) error { panic("kaboom") })
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetLockTimeout(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("SET LOCAL lock_timeout = '2500ms'").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, SetLockTimeout(context.Background(), db, 2500*time.Millisecond))
	require.NoError(t, SetLockTimeout(context.Background(), db, 0))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassification(t *testing.T) {
	dup := fmt.Errorf("insert order: %w", &pq.Error{Code: CodeUniqueViolation})
	lock := &pq.Error{Code: CodeLockNotAvailable}

	assert.True(t, IsUniqueViolation(dup))
	assert.False(t, IsTransient(dup))
	assert.True(t, IsTransient(lock))
	assert.True(t, IsTransient(&pq.Error{Code: CodeDeadlockDetected}))
	assert.Equal(t, "", Code(errors.New("plain")))
}
