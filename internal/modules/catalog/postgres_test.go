package catalog

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/georgemunganga/storefront-checkout/internal/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, price, stock, is_active, updated_at`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "stock", "is_active", "updated_at"}).
			AddRow(int64(1), "Carbon Spinning Rod", "25.00", 12, true, now))

	p, err := NewPostgresRepository(db).GetProduct(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "Carbon Spinning Rod", p.Name)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("25.00")))
	assert.Equal(t, 12, p.Stock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM products").WithArgs(int64(99)).WillReturnError(sql.ErrNoRows)

	_, err = NewPostgresRepository(db).GetProduct(context.Background(), 99)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestDecrementStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	update := regexp.QuoteMeta(`UPDATE products SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND stock >= $1`)
	mock.ExpectExec(update).WithArgs(2, int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(update).WithArgs(5, int64(2)).WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewPostgresRepository(db)

	ok, err := repo.DecrementStock(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecrementStock(context.Background(), 2, 5)
	require.NoError(t, err)
	assert.False(t, ok, "a short row must not be decremented")

	assert.NoError(t, mock.ExpectationsWereMet())
}
