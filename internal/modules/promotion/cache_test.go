package promotion

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCachedFinderMissThenFill(t *testing.T) {
	db, mock := redismock.NewClientMock()
	promo := &Promotion{ID: 7, Code: "FISH10", Type: TypePercentage, Value: dec("10"), IsActive: true}
	next := &mapFinder{byCode: map[string]*Promotion{"fish10": promo}}
	payload, err := json.Marshal(promo)
	require.NoError(t, err)

	mock.ExpectGet("promotion:code:FISH10").RedisNil()
	mock.ExpectSet("promotion:code:FISH10", payload, 30*time.Second).SetVal("OK")

	c := NewCachedFinder(next, db, 30*time.Second, zap.NewNop())
	p, err := c.GetByCode(context.Background(), "fish10")
	require.NoError(t, err)

	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, 1, next.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedFinderHit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	next := &mapFinder{}
	payload, err := json.Marshal(&Promotion{ID: 3, Code: "SHIPFREE", Type: TypeFreeShipping, IsActive: true})
	require.NoError(t, err)

	mock.ExpectGet("promotion:code:SHIPFREE").SetVal(string(payload))

	p, err := NewCachedFinder(next, db, time.Minute, zap.NewNop()).GetByCode(context.Background(), "SHIPFREE")
	require.NoError(t, err)

	assert.Equal(t, TypeFreeShipping, p.Type)
	assert.Zero(t, next.calls, "a cache hit must not reach the database")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedFinderFallsBackWhenRedisDown(t *testing.T) {
	db, mock := redismock.NewClientMock()
	promo := &Promotion{ID: 1, Code: "FIXED5", Type: TypeFixed, Value: dec("5"), IsActive: true}
	next := &mapFinder{byCode: map[string]*Promotion{"FIXED5": promo}}
	payload, _ := json.Marshal(promo)

	mock.ExpectGet("promotion:code:FIXED5").SetErr(errors.New("connection refused"))
	mock.ExpectSet("promotion:code:FIXED5", payload, time.Minute).SetErr(errors.New("connection refused"))

	p, err := NewCachedFinder(next, db, time.Minute, zap.NewNop()).GetByCode(context.Background(), "FIXED5")
	require.NoError(t, err)
	assert.Equal(t, "FIXED5", p.Code)
}

func TestCachedFinderDoesNotCacheMisses(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectGet("promotion:code:NOPE").RedisNil()

	_, err := NewCachedFinder(&mapFinder{}, db, time.Minute, zap.NewNop()).GetByCode(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrPromotionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedFinderInvalidate(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectDel("promotion:code:FISH10").SetVal(1)

	require.NoError(t, NewCachedFinder(&mapFinder{}, db, time.Minute, zap.NewNop()).Invalidate(context.Background(), "fish10"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
