package kafka

import (
	"context"
	"errors"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafkaGo.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafkaGo.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishEventEncodesJSON(t *testing.T) {
	w := &recordingWriter{}
	p := &publisher{w: w}

	err := p.PublishEvent(context.Background(), "orders.placed", "ORD-20261019-ABC123", map[string]string{"order_number": "ORD-20261019-ABC123"})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	assert.Equal(t, "orders.placed", w.msgs[0].Topic)
	assert.Equal(t, "ORD-20261019-ABC123", string(w.msgs[0].Key))
	assert.JSONEq(t, `{"order_number":"ORD-20261019-ABC123"}`, string(w.msgs[0].Value))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishEventPropagatesWriterError(t *testing.T) {
	p := &publisher{w: &recordingWriter{err: errors.New("leader not available")}}

	err := p.PublishEvent(context.Background(), "orders.placed", "k", struct{}{})
	assert.ErrorContains(t, err, "leader not available")
}

func TestPublishEventRejectsUnencodable(t *testing.T) {
	p := &publisher{w: &recordingWriter{}}

	err := p.PublishEvent(context.Background(), "orders.placed", "k", make(chan int))
	assert.ErrorContains(t, err, "marshal")
}
