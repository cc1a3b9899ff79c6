package events

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/webdiner/internal/models"
)

type recordingProducer struct {
	topics []string
	msgs   [][]byte
	err    error
}

func (r *recordingProducer) WriteMessage(topic string, msg []byte) error {
	if r.err != nil {
		return r.err
	}
	r.topics = append(r.topics, topic)
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recordingProducer) Close() error { return nil }

func TestEmitterOrderPlaced(t *testing.T) {
	t.Parallel()
	rec := &recordingProducer{}
	e := NewEmitter(rec, models.KafkaConfig{TopicPrefix: "lunch"}, zerolog.Nop())

	e.OrderPlaced(models.Order{
		ID:         "o1",
		UserID:     "u1",
		Date:       models.Date{Year: 2024, Month: time.June, Day: 10},
		VendorID:   "v1",
		MenuItemID: "i1",
		Status:     models.OrderStatusPending,
	})

	require.Len(t, rec.msgs, 1)
	assert.Equal(t, "lunch.orders", rec.topics[0])

	var ev OrderEvent
	require.NoError(t, json.Unmarshal(rec.msgs[0], &ev))
	assert.Equal(t, OrderPlaced, ev.Type)
	assert.Equal(t, "o1", ev.OrderID)
	assert.Equal(t, "2024-06-10", ev.Date.String())
}

func TestEmitterSwallowsOrderFailures(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	rec := &recordingProducer{err: errors.New("broker down")}
	e := NewEmitter(rec, models.KafkaConfig{TopicPrefix: "lunch"}, zerolog.New(&logs))

	e.OrderCancelled(models.Order{ID: "o1"})
	assert.Contains(t, logs.String(), "order event not delivered")

	err := e.ReminderRequested(models.User{ID: "u1"}, models.Date{Year: 2024, Month: time.June, Day: 10})
	assert.Error(t, err)
}

func TestSaramaProducerSends(t *testing.T) {
	t.Parallel()
	mp := mocks.NewSyncProducer(t, NewSaramaConfig())
	mp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		if string(val) != `{"hello":"lunch"}` {
			return errors.New("unexpected payload " + string(val))
		}
		return nil
	})
	mp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewSaramaProducerFrom(mp)
	require.NoError(t, p.WriteMessage("lunch.orders", []byte(`{"hello":"lunch"}`)))
	err := p.WriteMessage("lunch.orders", []byte(`{}`))
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()
	rec := &recordingProducer{err: errors.New("broker down")}
	cfg := DefaultBreakerConfig()
	cfg.ConsecutiveFailures = 2
	b := NewBreakerProducer(rec, cfg)

	assert.Error(t, b.WriteMessage("t", nil))
	assert.Error(t, b.WriteMessage("t", nil))
	assert.Equal(t, gobreaker.StateOpen, b.State())

	err := b.WriteMessage("t", nil)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestConsoleProducer(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	p := NewConsoleProducer(&out)
	require.NoError(t, p.WriteMessage("lunch.orders", []byte(`{"a":1}`)))
	assert.Equal(t, "lunch.orders {\"a\":1}\n", out.String())
}
