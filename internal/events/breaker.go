package events

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

type BreakerConfig struct {
	Name                string
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:                "kafka",
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 3,
	}
}

// BreakerProducer stops calling the wrapped producer after repeated
// failures, so a dead broker fails fast instead of stalling requests.
type BreakerProducer struct {
	next Producer
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerProducer(next Producer, cfg BreakerConfig) *BreakerProducer {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}
	return &BreakerProducer{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *BreakerProducer) WriteMessage(topic string, msg []byte) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.WriteMessage(topic, msg)
	})
	return err
}

func (b *BreakerProducer) State() gobreaker.State { return b.cb.State() }

func (b *BreakerProducer) Close() error { return b.next.Close() }
