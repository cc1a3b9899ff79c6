package events

import (
	"fmt"
	"io"
	"sync"
)

// Producer delivers an encoded message to a topic.
type Producer interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

// ConsoleProducer prints every message as one line, used when Kafka is
// disabled.
type ConsoleProducer struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleProducer(out io.Writer) *ConsoleProducer {
	return &ConsoleProducer{out: out}
}

func (c *ConsoleProducer) WriteMessage(topic string, msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.out, "%s %s\n", topic, msg)
	return err
}

func (c *ConsoleProducer) Close() error { return nil }
