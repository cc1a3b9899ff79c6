package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/chrisdamba/webdiner/internal/models"
)

type EventType string

const (
	OrderPlaced       EventType = "order.placed"
	OrderCancelled    EventType = "order.cancelled"
	OrderOverridden   EventType = "order.overridden"
	ReminderRequested EventType = "order.reminder"
)

type OrderEvent struct {
	Type       EventType          `json:"type"`
	OrderID    string             `json:"order_id,omitempty"`
	UserID     string             `json:"user_id"`
	EmployeeID string             `json:"employee_id,omitempty"`
	Email      string             `json:"email,omitempty"`
	Date       models.Date        `json:"date"`
	VendorID   string             `json:"vendor_id,omitempty"`
	MenuItemID string             `json:"menu_item_id,omitempty"`
	Status     models.OrderStatus `json:"status,omitempty"`
	At         time.Time          `json:"at"`
}

// Emitter encodes domain events and hands them to a producer. Order
// events are best effort: delivery failures are logged and swallowed.
type Emitter struct {
	producer       Producer
	ordersTopic    string
	remindersTopic string
	logger         zerolog.Logger
	now            func() time.Time
}

func NewEmitter(producer Producer, cfg models.KafkaConfig, logger zerolog.Logger) *Emitter {
	return &Emitter{
		producer:       producer,
		ordersTopic:    cfg.OrdersTopic(),
		remindersTopic: cfg.RemindersTopic(),
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (e *Emitter) OrderPlaced(order models.Order) {
	e.emitOrder(OrderPlaced, order)
}

func (e *Emitter) OrderCancelled(order models.Order) {
	e.emitOrder(OrderCancelled, order)
}

func (e *Emitter) OrderOverridden(order models.Order) {
	e.emitOrder(OrderOverridden, order)
}

// ReminderRequested asks the notification pipeline to remind user to order
// for date. Unlike order events its failure is reported to the caller.
func (e *Emitter) ReminderRequested(user models.User, date models.Date) error {
	return e.publish(e.remindersTopic, OrderEvent{
		Type:       ReminderRequested,
		UserID:     user.ID,
		EmployeeID: user.EmployeeID,
		Email:      user.Email,
		Date:       date,
		At:         e.now(),
	})
}

func (e *Emitter) emitOrder(t EventType, order models.Order) {
	err := e.publish(e.ordersTopic, OrderEvent{
		Type:       t,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Date:       order.Date,
		VendorID:   order.VendorID,
		MenuItemID: order.MenuItemID,
		Status:     order.Status,
		At:         e.now(),
	})
	if err != nil {
		e.logger.Warn().Err(err).Str("event", string(t)).Str("order_id", order.ID).Msg("order event not delivered")
	}
}

func (e *Emitter) publish(topic string, ev OrderEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ev.Type, err)
	}
	return e.producer.WriteMessage(topic, payload)
}

func (e *Emitter) Close() error { return e.producer.Close() }
