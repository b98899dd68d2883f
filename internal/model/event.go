package model

import "time"

const EventOrderCreated = "OrderCreated"

// OrderEvent is published on the orders topic after an order is stored.
type OrderEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Payload   Order     `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}
