package events

import "time"

const (
	OrderCreatedEventName       = "OrderCreatedEvent"
	OrderStatusChangedEventName = "OrderStatusChangedEvent"
)

// Event はrouting keyになる名前を持つ
type Event interface {
	Name() string
}

type OrderCreatedEvent struct {
	EventID     string    `json:"eventId"`
	OrderID     int64     `json:"orderId"`
	CustomerID  int64     `json:"customerId"`
	TotalAmount int64     `json:"totalAmount"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (OrderCreatedEvent) Name() string { return OrderCreatedEventName }

// NewStatusは必ず遷移後の実際のstatusを入れる
type OrderStatusChangedEvent struct {
	EventID   string    `json:"eventId"`
	OrderID   int64     `json:"orderId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	ChangedAt time.Time `json:"changedAt"`
}

func (OrderStatusChangedEvent) Name() string { return OrderStatusChangedEventName }
