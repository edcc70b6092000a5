package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// Order события
	EventTypeOrderCreated         EventType = "order.created"
	EventTypeOrderStatusChanged   EventType = "order.status_changed"
	EventTypeOrderDiscountChanged EventType = "order.discount_changed"

	// Registration события
	EventTypeRegistrationCreated       EventType = "registration.created"
	EventTypeRegistrationStatusChanged EventType = "registration.status_changed"
)

// Topics для Kafka
const (
	TopicOrderEvents        = "shop.order.events"
	TopicRegistrationEvents = "shop.registration.events"
	TopicDeadLetterQueue    = "shop.dlq" // Dead Letter Queue для failed messages
)

// Kafka headers для retry логики
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// OrderEvent представляет событие заказа
type OrderEvent struct {
	EventType  EventType              `json:"event_type"`
	OrderID    string                 `json:"order_id"`
	CustomerID string                 `json:"customer_id"`
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// RegistrationEvent представляет событие записи на мастер-класс
type RegistrationEvent struct {
	EventType      EventType              `json:"event_type"`
	RegistrationID string                 `json:"registration_id"`
	EventID        string                 `json:"event_id"`
	CustomerID     string                 `json:"customer_id"`
	Status         string                 `json:"status"`
	Timestamp      time.Time              `json:"timestamp"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// NewOrderEvent создает новое событие заказа
func NewOrderEvent(eventType EventType, orderID, customerID, status string, metadata map[string]interface{}) *OrderEvent {
	return &OrderEvent{
		EventType:  eventType,
		OrderID:    orderID,
		CustomerID: customerID,
		Status:     status,
		Timestamp:  time.Now(),
		Metadata:   metadata,
	}
}

// NewRegistrationEvent создает новое событие записи
func NewRegistrationEvent(eventType EventType, registrationID, eventID, customerID, status string, metadata map[string]interface{}) *RegistrationEvent {
	return &RegistrationEvent{
		EventType:      eventType,
		RegistrationID: registrationID,
		EventID:        eventID,
		CustomerID:     customerID,
		Status:         status,
		Timestamp:      time.Now(),
		Metadata:       metadata,
	}
}
