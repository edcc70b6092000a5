package kafka

import (
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"
)

func TestProducer_PublishEvent(t *testing.T) {
	// Создаем mock producer
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	// Настраиваем ожидания
	mockProducer.ExpectSendMessageAndSucceed()

	// Создаем тестовое событие
	event := NewOrderEvent(
		EventTypeOrderCreated,
		"test-order-123",
		"cust-1",
		"pending",
		map[string]interface{}{
			"total_minor": 35000,
		},
	)

	// Публикуем событие
	err := producer.PublishEvent(TopicOrderEvents, "test-order-123", event)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Проверяем, что все ожидания выполнены
	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_Error(t *testing.T) {
	// Создаем mock producer с ошибкой
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	// Настраиваем ожидание ошибки
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	event := NewOrderEvent(
		EventTypeOrderCreated,
		"test-order-123",
		"cust-1",
		"pending",
		nil,
	)

	// Публикуем событие
	err := producer.PublishEvent(TopicOrderEvents, "test-order-123", event)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_Healthy_WithoutClient(t *testing.T) {
	producer := &Producer{
		producer: mocks.NewSyncProducer(t, nil),
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	if err := producer.Healthy(); err == nil {
		t.Fatal("expected error when client is not initialized")
	}

	var nilProducer *Producer
	if err := nilProducer.Healthy(); err == nil {
		t.Fatal("expected error for nil producer")
	}
}

func TestNewOrderEvent(t *testing.T) {
	orderID := "order-123"
	customerID := "cust-1"
	status := "paid"
	metadata := map[string]interface{}{
		"total_minor": 25500,
	}

	event := NewOrderEvent(EventTypeOrderStatusChanged, orderID, customerID, status, metadata)

	if event.EventType != EventTypeOrderStatusChanged {
		t.Errorf("expected event type %s, got %s", EventTypeOrderStatusChanged, event.EventType)
	}

	if event.OrderID != orderID {
		t.Errorf("expected order id %s, got %s", orderID, event.OrderID)
	}

	if event.CustomerID != customerID {
		t.Errorf("expected customer id %s, got %s", customerID, event.CustomerID)
	}

	if event.Status != status {
		t.Errorf("expected status %s, got %s", status, event.Status)
	}

	if event.Metadata["total_minor"] != 25500 {
		t.Error("metadata not set correctly")
	}

	// Проверяем, что timestamp установлен
	if event.Timestamp.IsZero() {
		t.Error("timestamp should not be zero")
	}

	// Проверяем, что timestamp близок к текущему времени
	if time.Since(event.Timestamp) > time.Second {
		t.Error("timestamp should be close to current time")
	}
}

func TestNewRegistrationEvent(t *testing.T) {
	event := NewRegistrationEvent(
		EventTypeRegistrationStatusChanged,
		"reg-1",
		"event-1",
		"cust-1",
		"attended",
		nil,
	)

	if event.EventType != EventTypeRegistrationStatusChanged {
		t.Errorf("expected event type %s, got %s", EventTypeRegistrationStatusChanged, event.EventType)
	}

	if event.RegistrationID != "reg-1" {
		t.Errorf("expected registration id reg-1, got %s", event.RegistrationID)
	}

	if event.EventID != "event-1" {
		t.Errorf("expected event id event-1, got %s", event.EventID)
	}

	if event.Status != "attended" {
		t.Errorf("expected status attended, got %s", event.Status)
	}

	if event.Timestamp.IsZero() {
		t.Error("timestamp should not be zero")
	}
}
