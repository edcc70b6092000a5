package kafka

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	log "github.com/sirupsen/logrus"
)

// Producer публикует события магазина в Kafka синхронно,
// с подтверждением от всех in-sync реплик.
type Producer struct {
	client   sarama.Client
	producer sarama.SyncProducer
	logger   *log.Entry
}

func producerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Compression = sarama.CompressionSnappy
	// Идемпотентный producer требует не больше одного запроса в полёте.
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1
	return config
}

// NewProducer подключается к брокерам и создаёт синхронный producer.
// Клиент остаётся у producer'а для health-проверок.
func NewProducer(brokers []string) (*Producer, error) {
	client, err := sarama.NewClient(brokers, producerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	producer, err := sarama.NewSyncProducerFromClient(client)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &Producer{
		client:   client,
		producer: producer,
		logger:   log.WithField("component", "kafka-producer"),
	}, nil
}

// Healthy проверяет доступность брокеров через обновление метаданных.
func (p *Producer) Healthy() error {
	if p == nil || p.client == nil {
		return fmt.Errorf("kafka client is not initialized")
	}
	if err := p.client.RefreshMetadata(); err != nil {
		return fmt.Errorf("failed to refresh kafka metadata: %w", err)
	}
	return nil
}

// PublishEvent сериализует событие в JSON и отправляет его в топик.
// Ключ определяет партицию: события одного заказа или записи на
// мастер-класс сохраняют порядок.
func (p *Producer) PublishEvent(topic string, key string, event interface{}) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     topic,
		Key:       sarama.StringEncoder(key),
		Value:     sarama.ByteEncoder(eventData),
		Timestamp: time.Now(),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.WithError(err).WithFields(log.Fields{
			"topic": topic,
			"key":   key,
		}).Error("failed to send message to kafka")
		return fmt.Errorf("failed to send message: %w", err)
	}

	p.logger.WithFields(log.Fields{
		"topic":     topic,
		"key":       key,
		"partition": partition,
		"offset":    offset,
	}).Debug("message sent to kafka")

	return nil
}

// Close останавливает producer и закрывает клиент.
// Закрытие producer'а не закрывает созданный отдельно клиент.
func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		if p.client != nil {
			_ = p.client.Close()
		}
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	if p.client != nil {
		if err := p.client.Close(); err != nil && !errors.Is(err, sarama.ErrClosedClient) {
			return fmt.Errorf("failed to close kafka client: %w", err)
		}
	}
	return nil
}
