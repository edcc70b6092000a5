package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pottery/internal/messaging/kafka"
)

// initKafkaProducer инициализирует Kafka producer, если задан список брокеров.
// Возвращает nil, nil при пустом списке; решение о работе без Kafka
// принимает вызывающий.
func initKafkaProducer(brokers []string, logger *log.Entry) (*kafka.Producer, error) {
	if len(brokers) == 0 {
		return nil, nil
	}

	producer, err := kafka.NewProducer(brokers)
	if err != nil {
		return nil, err
	}

	logger.WithField("brokers", brokers).Info("kafka producer initialized")
	return producer, nil
}

// closeKafka закрывает Kafka producer, если он не nil.
func closeKafka(producer *kafka.Producer, logger *log.Entry) {
	if producer == nil {
		return
	}

	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka producer")
	} else {
		logger.Info("kafka producer closed")
	}
}
