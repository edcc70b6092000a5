package domain

import "time"

// TimelineEvent описывает событие аудита в жизненном цикле заказа или
// записи на мастер-класс. AggregateID — идентификатор заказа/записи.
type TimelineEvent struct {
	AggregateID string
	Type        string
	Reason      string
	Occurred    time.Time
}
