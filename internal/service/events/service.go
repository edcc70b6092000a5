package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
	"github.com/vladislavdragonenkov/pottery/internal/metrics"
)

const (
	defaultListLimit = 100

	timelineEventStatusChanged = "RegistrationStatusChanged"

	outboxEventRegistrationCreated       = "registration.created"
	outboxEventRegistrationStatusChanged = "registration.status_changed"

	aggregateRegistration = "registration"
)

// Service реализует мастер-классы и записи на них: публичный список и
// запись, административный CRUD и переходы статусов записей.
type Service struct {
	events        domain.EventRepository
	registrations domain.RegistrationRepository
	timeline      domain.TimelineRepository
	outbox        domain.OutboxRepository
	metrics       *metrics.ShopMetrics
	logger        *log.Entry
}

// NewService конструирует сервис мастер-классов.
// Timeline, outbox и metrics опциональны: nil отключает соответствующую запись.
func NewService(
	events domain.EventRepository,
	registrations domain.RegistrationRepository,
	timeline domain.TimelineRepository,
	outbox domain.OutboxRepository,
	shopMetrics *metrics.ShopMetrics,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.WithField("component", "events-service")
	}
	return &Service{
		events:        events,
		registrations: registrations,
		timeline:      timeline,
		outbox:        outbox,
		metrics:       shopMetrics,
		logger:        logger,
	}
}

// CreateEvent добавляет мастер-класс (admin).
func (s *Service) CreateEvent(_ context.Context, event domain.Event) (domain.Event, error) {
	if errs := event.ValidateInvariants(); len(errs) > 0 {
		return domain.Event{}, errs[0]
	}

	now := time.Now().UTC()
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.CreatedAt = now
	event.UpdatedAt = now

	if err := s.events.Create(event); err != nil {
		s.logger.WithError(err).WithField("title", event.Title).Error("failed to create event")
		return domain.Event{}, err
	}
	return event, nil
}

// UpdateEvent сохраняет изменения мастер-класса (admin).
func (s *Service) UpdateEvent(_ context.Context, event domain.Event) (domain.Event, error) {
	if errs := event.ValidateInvariants(); len(errs) > 0 {
		return domain.Event{}, errs[0]
	}

	existing, err := s.events.Get(event.ID)
	if err != nil {
		return domain.Event{}, err
	}
	event.CreatedAt = existing.CreatedAt
	event.UpdatedAt = time.Now().UTC()

	if err := s.events.Save(event); err != nil {
		s.logger.WithError(err).WithField("event_id", event.ID).Error("failed to save event")
		return domain.Event{}, err
	}
	return event, nil
}

// DeleteEvent удаляет мастер-класс (admin).
func (s *Service) DeleteEvent(_ context.Context, eventID string) error {
	return s.events.Delete(eventID)
}

// GetEvent возвращает мастер-класс по идентификатору.
func (s *Service) GetEvent(_ context.Context, eventID string) (domain.Event, error) {
	return s.events.Get(eventID)
}

// ListEvents возвращает мастер-классы; upcomingOnly ограничивает выборку
// будущими событиями.
func (s *Service) ListEvents(_ context.Context, upcomingOnly bool, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.events.List(upcomingOnly, limit)
}

// Register записывает покупателя на мастер-класс. Вместимость проверяется
// по числу активных записей; Capacity == 0 означает «без ограничения».
func (s *Service) Register(_ context.Context, eventID, customerID string) (domain.Registration, error) {
	if customerID == "" {
		return domain.Registration{}, domain.ErrCustomerRequired
	}

	event, err := s.events.Get(eventID)
	if err != nil {
		return domain.Registration{}, err
	}

	if event.Capacity > 0 {
		active, err := s.registrations.CountActive(eventID)
		if err != nil {
			s.logger.WithError(err).WithField("event_id", eventID).Error("failed to count registrations")
			return domain.Registration{}, err
		}
		if active >= int(event.Capacity) {
			return domain.Registration{}, domain.ErrEventFull
		}
	}

	now := time.Now().UTC()
	registration := domain.Registration{
		ID:          uuid.NewString(),
		EventID:     eventID,
		CustomerID:  customerID,
		Status:      domain.RegistrationStatusPending,
		RequestAt:   &now,
		AmountMinor: event.PriceMinor,
		Currency:    event.Currency,
		Version:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.registrations.Create(registration); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"event_id":    eventID,
			"customer_id": customerID,
		}).Error("failed to create registration")
		return domain.Registration{}, err
	}

	s.appendStatusTimeline(registration.ID, string(registration.Status), registration.UpdatedAt)
	s.enqueueRegistrationEvent(outboxEventRegistrationCreated, registration)
	if s.metrics != nil {
		s.metrics.RecordRegistrationCreated()
	}

	return registration, nil
}

// GetRegistration возвращает запись по идентификатору.
func (s *Service) GetRegistration(_ context.Context, registrationID string) (domain.Registration, error) {
	return s.registrations.Get(registrationID)
}

// ListRegistrationsByEvent возвращает записи мастер-класса (admin).
func (s *Service) ListRegistrationsByEvent(_ context.Context, eventID string) ([]domain.Registration, error) {
	return s.registrations.ListByEvent(eventID)
}

// ListRegistrationsByCustomer возвращает записи покупателя.
func (s *Service) ListRegistrationsByCustomer(_ context.Context, customerID string) ([]domain.Registration, error) {
	return s.registrations.ListByCustomer(customerID)
}

// UpdateRegistrationStatus переводит запись в новый статус по таблице
// жизненного цикла, с теми же правилами дозаполнения и очистки отметок
// времени, что и у заказа.
func (s *Service) UpdateRegistrationStatus(_ context.Context, registrationID string, next domain.RegistrationStatus) (domain.Registration, error) {
	registration, err := s.registrations.Get(registrationID)
	if err != nil {
		return domain.Registration{}, err
	}

	previous := registration.Status
	if err := registration.ApplyStatus(next, time.Now().UTC()); err != nil {
		return domain.Registration{}, err
	}
	if previous == registration.Status {
		return registration, nil
	}

	if err := s.registrations.Save(registration); err != nil {
		s.logger.WithError(err).WithField("registration_id", registrationID).Error("failed to save registration")
		return domain.Registration{}, err
	}
	registration.Version++

	s.appendStatusTimeline(registration.ID, string(registration.Status), registration.UpdatedAt)
	s.enqueueRegistrationEvent(outboxEventRegistrationStatusChanged, registration)
	if s.metrics != nil {
		s.metrics.RecordStatusTransition(aggregateRegistration, string(registration.Status))
	}

	return registration, nil
}

// RegistrationTimeline возвращает события аудита записи.
func (s *Service) RegistrationTimeline(_ context.Context, registrationID string) ([]domain.TimelineEvent, error) {
	if s.timeline == nil {
		return nil, nil
	}
	return s.timeline.List(registrationID)
}

func (s *Service) appendStatusTimeline(registrationID, status string, occurred time.Time) {
	if s.timeline == nil {
		return
	}
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}
	event := domain.TimelineEvent{
		AggregateID: registrationID,
		Type:        timelineEventStatusChanged,
		Reason:      status,
		Occurred:    occurred,
	}
	if err := s.timeline.Append(event); err != nil {
		s.logger.WithError(err).WithField("registration_id", registrationID).Warn("failed to append timeline event")
		return
	}
	if s.metrics != nil {
		s.metrics.RecordTimelineEvent()
	}
}

type registrationEventPayload struct {
	RegistrationID string `json:"registration_id"`
	EventID        string `json:"event_id"`
	CustomerID     string `json:"customer_id"`
	Status         string `json:"status"`
	AmountMinor    int64  `json:"amount_minor"`
	Currency       string `json:"currency"`
}

func (s *Service) enqueueRegistrationEvent(eventType string, registration domain.Registration) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(registrationEventPayload{
		RegistrationID: registration.ID,
		EventID:        registration.EventID,
		CustomerID:     registration.CustomerID,
		Status:         string(registration.Status),
		AmountMinor:    registration.AmountMinor,
		Currency:       registration.Currency,
	})
	if err != nil {
		s.logger.WithError(err).WithField("registration_id", registration.ID).Warn("failed to marshal outbox payload")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		ID:            uuid.NewString(),
		AggregateType: aggregateRegistration,
		AggregateID:   registration.ID,
		EventType:     eventType,
		Payload:       payload,
	}); err != nil {
		s.logger.WithError(err).WithField("registration_id", registration.ID).Warn("failed to enqueue outbox event")
		return
	}
	if s.metrics != nil {
		s.metrics.RecordOutboxEvent()
	}
}
