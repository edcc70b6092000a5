package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
)

func TestWorker_ProcessOnce_MarkSent(t *testing.T) {
	t.Parallel()

	repo := &recordingOutbox{
		pending: []domain.OutboxMessage{
			{
				ID:            "msg-1",
				AggregateType: "order",
				AggregateID:   "order-1",
				EventType:     "order.status_changed",
				Payload:       []byte(`{"status":"paid"}`),
			},
		},
	}
	broker := &scriptedBroker{}

	worker := NewWorker(
		repo,
		broker,
		WithRetryBaseDelay(0),
		WithMaxAttempts(3),
	)

	worker.ProcessOnce(context.Background())

	if got := len(repo.sentIDs); got != 1 {
		t.Fatalf("expected 1 sent mark, got %d", got)
	}
	if repo.sentIDs[0] != "msg-1" {
		t.Fatalf("expected sent id msg-1, got %s", repo.sentIDs[0])
	}
	if got := len(repo.failedIDs); got != 0 {
		t.Fatalf("expected 0 failed marks, got %d", got)
	}
	if got := broker.calls(); got != 1 {
		t.Fatalf("expected 1 publish call, got %d", got)
	}
}

func TestWorker_ProcessOnce_MarkFailedAndDLQAfterRetries(t *testing.T) {
	t.Parallel()

	repo := &recordingOutbox{
		pending: []domain.OutboxMessage{
			{
				ID:            "msg-2",
				AggregateType: "registration",
				AggregateID:   "reg-2",
				EventType:     "registration.status_changed",
				Payload:       []byte(`{"status":"cancelled"}`),
			},
		},
	}
	broker := &scriptedBroker{err: errors.New("broker unreachable")}
	dlq := &scriptedBroker{}

	worker := NewWorker(
		repo,
		broker,
		WithDLQPublisher(dlq),
		WithRetryBaseDelay(0),
		WithMaxAttempts(3),
	)

	worker.ProcessOnce(context.Background())

	if got := broker.calls(); got != 3 {
		t.Fatalf("expected 3 publish attempts, got %d", got)
	}
	if got := len(repo.sentIDs); got != 0 {
		t.Fatalf("expected 0 sent marks, got %d", got)
	}
	if got := len(repo.failedIDs); got != 1 {
		t.Fatalf("expected 1 failed mark, got %d", got)
	}
	if repo.failedIDs[0] != "msg-2" {
		t.Fatalf("expected failed id msg-2, got %s", repo.failedIDs[0])
	}
	if got := dlq.calls(); got != 1 {
		t.Fatalf("expected 1 DLQ publish, got %d", got)
	}

	// DLQ-копия несёт исходное событие и текст ошибки публикации.
	wrapped := dlq.last()
	if wrapped.AggregateType != "registration" || wrapped.ID != "msg-2" {
		t.Fatalf("unexpected DLQ message: %+v", wrapped)
	}
	var dlqPayload struct {
		PublishError string          `json:"publish_error"`
		Payload      json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(wrapped.Payload, &dlqPayload); err != nil {
		t.Fatalf("DLQ payload is not valid JSON: %v", err)
	}
	if dlqPayload.PublishError == "" {
		t.Fatal("DLQ payload must carry publish_error")
	}
	if string(dlqPayload.Payload) != `{"status":"cancelled"}` {
		t.Fatalf("DLQ payload must embed original event, got %s", dlqPayload.Payload)
	}
}

func TestWorker_ProcessOnce_SuccessAfterRetry(t *testing.T) {
	t.Parallel()

	repo := &recordingOutbox{
		pending: []domain.OutboxMessage{
			{
				ID:            "msg-3",
				AggregateType: "order",
				AggregateID:   "order-3",
				EventType:     "order.status_changed",
				Payload:       []byte(`{"status":"shipped"}`),
			},
		},
	}
	broker := &scriptedBroker{
		sequenceErrors: []error{
			errors.New("attempt 1"),
			errors.New("attempt 2"),
			nil,
		},
	}

	worker := NewWorker(
		repo,
		broker,
		WithRetryBaseDelay(0),
		WithMaxAttempts(3),
	)

	worker.ProcessOnce(context.Background())

	if got := broker.calls(); got != 3 {
		t.Fatalf("expected 3 publish attempts, got %d", got)
	}
	if got := len(repo.sentIDs); got != 1 {
		t.Fatalf("expected 1 sent mark, got %d", got)
	}
	if got := len(repo.failedIDs); got != 0 {
		t.Fatalf("expected 0 failed marks, got %d", got)
	}
}

func TestWorker_RetryDelayDoublesAndSaturates(t *testing.T) {
	t.Parallel()

	worker := NewWorker(&recordingOutbox{}, &scriptedBroker{}, WithRetryBaseDelay(10*time.Millisecond))

	if got := worker.retryDelay(1); got != 10*time.Millisecond {
		t.Fatalf("attempt 1: expected base delay, got %s", got)
	}
	if got := worker.retryDelay(3); got != 40*time.Millisecond {
		t.Fatalf("attempt 3: expected 40ms, got %s", got)
	}
	// Очень большой номер попытки не должен переполнять Duration.
	if got := worker.retryDelay(200); got <= 0 {
		t.Fatalf("saturated delay must stay positive, got %s", got)
	}
}

func TestWorker_Run_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	repo := &recordingOutbox{}
	broker := &scriptedBroker{}

	worker := NewWorker(
		repo,
		broker,
		WithPollInterval(5*time.Millisecond),
		WithRetryBaseDelay(0),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Run(ctx)
	}()

	time.Sleep(15 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("worker did not stop on context cancel")
	}
}

// recordingOutbox отдаёт заранее заготовленные pending-сообщения и
// запоминает, какие из них воркер пометил sent и failed.
type recordingOutbox struct {
	pending   []domain.OutboxMessage
	sentIDs   []string
	failedIDs []string
}

func (s *recordingOutbox) Enqueue(msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	return msg, nil
}

func (s *recordingOutbox) PullPending(limit int) ([]domain.OutboxMessage, error) {
	if limit <= 0 || limit >= len(s.pending) {
		return append([]domain.OutboxMessage(nil), s.pending...), nil
	}
	return append([]domain.OutboxMessage(nil), s.pending[:limit]...), nil
}

func (s *recordingOutbox) Stats() (domain.OutboxStats, error) {
	stats := domain.OutboxStats{
		PendingCount: len(s.pending),
	}
	if len(s.pending) > 0 {
		stats.OldestPendingAt = time.Now().UTC().Add(-time.Second)
	}
	return stats, nil
}

func (s *recordingOutbox) MarkSent(id string) error {
	s.sentIDs = append(s.sentIDs, id)
	return nil
}

func (s *recordingOutbox) MarkFailed(id string) error {
	s.failedIDs = append(s.failedIDs, id)
	return nil
}

// scriptedBroker возвращает ошибки по сценарию: sequenceErrors по одной
// на вызов, затем постоянный err.
type scriptedBroker struct {
	mu             sync.Mutex
	err            error
	sequenceErrors []error
	callCount      int
	lastMessage    domain.OutboxMessage
}

func (s *scriptedBroker) Publish(msg domain.OutboxMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.callCount++
	s.lastMessage = msg
	if len(s.sequenceErrors) > 0 {
		err := s.sequenceErrors[0]
		s.sequenceErrors = s.sequenceErrors[1:]
		return err
	}

	return s.err
}

func (s *scriptedBroker) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callCount
}

func (s *scriptedBroker) last() domain.OutboxMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastMessage
}

var _ domain.OutboxRepository = (*recordingOutbox)(nil)
var _ domain.OutboxPublisher = (*scriptedBroker)(nil)
