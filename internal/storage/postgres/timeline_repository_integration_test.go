package postgres

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
)

func TestTimelineRepository_PostgresAppendAndList(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	orderRepo := NewOrderRepository(store)
	timelineRepo := NewTimelineRepository(store)

	createdAt := time.Now().UTC().Add(-time.Minute).Round(time.Microsecond)
	order := sampleOrder("timeline-order", "customer-timeline", createdAt)
	if err := orderRepo.Create(order); err != nil {
		t.Fatalf("create order for timeline: %v", err)
	}

	// Zero occurred should be auto-filled.
	if err := timelineRepo.Append(domain.TimelineEvent{
		AggregateID: order.ID,
		Type:        "OrderCreated",
		Reason:      "created",
	}); err != nil {
		t.Fatalf("append timeline event with zero occurred: %v", err)
	}

	explicitOccurred := createdAt.Add(10 * time.Second)
	if err := timelineRepo.Append(domain.TimelineEvent{
		AggregateID: order.ID,
		Type:        "OrderPaid",
		Reason:      "paid",
		Occurred:    explicitOccurred,
	}); err != nil {
		t.Fatalf("append timeline event with explicit occurred: %v", err)
	}

	events, err := timelineRepo.List(order.ID)
	if err != nil {
		t.Fatalf("list timeline events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 timeline events, got %d", len(events))
	}
	if events[0].Occurred.After(events[1].Occurred) {
		t.Fatalf("events should be sorted by occurred asc: %+v", events)
	}
	types := []string{events[0].Type, events[1].Type}
	if !(contains(types, "OrderCreated") && contains(types, "OrderPaid")) {
		t.Fatalf("unexpected event types: %+v", types)
	}
}

func TestTimelineRepository_PostgresSharedForRegistrations(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	timelineRepo := NewTimelineRepository(store)

	// Таймлайн общий для заказов и записей: агрегат любого типа.
	if err := timelineRepo.Append(domain.TimelineEvent{
		AggregateID: "registration-1",
		Type:        "RegistrationApproved",
		Reason:      "seat confirmed",
	}); err != nil {
		t.Fatalf("append registration event: %v", err)
	}

	events, err := timelineRepo.List("registration-1")
	if err != nil {
		t.Fatalf("list registration events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	empty, err := timelineRepo.List("missing-aggregate")
	if err != nil {
		t.Fatalf("list for missing aggregate should not fail: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no events for missing aggregate, got %d", len(empty))
	}
}

func contains(values []string, needle string) bool {
	for _, value := range values {
		if value == needle {
			return true
		}
	}
	return false
}
