package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
)

// eventRepositoryInMemory — in-memory реализация EventRepository.
type eventRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Event
}

// NewEventRepository возвращает in-memory репозиторий мастер-классов.
func NewEventRepository() domain.EventRepository {
	return &eventRepositoryInMemory{items: make(map[string]domain.Event)}
}

func (r *eventRepositoryInMemory) Create(event domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Slug == event.Slug {
			return domain.ErrSlugTaken
		}
	}
	r.items[event.ID] = event
	return nil
}

func (r *eventRepositoryInMemory) Get(id string) (domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, ok := r.items[id]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return event, nil
}

func (r *eventRepositoryInMemory) List(upcomingOnly bool, limit int) ([]domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now().UTC()
	result := make([]domain.Event, 0, len(r.items))
	for _, event := range r.items {
		if upcomingOnly && event.StartsAt.Before(now) {
			continue
		}
		result = append(result, event)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartsAt.Equal(result[j].StartsAt) {
			return result[i].StartsAt.Before(result[j].StartsAt)
		}
		return result[i].ID < result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (r *eventRepositoryInMemory) Save(event domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[event.ID]; !ok {
		return domain.ErrEventNotFound
	}
	r.items[event.ID] = event
	return nil
}

func (r *eventRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(r.items, id)
	return nil
}

var _ domain.EventRepository = (*eventRepositoryInMemory)(nil)
