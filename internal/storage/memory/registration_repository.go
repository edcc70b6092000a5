package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
)

// registrationRepositoryInMemory — in-memory реализация RegistrationRepository.
type registrationRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Registration
}

// NewRegistrationRepository возвращает in-memory репозиторий записей на мастер-классы.
func NewRegistrationRepository() domain.RegistrationRepository {
	return &registrationRepositoryInMemory{items: make(map[string]domain.Registration)}
}

func (r *registrationRepositoryInMemory) Create(registration domain.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[registration.ID]; exists {
		return domain.ErrOrderVersionConflict
	}
	r.items[registration.ID] = registration
	return nil
}

func (r *registrationRepositoryInMemory) Get(id string) (domain.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	registration, ok := r.items[id]
	if !ok {
		return domain.Registration{}, domain.ErrRegistrationNotFound
	}
	return registration, nil
}

func (r *registrationRepositoryInMemory) ListByEvent(eventID string) ([]domain.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Registration, 0)
	for _, registration := range r.items {
		if registration.EventID == eventID {
			result = append(result, registration)
		}
	}
	sortRegistrations(result)
	return result, nil
}

func (r *registrationRepositoryInMemory) ListByCustomer(customerID string) ([]domain.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Registration, 0)
	for _, registration := range r.items {
		if registration.CustomerID == customerID {
			result = append(result, registration)
		}
	}
	sortRegistrations(result)
	return result, nil
}

// CountActive считает записи, удерживающие место на мастер-классе.
func (r *registrationRepositoryInMemory) CountActive(eventID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, registration := range r.items {
		if registration.EventID == eventID && registration.Active() {
			count++
		}
	}
	return count, nil
}

// Save перезаписывает запись, проверяя версию (optimistic locking).
func (r *registrationRepositoryInMemory) Save(registration domain.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[registration.ID]
	if !ok {
		return domain.ErrRegistrationNotFound
	}
	if current.Version != registration.Version {
		return domain.ErrOrderVersionConflict
	}
	registration.Version++
	r.items[registration.ID] = registration
	return nil
}

func sortRegistrations(registrations []domain.Registration) {
	sort.Slice(registrations, func(i, j int) bool {
		if !registrations[i].CreatedAt.Equal(registrations[j].CreatedAt) {
			return registrations[i].CreatedAt.After(registrations[j].CreatedAt)
		}
		return registrations[i].ID > registrations[j].ID
	})
}

var _ domain.RegistrationRepository = (*registrationRepositoryInMemory)(nil)
