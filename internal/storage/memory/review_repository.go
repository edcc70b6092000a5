package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
)

// reviewRepositoryInMemory — in-memory реализация ReviewRepository.
type reviewRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Review
}

// NewReviewRepository возвращает in-memory репозиторий отзывов.
func NewReviewRepository() domain.ReviewRepository {
	return &reviewRepositoryInMemory{items: make(map[string]domain.Review)}
}

func (r *reviewRepositoryInMemory) Create(review domain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[review.ID] = review
	return nil
}

func (r *reviewRepositoryInMemory) ListByProduct(productID string, limit int) ([]domain.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Review, 0)
	for _, review := range r.items {
		if review.ProductID == productID {
			result = append(result, review)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (r *reviewRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrReviewNotFound
	}
	delete(r.items, id)
	return nil
}

var _ domain.ReviewRepository = (*reviewRepositoryInMemory)(nil)
