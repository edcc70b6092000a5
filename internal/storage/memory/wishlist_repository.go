package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
)

// wishlistRepositoryInMemory — in-memory реализация WishlistRepository.
type wishlistRepositoryInMemory struct {
	mu sync.RWMutex
	// items: customerID → productID → запись.
	items map[string]map[string]domain.WishlistItem
}

// NewWishlistRepository возвращает in-memory репозиторий списков желаний.
func NewWishlistRepository() domain.WishlistRepository {
	return &wishlistRepositoryInMemory{items: make(map[string]map[string]domain.WishlistItem)}
}

// Add сохраняет товар в списке; повторное добавление — no-op.
func (r *wishlistRepositoryInMemory) Add(item domain.WishlistItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byProduct, ok := r.items[item.CustomerID]
	if !ok {
		byProduct = make(map[string]domain.WishlistItem)
		r.items[item.CustomerID] = byProduct
	}
	if _, exists := byProduct[item.ProductID]; !exists {
		byProduct[item.ProductID] = item
	}
	return nil
}

func (r *wishlistRepositoryInMemory) Remove(customerID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if byProduct, ok := r.items[customerID]; ok {
		delete(byProduct, productID)
	}
	return nil
}

func (r *wishlistRepositoryInMemory) List(customerID string) ([]domain.WishlistItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byProduct := r.items[customerID]
	result := make([]domain.WishlistItem, 0, len(byProduct))
	for _, item := range byProduct {
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].AddedAt.Equal(result[j].AddedAt) {
			return result[i].AddedAt.After(result[j].AddedAt)
		}
		return result[i].ProductID < result[j].ProductID
	})
	return result, nil
}

var _ domain.WishlistRepository = (*wishlistRepositoryInMemory)(nil)
