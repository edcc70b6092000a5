package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
)

// productRepositoryInMemory — in-memory реализация ProductRepository
// с контролем уникальности slug.
type productRepositoryInMemory struct {
	mu     sync.RWMutex
	items  map[string]domain.Product
	bySlug map[string]string
}

// NewProductRepository возвращает in-memory репозиторий каталога.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		items:  make(map[string]domain.Product),
		bySlug: make(map[string]string),
	}
}

func (r *productRepositoryInMemory) Create(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.bySlug[product.Slug]; taken {
		return domain.ErrSlugTaken
	}
	r.items[product.ID] = cloneProduct(product)
	r.bySlug[product.Slug] = product.ID
	return nil
}

func (r *productRepositoryInMemory) Get(id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return cloneProduct(product), nil
}

func (r *productRepositoryInMemory) GetBySlug(slug string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySlug[slug]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return cloneProduct(r.items[id]), nil
}

func (r *productRepositoryInMemory) List(filter domain.ProductFilter) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(r.items))
	for _, product := range r.items {
		if filter.CategoryID != "" && product.CategoryID != filter.CategoryID {
			continue
		}
		if filter.ActiveOnly && !product.Active {
			continue
		}
		result = append(result, cloneProduct(product))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}

	return result, nil
}

func (r *productRepositoryInMemory) Save(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[product.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if current.Slug != product.Slug {
		if _, taken := r.bySlug[product.Slug]; taken {
			return domain.ErrSlugTaken
		}
		delete(r.bySlug, current.Slug)
		r.bySlug[product.Slug] = product.ID
	}
	r.items[product.ID] = cloneProduct(product)
	return nil
}

func (r *productRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.items[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	delete(r.bySlug, product.Slug)
	delete(r.items, id)
	return nil
}

func cloneProduct(product domain.Product) domain.Product {
	cloned := product
	cloned.ImageURLs = append([]string(nil), product.ImageURLs...)
	return cloned
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
