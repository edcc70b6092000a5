package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
)

// categoryRepositoryInMemory — in-memory реализация CategoryRepository.
type categoryRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Category
}

// NewCategoryRepository возвращает in-memory репозиторий категорий.
func NewCategoryRepository() domain.CategoryRepository {
	return &categoryRepositoryInMemory{items: make(map[string]domain.Category)}
}

func (r *categoryRepositoryInMemory) Create(category domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Slug == category.Slug {
			return domain.ErrSlugTaken
		}
	}
	r.items[category.ID] = category
	return nil
}

func (r *categoryRepositoryInMemory) Get(id string) (domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, ok := r.items[id]
	if !ok {
		return domain.Category{}, domain.ErrCategoryNotFound
	}
	return category, nil
}

func (r *categoryRepositoryInMemory) List() ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Category, 0, len(r.items))
	for _, category := range r.items {
		result = append(result, category)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *categoryRepositoryInMemory) Save(category domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[category.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	for id, existing := range r.items {
		if id != category.ID && existing.Slug == category.Slug {
			return domain.ErrSlugTaken
		}
	}
	r.items[category.ID] = category
	return nil
}

func (r *categoryRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.items, id)
	return nil
}

var _ domain.CategoryRepository = (*categoryRepositoryInMemory)(nil)
