package memory

import (
	"sync"
	"time"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
)

// cartRepositoryInMemory — in-memory реализация CartRepository.
// Корзина идентифицируется покупателем; пустая корзина не хранится.
type cartRepositoryInMemory struct {
	mu    sync.RWMutex
	carts map[string]domain.Cart
}

// NewCartRepository возвращает in-memory репозиторий корзин.
func NewCartRepository() domain.CartRepository {
	return &cartRepositoryInMemory{carts: make(map[string]domain.Cart)}
}

// Get возвращает корзину покупателя; отсутствие записей — пустая корзина.
func (r *cartRepositoryInMemory) Get(customerID string) (domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[customerID]
	if !ok {
		return domain.Cart{CustomerID: customerID}, nil
	}
	cloned := cart
	cloned.Items = append([]domain.CartItem(nil), cart.Items...)
	return cloned, nil
}

// SetItem устанавливает количество товара; qty <= 0 удаляет позицию.
func (r *cartRepositoryInMemory) SetItem(customerID, productID string, qty int32) error {
	if qty <= 0 {
		return r.RemoveItem(customerID, productID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	cart, ok := r.carts[customerID]
	if !ok {
		cart = domain.Cart{CustomerID: customerID}
	}

	updated := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Qty = qty
			updated = true
			break
		}
	}
	if !updated {
		cart.Items = append(cart.Items, domain.CartItem{ProductID: productID, Qty: qty, AddedAt: now})
	}
	cart.UpdatedAt = now
	r.carts[customerID] = cart
	return nil
}

func (r *cartRepositoryInMemory) RemoveItem(customerID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[customerID]
	if !ok {
		return nil
	}

	items := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	cart.Items = items
	cart.UpdatedAt = time.Now().UTC()

	if cart.Empty() {
		delete(r.carts, customerID)
		return nil
	}
	r.carts[customerID] = cart
	return nil
}

func (r *cartRepositoryInMemory) Clear(customerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, customerID)
	return nil
}

var _ domain.CartRepository = (*cartRepositoryInMemory)(nil)
