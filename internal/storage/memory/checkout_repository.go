package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
)

// checkoutRepositoryInMemory оформляет заказ поверх in-memory репозиториев:
// проверяет и списывает остатки, сохраняет заказ и очищает корзину.
// Общий мьютекс делает оформление атомарным относительно других checkout.
type checkoutRepositoryInMemory struct {
	mu       sync.Mutex
	orders   domain.OrderRepository
	products domain.ProductRepository
	carts    domain.CartRepository
}

// NewCheckoutRepository создаёт in-memory реализацию CheckoutRepository.
func NewCheckoutRepository(orders domain.OrderRepository, products domain.ProductRepository, carts domain.CartRepository) domain.CheckoutRepository {
	return &checkoutRepositoryInMemory{
		orders:   orders,
		products: products,
		carts:    carts,
	}
}

// Checkout выполняет шаги оформления последовательно. При ошибке на любом
// шаге уже списанные остатки возвращаются обратно.
func (r *checkoutRepositoryInMemory) Checkout(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	decremented := make([]domain.Product, 0, len(order.Items))
	rollback := func() {
		for _, product := range decremented {
			_ = r.products.Save(product)
		}
	}

	for _, item := range order.Items {
		product, err := r.products.Get(item.ProductID)
		if err != nil {
			rollback()
			return err
		}
		if product.Stock < item.Qty {
			rollback()
			return domain.ErrInsufficientStock
		}
		original := product
		product.Stock -= item.Qty
		if err := r.products.Save(product); err != nil {
			rollback()
			return err
		}
		decremented = append(decremented, original)
	}

	if err := r.orders.Create(order); err != nil {
		rollback()
		return err
	}

	return r.carts.Clear(order.CustomerID)
}

var _ domain.CheckoutRepository = (*checkoutRepositoryInMemory)(nil)
