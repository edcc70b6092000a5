package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
)

func TestCheckoutRepository_PostgresAtomicFlow(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	products := NewProductRepository(store)
	carts := NewCartRepository(store)
	orders := NewOrderRepository(store)
	checkout := NewCheckoutRepository(store)

	now := time.Now().UTC().Round(time.Microsecond)
	if err := products.Create(domain.Product{
		ID:         "product-1",
		Name:       "Тарелка",
		Slug:       "plate",
		PriceMinor: 150,
		Currency:   "RUB",
		Stock:      5,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		t.Fatalf("create product: %v", err)
	}
	if err := carts.SetItem("customer-1", "product-1", 2); err != nil {
		t.Fatalf("set cart item: %v", err)
	}

	order := sampleOrder("checkout-order", "customer-1", now)
	if err := checkout.Checkout(order); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	product, err := products.Get("product-1")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if product.Stock != 3 {
		t.Fatalf("expected stock 3 after checkout, got %d", product.Stock)
	}

	cart, err := carts.Get("customer-1")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if !cart.Empty() {
		t.Fatal("cart must be empty after checkout")
	}

	if _, err := orders.Get(order.ID); err != nil {
		t.Fatalf("order must be persisted: %v", err)
	}
}

func TestCheckoutRepository_PostgresInsufficientStockRollsBack(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	products := NewProductRepository(store)
	orders := NewOrderRepository(store)
	checkout := NewCheckoutRepository(store)

	now := time.Now().UTC().Round(time.Microsecond)
	if err := products.Create(domain.Product{
		ID:         "product-1",
		Name:       "Тарелка",
		Slug:       "plate",
		PriceMinor: 150,
		Currency:   "RUB",
		Stock:      1,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		t.Fatalf("create product: %v", err)
	}

	order := sampleOrder("checkout-fail", "customer-1", now)
	err := checkout.Checkout(order)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// Транзакция откатилась: остаток и заказы нетронуты.
	product, err := products.Get("product-1")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if product.Stock != 1 {
		t.Fatalf("expected stock 1 after rollback, got %d", product.Stock)
	}
	if _, err := orders.Get(order.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("order must not be persisted, got %v", err)
	}
}
