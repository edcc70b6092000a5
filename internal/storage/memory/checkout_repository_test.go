package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
	"github.com/vladislavdragonenkov/pottery/internal/storage/memory"
)

func seedProduct(t *testing.T, repo domain.ProductRepository, id string, stock int32) {
	t.Helper()
	err := repo.Create(domain.Product{
		ID:         id,
		Name:       "Ваза",
		Slug:       "vase-" + id,
		PriceMinor: 100,
		Currency:   "RUB",
		Stock:      stock,
		Active:     true,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed product failed: %v", err)
	}
}

func TestCheckoutRepository_DecrementsStockAndClearsCart(t *testing.T) {
	orders := memory.NewOrderRepository()
	products := memory.NewProductRepository()
	carts := memory.NewCartRepository()
	checkout := memory.NewCheckoutRepository(orders, products, carts)

	seedProduct(t, products, "product-1", 5)
	if err := carts.SetItem("customer-1", "product-1", 2); err != nil {
		t.Fatalf("set cart item failed: %v", err)
	}

	order := newOrder()
	order.Items[0].Qty = 2
	order.RecalcTotals()

	if err := checkout.Checkout(order); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	product, err := products.Get("product-1")
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if product.Stock != 3 {
		t.Fatalf("expected stock 3, got %d", product.Stock)
	}

	cart, err := carts.Get("customer-1")
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if !cart.Empty() {
		t.Fatal("cart must be empty after checkout")
	}

	if _, err := orders.Get(order.ID); err != nil {
		t.Fatalf("order must be stored: %v", err)
	}
}

func TestCheckoutRepository_InsufficientStockRollsBack(t *testing.T) {
	orders := memory.NewOrderRepository()
	products := memory.NewProductRepository()
	carts := memory.NewCartRepository()
	checkout := memory.NewCheckoutRepository(orders, products, carts)

	seedProduct(t, products, "product-1", 5)
	seedProduct(t, products, "product-2", 1)

	now := time.Now().UTC()
	order := newOrder()
	order.Items = []domain.OrderItem{
		{ID: "item-1", ProductID: "product-1", Qty: 2, PriceMinor: 100, CreatedAt: now},
		{ID: "item-2", ProductID: "product-2", Qty: 3, PriceMinor: 100, CreatedAt: now},
	}
	order.RecalcTotals()

	err := checkout.Checkout(order)
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// Списание первого товара должно откатиться.
	product, err := products.Get("product-1")
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if product.Stock != 5 {
		t.Fatalf("expected stock restored to 5, got %d", product.Stock)
	}

	if _, err := orders.Get(order.ID); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("order must not be stored, got %v", err)
	}
}

func TestRegistrationRepository_CountActive(t *testing.T) {
	repo := memory.NewRegistrationRepository()
	now := time.Now().UTC()

	active := domain.Registration{ID: "reg-1", EventID: "event-1", CustomerID: "c-1", Status: domain.RegistrationStatusApproved, CreatedAt: now}
	cancelled := domain.Registration{ID: "reg-2", EventID: "event-1", CustomerID: "c-2", Status: domain.RegistrationStatusCancelled, CreatedAt: now}
	other := domain.Registration{ID: "reg-3", EventID: "event-2", CustomerID: "c-3", Status: domain.RegistrationStatusPaid, CreatedAt: now}

	for _, reg := range []domain.Registration{active, cancelled, other} {
		if err := repo.Create(reg); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	count, err := repo.CountActive("event-1")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 active registration, got %d", count)
	}
}
