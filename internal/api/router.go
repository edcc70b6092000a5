package api

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pottery/internal/auth"
	"github.com/vladislavdragonenkov/pottery/internal/domain"
	"github.com/vladislavdragonenkov/pottery/internal/metrics"
)

// RouterConfig — зависимости HTTP-маршрутизатора.
type RouterConfig struct {
	Handlers    *Handlers
	Tokens      *auth.TokenManager
	Idempotency domain.IdempotencyRepository
	Metrics     *metrics.ShopMetrics
	Logger      *log.Entry
}

// NewRouter собирает все маршруты API: публичную витрину, личный кабинет
// покупателя и административный контур.
func NewRouter(cfg RouterConfig) http.Handler {
	h := cfg.Handlers
	mux := http.NewServeMux()

	requireAuth := Auth(cfg.Tokens)
	requireAdmin := func(handler http.HandlerFunc) http.Handler {
		return requireAuth(RequireAdmin(handler))
	}
	idempotent := Idempotency(cfg.Idempotency, cfg.Logger)
	// Мутирующие админские ручки принимают Idempotency-Key наравне с checkout.
	adminMutation := func(handler http.HandlerFunc) http.Handler {
		return requireAuth(RequireAdmin(idempotent(handler)))
	}

	// Аутентификация.
	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/refresh", h.Refresh)
	mux.Handle("GET /api/auth/me", requireAuth(http.HandlerFunc(h.Me)))

	// Публичная витрина.
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /api/products/{id}/reviews", h.ListReviews)
	mux.HandleFunc("GET /api/categories", h.ListCategories)
	mux.HandleFunc("GET /api/events", h.ListEvents)
	mux.HandleFunc("GET /api/events/{id}", h.GetEvent)

	// Личный кабинет покупателя.
	mux.Handle("POST /api/products/{id}/reviews", requireAuth(http.HandlerFunc(h.AddReview)))
	mux.Handle("GET /api/wishlist", requireAuth(http.HandlerFunc(h.ListWishlist)))
	mux.Handle("POST /api/wishlist/{productID}", requireAuth(http.HandlerFunc(h.AddToWishlist)))
	mux.Handle("DELETE /api/wishlist/{productID}", requireAuth(http.HandlerFunc(h.RemoveFromWishlist)))

	mux.Handle("GET /api/cart", requireAuth(http.HandlerFunc(h.Cart)))
	mux.Handle("PUT /api/cart/items", requireAuth(http.HandlerFunc(h.SetCartItem)))
	mux.Handle("DELETE /api/cart/items/{productID}", requireAuth(http.HandlerFunc(h.RemoveCartItem)))
	mux.Handle("DELETE /api/cart", requireAuth(http.HandlerFunc(h.ClearCart)))

	mux.Handle("POST /api/checkout", requireAuth(idempotent(http.HandlerFunc(h.Checkout))))
	mux.Handle("GET /api/orders", requireAuth(http.HandlerFunc(h.MyOrders)))
	mux.Handle("GET /api/orders/{id}", requireAuth(http.HandlerFunc(h.MyOrder)))

	mux.Handle("POST /api/events/{id}/register", requireAuth(idempotent(http.HandlerFunc(h.RegisterForEvent))))
	mux.Handle("GET /api/registrations", requireAuth(http.HandlerFunc(h.MyRegistrations)))

	// Административный контур.
	mux.Handle("POST /api/admin/products", adminMutation(h.CreateProduct))
	mux.Handle("PUT /api/admin/products/{id}", adminMutation(h.UpdateProduct))
	mux.Handle("DELETE /api/admin/products/{id}", adminMutation(h.DeleteProduct))

	mux.Handle("POST /api/admin/categories", adminMutation(h.CreateCategory))
	mux.Handle("PUT /api/admin/categories/{id}", adminMutation(h.UpdateCategory))
	mux.Handle("DELETE /api/admin/categories/{id}", adminMutation(h.DeleteCategory))

	mux.Handle("POST /api/admin/events", adminMutation(h.CreateEvent))
	mux.Handle("PUT /api/admin/events/{id}", adminMutation(h.UpdateEvent))
	mux.Handle("DELETE /api/admin/events/{id}", adminMutation(h.DeleteEvent))
	mux.Handle("GET /api/admin/events/{id}/registrations", requireAdmin(h.ListEventRegistrations))

	mux.Handle("GET /api/admin/orders", requireAdmin(h.ListOrders))
	mux.Handle("GET /api/admin/orders/{id}", requireAdmin(h.GetOrder))
	mux.Handle("GET /api/admin/orders/{id}/timeline", requireAdmin(h.OrderTimeline))
	mux.Handle("PUT /api/admin/orders/{id}/status", adminMutation(h.UpdateOrderStatus))
	mux.Handle("PUT /api/admin/orders/{id}/discount", adminMutation(h.UpdateOrderDiscount))
	mux.Handle("PUT /api/admin/order-items/{itemID}/discount", adminMutation(h.UpdateItemDiscount))
	mux.Handle("PUT /api/admin/order-items/{itemID}/qty", adminMutation(h.UpdateItemQuantity))

	mux.Handle("GET /api/admin/registrations/{id}", requireAdmin(h.GetRegistration))
	mux.Handle("PUT /api/admin/registrations/{id}/status", adminMutation(h.UpdateRegistrationStatus))
	mux.Handle("GET /api/admin/registrations/{id}/timeline", requireAdmin(h.RegistrationTimeline))

	mux.Handle("DELETE /api/admin/reviews/{id}", adminMutation(h.DeleteReview))

	return Observe(cfg.Logger, cfg.Metrics)(mux)
}
