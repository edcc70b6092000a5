package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pottery/internal/api"
	"github.com/vladislavdragonenkov/pottery/internal/auth"
	"github.com/vladislavdragonenkov/pottery/internal/domain"
	"github.com/vladislavdragonenkov/pottery/internal/metrics"
	"github.com/vladislavdragonenkov/pottery/internal/service/catalog"
	"github.com/vladislavdragonenkov/pottery/internal/service/events"
	"github.com/vladislavdragonenkov/pottery/internal/service/orders"
	"github.com/vladislavdragonenkov/pottery/internal/storage/memory"
	"github.com/vladislavdragonenkov/pottery/internal/storage/postgres"
)

// Repositories объединяет все хранилища приложения.
type Repositories struct {
	Orders        domain.OrderRepository
	Checkout      domain.CheckoutRepository
	Products      domain.ProductRepository
	Categories    domain.CategoryRepository
	Events        domain.EventRepository
	Registrations domain.RegistrationRepository
	Carts         domain.CartRepository
	Reviews       domain.ReviewRepository
	Wishlist      domain.WishlistRepository
	Users         domain.UserRepository
	Timeline      domain.TimelineRepository
	Outbox        domain.OutboxRepository
	Idempotency   domain.IdempotencyRepository
}

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Repos   Repositories
	Store   *postgres.Store
	Tokens  *auth.TokenManager
	Metrics *metrics.ShopMetrics

	OrdersService  *orders.Service
	CatalogService *catalog.Service
	EventsService  *events.Service

	Handlers *api.Handlers
	Logger   *log.Entry
}

// NewDependencies создаёт зависимости приложения. При пустом DSN хранилище
// in-memory; с DSN подключается PostgreSQL, схема применяется миграциями.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{Logger: logger}

	if cfg.PostgresDSN == "" {
		deps.Repos = newMemoryRepositories()
		logger.Info("using in-memory storage")
	} else {
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.MigrateUp(ctx, 0); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		deps.Store = store
		deps.Repos = newPostgresRepositories(store)
		logger.Info("using postgres storage")
	}

	deps.Tokens = auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	deps.Metrics = metrics.NewShopMetrics()

	deps.OrdersService = orders.NewService(
		deps.Repos.Orders,
		deps.Repos.Checkout,
		deps.Repos.Products,
		deps.Repos.Carts,
		deps.Repos.Timeline,
		deps.Repos.Outbox,
		deps.Metrics,
		logger.WithField("layer", "orders"),
	)
	deps.CatalogService = catalog.NewService(
		deps.Repos.Products,
		deps.Repos.Categories,
		deps.Repos.Reviews,
		deps.Repos.Wishlist,
		logger.WithField("layer", "catalog"),
	)
	deps.EventsService = events.NewService(
		deps.Repos.Events,
		deps.Repos.Registrations,
		deps.Repos.Timeline,
		deps.Repos.Outbox,
		deps.Metrics,
		logger.WithField("layer", "events"),
	)

	deps.Handlers = api.NewHandlers(
		deps.OrdersService,
		deps.CatalogService,
		deps.EventsService,
		deps.Repos.Users,
		deps.Tokens,
		logger.WithField("layer", "api"),
	)

	return deps, nil
}

// Close освобождает ресурсы зависимостей.
func (d *Dependencies) Close() {
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close postgres store")
		}
	}
}

func newMemoryRepositories() Repositories {
	orderRepo := memory.NewOrderRepository()
	productRepo := memory.NewProductRepository()
	cartRepo := memory.NewCartRepository()

	return Repositories{
		Orders:        orderRepo,
		Checkout:      memory.NewCheckoutRepository(orderRepo, productRepo, cartRepo),
		Products:      productRepo,
		Categories:    memory.NewCategoryRepository(),
		Events:        memory.NewEventRepository(),
		Registrations: memory.NewRegistrationRepository(),
		Carts:         cartRepo,
		Reviews:       memory.NewReviewRepository(),
		Wishlist:      memory.NewWishlistRepository(),
		Users:         memory.NewUserRepository(),
		Timeline:      memory.NewTimelineRepository(),
		Outbox:        memory.NewOutboxRepository(),
		Idempotency:   memory.NewIdempotencyRepository(),
	}
}

func newPostgresRepositories(store *postgres.Store) Repositories {
	return Repositories{
		Orders:        postgres.NewOrderRepository(store),
		Checkout:      postgres.NewCheckoutRepository(store),
		Products:      postgres.NewProductRepository(store),
		Categories:    postgres.NewCategoryRepository(store),
		Events:        postgres.NewEventRepository(store),
		Registrations: postgres.NewRegistrationRepository(store),
		Carts:         postgres.NewCartRepository(store),
		Reviews:       postgres.NewReviewRepository(store),
		Wishlist:      postgres.NewWishlistRepository(store),
		Users:         postgres.NewUserRepository(store),
		Timeline:      postgres.NewTimelineRepository(store),
		Outbox:        postgres.NewOutboxRepository(store),
		Idempotency:   postgres.NewIdempotencyRepository(store),
	}
}
