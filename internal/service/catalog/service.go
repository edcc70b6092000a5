package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
)

const defaultListLimit = 100

// Service реализует операции каталога: товары, категории, отзывы и
// списки желаний.
type Service struct {
	products   domain.ProductRepository
	categories domain.CategoryRepository
	reviews    domain.ReviewRepository
	wishlist   domain.WishlistRepository
	logger     *log.Entry
}

// NewService конструирует сервис каталога.
func NewService(
	products domain.ProductRepository,
	categories domain.CategoryRepository,
	reviews domain.ReviewRepository,
	wishlist domain.WishlistRepository,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.WithField("component", "catalog-service")
	}
	return &Service{
		products:   products,
		categories: categories,
		reviews:    reviews,
		wishlist:   wishlist,
		logger:     logger,
	}
}

// CreateProduct добавляет товар в каталог (admin).
func (s *Service) CreateProduct(_ context.Context, product domain.Product) (domain.Product, error) {
	if errs := product.ValidateInvariants(); len(errs) > 0 {
		return domain.Product{}, errs[0]
	}
	if product.CategoryID != "" {
		if _, err := s.categories.Get(product.CategoryID); err != nil {
			return domain.Product{}, err
		}
	}

	now := time.Now().UTC()
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.products.Create(product); err != nil {
		s.logger.WithError(err).WithField("slug", product.Slug).Error("failed to create product")
		return domain.Product{}, err
	}
	return product, nil
}

// UpdateProduct сохраняет изменения товара (admin).
func (s *Service) UpdateProduct(_ context.Context, product domain.Product) (domain.Product, error) {
	if errs := product.ValidateInvariants(); len(errs) > 0 {
		return domain.Product{}, errs[0]
	}

	existing, err := s.products.Get(product.ID)
	if err != nil {
		return domain.Product{}, err
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now().UTC()

	if err := s.products.Save(product); err != nil {
		s.logger.WithError(err).WithField("product_id", product.ID).Error("failed to save product")
		return domain.Product{}, err
	}
	return product, nil
}

// DeleteProduct удаляет товар из каталога (admin).
func (s *Service) DeleteProduct(_ context.Context, productID string) error {
	if err := s.products.Delete(productID); err != nil {
		if !domain.IsNotFound(err) {
			s.logger.WithError(err).WithField("product_id", productID).Error("failed to delete product")
		}
		return err
	}
	return nil
}

// GetProduct возвращает товар по идентификатору.
func (s *Service) GetProduct(_ context.Context, productID string) (domain.Product, error) {
	return s.products.Get(productID)
}

// GetProductBySlug возвращает товар по slug.
func (s *Service) GetProductBySlug(_ context.Context, slug string) (domain.Product, error) {
	return s.products.GetBySlug(slug)
}

// ListProducts возвращает товары по фильтру каталога.
func (s *Service) ListProducts(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	products, err := s.products.List(filter)
	if err != nil {
		s.logger.WithError(err).Error("failed to list products")
		return nil, err
	}
	return products, nil
}

// CreateCategory добавляет категорию (admin).
func (s *Service) CreateCategory(_ context.Context, category domain.Category) (domain.Category, error) {
	if category.Name == "" || category.Slug == "" {
		return domain.Category{}, domain.ErrProductNameRequired
	}

	now := time.Now().UTC()
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	category.CreatedAt = now
	category.UpdatedAt = now

	if err := s.categories.Create(category); err != nil {
		s.logger.WithError(err).WithField("slug", category.Slug).Error("failed to create category")
		return domain.Category{}, err
	}
	return category, nil
}

// UpdateCategory сохраняет изменения категории (admin).
func (s *Service) UpdateCategory(_ context.Context, category domain.Category) (domain.Category, error) {
	if category.Name == "" || category.Slug == "" {
		return domain.Category{}, domain.ErrProductNameRequired
	}

	existing, err := s.categories.Get(category.ID)
	if err != nil {
		return domain.Category{}, err
	}
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = time.Now().UTC()

	if err := s.categories.Save(category); err != nil {
		s.logger.WithError(err).WithField("category_id", category.ID).Error("failed to save category")
		return domain.Category{}, err
	}
	return category, nil
}

// DeleteCategory удаляет категорию (admin).
func (s *Service) DeleteCategory(_ context.Context, categoryID string) error {
	return s.categories.Delete(categoryID)
}

// ListCategories возвращает все категории.
func (s *Service) ListCategories(_ context.Context) ([]domain.Category, error) {
	return s.categories.List()
}

// AddReview сохраняет отзыв о товаре.
func (s *Service) AddReview(_ context.Context, review domain.Review) (domain.Review, error) {
	if errs := review.ValidateInvariants(); len(errs) > 0 {
		return domain.Review{}, errs[0]
	}
	if _, err := s.products.Get(review.ProductID); err != nil {
		return domain.Review{}, err
	}

	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	review.CreatedAt = time.Now().UTC()

	if err := s.reviews.Create(review); err != nil {
		s.logger.WithError(err).WithField("product_id", review.ProductID).Error("failed to create review")
		return domain.Review{}, err
	}
	return review, nil
}

// ListReviews возвращает отзывы о товаре.
func (s *Service) ListReviews(_ context.Context, productID string, limit int) ([]domain.Review, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.reviews.ListByProduct(productID, limit)
}

// DeleteReview удаляет отзыв (admin).
func (s *Service) DeleteReview(_ context.Context, reviewID string) error {
	return s.reviews.Delete(reviewID)
}

// AddToWishlist добавляет товар в список желаний покупателя.
func (s *Service) AddToWishlist(_ context.Context, customerID, productID string) error {
	if _, err := s.products.Get(productID); err != nil {
		return err
	}
	return s.wishlist.Add(domain.WishlistItem{
		CustomerID: customerID,
		ProductID:  productID,
		AddedAt:    time.Now().UTC(),
	})
}

// RemoveFromWishlist убирает товар из списка желаний.
func (s *Service) RemoveFromWishlist(_ context.Context, customerID, productID string) error {
	return s.wishlist.Remove(customerID, productID)
}

// ListWishlist возвращает список желаний покупателя.
func (s *Service) ListWishlist(_ context.Context, customerID string) ([]domain.WishlistItem, error) {
	return s.wishlist.List(customerID)
}
