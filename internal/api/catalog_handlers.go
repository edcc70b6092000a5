package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
)

type productRequest struct {
	CategoryID  string   `json:"category_id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	PriceMinor  int64    `json:"price_minor"`
	Currency    string   `json:"currency"`
	Stock       int32    `json:"stock"`
	ImageURLs   []string `json:"image_urls"`
	Active      bool     `json:"active"`
}

type productResponse struct {
	ID          string    `json:"id"`
	CategoryID  string    `json:"category_id,omitempty"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	PriceMinor  int64     `json:"price_minor"`
	Currency    string    `json:"currency"`
	Stock       int32     `json:"stock"`
	ImageURLs   []string  `json:"image_urls,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toProductResponse(product domain.Product) productResponse {
	return productResponse{
		ID:          product.ID,
		CategoryID:  product.CategoryID,
		Name:        product.Name,
		Slug:        product.Slug,
		Description: product.Description,
		PriceMinor:  product.PriceMinor,
		Currency:    product.Currency,
		Stock:       product.Stock,
		ImageURLs:   product.ImageURLs,
		Active:      product.Active,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func (r productRequest) toDomain() domain.Product {
	return domain.Product{
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		PriceMinor:  r.PriceMinor,
		Currency:    r.Currency,
		Stock:       r.Stock,
		ImageURLs:   r.ImageURLs,
		Active:      r.Active,
	}
}

// ListProducts возвращает витринный список товаров. Параметры запроса:
// category, all (включая скрытые, admin-сценарий) и limit.
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter := domain.ProductFilter{
		CategoryID: r.URL.Query().Get("category"),
		ActiveOnly: r.URL.Query().Get("all") == "",
		Limit:      queryInt(r, "limit"),
	}

	products, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	result := make([]productResponse, 0, len(products))
	for _, product := range products {
		result = append(result, toProductResponse(product))
	}
	respondJSON(w, http.StatusOK, result)
}

// GetProduct возвращает товар по идентификатору или slug.
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	product, err := h.catalog.GetProduct(r.Context(), id)
	if domain.IsNotFound(err) {
		product, err = h.catalog.GetProductBySlug(r.Context(), id)
	}
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(product))
}

// CreateProduct добавляет товар (admin).
func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), req.toDomain())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toProductResponse(product))
}

// UpdateProduct сохраняет изменения товара (admin).
func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product := req.toDomain()
	product.ID = r.PathValue("id")

	updated, err := h.catalog.UpdateProduct(r.Context(), product)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(updated))
}

// DeleteProduct удаляет товар (admin).
func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type categoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type categoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

func toCategoryResponse(category domain.Category) categoryResponse {
	return categoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Slug:      category.Slug,
		CreatedAt: category.CreatedAt,
	}
}

// ListCategories возвращает все категории.
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	result := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		result = append(result, toCategoryResponse(category))
	}
	respondJSON(w, http.StatusOK, result)
}

// CreateCategory добавляет категорию (admin).
func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), domain.Category{Name: req.Name, Slug: req.Slug})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toCategoryResponse(category))
}

// UpdateCategory сохраняет изменения категории (admin).
func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.catalog.UpdateCategory(r.Context(), domain.Category{
		ID:   r.PathValue("id"),
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toCategoryResponse(category))
}

// DeleteCategory удаляет категорию (admin).
func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type reviewRequest struct {
	Rating  int32  `json:"rating"`
	Comment string `json:"comment"`
}

type reviewResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	CustomerID string    `json:"customer_id"`
	Rating     int32     `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toReviewResponse(review domain.Review) reviewResponse {
	return reviewResponse{
		ID:         review.ID,
		ProductID:  review.ProductID,
		CustomerID: review.CustomerID,
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt,
	}
}

// ListReviews возвращает отзывы о товаре.
func (h *Handlers) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.catalog.ListReviews(r.Context(), r.PathValue("id"), queryInt(r, "limit"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	result := make([]reviewResponse, 0, len(reviews))
	for _, review := range reviews {
		result = append(result, toReviewResponse(review))
	}
	respondJSON(w, http.StatusOK, result)
}

// AddReview сохраняет отзыв аутентифицированного покупателя.
func (h *Handlers) AddReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.catalog.AddReview(r.Context(), domain.Review{
		ProductID:  r.PathValue("id"),
		CustomerID: customerIDFrom(r.Context()),
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toReviewResponse(review))
}

// DeleteReview удаляет отзыв (admin).
func (h *Handlers) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteReview(r.Context(), r.PathValue("id")); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type wishlistItemResponse struct {
	ProductID string    `json:"product_id"`
	AddedAt   time.Time `json:"added_at"`
}

// ListWishlist возвращает список желаний покупателя.
func (h *Handlers) ListWishlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListWishlist(r.Context(), customerIDFrom(r.Context()))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	result := make([]wishlistItemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, wishlistItemResponse{ProductID: item.ProductID, AddedAt: item.AddedAt})
	}
	respondJSON(w, http.StatusOK, result)
}

// AddToWishlist добавляет товар в список желаний.
func (h *Handlers) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.AddToWishlist(r.Context(), customerIDFrom(r.Context()), r.PathValue("productID")); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// RemoveFromWishlist убирает товар из списка желаний.
func (h *Handlers) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.RemoveFromWishlist(r.Context(), customerIDFrom(r.Context()), r.PathValue("productID")); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func queryInt(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
