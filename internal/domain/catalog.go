package domain

import "time"

// Category группирует товары витрины.
type Category struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Product — керамическое изделие в каталоге.
type Product struct {
	ID          string
	CategoryID  string
	Name        string
	Slug        string
	Description string
	// PriceMinor — цена в минимальных денежных единицах.
	PriceMinor int64
	Currency   string
	Stock      int32
	ImageURLs  []string
	// Active скрывает товар с витрины, не удаляя его.
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateInvariants проверяет базовые инварианты товара.
func (p *Product) ValidateInvariants() []error {
	var errs []error
	if p.Name == "" || p.Slug == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.PriceMinor < 0 {
		errs = append(errs, ErrItemPriceInvalid)
	}
	if p.Stock < 0 {
		errs = append(errs, ErrStockNegative)
	}
	if p.Currency == "" {
		errs = append(errs, ErrCurrencyRequired)
	}
	return errs
}

// Review — отзыв покупателя о товаре.
type Review struct {
	ID         string
	ProductID  string
	CustomerID string
	Rating     int32
	Comment    string
	CreatedAt  time.Time
}

// ValidateInvariants проверяет отзыв: оценка в диапазоне 1..5.
func (r *Review) ValidateInvariants() []error {
	var errs []error
	if r.ProductID == "" {
		errs = append(errs, ErrProductNotFound)
	}
	if r.Rating < 1 || r.Rating > 5 {
		errs = append(errs, ErrRatingInvalid)
	}
	return errs
}

// WishlistItem — товар в списке желаний покупателя.
type WishlistItem struct {
	CustomerID string
	ProductID  string
	AddedAt    time.Time
}
