package domain

import "time"

// Event — мастер-класс или событие в студии.
type Event struct {
	ID          string
	Title       string
	Slug        string
	Description string
	StartsAt    time.Time
	EndsAt      time.Time
	// Capacity — максимум активных записей; 0 означает «без ограничения».
	Capacity int32
	// PriceMinor — цена участия в минимальных денежных единицах.
	PriceMinor int64
	Currency   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValidateInvariants проверяет базовые инварианты мастер-класса.
func (e *Event) ValidateInvariants() []error {
	var errs []error
	if e.Title == "" {
		errs = append(errs, ErrEventTitleRequired)
	}
	if e.PriceMinor < 0 {
		errs = append(errs, ErrItemPriceInvalid)
	}
	if e.Capacity < 0 {
		errs = append(errs, ErrEventCapacityInvalid)
	}
	if !e.EndsAt.IsZero() && e.EndsAt.Before(e.StartsAt) {
		errs = append(errs, ErrEventScheduleInvalid)
	}
	return errs
}
