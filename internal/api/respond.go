package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
)

// envelope — единый формат ответа API: успешные мутации несут
// success=true и данные, ошибки — success=false и текст ошибки.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: message})
}

// respondDomainError переводит доменную ошибку в HTTP-статус:
// not-found -> 404, нарушение ограничений -> 400, конфликт версий -> 409,
// всё остальное -> 500 без деталей.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error())
	case domain.IsVersionConflict(err):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrSlugTaken):
		respondError(w, http.StatusConflict, err.Error())
	case domain.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCustomerRequired),
		errors.Is(err, domain.ErrCurrencyRequired),
		errors.Is(err, domain.ErrItemsRequired),
		errors.Is(err, domain.ErrItemPriceInvalid),
		errors.Is(err, domain.ErrShippingFeeNegative),
		errors.Is(err, domain.ErrProductNameRequired),
		errors.Is(err, domain.ErrStockNegative),
		errors.Is(err, domain.ErrEventTitleRequired),
		errors.Is(err, domain.ErrEventCapacityInvalid),
		errors.Is(err, domain.ErrEventScheduleInvalid):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
