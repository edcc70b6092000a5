package api

import (
	"net/http"
	"time"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
)

type eventRequest struct {
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Capacity    int32     `json:"capacity"`
	PriceMinor  int64     `json:"price_minor"`
	Currency    string    `json:"currency"`
}

type eventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at,omitempty"`
	Capacity    int32     `json:"capacity"`
	PriceMinor  int64     `json:"price_minor"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}

func toEventResponse(event domain.Event) eventResponse {
	return eventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Slug:        event.Slug,
		Description: event.Description,
		StartsAt:    event.StartsAt,
		EndsAt:      event.EndsAt,
		Capacity:    event.Capacity,
		PriceMinor:  event.PriceMinor,
		Currency:    event.Currency,
		CreatedAt:   event.CreatedAt,
	}
}

func (r eventRequest) toDomain() domain.Event {
	return domain.Event{
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
		StartsAt:    r.StartsAt,
		EndsAt:      r.EndsAt,
		Capacity:    r.Capacity,
		PriceMinor:  r.PriceMinor,
		Currency:    r.Currency,
	}
}

// ListEvents возвращает мастер-классы; ?upcoming=1 ограничивает будущими.
func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	upcomingOnly := r.URL.Query().Get("upcoming") != ""

	events, err := h.events.ListEvents(r.Context(), upcomingOnly, queryInt(r, "limit"))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	result := make([]eventResponse, 0, len(events))
	for _, event := range events {
		result = append(result, toEventResponse(event))
	}
	respondJSON(w, http.StatusOK, result)
}

// GetEvent возвращает мастер-класс по идентификатору.
func (h *Handlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toEventResponse(event))
}

// CreateEvent добавляет мастер-класс (admin).
func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.events.CreateEvent(r.Context(), req.toDomain())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toEventResponse(event))
}

// UpdateEvent сохраняет изменения мастер-класса (admin).
func (h *Handlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event := req.toDomain()
	event.ID = r.PathValue("id")

	updated, err := h.events.UpdateEvent(r.Context(), event)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toEventResponse(updated))
}

// DeleteEvent удаляет мастер-класс (admin).
func (h *Handlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.events.DeleteEvent(r.Context(), r.PathValue("id")); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// RegisterForEvent записывает покупателя на мастер-класс.
func (h *Handlers) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	registration, err := h.events.Register(r.Context(), r.PathValue("id"), customerIDFrom(r.Context()))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toRegistrationResponse(registration))
}

// MyRegistrations возвращает записи аутентифицированного покупателя.
func (h *Handlers) MyRegistrations(w http.ResponseWriter, r *http.Request) {
	registrations, err := h.events.ListRegistrationsByCustomer(r.Context(), customerIDFrom(r.Context()))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toRegistrationResponses(registrations))
}

// ListEventRegistrations возвращает записи мастер-класса (admin).
func (h *Handlers) ListEventRegistrations(w http.ResponseWriter, r *http.Request) {
	registrations, err := h.events.ListRegistrationsByEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toRegistrationResponses(registrations))
}

// GetRegistration возвращает запись по идентификатору (admin).
func (h *Handlers) GetRegistration(w http.ResponseWriter, r *http.Request) {
	registration, err := h.events.GetRegistration(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toRegistrationResponse(registration))
}

type updateRegistrationStatusRequest struct {
	Status string `json:"status"`
}

// UpdateRegistrationStatus переводит запись в новый статус (admin).
func (h *Handlers) UpdateRegistrationStatus(w http.ResponseWriter, r *http.Request) {
	var req updateRegistrationStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	registration, err := h.events.UpdateRegistrationStatus(
		r.Context(), r.PathValue("id"), domain.RegistrationStatus(req.Status))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toRegistrationResponse(registration))
}

// RegistrationTimeline возвращает события аудита записи (admin).
func (h *Handlers) RegistrationTimeline(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.RegistrationTimeline(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTimelineResponses(events))
}
