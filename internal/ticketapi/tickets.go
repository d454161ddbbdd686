package ticketapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/linnemanlabs/sift/internal/ticket"
	"github.com/linnemanlabs/sift/internal/triage"
)

// maxListLimit caps GET /tickets regardless of the requested limit.
const maxListLimit = 1000

// createRequest is the POST /tickets body. Category and priority are
// optional; absent values are filled by triage.
type createRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    triage.Category `json:"category,omitempty"`
	Priority    triage.Priority `json:"priority,omitempty"`
	Status      ticket.Status   `json:"status,omitempty"`
}

// triageRequest is the POST /tickets/triage body.
type triageRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// triageResponse echoes the input alongside the prediction.
type triageResponse struct {
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	PredictedCategory triage.Category `json:"predicted_category"`
	Confidence        float64         `json:"confidence"`
	PredictedPriority triage.Priority `json:"predicted_priority"`
}

func (a *API) handleCreateTicket(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	created, err := a.svc.Create(r.Context(), ticket.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, ticket.ErrInvalidInput) {
			http.Error(w, `{"error":"invalid input"}`, http.StatusBadRequest)
			return
		}
		a.logger.Error(r.Context(), err, "failed to create ticket")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (a *API) handleListTickets(w http.ResponseWriter, r *http.Request) {
	limit := ticket.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, `{"error":"invalid limit"}`, http.StatusBadRequest)
			return
		}
		limit = min(n, maxListLimit)
	}

	tickets, err := a.svc.List(r.Context(), limit)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to list tickets")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if tickets == nil {
		tickets = []ticket.Ticket{}
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (a *API) handleGetTicket(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"invalid ticket id"}`, http.StatusBadRequest)
		return
	}

	t, ok, err := a.svc.Get(r.Context(), id)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to get ticket", "ticket_id", id)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, `{"error":"ticket not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (a *API) handleUpdateTicket(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"invalid ticket id"}`, http.StatusBadRequest)
		return
	}

	var patch ticket.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	updated, ok, err := a.svc.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, ticket.ErrInvalidInput) {
			http.Error(w, `{"error":"no fields to update"}`, http.StatusBadRequest)
			return
		}
		a.logger.Error(r.Context(), err, "failed to update ticket", "ticket_id", id)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, `{"error":"ticket not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) handleTriage(w http.ResponseWriter, r *http.Request) {
	var req triageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	res := a.svc.Triage(r.Context(), req.Title, req.Description)

	writeJSON(w, http.StatusOK, triageResponse{
		Title:             req.Title,
		Description:       req.Description,
		PredictedCategory: res.Category,
		Confidence:        res.Confidence,
		PredictedPriority: res.Priority,
	})
}
