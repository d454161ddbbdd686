// Package ticketapi exposes the ticket REST API: CRUD over stored tickets
// plus a prediction-only triage endpoint.
package ticketapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/linnemanlabs/sift/internal/ticket"
	"github.com/linnemanlabs/sift/internal/triage"
)

// TicketService defines the business operations ticketapi needs.
type TicketService interface {
	Create(ctx context.Context, in ticket.CreateInput) (*ticket.Ticket, error)
	Get(ctx context.Context, id int64) (*ticket.Ticket, bool, error)
	List(ctx context.Context, limit int) ([]ticket.Ticket, error)
	Update(ctx context.Context, id int64, patch ticket.Patch) (*ticket.Ticket, bool, error)
	Triage(ctx context.Context, title, description string) triage.Result
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger  log.Logger
	svc     TicketService
	version string
}

// New creates a new API handler.
func New(logger log.Logger, svc TicketService, version string) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if svc == nil {
		panic(xerrors.New("ticket service is required"))
	}
	return &API{
		logger:  logger,
		svc:     svc,
		version: version,
	}
}

// RegisterRoutes attaches API endpoints to the router. mutatingMW, if any,
// guards the routes that write tickets; reads and prediction-only triage
// stay open.
func (a *API) RegisterRoutes(r chi.Router, mutatingMW ...func(http.Handler) http.Handler) {
	r.Get("/", a.handleRoot)
	r.Route("/tickets", func(r chi.Router) {
		r.Get("/", a.handleListTickets)
		r.Post("/triage", a.handleTriage)
		r.Get("/{id}", a.handleGetTicket)
		r.Group(func(r chi.Router) {
			r.Use(mutatingMW...)
			r.Post("/", a.handleCreateTicket)
			r.Put("/{id}", a.handleUpdateTicket)
		})
	})
}

func (a *API) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "sift",
		"version": a.version,
		"endpoints": map[string]string{
			"tickets": "/tickets",
			"triage":  "/tickets/triage",
			"health":  "/-/healthy",
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
