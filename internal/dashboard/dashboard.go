// Package dashboard serves the server-rendered HTML UI: ticket list,
// new-ticket form, and the triage demo page. It is a read-only consumer of
// triage results; all writes go through the ticket service.
package dashboard

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/linnemanlabs/sift/internal/ticket"
	"github.com/linnemanlabs/sift/internal/ticketapi"
	"github.com/linnemanlabs/sift/internal/triage"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler renders the dashboard pages.
type Handler struct {
	logger log.Logger
	svc    ticketapi.TicketService
	tmpl   *template.Template
}

// New creates a dashboard handler. Template parse errors are configuration
// errors and panic at startup.
func New(logger log.Logger, svc ticketapi.TicketService) *Handler {
	if logger == nil {
		logger = log.Nop()
	}
	if svc == nil {
		panic(xerrors.New("ticket service is required"))
	}
	return &Handler{
		logger: logger,
		svc:    svc,
		tmpl:   template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// RegisterRoutes attaches dashboard pages to the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/new", h.handleNewForm)
		r.Post("/new", h.handleCreate)
		r.Get("/triage", h.handleTriageForm)
		r.Post("/triage", h.handleTriageDemo)
	})
}

type listPage struct {
	Tickets []ticket.Ticket
	Limit   int
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := ticket.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	tickets, err := h.svc.List(r.Context(), limit)
	if err != nil {
		h.logger.Error(r.Context(), err, "dashboard: list tickets failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "list.html", listPage{Tickets: tickets, Limit: limit})
}

type newPage struct {
	Created *ticket.Ticket
	Error   string
}

func (h *Handler) handleNewForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "new.html", newPage{})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	created, err := h.svc.Create(r.Context(), ticket.CreateInput{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Category:    triage.Category(r.PostFormValue("category")),
		Priority:    triage.Priority(r.PostFormValue("priority")),
	})
	if err != nil {
		h.logger.Error(r.Context(), err, "dashboard: create ticket failed")
		h.render(w, r, "new.html", newPage{Error: "could not create ticket"})
		return
	}
	h.render(w, r, "new.html", newPage{Created: created})
}

type triagePage struct {
	Title       string
	Description string
	Result      *triage.Result
}

func (h *Handler) handleTriageForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "triage.html", triagePage{})
}

func (h *Handler) handleTriageDemo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	title := r.PostFormValue("title")
	description := r.PostFormValue("description")
	res := h.svc.Triage(r.Context(), title, description)

	h.render(w, r, "triage.html", triagePage{
		Title:       title,
		Description: description,
		Result:      &res,
	})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error(r.Context(), err, "dashboard: render failed", "template", name)
	}
}
