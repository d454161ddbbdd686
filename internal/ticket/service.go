package ticket

import (
	"context"
	"errors"
	"fmt"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/sift/internal/triage"
)

// DefaultListLimit applies when a caller asks for a list without a limit.
const DefaultListLimit = 100

// ErrInvalidInput reports a request that cannot be applied, e.g. an update
// with no fields or an unknown label value.
var ErrInvalidInput = errors.New("ticket: invalid input")

// Notifier is told about newly created high-priority tickets.
type Notifier interface {
	Notify(ctx context.Context, t *Ticket) error
}

// CreateInput is the caller's view of a new ticket. Category and Priority
// are optional: absent values are filled by triage, provided values win.
type CreateInput struct {
	Title       string
	Description string
	Category    triage.Category
	Priority    triage.Priority
	Status      Status
}

// Service is the business boundary for ticket operations. It owns the only
// write path into the store; the triage engine never touches storage.
type Service struct {
	store    Store
	engine   *triage.Engine
	logger   log.Logger
	metrics  *Metrics
	notifier Notifier
}

// NewService creates a new ticket service. metrics and notifier may be nil.
func NewService(store Store, engine *triage.Engine, logger log.Logger, metrics *Metrics, notifier Notifier) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{
		store:    store,
		engine:   engine,
		logger:   logger,
		metrics:  metrics,
		notifier: notifier,
	}
}

// Create stores a new ticket, auto-triaging any label the caller left
// blank. High-priority tickets are pushed to the notifier asynchronously.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Ticket, error) {
	source := "manual"
	category, priority := in.Category, in.Priority
	if category == "" || priority == "" {
		res := s.engine.Triage(ctx, in.Title, in.Description)
		if category == "" {
			category = res.Category
			source = "auto"
		}
		if priority == "" {
			priority = res.Priority
			source = "auto"
		}
	}

	status := in.Status
	if status == "" {
		status = StatusOpen
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	created, err := s.store.Create(ctx, &Ticket{
		Title:       in.Title,
		Description: in.Description,
		Category:    category,
		Priority:    priority,
		Status:      status,
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.CreatedTotal.WithLabelValues(string(created.Category), string(created.Priority), source).Inc()
	}

	if s.notifier != nil && created.Priority == triage.PriorityHigh {
		// best effort; never blocks or fails ticket intake
		go s.notify(context.WithoutCancel(ctx), created)
	}

	return created, nil
}

// Get retrieves a ticket by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Ticket, bool, error) {
	return s.store.Get(ctx, id)
}

// List returns up to limit tickets, newest first. limit <= 0 uses
// DefaultListLimit.
func (s *Service) List(ctx context.Context, limit int) ([]Ticket, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.store.List(ctx, limit)
}

// Update applies a partial update. An empty patch or an unknown label value
// is ErrInvalidInput; a missing ticket reports ok=false.
func (s *Service) Update(ctx context.Context, id int64, patch Patch) (*Ticket, bool, error) {
	if patch.Empty() {
		return nil, false, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, false, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *patch.Status)
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return nil, false, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *patch.Priority)
	}

	updated, ok, err := s.store.Update(ctx, id, patch)
	if err != nil || !ok {
		return nil, ok, err
	}
	if s.metrics != nil {
		s.metrics.UpdatedTotal.Inc()
	}
	return updated, true, nil
}

// Triage runs the prediction pipeline without persisting anything.
func (s *Service) Triage(ctx context.Context, title, description string) triage.Result {
	return s.engine.Triage(ctx, title, description)
}

func (s *Service) notify(ctx context.Context, t *Ticket) {
	err := s.notifier.Notify(ctx, t)
	if s.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		s.metrics.NotificationsTotal.WithLabelValues(outcome).Inc()
	}
	if err != nil {
		s.logger.Error(ctx, err, "high priority notification failed", "ticket_id", t.ID)
	}
}
