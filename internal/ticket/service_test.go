package ticket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/sift/internal/triage"
)

// mockStore records calls and returns canned results.
type mockStore struct {
	created   *Ticket
	createErr error

	getTicket *Ticket
	getOK     bool

	listOut []Ticket

	updated   *Ticket
	updateOK  bool
	lastPatch Patch
}

func (m *mockStore) Create(_ context.Context, t *Ticket) (*Ticket, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	cp := *t
	cp.ID = 1
	m.created = &cp
	return &cp, nil
}

func (m *mockStore) Get(_ context.Context, _ int64) (*Ticket, bool, error) {
	return m.getTicket, m.getOK, nil
}

func (m *mockStore) List(_ context.Context, limit int) ([]Ticket, error) {
	if limit < len(m.listOut) {
		return m.listOut[:limit], nil
	}
	return m.listOut, nil
}

func (m *mockStore) Update(_ context.Context, _ int64, patch Patch) (*Ticket, bool, error) {
	m.lastPatch = patch
	return m.updated, m.updateOK, nil
}

// mockNotifier signals on a channel so tests can wait for the async path.
type mockNotifier struct {
	ch  chan *Ticket
	err error
}

func (m *mockNotifier) Notify(_ context.Context, t *Ticket) error {
	m.ch <- t
	return m.err
}

// fallbackEngine builds an engine without a model: category resolves to the
// sentinel, priority comes from keyword scoring. Deterministic for tests.
func fallbackEngine(t *testing.T) *triage.Engine {
	t.Helper()
	e, err := triage.NewEngine(nil, nil, 0.4, log.Nop(), triage.EngineHooks{})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestCreate_AutoTriageFillsBlanks(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	svc := NewService(store, fallbackEngine(t), log.Nop(), nil, nil)

	got, err := svc.Create(context.Background(), CreateInput{
		Title:       "Printer not working",
		Description: "Office printer refuses every job",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got.Category != triage.CategoryUncategorized {
		t.Errorf("category = %q, want %q (no model loaded)", got.Category, triage.CategoryUncategorized)
	}
	if got.Priority != triage.PriorityHigh {
		t.Errorf("priority = %q, want %q ('not working' keyword)", got.Priority, triage.PriorityHigh)
	}
	if got.Status != StatusOpen {
		t.Errorf("status = %q, want %q", got.Status, StatusOpen)
	}
}

func TestCreate_CallerLabelsWin(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	svc := NewService(store, fallbackEngine(t), log.Nop(), nil, nil)

	got, err := svc.Create(context.Background(), CreateInput{
		Title:    "URGENT: everything is broken",
		Category: triage.CategorySoftware,
		Priority: triage.PriorityLow,
		Status:   StatusInProgress,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got.Category != triage.CategorySoftware {
		t.Errorf("category = %q, want caller's %q", got.Category, triage.CategorySoftware)
	}
	if got.Priority != triage.PriorityLow {
		t.Errorf("priority = %q, want caller's %q", got.Priority, triage.PriorityLow)
	}
	if got.Status != StatusInProgress {
		t.Errorf("status = %q, want %q", got.Status, StatusInProgress)
	}
}

func TestCreate_InvalidStatus(t *testing.T) {
	t.Parallel()

	svc := NewService(&mockStore{}, fallbackEngine(t), log.Nop(), nil, nil)

	_, err := svc.Create(context.Background(), CreateInput{
		Title:  "Anything",
		Status: "archived",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestCreate_StoreError(t *testing.T) {
	t.Parallel()

	store := &mockStore{createErr: errors.New("connection refused")}
	svc := NewService(store, fallbackEngine(t), log.Nop(), nil, nil)

	_, err := svc.Create(context.Background(), CreateInput{Title: "x"})
	if err == nil {
		t.Fatal("expected store error to propagate")
	}
}

func TestCreate_NotifiesHighPriority(t *testing.T) {
	t.Parallel()

	notifier := &mockNotifier{ch: make(chan *Ticket, 1)}
	svc := NewService(&mockStore{}, fallbackEngine(t), log.Nop(), nil, notifier)

	created, err := svc.Create(context.Background(), CreateInput{
		Title: "URGENT: database outage",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Priority != triage.PriorityHigh {
		t.Fatalf("priority = %q, want %q", created.Priority, triage.PriorityHigh)
	}

	select {
	case got := <-notifier.ch:
		if got.ID != created.ID {
			t.Errorf("notified ticket ID = %d, want %d", got.ID, created.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not called for a high-priority ticket")
	}
}

func TestCreate_SkipsNotifyForLowPriority(t *testing.T) {
	t.Parallel()

	notifier := &mockNotifier{ch: make(chan *Ticket, 1)}
	svc := NewService(&mockStore{}, fallbackEngine(t), log.Nop(), nil, notifier)

	if _, err := svc.Create(context.Background(), CreateInput{Title: "Ergonomic keyboard request"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	select {
	case <-notifier.ch:
		t.Fatal("notifier called for a low-priority ticket")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestList_DefaultLimit(t *testing.T) {
	t.Parallel()

	store := &mockStore{listOut: make([]Ticket, 150)}
	svc := NewService(store, fallbackEngine(t), log.Nop(), nil, nil)

	got, err := svc.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != DefaultListLimit {
		t.Errorf("len = %d, want %d", len(got), DefaultListLimit)
	}
}

func TestUpdate_EmptyPatch(t *testing.T) {
	t.Parallel()

	svc := NewService(&mockStore{}, fallbackEngine(t), log.Nop(), nil, nil)

	_, _, err := svc.Update(context.Background(), 1, Patch{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestUpdate_InvalidLabels(t *testing.T) {
	t.Parallel()

	svc := NewService(&mockStore{}, fallbackEngine(t), log.Nop(), nil, nil)

	badStatus := Status("archived")
	if _, _, err := svc.Update(context.Background(), 1, Patch{Status: &badStatus}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("status err = %v, want ErrInvalidInput", err)
	}

	badPriority := triage.Priority("blocker")
	if _, _, err := svc.Update(context.Background(), 1, Patch{Priority: &badPriority}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("priority err = %v, want ErrInvalidInput", err)
	}
}

func TestUpdate_Missing(t *testing.T) {
	t.Parallel()

	store := &mockStore{updateOK: false}
	svc := NewService(store, fallbackEngine(t), log.Nop(), nil, nil)

	status := StatusResolved
	_, ok, err := svc.Update(context.Background(), 42, Patch{Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if ok {
		t.Error("ok = true, want false for missing ticket")
	}
}

func TestUpdate_DelegatesPatch(t *testing.T) {
	t.Parallel()

	store := &mockStore{updated: &Ticket{ID: 7, Status: StatusResolved}, updateOK: true}
	svc := NewService(store, fallbackEngine(t), log.Nop(), nil, nil)

	status := StatusResolved
	got, ok, err := svc.Update(context.Background(), 7, Patch{Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !ok {
		t.Fatal("ok = false, want true")
	}
	if got.Status != StatusResolved {
		t.Errorf("status = %q, want %q", got.Status, StatusResolved)
	}
	if store.lastPatch.Status == nil || *store.lastPatch.Status != StatusResolved {
		t.Error("patch not delegated to store")
	}
}

func TestServiceTriage_DoesNotPersist(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	svc := NewService(store, fallbackEngine(t), log.Nop(), nil, nil)

	res := svc.Triage(context.Background(), "URGENT: vpn down", "cannot reach anything")
	if res.Priority != triage.PriorityHigh {
		t.Errorf("priority = %q, want %q", res.Priority, triage.PriorityHigh)
	}
	if store.created != nil {
		t.Error("Triage must not write to the store")
	}
}
