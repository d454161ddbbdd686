package ticket

import "context"

// Store is the persistence interface for tickets. Implementations assign
// the ID and both timestamps on Create and maintain updated_at on Update.
type Store interface {
	Create(ctx context.Context, t *Ticket) (*Ticket, error)
	Get(ctx context.Context, id int64) (*Ticket, bool, error)
	List(ctx context.Context, limit int) ([]Ticket, error)
	Update(ctx context.Context, id int64, patch Patch) (*Ticket, bool, error)
}
