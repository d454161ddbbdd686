// Package pgstore provides a PostgreSQL implementation of ticket.Store.
package pgstore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linnemanlabs/sift/internal/ticket"
	"github.com/linnemanlabs/sift/internal/triage"
)

var tracer = otel.Tracer("github.com/linnemanlabs/sift/internal/ticket/pgstore")

//go:embed schema.sql
var schema string

// Store persists tickets in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New applies the schema on the given pool and returns a ready Store.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

const ticketColumns = `id, title, description, category, priority, status, created_at, updated_at`

// Create inserts a ticket; the database assigns ID and timestamps.
func (s *Store) Create(ctx context.Context, t *ticket.Ticket) (*ticket.Ticket, error) {
	ctx, span := tracer.Start(ctx, "pgstore.Create", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "INSERT"),
	))
	defer span.End()

	query := `INSERT INTO tickets (title, description, category, priority, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + ticketColumns

	created, err := scanTicketRow(s.pool.QueryRow(ctx, query,
		t.Title, t.Description, string(t.Category), string(t.Priority), string(t.Status),
	))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("insert ticket: %w", err)
	}
	return created, nil
}

// Get retrieves a ticket by ID.
func (s *Store) Get(ctx context.Context, id int64) (*ticket.Ticket, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.Get", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	t, err := scanTicketRow(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	return t, true, nil
}

// List returns up to limit tickets, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]ticket.Ticket, error) {
	ctx, span := tracer.Start(ctx, "pgstore.List", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY created_at DESC, id DESC LIMIT $1`
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	var tickets []ticket.Ticket
	for rows.Next() {
		var (
			t        ticket.Ticket
			category string
			priority string
			status   string
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &category, &priority, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		t.Category = triage.Category(category)
		t.Priority = triage.Priority(priority)
		t.Status = ticket.Status(status)
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}
	return tickets, nil
}

// Update applies a patch, maintains updated_at, and returns the new row.
func (s *Store) Update(ctx context.Context, id int64, patch ticket.Patch) (*ticket.Ticket, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.Update", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "UPDATE"),
	))
	defer span.End()

	query := `UPDATE tickets SET
		title       = COALESCE($2, title),
		description = COALESCE($3, description),
		category    = COALESCE($4, category),
		priority    = COALESCE($5, priority),
		status      = COALESCE($6, status),
		updated_at  = now()
	WHERE id = $1
	RETURNING ` + ticketColumns

	t, err := scanTicketRow(s.pool.QueryRow(ctx, query, id,
		patch.Title, patch.Description,
		labelPtr(patch.Category), labelPtr(patch.Priority), labelPtr(patch.Status),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, fmt.Errorf("update ticket: %w", err)
	}
	return t, true, nil
}

// scanTicketRow scans a single row into a ticket.Ticket.
func scanTicketRow(row pgx.Row) (*ticket.Ticket, error) {
	var (
		t        ticket.Ticket
		category string
		priority string
		status   string
	)
	err := row.Scan(&t.ID, &t.Title, &t.Description, &category, &priority, &status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Category = triage.Category(category)
	t.Priority = triage.Priority(priority)
	t.Status = ticket.Status(status)
	return &t, nil
}

// labelPtr converts a typed label pointer to a nullable SQL parameter.
func labelPtr[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
