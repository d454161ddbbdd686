package synth

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/linnemanlabs/sift/internal/triage"
)

const timeLayout = "2006-01-02 15:04:05"

var csvHeader = []string{"id", "title", "description", "category", "priority", "status", "created_at"}

// WriteCSV saves a corpus so it can be inspected or reused across trainer
// runs.
func WriteCSV(path string, tickets []Ticket) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("synth: create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("synth: write header: %w", err)
	}
	for _, t := range tickets {
		rec := []string{
			strconv.Itoa(t.ID),
			t.Title,
			t.Description,
			string(t.Category),
			string(t.Priority),
			t.Status,
			t.CreatedAt.Format(timeLayout),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("synth: write row %d: %w", t.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("synth: flush: %w", err)
	}
	return f.Close()
}

// ReadCSV loads a previously written corpus. Rows with an unknown category
// label are rejected: the classifier trains over a closed label set.
func ReadCSV(path string) ([]Ticket, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("synth: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("synth: read %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("synth: %s has no data rows", path)
	}

	tickets := make([]Ticket, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(csvHeader) {
			return nil, fmt.Errorf("synth: row %d has %d fields, want %d", i+1, len(rec), len(csvHeader))
		}
		id, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("synth: row %d id: %w", i+1, err)
		}
		category := triage.Category(rec[3])
		if !category.Valid() {
			return nil, fmt.Errorf("synth: row %d has unknown category %q", i+1, rec[3])
		}
		createdAt, err := time.Parse(timeLayout, rec[6])
		if err != nil {
			return nil, fmt.Errorf("synth: row %d created_at: %w", i+1, err)
		}
		tickets = append(tickets, Ticket{
			ID:          id,
			Title:       rec[1],
			Description: rec[2],
			Category:    category,
			Priority:    triage.Priority(rec[4]),
			Status:      rec[5],
			CreatedAt:   createdAt,
		})
	}
	return tickets, nil
}
