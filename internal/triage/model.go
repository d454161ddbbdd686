package triage

// Category is a ticket category label. Produced only by the classifier (or
// the engine's deterministic fallback).
type Category string

const (
	CategoryNetwork  Category = "network"
	CategoryHardware Category = "hardware"
	CategorySoftware Category = "software"
	CategoryAccount  Category = "account"
	CategorySecurity Category = "security"

	// CategoryUncategorized is the sentinel used when no trained model is
	// available or the input is degenerate.
	CategoryUncategorized Category = "uncategorized"
)

// Categories lists the closed set of trainable category labels. Excludes
// the sentinel.
func Categories() []Category {
	return []Category{
		CategoryNetwork,
		CategoryHardware,
		CategorySoftware,
		CategoryAccount,
		CategorySecurity,
	}
}

// Valid reports whether c is a trainable category label.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Priority is a ticket priority label. Produced only by the priority
// scorer.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is a known priority label.
func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// Result is the outcome of one triage call. Created fresh per call, never
// mutated afterwards, owned solely by the caller.
type Result struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Priority   Priority `json:"priority"`
}
