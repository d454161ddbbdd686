package triage

import "strings"

// tierRule binds a priority level to the keyword signals that select it.
type tierRule struct {
	Level   Priority
	Signals []string
}

// priorityRules is evaluated in order; the first tier with any matching
// signal wins. A single high-tier keyword outranks any number of
// medium-tier matches. Keywords are matched case-insensitively as
// substrings of title+description.
var priorityRules = []tierRule{
	{
		Level: PriorityHigh,
		Signals: []string{
			"urgent", "critical", "emergency", "down", "outage",
			"not working", "broken", "security", "breach",
		},
	},
	{
		Level: PriorityMedium,
		Signals: []string{
			"issue", "problem", "error", "bug", "slow",
			"performance", "help",
		},
	},
}

// Score assigns a priority to the ticket text. Pure function, stateless,
// no trained parameters. Tickets matching no tier default to low.
func Score(title, description string) Priority {
	text := strings.ToLower(title + " " + description)
	for _, rule := range priorityRules {
		for _, signal := range rule.Signals {
			if strings.Contains(text, signal) {
				return rule.Level
			}
		}
	}
	return PriorityLow
}
