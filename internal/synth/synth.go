// Package synth generates the synthetic ticket corpus used to train the
// category classifier. Generation is deterministic for a fixed seed, so a
// seeded trainer run is reproducible end to end.
package synth

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/linnemanlabs/sift/internal/triage"
)

// Ticket is one labeled corpus entry: the ticket text plus its ground-truth
// category, and the incidental fields the dashboard seeding path uses.
type Ticket struct {
	ID          int
	Title       string
	Description string
	Category    triage.Category
	Priority    triage.Priority
	Status      string
	CreatedAt   time.Time
}

// template is a (title, description) pair for one category.
type template struct {
	title, description string
}

var templates = map[triage.Category][]template{
	triage.CategoryNetwork: {
		{"Network connectivity issues", "Unable to connect to the office network from my laptop."},
		{"VPN not working", "VPN connection keeps dropping every few minutes."},
		{"Slow internet speed", "Internet is extremely slow, pages take forever to load."},
		{"WiFi connection problems", "Cannot connect to WiFi in conference room B."},
		{"Network printer offline", "Network printer is showing offline status."},
	},
	triage.CategoryHardware: {
		{"Laptop screen flickering", "My laptop screen keeps flickering and going black."},
		{"Keyboard keys not working", "Several keys on my keyboard have stopped responding."},
		{"Mouse not responding", "Wireless mouse is not connecting to my computer."},
		{"Monitor display issues", "Second monitor is not being detected by my computer."},
		{"Printer paper jam", "Office printer has a paper jam that I cannot clear."},
	},
	triage.CategorySoftware: {
		{"Application crashing", "Microsoft Excel crashes every time I open large files."},
		{"Software installation error", "Cannot install the updated version of Adobe Reader."},
		{"Email client not syncing", "Outlook is not syncing my emails properly."},
		{"Browser performance issues", "Chrome browser is very slow and unresponsive."},
		{"Software license expired", "AutoCAD showing license expired message."},
	},
	triage.CategoryAccount: {
		{"Password reset request", "I forgot my password and need to reset it."},
		{"Account locked out", "My account has been locked after multiple login attempts."},
		{"Access permission needed", "Need access to the shared drive for marketing team."},
		{"New user account setup", "New employee needs account setup for all systems."},
		{"Email account issues", "Cannot access my email account, shows invalid credentials."},
	},
	triage.CategorySecurity: {
		{"Suspicious email received", "Received a phishing email claiming to be from IT."},
		{"Malware detected", "Antivirus detected malware on my computer."},
		{"Security certificate error", "Getting security certificate error on company website."},
		{"Unauthorized access attempt", "Multiple failed login attempts on my account from unknown location."},
		{"Data breach concern", "Concerned about potential data breach, unusual activity noticed."},
	},
}

var urgentModifiers = []string{"URGENT:", "CRITICAL:", "EMERGENCY:", "System down:", "Major issue:"}
var importantModifiers = []string{"Important:", "High priority:", "Need help:"}

var descriptionVariants = []string{
	"",
	" This is affecting my work.",
	" Please help urgently.",
	" Has been happening since yesterday.",
	" Multiple users are reporting this issue.",
}

var statuses = []string{"open", "open", "open", "in_progress", "resolved"}

// Generate produces n labeled tickets with the given seed. Roughly 15% of
// tickets get an urgent title prefix (priority high), 35% of the remainder
// an important prefix (priority medium), the rest are low.
func Generate(n int, seed int64) []Ticket {
	rng := rand.New(rand.NewSource(seed))
	categories := triage.Categories()
	now := time.Now().UTC().Truncate(time.Second)

	tickets := make([]Ticket, 0, n)
	for i := range n {
		category := categories[rng.Intn(len(categories))]
		tpl := templates[category][rng.Intn(len(templates[category]))]

		title := tpl.title
		priority := triage.PriorityLow
		if rng.Float64() < 0.15 {
			title = fmt.Sprintf("%s %s", urgentModifiers[rng.Intn(len(urgentModifiers))], tpl.title)
			priority = triage.PriorityHigh
		} else if rng.Float64() < 0.35 {
			title = fmt.Sprintf("%s %s", importantModifiers[rng.Intn(len(importantModifiers))], tpl.title)
			priority = triage.PriorityMedium
		}

		description := tpl.description + descriptionVariants[rng.Intn(len(descriptionVariants))]

		tickets = append(tickets, Ticket{
			ID:          i + 1,
			Title:       title,
			Description: description,
			Category:    category,
			Priority:    priority,
			Status:      statuses[rng.Intn(len(statuses))],
			CreatedAt:   now.AddDate(0, 0, -rng.Intn(91)),
		})
	}
	return tickets
}

// Stats tallies category and priority distribution for trainer summaries.
func Stats(tickets []Ticket) (byCategory map[triage.Category]int, byPriority map[triage.Priority]int) {
	byCategory = make(map[triage.Category]int)
	byPriority = make(map[triage.Priority]int)
	for _, t := range tickets {
		byCategory[t.Category]++
		byPriority[t.Priority]++
	}
	return byCategory, byPriority
}
