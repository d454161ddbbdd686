package triage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/sift/internal/bayes"
	"github.com/linnemanlabs/sift/internal/textvec"
)

// DefaultConfidenceThreshold is the posterior below which the engine
// overrides the classifier with a deterministic keyword fallback.
const DefaultConfidenceThreshold = 0.4

// Mode records which branch of the engine produced a result. Used for
// metrics labelling and tests; callers see only the Result.
type Mode string

const (
	ModeModel        Mode = "model"
	ModeFallback     Mode = "fallback_low_confidence"
	ModeModelMissing Mode = "model_missing"
	ModeInvalidInput Mode = "invalid_input"
)

// Event describes one completed triage call, handed to hooks.
type Event struct {
	Category   Category
	Priority   Priority
	Confidence float64
	Mode       Mode
	Duration   float64
}

// EngineHooks receives engine events. Zero value is a no-op.
type EngineHooks struct {
	OnTriage func(e *Event)
}

// fallbackRule maps a keyword signal to the category chosen when the
// classifier is unavailable or under-confident. Evaluated in order,
// first match wins.
type fallbackRule struct {
	Signal   string
	Category Category
}

var fallbackRules = []fallbackRule{
	{"password", CategoryAccount},
	{"login", CategoryAccount},
	{"account", CategoryAccount},
	{"phishing", CategorySecurity},
	{"malware", CategorySecurity},
	{"virus", CategorySecurity},
	{"vpn", CategoryNetwork},
	{"wifi", CategoryNetwork},
	{"network", CategoryNetwork},
	{"install", CategorySoftware},
	{"crash", CategorySoftware},
	{"slow", CategoryHardware},
	{"printer", CategoryHardware},
	{"screen", CategoryHardware},
}

// Engine merges feature extraction, category classification, and priority
// scoring into a single triage call. Immutable after construction: the
// vocabulary and weights are never mutated, so concurrent callers need no
// coordination. Replacing the model means constructing a new Engine.
type Engine struct {
	vocab     *textvec.Vocabulary
	weights   *bayes.Weights
	threshold float64
	logger    log.Logger
	hooks     EngineHooks
}

// NewEngine builds an engine from a fitted vocabulary and classifier
// weights. Either may be nil, which puts the engine in the model-missing
// state: priority scoring and ticket intake keep working, category falls
// back to the sentinel. A vocabulary/weights dimension disagreement is a
// configuration error and fails construction.
func NewEngine(vocab *textvec.Vocabulary, weights *bayes.Weights, threshold float64, logger log.Logger, hooks EngineHooks) (*Engine, error) {
	if logger == nil {
		logger = log.Nop()
	}
	if !(threshold > 0 && threshold < 1) {
		threshold = DefaultConfidenceThreshold
	}
	if vocab != nil && weights != nil && vocab.Dim() != weights.Dim() {
		return nil, fmt.Errorf("engine: vocabulary dim %d, weights dim %d: %w",
			vocab.Dim(), weights.Dim(), bayes.ErrDimensionMismatch)
	}
	if vocab == nil || weights == nil {
		vocab, weights = nil, nil
	}
	return &Engine{
		vocab:     vocab,
		weights:   weights,
		threshold: threshold,
		logger:    logger,
		hooks:     hooks,
	}, nil
}

// ModelLoaded reports whether a trained model backs the engine.
func (e *Engine) ModelLoaded() bool { return e.weights != nil }

// Categories returns the class labels the loaded model predicts over, or
// nil in the model-missing state.
func (e *Engine) Categories() []string {
	if e.weights == nil {
		return nil
	}
	return e.weights.Classes
}

// Triage assigns a category, confidence, and priority to the ticket text.
// It never returns an error: degraded conditions (missing model, degenerate
// input, low confidence) resolve to deterministic fallback labels.
func (e *Engine) Triage(ctx context.Context, title, description string) Result {
	start := time.Now()

	priority := Score(title, description)
	category, confidence, mode := e.categorize(ctx, title, description)

	if mode == ModeInvalidInput {
		priority = PriorityLow
	}

	res := Result{
		Category:   category,
		Confidence: confidence,
		Priority:   priority,
	}
	if e.hooks.OnTriage != nil {
		e.hooks.OnTriage(&Event{
			Category:   res.Category,
			Priority:   res.Priority,
			Confidence: res.Confidence,
			Mode:       mode,
			Duration:   time.Since(start).Seconds(),
		})
	}
	return res
}

// categorize is the two-branch fallback decision: model prediction when
// loaded and confident, deterministic keyword fallback otherwise.
func (e *Engine) categorize(ctx context.Context, title, description string) (Category, float64, Mode) {
	text := strings.TrimSpace(title + " " + description)
	if text == "" {
		return CategoryUncategorized, 0, ModeInvalidInput
	}

	if e.weights == nil {
		return CategoryUncategorized, 0, ModeModelMissing
	}

	vector := e.vocab.Transform(text)
	label, confidence, err := e.weights.Predict(vector)
	if err != nil {
		// dimensions are validated at construction, so this is unreachable
		// in correct operation; degrade instead of failing the request
		e.logger.Error(ctx, err, "classifier predict failed")
		return CategoryUncategorized, 0, ModeModelMissing
	}

	if confidence < e.threshold {
		if fb, ok := fallbackCategory(text); ok {
			return fb, confidence, ModeFallback
		}
	}
	return Category(label), confidence, ModeModel
}

// fallbackCategory scans the text for the ordered fallback signals.
func fallbackCategory(text string) (Category, bool) {
	lower := strings.ToLower(text)
	for _, rule := range fallbackRules {
		if strings.Contains(lower, rule.Signal) {
			return rule.Category, true
		}
	}
	return "", false
}
