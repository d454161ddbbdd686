// Trainer builds the ticket classification model: it generates (or reads) a
// labelled ticket corpus, fits the TF-IDF vocabulary and naive Bayes weights,
// evaluates on a holdout split, and writes the model artifact the server
// loads at startup.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/linnemanlabs/go-core/cfg"
	"github.com/linnemanlabs/go-core/log"
	v "github.com/linnemanlabs/go-core/version"
	"github.com/oklog/ulid/v2"

	"github.com/linnemanlabs/sift/internal/artifact"
	"github.com/linnemanlabs/sift/internal/bayes"
	"github.com/linnemanlabs/sift/internal/synth"
	"github.com/linnemanlabs/sift/internal/textvec"
	"github.com/linnemanlabs/sift/internal/triage"
)

const appName = "sift"
const component = "trainer"

type trainerConfig struct {
	CorpusPath  string
	Tickets     int
	Seed        int64
	MaxFeatures int
	Alpha       float64
	Holdout     float64
	ModelOut    string
	CorpusOut   string
}

func (c *trainerConfig) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.CorpusPath, "corpus", "", "CSV corpus to train from (empty = generate synthetic tickets)")
	fs.IntVar(&c.Tickets, "tickets", 500, "number of synthetic tickets to generate when no corpus is given")
	fs.Int64Var(&c.Seed, "seed", 42, "seed for synthetic generation and the holdout shuffle")
	fs.IntVar(&c.MaxFeatures, "max-features", textvec.DefaultMaxFeatures, "vocabulary size cap")
	fs.Float64Var(&c.Alpha, "alpha", bayes.DefaultAlpha, "additive smoothing for the classifier")
	fs.Float64Var(&c.Holdout, "holdout", 0.2, "fraction of the corpus reserved for evaluation (0..0.5)")
	fs.StringVar(&c.ModelOut, "model-out", "models/triage.model", "path to write the model artifact")
	fs.StringVar(&c.CorpusOut, "corpus-out", "", "optionally write the training corpus as CSV (useful with synthetic data)")
}

func (c *trainerConfig) validate() error {
	var errs []error
	if c.CorpusPath == "" && c.Tickets < 10 {
		errs = append(errs, fmt.Errorf("invalid TICKETS %d (need at least 10 for a meaningful split)", c.Tickets))
	}
	if c.MaxFeatures <= 0 {
		errs = append(errs, fmt.Errorf("invalid MAX_FEATURES %d (must be positive)", c.MaxFeatures))
	}
	if c.Alpha <= 0 {
		errs = append(errs, fmt.Errorf("invalid ALPHA %g (must be positive)", c.Alpha))
	}
	if c.Holdout < 0 || c.Holdout > 0.5 {
		errs = append(errs, fmt.Errorf("invalid HOLDOUT %g (must be in 0..0.5)", c.Holdout))
	}
	if c.ModelOut == "" {
		errs = append(errs, errors.New("MODEL_OUT is required"))
	}
	return errors.Join(errs...)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	v.AppName = appName
	v.Component = component
	vi := v.Get()

	var (
		tc     trainerConfig
		logCfg log.Config
	)
	tc.registerFlags(flag.CommandLine)
	logCfg.RegisterFlags(flag.CommandLine)
	var showVersion bool
	flag.BoolVar(&showVersion, "V", false, "Print version+build information and exit")

	flag.Parse()
	if showVersion {
		fmt.Printf("%s (%s) %s (commit=%s, go=%s)\n", vi.AppName, vi.Component, vi.Version, vi.Commit, vi.GoVersion)
		return nil
	}

	cfg.FillFromEnv(flag.CommandLine, "SIFT_", func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	})

	if err := errors.Join(tc.validate(), logCfg.Validate()); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	lg, err := log.New(logCfg.ToOptions(v.AppName))
	if err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() { _ = lg.Sync() }()
	L := lg.With("component", vi.Component)
	ctx = log.WithContext(ctx, L)

	// Assemble the corpus.
	var tickets []synth.Ticket
	if tc.CorpusPath != "" {
		tickets, err = synth.ReadCSV(tc.CorpusPath)
		if err != nil {
			return fmt.Errorf("read corpus: %w", err)
		}
		L.Info(ctx, "corpus loaded", "path", tc.CorpusPath, "tickets", len(tickets))
	} else {
		tickets = synth.Generate(tc.Tickets, tc.Seed)
		byCategory, byPriority := synth.Stats(tickets)
		L.Info(ctx, "synthetic corpus generated",
			"tickets", len(tickets),
			"seed", tc.Seed,
			"by_category", byCategory,
			"by_priority", byPriority,
		)
	}
	if len(tickets) < 10 {
		return fmt.Errorf("corpus too small: %d tickets (need at least 10)", len(tickets))
	}

	if tc.CorpusOut != "" {
		if err := synth.WriteCSV(tc.CorpusOut, tickets); err != nil {
			return fmt.Errorf("write corpus: %w", err)
		}
		L.Info(ctx, "corpus written", "path", tc.CorpusOut)
	}

	// Shuffle deterministically and carve off the holdout set.
	rng := rand.New(rand.NewSource(tc.Seed)) //nolint:gosec // deterministic split, not crypto
	shuffled := make([]synth.Ticket, len(tickets))
	copy(shuffled, tickets)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	nHoldout := int(float64(len(shuffled)) * tc.Holdout)
	train := shuffled[nHoldout:]
	holdout := shuffled[:nHoldout]

	texts := make([]string, len(train))
	labels := make([]string, len(train))
	for i, t := range train {
		texts[i] = t.Title + " " + t.Description
		labels[i] = string(t.Category)
	}

	start := time.Now()

	vocab := textvec.Fit(texts, tc.MaxFeatures)

	features := make([][]float64, len(texts))
	for i, text := range texts {
		features[i] = vocab.Transform(text)
	}

	weights, err := bayes.Fit(features, labels, tc.Alpha)
	if err != nil {
		return fmt.Errorf("fit classifier: %w", err)
	}

	trainDuration := time.Since(start)

	accuracy := evaluate(ctx, L, vocab, weights, holdout)

	runID := ulid.Make().String()
	bundle := &artifact.Bundle{
		FormatVersion: artifact.FormatVersion,
		RunID:         runID,
		TrainedAt:     time.Now().UTC(),
		CorpusSize:    len(train),
		Accuracy:      accuracy,
		Vocabulary:    vocab,
		Weights:       weights,
	}
	if err := artifact.Save(tc.ModelOut, bundle); err != nil {
		return fmt.Errorf("save model: %w", err)
	}

	L.Info(ctx, "model trained",
		"run_id", runID,
		"path", tc.ModelOut,
		"train_size", len(train),
		"holdout_size", len(holdout),
		"features", vocab.Dim(),
		"classes", len(weights.Classes),
		"alpha", tc.Alpha,
		"accuracy", accuracy,
		"train_duration", trainDuration,
	)
	return nil
}

// evaluate scores the holdout split and logs per-class precision and recall.
// Returns overall accuracy, or 0 when the holdout is empty.
func evaluate(ctx context.Context, L log.Logger, vocab *textvec.Vocabulary, weights *bayes.Weights, holdout []synth.Ticket) float64 {
	if len(holdout) == 0 {
		return 0
	}

	correct := 0
	truePos := map[string]int{}
	predicted := map[string]int{}
	actual := map[string]int{}

	for _, t := range holdout {
		vec := vocab.Transform(t.Title + " " + t.Description)
		got, _, err := weights.Predict(vec)
		if err != nil {
			L.Error(ctx, err, "holdout prediction failed", "ticket_id", t.ID)
			continue
		}
		want := string(t.Category)
		predicted[got]++
		actual[want]++
		if got == want {
			correct++
			truePos[got]++
		}
	}

	for _, c := range triage.Categories() {
		class := string(c)
		if actual[class] == 0 && predicted[class] == 0 {
			continue
		}
		precision := 0.0
		if predicted[class] > 0 {
			precision = float64(truePos[class]) / float64(predicted[class])
		}
		recall := 0.0
		if actual[class] > 0 {
			recall = float64(truePos[class]) / float64(actual[class])
		}
		L.Info(ctx, "holdout class metrics",
			"class", class,
			"support", actual[class],
			"precision", precision,
			"recall", recall,
		)
	}

	return float64(correct) / float64(len(holdout))
}
