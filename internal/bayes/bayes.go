// Package bayes implements a multinomial naive Bayes classifier over
// TF-IDF term features. Fit runs once offline; Predict is read-only and
// safe for concurrent callers.
package bayes

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// DefaultAlpha is the additive smoothing applied to per-class term mass so
// no term ever has zero likelihood.
const DefaultAlpha = 1.0

// ErrDimensionMismatch reports a feature vector whose dimension disagrees
// with the fitted weights. This is a configuration error: it should abort
// startup validation, never surface per-request.
var ErrDimensionMismatch = errors.New("bayes: feature dimension mismatch")

// Weights holds the fitted model: class labels, log priors, and per-class
// feature log likelihoods. Immutable after Fit.
type Weights struct {
	Classes        []string    `cbor:"classes"`
	ClassLogPrior  []float64   `cbor:"class_log_prior"`
	FeatureLogProb [][]float64 `cbor:"feature_log_prob"`
}

// Dim returns the feature dimension the weights were fitted with.
func (w *Weights) Dim() int {
	if len(w.FeatureLogProb) == 0 {
		return 0
	}
	return len(w.FeatureLogProb[0])
}

// Fit estimates class priors and per-class term likelihoods from counts,
// with additive smoothing alpha (<= 0 falls back to DefaultAlpha). Class
// order is sorted label order, so a fixed corpus always yields identical
// weights.
func Fit(features [][]float64, labels []string, alpha float64) (*Weights, error) {
	if len(features) == 0 || len(features) != len(labels) {
		return nil, fmt.Errorf("bayes: %d feature rows for %d labels", len(features), len(labels))
	}
	if alpha <= 0 {
		alpha = DefaultAlpha
	}

	dim := len(features[0])
	for i, f := range features {
		if len(f) != dim {
			return nil, fmt.Errorf("%w: row %d has dim %d, want %d", ErrDimensionMismatch, i, len(f), dim)
		}
	}

	classSet := make(map[string]int)
	for _, lbl := range labels {
		classSet[lbl]++
	}
	classes := make([]string, 0, len(classSet))
	for c := range classSet {
		classes = append(classes, c)
	}
	sort.Strings(classes)

	classIdx := make(map[string]int, len(classes))
	for i, c := range classes {
		classIdx[c] = i
	}

	// per-class summed feature mass
	counts := make([][]float64, len(classes))
	for i := range counts {
		counts[i] = make([]float64, dim)
	}
	for row, f := range features {
		ci := classIdx[labels[row]]
		for j, v := range f {
			counts[ci][j] += v
		}
	}

	w := &Weights{
		Classes:        classes,
		ClassLogPrior:  make([]float64, len(classes)),
		FeatureLogProb: make([][]float64, len(classes)),
	}
	total := float64(len(labels))
	for i, c := range classes {
		w.ClassLogPrior[i] = math.Log(float64(classSet[c]) / total)

		var mass float64
		for _, v := range counts[i] {
			mass += v
		}
		denom := math.Log(mass + alpha*float64(dim))
		w.FeatureLogProb[i] = make([]float64, dim)
		for j, v := range counts[i] {
			w.FeatureLogProb[i][j] = math.Log(v+alpha) - denom
		}
	}
	return w, nil
}

// Predict returns the arg-max class for the vector and its normalized
// posterior probability in [0,1]. The posterior is computed with
// log-sum-exp so the full distribution sums to one.
func (w *Weights) Predict(vector []float64) (string, float64, error) {
	joint, err := w.jointLogLikelihood(vector)
	if err != nil {
		return "", 0, err
	}

	best := 0
	maxLog := joint[0]
	for i, ll := range joint {
		if ll > maxLog {
			maxLog = ll
			best = i
		}
	}

	var sum float64
	for _, ll := range joint {
		sum += math.Exp(ll - maxLog)
	}
	return w.Classes[best], 1 / sum, nil
}

// Posteriors returns the full normalized class distribution, ordered as
// w.Classes. Used by the trainer's evaluation report.
func (w *Weights) Posteriors(vector []float64) ([]float64, error) {
	joint, err := w.jointLogLikelihood(vector)
	if err != nil {
		return nil, err
	}

	maxLog := joint[0]
	for _, ll := range joint {
		if ll > maxLog {
			maxLog = ll
		}
	}
	var sum float64
	post := make([]float64, len(joint))
	for i, ll := range joint {
		post[i] = math.Exp(ll - maxLog)
		sum += post[i]
	}
	for i := range post {
		post[i] /= sum
	}
	return post, nil
}

func (w *Weights) jointLogLikelihood(vector []float64) ([]float64, error) {
	if len(w.Classes) == 0 {
		return nil, errors.New("bayes: empty weights")
	}
	if len(vector) != w.Dim() {
		return nil, fmt.Errorf("%w: vector dim %d, weights dim %d", ErrDimensionMismatch, len(vector), w.Dim())
	}

	joint := make([]float64, len(w.Classes))
	for i := range w.Classes {
		ll := w.ClassLogPrior[i]
		logProb := w.FeatureLogProb[i]
		for j, v := range vector {
			if v != 0 {
				ll += v * logProb[j]
			}
		}
		joint[i] = ll
	}
	return joint, nil
}
