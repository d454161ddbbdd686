// Package triage is the core decision pipeline for sift: feature
// extraction, category classification, keyword priority scoring, and the
// engine that merges them into a single triage result with fallback
// handling when the trained model is missing or under-confident.
package triage
