// Package signal estimates distress intensity from chat transcripts.
package signal

import (
	"context"
	"soulsprint/internal/model"
)

// Extractor maps a transcript to an intensity signal.
// An empty transcript yields model.NeutralSignal and no error.
type Extractor interface {
	Extract(ctx context.Context, transcript model.Transcript) (model.IntensitySignal, error)
}

var recommendations = map[model.Intensity]string{
	model.IntensityLow:    "Exploring Soul Sprints is a great way to build positive daily habits.",
	model.IntensityMedium: "Joining a peer support pod could help you share the load with people who understand.",
	model.IntensityHigh:   "Please consider reaching out to a mental health professional. You deserve real support right now.",
}

// Recommendation returns the default recommendation text for a level
func Recommendation(level model.Intensity) string {
	return recommendations[level]
}

// MoreSevere returns whichever signal has the higher level, preferring a on ties
func MoreSevere(a, b model.IntensitySignal) model.IntensitySignal {
	if b.Level.Rank() > a.Level.Rank() {
		return b
	}
	return a
}
