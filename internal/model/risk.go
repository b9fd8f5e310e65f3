package model

import "time"

// Tier is an ordered risk classification
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// Tiers lists every tier in ascending order
var Tiers = []Tier{TierLow, TierMedium, TierHigh}

// Rank orders tiers; unknown tiers rank below Low
func (t Tier) Rank() int {
	switch t {
	case TierLow:
		return 1
	case TierMedium:
		return 2
	case TierHigh:
		return 3
	default:
		return 0
	}
}

func (t Tier) Valid() bool {
	return t.Rank() > 0
}

// ParseTier accepts the lowercase tier names
func ParseTier(s string) (Tier, bool) {
	t := Tier(s)
	return t, t.Valid()
}

// RiskAssessment is the classified result of a completed questionnaire
type RiskAssessment struct {
	Score      int       `json:"score" bson:"score"`
	Tier       Tier      `json:"tier" bson:"tier"`
	Band       string    `json:"band" bson:"band"`
	Rationale  string    `json:"rationale" bson:"rationale"`
	Answers    []int     `json:"answers" bson:"answers"`
	AssessedAt time.Time `json:"assessedAt" bson:"assessedAt"`
}
