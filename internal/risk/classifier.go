package risk

import (
	"soulsprint/internal/apperr"
	"soulsprint/internal/config"
	"soulsprint/internal/model"
	"strconv"
	"strings"
	"time"
)

// Classifier maps questionnaire scores to tiers
type Classifier struct {
	thresholds config.ThresholdConfig
	templates  map[model.Tier]string
	now        func() time.Time
}

// NewClassifier creates a classifier from validated engine config
func NewClassifier(cfg *config.EngineConfig) *Classifier {
	templates := make(map[model.Tier]string, len(cfg.Rationales))
	for k, v := range cfg.Rationales {
		templates[k] = v
	}
	return &Classifier{
		thresholds: cfg.Thresholds,
		templates:  templates,
		now:        time.Now,
	}
}

// Tier returns the tier for a score without building an assessment
func (c *Classifier) Tier(score int) (model.Tier, error) {
	if score < 0 || score > model.MaxScore {
		return "", apperr.Wrap(apperr.ErrScoreOutOfRange, "score %d outside 0..%d", score, model.MaxScore)
	}
	switch {
	case score <= c.thresholds.LowMax:
		return model.TierLow, nil
	case score <= c.thresholds.MediumMax:
		return model.TierMedium, nil
	default:
		return model.TierHigh, nil
	}
}

// Band is the finer severity label inside a tier. Low splits at half its upper bound.
func (c *Classifier) Band(score int, tier model.Tier) string {
	switch tier {
	case model.TierLow:
		if score <= c.thresholds.LowMax/2 {
			return "minimal"
		}
		return "mild"
	case model.TierMedium:
		return "moderate"
	default:
		return "severe"
	}
}

// Rationale renders the tier template for a score
func (c *Classifier) Rationale(score int, tier model.Tier) string {
	r := strings.NewReplacer(
		"{score}", strconv.Itoa(score),
		"{tier}", string(tier),
		"{band}", c.Band(score, tier),
	)
	return r.Replace(c.templates[tier])
}

// Classify builds the assessment for a score
func (c *Classifier) Classify(score int) (*model.RiskAssessment, error) {
	tier, err := c.Tier(score)
	if err != nil {
		return nil, err
	}
	return &model.RiskAssessment{
		Score:      score,
		Tier:       tier,
		Band:       c.Band(score, tier),
		Rationale:  c.Rationale(score, tier),
		AssessedAt: c.now().UTC(),
	}, nil
}

// Assess scores and classifies a full answer set
func (c *Classifier) Assess(answers []int) (*model.RiskAssessment, error) {
	score, err := Score(answers)
	if err != nil {
		return nil, err
	}
	a, err := c.Classify(score)
	if err != nil {
		return nil, err
	}
	a.Answers = append([]int{}, answers...)
	return a, nil
}
