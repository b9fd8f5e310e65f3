package signal

import (
	"context"
	"regexp"
	"soulsprint/internal/config"
	"soulsprint/internal/model"
	"strings"
	"time"
)

type matcher struct {
	term string
	re   *regexp.Regexp
}

func compile(terms []string) []matcher {
	out := make([]matcher, 0, len(terms))
	for _, t := range terms {
		t = normalize(t)
		if t == "" {
			continue
		}
		out = append(out, matcher{term: t, re: regexp.MustCompile(`\b` + regexp.QuoteMeta(t) + `\b`)})
	}
	return out
}

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "`", "'")

func normalize(s string) string {
	s = apostrophes.Replace(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}

// KeywordExtractor is the deterministic heuristic extractor.
// Only user turns are scanned, newest Window of them.
type KeywordExtractor struct {
	cfg      config.SignalConfig
	crisis   []matcher
	distress []matcher
	mild     []matcher
	now      func() time.Time
}

// NewKeywordExtractor compiles the configured word lists
func NewKeywordExtractor(cfg config.SignalConfig) *KeywordExtractor {
	return &KeywordExtractor{
		cfg:      cfg,
		crisis:   compile(cfg.CrisisPhrases),
		distress: compile(cfg.DistressTerms),
		mild:     compile(cfg.MildTerms),
		now:      time.Now,
	}
}

// Extract implements Extractor
func (e *KeywordExtractor) Extract(ctx context.Context, transcript model.Transcript) (model.IntensitySignal, error) {
	turns := transcript.UserTurns()
	if len(turns) == 0 {
		return model.NeutralSignal(), nil
	}
	if err := ctx.Err(); err != nil {
		return model.NeutralSignal(), err
	}
	if len(turns) > e.cfg.Window {
		turns = turns[len(turns)-e.cfg.Window:]
	}

	var (
		evidence []string
		seen     = map[string]bool{}
		crisis   bool
		score    int
	)
	note := func(term string) {
		if !seen[term] {
			seen[term] = true
			evidence = append(evidence, term)
		}
	}

	for _, turn := range turns {
		text := normalize(turn.Text)
		for _, m := range e.crisis {
			if m.re.MatchString(text) {
				crisis = true
				note(m.term)
			}
		}
		for _, m := range e.distress {
			if m.re.MatchString(text) {
				score += e.cfg.DistressWeight
				note(m.term)
			}
		}
		for _, m := range e.mild {
			if m.re.MatchString(text) {
				score += e.cfg.MildWeight
				note(m.term)
			}
		}
	}

	level := model.IntensityLow
	switch {
	case crisis:
		level = model.IntensityHigh
	case score >= e.cfg.MediumScore:
		level = model.IntensityMedium
	}

	return model.IntensitySignal{
		Level:             level,
		RecommendedAction: model.ActionForIntensity(level),
		Score:             score,
		Evidence:          evidence,
		Recommendation:    Recommendation(level),
		Source:            model.SourceKeyword,
		ExtractedAt:       e.now().UTC(),
	}, nil
}
