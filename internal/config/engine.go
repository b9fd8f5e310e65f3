package config

import (
	"fmt"
	"os"
	"soulsprint/internal/apperr"
	"soulsprint/internal/model"

	"gopkg.in/yaml.v3"
)

// ThresholdConfig holds the inclusive upper bounds of the Low and Medium tiers
type ThresholdConfig struct {
	LowMax    int `yaml:"low_max"`
	MediumMax int `yaml:"medium_max"`
}

// SignalConfig tunes the keyword signal extractor
type SignalConfig struct {
	// Window is how many recent user turns are scanned
	Window int `yaml:"window"`

	// MediumScore is the weighted term total that lifts a transcript to Medium
	MediumScore int `yaml:"medium_score"`

	DistressWeight int `yaml:"distress_weight"`
	MildWeight     int `yaml:"mild_weight"`

	// CrisisPhrases escalate to professional help on any match
	CrisisPhrases []string `yaml:"crisis_phrases"`
	DistressTerms []string `yaml:"distress_terms"`
	MildTerms     []string `yaml:"mild_terms"`
}

// CatalogEntry tags a task with the tiers it applies to
type CatalogEntry struct {
	ID    model.TaskID `yaml:"id"`
	Tiers []model.Tier `yaml:"tiers"`
}

// EngineConfig is the clinical and routing configuration of the engine
type EngineConfig struct {
	Thresholds       ThresholdConfig       `yaml:"thresholds"`
	MaxTasks         int                   `yaml:"max_tasks"`
	Rationales       map[model.Tier]string `yaml:"rationales"`
	EscalationNotice string                `yaml:"escalation_notice"`
	Signal           SignalConfig          `yaml:"signal"`
	Catalog          []CatalogEntry        `yaml:"catalog"`
	PeerGroups       []model.PeerGroup     `yaml:"peer_groups"`
}

// DefaultEngineConfig returns the built-in engine configuration
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		Thresholds: ThresholdConfig{LowMax: 9, MediumMax: 14},
		MaxTasks:   3,
		Rationales: map[model.Tier]string{
			model.TierLow:    "Your score of {score} suggests {band} anxiety. Building small, positive daily habits can help you keep feeling balanced.",
			model.TierMedium: "Your score of {score} suggests {band} anxiety. Connecting with peers and practicing coping strategies can make a real difference.",
			model.TierHigh:   "Your score of {score} suggests {band} anxiety. You deserve support, and speaking with a mental health professional is a strong next step.",
		},
		EscalationNotice: "What you are going through sounds really heavy, and you do not have to face it alone. " +
			"Please reach out to a mental health professional or a local crisis line. " +
			"If you are in immediate danger, contact your local emergency number now.",
		Signal: SignalConfig{
			Window:         10,
			MediumScore:    4,
			DistressWeight: 2,
			MildWeight:     1,
			CrisisPhrases: []string{
				"kill myself", "killing myself", "suicide", "suicidal", "end my life", "want to die",
				"better off dead", "no reason to live", "hurt myself", "cut myself", "self-harm", "self harm",
				"want it all to end", "want the pain to stop", "want to disappear", "no way out",
				"better for everyone if i wasn't here", "overdose",
			},
			DistressTerms: []string{
				"alone", "lonely", "isolated", "worthless", "trapped", "hopeless", "burned out", "burnt out",
				"exhausted", "can't sleep", "unbearable", "panic", "failing", "dread", "empty", "no point", "burden",
			},
			MildTerms: []string{
				"nervous", "stressed", "stress", "worried", "anxious", "frustrated", "guilty", "pressure",
				"jitters", "overwhelmed", "tired", "upset",
			},
		},
		Catalog: []CatalogEntry{
			{ID: model.TaskMindfulMorning, Tiers: []model.Tier{model.TierLow, model.TierMedium}},
			{ID: model.TaskDigitalDetox, Tiers: []model.Tier{model.TierMedium, model.TierHigh}},
			{ID: model.TaskNatureWalk, Tiers: []model.Tier{model.TierLow, model.TierMedium}},
			{ID: model.TaskGratitudeJournal, Tiers: []model.Tier{model.TierLow, model.TierMedium, model.TierHigh}},
			{ID: model.TaskHydrationHero, Tiers: []model.Tier{model.TierLow}},
			{ID: model.TaskCreativeHour, Tiers: []model.Tier{model.TierLow, model.TierMedium}},
			{ID: model.TaskMeditationMaster, Tiers: []model.Tier{model.TierMedium, model.TierHigh}},
			{ID: model.TaskConnectWithFriend, Tiers: []model.Tier{model.TierMedium, model.TierHigh}},
			{ID: model.TaskDeepBreathing, Tiers: []model.Tier{model.TierHigh}},
		},
		PeerGroups: []model.PeerGroup{
			{ID: "mindfulness-mavericks", Name: "Mindfulness Mavericks", Description: "A group for daily meditation and mindfulness practices."},
			{ID: "fitness-fanatics", Name: "Fitness Fanatics", Description: "Support and accountability for your fitness journey."},
			{ID: "creative-souls", Name: "Creative Souls", Description: "Share and get inspired by creative wellness activities."},
			{ID: "stoic-circle", Name: "Stoic Circle", Description: "Discussing and applying stoic principles to modern life."},
		},
	}
}

// LoadEngineConfig loads engine configuration from the specified file path.
// A missing file yields the defaults; a malformed or invalid one is an error.
func LoadEngineConfig(path string) (*EngineConfig, error) {
	cfg := DefaultEngineConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrInvalidConfig, "read engine config: %v", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, apperr.Wrap(apperr.ErrInvalidConfig, "parse engine config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and catalog references
func (c *EngineConfig) Validate() error {
	t := c.Thresholds
	if t.LowMax < 0 || t.LowMax >= t.MediumMax || t.MediumMax >= model.MaxScore {
		return apperr.Wrap(apperr.ErrInvalidConfig, "thresholds must satisfy 0 <= low_max < medium_max < %d, got %d/%d", model.MaxScore, t.LowMax, t.MediumMax)
	}
	if c.MaxTasks < 1 {
		return apperr.Wrap(apperr.ErrInvalidConfig, "max_tasks must be at least 1, got %d", c.MaxTasks)
	}
	for _, tier := range model.Tiers {
		if c.Rationales[tier] == "" {
			return apperr.Wrap(apperr.ErrInvalidConfig, "missing rationale template for tier %q", tier)
		}
	}
	if c.EscalationNotice == "" {
		return apperr.Wrap(apperr.ErrInvalidConfig, "escalation_notice is empty")
	}
	if c.Signal.Window < 1 || c.Signal.MediumScore < 1 {
		return apperr.Wrap(apperr.ErrInvalidConfig, "signal window and medium_score must be positive")
	}
	if len(c.Signal.CrisisPhrases) == 0 {
		return apperr.Wrap(apperr.ErrInvalidConfig, "signal crisis_phrases is empty")
	}

	seen := make(map[model.TaskID]bool, len(c.Catalog))
	for i, entry := range c.Catalog {
		if !entry.ID.Known() {
			return apperr.Wrap(apperr.ErrInvalidConfig, "catalog[%d]: unknown task id %q", i, entry.ID)
		}
		if seen[entry.ID] {
			return apperr.Wrap(apperr.ErrInvalidConfig, "catalog[%d]: duplicate task id %q", i, entry.ID)
		}
		seen[entry.ID] = true
		if len(entry.Tiers) == 0 {
			return apperr.Wrap(apperr.ErrInvalidConfig, "catalog[%d]: task %q has no tiers", i, entry.ID)
		}
		for _, tier := range entry.Tiers {
			if !tier.Valid() {
				return apperr.Wrap(apperr.ErrInvalidConfig, "catalog[%d]: task %q has unknown tier %q", i, entry.ID, tier)
			}
		}
	}
	return nil
}

// Tasks resolves the catalog entries to tasks with their fixed metadata
func (c *EngineConfig) Tasks() []model.Task {
	tasks := make([]model.Task, 0, len(c.Catalog))
	for _, entry := range c.Catalog {
		meta := model.TaskMetadata[entry.ID]
		tasks = append(tasks, model.Task{
			ID:    entry.ID,
			Name:  meta.Name,
			Icon:  meta.Icon,
			XP:    meta.XP,
			Tiers: append([]model.Tier(nil), entry.Tiers...),
		})
	}
	return tasks
}

// String summarises the config for startup logs
func (c *EngineConfig) String() string {
	return fmt.Sprintf("thresholds=%d/%d max_tasks=%d catalog=%d peer_groups=%d",
		c.Thresholds.LowMax, c.Thresholds.MediumMax, c.MaxTasks, len(c.Catalog), len(c.PeerGroups))
}
