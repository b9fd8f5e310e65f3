package model

import "time"

// TaskID identifies a self-guided wellness task
type TaskID string

const (
	TaskMindfulMorning    TaskID = "mindful-morning"
	TaskDigitalDetox      TaskID = "digital-detox"
	TaskNatureWalk        TaskID = "nature-walk"
	TaskGratitudeJournal  TaskID = "gratitude-journal"
	TaskHydrationHero     TaskID = "hydration-hero"
	TaskCreativeHour      TaskID = "creative-hour"
	TaskMeditationMaster  TaskID = "meditation-master"
	TaskConnectWithFriend TaskID = "connect-with-friend"
	TaskDeepBreathing     TaskID = "deep-breathing"
)

// TaskMeta is the fixed display metadata for a task.
// XP is awarded once per task per day.
type TaskMeta struct {
	Name string
	Icon string
	XP   int
}

// TaskMetadata maps every known task id to its metadata
var TaskMetadata = map[TaskID]TaskMeta{
	TaskMindfulMorning:    {Name: "Mindful Morning", Icon: "sunrise", XP: 15},
	TaskDigitalDetox:      {Name: "Digital Detox", Icon: "smartphone-nfc", XP: 25},
	TaskNatureWalk:        {Name: "Nature Walk", Icon: "mountain", XP: 20},
	TaskGratitudeJournal:  {Name: "Gratitude Journal", Icon: "book-heart", XP: 10},
	TaskHydrationHero:     {Name: "Hydration Hero", Icon: "glass-water", XP: 10},
	TaskCreativeHour:      {Name: "Creative Hour", Icon: "paintbrush", XP: 20},
	TaskMeditationMaster:  {Name: "Meditation Master", Icon: "brain-circuit", XP: 25},
	TaskConnectWithFriend: {Name: "Connect with a Friend", Icon: "users", XP: 20},
	TaskDeepBreathing:     {Name: "Deep Breathing", Icon: "wind", XP: 10},
}

func (id TaskID) Known() bool {
	_, ok := TaskMetadata[id]
	return ok
}

// Task is a catalog entry
type Task struct {
	ID        TaskID `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"-"`
	Icon      string `json:"icon" yaml:"-"`
	XP        int    `json:"xp" yaml:"-"`
	Tiers     []Tier `json:"applicableTiers" yaml:"tiers"`
	Completed bool   `json:"completed" yaml:"-"`
}

// AppliesTo reports whether the task is tagged with the tier
func (t Task) AppliesTo(tier Tier) bool {
	for _, tt := range t.Tiers {
		if tt == tier {
			return true
		}
	}
	return false
}

// TaskCompletion records a finished task for a session
type TaskCompletion struct {
	ID          string    `json:"id" bson:"_id"`
	SessionID   string    `json:"sessionId" bson:"sessionId"`
	TaskID      TaskID    `json:"taskId" bson:"taskId"`
	CompletedAt time.Time `json:"completedAt" bson:"completedAt"`
}
