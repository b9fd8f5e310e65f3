package model

// Progress summarises a session's task completions by UTC day
type Progress struct {
	Date           string   `json:"date"`
	TasksToday     int      `json:"tasksToday"`
	CompletedToday int      `json:"completedToday"`
	Percent        int      `json:"percent"`
	XPToday        int      `json:"xpToday"`
	XPTotal        int      `json:"xpTotal"`
	CurrentStreak  int      `json:"currentStreak"`
	ActiveDays     []string `json:"activeDays"`
}
