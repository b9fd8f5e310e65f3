package model

// Questionnaire shape
const (
	QuestionCount = 7
	MinAnswer     = 0
	MaxAnswer     = 3
	MaxScore      = QuestionCount * MaxAnswer
)

// Question is one fixed slot of the anxiety questionnaire
type Question struct {
	Index  int    `json:"index"`
	Prompt string `json:"prompt"`
}

// AnswerOption is a labelled answer value
type AnswerOption struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Questions are the 7 questionnaire slots in answer order
var Questions = []Question{
	{Index: 0, Prompt: "Over the last 2 weeks, how often have you been bothered by feeling nervous, anxious, or on edge?"},
	{Index: 1, Prompt: "Over the last 2 weeks, how often have you been bothered by not being able to stop or control worrying?"},
	{Index: 2, Prompt: "Over the last 2 weeks, how often have you been bothered by worrying too much about different things?"},
	{Index: 3, Prompt: "Over the last 2 weeks, how often have you been bothered by having trouble relaxing?"},
	{Index: 4, Prompt: "Over the last 2 weeks, how often have you been bothered by being so restless that it is hard to sit still?"},
	{Index: 5, Prompt: "Over the last 2 weeks, how often have you been bothered by becoming easily annoyed or irritable?"},
	{Index: 6, Prompt: "Over the last 2 weeks, how often have you been bothered by feeling afraid as if something awful might happen?"},
}

// AnswerOptions are the allowed answer values with their labels
var AnswerOptions = []AnswerOption{
	{Label: "Not at all", Value: 0},
	{Label: "Several days", Value: 1},
	{Label: "More than half the days", Value: 2},
	{Label: "Nearly every day", Value: 3},
}

// AnswerProgress is returned after each submitted answer
type AnswerProgress struct {
	Status     SessionStatus   `json:"status"`
	Answered   int             `json:"answered"`
	Remaining  int             `json:"remaining"`
	Next       *Question       `json:"next,omitempty"`
	Assessment *RiskAssessment `json:"assessment,omitempty"`
}
