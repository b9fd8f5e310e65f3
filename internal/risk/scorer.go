package risk

import (
	"soulsprint/internal/apperr"
	"soulsprint/internal/model"
)

// ValidateAnswer checks a single answer value for the given slot
func ValidateAnswer(slot, value int) error {
	if value < model.MinAnswer || value > model.MaxAnswer {
		return apperr.Wrap(apperr.ErrInvalidAnswerValue, "answer %d is %d, must be between %d and %d", slot+1, value, model.MinAnswer, model.MaxAnswer)
	}
	return nil
}

// Score sums a complete questionnaire. Answers stay in slot order for audit.
func Score(answers []int) (int, error) {
	if len(answers) != model.QuestionCount {
		return 0, apperr.Wrap(apperr.ErrInvalidAnswerCount, "got %d answers, want %d", len(answers), model.QuestionCount)
	}
	total := 0
	for i, v := range answers {
		if err := ValidateAnswer(i, v); err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}
