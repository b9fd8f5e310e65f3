package risk

import (
	"errors"
	"soulsprint/internal/apperr"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		answers []int
		want    int
	}{
		{"all zero", []int{0, 0, 0, 0, 0, 0, 0}, 0},
		{"all max", []int{3, 3, 3, 3, 3, 3, 3}, 21},
		{"mixed", []int{1, 2, 3, 0, 1, 2, 3}, 12},
		{"single slot", []int{0, 0, 0, 3, 0, 0, 0}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Score(tt.answers)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreIsSumForEveryValidSequence(t *testing.T) {
	// walk all 4^7 sequences
	answers := make([]int, 7)
	var walk func(i int)
	walk = func(i int) {
		if i == len(answers) {
			sum := 0
			for _, v := range answers {
				sum += v
			}
			got, err := Score(answers)
			if err != nil || got != sum || got < 0 || got > 21 {
				t.Fatalf("Score(%v) = %d, %v; want %d", answers, got, err, sum)
			}
			return
		}
		for v := 0; v <= 3; v++ {
			answers[i] = v
			walk(i + 1)
		}
	}
	walk(0)
}

func TestScoreInvalidCount(t *testing.T) {
	for _, answers := range [][]int{nil, {1, 1, 1, 1, 1, 1}, {1, 1, 1, 1, 1, 1, 1, 1}} {
		_, err := Score(answers)
		assert.True(t, errors.Is(err, apperr.ErrInvalidAnswerCount), "len %d", len(answers))
	}
}

func TestScoreInvalidValue(t *testing.T) {
	_, err := Score([]int{0, 1, 5, 0, 0, 0, 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrInvalidAnswerValue))
	assert.Contains(t, err.Error(), "answer 3 is 5")

	_, err = Score([]int{0, 0, 0, 0, 0, 0, -1})
	assert.True(t, errors.Is(err, apperr.ErrInvalidAnswerValue))
}

func TestScoreDoesNotMutateInput(t *testing.T) {
	answers := []int{3, 2, 1, 0, 1, 2, 3}
	_, err := Score(answers)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1, 0, 1, 2, 3}, answers)
}
