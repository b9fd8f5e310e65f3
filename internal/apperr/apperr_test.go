package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapMatchesSentinel(t *testing.T) {
	err := Wrap(ErrInvalidAnswerValue, "slot %d: value %d", 2, 5)

	assert.True(t, errors.Is(err, ErrInvalidAnswerValue))
	assert.False(t, errors.Is(err, ErrInvalidAnswerCount))
	assert.Equal(t, "InvalidAnswerValue: slot 2: value 5", err.Error())
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestWrappedTwiceStillMatches(t *testing.T) {
	err := fmt.Errorf("submit answer: %w", Wrap(ErrScoreOutOfRange, "score %d", 22))

	assert.True(t, errors.Is(err, ErrScoreOutOfRange))
	assert.Equal(t, "ScoreOutOfRange", CodeOf(err))
}

func TestCauseUnwraps(t *testing.T) {
	err := Cause(ErrSignalExtractionFailed, context.DeadlineExceeded)

	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.True(t, errors.Is(err, ErrSignalExtractionFailed))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Wrap(ErrInvalidAnswerCount, "got 6"), http.StatusBadRequest},
		{ErrSessionNotFound, http.StatusNotFound},
		{Wrap(ErrVersionConflict, "session s1 at version 3"), http.StatusConflict},
		{Cause(ErrReplyFailed, errors.New("boom")), http.StatusBadGateway},
		{ErrEmptyCatalogForTier, http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}
