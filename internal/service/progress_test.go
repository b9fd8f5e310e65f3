package service

import (
	"context"
	"errors"
	"soulsprint/internal/apperr"
	"soulsprint/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeProgress(t *testing.T) {
	now := time.Date(2026, 6, 10, 18, 0, 0, 0, time.UTC)
	day := func(back int, id model.TaskID) *model.TaskCompletion {
		return &model.TaskCompletion{TaskID: id, CompletedAt: now.AddDate(0, 0, -back).Add(-time.Hour)}
	}
	today := []model.Task{{ID: model.TaskMindfulMorning}, {ID: model.TaskNatureWalk}, {ID: model.TaskGratitudeJournal}}

	tests := []struct {
		name      string
		tasks     []model.Task
		done      []*model.TaskCompletion
		completed int
		percent   int
		xpToday   int
		xpTotal   int
		streak    int
	}{
		{
			name:  "nothing done",
			tasks: today,
		},
		{
			name:      "repeat completion counts once",
			tasks:     today,
			done:      []*model.TaskCompletion{day(0, model.TaskNatureWalk), day(0, model.TaskNatureWalk)},
			completed: 1,
			percent:   33,
			xpToday:   20,
			xpTotal:   20,
			streak:    1,
		},
		{
			name:      "off-list task earns xp but not progress",
			tasks:     today,
			done:      []*model.TaskCompletion{day(0, model.TaskDeepBreathing), day(0, model.TaskMindfulMorning)},
			completed: 1,
			percent:   33,
			xpToday:   25,
			xpTotal:   25,
			streak:    1,
		},
		{
			name:    "streak still open until today ends",
			tasks:   today,
			done:    []*model.TaskCompletion{day(1, model.TaskNatureWalk), day(2, model.TaskNatureWalk)},
			xpTotal: 40,
			streak:  2,
		},
		{
			name:      "gap breaks the streak",
			tasks:     today,
			done:      []*model.TaskCompletion{day(0, model.TaskNatureWalk), day(2, model.TaskNatureWalk)},
			completed: 1,
			percent:   33,
			xpToday:   20,
			xpTotal:   40,
			streak:    1,
		},
		{
			name:    "escalated session has no task list",
			done:    []*model.TaskCompletion{day(0, model.TaskNatureWalk)},
			xpToday: 20,
			xpTotal: 20,
			streak:  1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := summarizeProgress(tt.tasks, tt.done, now)
			assert.Equal(t, "2026-06-10", p.Date)
			assert.Equal(t, len(tt.tasks), p.TasksToday)
			assert.Equal(t, tt.completed, p.CompletedToday)
			assert.Equal(t, tt.percent, p.Percent)
			assert.Equal(t, tt.xpToday, p.XPToday)
			assert.Equal(t, tt.xpTotal, p.XPTotal)
			assert.Equal(t, tt.streak, p.CurrentStreak)
		})
	}
}

func TestGetProgress(t *testing.T) {
	f := newFixture(t, nil)
	id := f.start(t)
	ctx := context.Background()

	_, err := f.svc.GetProgress(ctx, "missing")
	assert.True(t, errors.Is(err, apperr.ErrSessionNotFound))

	_, err = f.svc.CompleteTask(ctx, id, model.TaskGratitudeJournal)
	require.NoError(t, err)

	p, err := f.svc.GetProgress(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, p.TasksToday)
	assert.Equal(t, 1, p.CompletedToday)
	assert.Equal(t, 10, p.XPToday)
	assert.Equal(t, 1, p.CurrentStreak)
	assert.Equal(t, []string{p.Date}, p.ActiveDays)
}
