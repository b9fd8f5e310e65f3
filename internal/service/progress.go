package service

import (
	"context"
	"soulsprint/internal/model"
	"sort"
	"time"
)

const dayLayout = "2006-01-02"

func dayOf(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// GetProgress summarises today's routed tasks, XP and the daily streak
func (s *EngineService) GetProgress(ctx context.Context, sessionID string) (*model.Progress, error) {
	st, err := s.holder.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	routed, err := s.route(ctx, st)
	if err != nil {
		return nil, err
	}
	done, err := s.completions.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return summarizeProgress(routed.Tasks, done, s.holder.Now()), nil
}

// summarizeProgress counts each task at most once per day. A streak survives
// until the end of the day after the last active day.
func summarizeProgress(tasks []model.Task, done []*model.TaskCompletion, now time.Time) *model.Progress {
	today := dayOf(now)
	byDay := make(map[string]map[model.TaskID]bool)
	for _, c := range done {
		day := dayOf(c.CompletedAt)
		if byDay[day] == nil {
			byDay[day] = make(map[model.TaskID]bool)
		}
		byDay[day][c.TaskID] = true
	}

	p := &model.Progress{
		Date:       today,
		TasksToday: len(tasks),
		ActiveDays: make([]string, 0, len(byDay)),
	}
	for day, ids := range byDay {
		p.ActiveDays = append(p.ActiveDays, day)
		for id := range ids {
			xp := model.TaskMetadata[id].XP
			p.XPTotal += xp
			if day == today {
				p.XPToday += xp
			}
		}
	}
	sort.Strings(p.ActiveDays)

	for _, t := range tasks {
		if byDay[today][t.ID] {
			p.CompletedToday++
		}
	}
	if p.TasksToday > 0 {
		p.Percent = p.CompletedToday * 100 / p.TasksToday
	}

	day := now.UTC()
	if byDay[today] == nil {
		day = day.AddDate(0, 0, -1)
	}
	for byDay[dayOf(day)] != nil {
		p.CurrentStreak++
		day = day.AddDate(0, 0, -1)
	}
	return p
}
