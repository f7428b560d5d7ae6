// Package scheduler drives the scrape loop: either a fixed interval gated by
// a daily active window, or an explicit list of clock times. All clock math
// happens in the configured timezone (Seoul by default).
package scheduler

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
)

type Task func(ctx context.Context) error

type Schedule struct {
	Interval time.Duration
	Times    []string // "HH:MM"; when set, overrides the interval
	Start    string   // daily window, "HH:MM"; empty means always active
	End      string
	Loc      *time.Location
}

// Run executes task until ctx is done. The first run fires immediately when
// the window is open.
func Run(ctx context.Context, s Schedule, name string, task Task, log *zap.Logger) {
	log = log.With(zap.String("task", name))
	if len(s.Times) > 0 {
		runAtTimes(ctx, s, task, log)
		return
	}
	runEvery(ctx, s, task, log)
}

func runEvery(ctx context.Context, s Schedule, task Task, log *zap.Logger) {
	t := time.NewTicker(s.Interval)
	defer t.Stop()

	runOnce := func() {
		now := time.Now().In(s.Loc)
		if !s.active(now) {
			log.Debug("outside active window, skipping", zap.Time("now", now))
			return
		}
		if err := task(ctx); err != nil {
			log.Error("run failed", zap.Error(err))
		}
	}

	runOnce()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			runOnce()
		}
	}
}

func runAtTimes(ctx context.Context, s Schedule, task Task, log *zap.Logger) {
	for {
		next, ok := s.nextRun(time.Now().In(s.Loc))
		if !ok {
			log.Error("no valid schedule times, stopping")
			return
		}
		log.Info("next run scheduled", zap.Time("at", next))

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
			if err := task(ctx); err != nil {
				log.Error("run failed", zap.Error(err))
			}
		}
	}
}

// active reports whether now falls inside the daily window. A window that
// crosses midnight (start after end) wraps around.
func (s Schedule) active(now time.Time) bool {
	if s.Start == "" || s.End == "" {
		return true
	}
	start, err1 := time.Parse("15:04", s.Start)
	end, err2 := time.Parse("15:04", s.End)
	if err1 != nil || err2 != nil {
		return true
	}

	mins := now.Hour()*60 + now.Minute()
	sm := start.Hour()*60 + start.Minute()
	em := end.Hour()*60 + end.Minute()

	if sm <= em {
		return mins >= sm && mins < em
	}
	return mins >= sm || mins < em
}

// nextRun finds the earliest configured clock time after now, rolling over
// to tomorrow when today's times have all passed.
func (s Schedule) nextRun(now time.Time) (time.Time, bool) {
	var todays []time.Time
	for _, ts := range s.Times {
		parsed, err := time.Parse("15:04", ts)
		if err != nil {
			continue
		}
		at := time.Date(now.Year(), now.Month(), now.Day(), parsed.Hour(), parsed.Minute(), 0, 0, s.Loc)
		todays = append(todays, at)
	}
	if len(todays) == 0 {
		return time.Time{}, false
	}
	sort.Slice(todays, func(i, j int) bool { return todays[i].Before(todays[j]) })

	for _, at := range todays {
		if at.After(now) {
			return at, true
		}
	}
	return todays[0].AddDate(0, 0, 1), true
}
