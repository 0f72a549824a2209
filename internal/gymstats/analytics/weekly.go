package analytics

import (
	"math"
	"strings"
	"time"
)

// DefaultWeekCount is used when no week count is requested and no log has a parseable date.
const DefaultWeekCount = 16

const weekLabelLayout = "Jan 2"

type WeeklyParams struct {
	// Weeks is the number of weeks ending with the current one; <= 0 derives it from the log dates.
	Weeks int
	// MuscleGroup keeps only exercises contributing to a group whose key contains it.
	MuscleGroup string
	// Exercise keeps only exercises with this name (case-insensitive).
	Exercise string
}

type datedLog struct {
	log   WorkoutLog
	date  time.Time
	dated bool
}

func (e *Engine) weeklyMetrics(logs []WorkoutLog, params WeeklyParams) []WeeklyMetrics {
	completed := e.completedLogs(logs)
	if len(completed) == 0 {
		return []WeeklyMetrics{}
	}

	weekCount := params.Weeks
	if weekCount <= 0 {
		weekCount = autoWeekCount(completed)
	}

	starts := weekStarts(e.today(), weekCount)
	weeks := make([]WeeklyMetrics, 0, len(starts))
	for _, start := range starts {
		weeks = append(weeks, e.buildWeek(start, completed, params))
	}

	return WithTrends(weeks)
}

// completedLogs keeps completed logs and normalizes their dates once.
func (e *Engine) completedLogs(logs []WorkoutLog) []datedLog {
	completed := make([]datedLog, 0, len(logs))
	for _, l := range logs {
		if !l.Completed {
			continue
		}
		dl := datedLog{log: l}
		if d, err := ParseDate(l.Date); err == nil {
			dl.date = d
			dl.dated = true
		} else {
			e.logger.WithField("date", l.Date).Debug("workout log date unparseable, excluded from weeks")
		}
		completed = append(completed, dl)
	}
	return completed
}

// autoWeekCount covers the span between the earliest and latest parseable dates.
func autoWeekCount(logs []datedLog) int {
	var earliest, latest time.Time
	found := false
	for _, dl := range logs {
		if !dl.dated {
			continue
		}
		if !found || dl.date.Before(earliest) {
			earliest = dl.date
		}
		if !found || dl.date.After(latest) {
			latest = dl.date
		}
		found = true
	}
	if !found {
		return DefaultWeekCount
	}

	days := latest.Sub(earliest).Hours() / 24
	return int(math.Ceil(days/7)) + 1
}

// weekStarts walks back from today in 7 day steps and returns the Mondays, oldest first.
func weekStarts(today time.Time, count int) []time.Time {
	starts := make([]time.Time, count)
	for i := 0; i < count; i++ {
		starts[count-1-i] = weekMonday(today.AddDate(0, 0, -7*i))
	}
	return starts
}

func (e *Engine) buildWeek(start time.Time, logs []datedLog, params WeeklyParams) WeeklyMetrics {
	week := WeeklyMetrics{
		StartDate:            start,
		EndDate:              start.AddDate(0, 0, 6),
		Label:                start.Format(weekLabelLayout),
		SetsPerMuscleGroup:   NewMuscleVolume(),
		WeightPerMuscleGroup: NewMuscleVolume(),
	}

	exerciseFilter := strings.TrimSpace(params.Exercise)
	muscleFilter := strings.ToLower(strings.TrimSpace(params.MuscleGroup))

	for _, dl := range logs {
		if !dl.dated || !week.Contains(dl.date) {
			continue
		}
		week.WorkoutCount++

		for _, ex := range dl.log.Exercises {
			if exerciseFilter != "" && !strings.EqualFold(strings.TrimSpace(ex.Name), exerciseFilter) {
				continue
			}

			var exWeight, exReps float64
			exSets := 0
			for _, set := range ex.Sets {
				reps, weight, ok := validSet(set)
				if !ok {
					continue
				}
				exWeight += weight * reps
				exReps += reps
				exSets++
			}
			if exSets == 0 {
				continue
			}

			contribution := e.resolver.Attribute(ex.Name, exSets)
			if muscleFilter != "" && !containsMuscle(contribution, muscleFilter) {
				continue
			}

			week.TotalWeightLifted += exWeight
			week.TotalReps += exReps
			week.TotalSets += exSets

			for pair := contribution.Oldest(); pair != nil; pair = pair.Next() {
				mg := knownOrOther(pair.Key)
				addVolume(week.SetsPerMuscleGroup, mg, pair.Value)
				addVolume(week.WeightPerMuscleGroup, mg, exWeight*(pair.Value/float64(exSets)))
			}
		}
	}

	if week.TotalReps > 0 {
		week.AverageWeightPerRep = week.TotalWeightLifted / week.TotalReps
	}

	return week
}

func containsMuscle(contribution *MuscleVolume, filter string) bool {
	for pair := contribution.Oldest(); pair != nil; pair = pair.Next() {
		if strings.Contains(strings.ToLower(string(pair.Key)), filter) {
			return true
		}
	}
	return false
}
