package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type exerciseAccumulator struct {
	sets   float64
	weight float64
	reps   float64
}

func (e *Engine) muscleGroupRollup(weeks []WeeklyMetrics, selectedWeek string, logs []WorkoutLog) []MuscleGroupMetrics {
	filtered := weeks
	if selectedWeek != "" {
		filtered = make([]WeeklyMetrics, 0, 1)
		for _, w := range weeks {
			if w.Label == selectedWeek {
				filtered = append(filtered, w)
			}
		}
	}

	totals := NewMuscleVolume()
	for _, mg := range CanonicalMuscleGroups {
		totals.Set(mg, 0)
	}
	for _, w := range filtered {
		mergeVolume(totals, w.SetsPerMuscleGroup)
	}

	var grandTotal float64
	for pair := totals.Oldest(); pair != nil; pair = pair.Next() {
		grandTotal += pair.Value
	}

	var breakdown map[MuscleGroup][]ExerciseBreakdown
	if len(logs) > 0 {
		breakdown = e.exerciseBreakdown(filtered, logs)
	}

	result := make([]MuscleGroupMetrics, 0, totals.Len())
	for pair := totals.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == 0 {
			continue
		}
		mgm := MuscleGroupMetrics{
			MuscleGroup: pair.Key,
			TotalSets:   pair.Value,
			Exercises:   breakdown[pair.Key],
		}
		if mgm.Exercises == nil {
			mgm.Exercises = []ExerciseBreakdown{}
		}
		if grandTotal > 0 {
			mgm.PercentOfTotal = pair.Value / grandTotal * 100
		}
		result = append(result, mgm)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalSets > result[j].TotalSets
	})

	return result
}

// exerciseBreakdown recomputes per-exercise attribution from the raw logs that fall within the
// date span of the given weeks (all completed logs when there are no weeks). The numbers are
// derived independently of the weekly aggregates and may differ slightly from them: attribution
// here uses the full set count of an exercise, including sets with non-numeric fields.
func (e *Engine) exerciseBreakdown(weeks []WeeklyMetrics, logs []WorkoutLog) map[MuscleGroup][]ExerciseBreakdown {
	var from, to time.Time
	for i, w := range weeks {
		if i == 0 || w.StartDate.Before(from) {
			from = w.StartDate
		}
		if i == 0 || w.EndDate.After(to) {
			to = w.EndDate
		}
	}
	restrict := len(weeks) > 0

	perGroup := make(map[MuscleGroup]*orderedmap.OrderedMap[string, *exerciseAccumulator])
	for _, l := range logs {
		if !l.Completed {
			continue
		}
		if restrict {
			d, err := ParseDate(l.Date)
			if err != nil || d.Before(from) || d.After(to) {
				continue
			}
		}

		for _, ex := range l.Exercises {
			setCount := len(ex.Sets)
			if setCount == 0 {
				continue
			}
			name := strings.TrimSpace(ex.Name)
			contribution := e.resolver.Attribute(ex.Name, setCount)

			for pair := contribution.Oldest(); pair != nil; pair = pair.Next() {
				mg := knownOrOther(pair.Key)
				share := pair.Value / float64(setCount)

				exercises, ok := perGroup[mg]
				if !ok {
					exercises = orderedmap.New[string, *exerciseAccumulator]()
					perGroup[mg] = exercises
				}
				acc, ok := exercises.Get(name)
				if !ok {
					acc = &exerciseAccumulator{}
					exercises.Set(name, acc)
				}

				acc.sets += pair.Value
				for _, set := range ex.Sets {
					reps, weight, ok := validSet(set)
					if !ok {
						continue
					}
					acc.weight += weight * reps * share
					acc.reps += reps * share
				}
			}
		}
	}

	breakdown := make(map[MuscleGroup][]ExerciseBreakdown, len(perGroup))
	for mg, exercises := range perGroup {
		list := make([]ExerciseBreakdown, 0, exercises.Len())
		for pair := exercises.Oldest(); pair != nil; pair = pair.Next() {
			acc := pair.Value
			var avgWeight float64
			if acc.reps > 0 {
				avgWeight = acc.weight / acc.reps
			}
			list = append(list, ExerciseBreakdown{
				Name:   pair.Key,
				Sets:   math.Round(acc.sets*10) / 10,
				Weight: avgWeight,
			})
		}
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Sets > list[j].Sets
		})
		breakdown[mg] = list
	}

	return breakdown
}
