package analytics

import (
	"time"
)

// SetLog is a single performed set. Reps and Weight may arrive as numbers or numeric strings.
type SetLog struct {
	Reps     Number  `json:"reps"`
	Weight   Number  `json:"weight"`
	RestTime float64 `json:"rest_time"`
	Order    int     `json:"order"`
}

type ExerciseLog struct {
	Name         string   `json:"name"`
	Sets         []SetLog `json:"sets"`
	Order        int      `json:"order"`
	MuscleGroup  string   `json:"muscle_group,omitempty"`
	IsSuperset   bool     `json:"is_superset,omitempty"`
	SupersetWith *int     `json:"superset_with,omitempty"`
}

// WorkoutLog is one logged training session. Date is free-form and normalized with ParseDate.
type WorkoutLog struct {
	ID        int           `json:"id,omitempty"`
	Date      string        `json:"date"`
	Completed bool          `json:"completed"`
	Exercises []ExerciseLog `json:"exercises"`
	CreatedAt time.Time     `json:"createdAt,omitempty"`
}

// WeeklyMetrics aggregates the completed logs of one Monday-Sunday week.
type WeeklyMetrics struct {
	StartDate            time.Time     `json:"startDate"`
	EndDate              time.Time     `json:"endDate"`
	Label                string        `json:"label"`
	TotalWeightLifted    float64       `json:"totalWeightLifted"`
	AverageWeightPerRep  float64       `json:"averageWeightPerRep"`
	TotalSets            int           `json:"totalSets"`
	TotalReps            float64       `json:"totalReps"`
	SetsPerMuscleGroup   *MuscleVolume `json:"setsPerMuscleGroup"`
	WeightPerMuscleGroup *MuscleVolume `json:"weightPerMuscleGroup"`
	WorkoutCount         int           `json:"workoutCount"`

	// set only when the previous week lifted a non-zero weight
	PercentChangeFromPrevious *float64 `json:"percentChangeFromPrevious,omitempty"`
	Trend                     Trend    `json:"trend,omitempty"`
}

// Contains reports whether the calendar date d falls within the week, both ends inclusive.
func (w WeeklyMetrics) Contains(d time.Time) bool {
	return !d.Before(w.StartDate) && !d.After(w.EndDate)
}

type ExerciseBreakdown struct {
	Name string `json:"name"`
	// Sets is the attributed (weighted) set count, rounded to one decimal.
	Sets float64 `json:"sets"`
	// Weight is the average weight per rep attributed to the muscle group.
	Weight float64 `json:"weight"`
}

type MuscleGroupMetrics struct {
	MuscleGroup    MuscleGroup         `json:"muscleGroup"`
	TotalSets      float64             `json:"totalSets"`
	Exercises      []ExerciseBreakdown `json:"exercises"`
	PercentOfTotal float64             `json:"percentOfTotal"`
}

type WeekValue struct {
	Value float64 `json:"value"`
	Week  string  `json:"week"`
}

// Insights are summary statistics over a weekly series for one metric.
type Insights struct {
	Metric        Metric    `json:"metric"`
	Average       float64   `json:"average"`
	Max           WeekValue `json:"max"`
	Min           WeekValue `json:"min"`
	Trend         Trend     `json:"trend"`
	AverageGrowth float64   `json:"averageGrowth"`
	Consistency   float64   `json:"consistency"`
	StreakWeeks   int       `json:"streakWeeks"`

	// only filled for MetricTotalSets
	TotalMuscleGroups  *int         `json:"totalMuscleGroups,omitempty"`
	MostTargetedMuscle *MuscleGroup `json:"mostTargetedMuscle,omitempty"`
}
