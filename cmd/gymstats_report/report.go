package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/2beens/gymstats/internal/gymstats/analytics"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var (
	increasingColor = color.New(color.FgGreen, color.Bold)
	decreasingColor = color.New(color.FgRed, color.Bold)
	stableColor     = color.New(color.FgYellow)
	headingColor    = color.New(color.FgCyan, color.Bold)
)

type report struct {
	out    io.Writer
	engine *analytics.Engine
	logs   []analytics.WorkoutLog
	weeks  []analytics.WeeklyMetrics
	metric analytics.Metric
}

func newReport(out io.Writer, engine *analytics.Engine, logs []analytics.WorkoutLog, weeks int, metric analytics.Metric) *report {
	return &report{
		out:    out,
		engine: engine,
		logs:   logs,
		weeks:  engine.WeeklyMetrics(logs, analytics.WeeklyParams{Weeks: weeks}),
		metric: metric,
	}
}

func (r *report) heading(title string) {
	_, _ = headingColor.Fprintf(r.out, "\n%s\n", title)
}

func (r *report) printWeekly() error {
	r.heading("Weekly metrics")
	if len(r.weeks) == 0 {
		_, err := fmt.Fprintln(r.out, "no completed workouts")
		return err
	}

	table := tablewriter.NewWriter(r.out)
	table.Header([]string{"Week", "Workouts", "Sets", "Reps", "Weight", "Avg/Rep", "Change"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(r.weeks))
	for _, w := range r.weeks {
		change := "-"
		if w.PercentChangeFromPrevious != nil {
			change = colorByTrend(w.Trend, analytics.FormatPercentChange(*w.PercentChangeFromPrevious))
		}
		data = append(data, []string{
			w.Label,
			strconv.Itoa(w.WorkoutCount),
			strconv.Itoa(w.TotalSets),
			strconv.FormatFloat(w.TotalReps, 'f', 0, 64),
			analytics.FormatWeight(w.TotalWeightLifted),
			strconv.FormatFloat(w.AverageWeightPerRep, 'f', 1, 64),
			change,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func (r *report) printMuscleGroups(week string) error {
	title := "Muscle groups"
	if week != "" {
		title += " (" + week + ")"
	}
	r.heading(title)

	groups := r.engine.MuscleGroupRollup(r.weeks, week, r.logs)
	if len(groups) == 0 {
		_, err := fmt.Fprintln(r.out, "no sets recorded")
		return err
	}

	table := tablewriter.NewWriter(r.out)
	table.Header([]string{"Muscle Group", "Sets", "Share", "Top Exercises"})

	data := make([][]string, 0, len(groups))
	for _, g := range groups {
		data = append(data, []string{
			string(g.MuscleGroup),
			strconv.FormatFloat(g.TotalSets, 'f', 1, 64),
			strconv.FormatFloat(g.PercentOfTotal, 'f', 1, 64) + "%",
			topExercises(g.Exercises, 3),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func (r *report) printInsights() error {
	r.heading("Insights: " + string(r.metric))
	insights := r.engine.Insights(r.weeks, r.metric)

	table := tablewriter.NewWriter(r.out)
	table.Header([]string{"Stat", "Value"})

	data := [][]string{
		{"Average", r.formatValue(insights.Average)},
		{"Best week", weekValue(r, insights.Max)},
		{"Weakest week", weekValue(r, insights.Min)},
		{"Average growth", analytics.FormatPercentChange(insights.AverageGrowth)},
		{"Trend", colorByTrend(insights.Trend, string(insights.Trend))},
		{"Consistency", strconv.FormatFloat(insights.Consistency, 'f', 0, 64) + "%"},
		{"Streak", strconv.Itoa(insights.StreakWeeks) + " weeks"},
	}
	if insights.TotalMuscleGroups != nil {
		data = append(data, []string{"Muscle groups trained", strconv.Itoa(*insights.TotalMuscleGroups)})
	}
	if insights.MostTargetedMuscle != nil {
		data = append(data, []string{"Most targeted", string(*insights.MostTargetedMuscle)})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func (r *report) printTrend(periods int) error {
	r.heading("Trend: " + string(r.metric))
	trend := r.engine.TrendOverWindow(r.weeks, r.metric, periods)

	table := tablewriter.NewWriter(r.out)
	table.Header([]string{"Trend", "Average Change", "Total Change"})
	if err := table.Append([]string{
		colorByTrend(trend.Trend, string(trend.Trend)),
		analytics.FormatPercentChange(trend.AverageChange),
		analytics.FormatPercentChange(trend.TotalChange),
	}); err != nil {
		return err
	}
	return table.Render()
}

func (r *report) formatValue(v float64) string {
	if r.metric == analytics.MetricTotalWeightLifted {
		return analytics.FormatWeight(v)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func weekValue(r *report, wv analytics.WeekValue) string {
	if wv.Week == "" {
		return "-"
	}
	return r.formatValue(wv.Value) + " (" + wv.Week + ")"
}

func topExercises(exercises []analytics.ExerciseBreakdown, n int) string {
	out := ""
	for i, ex := range exercises {
		if i == n {
			break
		}
		if i > 0 {
			out += ", "
		}
		out += ex.Name + " " + strconv.FormatFloat(ex.Sets, 'f', 1, 64)
	}
	return out
}

func colorByTrend(trend analytics.Trend, text string) string {
	switch trend {
	case analytics.TrendIncreasing:
		return increasingColor.Sprint(text)
	case analytics.TrendDecreasing:
		return decreasingColor.Sprint(text)
	case analytics.TrendStable:
		return stableColor.Sprint(text)
	default:
		return text
	}
}
