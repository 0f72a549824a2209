package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/2beens/gymstats/internal/gymstats/analytics"
	"github.com/2beens/gymstats/internal/gymstats/stats"
	"github.com/2beens/gymstats/internal/gymstats/workouts"
	"github.com/2beens/gymstats/internal/middleware"

	"github.com/brianvoe/gofakeit/v6"
)

var fakeExercises = []string{"Bench Press", "Squat", "Deadlift", "Pull Up", "Overhead Press", "Barbell Row"}

func (s *IntegrationTestSuite) doRequest(ctx context.Context, method, path string, body any, dst any) int {
	var reader io.Reader
	if body != nil {
		bodyJson, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(bodyJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reader)
	s.Require().NoError(err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set(middleware.TokenHeader, testAppToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	if dst != nil && resp.StatusCode < 300 {
		s.Require().NoError(json.Unmarshal(respBytes, dst), string(respBytes))
	}
	return resp.StatusCode
}

// fakeWorkout returns a completed workout on the given day and the weight it lifts.
func fakeWorkout(day time.Time) (analytics.WorkoutLog, float64) {
	workout := analytics.WorkoutLog{
		Date:      day.Format("2006-01-02"),
		Completed: true,
	}

	total := 0.0
	exercisesCount := gofakeit.Number(1, 4)
	for i := 0; i < exercisesCount; i++ {
		ex := analytics.ExerciseLog{
			Name:  gofakeit.RandomString(fakeExercises),
			Order: i,
		}
		setsCount := gofakeit.Number(1, 5)
		for j := 0; j < setsCount; j++ {
			reps := gofakeit.Number(3, 12)
			weight := float64(gofakeit.Number(8, 60)) * 2.5
			ex.Sets = append(ex.Sets, analytics.SetLog{
				Reps:   analytics.N(float64(reps)),
				Weight: analytics.N(weight),
				Order:  j,
			})
			total += float64(reps) * weight
		}
		workout.Exercises = append(workout.Exercises, ex)
	}
	return workout, total
}

func mondayOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func (s *IntegrationTestSuite) TestWorkoutsAndWeeklyStats() {
	ctx := context.Background()
	s.resetData(ctx)
	gofakeit.Seed(42)

	thisMonday := mondayOf(time.Now())
	expectedPerWeek := make([]float64, 4)
	for week := 0; week < 4; week++ {
		weekStart := thisMonday.AddDate(0, 0, -7*(3-week))
		for _, dayOffset := range []int{0, 2} {
			day := weekStart.AddDate(0, 0, dayOffset)
			if day.After(time.Now()) {
				continue
			}
			workout, total := fakeWorkout(day)
			var added workouts.AddWorkoutResponse
			s.Require().Equal(http.StatusCreated, s.doRequest(ctx, http.MethodPost, "/gymstats/workouts", workout, &added))
			s.True(added.DateRecognized)
			s.Positive(added.ID)
			expectedPerWeek[week] += total
		}
	}

	// not completed, never counted
	skipped, _ := fakeWorkout(thisMonday)
	skipped.Completed = false
	s.Require().Equal(http.StatusCreated, s.doRequest(ctx, http.MethodPost, "/gymstats/workouts", skipped, nil))

	var weekly stats.WeeklyResponse
	s.Require().Equal(http.StatusOK, s.doRequest(ctx, http.MethodGet, "/gymstats/stats/weekly?weeks=4", nil, &weekly))
	s.Require().Len(weekly.Weeks, 4)
	for i, week := range weekly.Weeks {
		s.InDelta(expectedPerWeek[i], week.TotalWeightLifted, 0.01, "week %s", week.Label)
		s.Equal(analytics.FormatWeight(week.TotalWeightLifted), week.FormattedWeight)
	}

	// served from the cache until the next write
	cachedKeys, err := s.redisClient.Keys(ctx, "gymstats::stats::v*").Result()
	s.Require().NoError(err)
	s.NotEmpty(cachedKeys)

	extra, extraTotal := fakeWorkout(mondayOf(time.Now()))
	s.Require().Equal(http.StatusCreated, s.doRequest(ctx, http.MethodPost, "/gymstats/workouts", extra, nil))

	var afterWrite stats.WeeklyResponse
	s.Require().Equal(http.StatusOK, s.doRequest(ctx, http.MethodGet, "/gymstats/stats/weekly?weeks=4", nil, &afterWrite))
	s.Require().Len(afterWrite.Weeks, 4)
	s.InDelta(expectedPerWeek[3]+extraTotal, afterWrite.Weeks[3].TotalWeightLifted, 0.01)

	var count int
	s.Require().NoError(s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM workout_log").Scan(&count))
	s.Positive(count)
}

func (s *IntegrationTestSuite) TestInsightsAndMuscleGroups() {
	ctx := context.Background()
	s.resetData(ctx)

	thisMonday := mondayOf(time.Now())
	for week, weight := range []float64{100, 100, 120} {
		workout := analytics.WorkoutLog{
			Date:      thisMonday.AddDate(0, 0, -7*(2-week)).Format("2006-01-02"),
			Completed: true,
			Exercises: []analytics.ExerciseLog{{
				Name: "Bench Press",
				Sets: []analytics.SetLog{{Reps: analytics.N(10), Weight: analytics.N(weight)}},
			}},
		}
		s.Require().Equal(http.StatusCreated, s.doRequest(ctx, http.MethodPost, "/gymstats/workouts", workout, nil))
	}

	var insights stats.InsightsResponse
	s.Require().Equal(http.StatusOK, s.doRequest(ctx, http.MethodGet, "/gymstats/stats/insights?weeks=3", nil, &insights))
	s.Equal(analytics.MetricTotalWeightLifted, insights.Metric)
	s.InDelta(1066.67, insights.Average, 0.1)
	s.Equal(1200.0, insights.Max.Value)
	s.Equal(3, insights.StreakWeeks)

	var groups stats.MuscleGroupsResponse
	s.Require().Equal(http.StatusOK, s.doRequest(ctx, http.MethodGet, "/gymstats/stats/muscle-groups?weeks=3&breakdown=true", nil, &groups))
	s.Require().NotEmpty(groups.MuscleGroups)
	s.Equal(analytics.MuscleChest, groups.MuscleGroups[0].MuscleGroup)
	s.Equal(3.0, groups.MuscleGroups[0].TotalSets)

	var trend stats.TrendResponse
	s.Require().Equal(http.StatusOK, s.doRequest(ctx, http.MethodGet, "/gymstats/stats/trend?weeks=3&periods=2", nil, &trend))
	s.Equal(analytics.TrendIncreasing, trend.Trend)
	s.True(math.Abs(trend.TotalChange-20) < 0.001, fmt.Sprintf("total change %f", trend.TotalChange))

	s.Equal(http.StatusBadRequest, s.doRequest(ctx, http.MethodGet, "/gymstats/stats/insights?metric=calories", nil, nil))
}
