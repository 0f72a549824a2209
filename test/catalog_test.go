package test

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/gymstats/internal/gymstats/analytics"
	"github.com/2beens/gymstats/internal/gymstats/catalog"
	"github.com/2beens/gymstats/internal/gymstats/stats"
	"github.com/2beens/gymstats/internal/gymstats/workouts"
	"github.com/2beens/gymstats/internal/middleware"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *IntegrationTestSuite) TestCatalogRepo() {
	ctx := context.Background()
	s.resetData(ctx)

	repo := catalog.NewRepo(s.dbPool)
	s.Require().NoError(repo.AddExercise(ctx, catalog.Exercise{
		Key:       "landmine_press",
		Name:      "Landmine Press",
		Primary:   "shoulders",
		Secondary: []string{"chest", "triceps"},
		Aliases:   []string{"angled press"},
	}))
	s.Require().NoError(repo.AddExercise(ctx, catalog.Exercise{
		Key:     "sled_push",
		Name:    "Sled Push",
		Primary: "legs",
	}))

	err := repo.AddExercise(ctx, catalog.Exercise{Key: "sled_push", Primary: "legs"})
	s.ErrorIs(err, catalog.ErrExerciseExists)

	exercises, err := repo.ListExercises(ctx)
	s.Require().NoError(err)
	s.Require().Len(exercises, 2)
	s.Equal([]string{"chest", "triceps"}, exercises[0].Secondary)
	s.Empty(exercises[1].Aliases)

	dbCatalog, err := catalog.FromSource(ctx, catalog.SourceDB, "", repo)
	s.Require().NoError(err)

	resolver := analytics.NewResolver(dbCatalog, dbCatalog.Translator())
	entry, found := resolver.Resolve("Angled Press")
	s.Require().True(found)
	s.Equal(analytics.MuscleShoulders, entry.Primary)
}

func (s *IntegrationTestSuite) TestWorkoutsRepo() {
	ctx := context.Background()
	s.resetData(ctx)

	repo := workouts.NewRepo(s.dbPool)
	added, err := repo.Add(ctx, analytics.WorkoutLog{
		Date:      "15/04/2024",
		Completed: true,
		Exercises: []analytics.ExerciseLog{{
			Name: "Squat",
			Sets: []analytics.SetLog{{Reps: analytics.NumberFromString("5"), Weight: analytics.N(140)}},
		}},
	})
	s.Require().NoError(err)

	_, err = repo.Add(ctx, analytics.WorkoutLog{Date: "someday", Completed: false})
	s.Require().NoError(err)

	got, err := repo.Get(ctx, added.ID)
	s.Require().NoError(err)
	s.Equal("15/04/2024", got.Date)
	s.Require().Len(got.Exercises, 1)
	s.Equal(analytics.N(5), got.Exercises[0].Sets[0].Reps)
	s.Equal(analytics.N(140), got.Exercises[0].Sets[0].Weight)

	completed, err := repo.ListAll(ctx, workouts.ListAllParams{CompletedOnly: true})
	s.Require().NoError(err)
	s.Len(completed, 1)

	total, err := repo.Count(ctx, workouts.ListAllParams{})
	s.Require().NoError(err)
	s.Equal(2, total)

	s.Require().NoError(repo.Delete(ctx, added.ID))
	s.ErrorIs(repo.Delete(ctx, added.ID), workouts.ErrWorkoutNotFound)
	_, err = repo.Get(ctx, added.ID)
	s.ErrorIs(err, workouts.ErrWorkoutNotFound)
}

func (s *IntegrationTestSuite) TestStatsResultCache() {
	ctx := context.Background()
	s.resetData(ctx)

	cache := stats.NewResultCache(s.redisClient, time.Minute)
	key, err := cache.Key(ctx, analytics.OpInsights, "weeks=4")
	s.Require().NoError(err)

	s.Require().NoError(cache.Store(ctx, key, analytics.Insights{Metric: analytics.MetricTotalSets, Average: 12}))

	var loaded analytics.Insights
	found, err := cache.Load(ctx, key, &loaded)
	s.Require().NoError(err)
	s.True(found)
	s.Equal(12.0, loaded.Average)

	s.Require().NoError(cache.Invalidate(ctx))
	newKey, err := cache.Key(ctx, analytics.OpInsights, "weeks=4")
	s.Require().NoError(err)
	s.NotEqual(key, newKey)

	found, err = cache.Load(ctx, newKey, &loaded)
	s.Require().NoError(err)
	s.False(found)
}

type tokenTransport struct {
	token string
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set(middleware.TokenHeader, t.token)
	req.Header.Set("User-Agent", "test-agent")
	return http.DefaultTransport.RoundTrip(req)
}

func (s *IntegrationTestSuite) TestMCPOverHTTP() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.resetData(ctx)

	client := mcp.NewClient(&mcp.Implementation{Name: "integration-test", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint:   serverEndpoint + "/mcp",
		HTTPClient: &http.Client{Transport: &tokenTransport{token: testAppToken}},
	}, nil)
	s.Require().NoError(err)
	defer session.Close()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "get_gymstats_context"})
	s.Require().NoError(err)
	s.Require().False(res.IsError)
	s.Require().NotEmpty(res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	s.Require().True(ok)
	s.Contains(text.Text, "workout_log")
	s.Contains(text.Text, "exercise_type")

	res, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_exercise_catalog",
		Arguments: map[string]any{"muscle_group": "chest"},
	})
	s.Require().NoError(err)
	s.Require().False(res.IsError)
	text, ok = res.Content[0].(*mcp.TextContent)
	s.Require().True(ok)
	s.True(strings.Contains(text.Text, "bench_press"))
}
