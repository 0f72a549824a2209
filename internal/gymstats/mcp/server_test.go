package mcp

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	"github.com/2beens/gymstats/internal/gymstats/analytics"
	"github.com/2beens/gymstats/internal/gymstats/catalog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestNewServer_ToolsOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()

	svc := NewContextService(nil, &mockAnalyticsService{
		weeks: []analytics.WeeklyMetrics{{Label: "Apr 14", TotalWeightLifted: 1500}},
	}, staticCatalog{
		{Key: "bench_press", Name: "Bench Press", Primary: "chest"},
	})
	server := NewServer(svc, 8)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "gymstats-test", Version: "0.0.1"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer clientSession.Close()

	tools, err := clientSession.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	want := []string{
		"get_exercise_catalog",
		"get_gymstats_context",
		"get_insights",
		"get_muscle_group_breakdown",
		"get_trend",
		"get_weekly_metrics",
	}
	if len(names) != len(want) {
		t.Fatalf("tools = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("tools = %v, want %v", names, want)
		}
	}

	res, err := clientSession.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_weekly_metrics",
		Arguments: map[string]any{"weeks": 4},
	})
	if err != nil {
		t.Fatalf("call get_weekly_metrics: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected IsError: %s", resultText(t, res))
	}
	var weeks []map[string]any
	if err := json.Unmarshal([]byte(resultText(t, res)), &weeks); err != nil {
		t.Fatalf("expected JSON body: %v", err)
	}
	if len(weeks) != 1 || weeks[0]["formattedWeight"] != "1.5k" {
		t.Fatalf("weeks = %v", weeks)
	}

	res, err = clientSession.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_exercise_catalog",
		Arguments: map[string]any{},
	})
	if err != nil {
		t.Fatalf("call get_exercise_catalog: %v", err)
	}
	var exercises []catalog.Exercise
	if err := json.Unmarshal([]byte(resultText(t, res)), &exercises); err != nil {
		t.Fatalf("expected JSON body: %v", err)
	}
	if len(exercises) != 1 || exercises[0].Key != "bench_press" {
		t.Fatalf("exercises = %+v", exercises)
	}
}
