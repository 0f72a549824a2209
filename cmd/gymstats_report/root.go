package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/2beens/gymstats/internal/gymstats/analytics"
	"github.com/2beens/gymstats/internal/gymstats/catalog"
	"github.com/2beens/gymstats/internal/gymstats/workouts"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const asOfLayout = "2006-01-02"

type options struct {
	logsPath    string
	catalogPath string
	weeks       int
	metric      string
	week        string
	periods     int
	asOf        string
	noColor     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "gymstats-report",
		Short:         "Print weekly workout analytics for an exported workout log file.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := opts.newReport(cmd)
			if err != nil {
				return err
			}
			if err := r.printWeekly(); err != nil {
				return err
			}
			if err := r.printMuscleGroups(opts.week); err != nil {
				return err
			}
			return r.printInsights()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.logsPath, "logs", "l", "", "path to the JSON export of workout logs (required)")
	flags.StringVarP(&opts.catalogPath, "catalog", "c", "", "path to a TOML exercise catalog; the builtin one is used when empty")
	flags.IntVarP(&opts.weeks, "weeks", "w", analytics.DefaultWeekCount, "number of weeks ending with the current one; 0 derives it from the logs")
	flags.StringVarP(&opts.metric, "metric", "m", string(analytics.MetricTotalWeightLifted), "metric for insights and trend")
	flags.StringVar(&opts.asOf, "as-of", "", "treat this date (YYYY-MM-DD) as today")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	_ = rootCmd.MarkPersistentFlagRequired("logs")
	rootCmd.Flags().StringVar(&opts.week, "week", "", "muscle group breakdown only for this week label (e.g. \"Apr 14\")")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "weekly",
			Short: "Print the weekly metrics table.",
			RunE: func(cmd *cobra.Command, _ []string) error {
				r, err := opts.newReport(cmd)
				if err != nil {
					return err
				}
				return r.printWeekly()
			},
		},
		newMusclesCmd(opts),
		&cobra.Command{
			Use:   "insights",
			Short: "Print summary insights for the selected metric.",
			RunE: func(cmd *cobra.Command, _ []string) error {
				r, err := opts.newReport(cmd)
				if err != nil {
					return err
				}
				return r.printInsights()
			},
		},
		newTrendCmd(opts),
	)

	return rootCmd
}

func newMusclesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "muscles",
		Short: "Print sets per muscle group with a per-exercise breakdown.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := opts.newReport(cmd)
			if err != nil {
				return err
			}
			return r.printMuscleGroups(opts.week)
		},
	}
	cmd.Flags().StringVar(&opts.week, "week", "", "only this week label (e.g. \"Apr 14\")")
	return cmd
}

func newTrendCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Print the trend of the selected metric over the last weeks.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := opts.newReport(cmd)
			if err != nil {
				return err
			}
			return r.printTrend(opts.periods)
		},
	}
	cmd.Flags().IntVarP(&opts.periods, "periods", "p", 4, "week-over-week changes to average")
	return cmd
}

func (o *options) newReport(cmd *cobra.Command) (*report, error) {
	if o.noColor {
		color.NoColor = true
	}

	metric, err := analytics.ParseMetric(o.metric)
	if err != nil {
		return nil, err
	}
	if o.weeks < 0 {
		return nil, fmt.Errorf("weeks must not be negative, got %d", o.weeks)
	}

	clock := time.Now
	if o.asOf != "" {
		asOf, err := time.Parse(asOfLayout, o.asOf)
		if err != nil {
			return nil, fmt.Errorf("parse --as-of: %w", err)
		}
		clock = func() time.Time { return asOf }
	}

	logs, err := readLogs(o.logsPath)
	if err != nil {
		return nil, err
	}

	exerciseCatalog, err := loadCatalog(o.catalogPath)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(logrus.WarnLevel)

	engine := analytics.NewEngine(analytics.EngineParams{
		Catalog:    exerciseCatalog,
		Translator: exerciseCatalog.Translator(),
		Clock:      clock,
		Logger:     logger,
	})

	return newReport(cmd.OutOrStdout(), engine, logs, o.weeks, metric), nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Builtin()
	}
	return catalog.LoadFile(path)
}

// readLogs accepts a plain JSON array of workout logs or a saved list response.
func readLogs(path string) ([]analytics.WorkoutLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workout logs: %w", err)
	}

	var logs []analytics.WorkoutLog
	if err := json.Unmarshal(data, &logs); err == nil {
		return logs, nil
	}

	var listResp workouts.ListResponse
	if err := json.Unmarshal(data, &listResp); err != nil {
		return nil, fmt.Errorf("decode workout logs [%s]: %w", path, err)
	}
	return listResp.Workouts, nil
}
