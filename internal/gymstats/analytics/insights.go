package analytics

func (e *Engine) insights(weeks []WeeklyMetrics, metric Metric) Insights {
	res := Insights{
		Metric: metric,
		Trend:  TrendStable,
	}
	if len(weeks) == 0 {
		if metric == MetricTotalSets {
			res.TotalMuscleGroups = new(int)
		}
		return res
	}

	var (
		sum       float64
		nonZero   int
		growths   []float64
		streak    int
		longest   int
		seenValue bool
	)
	for i, w := range weeks {
		value := w.Value(metric)

		if i > 0 {
			if prev := weeks[i-1].Value(metric); prev != 0 {
				growths = append(growths, percentChange(prev, value))
			}
		}

		if value == 0 {
			streak = 0
			continue
		}

		nonZero++
		sum += value
		if !seenValue || value > res.Max.Value {
			res.Max = WeekValue{Value: value, Week: w.Label}
		}
		if !seenValue || value < res.Min.Value {
			res.Min = WeekValue{Value: value, Week: w.Label}
		}
		seenValue = true

		if i > 0 && weeks[i-1].Value(metric) != 0 {
			streak++
		} else {
			streak = 1
		}
		longest = max(longest, streak)
	}

	if nonZero > 0 {
		res.Average = sum / float64(nonZero)
	}
	if len(growths) > 0 {
		var total float64
		for _, g := range growths {
			total += g
		}
		res.AverageGrowth = total / float64(len(growths))
	}
	res.Trend = ClassifyTrend(res.AverageGrowth)
	res.Consistency = float64(nonZero) / float64(len(weeks)) * 100
	res.StreakWeeks = longest

	if metric == MetricTotalSets {
		totals := NewMuscleVolume()
		for _, w := range weeks {
			mergeVolume(totals, w.SetsPerMuscleGroup)
		}

		groups := 0
		var top MuscleGroup
		var topSets float64
		for pair := totals.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Value <= 0 {
				continue
			}
			groups++
			if pair.Value > topSets {
				top = pair.Key
				topSets = pair.Value
			}
		}
		res.TotalMuscleGroups = &groups
		if groups > 0 {
			res.MostTargetedMuscle = &top
		}
	}

	return res
}
