package progress

import (
	"math"
	"sort"
	"time"

	"github.com/2beens/gymtracker/internal/apperr"
)

const dateLayout = "2006-01-02"

type ChartPeriod string

const (
	ChartPeriodWeek    ChartPeriod = "week"
	ChartPeriodMonth   ChartPeriod = "month"
	ChartPeriodQuarter ChartPeriod = "quarter"
)

// ParseChartPeriod defaults to a month when raw is empty.
func ParseChartPeriod(raw string) (ChartPeriod, error) {
	switch p := ChartPeriod(raw); p {
	case "":
		return ChartPeriodMonth, nil
	case ChartPeriodWeek, ChartPeriodMonth, ChartPeriodQuarter:
		return p, nil
	default:
		return "", apperr.Validation("invalid period", map[string]string{
			"period": "must be one of week, month, quarter",
		})
	}
}

func (p ChartPeriod) Days() int {
	switch p {
	case ChartPeriodWeek:
		return 7
	case ChartPeriodQuarter:
		return 90
	default:
		return 30
	}
}

// Window is a half-open range of calendar dates [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

// TrailingWindow covers the given number of days ending with today.
func TrailingWindow(today time.Time, days int) Window {
	return Window{
		From: today.AddDate(0, 0, -(days - 1)),
		To:   today.AddDate(0, 0, 1),
	}
}

// WeekStart is the Monday of today's week.
func WeekStart(today time.Time) time.Time {
	offset := (int(today.Weekday()) + 6) % 7
	return today.AddDate(0, 0, -offset)
}

func MonthStart(today time.Time) time.Time {
	return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
}

// LocalMidnight turns a calendar date into the instant it starts in loc.
func LocalMidnight(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

// CompletionPercentage of a program, clamped to [0, 100]. An empty program is 0% done.
func CompletionPercentage(p ProgramProgress) float64 {
	if p.TotalDays <= 0 || p.CompletedDays <= 0 {
		return 0
	}
	pct := float64(p.CompletedDays) / float64(p.TotalDays) * 100
	return roundOneDecimal(math.Min(pct, 100))
}

func BuildStats(agg Aggregates, streak Streak, programProgress ProgramProgress) Stats {
	stats := Stats{
		TotalWorkouts:        agg.TotalWorkouts,
		WorkoutsThisWeek:     agg.WorkoutsThisWeek,
		WorkoutsThisMonth:    agg.WorkoutsThisMonth,
		CurrentStreak:        streak.CurrentStreak,
		LongestStreak:        streak.LongestStreak,
		TotalDurationMinutes: agg.TotalDurationMinutes,
		CompletionPercentage: CompletionPercentage(programProgress),
	}
	if agg.WorkoutsWithDuration > 0 {
		stats.AvgWorkoutDuration = roundOneDecimal(float64(agg.TotalDurationMinutes) / float64(agg.WorkoutsWithDuration))
	}
	return stats
}

// WeeklyBuckets returns one bucket per day for the 7 days ending today, oldest first.
// Days without workouts are present with zero counts.
func WeeklyBuckets(today time.Time, daily []DailyAggregate) []DailyBucket {
	byDate := make(map[string]DailyAggregate, len(daily))
	for _, d := range daily {
		byDate[d.Date.Format(dateLayout)] = d
	}

	window := TrailingWindow(today, 7)
	buckets := make([]DailyBucket, 0, 7)
	for day := window.From; day.Before(window.To); day = day.AddDate(0, 0, 1) {
		key := day.Format(dateLayout)
		agg := byDate[key]
		buckets = append(buckets, DailyBucket{
			Date:              key,
			DayName:           day.Weekday().String(),
			WorkoutsCompleted: agg.Workouts,
			TotalDuration:     agg.TotalDuration,
		})
	}
	return buckets
}

// ChartPoints keeps the days of the window that had workouts, ascending by date.
func ChartPoints(window Window, daily []DailyAggregate) []ChartPoint {
	sorted := make([]DailyAggregate, 0, len(daily))
	for _, d := range daily {
		if d.Workouts == 0 || d.Date.Before(window.From) || !d.Date.Before(window.To) {
			continue
		}
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	points := make([]ChartPoint, 0, len(sorted))
	for _, d := range sorted {
		points = append(points, ChartPoint{
			Date:          d.Date.Format(dateLayout),
			Workouts:      d.Workouts,
			TotalDuration: d.TotalDuration,
			TotalCalories: d.TotalCalories,
		})
	}
	return points
}
