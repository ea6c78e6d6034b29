package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/gymtracker/internal/enrollment"
	"github.com/2beens/gymtracker/internal/telemetry/metrics"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"
	"github.com/2beens/gymtracker/pkg"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
	adminTopUsers       = 10
)

//go:generate mockgen -source=$GOFILE -destination=progress_mocks_test.go -package=progress_test

type progressRepo interface {
	CompleteWorkout(ctx context.Context, userID uuid.UUID, req CompleteWorkoutRequest, completedAt, today time.Time) (*CompleteOutcome, error)
	History(ctx context.Context, userID uuid.UUID, limit int) ([]WorkoutHistory, error)
	Streak(ctx context.Context, userID uuid.UUID) (*Streak, error)
	Aggregates(ctx context.Context, userID uuid.UUID, weekStart, monthStart time.Time) (*Aggregates, error)
	ProgramProgress(ctx context.Context, userID uuid.UUID, tz string) (*ProgramProgress, error)
	DailyAggregates(ctx context.Context, userID uuid.UUID, from, to time.Time, tz string) ([]DailyAggregate, error)
	AdminStats(ctx context.Context, weekStart time.Time, topN int) (*AdminStats, error)
}

type statsCache interface {
	Version(ctx context.Context, userID uuid.UUID) (int64, bool)
	Get(ctx context.Context, key StatsKey) (*Stats, bool)
	Set(ctx context.Context, key StatsKey, stats *Stats)
	Invalidate(ctx context.Context, userID uuid.UUID)
}

type Service struct {
	repo           progressRepo
	cache          statsCache
	metricsManager *metrics.Manager
	loc            *time.Location
	now            func() time.Time
}

func NewService(
	repo progressRepo,
	cache statsCache,
	metricsManager *metrics.Manager,
	loc *time.Location,
	now func() time.Time,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:           repo,
		cache:          cache,
		metricsManager: metricsManager,
		loc:            loc,
		now:            now,
	}
}

// today is the current calendar date in the configured time zone.
func (s *Service) today() time.Time {
	return pkg.CalendarDate(s.now(), s.loc)
}

func (s *Service) CompleteWorkout(ctx context.Context, userID uuid.UUID, req CompleteWorkoutRequest) (_ *WorkoutHistory, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.complete_workout")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	outcome, err := s.repo.CompleteWorkout(ctx, userID, req, s.now().UTC(), s.today())
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, userID)

	s.metricsManager.CounterWorkoutsCompleted.Inc()
	if outcome.StreakChange == StreakReset {
		s.metricsManager.CounterStreakResets.Inc()
	}
	if outcome.Advancement == enrollment.Completed {
		s.metricsManager.CounterEnrollmentsCompleted.Inc()
		log.Debugf("user %s completed program %s", userID, outcome.Enrollment.ProgramID)
	}
	span.SetAttributes(
		attribute.String("streak_change", outcome.StreakChange.String()),
		attribute.String("advancement", outcome.Advancement.String()),
	)

	return outcome.History, nil
}

func (s *Service) History(ctx context.Context, userID uuid.UUID, limit int) (_ []WorkoutHistory, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.history")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.repo.History(ctx, userID, limit)
}

func (s *Service) Streak(ctx context.Context, userID uuid.UUID) (_ *Streak, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.streak")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	return s.repo.Streak(ctx, userID)
}

func (s *Service) Stats(ctx context.Context, userID uuid.UUID) (_ *Stats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.stats")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	today := s.today()
	// Read before the repo: a workout committed meanwhile bumps the version
	// past the snapshot stored below.
	version, cacheable := s.cache.Version(ctx, userID)
	key := StatsKey{UserID: userID, Day: today, Version: version}
	if cacheable {
		if stats, ok := s.cache.Get(ctx, key); ok {
			return stats, nil
		}
	}

	agg, err := s.repo.Aggregates(ctx, userID,
		LocalMidnight(WeekStart(today), s.loc),
		LocalMidnight(MonthStart(today), s.loc),
	)
	if err != nil {
		return nil, fmt.Errorf("aggregates: %w", err)
	}
	streak, err := s.repo.Streak(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("streak: %w", err)
	}
	programProgress, err := s.repo.ProgramProgress(ctx, userID, s.loc.String())
	if err != nil {
		return nil, fmt.Errorf("program progress: %w", err)
	}

	stats := BuildStats(*agg, *streak, *programProgress)
	if cacheable {
		s.cache.Set(ctx, key, &stats)
	}
	return &stats, nil
}

func (s *Service) dailyAggregates(ctx context.Context, userID uuid.UUID, window Window) ([]DailyAggregate, error) {
	return s.repo.DailyAggregates(ctx, userID,
		LocalMidnight(window.From, s.loc),
		LocalMidnight(window.To, s.loc),
		s.loc.String(),
	)
}

func (s *Service) Weekly(ctx context.Context, userID uuid.UUID) (_ []DailyBucket, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.weekly")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	today := s.today()
	daily, err := s.dailyAggregates(ctx, userID, TrailingWindow(today, 7))
	if err != nil {
		return nil, err
	}
	return WeeklyBuckets(today, daily), nil
}

func (s *Service) Chart(ctx context.Context, userID uuid.UUID, period ChartPeriod) (_ []ChartPoint, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.chart")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("period", string(period)))

	window := TrailingWindow(s.today(), period.Days())
	daily, err := s.dailyAggregates(ctx, userID, window)
	if err != nil {
		return nil, err
	}
	return ChartPoints(window, daily), nil
}

func (s *Service) AdminStats(ctx context.Context) (_ *AdminStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.admin_stats")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	return s.repo.AdminStats(ctx, LocalMidnight(WeekStart(s.today()), s.loc), adminTopUsers)
}
