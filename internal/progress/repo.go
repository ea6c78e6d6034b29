package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymtracker/internal/apperr"
	"github.com/2beens/gymtracker/internal/enrollment"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"
	"github.com/2beens/gymtracker/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrUnknownReference = apperr.Validation("unknown reference", map[string]string{
	"program_id": "program, day or exercise does not exist",
})

// CompleteOutcome is everything one completed workout changed.
type CompleteOutcome struct {
	History      *WorkoutHistory
	Streak       Streak
	StreakChange StreakChange
	Enrollment   *enrollment.Enrollment
	Advancement  enrollment.Advancement
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// CompleteWorkout logs the workout, updates the streak and advances the matching
// active enrollment in a single transaction. today is the caller's local calendar date.
func (r *Repo) CompleteWorkout(ctx context.Context, userID uuid.UUID, req CompleteWorkoutRequest, completedAt, today time.Time) (_ *CompleteOutcome, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.complete_workout")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	history, err := insertHistory(ctx, tx, userID, req, completedAt)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrUnknownReference
		}
		return nil, fmt.Errorf("insert workout history: %w", err)
	}

	streak, err := lockStreak(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("lock streak: %w", err)
	}
	next, change := NextStreak(*streak, today)
	if err := saveStreak(ctx, tx, &next); err != nil {
		return nil, fmt.Errorf("save streak: %w", err)
	}
	span.SetAttributes(attribute.String("streak_change", change.String()))

	outcome := &CompleteOutcome{
		History:      history,
		Streak:       next,
		StreakChange: change,
		Advancement:  enrollment.NotAdvanced,
	}
	if req.ProgramID == nil || req.DayID == nil {
		return outcome, nil
	}

	outcome.Enrollment, outcome.Advancement, err = enrollment.AdvanceTx(ctx, tx, userID, *req.ProgramID, *req.DayID)
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func insertHistory(ctx context.Context, tx pgx.Tx, userID uuid.UUID, req CompleteWorkoutRequest, completedAt time.Time) (*WorkoutHistory, error) {
	h := &WorkoutHistory{
		ID:              uuid.New(),
		UserID:          userID,
		ProgramID:       req.ProgramID,
		DayID:           req.DayID,
		CompletedAt:     completedAt,
		DurationMinutes: req.DurationMinutes,
		CaloriesBurned:  req.CaloriesBurned,
		Notes:           req.Notes,
		Completions:     make([]ExerciseCompletion, 0, len(req.ExerciseCompletions)),
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO workout_history (id, user_id, program_id, day_id, completed_at, duration_minutes, calories_burned, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, h.ID, h.UserID, h.ProgramID, h.DayID, h.CompletedAt, h.DurationMinutes, h.CaloriesBurned, h.Notes); err != nil {
		return nil, err
	}

	for _, in := range req.ExerciseCompletions {
		exerciseID := in.ExerciseID
		c := ExerciseCompletion{
			ID:         uuid.New(),
			HistoryID:  h.ID,
			ExerciseID: &exerciseID,
			Completed:  in.Completed == nil || *in.Completed,
			ActualSets: in.ActualSets,
			ActualReps: in.ActualReps,
			WeightUsed: in.WeightUsed,
			Notes:      in.Notes,
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO exercise_completions (id, history_id, exercise_id, completed, actual_sets, actual_reps, weight_used, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, c.ID, c.HistoryID, c.ExerciseID, c.Completed, c.ActualSets, c.ActualReps, c.WeightUsed, c.Notes); err != nil {
			return nil, err
		}
		h.Completions = append(h.Completions, c)
	}
	return h, nil
}

// lockStreak makes sure the user's streak row exists and locks it for the transaction.
func lockStreak(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*Streak, error) {
	if _, err := tx.Exec(ctx, `
		INSERT INTO user_streaks (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING
	`, userID); err != nil {
		return nil, err
	}

	s := &Streak{}
	if err := tx.QueryRow(ctx, `
		SELECT user_id, current_streak, longest_streak, last_workout_date, updated_at
		FROM user_streaks
		WHERE user_id = $1
		FOR UPDATE
	`, userID).Scan(&s.UserID, &s.CurrentStreak, &s.LongestStreak, &s.LastWorkoutDate, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

func saveStreak(ctx context.Context, tx pgx.Tx, s *Streak) error {
	return tx.QueryRow(ctx, `
		UPDATE user_streaks
		SET current_streak = $2, longest_streak = $3, last_workout_date = $4, updated_at = now()
		WHERE user_id = $1
		RETURNING updated_at
	`, s.UserID, s.CurrentStreak, s.LongestStreak, s.LastWorkoutDate).Scan(&s.UpdatedAt)
}

// History returns the user's workouts newest first, with their completions.
func (r *Repo) History(ctx context.Context, userID uuid.UUID, limit int) (_ []WorkoutHistory, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.history")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.Int("limit", limit))

	rows, err := r.db.Query(ctx, `
		SELECT wh.id, wh.user_id, wh.program_id, COALESCE(p.name, ''), wh.day_id, COALESCE(pd.day_name, ''),
			wh.completed_at, wh.duration_minutes, wh.calories_burned, wh.notes
		FROM workout_history wh
		LEFT JOIN workout_programs p ON p.id = wh.program_id
		LEFT JOIN program_days pd ON pd.id = wh.day_id
		WHERE wh.user_id = $1
		ORDER BY wh.completed_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]WorkoutHistory, 0)
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var h WorkoutHistory
		if err := rows.Scan(
			&h.ID, &h.UserID, &h.ProgramID, &h.ProgramName, &h.DayID, &h.DayName,
			&h.CompletedAt, &h.DurationMinutes, &h.CaloriesBurned, &h.Notes,
		); err != nil {
			return nil, err
		}
		h.Completions = []ExerciseCompletion{}
		index[h.ID] = len(history)
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return history, nil
	}

	historyIDs := make([]uuid.UUID, 0, len(history))
	for _, h := range history {
		historyIDs = append(historyIDs, h.ID)
	}
	completionRows, err := r.db.Query(ctx, `
		SELECT ec.id, ec.history_id, ec.exercise_id, COALESCE(e.name, ''), ec.completed, ec.actual_sets,
			ec.actual_reps, ec.weight_used, ec.notes
		FROM exercise_completions ec
		LEFT JOIN exercises e ON e.id = ec.exercise_id
		WHERE ec.history_id = ANY($1)
	`, historyIDs)
	if err != nil {
		return nil, fmt.Errorf("exercise completions: %w", err)
	}
	defer completionRows.Close()

	for completionRows.Next() {
		var c ExerciseCompletion
		if err := completionRows.Scan(
			&c.ID, &c.HistoryID, &c.ExerciseID, &c.ExerciseName, &c.Completed, &c.ActualSets,
			&c.ActualReps, &c.WeightUsed, &c.Notes,
		); err != nil {
			return nil, err
		}
		i := index[c.HistoryID]
		history[i].Completions = append(history[i].Completions, c)
	}
	return history, completionRows.Err()
}

// Streak returns the stored streak, zero valued when the user never worked out.
func (r *Repo) Streak(ctx context.Context, userID uuid.UUID) (_ *Streak, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.streak")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	s := &Streak{UserID: userID}
	err = r.db.QueryRow(ctx, `
		SELECT current_streak, longest_streak, last_workout_date, updated_at
		FROM user_streaks
		WHERE user_id = $1
	`, userID).Scan(&s.CurrentStreak, &s.LongestStreak, &s.LastWorkoutDate, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Repo) Aggregates(ctx context.Context, userID uuid.UUID, weekStart, monthStart time.Time) (_ *Aggregates, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.aggregates")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	agg := &Aggregates{}
	err = r.db.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE completed_at >= $2),
			COUNT(*) FILTER (WHERE completed_at >= $3),
			COALESCE(SUM(duration_minutes), 0),
			COUNT(duration_minutes)
		FROM workout_history
		WHERE user_id = $1
	`, userID, weekStart, monthStart).Scan(
		&agg.TotalWorkouts, &agg.WorkoutsThisWeek, &agg.WorkoutsThisMonth,
		&agg.TotalDurationMinutes, &agg.WorkoutsWithDuration,
	)
	if err != nil {
		return nil, err
	}
	return agg, nil
}

// ProgramProgress counts the distinct days logged for the program of the user's
// current active enrollment since its start date, both read as calendar dates in tz.
func (r *Repo) ProgramProgress(ctx context.Context, userID uuid.UUID, tz string) (_ *ProgramProgress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.program_progress")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	progress := &ProgramProgress{}
	err = r.db.QueryRow(ctx, `
		SELECT
			p.duration_weeks * p.days_per_week,
			(SELECT COUNT(DISTINCT wh.day_id) FROM workout_history wh
			 WHERE wh.user_id = ue.user_id AND wh.program_id = ue.program_id AND wh.day_id IS NOT NULL
			   AND (wh.completed_at AT TIME ZONE $2)::date >= ue.start_date)
		FROM user_enrollments ue
		JOIN workout_programs p ON p.id = ue.program_id
		WHERE ue.user_id = $1 AND ue.status = 'active'
		ORDER BY ue.created_at DESC
		LIMIT 1
	`, userID, tz).Scan(&progress.TotalDays, &progress.CompletedDays)
	if errors.Is(err, pgx.ErrNoRows) {
		return progress, nil
	}
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// DailyAggregates groups the user's workouts in [from, to) by calendar date in tz.
func (r *Repo) DailyAggregates(ctx context.Context, userID uuid.UUID, from, to time.Time, tz string) (_ []DailyAggregate, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.daily_aggregates")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(ctx, `
		SELECT
			(completed_at AT TIME ZONE $4)::date AS day,
			COUNT(*),
			COALESCE(SUM(duration_minutes), 0),
			COALESCE(SUM(calories_burned), 0)
		FROM workout_history
		WHERE user_id = $1 AND completed_at >= $2 AND completed_at < $3
		GROUP BY day
		ORDER BY day
	`, userID, from, to, tz)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	daily := make([]DailyAggregate, 0)
	for rows.Next() {
		var d DailyAggregate
		if err := rows.Scan(&d.Date, &d.Workouts, &d.TotalDuration, &d.TotalCalories); err != nil {
			return nil, err
		}
		daily = append(daily, d)
	}
	return daily, rows.Err()
}

func (r *Repo) AdminStats(ctx context.Context, weekStart time.Time, topN int) (_ *AdminStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.admin_stats")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	stats := &AdminStats{}
	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE completed_at >= $1)
		FROM workout_history
	`, weekStart).Scan(&stats.TotalWorkouts, &stats.WorkoutsThisWeek); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT u.id, u.name, u.email, COUNT(wh.id) AS workout_count
		FROM workout_history wh
		JOIN users u ON u.id = wh.user_id
		GROUP BY u.id, u.name, u.email
		ORDER BY workout_count DESC, u.name
		LIMIT $1
	`, topN)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats.MostActiveUsers = make([]ActiveUser, 0, topN)
	for rows.Next() {
		var u ActiveUser
		if err := rows.Scan(&u.UserID, &u.Name, &u.Email, &u.WorkoutCount); err != nil {
			return nil, err
		}
		stats.MostActiveUsers = append(stats.MostActiveUsers, u)
	}
	return stats, rows.Err()
}
