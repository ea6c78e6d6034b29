package progress

import (
	"fmt"
	"time"

	"github.com/2beens/gymtracker/internal/apperr"

	"github.com/google/uuid"
)

type WorkoutHistory struct {
	ID              uuid.UUID            `json:"id"`
	UserID          uuid.UUID            `json:"user_id"`
	ProgramID       *uuid.UUID           `json:"program_id"`
	ProgramName     string               `json:"program_name,omitempty"`
	DayID           *uuid.UUID           `json:"day_id"`
	DayName         string               `json:"day_name,omitempty"`
	CompletedAt     time.Time            `json:"completed_at"`
	DurationMinutes *int                 `json:"duration_minutes"`
	CaloriesBurned  *int                 `json:"calories_burned"`
	Notes           string               `json:"notes"`
	Completions     []ExerciseCompletion `json:"exercise_completions"`
}

type ExerciseCompletion struct {
	ID           uuid.UUID  `json:"id"`
	HistoryID    uuid.UUID  `json:"history_id"`
	ExerciseID   *uuid.UUID `json:"exercise_id"`
	ExerciseName string     `json:"exercise_name,omitempty"`
	Completed    bool       `json:"completed"`
	ActualSets   *int       `json:"actual_sets"`
	ActualReps   string     `json:"actual_reps"`
	WeightUsed   string     `json:"weight_used"`
	Notes        string     `json:"notes"`
}

type CompletionInput struct {
	ExerciseID uuid.UUID `json:"exercise_id"`
	Completed  *bool     `json:"completed"`
	ActualSets *int      `json:"actual_sets"`
	ActualReps string    `json:"actual_reps"`
	WeightUsed string    `json:"weight_used"`
	Notes      string    `json:"notes"`
}

// CompleteWorkoutRequest is the workout log posted by the client.
type CompleteWorkoutRequest struct {
	ProgramID           *uuid.UUID        `json:"program_id"`
	DayID               *uuid.UUID        `json:"day_id"`
	DurationMinutes     *int              `json:"duration_minutes"`
	CaloriesBurned      *int              `json:"calories_burned"`
	Notes               string            `json:"notes"`
	ExerciseCompletions []CompletionInput `json:"exercise_completions"`
}

func (req *CompleteWorkoutRequest) Validate() error {
	fields := map[string]string{}
	if req.DurationMinutes != nil && *req.DurationMinutes < 0 {
		fields["duration_minutes"] = "must not be negative"
	}
	if req.CaloriesBurned != nil && *req.CaloriesBurned < 0 {
		fields["calories_burned"] = "must not be negative"
	}
	if req.DayID != nil && req.ProgramID == nil {
		fields["program_id"] = "required when day_id is set"
	}
	for i, c := range req.ExerciseCompletions {
		if c.ExerciseID == uuid.Nil {
			fields[fieldKey(i, "exercise_id")] = "required"
		}
		if c.ActualSets != nil && *c.ActualSets < 0 {
			fields[fieldKey(i, "actual_sets")] = "must not be negative"
		}
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid workout log", fields)
	}
	return nil
}

func fieldKey(i int, name string) string {
	return fmt.Sprintf("exercise_completions[%d].%s", i, name)
}

type Streak struct {
	UserID          uuid.UUID  `json:"user_id"`
	CurrentStreak   int        `json:"current_streak"`
	LongestStreak   int        `json:"longest_streak"`
	LastWorkoutDate *time.Time `json:"last_workout_date"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type Stats struct {
	TotalWorkouts        int     `json:"total_workouts"`
	WorkoutsThisWeek     int     `json:"workouts_this_week"`
	WorkoutsThisMonth    int     `json:"workouts_this_month"`
	CurrentStreak        int     `json:"current_streak"`
	LongestStreak        int     `json:"longest_streak"`
	TotalDurationMinutes int     `json:"total_duration_minutes"`
	AvgWorkoutDuration   float64 `json:"avg_workout_duration"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// Aggregates are the raw history counters the stats are derived from.
type Aggregates struct {
	TotalWorkouts        int
	WorkoutsThisWeek     int
	WorkoutsThisMonth    int
	TotalDurationMinutes int
	// WorkoutsWithDuration counts the rows that carry a duration.
	WorkoutsWithDuration int
}

// ProgramProgress is the caller's progress through the program of the active enrollment.
type ProgramProgress struct {
	CompletedDays int
	TotalDays     int
}

type DailyAggregate struct {
	Date          time.Time
	Workouts      int
	TotalDuration int
	TotalCalories int
}

type DailyBucket struct {
	Date              string `json:"date"`
	DayName           string `json:"day_name"`
	WorkoutsCompleted int    `json:"workouts_completed"`
	TotalDuration     int    `json:"total_duration"`
}

type ChartPoint struct {
	Date          string `json:"date"`
	Workouts      int    `json:"workouts"`
	TotalDuration int    `json:"duration"`
	TotalCalories int    `json:"total_calories"`
}

type ActiveUser struct {
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"user__name"`
	Email        string    `json:"user__email"`
	WorkoutCount int       `json:"workout_count"`
}

type AdminStats struct {
	TotalWorkouts    int          `json:"total_workouts_logged"`
	WorkoutsThisWeek int          `json:"workouts_this_week"`
	MostActiveUsers  []ActiveUser `json:"most_active_users"`
}
