package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/2beens/gymtracker/internal/apperr"

	"github.com/google/uuid"
)

const (
	DefaultDurationWeeks = 4
	DefaultDaysPerWeek   = 3
)

type Program struct {
	ID              uuid.UUID   `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	Goal            Goal        `json:"goal"`
	GenderFocus     GenderFocus `json:"gender_focus"`
	Difficulty      Difficulty  `json:"difficulty"`
	DurationWeeks   int         `json:"duration_weeks"`
	DaysPerWeek     int         `json:"days_per_week"`
	CreatedBy       *uuid.UUID  `json:"created_by,omitempty"`
	IsActive        bool        `json:"is_active"`
	EnrollmentCount int         `json:"enrollment_count"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// TotalDays is the number of scheduled days of the program grid.
func (p *Program) TotalDays() int {
	if p.DurationWeeks <= 0 || p.DaysPerWeek <= 0 {
		return 0
	}
	return p.DurationWeeks * p.DaysPerWeek
}

func (p *Program) ApplyDefaults() {
	if p.GenderFocus == "" {
		p.GenderFocus = GenderFocusBoth
	}
	if p.Difficulty == "" {
		p.Difficulty = DifficultyBeginner
	}
	if p.DurationWeeks == 0 {
		p.DurationWeeks = DefaultDurationWeeks
	}
	if p.DaysPerWeek == 0 {
		p.DaysPerWeek = DefaultDaysPerWeek
	}
}

func (p *Program) validationFields() map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(p.Name) == "" {
		fields["name"] = "required"
	}
	if !p.Goal.IsValid() {
		fields["goal"] = "invalid goal"
	}
	if !p.GenderFocus.IsValid() {
		fields["gender_focus"] = "invalid gender focus"
	}
	if !p.Difficulty.IsValid() {
		fields["difficulty"] = "invalid difficulty"
	}
	if p.DurationWeeks < 1 {
		fields["duration_weeks"] = "must be positive"
	}
	if p.DaysPerWeek < 1 || p.DaysPerWeek > 7 {
		fields["days_per_week"] = "must be between 1 and 7"
	}
	return fields
}

func (p *Program) Validate() error {
	if fields := p.validationFields(); len(fields) > 0 {
		return apperr.Validation("invalid program", fields)
	}
	return nil
}

type ProgramDay struct {
	ID          uuid.UUID     `json:"id"`
	ProgramID   uuid.UUID     `json:"program_id"`
	WeekNumber  int           `json:"week_number"`
	DayNumber   int           `json:"day_number"`
	DayName     string        `json:"day_name"`
	Description string        `json:"description"`
	IsRestDay   bool          `json:"is_rest_day"`
	Exercises   []DayExercise `json:"exercises"`
}

// ValidateFor checks the day fits into the program's week/day grid.
func (d *ProgramDay) ValidateFor(p *Program) error {
	fields := map[string]string{}
	if strings.TrimSpace(d.DayName) == "" {
		fields["day_name"] = "required"
	}
	if d.WeekNumber < 1 || d.WeekNumber > p.DurationWeeks {
		fields["week_number"] = fmt.Sprintf("must be between 1 and %d", p.DurationWeeks)
	}
	if d.DayNumber < 1 || d.DayNumber > p.DaysPerWeek {
		fields["day_number"] = fmt.Sprintf("must be between 1 and %d", p.DaysPerWeek)
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid program day", fields)
	}
	return nil
}

// ShortName drops a leading weekday label: "Monday - Workout 1" becomes "Workout 1".
func (d *ProgramDay) ShortName() string {
	if _, after, found := strings.Cut(d.DayName, " - "); found {
		if rest, _, more := strings.Cut(after, " - "); more {
			return rest
		}
		return after
	}
	return d.DayName
}

type DayExercise struct {
	ID             uuid.UUID `json:"id"`
	DayID          uuid.UUID `json:"day_id"`
	ExerciseID     uuid.UUID `json:"exercise_id"`
	Exercise       *Exercise `json:"exercise,omitempty"`
	OrderIndex     int       `json:"order_index"`
	CustomSets     *int      `json:"custom_sets"`
	CustomReps     *string   `json:"custom_reps"`
	CustomRestTime *int      `json:"custom_rest_time"`
	Notes          string    `json:"notes"`
	// effective values, resolved against the exercise defaults
	Sets     int    `json:"sets"`
	Reps     string `json:"reps"`
	RestTime int    `json:"rest_time"`
}

// ResolveEffective sets Sets, Reps and RestTime from the overrides,
// falling back to the exercise defaults when an override is unset.
func (de *DayExercise) ResolveEffective() {
	de.Sets, de.Reps, de.RestTime = DefaultSets, DefaultReps, DefaultRestTime
	if de.Exercise != nil {
		de.Sets, de.Reps, de.RestTime = de.Exercise.Sets, de.Exercise.Reps, de.Exercise.RestTime
	}
	if de.CustomSets != nil && *de.CustomSets > 0 {
		de.Sets = *de.CustomSets
	}
	if de.CustomReps != nil && *de.CustomReps != "" {
		de.Reps = *de.CustomReps
	}
	if de.CustomRestTime != nil && *de.CustomRestTime > 0 {
		de.RestTime = *de.CustomRestTime
	}
}

func (de *DayExercise) Validate() error {
	fields := map[string]string{}
	if de.ExerciseID == uuid.Nil {
		fields["exercise_id"] = "required"
	}
	if de.CustomSets != nil && *de.CustomSets < 1 {
		fields["custom_sets"] = "must be positive"
	}
	if de.CustomRestTime != nil && *de.CustomRestTime < 0 {
		fields["custom_rest_time"] = "must not be negative"
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid day exercise", fields)
	}
	return nil
}

// ProgramDetail is a program with its ordered days and their exercises.
type ProgramDetail struct {
	Program
	CreatedByName  string       `json:"created_by_name,omitempty"`
	TotalExercises int          `json:"total_exercises"`
	Days           []ProgramDay `json:"days"`
}

// NewProgram is the nested create payload: a program with days and day exercises.
type NewProgram struct {
	Program
	Days []ProgramDay `json:"days"`
}

func (np *NewProgram) Validate() error {
	fields := np.Program.validationFields()
	if len(fields) > 0 {
		return apperr.Validation("invalid program", fields)
	}

	seen := map[[2]int]bool{}
	for i := range np.Days {
		day := &np.Days[i]
		if err := day.ValidateFor(&np.Program); err != nil {
			appErr, _ := apperr.As(err)
			for k, v := range appErr.Fields {
				fields[fmt.Sprintf("days[%d].%s", i, k)] = v
			}
			continue
		}
		key := [2]int{day.WeekNumber, day.DayNumber}
		if seen[key] {
			fields[fmt.Sprintf("days[%d]", i)] = "duplicate week/day"
		}
		seen[key] = true

		for j := range day.Exercises {
			if err := day.Exercises[j].Validate(); err != nil {
				appErr, _ := apperr.As(err)
				for k, v := range appErr.Fields {
					fields[fmt.Sprintf("days[%d].exercises[%d].%s", i, j, k)] = v
				}
			}
		}
	}

	if len(fields) > 0 {
		return apperr.Validation("invalid program", fields)
	}
	return nil
}

type ProgramFilter struct {
	Goal          Goal
	Difficulty    Difficulty
	GenderFocus   GenderFocus
	DurationWeeks int
	Search        string
}

type ProgramStats struct {
	TotalPrograms     int       `json:"total_programs"`
	ActivePrograms    int       `json:"active_programs"`
	TotalExercises    int       `json:"total_exercises"`
	ActiveEnrollments int       `json:"active_enrollments"`
	PopularPrograms   []Program `json:"popular_programs"`
}
