package catalog

import (
	"strings"
	"time"

	"github.com/2beens/gymtracker/internal/apperr"

	"github.com/google/uuid"
)

const (
	DefaultSets     = 3
	DefaultReps     = "10-12"
	DefaultRestTime = 60
)

type Exercise struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	MuscleGroup  MuscleGroup `json:"muscle_group"`
	Category     Category    `json:"category"`
	GenderFocus  GenderFocus `json:"gender_focus"`
	Equipment    Equipment   `json:"equipment"`
	Difficulty   Difficulty  `json:"difficulty"`
	Instructions string      `json:"instructions"`
	MediaURL     string      `json:"media_url"`
	Sets         int         `json:"sets"`
	Reps         string      `json:"reps"`
	RestTime     int         `json:"rest_time"`
	SafetyTips   string      `json:"safety_tips"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// ApplyDefaults fills the unset optional fields of a new exercise.
func (e *Exercise) ApplyDefaults() {
	if e.GenderFocus == "" {
		e.GenderFocus = GenderFocusBoth
	}
	if e.Equipment == "" {
		e.Equipment = EquipmentNone
	}
	if e.Difficulty == "" {
		e.Difficulty = DifficultyBeginner
	}
	if e.Sets == 0 {
		e.Sets = DefaultSets
	}
	if e.Reps == "" {
		e.Reps = DefaultReps
	}
	if e.RestTime == 0 {
		e.RestTime = DefaultRestTime
	}
}

func (e *Exercise) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(e.Name) == "" {
		fields["name"] = "required"
	}
	if !e.MuscleGroup.IsValid() {
		fields["muscle_group"] = "invalid muscle group"
	}
	if !e.Category.IsValid() {
		fields["category"] = "invalid category"
	}
	if !e.GenderFocus.IsValid() {
		fields["gender_focus"] = "invalid gender focus"
	}
	if !e.Equipment.IsValid() {
		fields["equipment"] = "invalid equipment"
	}
	if !e.Difficulty.IsValid() {
		fields["difficulty"] = "invalid difficulty"
	}
	if e.Sets < 1 {
		fields["sets"] = "must be positive"
	}
	if e.RestTime < 0 {
		fields["rest_time"] = "must not be negative"
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid exercise", fields)
	}
	return nil
}

type ExerciseFilter struct {
	MuscleGroup MuscleGroup
	Category    Category
	GenderFocus GenderFocus
	Equipment   Equipment
	Difficulty  Difficulty
	Search      string
}
