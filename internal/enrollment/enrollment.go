package enrollment

import (
	"time"

	"github.com/2beens/gymtracker/internal/catalog"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusPaused, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the owner may move an enrollment from s to next.
// Completion is reached only by advancing past the last program day.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusActive:
		return next == StatusPaused || next == StatusCancelled
	case StatusPaused:
		return next == StatusActive || next == StatusCancelled
	case StatusCompleted, StatusCancelled:
		return false
	default:
		return false
	}
}

type Enrollment struct {
	ID          uuid.UUID        `json:"id"`
	UserID      uuid.UUID        `json:"user_id"`
	ProgramID   uuid.UUID        `json:"program_id"`
	Program     *catalog.Program `json:"program,omitempty"`
	StartDate   time.Time        `json:"start_date"`
	Status      Status           `json:"status"`
	CurrentWeek int              `json:"current_week"`
	CurrentDay  int              `json:"current_day"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// At reports whether the pointer is at the given program position.
func (e *Enrollment) At(week, day int) bool {
	return e.CurrentWeek == week && e.CurrentDay == day
}

type Advancement int

const (
	NotAdvanced Advancement = iota
	Advanced
	Completed
)

func (a Advancement) String() string {
	switch a {
	case Advanced:
		return "advanced"
	case Completed:
		return "completed"
	default:
		return "not_advanced"
	}
}

// Advance moves an active enrollment one scheduled day forward on a
// durationWeeks x daysPerWeek grid. Moving past the last week completes the
// enrollment and leaves the pointer on the last day.
func Advance(e *Enrollment, daysPerWeek, durationWeeks int) Advancement {
	if e.Status != StatusActive || daysPerWeek <= 0 || durationWeeks <= 0 {
		return NotAdvanced
	}

	nextWeek, nextDay := e.CurrentWeek, e.CurrentDay+1
	if nextDay > daysPerWeek {
		nextDay = 1
		nextWeek++
	}

	if nextWeek > durationWeeks {
		e.Status = StatusCompleted
		return Completed
	}

	e.CurrentWeek, e.CurrentDay = nextWeek, nextDay
	return Advanced
}

// TodayWorkout is the scheduled day the active enrollment currently points to.
type TodayWorkout struct {
	Enrollment *Enrollment         `json:"enrollment"`
	Day        *catalog.ProgramDay `json:"day"`
}

type CurrentProgram struct {
	Enrollment *Enrollment            `json:"enrollment"`
	Program    *catalog.ProgramDetail `json:"program"`
}
