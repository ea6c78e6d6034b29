package progress

import (
	"time"

	"github.com/2beens/gymtracker/pkg"
)

type StreakChange int

const (
	StreakUnchanged StreakChange = iota
	StreakStarted
	StreakExtended
	StreakReset
)

func (c StreakChange) String() string {
	switch c {
	case StreakStarted:
		return "started"
	case StreakExtended:
		return "extended"
	case StreakReset:
		return "reset"
	default:
		return "unchanged"
	}
}

// NextStreak applies a workout on the calendar date today to the stored streak.
// A workout dated before the last recorded one leaves the streak as it is.
func NextStreak(s Streak, today time.Time) (Streak, StreakChange) {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	var change StreakChange
	if s.LastWorkoutDate == nil {
		s.CurrentStreak = 1
		change = StreakStarted
	} else {
		switch diff := pkg.DaysBetween(*s.LastWorkoutDate, today); {
		case diff == 1:
			s.CurrentStreak++
			change = StreakExtended
		case diff > 1:
			s.CurrentStreak = 1
			change = StreakReset
		default:
			change = StreakUnchanged
		}
	}

	if s.LastWorkoutDate == nil || today.After(*s.LastWorkoutDate) {
		s.LastWorkoutDate = &today
	}
	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	return s, change
}
