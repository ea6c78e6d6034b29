//go:build integration_test || all_tests

package test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2beens/gymtracker/internal/catalog"
	"github.com/2beens/gymtracker/internal/enrollment"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) addExercise(ctx context.Context, adminToken string, muscleGroup catalog.MuscleGroup) catalog.Exercise {
	var added catalog.Exercise
	s.do(ctx, http.MethodPost, "/exercises", adminToken, map[string]any{
		"name":         fmt.Sprintf("%s %s", gofakeit.Verb(), gofakeit.UUID()),
		"description":  gofakeit.Sentence(8),
		"muscle_group": muscleGroup,
		"category":     catalog.CategoryStrength,
		"equipment":    catalog.EquipmentDumbbells,
		"sets":         4,
		"reps":         "8-10",
		"rest_time":    90,
	}, http.StatusCreated, &added)
	require.NotEqual(s.T(), uuid.Nil, added.ID)
	return added
}

// createProgram adds a weeks x daysPerWeek program where every day holds the given exercises.
func (s *IntegrationTestSuite) createProgram(
	ctx context.Context,
	adminToken string,
	weeks, daysPerWeek int,
	exercises ...catalog.Exercise,
) catalog.ProgramDetail {
	days := make([]map[string]any, 0, weeks*daysPerWeek)
	for w := 1; w <= weeks; w++ {
		for d := 1; d <= daysPerWeek; d++ {
			dayExercises := make([]map[string]any, 0, len(exercises))
			for i, e := range exercises {
				dayExercises = append(dayExercises, map[string]any{
					"exercise_id": e.ID,
					"order_index": i,
				})
			}
			days = append(days, map[string]any{
				"week_number": w,
				"day_number":  d,
				"day_name":    fmt.Sprintf("Monday - Workout %d", d),
				"exercises":   dayExercises,
			})
		}
	}

	var created catalog.ProgramDetail
	s.do(ctx, http.MethodPost, "/programs", adminToken, map[string]any{
		"name":           "Program " + gofakeit.UUID(),
		"description":    gofakeit.Sentence(10),
		"goal":           catalog.GoalMuscleGain,
		"difficulty":     catalog.DifficultyIntermediate,
		"duration_weeks": weeks,
		"days_per_week":  daysPerWeek,
		"days":           days,
	}, http.StatusCreated, &created)
	require.Len(s.T(), created.Days, weeks*daysPerWeek)
	return created
}

func (s *IntegrationTestSuite) TestCatalog_ExercisesAndPrograms() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	_, customerToken := s.registerUser(ctx)
	_, adminToken := s.registerUser(ctx, "admin")

	s.do(ctx, http.MethodPost, "/exercises", customerToken, map[string]any{
		"name":         "Push Up",
		"muscle_group": catalog.MuscleGroupChest,
		"category":     catalog.CategoryStrength,
	}, http.StatusForbidden, nil)

	bench := s.addExercise(ctx, adminToken, catalog.MuscleGroupChest)
	row := s.addExercise(ctx, adminToken, catalog.MuscleGroupBack)

	// public read, no token
	var exercises []catalog.Exercise
	s.do(ctx, http.MethodGet, "/exercises?muscle_group=back", "", nil, http.StatusOK, &exercises)
	require.NotEmpty(t, exercises)
	for _, e := range exercises {
		assert.Equal(t, catalog.MuscleGroupBack, e.MuscleGroup)
	}

	program := s.createProgram(ctx, adminToken, 2, 2, bench, row)
	assert.Equal(t, 8, program.TotalExercises)

	var fetched catalog.ProgramDetail
	s.do(ctx, http.MethodGet, "/programs/"+program.ID.String(), "", nil, http.StatusOK, &fetched)
	assert.Equal(t, program.Name, fetched.Name)
	require.Len(t, fetched.Days, 4)
	require.Len(t, fetched.Days[0].Exercises, 2)
	// no custom values, the exercise defaults apply
	assert.Equal(t, 4, fetched.Days[0].Exercises[0].Sets)
	assert.Equal(t, 90, fetched.Days[0].Exercises[0].RestTime)

	var dayExercises []catalog.DayExercise
	s.do(ctx, http.MethodGet, fmt.Sprintf("/programs/days/%s/exercises", fetched.Days[0].ID), "", nil, http.StatusOK, &dayExercises)
	assert.Len(t, dayExercises, 2)

	// soft delete keeps the row but drops it from listings
	s.do(ctx, http.MethodDelete, "/exercises/"+row.ID.String(), adminToken, nil, http.StatusNoContent, nil)
	var deleted catalog.Exercise
	s.do(ctx, http.MethodGet, "/exercises/"+row.ID.String(), "", nil, http.StatusOK, &deleted)
	assert.False(t, deleted.IsActive)
	s.do(ctx, http.MethodGet, "/exercises?muscle_group=back", "", nil, http.StatusOK, &exercises)
	for _, e := range exercises {
		assert.NotEqual(t, row.ID, e.ID)
	}

	var stats catalog.ProgramStats
	s.do(ctx, http.MethodGet, "/programs/stats", adminToken, nil, http.StatusOK, &stats)
	assert.GreaterOrEqual(t, stats.TotalPrograms, 1)
	s.do(ctx, http.MethodGet, "/programs/stats", customerToken, nil, http.StatusForbidden, nil)
}

func (s *IntegrationTestSuite) TestEnrollment_Lifecycle() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	_, adminToken := s.registerUser(ctx, "admin")
	_, token := s.registerUser(ctx)

	bench := s.addExercise(ctx, adminToken, catalog.MuscleGroupChest)
	program := s.createProgram(ctx, adminToken, 1, 2, bench)

	s.do(ctx, http.MethodGet, "/programs/current", token, nil, http.StatusNotFound, nil)

	var enrolled enrollment.Enrollment
	s.do(ctx, http.MethodPost, fmt.Sprintf("/programs/%s/enroll", program.ID), token, nil, http.StatusCreated, &enrolled)
	assert.Equal(t, enrollment.StatusActive, enrolled.Status)
	assert.Equal(t, 1, enrolled.CurrentWeek)
	assert.Equal(t, 1, enrolled.CurrentDay)

	s.do(ctx, http.MethodPost, fmt.Sprintf("/programs/%s/enroll", program.ID), token, nil, http.StatusConflict, nil)
	s.do(ctx, http.MethodPost, fmt.Sprintf("/programs/%s/enroll", uuid.New()), token, nil, http.StatusNotFound, nil)

	var today enrollment.TodayWorkout
	s.do(ctx, http.MethodGet, "/programs/today", token, nil, http.StatusOK, &today)
	require.NotNil(t, today.Day)
	assert.Equal(t, "Workout 1", today.Day.DayName)

	var current enrollment.CurrentProgram
	s.do(ctx, http.MethodGet, "/programs/current", token, nil, http.StatusOK, &current)
	assert.Equal(t, enrolled.ID, current.Enrollment.ID)
	assert.Equal(t, program.ID, current.Program.ID)

	// someone else's enrollment is not visible
	_, otherToken := s.registerUser(ctx)
	s.do(ctx, http.MethodGet, "/programs/enrollments/"+enrolled.ID.String(), otherToken, nil, http.StatusNotFound, nil)

	var paused enrollment.Enrollment
	s.do(ctx, http.MethodPatch, "/programs/enrollments/"+enrolled.ID.String(), token, map[string]string{
		"status": "paused",
	}, http.StatusOK, &paused)
	assert.Equal(t, enrollment.StatusPaused, paused.Status)

	s.do(ctx, http.MethodGet, "/programs/today", token, nil, http.StatusNotFound, nil)

	var listed []enrollment.Enrollment
	s.do(ctx, http.MethodGet, "/programs/enrollments", token, nil, http.StatusOK, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, enrollment.StatusPaused, listed[0].Status)
}
