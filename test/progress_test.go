//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/2beens/gymtracker/internal/catalog"
	"github.com/2beens/gymtracker/internal/enrollment"
	"github.com/2beens/gymtracker/internal/progress"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionBody(programID uuid.UUID, day catalog.ProgramDay) map[string]any {
	completions := make([]map[string]any, 0, len(day.Exercises))
	for _, de := range day.Exercises {
		completions = append(completions, map[string]any{
			"exercise_id": de.ExerciseID,
			"actual_sets": de.Sets,
			"actual_reps": de.Reps,
			"weight_used": fmt.Sprintf("%dkg", gofakeit.Number(20, 120)),
		})
	}
	return map[string]any{
		"program_id":           programID,
		"day_id":               day.ID,
		"duration_minutes":     45,
		"calories_burned":      gofakeit.Number(200, 500),
		"exercise_completions": completions,
	}
}

func (s *IntegrationTestSuite) completeDay(ctx context.Context, token string, programID uuid.UUID, day catalog.ProgramDay) progress.WorkoutHistory {
	var history progress.WorkoutHistory
	s.do(ctx, http.MethodPost, "/progress/complete-workout", token, completionBody(programID, day), http.StatusCreated, &history)
	return history
}

func (s *IntegrationTestSuite) currentEnrollment(ctx context.Context, token string) *enrollment.Enrollment {
	var current enrollment.CurrentProgram
	s.do(ctx, http.MethodGet, "/programs/current", token, nil, http.StatusOK, &current)
	require.NotNil(s.T(), current.Enrollment)
	return current.Enrollment
}

func (s *IntegrationTestSuite) TestProgress_CompleteProgram() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	_, adminToken := s.registerUser(ctx, "admin")
	_, token := s.registerUser(ctx)

	squat := s.addExercise(ctx, adminToken, catalog.MuscleGroupLegs)
	program := s.createProgram(ctx, adminToken, 2, 2, squat)

	var enrolled enrollment.Enrollment
	s.do(ctx, http.MethodPost, fmt.Sprintf("/programs/%s/enroll", program.ID), token, nil, http.StatusCreated, &enrolled)

	day11 := program.Days[0]
	history := s.completeDay(ctx, token, program.ID, day11)
	assert.Equal(t, program.ID, *history.ProgramID)
	require.Len(t, history.Completions, 1)
	assert.True(t, history.Completions[0].Completed)

	current := s.currentEnrollment(ctx, token)
	assert.Equal(t, 1, current.CurrentWeek)
	assert.Equal(t, 2, current.CurrentDay)

	// repeating a day that is no longer current is logged but does not move the pointer
	s.completeDay(ctx, token, program.ID, day11)
	current = s.currentEnrollment(ctx, token)
	assert.Equal(t, 1, current.CurrentWeek)
	assert.Equal(t, 2, current.CurrentDay)

	// (1,2) wraps to (2,1)
	s.completeDay(ctx, token, program.ID, program.Days[1])
	current = s.currentEnrollment(ctx, token)
	assert.Equal(t, 2, current.CurrentWeek)
	assert.Equal(t, 1, current.CurrentDay)

	// two distinct days of the 4 scheduled
	var stats progress.Stats
	s.do(ctx, http.MethodGet, "/progress/stats", token, nil, http.StatusOK, &stats)
	assert.Equal(t, 3, stats.TotalWorkouts)
	assert.Equal(t, 50.0, stats.CompletionPercentage)

	s.completeDay(ctx, token, program.ID, program.Days[2])
	s.completeDay(ctx, token, program.ID, program.Days[3])

	var finished enrollment.Enrollment
	s.do(ctx, http.MethodGet, "/programs/enrollments/"+enrolled.ID.String(), token, nil, http.StatusOK, &finished)
	assert.Equal(t, enrollment.StatusCompleted, finished.Status)
	assert.Equal(t, 2, finished.CurrentWeek)
	assert.Equal(t, 2, finished.CurrentDay)
	s.do(ctx, http.MethodGet, "/programs/current", token, nil, http.StatusNotFound, nil)

	var streak progress.Streak
	s.do(ctx, http.MethodGet, "/progress/streak", token, nil, http.StatusOK, &streak)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 1, streak.LongestStreak)
	require.NotNil(t, streak.LastWorkoutDate)

	// no active enrollment left to measure against
	s.do(ctx, http.MethodGet, "/progress/stats", token, nil, http.StatusOK, &stats)
	assert.Equal(t, 5, stats.TotalWorkouts)
	assert.Equal(t, 5*45, stats.TotalDurationMinutes)
	assert.Equal(t, float64(45), stats.AvgWorkoutDuration)
	assert.Equal(t, float64(0), stats.CompletionPercentage)

	var historyList []progress.WorkoutHistory
	s.do(ctx, http.MethodGet, "/progress/history?limit=3", token, nil, http.StatusOK, &historyList)
	require.Len(t, historyList, 3)
	assert.False(t, historyList[0].CompletedAt.Before(historyList[1].CompletedAt))

	var weekly []progress.DailyBucket
	s.do(ctx, http.MethodGet, "/progress/weekly", token, nil, http.StatusOK, &weekly)
	require.Len(t, weekly, 7)
	today := weekly[6]
	assert.Equal(t, time.Now().UTC().Format(time.DateOnly), today.Date)
	assert.Equal(t, 5, today.WorkoutsCompleted)

	var chart []progress.ChartPoint
	s.do(ctx, http.MethodGet, "/progress/chart?period=week", token, nil, http.StatusOK, &chart)
	require.Len(t, chart, 1)
	assert.Equal(t, 5, chart[0].Workouts)

	s.do(ctx, http.MethodGet, "/progress/chart?period=year", token, nil, http.StatusBadRequest, nil)
	s.do(ctx, http.MethodGet, "/progress/admin-stats", token, nil, http.StatusForbidden, nil)

	var adminStats progress.AdminStats
	s.do(ctx, http.MethodGet, "/progress/admin-stats", adminToken, nil, http.StatusOK, &adminStats)
	assert.GreaterOrEqual(t, adminStats.TotalWorkouts, 5)
}

func (s *IntegrationTestSuite) TestProgress_ConcurrentCompletionsOfOneDay() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	_, adminToken := s.registerUser(ctx, "admin")
	_, token := s.registerUser(ctx)

	bench := s.addExercise(ctx, adminToken, catalog.MuscleGroupChest)
	program := s.createProgram(ctx, adminToken, 2, 2, bench)
	s.do(ctx, http.MethodPost, fmt.Sprintf("/programs/%s/enroll", program.ID), token, nil, http.StatusCreated, nil)

	const parallel = 5
	body, err := json.Marshal(completionBody(program.ID, program.Days[0]))
	require.NoError(t, err)

	var wg sync.WaitGroup
	statuses := make([]int, parallel)
	errs := make([]error, parallel)
	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverEndpoint+"/progress/complete-workout", bytes.NewReader(body))
			if err != nil {
				errs[i] = err
				return
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := s.httpClient.Do(req)
			if err != nil {
				errs[i] = err
				return
			}
			defer resp.Body.Close()
			_, _ = io.Copy(io.Discard, resp.Body)
			statuses[i] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	for i := 0; i < parallel; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, http.StatusCreated, statuses[i])
	}

	// the pointer moved past (1,1) exactly once
	current := s.currentEnrollment(ctx, token)
	assert.Equal(t, 1, current.CurrentWeek)
	assert.Equal(t, 2, current.CurrentDay)
	assert.Equal(t, enrollment.StatusActive, current.Status)

	var streak progress.Streak
	s.do(ctx, http.MethodGet, "/progress/streak", token, nil, http.StatusOK, &streak)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 1, streak.LongestStreak)

	var historyList []progress.WorkoutHistory
	s.do(ctx, http.MethodGet, "/progress/history", token, nil, http.StatusOK, &historyList)
	assert.Len(t, historyList, parallel)

	var stats progress.Stats
	s.do(ctx, http.MethodGet, "/progress/stats", token, nil, http.StatusOK, &stats)
	assert.Equal(t, parallel, stats.TotalWorkouts)
	// one distinct day of the 4 scheduled
	assert.Equal(t, 25.0, stats.CompletionPercentage)
}

func (s *IntegrationTestSuite) TestEnrollment_StatusChangeAfterCompletion() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	_, adminToken := s.registerUser(ctx, "admin")
	_, token := s.registerUser(ctx)

	squat := s.addExercise(ctx, adminToken, catalog.MuscleGroupLegs)
	program := s.createProgram(ctx, adminToken, 1, 1, squat)

	var enrolled enrollment.Enrollment
	s.do(ctx, http.MethodPost, fmt.Sprintf("/programs/%s/enroll", program.ID), token, nil, http.StatusCreated, &enrolled)
	require.Equal(t, enrollment.StatusActive, enrolled.Status)

	// the single day finishes the program
	s.completeDay(ctx, token, program.ID, program.Days[0])

	// a pause that still believes the enrollment is active must not land
	repo := enrollment.NewRepo(s.db)
	err := repo.UpdateStatus(ctx, enrolled.ID, enrollment.StatusActive, enrollment.StatusPaused)
	assert.Equal(t, enrollment.ErrStatusChanged, err)

	err = repo.UpdateStatus(ctx, uuid.New(), enrollment.StatusActive, enrollment.StatusPaused)
	assert.Equal(t, enrollment.ErrEnrollmentNotFound, err)

	var fetched enrollment.Enrollment
	s.do(ctx, http.MethodGet, "/programs/enrollments/"+enrolled.ID.String(), token, nil, http.StatusOK, &fetched)
	assert.Equal(t, enrollment.StatusCompleted, fetched.Status)
}

func (s *IntegrationTestSuite) TestProgress_FreeWorkout() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	_, token := s.registerUser(ctx)

	var history progress.WorkoutHistory
	s.do(ctx, http.MethodPost, "/progress/complete-workout", token, map[string]any{
		"notes": "easy run",
	}, http.StatusCreated, &history)
	assert.Nil(t, history.ProgramID)
	assert.Empty(t, history.Completions)

	var errResp errorResponse
	s.do(ctx, http.MethodPost, "/progress/complete-workout", token, map[string]any{
		"day_id": uuid.New(),
	}, http.StatusBadRequest, &errResp)
	assert.NotEmpty(t, errResp.Fields)

	var stats progress.Stats
	s.do(ctx, http.MethodGet, "/progress/stats", token, nil, http.StatusOK, &stats)
	assert.Equal(t, 1, stats.TotalWorkouts)
	assert.Equal(t, float64(0), stats.CompletionPercentage)

	s.do(ctx, http.MethodGet, "/progress/stats", "", nil, http.StatusUnauthorized, nil)
}
