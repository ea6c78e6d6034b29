package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymtracker/internal/apperr"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"
	"github.com/2beens/gymtracker/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrExerciseNotFound   = apperr.NotFound("Exercise not found")
	ErrProgramNotFound    = apperr.NotFound("Program not found")
	ErrProgramDayNotFound = apperr.NotFound("Program day not found")
	ErrProgramDayExists   = apperr.Conflict("Program day already exists for this week and day")
	ErrUnknownExerciseRef = apperr.Validation("unknown exercise", map[string]string{"exercise_id": "exercise does not exist"})
)

const exerciseColumns = `
	e.id, e.name, e.description, e.muscle_group, e.category, e.gender_focus, e.equipment,
	e.difficulty, e.instructions, e.media_url, e.sets, e.reps, e.rest_time, e.safety_tips,
	e.is_active, e.created_at, e.updated_at`

const programColumns = `
	p.id, p.name, p.description, p.goal, p.gender_focus, p.difficulty, p.duration_weeks,
	p.days_per_week, p.created_by, p.is_active, p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM user_enrollments ue WHERE ue.program_id = p.id AND ue.status = 'active')`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func exerciseScanDest(e *Exercise) []any {
	return []any{
		&e.ID, &e.Name, &e.Description, &e.MuscleGroup, &e.Category, &e.GenderFocus, &e.Equipment,
		&e.Difficulty, &e.Instructions, &e.MediaURL, &e.Sets, &e.Reps, &e.RestTime, &e.SafetyTips,
		&e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	}
}

func programScanDest(p *Program) []any {
	return []any{
		&p.ID, &p.Name, &p.Description, &p.Goal, &p.GenderFocus, &p.Difficulty, &p.DurationWeeks,
		&p.DaysPerWeek, &p.CreatedBy, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		&p.EnrollmentCount,
	}
}

func (r *Repo) ListExercises(ctx context.Context, filter ExerciseFilter) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.exercises.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("muscle_group", string(filter.MuscleGroup)))

	rows, err := r.db.Query(ctx, `
		SELECT `+exerciseColumns+`
		FROM exercises e
		WHERE e.is_active
		  AND ($1::text = '' OR e.muscle_group = $1)
		  AND ($2::text = '' OR e.category = $2)
		  AND ($3::text = '' OR e.gender_focus = $3)
		  AND ($4::text = '' OR e.equipment = $4)
		  AND ($5::text = '' OR e.difficulty = $5)
		  AND ($6::text = '' OR e.name ILIKE '%' || $6 || '%' OR e.description ILIKE '%' || $6 || '%')
		ORDER BY e.name
	`,
		filter.MuscleGroup, filter.Category, filter.GenderFocus,
		filter.Equipment, filter.Difficulty, filter.Search,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]Exercise, 0)
	for rows.Next() {
		var e Exercise
		if err := rows.Scan(exerciseScanDest(&e)...); err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

func (r *Repo) GetExercise(ctx context.Context, id uuid.UUID) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.exercises.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	e := &Exercise{}
	err = r.db.QueryRow(ctx, `
		SELECT `+exerciseColumns+`
		FROM exercises e
		WHERE e.id = $1
	`, id).Scan(exerciseScanDest(e)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *Repo) AddExercise(ctx context.Context, e Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.exercises.add")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	e.ID = uuid.New()
	e.IsActive = true
	err = r.db.QueryRow(ctx, `
		INSERT INTO exercises (
			id, name, description, muscle_group, category, gender_focus, equipment, difficulty,
			instructions, media_url, sets, reps, rest_time, safety_tips, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`,
		e.ID, e.Name, e.Description, e.MuscleGroup, e.Category, e.GenderFocus, e.Equipment, e.Difficulty,
		e.Instructions, e.MediaURL, e.Sets, e.Reps, e.RestTime, e.SafetyTips, e.IsActive,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repo) UpdateExercise(ctx context.Context, e Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.exercises.update")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	err = r.db.QueryRow(ctx, `
		UPDATE exercises
		SET name = $2, description = $3, muscle_group = $4, category = $5, gender_focus = $6,
			equipment = $7, difficulty = $8, instructions = $9, media_url = $10, sets = $11,
			reps = $12, rest_time = $13, safety_tips = $14, is_active = $15, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`,
		e.ID, e.Name, e.Description, e.MuscleGroup, e.Category, e.GenderFocus,
		e.Equipment, e.Difficulty, e.Instructions, e.MediaURL, e.Sets,
		e.Reps, e.RestTime, e.SafetyTips, e.IsActive,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// DeleteExercise deactivates the exercise; logged completions keep referencing it.
func (r *Repo) DeleteExercise(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.exercises.delete")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	tag, err := r.db.Exec(ctx, `
		UPDATE exercises SET is_active = FALSE, updated_at = now() WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

func (r *Repo) ListPrograms(ctx context.Context, filter ProgramFilter) (_ []Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.programs.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("goal", string(filter.Goal)))

	rows, err := r.db.Query(ctx, `
		SELECT `+programColumns+`
		FROM workout_programs p
		WHERE p.is_active
		  AND ($1::text = '' OR p.goal = $1)
		  AND ($2::text = '' OR p.difficulty = $2)
		  AND ($3::text = '' OR p.gender_focus = $3)
		  AND ($4::int = 0 OR p.duration_weeks = $4)
		  AND ($5::text = '' OR p.name ILIKE '%' || $5 || '%' OR p.description ILIKE '%' || $5 || '%')
		ORDER BY p.created_at DESC
	`,
		filter.Goal, filter.Difficulty, filter.GenderFocus, filter.DurationWeeks, filter.Search,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	programs := make([]Program, 0)
	for rows.Next() {
		var p Program
		if err := rows.Scan(programScanDest(&p)...); err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

func (r *Repo) GetProgram(ctx context.Context, id uuid.UUID) (_ *ProgramDetail, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.programs.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	detail := &ProgramDetail{}
	var createdByName *string
	dest := append(programScanDest(&detail.Program), &createdByName)
	err = r.db.QueryRow(ctx, `
		SELECT `+programColumns+`, u.name
		FROM workout_programs p
		LEFT JOIN users u ON u.id = p.created_by
		WHERE p.id = $1
	`, id).Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProgramNotFound
	}
	if err != nil {
		return nil, err
	}
	if createdByName != nil {
		detail.CreatedByName = *createdByName
	}

	detail.Days, err = r.ListDays(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list program days: %w", err)
	}
	for _, d := range detail.Days {
		detail.TotalExercises += len(d.Exercises)
	}

	return detail, nil
}

// CreateProgram stores the program with its nested days and day exercises in one transaction.
func (r *Repo) CreateProgram(ctx context.Context, np NewProgram, createdBy uuid.UUID) (_ uuid.UUID, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.programs.create")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, err
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

	programID := uuid.New()
	var createdByRef *uuid.UUID
	if createdBy != uuid.Nil {
		createdByRef = &createdBy
	}
	if _, err = tx.Exec(ctx, `
		INSERT INTO workout_programs (
			id, name, description, goal, gender_focus, difficulty, duration_weeks, days_per_week,
			created_by, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
	`,
		programID, np.Name, np.Description, np.Goal, np.GenderFocus, np.Difficulty,
		np.DurationWeeks, np.DaysPerWeek, createdByRef,
	); err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return uuid.Nil, apperr.Wrap(apperr.CodeValidation, "unknown program author", err)
		}
		return uuid.Nil, err
	}

	for _, day := range np.Days {
		day.ProgramID = programID
		if _, err = insertDay(ctx, tx, day); err != nil {
			return uuid.Nil, err
		}
	}

	return programID, nil
}

func (r *Repo) UpdateProgram(ctx context.Context, p Program) (_ *Program, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.programs.update")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	err = r.db.QueryRow(ctx, `
		UPDATE workout_programs
		SET name = $2, description = $3, goal = $4, gender_focus = $5, difficulty = $6,
			duration_weeks = $7, days_per_week = $8, is_active = $9, updated_at = now()
		WHERE id = $1
		RETURNING created_by, created_at, updated_at
	`,
		p.ID, p.Name, p.Description, p.Goal, p.GenderFocus, p.Difficulty,
		p.DurationWeeks, p.DaysPerWeek, p.IsActive,
	).Scan(&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProgramNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProgram deactivates the program; existing enrollments and history stay intact.
func (r *Repo) DeleteProgram(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.programs.delete")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	tag, err := r.db.Exec(ctx, `
		UPDATE workout_programs SET is_active = FALSE, updated_at = now() WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProgramNotFound
	}
	return nil
}

// ListDays returns the program days ordered by (week, day), each with its ordered exercises.
func (r *Repo) ListDays(ctx context.Context, programID uuid.UUID) (_ []ProgramDay, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.days.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(ctx, `
		SELECT id, program_id, week_number, day_number, day_name, description, is_rest_day
		FROM program_days
		WHERE program_id = $1
		ORDER BY week_number, day_number
	`, programID)
	if err != nil {
		return nil, err
	}
	days, err := collectDays(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachDayExercises(ctx, days); err != nil {
		return nil, err
	}
	return days, nil
}

// GetDay resolves the scheduled day at (week, day) of the program.
func (r *Repo) GetDay(ctx context.Context, programID uuid.UUID, week, day int) (_ *ProgramDay, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.days.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.Int("week", week), attribute.Int("day", day))

	rows, err := r.db.Query(ctx, `
		SELECT id, program_id, week_number, day_number, day_name, description, is_rest_day
		FROM program_days
		WHERE program_id = $1 AND week_number = $2 AND day_number = $3
	`, programID, week, day)
	if err != nil {
		return nil, err
	}
	days, err := collectDays(rows)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, ErrProgramDayNotFound
	}

	if err := r.attachDayExercises(ctx, days); err != nil {
		return nil, err
	}
	return &days[0], nil
}

func (r *Repo) AddDay(ctx context.Context, day ProgramDay) (_ *ProgramDay, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.days.add")
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

	added, err := insertDay(ctx, tx, day)
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (r *Repo) ListDayExercises(ctx context.Context, dayID uuid.UUID) (_ []DayExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.dayexercises.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	byDay, err := r.dayExercises(ctx, []uuid.UUID{dayID})
	if err != nil {
		return nil, err
	}
	if exercises, ok := byDay[dayID]; ok {
		return exercises, nil
	}
	return []DayExercise{}, nil
}

func (r *Repo) AddDayExercise(ctx context.Context, de DayExercise) (_ *DayExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.dayexercises.add")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	de.ID = uuid.New()
	if _, err = r.db.Exec(ctx, `
		INSERT INTO day_exercises (id, day_id, exercise_id, order_index, custom_sets, custom_reps, custom_rest_time, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		de.ID, de.DayID, de.ExerciseID, de.OrderIndex,
		de.CustomSets, de.CustomReps, de.CustomRestTime, de.Notes,
	); err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, apperr.Wrap(apperr.CodeValidation, "unknown day or exercise", err)
		}
		return nil, err
	}

	exercise, err := r.GetExercise(ctx, de.ExerciseID)
	if err != nil {
		return nil, err
	}
	de.Exercise = exercise
	de.ResolveEffective()
	return &de, nil
}

func (r *Repo) Stats(ctx context.Context) (_ *ProgramStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.programs.stats")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	stats := &ProgramStats{}
	err = r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM workout_programs),
			(SELECT COUNT(*) FROM workout_programs WHERE is_active),
			(SELECT COUNT(*) FROM exercises),
			(SELECT COUNT(*) FROM user_enrollments WHERE status = 'active')
	`).Scan(&stats.TotalPrograms, &stats.ActivePrograms, &stats.TotalExercises, &stats.ActiveEnrollments)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+programColumns+`
		FROM workout_programs p
		ORDER BY (SELECT COUNT(*) FROM user_enrollments ue WHERE ue.program_id = p.id) DESC, p.name
		LIMIT 5
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats.PopularPrograms = make([]Program, 0, 5)
	for rows.Next() {
		var p Program
		if err := rows.Scan(programScanDest(&p)...); err != nil {
			return nil, err
		}
		stats.PopularPrograms = append(stats.PopularPrograms, p)
	}
	return stats, rows.Err()
}

func insertDay(ctx context.Context, tx pgx.Tx, day ProgramDay) (*ProgramDay, error) {
	day.ID = uuid.New()
	if _, err := tx.Exec(ctx, `
		INSERT INTO program_days (id, program_id, week_number, day_number, day_name, description, is_rest_day)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		day.ID, day.ProgramID, day.WeekNumber, day.DayNumber, day.DayName, day.Description, day.IsRestDay,
	); err != nil {
		switch {
		case pkg.IsUniqueViolationError(err):
			return nil, ErrProgramDayExists
		case pkg.IsForeignKeyViolationError(err):
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	for i := range day.Exercises {
		de := &day.Exercises[i]
		de.ID = uuid.New()
		de.DayID = day.ID
		if _, err := tx.Exec(ctx, `
			INSERT INTO day_exercises (id, day_id, exercise_id, order_index, custom_sets, custom_reps, custom_rest_time, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`,
			de.ID, de.DayID, de.ExerciseID, de.OrderIndex,
			de.CustomSets, de.CustomReps, de.CustomRestTime, de.Notes,
		); err != nil {
			if pkg.IsForeignKeyViolationError(err) {
				return nil, ErrUnknownExerciseRef
			}
			return nil, err
		}
	}
	return &day, nil
}

func collectDays(rows pgx.Rows) ([]ProgramDay, error) {
	defer rows.Close()

	days := make([]ProgramDay, 0)
	for rows.Next() {
		var d ProgramDay
		if err := rows.Scan(
			&d.ID, &d.ProgramID, &d.WeekNumber, &d.DayNumber, &d.DayName, &d.Description, &d.IsRestDay,
		); err != nil {
			return nil, err
		}
		d.Exercises = []DayExercise{}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (r *Repo) attachDayExercises(ctx context.Context, days []ProgramDay) error {
	if len(days) == 0 {
		return nil
	}
	dayIDs := make([]uuid.UUID, 0, len(days))
	for _, d := range days {
		dayIDs = append(dayIDs, d.ID)
	}

	byDay, err := r.dayExercises(ctx, dayIDs)
	if err != nil {
		return fmt.Errorf("day exercises: %w", err)
	}
	for i := range days {
		if exercises, ok := byDay[days[i].ID]; ok {
			days[i].Exercises = exercises
		}
	}
	return nil
}

func (r *Repo) dayExercises(ctx context.Context, dayIDs []uuid.UUID) (map[uuid.UUID][]DayExercise, error) {
	rows, err := r.db.Query(ctx, `
		SELECT de.id, de.day_id, de.exercise_id, de.order_index, de.custom_sets, de.custom_reps,
			de.custom_rest_time, de.notes, `+exerciseColumns+`
		FROM day_exercises de
		JOIN exercises e ON e.id = de.exercise_id
		WHERE de.day_id = ANY($1)
		ORDER BY de.day_id, de.order_index
	`, dayIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDay := make(map[uuid.UUID][]DayExercise)
	for rows.Next() {
		de := DayExercise{Exercise: &Exercise{}}
		dest := append([]any{
			&de.ID, &de.DayID, &de.ExerciseID, &de.OrderIndex, &de.CustomSets, &de.CustomReps,
			&de.CustomRestTime, &de.Notes,
		}, exerciseScanDest(de.Exercise)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		de.ResolveEffective()
		byDay[de.DayID] = append(byDay[de.DayID], de)
	}
	return byDay, rows.Err()
}
