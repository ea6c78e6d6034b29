package enrollment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymtracker/internal/apperr"
	"github.com/2beens/gymtracker/internal/catalog"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"
	"github.com/2beens/gymtracker/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrEnrollmentNotFound = apperr.NotFound("Enrollment not found")
	ErrNoActiveEnrollment = apperr.NotFound("No active enrollment")
	ErrAlreadyEnrolled    = apperr.Conflict("Already enrolled in this program")
	ErrStatusChanged      = apperr.Conflict("Enrollment status changed meanwhile, reload and retry")
)

const enrollmentColumns = `
	ue.id, ue.user_id, ue.program_id, ue.start_date, ue.status, ue.current_week, ue.current_day,
	ue.created_at, ue.updated_at,
	p.id, p.name, p.description, p.goal, p.gender_focus, p.difficulty, p.duration_weeks,
	p.days_per_week, p.is_active, p.created_at, p.updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func scanEnrollment(row pgx.Row) (*Enrollment, error) {
	e := &Enrollment{Program: &catalog.Program{}}
	p := e.Program
	if err := row.Scan(
		&e.ID, &e.UserID, &e.ProgramID, &e.StartDate, &e.Status, &e.CurrentWeek, &e.CurrentDay,
		&e.CreatedAt, &e.UpdatedAt,
		&p.ID, &p.Name, &p.Description, &p.Goal, &p.GenderFocus, &p.Difficulty, &p.DurationWeeks,
		&p.DaysPerWeek, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return e, nil
}

// Create enrolls the user at week 1, day 1.
func (r *Repo) Create(ctx context.Context, userID, programID uuid.UUID, startDate time.Time) (_ *Enrollment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.enrollment.create")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	id := uuid.New()
	if _, err := r.db.Exec(ctx, `
		INSERT INTO user_enrollments (id, user_id, program_id, start_date, status, current_week, current_day)
		VALUES ($1, $2, $3, $4, $5, 1, 1)
	`, id, userID, programID, startDate, StatusActive); err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrAlreadyEnrolled
		}
		if pkg.IsForeignKeyViolationError(err) {
			return nil, catalog.ErrProgramNotFound
		}
		return nil, err
	}

	return r.Get(ctx, id)
}

func (r *Repo) Get(ctx context.Context, id uuid.UUID) (_ *Enrollment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.enrollment.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	e, err := scanEnrollment(r.db.QueryRow(ctx, `
		SELECT `+enrollmentColumns+`
		FROM user_enrollments ue
		JOIN workout_programs p ON p.id = ue.program_id
		WHERE ue.id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEnrollmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List returns the user's enrollments, newest first.
func (r *Repo) List(ctx context.Context, userID uuid.UUID) (_ []Enrollment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.enrollment.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(ctx, `
		SELECT `+enrollmentColumns+`
		FROM user_enrollments ue
		JOIN workout_programs p ON p.id = ue.program_id
		WHERE ue.user_id = $1
		ORDER BY ue.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	enrollments := make([]Enrollment, 0)
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, *e)
	}
	return enrollments, rows.Err()
}

// Current returns the user's most recently created active enrollment.
func (r *Repo) Current(ctx context.Context, userID uuid.UUID) (_ *Enrollment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.enrollment.current")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	e, err := scanEnrollment(r.db.QueryRow(ctx, `
		SELECT `+enrollmentColumns+`
		FROM user_enrollments ue
		JOIN workout_programs p ON p.id = ue.program_id
		WHERE ue.user_id = $1 AND ue.status = $2
		ORDER BY ue.created_at DESC
		LIMIT 1
	`, userID, StatusActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoActiveEnrollment
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.enrollment.update_status")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(
		attribute.String("from", string(from)),
		attribute.String("to", string(to)),
	)

	tag, err := r.db.Exec(ctx, `
		UPDATE user_enrollments SET status = $2, updated_at = now() WHERE id = $1 AND status = $3
	`, id, to, from)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrAlreadyEnrolled
		}
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var current Status
	err = r.db.QueryRow(ctx, `SELECT status FROM user_enrollments WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrEnrollmentNotFound
	}
	if err != nil {
		return err
	}
	return ErrStatusChanged
}

// AdvanceTx advances the user's active enrollment in programID when dayID is the
// day its pointer is on. It runs inside the caller's transaction and locks the
// enrollment row, so concurrent completions of the same day advance once.
// A missing enrollment or a day outside the pointer is a no-op.
func AdvanceTx(ctx context.Context, tx pgx.Tx, userID, programID, dayID uuid.UUID) (_ *Enrollment, _ Advancement, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.enrollment.advance")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var week, day int
	err = tx.QueryRow(ctx, `
		SELECT week_number, day_number FROM program_days WHERE id = $1 AND program_id = $2
	`, dayID, programID).Scan(&week, &day)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, NotAdvanced, nil
	}
	if err != nil {
		return nil, NotAdvanced, fmt.Errorf("resolve completed day: %w", err)
	}

	e := &Enrollment{}
	var daysPerWeek, durationWeeks int
	err = tx.QueryRow(ctx, `
		SELECT ue.id, ue.user_id, ue.program_id, ue.start_date, ue.status, ue.current_week, ue.current_day,
			ue.created_at, ue.updated_at, p.days_per_week, p.duration_weeks
		FROM user_enrollments ue
		JOIN workout_programs p ON p.id = ue.program_id
		WHERE ue.user_id = $1 AND ue.program_id = $2 AND ue.status = $3
		FOR UPDATE OF ue
	`, userID, programID, StatusActive).Scan(
		&e.ID, &e.UserID, &e.ProgramID, &e.StartDate, &e.Status, &e.CurrentWeek, &e.CurrentDay,
		&e.CreatedAt, &e.UpdatedAt, &daysPerWeek, &durationWeeks,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, NotAdvanced, nil
	}
	if err != nil {
		return nil, NotAdvanced, fmt.Errorf("lock active enrollment: %w", err)
	}

	if !e.At(week, day) {
		span.SetAttributes(attribute.Bool("off_pointer", true))
		return e, NotAdvanced, nil
	}

	result := Advance(e, daysPerWeek, durationWeeks)
	span.SetAttributes(attribute.String("advancement", result.String()))
	if result == NotAdvanced {
		return e, result, nil
	}

	err = tx.QueryRow(ctx, `
		UPDATE user_enrollments
		SET status = $2, current_week = $3, current_day = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, e.ID, e.Status, e.CurrentWeek, e.CurrentDay).Scan(&e.UpdatedAt)
	if err != nil {
		return nil, NotAdvanced, fmt.Errorf("update enrollment pointer: %w", err)
	}
	return e, result, nil
}
