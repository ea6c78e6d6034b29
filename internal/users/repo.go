package users

import (
	"context"
	"errors"
	"time"

	"github.com/2beens/gymtracker/internal/apperr"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"
	"github.com/2beens/gymtracker/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound = apperr.NotFound("User not found")
	ErrEmailTaken   = apperr.Conflict("A user with this email already exists")
)

const userColumns = `
	u.id, u.email, u.name, u.age, u.gender, u.fitness_goal, u.experience_level,
	u.role, u.is_active, u.created_at, u.updated_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func userScanDest(u *User) []any {
	return []any{
		&u.ID, &u.Email, &u.Name, &u.Age, &u.Gender, &u.FitnessGoal, &u.ExperienceLevel,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	}
}

// Create stores a new customer. The email is expected to be normalized already.
func (r *Repo) Create(ctx context.Context, req RegisterRequest, passwordHash string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.create")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	id := uuid.New()
	if _, err := r.db.Exec(ctx, `
		INSERT INTO users (id, email, name, age, gender, fitness_goal, experience_level, role, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		id, req.Email, req.Name, req.Age, req.Gender, req.FitnessGoal, req.ExperienceLevel,
		RoleCustomer, passwordHash,
	); err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return r.Get(ctx, id)
}

func (r *Repo) Get(ctx context.Context, id uuid.UUID) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	u := &User{}
	err = r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users u
		WHERE u.id = $1
	`, id).Scan(userScanDest(u)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *Repo) PasswordHash(ctx context.Context, id uuid.UUID) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.password_hash")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var hash string
	err = r.db.QueryRow(ctx, `SELECT password_hash FROM users WHERE id = $1`, id).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrUserNotFound
	}
	return hash, err
}

func (r *Repo) SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.set_password_hash")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	tag, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = now()
		WHERE id = $1
	`, id, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *Repo) UpdateProfile(ctx context.Context, user User) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.update_profile")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET name = $2, age = $3, gender = $4, fitness_goal = $5, experience_level = $6, updated_at = now()
		WHERE id = $1
	`, user.ID, user.Name, user.Age, user.Gender, user.FitnessGoal, user.ExperienceLevel)
	if err != nil {
		if pkg.IsCheckViolationError(err) {
			return nil, apperr.Validation("invalid profile", map[string]string{"age": "must be between 1 and 149"})
		}
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrUserNotFound
	}

	return r.Get(ctx, user.ID)
}

// ListCustomers returns the customers matching filter, newest first.
func (r *Repo) ListCustomers(ctx context.Context, filter ListFilter) (_ []User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.list_customers")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := r.db.Query(ctx, `
		SELECT `+userColumns+`
		FROM users u
		WHERE u.role = $1
		  AND ($2::boolean IS NULL OR u.is_active = $2)
		  AND ($3::text = '' OR u.gender = $3)
		  AND ($4::text = '' OR u.fitness_goal = $4)
		  AND ($5::text = '' OR u.experience_level = $5)
		  AND ($6::text = '' OR u.name ILIKE '%' || $6 || '%' OR u.email ILIKE '%' || $6 || '%')
		ORDER BY u.created_at DESC
	`,
		RoleCustomer, filter.IsActive, filter.Gender, filter.FitnessGoal, filter.ExperienceLevel, filter.Search,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(userScanDest(&u)...); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ToggleActive flips is_active and returns the updated user.
func (r *Repo) ToggleActive(ctx context.Context, id uuid.UUID) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.toggle_active")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	tag, err := r.db.Exec(ctx, `
		UPDATE users SET is_active = NOT is_active, updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrUserNotFound
	}

	return r.Get(ctx, id)
}

// Stats counts customers. today and weekAgo are instants in the configured time zone.
func (r *Repo) Stats(ctx context.Context, today, weekAgo time.Time) (_ *Stats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.stats")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	s := &Stats{}
	err = r.db.QueryRow(ctx, `
		SELECT
			count(*),
			count(*) FILTER (WHERE is_active),
			count(*) FILTER (WHERE created_at >= $2),
			count(*) FILTER (WHERE created_at >= $3)
		FROM users
		WHERE role = $1
	`, RoleCustomer, today, weekAgo).Scan(&s.TotalUsers, &s.ActiveUsers, &s.NewUsersToday, &s.NewUsersThisWeek)
	if err != nil {
		return nil, err
	}
	return s, nil
}
