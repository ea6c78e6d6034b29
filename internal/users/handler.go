package users

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/2beens/gymtracker/internal/apperr"
	"github.com/2beens/gymtracker/internal/auth"
	"github.com/2beens/gymtracker/internal/telemetry/metrics"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"
	"github.com/2beens/gymtracker/pkg"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrWrongPassword = apperr.Validation("invalid password change", map[string]string{
	"old_password": "Current password is incorrect",
})

//go:generate mockgen -source=$GOFILE -destination=users_mocks_test.go -package=users_test

type userRepo interface {
	Create(ctx context.Context, req RegisterRequest, passwordHash string) (*User, error)
	Get(ctx context.Context, id uuid.UUID) (*User, error)
	PasswordHash(ctx context.Context, id uuid.UUID) (string, error)
	SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	UpdateProfile(ctx context.Context, user User) (*User, error)
	ListCustomers(ctx context.Context, filter ListFilter) ([]User, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (*User, error)
	Stats(ctx context.Context, today, weekAgo time.Time) (*Stats, error)
}

type Handler struct {
	repo           userRepo
	metricsManager *metrics.Manager
	loc            *time.Location
	now            func() time.Time
}

func NewHandler(repo userRepo, metricsManager *metrics.Manager, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		repo:           repo,
		metricsManager: metricsManager,
		loc:            loc,
		now:            time.Now,
	}
}

// WithClock replaces the wall clock used for the "today" boundaries of the stats.
func (handler *Handler) WithClock(now func() time.Time) *Handler {
	handler.now = now
	return handler
}

type messageResponse struct {
	Message string `json:"message"`
}

func (handler *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.register")
	defer span.End()

	var req RegisterRequest
	if err := pkg.DecodeJSONBody(r, &req); err != nil {
		apperr.WriteHTTP(w, r, apperr.BadRequest(err))
		return
	}
	req.Email = pkg.NormalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	hash, err := pkg.HashPassword(req.Password)
	if err != nil {
		apperr.WriteHTTP(w, r, fmt.Errorf("hash password: %w", err))
		return
	}

	user, err := handler.repo.Create(ctx, req, hash)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	handler.metricsManager.CounterUsersRegistered.Inc()
	log.Infof("new user registered: %s", user.ID)
	pkg.WriteJSON(w, user, http.StatusCreated)
}

func (handler *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.get_profile")
	defer span.End()

	principal, err := auth.Authenticated(ctx)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	user, err := handler.repo.Get(ctx, principal.UserID)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	pkg.WriteJSON(w, user, http.StatusOK)
}

func (handler *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.update_profile")
	defer span.End()

	principal, err := auth.Authenticated(ctx)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	var update ProfileUpdate
	if err := pkg.DecodeJSONBody(r, &update); err != nil {
		apperr.WriteHTTP(w, r, apperr.BadRequest(err))
		return
	}
	if err := update.Validate(); err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	current, err := handler.repo.Get(ctx, principal.UserID)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	user, err := handler.repo.UpdateProfile(ctx, update.Apply(*current))
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	pkg.WriteJSON(w, user, http.StatusOK)
}

func (handler *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.change_password")
	defer span.End()

	principal, err := auth.Authenticated(ctx)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	var req ChangePasswordRequest
	if err := pkg.DecodeJSONBody(r, &req); err != nil {
		apperr.WriteHTTP(w, r, apperr.BadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	currentHash, err := handler.repo.PasswordHash(ctx, principal.UserID)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	if !pkg.CheckPasswordHash(req.OldPassword, currentHash) {
		apperr.WriteHTTP(w, r, ErrWrongPassword)
		return
	}

	newHash, err := pkg.HashPassword(req.NewPassword)
	if err != nil {
		apperr.WriteHTTP(w, r, fmt.Errorf("hash password: %w", err))
		return
	}
	if err := handler.repo.SetPasswordHash(ctx, principal.UserID, newHash); err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	log.Debugf("user %s changed password", principal.UserID)
	pkg.WriteJSON(w, messageResponse{Message: "Password changed successfully"}, http.StatusOK)
}

func listFilterFromQuery(q url.Values) (ListFilter, error) {
	filter := ListFilter{
		Gender:          Gender(q.Get("gender")),
		FitnessGoal:     FitnessGoal(q.Get("fitness_goal")),
		ExperienceLevel: ExperienceLevel(q.Get("experience_level")),
		Search:          q.Get("search"),
	}

	fields := map[string]string{}
	if raw := q.Get("is_active"); raw != "" {
		isActive, err := strconv.ParseBool(raw)
		if err != nil {
			fields["is_active"] = "must be true or false"
		} else {
			filter.IsActive = &isActive
		}
	}
	if filter.Gender != "" && !filter.Gender.IsValid() {
		fields["gender"] = "invalid gender"
	}
	if filter.FitnessGoal != "" && !filter.FitnessGoal.IsValid() {
		fields["fitness_goal"] = "invalid fitness goal"
	}
	if filter.ExperienceLevel != "" && !filter.ExperienceLevel.IsValid() {
		fields["experience_level"] = "invalid experience level"
	}
	if len(fields) > 0 {
		return ListFilter{}, apperr.Validation("invalid filter", fields)
	}
	return filter, nil
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.list")
	defer span.End()

	if _, err := auth.Require(ctx, auth.CapAdmin); err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	filter, err := listFilterFromQuery(r.URL.Query())
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	users, err := handler.repo.ListCustomers(ctx, filter)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	pkg.WriteJSON(w, users, http.StatusOK)
}

// HandleToggleBlock blocks an active user and unblocks a blocked one.
func (handler *Handler) HandleToggleBlock(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.toggle_block")
	defer span.End()

	principal, err := auth.Require(ctx, auth.CapAdmin)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	id, err := pkg.UUIDVar(r, "id")
	if err != nil {
		apperr.WriteHTTP(w, r, apperr.BadRequest(err))
		return
	}
	if id == principal.UserID {
		apperr.WriteHTTP(w, r, apperr.Validation("cannot block yourself", map[string]string{"id": "must not be your own account"}))
		return
	}

	user, err := handler.repo.ToggleActive(ctx, id)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	action := "blocked"
	if user.IsActive {
		action = "unblocked"
	}
	log.Infof("admin %s %s user %s", principal.UserID, action, id)
	pkg.WriteJSON(w, messageResponse{Message: fmt.Sprintf("User %s successfully", action)}, http.StatusOK)
}

func (handler *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.stats")
	defer span.End()

	if _, err := auth.Require(ctx, auth.CapAdmin); err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	today := pkg.CalendarDate(handler.now(), handler.loc)
	todayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, handler.loc)
	stats, err := handler.repo.Stats(ctx, todayStart, todayStart.AddDate(0, 0, -7))
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	pkg.WriteJSON(w, stats, http.StatusOK)
}
