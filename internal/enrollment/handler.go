package enrollment

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/gymtracker/internal/apperr"
	"github.com/2beens/gymtracker/internal/auth"
	"github.com/2beens/gymtracker/internal/catalog"
	"github.com/2beens/gymtracker/internal/telemetry/metrics"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"
	"github.com/2beens/gymtracker/pkg"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrNoWorkoutToday = apperr.NotFound("No workout scheduled for today")

//go:generate mockgen -source=$GOFILE -destination=enrollment_mocks_test.go -package=enrollment_test

type enrollmentRepo interface {
	Create(ctx context.Context, userID, programID uuid.UUID, startDate time.Time) (*Enrollment, error)
	Get(ctx context.Context, id uuid.UUID) (*Enrollment, error)
	List(ctx context.Context, userID uuid.UUID) ([]Enrollment, error)
	Current(ctx context.Context, userID uuid.UUID) (*Enrollment, error)
	// UpdateStatus only applies when the enrollment is still in status from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) error
}

type programReader interface {
	GetProgram(ctx context.Context, id uuid.UUID) (*catalog.ProgramDetail, error)
	GetDay(ctx context.Context, programID uuid.UUID, week, day int) (*catalog.ProgramDay, error)
}

type StatusChangeRequest struct {
	Status Status `json:"status"`
}

type Handler struct {
	repo           enrollmentRepo
	programs       programReader
	metricsManager *metrics.Manager
	loc            *time.Location
	now            func() time.Time
}

func NewHandler(
	repo enrollmentRepo,
	programs programReader,
	metricsManager *metrics.Manager,
	loc *time.Location,
) *Handler {
	return &Handler{
		repo:           repo,
		programs:       programs,
		metricsManager: metricsManager,
		loc:            loc,
		now:            time.Now,
	}
}

// WithClock replaces the wall clock, used to pin the enrollment start date.
func (handler *Handler) WithClock(now func() time.Time) *Handler {
	handler.now = now
	return handler
}

func (handler *Handler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.enrollment.enroll")
	defer span.End()

	principal, err := auth.Authenticated(ctx)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	programID, err := pkg.UUIDVar(r, "id")
	if err != nil {
		apperr.WriteHTTP(w, r, apperr.BadRequest(err))
		return
	}

	program, err := handler.programs.GetProgram(ctx, programID)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	if !program.IsActive {
		apperr.WriteHTTP(w, r, catalog.ErrProgramNotFound)
		return
	}

	startDate := pkg.CalendarDate(handler.now(), handler.loc)
	enrollment, err := handler.repo.Create(ctx, principal.UserID, programID, startDate)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	handler.metricsManager.CounterEnrollmentsCreated.Inc()

	log.Debugf("user %s enrolled in program %s", principal.UserID, programID)
	pkg.WriteJSON(w, enrollment, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.enrollment.list")
	defer span.End()

	principal, err := auth.Authenticated(ctx)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	enrollments, err := handler.repo.List(ctx, principal.UserID)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	pkg.WriteJSON(w, enrollments, http.StatusOK)
}

// ownEnrollment loads the enrollment from the path, hiding other users' enrollments.
func (handler *Handler) ownEnrollment(ctx context.Context, r *http.Request, principal *auth.Principal) (*Enrollment, error) {
	id, err := pkg.UUIDVar(r, "id")
	if err != nil {
		return nil, apperr.BadRequest(err)
	}

	enrollment, err := handler.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if enrollment.UserID != principal.UserID && !principal.Can(auth.CapAdmin) {
		return nil, ErrEnrollmentNotFound
	}
	return enrollment, nil
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.enrollment.get")
	defer span.End()

	principal, err := auth.Authenticated(ctx)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	enrollment, err := handler.ownEnrollment(ctx, r, principal)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	pkg.WriteJSON(w, enrollment, http.StatusOK)
}

func (handler *Handler) HandleChangeStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.enrollment.change_status")
	defer span.End()

	principal, err := auth.Authenticated(ctx)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	var req StatusChangeRequest
	if err := pkg.DecodeJSONBody(r, &req); err != nil {
		apperr.WriteHTTP(w, r, apperr.BadRequest(err))
		return
	}
	if !req.Status.IsValid() {
		apperr.WriteHTTP(w, r, apperr.Validation("invalid status", map[string]string{"status": "unknown status"}))
		return
	}

	enrollment, err := handler.ownEnrollment(ctx, r, principal)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	if enrollment.Status != req.Status {
		if !enrollment.Status.CanTransitionTo(req.Status) {
			apperr.WriteHTTP(w, r, apperr.Validation("invalid status transition", map[string]string{
				"status": "cannot change from " + string(enrollment.Status) + " to " + string(req.Status),
			}))
			return
		}
		if err := handler.repo.UpdateStatus(ctx, enrollment.ID, enrollment.Status, req.Status); err != nil {
			apperr.WriteHTTP(w, r, err)
			return
		}
	}

	updated, err := handler.repo.Get(ctx, enrollment.ID)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	log.Debugf("enrollment %s status: %s -> %s", enrollment.ID, enrollment.Status, updated.Status)
	pkg.WriteJSON(w, updated, http.StatusOK)
}

func (handler *Handler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.enrollment.current")
	defer span.End()

	principal, err := auth.Authenticated(ctx)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	enrollment, err := handler.repo.Current(ctx, principal.UserID)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	program, err := handler.programs.GetProgram(ctx, enrollment.ProgramID)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	pkg.WriteJSON(w, CurrentProgram{
		Enrollment: enrollment,
		Program:    program,
	}, http.StatusOK)
}

func (handler *Handler) HandleToday(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.enrollment.today")
	defer span.End()

	principal, err := auth.Authenticated(ctx)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	enrollment, err := handler.repo.Current(ctx, principal.UserID)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	day, err := handler.programs.GetDay(ctx, enrollment.ProgramID, enrollment.CurrentWeek, enrollment.CurrentDay)
	if errors.Is(err, catalog.ErrProgramDayNotFound) {
		apperr.WriteHTTP(w, r, ErrNoWorkoutToday)
		return
	}
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	day.DayName = day.ShortName()

	pkg.WriteJSON(w, TodayWorkout{
		Enrollment: enrollment,
		Day:        day,
	}, http.StatusOK)
}
