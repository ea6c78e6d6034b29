package catalog

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/2beens/gymtracker/internal/apperr"
	"github.com/2beens/gymtracker/internal/auth"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"
	"github.com/2beens/gymtracker/pkg"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=catalog_mocks_test.go -package=catalog_test

type catalogRepo interface {
	ListExercises(ctx context.Context, filter ExerciseFilter) ([]Exercise, error)
	GetExercise(ctx context.Context, id uuid.UUID) (*Exercise, error)
	AddExercise(ctx context.Context, e Exercise) (*Exercise, error)
	UpdateExercise(ctx context.Context, e Exercise) (*Exercise, error)
	DeleteExercise(ctx context.Context, id uuid.UUID) error
	ListPrograms(ctx context.Context, filter ProgramFilter) ([]Program, error)
	GetProgram(ctx context.Context, id uuid.UUID) (*ProgramDetail, error)
	CreateProgram(ctx context.Context, np NewProgram, createdBy uuid.UUID) (uuid.UUID, error)
	UpdateProgram(ctx context.Context, p Program) (*Program, error)
	DeleteProgram(ctx context.Context, id uuid.UUID) error
	ListDays(ctx context.Context, programID uuid.UUID) ([]ProgramDay, error)
	GetDay(ctx context.Context, programID uuid.UUID, week, day int) (*ProgramDay, error)
	AddDay(ctx context.Context, day ProgramDay) (*ProgramDay, error)
	ListDayExercises(ctx context.Context, dayID uuid.UUID) ([]DayExercise, error)
	AddDayExercise(ctx context.Context, de DayExercise) (*DayExercise, error)
	Stats(ctx context.Context) (*ProgramStats, error)
}

type Handler struct {
	repo catalogRepo
}

func NewHandler(repo catalogRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func exerciseFilterFromQuery(q url.Values) (ExerciseFilter, error) {
	filter := ExerciseFilter{
		MuscleGroup: MuscleGroup(q.Get("muscle_group")),
		Category:    Category(q.Get("category")),
		GenderFocus: GenderFocus(q.Get("gender_focus")),
		Equipment:   Equipment(q.Get("equipment")),
		Difficulty:  Difficulty(q.Get("difficulty")),
		Search:      q.Get("search"),
	}

	fields := map[string]string{}
	if filter.MuscleGroup != "" && !filter.MuscleGroup.IsValid() {
		fields["muscle_group"] = "invalid muscle group"
	}
	if filter.Category != "" && !filter.Category.IsValid() {
		fields["category"] = "invalid category"
	}
	if filter.GenderFocus != "" && !filter.GenderFocus.IsValid() {
		fields["gender_focus"] = "invalid gender focus"
	}
	if filter.Equipment != "" && !filter.Equipment.IsValid() {
		fields["equipment"] = "invalid equipment"
	}
	if filter.Difficulty != "" && !filter.Difficulty.IsValid() {
		fields["difficulty"] = "invalid difficulty"
	}
	if len(fields) > 0 {
		return ExerciseFilter{}, apperr.Validation("invalid filter", fields)
	}
	return filter, nil
}

func programFilterFromQuery(q url.Values) (ProgramFilter, error) {
	filter := ProgramFilter{
		Goal:        Goal(q.Get("goal")),
		Difficulty:  Difficulty(q.Get("difficulty")),
		GenderFocus: GenderFocus(q.Get("gender_focus")),
		Search:      q.Get("search"),
	}

	fields := map[string]string{}
	if filter.Goal != "" && !filter.Goal.IsValid() {
		fields["goal"] = "invalid goal"
	}
	if filter.Difficulty != "" && !filter.Difficulty.IsValid() {
		fields["difficulty"] = "invalid difficulty"
	}
	if filter.GenderFocus != "" && !filter.GenderFocus.IsValid() {
		fields["gender_focus"] = "invalid gender focus"
	}
	if weeks := q.Get("duration_weeks"); weeks != "" {
		n, err := strconv.Atoi(weeks)
		if err != nil || n < 1 {
			fields["duration_weeks"] = "must be a positive number"
		}
		filter.DurationWeeks = n
	}
	if len(fields) > 0 {
		return ProgramFilter{}, apperr.Validation("invalid filter", fields)
	}
	return filter, nil
}

func (handler *Handler) HandleListExercises(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.exercises.list")
	defer span.End()

	filter, err := exerciseFilterFromQuery(r.URL.Query())
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	exercises, err := handler.repo.ListExercises(ctx, filter)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	pkg.WriteJSON(w, exercises, http.StatusOK)
}

func (handler *Handler) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.exercises.add")
	defer span.End()

	if _, err := auth.Require(ctx, auth.CapAdmin); err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	var exercise Exercise
	if err := pkg.DecodeJSONBody(r, &exercise); err != nil {
		apperr.WriteHTTP(w, r, apperr.BadRequest(err))
		return
	}
	exercise.ApplyDefaults()
	if err := exercise.Validate(); err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	added, err := handler.repo.AddExercise(ctx, exercise)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	log.Debugf("new exercise added: [%s] %s", added.MuscleGroup, added.ID)
	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (handler *Handler) HandleGetExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.exercises.get")
	defer span.End()

	id, err := pkg.UUIDVar(r, "id")
	if err != nil {
		apperr.WriteHTTP(w, r, apperr.BadRequest(err))
		return
	}

	exercise, err := handler.repo.GetExercise(ctx, id)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	pkg.WriteJSON(w, exercise, http.StatusOK)
}

// HandleUpdateExercise applies the body on top of the stored exercise,
// so omitted fields keep their current values.
func (handler *Handler) HandleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.exercises.update")
	defer span.End()

	if _, err := auth.Require(ctx, auth.CapAdmin); err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	id, err := pkg.UUIDVar(r, "id")
	if err != nil {
		apperr.WriteHTTP(w, r, apperr.BadRequest(err))
		return
	}

	exercise, err := handler.repo.GetExercise(ctx, id)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	if err := pkg.DecodeJSONBody(r, exercise); err != nil {
		apperr.WriteHTTP(w, r, apperr.BadRequest(err))
		return
	}
	exercise.ID = id
	if err := exercise.Validate(); err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	updated, err := handler.repo.UpdateExercise(ctx, *exercise)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	pkg.WriteJSON(w, updated, http.StatusOK)
}

func (handler *Handler) HandleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.exercises.delete")
	defer span.End()

	if _, err := auth.Require(ctx, auth.CapAdmin); err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	id, err := pkg.UUIDVar(r, "id")
	if err != nil {
		apperr.WriteHTTP(w, r, apperr.BadRequest(err))
		return
	}

	if err := handler.repo.DeleteExercise(ctx, id); err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	log.Debugf("exercise %s deactivated", id)
	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) HandleListPrograms(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.programs.list")
	defer span.End()

	filter, err := programFilterFromQuery(r.URL.Query())
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	programs, err := handler.repo.ListPrograms(ctx, filter)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	pkg.WriteJSON(w, programs, http.StatusOK)
}

func (handler *Handler) HandleCreateProgram(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.programs.create")
	defer span.End()

	admin, err := auth.Require(ctx, auth.CapAdmin)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	var newProgram NewProgram
	if err := pkg.DecodeJSONBody(r, &newProgram); err != nil {
		apperr.WriteHTTP(w, r, apperr.BadRequest(err))
		return
	}
	newProgram.ApplyDefaults()
	if err := newProgram.Validate(); err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	programID, err := handler.repo.CreateProgram(ctx, newProgram, admin.UserID)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	created, err := handler.repo.GetProgram(ctx, programID)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	log.Debugf("new program added: %s with %d days", created.ID, len(created.Days))
	pkg.WriteJSON(w, created, http.StatusCreated)
}

func (handler *Handler) HandleGetProgram(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.programs.get")
	defer span.End()

	id, err := pkg.UUIDVar(r, "id")
	if err != nil {
		apperr.WriteHTTP(w, r, apperr.BadRequest(err))
		return
	}

	program, err := handler.repo.GetProgram(ctx, id)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	pkg.WriteJSON(w, program, http.StatusOK)
}

func (handler *Handler) HandleUpdateProgram(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.programs.update")
	defer span.End()

	if _, err := auth.Require(ctx, auth.CapAdmin); err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	id, err := pkg.UUIDVar(r, "id")
	if err != nil {
		apperr.WriteHTTP(w, r, apperr.BadRequest(err))
		return
	}

	current, err := handler.repo.GetProgram(ctx, id)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	program := current.Program
	if err := pkg.DecodeJSONBody(r, &program); err != nil {
		apperr.WriteHTTP(w, r, apperr.BadRequest(err))
		return
	}
	program.ID = id
	if err := program.Validate(); err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	for _, day := range current.Days {
		if day.WeekNumber > program.DurationWeeks || day.DayNumber > program.DaysPerWeek {
			apperr.WriteHTTP(w, r, apperr.Validation("program grid too small for existing days", map[string]string{
				"duration_weeks": "must cover all existing days",
				"days_per_week":  "must cover all existing days",
			}))
			return
		}
	}

	updated, err := handler.repo.UpdateProgram(ctx, program)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	pkg.WriteJSON(w, updated, http.StatusOK)
}

func (handler *Handler) HandleDeleteProgram(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.programs.delete")
	defer span.End()

	if _, err := auth.Require(ctx, auth.CapAdmin); err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	id, err := pkg.UUIDVar(r, "id")
	if err != nil {
		apperr.WriteHTTP(w, r, apperr.BadRequest(err))
		return
	}

	if err := handler.repo.DeleteProgram(ctx, id); err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	log.Debugf("program %s deactivated", id)
	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) HandleListDays(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.days.list")
	defer span.End()

	programID, err := pkg.UUIDVar(r, "id")
	if err != nil {
		apperr.WriteHTTP(w, r, apperr.BadRequest(err))
		return
	}

	days, err := handler.repo.ListDays(ctx, programID)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	pkg.WriteJSON(w, days, http.StatusOK)
}

func (handler *Handler) HandleAddDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.days.add")
	defer span.End()

	if _, err := auth.Require(ctx, auth.CapAdmin); err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	programID, err := pkg.UUIDVar(r, "id")
	if err != nil {
		apperr.WriteHTTP(w, r, apperr.BadRequest(err))
		return
	}

	var day ProgramDay
	if err := pkg.DecodeJSONBody(r, &day); err != nil {
		apperr.WriteHTTP(w, r, apperr.BadRequest(err))
		return
	}
	day.ProgramID = programID

	program, err := handler.repo.GetProgram(ctx, programID)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	if err := day.ValidateFor(&program.Program); err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	for i := range day.Exercises {
		if err := day.Exercises[i].Validate(); err != nil {
			apperr.WriteHTTP(w, r, err)
			return
		}
	}

	added, err := handler.repo.AddDay(ctx, day)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (handler *Handler) HandleListDayExercises(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.dayexercises.list")
	defer span.End()

	dayID, err := pkg.UUIDVar(r, "day_id")
	if err != nil {
		apperr.WriteHTTP(w, r, apperr.BadRequest(err))
		return
	}

	exercises, err := handler.repo.ListDayExercises(ctx, dayID)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	pkg.WriteJSON(w, exercises, http.StatusOK)
}

func (handler *Handler) HandleAddDayExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.dayexercises.add")
	defer span.End()

	if _, err := auth.Require(ctx, auth.CapAdmin); err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	dayID, err := pkg.UUIDVar(r, "day_id")
	if err != nil {
		apperr.WriteHTTP(w, r, apperr.BadRequest(err))
		return
	}

	var dayExercise DayExercise
	if err := pkg.DecodeJSONBody(r, &dayExercise); err != nil {
		apperr.WriteHTTP(w, r, apperr.BadRequest(err))
		return
	}
	dayExercise.DayID = dayID
	if err := dayExercise.Validate(); err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	added, err := handler.repo.AddDayExercise(ctx, dayExercise)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (handler *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.programs.stats")
	defer span.End()

	if _, err := auth.Require(ctx, auth.CapAdmin); err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	stats, err := handler.repo.Stats(ctx)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	pkg.WriteJSON(w, stats, http.StatusOK)
}
