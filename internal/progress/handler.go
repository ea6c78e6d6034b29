package progress

import (
	"net/http"
	"strconv"

	"github.com/2beens/gymtracker/internal/apperr"
	"github.com/2beens/gymtracker/internal/auth"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"
	"github.com/2beens/gymtracker/pkg"

	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) HandleCompleteWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.complete_workout")
	defer span.End()

	principal, err := auth.Authenticated(ctx)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	var req CompleteWorkoutRequest
	if err := pkg.DecodeJSONBody(r, &req); err != nil {
		apperr.WriteHTTP(w, r, apperr.BadRequest(err))
		return
	}

	history, err := h.service.CompleteWorkout(ctx, principal.UserID, req)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	log.Debugf("user %s completed workout %s", principal.UserID, history.ID)
	pkg.WriteJSON(w, history, http.StatusCreated)
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.history")
	defer span.End()

	principal, err := auth.Authenticated(ctx)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			apperr.WriteHTTP(w, r, apperr.Validation("invalid limit", map[string]string{"limit": "must be a positive number"}))
			return
		}
	}

	history, err := h.service.History(ctx, principal.UserID, limit)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	pkg.WriteJSON(w, history, http.StatusOK)
}

func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.stats")
	defer span.End()

	principal, err := auth.Authenticated(ctx)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	stats, err := h.service.Stats(ctx, principal.UserID)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	pkg.WriteJSON(w, stats, http.StatusOK)
}

func (h *Handler) HandleStreak(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.streak")
	defer span.End()

	principal, err := auth.Authenticated(ctx)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	streak, err := h.service.Streak(ctx, principal.UserID)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	pkg.WriteJSON(w, streak, http.StatusOK)
}

func (h *Handler) HandleWeekly(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.weekly")
	defer span.End()

	principal, err := auth.Authenticated(ctx)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	buckets, err := h.service.Weekly(ctx, principal.UserID)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	pkg.WriteJSON(w, buckets, http.StatusOK)
}

func (h *Handler) HandleChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.chart")
	defer span.End()

	principal, err := auth.Authenticated(ctx)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	period, err := ParseChartPeriod(r.URL.Query().Get("period"))
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	points, err := h.service.Chart(ctx, principal.UserID, period)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	pkg.WriteJSON(w, points, http.StatusOK)
}

func (h *Handler) HandleAdminStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.admin_stats")
	defer span.End()

	if _, err := auth.Require(ctx, auth.CapAdmin); err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}

	stats, err := h.service.AdminStats(ctx)
	if err != nil {
		apperr.WriteHTTP(w, r, err)
		return
	}
	pkg.WriteJSON(w, stats, http.StatusOK)
}
