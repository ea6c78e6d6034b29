package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/2beens/gymtracker/internal/apperr"
	"github.com/2beens/gymtracker/internal/auth"
	"github.com/2beens/gymtracker/internal/catalog"
	"github.com/2beens/gymtracker/internal/config"
	"github.com/2beens/gymtracker/internal/db"
	"github.com/2beens/gymtracker/internal/enrollment"
	"github.com/2beens/gymtracker/internal/middleware"
	"github.com/2beens/gymtracker/internal/progress"
	progressmcp "github.com/2beens/gymtracker/internal/progress/mcp"
	"github.com/2beens/gymtracker/internal/telemetry/metrics"
	"github.com/2beens/gymtracker/internal/telemetry/tracing"
	"github.com/2beens/gymtracker/internal/users"
	"github.com/2beens/gymtracker/pkg"
)

// uuid shaped path segment, keeps /programs/stats and friends from matching {id}
const idPattern = "{id:[0-9a-fA-F-]{36}}"

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	verifier    *auth.Verifier
	loc         *time.Location

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config  *config.Config
	Secrets *config.Secrets
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	loc, err := params.Config.Location()
	if err != nil {
		return nil, err
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBUser:         params.Config.PostgresUser,
		DBPassword:     params.Secrets.PostgresPassword,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.Secrets.HoneycombEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	if params.Config.RunMigrations {
		if err := db.Migrate(ctx, dbPool); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.Secrets.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	otelShutdown, err := tracing.HoneycombSetup(params.Secrets.HoneycombEnabled, params.Secrets.OtelServiceName, rdb)
	if err != nil {
		return nil, err
	}

	return &Server{
		config:      params.Config,
		dbPool:      dbPool,
		redisClient: rdb,
		verifier:    auth.NewVerifier([]byte(params.Secrets.JWTSecret)),
		loc:         loc,

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

// routerDeps are the pieces routerSetup needs, split out so the router can be
// built in tests without postgres behind it.
type routerDeps struct {
	catalog    *catalog.Handler
	enrollment *enrollment.Handler
	progress   *progress.Handler
	users      *users.Handler
	mcpServer  *mcp.Server

	verifier       *auth.Verifier
	rateLimiter    middleware.RequestRateLimiter
	metricsManager *metrics.Manager
	config         *config.Config
}

func (s *Server) routerDeps() routerDeps {
	catalogRepo := catalog.NewCachedRepo(catalog.NewRepo(s.dbPool), s.config.CatalogCacheSizeMB)

	progressService := progress.NewService(
		progress.NewRepo(s.dbPool),
		progress.NewRedisStatsCache(s.redisClient, s.config.StatsCacheTTL(), s.metricsManager),
		s.metricsManager,
		s.loc,
		nil,
	)

	return routerDeps{
		catalog:        catalog.NewHandler(catalogRepo),
		enrollment:     enrollment.NewHandler(enrollment.NewRepo(s.dbPool), catalogRepo, s.metricsManager, s.loc),
		progress:       progress.NewHandler(progressService),
		users:          users.NewHandler(users.NewRepo(s.dbPool), s.metricsManager, s.loc),
		mcpServer:      progressmcp.NewServer(s.dbPool, progressService),
		verifier:       s.verifier,
		rateLimiter:    redis_rate.NewLimiter(s.redisClient),
		metricsManager: s.metricsManager,
		config:         s.config,
	}
}

func routerSetup(deps routerDeps) *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	}).Methods("GET").Name("health")

	// exercises
	ch := deps.catalog
	r.HandleFunc("/exercises", ch.HandleListExercises).Methods("GET", "OPTIONS").Name("list-exercises")
	r.HandleFunc("/exercises", ch.HandleAddExercise).Methods("POST", "OPTIONS").Name("new-exercise")
	r.HandleFunc("/exercises/"+idPattern, ch.HandleGetExercise).Methods("GET", "OPTIONS").Name("get-exercise")
	r.HandleFunc("/exercises/"+idPattern, ch.HandleUpdateExercise).Methods("PUT", "OPTIONS").Name("update-exercise")
	r.HandleFunc("/exercises/"+idPattern, ch.HandleDeleteExercise).Methods("DELETE", "OPTIONS").Name("delete-exercise")

	// programs and enrollments; fixed paths before the {id} ones
	eh := deps.enrollment
	r.HandleFunc("/programs/stats", ch.HandleStats).Methods("GET", "OPTIONS").Name("program-stats")
	r.HandleFunc("/programs/enrollments", eh.HandleList).Methods("GET", "OPTIONS").Name("list-enrollments")
	r.HandleFunc("/programs/enrollments/"+idPattern, eh.HandleGet).Methods("GET", "OPTIONS").Name("get-enrollment")
	r.HandleFunc("/programs/enrollments/"+idPattern, eh.HandleChangeStatus).Methods("PATCH", "OPTIONS").Name("change-enrollment-status")
	r.HandleFunc("/programs/current", eh.HandleCurrent).Methods("GET", "OPTIONS").Name("current-program")
	r.HandleFunc("/programs/today", eh.HandleToday).Methods("GET", "OPTIONS").Name("today-workout")
	r.HandleFunc("/programs/days/{day_id:[0-9a-fA-F-]{36}}/exercises", ch.HandleListDayExercises).Methods("GET", "OPTIONS").Name("list-day-exercises")
	r.HandleFunc("/programs/days/{day_id:[0-9a-fA-F-]{36}}/exercises", ch.HandleAddDayExercise).Methods("POST", "OPTIONS").Name("new-day-exercise")
	r.HandleFunc("/programs", ch.HandleListPrograms).Methods("GET", "OPTIONS").Name("list-programs")
	r.HandleFunc("/programs", ch.HandleCreateProgram).Methods("POST", "OPTIONS").Name("new-program")
	r.HandleFunc("/programs/"+idPattern, ch.HandleGetProgram).Methods("GET", "OPTIONS").Name("get-program")
	r.HandleFunc("/programs/"+idPattern, ch.HandleUpdateProgram).Methods("PUT", "OPTIONS").Name("update-program")
	r.HandleFunc("/programs/"+idPattern, ch.HandleDeleteProgram).Methods("DELETE", "OPTIONS").Name("delete-program")
	r.HandleFunc("/programs/"+idPattern+"/days", ch.HandleListDays).Methods("GET", "OPTIONS").Name("list-program-days")
	r.HandleFunc("/programs/"+idPattern+"/days", ch.HandleAddDay).Methods("POST", "OPTIONS").Name("new-program-day")
	r.HandleFunc("/programs/"+idPattern+"/enroll", eh.HandleEnroll).Methods("POST", "OPTIONS").Name("enroll")

	// progress
	ph := deps.progress
	completeWorkoutLimit := middleware.RateLimit(
		deps.rateLimiter,
		"complete-workout",
		deps.config.CompleteWorkoutRateLimitPerMin,
		deps.metricsManager,
	)
	r.Handle("/progress/complete-workout", completeWorkoutLimit(http.HandlerFunc(ph.HandleCompleteWorkout))).Methods("POST", "OPTIONS").Name("complete-workout")
	r.HandleFunc("/progress/history", ph.HandleHistory).Methods("GET", "OPTIONS").Name("workout-history")
	r.HandleFunc("/progress/stats", ph.HandleStats).Methods("GET", "OPTIONS").Name("progress-stats")
	r.HandleFunc("/progress/streak", ph.HandleStreak).Methods("GET", "OPTIONS").Name("streak")
	r.HandleFunc("/progress/weekly", ph.HandleWeekly).Methods("GET", "OPTIONS").Name("weekly-progress")
	r.HandleFunc("/progress/chart", ph.HandleChart).Methods("GET", "OPTIONS").Name("progress-chart")
	r.HandleFunc("/progress/admin-stats", ph.HandleAdminStats).Methods("GET", "OPTIONS").Name("admin-progress-stats")

	// users
	uh := deps.users
	registerLimit := middleware.RateLimit(
		deps.rateLimiter,
		"register",
		deps.config.RegisterRateLimitPerMin,
		deps.metricsManager,
	)
	r.Handle("/users/register", registerLimit(http.HandlerFunc(uh.HandleRegister))).Methods("POST", "OPTIONS").Name("register")
	r.HandleFunc("/users/profile", uh.HandleGetProfile).Methods("GET", "OPTIONS").Name("get-profile")
	r.HandleFunc("/users/profile", uh.HandleUpdateProfile).Methods("PUT", "OPTIONS").Name("update-profile")
	r.HandleFunc("/users/change-password", uh.HandleChangePassword).Methods("POST", "OPTIONS").Name("change-password")
	r.HandleFunc("/users/stats", uh.HandleStats).Methods("GET", "OPTIONS").Name("user-stats")
	r.HandleFunc("/users", uh.HandleList).Methods("GET", "OPTIONS").Name("list-users")
	r.HandleFunc("/users/"+idPattern+"/block", uh.HandleToggleBlock).Methods("PATCH", "OPTIONS").Name("toggle-user-block")

	// progress tools for MCP clients, same server as cmd/progress_mcp over stdio
	mcpServer := deps.mcpServer
	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpServer
	}, nil)
	r.Handle("/mcp", requireAdmin(mcpHandler)).Methods("GET", "POST", "DELETE", "OPTIONS").Name("mcp")

	authMiddleware := middleware.NewAuthMiddlewareHandler(deps.verifier)

	r.Use(middleware.PanicRecovery(deps.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(deps.metricsManager))
	r.Use(middleware.Cors(deps.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if _, err := auth.Require(r.Context(), auth.CapAdmin); err != nil {
			apperr.WriteHTTP(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) Serve(host string, port int) {
	router := routerSetup(s.routerDeps())

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking requests before the pool and redis go away under them
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}
