package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/2beens/gymsignal/internal/config"
	"github.com/2beens/gymsignal/internal/db"
	"github.com/2beens/gymsignal/internal/gymstats/catalog"
	gymsignalmcp "github.com/2beens/gymsignal/internal/gymstats/mcp"
	"github.com/2beens/gymsignal/internal/gymstats/sets"
	"github.com/2beens/gymsignal/internal/gymstats/suggest"
	"github.com/2beens/gymsignal/internal/gymstats/suggestions"
	"github.com/2beens/gymsignal/internal/middleware"
	"github.com/2beens/gymsignal/internal/telemetry/metrics"
	metricsmiddleware "github.com/2beens/gymsignal/internal/telemetry/metrics/middleware"
	"github.com/2beens/gymsignal/internal/telemetry/tracing"
	"github.com/2beens/gymsignal/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	apiTokenHash      string // bcrypt hash of the API token used by the app
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	APITokenHash            string
	DBPassword              string
	RedisPassword           string
	HoneycombTracingEnabled bool
	VersionInfo             string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.Config.PostgresUser,
		DBPassword:     params.DBPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}
	if err := db.Migrate(ctx, dbPool); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("gymsignal", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		// catalog cache and rate limits degrade without redis
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "gymsignal", rdb)
	if err != nil {
		_ = rdb.Close()
		dbPool.Close()
		return nil, fmt.Errorf("honeycomb setup: %w", err)
	}

	if params.APITokenHash == "" {
		log.Warnln("API token hash empty, all protected routes will answer 401")
	}

	return &Server{
		config:       params.Config,
		dbPool:       dbPool,
		redisClient:  rdb,
		apiTokenHash: params.APITokenHash,
		versionInfo:  params.VersionInfo,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, "gymsignal")
	}).Methods("GET", "OPTIONS").Name("root")
	r.HandleFunc("/version", s.handleVersion).Methods("GET", "OPTIONS").Name("version")

	catalogRepo := catalog.NewCachedRepo(
		catalog.NewRepo(s.dbPool),
		s.redisClient,
		s.config.CatalogCacheTTL,
	)
	catalog.NewHandler(catalogRepo).SetupRoutes(r)

	setsRepo := sets.NewRepo(s.dbPool)
	sets.NewHandler(setsRepo, s.metricsManager).SetupRoutes(r)

	suggestionService := suggestions.NewService(
		catalogRepo,
		setsRepo,
		suggest.NewAnalyzer(s.config.Suggestions.Options()),
		s.metricsManager,
		suggestions.CacheParams{
			SizeMB: s.config.SuggestionCacheSizeMB,
			TTL:    s.config.SuggestionCacheTTL,
		},
	)

	// analysis routes are rate limited per client IP
	analysisRouter := r.MatcherFunc(func(req *http.Request, _ *mux.RouteMatch) bool {
		return strings.HasPrefix(req.URL.Path, "/gymstats/suggestion") ||
			strings.HasPrefix(req.URL.Path, "/gymstats/trend/")
	}).Subrouter()
	analysisRouter.Use(middleware.RateLimit(
		redis_rate.NewLimiter(s.redisClient),
		s.metricsManager,
		"suggestions",
		s.config.SuggestionRateLimitPerMin,
	))
	suggestions.NewHandler(suggestionService).SetupRoutes(analysisRouter)

	mcpServer := gymsignalmcp.NewServer(gymsignalmcp.NewContextService(
		gymsignalmcp.NewPoolSchemaRepo(s.dbPool),
		suggestionService,
		catalogRepo,
	))
	r.PathPrefix("/mcp").Handler(gymsignalmcp.NewHTTPHandler(mcpServer)).Name("mcp")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.apiTokenHash)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, s.versionInfo)
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", metricsmiddleware.
		New(s.promRegistry, nil).
		WrapHandler("/metrics", promhttp.HandlerFor(
			s.promRegistry,
			promhttp.HandlerOpts{}),
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

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
