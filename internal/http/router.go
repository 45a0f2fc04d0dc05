package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mujq1695/dev-events/internal/config"
	"github.com/mujq1695/dev-events/internal/db"
	"github.com/mujq1695/dev-events/internal/http/handlers"
	"github.com/mujq1695/dev-events/internal/http/middlewares"
	"github.com/mujq1695/dev-events/internal/notifications"
	"github.com/mujq1695/dev-events/internal/observability"
	"github.com/mujq1695/dev-events/internal/repo/mongodb"
)

func NewRouter(cfg config.Config, conn *db.Connector, prom *observability.Prom, reg *prometheus.Registry, notifier notifications.Notifier) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	if cfg.OtelEnabled {
		r.Use(otelgin.Middleware("dev-events-api"))
	}
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	// wire up repositories
	eventsRepo := mongodb.NewEventsRepo(conn, prom)
	bookingsRepo := mongodb.NewBookingsRepo(conn, prom)

	// wire up handlers
	healthHandler := handlers.NewHealthHandler(conn)
	eventsHandler := handlers.NewEventsHandler(eventsRepo)
	bookingsHandler := handlers.NewBookingsHandler(bookingsRepo, eventsRepo, notifier)

	// health + ops
	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/readyz", healthHandler.Readyz)
	if reg != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	// docs
	r.GET("/docs", handlers.SwaggerUI)
	r.StaticFile("/docs/openapi.yaml", "./docs/openapi.yaml")

	// public reads
	r.GET("/events", eventsHandler.ListEvents)
	r.GET("/events/:slug", eventsHandler.GetEventBySlug)

	// mutating event routes sit behind the admin token when one is set
	adminToken := middlewares.AdminToken(cfg.AdminToken)

	r.POST("/events", adminToken, eventsHandler.CreateEvent)
	r.PUT("/events/:slug", adminToken, eventsHandler.UpdateEvent)
	r.DELETE("/events/:slug", adminToken, eventsHandler.DeleteEvent)

	// bookings: creation is open but rate limited per client IP
	limiter := middlewares.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)

	r.POST("/events/:slug/bookings", limiter.RateLimiterMiddleware(middlewares.KeyByIP), bookingsHandler.CreateBooking)
	r.GET("/events/:slug/bookings", adminToken, bookingsHandler.ListBookings)

	return r
}
