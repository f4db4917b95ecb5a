package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rakshithjm97/ivms3/internal/access"
	"github.com/rakshithjm97/ivms3/internal/auth"
	"github.com/rakshithjm97/ivms3/internal/cache"
	"github.com/rakshithjm97/ivms3/internal/config"
	"github.com/rakshithjm97/ivms3/internal/domain/user"
	"github.com/rakshithjm97/ivms3/internal/http/handlers"
	"github.com/rakshithjm97/ivms3/internal/http/middlewares"
	"github.com/rakshithjm97/ivms3/internal/metadata"
	"github.com/rakshithjm97/ivms3/internal/notifications"
	"github.com/rakshithjm97/ivms3/internal/observability"
	"github.com/rakshithjm97/ivms3/internal/repo/postgres"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20

// Deps is everything the router wires into handlers. Cache and Notifier may be nil.
type Deps struct {
	Cfg      config.Config
	Pool     *pgxpool.Pool
	Prom     *observability.Prom
	JWT      *auth.Manager
	Scoper   *access.Scoper
	Cache    cache.Store
	Metadata *metadata.Loader
	Notifier notifications.Notifier
	Ready    map[string]handlers.Pinger
}

func NewRouter(d Deps) *gin.Engine {
	if d.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(d.Cfg.ServiceName))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(d.Prom.GinHandleMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.Cfg.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())

	// repositories
	usersRepo := postgres.NewUsersRepo(d.Pool, d.Prom)
	refreshRepo := postgres.NewRefreshTokensRepo(d.Pool, d.Prom)
	resetsRepo := postgres.NewPasswordResetsRepo(d.Pool, d.Prom, usersRepo)
	activityRepo := postgres.NewActivityRepo(d.Pool, d.Prom)
	entriesRepo := postgres.NewEntriesRepo(d.Pool, d.Prom)

	// handlers
	health := handlers.NewHealthHandler(d.Ready)
	uiOptions := handlers.NewUIOptionsHandler(d.Metadata)
	authHandler := handlers.NewAuthHandler(usersRepo, d.JWT, refreshRepo)
	passwordHandler := handlers.NewPasswordHandler(usersRepo, resetsRepo, d.Notifier, d.Cfg.ResetURLBase, d.Cfg.ResetTTL())
	usersHandler := handlers.NewUsersHandler(usersRepo)
	activityHandler := handlers.NewActivityHandler(activityRepo, d.Scoper, d.Cache, d.Prom, d.Cfg.UseBothSources)
	entriesHandler := handlers.NewEntriesHandler(entriesRepo)

	authMW := middlewares.NewAuthMiddleware(d.JWT)
	// login, password and submit routes each count in their own buckets
	limitLogin := middlewares.NewRateLimiter(d.Cfg.LoginRateLimit, d.Cfg.LoginRateWindow).
		Middleware(middlewares.KeyByIP)
	limitPassword := middlewares.NewRateLimiter(d.Cfg.LoginRateLimit, d.Cfg.LoginRateWindow).
		Middleware(middlewares.KeyByIP)
	limitSubmit := middlewares.NewRateLimiter(d.Cfg.SubmitRateLimit, d.Cfg.SubmitRateWindow).
		Middleware(middlewares.KeyByUserOrIP)

	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)
	r.GET("/metrics", gin.WrapH(d.Prom.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", health.Status)
		api.GET("/ui-options", uiOptions.Get)

		api.POST("/login", limitLogin, authHandler.Login)
		api.POST("/refresh", authHandler.Refresh)
		api.POST("/logout", authHandler.Logout)
		api.POST("/forgot-password", limitPassword, passwordHandler.Forgot)
		api.POST("/reset-password", limitPassword, passwordHandler.Reset)
	}

	authed := api.Group("", authMW.RequireAuth())
	{
		authed.POST("/tracker", limitSubmit, entriesHandler.SubmitTracker)
		authed.POST("/resource-planning", limitSubmit, entriesHandler.SubmitResourcePlanning)
		authed.POST("/resource", limitSubmit, entriesHandler.SubmitResource)
		authed.GET("/resource", activityHandler.ListResources)
		authed.POST("/daily-activity-new", limitSubmit, entriesHandler.SubmitDaily)
		authed.GET("/daily-activity-new", activityHandler.ListDaily)

		authed.GET("/daily_activity", activityHandler.List)
		authed.GET("/daily_activity/filters", activityHandler.Filters)
		authed.PUT("/daily_activity/edit",
			authMW.RequireRole(user.RoleAdmin, user.RoleInternalAdmin),
			activityHandler.Edit,
		)

		authed.GET("/performance", activityHandler.Performance)
		authed.GET("/team-report", activityHandler.TeamReport)
	}

	admin := authed.Group("/users", authMW.RequireRole(user.RoleAdmin))
	{
		admin.GET("", usersHandler.List)
		admin.POST("", usersHandler.Create)
		admin.DELETE("/:id", usersHandler.Delete)
	}

	return r
}
