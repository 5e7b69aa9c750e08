package router

import (
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	docs "github.com/staffplan/backend/api"
	"github.com/staffplan/backend/internal/controllers/healthz"
	"github.com/staffplan/backend/internal/controllers/root"
	v1 "github.com/staffplan/backend/internal/controllers/v1"
	"github.com/staffplan/backend/internal/controllers/version"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Config sets up the router with all middlewares and the API documentation.
// The teardown function it returns must run before the process exits.
func Config(url *url.URL, apiVersion string) (*gin.Engine, func(), error) {
	r := gin.New()

	// The backend never evaluates client IPs, so the X-Forwarded-For
	// header is not processed
	r.ForwardedByClientIP = false

	// Answer with HTTP 405 when the path exists, but does not support
	// the method of the request
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(URLMiddleware(url))
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "This HTTP method is not allowed for the endpoint you called"})
	})
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, logger zerolog.Logger) zerolog.Logger {
			return logger.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	// Prometheus metrics for all requests
	err := registerPrometheusMetrics()
	if err != nil {
		return nil, func() {}, err
	}
	r.Use(MetricsMiddleware())

	// CORS is only active when allowed origins are configured
	allowOrigins, ok := os.LookupEnv("CORS_ALLOW_ORIGINS")
	if ok {
		log.Debug().Str("CORS Allowed Origins", allowOrigins).Msg("Router")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Fields(allowOrigins),
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
			AllowCredentials: true,
		}))
	}

	// Printing every route on startup clutters the logs, especially for
	// the tests
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// No proxy is trusted since client IPs are never used
	_ = r.SetTrustedProxies([]string{})

	log.Debug().Str("API Base URL", url.String()).Str("Host", url.Host).Str("Path", url.Path).Msg("Router")
	log.Info().Str("version", apiVersion).Msg("Router")

	docs.SwaggerInfo.Host = url.Host
	docs.SwaggerInfo.BasePath = url.Path
	docs.SwaggerInfo.Title = "StaffPlan"
	docs.SwaggerInfo.Version = apiVersion
	docs.SwaggerInfo.Description = "The backend for StaffPlan, a staff scheduling and team operations tool. Check out the source code at https://github.com/staffplan/backend."

	teardown := func() {
		unregisterPrometheusMetrics()
	}

	return r, teardown, nil
}

// AttachRoutes attaches the API routes to the router group that is passed in.
// Separating this from Config() allows us to attach the API to different
// paths for different use cases.
func AttachRoutes(apiVersion string, group *gin.RouterGroup) {
	root.RegisterRoutes(group.Group(""))
	healthz.RegisterRoutes(group.Group("/healthz"))
	version.RegisterRoutes(group.Group("/version"), apiVersion)

	// pprof performance profiles
	enablePprof, ok := os.LookupEnv("ENABLE_PPROF")
	if ok && enablePprof == "true" {
		pprof.RouteRegister(group, "debug/pprof")
	}

	group.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	group.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 setup
	apiV1 := group.Group("/v1")
	v1.RegisterRootRoutes(apiV1)

	// Logging in and registering happen without a session
	v1.RegisterAuthRoutes(apiV1.Group("/auth"))

	// Everything else requires an authenticated user
	protected := apiV1.Group("")
	protected.Use(Authenticate())

	if os.Getenv("LICENSE_ENFORCE") == "true" {
		protected.Use(RequireLicense(v1.LicenseClient))
	}

	v1.RegisterSessionRoutes(protected.Group("/auth"))
	v1.RegisterUserRoutes(protected.Group("/users"))
	v1.RegisterRoleRoutes(protected.Group("/roles"))
	v1.RegisterPermissionRoutes(protected.Group("/permissions"))
	v1.RegisterLeaveTypeRoutes(protected.Group("/leave-types"))
	v1.RegisterLeaveAllocationRoutes(protected.Group("/leave-allocations"))
	v1.RegisterLeaveRequestRoutes(protected.Group("/leave-requests"))
	v1.RegisterScheduleRoutes(protected.Group("/schedules"))
	v1.RegisterCalendarRoutes(protected.Group("/calendar"))
	v1.RegisterRestrictedDayRoutes(protected.Group("/restricted-days"))
	v1.RegisterUnavailabilityRoutes(protected.Group("/unavailability"))
	v1.RegisterNotificationRoutes(protected.Group("/notifications"))
	v1.RegisterTaskRoutes(protected.Group("/tasks"))
	v1.RegisterBoardPostRoutes(protected.Group("/board"))
	v1.RegisterMonthlyRequirementRoutes(protected.Group("/monthly-requirements"))
	v1.RegisterLicenseRoutes(protected.Group("/license"))
}
