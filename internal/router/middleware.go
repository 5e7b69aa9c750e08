package router

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/staffplan/backend/internal/auth"
	"github.com/staffplan/backend/internal/license"
	"github.com/staffplan/backend/internal/models"
)

// URLMiddleware makes the base URL of the API available to the handlers so
// that resources can reference themselves with absolute URLs.
func URLMiddleware(url *url.URL) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(models.DBContextURL), url.String())
		c.Next()
	}
}

var requestCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "requests_total",
		Help: "How many HTTP requests processed, partitioned by status code and HTTP method.",
	},
	[]string{"code", "method", "url"},
)

var requestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "request_duration_seconds",
		Help: "The HTTP request latencies in seconds.",
	},
	[]string{"code", "method", "url"},
)

var metrics = []prometheus.Collector{
	requestCount,
	requestDuration,
}

func registerPrometheusMetrics() error {
	for _, c := range metrics {
		if err := prometheus.Register(c); err != nil {
			return fmt.Errorf("could not register %s with Prometheus", c)
		}
	}

	return nil
}

// unregisterPrometheusMetrics removes the metrics from the default registry
// again. Tests set up and tear down the router repeatedly, registering the
// same collector twice is an error.
func unregisterPrometheusMetrics() bool {
	for _, c := range metrics {
		if ok := prometheus.Unregister(c); !ok {
			return false
		}
	}

	return true
}

// MetricsMiddleware records the Prometheus metrics for a request.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// Replace parameter values with the parameter name to keep the
		// cardinality of the url label low
		url := c.Request.URL.Path
		for _, p := range c.Params {
			url = strings.Replace(url, p.Value, ":"+p.Key, 1)
		}

		status := strconv.Itoa(c.Writer.Status())
		requestCount.WithLabelValues(status, c.Request.Method, url).Inc()
		requestDuration.WithLabelValues(status, c.Request.Method, url).Observe(time.Since(start).Seconds())
	}
}

// Authenticate resolves the bearer token into a user and loads the
// permissions of that user for the handlers. Requests without a valid token
// for an active user are rejected.
//
// OPTIONS requests pass through since browsers do not send the Authorization
// header on preflight requests.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok {
			abortUnauthenticated(c)
			return
		}

		userID, err := auth.ParseToken(strings.TrimSpace(token))
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		var user models.User
		err = models.DB.First(&user, userID).Error

		// A database error is not an authentication failure
		if errors.Is(err, models.ErrGeneral) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": models.ErrGeneral.Error()})
			return
		}

		if err != nil || !user.Active {
			abortUnauthenticated(c)
			return
		}

		permissions, err := user.Permissions(models.DB)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": models.ErrGeneral.Error()})
			return
		}

		c.Set(string(models.DBContextUser), user)
		c.Set(string(models.DBContextPermissions), permissions)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": models.ErrNotAuthenticated.Error()})
}

// RequireLicense rejects all requests while the license is not valid.
func RequireLicense(client *license.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if status := client.Status(); !status.Valid {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "the license is not valid: " + status.Error})
			return
		}

		c.Next()
	}
}
