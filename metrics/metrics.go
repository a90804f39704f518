package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Hearing sync actions
const (
	SyncCreated = "created"
	SyncUpdated = "updated"
	SyncRemoved = "removed"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advocate_diary_http_requests_total",
		Help: "Total number of HTTP requests processed.",
	}, []string{"method", "route"})

	httpErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advocate_diary_http_errors_total",
		Help: "Total number of HTTP requests resulting in server errors.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "advocate_diary_http_request_duration_seconds",
		Help:    "Histogram of latencies for HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	hearingEventSync = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advocate_diary_hearing_event_sync_total",
		Help: "Calendar events created, updated or removed on behalf of hearing updates.",
	}, []string{"action"})

	failedLogins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "advocate_diary_failed_logins_total",
		Help: "Login attempts rejected for bad credentials.",
	})

	loginAlerts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "advocate_diary_login_alerts_total",
		Help: "Repeated failed login alerts raised per client address.",
	})
)

// Middleware records request metrics keyed by the matched route pattern
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			statusCode := strconv.Itoa(status)

			httpRequestsTotal.WithLabelValues(method, route).Inc()
			httpRequestDuration.WithLabelValues(method, route, statusCode).Observe(time.Since(start).Seconds())
			if status >= http.StatusInternalServerError {
				httpErrorsTotal.WithLabelValues(method, route, statusCode).Inc()
			}
			return err
		}
	}
}

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHearingEventSync counts one derived calendar event change
func RecordHearingEventSync(action string) {
	hearingEventSync.WithLabelValues(action).Inc()
}

// RecordFailedLogin counts one rejected login
func RecordFailedLogin() {
	failedLogins.Inc()
}

// RecordLoginAlert counts one repeated failed login alert
func RecordLoginAlert() {
	loginAlerts.Inc()
}
