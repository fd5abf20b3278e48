package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "golfjournal"

var (
	// Registry holds the application collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	roundsAppended = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rounds",
			Name:      "appended_total",
			Help:      "Total number of rounds saved.",
		},
	)

	goalWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "goals",
			Name:      "writes_total",
			Help:      "Goal setting writes by result.",
		},
		[]string{"result"},
	)

	signIns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "sign_ins_total",
			Help:      "Successful sign-ins by provider.",
		},
		[]string{"provider"},
	)

	liveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "connections",
			Help:      "Open live dashboard connections.",
		},
	)

	tokensCleaned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "tokens_removed_total",
			Help:      "Expired sign-in tokens removed by the cleanup job.",
		},
	)

	jobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "Scheduled job runs by job and outcome.",
		},
		[]string{"job", "success"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		roundsAppended,
		goalWrites,
		signIns,
		liveConnections,
		tokensCleaned,
		jobRuns,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registered collectors.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler records request counts and latency per route pattern.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := routeLabel(r)
		method := strings.ToUpper(r.Method)
		httpRequests.WithLabelValues(method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}

func RoundAppended() {
	roundsAppended.Inc()
}

func GoalWrite(result string) {
	goalWrites.WithLabelValues(result).Inc()
}

func SignIn(provider string) {
	signIns.WithLabelValues(provider).Inc()
}

func LiveConnected() {
	liveConnections.Inc()
}

func LiveDisconnected() {
	liveConnections.Dec()
}

func TokensCleaned(n int64) {
	if n > 0 {
		tokensCleaned.Add(float64(n))
	}
}

func JobRun(job string, success bool) {
	jobRuns.WithLabelValues(job, strconv.FormatBool(success)).Inc()
}

// routeLabel keeps label cardinality bounded: the mux pattern when one
// matched, otherwise a fixed value.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return "unmatched"
	}
	if _, path, ok := strings.Cut(r.Pattern, " "); ok {
		return path
	}
	return r.Pattern
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets the live feed upgrade to a websocket through the recorder.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
