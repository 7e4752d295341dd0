package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"mortgage-advisor/logger"
	"mortgage-advisor/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogMiddleware tags every request with an ID, logs it, and feeds
// the request metrics.
func RequestLogMiddleware(log logger.Logger, endpoint string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		metrics.RequestsTotal.WithLabelValues(endpoint, strconv.Itoa(rec.status)).Inc()
		metrics.RequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())

		log.Info("request handled", map[string]interface{}{
			"request_id": requestID,
			"endpoint":   endpoint,
			"method":     r.Method,
			"status":     rec.status,
			"elapsed_ms": elapsed.Milliseconds(),
		})
	})
}
