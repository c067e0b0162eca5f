package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/graham/internal/api/handlers"
	"github.com/wonny/graham/pkg/logger"
)

// Handlers groups the route handlers; nil entries leave their routes out
type Handlers struct {
	Strategy    *handlers.StrategyHandler
	Account     *handlers.AccountHandler
	Symbols     *handlers.SymbolHandler
	Jobs        *handlers.JobHandler
	Performance *handlers.PerformanceHandler
	Stream      *Hub
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	if h.Strategy != nil {
		api.HandleFunc("/selection", h.Strategy.GetSelection).Methods("GET")
		api.HandleFunc("/rankings", h.Strategy.GetRankings).Methods("GET")
		api.HandleFunc("/rebalance/last", h.Strategy.GetLastRebalance).Methods("GET")
	}

	if h.Account != nil {
		api.HandleFunc("/positions", h.Account.GetPositions).Methods("GET")
		api.HandleFunc("/orders", h.Account.GetOrders).Methods("GET")
	}

	if h.Symbols != nil {
		api.HandleFunc("/symbols/search", h.Symbols.Search).Methods("GET")
	}

	if h.Jobs != nil {
		api.HandleFunc("/jobs", h.Jobs.GetJobs).Methods("GET")
		api.HandleFunc("/jobs/{name}/run", h.Jobs.RunJob).Methods("POST")
	}

	if h.Performance != nil {
		api.HandleFunc("/performance", h.Performance.GetPerformance).Methods("GET")
		api.HandleFunc("/equity", h.Performance.GetEquityCurve).Methods("GET")
	}

	if h.Stream != nil {
		r.HandleFunc("/ws/events", h.Stream.ServeWS).Methods("GET")
	}

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "graham",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Call next handler
			next.ServeHTTP(w, r)

			// Log request
			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
