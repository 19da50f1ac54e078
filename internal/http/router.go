package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cohort-backend/internal/handlers"
	"cohort-backend/internal/middleware"
)

func NewRouter(
	engineHandler *handlers.PaymentEngineHandler,
	statementHandler *handlers.StatementHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Health probes (no auth)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Payment engine - single action-dispatched endpoint. Read-style actions
	// need any authenticated caller; the handler gates admin actions on the
	// role claim.
	paymentsAPI := r.PathPrefix("/api/payments").Subrouter()
	paymentsAPI.Use(authMiddleware.Authenticate)
	paymentsAPI.HandleFunc("/engine", engineHandler.Execute).Methods("POST")
	paymentsAPI.HandleFunc("/statement", statementHandler.GetStatement).Methods("GET")

	return r
}
