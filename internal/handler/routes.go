package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Routes registers the API on r. admin guards the destructive endpoints.
func (h *Handler) Routes(r *mux.Router, admin mux.MiddlewareFunc, metrics http.Handler) {
	generator := r.PathPrefix("/api/generator").Subrouter()
	generator.HandleFunc("/initialize", h.Initialize).Methods("POST")
	generator.HandleFunc("/stats", h.Stats).Methods("GET")
	generator.HandleFunc("/status", h.Status).Methods("GET")

	// Protected routes
	protected := generator.NewRoute().Subrouter()
	if admin != nil {
		protected.Use(admin)
	}
	protected.HandleFunc("/reinitialize", h.Reinitialize).Methods("POST")
	protected.HandleFunc("/reset", h.Reinitialize).Methods("POST")

	transactions := r.PathPrefix("/api/avro-transactions").Subrouter()
	transactions.HandleFunc("/random", h.RandomTransaction).Methods("POST")
	transactions.HandleFunc("/preview", h.PreviewTransaction).Methods("GET")
	transactions.HandleFunc("/bulk", h.BulkTransactions).Methods("POST")
	transactions.HandleFunc("/health", h.Health).Methods("GET")

	r.HandleFunc("/api/customers", h.Customers).Methods("GET")
	r.HandleFunc("/api/customers/{id}", h.Customer).Methods("GET")
	r.HandleFunc("/api/cards", h.Cards).Methods("GET")
	r.HandleFunc("/api/cards/{id}", h.Card).Methods("GET")
	r.HandleFunc("/api/cards/{id}/activity", h.CardActivity).Methods("GET")
	r.HandleFunc("/api/transactions/{id}", h.Transaction).Methods("GET")

	if metrics != nil {
		r.Handle("/metrics", metrics).Methods("GET")
	}
}
