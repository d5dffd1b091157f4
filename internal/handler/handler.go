package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/transfraud/internal/cache"
	"github.com/Dan9191/transfraud/internal/models"
	"github.com/Dan9191/transfraud/internal/repository"
	"github.com/Dan9191/transfraud/internal/schema"
	"github.com/Dan9191/transfraud/internal/service"
)

const (
	defaultBulkCount = 10
	defaultPageSize  = 100
)

// DataController manages the seeded dataset
type DataController interface {
	Initialize(ctx context.Context) error
	Reinitialize(ctx context.Context) error
	Status(ctx context.Context) (models.DataStatus, error)
	Stats(ctx context.Context) (models.Stats, error)
}

// TransactionSource generates and publishes transactions
type TransactionSource interface {
	GenerateRandomTransaction(ctx context.Context) (*schema.CardTransaction, error)
	GenerateAndPublishOne(ctx context.Context) (*schema.CardTransaction, error)
	GenerateAndPublishMany(ctx context.Context, count int) (int, error)
}

// Directory looks up stored entities
type Directory interface {
	FindCustomerByID(ctx context.Context, id string) (*models.Customer, error)
	FindCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	FindAllCustomers(ctx context.Context, limit, offset int) ([]*models.Customer, error)
	FindCardByID(ctx context.Context, id string) (*models.Card, error)
	FindAllCards(ctx context.Context, limit, offset int) ([]*models.Card, error)
	FindTransactionByID(ctx context.Context, id string) (*models.Transaction, error)
}

// ActivityReader returns recent card activity
type ActivityReader interface {
	Get(cardID string) (cache.Activity, bool)
}

type Handler struct {
	ctrl     DataController
	source   TransactionSource
	dir      Directory
	activity ActivityReader
	log      *logrus.Logger
	now      func() time.Time
}

func NewHandler(ctrl DataController, source TransactionSource, dir Directory, activity ActivityReader, log *logrus.Logger) *Handler {
	return &Handler{
		ctrl:     ctrl,
		source:   source,
		dir:      dir,
		activity: activity,
		log:      log,
		now:      time.Now,
	}
}

// Initialize seeds the dataset if it is empty
func (h *Handler) Initialize(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.Initialize(r.Context()); err != nil {
		h.fail(w, "Failed to initialize data", err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Sample data initialization completed",
	})
}

// Reinitialize wipes and reseeds the dataset
func (h *Handler) Reinitialize(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.Reinitialize(r.Context()); err != nil {
		h.fail(w, "Failed to reinitialize data", err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Data reinitialized",
	})
}

// Stats reports dataset counters
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ctrl.Stats(r.Context())
	if err != nil {
		h.fail(w, "Failed to read stats", err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"totalCustomers":    stats.TotalCustomers,
		"activeCards":       stats.ActiveCards,
		"totalTransactions": stats.TotalTransactions,
	})
}

// Status reports dataset readiness
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.ctrl.Status(r.Context())
	if err != nil {
		h.fail(w, "Failed to read status", err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"dataStatus": status})
}

// RandomTransaction publishes one transaction and returns it
func (h *Handler) RandomTransaction(w http.ResponseWriter, r *http.Request) {
	rec, err := h.source.GenerateAndPublishOne(r.Context())
	if err != nil {
		h.fail(w, "Failed to generate Avro transaction", err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"status":        "success",
		"message":       "Random Avro transaction generated and sent to Kafka",
		"transactionId": rec.TransactionID,
		"cardId":        rec.CardID,
		"amount":        rec.TransactionAmount,
		"merchant":      rec.MerchantName,
		"transaction":   rec,
	})
}

// PreviewTransaction generates a transaction without publishing it
func (h *Handler) PreviewTransaction(w http.ResponseWriter, r *http.Request) {
	rec, err := h.source.GenerateRandomTransaction(r.Context())
	if err != nil {
		h.fail(w, "Failed to generate Avro transaction", err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"status":      "success",
		"transaction": rec,
	})
}

// BulkTransactions publishes ?count= transactions, 10 by default
func (h *Handler) BulkTransactions(w http.ResponseWriter, r *http.Request) {
	count := defaultBulkCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(w, "Failed to generate bulk transactions", service.ErrInvalidCount)
			return
		}
		count = n
	}

	published, err := h.source.GenerateAndPublishMany(r.Context(), count)
	if err != nil {
		h.fail(w, "Failed to generate bulk transactions", err)
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"status":         "success",
		"message":        "Bulk Avro transactions generation completed",
		"requestedCount": count,
		"publishedCount": published,
	})
}

// Health reports the card pool size
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ctrl.Stats(r.Context())
	if err != nil {
		h.log.Errorf("Health check failed: %v", err)
		h.respond(w, http.StatusServiceUnavailable, map[string]any{
			"status":  "unhealthy",
			"service": "Avro Transaction Generator",
			"message": err.Error(),
		})
		return
	}
	h.respond(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"service":        "Avro Transaction Generator",
		"availableCards": stats.ActiveCards,
		"totalCustomers": stats.TotalCustomers,
	})
}

// Customers lists customers, or looks one up by ?email=
func (h *Handler) Customers(w http.ResponseWriter, r *http.Request) {
	if email := r.URL.Query().Get("email"); email != "" {
		customer, err := h.dir.FindCustomerByEmail(r.Context(), email)
		if err != nil {
			h.fail(w, "Failed to find customer", err)
			return
		}
		h.writeJSON(w, http.StatusOK, customer)
		return
	}

	limit, offset := page(r)
	customers, err := h.dir.FindAllCustomers(r.Context(), limit, offset)
	if err != nil {
		h.fail(w, "Failed to list customers", err)
		return
	}
	h.writeJSON(w, http.StatusOK, customers)
}

// Customer returns one customer
func (h *Handler) Customer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.dir.FindCustomerByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, "Failed to find customer", err)
		return
	}
	h.writeJSON(w, http.StatusOK, customer)
}

// Cards lists cards
func (h *Handler) Cards(w http.ResponseWriter, r *http.Request) {
	limit, offset := page(r)
	cards, err := h.dir.FindAllCards(r.Context(), limit, offset)
	if err != nil {
		h.fail(w, "Failed to list cards", err)
		return
	}
	h.writeJSON(w, http.StatusOK, cards)
}

// Card returns one card
func (h *Handler) Card(w http.ResponseWriter, r *http.Request) {
	card, err := h.dir.FindCardByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, "Failed to find card", err)
		return
	}
	h.writeJSON(w, http.StatusOK, card)
}

// CardActivity returns the recent transactions seen for a card
func (h *Handler) CardActivity(w http.ResponseWriter, r *http.Request) {
	cardID := mux.Vars(r)["id"]
	activity, ok := h.activity.Get(cardID)
	if !ok {
		h.fail(w, "No recent activity for card "+cardID, repository.ErrNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, activity)
}

// Transaction returns one stored transaction
func (h *Handler) Transaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.dir.FindTransactionByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, "Failed to find transaction", err)
		return
	}
	h.writeJSON(w, http.StatusOK, tx)
}

func (h *Handler) fail(w http.ResponseWriter, message string, err error) {
	code := statusCode(err)
	if code >= http.StatusInternalServerError {
		h.log.Errorf("%s: %v", message, err)
	} else {
		h.log.Warnf("%s: %v", message, err)
	}
	h.respond(w, code, map[string]any{
		"status":  "error",
		"message": message + ": " + err.Error(),
	})
}

// respond writes body stamped with the current time in epoch millis
func (h *Handler) respond(w http.ResponseWriter, code int, body map[string]any) {
	body["timestamp"] = h.now().UnixMilli()
	h.writeJSON(w, code, body)
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Failed to write response: %v", err)
	}
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCount):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoActiveCards):
		return http.StatusConflict
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func page(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 {
		limit = n
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && n > 0 {
		offset = n
	}
	return limit, offset
}
