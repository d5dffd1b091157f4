package models

// DataStatus is the readiness of the seeded dataset
type DataStatus string

const (
	StatusNotInitialized       DataStatus = "NOT_INITIALIZED"
	StatusInitializedButNoData DataStatus = "INITIALIZED_BUT_NO_DATA"
	StatusReady                DataStatus = "READY"
)

// Stats holds dataset counters reported by the status endpoints
type Stats struct {
	TotalCustomers    int64 `json:"total_customers"`
	ActiveCards       int64 `json:"active_cards"`
	TotalTransactions int64 `json:"total_transactions"`
}
