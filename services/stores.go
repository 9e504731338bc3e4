package services

import (
	"time"

	"sparestock/models"
)

// RequestStore is the data access the request state machine and the delivery
// engine need. All status changes go through the guarded UpdateRequestStatus;
// a zero affected-row count means the request left the expected status under
// a concurrent caller.
type RequestStore interface {
	Create(req *models.MonthlyRequest) error
	GetByID(id int64) (*models.MonthlyRequest, error)
	// FetchRequest returns the request only if it currently has the given
	// status, nil otherwise.
	FetchRequest(id int64, status string) (*models.MonthlyRequest, error)
	UpdateRequestStatus(id int64, fromStatus, toStatus string, fields map[string]interface{}) (int64, error)
}

// InventoryStore is the shared-pool ledger access. ConditionalUpdateStock is
// the compare-and-swap primitive: the write succeeds only while total_stock
// still equals expectedPrevious.
type InventoryStore interface {
	FetchInventoryParts(ids []string) ([]models.InventoryPart, error)
	ConditionalUpdateStock(partID string, expectedPrevious, newValue int, ts time.Time) (int64, error)
}

// EngineerStockStore is the per-engineer ledger. Rows have a single writer in
// practice, so plain upserts suffice; corrections pair the upsert with the
// audit row in one transactional call.
type EngineerStockStore interface {
	Get(engineerID, partID string) (*models.EngineerStock, error)
	Upsert(stock *models.EngineerStock) error
	ApplyCorrection(stock *models.EngineerStock, adj *models.StockAdjustment) error
}

// ProfileStore resolves read-only engineer context (area group, email).
type ProfileStore interface {
	GetByID(id string) (*models.Profile, error)
}

// Notifier is a one-way message send. Implementations must not block and
// their failures must never affect the calling business operation.
type Notifier interface {
	Notify(userID, title, body string, meta map[string]string)
}
