package services

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"sparestock/controllers/idgen"
	"sparestock/models"
	"sparestock/types"
)

// RequestService drives the monthly request state machine:
// pending → approved → delivered → completed, with rejected and cancelled as
// absorbing alternates from pending. Every transition is a guarded update; a
// zero affected-row count means another caller got there first.
type RequestService struct {
	requests RequestStore
	stock    EngineerStockStore
	log      *zap.Logger
}

func NewRequestService(requests RequestStore, stock EngineerStockStore, log *zap.Logger) *RequestService {
	return &RequestService{requests: requests, stock: stock, log: log}
}

// Submit creates a new pending request. Line items must carry positive
// quantities and unique part IDs; the submitter aggregates duplicates.
func (s *RequestService) Submit(engineerID, month string, items []models.RequestItem) (*models.MonthlyRequest, error) {
	if strings.TrimSpace(month) == "" {
		return nil, validationError("month is required")
	}
	if len(items) == 0 {
		return nil, validationError("request must contain at least one item")
	}
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.PartID) == "" {
			return nil, validationError("item part_id is required")
		}
		if item.Quantity <= 0 {
			return nil, validationError("item quantity must be greater than zero")
		}
		if seen[item.PartID] {
			return nil, validationError("duplicate part " + item.PartID + " — aggregate quantities before submitting")
		}
		seen[item.PartID] = true
	}

	req := &models.MonthlyRequest{
		ID:          types.SnowflakeID(idgen.GenerateID()),
		EngineerID:  engineerID,
		Month:       month,
		Status:      models.RequestStatusPending,
		SubmittedAt: time.Now(),
	}
	if err := req.SetItems(items); err != nil {
		return nil, err
	}
	if err := s.requests.Create(req); err != nil {
		return nil, err
	}

	s.log.Info("monthly request submitted",
		zap.Int64("request_id", int64(req.ID)),
		zap.String("engineer_id", engineerID),
		zap.String("month", month),
		zap.Int("items", len(items)),
	)
	return req, nil
}

// Approve moves a pending request to approved. The status predicate lives in
// the update itself, so a double approval loses the race instead of silently
// succeeding.
func (s *RequestService) Approve(id int64, adminID string) error {
	now := time.Now()
	rows, err := s.requests.UpdateRequestStatus(id, models.RequestStatusPending, models.RequestStatusApproved, map[string]interface{}{
		"reviewed_by": adminID,
		"reviewed_at": now,
	})
	if err != nil {
		return err
	}
	if rows == 0 {
		return preconditionError("request not found or already processed")
	}
	return nil
}

// Reject moves a pending request to rejected with a mandatory reason.
func (s *RequestService) Reject(id int64, adminID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return validationError("rejection reason is required")
	}
	now := time.Now()
	rows, err := s.requests.UpdateRequestStatus(id, models.RequestStatusPending, models.RequestStatusRejected, map[string]interface{}{
		"reviewed_by":      adminID,
		"reviewed_at":      now,
		"rejection_reason": reason,
	})
	if err != nil {
		return err
	}
	if rows == 0 {
		return preconditionError("request not found or already processed")
	}
	return nil
}

// Cancel lets the owning engineer withdraw a request that is still pending.
func (s *RequestService) Cancel(id int64, engineerID string) error {
	req, err := s.requests.FetchRequest(id, models.RequestStatusPending)
	if err != nil {
		return err
	}
	if req == nil {
		return preconditionError("request not found or already processed")
	}
	if req.EngineerID != engineerID {
		return preconditionError("request belongs to another engineer")
	}
	rows, err := s.requests.UpdateRequestStatus(id, models.RequestStatusPending, models.RequestStatusCancelled, nil)
	if err != nil {
		return err
	}
	if rows == 0 {
		return conflictError("request was processed while cancelling — reload")
	}
	return nil
}

// Confirm lets the owning engineer acknowledge receipt of a delivered
// request, then folds the delivered quantities into their personal stock.
// Engineer stock rows have a single writer, so plain upserts suffice here.
func (s *RequestService) Confirm(id int64, engineerID string) error {
	req, err := s.requests.FetchRequest(id, models.RequestStatusDelivered)
	if err != nil {
		return err
	}
	if req == nil {
		return preconditionError("request not found or not yet delivered")
	}
	if req.EngineerID != engineerID {
		return preconditionError("request belongs to another engineer")
	}

	now := time.Now()
	rows, err := s.requests.UpdateRequestStatus(id, models.RequestStatusDelivered, models.RequestStatusCompleted, map[string]interface{}{
		"confirmed_at": now,
	})
	if err != nil {
		return err
	}
	if rows == 0 {
		return conflictError("request was already confirmed — reload")
	}

	items, err := req.RequestItems()
	if err != nil {
		return err
	}
	var failed []string
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		current, err := s.stock.Get(engineerID, item.PartID)
		if err != nil {
			failed = append(failed, item.PartID)
			continue
		}
		stock := &models.EngineerStock{
			EngineerID: engineerID,
			PartID:     item.PartID,
			Quantity:   item.Quantity,
			LastSync:   now,
		}
		if current != nil {
			stock.Quantity += current.Quantity
			stock.MinStock = current.MinStock
		}
		if err := s.stock.Upsert(stock); err != nil {
			failed = append(failed, item.PartID)
		}
	}
	if len(failed) > 0 {
		s.log.Error("engineer stock sync incomplete after confirmation",
			zap.Int64("request_id", id),
			zap.String("engineer_id", engineerID),
			zap.Strings("part_ids", failed),
		)
		return &OpError{
			Kind:    KindFatal,
			Message: "receipt confirmed but engineer stock sync incomplete — correct your stock manually",
			PartIDs: failed,
		}
	}
	return nil
}
