package services

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"sparestock/models"
)

// DeliveryService reconciles an approved monthly request against the shared
// inventory ledger and flips it to delivered, or fails with the ledger
// untouched. The backend exposes no multi-row transaction, so the commit is a
// sequence of compare-and-swap decrements plus a compensation list.
type DeliveryService struct {
	requests  RequestStore
	inventory InventoryStore
	drafts    *DraftStore
	notifier  Notifier
	log       *zap.Logger
}

func NewDeliveryService(requests RequestStore, inventory InventoryStore, drafts *DraftStore, notifier Notifier, log *zap.Logger) *DeliveryService {
	return &DeliveryService{
		requests:  requests,
		inventory: inventory,
		drafts:    drafts,
		notifier:  notifier,
		log:       log,
	}
}

// SaveDraft stores the admin's per-part deliver quantities for a request.
// Values are kept raw and clamped when the plan is built.
func (s *DeliveryService) SaveDraft(requestID int64, adjustments map[string]int) {
	s.drafts.Save(requestID, adjustments)
}

func (s *DeliveryService) ClearDraft(requestID int64) {
	s.drafts.Clear(requestID)
}

// Plan previews what a delivery of the request would ship right now, with the
// current draft applied.
func (s *DeliveryService) Plan(requestID int64) (*DeliveryPlan, error) {
	req, err := s.requests.FetchRequest(requestID, models.RequestStatusApproved)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, preconditionError("request not found or already processed")
	}
	items, err := req.RequestItems()
	if err != nil {
		return nil, err
	}
	return BuildDeliveryPlan(items, s.drafts.Get(requestID)), nil
}

type undoEntry struct {
	partID string
	before int
	after  int
}

// Deliver runs the fulfillment sequence: re-fetch the request in approved
// status, build the final plan, verify stock sufficiency for every part, then
// decrement part by part with conditional updates, and finally flip the
// request to delivered under the same status guard. Any failure after the
// first decrement triggers a compensating restore of the parts already
// decremented.
func (s *DeliveryService) Deliver(requestID int64, adminID string) (*models.MonthlyRequest, error) {
	req, err := s.requests.FetchRequest(requestID, models.RequestStatusApproved)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, preconditionError("request not found or already processed")
	}

	items, err := req.RequestItems()
	if err != nil {
		return nil, err
	}
	plan := BuildDeliveryPlan(items, s.drafts.Get(requestID))
	if plan.Empty() {
		return nil, preconditionError("nothing to deliver")
	}

	partIDs := plan.ShippedPartIDs()
	parts, err := s.inventory.FetchInventoryParts(partIDs)
	if err != nil {
		return nil, err
	}
	partsByID := make(map[string]models.InventoryPart, len(parts))
	for _, p := range parts {
		partsByID[p.ID] = p
	}

	var missing []string
	var shortages []Shortage
	for _, line := range plan.Lines {
		if line.Deliver <= 0 {
			continue
		}
		part, ok := partsByID[line.PartID]
		if !ok {
			missing = append(missing, line.PartID)
			continue
		}
		if line.Deliver > part.TotalStock {
			shortages = append(shortages, Shortage{
				PartID:    line.PartID,
				Required:  line.Deliver,
				Available: part.TotalStock,
			})
		}
	}
	if len(missing) > 0 {
		return nil, preconditionError("part not found in inventory", missing...)
	}
	if len(shortages) > 0 {
		return nil, insufficientStockError(shortages)
	}

	// Commit phase. Decrements are applied part by part; each one is recorded
	// so a later failure can restore what was already taken.
	now := time.Now()
	var undo []undoEntry
	for _, line := range plan.Lines {
		if line.Deliver <= 0 {
			continue
		}
		part := partsByID[line.PartID]
		newValue := part.TotalStock - line.Deliver
		rows, err := s.inventory.ConditionalUpdateStock(line.PartID, part.TotalStock, newValue, now)
		if err != nil {
			if fatal := s.rollbackOrFatal(requestID, undo, now); fatal != nil {
				return nil, fatal
			}
			return nil, err
		}
		if rows == 0 {
			// Someone else moved the stock between our read and this write.
			// Stop here; parts already decremented are restored.
			if fatal := s.rollbackOrFatal(requestID, undo, now); fatal != nil {
				return nil, fatal
			}
			return nil, conflictError(
				fmt.Sprintf("stock for part %s changed while delivering — delivery aborted and stock restored, reload and retry", line.PartID),
				line.PartID,
			)
		}
		undo = append(undo, undoEntry{partID: line.PartID, before: part.TotalStock, after: newValue})
	}

	shipped := plan.ShippedItems()
	shippedJSON, err := models.MarshalItems(shipped)
	if err != nil {
		if fatal := s.rollbackOrFatal(requestID, undo, now); fatal != nil {
			return nil, fatal
		}
		return nil, err
	}

	fields := map[string]interface{}{
		"items":        shippedJSON,
		"delivered_by": adminID,
		"delivered_at": now,
	}
	if plan.Adjusted {
		fields["last_edited_by"] = adminID
		fields["last_edited_at"] = now
	}

	rows, err := s.requests.UpdateRequestStatus(requestID, models.RequestStatusApproved, models.RequestStatusDelivered, fields)
	if err != nil || rows == 0 {
		if fatal := s.rollbackOrFatal(requestID, undo, now); fatal != nil {
			return nil, fatal
		}
		if err != nil {
			return nil, err
		}
		return nil, conflictError("delivery failed, stock restored — the request was processed by someone else, reload")
	}

	s.drafts.Clear(requestID)

	s.notifier.Notify(req.EngineerID,
		"Monthly request delivered",
		fmt.Sprintf("Your part request for %s has been delivered.", req.Month),
		map[string]string{"request_id": strconv.FormatInt(int64(req.ID), 10)},
	)

	req.Status = models.RequestStatusDelivered
	req.Items = shippedJSON
	req.DeliveredBy = &adminID
	req.DeliveredAt = &now
	if plan.Adjusted {
		req.LastEditedBy = &adminID
		req.LastEditedAt = &now
	}
	return req, nil
}

// rollbackOrFatal restores every decrement in the undo list with a
// compensating conditional update keyed on the decremented value, so a third
// party's write in the meantime is detected instead of overwritten. It
// returns the fatal error when any restore misses; nil means the ledger is
// back to its pre-delivery state.
func (s *DeliveryService) rollbackOrFatal(requestID int64, undo []undoEntry, ts time.Time) *OpError {
	var failed []string
	for i := len(undo) - 1; i >= 0; i-- {
		entry := undo[i]
		rows, err := s.inventory.ConditionalUpdateStock(entry.partID, entry.after, entry.before, ts)
		if err != nil || rows == 0 {
			failed = append(failed, entry.partID)
			s.log.Error("compensating stock restore failed",
				zap.Int64("request_id", requestID),
				zap.String("part_id", entry.partID),
				zap.Int("expected", entry.after),
				zap.Int("restore_to", entry.before),
				zap.Error(err),
			)
		}
	}
	if len(failed) > 0 {
		return rollbackIncompleteError(failed)
	}
	if len(undo) > 0 {
		s.log.Warn("delivery rolled back",
			zap.Int64("request_id", requestID),
			zap.Int("parts_restored", len(undo)),
		)
	}
	return nil
}
