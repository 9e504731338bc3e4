package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"sparestock/models"
)

type deliveryFixture struct {
	requests  *fakeRequestStore
	inventory *fakeInventoryStore
	notifier  *fakeNotifier
	service   *DeliveryService
}

func newDeliveryFixture(requests *fakeRequestStore, inventory *fakeInventoryStore) *deliveryFixture {
	n := &fakeNotifier{}
	return &deliveryFixture{
		requests:  requests,
		inventory: inventory,
		notifier:  n,
		service:   NewDeliveryService(requests, inventory, NewDraftStore(), n, zap.NewNop()),
	}
}

func opErrorKind(t *testing.T, err error) ErrorKind {
	t.Helper()
	var opErr *OpError
	if !errors.As(err, &opErr) {
		t.Fatalf("expected *OpError, got %T: %v", err, err)
	}
	return opErr.Kind
}

func TestDeliverFullRequest(t *testing.T) {
	requests := newFakeRequestStore(newTestRequest(t, 100, "eng-1", models.RequestStatusApproved, []models.RequestItem{
		{PartID: "P1", Quantity: 5},
		{PartID: "P2", Quantity: 3},
	}))
	inventory := newFakeInventoryStore(
		models.InventoryPart{ID: "P1", PartName: "Part One", TotalStock: 10},
		models.InventoryPart{ID: "P2", PartName: "Part Two", TotalStock: 3},
	)
	fx := newDeliveryFixture(requests, inventory)

	req, err := fx.service.Deliver(100, "admin-1")
	if err != nil {
		t.Fatalf("Deliver failed: %v", err)
	}

	if got := inventory.stock(t, "P1"); got != 5 {
		t.Errorf("P1 stock = %d, want 5", got)
	}
	if got := inventory.stock(t, "P2"); got != 0 {
		t.Errorf("P2 stock = %d, want 0", got)
	}

	stored, _ := requests.GetByID(100)
	if stored.Status != models.RequestStatusDelivered {
		t.Errorf("status = %s, want delivered", stored.Status)
	}
	if stored.DeliveredBy == nil || *stored.DeliveredBy != "admin-1" {
		t.Error("delivered_by not stamped")
	}
	if stored.LastEditedBy != nil {
		t.Error("last_edited_by must not be stamped for an unadjusted delivery")
	}

	items := mustItems(t, stored)
	if len(items) != 2 || items[0] != (models.RequestItem{PartID: "P1", Quantity: 5}) || items[1] != (models.RequestItem{PartID: "P2", Quantity: 3}) {
		t.Errorf("stored items = %+v", items)
	}

	if req.Status != models.RequestStatusDelivered {
		t.Errorf("returned request status = %s", req.Status)
	}
	if fx.notifier.count() != 1 {
		t.Errorf("expected exactly one notification, got %d", fx.notifier.count())
	}
}

func TestDeliverInsufficientStockAbortsBeforeAnyMutation(t *testing.T) {
	requests := newFakeRequestStore(newTestRequest(t, 100, "eng-1", models.RequestStatusApproved, []models.RequestItem{
		{PartID: "P1", Quantity: 5},
		{PartID: "P2", Quantity: 3},
	}))
	inventory := newFakeInventoryStore(
		models.InventoryPart{ID: "P1", TotalStock: 10},
		models.InventoryPart{ID: "P2", TotalStock: 2},
	)
	fx := newDeliveryFixture(requests, inventory)

	_, err := fx.service.Deliver(100, "admin-1")
	if kind := opErrorKind(t, err); kind != KindPrecondition {
		t.Errorf("kind = %s, want precondition", kind)
	}

	var opErr *OpError
	errors.As(err, &opErr)
	if len(opErr.Shortages) != 1 {
		t.Fatalf("expected 1 shortage, got %+v", opErr.Shortages)
	}
	sh := opErr.Shortages[0]
	if sh.PartID != "P2" || sh.Required != 3 || sh.Available != 2 {
		t.Errorf("shortage = %+v, want {P2 3 2}", sh)
	}

	if inventory.casCalls != 0 {
		t.Errorf("no conditional update may run on a failed precondition, got %d", inventory.casCalls)
	}
	if got := inventory.stock(t, "P1"); got != 10 {
		t.Errorf("P1 stock = %d, want 10 untouched", got)
	}
	stored, _ := requests.GetByID(100)
	if stored.Status != models.RequestStatusApproved {
		t.Errorf("status = %s, want approved", stored.Status)
	}
}

func TestDeliverReportsAllInsufficientParts(t *testing.T) {
	requests := newFakeRequestStore(newTestRequest(t, 100, "eng-1", models.RequestStatusApproved, []models.RequestItem{
		{PartID: "P1", Quantity: 5},
		{PartID: "P2", Quantity: 3},
	}))
	inventory := newFakeInventoryStore(
		models.InventoryPart{ID: "P1", TotalStock: 1},
		models.InventoryPart{ID: "P2", TotalStock: 0},
	)
	fx := newDeliveryFixture(requests, inventory)

	_, err := fx.service.Deliver(100, "admin-1")
	var opErr *OpError
	if !errors.As(err, &opErr) {
		t.Fatalf("expected *OpError, got %v", err)
	}
	if len(opErr.Shortages) != 2 {
		t.Errorf("must report every insufficient part, got %+v", opErr.Shortages)
	}
}

func TestDeliverAdjustedQuantities(t *testing.T) {
	requests := newFakeRequestStore(newTestRequest(t, 100, "eng-1", models.RequestStatusApproved, []models.RequestItem{
		{PartID: "P1", Quantity: 5},
		{PartID: "P2", Quantity: 3},
	}))
	inventory := newFakeInventoryStore(
		models.InventoryPart{ID: "P1", TotalStock: 10},
		models.InventoryPart{ID: "P2", TotalStock: 3},
	)
	fx := newDeliveryFixture(requests, inventory)

	fx.service.SaveDraft(100, map[string]int{"P1": 2})

	_, err := fx.service.Deliver(100, "admin-1")
	if err != nil {
		t.Fatalf("Deliver failed: %v", err)
	}

	if got := inventory.stock(t, "P1"); got != 8 {
		t.Errorf("P1 stock = %d, want 8 (decrement by adjusted 2, not requested 5)", got)
	}

	stored, _ := requests.GetByID(100)
	items := mustItems(t, stored)
	if items[0] != (models.RequestItem{PartID: "P1", Quantity: 2}) {
		t.Errorf("stored item = %+v, want {P1 2}", items[0])
	}
	if stored.LastEditedBy == nil || *stored.LastEditedBy != "admin-1" {
		t.Error("last_edited_by must be stamped when delivered quantities differ")
	}

	// Committed deliveries discard their draft.
	if fx.service.drafts.Get(100) != nil {
		t.Error("draft must be cleared after commit")
	}
}

func TestDeliverNothingToDeliver(t *testing.T) {
	requests := newFakeRequestStore(newTestRequest(t, 100, "eng-1", models.RequestStatusApproved, []models.RequestItem{
		{PartID: "P1", Quantity: 5},
	}))
	inventory := newFakeInventoryStore(models.InventoryPart{ID: "P1", TotalStock: 10})
	fx := newDeliveryFixture(requests, inventory)

	fx.service.SaveDraft(100, map[string]int{"P1": 0})

	_, err := fx.service.Deliver(100, "admin-1")
	if kind := opErrorKind(t, err); kind != KindPrecondition {
		t.Errorf("kind = %s, want precondition", kind)
	}
	if inventory.casCalls != 0 {
		t.Error("nothing-to-deliver must not touch the ledger")
	}
}

func TestDeliverMissingPart(t *testing.T) {
	requests := newFakeRequestStore(newTestRequest(t, 100, "eng-1", models.RequestStatusApproved, []models.RequestItem{
		{PartID: "P1", Quantity: 1},
		{PartID: "GHOST", Quantity: 1},
	}))
	inventory := newFakeInventoryStore(models.InventoryPart{ID: "P1", TotalStock: 10})
	fx := newDeliveryFixture(requests, inventory)

	_, err := fx.service.Deliver(100, "admin-1")
	var opErr *OpError
	if !errors.As(err, &opErr) {
		t.Fatalf("expected *OpError, got %v", err)
	}
	if opErr.Kind != KindPrecondition {
		t.Errorf("kind = %s, want precondition", opErr.Kind)
	}
	if len(opErr.PartIDs) != 1 || opErr.PartIDs[0] != "GHOST" {
		t.Errorf("part ids = %v, want [GHOST]", opErr.PartIDs)
	}
	if got := inventory.stock(t, "P1"); got != 10 {
		t.Errorf("P1 stock = %d, want 10 untouched", got)
	}
}

func TestDeliverAlreadyProcessed(t *testing.T) {
	requests := newFakeRequestStore(newTestRequest(t, 100, "eng-1", models.RequestStatusDelivered, []models.RequestItem{
		{PartID: "P1", Quantity: 5},
	}))
	inventory := newFakeInventoryStore(models.InventoryPart{ID: "P1", TotalStock: 10})
	fx := newDeliveryFixture(requests, inventory)

	_, err := fx.service.Deliver(100, "admin-1")
	if kind := opErrorKind(t, err); kind != KindPrecondition {
		t.Errorf("kind = %s, want precondition", kind)
	}
}

func TestDeliverMidFlightConflictRollsBack(t *testing.T) {
	requests := newFakeRequestStore(newTestRequest(t, 100, "eng-1", models.RequestStatusApproved, []models.RequestItem{
		{PartID: "P1", Quantity: 5},
		{PartID: "P2", Quantity: 3},
	}))
	inventory := newFakeInventoryStore(
		models.InventoryPart{ID: "P1", TotalStock: 10},
		models.InventoryPart{ID: "P2", TotalStock: 3},
	)
	// P2's decrement misses, as if another admin moved its stock between our
	// read and our write. P1 has already been decremented at that point.
	inventory.casHook = func(partID string, expectedPrevious, newValue int) (int64, error, bool) {
		if partID == "P2" && newValue < expectedPrevious {
			return 0, nil, true
		}
		return 0, nil, false
	}
	fx := newDeliveryFixture(requests, inventory)

	_, err := fx.service.Deliver(100, "admin-1")
	if kind := opErrorKind(t, err); kind != KindConflict {
		t.Errorf("kind = %s, want conflict", kind)
	}

	if got := inventory.stock(t, "P1"); got != 10 {
		t.Errorf("P1 stock = %d, want 10 after compensating restore", got)
	}
	if got := inventory.stock(t, "P2"); got != 3 {
		t.Errorf("P2 stock = %d, want 3 untouched", got)
	}
	stored, _ := requests.GetByID(100)
	if stored.Status != models.RequestStatusApproved {
		t.Errorf("status = %s, want approved after aborted delivery", stored.Status)
	}
	if fx.notifier.count() != 0 {
		t.Error("failed delivery must not notify")
	}
}

func TestDeliverTerminalTransitionLostRaceRollsBackAll(t *testing.T) {
	requests := newFakeRequestStore(newTestRequest(t, 100, "eng-1", models.RequestStatusApproved, []models.RequestItem{
		{PartID: "P1", Quantity: 5},
		{PartID: "P2", Quantity: 3},
	}))
	requests.failStatusUpdate = true
	inventory := newFakeInventoryStore(
		models.InventoryPart{ID: "P1", TotalStock: 10},
		models.InventoryPart{ID: "P2", TotalStock: 3},
	)
	fx := newDeliveryFixture(requests, inventory)

	_, err := fx.service.Deliver(100, "admin-1")
	if kind := opErrorKind(t, err); kind != KindConflict {
		t.Errorf("kind = %s, want conflict", kind)
	}

	if got := inventory.stock(t, "P1"); got != 10 {
		t.Errorf("P1 stock = %d, want 10 restored", got)
	}
	if got := inventory.stock(t, "P2"); got != 3 {
		t.Errorf("P2 stock = %d, want 3 restored", got)
	}
	if got := inventory.stock(t, "P1"); got < 0 {
		t.Errorf("total_stock must never be negative, got %d", got)
	}
}

func TestDeliverRollbackFailureIsFatal(t *testing.T) {
	requests := newFakeRequestStore(newTestRequest(t, 100, "eng-1", models.RequestStatusApproved, []models.RequestItem{
		{PartID: "P1", Quantity: 5},
	}))
	requests.failStatusUpdate = true
	inventory := newFakeInventoryStore(models.InventoryPart{ID: "P1", TotalStock: 10})
	// Restores increment stock; make them miss, as if a third party mutated
	// the row again after our decrement.
	inventory.casHook = func(partID string, expectedPrevious, newValue int) (int64, error, bool) {
		if newValue > expectedPrevious {
			return 0, nil, true
		}
		return 0, nil, false
	}
	fx := newDeliveryFixture(requests, inventory)

	_, err := fx.service.Deliver(100, "admin-1")
	var opErr *OpError
	if !errors.As(err, &opErr) {
		t.Fatalf("expected *OpError, got %v", err)
	}
	if opErr.Kind != KindFatal {
		t.Errorf("kind = %s, want fatal", opErr.Kind)
	}
	if len(opErr.PartIDs) != 1 || opErr.PartIDs[0] != "P1" {
		t.Errorf("fatal error must carry the unrestored parts, got %v", opErr.PartIDs)
	}
}

func TestDeliverConcurrentAtMostOnce(t *testing.T) {
	requests := newFakeRequestStore(newTestRequest(t, 100, "eng-1", models.RequestStatusApproved, []models.RequestItem{
		{PartID: "P1", Quantity: 5},
	}))
	inventory := newFakeInventoryStore(models.InventoryPart{ID: "P1", TotalStock: 10})
	fx := newDeliveryFixture(requests, inventory)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := fx.service.Deliver(100, "admin-1")
			results[i] = err
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		var opErr *OpError
		if !errors.As(err, &opErr) {
			t.Fatalf("loser must fail with *OpError, got %v", err)
		}
		if opErr.Kind != KindPrecondition && opErr.Kind != KindConflict {
			t.Errorf("loser kind = %s, want precondition or conflict", opErr.Kind)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly one successful delivery, got %d", successes)
	}

	if got := inventory.stock(t, "P1"); got != 5 {
		t.Errorf("P1 stock = %d, want 5 (never double-decremented)", got)
	}
	stored, _ := requests.GetByID(100)
	if stored.Status != models.RequestStatusDelivered {
		t.Errorf("status = %s, want delivered", stored.Status)
	}
}

func TestPlanPreviewAppliesDraft(t *testing.T) {
	requests := newFakeRequestStore(newTestRequest(t, 100, "eng-1", models.RequestStatusApproved, []models.RequestItem{
		{PartID: "P1", Quantity: 5},
	}))
	inventory := newFakeInventoryStore(models.InventoryPart{ID: "P1", TotalStock: 10})
	fx := newDeliveryFixture(requests, inventory)

	fx.service.SaveDraft(100, map[string]int{"P1": 12})
	plan, err := fx.service.Plan(100)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if plan.Lines[0].Deliver != 5 {
		t.Errorf("over-requested draft must clamp to requested: got %d", plan.Lines[0].Deliver)
	}

	fx.service.ClearDraft(100)
	plan, err = fx.service.Plan(100)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if plan.Adjusted {
		t.Error("cleared draft must leave the plan unadjusted")
	}
}

func TestPlanOfProcessedRequestFails(t *testing.T) {
	requests := newFakeRequestStore(newTestRequest(t, 100, "eng-1", models.RequestStatusPending, []models.RequestItem{
		{PartID: "P1", Quantity: 5},
	}))
	fx := newDeliveryFixture(requests, newFakeInventoryStore())

	_, err := fx.service.Plan(100)
	if kind := opErrorKind(t, err); kind != KindPrecondition {
		t.Errorf("kind = %s, want precondition", kind)
	}
}

// Deliveries stamp last_updated on every decrement; make sure the timestamp
// written to the ledger is the one passed through the store call.
func TestDeliverStampsLedgerTimestamp(t *testing.T) {
	requests := newFakeRequestStore(newTestRequest(t, 100, "eng-1", models.RequestStatusApproved, []models.RequestItem{
		{PartID: "P1", Quantity: 1},
	}))
	inventory := newFakeInventoryStore(models.InventoryPart{ID: "P1", TotalStock: 1})
	fx := newDeliveryFixture(requests, inventory)

	before := time.Now()
	if _, err := fx.service.Deliver(100, "admin-1"); err != nil {
		t.Fatalf("Deliver failed: %v", err)
	}

	inventory.mu.Lock()
	updated := inventory.parts["P1"].LastUpdated
	inventory.mu.Unlock()
	if updated.Before(before) {
		t.Errorf("last_updated %v predates the delivery", updated)
	}
}
