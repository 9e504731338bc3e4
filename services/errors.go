package services

// ErrorKind classifies failures of ledger-mutating operations so callers can
// render them differently: precondition failures are retryable after the
// situation is corrected, conflicts mean the caller's view is stale and a
// reload is needed, fatal means manual stock reconciliation is required.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindPrecondition ErrorKind = "precondition"
	KindConflict     ErrorKind = "conflict"
	KindFatal        ErrorKind = "fatal"
)

// Shortage reports one part whose required quantity exceeds available stock.
type Shortage struct {
	PartID    string `json:"part_id"`
	Required  int    `json:"required"`
	Available int    `json:"available"`
}

// OpError carries the error kind, a human-readable message, and the affected
// part detail a caller needs to render an informative message.
type OpError struct {
	Kind      ErrorKind  `json:"kind"`
	Message   string     `json:"message"`
	PartIDs   []string   `json:"part_ids,omitempty"`
	Shortages []Shortage `json:"shortages,omitempty"`
}

func (e *OpError) Error() string {
	return e.Message
}

func validationError(msg string) *OpError {
	return &OpError{Kind: KindValidation, Message: msg}
}

func preconditionError(msg string, partIDs ...string) *OpError {
	return &OpError{Kind: KindPrecondition, Message: msg, PartIDs: partIDs}
}

func insufficientStockError(shortages []Shortage) *OpError {
	ids := make([]string, 0, len(shortages))
	for _, s := range shortages {
		ids = append(ids, s.PartID)
	}
	return &OpError{
		Kind:      KindPrecondition,
		Message:   "insufficient stock for one or more parts",
		PartIDs:   ids,
		Shortages: shortages,
	}
}

func conflictError(msg string, partIDs ...string) *OpError {
	return &OpError{Kind: KindConflict, Message: msg, PartIDs: partIDs}
}

func rollbackIncompleteError(partIDs []string) *OpError {
	return &OpError{
		Kind:    KindFatal,
		Message: "rollback incomplete — stock may be inconsistent, manual reconciliation required",
		PartIDs: partIDs,
	}
}
