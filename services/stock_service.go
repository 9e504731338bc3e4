package services

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"sparestock/controllers/idgen"
	"sparestock/models"
	"sparestock/types"
)

// StockService handles engineer-initiated corrections of their own on-hand
// quantities. A correction overwrites the quantity and appends exactly one
// audit row; the two writes go through one transactional store call with the
// audit insert first, since the upsert alone is not self-auditing.
type StockService struct {
	stock    EngineerStockStore
	profiles ProfileStore
	log      *zap.Logger
}

func NewStockService(stock EngineerStockStore, profiles ProfileStore, log *zap.Logger) *StockService {
	return &StockService{stock: stock, profiles: profiles, log: log}
}

// Correct overwrites the engineer's on-hand quantity for a part with a
// mandatory free-text justification.
func (s *StockService) Correct(engineerID, partID string, newQuantity int, reason string) (*models.StockAdjustment, error) {
	if strings.TrimSpace(partID) == "" {
		return nil, validationError("part_id is required")
	}
	if newQuantity < 0 {
		return nil, validationError("quantity must not be negative")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, validationError("a reason is required for stock corrections")
	}

	current, err := s.stock.Get(engineerID, partID)
	if err != nil {
		return nil, err
	}
	previous := 0
	var minStock *int
	if current != nil {
		previous = current.Quantity
		minStock = current.MinStock
	}

	areaGroup := ""
	if profile, err := s.profiles.GetByID(engineerID); err == nil && profile != nil {
		areaGroup = strings.ToUpper(profile.AreaGroup)
	}

	now := time.Now()
	stock := &models.EngineerStock{
		EngineerID: engineerID,
		PartID:     partID,
		Quantity:   newQuantity,
		MinStock:   minStock,
		LastSync:   now,
	}
	adj := &models.StockAdjustment{
		ID:               types.SnowflakeID(idgen.GenerateID()),
		EngineerID:       engineerID,
		PartID:           partID,
		PreviousQuantity: previous,
		NewQuantity:      newQuantity,
		Delta:            newQuantity - previous,
		Reason:           reason,
		AreaGroup:        areaGroup,
		CreatedAt:        now,
	}

	if err := s.stock.ApplyCorrection(stock, adj); err != nil {
		return nil, err
	}

	s.log.Info("engineer stock corrected",
		zap.String("engineer_id", engineerID),
		zap.String("part_id", partID),
		zap.Int("previous", previous),
		zap.Int("new", newQuantity),
	)
	return adj, nil
}

// SetMinStock updates the engineer's personal reorder threshold for a part
// without touching the quantity or the audit trail.
func (s *StockService) SetMinStock(engineerID, partID string, minStock int) error {
	if minStock < 0 {
		return validationError("min_stock must not be negative")
	}
	current, err := s.stock.Get(engineerID, partID)
	if err != nil {
		return err
	}
	stock := &models.EngineerStock{
		EngineerID: engineerID,
		PartID:     partID,
		MinStock:   &minStock,
		LastSync:   time.Now(),
	}
	if current != nil {
		stock.Quantity = current.Quantity
	}
	return s.stock.Upsert(stock)
}
