package repositories

import (
	"errors"

	"gorm.io/gorm"

	"sparestock/models"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db}
}

func (r *RequestRepository) Create(req *models.MonthlyRequest) error {
	return r.db.Create(req).Error
}

func (r *RequestRepository) GetByID(id int64) (*models.MonthlyRequest, error) {
	var req models.MonthlyRequest
	if err := r.db.First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// FetchRequest returns the request only while it still has the given status.
func (r *RequestRepository) FetchRequest(id int64, status string) (*models.MonthlyRequest, error) {
	var req models.MonthlyRequest
	err := r.db.Where("id = ? AND status = ?", id, status).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// UpdateRequestStatus performs the guarded transition: the WHERE clause keeps
// the status predicate so a request that moved on under a concurrent caller
// yields zero affected rows instead of a lost update.
func (r *RequestRepository) UpdateRequestStatus(id int64, fromStatus, toStatus string, fields map[string]interface{}) (int64, error) {
	updates := map[string]interface{}{"status": toStatus}
	for column, value := range fields {
		updates[column] = value
	}
	res := r.db.Model(&models.MonthlyRequest{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *RequestRepository) ListByEngineer(engineerID string) ([]models.MonthlyRequest, error) {
	var reqs []models.MonthlyRequest
	err := r.db.Where("engineer_id = ?", engineerID).
		Order("submitted_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *RequestRepository) ListByStatus(status string) ([]models.MonthlyRequest, error) {
	var reqs []models.MonthlyRequest
	err := r.db.Where("status = ?", status).
		Order("submitted_at ASC").
		Find(&reqs).Error
	return reqs, err
}
