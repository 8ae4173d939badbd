package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/poornesh-v09/Milk-Management/internal/database"
	"github.com/poornesh-v09/Milk-Management/internal/models"
)

// MessageFilter narrows a message-log query. Zero values mean "any";
// Month uses -1 as the unset marker because month numbers start at 0.
type MessageFilter struct {
	CustomerID string
	Month      int
	Year       int
}

// MessageLogRepository defines data access for bill-notification logs
type MessageLogRepository interface {
	Create(ctx context.Context, log *models.MessageLog) error
	UpdateStatus(ctx context.Context, logID string, status models.MessageStatus) error
	List(ctx context.Context, filter MessageFilter) ([]models.MessageLog, error)
	ListPendingBefore(ctx context.Context, cutoff time.Time) ([]models.MessageLog, error)
}

type messageLogRepository struct {
	db *gorm.DB
}

// NewMessageLogRepository creates a new message-log repository
func NewMessageLogRepository(db *gorm.DB) MessageLogRepository {
	return &messageLogRepository{db: db}
}

func (r *messageLogRepository) Create(ctx context.Context, log *models.MessageLog) error {
	err := r.db.WithContext(ctx).Create(log).Error
	if database.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *messageLogRepository) UpdateStatus(ctx context.Context, logID string, status models.MessageStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.MessageLog{}).
		Where("log_id = ?", logID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *messageLogRepository) List(ctx context.Context, filter MessageFilter) ([]models.MessageLog, error) {
	q := r.db.WithContext(ctx).Model(&models.MessageLog{})
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Month >= 0 {
		q = q.Where("month = ?", filter.Month)
	}
	if filter.Year > 0 {
		q = q.Where("year = ?", filter.Year)
	}

	var logs []models.MessageLog
	if err := q.Order("timestamp DESC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *messageLogRepository) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]models.MessageLog, error) {
	var logs []models.MessageLog
	err := r.db.WithContext(ctx).
		Where("status = ? AND timestamp < ?", models.MessagePending, cutoff).
		Order("timestamp").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
