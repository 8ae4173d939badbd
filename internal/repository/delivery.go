package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/poornesh-v09/Milk-Management/internal/models"
)

// DeliveryFilter narrows a delivery-record query. Zero values mean "any".
type DeliveryFilter struct {
	Date       string
	CustomerID string
	// MonthPrefix is a "YYYY-MM" string; matching is by date-string prefix.
	MonthPrefix string
}

// DeliveryRepository defines data access for delivery records
type DeliveryRepository interface {
	Query(ctx context.Context, filter DeliveryFilter) ([]models.DeliveryRecord, error)
	Upsert(ctx context.Context, record *models.DeliveryRecord) error
	BulkUpsert(ctx context.Context, records []models.DeliveryRecord) error
}

type deliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository creates a new delivery-record repository
func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) Query(ctx context.Context, filter DeliveryFilter) ([]models.DeliveryRecord, error) {
	q := r.db.WithContext(ctx).Model(&models.DeliveryRecord{})
	if filter.Date != "" {
		q = q.Where("date = ?", filter.Date)
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.MonthPrefix != "" {
		q = q.Where("date LIKE ?", filter.MonthPrefix+"%")
	}

	var records []models.DeliveryRecord
	if err := q.Order("date, customer_id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Upsert inserts the record, replacing an existing row with the same
// business id. The store's atomic upsert is the only write coordination.
func (r *deliveryRepository) Upsert(ctx context.Context, record *models.DeliveryRecord) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"date", "customer_id", "items", "updated_at"}),
	}).Create(record).Error
}

// BulkUpsert applies each record independently. A mid-batch failure leaves
// earlier records applied; callers treat the batch as best-effort.
func (r *deliveryRepository) BulkUpsert(ctx context.Context, records []models.DeliveryRecord) error {
	for i := range records {
		if err := r.Upsert(ctx, &records[i]); err != nil {
			return err
		}
	}
	return nil
}
