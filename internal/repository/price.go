package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/poornesh-v09/Milk-Management/internal/database"
	"github.com/poornesh-v09/Milk-Management/internal/models"
)

// PriceRepository defines data access for product prices
type PriceRepository interface {
	List(ctx context.Context) ([]models.Price, error)
	Create(ctx context.Context, price *models.Price) error
	DeleteByProduct(ctx context.Context, product string) error
	BulkUpsert(ctx context.Context, prices []models.Price) error
	FindByProduct(ctx context.Context, product string) (*models.Price, error)
	Count(ctx context.Context) (int64, error)
}

type priceRepository struct {
	db *gorm.DB
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(db *gorm.DB) PriceRepository {
	return &priceRepository{db: db}
}

func (r *priceRepository) List(ctx context.Context) ([]models.Price, error) {
	var prices []models.Price
	if err := r.db.WithContext(ctx).Order("product").Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

func (r *priceRepository) Create(ctx context.Context, price *models.Price) error {
	err := r.db.WithContext(ctx).Create(price).Error
	if database.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *priceRepository) DeleteByProduct(ctx context.Context, product string) error {
	res := r.db.WithContext(ctx).Where("product = ?", product).Delete(&models.Price{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// BulkUpsert applies each price keyed by product, inserting missing rows.
// Rows are applied one by one; the batch is not all-or-nothing.
func (r *priceRepository) BulkUpsert(ctx context.Context, prices []models.Price) error {
	for i := range prices {
		err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product"}},
			DoUpdates: clause.AssignmentColumns([]string{"price", "updated_at"}),
		}).Create(&prices[i]).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *priceRepository) FindByProduct(ctx context.Context, product string) (*models.Price, error) {
	var price models.Price
	err := r.db.WithContext(ctx).Where("product = ?", product).First(&price).Error
	if err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &price, nil
}

func (r *priceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Price{}).Count(&count).Error
	return count, err
}
