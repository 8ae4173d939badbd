package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/poornesh-v09/Milk-Management/internal/database"
	"github.com/poornesh-v09/Milk-Management/internal/models"
)

// CustomerRepository defines data access for customers
type CustomerRepository interface {
	List(ctx context.Context) ([]models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, customer *models.Customer) error
	FindByCustomerID(ctx context.Context, customerID string) (*models.Customer, error)
	ListActiveByAssignee(ctx context.Context, memberID string) ([]models.Customer, error)
	ListActive(ctx context.Context) ([]models.Customer, error)
	Count(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) List(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := r.db.WithContext(ctx).Order("customer_id").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	err := r.db.WithContext(ctx).Create(customer).Error
	if database.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *customerRepository) Update(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

func (r *customerRepository) FindByCustomerID(ctx context.Context, customerID string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&customer).Error
	if err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) ListActiveByAssignee(ctx context.Context, memberID string) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.WithContext(ctx).
		Where("assigned_to = ? AND is_active = ?", memberID, true).
		Order("customer_id").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *customerRepository) ListActive(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("customer_id").Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *customerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&count).Error
	return count, err
}

func (r *customerRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}
