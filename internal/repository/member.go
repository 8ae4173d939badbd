package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/poornesh-v09/Milk-Management/internal/database"
	"github.com/poornesh-v09/Milk-Management/internal/models"
)

// MemberRepository defines data access for delivery members
type MemberRepository interface {
	List(ctx context.Context) ([]models.DeliveryMember, error)
	Create(ctx context.Context, member *models.DeliveryMember) error
	Update(ctx context.Context, member *models.DeliveryMember) error
	FindByMemberID(ctx context.Context, memberID string) (*models.DeliveryMember, error)
	Count(ctx context.Context) (int64, error)
}

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new delivery-member repository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) List(ctx context.Context) ([]models.DeliveryMember, error) {
	var members []models.DeliveryMember
	if err := r.db.WithContext(ctx).Order("member_id").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *memberRepository) Create(ctx context.Context, member *models.DeliveryMember) error {
	err := r.db.WithContext(ctx).Create(member).Error
	if database.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *memberRepository) Update(ctx context.Context, member *models.DeliveryMember) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *memberRepository) FindByMemberID(ctx context.Context, memberID string) (*models.DeliveryMember, error) {
	var member models.DeliveryMember
	err := r.db.WithContext(ctx).Where("member_id = ?", memberID).First(&member).Error
	if err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DeliveryMember{}).Count(&count).Error
	return count, err
}
