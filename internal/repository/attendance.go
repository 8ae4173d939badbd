package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/poornesh-v09/Milk-Management/internal/database"
	"github.com/poornesh-v09/Milk-Management/internal/models"
)

// AttendanceFilter narrows an attendance query. Zero values mean "any".
// Date, DatePrefix and the StartDate/EndDate range are mutually exclusive;
// the first one set wins, in that order.
type AttendanceFilter struct {
	DeliveryPersonID string
	Date             string
	DatePrefix       string
	StartDate        string
	EndDate          string
}

// AttendanceRepository defines data access for attendance submissions
type AttendanceRepository interface {
	Create(ctx context.Context, attendance *models.Attendance) error
	FindByDateAndPerson(ctx context.Context, date, deliveryPersonID string) (*models.Attendance, error)
	FindByID(ctx context.Context, id uint) (*models.Attendance, error)
	List(ctx context.Context, filter AttendanceFilter) ([]models.Attendance, error)
	ListByDatePrefix(ctx context.Context, prefix string) ([]models.Attendance, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Create inserts a submission. The compound unique index on
// (date, delivery_person_id) rejects a second submission for the same day.
func (r *attendanceRepository) Create(ctx context.Context, attendance *models.Attendance) error {
	err := r.db.WithContext(ctx).Create(attendance).Error
	if database.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *attendanceRepository) FindByDateAndPerson(ctx context.Context, date, deliveryPersonID string) (*models.Attendance, error) {
	var attendance models.Attendance
	err := r.db.WithContext(ctx).
		Where("date = ? AND delivery_person_id = ?", date, deliveryPersonID).
		First(&attendance).Error
	if err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &attendance, nil
}

func (r *attendanceRepository) FindByID(ctx context.Context, id uint) (*models.Attendance, error) {
	var attendance models.Attendance
	err := r.db.WithContext(ctx).First(&attendance, id).Error
	if err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &attendance, nil
}

func (r *attendanceRepository) List(ctx context.Context, filter AttendanceFilter) ([]models.Attendance, error) {
	q := r.db.WithContext(ctx).Model(&models.Attendance{})
	if filter.DeliveryPersonID != "" {
		q = q.Where("delivery_person_id = ?", filter.DeliveryPersonID)
	}
	switch {
	case filter.Date != "":
		q = q.Where("date = ?", filter.Date)
	case filter.DatePrefix != "":
		q = q.Where("date LIKE ?", filter.DatePrefix+"%")
	case filter.StartDate != "" && filter.EndDate != "":
		q = q.Where("date >= ? AND date <= ?", filter.StartDate, filter.EndDate)
	}

	var records []models.Attendance
	if err := q.Order("date DESC, delivery_person_id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *attendanceRepository) ListByDatePrefix(ctx context.Context, prefix string) ([]models.Attendance, error) {
	var records []models.Attendance
	err := r.db.WithContext(ctx).Where("date LIKE ?", prefix+"%").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
