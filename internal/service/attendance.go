package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/poornesh-v09/Milk-Management/internal/models"
	"github.com/poornesh-v09/Milk-Management/internal/repository"
	"github.com/poornesh-v09/Milk-Management/internal/utils"
)

// AttendanceSheet is the unsubmitted template for one member and date.
// It is advisory; the submission is stored as sent, without re-validating
// entries against live subscriptions.
type AttendanceSheet struct {
	Date               string                   `json:"date"`
	DeliveryPersonID   string                   `json:"deliveryPersonId"`
	DeliveryPersonName string                   `json:"deliveryPersonName"`
	Entries            []models.AttendanceEntry `json:"entries"`
	PricePerLiter      float64                  `json:"pricePerLiter"`
}

// AttendanceCheck reports whether a sheet was already submitted
type AttendanceCheck struct {
	Exists     bool               `json:"exists"`
	Attendance *models.Attendance `json:"attendance"`
}

// AttendanceInput is a submission payload
type AttendanceInput struct {
	Date               string                   `json:"date"`
	DeliveryPersonID   string                   `json:"deliveryPersonId"`
	DeliveryPersonName string                   `json:"deliveryPersonName"`
	Entries            []models.AttendanceEntry `json:"entries"`
}

// AttendanceQuery narrows a history lookup. Filters apply in order of
// precedence: Date, then Month+Year, then Year, then StartDate+EndDate.
// Month arrives one-indexed here, unlike the delivery and report queries.
type AttendanceQuery struct {
	Date             string
	Month            string
	Year             string
	StartDate        string
	EndDate          string
	CustomerName     string
	DeliveryPersonID string
}

func (s *service) GetAttendanceSheet(ctx context.Context, deliveryPersonID, date string) (*AttendanceSheet, error) {
	member, err := s.members.FindByMemberID(ctx, deliveryPersonID)
	if err != nil {
		return nil, errors.Wrap(err, "delivery person lookup failed")
	}

	customers, err := s.customers.ListActiveByAssignee(ctx, deliveryPersonID)
	if err != nil {
		return nil, err
	}

	pricePerLiter := float64(models.DefaultMilkPrice)
	if milk, err := s.prices.FindByProduct(ctx, models.ProductMilk); err == nil {
		pricePerLiter = milk.Price
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	entries := make([]models.AttendanceEntry, 0, len(customers))
	for _, customer := range customers {
		var fixed float64
		for _, sub := range customer.Subscriptions {
			if sub.Product == models.ProductMilk {
				fixed = sub.Quantity
				break
			}
		}
		shift := customer.DeliveryShift
		if len(shift) == 0 {
			shift = []models.Shift{models.ShiftMorning}
		}
		entries = append(entries, models.AttendanceEntry{
			CustomerID:        customer.CustomerID,
			CustomerName:      customer.Name,
			FixedQuantity:     fixed,
			DeliveredQuantity: fixed,
			Status:            models.StatusDelivered,
			PricePerLiter:     pricePerLiter,
			DeliveryShift:     shift,
		})
	}

	return &AttendanceSheet{
		Date:               date,
		DeliveryPersonID:   deliveryPersonID,
		DeliveryPersonName: member.Name,
		Entries:            entries,
		PricePerLiter:      pricePerLiter,
	}, nil
}

func (s *service) CheckAttendance(ctx context.Context, deliveryPersonID, date string) (*AttendanceCheck, error) {
	attendance, err := s.attendance.FindByDateAndPerson(ctx, date, deliveryPersonID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &AttendanceCheck{Exists: false}, nil
		}
		return nil, err
	}
	return &AttendanceCheck{Exists: true, Attendance: attendance}, nil
}

// SubmitAttendance stores a submission. A sheet for the same (date, person)
// pair can only be submitted once; a second attempt is rejected and the
// original record is left untouched.
func (s *service) SubmitAttendance(ctx context.Context, input AttendanceInput) (*models.Attendance, error) {
	if input.Date == "" || input.DeliveryPersonID == "" || input.DeliveryPersonName == "" || input.Entries == nil {
		return nil, invalidf("missing required fields")
	}
	if !utils.IsValidDate(input.Date) {
		return nil, invalidf("date must be YYYY-MM-DD, got %q", input.Date)
	}

	txn := s.startTransaction("submit-attendance")
	defer s.endTransaction(txn)
	s.addAttribute(txn, "delivery_person_id", input.DeliveryPersonID)

	attendance := models.Attendance{
		Date:               input.Date,
		DeliveryPersonID:   input.DeliveryPersonID,
		DeliveryPersonName: input.DeliveryPersonName,
		Entries:            input.Entries,
		SubmittedAt:        time.Now(),
	}
	if err := utils.ValidateStruct(&attendance); err != nil {
		return nil, invalidf("invalid attendance: %v", err)
	}

	// Pre-check for a friendlier conflict; the unique index is the backstop
	// against two submissions racing.
	if _, err := s.attendance.FindByDateAndPerson(ctx, input.Date, input.DeliveryPersonID); err == nil {
		return nil, repository.ErrDuplicate
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.recordError(txn, err)
		return nil, err
	}

	if err := s.attendance.Create(ctx, &attendance); err != nil {
		s.recordError(txn, err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, dashboardCacheKey); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate dashboard stats cache")
		}
	}

	log.Info().
		Str("date", attendance.Date).
		Str("delivery_person_id", attendance.DeliveryPersonID).
		Int("entries", len(attendance.Entries)).
		Msg("Attendance submitted")

	return &attendance, nil
}

func attendanceFilter(query AttendanceQuery) (repository.AttendanceFilter, error) {
	filter := repository.AttendanceFilter{DeliveryPersonID: query.DeliveryPersonID}
	switch {
	case query.Date != "":
		filter.Date = query.Date
	case query.Year != "" && query.Month != "":
		m, err := strconv.Atoi(query.Month)
		if err != nil {
			return filter, invalidf("month must be a number, got %q", query.Month)
		}
		filter.DatePrefix = fmt.Sprintf("%s-%02d", query.Year, m)
	case query.Year != "":
		filter.DatePrefix = query.Year
	case query.StartDate != "" && query.EndDate != "":
		filter.StartDate = query.StartDate
		filter.EndDate = query.EndDate
	}
	return filter, nil
}

// filterByCustomerName keeps only entries whose customer name contains the
// needle, dropping records left empty.
func filterByCustomerName(records []models.Attendance, name string) []models.Attendance {
	needle := strings.ToLower(name)
	filtered := make([]models.Attendance, 0, len(records))
	for _, record := range records {
		var entries []models.AttendanceEntry
		for _, entry := range record.Entries {
			if strings.Contains(strings.ToLower(entry.CustomerName), needle) {
				entries = append(entries, entry)
			}
		}
		if len(entries) > 0 {
			record.Entries = entries
			filtered = append(filtered, record)
		}
	}
	return filtered
}

func (s *service) AttendanceHistory(ctx context.Context, deliveryPersonID string, query AttendanceQuery) ([]models.Attendance, error) {
	query.DeliveryPersonID = deliveryPersonID
	filter, err := attendanceFilter(query)
	if err != nil {
		return nil, err
	}
	records, err := s.attendance.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if query.CustomerName != "" {
		records = filterByCustomerName(records, query.CustomerName)
	}
	return records, nil
}

func (s *service) AdminAttendance(ctx context.Context, query AttendanceQuery) ([]models.Attendance, error) {
	filter, err := attendanceFilter(query)
	if err != nil {
		return nil, err
	}
	records, err := s.attendance.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if query.CustomerName != "" {
		records = filterByCustomerName(records, query.CustomerName)
	}
	return records, nil
}

func (s *service) GetAttendance(ctx context.Context, id uint) (*models.Attendance, error) {
	return s.attendance.FindByID(ctx, id)
}
