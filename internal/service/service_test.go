package service

import (
	"context"
	"testing"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/poornesh-v09/Milk-Management/config"
	"github.com/poornesh-v09/Milk-Management/internal/models"
	"github.com/poornesh-v09/Milk-Management/internal/repository"
)

// Mock repositories for testing

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) List(ctx context.Context) ([]models.Customer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) FindByCustomerID(ctx context.Context, customerID string) (*models.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ListActiveByAssignee(ctx context.Context, memberID string) ([]models.Customer, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ListActive(ctx context.Context) ([]models.Customer, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) List(ctx context.Context) ([]models.DeliveryMember, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.DeliveryMember), args.Error(1)
}

func (m *MockMemberRepository) Create(ctx context.Context, member *models.DeliveryMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) Update(ctx context.Context, member *models.DeliveryMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) FindByMemberID(ctx context.Context, memberID string) (*models.DeliveryMember, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeliveryMember), args.Error(1)
}

func (m *MockMemberRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockPriceRepository struct {
	mock.Mock
}

func (m *MockPriceRepository) List(ctx context.Context) ([]models.Price, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Price), args.Error(1)
}

func (m *MockPriceRepository) Create(ctx context.Context, price *models.Price) error {
	args := m.Called(ctx, price)
	return args.Error(0)
}

func (m *MockPriceRepository) DeleteByProduct(ctx context.Context, product string) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockPriceRepository) BulkUpsert(ctx context.Context, prices []models.Price) error {
	args := m.Called(ctx, prices)
	return args.Error(0)
}

func (m *MockPriceRepository) FindByProduct(ctx context.Context, product string) (*models.Price, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Price), args.Error(1)
}

func (m *MockPriceRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockDeliveryRepository struct {
	mock.Mock
}

func (m *MockDeliveryRepository) Query(ctx context.Context, filter repository.DeliveryFilter) ([]models.DeliveryRecord, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.DeliveryRecord), args.Error(1)
}

func (m *MockDeliveryRepository) Upsert(ctx context.Context, record *models.DeliveryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDeliveryRepository) BulkUpsert(ctx context.Context, records []models.DeliveryRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) Create(ctx context.Context, attendance *models.Attendance) error {
	args := m.Called(ctx, attendance)
	return args.Error(0)
}

func (m *MockAttendanceRepository) FindByDateAndPerson(ctx context.Context, date, deliveryPersonID string) (*models.Attendance, error) {
	args := m.Called(ctx, date, deliveryPersonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Attendance), args.Error(1)
}

func (m *MockAttendanceRepository) FindByID(ctx context.Context, id uint) (*models.Attendance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Attendance), args.Error(1)
}

func (m *MockAttendanceRepository) List(ctx context.Context, filter repository.AttendanceFilter) ([]models.Attendance, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Attendance), args.Error(1)
}

func (m *MockAttendanceRepository) ListByDatePrefix(ctx context.Context, prefix string) ([]models.Attendance, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).([]models.Attendance), args.Error(1)
}

type MockMessageLogRepository struct {
	mock.Mock
}

func (m *MockMessageLogRepository) Create(ctx context.Context, log *models.MessageLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockMessageLogRepository) UpdateStatus(ctx context.Context, logID string, status models.MessageStatus) error {
	args := m.Called(ctx, logID, status)
	return args.Error(0)
}

func (m *MockMessageLogRepository) List(ctx context.Context, filter repository.MessageFilter) ([]models.MessageLog, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.MessageLog), args.Error(1)
}

func (m *MockMessageLogRepository) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]models.MessageLog, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]models.MessageLog), args.Error(1)
}

type MockTracer struct {
	mock.Mock
}

func (m *MockTracer) Application() *newrelic.Application {
	m.Called()
	return nil
}

func (m *MockTracer) StartTransaction(name string) *newrelic.Transaction {
	m.Called(name)
	return nil
}

func (m *MockTracer) EndTransaction(txn *newrelic.Transaction) {
	m.Called(txn)
}

func (m *MockTracer) RecordError(txn *newrelic.Transaction, err error) {
	m.Called(txn, err)
}

func (m *MockTracer) AddAttribute(txn *newrelic.Transaction, key string, value interface{}) {
	m.Called(txn, key, value)
}

func strPtr(s string) *string { return &s }

func TestCreateCustomerAssignsID(t *testing.T) {
	mockCustomers := new(MockCustomerRepository)
	mockCustomers.On("Create", mock.Anything, mock.AnythingOfType("*models.Customer")).Return(nil)

	svc := &service{customers: mockCustomers}

	customer, err := svc.CreateCustomer(context.Background(), CustomerInput{
		Name:     strPtr("Rajesh Kumar"),
		Address:  strPtr("123, Gandhi Nagar"),
		Mobile:   strPtr("9876543210"),
		JoinDate: strPtr("2025-12-01"),
	})

	require.NoError(t, err)
	require.NotEmpty(t, customer.CustomerID)
	require.True(t, customer.IsActive)
	require.Equal(t, []models.Shift{models.ShiftMorning}, customer.DeliveryShift)
	mockCustomers.AssertExpectations(t)
}

func TestCreateCustomerRejectsMissingName(t *testing.T) {
	mockCustomers := new(MockCustomerRepository)

	svc := &service{customers: mockCustomers}

	_, err := svc.CreateCustomer(context.Background(), CustomerInput{
		Address:  strPtr("123, Gandhi Nagar"),
		Mobile:   strPtr("9876543210"),
		JoinDate: strPtr("2025-12-01"),
	})

	require.Error(t, err)
	require.True(t, IsValidationError(err))
	mockCustomers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateCustomerNotFound(t *testing.T) {
	mockCustomers := new(MockCustomerRepository)
	mockCustomers.On("FindByCustomerID", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

	svc := &service{customers: mockCustomers}

	_, err := svc.UpdateCustomer(context.Background(), "missing", CustomerInput{Name: strPtr("X")})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateCustomerDeactivation(t *testing.T) {
	existing := &models.Customer{
		CustomerID:    "1",
		Name:          "Rajesh Kumar",
		Address:       "123, Gandhi Nagar",
		Mobile:        "9876543210",
		JoinDate:      "2025-12-01",
		IsActive:      true,
		DeliveryShift: []models.Shift{models.ShiftMorning},
	}
	mockCustomers := new(MockCustomerRepository)
	mockCustomers.On("FindByCustomerID", mock.Anything, "1").Return(existing, nil)
	mockCustomers.On("Update", mock.Anything, mock.AnythingOfType("*models.Customer")).Return(nil)

	svc := &service{customers: mockCustomers}

	inactive := false
	updated, err := svc.UpdateCustomer(context.Background(), "1", CustomerInput{IsActive: &inactive})
	require.NoError(t, err)
	require.False(t, updated.IsActive)
	require.Equal(t, "Rajesh Kumar", updated.Name)
	mockCustomers.AssertExpectations(t)
}

func TestBulkUpdatePricesReturnsRefreshedList(t *testing.T) {
	update := []models.Price{{Product: "Milk", Price: 60}}
	refreshed := []models.Price{
		{Product: "Curd", Price: 60},
		{Product: "Milk", Price: 60},
	}
	mockPrices := new(MockPriceRepository)
	mockPrices.On("BulkUpsert", mock.Anything, update).Return(nil)
	mockPrices.On("List", mock.Anything).Return(refreshed, nil)

	svc := &service{prices: mockPrices}

	prices, err := svc.BulkUpdatePrices(context.Background(), update)
	require.NoError(t, err)
	require.Equal(t, refreshed, prices)
	mockPrices.AssertExpectations(t)
}

func TestSaveDeliveryRecordStampsMissingSnapshots(t *testing.T) {
	mockPrices := new(MockPriceRepository)
	mockPrices.On("List", mock.Anything).Return([]models.Price{{Product: "Milk", Price: 58}}, nil)
	mockDeliveries := new(MockDeliveryRepository)
	mockDeliveries.On("Upsert", mock.Anything, mock.AnythingOfType("*models.DeliveryRecord")).Return(nil)

	svc := &service{prices: mockPrices, deliveries: mockDeliveries}

	saved, err := svc.SaveDeliveryRecord(context.Background(), models.DeliveryRecord{
		RecordID:   "2026-03-05-1",
		Date:       "2026-03-05",
		CustomerID: "1",
		Items: []models.DeliveryItem{
			{Product: "Milk", Quantity: 2, Status: models.StatusDelivered},
			{Product: "Curd", Quantity: 1, Status: models.StatusDelivered, PriceCheck: 55},
		},
	})

	require.NoError(t, err)
	require.Equal(t, 58.0, saved.Items[0].PriceCheck)
	require.Equal(t, 55.0, saved.Items[1].PriceCheck)
}

func TestSaveDeliveryRecordRejectsBadDate(t *testing.T) {
	svc := &service{}
	_, err := svc.SaveDeliveryRecord(context.Background(), models.DeliveryRecord{
		RecordID:   "r1",
		Date:       "05/03/2026",
		CustomerID: "1",
	})
	require.True(t, IsValidationError(err))
}

func TestSubmitAttendanceRejectsResubmission(t *testing.T) {
	existing := &models.Attendance{
		Date:               "2026-03-05",
		DeliveryPersonID:   "m1",
		DeliveryPersonName: "Ramesh",
	}
	mockAttendance := new(MockAttendanceRepository)
	mockAttendance.On("FindByDateAndPerson", mock.Anything, "2026-03-05", "m1").Return(existing, nil)

	svc := &service{attendance: mockAttendance}

	_, err := svc.SubmitAttendance(context.Background(), AttendanceInput{
		Date:               "2026-03-05",
		DeliveryPersonID:   "m1",
		DeliveryPersonName: "Ramesh",
		Entries:            []models.AttendanceEntry{},
	})

	require.ErrorIs(t, err, repository.ErrDuplicate)
	mockAttendance.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitAttendanceStoresSheet(t *testing.T) {
	mockAttendance := new(MockAttendanceRepository)
	mockAttendance.On("FindByDateAndPerson", mock.Anything, "2026-03-05", "m1").Return(nil, repository.ErrNotFound)
	mockAttendance.On("Create", mock.Anything, mock.AnythingOfType("*models.Attendance")).Return(nil)

	svc := &service{attendance: mockAttendance}

	attendance, err := svc.SubmitAttendance(context.Background(), AttendanceInput{
		Date:               "2026-03-05",
		DeliveryPersonID:   "m1",
		DeliveryPersonName: "Ramesh",
		Entries: []models.AttendanceEntry{
			{
				CustomerID:        "1",
				CustomerName:      "Rajesh Kumar",
				FixedQuantity:     2,
				DeliveredQuantity: 2,
				Status:            models.StatusDelivered,
				PricePerLiter:     58,
			},
		},
	})

	require.NoError(t, err)
	require.False(t, attendance.SubmittedAt.IsZero())
	mockAttendance.AssertExpectations(t)
}

func TestSubmitAttendanceTracesSubmission(t *testing.T) {
	mockAttendance := new(MockAttendanceRepository)
	mockAttendance.On("FindByDateAndPerson", mock.Anything, "2026-03-05", "m1").Return(nil, repository.ErrNotFound)
	mockAttendance.On("Create", mock.Anything, mock.AnythingOfType("*models.Attendance")).Return(nil)
	mockTracer := new(MockTracer)
	mockTracer.On("StartTransaction", "submit-attendance").Return()
	mockTracer.On("AddAttribute", mock.Anything, "delivery_person_id", "m1").Return()
	mockTracer.On("EndTransaction", mock.Anything).Return()

	svc := &service{attendance: mockAttendance, tracer: mockTracer}

	_, err := svc.SubmitAttendance(context.Background(), AttendanceInput{
		Date:               "2026-03-05",
		DeliveryPersonID:   "m1",
		DeliveryPersonName: "Ramesh",
		Entries: []models.AttendanceEntry{
			{
				CustomerID:        "1",
				CustomerName:      "Rajesh Kumar",
				FixedQuantity:     2,
				DeliveredQuantity: 2,
				Status:            models.StatusDelivered,
				PricePerLiter:     58,
			},
		},
	})

	require.NoError(t, err)
	mockTracer.AssertExpectations(t)
	mockTracer.AssertNotCalled(t, "RecordError", mock.Anything, mock.Anything)
}

func TestGetAttendanceSheetDefaults(t *testing.T) {
	member := &models.DeliveryMember{MemberID: "m1", Name: "Ramesh"}
	customers := []models.Customer{
		{
			CustomerID: "1",
			Name:       "Rajesh Kumar",
			Subscriptions: []models.Subscription{
				{Product: "Milk", Quantity: 2},
				{Product: "Curd", Quantity: 1},
			},
			DeliveryShift: []models.Shift{models.ShiftEvening},
		},
		{
			CustomerID:    "2",
			Name:          "Priya Sharma",
			Subscriptions: []models.Subscription{{Product: "Curd", Quantity: 1}},
		},
	}
	mockMembers := new(MockMemberRepository)
	mockMembers.On("FindByMemberID", mock.Anything, "m1").Return(member, nil)
	mockCustomers := new(MockCustomerRepository)
	mockCustomers.On("ListActiveByAssignee", mock.Anything, "m1").Return(customers, nil)
	mockPrices := new(MockPriceRepository)
	mockPrices.On("FindByProduct", mock.Anything, "Milk").Return(nil, repository.ErrNotFound)

	svc := &service{members: mockMembers, customers: mockCustomers, prices: mockPrices}

	sheet, err := svc.GetAttendanceSheet(context.Background(), "m1", "2026-03-05")
	require.NoError(t, err)
	require.Equal(t, "Ramesh", sheet.DeliveryPersonName)
	require.Equal(t, float64(models.DefaultMilkPrice), sheet.PricePerLiter)
	require.Len(t, sheet.Entries, 2)

	// Milk subscriber: fixed and delivered quantities default to the subscription
	require.Equal(t, 2.0, sheet.Entries[0].FixedQuantity)
	require.Equal(t, 2.0, sheet.Entries[0].DeliveredQuantity)
	require.Equal(t, models.StatusDelivered, sheet.Entries[0].Status)
	require.Equal(t, []models.Shift{models.ShiftEvening}, sheet.Entries[0].DeliveryShift)

	// No Milk subscription: zero quantity, Morning shift fallback
	require.Equal(t, 0.0, sheet.Entries[1].FixedQuantity)
	require.Equal(t, []models.Shift{models.ShiftMorning}, sheet.Entries[1].DeliveryShift)
}

func TestGetAttendanceSheetUnknownMember(t *testing.T) {
	mockMembers := new(MockMemberRepository)
	mockMembers.On("FindByMemberID", mock.Anything, "ghost").Return(nil, repository.ErrNotFound)

	svc := &service{members: mockMembers}

	_, err := svc.GetAttendanceSheet(context.Background(), "ghost", "2026-03-05")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAttendanceHistoryFiltersByCustomerName(t *testing.T) {
	records := []models.Attendance{
		{
			Date:             "2026-03-05",
			DeliveryPersonID: "m1",
			Entries: []models.AttendanceEntry{
				{CustomerID: "1", CustomerName: "Rajesh Kumar", Status: models.StatusDelivered},
				{CustomerID: "2", CustomerName: "Priya Sharma", Status: models.StatusDelivered},
			},
		},
		{
			Date:             "2026-03-04",
			DeliveryPersonID: "m1",
			Entries: []models.AttendanceEntry{
				{CustomerID: "2", CustomerName: "Priya Sharma", Status: models.StatusAbsent},
			},
		},
	}
	mockAttendance := new(MockAttendanceRepository)
	mockAttendance.On("List", mock.Anything, repository.AttendanceFilter{
		DeliveryPersonID: "m1",
		DatePrefix:       "2026-03",
	}).Return(records, nil)

	svc := &service{attendance: mockAttendance}

	filtered, err := svc.AttendanceHistory(context.Background(), "m1", AttendanceQuery{
		Month:        "3",
		Year:         "2026",
		CustomerName: "rajesh",
	})

	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Len(t, filtered[0].Entries, 1)
	require.Equal(t, "Rajesh Kumar", filtered[0].Entries[0].CustomerName)
}

func TestAttendanceHistoryRejectsBadMonth(t *testing.T) {
	mockAttendance := new(MockAttendanceRepository)

	svc := &service{attendance: mockAttendance}

	_, err := svc.AttendanceHistory(context.Background(), "m1", AttendanceQuery{
		Month: "march",
		Year:  "2026",
	})

	require.True(t, IsValidationError(err))
	mockAttendance.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestAdminAttendanceRejectsBadMonth(t *testing.T) {
	mockAttendance := new(MockAttendanceRepository)

	svc := &service{attendance: mockAttendance}

	_, err := svc.AdminAttendance(context.Background(), AttendanceQuery{
		Month: "3x",
		Year:  "2026",
	})

	require.True(t, IsValidationError(err))
	mockAttendance.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestDashboardStatsSumsDeliveredEntries(t *testing.T) {
	mockCustomers := new(MockCustomerRepository)
	mockCustomers.On("Count", mock.Anything).Return(int64(2), nil)
	mockCustomers.On("CountActive", mock.Anything).Return(int64(1), nil)
	mockMembers := new(MockMemberRepository)
	mockMembers.On("Count", mock.Anything).Return(int64(2), nil)
	mockPrices := new(MockPriceRepository)
	mockPrices.On("Count", mock.Anything).Return(int64(5), nil)
	mockAttendance := new(MockAttendanceRepository)
	mockAttendance.On("ListByDatePrefix", mock.Anything, mock.AnythingOfType("string")).Return([]models.Attendance{
		{
			Entries: []models.AttendanceEntry{
				{DeliveredQuantity: 2, PricePerLiter: 58, Status: models.StatusDelivered},
				{DeliveredQuantity: 1, PricePerLiter: 58, Status: models.StatusAbsent},
			},
		},
	}, nil)

	svc := &service{
		customers:  mockCustomers,
		members:    mockMembers,
		prices:     mockPrices,
		attendance: mockAttendance,
	}

	stats, err := svc.DashboardStats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.TotalCustomers)
	require.Equal(t, int64(1), stats.ActiveCustomers)
	require.Equal(t, int64(5), stats.TotalProducts)
	require.Equal(t, 116.0, stats.MonthlyRevenue)
}

func TestNewServiceWiresConfig(t *testing.T) {
	cfg := config.Config{}
	cfg.Worker.PendingAge = 2 * time.Minute
	svc := NewService(Repositories{}, nil, nil, cfg)
	require.NotNil(t, svc)
}
