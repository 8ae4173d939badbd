package service

import (
	"context"
	"strconv"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/poornesh-v09/Milk-Management/config"
	"github.com/poornesh-v09/Milk-Management/internal/cache"
	"github.com/poornesh-v09/Milk-Management/internal/models"
	"github.com/poornesh-v09/Milk-Management/internal/repository"
	"github.com/poornesh-v09/Milk-Management/internal/tracing"
	"github.com/poornesh-v09/Milk-Management/internal/utils"
)

// Service defines the business logic operations
type Service interface {
	// Customer operations
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	CreateCustomer(ctx context.Context, input CustomerInput) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, customerID string, input CustomerInput) (*models.Customer, error)

	// Delivery-member operations
	ListMembers(ctx context.Context) ([]models.DeliveryMember, error)
	CreateMember(ctx context.Context, input MemberInput) (*models.DeliveryMember, error)
	UpdateMember(ctx context.Context, memberID string, input MemberInput) (*models.DeliveryMember, error)

	// Price operations
	ListPrices(ctx context.Context) ([]models.Price, error)
	AddPrice(ctx context.Context, product string, price float64) (*models.Price, error)
	DeletePrice(ctx context.Context, product string) error
	BulkUpdatePrices(ctx context.Context, prices []models.Price) ([]models.Price, error)

	// Delivery-record operations
	QueryDeliveries(ctx context.Context, query DeliveryQuery) ([]models.DeliveryRecord, error)
	SaveDeliveryRecord(ctx context.Context, record models.DeliveryRecord) (*models.DeliveryRecord, error)
	SaveDeliveryRecords(ctx context.Context, records []models.DeliveryRecord) error

	// Attendance operations
	GetAttendanceSheet(ctx context.Context, deliveryPersonID, date string) (*AttendanceSheet, error)
	CheckAttendance(ctx context.Context, deliveryPersonID, date string) (*AttendanceCheck, error)
	SubmitAttendance(ctx context.Context, input AttendanceInput) (*models.Attendance, error)
	AttendanceHistory(ctx context.Context, deliveryPersonID string, query AttendanceQuery) ([]models.Attendance, error)
	AdminAttendance(ctx context.Context, query AttendanceQuery) ([]models.Attendance, error)
	GetAttendance(ctx context.Context, id uint) (*models.Attendance, error)

	// Reporting operations
	MonthlyReport(ctx context.Context, month, year int) ([]MonthlyReportItem, error)
	DashboardStats(ctx context.Context) (*DashboardStats, error)
	ProductStatistics(ctx context.Context, month, year int) ([]ProductStats, error)
	RevenueBreakdown(ctx context.Context, month, year int) (*RevenueBreakdown, error)

	// Billing-message operations
	SendBillMessage(ctx context.Context, input BillMessageInput) (*BillMessageResult, error)
	ListMessages(ctx context.Context, filter repository.MessageFilter) ([]models.MessageLog, error)
	DispatchPendingMessages(ctx context.Context) (int, error)
}

// Repositories bundles the data-access dependencies of the service
type Repositories struct {
	Customers  repository.CustomerRepository
	Members    repository.MemberRepository
	Prices     repository.PriceRepository
	Deliveries repository.DeliveryRepository
	Attendance repository.AttendanceRepository
	Messages   repository.MessageLogRepository
}

type service struct {
	customers  repository.CustomerRepository
	members    repository.MemberRepository
	prices     repository.PriceRepository
	deliveries repository.DeliveryRepository
	attendance repository.AttendanceRepository
	messages   repository.MessageLogRepository
	cache      cache.RedisClient
	tracer     tracing.Tracer
	messaging  config.MessagingConfig
	pendingAge time.Duration
}

// NewService creates the business-logic service. The cache and tracer may be
// nil, in which case reads go straight to the store and nothing is traced.
func NewService(repos Repositories, cacheClient cache.RedisClient, tracer tracing.Tracer, cfg config.Config) Service {
	return &service{
		customers:  repos.Customers,
		members:    repos.Members,
		prices:     repos.Prices,
		deliveries: repos.Deliveries,
		attendance: repos.Attendance,
		messages:   repos.Messages,
		cache:      cacheClient,
		tracer:     tracer,
		messaging:  cfg.Messaging,
		pendingAge: cfg.Worker.PendingAge,
	}
}

func (s *service) startTransaction(name string) *newrelic.Transaction {
	if s.tracer == nil {
		return nil
	}
	return s.tracer.StartTransaction(name)
}

func (s *service) endTransaction(txn *newrelic.Transaction) {
	if s.tracer != nil {
		s.tracer.EndTransaction(txn)
	}
}

func (s *service) recordError(txn *newrelic.Transaction, err error) {
	if s.tracer != nil {
		s.tracer.RecordError(txn, err)
	}
}

func (s *service) addAttribute(txn *newrelic.Transaction, key string, value interface{}) {
	if s.tracer != nil {
		s.tracer.AddAttribute(txn, key, value)
	}
}

// newBusinessID mirrors the original id scheme: the creation timestamp in
// milliseconds, as a string.
func newBusinessID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// CustomerInput is a create/update payload. Nil fields keep their current
// (or default) values.
type CustomerInput struct {
	ID            string                 `json:"id"`
	Name          *string                `json:"name"`
	Address       *string                `json:"address"`
	Mobile        *string                `json:"mobile"`
	Subscriptions *[]models.Subscription `json:"subscriptions"`
	JoinDate      *string                `json:"joinDate"`
	IsActive      *bool                  `json:"isActive"`
	AssignedTo    *string                `json:"assignedTo"`
	DeliveryShift *[]models.Shift        `json:"deliveryShift"`
}

func (in CustomerInput) apply(c *models.Customer) {
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.Mobile != nil {
		c.Mobile = *in.Mobile
	}
	if in.Subscriptions != nil {
		c.Subscriptions = *in.Subscriptions
	}
	if in.JoinDate != nil {
		c.JoinDate = *in.JoinDate
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.AssignedTo != nil {
		c.AssignedTo = *in.AssignedTo
	}
	if in.DeliveryShift != nil {
		c.DeliveryShift = *in.DeliveryShift
	}
}

func (s *service) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.customers.List(ctx)
}

func (s *service) CreateCustomer(ctx context.Context, input CustomerInput) (*models.Customer, error) {
	customer := models.Customer{
		CustomerID:    input.ID,
		Subscriptions: []models.Subscription{},
		IsActive:      true,
		DeliveryShift: []models.Shift{models.ShiftMorning},
	}
	input.apply(&customer)
	if customer.CustomerID == "" {
		customer.CustomerID = newBusinessID()
	}
	if err := utils.ValidateStruct(&customer); err != nil {
		return nil, invalidf("invalid customer: %v", err)
	}
	if err := s.customers.Create(ctx, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *service) UpdateCustomer(ctx context.Context, customerID string, input CustomerInput) (*models.Customer, error) {
	customer, err := s.customers.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	input.apply(customer)
	if err := utils.ValidateStruct(customer); err != nil {
		return nil, invalidf("invalid customer: %v", err)
	}
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// MemberInput is a create/update payload for delivery members
type MemberInput struct {
	ID       string        `json:"id"`
	Name     *string       `json:"name"`
	Mobile   *string       `json:"mobile"`
	Route    *string       `json:"route"`
	Shift    *models.Shift `json:"shift"`
	IsActive *bool         `json:"isActive"`
}

func (in MemberInput) apply(m *models.DeliveryMember) {
	if in.Name != nil {
		m.Name = *in.Name
	}
	if in.Mobile != nil {
		m.Mobile = *in.Mobile
	}
	if in.Route != nil {
		m.Route = *in.Route
	}
	if in.Shift != nil {
		m.Shift = *in.Shift
	}
	if in.IsActive != nil {
		m.IsActive = *in.IsActive
	}
}

func (s *service) ListMembers(ctx context.Context) ([]models.DeliveryMember, error) {
	return s.members.List(ctx)
}

func (s *service) CreateMember(ctx context.Context, input MemberInput) (*models.DeliveryMember, error) {
	member := models.DeliveryMember{
		MemberID: input.ID,
		Shift:    models.ShiftMorning,
		IsActive: true,
	}
	input.apply(&member)
	if member.MemberID == "" {
		member.MemberID = newBusinessID()
	}
	if err := utils.ValidateStruct(&member); err != nil {
		return nil, invalidf("invalid member: %v", err)
	}
	if err := s.members.Create(ctx, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *service) UpdateMember(ctx context.Context, memberID string, input MemberInput) (*models.DeliveryMember, error) {
	member, err := s.members.FindByMemberID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	input.apply(member)
	if err := utils.ValidateStruct(member); err != nil {
		return nil, invalidf("invalid member: %v", err)
	}
	if err := s.members.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *service) ListPrices(ctx context.Context) ([]models.Price, error) {
	return s.prices.List(ctx)
}

func (s *service) AddPrice(ctx context.Context, product string, price float64) (*models.Price, error) {
	if product == "" {
		return nil, invalidf("product name and price are required")
	}
	if price < 0 {
		return nil, invalidf("price must not be negative")
	}
	row := models.Price{Product: product, Price: price}
	if err := s.prices.Create(ctx, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *service) DeletePrice(ctx context.Context, product string) error {
	return s.prices.DeleteByProduct(ctx, product)
}

// BulkUpdatePrices upserts each row keyed by product and returns the full
// refreshed price list.
func (s *service) BulkUpdatePrices(ctx context.Context, prices []models.Price) ([]models.Price, error) {
	for _, p := range prices {
		if p.Product == "" {
			return nil, invalidf("every price row needs a product name")
		}
		if p.Price < 0 {
			return nil, invalidf("price for %q must not be negative", p.Product)
		}
	}
	if err := s.prices.BulkUpsert(ctx, prices); err != nil {
		return nil, err
	}
	return s.prices.List(ctx)
}

// priceMap loads current prices keyed by product
func (s *service) priceMap(ctx context.Context) (map[string]float64, error) {
	rows, err := s.prices.List(ctx)
	if err != nil {
		return nil, err
	}
	prices := make(map[string]float64, len(rows))
	for _, row := range rows {
		prices[row.Product] = row.Price
	}
	return prices, nil
}

// DeliveryQuery narrows a delivery-record lookup. Month is the client's
// zero-indexed month and is only honored together with Year.
type DeliveryQuery struct {
	Date       string
	CustomerID string
	Month      *int
	Year       *int
}

func deliveryMonthFilter(month, year int) repository.DeliveryFilter {
	return repository.DeliveryFilter{MonthPrefix: monthPrefix(month, year)}
}

func (s *service) QueryDeliveries(ctx context.Context, query DeliveryQuery) ([]models.DeliveryRecord, error) {
	filter := repository.DeliveryFilter{
		Date:       query.Date,
		CustomerID: query.CustomerID,
	}
	if query.Month != nil && query.Year != nil {
		if err := checkMonth(*query.Month, *query.Year); err != nil {
			return nil, err
		}
		filter.MonthPrefix = monthPrefix(*query.Month, *query.Year)
	}
	return s.deliveries.Query(ctx, filter)
}

// stampPriceChecks fills missing price snapshots with the current product
// price so a later price edit cannot silently reprice this record.
func stampPriceChecks(record *models.DeliveryRecord, prices map[string]float64) {
	for i := range record.Items {
		if record.Items[i].PriceCheck <= 0 {
			record.Items[i].PriceCheck = prices[record.Items[i].Product]
		}
	}
}

func (s *service) SaveDeliveryRecord(ctx context.Context, record models.DeliveryRecord) (*models.DeliveryRecord, error) {
	if err := utils.ValidateStruct(&record); err != nil {
		return nil, invalidf("invalid delivery record: %v", err)
	}
	if !utils.IsValidDate(record.Date) {
		return nil, invalidf("date must be YYYY-MM-DD, got %q", record.Date)
	}
	prices, err := s.priceMap(ctx)
	if err != nil {
		return nil, err
	}
	stampPriceChecks(&record, prices)
	if err := s.deliveries.Upsert(ctx, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *service) SaveDeliveryRecords(ctx context.Context, records []models.DeliveryRecord) error {
	prices, err := s.priceMap(ctx)
	if err != nil {
		return err
	}
	for i := range records {
		if err := utils.ValidateStruct(&records[i]); err != nil {
			return invalidf("invalid delivery record %q: %v", records[i].RecordID, err)
		}
		if !utils.IsValidDate(records[i].Date) {
			return invalidf("date must be YYYY-MM-DD, got %q", records[i].Date)
		}
		stampPriceChecks(&records[i], prices)
	}
	return s.deliveries.BulkUpsert(ctx, records)
}
