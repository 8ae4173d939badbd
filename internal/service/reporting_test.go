package service

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/poornesh-v09/Milk-Management/internal/models"
	"github.com/poornesh-v09/Milk-Management/internal/repository"
)

func TestMonthPrefix(t *testing.T) {
	require.Equal(t, "2026-03", monthPrefix(2, 2026))
	require.Equal(t, "2026-01", monthPrefix(0, 2026))
	require.Equal(t, "2026-12", monthPrefix(11, 2026))
}

func TestCheckMonth(t *testing.T) {
	require.NoError(t, checkMonth(0, 2026))
	require.NoError(t, checkMonth(11, 2026))
	require.True(t, IsValidationError(checkMonth(12, 2026)))
	require.True(t, IsValidationError(checkMonth(-1, 2026)))
	require.True(t, IsValidationError(checkMonth(3, 0)))
}

func TestEffectivePrice(t *testing.T) {
	prices := map[string]float64{"Milk": 60}

	snapshot := models.DeliveryItem{Product: "Milk", PriceCheck: 58}
	require.Equal(t, 58.0, effectivePrice(snapshot, prices))

	current := models.DeliveryItem{Product: "Milk"}
	require.Equal(t, 60.0, effectivePrice(current, prices))

	unknown := models.DeliveryItem{Product: "Honey"}
	require.Equal(t, 0.0, effectivePrice(unknown, prices))
}

func TestBuildMonthlyReportUsesPriceSnapshot(t *testing.T) {
	customers := []models.Customer{{CustomerID: "1", Name: "Rajesh Kumar"}}
	records := []models.DeliveryRecord{
		{
			RecordID:   "2026-03-05-1",
			Date:       "2026-03-05",
			CustomerID: "1",
			Items: []models.DeliveryItem{
				{Product: "Milk", Quantity: 2, Status: models.StatusDelivered, PriceCheck: 58},
			},
		},
	}
	// Current price differs from the snapshot; the snapshot must win.
	prices := map[string]float64{"Milk": 70}

	report := buildMonthlyReport(customers, records, prices)

	require.Len(t, report, 1)
	require.Equal(t, "1", report[0].CustomerID)
	require.Equal(t, 2.0, report[0].TotalLiters)
	require.Equal(t, 116.0, report[0].TotalAmount)
	require.Equal(t, ProductTotal{Quantity: 2, Cost: 116}, report[0].Products["Milk"])
}

func TestBuildMonthlyReportAbsentContributesNothing(t *testing.T) {
	customers := []models.Customer{{CustomerID: "1", Name: "Rajesh Kumar"}}
	records := []models.DeliveryRecord{
		{
			RecordID:   "2026-03-05-1",
			Date:       "2026-03-05",
			CustomerID: "1",
			Items: []models.DeliveryItem{
				{Product: "Milk", Quantity: 2, Status: models.StatusAbsent, PriceCheck: 58},
				{Product: "Curd", Quantity: 1, Status: models.StatusDelivered, PriceCheck: 60},
			},
		},
	}

	report := buildMonthlyReport(customers, records, nil)

	require.Len(t, report, 1)
	require.Equal(t, 0.0, report[0].TotalLiters)
	require.Equal(t, 60.0, report[0].TotalAmount)
	require.NotContains(t, report[0].Products, "Milk")
}

func TestBuildMonthlyReportIncludesIdleCustomers(t *testing.T) {
	customers := []models.Customer{
		{CustomerID: "1", Name: "Rajesh Kumar"},
		{CustomerID: "2", Name: "Priya Sharma"},
	}
	records := []models.DeliveryRecord{
		{
			RecordID:   "2026-03-05-1",
			Date:       "2026-03-05",
			CustomerID: "1",
			Items: []models.DeliveryItem{
				{Product: "Milk", Quantity: 1, Status: models.StatusDelivered, PriceCheck: 58},
			},
		},
	}

	report := buildMonthlyReport(customers, records, nil)

	require.Len(t, report, 2)
	require.Equal(t, "2", report[1].CustomerID)
	require.Equal(t, 0.0, report[1].TotalAmount)
	require.Empty(t, report[1].Products)
}

func TestBuildMonthlyReportSkipsUnknownCustomers(t *testing.T) {
	customers := []models.Customer{{CustomerID: "1", Name: "Rajesh Kumar"}}
	records := []models.DeliveryRecord{
		{
			RecordID:   "2026-03-05-ghost",
			Date:       "2026-03-05",
			CustomerID: "ghost",
			Items: []models.DeliveryItem{
				{Product: "Milk", Quantity: 5, Status: models.StatusDelivered, PriceCheck: 58},
			},
		},
	}

	report := buildMonthlyReport(customers, records, nil)

	require.Len(t, report, 1)
	require.Equal(t, 0.0, report[0].TotalAmount)
}

func TestBuildMonthlyReportMissingPriceYieldsZeroRevenue(t *testing.T) {
	customers := []models.Customer{{CustomerID: "1", Name: "Rajesh Kumar"}}
	records := []models.DeliveryRecord{
		{
			RecordID:   "2026-03-05-1",
			Date:       "2026-03-05",
			CustomerID: "1",
			Items: []models.DeliveryItem{
				{Product: "Honey", Quantity: 3, Status: models.StatusDelivered},
			},
		},
	}

	report := buildMonthlyReport(customers, records, map[string]float64{})

	require.Equal(t, 0.0, report[0].TotalAmount)
	require.Equal(t, ProductTotal{Quantity: 3, Cost: 0}, report[0].Products["Honey"])
}

func TestMonthlyReportRejectsBadMonth(t *testing.T) {
	svc := &service{}
	_, err := svc.MonthlyReport(context.Background(), 12, 2026)
	require.True(t, IsValidationError(err))
}

func TestMonthlyReportQueriesMonthPrefix(t *testing.T) {
	mockCustomers := new(MockCustomerRepository)
	mockCustomers.On("List", mock.Anything).Return([]models.Customer{{CustomerID: "1", Name: "Rajesh Kumar"}}, nil)
	mockDeliveries := new(MockDeliveryRepository)
	mockDeliveries.On("Query", mock.Anything, repository.DeliveryFilter{MonthPrefix: "2026-03"}).
		Return([]models.DeliveryRecord{}, nil)
	mockPrices := new(MockPriceRepository)
	mockPrices.On("List", mock.Anything).Return([]models.Price{}, nil)

	svc := &service{customers: mockCustomers, deliveries: mockDeliveries, prices: mockPrices}

	report, err := svc.MonthlyReport(context.Background(), 2, 2026)
	require.NoError(t, err)
	require.Len(t, report, 1)
	mockDeliveries.AssertExpectations(t)
}

func TestMonthlyReportTracesFailures(t *testing.T) {
	queryErr := errors.New("connection reset")
	mockCustomers := new(MockCustomerRepository)
	mockCustomers.On("List", mock.Anything).Return([]models.Customer{}, nil)
	mockDeliveries := new(MockDeliveryRepository)
	mockDeliveries.On("Query", mock.Anything, mock.Anything).Return([]models.DeliveryRecord(nil), queryErr)
	mockTracer := new(MockTracer)
	mockTracer.On("StartTransaction", "monthly-report").Return()
	mockTracer.On("RecordError", mock.Anything, queryErr).Return()
	mockTracer.On("EndTransaction", mock.Anything).Return()

	svc := &service{customers: mockCustomers, deliveries: mockDeliveries, tracer: mockTracer}

	_, err := svc.MonthlyReport(context.Background(), 2, 2026)
	require.ErrorIs(t, err, queryErr)
	mockTracer.AssertExpectations(t)
}

func TestProductStatisticsAlwaysListsStandardProducts(t *testing.T) {
	mockCustomers := new(MockCustomerRepository)
	mockCustomers.On("List", mock.Anything).Return([]models.Customer{}, nil)
	mockCustomers.On("ListActive", mock.Anything).Return([]models.Customer{
		{CustomerID: "1", Subscriptions: []models.Subscription{{Product: "Milk", Quantity: 2}}},
	}, nil)
	mockDeliveries := new(MockDeliveryRepository)
	mockDeliveries.On("Query", mock.Anything, mock.Anything).Return([]models.DeliveryRecord{}, nil)
	mockPrices := new(MockPriceRepository)
	mockPrices.On("List", mock.Anything).Return([]models.Price{}, nil)

	svc := &service{customers: mockCustomers, deliveries: mockDeliveries, prices: mockPrices}

	stats, err := svc.ProductStatistics(context.Background(), 2, 2026)
	require.NoError(t, err)
	require.Len(t, stats, len(models.StandardProducts))
	require.Equal(t, "Milk", stats[0].Product)
	require.Equal(t, 2.0, stats[0].DailyQuantity)
	require.Equal(t, 0.0, stats[0].MonthlyQuantity)
}

func TestProductStatisticsOrdersExtraProductsAlphabetically(t *testing.T) {
	mockCustomers := new(MockCustomerRepository)
	mockCustomers.On("List", mock.Anything).Return([]models.Customer{}, nil)
	mockCustomers.On("ListActive", mock.Anything).Return([]models.Customer{
		{CustomerID: "1", Subscriptions: []models.Subscription{
			{Product: "ButterMilk", Quantity: 1},
			{Product: "Almond Milk", Quantity: 1},
		}},
	}, nil)
	mockDeliveries := new(MockDeliveryRepository)
	mockDeliveries.On("Query", mock.Anything, mock.Anything).Return([]models.DeliveryRecord{}, nil)
	mockPrices := new(MockPriceRepository)
	mockPrices.On("List", mock.Anything).Return([]models.Price{}, nil)

	svc := &service{customers: mockCustomers, deliveries: mockDeliveries, prices: mockPrices}

	stats, err := svc.ProductStatistics(context.Background(), 2, 2026)
	require.NoError(t, err)

	names := make([]string, 0, len(stats))
	for _, s := range stats {
		names = append(names, s.Product)
	}
	require.Equal(t, []string{"Milk", "Curd", "Ghee", "Paneer", "Almond Milk", "ButterMilk"}, names)
}

func TestRevenueBreakdownSkipsZeroCustomersKeepsAllMembers(t *testing.T) {
	customers := []models.Customer{
		{CustomerID: "1", Name: "Rajesh Kumar", AssignedTo: "m1"},
		{CustomerID: "2", Name: "Priya Sharma", AssignedTo: "m2"},
	}
	members := []models.DeliveryMember{
		{MemberID: "m1", Name: "Ramesh"},
		{MemberID: "m2", Name: "Suresh"},
	}
	records := []models.DeliveryRecord{
		{
			RecordID:   "2026-03-05-1",
			Date:       "2026-03-05",
			CustomerID: "1",
			Items: []models.DeliveryItem{
				{Product: "Milk", Quantity: 2, Status: models.StatusDelivered, PriceCheck: 58},
			},
		},
	}
	mockCustomers := new(MockCustomerRepository)
	mockCustomers.On("List", mock.Anything).Return(customers, nil)
	mockMembers := new(MockMemberRepository)
	mockMembers.On("List", mock.Anything).Return(members, nil)
	mockDeliveries := new(MockDeliveryRepository)
	mockDeliveries.On("Query", mock.Anything, mock.Anything).Return(records, nil)
	mockPrices := new(MockPriceRepository)
	mockPrices.On("List", mock.Anything).Return([]models.Price{}, nil)

	svc := &service{
		customers:  mockCustomers,
		members:    mockMembers,
		deliveries: mockDeliveries,
		prices:     mockPrices,
	}

	breakdown, err := svc.RevenueBreakdown(context.Background(), 2, 2026)
	require.NoError(t, err)
	require.Equal(t, 116.0, breakdown.TotalRevenue)

	// Only customers with revenue appear
	require.Len(t, breakdown.ByCustomer, 1)
	require.Equal(t, "Rajesh Kumar", breakdown.ByCustomer[0].Name)

	// Every member appears, idle ones at zero
	require.Len(t, breakdown.ByMember, 2)
	require.Equal(t, 116.0, breakdown.ByMember[0].Amount)
	require.Equal(t, 0.0, breakdown.ByMember[1].Amount)

	require.Equal(t, []ProductRevenueEntry{{Product: "Milk", Amount: 116}}, breakdown.ByProduct)
}

func TestRevenueBreakdownOrdersExtraProductsAlphabetically(t *testing.T) {
	customers := []models.Customer{{CustomerID: "1", Name: "Rajesh Kumar"}}
	records := []models.DeliveryRecord{
		{
			RecordID:   "2026-03-05-1",
			Date:       "2026-03-05",
			CustomerID: "1",
			Items: []models.DeliveryItem{
				{Product: "Milk", Quantity: 1, Status: models.StatusDelivered, PriceCheck: 58},
				{Product: "ButterMilk", Quantity: 1, Status: models.StatusDelivered, PriceCheck: 20},
				{Product: "Almond Milk", Quantity: 1, Status: models.StatusDelivered, PriceCheck: 90},
			},
		},
	}
	mockCustomers := new(MockCustomerRepository)
	mockCustomers.On("List", mock.Anything).Return(customers, nil)
	mockMembers := new(MockMemberRepository)
	mockMembers.On("List", mock.Anything).Return([]models.DeliveryMember{}, nil)
	mockDeliveries := new(MockDeliveryRepository)
	mockDeliveries.On("Query", mock.Anything, mock.Anything).Return(records, nil)
	mockPrices := new(MockPriceRepository)
	mockPrices.On("List", mock.Anything).Return([]models.Price{}, nil)

	svc := &service{
		customers:  mockCustomers,
		members:    mockMembers,
		deliveries: mockDeliveries,
		prices:     mockPrices,
	}

	breakdown, err := svc.RevenueBreakdown(context.Background(), 2, 2026)
	require.NoError(t, err)
	require.Equal(t, []ProductRevenueEntry{
		{Product: "Milk", Amount: 58},
		{Product: "Almond Milk", Amount: 90},
		{Product: "ButterMilk", Amount: 20},
	}, breakdown.ByProduct)
}
