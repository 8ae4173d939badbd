package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/poornesh-v09/Milk-Management/internal/models"
)

const (
	dashboardCacheKey = "stats:dashboard"
	dashboardCacheTTL = time.Minute
)

// ProductTotal is the per-product slice of a customer's monthly report
type ProductTotal struct {
	Quantity float64 `json:"quantity"`
	Cost     float64 `json:"cost"`
}

// MonthlyReportItem is one customer's billing line for a month. Customers
// with zero deliveries still get an item so the billing list is complete.
type MonthlyReportItem struct {
	CustomerID   string                  `json:"customerId"`
	CustomerName string                  `json:"customerName"`
	Products     map[string]ProductTotal `json:"products"`
	TotalAmount  float64                 `json:"totalAmount"`
	TotalLiters  float64                 `json:"totalLiters"`
}

// DashboardStats is the admin landing-page summary
type DashboardStats struct {
	TotalCustomers  int64   `json:"totalCustomers"`
	ActiveCustomers int64   `json:"activeCustomers"`
	TotalProducts   int64   `json:"totalProducts"`
	TotalMembers    int64   `json:"totalMembers"`
	MonthlyRevenue  float64 `json:"monthlyRevenue"`
}

// ProductStats is one product's daily and monthly figures
type ProductStats struct {
	Product         string  `json:"product"`
	DailyQuantity   float64 `json:"dailyQuantity"`
	MonthlyQuantity float64 `json:"monthlyQuantity"`
	MonthlyRevenue  float64 `json:"monthlyRevenue"`
}

// RevenueEntry is a named amount in a revenue breakdown
type RevenueEntry struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// ProductRevenueEntry is a per-product amount in a revenue breakdown
type ProductRevenueEntry struct {
	Product string  `json:"product"`
	Amount  float64 `json:"amount"`
}

// RevenueBreakdown splits a month's revenue by customer, member and product
type RevenueBreakdown struct {
	TotalRevenue float64               `json:"totalRevenue"`
	ByCustomer   []RevenueEntry        `json:"byCustomer"`
	ByMember     []RevenueEntry        `json:"byMember"`
	ByProduct    []ProductRevenueEntry `json:"byProduct"`
}

// monthPrefix renders a zero-indexed month and a year as the "YYYY-MM"
// string prefix that date columns are matched against.
func monthPrefix(month, year int) string {
	return fmt.Sprintf("%d-%02d", year, month+1)
}

// effectivePrice resolves the unit price for a delivery item: the snapshot
// taken at delivery time when present, else the current price, else zero.
// A product with no price contributes zero revenue, never an error.
func effectivePrice(item models.DeliveryItem, prices map[string]float64) float64 {
	if item.PriceCheck > 0 {
		return item.PriceCheck
	}
	return prices[item.Product]
}

// buildMonthlyReport is the single aggregation routine behind every
// reporting endpoint. It folds delivery records into one report item per
// customer; items with status Absent contribute nothing.
func buildMonthlyReport(customers []models.Customer, records []models.DeliveryRecord, prices map[string]float64) []MonthlyReportItem {
	items := make([]MonthlyReportItem, 0, len(customers))
	index := make(map[string]*MonthlyReportItem, len(customers))
	for _, c := range customers {
		items = append(items, MonthlyReportItem{
			CustomerID:   c.CustomerID,
			CustomerName: c.Name,
			Products:     map[string]ProductTotal{},
		})
		index[c.CustomerID] = &items[len(items)-1]
	}

	for _, record := range records {
		item := index[record.CustomerID]
		if item == nil {
			// Record for an unknown customer, nothing to bill it against.
			continue
		}
		for _, line := range record.Items {
			if line.Status != models.StatusDelivered {
				continue
			}
			price := effectivePrice(line, prices)
			cost := line.Quantity * price

			total := item.Products[line.Product]
			total.Quantity += line.Quantity
			total.Cost += cost
			item.Products[line.Product] = total

			item.TotalAmount += cost
			if line.Product == models.ProductMilk {
				item.TotalLiters += line.Quantity
			}
		}
	}

	return items
}

// MonthlyReport builds the billing report for a zero-indexed month
func (s *service) MonthlyReport(ctx context.Context, month, year int) ([]MonthlyReportItem, error) {
	if err := checkMonth(month, year); err != nil {
		return nil, err
	}

	txn := s.startTransaction("monthly-report")
	defer s.endTransaction(txn)

	customers, err := s.customers.List(ctx)
	if err != nil {
		s.recordError(txn, err)
		return nil, err
	}
	records, err := s.deliveries.Query(ctx, deliveryMonthFilter(month, year))
	if err != nil {
		s.recordError(txn, err)
		return nil, err
	}
	prices, err := s.priceMap(ctx)
	if err != nil {
		s.recordError(txn, err)
		return nil, err
	}

	return buildMonthlyReport(customers, records, prices), nil
}

// DashboardStats assembles the landing-page counters. Monthly revenue is
// summed from the current month's attendance entries and cached briefly.
func (s *service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, dashboardCacheKey); err == nil && cached != "" {
			var stats DashboardStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	totalCustomers, err := s.customers.Count(ctx)
	if err != nil {
		return nil, err
	}
	activeCustomers, err := s.customers.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	totalMembers, err := s.members.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalProducts, err := s.prices.Count(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sheets, err := s.attendance.ListByDatePrefix(ctx, monthPrefix(int(now.Month())-1, now.Year()))
	if err != nil {
		return nil, err
	}
	var revenue float64
	for _, sheet := range sheets {
		for _, entry := range sheet.Entries {
			if entry.Status == models.StatusDelivered {
				revenue += entry.DeliveredQuantity * entry.PricePerLiter
			}
		}
	}

	stats := &DashboardStats{
		TotalCustomers:  totalCustomers,
		ActiveCustomers: activeCustomers,
		TotalProducts:   totalProducts,
		TotalMembers:    totalMembers,
		MonthlyRevenue:  revenue,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, string(payload), dashboardCacheTTL); err != nil {
				log.Warn().Err(err).Msg("Failed to cache dashboard stats")
			}
		}
	}

	return stats, nil
}

// ProductStatistics derives per-product figures for a zero-indexed month.
// The standard catalogue is always present, with zeros when idle.
func (s *service) ProductStatistics(ctx context.Context, month, year int) ([]ProductStats, error) {
	report, err := s.MonthlyReport(ctx, month, year)
	if err != nil {
		return nil, err
	}
	active, err := s.customers.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	daily := map[string]float64{}
	for _, c := range active {
		for _, sub := range c.Subscriptions {
			daily[sub.Product] += sub.Quantity
		}
	}

	monthlyQty := map[string]float64{}
	monthlyRev := map[string]float64{}
	for _, item := range report {
		for product, total := range item.Products {
			monthlyQty[product] += total.Quantity
			monthlyRev[product] += total.Cost
		}
	}

	// Standard products first, then anything else that showed up,
	// alphabetically so the output order is stable.
	seen := map[string]bool{}
	var products []string
	for _, p := range models.StandardProducts {
		products = append(products, p)
		seen[p] = true
	}
	var extras []string
	for product := range monthlyQty {
		if !seen[product] {
			extras = append(extras, product)
			seen[product] = true
		}
	}
	for product := range daily {
		if !seen[product] {
			extras = append(extras, product)
			seen[product] = true
		}
	}
	sort.Strings(extras)
	products = append(products, extras...)

	stats := make([]ProductStats, 0, len(products))
	for _, product := range products {
		stats = append(stats, ProductStats{
			Product:         product,
			DailyQuantity:   daily[product],
			MonthlyQuantity: monthlyQty[product],
			MonthlyRevenue:  monthlyRev[product],
		})
	}
	return stats, nil
}

// RevenueBreakdown splits a month's revenue by customer, member and product
func (s *service) RevenueBreakdown(ctx context.Context, month, year int) (*RevenueBreakdown, error) {
	report, err := s.MonthlyReport(ctx, month, year)
	if err != nil {
		return nil, err
	}
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, err
	}
	members, err := s.members.List(ctx)
	if err != nil {
		return nil, err
	}

	assignee := make(map[string]string, len(customers))
	for _, c := range customers {
		assignee[c.CustomerID] = c.AssignedTo
	}

	breakdown := &RevenueBreakdown{}
	memberRevenue := map[string]float64{}
	productRevenue := map[string]float64{}

	for _, item := range report {
		breakdown.TotalRevenue += item.TotalAmount
		if item.TotalAmount > 0 {
			breakdown.ByCustomer = append(breakdown.ByCustomer, RevenueEntry{
				Name:   item.CustomerName,
				Amount: item.TotalAmount,
			})
		}
		if memberID := assignee[item.CustomerID]; memberID != "" {
			memberRevenue[memberID] += item.TotalAmount
		}
		for product, total := range item.Products {
			productRevenue[product] += total.Cost
		}
	}

	for _, m := range members {
		breakdown.ByMember = append(breakdown.ByMember, RevenueEntry{
			Name:   m.Name,
			Amount: memberRevenue[m.MemberID],
		})
	}
	for _, product := range models.StandardProducts {
		if amount, ok := productRevenue[product]; ok {
			breakdown.ByProduct = append(breakdown.ByProduct, ProductRevenueEntry{Product: product, Amount: amount})
			delete(productRevenue, product)
		}
	}
	extras := make([]string, 0, len(productRevenue))
	for product := range productRevenue {
		extras = append(extras, product)
	}
	sort.Strings(extras)
	for _, product := range extras {
		breakdown.ByProduct = append(breakdown.ByProduct, ProductRevenueEntry{Product: product, Amount: productRevenue[product]})
	}

	return breakdown, nil
}

func checkMonth(month, year int) error {
	if month < 0 || month > 11 {
		return invalidf("month must be between 0 and 11, got %d", month)
	}
	if year <= 0 {
		return invalidf("year must be positive, got %d", year)
	}
	return nil
}
