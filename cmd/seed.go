package cmd

import (
	"context"
	"time"

	"github.com/poornesh-v09/Milk-Management/config"
	"github.com/poornesh-v09/Milk-Management/internal/database"
	"github.com/poornesh-v09/Milk-Management/internal/models"
	"github.com/poornesh-v09/Milk-Management/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedMembers = []models.DeliveryMember{
	{MemberID: "m1", Name: "Ramesh (Route A)", Mobile: "9800011122", Route: "North Extension", Shift: models.ShiftMorning, IsActive: true},
	{MemberID: "m2", Name: "Suresh (Route B)", Mobile: "9800033344", Route: "South Garden", Shift: models.ShiftMorning, IsActive: true},
}

var seedPrices = []models.Price{
	{Product: "Milk", Price: 58},
	{Product: "Curd", Price: 60},
	{Product: "Ghee", Price: 650},
	{Product: "Paneer", Price: 450},
	{Product: "ButterMilk", Price: 20},
}

var seedCustomers = []models.Customer{
	{
		CustomerID: "1",
		Name:       "Rajesh Kumar",
		Address:    "123, Gandhi Nagar, 2nd Cross",
		Mobile:     "9876543210",
		Subscriptions: []models.Subscription{
			{Product: "Milk", Quantity: 2},
			{Product: "Curd", Quantity: 1},
		},
		JoinDate:      "2025-12-01",
		IsActive:      true,
		AssignedTo:    "m1",
		DeliveryShift: []models.Shift{models.ShiftMorning},
	},
	{
		CustomerID: "2",
		Name:       "Priya Sharma",
		Address:    "Flat 402, Sunshine Apts",
		Mobile:     "9123456780",
		Subscriptions: []models.Subscription{
			{Product: "Milk", Quantity: 1},
		},
		JoinDate:      "2026-01-05",
		IsActive:      true,
		AssignedTo:    "m2",
		DeliveryShift: []models.Shift{models.ShiftMorning},
	},
}

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo dataset",
	Long:  `Wipes all collections and loads the demo members, prices, customers and one attendance sheet.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.AutoMigrate(db); err != nil {
			return err
		}

		gormDB, err := db.DB()
		if err != nil {
			return err
		}

		// Clear existing data
		for _, model := range []interface{}{
			&models.Customer{}, &models.DeliveryMember{}, &models.Price{},
			&models.DeliveryRecord{}, &models.Attendance{}, &models.MessageLog{},
		} {
			if err := gormDB.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		log.Info().Msg("Cleared existing data")

		ctx := context.Background()
		members := repository.NewMemberRepository(gormDB)
		for i := range seedMembers {
			if err := members.Create(ctx, &seedMembers[i]); err != nil {
				return err
			}
		}
		log.Info().Int("count", len(seedMembers)).Msg("Inserted members")

		prices := repository.NewPriceRepository(gormDB)
		if err := prices.BulkUpsert(ctx, seedPrices); err != nil {
			return err
		}
		log.Info().Int("count", len(seedPrices)).Msg("Inserted prices")

		customers := repository.NewCustomerRepository(gormDB)
		for i := range seedCustomers {
			if err := customers.Create(ctx, &seedCustomers[i]); err != nil {
				return err
			}
		}
		log.Info().Int("count", len(seedCustomers)).Msg("Inserted customers")

		attendance := repository.NewAttendanceRepository(gormDB)
		today := time.Now().Format("2006-01-02")
		sheet := models.Attendance{
			Date:               today,
			DeliveryPersonID:   "m1",
			DeliveryPersonName: "Ramesh (Route A)",
			Entries: []models.AttendanceEntry{
				{
					CustomerID:        "1",
					CustomerName:      "Rajesh Kumar",
					FixedQuantity:     2,
					DeliveredQuantity: 2,
					Status:            models.StatusDelivered,
					PricePerLiter:     58,
					DeliveryShift:     []models.Shift{models.ShiftMorning},
				},
			},
			SubmittedAt: time.Now(),
		}
		if err := attendance.Create(ctx, &sheet); err != nil {
			return err
		}
		log.Info().Str("date", today).Msg("Inserted attendance")

		log.Info().Msg("Database seeded successfully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
