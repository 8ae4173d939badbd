package routes

import (
	"github.com/poornesh-v09/Milk-Management/api/handlers"
	"github.com/poornesh-v09/Milk-Management/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all the routes for the server
func SetupRoutes(r *gin.Engine, svc service.Service) {
	// Health check
	r.GET("/health", handlers.HealthCheck)

	api := r.Group("/api")

	customerHandler := handlers.NewCustomerHandler(svc)
	customers := api.Group("/customers")
	{
		customers.GET("", customerHandler.ListCustomers)
		customers.POST("", customerHandler.CreateCustomer)
		customers.PUT("/:id", customerHandler.UpdateCustomer)
	}

	memberHandler := handlers.NewMemberHandler(svc)
	members := api.Group("/members")
	{
		members.GET("", memberHandler.ListMembers)
		members.POST("", memberHandler.CreateMember)
		members.PUT("/:id", memberHandler.UpdateMember)
	}

	priceHandler := handlers.NewPriceHandler(svc)
	prices := api.Group("/prices")
	{
		prices.GET("", priceHandler.ListPrices)
		prices.POST("/add", priceHandler.AddPrice)
		prices.DELETE("/:product", priceHandler.DeletePrice)
		prices.POST("/bulk", priceHandler.BulkUpdatePrices)
	}

	deliveryHandler := handlers.NewDeliveryHandler(svc)
	deliveries := api.Group("/deliveries")
	{
		deliveries.GET("", deliveryHandler.QueryDeliveries)
		deliveries.POST("", deliveryHandler.SaveDelivery)
		deliveries.POST("/bulk", deliveryHandler.SaveDeliveriesBulk)
	}

	attendanceHandler := handlers.NewAttendanceHandler(svc)
	attendance := api.Group("/attendance")
	{
		attendance.GET("/sheet/:deliveryPersonId/:date", attendanceHandler.GetSheet)
		attendance.GET("/check/:deliveryPersonId/:date", attendanceHandler.CheckAttendance)
		attendance.POST("", attendanceHandler.SubmitAttendance)
		attendance.GET("/history/:deliveryPersonId", attendanceHandler.History)
		attendance.GET("/admin", attendanceHandler.AdminList)
		attendance.GET("/:id", attendanceHandler.GetByID)
	}

	statsHandler := handlers.NewStatsHandler(svc)
	stats := api.Group("/stats")
	{
		stats.GET("/dashboard", statsHandler.Dashboard)
		stats.GET("/products", statsHandler.Products)
		stats.GET("/revenue", statsHandler.Revenue)
	}

	reports := api.Group("/reports")
	{
		reports.GET("/monthly", statsHandler.MonthlyReport)
	}

	messageHandler := handlers.NewMessageHandler(svc)
	messages := api.Group("/messages")
	{
		messages.POST("/bill", messageHandler.SendBill)
		messages.GET("", messageHandler.ListMessages)
	}
}
