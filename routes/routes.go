package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"ototakibim/handlers"
	"ototakibim/middleware"
)

// HandlerBundle groups the handler sets the router needs.
type HandlerBundle struct {
	Booking      *handlers.BookingHandler
	Availability *handlers.AvailabilityHandler
	Calendar     *handlers.CalendarHandler
}

// RegisterRoutes sets up CORS, the health endpoint and the tenant-scoped API.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Tenant-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.HealthHandler)

	api := r.Group("/api")
	api.Use(middleware.TenantMiddleware())

	RegisterAvailabilityRoutes(api, hb)
	RegisterBookingRoutes(api, hb)
	RegisterCalendarRoutes(api, hb)
}

// RegisterAvailabilityRoutes sets up the read-only availability endpoints.
func RegisterAvailabilityRoutes(api *gin.RouterGroup, hb *HandlerBundle) {
	availability := api.Group("/availability")
	{
		availability.GET("/slots", hb.Availability.FreeSlotsHandler)
		availability.GET("/check", hb.Availability.CheckDateHandler)
		availability.GET("/next-date", hb.Availability.NextDateHandler)
	}
}

// RegisterBookingRoutes sets up the booking lifecycle endpoints.
func RegisterBookingRoutes(api *gin.RouterGroup, hb *HandlerBundle) {
	bookings := api.Group("/bookings")
	{
		bookings.POST("", hb.Booking.ReserveHandler)
		bookings.GET("", hb.Booking.ListBookingsHandler)
		bookings.GET("/:id", hb.Booking.GetBookingHandler)
		bookings.POST("/:id/confirm", hb.Booking.ConfirmHandler)
		bookings.POST("/:id/cancel", hb.Booking.CancelHandler)
		bookings.POST("/:id/complete", hb.Booking.CompleteHandler)
		bookings.POST("/:id/no-show", hb.Booking.NoShowHandler)
	}
}

// RegisterCalendarRoutes sets up the tenant calendar-policy endpoints.
func RegisterCalendarRoutes(api *gin.RouterGroup, hb *HandlerBundle) {
	calendar := api.Group("/calendar")
	{
		calendar.GET("", hb.Calendar.GetCalendarHandler)
		calendar.PUT("", hb.Calendar.PutCalendarHandler)
	}
}
