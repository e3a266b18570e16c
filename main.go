// File: ototakibim/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"ototakibim/config"
	"ototakibim/cron"
	"ototakibim/database"
	bookingRepo "ototakibim/database/repository/booking"
	calendarRepo "ototakibim/database/repository/calendar"
	"ototakibim/handlers"
	"ototakibim/middleware"
	"ototakibim/routes"
	"ototakibim/services/scheduling"
	"ototakibim/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	// Repositories: Mongo by default, in-memory for local development.
	var (
		bookings  bookingRepo.BookingRepository
		calendars calendarRepo.CalendarRepository
	)
	if config.AppConfig.StorageDriver == "memory" {
		logger.Sugar().Warn("main: running on in-memory storage; bookings will not survive a restart")
		bookings = bookingRepo.NewMemoryBookingRepo()
		calendars = calendarRepo.NewMemoryCalendarRepo()
	} else {
		database.InitDB()
		mongoBookings := bookingRepo.NewMongoBookingRepo()
		if err := mongoBookings.EnsureIndexes(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
		}
		mongoCalendars := calendarRepo.NewMongoCalendarRepo()
		if err := mongoCalendars.EnsureIndexes(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure calendar indexes: %v", err)
		}
		bookings = mongoBookings
		calendars = mongoCalendars
		utils.InitCache()
	}

	// Scheduling core.
	policies, err := scheduling.NewPolicySource(calendars, scheduling.DefaultPolicy())
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	resolver := &scheduling.Resolver{
		Repo:        bookings,
		Policies:    policies,
		HorizonDays: config.AppConfig.ScanHorizonDays,
	}
	cachedResolver := &scheduling.CachedResolver{
		Inner: resolver,
		Cache: utils.CacheClient,
	}
	coordinator := scheduling.NewCoordinator(bookings, policies, cachedResolver)

	// Background lifecycle sweeper (needs the Redis-backed queue).
	if config.AppConfig.StorageDriver != "memory" {
		cron.InitLifecycleSweeper(coordinator, bookings)
	} else {
		logger.Sugar().Warn("main: lifecycle sweeper disabled on in-memory storage")
	}
	utils.StartHealthMonitor(utils.CacheClient, database.MongoClient)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	handlerBundle := &routes.HandlerBundle{
		Booking:      handlers.NewBookingHandler(coordinator, logger),
		Availability: handlers.NewAvailabilityHandler(cachedResolver, resolver, logger),
		Calendar:     handlers.NewCalendarHandler(calendars, policies, cachedResolver, logger),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
