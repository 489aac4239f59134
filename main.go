// File: roamly/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roamly/config"
	"roamly/cron"
	"roamly/database"
	experienceRepo "roamly/database/repository/experience"
	userRepoPkg "roamly/database/repository/user"
	"roamly/handlers"
	"roamly/middleware"
	"roamly/routes"
	"roamly/services/booking"
	"roamly/services/tasks"
	"roamly/services/user"
	"roamly/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.Default())

	// repositories.
	expRepo := experienceRepo.NewMongoExperienceRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()

	// services.
	userService := &user.DefaultUserService{
		Repo: userRepo,
	}

	availabilityService := booking.NewAvailabilityService(expRepo, utils.GetCacheClient())
	gateway := booking.NewStripeGateway(config.AppConfig.StripeMode, logger)
	enqueuer := tasks.NewAsynqEnqueuer()
	defer enqueuer.Close()

	wizardService := booking.NewBookingWizardService(
		expRepo,
		userService,
		availabilityService,
		gateway,
		utils.GetDraftCacheClient(),
		enqueuer,
		logger,
	)

	// Background worker for best-effort profile syncs.
	cron.InitProfileSyncWorker(userService)

	// Assemble the handler bundle and register routes.
	bundle := &routes.HandlerBundle{
		Booking:    handlers.NewBookingHandler(wizardService, logger),
		Experience: handlers.NewExperienceHandler(expRepo, availabilityService),
		Profile:    handlers.NewProfileHandler(userService),
	}
	routes.RegisterRoutes(router, bundle)

	utils.StartHealthMonitor(utils.GetCacheClient(), utils.GetDraftCacheClient(), database.MongoClient)

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
