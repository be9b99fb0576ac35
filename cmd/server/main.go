package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/adjamedev/transport-marketplace/internal/auth"
	"github.com/adjamedev/transport-marketplace/internal/config"
	"github.com/adjamedev/transport-marketplace/internal/db"
	"github.com/adjamedev/transport-marketplace/internal/handlers"
	"github.com/adjamedev/transport-marketplace/internal/logger"
	"github.com/adjamedev/transport-marketplace/internal/projection"
	"github.com/adjamedev/transport-marketplace/internal/router"
	"github.com/adjamedev/transport-marketplace/internal/seo"
)

func main() {
	logger.Setup()
	cfg := config.Load()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	authService, err := auth.NewService()
	if err != nil {
		logrus.WithError(err).Fatal("auth service initialization failed")
	}

	database := connectDatabase(cfg)
	collections := db.New(database)

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logrus.WithError(err).Warn("upload directory unavailable")
	}

	worker := projection.NewWorker(collections.EnhancedRoutes, 64)
	go worker.Run()

	routeHandler := handlers.NewRouteHandler(collections.Routes, collections.Companies, worker)

	engine := router.New(router.Handlers{
		Companies:      handlers.NewCompanyHandler(collections.Companies, authService, cfg.UploadDir),
		Routes:         routeHandler,
		EnhancedRoutes: handlers.NewEnhancedRouteHandler(collections.EnhancedRoutes, collections.Routes, collections.Companies),
		Vehicles:       handlers.NewVehicleHandler(collections.Vehicles),
		Schedules:      handlers.NewScheduleHandler(collections.Schedules, collections.Routes),
		Auth:           handlers.NewAuthHandler(collections.Users, authService),
		SEO:            handlers.NewSEOHandler(seo.NewClient(cfg.GeminiAPIKey), collections.EnhancedRoutes),
	}, router.Options{
		AuthService: authService,
		UploadDir:   cfg.UploadDir,
		ClientDist:  cfg.ClientDist,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("forced shutdown")
	}

	worker.Stop()
	logrus.Info("server stopped")
}

// connectDatabase opens Mongo when MONGODB_URI is set. A missing or failing
// connection does not stop the boot: the API comes up and storage-backed
// endpoints report errors until the database is reachable.
func connectDatabase(cfg config.Config) *mongo.Database {
	if cfg.MongoURI == "" {
		logrus.Warn("MONGODB_URI not set, starting without database")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logrus.WithError(err).Warn("database connection failed, starting without database")
		return nil
	}

	database := client.Database(cfg.DatabaseName)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		logrus.WithError(err).Error("index creation failed")
	}
	logrus.WithField("database", cfg.DatabaseName).Info("connected to MongoDB")
	return database
}
