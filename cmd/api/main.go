package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/alumlink/alumlink-api/internal/config"
	"github.com/alumlink/alumlink-api/internal/database"
	"github.com/alumlink/alumlink-api/internal/handler"
	"github.com/alumlink/alumlink-api/internal/middleware"
	"github.com/alumlink/alumlink-api/internal/models"
	"github.com/alumlink/alumlink-api/internal/repository"
	"github.com/alumlink/alumlink-api/internal/router"
	"github.com/alumlink/alumlink-api/internal/service"
	cloud "github.com/alumlink/alumlink-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.School{},
		&models.Batch{},
		&models.User{},
		&models.UserBatch{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Event{},
		&models.EventRsvp{},
		&models.Poll{},
		&models.PollOption{},
		&models.PollVote{},
		&models.MessageThread{},
		&models.ThreadParticipant{},
		&models.DirectMessage{},
		&models.BusinessProfile{},
		&models.Job{},
		&models.Memory{},
		&models.Notification{},
		&models.ActivityLog{},
		&models.UploadRecord{},
		&models.Advertisement{},
		&models.AdImpression{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSServerURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSServerURL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, continuing without cross-node fan-out")
		} else {
			defer natsConn.Close()
		}
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	postRepo := repository.NewPostRepository(db)
	eventRepo := repository.NewEventRepository(db)
	pollRepo := repository.NewPollRepository(db)
	threadRepo := repository.NewThreadRepository(db)
	businessRepo := repository.NewBusinessRepository(db)
	jobRepo := repository.NewJobRepository(db)
	memoryRepo := repository.NewMemoryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	uploadRepo := repository.NewUploadRepository(db)
	adRepo := repository.NewAdRepository(db)

	notificationService := service.NewNotificationService(notificationRepo, redisClient, cfg.NotificationChannel, natsConn, validate, logger)
	messageStream := service.NewMessageStreamService(redisClient, cfg.NotificationChannel, natsConn, logger)

	authService := service.NewAuthService(userRepo, batchRepo, validate, cfg.JWTSecret, cfg.JWTTokenTTL, cfg.DefaultBatchID, logger)
	feedService := service.NewFeedService(postRepo, notificationService, validate, logger)
	eventService := service.NewEventService(eventRepo, validate, logger)
	pollService := service.NewPollService(pollRepo, validate, logger)
	messagingService := service.NewMessagingService(threadRepo, userRepo, notificationService, messageStream, validate, logger)
	messageStream.AttachSender(messagingService)
	memberService := service.NewMemberService(batchRepo, redisClient, cfg.MemberCacheTTL, logger)
	businessService := service.NewBusinessService(businessRepo, userRepo, validate, logger)
	jobService := service.NewJobService(jobRepo, userRepo, validate, logger)
	memoryService := service.NewMemoryService(memoryRepo, userRepo, validate, logger)
	uploadService := service.NewUploadService(uploader, uploadRepo, cfg.UploadMaxSizeMB, logger)
	adminService := service.NewAdminService(userRepo, postRepo, adRepo, activityRepo, notificationService, validate, logger)

	streamCtx, stopStreams := context.WithCancel(context.Background())
	defer stopStreams()
	notificationService.Start(streamCtx)
	messageStream.Start(streamCtx)

	authHandler := handler.NewAuthHandler(authService, validate, logger)
	feedHandler := handler.NewFeedHandler(feedService, validate, logger)
	eventHandler := handler.NewEventHandler(eventService, validate, logger)
	pollHandler := handler.NewPollHandler(pollService, validate, logger)
	messagingHandler := handler.NewMessagingHandler(messagingService, messageStream, validate, logger)
	memberHandler := handler.NewMemberHandler(memberService, logger)
	businessHandler := handler.NewBusinessHandler(businessService, validate, logger)
	jobHandler := handler.NewJobHandler(jobService, validate, logger)
	memoryHandler := handler.NewMemoryHandler(memoryService, validate, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger, 30*time.Second)
	uploadHandler := handler.NewUploadHandler(uploadService, logger)
	adminHandler := handler.NewAdminHandler(adminService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:         authHandler,
		FeedHandler:         feedHandler,
		EventHandler:        eventHandler,
		PollHandler:         pollHandler,
		MessagingHandler:    messagingHandler,
		MemberHandler:       memberHandler,
		BusinessHandler:     businessHandler,
		JobHandler:          jobHandler,
		MemoryHandler:       memoryHandler,
		NotificationHandler: notificationHandler,
		UploadHandler:       uploadHandler,
		AdminHandler:        adminHandler,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
		DB:                  db,
		Redis:               redisClient,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
