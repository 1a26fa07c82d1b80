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
	"github.com/rs/zerolog"

	"github.com/gradegenie/gradegenie-api/internal/config"
	"github.com/gradegenie/gradegenie-api/internal/content"
	"github.com/gradegenie/gradegenie-api/internal/database"
	"github.com/gradegenie/gradegenie-api/internal/handler"
	"github.com/gradegenie/gradegenie-api/internal/middleware"
	"github.com/gradegenie/gradegenie-api/internal/models"
	"github.com/gradegenie/gradegenie-api/internal/repository"
	"github.com/gradegenie/gradegenie-api/internal/router"
	"github.com/gradegenie/gradegenie-api/internal/service"
	"github.com/gradegenie/gradegenie-api/pkg/ai"
	cloud "github.com/gradegenie/gradegenie-api/pkg/cloudinary"
	"github.com/gradegenie/gradegenie-api/pkg/lms"
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
		&models.User{},
		&models.Course{},
		&models.Assignment{},
		&models.Question{},
		&models.InstructionSection{},
		&models.RubricItem{},
		&models.ChecklistItem{},
		&models.ParticipationCriterion{},
		&models.AnswerKeyEntry{},
		&models.Class{},
		&models.Student{},
		&models.Teacher{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, caching and drafts disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	var publisher lms.Publisher
	if cfg.NATSURL != "" {
		natsPublisher, err := lms.NewNATSPublisher(cfg.NATSURL, cfg.LMSPublishSubject, logger)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
	} else {
		publisher = lms.NewLogPublisher(logger)
	}

	var uploader service.FileUploader
	if cfg.CloudinaryCloudName != "" {
		cloudService, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		uploader = cloudService
	}

	generator, err := ai.NewOpenAIGenerator(ai.OpenAIConfig{
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.OpenAIModel,
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("failed to create content generator: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	renderer := content.NewRenderer()

	userRepo := repository.NewUserRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)

	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, validate, redisClient, cfg.DetailCacheTTL, logger)
	generationService := service.NewGenerationService(assignmentRepo, generator, renderer, publisher, validate, logger)
	resourceService := service.NewResourceService(assignmentRepo, validate, redisClient, logger)
	courseService := service.NewCourseService(courseRepo, assignmentRepo, generator, uploader, validate, logger)
	classroomService := service.NewClassroomService(classroomRepo, validate, logger)
	draftService := service.NewDraftService(redisClient, cfg.WizardDraftTTL, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    cfg.MaxUploadMB << 20,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, logger),
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, generationService, logger),
		ResourceHandler:   handler.NewResourceHandler(resourceService, logger),
		CourseHandler:     handler.NewCourseHandler(courseService, cfg.MaxUploadMB, logger),
		ClassroomHandler:  handler.NewClassroomHandler(classroomService, logger),
		DraftHandler:      handler.NewDraftHandler(draftService, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
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
