package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"storerate/internal/apperrors"
	"storerate/internal/handlers"
	"storerate/internal/middleware"
	"storerate/internal/models"
	"storerate/internal/repositories"
	"storerate/internal/services"
	"storerate/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DB_DRIVER", "postgres")
	viper.SetDefault("DATABASE_DSN", "host=localhost user=storerate password=storerate dbname=storerate port=5432 sslmode=disable")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.AutomaticEnv()

	if level, err := zerolog.ParseLevel(viper.GetString("LOG_LEVEL")); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	// --- Database ---
	db, err := openDatabase(viper.GetString("DB_DRIVER"), viper.GetString("DATABASE_DSN"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.AutoMigrate(&models.User{}, &models.Store{}, &models.Rating{}); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// --- RabbitMQ (optional) ---
	var mqClient *rabbitmq.Client
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
		}
		defer mqClient.Close()
	} else {
		log.Info().Msg("RABBITMQ_URL not set, rating events disabled")
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	storeRepo := repositories.NewGORMStoreRepository(db)
	ratingRepo := repositories.NewGORMRatingRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, jwtSecret)
	storeService := services.NewStoreService(storeRepo, userRepo)
	userService := services.NewUserService(userRepo, storeRepo, ratingRepo)

	var publisher services.EventPublisher
	if mqClient != nil {
		publisher = mqClient
	}
	ratingService := services.NewRatingService(ratingRepo, storeRepo, publisher)

	// --- Seed admin account (optional) ---
	seedAdmin(authService)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	storeHandler := handlers.NewStoreHandler(storeService, ratingService)
	ratingHandler := handlers.NewRatingHandler(ratingService)
	userHandler := handlers.NewUserHandler(userService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(fiberlogger.New())

	apiV1 := app.Group("/api/v1")

	// Public routes
	authHandler.RegisterRoutes(apiV1)

	// Protected routes
	protected := apiV1.Group("", middleware.AuthRequired(authService))
	authHandler.RegisterProtectedRoutes(protected)
	storeHandler.RegisterRoutes(protected)
	ratingHandler.RegisterRoutes(protected)
	userHandler.RegisterRoutes(protected)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
		})
	})

	// --- Rating event consumer ---
	if mqClient != nil {
		go func() {
			log.Info().Msg("starting rating event consumer")
			handler := func(msg amqp.Delivery) error {
				log.Info().RawJSON("event", msg.Body).Msg("rating event received")
				return nil
			}
			if consumerErr := mqClient.ConsumeRatingEvents(handler); consumerErr != nil {
				log.Error().Err(consumerErr).Msg("rating event consumer stopped")
			}
		}()
	}

	// --- Start HTTP server ---
	appPort := viper.GetString("APP_PORT")
	log.Info().Str("port", appPort).Msg("starting server")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")

	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server stopped")
}

// openDatabase opens the configured driver. TranslateError turns driver
// unique-violation errors into gorm.ErrDuplicatedKey, which the
// repositories rely on for duplicate-email detection.
func openDatabase(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}
	switch driver {
	case "postgres":
		return gorm.Open(postgres.Open(dsn), cfg)
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), cfg)
	}
	return nil, errors.New("unsupported DB_DRIVER: " + driver)
}

// seedAdmin creates the bootstrap admin account when SEED_ADMIN_EMAIL and
// SEED_ADMIN_PASSWORD are configured. An already-registered email is fine.
func seedAdmin(authService *services.AuthService) {
	email := viper.GetString("SEED_ADMIN_EMAIL")
	password := viper.GetString("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	_, err := authService.RegisterUser(services.RegisterInput{
		Name:     "Platform Admin",
		Email:    email,
		Password: password,
		Address:  "HQ",
		Role:     string(models.RoleAdmin),
	})
	switch {
	case err == nil:
		log.Info().Str("email", email).Msg("seeded admin account")
	case errors.Is(err, apperrors.ErrDuplicateEmail):
		// Already seeded on a previous boot.
	default:
		log.Error().Err(err).Msg("failed to seed admin account")
	}
}
