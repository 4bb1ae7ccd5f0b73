package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"creator-loyalty-system/events"
	"creator-loyalty-system/handlers"
	"creator-loyalty-system/middleware"
	"creator-loyalty-system/models"
	"creator-loyalty-system/services"
	"creator-loyalty-system/utils"
	"creator-loyalty-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 50 * 1024 * 1024, // 50MB — content proof screenshots
	})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-Service-Token, X-User-ID",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Creator{},
		&models.SocialAccount{},
		&models.Product{},
		&models.Collaboration{},
		&models.AchievementType{},
		&models.CreatorAchievement{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	catalogService := services.NewCatalogService(db)
	if err := catalogService.SeedProducts(); err != nil {
		log.Fatal("failed to seed product catalog:", err)
	}
	if err := catalogService.SeedAchievements(); err != nil {
		log.Fatal("failed to seed achievement catalog:", err)
	}

	// --- Redis: cart session store ---
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		log.Println("⚠️  REDIS_ADDR not set, using default: localhost:6379")
		redisAddr = "localhost:6379"
	}
	rdb, err := services.NewCartRedisClient(redisAddr, os.Getenv("REDIS_PASSWORD"), 0)
	if err != nil {
		log.Fatal("failed to connect to Redis:", err)
	}
	defer rdb.Close()

	// --- AMQP: lifecycle event publishing (fallback to no-op when down) ---
	var publisher events.Publisher
	amqpURL := os.Getenv("AMQP_URL")
	if amqpURL == "" {
		log.Println("⚠️  AMQP_URL not set — lifecycle events will be dropped")
		publisher = events.NoopPublisher{}
	} else {
		producer, err := events.NewProducer(amqpURL)
		if err != nil {
			log.Printf("⚠️  Failed to connect to event broker, continuing without events: %v", err)
			publisher = events.NoopPublisher{}
		} else {
			publisher = producer
		}
	}
	defer publisher.Close()

	cartService := services.NewCartService(rdb)
	profileService := services.NewProfileService(db, publisher)
	collabService := services.NewCollaborationService(db, cartService, publisher)

	// --- Profile service sync details ---
	syncServiceURL := os.Getenv("SYNC_SERVICE_URL")
	if syncServiceURL == "" {
		log.Fatal("SYNC_SERVICE_URL environment variable not set")
	}
	serviceToken := os.Getenv("LOYALTY_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("LOYALTY_SERVICE_TOKEN environment variable not set")
	}

	syncWorker := workers.NewCreatorSyncWorker(db, syncServiceURL, "/api/v1/public/profiles", serviceToken)

	metricsClient := workers.NewSocialMetricsClient(db)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go workers.PollSocialMetrics(ctx, metricsClient, 10*time.Minute)

	go func() {
		log.Println("Starting Creator Sync Worker...")
		syncWorker.Start(ctx)
	}()

	collabService.StartDeadlineReminderScheduler()

	// ✅ Setup routes — enforced Gateway auth on everything
	handlers.SetupCatalogRoutes(app, catalogService)
	handlers.SetupProfileRoutes(app, profileService)
	handlers.SetupCartRoutes(app, cartService, catalogService, profileService)
	handlers.SetupCollaborationRoutes(app, collabService, profileService)

	app.Static("/uploads", "./uploads")

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Creator Sync Worker running")
	log.Println("✅ Social metrics polling running (every 10m)")
	log.Println("✅ Deadline reminder scheduler running")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
