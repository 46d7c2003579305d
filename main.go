package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"deen-quest-system/handlers"
	"deen-quest-system/middleware"
	"deen-quest-system/models"
	"deen-quest-system/services"
	"deen-quest-system/utils"
	"deen-quest-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("⚠️  No .env file found, reading environment variables directly")
	}

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if err := utils.InitLocation(); err != nil {
		log.Fatalf("failed to load timezone: %v", err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB, icons only
	})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Info("⚠️  ALLOWED_ORIGINS not set, using default: http://localhost:3000")
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
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Warnf("⚠️  R2 init failed, icon uploads fall back to local storage: %v", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.DailyAction{},
		&models.PrayerCompletion{},
		&models.AzkarCompletion{},
		&models.FastingCompletion{},
		&models.AzkarGroup{},
		&models.Azkar{},
		&models.Challenge{},
		&models.ChallengeTask{},
		&models.ChallengeProgress{},
		&models.Item{},
		&models.UserItem{},
		&models.Purchase{},
		&models.Badge{},
		&models.UserBadge{},
		&models.PrayerTimesCache{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatalf("failed to ensure upload dir: %v", err)
	}

	badgeService := services.NewBadgeService(db)
	if err := badgeService.SeedDefaultBadges(); err != nil {
		log.Fatalf("failed to seed badges: %v", err)
	}

	// Badge awarding consumes engine events through the notifier port.
	notifier := services.NewAsyncNotifier(badgeService)

	ledgerService := services.NewLedgerService(db, notifier)
	dailyService := services.NewDailyService(db, ledgerService)
	challengeService := services.NewChallengeService(db, ledgerService, notifier)
	shopService := services.NewShopService(db, ledgerService)
	azkarService := services.NewAzkarService(db)
	prayerTimesService := services.NewPrayerTimesService(db)

	profileServiceURL := os.Getenv("PROFILE_SERVICE_URL")
	serviceToken := os.Getenv("TRACKER_SERVICE_TOKEN")
	if profileServiceURL == "" {
		log.Fatal("PROFILE_SERVICE_URL environment variable not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncWorker := workers.NewUserSyncWorker(db, profileServiceURL, "/api/v1/public/profiles", serviceToken)
	syncWorker.Start(ctx)

	prefetchScheduler := prayerTimesService.StartPrefetchScheduler()

	handlers.SetupDailyRoutes(app, dailyService, prayerTimesService)
	handlers.SetupChallengeRoutes(app, challengeService)
	handlers.SetupShopRoutes(app, shopService)
	handlers.SetupProfileRoutes(app, db, ledgerService, badgeService, azkarService)
	handlers.SetupAdminRoutes(app, challengeService, shopService, badgeService, azkarService, ledgerService)

	app.Static("/uploads", "./uploads")

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Errorf("Server error: %v", err)
		}
	}()

	log.Infof("✅ Server running on http://localhost:%s", port)
	log.Info("✅ User Sync Worker running")
	log.Info("✅ GatewayAuthMiddleware enforced globally — all requests must come through Gateway")
	log.Infof("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Info("Shutting down server...")
	if prefetchScheduler != nil {
		_ = prefetchScheduler.Shutdown()
	}
	_ = app.Shutdown()
}
