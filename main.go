package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"dev-feedback-system/handlers"
	"dev-feedback-system/middleware"
	"dev-feedback-system/models"
	"dev-feedback-system/services"
	"dev-feedback-system/utils"
	"dev-feedback-system/workers"

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
		BodyLimit: 20 * 1024 * 1024, // 20MB, screenshots only
	})

	// 🔐 GLOBAL: only Gateway requests allowed
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
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if os.Getenv("CLOUDFLARE_ACCOUNT_ID") != "" {
		if err := utils.InitR2(); err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
	} else {
		log.Println("⚠️  R2 not configured, screenshots go to local uploads dir")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Issue{},
		&models.IssueResponse{},
		&models.IssueVote{},
		&models.ResponseVote{},
		&models.Post{},
		&models.Comment{},
		&models.PostVote{},
		&models.CommentVote{},
		&models.Message{},
		&models.MessageReply{},
		&models.MessageVote{},
		&models.MessageReplyVote{},
		&models.ProjectRating{},
		&models.UserRating{},
		&models.Offer{},
		&models.OfferRedemption{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	karmaService := services.NewKarmaService(db)
	offerService := services.NewOfferService(db)
	issueService := services.NewIssueService(db)
	voteService := services.NewVoteService(db)
	ratingService := services.NewRatingService(db)
	leaderboardService := services.NewLeaderboardService(db)
	projectService := services.NewProjectService(db)
	communityService := services.NewCommunityService(db)
	accountService := services.NewAccountService(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweepWorker := workers.NewPenaltySweepWorker(db)
	sweepWorker.Start(ctx)

	offerService.StartOfferScheduler()

	handlers.SetupKarmaRoutes(app, karmaService)
	handlers.SetupOfferRoutes(app, offerService)
	handlers.SetupIssueRoutes(app, issueService)
	handlers.SetupVoteRoutes(app, voteService)
	handlers.SetupRatingRoutes(app, ratingService)
	handlers.SetupLeaderboardRoutes(app, leaderboardService, offerService)
	handlers.SetupProjectRoutes(app, projectService)
	handlers.SetupCommunityRoutes(app, communityService)
	handlers.SetupAccountRoutes(app, accountService)

	app.Static("/uploads", "./uploads")

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Penalty Sweep Worker running")
	log.Println("✅ Offer expiry scheduler running (every 1m)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
