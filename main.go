package main

import (
	"log"
	"os"

	"referral-service/internal/database"
	"referral-service/internal/handlers"
	"referral-service/internal/middleware"
	"referral-service/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found in current directory, trying parent")
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found, using system environment variables")
		}
	}

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}

	// Initialize Database
	database.Connect()
	database.Migrate()
	db := database.DB

	// Init Services
	ledgerService := services.NewLedgerService(db)
	configService := services.NewConfigService(db)
	invitationService := services.NewInvitationService(db, ledgerService, nil)
	referralService := services.NewReferralService(db, ledgerService)
	commissionService := services.NewCommissionService(db, referralService, configService, ledgerService)
	withdrawalService := services.NewWithdrawalService(db, configService, ledgerService, nil)

	// Redis/Asynq Client
	redisAddr := os.Getenv("REDIS_URL")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer asynqClient.Close()

	distributionHandler := handlers.NewDistributionHandler(
		invitationService,
		referralService,
		commissionService,
		withdrawalService,
		asynqClient,
	)

	// Initialize Gin
	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Welcome to the referral service",
		})
	})

	// Distribution routes (authenticated users)
	api := r.Group("/api/distribution", middleware.Auth(os.Getenv("JWT_SECRET")))
	{
		api.GET("/my-code", distributionHandler.MyCode)
		api.POST("/bind-inviter", distributionHandler.BindInviter)
		api.GET("/my-stats", distributionHandler.MyStats)
		api.GET("/my-team", distributionHandler.MyTeam)
		api.POST("/withdraw", distributionHandler.Withdraw)
		api.GET("/withdrawals", distributionHandler.ListWithdrawals)
	}

	// Internal routes (payment service)
	internal := r.Group("/internal", middleware.InternalToken(os.Getenv("INTERNAL_API_KEY")))
	{
		internal.POST("/distributions", distributionHandler.OrderSettled)
		internal.GET("/withdrawals", distributionHandler.PendingWithdrawals)
		internal.POST("/withdrawals/:id/process", distributionHandler.ProcessWithdrawal)
	}

	// Start Cron Schedulers
	archiveService := services.NewCommissionArchiveService(db)
	archiveService.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("HTTP Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
