package main

import (
	"log"
	"os"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"referral-service/internal/consumers"
	"referral-service/internal/database"
	"referral-service/internal/services"
	"referral-service/internal/worker"
)

func main() {
	// Load env
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found in ../../.env, trying .env")
		if err := godotenv.Load(".env"); err != nil {
			log.Println("No .env file found, using system env")
		}
	}

	// Connect DB
	database.Connect()
	db := database.DB

	// Init Services
	ledgerService := services.NewLedgerService(db)
	configService := services.NewConfigService(db)
	referralService := services.NewReferralService(db, ledgerService)
	commissionService := services.NewCommissionService(db, referralService, configService, ledgerService)

	// Processor
	processor := consumers.NewSettlementProcessor(commissionService)

	// Redis
	redisAddr := os.Getenv("REDIS_URL")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisOpt := asynq.RedisClientOpt{Addr: redisAddr}

	log.Println("Starting Asynq Worker...")
	worker.StartWorker(redisOpt, processor)
}
