package main

import (
	"log"

	"referral-service/internal/database"
	"referral-service/internal/models"

	"github.com/joho/godotenv"
)

// Default per-level rates and withdrawal policy, applied only when the
// config table is empty. The admin side owns the rows afterwards.
var defaultConfigs = []models.CommissionConfig{
	{Level: 1, CommissionRate: 30, IsActive: true, MinWithdrawalAmount: 10, WithdrawalFeeRate: 0},
	{Level: 2, CommissionRate: 10, IsActive: true, MinWithdrawalAmount: 10, WithdrawalFeeRate: 0},
	{Level: 3, CommissionRate: 5, IsActive: true, MinWithdrawalAmount: 10, WithdrawalFeeRate: 0},
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found in current directory, trying parent")
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found, using system environment variables")
		}
	}

	// Initialize Database
	database.Connect()

	// Run Migrations
	log.Println("Running database migrations...")
	database.Migrate()

	// Seed distribution config when empty
	var count int64
	if err := database.DB.Model(&models.CommissionConfig{}).Count(&count).Error; err != nil {
		log.Fatal("Failed to inspect distribution config: ", err)
	}
	if count == 0 {
		if err := database.DB.Create(&defaultConfigs).Error; err != nil {
			log.Fatal("Failed to seed distribution config: ", err)
		}
		log.Println("Seeded default distribution config")
	}

	log.Println("Migrations completed successfully!")
}
