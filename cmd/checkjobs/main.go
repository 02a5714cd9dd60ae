package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sahilchouksey/everyday-heroes/model"
	"github.com/sahilchouksey/everyday-heroes/utils/auth"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Build database URL from individual variables
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER_NAME")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}

	dbURL := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName)

	// Connect to database
	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	fmt.Println("========================================")
	fmt.Println("CRON JOBS STATUS CHECK")
	fmt.Println("========================================")

	// Get recent job runs
	var logs []model.CronJobLog
	if err := db.Order("started_at DESC").Limit(20).Find(&logs).Error; err != nil {
		log.Fatalf("Failed to fetch job logs: %v", err)
	}

	if len(logs) == 0 {
		fmt.Println("\n❌ No cron job runs found in database")
	} else {
		fmt.Printf("\n📋 Last %d job runs:\n\n", len(logs))

		for _, entry := range logs {
			statusIcon := "⏳"
			switch entry.Status {
			case "completed":
				statusIcon = "✅"
			case "failed":
				statusIcon = "❌"
			case "running":
				statusIcon = "🔄"
			}

			fmt.Printf("─────────────────────────────────────\n")
			fmt.Printf("%s %s\n", statusIcon, entry.JobName)
			fmt.Printf("   Status: %s\n", entry.Status)
			fmt.Printf("   Started: %s\n", entry.StartedAt.Format("2006-01-02 15:04:05"))
			if entry.CompletedAt != nil {
				fmt.Printf("   Completed: %s (took %s)\n",
					entry.CompletedAt.Format("2006-01-02 15:04:05"),
					entry.CompletedAt.Sub(entry.StartedAt).Round(time.Millisecond))
			}
			if entry.Message != "" {
				fmt.Printf("   Message: %s\n", entry.Message)
			}
			if entry.ErrorMsg != "" {
				fmt.Printf("   Error: %s\n", entry.ErrorMsg)
			}
		}
	}

	// Blacklist health: live entries vs entries the sweep should have removed
	blacklist := auth.NewBlacklistService(db)
	live, err := blacklist.Count(context.Background())
	if err != nil {
		log.Fatalf("Failed to count blacklist entries: %v", err)
	}

	var stale int64
	db.Model(&model.JWTTokenBlacklist{}).Where("expires_at <= ?", time.Now()).Count(&stale)

	fmt.Println("\n========================================")
	fmt.Println("TOKEN BLACKLIST")
	fmt.Println("========================================")
	fmt.Printf("Live revoked tokens: %d\n", live)
	if stale > 0 {
		fmt.Printf("⚠️  Expired entries awaiting sweep: %d\n", stale)
	} else {
		fmt.Println("No expired entries awaiting sweep")
	}

	fmt.Println("\n========================================")
}
