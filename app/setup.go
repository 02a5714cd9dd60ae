package app

import (
	"fmt"
	"os"

	"github.com/sahilchouksey/everyday-heroes/api"
	"github.com/sahilchouksey/everyday-heroes/config"
	"github.com/sahilchouksey/everyday-heroes/database"
	"github.com/sahilchouksey/everyday-heroes/router"
	"github.com/sahilchouksey/everyday-heroes/services/cron"
	"github.com/sahilchouksey/everyday-heroes/utils/auth"
	"gorm.io/gorm"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether the Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		store.Close()
		return fmt.Errorf("failed to get GORM DB instance")
	}

	// Revocation store shared by the auth gateway and the sweep job
	blacklist := auth.NewBlacklistService(db)

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" { // Default to enabled
		cronManager = cron.NewCronManager(db, blacklist)
		if err := cronManager.Start(); err != nil {
			print("Warning: Failed to start cron jobs\n")
			print("Error: ", err.Error(), "\n")
			// Don't fail the app, just log the warning
		}
	}

	// Defer Closing DB and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes
	router.SetupRoutes(app, store, blacklist)

	// Get the PORT & Start the Server
	return server.Run()
}
