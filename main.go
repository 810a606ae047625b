package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"clubledger/cmd"
	"clubledger/config"
	"clubledger/database"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(); err != nil {
			log.WithError(err).Fatal("Migration error")
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if err := cmd.Run(ctx); err != nil {
		log.WithError(err).Fatal("Application error")
	}
}

// handleMigrationCommand runs migrations without requiring the full config
func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: clubledger migrate [up|down|status] [args...]")
	}

	_ = godotenv.Load()
	databaseURL := database.ConstructDatabaseURL(os.Getenv("DATABASE_URL"), os.Getenv("DATABASE_NAME"))
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	cmd.SetupLogging(&config.Config{LogLevel: os.Getenv("LOG_LEVEL"), Environment: os.Getenv("ENVIRONMENT")})

	switch command := os.Args[2]; command {
	case "up":
		return database.MigrateUp(databaseURL)
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(databaseURL, steps)
	case "status":
		return database.MigrateStatus(databaseURL)
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}
