// Command migrate applies pending database migrations and exits. Useful in
// deploy pipelines where the API starts with DB_MIGRATE_ON_START=false.
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/nandoportifolio33/cotacao-api/internal/config"
	"github.com/nandoportifolio33/cotacao-api/internal/db"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("run migrations: %v", err)
	}
	log.Println("migrations applied")
}
