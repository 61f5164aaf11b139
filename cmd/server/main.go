package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"delivery-route-service/internal/adapters/cache"
	"delivery-route-service/internal/adapters/repositories"
	"delivery-route-service/internal/api"
	"delivery-route-service/internal/config"
	"delivery-route-service/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, optional Redis) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()

	db, err := openDB(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize schema and seed the demo region on startup for local runs.
	if err := initAndSeed(db, cfg.RegionSeedPath); err != nil {
		log.Fatal(err)
	}

	regions := repositories.NewSqliteRegionRepository(db)

	var reports ports.ReportRepository = repositories.NewSqliteReportRepository(db)
	if cfg.RedisAddr != "" {
		reportCache, err := cache.NewRedisReportCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatal(err)
		}
		reports = &cache.CachedReportRepository{Repo: reports, Cache: reportCache}
	}

	router := api.NewRouter(regions, reports, cfg)

	log.Printf("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// A synchronous run over the default 480-tick scenario is cheap, but
		// leave headroom for larger LastTick/OrderCount overrides.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if _, err := repositories.SeedRegionFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
