package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"delivery-route-service/internal/adapters/repositories"
	"delivery-route-service/internal/config"
	"delivery-route-service/internal/dispatch"
	"delivery-route-service/internal/generator"
	"delivery-route-service/internal/simulation"
)

// main is a one-shot composition root: it runs a single simulation to
// completion against a stored (or freshly-seeded) region, prints the
// report, and persists it. Long-lived serving is cmd/server's job.
func main() {
	regionFlag := flag.String("region", "", "region_id to run against (defaults to the seeded region)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()

	db, err := openDB(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := repositories.InitSchema(db); err != nil {
		log.Fatal(err)
	}

	regionID := *regionFlag
	seededID, err := repositories.SeedRegionFromJSON(db, cfg.RegionSeedPath)
	if err != nil {
		log.Fatal(err)
	}
	if regionID == "" {
		regionID = seededID
	}

	regions := repositories.NewSqliteRegionRepository(db)
	region, err := regions.GetRegion(regionID)
	if err != nil {
		log.Fatal(err)
	}

	opts := simulation.Options{
		RegionID:              regionID,
		VehicleCapacity:       cfg.VehicleCapacity,
		VehiclesPerRestaurant: 1,
		SendOutPolicy: dispatch.SendOutPolicy{
			SlackTicks: cfg.SendOutSlackTicks,
			WeightFrac: cfg.SendOutWeightFrac,
		},
		RebalanceEnabled: cfg.RebalanceEnabled,
		Generator: generator.FridayOrderGeneratorOptions{
			OrderCount:        cfg.OrderCount,
			DeliveryInterval:  cfg.OrderDeliveryInterval,
			MaxWeight:         cfg.OrderMaxWeight,
			StandardDeviation: cfg.OrderStdDev,
		},
		Seed:                  cfg.Seed,
		LastTick:               cfg.LastTick,
		AmountDeliveredFactor: cfg.AmountDeliveredFactor,
		InTimeMaxTicksOff:     cfg.InTimeMaxTicksOff,
		InTimeIgnoredTicksOff: cfg.InTimeIgnoredTicksOff,
		TravelDistanceFactor:  cfg.TravelDistanceFactor,
	}

	ctx := context.Background()
	runner, err := simulation.New(ctx, region, opts)
	if err != nil {
		log.Fatal(err)
	}

	report, err := runner.Run(ctx)
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}

	runID := fmt.Sprintf("cli-%s", regionID)
	reports := repositories.NewSqliteReportRepository(db)
	if err := reports.SaveReport(runID, report); err != nil {
		log.Fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatal(err)
	}
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
