package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"delivery-route-service/internal/adapters/cache"
	"delivery-route-service/internal/adapters/distance"
	"delivery-route-service/internal/adapters/repositories"
	"delivery-route-service/internal/config"
	"delivery-route-service/internal/regionbuilder"
)

// main derives a region from real-world restaurant/neighborhood addresses
// via OpenRouteService and stores it alongside the statically-defined
// regions cmd/server/cmd/simulate seed, the same way the teacher's
// cmd/server composition root wires distance.NewORSDistanceProvider behind
// its SQLite caches.
func main() {
	addressesPath := flag.String("addresses", "data/seeds/region_addresses.json", "path to a region addresses JSON file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.Load()

	orsKey := os.Getenv("ORS_API_KEY")
	if strings.TrimSpace(orsKey) == "" {
		log.Fatal("ORS_API_KEY is required")
	}

	db, err := openDB(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := repositories.InitSchema(db); err != nil {
		log.Fatal(err)
	}

	spec, err := readAddressesSpec(*addressesPath)
	if err != nil {
		log.Fatal(err)
	}

	// ORS provider uses persistent SQL caches to avoid repeated geocode/matrix calls.
	distanceCache := cache.NewSQLDistanceCache(db)
	geocodeCache := cache.NewSQLGeocodeCache(db)
	provider, err := distance.NewORSDistanceProvider(orsKey, distanceCache, geocodeCache)
	if err != nil {
		log.Fatal(err)
	}

	region, err := regionbuilder.FromAddresses(context.Background(), provider, spec.Restaurants, spec.Neighborhoods)
	if err != nil {
		log.Fatal(err)
	}

	regions := repositories.NewSqliteRegionRepository(db)
	if err := regions.SaveRegion(spec.RegionID, repositories.FromRegion(region)); err != nil {
		log.Fatal(err)
	}

	log.Printf(
		"region built and saved region_id=%s restaurants=%d neighborhoods=%d",
		spec.RegionID, len(region.Restaurants()), len(region.Neighborhoods()),
	)
}

func readAddressesSpec(path string) (regionbuilder.RegionAddressesSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return regionbuilder.RegionAddressesSpec{}, fmt.Errorf("read addresses spec %q: %w", path, err)
	}

	var spec regionbuilder.RegionAddressesSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return regionbuilder.RegionAddressesSpec{}, fmt.Errorf("parse addresses spec %q: %w", path, err)
	}
	if spec.RegionID == "" {
		return regionbuilder.RegionAddressesSpec{}, fmt.Errorf("addresses spec %q: region_id is required", path)
	}

	return spec, nil
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
