package main

import (
	"flag"
	"os"

	"github.com/W-Nunes/MobiVan/internal/adapters/repositories"
	"github.com/W-Nunes/MobiVan/internal/config"
	"github.com/W-Nunes/MobiVan/internal/platform/db"
	"github.com/W-Nunes/MobiVan/internal/platform/logger"
)

// dbtool creates the roster schema and loads a seed file into either the
// SQLite file or the Postgres database named by DATABASE_URL.
func main() {
	cfg := config.Load()
	log := logger.New(os.Stderr, cfg.Log)

	driver := flag.String("driver", cfg.DB.Driver, "database/sql driver: sqlite or pgx")
	seedPath := flag.String("seed", cfg.DB.SeedPath, "roster seed JSON file")
	flag.Parse()

	dbCfg := cfg.DB
	dbCfg.Driver = *driver
	if dbCfg.Driver == "" {
		dbCfg.Driver = db.DriverSQLite
	}
	if dbCfg.Driver == db.DriverPostgres && dbCfg.DatabaseURL == "" {
		log.Error("DATABASE_URL is required for the pgx driver")
		os.Exit(1)
	}

	conn, err := db.Open(dbCfg.Driver, dbCfg.DSN())
	if err != nil {
		log.Error("open database", "err", err)
		os.Exit(1)
	}
	defer conn.Close()

	log.Info("initializing database schema", "driver", dbCfg.Driver)
	if err := repositories.InitSchema(conn); err != nil {
		log.Error("schema initialization failed", "err", err)
		os.Exit(1)
	}

	log.Info("seeding database", "seed", *seedPath)
	if err := repositories.SeedFromJSON(conn, dbCfg.Driver, *seedPath); err != nil {
		log.Error("seeding failed", "err", err)
		os.Exit(1)
	}
	log.Info("seeding complete")
}
