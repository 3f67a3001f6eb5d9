// cmd/seed/main.go
package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/pagebound/bookstore-backend/internal/config"
	"github.com/pagebound/bookstore-backend/internal/database"
	"github.com/pagebound/bookstore-backend/internal/models"
)

func main() {
	down := flag.Bool("down", false, "remove the seeded fixture rows")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	if cfg.Environment == "production" {
		logrus.Fatal("Refusing to seed a production environment")
	}

	models.SetHashCost(cfg.Auth.BcryptCost)

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	if *down {
		if err := database.SeedDown(db, cfg); err != nil {
			logrus.WithError(err).Fatal("Seed removal failed")
		}
		return
	}

	if err := database.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("Migration failed")
	}

	if err := database.Seed(db, cfg); err != nil {
		logrus.WithError(err).Fatal("Seeding failed")
	}
}
