// cmd/migrate/main.go
package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/pagebound/bookstore-backend/internal/config"
	"github.com/pagebound/bookstore-backend/internal/database"
)

func main() {
	rollback := flag.Bool("rollback", false, "revert the most recently applied migration")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	if *rollback {
		if err := database.RollbackLast(db); err != nil {
			logrus.WithError(err).Fatal("Rollback failed")
		}
		return
	}

	if err := database.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("Migration failed")
	}
}
