package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"

	"flicklist/internal/config"
	"flicklist/internal/database"
	"flicklist/internal/models"
	"flicklist/internal/repository"
)

// admin is the operator-side entrypoint for maintenance that must not
// run on the request path.
func main() {
	app := &cli.Command{
		Name:  "admin",
		Usage: "administrative maintenance for the flicklist store",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "apply schema migrations and exit",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					db, err := openStore()
					if err != nil {
						return err
					}
					return models.Migrate(db)
				},
			},
			{
				Name:  "dedup-watchlist",
				Usage: "collapse duplicate watchlist rows left by pre-constraint stores",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					db, err := openStore()
					if err != nil {
						return err
					}
					deleted, err := repository.NewWatchlistRepository(db).Dedup(ctx)
					if err != nil {
						return err
					}
					logrus.WithField("deleted", deleted).Info("watchlist dedup complete")
					return nil
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("admin command failed")
	}
}

func openStore() (*gorm.DB, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, using environment variables")
	}
	return database.Open(config.Load())
}
