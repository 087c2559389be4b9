package cmd

import (
	"context"
	"log"
	"os"

	"github.com/poslugy/marketplace/app/configs"
	"github.com/poslugy/marketplace/app/db/seeders"
	"github.com/poslugy/marketplace/app/models/migrations"
	"github.com/poslugy/marketplace/app/repositories"
	"github.com/poslugy/marketplace/app/services"
	"github.com/poslugy/marketplace/app/tasks"
	"github.com/urfave/cli/v3"
)

func RunCli() {
	cmd := &cli.Command{
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection()
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Println("✅ Migration complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Seed the database with demo categories, users and services",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection()
					if err != nil {
						return err
					}
					if err := seeders.DBSeed(db); err != nil {
						return err
					}
					log.Println("✅ Seeding complete")
					return nil
				},
			},
			{
				Name:  "worker",
				Usage: "Run the background worker that settles balance top-ups",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection()
					if err != nil {
						return err
					}
					balance := services.NewBalanceService(repositories.NewUserRepository(db))
					worker := tasks.NewWorker(configs.LoadENV.RedisAddr, balance)
					log.Printf("🚀 Worker starting, broker %s", configs.LoadENV.RedisAddr)
					return worker.Run()
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate new session authentication and encryption keys for .env",
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := configs.GenerateAndPrintSessionKeys(); err != nil {
						return err
					}
					log.Println("✅ Key generation complete. Please copy the keys to your .env file.")
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
