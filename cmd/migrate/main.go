package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"forgequest/internal/datastore"
	"forgequest/internal/models"
	"forgequest/internal/services"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/urfave/cli/v2"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(),
			commandConfigMigration(),
			commandShareholderImport(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration() *cli.Command {
	return &cli.Command{
		Name: "migrate",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTablePlayer(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableWeapon(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableWeaponSupply(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableQuestLog(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableFreeQuestQuota(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTablePendingReward(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableShareholder(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableConfig(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			err = datastore.CreateTableGameEvent(ctx, db)
			if err != nil {
				log.Fatal(err)
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

// insert default configs to db
func commandConfigMigration() *cli.Command {
	return &cli.Command{
		Name:        "migrate-config",
		Description: "Insert default configs to db",
		Action: func(c *cli.Context) error {
			ctx := context.Background()
			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			configs := []models.Config{
				{Key: services.CONFIG_REWARD_MULTIPLIER, Value: strconv.Itoa(services.DEFAULT_REWARD_MULTIPLIER)},
				{Key: services.CONFIG_SUPPLY_DROP_HOURS, Value: strconv.Itoa(services.DEFAULT_SUPPLY_DROP_HOURS)},
				{Key: services.CONFIG_LEADERBOARD_LIMIT, Value: strconv.Itoa(services.LEADERBOARD_DEFAULT_LIMIT)},
				{Key: "CRONJOB_TIME_LEADERBOARD", Value: "@every 5m"},
			}

			for _, config := range configs {
				_, err = db.NewInsert().Model(&config).Exec(ctx)
				if err != nil {
					log.Println(err)
				}
			}

			fmt.Println("Migration success")

			return nil
		},
	}
}

// commandShareholderImport loads the equity table from a CSV of
// name,recipient,percent rows.
func commandShareholderImport() *cli.Command {
	return &cli.Command{
		Name: "import-shareholders",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "input",
				Value: "./shareholders.csv",
			},
		},
		Action: func(c *cli.Context) error {
			ctx := context.Background()

			db, err := getDb()
			if err != nil {
				log.Fatal(err)
			}

			inputPath := c.String("input")
			if _, err := os.Stat(inputPath); os.IsNotExist(err) {
				return err
			}

			file, err := os.Open(inputPath)
			if err != nil {
				return err
			}
			defer file.Close()

			r := csv.NewReader(file)

			var total int64
			for {
				row, err := r.Read()
				if err == io.EOF {
					break
				}
				if err != nil {
					return err
				}

				percent, err := strconv.ParseInt(row[2], 10, 64)
				if err != nil {
					return err
				}
				total += percent
				if total > 100 {
					return fmt.Errorf("shareholder percentages exceed 100 at %s", row[0])
				}

				shareholder := &models.Shareholder{
					Name:      row[0],
					Recipient: row[1],
					Percent:   percent,
				}
				if err := datastore.InsertShareholder(ctx, db, shareholder); err != nil {
					fmt.Println(err)
				}
			}

			fmt.Println("Import success")

			return nil
		},
	}
}

func getDb() (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(os.Getenv("DB_DSN")),
		pgdriver.WithPassword(os.Getenv("DB_PASSWORD")),
	))

	db := bun.NewDB(sqldb, pgdialect.New())
	return db, nil
}
