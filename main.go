package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/meddlesome/hoymiles-mea-tou/cmd"
)

//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen --config=./gen/config.yaml ./gen/api.yaml

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v\n", err)
	}

	app := &cli.App{
		Name:  "tou-aggregator",
		Usage: "MEA time-of-use consumption aggregation for Hoymiles readings",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   "INFO",
			},
			&cli.StringFlag{
				Name:    "source-dir",
				Usage:   "directory of YYYY-MM-DD.json reading files",
				EnvVars: []string{"SOURCE_DIR"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "aggregate",
				Usage:  "aggregate one day and print it as JSON",
				Action: cmd.AggregateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "date",
						Usage: "YYYY-MM-DD, defaults to yesterday",
					},
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "readings file, - for stdin",
					},
					publishFlag(),
				},
			},
			{
				Name:   "backfill",
				Usage:  "aggregate a range of days from the source directory",
				Action: cmd.BackfillCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "from",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "to",
						Usage: "YYYY-MM-DD, defaults to yesterday",
					},
					&cli.IntFlag{
						Name:    "workers",
						EnvVars: []string{"BACKFILL_WORKERS"},
						Value:   4,
					},
					publishFlag(),
				},
			},
			{
				Name:   "serve",
				Usage:  "serve the HTTP API and aggregate every day on schedule",
				Action: cmd.ServeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "http-addr",
						EnvVars: []string{"HTTP_ADDR"},
						Value:   "0.0.0.0:8000",
					},
				},
			},
			{
				Name:   "keygen",
				Usage:  "generate an API key for POST requests",
				Action: cmd.KeygenCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "length",
						Value: 32,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func publishFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "publish",
		Usage: "write results to the configured postgres and mqtt publishers",
	}
}
