package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

func main() {
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:  "vrfaudit",
		Usage: "recompute MonFair VRF proofs offline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "verify",
				Usage: "verify a game record and write its report",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "kind",
						Usage:    "flipmatch or casino",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "record",
						Usage:    "path to the JSON game record, - for stdin",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "block",
						Usage: "explicit block number to check against",
					},
					&cli.StringFlag{
						Name:    "rpc",
						Usage:   "JSON-RPC endpoint for block data",
						Sources: cli.EnvVars("RPC_URL"),
					},
					&cli.DurationFlag{
						Name:    "rpc-timeout",
						Value:   5 * time.Second,
						Sources: cli.EnvVars("RPC_TIMEOUT"),
					},
					&cli.DurationFlag{
						Name:    "block-interval",
						Value:   2 * time.Second,
						Sources: cli.EnvVars("BLOCK_INTERVAL"),
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "directory to write the report file into",
					},
				},
				Action: runVerify,
			},
			{
				Name:  "format",
				Usage: "render a casino result the way the game shows it",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "game-type",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "result",
						Required: true,
					},
				},
				Action: runFormat,
			},
			{
				Name:  "token",
				Usage: "issue a bearer token the API accepts for a wallet address",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "address",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "secret",
						Sources: cli.EnvVars("JWT_SECRET"),
					},
					&cli.DurationFlag{
						Name:    "ttl",
						Value:   24 * time.Hour,
						Sources: cli.EnvVars("JWT_TTL"),
					},
				},
				Action: runToken,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if lvl, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	}
	return log
}
