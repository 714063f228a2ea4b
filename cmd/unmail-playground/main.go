// Command unmail-playground sends a batch of requests through one driver and
// prints the normalized responses as JSON lines.
//
// Vendor credentials come from the environment (a .env file in the working
// directory is loaded first):
//
//	unmail-playground -driver sendgrid -request testdata/requests.yaml
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/unproducts/unmail"
	"github.com/unproducts/unmail/pkg/logger"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "unmail-playground:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("unmail-playground", flag.ContinueOnError)
	driverName := fs.String("driver", "", "driver to send with (overrides UNMAIL_DRIVER)")
	requestFile := fs.String("request", "testdata/requests.yaml", "YAML file with a list of requests")
	concurrency := fs.Int("concurrency", 4, "maximum parallel sends")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Missing .env is fine, the environment may already be populated.
	_ = godotenv.Load()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	if *driverName != "" {
		cfg.Driver = *driverName
	}

	log := logger.NewWithSentry(cfg.Sentry, logger.DefaultExtractors()...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reqs, err := loadRequests(*requestFile)
	if err != nil {
		return err
	}

	d, err := buildDriver(cfg, log)
	if err != nil {
		return err
	}

	u, err := unmail.Make(ctx, d, unmail.WithLogger(log))
	if err != nil {
		return err
	}

	results := sendAll(ctx, u, reqs, *concurrency)

	enc := json.NewEncoder(out)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}
	return nil
}
