// Package main is the entry point for the catalog service.
package main

import (
	"context"
	"fmt"
	"os"

	"catalog/bootstrap"
)

// run initializes and starts the catalog service.
func run() error {
	ctx := context.Background()

	app, err := bootstrap.NewApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	app.Start()
	app.WaitForShutdown()
	app.Shutdown()

	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
