package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spektr-org/dimreport/cli"
	"github.com/spektr-org/dimreport/config"
)

// ============================================================================
// DIMREPORT — Reports over customer, product and sales CSV extracts
// ============================================================================

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if err := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		config.Exitf("Error: %v", err)
	}
	stop()
}
