package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/sweeper/cmd/sweepctl/cmd"
	"github.com/armadaproject/sweeper/internal/common"
	"github.com/armadaproject/sweeper/internal/sweeper/metrics"
	"github.com/armadaproject/sweeper/pkg/entrypoint"
	"github.com/armadaproject/sweeper/pkg/entrypoint/examples"
)

// Config is handled by cmd/params.go
func main() {
	common.ConfigureCommandLineLogging()
	if err := metrics.CountLogMessages(); err != nil {
		log.Warnf("log messages will not be counted: %s", err)
	}
	if err := examples.RegisterAll(entrypoint.Default); err != nil {
		log.Fatalf("error registering entrypoints: %s", err)
	}
	err := cmd.RootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}
