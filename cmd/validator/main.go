// Package main runs the fight validator: it re-simulates client-reported
// fights stored in PostgreSQL and marks each verified or rejected.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/cory-johannsen/arena/internal/bootstrap"
)

func main() {
	start := time.Now()
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()
	lc, cleanup, err := initialize(ctx, bootstrap.ConfigPath(*configPath))
	if err != nil {
		log.Fatalf("initializing validator: %v", err)
	}
	defer cleanup()

	log.Printf("validator initialized [%s]", time.Since(start))
	if err := lc.Run(ctx); err != nil {
		log.Fatalf("validator stopped: %v", err)
	}
}
