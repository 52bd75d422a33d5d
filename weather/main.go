package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	setupLogging(cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := NewFetcher(cfg.APIURL, cfg.UserAgent, cfg.Timeout)
	server := newServer(fetcher, cfg.Transport)

	log.Printf("Starting %s %s (transport: %s, provider: %s)", serverName, serverVersion, cfg.Transport, cfg.APIURL)
	if err := run(ctx, cfg, server); err != nil {
		log.Fatal(err)
	}
}
