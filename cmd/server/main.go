package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ruwbdy/Operation-portal-sub000/internal/clients"
	"github.com/Ruwbdy/Operation-portal-sub000/internal/config"
	"github.com/Ruwbdy/Operation-portal-sub000/internal/db"
	"github.com/Ruwbdy/Operation-portal-sub000/internal/handlers"
	"github.com/Ruwbdy/Operation-portal-sub000/internal/messaging"
	"github.com/Ruwbdy/Operation-portal-sub000/internal/repository"
	"github.com/Ruwbdy/Operation-portal-sub000/internal/session"
	"github.com/Ruwbdy/Operation-portal-sub000/internal/stream"
)

func main() {
	cfg := config.Load()

	// Connect to the CDR store
	chClient, err := db.NewClickHouseClient(cfg.ClickHouse)
	if err != nil {
		log.Fatalf("failed to connect to CDR store: %v", err)
	}
	defer chClient.Close()
	log.Println("CDR store connection initialized")

	cdrRepo := repository.NewCDRRepository(chClient)

	// Ghost-debit alerting is auxiliary to the operator's read path: if
	// RabbitMQ is unreachable the console still starts, with alerts off.
	var alerts session.AlertPublisher
	publisher, err := messaging.NewRabbitMQAlertPublisher(cfg.RabbitMQ)
	if err != nil {
		log.Printf("ghost-debit alerting disabled: %v", err)
	} else {
		defer publisher.Close()
		alerts = publisher
	}

	// Create the stream client and session manager
	streamClient := stream.NewClient(cfg.Stream.BaseURL)
	sessionManager := session.NewManager(streamClient, alerts)

	// Create the provisioning gateway client
	gateway := clients.NewGatewayClient(cfg.Gateway)

	// Create handler and router
	handler := handlers.NewHandler(sessionManager, gateway, cdrRepo)

	addr := ":" + cfg.HTTPPort
	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler.Routes(),
	}

	// Start server in a goroutine
	go func() {
		log.Printf("fulfilment console starting on %s, gateway at %s, stream at %s",
			addr, cfg.Gateway.BaseURL, cfg.Stream.BaseURL)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
