package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kjannette/tokenboard-backend/internal/api"
	"github.com/kjannette/tokenboard-backend/internal/config"
	"github.com/kjannette/tokenboard-backend/internal/db"
	"github.com/kjannette/tokenboard-backend/internal/media"
	"github.com/kjannette/tokenboard-backend/internal/notifications"
)

const banner = `
╔══════════════════════════════════════╗
║        Tokenboard API v0.1           ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print()

	// Database
	fmt.Printf("\n[DB] Connecting to %s:%d/%s ...\n", cfg.DBHost, cfg.DBPort, cfg.DBName)
	pool, err := db.Connect(cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "[DB] Connection failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		pool.Close()
		fmt.Println("[DB] Connection pool closed")
	}()

	if err := db.TestConnection(pool); err != nil {
		fmt.Fprintf(os.Stderr, "[DB] Test query failed: %v\n", err)
		os.Exit(1)
	}

	// Schema sync must finish before the listener accepts any traffic.
	syncCtx, cancelSync := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Sync(syncCtx, pool); err != nil {
		cancelSync()
		fmt.Fprintf(os.Stderr, "[DB] Schema sync failed: %v\n", err)
		os.Exit(1)
	}
	cancelSync()
	fmt.Println("[DB] Database connected and schema synced")

	// External collaborators
	uploader := media.NewCloudinaryClient(
		cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	notify := notifications.NewSender(cfg.WebhookURL, cfg.ServiceName)

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(pool, uploader, notify, cfg.Port, cfg.CORSAllowOrigin)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "[API] Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	fmt.Printf("\nServer running on port %d\n", cfg.Port)

	// Wait for shutdown signal
	<-ctx.Done()
	fmt.Println("\nShutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "[API] Shutdown error: %v\n", err)
	}
	fmt.Println("[API] Server closed")
	fmt.Println("Shutdown complete")
}
