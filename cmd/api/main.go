package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"breeding-scheduler/internal/adapters/notify/huginn"
	"breeding-scheduler/internal/platform/logger"
	"breeding-scheduler/internal/ports/notify"
	"breeding-scheduler/internal/router"

	"github.com/robfig/cron/v3"
)

func main() {
	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	appLog := logger.NewFromEnv()

	// Notifier: si Huginn no está configurado por env, los scans cortan
	// sin efectos (zero-effect result), no es un error fatal.
	var notifier notify.Notifier
	if baseURL := os.Getenv("NOTIFIER_BASE_URL"); baseURL != "" {
		client, err := huginn.NewClient(huginn.Config{
			BaseURL: baseURL,
			APIKey:  os.Getenv("NOTIFIER_API_KEY"),
		})
		if err != nil {
			log.Fatalf("notifier config error: %v", err)
		}
		notifier = client
	}

	app := router.NewApp(router.Options{
		AuthVerifier: nil, // sin verifier para modo dev
		Notifier:     notifier,
		Log:          appLog,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Trigger periódico: SCAN_CRON (spec robfig/cron, ej "@every 1h").
	// Sin la env var, el scan solo corre vía POST /reminders/scan.
	if spec := os.Getenv("SCAN_CRON"); spec != "" {
		c := cron.New()
		_, err := c.AddFunc(spec, func() {
			results, err := app.Reminders.ScanAll(ctx)
			if err != nil {
				appLog.Error("scheduled scan failed", map[string]any{"err": err.Error()})
				return
			}
			sent, errs := 0, 0
			for _, r := range results {
				sent += r.Sent
				errs += len(r.Errors)
			}
			appLog.Info("scheduled scan done", map[string]any{
				"tenants": len(results),
				"sent":    sent,
				"errors":  errs,
			})
		})
		if err != nil {
			log.Fatalf("invalid SCAN_CRON %q: %v", spec, err)
		}
		c.Start()
		defer c.Stop()
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      app.Handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("starting server on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
