package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"

	"pet-health-records/internal/adapters/auth/gateway"
	"pet-health-records/internal/adapters/capabilities/plansfeatures"
	"pet-health-records/internal/adapters/reportsvc"
	pg "pet-health-records/internal/adapters/storage/postgres"
	"pet-health-records/internal/config"
	"pet-health-records/internal/domain/reports"
	"pet-health-records/internal/extract"
	"pet-health-records/internal/platform/logger"
	"pet-health-records/internal/ports/auth"
	"pet-health-records/internal/ports/capabilities"
	"pet-health-records/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})

	var db *sql.DB
	if cfg.Database.DSN != "" {
		db, err = pg.Open(cfg.Database.DSN, cfg.Database.MaxOpenConns)
		if err != nil {
			log.Error("database open failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		if cfg.Database.AutoMigrate {
			if err := pg.Migrate(db); err != nil {
				log.Error("migrations failed", map[string]any{"error": err.Error()})
				os.Exit(1)
			}
		}
	}

	// Verifier de tokens; sin base URL queda nil y aplica modo dev (X-Debug-User-ID).
	var verifier auth.AuthVerifier
	if cfg.Auth.BaseURL != "" {
		client, err := gateway.NewClient(gateway.Config{
			BaseURL: cfg.Auth.BaseURL,
			APIKey:  cfg.Auth.APIKey,
			Timeout: cfg.Auth.Timeout,
		})
		if err != nil {
			log.Error("auth gateway client failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		verifier = gateway.NewVerifier(client)
	}

	var caps capabilities.Resolver
	if cfg.Plans.BaseURL != "" || cfg.Plans.AllowAll {
		caps, err = plansfeatures.NewResolver(plansfeatures.Config{
			BaseURL:  cfg.Plans.BaseURL,
			APIKey:   cfg.Plans.APIKey,
			Timeout:  cfg.Plans.Timeout,
			AllowAll: cfg.Plans.AllowAll,
		})
		if err != nil {
			log.Error("capabilities resolver failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}

	var upstream reports.Upstream
	if cfg.Report.BaseURL != "" {
		upstream, err = reportsvc.NewClient(reportsvc.Config{
			BaseURL: cfg.Report.BaseURL,
			APIKey:  cfg.Report.APIKey,
			Timeout: cfg.Report.Timeout,
		})
		if err != nil {
			log.Error("report service client failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Capabilities: caps,
		DB:           db,
		Upstream:     upstream,
		ImageExtractor: extract.NewImageExtractor(extract.OCRConfig{
			Tesseract:   cfg.Extract.Tesseract,
			Lang:        cfg.Extract.TesseractLang,
			TessdataDir: cfg.Extract.TessdataDir,
		}),
		Gate:           extract.NewGate(cfg.Extract.MaxConcurrent, cfg.Extract.Timeout),
		MaxUploadBytes: cfg.Extract.MaxFileBytes,
		Log:            log,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
