package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/nurpe/proposal-builder/internal/config"
	"github.com/nurpe/proposal-builder/internal/db"
	"github.com/nurpe/proposal-builder/internal/excel"
	httphandler "github.com/nurpe/proposal-builder/internal/http"
	"github.com/nurpe/proposal-builder/internal/http/middleware"
	"github.com/nurpe/proposal-builder/internal/logger"
	"github.com/nurpe/proposal-builder/internal/pdf"
	"github.com/nurpe/proposal-builder/internal/repository"
	"github.com/nurpe/proposal-builder/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	snapshots := repository.NewSnapshotRepository(database)
	pdfGenerator := pdf.NewGenerator()
	excelGenerator := excel.NewGenerator()

	proposals := service.NewProposalService(snapshots, pdfGenerator, excelGenerator, cfg.Proposal.DefaultCurrency, log)

	handler := httphandler.NewHandler(proposals, log)
	sessionMiddleware := middleware.Session()
	router := httphandler.NewRouter(handler, sessionMiddleware, cfg.Environment, cfg.HTTP.AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting proposal service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
