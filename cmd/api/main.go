package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/vhrocha/batida/internal/batch"
	"github.com/vhrocha/batida/internal/config"
	"github.com/vhrocha/batida/internal/database"
	batidaHttp "github.com/vhrocha/batida/internal/http"
	importHandler "github.com/vhrocha/batida/internal/http/importfile"
	reconcileHandler "github.com/vhrocha/batida/internal/http/reconcile"
	"github.com/vhrocha/batida/internal/importer"
	"github.com/vhrocha/batida/internal/importer/bradesco"
	"github.com/vhrocha/batida/internal/importer/itau"
	"github.com/vhrocha/batida/internal/importer/santander"
	"github.com/vhrocha/batida/internal/importer/sicredi"
	"github.com/vhrocha/batida/internal/ledger"
	ledgerStore "github.com/vhrocha/batida/internal/ledger/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		ledgerService = ledger.NewService(ledgerStore.New(db))
		batchStore    = batch.NewStore()

		importService = importer.NewService(map[importer.Bank]importer.Parser{
			importer.BankItau:      itau.NewParser(),
			importer.BankBradesco:  bradesco.NewParser(),
			importer.BankSicredi:   sicredi.NewParser(),
			importer.BankSantander: santander.NewParser(),
		})
	)

	var (
		importH    = importHandler.NewHandler(importService, batchStore)
		reconcileH = reconcileHandler.NewHandler(ledgerService, batchStore, cfg.FeeFor)
	)

	router := batidaHttp.New(importH, reconcileH)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "addr", server.Addr)

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
