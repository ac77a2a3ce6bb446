package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samasastudio/sq-gendash/internal/bootstrap"
	"github.com/samasastudio/sq-gendash/internal/config"
	"github.com/samasastudio/sq-gendash/internal/handlers"
	"github.com/samasastudio/sq-gendash/internal/market"
	"github.com/samasastudio/sq-gendash/internal/response"
	"github.com/samasastudio/sq-gendash/internal/router"
	"github.com/samasastudio/sq-gendash/internal/services"
	"github.com/samasastudio/sq-gendash/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// helpers
	mkt := market.NewClient(bs.AlphaAdapter)

	// stores
	wstore := store.NewWorkspaceStore(bs.Firestore)
	gstore := store.NewGenerationStore(bs.Firestore)

	// services
	plserv := services.NewPlanService(bs.VertexAdapter, wstore, gstore, cfg.GenerationTTL)
	dsserv := services.NewDatasetService(mkt, wstore, cfg.DatasetConcurrency)
	wsserv := services.NewWorkspaceService(wstore)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.PlanSvc = plserv
	deps.DatasetSvc = dsserv
	deps.WorkspaceSvc = wsserv

	// router
	r := router.NewRouter(deps)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		bs.Log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			exitOnError("server start failed", err, bs.Log)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	bs.Log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		bs.Log.Error("server forced to shutdown", "error", err)
	}
}
