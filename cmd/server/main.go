package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/AngelCh415/sem_planner/internal/config"
	"github.com/AngelCh415/sem_planner/internal/form"
	"github.com/AngelCh415/sem_planner/internal/httpx"
	"github.com/AngelCh415/sem_planner/internal/metrics"
	"github.com/AngelCh415/sem_planner/internal/planapi"
	"github.com/AngelCh415/sem_planner/internal/viewstate"
)

func main() {
	cfg := config.FromEnv()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	mc := metrics.NewCollector(reg)

	cl := planapi.NewClient(planapi.NewHTTPClient(cfg.HTTPTimeout), cfg.BaseURL, logger, mc)
	vm := viewstate.NewMachine(cl, logger, mc)
	b := form.NewBuilder()

	r := httpx.NewRouter(logger, b, vm, mc, reg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", slog.String("port", cfg.Port), slog.String("planner", cl.Endpoint()))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
