package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/network/netpoll"
	"github.com/spf13/cobra"

	_ "github.com/oeelens/oee-apiserver/docs" // swagger docs
	"github.com/oeelens/oee-apiserver/internal/chart"
	"github.com/oeelens/oee-apiserver/internal/config"
	"github.com/oeelens/oee-apiserver/internal/export"
	"github.com/oeelens/oee-apiserver/internal/handler"
	"github.com/oeelens/oee-apiserver/internal/infrastructure/llm"
	"github.com/oeelens/oee-apiserver/internal/infrastructure/telemetry"
	"github.com/oeelens/oee-apiserver/internal/router"
	"github.com/oeelens/oee-apiserver/internal/usecase"
	"github.com/oeelens/oee-apiserver/pkg/database"
	"github.com/oeelens/oee-apiserver/pkg/logger"
)

//	@title			OEE API Server
//	@version		0.1.0
//	@description	Chat-driven manufacturing analytics API: natural-language queries over machine telemetry with charts and PDF reports

//	@contact.name	API Support
//	@contact.email	support@example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

var (
	cfgFile string
	version = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "oee-apiserver",
	Short: "API server for chat-driven manufacturing analytics",
	Long: `OEE API Server answers natural-language questions about machine
telemetry. It imports per-machine CSV exports into SQLite, interprets
queries with a local completion model, and returns formatted answers
with charts and downloadable PDF reports.`,
	Version: version,
	Run:     runServer,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "configs/config.yaml", "path to config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runServer(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.Setup(cfg.Log); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	slog.Info("OEE API Server starting...",
		"version", version,
		"config", cfgFile,
	)

	// Route Hertz's own logging through slog.
	hlog.SetLogger(logger.NewHertzSlogAdapter(slog.Default()))

	db, err := database.Open(cfg.Database.Path, slog.Default())
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db, slog.Default())

	store, err := telemetry.NewStore(db, slog.Default())
	if err != nil {
		slog.Error("failed to initialize telemetry store", "error", err)
		os.Exit(1)
	}

	if cfg.Data.ImportOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		if err := store.ImportDir(ctx, cfg.Data.Dir); err != nil {
			slog.Warn("telemetry import failed, serving previously imported data", "error", err)
		}
		cancel()
	}

	llmClient, err := llm.NewClient(llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, slog.Default())
	if err != nil {
		slog.Error("failed to create completion client", "error", err)
		os.Exit(1)
	}

	chartGen := chart.NewGenerator(slog.Default())
	exporter := export.NewPDFExporter(slog.Default())

	machineUsecase := usecase.NewMachineUsecase(store, slog.Default())
	chatUsecase := usecase.NewChatUsecase(store, llmClient, chartGen, slog.Default())
	exportUsecase := usecase.NewExportUsecase(exporter, slog.Default())

	machineHandler := handler.NewMachineHandler(machineUsecase, slog.Default())
	chatHandler := handler.NewChatHandler(chatUsecase, slog.Default())
	exportHandler := handler.NewExportHandler(exportUsecase, slog.Default())
	healthHandler := handler.NewHealthHandler(db)

	h := server.Default(
		server.WithHostPorts(cfg.GetServerAddr()),
		server.WithReadTimeout(cfg.Server.ReadTimeout),
		server.WithWriteTimeout(cfg.Server.WriteTimeout),
		server.WithMaxRequestBodySize(cfg.Server.MaxRequestBodySize*1024*1024),
		server.WithTransport(netpoll.NewTransporter),
	)

	router.Setup(h, machineHandler, chatHandler, exportHandler, healthHandler)

	slog.Info("server started successfully",
		"address", cfg.GetServerAddr(),
		"mode", cfg.Server.Mode,
	)

	go func() {
		if err := h.Run(); err != nil {
			slog.Error("server run failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := h.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
