package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/evilsocket/islazy/log"

	"hvac-dashboard/internal/api/client"
	"hvac-dashboard/internal/config"
	"hvac-dashboard/internal/report"
	"hvac-dashboard/internal/server"
	"hvac-dashboard/internal/storage/block"
	"hvac-dashboard/internal/storage/kv"
	"hvac-dashboard/internal/telemetry"
	"hvac-dashboard/internal/tenant"
)

func main() {
	flag.Parse()

	cfg, err := config.Load(confFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := config.SetupLogging(cfg.Logging, debug); err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration: %v", err)
	}

	log.Info("🌡️  Starting HVAC dashboard server...")
	log.Debug("configuration: %s", cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := block.NewFactory().Create(ctx, block.Config{
		Type:    cfg.Storage.Backend,
		BaseDir: cfg.Storage.BasePath,
		Options: map[string]string{
			"bucket": cfg.Storage.S3.Bucket,
			"region": cfg.Storage.S3.Region,
			"prefix": cfg.Storage.S3.Prefix,
		},
	})
	if err != nil {
		log.Fatal("failed to create %s storage: %v", cfg.Storage.Backend, err)
	}

	api := client.NewClient(&client.ClientConfig{
		BaseURL:     cfg.API.DefaultBaseURL,
		Timeout:     config.Duration(cfg.API.Timeout, 30*time.Second),
		RetryCount:  cfg.API.RetryCount,
		RetryDelay:  time.Second,
		LoginPath:   cfg.API.LoginPath,
		SensorsPath: cfg.API.SensorsPath,
	})
	store := kv.NewStore(backend, cfg.Storage.DefaultNamespace)
	tenants := tenant.NewContext(api, store, cfg.API.DefaultBaseURL, cfg.Storage.DefaultNamespace)
	session := tenant.NewSession(tenants, api, store, cfg.API.TenantHost)

	var source telemetry.Source = telemetry.NewAPISource(api)
	if cfg.Sensors.Source == "sql" {
		sqlSource, err := telemetry.OpenSQLSource(cfg.Sensors.DSN, cfg.Sensors.Table)
		if err != nil {
			log.Fatal("%v", err)
		}
		source = sqlSource
	}

	log.Info("📋 Dashboard configuration:")
	log.Info("   Upstream API: %s", cfg.API.DefaultBaseURL)
	log.Info("   Tenant host:  %s", cfg.API.TenantHost)
	log.Info("   Storage:      %s", cfg.Storage.Backend)
	log.Info("   Sensors from: %s", source.Name())

	srv := server.New(server.Deps{
		Session:  session,
		Tenants:  tenants,
		Source:   source,
		Exporter: report.NewExporter(store),
		Storage:  backend,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  config.Duration(cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: config.Duration(cfg.Server.WriteTimeout, 30*time.Second),
	}

	grpcServer := server.NewGRPCServer(server.NewHealth(tenants))
	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.GRPCPort))
	if err != nil {
		log.Fatal("failed to listen on port %d: %v", cfg.Server.GRPCPort, err)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Info("🛑 Shutting down dashboard server...")
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()

		session.Logout(shutdownCtx)
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("http shutdown: %v", err)
		}
		grpcServer.GracefulStop()
		cancel()
	}()

	go func() {
		log.Info("📡 gRPC health listening on port %d", cfg.Server.GRPCPort)
		if err := grpcServer.Serve(listener); err != nil {
			log.Error("gRPC server stopped: %v", err)
		}
	}()

	log.Info("🌐 HTTP API listening on %s", httpServer.Addr)
	log.Info("   GET    /health")
	log.Info("   POST   /api/v1/session")
	log.Info("   GET    /api/v1/sensors?status=&page=&size=")
	log.Info("   GET    /api/v1/sensors/export")

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("failed to serve: %v", err)
	}

	<-ctx.Done()
	log.Info("👋 Dashboard server stopped")
}
