package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ajkula/GoAdminPanel/adapter/inbound/web"
	"github.com/ajkula/GoAdminPanel/adapter/inbound/websocket"
	"github.com/ajkula/GoAdminPanel/adapter/outbound/apiclient"
	"github.com/ajkula/GoAdminPanel/adapter/outbound/crypto"
	"github.com/ajkula/GoAdminPanel/adapter/outbound/filewatcher"
	"github.com/ajkula/GoAdminPanel/adapter/outbound/logging"
	"github.com/ajkula/GoAdminPanel/adapter/outbound/machineid"
	"github.com/ajkula/GoAdminPanel/adapter/outbound/metrics"
	"github.com/ajkula/GoAdminPanel/adapter/outbound/storage"
	"github.com/ajkula/GoAdminPanel/config"
	"github.com/ajkula/GoAdminPanel/domain/model"
	"github.com/ajkula/GoAdminPanel/domain/port/outbound"
	"github.com/ajkula/GoAdminPanel/domain/service"
)

const version = "1.0.0"

func main() {
	var configPath string
	var generateConfig bool
	var showVersion bool

	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.BoolVar(&generateConfig, "generate-config", false, "Generate default configuration file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("GoAdminPanel Version %s\n", version)
		os.Exit(0)
	}

	if generateConfig {
		cfg := config.DefaultConfig()
		if err := config.SaveConfig(cfg, configPath); err != nil {
			fmt.Printf("Error generating config file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Default configuration file generated at: %s\n", configPath)
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.General.DataDir, 0755); err != nil {
		fmt.Printf("Failed to create data directory: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewSlogAdapter(cfg)
	defer logger.Shutdown()

	logger.Info("Starting GoAdminPanel",
		"version", version,
		"instance", cfg.General.InstanceID,
		"dataDir", cfg.General.DataDir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	credential, credentialCache := resolveCredential(cfg, logger)
	if credential == "" {
		logger.Error("No session credential available",
			"hint", "set ADMIN_PANEL_SESSION or api.sessionCredential in the config")
		logger.Shutdown()
		os.Exit(1)
	}

	apiClient, err := apiclient.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to create API client", "error", err)
		logger.Shutdown()
		os.Exit(1)
	}
	apiClient.SetCredential(credential)

	guard := service.NewSessionGuardService(apiClient, logger, cfg.Session.CacheTTL)

	// the session check is terminal: a panel without an admin session has
	// nothing to serve
	session, err := guard.Verify(ctx)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotAdmin):
			logger.Error("Operator is not an administrator", "redirect", cfg.API.LandingURL)
		default:
			logger.Error("Session verification failed", "redirect", cfg.API.LoginURL, "error", err)
		}
		if credentialCache != nil {
			credentialCache.Clear()
		}
		logger.Shutdown()
		os.Exit(1)
	}
	logger.Info("Session verified", "operator", session.Name, "email", session.Email)

	recorder := metrics.NewPrometheusRecorder()
	state := service.NewStateService(apiClient, logger, recorder)
	state.SetSession(session)
	forms := service.NewFormService(apiClient, state, logger)

	prefs, err := storage.NewFilePreferenceStore(
		filepath.Join(cfg.General.DataDir, "preferences.json"), logger)
	if err != nil {
		logger.Error("Failed to open preference store", "error", err)
		logger.Shutdown()
		os.Exit(1)
	}

	// initial load; a failure is not fatal, the panel starts empty and the
	// background refresh keeps retrying
	loadCtx, loadCancel := context.WithTimeout(ctx, 30*time.Second)
	if err := state.LoadAll(loadCtx); err != nil {
		logger.Warn("Initial data load failed, starting with empty state", "error", err)
	}
	loadCancel()

	router := mux.NewRouter()

	wsHandler := websocket.NewHandler(state, guard, logger, ctx)
	router.HandleFunc("/ws", wsHandler.HandleConnection)

	webHandler := web.NewHandler(guard, state, forms, prefs, logger, cfg)
	webHandler.SetupRoutes(router)

	refresher := service.NewRefreshService(state, logger, cfg.Refresh.Interval)
	if cfg.Refresh.Enabled {
		if err := refresher.Start(ctx); err != nil {
			logger.Error("Failed to start background refresh", "error", err)
		}
		defer refresher.Stop()
	}

	if watcher, err := filewatcher.NewFSWatcher(); err != nil {
		logger.Warn("Config hot reload unavailable", "error", err)
	} else {
		configWatcher := service.NewConfigWatcherService(watcher, logger, refresher, configPath)
		if err := configWatcher.Start(ctx); err != nil {
			logger.Warn("Failed to start config watcher", "error", err)
		} else {
			defer configWatcher.Stop()
		}
	}

	if cfg.Monitoring.Enabled {
		startMonitoringServer(cfg, logger)
	}

	httpAddr := fmt.Sprintf("%s:%d", cfg.HTTP.Address, cfg.HTTP.Port)
	server := &http.Server{
		Addr:         httpAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Panel listening", "address", httpAddr, "tls", cfg.HTTP.TLS)
		var serveErr error
		if cfg.HTTP.TLS {
			serveErr = server.ListenAndServeTLS(cfg.HTTP.CertFile, cfg.HTTP.KeyFile)
		} else {
			serveErr = server.ListenAndServe()
		}
		if serveErr != nil && serveErr != http.ErrServerClosed {
			logger.Error("Panel server error", "error", serveErr)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Received signal, shutting down", "signal", sig.String())
	case <-ctx.Done():
	}

	cancel()
	wsHandler.CloseAll()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Panel shutdown error", "error", err)
	}

	logger.Info("Shutdown complete")
}

// resolveCredential picks the session credential: an explicit value from the
// environment or config wins and refreshes the encrypted cache; otherwise the
// cache is tried. Returns the cache handle so a rejected credential can be
// cleared.
func resolveCredential(cfg *config.Config, logger model.Logger) (string, outbound.CredentialCache) {
	var cache outbound.CredentialCache

	if cfg.API.CacheCredential {
		cryptoService := crypto.NewAESCryptoService()
		machineIDService := machineid.NewHardwareMachineID()

		var err error
		cache, err = storage.NewSecureCredentialCache(
			filepath.Join(cfg.General.DataDir, "credential.db"),
			cryptoService, machineIDService, logger)
		if err != nil {
			logger.Warn("Credential cache unavailable", "error", err)
			cache = nil
		}
	}

	if cfg.API.SessionCredential != "" {
		if cache != nil {
			if err := cache.Save(cfg.API.SessionCredential); err != nil {
				logger.Warn("Failed to cache session credential", "error", err)
			}
		}
		return cfg.API.SessionCredential, cache
	}

	if cache != nil {
		credential, err := cache.Load()
		if err != nil {
			if !errors.Is(err, model.ErrCredentialCacheNotFound) {
				logger.Warn("Failed to load cached credential", "error", err)
			}
			return "", cache
		}
		logger.Info("Using cached session credential")
		return credential, cache
	}

	return "", nil
}

func startMonitoringServer(cfg *config.Config, logger model.Logger) {
	monitoringMux := http.NewServeMux()
	if cfg.Monitoring.Prometheus {
		monitoringMux.Handle("/metrics", promhttp.Handler())
	}
	monitoringMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, `{"status":"ok"}`)
	})

	addr := fmt.Sprintf("%s:%d", cfg.Monitoring.Address, cfg.Monitoring.Port)
	go func() {
		logger.Info("Monitoring listener started", "address", addr)
		if err := http.ListenAndServe(addr, monitoringMux); err != nil {
			logger.Error("Monitoring listener error", "error", err)
		}
	}()
}
