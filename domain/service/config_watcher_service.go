package service

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/ajkula/GoAdminPanel/config"
	"github.com/ajkula/GoAdminPanel/domain/model"
	"github.com/ajkula/GoAdminPanel/domain/port/inbound"
	"github.com/ajkula/GoAdminPanel/domain/port/outbound"
)

// configWatcherService watches the config file and applies the reloadable
// subset on change: the log level and the background refresh interval.
// Everything else keeps its boot-time value until restart.
type configWatcherService struct {
	watcher    outbound.FileWatcher
	logger     model.Logger
	refresher  inbound.RefreshService
	configPath string

	mu       sync.Mutex
	cancel   context.CancelFunc
	running  bool
	lastSync time.Time
}

func NewConfigWatcherService(
	watcher outbound.FileWatcher,
	logger model.Logger,
	refresher inbound.RefreshService,
	configPath string,
) inbound.ConfigWatcher {
	return &configWatcherService{
		watcher:    watcher,
		logger:     logger,
		refresher:  refresher,
		configPath: configPath,
	}
}

func (s *configWatcherService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.logger.Warn("Config watcher already running")
		return nil
	}

	absPath, err := filepath.Abs(s.configPath)
	if err != nil {
		s.logger.Error("Failed to resolve config path", "path", s.configPath, "error", err)
		return err
	}
	s.configPath = absPath

	if err := s.watcher.Watch(ctx, absPath); err != nil {
		s.logger.Error("Failed to watch config file", "path", absPath, "error", err)
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	s.logger.Info("Watching config file for changes", "path", absPath)
	go s.processEvents(runCtx)
	return nil
}

func (s *configWatcherService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.cancel()
	if err := s.watcher.Stop(); err != nil {
		s.logger.Error("Error stopping config watcher", "error", err)
		return err
	}

	s.running = false
	s.logger.Info("Config watcher stopped")
	return nil
}

func (s *configWatcherService) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-s.watcher.Events():
			if !ok {
				return
			}
			if !s.isConfigFile(event.FilePath) {
				continue
			}
			if event.EventType == "delete" {
				s.logger.Warn("Config file removed, keeping current settings", "path", event.FilePath)
				continue
			}
			s.handleConfigChange()

		case err, ok := <-s.watcher.Errors():
			if !ok {
				return
			}
			s.logger.Error("Config watcher error", "error", err)
		}
	}
}

func (s *configWatcherService) isConfigFile(path string) bool {
	return filepath.Base(path) == filepath.Base(s.configPath)
}

func (s *configWatcherService) handleConfigChange() {
	s.mu.Lock()
	// editors fire several events per save
	if time.Since(s.lastSync) < time.Second {
		s.mu.Unlock()
		return
	}
	s.lastSync = time.Now()
	s.mu.Unlock()

	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		s.logger.Error("Config reload failed, keeping current settings", "error", err)
		return
	}

	s.logger.Info("Config file changed, applying reloadable settings",
		"logLevel", cfg.Logging.Level, "refreshInterval", cfg.Refresh.Interval)

	s.logger.UpdateLevel(cfg.Logging.Level)
	if s.refresher != nil && cfg.Refresh.Enabled {
		s.refresher.UpdateInterval(cfg.Refresh.Interval)
	}
}
