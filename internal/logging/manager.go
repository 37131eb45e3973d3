package logging

import (
	"fmt"
	"sync"

	"careerlens/internal/config"
	"careerlens/internal/logging/adapters"
)

// Manager manages the logging system initialization and configuration
type Manager struct {
	logger *MultiLogger
}

// NewManager creates a new logging manager
func NewManager() *Manager {
	return &Manager{
		logger: NewMultiLogger(),
	}
}

// Initialize initializes the logging system from configuration
func (m *Manager) Initialize(cfg *config.Config) error {
	m.logger.SetLevel(ParseLogLevel(cfg.Logging.Level))

	if len(cfg.Logging.Adapters) == 0 {
		adapter := adapters.NewStdoutAdapter("stdout", adapters.StdoutConfig{
			Format: cfg.Logging.Format,
		})
		return m.logger.AddAdapter(adapter)
	}

	for _, ac := range cfg.Logging.Adapters {
		if !ac.Enabled {
			continue
		}

		adapter, err := createAdapter(AdapterConfig{
			Name:    ac.Name,
			Type:    ac.Type,
			Enabled: ac.Enabled,
			Options: ac.Options,
		})
		if err != nil {
			return fmt.Errorf("failed to create adapter %s: %w", ac.Name, err)
		}

		if err := m.logger.AddAdapter(adapter); err != nil {
			return fmt.Errorf("failed to add adapter %s: %w", ac.Name, err)
		}
	}

	return nil
}

// createAdapter creates a logging adapter based on the provided configuration
func createAdapter(ac AdapterConfig) (LogAdapter, error) {
	switch ac.Type {
	case "stdout":
		return adapters.NewStdoutAdapter(ac.Name, adapters.StdoutConfig{
			Format: getStringOption(ac.Options, "format", "json"),
		}), nil
	case "file":
		filePath := getStringOption(ac.Options, "file_path", "")
		if filePath == "" {
			return nil, fmt.Errorf("file_path is required for file adapter")
		}
		return adapters.NewFileAdapter(ac.Name, adapters.FileConfig{
			FilePath:   filePath,
			Format:     getStringOption(ac.Options, "format", "json"),
			CreateDirs: getBoolOption(ac.Options, "create_dirs", true),
		})
	default:
		return nil, fmt.Errorf("unsupported adapter type: %s", ac.Type)
	}
}

// GetLogger returns the initialized logger
func (m *Manager) GetLogger() Logger {
	return m.logger
}

// Close closes the logging system
func (m *Manager) Close() error {
	if m.logger != nil {
		return m.logger.Close()
	}
	return nil
}

var (
	globalManager *Manager
	globalMu      sync.Mutex
)

// InitializeLogging initializes the global logging system
func InitializeLogging(cfg *config.Config) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	globalManager = NewManager()
	return globalManager.Initialize(cfg)
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() Logger {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		// Fallback to a basic stdout logger if not initialized
		globalManager = NewManager()
		adapter := adapters.NewStdoutAdapter("stdout", adapters.StdoutConfig{Format: "json"})
		_ = globalManager.logger.AddAdapter(adapter)
	}
	return globalManager.logger
}

func getStringOption(options map[string]interface{}, key, def string) string {
	if v, ok := options[key].(string); ok && v != "" {
		return v
	}
	return def
}

func getBoolOption(options map[string]interface{}, key string, def bool) bool {
	if v, ok := options[key].(bool); ok {
		return v
	}
	return def
}
