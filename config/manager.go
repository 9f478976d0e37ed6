package config

import (
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Manager centralizes access to configuration values. Priority order:
// flags (applied by the caller) > environment variables > .env file >
// defaults.
type Manager struct {
	mu     sync.RWMutex
	values map[string]string
	logger *zap.Logger
}

// New creates a Manager with nothing loaded yet.
func New(logger *zap.Logger) *Manager {
	return &Manager{
		values: make(map[string]string),
		logger: logger,
	}
}

// Load layers defaults, the .env file and the process environment.
func (m *Manager) Load() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loadDefaults()
	m.loadEnvFile()
	m.loadEnvVars()
}

func (m *Manager) loadDefaults() {
	m.values["MAX_ITERATIONS"] = strconv.Itoa(DefaultMaxIterations)
	m.values["PAGE_SIZE"] = strconv.Itoa(DefaultPageSize)
	m.values["MAX_RETRIES"] = strconv.Itoa(DefaultMaxRetries)
}

func (m *Manager) loadEnvFile() {
	envMap, err := godotenv.Read()
	if err != nil {
		// No .env file is the normal case, not an error.
		m.logger.Debug("No .env file loaded", zap.Error(err))
		return
	}
	for key, value := range envMap {
		m.values[key] = value
	}
}

func (m *Manager) loadEnvVars() {
	for _, key := range []string{
		"NETBOX_URL",
		"NETBOX_TOKEN",
		"NETBOX_CAFILE",
		"MAX_ITERATIONS",
		"PAGE_SIZE",
		"MAX_RETRIES",
		"METRICS_PORT",
	} {
		if value := os.Getenv(key); value != "" {
			m.values[key] = value
		}
	}
}

// GetString returns the configured value for key, or fallback.
func (m *Manager) GetString(key, fallback string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if value, ok := m.values[key]; ok && value != "" {
		return value
	}
	return fallback
}

// GetInt returns the configured integer for key, or fallback when unset or
// unparsable.
func (m *Manager) GetInt(key string, fallback int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	if !ok || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		m.logger.Warn("Ignoring non-integer config value",
			zap.String("key", key),
			zap.String("value", value))
		return fallback
	}
	return n
}
