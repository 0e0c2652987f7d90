// Package logging provides structured logging channels for portfolio-go
// operations, multiplexing log/slog loggers over named component channels.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Channel represents a logical logging channel for different system components
type Channel string

const (
	// System channels
	ChannelSystem   Channel = "system"   // General system operations
	ChannelStartup  Channel = "startup"  // Application startup and initialization
	ChannelShutdown Channel = "shutdown" // Application shutdown and cleanup

	// Business logic channels
	ChannelForm      Channel = "form"      // Form controller state transitions
	ChannelContact   Channel = "contact"   // Contact message handling
	ChannelContent   Channel = "content"   // Portfolio content operations
	ChannelAnalytics Channel = "analytics" // Analytics event processing
	ChannelAuth      Channel = "auth"      // Admin authentication

	// Infrastructure channels
	ChannelCache    Channel = "cache"    // Cache gateway operations
	ChannelDatabase Channel = "database" // Database operations and queries
	ChannelEmail    Channel = "email"    // Outbound email delivery
	ChannelPush     Channel = "push"     // Push notification delivery
	ChannelMedia    Channel = "media"    // Image processing pipeline

	// Development channels
	ChannelDebug Channel = "debug" // Debug information
)

// ChanneledLogger provides structured logging with multiple channels
type ChanneledLogger struct {
	channels map[Channel]*slog.Logger
	config   *LoggerConfig
	configMu sync.RWMutex
}

// LoggerConfig contains configuration options for the channeled logger
type LoggerConfig struct {
	OutputToFile    bool                   `json:"outputToFile"`
	OutputToConsole bool                   `json:"outputToConsole"`
	LogDirectory    string                 `json:"logDirectory"`
	JSONFormat      bool                   `json:"jsonFormat"`
	DefaultLevel    slog.Level             `json:"defaultLevel"`
	ChannelLevels   map[Channel]slog.Level `json:"channelLevels"`
}

// DefaultLoggerConfig returns a sensible default configuration
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: true,
		LogDirectory:    "logs",
		JSONFormat:      true,
		DefaultLevel:    slog.LevelInfo,
		ChannelLevels:   make(map[Channel]slog.Level),
	}
}

// NewChanneledLogger creates a new channeled logger with the given configuration
func NewChanneledLogger(config *LoggerConfig) (*ChanneledLogger, error) {
	if config == nil {
		config = DefaultLoggerConfig()
	}

	logger := &ChanneledLogger{
		channels: make(map[Channel]*slog.Logger),
		config:   config,
	}

	if config.OutputToFile {
		if err := os.MkdirAll(config.LogDirectory, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	channels := []Channel{
		ChannelSystem, ChannelStartup, ChannelShutdown,
		ChannelForm, ChannelContact, ChannelContent, ChannelAnalytics, ChannelAuth,
		ChannelCache, ChannelDatabase, ChannelEmail, ChannelPush, ChannelMedia,
		ChannelDebug,
	}

	for _, channel := range channels {
		channelLogger, err := logger.createChannelLogger(channel)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger for channel %s: %w", channel, err)
		}
		logger.channels[channel] = channelLogger
	}

	return logger, nil
}

// createChannelLogger creates a slog.Logger for a specific channel
func (cl *ChanneledLogger) createChannelLogger(channel Channel) (*slog.Logger, error) {
	cl.configMu.RLock()
	defer cl.configMu.RUnlock()

	level := cl.config.DefaultLevel
	if channelLevel, exists := cl.config.ChannelLevels[channel]; exists {
		level = channelLevel
	}

	var writers []io.Writer
	if cl.config.OutputToConsole {
		writers = append(writers, os.Stdout)
	}
	if cl.config.OutputToFile {
		logPath := filepath.Join(cl.config.LogDirectory, string(channel)+".log")
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file for channel %s: %w", channel, err)
		}
		writers = append(writers, file)
	}
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	output := io.MultiWriter(writers...)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cl.config.JSONFormat {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler).With("channel", string(channel)), nil
}

// SetChannelLevel overrides the log level for one channel at runtime.
func (cl *ChanneledLogger) SetChannelLevel(channel Channel, level slog.Level) error {
	cl.configMu.Lock()
	cl.config.ChannelLevels[channel] = level
	cl.configMu.Unlock()

	channelLogger, err := cl.createChannelLogger(channel)
	if err != nil {
		return err
	}

	cl.configMu.Lock()
	cl.channels[channel] = channelLogger
	cl.configMu.Unlock()
	return nil
}

func (cl *ChanneledLogger) channelLogger(channel Channel) *slog.Logger {
	cl.configMu.RLock()
	defer cl.configMu.RUnlock()
	if logger, exists := cl.channels[channel]; exists {
		return logger
	}
	return slog.Default()
}

// System returns the system channel logger
func (cl *ChanneledLogger) System() *slog.Logger { return cl.channelLogger(ChannelSystem) }

// Startup returns the startup channel logger
func (cl *ChanneledLogger) Startup() *slog.Logger { return cl.channelLogger(ChannelStartup) }

// Shutdown returns the shutdown channel logger
func (cl *ChanneledLogger) Shutdown() *slog.Logger { return cl.channelLogger(ChannelShutdown) }

// Form returns the form channel logger
func (cl *ChanneledLogger) Form() *slog.Logger { return cl.channelLogger(ChannelForm) }

// Contact returns the contact channel logger
func (cl *ChanneledLogger) Contact() *slog.Logger { return cl.channelLogger(ChannelContact) }

// Content returns the content channel logger
func (cl *ChanneledLogger) Content() *slog.Logger { return cl.channelLogger(ChannelContent) }

// Analytics returns the analytics channel logger
func (cl *ChanneledLogger) Analytics() *slog.Logger { return cl.channelLogger(ChannelAnalytics) }

// Auth returns the auth channel logger
func (cl *ChanneledLogger) Auth() *slog.Logger { return cl.channelLogger(ChannelAuth) }

// Cache returns the cache channel logger
func (cl *ChanneledLogger) Cache() *slog.Logger { return cl.channelLogger(ChannelCache) }

// Database returns the database channel logger
func (cl *ChanneledLogger) Database() *slog.Logger { return cl.channelLogger(ChannelDatabase) }

// Email returns the email channel logger
func (cl *ChanneledLogger) Email() *slog.Logger { return cl.channelLogger(ChannelEmail) }

// Push returns the push channel logger
func (cl *ChanneledLogger) Push() *slog.Logger { return cl.channelLogger(ChannelPush) }

// Media returns the media channel logger
func (cl *ChanneledLogger) Media() *slog.Logger { return cl.channelLogger(ChannelMedia) }

// Debug returns the debug channel logger
func (cl *ChanneledLogger) Debug() *slog.Logger { return cl.channelLogger(ChannelDebug) }
