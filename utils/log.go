package utils

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultLogFile = "netbox-fixjson.log"

// InitializeLogger builds the process logger from environment variables.
// LOG_LEVEL selects the level (default info), ENV=prod switches to JSON
// encoding and file-only output, LOG_FILE overrides the log file path.
func InitializeLogger() (*zap.Logger, error) {
	level := parseLogLevel(os.Getenv("LOG_LEVEL"))

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	env := strings.ToLower(os.Getenv("ENV"))
	var encoder zapcore.Encoder
	if env == "prod" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = defaultLogFile
	}

	lumberjackLogger := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	// Diagnostics go to the log file, and to stderr outside of prod so a
	// run can be followed interactively. Stdout is reserved for the report.
	var writeSyncer zapcore.WriteSyncer
	if env == "prod" {
		writeSyncer = zapcore.AddSync(lumberjackLogger)
	} else {
		writeSyncer = zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stderr), zapcore.AddSync(lumberjackLogger))
	}

	core := zapcore.NewCore(encoder, writeSyncer, level)
	logger := zap.New(core, zap.AddCaller())

	return logger, nil
}

func parseLogLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
