package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the application logger. It is a no-op until InitLogging runs.
var Logger = zap.NewNop()

// LogFilePath returns the path to the backend log file.
func LogFilePath() string {
	if Cfg.LogFile != "" {
		return Cfg.LogFile
	}
	return filepath.Join("logs", "energy-center.log")
}

// InitLogging builds the zap logger writing to stdout and the log file, and
// redirects the standard logger into it. The returned func flushes and closes.
func InitLogging(cfg *Config) (*zap.Logger, func()) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.LogLevel))); err != nil {
		level.SetLevel(zapcore.InfoLevel)
	}

	sinks := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}

	var logFile *os.File
	if err := os.MkdirAll(filepath.Dir(LogFilePath()), os.ModePerm); err != nil {
		log.Printf("Warning: Failed to create logs directory: %v", err)
	} else if f, err := os.OpenFile(LogFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err != nil {
		log.Printf("Warning: Failed to open log file: %v", err)
	} else {
		logFile = f
		sinks = append(sinks, zapcore.AddSync(f))
	}

	core := zapcore.NewCore(buildEncoder(cfg), zapcore.NewMultiWriteSyncer(sinks...), level)
	Logger = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	zap.RedirectStdLog(Logger)

	return Logger, func() {
		_ = Logger.Sync()
		if logFile != nil {
			_ = logFile.Close()
		}
	}
}

func buildEncoder(cfg *Config) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	if !cfg.IsProduction() || strings.EqualFold(cfg.LogFormat, "text") {
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}
