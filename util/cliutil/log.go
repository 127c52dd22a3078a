package cliutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type LogOptions struct {
	// text|json
	LogFormat string

	// info|debug|warn|error
	LogLevel string

	// path to write to; "" or "-" means the default writer
	LogPath string

	// defaults to os.Stderr, stdout is reserved for command output
	Writer io.Writer
}

func firstenv(env_var_names ...string) string {
	for _, env_var_name := range env_var_names {
		val := os.Getenv(env_var_name)
		if val != "" {
			return val
		}
	}
	return ""
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %#v", s)
	}
}

// SetupSlog integrates passed in options and env vars, and installs the
// result as the default logger.
//
// passing default cliutil.LogOptions{} is ok.
//
// FEEDTALLY_LOG_LEVEL (or BSKYLOG_LOG_LEVEL)=info|debug|warn|error
//
// FEEDTALLY_LOG_FMT (or BSKYLOG_LOG_FMT)=text|json
//
// FEEDTALLY_LOG_FILE (or BSKYLOG_FILE)=path (or "-" or "" for stderr)
func SetupSlog(options LogOptions) (*slog.Logger, error) {
	if options.LogLevel == "" {
		options.LogLevel = firstenv("FEEDTALLY_LOG_LEVEL", "BSKYLOG_LOG_LEVEL")
	}
	level, err := ParseLevel(options.LogLevel)
	if err != nil {
		return nil, err
	}

	if options.LogFormat == "" {
		options.LogFormat = firstenv("FEEDTALLY_LOG_FMT", "BSKYLOG_LOG_FMT")
	}
	options.LogFormat = strings.ToLower(options.LogFormat)
	if options.LogFormat == "" {
		options.LogFormat = "text"
	}

	if options.LogPath == "" {
		options.LogPath = firstenv("FEEDTALLY_LOG_FILE", "BSKYLOG_FILE")
	}
	out := options.Writer
	if out == nil {
		out = os.Stderr
	}
	if options.LogPath != "" && options.LogPath != "-" {
		f, err := os.OpenFile(options.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", options.LogPath, err)
		}
		out = f
	}

	hopts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch options.LogFormat {
	case "text":
		handler = slog.NewTextHandler(out, hopts)
	case "json":
		handler = slog.NewJSONHandler(out, hopts)
	default:
		return nil, fmt.Errorf("invalid log format: %#v", options.LogFormat)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, nil
}
