package main

import "log/slog"

type engineConfig struct {
	// Workers is the dispatch pool size; 0 means one worker per CPU.
	Workers int `env:"ENGINE_WORKERS" envDefault:"0"`

	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
}
