package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagWorkers = flag.Int("workers", 0, "Concurrent batch workers")
	flagMaxEdge = flag.Int("max-edge", 0, "Longest texture edge in pixels")
	flagQuality = flag.Int("quality", 0, "Texture JPEG quality (1-100)")
	flagFilter  = flag.String("filter", "", "Downscale filter: lanczos or catmullrom")
	flagLogFile = flag.String("log-file", "", "Write a rotated JSON log to this file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via -config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWorkers > 0 {
		cfg.Batch.Workers = *flagWorkers
	}
	if *flagMaxEdge > 0 {
		cfg.Image.MaxEdge = *flagMaxEdge
	}
	if *flagQuality > 0 {
		cfg.Image.Quality = *flagQuality
	}
	if *flagFilter != "" {
		cfg.Image.Filter = *flagFilter
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
