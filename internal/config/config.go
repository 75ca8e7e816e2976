package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr            string
	AllowOrigins    []string
	WSBufferSize    int
	ShutdownTimeout time.Duration
}

func defaults() Config {
	return Config{
		Addr:            ":3000",
		AllowOrigins:    []string{"http://localhost:5173"},
		WSBufferSize:    1024,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Load builds the server config. Environment variables override the
// defaults and command line flags override both.
func Load(args []string) (Config, error) {
	config := defaults()
	if err := fromEnv(&config); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	origins := strings.Join(config.AllowOrigins, ",")
	fs.StringVar(&config.Addr, "addr", config.Addr, "Address to listen on")
	fs.StringVar(&origins, "origins", origins, "Comma separated list of allowed origins")
	fs.IntVar(&config.WSBufferSize, "ws-buffer", config.WSBufferSize, "WebSocket read and write buffer size")
	fs.DurationVar(&config.ShutdownTimeout, "shutdown-timeout", config.ShutdownTimeout, "Graceful shutdown timeout")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	config.AllowOrigins = splitOrigins(origins)

	if config.WSBufferSize <= 0 {
		return Config{}, fmt.Errorf("ws-buffer must be positive, got %d", config.WSBufferSize)
	}
	if len(config.AllowOrigins) == 0 {
		return Config{}, fmt.Errorf("at least one allowed origin is required")
	}
	return config, nil
}

func fromEnv(config *Config) error {
	if v, ok := os.LookupEnv("CHESS_ADDR"); ok {
		config.Addr = v
	}
	if v, ok := os.LookupEnv("CHESS_ALLOW_ORIGINS"); ok {
		config.AllowOrigins = splitOrigins(v)
	}
	if v, ok := os.LookupEnv("CHESS_WS_BUFFER"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CHESS_WS_BUFFER: %w", err)
		}
		config.WSBufferSize = n
	}
	if v, ok := os.LookupEnv("CHESS_SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CHESS_SHUTDOWN_TIMEOUT: %w", err)
		}
		config.ShutdownTimeout = d
	}
	return nil
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// CORSOrigins is the form fiber's cors middleware expects.
func (c Config) CORSOrigins() string {
	return strings.Join(c.AllowOrigins, ", ")
}
