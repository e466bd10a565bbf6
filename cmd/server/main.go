package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpAdapter "github.com/nvqanh/bloomcache/internal/adapter/http"
	"github.com/nvqanh/bloomcache/internal/resolver"
	"github.com/nvqanh/bloomcache/packages/store"
)

const (
	Version     = "1.0.0"
	ServiceName = "bloomcache"
)

type Config struct {
	Addr string

	Capacity          int
	TTL               time.Duration
	FilterBits        uint64
	FilterHashes      uint64
	CompressThreshold int
	Singleflight      bool

	OriginURL     string
	OriginTimeout time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	ShutdownTimeout  time.Duration
}

func main() {
	_ = godotenv.Load()

	cfg := loadConfig()
	printBanner(cfg)

	res, err := buildResolver(cfg)
	if err != nil {
		log.Fatalf("Resolver error: %v", err)
	}

	st, err := store.New(store.Config{
		Capacity:          cfg.Capacity,
		TTL:               cfg.TTL,
		FilterBits:        cfg.FilterBits,
		FilterHashes:      cfg.FilterHashes,
		CompressThreshold: cfg.CompressThreshold,
		Singleflight:      cfg.Singleflight,
	}, res)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      httpAdapter.NewServer(st).Router(),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Printf("HTTP listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("Received %s, shutting down...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("Bye.")
}

func buildResolver(cfg *Config) (store.Resolver, error) {
	if cfg.OriginURL != "" {
		log.Printf("Fallback origin: %s (timeout %s)", cfg.OriginURL, cfg.OriginTimeout)
		return resolver.NewHTTPOrigin(cfg.OriginURL, cfg.OriginTimeout)
	}
	log.Println("No ORIGIN_URL configured, running in preload-only mode")
	return resolver.NewStatic(nil), nil
}

func loadConfig() *Config {
	return &Config{
		Addr: getEnvStr("ADDR", ":8080"),

		Capacity:          getEnvInt("CACHE_CAPACITY", 10_000),
		TTL:               getEnvDuration("CACHE_TTL", 5*time.Minute),
		FilterBits:        uint64(getEnvInt("FILTER_BITS", 1<<20)),
		FilterHashes:      uint64(getEnvInt("FILTER_HASHES", 0)),
		CompressThreshold: getEnvInt("COMPRESS_THRESHOLD", 0),
		Singleflight:      getEnvBool("SINGLEFLIGHT", true),

		OriginURL:     getEnvStr("ORIGIN_URL", ""),
		OriginTimeout: getEnvDuration("ORIGIN_TIMEOUT", 5*time.Second),

		HTTPReadTimeout:  getEnvDuration("HTTP_READ_TIMEOUT", 10*time.Second),
		HTTPWriteTimeout: getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		HTTPIdleTimeout:  getEnvDuration("HTTP_IDLE_TIMEOUT", 120*time.Second),
		ShutdownTimeout:  getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
}

func printBanner(cfg *Config) {
	log.Printf("%s v%s", ServiceName, Version)
	log.Printf("  capacity=%d ttl=%s filter_bits=%d compress_threshold=%d singleflight=%v",
		cfg.Capacity, cfg.TTL, cfg.FilterBits, cfg.CompressThreshold, cfg.Singleflight)
}

func getEnvStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("Invalid %s=%q, using default %d", key, v, def)
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("Invalid %s=%q, using default %s", key, v, def)
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("Invalid %s=%q, using default %v", key, v, def)
	}
	return def
}
