package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/arggh/svcomp/lib/cache"
)

// config is the environment part of the CLI configuration. Values from a
// .env file in the working directory are loaded first; variables already set
// in the environment win.
type config struct {
	Dev           bool
	CacheDir      string
	CacheKey      string
	CacheMaxBytes int64
	S3            cache.S3Config
}

func loadConfig() config {
	_ = godotenv.Load()

	return config{
		Dev:           strings.TrimSpace(os.Getenv("NODE_ENV")) != "production",
		CacheDir:      strings.TrimSpace(os.Getenv("SVCOMP_CACHE_DIR")),
		CacheKey:      firstNonEmpty(os.Getenv("SVCOMP_CACHE_KEY"), "svcomp"),
		CacheMaxBytes: envInt64("SVCOMP_CACHE_MAX_BYTES", 0),
		S3: cache.S3Config{
			Endpoint:  strings.TrimSpace(os.Getenv("SVCOMP_CACHE_S3_ENDPOINT")),
			Region:    firstNonEmpty(os.Getenv("SVCOMP_CACHE_S3_REGION"), "us-east-1"),
			AccessKey: strings.TrimSpace(os.Getenv("SVCOMP_CACHE_S3_ACCESS_KEY")),
			SecretKey: strings.TrimSpace(os.Getenv("SVCOMP_CACHE_S3_SECRET_KEY")),
			Bucket:    firstNonEmpty(os.Getenv("SVCOMP_CACHE_S3_BUCKET"), "svcomp-cache"),
			Prefix:    strings.TrimSpace(os.Getenv("SVCOMP_CACHE_S3_PREFIX")),
			UseSSL:    envBool("SVCOMP_CACHE_S3_USE_SSL", true),
		},
	}
}

func envBool(name string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func envInt64(name string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
