package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by parseEnv.
const EnvPrefix = "TASKBOARD_"

var dotEnvFiles = []string{".env.local", ".env"}

// loadDotEnv loads the given .env files into the process environment.
// Variables that are already set win; missing files are skipped. A file
// that exists but cannot be parsed panics, like an invalid JSON config.
func loadDotEnv(paths ...string) {
	if isDotEnvDisabled() {
		return
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			panic(err)
		}
	}
}

func isDotEnvDisabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvPrefix + "DOTENV"))) {
	case "0", "false", "off", "no":
		return true
	default:
		return false
	}
}

// parseEnv overlays TASKBOARD_* environment variables onto config.
//
//	TASKBOARD_ADDR              HTTP bind address
//	TASKBOARD_STORAGE           storage backend
//	TASKBOARD_DATA_FILE         JSON snapshot path
//	TASKBOARD_SQLITE_PATH       sqlite database file
//	TASKBOARD_DATABASE_DSN      PostgreSQL DSN
//	TASKBOARD_S3_ROOT_USER      S3 access key
//	TASKBOARD_S3_ROOT_PASSWORD  S3 secret key
//	TASKBOARD_S3_BUCKET         S3 bucket
//	TASKBOARD_S3_REGION         S3 region
//	TASKBOARD_S3_BASE_ENDPOINT  S3 endpoint
//	TASKBOARD_S3_KEY            object key of the snapshot
//	TASKBOARD_CORS_ORIGINS      comma separated origins
//	TASKBOARD_LOG_LEVEL         log level
//	TASKBOARD_SHUTDOWN_TIMEOUT  Go duration, e.g. "15s"
//
// An unparsable TASKBOARD_SHUTDOWN_TIMEOUT panics.
func parseEnv(config *Config) {
	strs := map[string]*string{
		"ADDR":             &config.EndpointAddrHTTP,
		"STORAGE":          &config.StorageBackend,
		"DATA_FILE":        &config.DataFile,
		"SQLITE_PATH":      &config.SQLitePath,
		"DATABASE_DSN":     &config.DatabaseDSN,
		"S3_ROOT_USER":     &config.S3RootUser,
		"S3_ROOT_PASSWORD": &config.S3RootPassword,
		"S3_BUCKET":        &config.S3Bucket,
		"S3_REGION":        &config.S3Region,
		"S3_BASE_ENDPOINT": &config.S3BaseEndpoint,
		"S3_KEY":           &config.S3Key,
		"LOG_LEVEL":        &config.LogLevel,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "CORS_ORIGINS"); ok {
		config.CORSOrigins = splitList(v)
	}

	if v, ok := os.LookupEnv(EnvPrefix + "SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.ShutdownTimeout = d
	}
}

// splitList splits a comma separated list, dropping blanks.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
