package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/taskboard/internal/flagx"
	"github.com/dmitrijs2005/taskboard/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Omitted fields
// leave the current value untouched; ShutdownTimeout accepts "15s" or
// integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP string          `json:"endpoint_addr_http"`
	StorageBackend   string          `json:"storage_backend"`
	DataFile         string          `json:"data_file"`
	SQLitePath       string          `json:"sqlite_path"`
	DatabaseDSN      string          `json:"database_dsn"`
	S3RootUser       string          `json:"s3_root_user"`
	S3RootPassword   string          `json:"s3_root_password"`
	S3Bucket         string          `json:"s3_bucket"`
	S3Region         string          `json:"s3_region"`
	S3BaseEndpoint   string          `json:"s3_base_endpoint"`
	S3Key            string          `json:"s3_key"`
	CORSOrigins      []string        `json:"cors_origins"`
	LogLevel         string          `json:"log_level"`
	ShutdownTimeout  *timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads configuration values from the JSON file named by the -c
// or -config flag. Without the flag nothing is loaded. An unreadable file
// or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.applyTo(config)
}

func (c *JsonConfig) applyTo(config *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	set(&config.StorageBackend, c.StorageBackend)
	set(&config.DataFile, c.DataFile)
	set(&config.SQLitePath, c.SQLitePath)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	set(&config.S3Key, c.S3Key)
	set(&config.LogLevel, c.LogLevel)

	if c.CORSOrigins != nil {
		config.CORSOrigins = c.CORSOrigins
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
}
