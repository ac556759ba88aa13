package config

import (
	"flag"
	"os"
	"strings"

	"github.com/dmitrijs2005/taskboard/internal/flagx"
)

var serverFlags = []string{"-a", "-s", "-f", "-l", "-d", "-u", "-p", "-b", "-g", "-e", "-k", "-o", "-v", "-t"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string    HTTP bind address (e.g., ":8000")
//	-s string    storage backend: file, memory, sqlite, postgres, s3
//	-f string    JSON snapshot file
//	-l string    sqlite database file
//	-d string    PostgreSQL DSN
//	-u string    S3 root user
//	-p string    S3 root password
//	-b string    S3 bucket name
//	-g string    S3 region
//	-e string    S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-k string    S3 object key
//	-o string    comma separated CORS origins
//	-v string    log level
//	-t duration  shutdown timeout (e.g., "10s")
//
// os.Args is first filtered with flagx.FilterArgs so -c/-config and flags
// of other components do not break parsing.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.StorageBackend, "s", config.StorageBackend, "storage backend (file, memory, sqlite, postgres, s3)")
	fs.StringVar(&config.DataFile, "f", config.DataFile, "JSON data file")
	fs.StringVar(&config.SQLitePath, "l", config.SQLitePath, "sqlite database file")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3Key, "k", config.S3Key, "S3 object key")
	origins := fs.String("o", strings.Join(config.CORSOrigins, ","), "comma separated CORS origins")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level (debug, info, warn, error)")
	fs.DurationVar(&config.ShutdownTimeout, "t", config.ShutdownTimeout, "graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.CORSOrigins = splitList(*origins)
}
