// Package buildinfo exposes version data stamped at link time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/taskboard/internal/buildinfo.buildVersion=1.2.0 ..."
package buildinfo

import (
	"fmt"
	"io"
)

// DefaultVersion is reported when no version was stamped.
const DefaultVersion = "1.0.0"

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

// Version returns the stamped version or DefaultVersion.
func Version() string {
	if buildVersion == "" {
		return DefaultVersion
	}
	return buildVersion
}

// PrintBuildData writes version, date and commit, one per line.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version())
	fmt.Fprintf(w, "Build date: %s\n", orNA(buildDate))
	fmt.Fprintf(w, "Build commit: %s\n", orNA(buildCommit))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
