// Package crashdump records what timemap had measured when it panicked.
package crashdump

import (
	"time"

	"github.com/smykla-skalski/timemap/pkg/timemap"
)

// CrashInfo is the content of a crash dump file.
type CrashInfo struct {
	ID         string          `json:"id"`
	Timestamp  time.Time       `json:"timestamp"`
	PanicValue string          `json:"panic_value"`
	StackTrace string          `json:"stack_trace"`
	Runtime    RuntimeInfo     `json:"runtime"`
	Metadata   DumpMetadata    `json:"metadata"`
	Args       []string        `json:"args,omitempty"`
	Profiles   []timemap.Stats `json:"profiles,omitempty"`
}

// RuntimeInfo describes the Go runtime at the time of the crash.
type RuntimeInfo struct {
	GOOS         string `json:"goos"`
	GOARCH       string `json:"goarch"`
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
}

// DumpMetadata identifies the process that crashed.
type DumpMetadata struct {
	Version    string `json:"version"`
	User       string `json:"user,omitempty"`
	Hostname   string `json:"hostname,omitempty"`
	WorkingDir string `json:"working_dir,omitempty"`
}

// DumpSummary is the short form of a dump shown in listings.
type DumpSummary struct {
	ID         string
	Timestamp  time.Time
	PanicValue string
	Profiles   int
	FilePath   string
	Size       int64
}
