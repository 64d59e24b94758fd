package crashdump

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/user"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/smykla-skalski/timemap/pkg/timemap"
)

const (
	// shortIDLength is the length of the short ID suffix.
	shortIDLength = 8

	// panicNilStr is the string representation of panic(nil).
	panicNilStr = "panic(nil)"
)

// ProfileSource provides the profiles recorded before the crash.
type ProfileSource interface {
	Snapshot() []timemap.Stats
}

// formatPanicValue converts a recovered panic value to a string representation.
func formatPanicValue(v any) string {
	if v == nil {
		return panicNilStr
	}

	// Go 1.21+ converts panic(nil) to *runtime.PanicNilError
	type panicNilError interface {
		error
		RuntimeError()
	}

	if _, ok := v.(panicNilError); ok {
		return panicNilStr
	}

	if err, ok := v.(error); ok {
		return err.Error()
	}

	return fmt.Sprintf("%v", v)
}

// Collector collects crash diagnostic information.
type Collector interface {
	// Collect gathers crash information from a recovered panic. source may
	// be nil when the crash happened before profiling started.
	Collect(recovered any, source ProfileSource) *CrashInfo
}

// DefaultCollector is the default crash info collector.
type DefaultCollector struct {
	// Version is the timemap version.
	Version string
}

// NewCollector creates a new crash info collector.
func NewCollector(version string) *DefaultCollector {
	return &DefaultCollector{Version: version}
}

// Collect gathers crash information from a recovered panic.
func (c *DefaultCollector) Collect(recovered any, source ProfileSource) *CrashInfo {
	now := time.Now()
	panicValue := formatPanicValue(recovered)

	info := &CrashInfo{
		ID:         generateCrashID(now, panicValue),
		Timestamp:  now,
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Runtime:    collectRuntime(),
		Metadata:   c.collectMetadata(),
		Args:       os.Args,
	}

	if source != nil {
		info.Profiles = collectProfiles(source)
	}

	return info
}

// collectProfiles snapshots source, tolerating a registry that panics
// itself.
func collectProfiles(source ProfileSource) (profiles []timemap.Stats) {
	defer func() {
		if recover() != nil {
			profiles = nil
		}
	}()

	return source.Snapshot()
}

func collectRuntime() RuntimeInfo {
	return RuntimeInfo{
		GOOS:         runtime.GOOS,
		GOARCH:       runtime.GOARCH,
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
	}
}

func (c *DefaultCollector) collectMetadata() DumpMetadata {
	meta := DumpMetadata{
		Version: c.Version,
	}

	if u, err := user.Current(); err == nil {
		meta.User = u.Username
	}

	if hostname, err := os.Hostname(); err == nil {
		meta.Hostname = hostname
	}

	if wd, err := os.Getwd(); err == nil {
		meta.WorkingDir = wd
	}

	return meta
}

// generateCrashID generates a unique crash dump ID.
// Format: crash-{timestamp}-{shortHash}
func generateCrashID(timestamp time.Time, panicValue string) string {
	data := fmt.Sprintf("%d-%s", timestamp.UnixNano(), panicValue)
	hash := sha256.Sum256([]byte(data))
	shortHash := hex.EncodeToString(hash[:])[:shortIDLength]

	return fmt.Sprintf("crash-%s-%s", timestamp.Format("20060102T150405"), shortHash)
}
