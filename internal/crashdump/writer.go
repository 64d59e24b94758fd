package crashdump

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/timemap/internal/xdg"
)

const (
	// FilePerm is the file permission for crash dump files.
	FilePerm fs.FileMode = 0o600

	// FileExtension is the extension for crash dump files.
	FileExtension = ".json"

	// TempSuffix is the suffix for temporary files during atomic writes.
	TempSuffix = ".tmp"
)

var (
	// ErrWriteFailed is returned when writing a crash dump fails.
	ErrWriteFailed = errors.New("failed to write crash dump")

	// ErrInvalidDumpDir is returned when the dump directory is invalid.
	ErrInvalidDumpDir = errors.New("invalid dump directory")
)

// Writer writes crash dumps to storage.
type Writer interface {
	// Write writes a crash dump and returns the file path.
	Write(info *CrashInfo) (string, error)
}

// FilesystemWriter writes crash dumps to the filesystem.
type FilesystemWriter struct {
	dumpDir string
}

// NewFilesystemWriter creates a new filesystem-based writer.
func NewFilesystemWriter(dumpDir string) (*FilesystemWriter, error) {
	dir, err := expandDumpDir(dumpDir)
	if err != nil {
		return nil, err
	}

	return &FilesystemWriter{dumpDir: dir}, nil
}

// Write writes a crash dump and returns the file path.
func (w *FilesystemWriter) Write(info *CrashInfo) (string, error) {
	if info == nil {
		return "", errors.Wrap(ErrWriteFailed, "crash info is nil")
	}

	if err := xdg.EnsureDir(w.dumpDir); err != nil {
		return "", errors.Wrap(ErrInvalidDumpDir, err.Error())
	}

	filePath := filepath.Join(w.dumpDir, info.ID+FileExtension)
	tempPath := filePath + TempSuffix

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", errors.Wrap(ErrWriteFailed, "failed to marshal crash info")
	}

	if err := os.WriteFile(tempPath, data, FilePerm); err != nil {
		return "", errors.Wrap(ErrWriteFailed, err.Error())
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)

		return "", errors.Wrap(ErrWriteFailed, err.Error())
	}

	return filePath, nil
}

// DumpDir returns the dump directory path.
func (w *FilesystemWriter) DumpDir() string {
	return w.dumpDir
}

func expandDumpDir(dumpDir string) (string, error) {
	if dumpDir == "" {
		return "", errors.Wrap(ErrInvalidDumpDir, "dump directory cannot be empty")
	}

	expanded, err := xdg.ExpandPath(dumpDir)
	if err != nil {
		return "", errors.Wrap(ErrInvalidDumpDir, err.Error())
	}

	return expanded, nil
}
