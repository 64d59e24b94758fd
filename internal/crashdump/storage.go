package crashdump

import (
	"cmp"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// maxPanicLen bounds the panic value shown in summaries.
const maxPanicLen = 80

// ErrDumpNotFound is returned when a crash dump is not found.
var ErrDumpNotFound = errors.New("crash dump not found")

// Storage provides operations for managing crash dumps.
type Storage interface {
	// List returns all crash dump summaries, sorted by timestamp (newest first).
	List() ([]DumpSummary, error)

	// Get retrieves a crash dump by ID.
	Get(id string) (*CrashInfo, error)

	// Delete removes a crash dump by ID.
	Delete(id string) error

	// Prune removes old dumps based on max count and max age.
	Prune(maxDumps int, maxAge time.Duration) (int, error)
}

// FilesystemStorage implements Storage using the local filesystem.
type FilesystemStorage struct {
	dumpDir string
}

// NewFilesystemStorage creates a new filesystem-based storage.
func NewFilesystemStorage(dumpDir string) (*FilesystemStorage, error) {
	dir, err := expandDumpDir(dumpDir)
	if err != nil {
		return nil, err
	}

	return &FilesystemStorage{dumpDir: dir}, nil
}

// List returns all crash dump summaries, sorted by timestamp (newest first).
// Unreadable files are skipped.
func (s *FilesystemStorage) List() ([]DumpSummary, error) {
	if !s.Exists() {
		return []DumpSummary{}, nil
	}

	entries, err := os.ReadDir(s.dumpDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read dump directory")
	}

	summaries := make([]DumpSummary, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileExtension) {
			continue
		}

		summary, err := s.loadSummary(entry.Name())
		if err != nil {
			continue
		}

		summaries = append(summaries, summary)
	}

	slices.SortFunc(summaries, func(a, b DumpSummary) int {
		return cmp.Compare(b.Timestamp.UnixNano(), a.Timestamp.UnixNano())
	})

	return summaries, nil
}

func (s *FilesystemStorage) loadSummary(filename string) (DumpSummary, error) {
	filePath := filepath.Join(s.dumpDir, filename)

	info, err := loadFile(filePath)
	if err != nil {
		return DumpSummary{}, err
	}

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return DumpSummary{}, errors.Wrap(err, "failed to stat file")
	}

	panicValue := info.PanicValue
	if len(panicValue) > maxPanicLen {
		panicValue = panicValue[:maxPanicLen] + "..."
	}

	return DumpSummary{
		ID:         info.ID,
		Timestamp:  info.Timestamp,
		PanicValue: panicValue,
		Profiles:   len(info.Profiles),
		FilePath:   filePath,
		Size:       fileInfo.Size(),
	}, nil
}

// Get retrieves a crash dump by ID.
func (s *FilesystemStorage) Get(id string) (*CrashInfo, error) {
	if !validID(id) {
		return nil, errors.Wrapf(ErrDumpNotFound, "ID: %s", id)
	}

	return loadFile(filepath.Join(s.dumpDir, id+FileExtension))
}

func loadFile(filePath string) (*CrashInfo, error) {
	// #nosec G304 - filePath is built from the dump dir and a validated ID
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrDumpNotFound, "file: %s", filePath)
		}

		return nil, errors.Wrap(err, "failed to read dump file")
	}

	var info CrashInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal dump file")
	}

	return &info, nil
}

// Delete removes a crash dump by ID.
func (s *FilesystemStorage) Delete(id string) error {
	if !validID(id) {
		return errors.Wrapf(ErrDumpNotFound, "ID: %s", id)
	}

	if err := os.Remove(filepath.Join(s.dumpDir, id+FileExtension)); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrDumpNotFound, "ID: %s", id)
		}

		return errors.Wrap(err, "failed to delete dump file")
	}

	return nil
}

// Prune removes dumps older than maxAge, then the oldest dumps beyond
// maxDumps. Zero disables either limit. Returns the number of dumps removed.
func (s *FilesystemStorage) Prune(maxDumps int, maxAge time.Duration) (int, error) {
	summaries, err := s.Expired(maxDumps, maxAge)
	if err != nil {
		return 0, err
	}

	removed := 0

	for _, summary := range summaries {
		if s.Delete(summary.ID) == nil {
			removed++
		}
	}

	return removed, nil
}

// Expired returns the dumps Prune would remove.
func (s *FilesystemStorage) Expired(maxDumps int, maxAge time.Duration) ([]DumpSummary, error) {
	summaries, err := s.List()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expired := make([]DumpSummary, 0)
	kept := 0

	for _, summary := range summaries {
		tooOld := maxAge > 0 && now.Sub(summary.Timestamp) > maxAge
		tooMany := maxDumps > 0 && kept >= maxDumps

		if tooOld || tooMany {
			expired = append(expired, summary)

			continue
		}

		kept++
	}

	return expired, nil
}

// Exists checks if the storage directory exists.
func (s *FilesystemStorage) Exists() bool {
	info, err := os.Stat(s.dumpDir)

	return err == nil && info.IsDir()
}

// DumpDir returns the dump directory path.
func (s *FilesystemStorage) DumpDir() string {
	return s.dumpDir
}

// validID rejects IDs that would escape the dump directory.
func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}
