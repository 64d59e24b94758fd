// Package config provides internal configuration loading and processing.
package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/knadh/koanf/maps"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/smykla-skalski/timemap/pkg/config"
)

var (
	// ErrConfigNotFound is returned when an explicitly requested configuration file is missing.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidPermissions is returned when config file has insecure permissions.
	ErrInvalidPermissions = errors.New("config file has insecure permissions")
)

const (
	// EnvPrefix prefixes every environment variable read by the loader.
	EnvPrefix = "TIMEMAP_"

	// GlobalConfigFile is the name of the global configuration file.
	GlobalConfigFile = "config.toml"

	// GlobalConfigDir is the directory name for global configuration.
	GlobalConfigDir = ".timemap"

	// ProjectConfigDir is the directory name for project configuration.
	ProjectConfigDir = ".timemap"

	// ProjectConfigFile is the primary project configuration file name.
	ProjectConfigFile = "config.toml"

	// ProjectConfigFileAlt is the alternative project configuration file name.
	ProjectConfigFileAlt = "timemap.toml"
)

// KoanfLoader handles configuration loading from multiple sources using koanf.
// Precedence order (highest to lowest):
// 1. CLI Flags
// 2. Environment Variables (TIMEMAP_*)
// 3. Project Config (.timemap/config.toml or timemap.toml)
// 4. Global Config (~/.timemap/config.toml)
// 5. Defaults
type KoanfLoader struct {
	k       *koanf.Koanf
	homeDir string
	workDir string

	// globalPath and projectPath override discovery when set.
	globalPath  string
	projectPath string
}

// NewKoanfLoader creates a new KoanfLoader with default directories.
func NewKoanfLoader() (*KoanfLoader, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get home directory")
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}

	return NewKoanfLoaderWithDirs(homeDir, workDir), nil
}

// NewKoanfLoaderWithDirs creates a new KoanfLoader with custom directories (for testing).
func NewKoanfLoaderWithDirs(homeDir, workDir string) *KoanfLoader {
	return &KoanfLoader{
		k:       koanf.New("."),
		homeDir: homeDir,
		workDir: workDir,
	}
}

// WithGlobalPath uses path instead of ~/.timemap/config.toml. The file must exist.
func (l *KoanfLoader) WithGlobalPath(path string) *KoanfLoader {
	l.globalPath = path

	return l
}

// WithProjectPath uses path instead of discovering a project config. The file must exist.
func (l *KoanfLoader) WithProjectPath(path string) *KoanfLoader {
	l.projectPath = path

	return l
}

// Load loads configuration from all sources with precedence and validates it.
// Flag keys are dotted config paths, e.g. "report.sort".
func (l *KoanfLoader) Load(flags map[string]any) (*config.Config, error) {
	cfg, err := l.LoadWithoutValidation(flags)
	if err != nil {
		return nil, err
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

// LoadWithoutValidation loads configuration without running validation.
// Defaults → Global TOML → Project TOML → Env Vars → CLI Flags
func (l *KoanfLoader) LoadWithoutValidation(flags map[string]any) (*config.Config, error) {
	l.k = koanf.New(".")

	if err := l.k.Load(confmap.Provider(defaultsToMap(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	if err := l.loadOptional(l.GlobalConfigPath(), l.globalPath != ""); err != nil {
		return nil, errors.Wrap(err, "failed to load global config")
	}

	if projectPath := l.FindProjectConfigPath(); projectPath != "" {
		if err := l.loadOptional(projectPath, l.projectPath != ""); err != nil {
			return nil, errors.Wrap(err, "failed to load project config")
		}
	}

	envOpt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envTransform,
	}

	if err := l.k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	if len(flags) > 0 {
		if err := l.k.Load(confmap.Provider(flagsToConfig(flags), "."), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	return l.unmarshal()
}

func (l *KoanfLoader) unmarshal() (*config.Config, error) {
	var cfg config.Config

	dc := CustomDecoderConfig()
	dc.Result = &cfg

	if err := l.k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag:           "koanf",
		DecoderConfig: dc,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	return &cfg, nil
}

// loadOptional loads a TOML file, skipping it when it does not exist unless required.
func (l *KoanfLoader) loadOptional(path string, required bool) error {
	err := l.loadTOMLFile(path)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist) && !required:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return errors.Wrapf(ErrConfigNotFound, "%s", path)
	default:
		return err
	}
}

// loadTOMLFile loads a TOML configuration file with security checks.
func (l *KoanfLoader) loadTOMLFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if info.Mode().Perm()&0o002 != 0 {
		return errors.Wrapf(
			ErrInvalidPermissions,
			"%s is world-writable (mode: %s)",
			path,
			info.Mode().Perm(),
		)
	}

	return l.k.Load(file.Provider(path), tomlparser.Parser())
}

// envTransform maps environment variables to config paths. The first
// underscore after the prefix separates the section from the key, so
// TIMEMAP_REPORT_MIN_SELF_AVERAGE → report.min_self_average.
func envTransform(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	key = strings.Replace(key, "_", ".", 1)

	if strings.Contains(value, ",") && strings.HasSuffix(key, ".names") {
		return key, strings.Split(value, ",")
	}

	return key, value
}

// flagsToConfig turns dotted flag keys into a nested map.
func flagsToConfig(flags map[string]any) map[string]any {
	flat := make(map[string]any, len(flags))

	for key, value := range flags {
		flat[strings.ReplaceAll(key, "-", "_")] = value
	}

	return maps.Unflatten(flat, ".")
}

// Koanf exposes the merged koanf state of the last load.
func (l *KoanfLoader) Koanf() *koanf.Koanf {
	return l.k
}

// GlobalConfigPath returns the path to the global configuration file.
func (l *KoanfLoader) GlobalConfigPath() string {
	if l.globalPath != "" {
		return l.globalPath
	}

	return filepath.Join(l.homeDir, GlobalConfigDir, GlobalConfigFile)
}

// ProjectConfigPaths returns the paths to check for project configuration.
func (l *KoanfLoader) ProjectConfigPaths() []string {
	if l.projectPath != "" {
		return []string{l.projectPath}
	}

	return []string{
		filepath.Join(l.workDir, ProjectConfigDir, ProjectConfigFile),
		filepath.Join(l.workDir, ProjectConfigFileAlt),
	}
}

// FindProjectConfigPath returns the path to the project config file if one exists.
// An explicit project path is returned even when missing so loading can report it.
func (l *KoanfLoader) FindProjectConfigPath() string {
	if l.projectPath != "" {
		return l.projectPath
	}

	for _, path := range l.ProjectConfigPaths() {
		if fileExists(path) {
			return path
		}
	}

	return ""
}

// HasGlobalConfig checks if a global configuration file exists.
func (l *KoanfLoader) HasGlobalConfig() bool {
	return fileExists(l.GlobalConfigPath())
}

// HasProjectConfig checks if a project configuration file exists.
func (l *KoanfLoader) HasProjectConfig() bool {
	return fileExists(l.FindProjectConfigPath())
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	if path == "" {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return !info.IsDir()
}
