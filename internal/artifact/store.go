package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

const latestName = "latest.json"

// Store keeps versioned model artifacts in a directory. Every version
// lives in its own immutable file and latest.json carries a copy of the
// current one, so a watcher only needs to follow a single path. Writes
// take a file lock and go through a rename, so a trainer process and a
// serving daemon can share the directory without either seeing a torn
// file.
type Store struct {
	dir    string
	logger *zap.Logger
	flk    *flock.Flock
}

// NewStore opens (creating if needed) an artifact directory.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return &Store{
		dir:    dir,
		logger: logger,
		flk:    flock.New(filepath.Join(dir, ".artifacts.lock")),
	}, nil
}

// Dir returns the artifact directory.
func (s *Store) Dir() string {
	return s.dir
}

// LatestPath returns the path hot-reload watchers should follow.
func (s *Store) LatestPath() string {
	return filepath.Join(s.dir, latestName)
}

func (s *Store) versionPath(version string) string {
	return filepath.Join(s.dir, "model-"+version+".json")
}

// Save writes the artifact as a new immutable version and repoints
// latest.json at it. Returns the version file path.
func (s *Store) Save(a *Artifact) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	if err := s.flk.Lock(); err != nil {
		return "", fmt.Errorf("failed to lock artifact store: %w", err)
	}
	defer s.flk.Unlock()

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode artifact: %w", err)
	}

	path := s.versionPath(a.Version)
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}
	if err := writeAtomic(s.LatestPath(), data); err != nil {
		return "", err
	}

	s.logger.Info("Saved model artifact",
		zap.String("version", a.Version),
		zap.String("algorithm", a.Algorithm),
		zap.String("path", path))
	return path, nil
}

// LoadLatest reads the artifact latest.json points at.
func (s *Store) LoadLatest() (*Artifact, error) {
	return s.load(s.LatestPath())
}

// LoadVersion reads one specific stored version.
func (s *Store) LoadVersion(version string) (*Artifact, error) {
	return s.load(s.versionPath(version))
}

func (s *Store) load(path string) (*Artifact, error) {
	if err := s.flk.RLock(); err != nil {
		return nil, fmt.Errorf("failed to lock artifact store: %w", err)
	}
	defer s.flk.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact %s: %w", path, err)
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model artifact %s: %w", path, err)
	}
	return &a, nil
}

// Versions lists the stored version names, newest first.
func (s *Store) Versions() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifact directory: %w", err)
	}

	type stamped struct {
		version string
		modTime int64
	}
	found := make([]stamped, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "model-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, stamped{
			version: strings.TrimSuffix(strings.TrimPrefix(name, "model-"), ".json"),
			modTime: info.ModTime().UnixNano(),
		})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].modTime > found[j].modTime })

	versions := make([]string, 0, len(found))
	for _, f := range found {
		versions = append(versions, f.version)
	}
	return versions, nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
