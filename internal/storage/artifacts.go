package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/haskel/calburn/internal/model"
	"github.com/haskel/calburn/internal/preprocess"
	"github.com/haskel/calburn/internal/stage"
)

const (
	DefaultPreprocessorFile = "preprocessor.json"
	DefaultModelFile        = "model.json"
)

// Saveable is an interface for objects that can be saved.
type Saveable interface {
	Save(w io.Writer) error
}

// Paths locates the artifact files.
type Paths struct {
	Dir              string
	PreprocessorFile string
	ModelFile        string
}

// ArtifactStore handles persistence of the fitted preprocessor and model.
type ArtifactStore struct {
	paths  Paths
	logger *slog.Logger
	mu     sync.Mutex
}

// NewArtifactStore creates a new ArtifactStore. Empty file names fall back to defaults.
func NewArtifactStore(paths Paths, logger *slog.Logger) *ArtifactStore {
	if paths.PreprocessorFile == "" {
		paths.PreprocessorFile = DefaultPreprocessorFile
	}
	if paths.ModelFile == "" {
		paths.ModelFile = DefaultModelFile
	}
	return &ArtifactStore{paths: paths, logger: logger}
}

// Dir returns the artifact directory.
func (s *ArtifactStore) Dir() string {
	return s.paths.Dir
}

// PreprocessorPath returns the preprocessor artifact path.
func (s *ArtifactStore) PreprocessorPath() string {
	return filepath.Join(s.paths.Dir, s.paths.PreprocessorFile)
}

// ModelPath returns the model artifact path.
func (s *ArtifactStore) ModelPath() string {
	return filepath.Join(s.paths.Dir, s.paths.ModelFile)
}

// SavePreprocessor writes the fitted preprocessor to disk.
func (s *ArtifactStore) SavePreprocessor(pre Saveable) error {
	return stage.Wrap("save preprocessor artifact", s.save(s.PreprocessorPath(), pre))
}

// SaveModel writes the fitted model to disk.
func (s *ArtifactStore) SaveModel(m Saveable) error {
	return stage.Wrap("save model artifact", s.save(s.ModelPath(), m))
}

func (s *ArtifactStore) save(filePath string, obj Saveable) error {
	return s.writeFile(filePath, obj.Save)
}

// writeFile streams content into filePath through a temp file and an atomic rename.
func (s *ArtifactStore) writeFile(filePath string, write func(io.Writer) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	tempPath := filePath + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if err := write(file); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write artifact: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, filePath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	s.logger.Debug("saved artifact to disk", "path", filePath)
	return nil
}

// LoadPreprocessor reads the fitted preprocessor. A missing or corrupt file is an error.
func (s *ArtifactStore) LoadPreprocessor() (*preprocess.ColumnTransformer, error) {
	var pre *preprocess.ColumnTransformer
	err := s.load(s.PreprocessorPath(), func(r io.Reader) error {
		var err error
		pre, err = preprocess.LoadTransformer(r)
		return err
	})
	if err != nil {
		return nil, stage.Wrap("load preprocessor artifact", err)
	}
	return pre, nil
}

// LoadModel reads the fitted model. A missing or corrupt file is an error.
func (s *ArtifactStore) LoadModel() (model.Regressor, error) {
	var m model.Regressor
	err := s.load(s.ModelPath(), func(r io.Reader) error {
		var err error
		m, err = model.LoadAny(r)
		return err
	})
	if err != nil {
		return nil, stage.Wrap("load model artifact", err)
	}
	return m, nil
}

func (s *ArtifactStore) load(filePath string, read func(io.Reader) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open artifact: %w", err)
	}
	defer file.Close()

	if err := read(file); err != nil {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	s.logger.Info("loaded artifact from disk", "path", filePath)
	return nil
}

// ArtifactInfo describes a saved artifact file.
type ArtifactInfo struct {
	Name      string    `json:"name"`
	Exists    bool      `json:"exists"`
	Path      string    `json:"path"`
	Size      int64     `json:"size,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Info returns information about both artifacts.
func (s *ArtifactStore) Info() []ArtifactInfo {
	return []ArtifactInfo{
		fileInfo("preprocessor", s.PreprocessorPath()),
		fileInfo("model", s.ModelPath()),
	}
}

// Exists reports whether both artifacts are present.
func (s *ArtifactStore) Exists() bool {
	for _, info := range s.Info() {
		if !info.Exists {
			return false
		}
	}
	return true
}

func fileInfo(name, filePath string) ArtifactInfo {
	info := ArtifactInfo{
		Name: name,
		Path: filePath,
	}

	stat, err := os.Stat(filePath)
	if err != nil {
		return info
	}

	info.Exists = true
	info.Size = stat.Size()
	info.UpdatedAt = stat.ModTime()
	return info
}
