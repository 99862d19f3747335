package biometric

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
)

// ArtifactStore persists uploaded capture images to disk under a
// timestamp-named directory. Transactions only ever reference the returned
// path; raw image bytes stay out of the audit records.
type ArtifactStore struct {
	BaseDir string
}

func NewArtifactStore(baseDir string) *ArtifactStore {
	return &ArtifactStore{BaseDir: baseDir}
}

type SavedArtifact struct {
	Path      string `json:"path"`
	Timestamp int64  `json:"timestamp"`
	Filename  string `json:"filename"`
	Size      int    `json:"size"`
}

func (s *ArtifactStore) Save(imageBase64 string, timestamp int64, filename string) (*SavedArtifact, error) {
	data, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	dir := filepath.Join(s.BaseDir, fmt.Sprintf("%d", timestamp))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write artifact: %w", err)
	}

	return &SavedArtifact{
		Path:      path,
		Timestamp: timestamp,
		Filename:  filepath.Base(filename),
		Size:      len(data),
	}, nil
}
