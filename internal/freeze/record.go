package freeze

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Build statuses recorded in the history store.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// BuildRecord is a complete record of one freezer invocation: its inputs,
// VCS state, and outputs.
type BuildRecord struct {
	ID             string            `json:"id"`
	AppName        string            `json:"app_name"`
	AppVersion     string            `json:"app_version,omitempty"`
	Timestamp      time.Time         `json:"timestamp"`
	ManifestHash   string            `json:"manifest_hash"`
	Commit         string            `json:"commit,omitempty"`
	Dirty          bool              `json:"dirty,omitempty"`
	Status         string            `json:"status"`
	ExitCode       int               `json:"exit_code"`
	Duration       int64             `json:"duration_ms"`
	ArtifactHashes map[string]string `json:"artifact_hashes,omitempty"`
}

// ToJSON serializes the record to JSON.
func (r *BuildRecord) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal build record: %w", err)
	}
	return data, nil
}

// RecordFromJSON deserializes a record from JSON.
func RecordFromJSON(data []byte) (*BuildRecord, error) {
	var r BuildRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal build record: %w", err)
	}
	return &r, nil
}

// HashArtifacts walks the dist directory and computes a sha256 per regular
// file, keyed by path relative to distPath. A missing dist directory yields
// an empty map; the freezer may legitimately produce nothing on failure.
func HashArtifacts(distPath string) (map[string]string, error) {
	hashes := make(map[string]string)

	info, err := os.Stat(distPath)
	if err != nil || !info.IsDir() {
		return hashes, nil
	}

	err = filepath.WalkDir(distPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(distPath, path)
		if err != nil {
			return err
		}
		sum, err := hashFile(path)
		if err != nil {
			return err
		}
		hashes[rel] = sum
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("hash artifacts in %s: %w", distPath, err)
	}

	return hashes, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
