package namer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Manifest lists every allocated audio artifact for one game.
type Manifest struct {
	Version     int               `json:"version"`
	GameID      string            `json:"gameId"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Files       []AudioFileRecord `json:"files"`
}

// ManifestPath builds the path to a game's audio manifest.
func ManifestPath(baseDir, gameID string) string {
	return filepath.Join(baseDir, fmt.Sprintf("%s_manifest.json", sanitize(gameID)))
}

// WriteManifest serializes all records for a game to a manifest file
// next to the audio output and returns its path. The write is atomic:
// a temp file is renamed into place.
func (a *Allocator) WriteManifest(gameID string) (string, error) {
	manifest := Manifest{
		Version:     1,
		GameID:      gameID,
		GeneratedAt: a.now().UTC(),
		Files:       a.RecordsFor(gameID),
	}

	if err := os.MkdirAll(a.baseDir, 0o755); err != nil {
		return "", err
	}

	path := ManifestPath(a.baseDir, gameID)
	tmp := path + ".tmp"
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", err
	}
	return path, nil
}

// ReadManifest loads a previously written manifest.
func ReadManifest(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Manifest{}, err
	}
	defer f.Close()
	var m Manifest
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}
