package export

import (
	"encoding/json"
	"fmt"
	"os"
)

// ManifestEntry describes one exported image.
type ManifestEntry struct {
	Index  int    `json:"index"`
	Source string `json:"source"`
	Image  string `json:"image"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Manifest indexes everything an export run produced.
type Manifest struct {
	Format  string          `json:"format"`
	Count   int             `json:"count"`
	Entries []ManifestEntry `json:"entries"`
}

// BuildManifest lists the job's outputs in mockup order.
func BuildManifest(j *Job) Manifest {
	entries := make([]ManifestEntry, len(j.Mockups))
	for i, e := range j.Mockups {
		size := j.TargetSize(i)
		entries[i] = ManifestEntry{
			Index:  i,
			Source: e.Name,
			Image:  j.FileName(i),
			Width:  int(size.Width),
			Height: int(size.Height),
		}
	}
	return Manifest{
		Format:  string(j.Format),
		Count:   len(entries),
		Entries: entries,
	}
}

func writeManifestFile(path string, j *Job) error {
	data, err := json.MarshalIndent(BuildManifest(j), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
