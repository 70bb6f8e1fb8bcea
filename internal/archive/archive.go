// Package archive bundles rendered mockups into a single zip download.
package archive

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// FixedModTime keeps archives byte-for-byte reproducible across runs
// (1980-01-01 UTC, the zip epoch).
var FixedModTime = time.Unix(315532800, 0).UTC()

// Writer accumulates named entries into one zip stream. Entry names are
// sanitized and de-duplicated, so callers can pass raw mockup file names.
type Writer struct {
	zw   *zip.Writer
	used map[string]struct{}
}

// NewWriter starts an archive on top of w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		zw:   zip.NewWriter(w),
		used: make(map[string]struct{}),
	}
}

// AddImage stores an encoded image under name. Image payloads are already
// compressed, so entries are stored rather than deflated again.
func (w *Writer) AddImage(name string, data []byte) error {
	h := &zip.FileHeader{Name: w.uniqueName(name), Method: zip.Store}
	h.SetMode(0o644)
	h.Modified = FixedModTime

	ew, err := w.zw.CreateHeader(h)
	if err != nil {
		return fmt.Errorf("failed to create archive entry %s: %w", name, err)
	}
	if _, err := ew.Write(data); err != nil {
		return fmt.Errorf("failed to write archive entry %s: %w", name, err)
	}
	return nil
}

// AddJSON writes an indented JSON entry, used for the export manifest.
func (w *Writer) AddJSON(name string, v any) error {
	h := &zip.FileHeader{Name: w.uniqueName(name), Method: zip.Deflate}
	h.SetMode(0o644)
	h.Modified = FixedModTime

	ew, err := w.zw.CreateHeader(h)
	if err != nil {
		return fmt.Errorf("failed to create archive entry %s: %w", name, err)
	}
	enc := json.NewEncoder(ew)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write archive entry %s: %w", name, err)
	}
	return nil
}

// Close flushes the central directory. The archive is unreadable without it.
func (w *Writer) Close() error {
	if err := w.zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

func (w *Writer) uniqueName(name string) string {
	name = sanitizePath(name)
	if _, ok := w.used[name]; !ok {
		w.used[name] = struct{}{}
		return name
	}
	base, ext := name, ""
	if i := strings.LastIndex(name, "."); i > 0 {
		base, ext = name[:i], name[i:]
	}
	for n := 1; ; n++ {
		alt := fmt.Sprintf("%s-%d%s", base, n, ext)
		if _, ok := w.used[alt]; !ok {
			w.used[alt] = struct{}{}
			return alt
		}
	}
}

// sanitizePath normalizes entry paths: forward slashes, no drive letter, no
// leading '/', and '.'/'..' segments resolved without escaping the root.
func sanitizePath(p string) string {
	s := filepath.ToSlash(p)
	if len(s) > 1 && s[1] == ':' {
		s = s[2:]
	}
	s = strings.TrimLeft(s, "/")
	parts := strings.Split(s, "/")
	stack := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		if part == ".." {
			if n := len(stack); n > 0 {
				stack = stack[:n-1]
			}
			continue
		}
		stack = append(stack, part)
	}
	s = strings.Join(stack, "/")
	if s == "" {
		return "entry"
	}
	return s
}
