package panels

import (
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
)

const prefKeyLastDir = "lastDirectory"

// imageExtensions lists every input format the decoders are registered for.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".bmp", ".tif", ".tiff"}

func isImagePath(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range imageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// saveLastDir remembers the directory of path for the next file dialog.
func saveLastDir(path string) {
	fyne.CurrentApp().Preferences().SetString(prefKeyLastDir, filepath.Dir(path))
}

// lastDirURI returns the remembered dialog directory, or nil when it is unset
// or no longer listable.
func lastDirURI() fyne.ListableURI {
	dir := fyne.CurrentApp().Preferences().String(prefKeyLastDir)
	if dir == "" {
		return nil
	}
	lister, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		return nil
	}
	return lister
}

// parseEntryFloat reads a numeric text entry. Blank or malformed input
// reports false so the caller can restore the previous value.
func parseEntryFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
