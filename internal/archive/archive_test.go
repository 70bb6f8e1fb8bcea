package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	if err := w.AddImage("shirt.png", []byte("png-bytes")); err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	if err := w.AddImage("shirt.png", []byte("other-bytes")); err != nil {
		t.Fatalf("AddImage duplicate: %v", err)
	}
	if err := w.AddJSON("manifest.json", map[string]int{"count": 2}); err != nil {
		t.Fatalf("AddJSON: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("reopen archive: %v", err)
	}

	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
		if !f.Modified.Equal(FixedModTime) {
			t.Errorf("entry %s has timestamp %v, want the fixed epoch", f.Name, f.Modified)
		}
	}

	want := []string{"shirt.png", "shirt-1.png", "manifest.json"}
	if len(names) != len(want) {
		t.Fatalf("entries = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, names[i], want[i])
		}
	}

	rc, err := r.File[1].Open()
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "other-bytes" {
		t.Errorf("duplicate entry content = %q", data)
	}
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain.png", "plain.png"},
		{"/leading/slash.png", "leading/slash.png"},
		{"../../escape.png", "escape.png"},
		{"a/./b//c.png", "a/b/c.png"},
		{"a/../b.png", "b.png"},
		{"..", "entry"},
		{"", "entry"},
	}
	for _, tt := range tests {
		if got := sanitizePath(tt.in); got != tt.want {
			t.Errorf("sanitizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReproducibleBytes(t *testing.T) {
	build := func() []byte {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		if err := w.AddImage("a.png", []byte("aaa")); err != nil {
			t.Fatal(err)
		}
		if err := w.Close(); err != nil {
			t.Fatal(err)
		}
		return buf.Bytes()
	}

	if !bytes.Equal(build(), build()) {
		t.Error("two identical archives differ byte for byte")
	}
}
