package asset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		name string
		file string
		raw  []byte
		want string
	}{
		{"jpeg ext", "board.JPG", nil, "image/jpeg"},
		{"pdf ext", "notes.pdf", nil, "application/pdf"},
		{"heic ext", "photo.heic", nil, "image/heic"},
		{"sniff png", "upload", pngHeader, "image/png"},
		{"sniff pdf", "upload.bin", []byte("%PDF-1.7\n"), "application/pdf"},
		{"empty unknown", "upload", nil, "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectMIMEType(tt.file, tt.raw); got != tt.want {
				t.Errorf("DetectMIMEType(%q) = %q, want %q", tt.file, got, tt.want)
			}
		})
	}
}

func TestNewAndBytes(t *testing.T) {
	a := New("page.png", "", pngHeader)

	if a.ID == "" {
		t.Error("ID should be set")
	}
	if a.MIMEType != "image/png" {
		t.Errorf("MIMEType = %q, want image/png", a.MIMEType)
	}
	if !a.IsImage() {
		t.Error("png should be an image")
	}
	if a.Size != int64(len(pngHeader)) {
		t.Errorf("Size = %d, want %d", a.Size, len(pngHeader))
	}

	raw, err := a.Bytes()
	if err != nil {
		t.Fatalf("Bytes() failed: %v", err)
	}
	if string(raw) != string(pngHeader) {
		t.Error("Bytes() did not round trip the payload")
	}

	if New("x.png", "", nil).ID == a.ID {
		t.Error("IDs should be unique")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	pdf := filepath.Join(dir, "lecture.pdf")
	if err := os.WriteFile(pdf, []byte("%PDF-1.4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("plain text"), 0644); err != nil {
		t.Fatal(err)
	}

	a, err := Load(pdf)
	if err != nil {
		t.Fatalf("Load(pdf) failed: %v", err)
	}
	if a.Name != "lecture.pdf" || a.MIMEType != "application/pdf" || a.IsImage() {
		t.Errorf("unexpected asset: %+v", a)
	}

	if _, err := Load(txt); err == nil {
		t.Error("Load(txt) should fail")
	}
	if _, err := Load(dir); err == nil {
		t.Error("Load(dir) should fail")
	}
	if _, err := Load(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Load(missing) should fail")
	}
}

func TestListCap(t *testing.T) {
	l := NewList(MaxLectureAssets)
	a1, a2, a3, a4 := New("1.png", "", pngHeader), New("2.png", "", pngHeader), New("3.png", "", pngHeader), New("4.png", "", pngHeader)

	if err := l.Add(a1, a2); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	err := l.Add(a3, a4)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Add() over cap error = %v, want ValidationError", err)
	}
	if verr.Count != 4 || verr.Max != 3 {
		t.Errorf("ValidationError = %+v, want Count 4 Max 3", verr)
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d after rejected add, want 2", l.Len())
	}

	if err := l.Add(a3); err != nil {
		t.Fatalf("Add() up to the cap failed: %v", err)
	}
	if l.Len() != 3 {
		t.Errorf("Len() = %d, want 3", l.Len())
	}

	if !l.Remove(a2.ID) {
		t.Error("Remove() should find a2")
	}
	if l.Remove(a2.ID) {
		t.Error("Remove() should not find a2 twice")
	}
	items := l.Items()
	if len(items) != 2 || items[0].ID != a1.ID || items[1].ID != a3.ID {
		t.Errorf("Items() order wrong: %v", items)
	}

	l.Clear()
	if l.Len() != 0 {
		t.Error("Clear() should empty the list")
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"page_10.png", "page_2.png", "page_1.pdf", "readme.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), pngHeader, 0644); err != nil {
			t.Fatal(err)
		}
	}

	paths, err := Resolve([]string{dir})
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	want := []string{"page_1.pdf", "page_2.png", "page_10.png"}
	if len(names) != len(want) {
		t.Fatalf("Resolve() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Resolve()[%d] = %s, want %s", i, names[i], want[i])
		}
	}

	// same file twice through a glob is de-duplicated
	paths, err = Resolve([]string{filepath.Join(dir, "page_2.png"), filepath.Join(dir, "page_2*")})
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if len(paths) != 1 {
		t.Errorf("Resolve() returned %d paths, want 1", len(paths))
	}

	if _, err := Resolve(nil); err == nil {
		t.Error("Resolve(nil) should fail")
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 bytes"},
		{2048, "2.00 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.bytes); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
