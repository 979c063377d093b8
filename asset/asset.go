// Package asset models the study materials a user uploads: images of boards
// and notebooks, and PDF documents.
package asset

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// MaxFileSize is the maximum size of a single asset (20MB)
	MaxFileSize = 20 * 1024 * 1024

	// MaxLectureAssets is the number of assets one lecture can be built from
	MaxLectureAssets = 3
)

// SupportedExtensions lists the file extensions accepted as assets
var SupportedExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tiff", ".tif", ".heic", ".pdf",
}

// Asset is one uploaded file. Data holds the base64 encoded contents.
type Asset struct {
	ID       string
	Data     string
	MIMEType string
	Name     string
	Size     int64
}

// New builds an asset from raw bytes. An empty mimeType is detected from the
// name, then from the content.
func New(name, mimeType string, raw []byte) Asset {
	if mimeType == "" {
		mimeType = DetectMIMEType(name, raw)
	}
	return Asset{
		ID:       uuid.NewString(),
		Data:     base64.StdEncoding.EncodeToString(raw),
		MIMEType: mimeType,
		Name:     name,
		Size:     int64(len(raw)),
	}
}

// Load reads a file from disk into an Asset
func Load(path string) (Asset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Asset{}, fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return Asset{}, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > MaxFileSize {
		return Asset{}, fmt.Errorf("file size %s exceeds maximum %s", FormatSize(info.Size()), FormatSize(MaxFileSize))
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Asset{}, fmt.Errorf("failed to read file: %w", err)
	}

	a := New(filepath.Base(path), "", raw)
	if !IsSupportedType(a.MIMEType) {
		return Asset{}, fmt.Errorf("unsupported file type %q for %s", a.MIMEType, filepath.Base(path))
	}
	return a, nil
}

// IsImage reports whether the asset is an image
func (a Asset) IsImage() bool {
	return strings.HasPrefix(a.MIMEType, "image/")
}

// Bytes decodes the asset payload
func (a Asset) Bytes() ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(a.Data)
	if err != nil {
		return nil, fmt.Errorf("asset %s: invalid payload: %w", a.Name, err)
	}
	return raw, nil
}

// DetectMIMEType resolves a MIME type from the file extension, falling back
// to content sniffing.
func DetectMIMEType(name string, raw []byte) string {
	if mt := mimeTypeForExt(strings.ToLower(filepath.Ext(name))); mt != "" {
		return mt
	}
	if len(raw) == 0 {
		return "application/octet-stream"
	}
	mt := http.DetectContentType(raw)
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = mt[:i]
	}
	return mt
}

// IsSupportedType reports whether a MIME type can be sent to the tutor
func IsSupportedType(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") || mimeType == "application/pdf"
}

// IsSupportedFile checks the extension of a path
func IsSupportedFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

func mimeTypeForExt(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".bmp":
		return "image/bmp"
	case ".tiff", ".tif":
		return "image/tiff"
	case ".heic":
		return "image/heic"
	case ".pdf":
		return "application/pdf"
	default:
		return ""
	}
}

// FormatSize formats a byte size as a human-readable string
func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}
