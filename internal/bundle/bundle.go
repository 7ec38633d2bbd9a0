// Package bundle packages rendered letters for download.
package bundle

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultBaseName is used when a record yields no usable file name.
const DefaultBaseName = "carta"

// File is one rendered letter image.
type File struct {
	Name string // base name without extension
	Ext  string // extension including the dot
	Data []byte
}

// FileName returns the name the file is stored under.
func (f File) FileName() string { return f.Name + f.Ext }

var unsafeChars = strings.NewReplacer(
	"/", " ", `\`, " ", ":", " ", "*", " ", "?", " ",
	`"`, " ", "<", " ", ">", " ", "|", " ",
)

// SanitizeFileName makes name safe for archive entries and file systems.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(unsafeChars.Replace(name))
	if name == "" {
		return DefaultBaseName
	}
	return name
}

// UniqueNames returns names with repeats suffixed " (2)", " (3)" and so on.
// Comparison is case-insensitive.
func UniqueNames(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]bool, len(names))
	for i, n := range names {
		candidate := n
		for k := 2; seen[strings.ToLower(candidate)]; k++ {
			candidate = fmt.Sprintf("%s (%d)", n, k)
		}
		seen[strings.ToLower(candidate)] = true
		out[i] = candidate
	}
	return out
}

// WriteZip writes files into a zip archive on w.
func WriteZip(w io.Writer, files []File) error {
	zw := zip.NewWriter(w)
	now := time.Now()
	for _, f := range files {
		hdr := &zip.FileHeader{
			Name:     f.FileName(),
			Method:   zip.Deflate,
			Modified: now,
		}
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("zip entry %s: %w", hdr.Name, err)
		}
		if _, err := fw.Write(f.Data); err != nil {
			return fmt.Errorf("zip write %s: %w", hdr.Name, err)
		}
	}
	return zw.Close()
}

// WriteZipFile writes the archive to path, creating parent directories.
func WriteZipFile(path string, files []File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	if err := WriteZip(f, files); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
