package rdml

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// The compressed container is a standard zip archive holding the markup as a
// single entry, the form instrument vendors exchange. Plain markup remains a
// first-class input; the container is detected by magic bytes on read and is
// opt-in on write.

const containerEntryName = "rdml_data.xml"

var containerMagic = []byte{'P', 'K', 0x03, 0x04}

func isContainer(data []byte) bool {
	return len(data) >= len(containerMagic) && bytes.Equal(data[:len(containerMagic)], containerMagic)
}

func unwrapContainer(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open container: %w", err)
	}
	entry := pickEntry(zr)
	if entry == nil {
		return nil, fmt.Errorf("container holds no markup entry")
	}
	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("open container entry %s: %w", entry.Name, err)
	}
	defer func() { _ = rc.Close() }()
	inner, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read container entry %s: %w", entry.Name, err)
	}
	return inner, nil
}

// pickEntry prefers an .rdml/.xml entry; vendor archives occasionally carry
// auxiliary files alongside the document.
func pickEntry(zr *zip.Reader) *zip.File {
	for _, f := range zr.File {
		name := strings.ToLower(f.Name)
		if strings.HasSuffix(name, ".rdml") || strings.HasSuffix(name, ".xml") {
			return f
		}
	}
	if len(zr.File) > 0 {
		return zr.File[0]
	}
	return nil
}

func wrapContainer(name string, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
