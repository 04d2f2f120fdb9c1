// Package pptx gives byte-level access to the OOXML parts of a .pptx file.
//
// The whole archive is held in memory. Parts are read once at Open, edited in
// place and written back with Bytes, so callers never touch the filesystem.
package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
)

const (
	// maxEntrySize bounds a single decompressed part
	maxEntrySize = 50 << 20
	// maxTotalSize bounds the sum of all decompressed parts
	maxTotalSize = 200 << 20
	maxEntries   = 10000
)

const (
	ContentTypesPart = "[Content_Types].xml"
	PresentationPart = "ppt/presentation.xml"
)

// Package is an opened, editable PPTX archive
type Package struct {
	names []string
	parts map[string][]byte
}

// Open reads every part of the archive in data
func Open(data []byte) (*Package, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}
	if len(zr.File) > maxEntries {
		return nil, fmt.Errorf("zip archive contains too many entries (%d > %d)", len(zr.File), maxEntries)
	}

	p := &Package{parts: make(map[string][]byte, len(zr.File))}
	var total int64
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		part, err := readEntry(f)
		if err != nil {
			return nil, err
		}
		total += int64(len(part))
		if total > maxTotalSize {
			return nil, fmt.Errorf("archive content exceeds maximum allowed size (%d bytes)", maxTotalSize)
		}
		if _, dup := p.parts[f.Name]; !dup {
			p.names = append(p.names, f.Name)
		}
		p.parts[f.Name] = part
	}

	if !p.Has(PresentationPart) {
		return nil, fmt.Errorf("not a presentation: %s is missing", PresentationPart)
	}
	return p, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	if f.UncompressedSize64 > maxEntrySize {
		return nil, fmt.Errorf("file %s exceeds maximum allowed size (%d bytes)", f.Name, maxEntrySize)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s in zip: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from zip: %w", f.Name, err)
	}
	if len(data) > maxEntrySize {
		return nil, fmt.Errorf("file %s actual size exceeds maximum allowed size", f.Name)
	}
	return data, nil
}

// Has reports whether the named part exists
func (p *Package) Has(name string) bool {
	_, ok := p.parts[name]
	return ok
}

// Read returns the content of the named part
func (p *Package) Read(name string) ([]byte, error) {
	data, ok := p.parts[name]
	if !ok {
		return nil, fmt.Errorf("file not found in zip: %s", name)
	}
	return data, nil
}

// Set creates or replaces a part
func (p *Package) Set(name string, data []byte) {
	if _, ok := p.parts[name]; !ok {
		p.names = append(p.names, name)
	}
	p.parts[name] = data
}

// Delete removes a part; deleting a missing part is a no-op
func (p *Package) Delete(name string) {
	if _, ok := p.parts[name]; !ok {
		return
	}
	delete(p.parts, name)
	for i, n := range p.names {
		if n == name {
			p.names = append(p.names[:i], p.names[i+1:]...)
			break
		}
	}
}

// Names lists the parts in archive order
func (p *Package) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Bytes serializes the package. [Content_Types].xml is always written first.
func (p *Package) Bytes() ([]byte, error) {
	names := p.Names()
	sort.SliceStable(names, func(i, j int) bool {
		return names[i] == ContentTypesPart && names[j] != ContentTypesPart
	})

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s in zip: %w", name, err)
		}
		if _, err := w.Write(p.parts[name]); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize zip: %w", err)
	}
	return buf.Bytes(), nil
}
