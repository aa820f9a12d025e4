package beadplot

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Source enumerates and opens raw data files.
type Source interface {
	// Name describes the source for log lines and notices.
	Name() string
	// Files lists CSV entries as slash-separated names.
	Files() []string
	// Open returns the entry matching name exactly or by base name.
	Open(name string) (io.ReadCloser, error)
	Close() error
}

// OpenSource picks a source implementation for a directory, ZIP archive or single CSV.
func OpenSource(p string) (Source, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return nil, fmt.Errorf("%w: no data path given", ErrFileNotFound)
	}
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, p)
		}
		return nil, fmt.Errorf("stat data path: %w", err)
	}
	if info.IsDir() {
		return NewDirSource(p)
	}
	switch strings.ToLower(filepath.Ext(p)) {
	case ".zip":
		return NewZipSource(p)
	case ".csv":
		return NewFileSource(p), nil
	default:
		return nil, fmt.Errorf("unsupported data file %s", filepath.Base(p))
	}
}

// DirSource reads CSV files from a directory tree.
type DirSource struct {
	root  string
	files []string
}

// NewDirSource walks root and indexes every CSV file below it.
func NewDirSource(root string) (*DirSource, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !isDataFile(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDataFiles, root)
	}
	sort.Strings(files)
	return &DirSource{root: root, files: files}, nil
}

func (d *DirSource) Name() string    { return d.root }
func (d *DirSource) Files() []string { return cloneStrings(d.files) }
func (d *DirSource) Close() error    { return nil }

func (d *DirSource) Open(name string) (io.ReadCloser, error) {
	entry, ok := matchEntry(d.files, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrFileNotFound, name, d.root)
	}
	f, err := os.Open(filepath.Join(d.root, filepath.FromSlash(entry)))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", entry, err)
	}
	return f, nil
}

// ZipSource reads CSV entries from a ZIP archive, including nested folders.
type ZipSource struct {
	name   string
	reader *zip.Reader
	closer io.Closer
	files  []string
	byName map[string]*zip.File
}

// NewZipSource opens an archive on disk.
func NewZipSource(p string) (*ZipSource, error) {
	rc, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", filepath.Base(p), err)
	}
	src, err := newZipSource(filepath.Base(p), &rc.Reader, rc)
	if err != nil {
		rc.Close()
		return nil, err
	}
	return src, nil
}

// NewZipSourceBytes wraps an archive already held in memory, e.g. an upload.
func NewZipSourceBytes(name string, data []byte) (*ZipSource, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", name, err)
	}
	return newZipSource(name, zr, nil)
}

func newZipSource(name string, zr *zip.Reader, closer io.Closer) (*ZipSource, error) {
	src := &ZipSource{name: name, reader: zr, closer: closer, byName: make(map[string]*zip.File)}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entry := NormalizeName(f.Name)
		if strings.HasPrefix(entry, "__MACOSX/") || !isDataFile(path.Base(entry)) {
			continue
		}
		src.files = append(src.files, entry)
		src.byName[entry] = f
	}
	if len(src.files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDataFiles, name)
	}
	sort.Strings(src.files)
	return src, nil
}

func (z *ZipSource) Name() string    { return z.name }
func (z *ZipSource) Files() []string { return cloneStrings(z.files) }

func (z *ZipSource) Open(name string) (io.ReadCloser, error) {
	entry, ok := matchEntry(z.files, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrFileNotFound, name, z.name)
	}
	rc, err := z.byName[entry].Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", entry, err)
	}
	return rc, nil
}

func (z *ZipSource) Close() error {
	if z.closer != nil {
		return z.closer.Close()
	}
	return nil
}

// FileSource exposes a single CSV file.
type FileSource struct {
	path string
}

// NewFileSource wraps one raw data file.
func NewFileSource(p string) *FileSource {
	return &FileSource{path: p}
}

func (f *FileSource) Name() string    { return f.path }
func (f *FileSource) Files() []string { return []string{filepath.Base(f.path)} }
func (f *FileSource) Close() error    { return nil }

func (f *FileSource) Open(name string) (io.ReadCloser, error) {
	if !SameFile(name, filepath.Base(f.path)) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}
	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, f.path)
		}
		return nil, fmt.Errorf("open %s: %w", filepath.Base(f.path), err)
	}
	return file, nil
}

// matchEntry prefers an exact entry, then one path ending in the other at a
// directory boundary, then the first base-name match against a bare name.
func matchEntry(files []string, name string) (string, bool) {
	want := NormalizeName(name)
	if want == "" {
		return "", false
	}
	for _, f := range files {
		if f == want {
			return f, true
		}
	}
	for _, f := range files {
		if pathSuffix(f, want) || pathSuffix(want, f) {
			return f, true
		}
	}
	for _, f := range files {
		if SameFile(f, want) {
			return f, true
		}
	}
	return "", false
}

func pathSuffix(long, short string) bool {
	return strings.HasSuffix(long, "/"+short)
}

func isDataFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	return strings.EqualFold(path.Ext(name), ".csv")
}
