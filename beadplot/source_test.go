package beadplot

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = io.WriteString(w, body)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func readAll(t *testing.T, src Source, name string) string {
	t.Helper()
	rc, err := src.Open(name)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func TestDirSource(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "run1"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".cache"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.csv"), []byte("top"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "run1", "b.CSV"), []byte("nested"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".cache", "c.csv"), []byte("hidden"), 0o644))

	src, err := OpenSource(root)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, []string{"a.csv", "run1/b.CSV"}, src.Files())
	assert.Equal(t, "top", readAll(t, src, "a.csv"))
	assert.Equal(t, "nested", readAll(t, src, "b.CSV"))
	assert.Equal(t, "nested", readAll(t, src, `D:\export\run1\b.CSV`))

	_, err = src.Open("missing.csv")
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestDirSourceWithoutCSV(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.md"), []byte("x"), 0o644))
	_, err := OpenSource(root)
	require.ErrorIs(t, err, ErrNoDataFiles)
}

func TestZipSourceBytes(t *testing.T) {
	data := buildZip(t, map[string]string{
		"export/a.csv":          "alpha",
		"export/deep/b.csv":     "beta",
		"__MACOSX/export/a.csv": "junk",
		"export/.hidden.csv":    "junk",
		"export/readme.txt":     "junk",
	})
	src, err := NewZipSourceBytes("upload.zip", data)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, "upload.zip", src.Name())
	assert.Equal(t, []string{"export/a.csv", "export/deep/b.csv"}, src.Files())
	assert.Equal(t, "alpha", readAll(t, src, "a.csv"))
	assert.Equal(t, "beta", readAll(t, src, "export/deep/b.csv"))

	_, err = src.Open("c.csv")
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestZipSourceFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.ZIP")
	require.NoError(t, os.WriteFile(path, buildZip(t, map[string]string{"a.csv": rawCSV(3)}), 0o644))

	src, err := OpenSource(path)
	require.NoError(t, err)
	defer src.Close()

	rc, err := src.Open("a.csv")
	require.NoError(t, err)
	series, err := ParseSeries(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, 3, series.Len())
}

func TestZipSourceRejectsEmptyAndCorrupt(t *testing.T) {
	_, err := NewZipSourceBytes("empty.zip", buildZip(t, map[string]string{"readme.txt": "x"}))
	require.ErrorIs(t, err, ErrNoDataFiles)

	_, err = NewZipSourceBytes("broken.zip", []byte("not a zip"))
	require.Error(t, err)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.csv")
	require.NoError(t, os.WriteFile(path, []byte("single"), 0o644))

	src, err := OpenSource(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv"}, src.Files())
	assert.Equal(t, "single", readAll(t, src, "data/a.csv"))

	_, err = src.Open("b.csv")
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestOpenSourceErrors(t *testing.T) {
	_, err := OpenSource("")
	require.ErrorIs(t, err, ErrFileNotFound)

	_, err = OpenSource(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, ErrFileNotFound)

	path := filepath.Join(t.TempDir(), "data.parquet")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	_, err = OpenSource(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrFileNotFound)
}

func TestSameFile(t *testing.T) {
	assert.True(t, SameFile("a.csv", "a.csv"))
	assert.True(t, SameFile("run1/a.csv", "a.csv"))
	assert.True(t, SameFile(`C:\data\a.csv`, "./a.csv"))
	assert.False(t, SameFile("a.csv", "b.csv"))
	assert.False(t, SameFile("", ""))
	assert.False(t, SameFile("run1/a.csv", "run2/a.csv"))
	assert.False(t, SameFile(`C:\data\a.csv`, "run1/a.csv"))
	assert.True(t, SameFile(`run1\a.csv`, "./run1/a.csv"))
	assert.Equal(t, "a.csv", BaseName(`x\y\a.csv`))
}

func TestSourcePrefersDeeperPathOverBaseName(t *testing.T) {
	data := buildZip(t, map[string]string{
		"run1/a.csv": "first",
		"run2/a.csv": "second",
	})
	src, err := NewZipSourceBytes("runs.zip", data)
	require.NoError(t, err)

	assert.Equal(t, "second", readAll(t, src, "run2/a.csv"))
	assert.Equal(t, "second", readAll(t, src, "/export/run2/a.csv"))
	_, err = src.Open("run3/a.csv")
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestPlotFileName(t *testing.T) {
	assert.Equal(t, "run1_a_M.png", PlotFileName("run1/a.csv", "M"))
	assert.Equal(t, "run2_a_M.png", PlotFileName(`run2\a.csv`, "M"))
	assert.Equal(t, "a.png", PlotFileName("./a.csv", ""))
	assert.Equal(t, "C_raw_b_M.png", PlotFileName(`C:\raw\b.csv`, "M"))
	assert.Equal(t, "data_a_M.png", PlotFileName("/data/a.csv", "M"))
}
