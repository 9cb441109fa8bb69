package files_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FiloHany/DataAnalysis-Toolkit/internal/dataset"
	"github.com/FiloHany/DataAnalysis-Toolkit/internal/files"
)

func sampleDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	return dataset.MustNew([]string{"sym", "price", "active"}, []dataset.Row{
		{"sym": dataset.Str("BTC"), "price": dataset.Float(42000.5), "active": dataset.Bool(true)},
		{"sym": dataset.Str("ETH"), "price": dataset.Int(3000), "active": dataset.Bool(false)},
		{"sym": dataset.Str("XRP"), "price": dataset.Null(), "active": dataset.Bool(true)},
	})
}

func TestWriteReadCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "data.csv")
	d := sampleDataset(t)

	require.NoError(t, files.WriteCSV(path, d))

	got, err := files.ReadCSV(path)
	require.NoError(t, err)

	assert.Equal(t, d.Columns(), got.Columns())
	require.Equal(t, d.NumRows(), got.NumRows())

	v, _ := got.At(0, "price")
	f, ok := v.AsFloat()
	require.True(t, ok)
	assert.Equal(t, 42000.5, f)

	v, _ = got.At(1, "price")
	assert.Equal(t, dataset.KindInt, v.Kind())

	// Empty cells read back as null.
	v, _ = got.At(2, "price")
	assert.True(t, v.IsNull())

	v, _ = got.At(0, "active")
	b, ok := v.AsBool()
	require.True(t, ok)
	assert.True(t, b)
}

func TestReadCSVParsesTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typed.csv")
	content := "name,qty,ratio\nwidget,3,0.5\ngadget,,1.25\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	d, err := files.ReadCSV(path)
	require.NoError(t, err)

	v, _ := d.At(0, "qty")
	assert.Equal(t, dataset.KindInt, v.Kind())
	v, _ = d.At(1, "qty")
	assert.True(t, v.IsNull())
	v, _ = d.At(1, "ratio")
	assert.Equal(t, dataset.KindFloat, v.Kind())
	v, _ = d.At(0, "name")
	assert.Equal(t, dataset.KindString, v.Kind())
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := files.ReadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestAppendCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collect.csv")
	d := sampleDataset(t)

	// First append writes the header, the second only rows.
	require.NoError(t, files.AppendCSV(path, d))
	require.NoError(t, files.AppendCSV(path, d))

	got, err := files.ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 6, got.NumRows())
	assert.Equal(t, d.Columns(), got.Columns())
}

func TestReadCSVDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("x\n1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), []byte("y\n2\n3\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	got, err := files.ReadCSVDir(dir)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got["a.csv"].NumRows())
	assert.Equal(t, 2, got["b.csv"].NumRows())
}

func TestReadCSVDirFailsOnBadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.csv"), []byte("x\n1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.csv"), []byte("a,b\n\"unterminated\n"), 0o644))

	_, err := files.ReadCSVDir(dir)
	assert.Error(t, err)
}
