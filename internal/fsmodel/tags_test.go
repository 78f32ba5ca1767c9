package fsmodel

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treykane/filecols/internal/view"
)

var (
	_ view.TagSource      = (*Tags)(nil)
	_ view.CopyBuffer     = (*CopyBuffer)(nil)
	_ view.MetadataSource = (*Metadata)(nil)
)

func TestLoadTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagged")
	writeFile(t, path, "/home/a\nx:/home/b\n\n/home/c:d\n")

	tags, err := LoadTags(path)
	require.NoError(t, err)
	assert.Equal(t, 3, tags.Len())

	tests := []struct {
		path   string
		marker string
		ok     bool
	}{
		{"/home/a", "*", true},
		{"/home/b", "x", true},
		{"/home/c:d", "*", true},
		{"/home/z", "", false},
	}
	for _, tt := range tests {
		m, ok := tags.Marker(tt.path)
		if m != tt.marker || ok != tt.ok {
			t.Fatalf("Marker(%q) = %q, %v; want %q, %v", tt.path, m, ok, tt.marker, tt.ok)
		}
	}
}

func TestCopyBuffer(t *testing.T) {
	b := NewCopyBuffer()
	b.Set([]string{"/y", "/x"}, true)
	assert.True(t, b.Contains("/x"))
	assert.True(t, b.Cut())
	assert.Equal(t, []string{"/x", "/y"}, b.Paths())

	b.Clear()
	assert.Equal(t, 0, b.Len())
	assert.False(t, b.Cut())
}

func TestMetadataReadsDirectoryFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, MetadataFileName),
		`{"book.pdf": {"title": "Go", "year": 2015, "authors": "Donovan, Kernighan", "skip": null}}`)

	md := NewMetadata()
	got := md.Metadata(filepath.Join(dir, "book.pdf"))
	assert.Equal(t, view.Metadata{"title": "Go", "year": "2015", "authors": "Donovan, Kernighan"}, got)
	assert.Nil(t, md.Metadata(filepath.Join(dir, "other")))
	assert.Nil(t, md.Metadata(filepath.Join(t.TempDir(), "x")))
}

func TestMetadataBadJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, MetadataFileName), "{not json")
	assert.Nil(t, NewMetadata().Metadata(filepath.Join(dir, "a")))
}

func TestTagsReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagged")
	tags, err := LoadTags(path)
	require.NoError(t, err)
	assert.Equal(t, 0, tags.Len())

	writeFile(t, path, "q:/x\n")
	require.NoError(t, tags.Reload())
	m, ok := tags.Marker("/x")
	assert.True(t, ok)
	assert.Equal(t, "q", m)
}
