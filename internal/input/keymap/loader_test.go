package keymap

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeymapJSON = `{
  "name": "reader",
  "bindings": [
    {"keys": "j", "command": "entry.next", "category": "Entries"},
    {"keys": "g g", "command": "scroll.top"}
  ]
}`

const testKeymapYAML = `name: reader
bindings:
  - keys: j
    command: entry.next
    category: Entries
  - keys: g g
    command: scroll.top
`

const testKeymapTOML = `name = "reader"

[[bindings]]
keys = "j"
command = "entry.next"
category = "Entries"

[[bindings]]
keys = "g g"
command = "scroll.top"
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"keys.json", FormatJSON},
		{"keys.yaml", FormatYAML},
		{"keys.YML", FormatYAML},
		{"/etc/keychord/keys.toml", FormatTOML},
	}

	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, err := FormatFromPath("keys.ini")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestLoaderLoadFile(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"reader.json": testKeymapJSON,
		"reader.yaml": testKeymapYAML,
		"reader.toml": testKeymapTOML,
	}

	l := NewLoader(quietLogger())
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, dir, name, content)

			km, err := l.LoadFile(path)
			require.NoError(t, err)

			assert.Equal(t, "reader", km.Name)
			assert.Equal(t, path, km.Source)
			require.Len(t, km.Bindings, 2)
			assert.Equal(t, Entry{Keys: "j", Command: "entry.next", Category: "Entries"}, km.Bindings[0])
			assert.Equal(t, "g g", km.Bindings[1].Keys)
			assert.Equal(t, "scroll.top", km.Bindings[1].Command)
		})
	}
}

func TestLoaderLoadFileDefaultsName(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mine.toml", "[[bindings]]\nkeys = \"q\"\ncommand = \"app.quit\"\n")

	km, err := NewLoader(quietLogger()).LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mine", km.Name)
}

func TestLoaderLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(quietLogger())

	_, err := l.LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = l.LoadFile(writeFile(t, dir, "keys.txt", "j = next"))
	assert.True(t, errors.Is(err, ErrUnknownFormat))

	_, err = l.LoadFile(writeFile(t, dir, "broken.json", "{not json"))
	assert.Error(t, err)

	_, err = l.LoadFile(writeFile(t, dir, "bad.yaml", "bindings:\n  - keys: j\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty command")
}

func TestLoaderLoadReaderEmptyYAML(t *testing.T) {
	km, err := NewLoader(quietLogger()).LoadReader(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, km.Bindings)
}

func TestLoaderLoadAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", testKeymapJSON)
	writeFile(t, dir, "b.toml", testKeymapTOML)
	writeFile(t, dir, "broken.yaml", "bindings: [")
	writeFile(t, dir, "README.md", "# keymaps")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	var logs bytes.Buffer
	l := NewLoader(slog.New(slog.NewTextHandler(&logs, nil)))
	l.AddSearchPath(dir)
	l.AddSearchPath(filepath.Join(dir, "does-not-exist"))

	keymaps, err := l.LoadAll()
	require.NoError(t, err)
	require.Len(t, keymaps, 2)
	assert.Equal(t, filepath.Join(dir, "a.json"), keymaps[0].Source)
	assert.Equal(t, filepath.Join(dir, "b.toml"), keymaps[1].Source)
	assert.Contains(t, logs.String(), "broken.yaml")
}

func TestKeymapSaveFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "default.toml")

	original := Default()
	require.NoError(t, original.SaveFile(path))

	loaded, err := NewLoader(quietLogger()).LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original.Name, loaded.Name)
	assert.Equal(t, original.Bindings, loaded.Bindings)

	assert.True(t, errors.Is(original.SaveFile(filepath.Join(dir, "out.ini")), ErrUnknownFormat))
}
