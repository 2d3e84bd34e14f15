package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testRegistry() Registry {
	stub := func(w, h int) string { return strings.Repeat(".", w) }
	return Registry{"contrast": stub, "grid": stub, "text": stub}
}

func TestBuiltinOrder(t *testing.T) {
	c, err := Builtin(testRegistry())
	require.NoError(t, err)
	require.Equal(t, 13, c.Len())

	want := []string{"red", "green", "blue", "yellow", "cyan", "magenta", "white", "black",
		"grad-h", "grad-v", "contrast", "grid", "text"}
	require.Equal(t, want, BuiltinIDs())
	for i, id := range want {
		require.Equal(t, id, c.At(i).ID)
	}

	require.Equal(t, Solid, c.At(0).Kind)
	require.Equal(t, "#ff0000", c.At(0).Color.Hex())
	require.Equal(t, Gradient, c.At(9).Kind)
	require.Equal(t, Vertical, c.At(9).Gradient.Direction)
	require.Equal(t, Composite, c.At(12).Kind)
	require.NotNil(t, c.At(12).Render)
}

func TestBuiltinMissingRenderer(t *testing.T) {
	reg := testRegistry()
	delete(reg, "grid")
	_, err := Builtin(reg)
	require.ErrorIs(t, err, ErrUnknownRenderer)
}

func TestNewValidation(t *testing.T) {
	red, err := NewSolid("red", "Red", "#FF0000", "")
	require.NoError(t, err)

	tests := []struct {
		name     string
		patterns []Descriptor
		want     error
	}{
		{"empty", nil, ErrEmpty},
		{"duplicate", []Descriptor{red, red}, ErrDuplicateID},
		{"missing id", []Descriptor{{Name: "x"}}, ErrMissingID},
		{"composite without hook", []Descriptor{{ID: "c", Kind: Composite, RendererName: "nope"}}, ErrUnknownRenderer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.patterns)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewCopiesInput(t *testing.T) {
	red, _ := NewSolid("red", "Red", "#FF0000", "")
	in := []Descriptor{red}
	c, err := New(in)
	require.NoError(t, err)

	in[0].Name = "changed"
	require.Equal(t, "Red", c.At(0).Name)
}

func TestSelectAndAppend(t *testing.T) {
	c, err := Builtin(testRegistry())
	require.NoError(t, err)

	sub, err := c.Select([]string{"blue", "red"})
	require.NoError(t, err)
	require.Equal(t, 2, sub.Len())
	require.Equal(t, "blue", sub.At(0).ID)

	same, err := c.Select(nil)
	require.NoError(t, err)
	require.Same(t, c, same)

	_, err = c.Select([]string{"nope"})
	require.ErrorIs(t, err, ErrUnknownPattern)

	orange, _ := NewSolid("orange", "Orange", "#FF8800", "")
	more, err := sub.Append(orange)
	require.NoError(t, err)
	require.Equal(t, 3, more.Len())
	i, ok := more.IndexOf("orange")
	require.True(t, ok)
	require.Equal(t, 2, i)

	_, err = more.Append(orange)
	require.ErrorIs(t, err, ErrDuplicateID)
}

func TestGradientAt(t *testing.T) {
	g, err := NewGradient("g", "G", "#000000", "#FFFFFF", Horizontal, "")
	require.NoError(t, err)

	require.Equal(t, "#000000", g.Gradient.At(0).Hex())
	require.Equal(t, "#ffffff", g.Gradient.At(1).Hex())
	require.Equal(t, "#ffffff", g.Gradient.At(7).Hex(), "t is clamped")
	r, _, _ := g.Gradient.At(0.5).RGB255()
	require.InDelta(t, 128, int(r), 1)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Gradient")
	require.NoError(t, err)
	require.Equal(t, Gradient, k)

	_, err = ParseKind("hologram")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestLoad(t *testing.T) {
	const src = `
[[pattern]]
id = "orange"
name = "Orange"
kind = "solid"
color = "#FF8800"
description = "Red and green subpixels at different levels."

[[pattern]]
id = "grad-red"
kind = "gradient"
from = "#000000"
to = "#FF0000"
direction = "vertical"

[[pattern]]
id = "grid-2"
name = "Second Grid"
kind = "composite"
renderer = "grid"
`
	ds, err := Load(strings.NewReader(src), testRegistry())
	require.NoError(t, err)
	require.Len(t, ds, 3)

	require.Equal(t, Solid, ds[0].Kind)
	require.Equal(t, "#ff8800", ds[0].Color.Hex())
	require.Equal(t, "grad-red", ds[1].Name, "name defaults to id")
	require.Equal(t, Vertical, ds[1].Gradient.Direction)
	require.Equal(t, "grid", ds[2].RendererName)
	require.NotNil(t, ds[2].Render)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown field", "[[pattern]]\nid = \"a\"\nkind = \"solid\"\ncolor = \"#000000\"\nshade = 3\n", ErrUnknownField},
		{"bad color", "[[pattern]]\nid = \"a\"\nkind = \"solid\"\ncolor = \"red\"\n", ErrBadColor},
		{"bad kind", "[[pattern]]\nid = \"a\"\nkind = \"plaid\"\n", ErrUnknownKind},
		{"missing id", "[[pattern]]\nkind = \"solid\"\ncolor = \"#000000\"\n", ErrMissingID},
		{"unknown renderer", "[[pattern]]\nid = \"a\"\nkind = \"composite\"\nrenderer = \"moire\"\n", ErrUnknownRenderer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.src), testRegistry())
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadYAML(t *testing.T) {
	const src = `
pattern:
  - id: orange
    name: Orange
    kind: solid
    color: "#FF8800"
  - id: grad-blue
    kind: gradient
    from: "#000000"
    to: "#0000FF"
    direction: vertical
`
	ds, err := LoadYAML(strings.NewReader(src), testRegistry())
	require.NoError(t, err)
	require.Len(t, ds, 2)
	require.Equal(t, "Orange", ds[0].Name)
	require.Equal(t, Vertical, ds[1].Gradient.Direction)

	_, err = LoadYAML(strings.NewReader("pattern:\n  - id: a\n    shade: 3\n"), testRegistry())
	require.ErrorIs(t, err, ErrUnknownField)

	ds, err = LoadYAML(strings.NewReader(""), testRegistry())
	require.NoError(t, err)
	require.Empty(t, ds)
}

func TestLoadFileByExtension(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "extra.yml")
	require.NoError(t, os.WriteFile(yml, []byte("pattern:\n  - id: teal\n    kind: solid\n    color: \"#14B8A6\"\n"), 0o644))
	ds, err := LoadFile(yml, testRegistry())
	require.NoError(t, err)
	require.Equal(t, "teal", ds[0].ID)

	toml := filepath.Join(dir, "extra.toml")
	require.NoError(t, os.WriteFile(toml, []byte("[[pattern]]\nid = \"teal\"\nkind = \"solid\"\ncolor = \"#14B8A6\"\n"), 0o644))
	ds, err = LoadFile(toml, testRegistry())
	require.NoError(t, err)
	require.Equal(t, "teal", ds[0].ID)

	_, err = LoadFile(filepath.Join(dir, "missing.toml"), testRegistry())
	require.ErrorIs(t, err, os.ErrNotExist)
}
