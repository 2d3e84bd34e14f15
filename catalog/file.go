package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrUnknownField is returned when a catalog file contains keys that do not
// map to any pattern field.
var ErrUnknownField = errors.New("unknown field in catalog file")

// fileSpec is the on-disk format of a catalog file:
//
//	[[pattern]]
//	id = "orange"
//	name = "Orange"
//	kind = "solid"
//	color = "#FF8800"
//	description = "Mixed red and green subpixels."
//
//	[[pattern]]
//	id = "grad-red"
//	kind = "gradient"
//	from = "#000000"
//	to = "#FF0000"
//	direction = "vertical"
//
//	[[pattern]]
//	id = "grid-2"
//	kind = "composite"
//	renderer = "grid"
//
// Files ending in .yaml or .yml hold the same fields as a list under
// "pattern".
type fileSpec struct {
	Patterns []filePattern `toml:"pattern" yaml:"pattern"`
}

type filePattern struct {
	ID          string `toml:"id" yaml:"id"`
	Name        string `toml:"name" yaml:"name"`
	Description string `toml:"description" yaml:"description"`
	Kind        string `toml:"kind" yaml:"kind"`
	Color       string `toml:"color" yaml:"color"`
	From        string `toml:"from" yaml:"from"`
	To          string `toml:"to" yaml:"to"`
	Direction   string `toml:"direction" yaml:"direction"`
	Renderer    string `toml:"renderer" yaml:"renderer"`
}

// LoadFile reads pattern descriptors from a catalog file. The format
// follows the extension: YAML for .yaml and .yml, TOML otherwise.
func LoadFile(path string, reg Registry) ([]Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	load := Load
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		load = LoadYAML
	}
	ds, err := load(f, reg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Load decodes pattern descriptors from TOML. It does not check ID
// uniqueness against any other catalog; New does that once patterns are
// combined.
func Load(r io.Reader, reg Registry) ([]Descriptor, error) {
	var spec fileSpec
	md, err := toml.NewDecoder(r).Decode(&spec)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, strings.Join(keys, ", "))
	}
	return spec.descriptors(reg)
}

// LoadYAML decodes pattern descriptors from YAML.
func LoadYAML(r io.Reader, reg Registry) ([]Descriptor, error) {
	var spec fileSpec
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil && !errors.Is(err, io.EOF) {
		var te *yaml.TypeError
		if errors.As(err, &te) && strings.Contains(err.Error(), "not found in type") {
			return nil, fmt.Errorf("%w: %v", ErrUnknownField, err)
		}
		return nil, err
	}
	return spec.descriptors(reg)
}

func (spec fileSpec) descriptors(reg Registry) ([]Descriptor, error) {
	out := make([]Descriptor, 0, len(spec.Patterns))
	for i, p := range spec.Patterns {
		d, err := p.descriptor(reg)
		if err != nil {
			return nil, fmt.Errorf("pattern %d: %w", i+1, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func (p filePattern) descriptor(reg Registry) (Descriptor, error) {
	if p.ID == "" {
		return Descriptor{}, ErrMissingID
	}
	name := p.Name
	if name == "" {
		name = p.ID
	}

	kind, err := ParseKind(p.Kind)
	if err != nil {
		return Descriptor{}, fmt.Errorf("pattern %q: %w", p.ID, err)
	}

	switch kind {
	case Solid:
		return NewSolid(p.ID, name, p.Color, p.Description)
	case Gradient:
		dir := Horizontal
		switch strings.ToLower(p.Direction) {
		case "", "horizontal":
		case "vertical":
			dir = Vertical
		default:
			return Descriptor{}, fmt.Errorf("pattern %q: unknown direction %q", p.ID, p.Direction)
		}
		return NewGradient(p.ID, name, p.From, p.To, dir, p.Description)
	default:
		fn, err := reg.Lookup(p.Renderer)
		if err != nil {
			return Descriptor{}, fmt.Errorf("pattern %q: %w", p.ID, err)
		}
		return NewComposite(p.ID, name, p.Renderer, fn, p.Description), nil
	}
}
