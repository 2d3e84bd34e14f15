package catalog

import "fmt"

// Registry maps renderer names to composite rendering hooks. The paint
// package supplies the builtin set; tests may supply their own.
type Registry map[string]Renderer

// Lookup returns the renderer registered under name.
func (r Registry) Lookup(name string) (Renderer, error) {
	fn, ok := r[name]
	if !ok || fn == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRenderer, name)
	}
	return fn, nil
}

type builtinEntry struct {
	id, name, description string
	kind                  Kind
	color                 string
	from, to              string
	dir                   Direction
	renderer              string
}

// builtins is the default test sequence: primaries, secondaries, luminance,
// gradients, then synthetic patterns.
var builtins = []builtinEntry{
	{id: "red", name: "Red", kind: Solid, color: "#FF0000",
		description: "Check for stuck pixels (appear as cyan, green, or blue dots)."},
	{id: "green", name: "Green", kind: Solid, color: "#00FF00",
		description: "Check for stuck pixels (appear as magenta, red, or blue dots)."},
	{id: "blue", name: "Blue", kind: Solid, color: "#0000FF",
		description: "Check for stuck pixels (appear as yellow, red, or green dots)."},
	{id: "yellow", name: "Yellow", kind: Solid, color: "#FFFF00",
		description: "Combination of Red and Green subpixels."},
	{id: "cyan", name: "Cyan", kind: Solid, color: "#00FFFF",
		description: "Combination of Green and Blue subpixels."},
	{id: "magenta", name: "Magenta", kind: Solid, color: "#FF00FF",
		description: "Combination of Red and Blue subpixels."},
	{id: "white", name: "White", kind: Solid, color: "#FFFFFF",
		description: "Check for dead pixels (black dots) and color uniformity."},
	{id: "black", name: "Black", kind: Solid, color: "#000000",
		description: "Check for stuck pixels (bright dots) and backlight bleeding."},
	{id: "grad-h", name: "Gradient Horizontal", kind: Gradient, from: "#000000", to: "#FFFFFF", dir: Horizontal,
		description: "Smoothness test (Horizontal). Check for banding."},
	{id: "grad-v", name: "Gradient Vertical", kind: Gradient, from: "#000000", to: "#FFFFFF", dir: Vertical,
		description: "Smoothness test (Vertical). Check for banding."},
	{id: "contrast", name: "Contrast Steps", kind: Composite, renderer: "contrast",
		description: "Check ability to distinguish dark and light shades."},
	{id: "grid", name: "Alignment Grid", kind: Composite, renderer: "grid",
		description: "Check for screen geometry and distortion."},
	{id: "text", name: "Text Readability", kind: Composite, renderer: "text",
		description: "Check text sharpness and clarity."},
}

// BuiltinIDs returns the IDs of the default sequence in order.
func BuiltinIDs() []string {
	ids := make([]string, len(builtins))
	for i, b := range builtins {
		ids[i] = b.id
	}
	return ids
}

// Builtin returns the default catalog, resolving composite patterns against
// reg.
func Builtin(reg Registry) (*Catalog, error) {
	patterns := make([]Descriptor, 0, len(builtins))
	for _, b := range builtins {
		d, err := b.descriptor(reg)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, d)
	}
	return New(patterns)
}

func (b builtinEntry) descriptor(reg Registry) (Descriptor, error) {
	switch b.kind {
	case Solid:
		return NewSolid(b.id, b.name, b.color, b.description)
	case Gradient:
		return NewGradient(b.id, b.name, b.from, b.to, b.dir, b.description)
	default:
		fn, err := reg.Lookup(b.renderer)
		if err != nil {
			return Descriptor{}, fmt.Errorf("pattern %q: %w", b.id, err)
		}
		return NewComposite(b.id, b.name, b.renderer, fn, b.description), nil
	}
}
