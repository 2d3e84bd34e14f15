// Package catalog holds the ordered sequence of test patterns shown during a
// calibration session. A Catalog is pure data: it knows nothing about how a
// pattern is drawn, only what each pattern is and in which order patterns
// are visited.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Kind classifies how a pattern's payload is interpreted.
type Kind int

const (
	Solid Kind = iota
	Gradient
	Composite
)

var kindNames = [...]string{
	Solid:     "solid",
	Gradient:  "gradient",
	Composite: "composite",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps a catalog file kind name to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Direction is the axis a gradient runs along.
type Direction int

const (
	Horizontal Direction = iota // left to right
	Vertical                    // top to bottom
)

func (d Direction) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// GradientSpec describes a two-stop linear gradient.
type GradientSpec struct {
	From      colorful.Color
	To        colorful.Color
	Direction Direction
}

// At returns the gradient color at position t in [0, 1].
func (g GradientSpec) At(t float64) colorful.Color {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return g.From.BlendRgb(g.To, t).Clamped()
}

// Renderer draws a composite pattern into a w×h cell area and returns the
// rendered string. The navigator treats it as opaque.
type Renderer func(w, h int) string

// Descriptor is one entry of the catalog.
type Descriptor struct {
	ID          string
	Name        string
	Description string
	Kind        Kind

	// Color is the payload of a Solid pattern.
	Color colorful.Color
	// Gradient is the payload of a Gradient pattern.
	Gradient GradientSpec
	// RendererName and Render are the payload of a Composite pattern.
	RendererName string
	Render       Renderer
}

// Solid patterns

// NewSolid returns a Solid descriptor for a hex color such as "#FF0000".
func NewSolid(id, name, hex, description string) (Descriptor, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Descriptor{}, fmt.Errorf("pattern %q: %w: %q", id, ErrBadColor, hex)
	}
	return Descriptor{ID: id, Name: name, Description: description, Kind: Solid, Color: c}, nil
}

// NewGradient returns a Gradient descriptor between two hex colors.
func NewGradient(id, name, from, to string, dir Direction, description string) (Descriptor, error) {
	f, err := colorful.Hex(from)
	if err != nil {
		return Descriptor{}, fmt.Errorf("pattern %q: %w: %q", id, ErrBadColor, from)
	}
	t, err := colorful.Hex(to)
	if err != nil {
		return Descriptor{}, fmt.Errorf("pattern %q: %w: %q", id, ErrBadColor, to)
	}
	return Descriptor{
		ID:          id,
		Name:        name,
		Description: description,
		Kind:        Gradient,
		Gradient:    GradientSpec{From: f, To: t, Direction: dir},
	}, nil
}

// NewComposite returns a Composite descriptor backed by a named renderer.
func NewComposite(id, name, renderer string, render Renderer, description string) Descriptor {
	return Descriptor{
		ID:           id,
		Name:         name,
		Description:  description,
		Kind:         Composite,
		RendererName: renderer,
		Render:       render,
	}
}

var (
	ErrEmpty           = errors.New("catalog is empty")
	ErrDuplicateID     = errors.New("duplicate pattern id")
	ErrMissingID       = errors.New("pattern id is empty")
	ErrUnknownKind     = errors.New("unknown pattern kind")
	ErrBadColor        = errors.New("invalid color")
	ErrUnknownRenderer = errors.New("unknown renderer")
	ErrUnknownPattern  = errors.New("unknown pattern")
)

// Catalog is a validated, immutable, ordered list of patterns.
type Catalog struct {
	patterns []Descriptor
	byID     map[string]int
}

// New validates patterns and returns a Catalog. The slice is copied.
func New(patterns []Descriptor) (*Catalog, error) {
	if len(patterns) == 0 {
		return nil, ErrEmpty
	}
	c := &Catalog{
		patterns: make([]Descriptor, len(patterns)),
		byID:     make(map[string]int, len(patterns)),
	}
	copy(c.patterns, patterns)
	for i, p := range c.patterns {
		if p.ID == "" {
			return nil, fmt.Errorf("pattern %d: %w", i, ErrMissingID)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, p.ID)
		}
		if p.Kind == Composite && p.Render == nil {
			return nil, fmt.Errorf("pattern %q: %w: %q", p.ID, ErrUnknownRenderer, p.RendererName)
		}
		c.byID[p.ID] = i
	}
	return c, nil
}

// Len returns the number of patterns. Always at least 1.
func (c *Catalog) Len() int { return len(c.patterns) }

// At returns the pattern at index i. i must be in [0, Len()).
func (c *Catalog) At(i int) Descriptor { return c.patterns[i] }

// All returns a copy of the patterns in navigation order.
func (c *Catalog) All() []Descriptor {
	out := make([]Descriptor, len(c.patterns))
	copy(out, c.patterns)
	return out
}

// IndexOf returns the index of the pattern with the given ID.
func (c *Catalog) IndexOf(id string) (int, bool) {
	i, ok := c.byID[id]
	return i, ok
}

// Select returns a new catalog holding only the given IDs, in the given
// order. An empty ids slice returns c itself.
func (c *Catalog) Select(ids []string) (*Catalog, error) {
	if len(ids) == 0 {
		return c, nil
	}
	picked := make([]Descriptor, 0, len(ids))
	for _, id := range ids {
		i, ok := c.byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, id)
		}
		picked = append(picked, c.patterns[i])
	}
	return New(picked)
}

// Append returns a new catalog with extra patterns after the existing ones.
func (c *Catalog) Append(extra ...Descriptor) (*Catalog, error) {
	all := make([]Descriptor, 0, len(c.patterns)+len(extra))
	all = append(all, c.patterns...)
	all = append(all, extra...)
	return New(all)
}
