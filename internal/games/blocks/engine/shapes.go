package engine

import (
	"fmt"
	"math/rand"
	"strings"
)

// ShapeType identifies one of the fixed polyomino templates.
type ShapeType int

const (
	ShapeSingle ShapeType = iota
	ShapeLine2
	ShapeLine3
	ShapeL
	ShapeSquare
	ShapeT
	ShapeCross
	ShapeZ
	shapeTypeCount // Sentinel value for iteration
)

// String returns the catalog name of the shape type.
func (t ShapeType) String() string {
	switch t {
	case ShapeSingle:
		return "SINGLE"
	case ShapeLine2:
		return "LINE_2"
	case ShapeLine3:
		return "LINE_3"
	case ShapeL:
		return "L_SHAPE"
	case ShapeSquare:
		return "SQUARE"
	case ShapeT:
		return "T_SHAPE"
	case ShapeCross:
		return "CROSS"
	case ShapeZ:
		return "Z_SHAPE"
	default:
		return "UNKNOWN"
	}
}

// ParseShapeType converts a catalog name (case-insensitive) to a ShapeType.
func ParseShapeType(s string) (ShapeType, bool) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for t := ShapeType(0); t < shapeTypeCount; t++ {
		if t.String() == name {
			return t, true
		}
	}
	return ShapeSingle, false
}

// AllShapeTypes returns every template in catalog order.
func AllShapeTypes() []ShapeType {
	types := make([]ShapeType, 0, shapeTypeCount)
	for t := ShapeType(0); t < shapeTypeCount; t++ {
		types = append(types, t)
	}
	return types
}

// Rotatable reports whether rotating the template can change its block set.
// SINGLE and SQUARE are rotation-invariant.
func (t ShapeType) Rotatable() bool {
	return t != ShapeSingle && t != ShapeSquare
}

// templates holds the hand-authored offsets for each shape type.
var templates = map[ShapeType][]Position{
	ShapeSingle: {{0, 0}},
	ShapeLine2:  {{0, 0}, {1, 0}},
	ShapeLine3:  {{0, 0}, {1, 0}, {2, 0}},
	ShapeL:      {{0, 0}, {0, 1}, {1, 1}},
	ShapeSquare: {{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	ShapeT:      {{0, 0}, {1, 0}, {2, 0}, {1, 1}},
	ShapeCross:  {{1, 0}, {0, 1}, {1, 1}, {2, 1}, {1, 2}},
	ShapeZ:      {{0, 0}, {1, 0}, {1, 1}, {2, 1}},
}

// Template returns a copy of the unrotated offsets for a shape type.
func Template(t ShapeType) []Position {
	blocks, ok := templates[t]
	if !ok {
		blocks = templates[ShapeSingle]
	}
	out := make([]Position, len(blocks))
	copy(out, blocks)
	return out
}

// Rotation is a clockwise rotation in degrees.
type Rotation int

const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

var rotations = []Rotation{Rotate0, Rotate90, Rotate180, Rotate270}

// Shape is a placeable piece: a block set with a color.
// Shapes are immutable once created; Blocks returns a copy.
type Shape struct {
	typ      ShapeType
	rotation Rotation
	blocks   []Position
	color    Color
}

// NewShape builds a shape from a template, rotation and color.
// Rotation is ignored for rotation-invariant templates.
func NewShape(t ShapeType, r Rotation, c Color) Shape {
	if !t.Rotatable() {
		r = Rotate0
	}
	return Shape{
		typ:      t,
		rotation: r,
		blocks:   RotateBlocks(Template(t), r),
		color:    c,
	}
}

// NewCustomShape builds a shape from an arbitrary block set.
// Used for fixed layouts and tests; Type reports SINGLE.
func NewCustomShape(blocks []Position, c Color) Shape {
	out := make([]Position, len(blocks))
	copy(out, blocks)
	return Shape{typ: ShapeSingle, blocks: out, color: c}
}

// Type returns the template the shape was built from.
func (s Shape) Type() ShapeType { return s.typ }

// Rotation returns the applied clockwise rotation.
func (s Shape) Rotation() Rotation { return s.rotation }

// Color returns the shape's color.
func (s Shape) Color() Color { return s.color }

// Blocks returns a copy of the shape's offsets.
func (s Shape) Blocks() []Position {
	out := make([]Position, len(s.blocks))
	copy(out, s.blocks)
	return out
}

// Len returns the number of blocks.
func (s Shape) Len() int { return len(s.blocks) }

// Size returns the bounding box of the shape.
func (s Shape) Size() (width, height int) {
	return ShapeSize(s)
}

// String returns a short description like "T_SHAPE@90".
func (s Shape) String() string {
	return fmt.Sprintf("%s@%d", s.typ, s.rotation)
}

// ShapeSize returns (max x + 1, max y + 1) over the shape's blocks.
func ShapeSize(s Shape) (width, height int) {
	return blocksSize(s.blocks)
}

func blocksSize(blocks []Position) (width, height int) {
	maxX, maxY := 0, 0
	for _, b := range blocks {
		if b.X > maxX {
			maxX = b.X
		}
		if b.Y > maxY {
			maxY = b.Y
		}
	}
	return maxX + 1, maxY + 1
}

// RotateBlocks rotates offsets clockwise within their bounding box.
// The result always has a tight bounding box anchored at (0,0).
func RotateBlocks(blocks []Position, r Rotation) []Position {
	out := make([]Position, len(blocks))
	if r == Rotate0 || len(blocks) == 0 {
		copy(out, blocks)
		return out
	}

	w, h := blocksSize(blocks)
	for i, b := range blocks {
		switch r {
		case Rotate90:
			out[i] = Position{X: b.Y, Y: w - 1 - b.X}
		case Rotate180:
			out[i] = Position{X: w - 1 - b.X, Y: h - 1 - b.Y}
		case Rotate270:
			out[i] = Position{X: h - 1 - b.Y, Y: b.X}
		default:
			out[i] = b
		}
	}
	return normalize(out)
}

// normalize shifts offsets so the minimum x and y are zero.
func normalize(blocks []Position) []Position {
	if len(blocks) == 0 {
		return blocks
	}
	minX, minY := blocks[0].X, blocks[0].Y
	for _, b := range blocks[1:] {
		if b.X < minX {
			minX = b.X
		}
		if b.Y < minY {
			minY = b.Y
		}
	}
	if minX == 0 && minY == 0 {
		return blocks
	}
	for i := range blocks {
		blocks[i].X -= minX
		blocks[i].Y -= minY
	}
	return blocks
}

// DefaultPalette is the set of colors assigned to generated shapes.
var DefaultPalette = []Color{
	"#ff3b30",
	"#007aff",
	"#4cd964",
	"#ffcc00",
	"#af52de",
	"#ff9500",
	"#00d7be",
	"#ff375f",
	"#5856d6",
}

// Generator produces random shapes from an injectable random source.
type Generator struct {
	rng     *rand.Rand
	palette []Color
	types   []ShapeType
}

// NewGenerator creates a generator. A nil rng is seeded with 1 so that
// callers always get deterministic output unless they pass their own source.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Generator{
		rng:     rng,
		palette: append([]Color(nil), DefaultPalette...),
		types:   AllShapeTypes(),
	}
}

// WithPalette replaces the color palette. Empty palettes are ignored.
func (g *Generator) WithPalette(palette []Color) *Generator {
	if len(palette) > 0 {
		g.palette = append([]Color(nil), palette...)
	}
	return g
}

// WithTypes restricts generation to the given templates. Empty lists are ignored.
func (g *Generator) WithTypes(types []ShapeType) *Generator {
	if len(types) > 0 {
		g.types = append([]ShapeType(nil), types...)
	}
	return g
}

// Palette returns a copy of the active palette.
func (g *Generator) Palette() []Color {
	return append([]Color(nil), g.palette...)
}

func (g *Generator) randomColor() Color {
	return g.palette[g.rng.Intn(len(g.palette))]
}

func (g *Generator) randomType() ShapeType {
	return g.types[g.rng.Intn(len(g.types))]
}

func (g *Generator) randomRotation() Rotation {
	return rotations[g.rng.Intn(len(rotations))]
}

// GenerateRandomShapes returns count shapes with uniformly random type,
// rotation and color.
func (g *Generator) GenerateRandomShapes(count int) []Shape {
	shapes := make([]Shape, 0, max(count, 0))
	for range count {
		t := g.randomType()
		r := g.randomRotation()
		shapes = append(shapes, NewShape(t, r, g.randomColor()))
	}
	return shapes
}

// CreateBonusShape returns a single-cell shape with a random color.
func (g *Generator) CreateBonusShape() Shape {
	return NewShape(ShapeSingle, Rotate0, g.randomColor())
}
