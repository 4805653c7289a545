package engine

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"
)

func sortedBlocks(blocks []Position) []Position {
	out := append([]Position(nil), blocks...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

func TestRotateBlocks(t *testing.T) {
	tests := []struct {
		name     string
		typ      ShapeType
		rotation Rotation
		expected []Position
	}{
		{
			name:     "line2 unrotated",
			typ:      ShapeLine2,
			rotation: Rotate0,
			expected: []Position{{0, 0}, {1, 0}},
		},
		{
			name:     "line2 90 becomes vertical",
			typ:      ShapeLine2,
			rotation: Rotate90,
			expected: []Position{{0, 0}, {0, 1}},
		},
		{
			name:     "line3 270 becomes vertical",
			typ:      ShapeLine3,
			rotation: Rotate270,
			expected: []Position{{0, 0}, {0, 1}, {0, 2}},
		},
		{
			name:     "L 90",
			typ:      ShapeL,
			rotation: Rotate90,
			// (0,0)->(0,1) (0,1)->(1,1) (1,1)->(1,0)
			expected: []Position{{1, 0}, {0, 1}, {1, 1}},
		},
		{
			name:     "L 180",
			typ:      ShapeL,
			rotation: Rotate180,
			expected: []Position{{0, 0}, {1, 0}, {1, 1}},
		},
		{
			name:     "T 180 points up",
			typ:      ShapeT,
			rotation: Rotate180,
			expected: []Position{{1, 0}, {0, 1}, {1, 1}, {2, 1}},
		},
		{
			name:     "Z 90",
			typ:      ShapeZ,
			rotation: Rotate90,
			expected: []Position{{1, 0}, {0, 1}, {1, 1}, {0, 2}},
		},
		{
			name:     "cross is symmetric",
			typ:      ShapeCross,
			rotation: Rotate270,
			expected: []Position{{1, 0}, {0, 1}, {1, 1}, {2, 1}, {1, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sortedBlocks(RotateBlocks(Template(tt.typ), tt.rotation))
			want := sortedBlocks(tt.expected)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("RotateBlocks(%s, %d) = %v, want %v", tt.typ, tt.rotation, got, want)
			}
		})
	}
}

func TestRotationKeepsTightBox(t *testing.T) {
	for _, typ := range AllShapeTypes() {
		for _, r := range rotations {
			blocks := RotateBlocks(Template(typ), r)
			minX, minY := GridSize, GridSize
			for _, b := range blocks {
				minX = min(minX, b.X)
				minY = min(minY, b.Y)
			}
			if minX != 0 || minY != 0 {
				t.Errorf("%s@%d: min offset = (%d,%d), want (0,0)", typ, r, minX, minY)
			}

			w0, h0 := blocksSize(Template(typ))
			w, h := blocksSize(blocks)
			if r == Rotate90 || r == Rotate270 {
				w0, h0 = h0, w0
			}
			if w != w0 || h != h0 {
				t.Errorf("%s@%d: size = %dx%d, want %dx%d", typ, r, w, h, w0, h0)
			}
		}
	}
}

func TestRotationInvariantShapesIgnoreRotation(t *testing.T) {
	for _, typ := range []ShapeType{ShapeSingle, ShapeSquare} {
		base := NewShape(typ, Rotate0, "#fff")
		for _, r := range rotations {
			s := NewShape(typ, r, "#fff")
			if s.Rotation() != Rotate0 {
				t.Errorf("%s rotation = %d, want 0", typ, s.Rotation())
			}
			if !reflect.DeepEqual(s.Blocks(), base.Blocks()) {
				t.Errorf("%s@%d blocks = %v, want %v", typ, r, s.Blocks(), base.Blocks())
			}
		}
	}
}

func TestShapeSize(t *testing.T) {
	tests := []struct {
		typ  ShapeType
		r    Rotation
		w, h int
	}{
		{ShapeSingle, Rotate0, 1, 1},
		{ShapeLine3, Rotate0, 3, 1},
		{ShapeLine3, Rotate90, 1, 3},
		{ShapeSquare, Rotate0, 2, 2},
		{ShapeT, Rotate0, 3, 2},
		{ShapeT, Rotate90, 2, 3},
		{ShapeCross, Rotate0, 3, 3},
	}

	for _, tt := range tests {
		w, h := ShapeSize(NewShape(tt.typ, tt.r, "#000"))
		if w != tt.w || h != tt.h {
			t.Errorf("ShapeSize(%s@%d) = %dx%d, want %dx%d", tt.typ, tt.r, w, h, tt.w, tt.h)
		}
	}
}

func TestShapeBlocksIsCopy(t *testing.T) {
	s := NewShape(ShapeLine2, Rotate0, "#000")
	blocks := s.Blocks()
	blocks[0] = P(5, 5)

	if s.Blocks()[0] != P(0, 0) {
		t.Error("mutating Blocks() result should not change the shape")
	}
}

func TestGenerateRandomShapes(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(42)))

	for range 100 {
		shapes := gen.GenerateRandomShapes(3)
		if len(shapes) != 3 {
			t.Fatalf("GenerateRandomShapes(3) returned %d shapes", len(shapes))
		}
		for _, s := range shapes {
			if s.Len() == 0 {
				t.Errorf("shape %s has no blocks", s)
			}
			if !s.Type().Rotatable() && s.Rotation() != Rotate0 {
				t.Errorf("shape %s should not be rotated", s)
			}
			found := false
			for _, c := range DefaultPalette {
				if c == s.Color() {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("shape color %q not in palette", s.Color())
			}
		}
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	a := NewGenerator(rand.New(rand.NewSource(7))).GenerateRandomShapes(12)
	b := NewGenerator(rand.New(rand.NewSource(7))).GenerateRandomShapes(12)

	if !reflect.DeepEqual(a, b) {
		t.Error("generators with the same seed should produce the same shapes")
	}
}

func TestGeneratorCoversCatalog(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(1)))
	seen := make(map[ShapeType]bool)
	for _, s := range gen.GenerateRandomShapes(500) {
		seen[s.Type()] = true
	}
	for _, typ := range AllShapeTypes() {
		if !seen[typ] {
			t.Errorf("shape type %s never generated in 500 draws", typ)
		}
	}
}

func TestGeneratorRestrictions(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(3))).
		WithTypes([]ShapeType{ShapeLine2}).
		WithPalette([]Color{"#123456"})

	for _, s := range gen.GenerateRandomShapes(20) {
		if s.Type() != ShapeLine2 {
			t.Errorf("type = %s, want LINE_2", s.Type())
		}
		if s.Color() != "#123456" {
			t.Errorf("color = %q, want #123456", s.Color())
		}
	}
}

func TestCreateBonusShape(t *testing.T) {
	gen := NewGenerator(nil)
	s := gen.CreateBonusShape()

	if s.Type() != ShapeSingle || s.Rotation() != Rotate0 {
		t.Errorf("bonus shape = %s, want SINGLE@0", s)
	}
	if !reflect.DeepEqual(s.Blocks(), []Position{{0, 0}}) {
		t.Errorf("bonus blocks = %v, want [(0,0)]", s.Blocks())
	}
}

func TestParseShapeType(t *testing.T) {
	for _, typ := range AllShapeTypes() {
		got, ok := ParseShapeType(typ.String())
		if !ok || got != typ {
			t.Errorf("ParseShapeType(%q) = %v, %v", typ.String(), got, ok)
		}
	}
	if got, ok := ParseShapeType("t_shape"); !ok || got != ShapeT {
		t.Errorf("ParseShapeType should be case-insensitive, got %v, %v", got, ok)
	}
	if _, ok := ParseShapeType("HEXOMINO"); ok {
		t.Error("ParseShapeType should reject unknown names")
	}
}
