// Package landscape holds the in-memory cell grid model: height, normal,
// vertex-color and texture-index layers, the texture table, and the
// landmass that ties per-cell landscapes together.
//
// The four primary layers are represented as a tagged variant rather than
// a single generic "layer" abstraction: each has a distinct element type
// and grid shape, and callers (the differ, the merger, the seam
// reconciler) dispatch on which field is present rather than on an
// erased element type.
package landscape

import "github.com/Faultbox/merged-lands/internal/coords"

// HeightScale converts one stored delta unit to world height units. This
// is the game's own fixed scale factor for the row/column-cumulative
// height convention described in spec.md section 3.
const HeightScale = 8.0

// Mask is a boolean grid of the same shape as the layer it accompanies,
// true where a vertex's value is actually present/changed.
type Mask [][]bool

// NewMask allocates a rows x cols mask, all false.
func NewMask(rows, cols int) Mask {
	m := make(Mask, rows)
	for i := range m {
		m[i] = make([]bool, cols)
	}
	return m
}

// Any reports whether at least one entry in the mask is set.
func (m Mask) Any() bool {
	for _, row := range m {
		for _, v := range row {
			if v {
				return true
			}
		}
	}
	return false
}

// HeightField is the per-cell heightmap: row/column-cumulative signed
// 8-bit deltas plus a scalar base offset, matching the game's on-disk
// storage convention (spec.md section 3 and section 6).
type HeightField struct {
	Deltas [][]int8 // [GridSize][GridSize]
	Offset float32
}

// NewHeightField allocates a zeroed GridSize x GridSize height field.
func NewHeightField() *HeightField {
	d := make([][]int8, coords.GridSize)
	for i := range d {
		d[i] = make([]int8, coords.GridSize)
	}
	return &HeightField{Deltas: d}
}

// Absolute reconstructs the absolute height grid from the stored
// row/column-cumulative deltas: row 0 and column 0 accumulate along
// their own axis, and every other entry accumulates along its row from
// the column-0 value of that row.
func (h *HeightField) Absolute() [][]float32 {
	n := coords.GridSize
	out := make([][]float32, n)
	for i := range out {
		out[i] = make([]float32, n)
	}

	out[0][0] = h.Offset
	for j := 1; j < n; j++ {
		out[0][j] = out[0][j-1] + float32(h.Deltas[0][j])*HeightScale
	}
	for i := 1; i < n; i++ {
		out[i][0] = out[i-1][0] + float32(h.Deltas[i][0])*HeightScale
		for j := 1; j < n; j++ {
			out[i][j] = out[i][j-1] + float32(h.Deltas[i][j])*HeightScale
		}
	}
	return out
}

// HeightFieldFromAbsolute re-derives the row/column-cumulative delta
// storage from an absolute height grid, given the desired base offset.
// Deltas are rounded to the nearest representable 8-bit step; residual
// rounding error does not propagate because every delta is measured from
// the height the previous stored deltas reconstruct to (as Absolute
// would), not from the previous unrounded absolute value.
func HeightFieldFromAbsolute(abs [][]float32, offset float32) *HeightField {
	n := coords.GridSize
	h := NewHeightField()
	h.Offset = offset

	h.Deltas[0][0] = 0
	rowStart, prev := offset, offset
	for j := 1; j < n; j++ {
		h.Deltas[0][j] = roundDelta((abs[0][j] - prev) / HeightScale)
		prev += float32(h.Deltas[0][j]) * HeightScale
	}
	for i := 1; i < n; i++ {
		h.Deltas[i][0] = roundDelta((abs[i][0] - rowStart) / HeightScale)
		rowStart += float32(h.Deltas[i][0]) * HeightScale
		prev = rowStart
		for j := 1; j < n; j++ {
			h.Deltas[i][j] = roundDelta((abs[i][j] - prev) / HeightScale)
			prev += float32(h.Deltas[i][j]) * HeightScale
		}
	}
	return h
}

func roundDelta(v float32) int8 {
	if v >= 0 {
		v += 0.5
	} else {
		v -= 0.5
	}
	if v > 127 {
		v = 127
	}
	if v < -128 {
		v = -128
	}
	return int8(v)
}

// Vec3I8 is a 3-component signed-byte vector, used for vertex normals.
type Vec3I8 struct{ X, Y, Z int8 }

// NormalField is the per-cell vertex-normal grid.
type NormalField struct {
	Vectors [][]Vec3I8 // [GridSize][GridSize]
}

// NewNormalField allocates a zeroed GridSize x GridSize normal field.
func NewNormalField() *NormalField {
	v := make([][]Vec3I8, coords.GridSize)
	for i := range v {
		v[i] = make([]Vec3I8, coords.GridSize)
	}
	return &NormalField{Vectors: v}
}

// RGB is a 3-component unsigned-byte color.
type RGB struct{ R, G, B uint8 }

// ColorField is the per-cell vertex-color grid.
type ColorField struct {
	Colors [][]RGB // [GridSize][GridSize]
}

// NewColorField allocates a zeroed GridSize x GridSize color field.
func NewColorField() *ColorField {
	c := make([][]RGB, coords.GridSize)
	for i := range c {
		c[i] = make([]RGB, coords.GridSize)
	}
	return &ColorField{Colors: c}
}

// IndexField is the per-cell texture-index grid. Indices are global
// texture-table ids in the 1-based on-disk sense; 0 means "default
// texture".
type IndexField struct {
	Indices [][]uint16 // [TextureGridSize][TextureGridSize]
}

// NewIndexField allocates a zeroed TextureGridSize x TextureGridSize
// index field.
func NewIndexField() *IndexField {
	idx := make([][]uint16, coords.TextureGridSize)
	for i := range idx {
		idx[i] = make([]uint16, coords.TextureGridSize)
	}
	return &IndexField{Indices: idx}
}

// MapField is the per-cell overworld map-tile grid.
type MapField struct {
	Bytes [][]uint8 // [WorldMapGridSize][WorldMapGridSize]
}

// NewMapField allocates a zeroed WorldMapGridSize x WorldMapGridSize map
// field.
func NewMapField() *MapField {
	b := make([][]uint8, coords.WorldMapGridSize)
	for i := range b {
		b[i] = make([]uint8, coords.WorldMapGridSize)
	}
	return &MapField{Bytes: b}
}

// Layers holds every layer a landscape record may carry. Each field is
// independently optional; a nil field means the layer is absent.
type Layers struct {
	Height   *HeightField
	Normals  *NormalField
	Colors   *ColorField
	Indices  *IndexField
	WorldMap *MapField
}

// LayerName identifies one of the layers for policy lookups and logging.
type LayerName string

const (
	LayerHeight   LayerName = "height_map"
	LayerNormals  LayerName = "vertex_normals"
	LayerColors   LayerName = "vertex_colors"
	LayerIndices  LayerName = "texture_indices"
	LayerWorldMap LayerName = "world_map_data"
)
