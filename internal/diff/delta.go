// Package diff computes a mod plugin's delta against the reference
// landmass: per layer, the grid of values that actually differ plus a
// mask of which positions changed (spec.md section 4.3).
package diff

import (
	"github.com/Faultbox/merged-lands/internal/coords"
	"github.com/Faultbox/merged-lands/internal/landscape"
)

// HeightDelta carries absolute height values (not on-disk deltas) for
// every vertex whose mask bit is set. Comparing and merging in absolute
// height space avoids spurious diffs introduced by the row/column
// storage convention; the merger re-derives storage deltas only when the
// cell's final height field is produced.
type HeightDelta struct {
	Values [][]float32
	Mask   landscape.Mask
}

// NormalDelta, ColorDelta, IndexDelta, and MapDelta carry the layer's
// native element type for every masked vertex.
type NormalDelta struct {
	Values [][]landscape.Vec3I8
	Mask   landscape.Mask
}

type ColorDelta struct {
	Values [][]landscape.RGB
	Mask   landscape.Mask
}

type IndexDelta struct {
	Values [][]uint16
	Mask   landscape.Mask
}

type MapDelta struct {
	Values [][]uint8
	Mask   landscape.Mask
}

// CellDelta is one cell's delta for one plugin. NewCell is true when the
// cell has no counterpart in the reference landmass, in which case every
// present layer is fully masked.
type CellDelta struct {
	Coord    coords.Cell
	NewCell  bool
	Height   *HeightDelta
	Normals  *NormalDelta
	Colors   *ColorDelta
	Indices  *IndexDelta
	WorldMap *MapDelta
}

// PluginDelta is the sequence of CellDelta produced for one mod plugin.
type PluginDelta struct {
	Plugin string
	Cells  []CellDelta
}
