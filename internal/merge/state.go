package merge

import (
	"github.com/Faultbox/merged-lands/internal/coords"
	"github.com/Faultbox/merged-lands/internal/landscape"
)

// CellState is one cell's working merge state. Heights are kept in
// absolute form (rather than the on-disk row/column-cumulative delta
// storage) for the duration of merging and seam reconciliation, since
// every conflict decision and seam repair operates on absolute values;
// the storage convention is re-derived once when the result is produced.
type CellState struct {
	Coord        coords.Cell
	Height       [][]float32 // absolute heights, GridSize x GridSize, nil if absent
	Normals      *landscape.NormalField
	Colors       *landscape.ColorField
	Indices      *landscape.IndexField
	WorldMap     *landscape.MapField
	SourcePlugin string
}

// State is the merged landmass's working representation.
type State struct {
	Cells      map[coords.Cell]*CellState
	Textures   *landscape.TextureTable
	Provenance Provenance
}

// NewState seeds a working State from the reference landmass: every
// reference cell becomes a CellState with a deep copy of the same layers
// (heights converted to absolute), so merging never writes into the
// reference, and no vertex yet has provenance (prior_plugin is unset
// everywhere, per spec.md section 4.4 step 2b).
func NewState(ref *landscape.Landmass) *State {
	st := &State{
		Cells:      make(map[coords.Cell]*CellState),
		Textures:   ref.Textures,
		Provenance: NewProvenance(),
	}

	for coord, l := range ref.Cells {
		l = l.Clone()
		cs := &CellState{Coord: coord, SourcePlugin: l.SourcePlugin}
		if l.Layers.Height != nil {
			cs.Height = l.Layers.Height.Absolute()
		}
		cs.Normals = l.Layers.Normals
		cs.Colors = l.Layers.Colors
		cs.Indices = l.Layers.Indices
		cs.WorldMap = l.Layers.WorldMap
		st.Cells[coord] = cs
	}

	return st
}

func (st *State) cell(c coords.Cell) *CellState {
	cs, ok := st.Cells[c]
	if !ok {
		cs = &CellState{Coord: c}
		st.Cells[c] = cs
	}
	return cs
}

// Landmass converts the working state back into a landscape.Landmass,
// re-deriving each cell's on-disk height storage convention from its
// absolute heights.
func (st *State) Landmass() *landscape.Landmass {
	lm := landscape.NewLandmass(st.Textures)

	for coord, cs := range st.Cells {
		l := &landscape.Landscape{Coord: coord, SourcePlugin: cs.SourcePlugin}
		if cs.Height != nil {
			l.Layers.Height = landscape.HeightFieldFromAbsolute(cs.Height, cs.Height[0][0])
		}
		l.Layers.Normals = cs.Normals
		l.Layers.Colors = cs.Colors
		l.Layers.Indices = cs.Indices
		l.Layers.WorldMap = cs.WorldMap
		lm.Set(l)
	}

	return lm
}
