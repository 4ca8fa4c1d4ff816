package landscape

import "github.com/Faultbox/merged-lands/internal/coords"

// Landmass is the mapping from cell coordinate to landscape, together
// with the shared texture table. The reference landmass is built once
// and never mutated afterward; the merged landmass is born as a deep
// copy of the reference and mutated only by the merger and the seam
// reconciler (spec.md section 3, "Lifecycles").
type Landmass struct {
	Cells    map[coords.Cell]*Landscape
	Textures *TextureTable
}

// NewLandmass returns an empty landmass sharing the given texture table.
func NewLandmass(textures *TextureTable) *Landmass {
	return &Landmass{Cells: make(map[coords.Cell]*Landscape), Textures: textures}
}

// Get returns the landscape at c, or nil if the cell is absent.
func (lm *Landmass) Get(c coords.Cell) *Landscape {
	return lm.Cells[c]
}

// Set stores l under its own Coord.
func (lm *Landmass) Set(l *Landscape) {
	lm.Cells[l.Coord] = l
}

// Clone returns a deep copy of the landmass: every landscape is cloned,
// and the texture table pointer is shared (the table is frozen by the
// time merging begins, so sharing it is safe).
func (lm *Landmass) Clone() *Landmass {
	out := NewLandmass(lm.Textures)
	for coord, l := range lm.Cells {
		out.Cells[coord] = l.Clone()
	}
	return out
}

// Neighbor returns the landscape adjacent to c in the given direction,
// or nil if that cell is absent from the landmass. Cells are modeled as
// a coordinate-keyed map, so neighbors are found by key arithmetic, not
// by back-references: no cell owns another cell's edge.
func (lm *Landmass) Neighbor(c coords.Cell, dir func(coords.Cell) coords.Cell) *Landscape {
	return lm.Cells[dir(c)]
}
