package landscape

import "github.com/Faultbox/merged-lands/internal/coords"

// Landscape is one cell's terrain record. It is uniquely identified by
// Coord; SourcePlugin names whichever plugin most recently wrote to it
// (the last master during reference construction, or the merger's
// current plugin while folding deltas).
type Landscape struct {
	Coord        coords.Cell
	Layers       Layers
	SourcePlugin string
}

// Clone returns a deep copy of l, suitable for seeding the merged
// landmass from the reference without aliasing any grid storage.
func (l *Landscape) Clone() *Landscape {
	out := &Landscape{Coord: l.Coord, SourcePlugin: l.SourcePlugin}

	if l.Layers.Height != nil {
		h := &HeightField{Offset: l.Layers.Height.Offset}
		h.Deltas = cloneGrid(l.Layers.Height.Deltas)
		out.Layers.Height = h
	}
	if l.Layers.Normals != nil {
		out.Layers.Normals = &NormalField{Vectors: cloneGrid(l.Layers.Normals.Vectors)}
	}
	if l.Layers.Colors != nil {
		out.Layers.Colors = &ColorField{Colors: cloneGrid(l.Layers.Colors.Colors)}
	}
	if l.Layers.Indices != nil {
		out.Layers.Indices = &IndexField{Indices: cloneGrid(l.Layers.Indices.Indices)}
	}
	if l.Layers.WorldMap != nil {
		out.Layers.WorldMap = &MapField{Bytes: cloneGrid(l.Layers.WorldMap.Bytes)}
	}

	return out
}

func cloneGrid[T any](grid [][]T) [][]T {
	out := make([][]T, len(grid))
	for i, row := range grid {
		out[i] = make([]T, len(row))
		copy(out[i], row)
	}
	return out
}
