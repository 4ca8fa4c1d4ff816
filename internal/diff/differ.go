package diff

import (
	"github.com/Faultbox/merged-lands/internal/landscape"
)

// Compute returns the delta of incoming (a mod plugin's landscapes,
// already run through the texture remapper) against ref. Landscapes
// whose layers are identical to the reference in every present layer
// are omitted from the result entirely.
func Compute(pluginName string, incoming []*landscape.Landscape, ref *landscape.Landmass) *PluginDelta {
	pd := &PluginDelta{Plugin: pluginName}

	for _, l := range incoming {
		refCell := ref.Get(l.Coord)
		if refCell == nil {
			pd.Cells = append(pd.Cells, newCellDelta(l))
			continue
		}

		cd := CellDelta{Coord: l.Coord}
		any := false

		if l.Layers.Height != nil {
			if hd := diffHeight(l.Layers.Height, refCell.Layers.Height); hd != nil {
				cd.Height = hd
				any = true
			}
		}
		if l.Layers.Normals != nil {
			if nd := diffNormals(l.Layers.Normals, refCell.Layers.Normals); nd != nil {
				cd.Normals = nd
				any = true
			}
		}
		if l.Layers.Colors != nil {
			if cdl := diffColors(l.Layers.Colors, refCell.Layers.Colors); cdl != nil {
				cd.Colors = cdl
				any = true
			}
		}
		if l.Layers.Indices != nil {
			if id := diffIndices(l.Layers.Indices, refCell.Layers.Indices); id != nil {
				cd.Indices = id
				any = true
			}
		}
		if l.Layers.WorldMap != nil {
			if md := diffWorldMap(l.Layers.WorldMap, refCell.Layers.WorldMap); md != nil {
				cd.WorldMap = md
				any = true
			}
		}

		if any {
			pd.Cells = append(pd.Cells, cd)
		}
	}

	return pd
}

func newCellDelta(l *landscape.Landscape) CellDelta {
	cd := CellDelta{Coord: l.Coord, NewCell: true}

	if h := l.Layers.Height; h != nil {
		abs := h.Absolute()
		cd.Height = &HeightDelta{Values: abs, Mask: fullMask(len(abs), len(abs[0]))}
	}
	if n := l.Layers.Normals; n != nil {
		cd.Normals = &NormalDelta{Values: n.Vectors, Mask: fullMask(len(n.Vectors), len(n.Vectors[0]))}
	}
	if c := l.Layers.Colors; c != nil {
		cd.Colors = &ColorDelta{Values: c.Colors, Mask: fullMask(len(c.Colors), len(c.Colors[0]))}
	}
	if idx := l.Layers.Indices; idx != nil {
		cd.Indices = &IndexDelta{Values: idx.Indices, Mask: fullMask(len(idx.Indices), len(idx.Indices[0]))}
	}
	if m := l.Layers.WorldMap; m != nil {
		cd.WorldMap = &MapDelta{Values: m.Bytes, Mask: fullMask(len(m.Bytes), len(m.Bytes[0]))}
	}

	return cd
}

func fullMask(rows, cols int) landscape.Mask {
	m := landscape.NewMask(rows, cols)
	for i := range m {
		for j := range m[i] {
			m[i][j] = true
		}
	}
	return m
}

// diffHeight compares absolute heights; if ref has no height layer,
// every incoming vertex is considered changed (no comparison basis).
func diffHeight(incoming, ref *landscape.HeightField) *HeightDelta {
	absIn := incoming.Absolute()
	rows, cols := len(absIn), len(absIn[0])

	if ref == nil {
		return &HeightDelta{Values: absIn, Mask: fullMask(rows, cols)}
	}
	absRef := ref.Absolute()

	mask := landscape.NewMask(rows, cols)
	changed := false
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if absIn[i][j] != absRef[i][j] {
				mask[i][j] = true
				changed = true
			}
		}
	}
	if !changed {
		return nil
	}
	return &HeightDelta{Values: absIn, Mask: mask}
}

func diffNormals(incoming, ref *landscape.NormalField) *NormalDelta {
	rows, cols := len(incoming.Vectors), len(incoming.Vectors[0])
	if ref == nil {
		return &NormalDelta{Values: incoming.Vectors, Mask: fullMask(rows, cols)}
	}

	mask := landscape.NewMask(rows, cols)
	changed := false
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if incoming.Vectors[i][j] != ref.Vectors[i][j] {
				mask[i][j] = true
				changed = true
			}
		}
	}
	if !changed {
		return nil
	}
	return &NormalDelta{Values: incoming.Vectors, Mask: mask}
}

func diffColors(incoming, ref *landscape.ColorField) *ColorDelta {
	rows, cols := len(incoming.Colors), len(incoming.Colors[0])
	if ref == nil {
		return &ColorDelta{Values: incoming.Colors, Mask: fullMask(rows, cols)}
	}

	mask := landscape.NewMask(rows, cols)
	changed := false
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if incoming.Colors[i][j] != ref.Colors[i][j] {
				mask[i][j] = true
				changed = true
			}
		}
	}
	if !changed {
		return nil
	}
	return &ColorDelta{Values: incoming.Colors, Mask: mask}
}

func diffIndices(incoming, ref *landscape.IndexField) *IndexDelta {
	rows, cols := len(incoming.Indices), len(incoming.Indices[0])
	if ref == nil {
		return &IndexDelta{Values: incoming.Indices, Mask: fullMask(rows, cols)}
	}

	mask := landscape.NewMask(rows, cols)
	changed := false
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if incoming.Indices[i][j] != ref.Indices[i][j] {
				mask[i][j] = true
				changed = true
			}
		}
	}
	if !changed {
		return nil
	}
	return &IndexDelta{Values: incoming.Indices, Mask: mask}
}

func diffWorldMap(incoming, ref *landscape.MapField) *MapDelta {
	rows, cols := len(incoming.Bytes), len(incoming.Bytes[0])
	if ref == nil {
		return &MapDelta{Values: incoming.Bytes, Mask: fullMask(rows, cols)}
	}

	mask := landscape.NewMask(rows, cols)
	changed := false
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if incoming.Bytes[i][j] != ref.Bytes[i][j] {
				mask[i][j] = true
				changed = true
			}
		}
	}
	if !changed {
		return nil
	}
	return &MapDelta{Values: incoming.Bytes, Mask: mask}
}
