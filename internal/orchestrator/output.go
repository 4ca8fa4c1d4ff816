package orchestrator

import (
	"github.com/Faultbox/merged-lands/internal/landscape"
	"github.com/Faultbox/merged-lands/internal/plugin"
)

// toMergedPlugin converts the final merged landmass into the
// serialization-ready shape the codec collaborator consumes (spec.md
// section 6, "Output (to codec collaborator)").
func toMergedPlugin(lm *landscape.Landmass, description string) *plugin.MergedPlugin {
	mp := &plugin.MergedPlugin{Description: description}

	for _, t := range lm.Textures.Entries() {
		mp.Textures = append(mp.Textures, plugin.MergedTexture{
			Filename:        t.CanonicalKey.Filename,
			HasMasterFormID: t.CanonicalKey.HasFormID,
			MasterFormID:    t.CanonicalKey.FormID,
			GlobalID:        t.GlobalID,
		})
	}

	for _, l := range lm.Cells {
		mp.Landscapes = append(mp.Landscapes, toMergedLandscape(l))
	}

	return mp
}

func toMergedLandscape(l *landscape.Landscape) plugin.MergedLandscape {
	out := plugin.MergedLandscape{Coord: l.Coord}

	if h := l.Layers.Height; h != nil {
		out.Height = &plugin.RawHeight{Deltas: fromI8(h.Deltas), Offset: h.Offset}
	}
	if n := l.Layers.Normals; n != nil {
		out.Normal = &plugin.RawGrid3I8{Values: fromVec3I8(n.Vectors)}
	}
	if c := l.Layers.Colors; c != nil {
		out.Color = &plugin.RawGrid3U8{Values: fromRGB(c.Colors)}
	}
	if idx := l.Layers.Indices; idx != nil {
		out.Index = &plugin.RawGridU16{Values: fromU16(idx.Indices)}
	}
	if m := l.Layers.WorldMap; m != nil {
		out.Map = &plugin.RawGridU8{Values: fromU8(m.Bytes)}
	}

	return out
}

func fromI8(grid [][]int8) [][]int8 {
	out := make([][]int8, len(grid))
	for i, row := range grid {
		out[i] = append([]int8(nil), row...)
	}
	return out
}

func fromU16(grid [][]uint16) [][]uint16 {
	out := make([][]uint16, len(grid))
	for i, row := range grid {
		out[i] = append([]uint16(nil), row...)
	}
	return out
}

func fromU8(grid [][]uint8) [][]uint8 {
	out := make([][]uint8, len(grid))
	for i, row := range grid {
		out[i] = append([]uint8(nil), row...)
	}
	return out
}

func fromVec3I8(grid [][]landscape.Vec3I8) [][][3]int8 {
	out := make([][][3]int8, len(grid))
	for i, row := range grid {
		out[i] = make([][3]int8, len(row))
		for j, v := range row {
			out[i][j] = [3]int8{v.X, v.Y, v.Z}
		}
	}
	return out
}

func fromRGB(grid [][]landscape.RGB) [][][3]uint8 {
	out := make([][][3]uint8, len(grid))
	for i, row := range grid {
		out[i] = make([][3]uint8, len(row))
		for j, v := range row {
			out[i][j] = [3]uint8{v.R, v.G, v.B}
		}
	}
	return out
}
