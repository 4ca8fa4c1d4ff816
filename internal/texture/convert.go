package texture

import (
	"github.com/Faultbox/merged-lands/internal/landscape"
	"github.com/Faultbox/merged-lands/internal/plugin"
)

// ToLandscape converts one of a plugin's raw landscape records into the
// typed in-memory form, translating its texture-index grid through m.
// This is the only place a plugin's texture indices become comparable
// across plugins (spec.md section 4.1).
func ToLandscape(m *Mapping, rec plugin.LandscapeRecord, sourcePlugin string) *landscape.Landscape {
	l := &landscape.Landscape{Coord: rec.Coord, SourcePlugin: sourcePlugin}

	if rec.Height != nil {
		l.Layers.Height = &landscape.HeightField{
			Deltas: cloneI8(rec.Height.Deltas),
			Offset: rec.Height.Offset,
		}
	}
	if rec.Normal != nil {
		l.Layers.Normals = &landscape.NormalField{Vectors: toVec3I8(rec.Normal.Values)}
	}
	if rec.Color != nil {
		l.Layers.Colors = &landscape.ColorField{Colors: toRGB(rec.Color.Values)}
	}
	if rec.Index != nil {
		l.Layers.Indices = TranslateIndexField(m, rec.Index.Values)
	}
	if rec.Map != nil {
		l.Layers.WorldMap = &landscape.MapField{Bytes: cloneU8(rec.Map.Values)}
	}

	return l
}

func cloneI8(grid [][]int8) [][]int8 {
	out := make([][]int8, len(grid))
	for i, row := range grid {
		out[i] = append([]int8(nil), row...)
	}
	return out
}

func cloneU8(grid [][]uint8) [][]uint8 {
	out := make([][]uint8, len(grid))
	for i, row := range grid {
		out[i] = append([]uint8(nil), row...)
	}
	return out
}

func toVec3I8(grid [][][3]int8) [][]landscape.Vec3I8 {
	out := make([][]landscape.Vec3I8, len(grid))
	for i, row := range grid {
		out[i] = make([]landscape.Vec3I8, len(row))
		for j, v := range row {
			out[i][j] = landscape.Vec3I8{X: v[0], Y: v[1], Z: v[2]}
		}
	}
	return out
}

func toRGB(grid [][][3]uint8) [][]landscape.RGB {
	out := make([][]landscape.RGB, len(grid))
	for i, row := range grid {
		out[i] = make([]landscape.RGB, len(row))
		for j, v := range row {
			out[i][j] = landscape.RGB{R: v[0], G: v[1], B: v[2]}
		}
	}
	return out
}
