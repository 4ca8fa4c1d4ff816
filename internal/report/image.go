// Package report implements the conflict reporter: per-layer severity
// pixel arrays and a MERGED composite per cell (spec.md section 4.6).
// Persisted run history lives in internal/history.
package report

import (
	"github.com/Faultbox/merged-lands/internal/coords"
	"github.com/Faultbox/merged-lands/internal/merge"
)

// Pixel is one RGBA severity pixel. Alpha is 0 for an untouched vertex,
// 255 otherwise.
type Pixel struct {
	R, G, B, A uint8
}

var (
	pixelNone  = Pixel{R: 40, G: 200, B: 80, A: 255}
	pixelMinor = Pixel{R: 230, G: 200, B: 40, A: 255}
	pixelMajor = Pixel{R: 220, G: 50, B: 50, A: 255}
	pixelNone0 = Pixel{}
)

func severityPixel(e merge.Entry) Pixel {
	if e.Plugin == "" {
		return pixelNone0
	}
	switch e.Severity {
	case merge.SeverityMajor:
		return pixelMajor
	case merge.SeverityMinor:
		return pixelMinor
	default:
		return pixelNone
	}
}

// Image is a rendered width x height pixel array, ready to hand to an
// external image-encoding collaborator.
type Image struct {
	Width  int
	Height int
	Pixels []Pixel
}

func renderGrid(grid merge.Grid) Image {
	rows := len(grid)
	if rows == 0 {
		return Image{}
	}
	cols := len(grid[0])
	img := Image{Width: cols, Height: rows, Pixels: make([]Pixel, rows*cols)}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			img.Pixels[i*cols+j] = severityPixel(grid[i][j])
		}
	}
	return img
}

// CellLayerImages holds one severity image per present layer for a cell.
type CellLayerImages struct {
	Coord    coords.Cell
	Height   *Image
	Normals  *Image
	Colors   *Image
	Indices  *Image
	WorldMap *Image
}

// RenderPlugin renders every cell a single plugin touched, one image per
// layer the plugin's provenance entries mention at that cell.
func RenderPlugin(pluginName string, prov merge.Provenance) []CellLayerImages {
	var out []CellLayerImages
	for coord, cp := range prov {
		if !cellMentionsPlugin(cp, pluginName) {
			continue
		}
		out = append(out, CellLayerImages{
			Coord:    coord,
			Height:   gridImageIfTouched(cp.Height, pluginName),
			Normals:  gridImageIfTouched(cp.Normals, pluginName),
			Colors:   gridImageIfTouched(cp.Colors, pluginName),
			Indices:  gridImageIfTouched(cp.Indices, pluginName),
			WorldMap: gridImageIfTouched(cp.WorldMap, pluginName),
		})
	}
	return out
}

func cellMentionsPlugin(cp *merge.CellProvenance, pluginName string) bool {
	for _, g := range []merge.Grid{cp.Height, cp.Normals, cp.Colors, cp.Indices, cp.WorldMap} {
		if gridMentionsPlugin(g, pluginName) {
			return true
		}
	}
	return false
}

func gridMentionsPlugin(g merge.Grid, pluginName string) bool {
	for _, row := range g {
		for _, e := range row {
			if e.Plugin == pluginName {
				return true
			}
		}
	}
	return false
}

// gridImageIfTouched renders g filtered to only the plugin's own entries,
// or returns nil when no entry of g names the plugin; vertices last
// written by a different plugin render transparent, same as an untouched
// vertex.
func gridImageIfTouched(g merge.Grid, pluginName string) *Image {
	if g == nil || !gridMentionsPlugin(g, pluginName) {
		return nil
	}
	filtered := make(merge.Grid, len(g))
	for i, row := range g {
		filtered[i] = make([]merge.Entry, len(row))
		for j, e := range row {
			if e.Plugin == pluginName {
				filtered[i][j] = e
			}
		}
	}
	img := renderGrid(filtered)
	return &img
}

// RenderMerged composes every layer's severity into a single per-cell
// overview: a vertex is Major if any layer at that vertex is Major,
// else Minor if any layer is Minor, else None if any layer touched it,
// else transparent.
func RenderMerged(prov merge.Provenance) map[coords.Cell]Image {
	out := make(map[coords.Cell]Image)
	for coord, cp := range prov {
		out[coord] = renderMergedCell(cp)
	}
	return out
}

func renderMergedCell(cp *merge.CellProvenance) Image {
	grids := []merge.Grid{cp.Height, cp.Normals, cp.Colors, cp.Indices, cp.WorldMap}
	rows, cols := 0, 0
	for _, g := range grids {
		if g != nil {
			rows, cols = len(g), len(g[0])
			break
		}
	}
	if rows == 0 {
		return Image{}
	}

	img := Image{Width: cols, Height: rows, Pixels: make([]Pixel, rows*cols)}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			img.Pixels[i*cols+j] = worstPixel(grids, i, j)
		}
	}
	return img
}

func worstPixel(grids []merge.Grid, i, j int) Pixel {
	best := pixelNone0
	seen := false
	for _, g := range grids {
		if g == nil || i >= len(g) || j >= len(g[i]) {
			continue
		}
		e := g[i][j]
		if e.Plugin == "" {
			continue
		}
		seen = true
		switch e.Severity {
		case merge.SeverityMajor:
			return pixelMajor
		case merge.SeverityMinor:
			best = pixelMinor
		default:
			if best.A == 0 {
				best = pixelNone
			}
		}
	}
	if !seen {
		return pixelNone0
	}
	return best
}
