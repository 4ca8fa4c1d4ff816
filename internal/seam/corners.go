package seam

import (
	"github.com/Faultbox/merged-lands/internal/coords"
	"github.com/Faultbox/merged-lands/internal/landscape"
	"github.com/Faultbox/merged-lands/internal/merge"
)

// cornerPoint names one of the (up to four) cells sharing a single
// world vertex, and where in that cell's grid the shared vertex sits.
type cornerPoint struct {
	coord coords.Cell
	i, j  int
}

// reconcileCorners resolves the four-corner vertices last, after every
// edge has already been reconciled, per original_source's separate
// corner pass (see SPEC_FULL.md supplemental features). A corner is
// only treated as a true four-way point when the cell owns both an
// East and a North neighbor; otherwise the two edge passes have already
// settled it.
func reconcileCorners(st *merge.State, loadOrder map[string]int) {
	n := coords.GridSize
	tn := coords.TextureGridSize

	for coord, cs := range st.Cells {
		east := st.Cells[coord.East()]
		north := st.Cells[coord.North()]
		if east == nil || north == nil {
			continue
		}
		ne := st.Cells[coord.NorthEast()]

		points := []cornerPoint{{coord, n - 1, n - 1}, {coord.East(), n - 1, 0}, {coord.North(), 0, n - 1}}
		cells := []*merge.CellState{cs, east, north}
		if ne != nil {
			points = append(points, cornerPoint{coord.NorthEast(), 0, 0})
			cells = append(cells, ne)
		}

		reconcileCornerHeight(cells, points)
		reconcileCornerColor(cells, points)

		texPoints := []cornerPoint{{coord, tn - 1, tn - 1}, {coord.East(), tn - 1, 0}, {coord.North(), 0, tn - 1}}
		texCells := []*merge.CellState{cs, east, north}
		if ne != nil {
			texPoints = append(texPoints, cornerPoint{coord.NorthEast(), 0, 0})
			texCells = append(texCells, ne)
		}
		reconcileCornerIndex(st, texCells, texPoints, loadOrder)
	}
}

func reconcileCornerHeight(cells []*merge.CellState, points []cornerPoint) {
	var sum float32
	count := 0
	for k, c := range cells {
		if c.Height == nil {
			continue
		}
		sum += c.Height[points[k].i][points[k].j]
		count++
	}
	if count == 0 {
		return
	}
	mean := sum / float32(count)
	for k, c := range cells {
		if c.Height == nil {
			continue
		}
		c.Height[points[k].i][points[k].j] = mean
	}
}

func reconcileCornerColor(cells []*merge.CellState, points []cornerPoint) {
	var sumR, sumG, sumB, count int
	for k, c := range cells {
		if c.Colors == nil {
			continue
		}
		rgb := c.Colors.Colors[points[k].i][points[k].j]
		sumR += int(rgb.R)
		sumG += int(rgb.G)
		sumB += int(rgb.B)
		count++
	}
	if count == 0 {
		return
	}
	mean := landscape.RGB{
		R: uint8(sumR / count),
		G: uint8(sumG / count),
		B: uint8(sumB / count),
	}
	for k, c := range cells {
		if c.Colors == nil {
			continue
		}
		c.Colors.Colors[points[k].i][points[k].j] = mean
	}
}

// reconcileCornerIndex uses majority-else-later-plugin, distinct from
// the edge tiebreak: with three or four sides meeting at a corner, a
// simple majority is decisive more often than a two-way severity
// comparison, so it is tried first (spec.md section 4.5).
func reconcileCornerIndex(st *merge.State, cells []*merge.CellState, points []cornerPoint, loadOrder map[string]int) {
	present := make([]int, 0, len(cells))
	for k, c := range cells {
		if c.Indices != nil {
			present = append(present, k)
		}
	}
	if len(present) < 2 {
		return
	}

	counts := make(map[uint16]int)
	for _, k := range present {
		v := cells[k].Indices.Indices[points[k].i][points[k].j]
		counts[v]++
	}

	winner, winnerCount, tie := uint16(0), 0, false
	for v, c := range counts {
		switch {
		case c > winnerCount:
			winner, winnerCount, tie = v, c, false
		case c == winnerCount:
			tie = true
		}
	}

	if tie {
		winner = latestPluginValue(st, cells, points, present, loadOrder)
	}

	for _, k := range present {
		cells[k].Indices.Indices[points[k].i][points[k].j] = winner
	}
}

func latestPluginValue(st *merge.State, cells []*merge.CellState, points []cornerPoint, present []int, loadOrder map[string]int) uint16 {
	bestValue := cells[present[0]].Indices.Indices[points[present[0]].i][points[present[0]].j]
	bestRank := -1
	for _, k := range present {
		p := points[k]
		var plugin string
		if prov := st.Provenance[p.coord]; prov != nil && prov.Indices != nil {
			plugin = prov.Indices[p.i][p.j].Plugin
		}
		if rank := loadOrder[plugin]; rank >= bestRank {
			bestRank = rank
			bestValue = cells[k].Indices.Indices[p.i][p.j]
		}
	}
	return bestValue
}
