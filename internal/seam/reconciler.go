// Package seam implements the seam reconciler: restoring geometric
// continuity at the shared edges and corners of adjacent cells after
// all plugins have been merged (spec.md section 4.5). It runs exactly
// once, after merging, and is not iterative.
package seam

import (
	"github.com/Faultbox/merged-lands/internal/coords"
	"github.com/Faultbox/merged-lands/internal/landscape"
	"github.com/Faultbox/merged-lands/internal/merge"
)

// Reconcile mutates st in place: first every shared edge, then every
// shared four-corner point, then a global normal recompute from the
// reconciled heightmap. loadOrder maps plugin identifier to its load
// order index, used to break categorical ties.
func Reconcile(st *merge.State, loadOrder map[string]int) {
	reconcileEdges(st, loadOrder)
	reconcileCorners(st, loadOrder)
	recomputeNormals(st)
}

func reconcileEdges(st *merge.State, loadOrder map[string]int) {
	for coord, cs := range st.Cells {
		if east := st.Cells[coord.East()]; east != nil {
			reconcileVerticalEdge(st, coord, cs, coord.East(), east, loadOrder)
		}
		if north := st.Cells[coord.North()]; north != nil {
			reconcileHorizontalEdge(st, coord, cs, coord.North(), north, loadOrder)
		}
	}
}

// reconcileVerticalEdge reconciles the rightmost column of cs against
// the leftmost column of east (same cell row i, adjacent in x).
func reconcileVerticalEdge(st *merge.State, coord coords.Cell, cs *merge.CellState, eastCoord coords.Cell, east *merge.CellState, loadOrder map[string]int) {
	n := coords.GridSize
	for i := 0; i < n; i++ {
		reconcileHeightPair(cs, east, i, n-1, i, 0)
		reconcileColorPair(cs, east, i, n-1, i, 0)
	}
	reconcileIndexEdge(st, coord, eastCoord, loadOrder, func(k int) (int, int, int, int) { return k, coords.TextureGridSize - 1, k, 0 })
}

// reconcileHorizontalEdge reconciles the top row of cs against the
// bottom row of north (same column j, adjacent in y).
func reconcileHorizontalEdge(st *merge.State, coord coords.Cell, cs *merge.CellState, northCoord coords.Cell, north *merge.CellState, loadOrder map[string]int) {
	n := coords.GridSize
	for j := 0; j < n; j++ {
		reconcileHeightPair(cs, north, n-1, j, 0, j)
		reconcileColorPair(cs, north, n-1, j, 0, j)
	}
	reconcileIndexEdge(st, coord, northCoord, loadOrder, func(k int) (int, int, int, int) { return coords.TextureGridSize - 1, k, 0, k })
}

func reconcileHeightPair(a, b *merge.CellState, ai, aj, bi, bj int) {
	if a.Height == nil || b.Height == nil {
		return
	}
	mean := (a.Height[ai][aj] + b.Height[bi][bj]) / 2
	a.Height[ai][aj] = mean
	b.Height[bi][bj] = mean
}

func reconcileColorPair(a, b *merge.CellState, ai, aj, bi, bj int) {
	if a.Colors == nil || b.Colors == nil {
		return
	}
	mean := averageRGB(a.Colors.Colors[ai][aj], b.Colors.Colors[bi][bj])
	a.Colors.Colors[ai][aj] = mean
	b.Colors.Colors[bi][bj] = mean
}

func averageRGB(x, y landscape.RGB) landscape.RGB {
	return landscape.RGB{
		R: uint8((int(x.R) + int(y.R) + 1) / 2),
		G: uint8((int(x.G) + int(y.G) + 1) / 2),
		B: uint8((int(x.B) + int(y.B) + 1) / 2),
	}
}

// reconcileIndexEdge reconciles one edge's texture-index disagreements.
// at computes (ai, aj, bi, bj) for k in [0, TextureGridSize).
func reconcileIndexEdge(st *merge.State, aCoord, bCoord coords.Cell, loadOrder map[string]int, at func(int) (int, int, int, int)) {
	a := st.Cells[aCoord]
	b := st.Cells[bCoord]
	if a.Indices == nil || b.Indices == nil {
		return
	}
	aProv := st.Provenance[aCoord]
	bProv := st.Provenance[bCoord]

	for k := 0; k < coords.TextureGridSize; k++ {
		ai, aj, bi, bj := at(k)
		va := a.Indices.Indices[ai][aj]
		vb := b.Indices.Indices[bi][bj]
		if va == vb {
			continue
		}

		var aSev, bSev merge.Severity
		var aPlugin, bPlugin string
		if aProv != nil && aProv.Indices != nil {
			aSev = aProv.Indices[ai][aj].Severity
			aPlugin = aProv.Indices[ai][aj].Plugin
		}
		if bProv != nil && bProv.Indices != nil {
			bSev = bProv.Indices[bi][bj].Severity
			bPlugin = bProv.Indices[bi][bj].Plugin
		}

		winner := resolveIndexTie(va, vb, aSev, bSev, aPlugin, bPlugin, loadOrder)
		a.Indices.Indices[ai][aj] = winner
		b.Indices.Indices[bi][bj] = winner
	}
}

// resolveIndexTie prefers the side whose provenance severity is None;
// if both sides carry a conflict, prefers whichever plugin is later in
// load order (spec.md section 4.5; this is also the documented fallback
// for an otherwise-unresolvable categorical seam, section 7).
func resolveIndexTie(va, vb uint16, aSev, bSev merge.Severity, aPlugin, bPlugin string, loadOrder map[string]int) uint16 {
	aNone := aSev == merge.SeverityNone
	bNone := bSev == merge.SeverityNone
	if aNone && !bNone {
		return va
	}
	if bNone && !aNone {
		return vb
	}
	if loadOrder[aPlugin] >= loadOrder[bPlugin] {
		return va
	}
	return vb
}
