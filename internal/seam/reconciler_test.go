package seam

import (
	"testing"

	"github.com/Faultbox/merged-lands/internal/coords"
	"github.com/Faultbox/merged-lands/internal/landscape"
	"github.com/Faultbox/merged-lands/internal/merge"
)

func flatHeight(v float32) [][]float32 {
	n := coords.GridSize
	g := make([][]float32, n)
	for i := range g {
		g[i] = make([]float32, n)
		for j := range g[i] {
			g[i][j] = v
		}
	}
	return g
}

func flatColor(v landscape.RGB) *landscape.ColorField {
	cf := landscape.NewColorField()
	for i := range cf.Colors {
		for j := range cf.Colors[i] {
			cf.Colors[i][j] = v
		}
	}
	return cf
}

func flatIndices(v uint16) *landscape.IndexField {
	f := landscape.NewIndexField()
	for i := range f.Indices {
		for j := range f.Indices[i] {
			f.Indices[i][j] = v
		}
	}
	return f
}

func newTestState(cells map[coords.Cell]float32) *merge.State {
	st := &merge.State{
		Cells:      make(map[coords.Cell]*merge.CellState),
		Provenance: merge.NewProvenance(),
	}
	for c, h := range cells {
		st.Cells[c] = &merge.CellState{
			Coord:   c,
			Height:  flatHeight(h),
			Colors:  flatColor(landscape.RGB{R: 10, G: 10, B: 10}),
			Indices: flatIndices(1),
		}
	}
	return st
}

func TestReconcileEdgesAveragesMismatchedHeights(t *testing.T) {
	west := coords.Cell{X: 0, Y: 0}
	east := coords.Cell{X: 1, Y: 0}
	st := newTestState(map[coords.Cell]float32{west: 0, east: 100})

	n := coords.GridSize
	for i := 0; i < n; i++ {
		st.Cells[west].Height[i][n-1] = 0
		st.Cells[east].Height[i][0] = 100
	}

	Reconcile(st, map[string]int{})

	for i := 0; i < n; i++ {
		got := st.Cells[west].Height[i][n-1]
		want := float32(50)
		if got != want {
			t.Fatalf("reconciled edge height at row %d = %v, want %v", i, got, want)
		}
		if st.Cells[east].Height[i][0] != got {
			t.Fatalf("edge not shared at row %d: west=%v east=%v", i, got, st.Cells[east].Height[i][0])
		}
	}
}

func TestReconcileCornersAverageAcrossFourCells(t *testing.T) {
	sw := coords.Cell{X: 0, Y: 0}
	se := coords.Cell{X: 1, Y: 0}
	nw := coords.Cell{X: 0, Y: 1}
	ne := coords.Cell{X: 1, Y: 1}
	st := newTestState(map[coords.Cell]float32{sw: 0, se: 0, nw: 0, ne: 0})

	n := coords.GridSize
	st.Cells[sw].Height[n-1][n-1] = 0
	st.Cells[se].Height[n-1][0] = 40
	st.Cells[nw].Height[0][n-1] = 80
	st.Cells[ne].Height[0][0] = 120

	Reconcile(st, map[string]int{})

	want := float32(60)
	if got := st.Cells[sw].Height[n-1][n-1]; got != want {
		t.Fatalf("sw corner = %v, want %v", got, want)
	}
	if got := st.Cells[se].Height[n-1][0]; got != want {
		t.Fatalf("se corner = %v, want %v", got, want)
	}
	if got := st.Cells[nw].Height[0][n-1]; got != want {
		t.Fatalf("nw corner = %v, want %v", got, want)
	}
	if got := st.Cells[ne].Height[0][0]; got != want {
		t.Fatalf("ne corner = %v, want %v", got, want)
	}
}

func TestReconcileIndexEdgePrefersSeverityNone(t *testing.T) {
	west := coords.Cell{X: 0, Y: 0}
	east := coords.Cell{X: 1, Y: 0}
	st := newTestState(map[coords.Cell]float32{west: 0, east: 0})

	tn := coords.TextureGridSize
	st.Cells[west].Indices.Indices[0][tn-1] = 5
	st.Cells[east].Indices.Indices[0][0] = 9

	westProv := &merge.CellProvenance{Indices: merge.NewGrid(tn, tn)}
	eastProv := &merge.CellProvenance{Indices: merge.NewGrid(tn, tn)}
	westProv.Indices[0][tn-1] = merge.Entry{Plugin: "ModA.esp", Severity: merge.SeverityNone}
	eastProv.Indices[0][0] = merge.Entry{Plugin: "ModB.esp", Severity: merge.SeverityMajor}
	st.Provenance[west] = westProv
	st.Provenance[east] = eastProv

	Reconcile(st, map[string]int{"ModA.esp": 0, "ModB.esp": 1})

	if got := st.Cells[west].Indices.Indices[0][tn-1]; got != 5 {
		t.Fatalf("west index = %d, want 5 (severity-none side wins)", got)
	}
	if got := st.Cells[east].Indices.Indices[0][0]; got != 5 {
		t.Fatalf("east index = %d, want 5 (shared with west)", got)
	}
}

func TestRecomputeNormalsUnitLength(t *testing.T) {
	c := coords.Cell{X: 0, Y: 0}
	st := newTestState(map[coords.Cell]float32{c: 0})
	n := coords.GridSize
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			st.Cells[c].Height[i][j] = float32(i+j) * 2
		}
	}

	Reconcile(st, map[string]int{})

	v := st.Cells[c].Normals.Vectors[n/2][n/2]
	lenSq := int(v.X)*int(v.X) + int(v.Y)*int(v.Y) + int(v.Z)*int(v.Z)
	if lenSq < 120*120 {
		t.Fatalf("normal %v too short, length^2=%d", v, lenSq)
	}
}
