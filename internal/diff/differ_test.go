package diff

import (
	"testing"

	"github.com/Faultbox/merged-lands/internal/coords"
	"github.com/Faultbox/merged-lands/internal/landscape"
)

func newCellLandscape(coord coords.Cell, offset float32) *landscape.Landscape {
	h := landscape.NewHeightField()
	h.Offset = offset
	return &landscape.Landscape{Coord: coord, Layers: landscape.Layers{Height: h}}
}

func TestComputeSkipsUnchangedCells(t *testing.T) {
	coord := coords.Cell{X: 0, Y: 0}
	ref := landscape.NewLandmass(landscape.NewTextureTable())
	ref.Set(newCellLandscape(coord, 50))

	incoming := []*landscape.Landscape{newCellLandscape(coord, 50)}

	pd := Compute("NoOpMod", incoming, ref)
	if len(pd.Cells) != 0 {
		t.Fatalf("expected no cell deltas for an unchanged cell, got %d", len(pd.Cells))
	}
}

func TestComputeDetectsHeightChange(t *testing.T) {
	coord := coords.Cell{X: 0, Y: 0}
	ref := landscape.NewLandmass(landscape.NewTextureTable())
	ref.Set(newCellLandscape(coord, 50))

	incoming := []*landscape.Landscape{newCellLandscape(coord, 90)}

	pd := Compute("HillMod", incoming, ref)
	if len(pd.Cells) != 1 {
		t.Fatalf("expected 1 cell delta, got %d", len(pd.Cells))
	}
	cd := pd.Cells[0]
	if cd.Height == nil {
		t.Fatal("expected a height delta")
	}
	if !cd.Height.Mask[0][0] {
		t.Fatal("expected mask[0][0] to be marked changed")
	}
	if cd.Height.Values[0][0] != 90 {
		t.Fatalf("Values[0][0] = %v, want 90", cd.Height.Values[0][0])
	}
}

func TestComputeNewCellMarksFullMask(t *testing.T) {
	coord := coords.Cell{X: 5, Y: 5}
	ref := landscape.NewLandmass(landscape.NewTextureTable())

	incoming := []*landscape.Landscape{newCellLandscape(coord, 10)}

	pd := Compute("NewLandMod", incoming, ref)
	if len(pd.Cells) != 1 {
		t.Fatalf("expected 1 cell delta, got %d", len(pd.Cells))
	}
	cd := pd.Cells[0]
	if !cd.NewCell {
		t.Fatal("expected NewCell to be true for a cell absent from the reference")
	}
	for i := range cd.Height.Mask {
		for j := range cd.Height.Mask[i] {
			if !cd.Height.Mask[i][j] {
				t.Fatalf("expected the full mask to be set for a new cell, mask[%d][%d] is unset", i, j)
			}
		}
	}
}

func TestDiffIndicesMarksOnlyChangedVertices(t *testing.T) {
	incoming := landscape.NewIndexField()
	ref := landscape.NewIndexField()
	incoming.Indices[3][3] = 7

	d := diffIndices(incoming, ref)
	if d == nil {
		t.Fatal("expected a non-nil index delta")
	}
	if !d.Mask[3][3] {
		t.Fatal("expected mask[3][3] to be set")
	}
	if d.Mask[0][0] {
		t.Fatal("expected mask[0][0] to be unset")
	}
}

func TestDiffIndicesNoChangeReturnsNil(t *testing.T) {
	incoming := landscape.NewIndexField()
	ref := landscape.NewIndexField()

	if d := diffIndices(incoming, ref); d != nil {
		t.Fatal("expected nil delta for identical index fields")
	}
}
