package merge

import (
	"testing"

	"github.com/Faultbox/merged-lands/internal/coords"
	"github.com/Faultbox/merged-lands/internal/diff"
	"github.com/Faultbox/merged-lands/internal/landscape"
)

// fixedPolicy answers every LayerPolicy lookup with the same strategy,
// regardless of plugin or layer.
type fixedPolicy struct {
	strategy Strategy
}

func (f fixedPolicy) LayerPolicy(plugin string, layer landscape.LayerName) (bool, Strategy) {
	return true, f.strategy
}

// singleVertexHeightDelta builds a full GridSize x GridSize height delta
// with only (i,j) marked changed. Landmass() re-derives the on-disk
// delta storage from the full grid, so the grid must be real-sized even
// though only one vertex carries a meaningful value.
func singleVertexHeightDelta(i, j int, value float32) *diff.HeightDelta {
	mask := landscape.NewMask(coords.GridSize, coords.GridSize)
	mask[i][j] = true
	values := make([][]float32, coords.GridSize)
	for r := range values {
		values[r] = make([]float32, coords.GridSize)
	}
	values[i][j] = value
	return &diff.HeightDelta{Values: values, Mask: mask}
}

func emptyRef() *landscape.Landmass {
	return landscape.NewLandmass(landscape.NewTextureTable())
}

func TestMergeFirstWriteIsAlwaysSeverityNone(t *testing.T) {
	ref := emptyRef()
	coord := coords.Cell{X: 0, Y: 0}

	hd := singleVertexHeightDelta(0, 0, 50)
	delta := &diff.PluginDelta{Plugin: "ModA", Cells: []diff.CellDelta{{Coord: coord, Height: hd}}}

	merger := NewMerger()
	state := merger.Merge(ref, []Input{{Plugin: "ModA", Delta: delta}}, fixedPolicy{strategy: Auto})

	cs := state.Cells[coord]
	if cs.Height[0][0] != 50 {
		t.Fatalf("Height[0][0] = %v, want 50", cs.Height[0][0])
	}
	entry := state.Provenance[coord].Height[0][0]
	if entry.Severity != SeverityNone {
		t.Fatalf("first write should be SeverityNone, got %v", entry.Severity)
	}
	if entry.Plugin != "ModA" {
		t.Fatalf("provenance plugin = %s, want ModA", entry.Plugin)
	}
}

func TestMergeOverwriteStrategyAlwaysTakesLatest(t *testing.T) {
	ref := emptyRef()
	coord := coords.Cell{X: 0, Y: 0}

	first := &diff.PluginDelta{Plugin: "ModA", Cells: []diff.CellDelta{{Coord: coord, Height: singleVertexHeightDelta(0, 0, 10)}}}
	second := &diff.PluginDelta{Plugin: "ModB", Cells: []diff.CellDelta{{Coord: coord, Height: singleVertexHeightDelta(0, 0, 500)}}}

	merger := NewMerger()
	state := merger.Merge(ref, []Input{
		{Plugin: "ModA", Delta: first},
		{Plugin: "ModB", Delta: second},
	}, fixedPolicy{strategy: Overwrite})

	cs := state.Cells[coord]
	if cs.Height[0][0] != 500 {
		t.Fatalf("Height[0][0] = %v, want 500 (Overwrite should always take the latest write)", cs.Height[0][0])
	}
}

func TestMergeKeepStrategyNeverChangesValue(t *testing.T) {
	ref := emptyRef()
	coord := coords.Cell{X: 0, Y: 0}

	first := &diff.PluginDelta{Plugin: "ModA", Cells: []diff.CellDelta{{Coord: coord, Height: singleVertexHeightDelta(0, 0, 10)}}}
	second := &diff.PluginDelta{Plugin: "ModB", Cells: []diff.CellDelta{{Coord: coord, Height: singleVertexHeightDelta(0, 0, 500)}}}

	merger := NewMerger()
	state := merger.Merge(ref, []Input{
		{Plugin: "ModA", Delta: first},
		{Plugin: "ModB", Delta: second},
	}, fixedPolicy{strategy: Keep})

	cs := state.Cells[coord]
	if cs.Height[0][0] != 10 {
		t.Fatalf("Height[0][0] = %v, want 10 (Keep should preserve the first write)", cs.Height[0][0])
	}
}

func TestMergeIndicesAutoIsCategoricalLaterWins(t *testing.T) {
	ref := emptyRef()
	coord := coords.Cell{X: 0, Y: 0}

	indexDelta := func(v uint16) *diff.IndexDelta {
		mask := landscape.NewMask(coords.TextureGridSize, coords.TextureGridSize)
		mask[0][0] = true
		values := make([][]uint16, coords.TextureGridSize)
		for r := range values {
			values[r] = make([]uint16, coords.TextureGridSize)
		}
		values[0][0] = v
		return &diff.IndexDelta{Values: values, Mask: mask}
	}

	first := &diff.PluginDelta{Plugin: "ModA", Cells: []diff.CellDelta{{Coord: coord, Indices: indexDelta(3)}}}
	second := &diff.PluginDelta{Plugin: "ModB", Cells: []diff.CellDelta{{Coord: coord, Indices: indexDelta(9)}}}

	merger := NewMerger()
	state := merger.Merge(ref, []Input{
		{Plugin: "ModA", Delta: first},
		{Plugin: "ModB", Delta: second},
	}, fixedPolicy{strategy: Auto})

	cs := state.Cells[coord]
	if cs.Indices.Indices[0][0] != 9 {
		t.Fatalf("Indices[0][0] = %d, want 9 (later plugin should win on a categorical conflict)", cs.Indices.Indices[0][0])
	}
	entry := state.Provenance[coord].Indices[0][0]
	if entry.Severity != SeverityMajor {
		t.Fatalf("conflicting texture index should be Major, got %v", entry.Severity)
	}
}

func TestStateLandmassRoundTripsHeight(t *testing.T) {
	ref := emptyRef()
	coord := coords.Cell{X: 0, Y: 0}

	hd := singleVertexHeightDelta(0, 0, 50)
	delta := &diff.PluginDelta{Plugin: "ModA", Cells: []diff.CellDelta{{Coord: coord, Height: hd}}}

	merger := NewMerger()
	state := merger.Merge(ref, []Input{{Plugin: "ModA", Delta: delta}}, fixedPolicy{strategy: Auto})

	lm := state.Landmass()
	l := lm.Get(coord)
	if l == nil || l.Layers.Height == nil {
		t.Fatal("expected the merged landmass to carry the height layer")
	}
	if l.Layers.Height.Offset != 50 {
		t.Fatalf("Offset = %v, want 50", l.Layers.Height.Offset)
	}
}
