package orchestrator

import (
	"testing"

	"github.com/Faultbox/merged-lands/internal/coords"
	"github.com/Faultbox/merged-lands/internal/plugin"
	"github.com/Faultbox/merged-lands/internal/policy"
)

func zeroHeightDeltas() [][]int8 {
	d := make([][]int8, coords.GridSize)
	for i := range d {
		d[i] = make([]int8, coords.GridSize)
	}
	return d
}

func zeroIndexGrid(fill uint16) [][]uint16 {
	g := make([][]uint16, coords.TextureGridSize)
	for i := range g {
		g[i] = make([]uint16, coords.TextureGridSize)
		for j := range g[i] {
			g[i][j] = fill
		}
	}
	return g
}

func TestRunMergesMasterAndModHeight(t *testing.T) {
	coord := coords.Cell{X: 0, Y: 0}

	master := &plugin.ParsedPlugin{
		Identifier: "Morrowind",
		Textures:   []plugin.LandTextureRecord{{LocalID: 1, Filename: "tx_rock.tga"}},
		Landscapes: []plugin.LandscapeRecord{
			{Coord: coord, Height: &plugin.RawHeight{Deltas: zeroHeightDeltas(), Offset: 100},
				Index: &plugin.RawGridU16{Values: zeroIndexGrid(1)}},
		},
	}
	mod := &plugin.ParsedPlugin{
		Identifier: "MyMod",
		Masters:    []string{"Morrowind"},
		Textures:   []plugin.LandTextureRecord{{LocalID: 1, Filename: "tx_rock.tga"}},
		Landscapes: []plugin.LandscapeRecord{
			{Coord: coord, Height: &plugin.RawHeight{Deltas: zeroHeightDeltas(), Offset: 150}},
		},
	}

	ordered := []plugin.OrderedPlugin{
		{Plugin: master, Role: plugin.RoleMaster, Index: 0},
		{Plugin: mod, Role: plugin.RoleMod, Index: 1},
	}

	result, err := Run(ordered, policy.NewResolver(), Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Log.Entries) != 0 {
		t.Fatalf("expected no warnings for a clean run, got %+v", result.Log.Entries)
	}

	l := result.Landmass.Get(coord)
	if l == nil {
		t.Fatal("expected the merged landmass to contain the cell")
	}
	if l.Layers.Height.Offset != 150 {
		t.Fatalf("merged height offset = %v, want 150 (mod should overwrite the reference)", l.Layers.Height.Offset)
	}

	if result.VertexCount != coords.GridSize*coords.GridSize {
		t.Fatalf("VertexCount = %d, want %d", result.VertexCount, coords.GridSize*coords.GridSize)
	}

	if result.Landmass.Textures.Len() != 1 {
		t.Fatalf("expected the shared texture filename to dedup to 1 entry, got %d", result.Landmass.Textures.Len())
	}

	if len(result.Merged.Landscapes) != 1 {
		t.Fatalf("expected 1 merged landscape, got %d", len(result.Merged.Landscapes))
	}
}

func TestRunWarnsOnUnknownMaster(t *testing.T) {
	mod := &plugin.ParsedPlugin{
		Identifier: "OrphanMod",
		Masters:    []string{"NoSuchMaster"},
	}
	ordered := []plugin.OrderedPlugin{
		{Plugin: mod, Role: plugin.RoleMod, Index: 0},
	}

	result, err := Run(ordered, policy.NewResolver(), Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	found := false
	for _, e := range result.Log.Entries {
		if e.Plugin == "OrphanMod" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a warning entry for the mod's unresolved master")
	}
}

func TestRunDropsMalshapedLayers(t *testing.T) {
	coord := coords.Cell{X: 2, Y: 2}
	master := &plugin.ParsedPlugin{Identifier: "Morrowind"}
	mod := &plugin.ParsedPlugin{
		Identifier: "BadMod",
		Landscapes: []plugin.LandscapeRecord{
			{Coord: coord, Height: &plugin.RawHeight{Deltas: [][]int8{{1, 2}, {3, 4}}, Offset: 0}},
		},
	}
	ordered := []plugin.OrderedPlugin{
		{Plugin: master, Role: plugin.RoleMaster, Index: 0},
		{Plugin: mod, Role: plugin.RoleMod, Index: 1},
	}

	result, err := Run(ordered, policy.NewResolver(), Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	foundWarning := false
	for _, e := range result.Log.Entries {
		if e.Plugin == "BadMod" {
			foundWarning = true
		}
	}
	if !foundWarning {
		t.Fatal("expected a layer-shape-mismatch warning for the malformed height grid")
	}

	// The malformed height layer should have been dropped rather than
	// merged, so the cell should not carry a height layer at all.
	if l := result.Landmass.Get(coord); l != nil && l.Layers.Height != nil {
		t.Fatal("expected the malformed height layer to have been dropped")
	}
}
