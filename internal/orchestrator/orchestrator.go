// Package orchestrator wires the reference builder, differ, merger,
// and seam reconciler into the single control flow described in
// spec.md section 2, given an ordered plugin list and global options
// (spec.md section 6, "Input from the orchestrator").
package orchestrator

import (
	"fmt"
	"sort"

	"github.com/Faultbox/merged-lands/internal/coords"
	"github.com/Faultbox/merged-lands/internal/diff"
	"github.com/Faultbox/merged-lands/internal/landscape"
	"github.com/Faultbox/merged-lands/internal/merge"
	"github.com/Faultbox/merged-lands/internal/plugin"
	"github.com/Faultbox/merged-lands/internal/reference"
	"github.com/Faultbox/merged-lands/internal/runlog"
	"github.com/Faultbox/merged-lands/internal/seam"
	"github.com/Faultbox/merged-lands/internal/texture"
)

// Options carries the global run options the orchestrator's caller
// supplies (spec.md section 6).
type Options struct {
	// HeightAutoThreshold overrides the Auto-strategy conflict
	// classification parameters. A zero value keeps the defaults.
	HeightAutoThreshold merge.ConflictParams
	// DebugVertexColors is carried in the options but not read by the
	// orchestrator or by any renderer in this module: provenance is
	// always computed, and output vertex colors are never altered by it.
	DebugVertexColors bool
}

// Result is everything downstream collaborators need: the merged
// landmass ready for serialization, the working state (for the
// conflict reporter), and the run log.
type Result struct {
	Merged      *plugin.MergedPlugin
	Landmass    *landscape.Landmass
	State       *merge.State
	Log         *runlog.Log
	VertexCount int
}

// Run executes one full merge: reference build, texture ingest, diff,
// merge, and seam reconciliation, in that order, exactly once.
func Run(plugins []plugin.OrderedPlugin, policy merge.PolicyLookup, opts Options) (*Result, error) {
	log := runlog.New()

	ordered := append([]plugin.OrderedPlugin(nil), plugins...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })

	var masters, mods []plugin.OrderedPlugin
	loadOrder := make(map[string]int, len(ordered))
	for _, p := range ordered {
		loadOrder[p.Plugin.Identifier] = p.Index
		if p.Role == plugin.RoleMaster {
			masters = append(masters, p)
		} else {
			mods = append(mods, p)
		}
	}

	masterPlugins := make([]*plugin.ParsedPlugin, len(masters))
	for i, m := range masters {
		masterPlugins[i] = m.Plugin
	}

	ref, err := reference.Build(masterPlugins)
	if err != nil {
		return nil, log.Fatal(runlog.InternalInvariant, "", "building reference: %v", err)
	}

	knownMasters := make(map[string]bool, len(masters))
	for _, m := range masters {
		knownMasters[m.Plugin.Identifier] = true
	}

	mappings := make(map[string]*texture.Mapping, len(mods))
	for _, mod := range mods {
		for _, want := range mod.Plugin.Masters {
			if !knownMasters[want] {
				log.Warn(runlog.UnknownMaster, mod.Plugin.Identifier, "references unknown master %q", want)
			}
		}
		mapping, err := texture.Ingest(ref.Textures, mod.Plugin)
		if err != nil {
			return nil, log.Fatal(runlog.InternalInvariant, mod.Plugin.Identifier, "ingesting textures: %v", err)
		}
		mappings[mod.Plugin.Identifier] = mapping
	}
	ref.Textures.Freeze()

	merger := merge.NewMerger()
	if opts.HeightAutoThreshold != (merge.ConflictParams{}) {
		merger.Params = opts.HeightAutoThreshold
	}

	inputs := make([]merge.Input, 0, len(mods))
	for _, mod := range mods {
		landscapes := make([]*landscape.Landscape, 0, len(mod.Plugin.Landscapes))
		for _, rec := range mod.Plugin.Landscapes {
			rec = dropMalshapedLayers(rec, mod.Plugin.Identifier, log)
			landscapes = append(landscapes, texture.ToLandscape(mappings[mod.Plugin.Identifier], rec, mod.Plugin.Identifier))
		}
		delta := diff.Compute(mod.Plugin.Identifier, landscapes, ref)
		inputs = append(inputs, merge.Input{Plugin: mod.Plugin.Identifier, Delta: delta})
	}

	state := merger.Merge(ref, inputs, policy)
	seam.Reconcile(state, loadOrder)

	merged := state.Landmass()
	vertexCount := 0
	for _, l := range merged.Cells {
		if l.Layers.Height != nil {
			vertexCount += coords.GridSize * coords.GridSize
		}
		if !merged.Textures.Contains(maxIndex(l.Layers.Indices)) {
			return nil, log.Fatal(runlog.InternalInvariant, l.SourcePlugin, "texture index out of table range at %s", l.Coord)
		}
	}

	description := fmt.Sprintf("merged %d plugin(s)", len(ordered))
	return &Result{
		Merged:      toMergedPlugin(merged, description),
		Landmass:    merged,
		State:       state,
		Log:         log,
		VertexCount: vertexCount,
	}, nil
}

func maxIndex(idx *landscape.IndexField) uint32 {
	if idx == nil {
		return landscape.DefaultTextureID
	}
	var max uint32
	for _, row := range idx.Indices {
		for _, v := range row {
			if uint32(v) > max {
				max = uint32(v)
			}
		}
	}
	return max
}

// dropMalshapedLayers warns and strips any layer whose grid dimensions
// do not match the canonical grid size for its kind, per spec.md
// section 7's "layer-shape mismatch" error kind.
func dropMalshapedLayers(rec plugin.LandscapeRecord, pluginName string, log *runlog.Log) plugin.LandscapeRecord {
	if rec.Height != nil && !squareOf(rec.Height.Deltas, coords.GridSize) {
		log.Warn(runlog.LayerShapeMismatch, pluginName, "height_map at %s: non-canonical shape", rec.Coord)
		rec.Height = nil
	}
	if rec.Normal != nil && !squareOf(rec.Normal.Values, coords.GridSize) {
		log.Warn(runlog.LayerShapeMismatch, pluginName, "vertex_normals at %s: non-canonical shape", rec.Coord)
		rec.Normal = nil
	}
	if rec.Color != nil && !squareOf(rec.Color.Values, coords.GridSize) {
		log.Warn(runlog.LayerShapeMismatch, pluginName, "vertex_colors at %s: non-canonical shape", rec.Coord)
		rec.Color = nil
	}
	if rec.Index != nil && !squareOf(rec.Index.Values, coords.TextureGridSize) {
		log.Warn(runlog.LayerShapeMismatch, pluginName, "texture_indices at %s: non-canonical shape", rec.Coord)
		rec.Index = nil
	}
	if rec.Map != nil && !squareOf(rec.Map.Values, coords.WorldMapGridSize) {
		log.Warn(runlog.LayerShapeMismatch, pluginName, "world_map_data at %s: non-canonical shape", rec.Coord)
		rec.Map = nil
	}
	return rec
}

func squareOf[T any](grid [][]T, want int) bool {
	if len(grid) != want {
		return false
	}
	for _, row := range grid {
		if len(row) != want {
			return false
		}
	}
	return true
}
