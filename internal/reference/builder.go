// Package reference implements the reference builder: replaying master
// plugins in load order to recover the canonical pre-mod landscape
// (spec.md section 4.2).
package reference

import (
	"fmt"

	"github.com/Faultbox/merged-lands/internal/landscape"
	"github.com/Faultbox/merged-lands/internal/plugin"
	"github.com/Faultbox/merged-lands/internal/texture"
)

// Build replays masters in order through the remapper and returns the
// resulting landmass. Each master's landscape record overwrites any
// earlier master's entry for the same cell, mirroring the game's own
// last-master-wins rule. The returned landmass must not be mutated
// afterward; callers needing a working copy should Clone it.
func Build(masters []*plugin.ParsedPlugin) (*landscape.Landmass, error) {
	table := landscape.NewTextureTable()
	lm := landscape.NewLandmass(table)

	for _, m := range masters {
		mapping, err := texture.Ingest(table, m)
		if err != nil {
			return nil, fmt.Errorf("building reference: %w", err)
		}

		for _, rec := range m.Landscapes {
			lm.Set(texture.ToLandscape(mapping, rec, m.Identifier))
		}
	}

	return lm, nil
}
