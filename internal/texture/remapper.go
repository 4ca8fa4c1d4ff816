// Package texture implements the texture-index remapper: translating a
// plugin's local texture ids into the process-wide canonical ids every
// other component compares against (spec.md section 4.1).
package texture

import (
	"fmt"

	"github.com/Faultbox/merged-lands/internal/landscape"
	"github.com/Faultbox/merged-lands/internal/plugin"
)

// Mapping is one plugin's local-id -> global-id table, built by Ingest.
type Mapping struct {
	localToGlobal map[uint32]uint32
}

// Global translates a local texture id to its global id. An id with no
// declared entry falls back to DefaultTextureID, matching the on-disk
// rule that an undeclared index means "default texture".
func (m *Mapping) Global(local uint16) uint16 {
	if local == 0 {
		return landscape.DefaultTextureID
	}
	if g, ok := m.localToGlobal[uint32(local)]; ok {
		return uint16(g)
	}
	return landscape.DefaultTextureID
}

// Ingest records every local texture entry of p into table (inserting a
// canonical entry on first sight) and returns the resulting local->global
// mapping for translating p's texture-index grids.
func Ingest(table *landscape.TextureTable, p *plugin.ParsedPlugin) (*Mapping, error) {
	m := &Mapping{localToGlobal: make(map[uint32]uint32, len(p.Textures))}

	for _, rec := range p.Textures {
		key := landscape.CanonicalKey{
			Filename:  rec.Filename,
			HasFormID: rec.HasMasterFormID,
			FormID:    rec.MasterFormID,
		}
		global, err := table.Insert(key)
		if err != nil {
			return nil, fmt.Errorf("plugin %s: texture %q: %w", p.Identifier, rec.Filename, err)
		}
		m.localToGlobal[rec.LocalID] = global
	}

	return m, nil
}

// TranslateIndexField returns a new index field with every entry of raw
// translated from local to global ids via m. A nil raw yields a nil
// result.
func TranslateIndexField(m *Mapping, raw [][]uint16) *landscape.IndexField {
	if raw == nil {
		return nil
	}
	f := landscape.NewIndexField()
	for i, row := range raw {
		for j, local := range row {
			f.Indices[i][j] = m.Global(local)
		}
	}
	return f
}
